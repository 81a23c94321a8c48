package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/fisioklinik/fisioklinik/internal/audit"
	"github.com/fisioklinik/fisioklinik/internal/platform/httpx"
)

type Service struct {
	repo  Repository
	audit *audit.Writer
	now   func() time.Time
}

func NewService(repo Repository, auditWriter *audit.Writer) *Service {
	return &Service{repo: repo, audit: auditWriter, now: time.Now}
}

// CreateInvoice draws the next invoice number and inserts the row in one
// transaction, keyed on the issue month, so concurrent issuance cannot
// produce duplicate numbers.
func (s *Service) CreateInvoice(ctx context.Context, req CreateInvoiceRequest, actorID int64) (*Invoice, error) {
	issued, err := time.Parse("2006-01-02", req.TanggalTerbit)
	if err != nil {
		return nil, fmt.Errorf("%w: tanggal_terbit tidak valid", httpx.ErrValidation)
	}

	inv := Invoice{
		PatientID:         req.PatientID,
		AppointmentID:     req.AppointmentID,
		Jumlah:            req.Jumlah,
		Deskripsi:         req.Deskripsi,
		Status:            StatusBelumBayar,
		TanggalTerbit:     req.TanggalTerbit,
		TanggalJatuhTempo: req.TanggalJatuhTempo,
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		nomor, err := repo.NextNomorInvoice(ctx, issued.Format("200601"))
		if err != nil {
			return err
		}
		inv.NomorInvoice = nomor
		inv.ID, err = repo.CreateInvoice(ctx, inv)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	s.audit.RecordActivity(ctx, &actorID, audit.ActionCreate, "invoices", &inv.ID, nil, inv)
	return &inv, nil
}

func (s *Service) GetInvoice(ctx context.Context, id int64) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	paid, err := s.repo.SumPayments(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.TotalDibayar = paid
	return inv, nil
}

func (s *Service) ListInvoices(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	return s.repo.ListInvoices(ctx, req)
}

func (s *Service) ListPayments(ctx context.Context, invoiceID int64) ([]Payment, error) {
	if _, err := s.repo.GetInvoice(ctx, invoiceID); err != nil {
		return nil, err
	}
	return s.repo.ListPayments(ctx, invoiceID)
}

// RecordPayment stores the payment and recomputes the invoice status from the
// paid total, all inside one transaction.
func (s *Service) RecordPayment(ctx context.Context, invoiceID int64, req RecordPaymentRequest, receivedBy int64) (*Payment, *Invoice, error) {
	var payment Payment
	var invoice *Invoice

	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		inv, err := repo.GetInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv.Status == StatusLunas {
			return fmt.Errorf("%w: invoice sudah lunas", httpx.ErrConflict)
		}

		payment = Payment{
			InvoiceID:         invoiceID,
			Jumlah:            req.Jumlah,
			MetodePembayaran:  PaymentMethod(req.MetodePembayaran),
			TanggalPembayaran: req.TanggalPembayaran,
			DiterimaOleh:      &receivedBy,
			Catatan:           req.Catatan,
		}
		payment.ID, err = repo.CreatePayment(ctx, payment)
		if err != nil {
			return err
		}

		paid, err := repo.SumPayments(ctx, invoiceID)
		if err != nil {
			return err
		}
		status := StatusSebagian
		if paid >= inv.Jumlah {
			status = StatusLunas
		}
		if err := repo.SetInvoiceStatus(ctx, invoiceID, status); err != nil {
			return err
		}

		inv.Status = status
		inv.TotalDibayar = paid
		invoice = inv
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.audit.RecordActivity(ctx, &receivedBy, audit.ActionCreate, "payments", &payment.ID, nil, payment)
	return &payment, invoice, nil
}
