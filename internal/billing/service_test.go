package billing

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fisioklinik/fisioklinik/internal/audit"
	"github.com/fisioklinik/fisioklinik/internal/platform/httpx"
	"github.com/fisioklinik/fisioklinik/internal/shared"
)

type stubRepo struct {
	invoices map[int64]*Invoice
	payments []Payment
	seq      map[string]int64
	nextID   int64
	inTx     bool
	txTrace  []string
}

func newStubRepo() *stubRepo {
	return &stubRepo{invoices: make(map[int64]*Invoice), seq: make(map[string]int64)}
}

func (r *stubRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	r.inTx = true
	defer func() { r.inTx = false }()
	return fn(ctx, r)
}

func (r *stubRepo) GetInvoice(ctx context.Context, id int64) (*Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *stubRepo) ListInvoices(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	var out []Invoice
	for _, inv := range r.invoices {
		out = append(out, *inv)
	}
	return out, len(out), nil
}

func (r *stubRepo) NextNomorInvoice(ctx context.Context, periode string) (string, error) {
	r.txTrace = append(r.txTrace, fmt.Sprintf("seq:%v", r.inTx))
	r.seq[periode]++
	return fmt.Sprintf("INV-%s-%04d", periode, r.seq[periode]), nil
}

func (r *stubRepo) CreateInvoice(ctx context.Context, inv Invoice) (int64, error) {
	r.txTrace = append(r.txTrace, fmt.Sprintf("insert:%v", r.inTx))
	r.nextID++
	inv.ID = r.nextID
	r.invoices[inv.ID] = &inv
	return inv.ID, nil
}

func (r *stubRepo) SetInvoiceStatus(ctx context.Context, id int64, status InvoiceStatus) error {
	inv, ok := r.invoices[id]
	if !ok {
		return shared.ErrNotFound
	}
	inv.Status = status
	return nil
}

func (r *stubRepo) CreatePayment(ctx context.Context, p Payment) (int64, error) {
	r.nextID++
	p.ID = r.nextID
	r.payments = append(r.payments, p)
	return p.ID, nil
}

func (r *stubRepo) ListPayments(ctx context.Context, invoiceID int64) ([]Payment, error) {
	var out []Payment
	for _, p := range r.payments {
		if p.InvoiceID == invoiceID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubRepo) SumPayments(ctx context.Context, invoiceID int64) (int64, error) {
	var total int64
	for _, p := range r.payments {
		if p.InvoiceID == invoiceID {
			total += p.Jumlah
		}
	}
	return total, nil
}

type auditCapture struct {
	tables []string
}

func (c *auditCapture) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.tables = append(c.tables, args[2].(string))
	return pgconn.CommandTag{}, nil
}

func newTestService() (*Service, *stubRepo, *auditCapture) {
	repo := newStubRepo()
	capture := &auditCapture{}
	return NewService(repo, audit.NewWriter(capture, nil)), repo, capture
}

func TestCreateInvoiceNumbersByIssueMonth(t *testing.T) {
	svc, repo, capture := newTestService()

	first, err := svc.CreateInvoice(context.Background(), CreateInvoiceRequest{
		PatientID: 1, Jumlah: 250000, TanggalTerbit: "2026-03-05",
	}, 9)
	require.NoError(t, err)
	second, err := svc.CreateInvoice(context.Background(), CreateInvoiceRequest{
		PatientID: 2, Jumlah: 300000, TanggalTerbit: "2026-03-20",
	}, 9)
	require.NoError(t, err)
	april, err := svc.CreateInvoice(context.Background(), CreateInvoiceRequest{
		PatientID: 1, Jumlah: 250000, TanggalTerbit: "2026-04-01",
	}, 9)
	require.NoError(t, err)

	assert.Equal(t, "INV-202603-0001", first.NomorInvoice)
	assert.Equal(t, "INV-202603-0002", second.NomorInvoice)
	assert.Equal(t, "INV-202604-0001", april.NomorInvoice)

	// Sequence draw and insert happen inside one transaction.
	assert.Equal(t, []string{"seq:true", "insert:true", "seq:true", "insert:true", "seq:true", "insert:true"}, repo.txTrace)
	assert.Equal(t, []string{"invoices", "invoices", "invoices"}, capture.tables)
}

func TestRecordPaymentPartialThenPaid(t *testing.T) {
	svc, repo, capture := newTestService()
	repo.invoices[1] = &Invoice{ID: 1, Jumlah: 500000, Status: StatusBelumBayar}

	_, inv, err := svc.RecordPayment(context.Background(), 1, RecordPaymentRequest{
		Jumlah: 200000, MetodePembayaran: "tunai", TanggalPembayaran: "2026-03-10",
	}, 9)
	require.NoError(t, err)
	assert.Equal(t, StatusSebagian, inv.Status)
	assert.Equal(t, int64(200000), inv.TotalDibayar)

	_, inv, err = svc.RecordPayment(context.Background(), 1, RecordPaymentRequest{
		Jumlah: 300000, MetodePembayaran: "qris", TanggalPembayaran: "2026-03-12",
	}, 9)
	require.NoError(t, err)
	assert.Equal(t, StatusLunas, inv.Status)
	assert.Equal(t, int64(500000), inv.TotalDibayar)
	assert.Equal(t, StatusLunas, repo.invoices[1].Status)

	assert.Equal(t, []string{"payments", "payments"}, capture.tables)
}

func TestRecordPaymentOnPaidInvoiceRejected(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.invoices[1] = &Invoice{ID: 1, Jumlah: 500000, Status: StatusLunas}

	_, _, err := svc.RecordPayment(context.Background(), 1, RecordPaymentRequest{
		Jumlah: 100000, MetodePembayaran: "tunai", TanggalPembayaran: "2026-03-10",
	}, 9)
	assert.ErrorIs(t, err, httpx.ErrConflict)
	assert.Empty(t, repo.payments)
}

func TestRecordPaymentUnknownInvoice(t *testing.T) {
	svc, _, _ := newTestService()

	_, _, err := svc.RecordPayment(context.Background(), 42, RecordPaymentRequest{
		Jumlah: 100000, MetodePembayaran: "tunai", TanggalPembayaran: "2026-03-10",
	}, 9)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGetInvoiceIncludesPaidTotal(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.invoices[1] = &Invoice{ID: 1, Jumlah: 500000, Status: StatusSebagian}
	repo.payments = append(repo.payments, Payment{InvoiceID: 1, Jumlah: 150000})

	inv, err := svc.GetInvoice(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(150000), inv.TotalDibayar)
}
