package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fisioklinik/fisioklinik/internal/platform/db"
	"github.com/fisioklinik/fisioklinik/internal/shared"
)

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	GetInvoice(ctx context.Context, id int64) (*Invoice, error)
	ListInvoices(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error)
	// NextNomorInvoice advances the per-period sequence row and returns the
	// formatted INV-YYYYMM-NNNN number. Must share the transaction with the
	// insert that consumes it.
	NextNomorInvoice(ctx context.Context, periode string) (string, error)
	CreateInvoice(ctx context.Context, inv Invoice) (int64, error)
	SetInvoiceStatus(ctx context.Context, id int64, status InvoiceStatus) error
	CreatePayment(ctx context.Context, p Payment) (int64, error)
	ListPayments(ctx context.Context, invoiceID int64) ([]Payment, error)
	// SumPayments totals recorded payments for the invoice.
	SumPayments(ctx context.Context, invoiceID int64) (int64, error)
}

type dbtx interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

var _ Repository = (*repository)(nil)

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const invoiceColumns = `
	id, nomor_invoice, patient_id, appointment_id, jumlah, deskripsi, status,
	tanggal_terbit, tanggal_jatuh_tempo, created_at, updated_at`

func (r *repository) GetInvoice(ctx context.Context, id int64) (*Invoice, error) {
	row := r.db.QueryRow(ctx, `SELECT`+invoiceColumns+` FROM invoices WHERE id = $1`, id)
	return scanInvoice(row)
}

func (r *repository) ListInvoices(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	var conditions []string
	var args []any
	argPos := 1

	if req.PatientID != nil {
		conditions = append(conditions, fmt.Sprintf("patient_id = $%d", argPos))
		args = append(args, *req.PatientID)
		argPos++
	}
	if req.Status != nil && *req.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}

	whereClause := ""
	for i, cond := range conditions {
		if i == 0 {
			whereClause = " WHERE " + cond
		} else {
			whereClause += " AND " + cond
		}
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM invoices"+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT%s FROM invoices%s ORDER BY tanggal_terbit DESC, id DESC LIMIT $%d OFFSET $%d",
		invoiceColumns, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *inv)
	}
	return out, total, rows.Err()
}

func (r *repository) NextNomorInvoice(ctx context.Context, periode string) (string, error) {
	var seq int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO invoice_number_seq (periode, last_value)
		VALUES ($1, 1)
		ON CONFLICT (periode) DO UPDATE SET last_value = invoice_number_seq.last_value + 1
		RETURNING last_value`, periode).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("advance invoice number sequence: %w", err)
	}
	return fmt.Sprintf("INV-%s-%04d", periode, seq), nil
}

func (r *repository) CreateInvoice(ctx context.Context, inv Invoice) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO invoices (nomor_invoice, patient_id, appointment_id, jumlah,
			deskripsi, status, tanggal_terbit, tanggal_jatuh_tempo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id`,
		inv.NomorInvoice, inv.PatientID, inv.AppointmentID, inv.Jumlah,
		inv.Deskripsi, string(inv.Status), inv.TanggalTerbit, inv.TanggalJatuhTempo,
	).Scan(&id)
	return id, err
}

func (r *repository) SetInvoiceStatus(ctx context.Context, id int64, status InvoiceStatus) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE invoices SET status = $1, updated_at = NOW() WHERE id = $2",
		string(status), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) CreatePayment(ctx context.Context, p Payment) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO payments (invoice_id, jumlah, metode_pembayaran,
			tanggal_pembayaran, diterima_oleh, catatan, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id`,
		p.InvoiceID, p.Jumlah, string(p.MetodePembayaran), p.TanggalPembayaran,
		p.DiterimaOleh, p.Catatan,
	).Scan(&id)
	return id, err
}

func (r *repository) ListPayments(ctx context.Context, invoiceID int64) ([]Payment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, invoice_id, jumlah, metode_pembayaran, tanggal_pembayaran,
		       diterima_oleh, catatan, created_at
		FROM payments WHERE invoice_id = $1 ORDER BY tanggal_pembayaran`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		var p Payment
		var metode string
		var diterima pgtype.Int8
		var catatan pgtype.Text
		var createdAt pgtype.Timestamptz

		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.Jumlah, &metode,
			&p.TanggalPembayaran, &diterima, &catatan, &createdAt); err != nil {
			return nil, err
		}
		p.MetodePembayaran = PaymentMethod(metode)
		if diterima.Valid {
			p.DiterimaOleh = &diterima.Int64
		}
		if catatan.Valid {
			p.Catatan = &catatan.String
		}
		if createdAt.Valid {
			p.CreatedAt = createdAt.Time
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repository) SumPayments(ctx context.Context, invoiceID int64) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx,
		"SELECT COALESCE(SUM(jumlah), 0) FROM payments WHERE invoice_id = $1",
		invoiceID).Scan(&total)
	return total, err
}

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	var apptID pgtype.Int8
	var deskripsi, jatuhTempo pgtype.Text
	var status string
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(&inv.ID, &inv.NomorInvoice, &inv.PatientID, &apptID,
		&inv.Jumlah, &deskripsi, &status, &inv.TanggalTerbit, &jatuhTempo,
		&createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	inv.Status = InvoiceStatus(status)
	if apptID.Valid {
		inv.AppointmentID = &apptID.Int64
	}
	if deskripsi.Valid {
		inv.Deskripsi = &deskripsi.String
	}
	if jatuhTempo.Valid {
		inv.TanggalJatuhTempo = &jatuhTempo.String
	}
	if createdAt.Valid {
		inv.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		inv.UpdatedAt = updatedAt.Time
	}
	return &inv, nil
}
