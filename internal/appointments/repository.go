package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fisioklinik/fisioklinik/internal/shared"
)

type Repository interface {
	Get(ctx context.Context, id int64) (*Appointment, error)
	List(ctx context.Context, req ListAppointmentsRequest) ([]Appointment, int, error)
	Create(ctx context.Context, appt Appointment) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	UpdateStatus(ctx context.Context, id int64, status Status) error
	Delete(ctx context.Context, id int64) error
}

type dbtx interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type repository struct {
	db dbtx
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

var _ Repository = (*repository)(nil)

const selectAppointment = `
	SELECT a.id, a.patient_id, a.fisioterapis_id, a.tanggal_waktu, a.durasi_menit,
	       a.status, a.catatan, p.nama_lengkap, u.nama_lengkap, a.created_at, a.updated_at
	FROM appointments a
	JOIN patients p ON p.id = a.patient_id
	JOIN users u ON u.id = a.fisioterapis_id`

func (r *repository) Get(ctx context.Context, id int64) (*Appointment, error) {
	row := r.db.QueryRow(ctx, selectAppointment+" WHERE a.id = $1", id)
	return scanAppointment(row)
}

func (r *repository) List(ctx context.Context, req ListAppointmentsRequest) ([]Appointment, int, error) {
	var conditions []string
	var args []any
	argPos := 1

	if req.Tanggal != nil && *req.Tanggal != "" {
		conditions = append(conditions, fmt.Sprintf("a.tanggal_waktu LIKE $%d", argPos))
		args = append(args, *req.Tanggal+"%")
		argPos++
	}
	if req.FisioterapisID != nil {
		conditions = append(conditions, fmt.Sprintf("a.fisioterapis_id = $%d", argPos))
		args = append(args, *req.FisioterapisID)
		argPos++
	}
	if req.PatientID != nil {
		conditions = append(conditions, fmt.Sprintf("a.patient_id = $%d", argPos))
		args = append(args, *req.PatientID)
		argPos++
	}
	if req.Status != nil && *req.Status != "" {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argPos))
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
	countQuery := "SELECT COUNT(*) FROM appointments a" + whereClause
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("%s%s ORDER BY a.tanggal_waktu LIMIT $%d OFFSET $%d",
		selectAppointment, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *appt)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, appt Appointment) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO appointments (patient_id, fisioterapis_id, tanggal_waktu, durasi_menit, status, catatan, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id`,
		appt.PatientID, appt.FisioterapisID, appt.TanggalWaktu, appt.DurasiMenit,
		string(appt.Status), appt.Catatan,
	).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	query := "UPDATE appointments SET updated_at = NOW()"
	var args []any
	argPos := 1
	for _, column := range []string{"fisioterapis_id", "tanggal_waktu", "durasi_menit", "catatan"} {
		if v, ok := updates[column]; ok {
			query += fmt.Sprintf(", %s = $%d", column, argPos)
			args = append(args, v)
			argPos++
		}
	}
	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE appointments SET status = $1, updated_at = NOW() WHERE id = $2",
		string(status), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM appointments WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var status string
	var catatan pgtype.Text
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(
		&a.ID, &a.PatientID, &a.FisioterapisID, &a.TanggalWaktu, &a.DurasiMenit,
		&status, &catatan, &a.NamaPasien, &a.NamaTerapis, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	a.Status = Status(status)
	if catatan.Valid {
		a.Catatan = &catatan.String
	}
	if createdAt.Valid {
		a.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		a.UpdatedAt = updatedAt.Time
	}
	return &a, nil
}
