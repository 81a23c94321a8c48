package reports

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	MonthlyRevenue(ctx context.Context, from, to string) ([]MonthlyRevenue, error)
	AppointmentStatusCounts(ctx context.Context, from, to string) ([]StatusCount, error)
	NewPatientsPerMonth(ctx context.Context, from, to string) ([]NewPatients, error)
	TherapistWorkload(ctx context.Context, from, to string) ([]TherapistLoad, error)
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

func (r *repository) MonthlyRevenue(ctx context.Context, from, to string) ([]MonthlyRevenue, error) {
	rows, err := r.db.Query(ctx, `
		SELECT substring(tanggal_pembayaran from 1 for 7) AS bulan,
		       COALESCE(SUM(jumlah), 0), COUNT(*)
		FROM payments
		WHERE tanggal_pembayaran >= $1 AND tanggal_pembayaran <= $2
		GROUP BY bulan ORDER BY bulan`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MonthlyRevenue
	for rows.Next() {
		var m MonthlyRevenue
		if err := rows.Scan(&m.Bulan, &m.Jumlah, &m.JumlahTransaksi); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *repository) AppointmentStatusCounts(ctx context.Context, from, to string) ([]StatusCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT status, COUNT(*)
		FROM appointments
		WHERE tanggal_waktu >= $1 AND tanggal_waktu <= $2
		GROUP BY status ORDER BY status`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StatusCount
	for rows.Next() {
		var c StatusCount
		if err := rows.Scan(&c.Status, &c.Total); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repository) NewPatientsPerMonth(ctx context.Context, from, to string) ([]NewPatients, error) {
	rows, err := r.db.Query(ctx, `
		SELECT to_char(created_at, 'YYYY-MM') AS bulan, COUNT(*)
		FROM patients
		WHERE created_at >= $1::date AND created_at < $2::date + INTERVAL '1 day'
		GROUP BY bulan ORDER BY bulan`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []NewPatients
	for rows.Next() {
		var n NewPatients
		if err := rows.Scan(&n.Bulan, &n.Total); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *repository) TherapistWorkload(ctx context.Context, from, to string) ([]TherapistLoad, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.nama_lengkap,
		       (SELECT COUNT(*) FROM appointments a
		        WHERE a.fisioterapis_id = u.id
		          AND a.tanggal_waktu >= $1 AND a.tanggal_waktu <= $2),
		       (SELECT COUNT(*) FROM session_notes n
		        WHERE n.fisioterapis_id = u.id
		          AND n.tanggal_sesi >= $1 AND n.tanggal_sesi <= $2)
		FROM users u
		WHERE u.role = 'fisioterapis' AND u.is_active
		ORDER BY u.nama_lengkap`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TherapistLoad
	for rows.Next() {
		var t TherapistLoad
		if err := rows.Scan(&t.FisioterapisID, &t.NamaLengkap, &t.JumlahJanji, &t.JumlahSesi); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
