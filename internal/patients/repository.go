package patients

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
	Get(ctx context.Context, id int64) (*Patient, error)
	GetByNomorPasien(ctx context.Context, nomor string) (*Patient, error)
	List(ctx context.Context, req ListPatientsRequest) ([]Patient, int, error)
	// NextNomorPasien advances the per-year sequence row and returns the
	// formatted PT-YYYY-NNNNN number. Must run inside the same transaction
	// as the insert that consumes it.
	NextNomorPasien(ctx context.Context, year int) (string, error)
	Create(ctx context.Context, patient Patient) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
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

const patientColumns = `
	id, patient_id, nama_lengkap, tanggal_lahir, jenis_kelamin, no_telepon,
	email, alamat, kontak_darurat, telepon_darurat, persetujuan_diberikan,
	tanggal_persetujuan, blood_type, allergies, medical_history,
	current_medications, emergency_notes, created_by, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Patient, error) {
	row := r.db.QueryRow(ctx, `SELECT`+patientColumns+` FROM patients WHERE id = $1`, id)
	return scanPatient(row)
}

func (r *repository) GetByNomorPasien(ctx context.Context, nomor string) (*Patient, error) {
	row := r.db.QueryRow(ctx, `SELECT`+patientColumns+` FROM patients WHERE patient_id = $1`, nomor)
	return scanPatient(row)
}

func (r *repository) List(ctx context.Context, req ListPatientsRequest) ([]Patient, int, error) {
	whereClause := ""
	var args []any
	argPos := 1

	if req.Search != nil && *req.Search != "" {
		pattern := "%" + *req.Search + "%"
		whereClause = fmt.Sprintf("WHERE (patient_id ILIKE $%d OR nama_lengkap ILIKE $%d OR no_telepon ILIKE $%d)", argPos, argPos, argPos)
		args = append(args, pattern)
		argPos++
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM patients "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT%s FROM patients %s ORDER BY nama_lengkap LIMIT $%d OFFSET $%d`,
		patientColumns, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}

func (r *repository) NextNomorPasien(ctx context.Context, year int) (string, error) {
	var seq int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO patient_number_seq (tahun, last_value)
		VALUES ($1, 1)
		ON CONFLICT (tahun) DO UPDATE SET last_value = patient_number_seq.last_value + 1
		RETURNING last_value`, year).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("advance patient number sequence: %w", err)
	}
	return fmt.Sprintf("PT-%d-%05d", year, seq), nil
}

func (r *repository) Create(ctx context.Context, patient Patient) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO patients (
			patient_id, nama_lengkap, tanggal_lahir, jenis_kelamin, no_telepon,
			email, alamat, kontak_darurat, telepon_darurat, persetujuan_diberikan,
			tanggal_persetujuan, blood_type, allergies, medical_history,
			current_medications, emergency_notes, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW(), NOW())
		RETURNING id`,
		patient.NomorPasien, patient.NamaLengkap, patient.TanggalLahir,
		patient.JenisKelamin, patient.NoTelepon, patient.Email, patient.Alamat,
		patient.KontakDarurat, patient.TeleponDarurat, patient.PersetujuanDiberikan,
		patient.TanggalPersetujuan, patient.GolonganDarah, patient.Alergi,
		patient.RiwayatMedis, patient.ObatSaatIni, patient.CatatanDarurat,
		patient.CreatedBy,
	).Scan(&id)
	return id, err
}

var updatableColumns = map[string]string{
	"nama_lengkap":          "nama_lengkap",
	"tanggal_lahir":         "tanggal_lahir",
	"jenis_kelamin":         "jenis_kelamin",
	"no_telepon":            "no_telepon",
	"email":                 "email",
	"alamat":                "alamat",
	"kontak_darurat":        "kontak_darurat",
	"telepon_darurat":       "telepon_darurat",
	"persetujuan_diberikan": "persetujuan_diberikan",
	"tanggal_persetujuan":   "tanggal_persetujuan",
	"golongan_darah":        "blood_type",
	"alergi":                "allergies",
	"riwayat_medis":         "medical_history",
	"obat_saat_ini":         "current_medications",
	"catatan_darurat":       "emergency_notes",
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	query := "UPDATE patients SET updated_at = NOW()"
	var args []any
	argPos := 1
	for field, column := range updatableColumns {
		if v, ok := updates[field]; ok {
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

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM patients WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	var noTelepon, email, alamat, kontak, telepon, tglSetuju pgtype.Text
	var alergi, riwayat, obat, catatan pgtype.Text
	var createdBy pgtype.Int8
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(
		&p.ID, &p.NomorPasien, &p.NamaLengkap, &p.TanggalLahir, &p.JenisKelamin,
		&noTelepon, &email, &alamat, &kontak, &telepon, &p.PersetujuanDiberikan,
		&tglSetuju, &p.GolonganDarah, &alergi, &riwayat, &obat, &catatan,
		&createdBy, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	p.NoTelepon = textPtr(noTelepon)
	p.Email = textPtr(email)
	p.Alamat = textPtr(alamat)
	p.KontakDarurat = textPtr(kontak)
	p.TeleponDarurat = textPtr(telepon)
	p.TanggalPersetujuan = textPtr(tglSetuju)
	p.Alergi = textPtr(alergi)
	p.RiwayatMedis = textPtr(riwayat)
	p.ObatSaatIni = textPtr(obat)
	p.CatatanDarurat = textPtr(catatan)
	if createdBy.Valid {
		p.CreatedBy = &createdBy.Int64
	}
	if createdAt.Valid {
		p.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.Time
	}
	return &p, nil
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}
