package treatments

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
	Get(ctx context.Context, id int64) (*TreatmentPlan, error)
	ListByPatient(ctx context.Context, patientID int64) ([]TreatmentPlan, error)
	Create(ctx context.Context, plan TreatmentPlan) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	// IncrementCompleted bumps jumlah_sesi_selesai on the patient's single
	// running plan. shared.ErrNotFound when no plan is berlangsung.
	IncrementCompleted(ctx context.Context, patientID int64) (*TreatmentPlan, error)
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

const planColumns = `
	id, patient_id, fisioterapis_id, diagnosis, tujuan,
	jumlah_sesi_direncanakan, jumlah_sesi_selesai, status, tanggal_mulai,
	tanggal_selesai, catatan, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*TreatmentPlan, error) {
	row := r.db.QueryRow(ctx, `SELECT`+planColumns+` FROM treatment_plans WHERE id = $1`, id)
	return scanPlan(row)
}

func (r *repository) ListByPatient(ctx context.Context, patientID int64) ([]TreatmentPlan, error) {
	rows, err := r.db.Query(ctx, `SELECT`+planColumns+`
		FROM treatment_plans WHERE patient_id = $1 ORDER BY created_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TreatmentPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, plan TreatmentPlan) (int64, error) {
	var tujuan *string
	if len(plan.Tujuan) > 0 {
		s := string(plan.Tujuan)
		tujuan = &s
	}
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO treatment_plans (patient_id, fisioterapis_id, diagnosis,
			tujuan, jumlah_sesi_direncanakan, jumlah_sesi_selesai, status,
			tanggal_mulai, tanggal_selesai, catatan, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id`,
		plan.PatientID, plan.FisioterapisID, plan.Diagnosis, tujuan,
		plan.JumlahSesiDirencanakan, string(plan.Status), plan.TanggalMulai,
		plan.TanggalSelesai, plan.Catatan,
	).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	query := "UPDATE treatment_plans SET updated_at = NOW()"
	var args []any
	argPos := 1
	for _, column := range []string{"diagnosis", "tujuan", "jumlah_sesi_direncanakan", "status", "tanggal_mulai", "tanggal_selesai", "catatan"} {
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

func (r *repository) IncrementCompleted(ctx context.Context, patientID int64) (*TreatmentPlan, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE treatment_plans
		SET jumlah_sesi_selesai = jumlah_sesi_selesai + 1, updated_at = NOW()
		WHERE id = (
			SELECT id FROM treatment_plans
			WHERE patient_id = $1 AND status = 'berlangsung'
			ORDER BY created_at DESC LIMIT 1
		)
		RETURNING`+planColumns, patientID)
	return scanPlan(row)
}

func scanPlan(row pgx.Row) (*TreatmentPlan, error) {
	var p TreatmentPlan
	var diagnosis, tujuan, mulai, selesai, catatan pgtype.Text
	var direncanakan pgtype.Int4
	var status string
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(&p.ID, &p.PatientID, &p.FisioterapisID, &diagnosis, &tujuan,
		&direncanakan, &p.JumlahSesiSelesai, &status, &mulai, &selesai,
		&catatan, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	p.Status = PlanStatus(status)
	if diagnosis.Valid {
		p.Diagnosis = &diagnosis.String
	}
	if tujuan.Valid {
		p.Tujuan = []byte(tujuan.String)
	}
	if direncanakan.Valid {
		n := int(direncanakan.Int32)
		p.JumlahSesiDirencanakan = &n
	}
	if mulai.Valid {
		p.TanggalMulai = &mulai.String
	}
	if selesai.Valid {
		p.TanggalSelesai = &selesai.String
	}
	if catatan.Valid {
		p.Catatan = &catatan.String
	}
	if createdAt.Valid {
		p.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.Time
	}
	return &p, nil
}
