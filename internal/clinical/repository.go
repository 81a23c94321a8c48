package clinical

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
	GetAssessment(ctx context.Context, id int64) (*Assessment, error)
	ListAssessments(ctx context.Context, patientID int64, page shared.Page) ([]Assessment, error)
	CreateAssessment(ctx context.Context, a Assessment) (int64, error)
	UpdateAssessment(ctx context.Context, id int64, updates map[string]any) error

	GetSessionNote(ctx context.Context, id int64) (*SessionNote, error)
	ListSessionNotes(ctx context.Context, patientID int64, page shared.Page) ([]SessionNote, error)
	CreateSessionNote(ctx context.Context, n SessionNote) (int64, error)

	ListOutcomeMeasures(ctx context.Context, patientID int64, measureType string) ([]OutcomeMeasure, error)
	CreateOutcomeMeasure(ctx context.Context, m OutcomeMeasure) (int64, error)
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

const assessmentColumns = `
	id, patient_id, fisioterapis_id, tanggal_assessment, keluhan_utama,
	kondisi_cedera, bagian_tubuh_terdampak, skala_nyeri, catatan_rom,
	catatan_tambahan, created_at, updated_at`

func (r *repository) GetAssessment(ctx context.Context, id int64) (*Assessment, error) {
	row := r.db.QueryRow(ctx, `SELECT`+assessmentColumns+` FROM assessments WHERE id = $1`, id)
	return scanAssessment(row)
}

func (r *repository) ListAssessments(ctx context.Context, patientID int64, page shared.Page) ([]Assessment, error) {
	rows, err := r.db.Query(ctx, `SELECT`+assessmentColumns+`
		FROM assessments WHERE patient_id = $1
		ORDER BY tanggal_assessment DESC LIMIT $2 OFFSET $3`,
		patientID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *repository) CreateAssessment(ctx context.Context, a Assessment) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO assessments (patient_id, fisioterapis_id, tanggal_assessment,
			keluhan_utama, kondisi_cedera, bagian_tubuh_terdampak, skala_nyeri,
			catatan_rom, catatan_tambahan, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id`,
		a.PatientID, a.FisioterapisID, a.TanggalAssessment, a.KeluhanUtama,
		a.KondisiCedera, a.BagianTubuhTerdampak, a.SkalaNyeri, a.CatatanROM,
		a.CatatanTambahan,
	).Scan(&id)
	return id, err
}

func (r *repository) UpdateAssessment(ctx context.Context, id int64, updates map[string]any) error {
	query := "UPDATE assessments SET updated_at = NOW()"
	var args []any
	argPos := 1
	for _, column := range []string{"keluhan_utama", "kondisi_cedera", "bagian_tubuh_terdampak", "skala_nyeri", "catatan_rom", "catatan_tambahan"} {
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

const sessionNoteColumns = `
	id, appointment_id, patient_id, fisioterapis_id, tanggal_sesi, subjective,
	objective, assessment, plan, tindakan_dilakukan, durasi_menit, created_at, updated_at`

func (r *repository) GetSessionNote(ctx context.Context, id int64) (*SessionNote, error) {
	row := r.db.QueryRow(ctx, `SELECT`+sessionNoteColumns+` FROM session_notes WHERE id = $1`, id)
	return scanSessionNote(row)
}

func (r *repository) ListSessionNotes(ctx context.Context, patientID int64, page shared.Page) ([]SessionNote, error) {
	rows, err := r.db.Query(ctx, `SELECT`+sessionNoteColumns+`
		FROM session_notes WHERE patient_id = $1
		ORDER BY tanggal_sesi DESC LIMIT $2 OFFSET $3`,
		patientID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionNote
	for rows.Next() {
		n, err := scanSessionNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

func (r *repository) CreateSessionNote(ctx context.Context, n SessionNote) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO session_notes (appointment_id, patient_id, fisioterapis_id,
			tanggal_sesi, subjective, objective, assessment, plan,
			tindakan_dilakukan, durasi_menit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id`,
		n.AppointmentID, n.PatientID, n.FisioterapisID, n.TanggalSesi,
		n.Subjective, n.Objective, n.Assessment, n.Plan, n.TindakanDilakukan,
		n.DurasiMenit,
	).Scan(&id)
	return id, err
}

func (r *repository) ListOutcomeMeasures(ctx context.Context, patientID int64, measureType string) ([]OutcomeMeasure, error) {
	query := `SELECT id, patient_id, recorded_by, recorded_at, measure_type, score,
		max_score, body_part, condition, responses, interpretation, notes, created_at
		FROM outcome_measures WHERE patient_id = $1`
	args := []any{patientID}
	if measureType != "" {
		query += " AND measure_type = $2"
		args = append(args, measureType)
	}
	query += " ORDER BY recorded_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OutcomeMeasure
	for rows.Next() {
		var m OutcomeMeasure
		var measureType string
		var maxScore pgtype.Float8
		var bodyPart, condition, responses, interpretation, notes pgtype.Text
		var createdAt pgtype.Timestamptz

		err := rows.Scan(&m.ID, &m.PatientID, &m.RecordedBy, &m.RecordedAt,
			&measureType, &m.Score, &maxScore, &bodyPart, &condition,
			&responses, &interpretation, &notes, &createdAt)
		if err != nil {
			return nil, err
		}
		m.MeasureType = MeasureType(measureType)
		if maxScore.Valid {
			m.MaxScore = &maxScore.Float64
		}
		m.BodyPart = textPtr(bodyPart)
		m.Condition = textPtr(condition)
		if responses.Valid {
			m.Responses = []byte(responses.String)
		}
		m.Interpretation = textPtr(interpretation)
		m.Notes = textPtr(notes)
		if createdAt.Valid {
			m.CreatedAt = createdAt.Time
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *repository) CreateOutcomeMeasure(ctx context.Context, m OutcomeMeasure) (int64, error) {
	var responses *string
	if len(m.Responses) > 0 {
		s := string(m.Responses)
		responses = &s
	}
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO outcome_measures (patient_id, recorded_by, recorded_at,
			measure_type, score, max_score, body_part, condition, responses,
			interpretation, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING id`,
		m.PatientID, m.RecordedBy, m.RecordedAt, string(m.MeasureType), m.Score,
		m.MaxScore, m.BodyPart, m.Condition, responses, m.Interpretation, m.Notes,
	).Scan(&id)
	return id, err
}

func scanAssessment(row pgx.Row) (*Assessment, error) {
	var a Assessment
	var kondisi, bagian, rom, tambahan pgtype.Text
	var skala pgtype.Int4
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(&a.ID, &a.PatientID, &a.FisioterapisID, &a.TanggalAssessment,
		&a.KeluhanUtama, &kondisi, &bagian, &skala, &rom, &tambahan,
		&createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	a.KondisiCedera = textPtr(kondisi)
	a.BagianTubuhTerdampak = textPtr(bagian)
	if skala.Valid {
		v := int(skala.Int32)
		a.SkalaNyeri = &v
	}
	a.CatatanROM = textPtr(rom)
	a.CatatanTambahan = textPtr(tambahan)
	if createdAt.Valid {
		a.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		a.UpdatedAt = updatedAt.Time
	}
	return &a, nil
}

func scanSessionNote(row pgx.Row) (*SessionNote, error) {
	var n SessionNote
	var apptID pgtype.Int8
	var tindakan pgtype.Text
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(&n.ID, &apptID, &n.PatientID, &n.FisioterapisID,
		&n.TanggalSesi, &n.Subjective, &n.Objective, &n.Assessment, &n.Plan,
		&tindakan, &n.DurasiMenit, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if apptID.Valid {
		n.AppointmentID = &apptID.Int64
	}
	n.TindakanDilakukan = textPtr(tindakan)
	if createdAt.Valid {
		n.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		n.UpdatedAt = updatedAt.Time
	}
	return &n, nil
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}
