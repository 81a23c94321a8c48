package clinical

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fisioklinik/fisioklinik/internal/audit"
	"github.com/fisioklinik/fisioklinik/internal/platform/httpx"
	"github.com/fisioklinik/fisioklinik/internal/shared"
)

// PlanProgress is implemented by the treatments module: completing a session
// note advances the active treatment plan's completed-session counter.
type PlanProgress interface {
	RecordCompletedSession(ctx context.Context, patientID int64) error
}

type Service struct {
	repo  Repository
	plans PlanProgress
	audit *audit.Writer
}

func NewService(repo Repository, plans PlanProgress, auditWriter *audit.Writer) *Service {
	return &Service{repo: repo, plans: plans, audit: auditWriter}
}

func (s *Service) CreateAssessment(ctx context.Context, req CreateAssessmentRequest, fisioterapisID int64) (*Assessment, error) {
	a := Assessment{
		PatientID:            req.PatientID,
		FisioterapisID:       fisioterapisID,
		TanggalAssessment:    req.TanggalAssessment,
		KeluhanUtama:         req.KeluhanUtama,
		KondisiCedera:        req.KondisiCedera,
		BagianTubuhTerdampak: req.BagianTubuhTerdampak,
		SkalaNyeri:           req.SkalaNyeri,
		CatatanROM:           req.CatatanROM,
		CatatanTambahan:      req.CatatanTambahan,
	}
	id, err := s.repo.CreateAssessment(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("create assessment: %w", err)
	}
	a.ID = id
	s.audit.RecordActivity(ctx, &fisioterapisID, audit.ActionCreate, "assessments", &id, nil, a)
	return &a, nil
}

func (s *Service) GetAssessment(ctx context.Context, id int64) (*Assessment, error) {
	return s.repo.GetAssessment(ctx, id)
}

func (s *Service) ListAssessments(ctx context.Context, patientID int64, page shared.Page) ([]Assessment, error) {
	return s.repo.ListAssessments(ctx, patientID, page)
}

func (s *Service) UpdateAssessment(ctx context.Context, actorID int64, id int64, req UpdateAssessmentRequest) (*Assessment, error) {
	before, err := s.repo.GetAssessment(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	setStr := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}
	setStr("keluhan_utama", req.KeluhanUtama)
	setStr("kondisi_cedera", req.KondisiCedera)
	setStr("bagian_tubuh_terdampak", req.BagianTubuhTerdampak)
	setStr("catatan_rom", req.CatatanROM)
	setStr("catatan_tambahan", req.CatatanTambahan)
	if req.SkalaNyeri != nil {
		updates["skala_nyeri"] = *req.SkalaNyeri
	}
	if len(updates) == 0 {
		return before, nil
	}

	if err := s.repo.UpdateAssessment(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update assessment: %w", err)
	}
	after, err := s.repo.GetAssessment(ctx, id)
	if err != nil {
		return nil, err
	}
	s.audit.RecordActivity(ctx, &actorID, audit.ActionUpdate, "assessments", &id, before, after)
	return after, nil
}

// CreateSessionNote stores the SOAP note and advances the patient's active
// treatment plan. Plan bookkeeping failure does not undo the note: the
// clinical record is the source of truth.
func (s *Service) CreateSessionNote(ctx context.Context, req CreateSessionNoteRequest, fisioterapisID int64) (*SessionNote, error) {
	n := SessionNote{
		AppointmentID:     req.AppointmentID,
		PatientID:         req.PatientID,
		FisioterapisID:    fisioterapisID,
		TanggalSesi:       req.TanggalSesi,
		Subjective:        req.Subjective,
		Objective:         req.Objective,
		Assessment:        req.Assessment,
		Plan:              req.Plan,
		TindakanDilakukan: req.TindakanDilakukan,
		DurasiMenit:       60,
	}
	if req.DurasiMenit != nil {
		n.DurasiMenit = *req.DurasiMenit
	}

	id, err := s.repo.CreateSessionNote(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("create session note: %w", err)
	}
	n.ID = id

	if s.plans != nil {
		if err := s.plans.RecordCompletedSession(ctx, req.PatientID); err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return nil, fmt.Errorf("advance treatment plan: %w", err)
			}
			// No active plan for this patient; the note stands alone.
		}
	}

	s.audit.RecordActivity(ctx, &fisioterapisID, audit.ActionCreate, "session_notes", &id, nil, n)
	return &n, nil
}

func (s *Service) GetSessionNote(ctx context.Context, id int64) (*SessionNote, error) {
	return s.repo.GetSessionNote(ctx, id)
}

func (s *Service) ListSessionNotes(ctx context.Context, patientID int64, page shared.Page) ([]SessionNote, error) {
	return s.repo.ListSessionNotes(ctx, patientID, page)
}

// CreateOutcomeMeasure validates the responses blob before storage: it must
// be a JSON object when present, never free text.
func (s *Service) CreateOutcomeMeasure(ctx context.Context, req CreateOutcomeMeasureRequest, recordedBy int64) (*OutcomeMeasure, error) {
	if len(req.Responses) > 0 {
		var obj map[string]any
		if err := json.Unmarshal(req.Responses, &obj); err != nil {
			return nil, fmt.Errorf("%w: responses harus berupa objek JSON", httpx.ErrValidation)
		}
	}

	m := OutcomeMeasure{
		PatientID:      req.PatientID,
		RecordedBy:     recordedBy,
		RecordedAt:     req.RecordedAt,
		MeasureType:    MeasureType(req.MeasureType),
		Score:          req.Score,
		MaxScore:       req.MaxScore,
		BodyPart:       req.BodyPart,
		Condition:      req.Condition,
		Responses:      req.Responses,
		Interpretation: req.Interpretation,
		Notes:          req.Notes,
	}
	id, err := s.repo.CreateOutcomeMeasure(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("create outcome measure: %w", err)
	}
	m.ID = id
	s.audit.RecordActivity(ctx, &recordedBy, audit.ActionCreate, "outcome_measures", &id, nil, m)
	return &m, nil
}

func (s *Service) ListOutcomeMeasures(ctx context.Context, patientID int64, measureType string) ([]OutcomeMeasure, error) {
	return s.repo.ListOutcomeMeasures(ctx, patientID, measureType)
}
