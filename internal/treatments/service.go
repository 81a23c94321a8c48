package treatments

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fisioklinik/fisioklinik/internal/audit"
	"github.com/fisioklinik/fisioklinik/internal/platform/httpx"
)

type Service struct {
	repo  Repository
	audit *audit.Writer
}

func NewService(repo Repository, auditWriter *audit.Writer) *Service {
	return &Service{repo: repo, audit: auditWriter}
}

// validateTujuan requires the goal list to be a JSON array of strings.
func validateTujuan(raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	var goals []string
	if err := json.Unmarshal(raw, &goals); err != nil {
		return fmt.Errorf("%w: tujuan harus berupa daftar teks JSON", httpx.ErrValidation)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, req CreatePlanRequest, fisioterapisID int64) (*TreatmentPlan, error) {
	if err := validateTujuan(req.Tujuan); err != nil {
		return nil, err
	}

	plan := TreatmentPlan{
		PatientID:              req.PatientID,
		FisioterapisID:         fisioterapisID,
		Diagnosis:              req.Diagnosis,
		Tujuan:                 req.Tujuan,
		JumlahSesiDirencanakan: req.JumlahSesiDirencanakan,
		Status:                 StatusDirencanakan,
		TanggalMulai:           req.TanggalMulai,
		TanggalSelesai:         req.TanggalSelesai,
		Catatan:                req.Catatan,
	}
	id, err := s.repo.Create(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("create treatment plan: %w", err)
	}
	plan.ID = id
	s.audit.RecordActivity(ctx, &fisioterapisID, audit.ActionCreate, "treatment_plans", &id, nil, plan)
	return &plan, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*TreatmentPlan, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64) ([]TreatmentPlan, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) Update(ctx context.Context, actorID int64, id int64, req UpdatePlanRequest) (*TreatmentPlan, error) {
	if err := validateTujuan(req.Tujuan); err != nil {
		return nil, err
	}
	before, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if req.Diagnosis != nil {
		updates["diagnosis"] = *req.Diagnosis
	}
	if len(req.Tujuan) > 0 {
		updates["tujuan"] = string(req.Tujuan)
	}
	if req.JumlahSesiDirencanakan != nil {
		updates["jumlah_sesi_direncanakan"] = *req.JumlahSesiDirencanakan
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.TanggalMulai != nil {
		updates["tanggal_mulai"] = *req.TanggalMulai
	}
	if req.TanggalSelesai != nil {
		updates["tanggal_selesai"] = *req.TanggalSelesai
	}
	if req.Catatan != nil {
		updates["catatan"] = *req.Catatan
	}
	if len(updates) == 0 {
		return before, nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update treatment plan: %w", err)
	}
	after, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.audit.RecordActivity(ctx, &actorID, audit.ActionUpdate, "treatment_plans", &id, before, after)
	return after, nil
}

// RecordCompletedSession advances the patient's running plan by one session.
// Called by the clinical module when a session note is stored.
func (s *Service) RecordCompletedSession(ctx context.Context, patientID int64) error {
	plan, err := s.repo.IncrementCompleted(ctx, patientID)
	if err != nil {
		return err
	}
	// Reaching the planned session count completes the plan.
	if plan.JumlahSesiDirencanakan != nil && plan.JumlahSesiSelesai >= *plan.JumlahSesiDirencanakan {
		if err := s.repo.Update(ctx, plan.ID, map[string]any{"status": string(StatusSelesai)}); err != nil {
			return fmt.Errorf("complete treatment plan: %w", err)
		}
	}
	return nil
}
