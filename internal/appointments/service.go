package appointments

import (
	"context"
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

func (s *Service) Create(ctx context.Context, req CreateAppointmentRequest, actorID int64) (*Appointment, error) {
	appt := Appointment{
		PatientID:      req.PatientID,
		FisioterapisID: req.FisioterapisID,
		TanggalWaktu:   req.TanggalWaktu,
		DurasiMenit:    60,
		Status:         StatusDijadwalkan,
		Catatan:        req.Catatan,
	}
	if req.DurasiMenit != nil {
		appt.DurasiMenit = *req.DurasiMenit
	}

	id, err := s.repo.Create(ctx, appt)
	if err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	appt.ID = id

	s.audit.RecordActivity(ctx, &actorID, audit.ActionCreate, "appointments", &id, nil, appt)
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Appointment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListAppointmentsRequest) ([]Appointment, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Update(ctx context.Context, actorID int64, id int64, req UpdateAppointmentRequest) (*Appointment, error) {
	before, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if before.Status.Terminal() {
		return nil, fmt.Errorf("%w: janji temu berstatus %s tidak dapat diubah", httpx.ErrConflict, before.Status)
	}

	updates := make(map[string]any)
	if req.FisioterapisID != nil {
		updates["fisioterapis_id"] = *req.FisioterapisID
	}
	if req.TanggalWaktu != nil {
		updates["tanggal_waktu"] = *req.TanggalWaktu
	}
	if req.DurasiMenit != nil {
		updates["durasi_menit"] = *req.DurasiMenit
	}
	if req.Catatan != nil {
		updates["catatan"] = *req.Catatan
	}
	if len(updates) == 0 {
		return before, nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}
	after, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.audit.RecordActivity(ctx, &actorID, audit.ActionUpdate, "appointments", &id, before, after)
	return after, nil
}

// Transition moves the appointment to a new lifecycle state. Terminal states
// admit no further transition.
func (s *Service) Transition(ctx context.Context, actorID int64, id int64, to Status) (*Appointment, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: status %q tidak dikenal", httpx.ErrValidation, to)
	}
	before, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if before.Status == to {
		return before, nil
	}
	if before.Status.Terminal() {
		return nil, fmt.Errorf("%w: janji temu berstatus %s tidak dapat diubah", httpx.ErrConflict, before.Status)
	}

	if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
		return nil, fmt.Errorf("transition appointment: %w", err)
	}
	after, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.audit.RecordActivity(ctx, &actorID, audit.ActionUpdate, "appointments", &id, before, after)
	return after, nil
}

func (s *Service) Delete(ctx context.Context, actorID int64, id int64) error {
	before, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	s.audit.RecordActivity(ctx, &actorID, audit.ActionDelete, "appointments", &id, before, nil)
	return nil
}
