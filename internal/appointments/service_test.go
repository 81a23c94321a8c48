package appointments

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fisioklinik/fisioklinik/internal/audit"
	"github.com/fisioklinik/fisioklinik/internal/platform/httpx"
	"github.com/fisioklinik/fisioklinik/internal/shared"
)

type stubRepo struct {
	appts  map[int64]*Appointment
	nextID int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{appts: make(map[int64]*Appointment)}
}

func (r *stubRepo) Get(ctx context.Context, id int64) (*Appointment, error) {
	a, ok := r.appts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *stubRepo) List(ctx context.Context, req ListAppointmentsRequest) ([]Appointment, int, error) {
	var out []Appointment
	for _, a := range r.appts {
		if req.Status != nil && string(a.Status) != *req.Status {
			continue
		}
		out = append(out, *a)
	}
	return out, len(out), nil
}

func (r *stubRepo) Create(ctx context.Context, appt Appointment) (int64, error) {
	r.nextID++
	appt.ID = r.nextID
	r.appts[appt.ID] = &appt
	return appt.ID, nil
}

func (r *stubRepo) Update(ctx context.Context, id int64, updates map[string]any) error {
	a, ok := r.appts[id]
	if !ok {
		return shared.ErrNotFound
	}
	if v, ok := updates["tanggal_waktu"]; ok {
		a.TanggalWaktu = v.(string)
	}
	if v, ok := updates["durasi_menit"]; ok {
		a.DurasiMenit = v.(int)
	}
	return nil
}

func (r *stubRepo) UpdateStatus(ctx context.Context, id int64, status Status) error {
	a, ok := r.appts[id]
	if !ok {
		return shared.ErrNotFound
	}
	a.Status = status
	return nil
}

func (r *stubRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.appts[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.appts, id)
	return nil
}

type auditCapture struct {
	actions []string
}

func (c *auditCapture) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.actions = append(c.actions, args[1].(string))
	return pgconn.CommandTag{}, nil
}

func newTestService() (*Service, *stubRepo, *auditCapture) {
	repo := newStubRepo()
	capture := &auditCapture{}
	return NewService(repo, audit.NewWriter(capture, nil)), repo, capture
}

func TestCreateDefaultsDurationAndStatus(t *testing.T) {
	svc, repo, capture := newTestService()

	created, err := svc.Create(context.Background(), CreateAppointmentRequest{
		PatientID:      1,
		FisioterapisID: 2,
		TanggalWaktu:   "2026-03-10T09:00",
	}, 5)
	require.NoError(t, err)

	assert.Equal(t, 60, created.DurasiMenit)
	assert.Equal(t, StatusDijadwalkan, created.Status)
	assert.Equal(t, StatusDijadwalkan, repo.appts[created.ID].Status)
	assert.Equal(t, []string{"CREATE"}, capture.actions)
}

func TestTransitionFromScheduled(t *testing.T) {
	svc, repo, capture := newTestService()
	repo.appts[1] = &Appointment{ID: 1, Status: StatusDijadwalkan}

	got, err := svc.Transition(context.Background(), 5, 1, StatusSelesai)
	require.NoError(t, err)
	assert.Equal(t, StatusSelesai, got.Status)
	assert.Equal(t, []string{"UPDATE"}, capture.actions)
}

func TestTransitionOutOfTerminalStateRejected(t *testing.T) {
	svc, repo, capture := newTestService()
	repo.appts[1] = &Appointment{ID: 1, Status: StatusDibatalkan}

	_, err := svc.Transition(context.Background(), 5, 1, StatusSelesai)
	assert.ErrorIs(t, err, httpx.ErrConflict)
	assert.Equal(t, StatusDibatalkan, repo.appts[1].Status)
	assert.Empty(t, capture.actions)
}

func TestTransitionToSameStatusIsNoop(t *testing.T) {
	svc, repo, capture := newTestService()
	repo.appts[1] = &Appointment{ID: 1, Status: StatusSelesai}

	got, err := svc.Transition(context.Background(), 5, 1, StatusSelesai)
	require.NoError(t, err)
	assert.Equal(t, StatusSelesai, got.Status)
	assert.Empty(t, capture.actions)
}

func TestUpdateTerminalAppointmentRejected(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.appts[1] = &Appointment{ID: 1, Status: StatusSelesai}

	waktu := "2026-03-11T10:00"
	_, err := svc.Update(context.Background(), 5, 1, UpdateAppointmentRequest{TanggalWaktu: &waktu})
	assert.ErrorIs(t, err, httpx.ErrConflict)
}

func TestDeleteAuditsSnapshot(t *testing.T) {
	svc, repo, capture := newTestService()
	repo.appts[1] = &Appointment{ID: 1, Status: StatusDijadwalkan}

	require.NoError(t, svc.Delete(context.Background(), 5, 1))
	assert.Empty(t, repo.appts)
	assert.Equal(t, []string{"DELETE"}, capture.actions)
}
