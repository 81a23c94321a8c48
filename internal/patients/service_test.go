package patients

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fisioklinik/fisioklinik/internal/audit"
	"github.com/fisioklinik/fisioklinik/internal/shared"
)

type stubRepo struct {
	patients map[int64]*Patient
	nextID   int64
	seq      map[int]int64
	inTx     bool
	txCalls  []string
}

func newStubRepo() *stubRepo {
	return &stubRepo{patients: make(map[int64]*Patient), seq: make(map[int]int64)}
}

func (r *stubRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	r.inTx = true
	defer func() { r.inTx = false }()
	return fn(ctx, r)
}

func (r *stubRepo) Get(ctx context.Context, id int64) (*Patient, error) {
	p, ok := r.patients[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubRepo) GetByNomorPasien(ctx context.Context, nomor string) (*Patient, error) {
	for _, p := range r.patients {
		if p.NomorPasien == nomor {
			cp := *p
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *stubRepo) List(ctx context.Context, req ListPatientsRequest) ([]Patient, int, error) {
	var out []Patient
	for _, p := range r.patients {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (r *stubRepo) NextNomorPasien(ctx context.Context, year int) (string, error) {
	r.txCalls = append(r.txCalls, fmt.Sprintf("seq:%v", r.inTx))
	r.seq[year]++
	return fmt.Sprintf("PT-%d-%05d", year, r.seq[year]), nil
}

func (r *stubRepo) Create(ctx context.Context, patient Patient) (int64, error) {
	r.txCalls = append(r.txCalls, fmt.Sprintf("insert:%v", r.inTx))
	r.nextID++
	patient.ID = r.nextID
	r.patients[patient.ID] = &patient
	return patient.ID, nil
}

func (r *stubRepo) Update(ctx context.Context, id int64, updates map[string]any) error {
	p, ok := r.patients[id]
	if !ok {
		return shared.ErrNotFound
	}
	if v, ok := updates["nama_lengkap"]; ok {
		p.NamaLengkap = v.(string)
	}
	if v, ok := updates["persetujuan_diberikan"]; ok {
		p.PersetujuanDiberikan = v.(bool)
	}
	return nil
}

func (r *stubRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.patients[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.patients, id)
	return nil
}

type recordedAudit struct {
	action string
	table  string
}

type auditCapture struct {
	rows []recordedAudit
}

func (c *auditCapture) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.rows = append(c.rows, recordedAudit{action: args[1].(string), table: args[2].(string)})
	return pgconn.CommandTag{}, nil
}

func newTestService(t *testing.T) (*Service, *stubRepo, *auditCapture) {
	t.Helper()
	repo := newStubRepo()
	capture := &auditCapture{}
	svc := NewService(repo, audit.NewWriter(capture, nil))
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	return svc, repo, capture
}

func TestCreateAssignsSequentialNumbersInTx(t *testing.T) {
	svc, repo, capture := newTestService(t)

	first, err := svc.Create(context.Background(), CreatePatientRequest{
		NamaLengkap:  "Budi Santoso",
		TanggalLahir: "1988-04-12",
		JenisKelamin: "laki-laki",
	}, 1)
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), CreatePatientRequest{
		NamaLengkap:  "Siti Rahayu",
		TanggalLahir: "1992-11-03",
		JenisKelamin: "perempuan",
	}, 1)
	require.NoError(t, err)

	assert.Equal(t, "PT-2026-00001", first.NomorPasien)
	assert.Equal(t, "PT-2026-00002", second.NomorPasien)

	// Sequence advance and insert share the same transaction.
	assert.Equal(t, []string{"seq:true", "insert:true", "seq:true", "insert:true"}, repo.txCalls)

	require.Len(t, capture.rows, 2)
	assert.Equal(t, recordedAudit{action: "CREATE", table: "patients"}, capture.rows[0])
}

func TestCreateDefaultsBloodType(t *testing.T) {
	svc, repo, _ := newTestService(t)

	created, err := svc.Create(context.Background(), CreatePatientRequest{
		NamaLengkap:  "Budi Santoso",
		TanggalLahir: "1988-04-12",
		JenisKelamin: "laki-laki",
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, "unknown", created.GolonganDarah)
	assert.Equal(t, "unknown", repo.patients[created.ID].GolonganDarah)
}

func TestGetRecordsReadAudit(t *testing.T) {
	svc, repo, capture := newTestService(t)
	repo.patients[7] = &Patient{ID: 7, NomorPasien: "PT-2026-00007", NamaLengkap: "Budi"}

	_, err := svc.Get(context.Background(), 3, 7)
	require.NoError(t, err)

	require.Len(t, capture.rows, 1)
	assert.Equal(t, recordedAudit{action: "READ", table: "patients"}, capture.rows[0])
}

func TestUpdateAuditsBeforeAndAfter(t *testing.T) {
	svc, repo, capture := newTestService(t)
	repo.patients[1] = &Patient{ID: 1, NomorPasien: "PT-2026-00001", NamaLengkap: "Budi"}

	nama := "Budi Santoso"
	updated, err := svc.Update(context.Background(), 2, 1, UpdatePatientRequest{NamaLengkap: &nama})
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", updated.NamaLengkap)

	require.Len(t, capture.rows, 1)
	assert.Equal(t, recordedAudit{action: "UPDATE", table: "patients"}, capture.rows[0])
}

func TestUpdateNoFieldsIsNoop(t *testing.T) {
	svc, repo, capture := newTestService(t)
	repo.patients[1] = &Patient{ID: 1, NamaLengkap: "Budi"}

	got, err := svc.Update(context.Background(), 2, 1, UpdatePatientRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Budi", got.NamaLengkap)
	assert.Empty(t, capture.rows)
}

func TestDeleteMissingPatient(t *testing.T) {
	svc, _, capture := newTestService(t)

	err := svc.Delete(context.Background(), 2, 99)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Empty(t, capture.rows)
}
