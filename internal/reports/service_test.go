package reports

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	revenue       []MonthlyRevenue
	revenueCalls  int
	statuses      []StatusCount
	statusCalls   int
	patients      []NewPatients
	patientCalls  int
	workload      []TherapistLoad
	workloadCalls int
	lastFrom      string
	lastTo        string
}

func (m *mockRepo) MonthlyRevenue(_ context.Context, from, to string) ([]MonthlyRevenue, error) {
	m.revenueCalls++
	m.lastFrom, m.lastTo = from, to
	return m.revenue, nil
}

func (m *mockRepo) AppointmentStatusCounts(_ context.Context, from, to string) ([]StatusCount, error) {
	m.statusCalls++
	return m.statuses, nil
}

func (m *mockRepo) NewPatientsPerMonth(_ context.Context, from, to string) ([]NewPatients, error) {
	m.patientCalls++
	return m.patients, nil
}

func (m *mockRepo) TherapistWorkload(_ context.Context, from, to string) ([]TherapistLoad, error) {
	m.workloadCalls++
	return m.workload, nil
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	svc := NewService(repo, NewCache(client, time.Minute))
	svc.now = func() time.Time {
		return time.Date(2026, time.August, 30, 9, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestRevenueFormatsRupiahAndCaches(t *testing.T) {
	repo := &mockRepo{revenue: []MonthlyRevenue{
		{Bulan: "2026-07", Jumlah: 1250000, JumlahTransaksi: 4},
		{Bulan: "2026-08", Jumlah: 300000, JumlahTransaksi: 1},
	}}
	svc := newTestService(t, repo)
	ctx := context.Background()

	rows, err := svc.Revenue(ctx, "2026-07-01", "2026-08-31")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Rp 1.250.000", rows[0].JumlahRupiah)
	assert.Equal(t, "Rp 300.000", rows[1].JumlahRupiah)

	again, err := svc.Revenue(ctx, "2026-07-01", "2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, rows, again)
	assert.Equal(t, 1, repo.revenueCalls, "second read should come from cache")
}

func TestRevenueDefaultsToTrailingYear(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(t, repo)

	_, err := svc.Revenue(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "2025-08-30", repo.lastFrom)
	assert.Equal(t, "2026-08-30", repo.lastTo)
}

func TestInvalidateForcesRebuild(t *testing.T) {
	repo := &mockRepo{statuses: []StatusCount{{Status: "selesai", Total: 7}}}
	svc := newTestService(t, repo)
	ctx := context.Background()

	_, err := svc.AppointmentStatuses(ctx, "2026-01-01", "2026-12-31")
	require.NoError(t, err)
	_, err = svc.AppointmentStatuses(ctx, "2026-01-01", "2026-12-31")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.statusCalls)

	require.NoError(t, svc.Invalidate(ctx))

	_, err = svc.AppointmentStatuses(ctx, "2026-01-01", "2026-12-31")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.statusCalls, "bump should miss the old key")
}

func TestSummaryComposesAllSections(t *testing.T) {
	repo := &mockRepo{
		revenue:  []MonthlyRevenue{{Bulan: "2026-08", Jumlah: 500000, JumlahTransaksi: 2}},
		statuses: []StatusCount{{Status: "dijadwalkan", Total: 3}},
		patients: []NewPatients{{Bulan: "2026-08", Total: 5}},
		workload: []TherapistLoad{{FisioterapisID: 2, NamaLengkap: "Budi Santoso", JumlahJanji: 3, JumlahSesi: 2}},
	}
	svc := newTestService(t, repo)

	sum, err := svc.Summary(context.Background(), "2026-08-01", "2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, "Rp 500.000", sum.Pendapatan[0].JumlahRupiah)
	assert.Equal(t, int64(3), sum.StatusJanji[0].Total)
	assert.Equal(t, int64(5), sum.PasienBaru[0].Total)
	assert.Equal(t, "Budi Santoso", sum.BebanTerapis[0].NamaLengkap)
}

func TestCacheNilClientPassesThrough(t *testing.T) {
	repo := &mockRepo{patients: []NewPatients{{Bulan: "2026-08", Total: 1}}}
	svc := NewService(repo, NewCache(nil, time.Minute))
	svc.now = func() time.Time { return time.Date(2026, time.August, 30, 9, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		rows, err := svc.NewPatients(ctx, "2026-08-01", "2026-08-31")
		require.NoError(t, err)
		require.Len(t, rows, 1)
	}
	assert.Equal(t, 2, repo.patientCalls, "no cache without redis")
}
