package reports

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Service answers aggregate questions about the clinic. Results are cached
// in Redis and concurrent rebuilds of the same key collapse to one query.
type Service struct {
	repo  Repository
	cache *Cache
	group singleflight.Group
	now   func() time.Time
}

func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache, now: time.Now}
}

var rupiah = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an amount with Indonesian digit grouping,
// e.g. 1250000 becomes "Rp 1.250.000".
func FormatRupiah(v int64) string {
	return rupiah.Sprintf("Rp %d", v)
}

// normalize fills an open date range: the trailing year up to today.
func (s *Service) normalize(dari, sampai string) (string, string) {
	today := s.now()
	if sampai == "" {
		sampai = today.Format("2006-01-02")
	}
	if dari == "" {
		dari = today.AddDate(-1, 0, 0).Format("2006-01-02")
	}
	return dari, sampai
}

func (s *Service) fetch(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	return s.cache.FetchJSON(ctx, key, dest, func(ctx context.Context) (any, error) {
		ch := s.group.DoChan(key, func() (any, error) {
			return loader(ctx)
		})
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-ch:
			return res.Val, res.Err
		}
	})
}

func (s *Service) Revenue(ctx context.Context, dari, sampai string) ([]MonthlyRevenue, error) {
	dari, sampai = s.normalize(dari, sampai)
	key, err := s.cache.BuildKey(ctx, "reports", "pendapatan", dari, sampai)
	if err != nil {
		return nil, err
	}
	var out []MonthlyRevenue
	err = s.fetch(ctx, key, &out, func(ctx context.Context) (any, error) {
		rows, err := s.repo.MonthlyRevenue(ctx, dari, sampai)
		if err != nil {
			return nil, err
		}
		for i := range rows {
			rows[i].JumlahRupiah = FormatRupiah(rows[i].Jumlah)
		}
		return rows, nil
	})
	return out, err
}

func (s *Service) AppointmentStatuses(ctx context.Context, dari, sampai string) ([]StatusCount, error) {
	dari, sampai = s.normalize(dari, sampai)
	key, err := s.cache.BuildKey(ctx, "reports", "status-janji", dari, sampai)
	if err != nil {
		return nil, err
	}
	var out []StatusCount
	err = s.fetch(ctx, key, &out, func(ctx context.Context) (any, error) {
		return s.repo.AppointmentStatusCounts(ctx, dari, sampai)
	})
	return out, err
}

func (s *Service) NewPatients(ctx context.Context, dari, sampai string) ([]NewPatients, error) {
	dari, sampai = s.normalize(dari, sampai)
	key, err := s.cache.BuildKey(ctx, "reports", "pasien-baru", dari, sampai)
	if err != nil {
		return nil, err
	}
	var out []NewPatients
	err = s.fetch(ctx, key, &out, func(ctx context.Context) (any, error) {
		return s.repo.NewPatientsPerMonth(ctx, dari, sampai)
	})
	return out, err
}

func (s *Service) TherapistWorkload(ctx context.Context, dari, sampai string) ([]TherapistLoad, error) {
	dari, sampai = s.normalize(dari, sampai)
	key, err := s.cache.BuildKey(ctx, "reports", "beban-terapis", dari, sampai)
	if err != nil {
		return nil, err
	}
	var out []TherapistLoad
	err = s.fetch(ctx, key, &out, func(ctx context.Context) (any, error) {
		return s.repo.TherapistWorkload(ctx, dari, sampai)
	})
	return out, err
}

// Summary bundles every report for the dashboard in one call. Each section
// keeps its own cache entry so partial invalidation stays cheap.
func (s *Service) Summary(ctx context.Context, dari, sampai string) (Summary, error) {
	var sum Summary
	var err error
	if sum.Pendapatan, err = s.Revenue(ctx, dari, sampai); err != nil {
		return Summary{}, err
	}
	if sum.StatusJanji, err = s.AppointmentStatuses(ctx, dari, sampai); err != nil {
		return Summary{}, err
	}
	if sum.PasienBaru, err = s.NewPatients(ctx, dari, sampai); err != nil {
		return Summary{}, err
	}
	if sum.BebanTerapis, err = s.TherapistWorkload(ctx, dari, sampai); err != nil {
		return Summary{}, err
	}
	return sum, nil
}

// Invalidate drops every cached report, to be called after writes that
// change the underlying numbers.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}
