package audit

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// LogEntry mewakili satu baris audit_logs yang sudah tersimpan.
type LogEntry struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	Action    string    `json:"aksi"`
	TableName string    `json:"nama_tabel"`
	RecordID  *int64    `json:"record_id"`
	OldValue  *string   `json:"nilai_lama"`
	NewValue  *string   `json:"nilai_baru"`
	IPAddress *string   `json:"ip_address"`
	UserAgent *string   `json:"user_agent"`
	Timestamp time.Time `json:"timestamp"`
}

// TimelineFilters menampung filter dasar untuk audit timeline.
type TimelineFilters struct {
	From      time.Time
	To        time.Time
	Action    string
	TableName string
	UserID    *int64
	Page      int
	PageSize  int
}

// PagingInfo menyimpan metadata pagination sederhana.
type PagingInfo struct {
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	HasNext  bool `json:"has_next"`
}

// Result membungkus hasil timeline dengan informasi paging.
type Result struct {
	Rows   []LogEntry `json:"rows"`
	Paging PagingInfo `json:"paging"`
}

// Repository menyediakan akses baca ke audit_logs.
type Repository interface {
	Timeline(ctx context.Context, filters TimelineFilters, limit, offset int) ([]LogEntry, error)
}

// Service mengoordinasikan pengambilan data audit.
type Service struct {
	repo Repository
}

// NewService membuat service audit timeline baru.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Timeline mengambil data audit dengan paging.
func (s *Service) Timeline(ctx context.Context, filters TimelineFilters) (Result, error) {
	if s.repo == nil {
		return Result{}, fmt.Errorf("audit: repository not configured")
	}
	pageSize := filters.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 50 {
		pageSize = 50
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize

	rows, err := s.repo.Timeline(ctx, filters, pageSize+1, offset)
	if err != nil {
		return Result{}, err
	}
	hasNext := len(rows) > pageSize
	if hasNext {
		rows = rows[:pageSize]
	}
	return Result{
		Rows:   rows,
		Paging: PagingInfo{Page: page, PageSize: pageSize, HasNext: hasNext},
	}, nil
}

func normalizeAction(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}
