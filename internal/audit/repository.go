package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepository membaca audit_logs langsung lewat pgx.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository membuat repository audit berbasis PostgreSQL.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Timeline mengambil baris audit terbaru lebih dulu, dengan filter opsional.
func (r *PGRepository) Timeline(ctx context.Context, filters TimelineFilters, limit, offset int) ([]LogEntry, error) {
	conditions := []string{"1=1"}
	args := []any{}
	argPos := 1

	if !filters.From.IsZero() {
		conditions = append(conditions, fmt.Sprintf("a.timestamp >= $%d", argPos))
		args = append(args, filters.From)
		argPos++
	}
	if !filters.To.IsZero() {
		conditions = append(conditions, fmt.Sprintf("a.timestamp <= $%d", argPos))
		args = append(args, filters.To)
		argPos++
	}
	if action := normalizeAction(filters.Action); action != "" {
		conditions = append(conditions, fmt.Sprintf("a.aksi = $%d", argPos))
		args = append(args, action)
		argPos++
	}
	if filters.TableName != "" {
		conditions = append(conditions, fmt.Sprintf("a.nama_tabel = $%d", argPos))
		args = append(args, filters.TableName)
		argPos++
	}
	if filters.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("a.user_id = $%d", argPos))
		args = append(args, *filters.UserID)
		argPos++
	}

	query := fmt.Sprintf(`
		SELECT a.id, a.user_id, COALESCE(u.username, ''), a.aksi, a.nama_tabel,
		       a.record_id, a.nilai_lama, a.nilai_baru, a.ip_address, a.user_agent, a.timestamp
		FROM audit_logs a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE %s
		ORDER BY a.timestamp DESC, a.id DESC
		LIMIT $%d OFFSET $%d`,
		joinConditions(conditions), argPos, argPos+1,
	)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var e LogEntry
		var userID pgtype.Int8
		var recordID pgtype.Int8
		var oldValue, newValue, ip, ua pgtype.Text
		var ts pgtype.Timestamptz
		if err := rows.Scan(&e.ID, &userID, &e.Username, &e.Action, &e.TableName, &recordID, &oldValue, &newValue, &ip, &ua, &ts); err != nil {
			return nil, err
		}
		if userID.Valid {
			e.UserID = &userID.Int64
		}
		if recordID.Valid {
			e.RecordID = &recordID.Int64
		}
		if oldValue.Valid {
			e.OldValue = &oldValue.String
		}
		if newValue.Valid {
			e.NewValue = &newValue.String
		}
		if ip.Valid {
			e.IPAddress = &ip.String
		}
		if ua.Valid {
			e.UserAgent = &ua.String
		}
		if ts.Valid {
			e.Timestamp = ts.Time
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func joinConditions(conditions []string) string {
	out := conditions[0]
	for _, c := range conditions[1:] {
		out += " AND " + c
	}
	return out
}

var _ Repository = (*PGRepository)(nil)
