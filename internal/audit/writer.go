// Package audit menulis jejak audit append-only untuk setiap mutasi sensitif.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// Action is the closed enumeration of auditable action kinds.
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionRead   Action = "READ"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
	ActionLogin  Action = "LOGIN"
	ActionLogout Action = "LOGOUT"
)

// Valid reports whether the action belongs to the closed set.
func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionLogin, ActionLogout:
		return true
	}
	return false
}

// Entry describes one audit record before persistence.
type Entry struct {
	ActorID   *int64
	Action    Action
	TableName string
	RecordID  *int64
	OldValue  any
	NewValue  any
	IPAddress string
	UserAgent string
}

// Execer is the minimal persistence handle the writer needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Writer appends rows to audit_logs. Persistence failures are logged and
// swallowed so an audit miss can never block the business operation it
// documents.
type Writer struct {
	db     Execer
	logger *slog.Logger
}

// NewWriter returns a Writer backed by the given persistence handle.
func NewWriter(db Execer, logger *slog.Logger) *Writer {
	return &Writer{db: db, logger: logger}
}

const insertEntry = `
INSERT INTO audit_logs (user_id, aksi, nama_tabel, record_id, nilai_lama, nilai_baru, ip_address, user_agent, timestamp)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// Record serialises snapshots, stamps the current time and appends one row.
// It never reports an error to the caller.
func (w *Writer) Record(ctx context.Context, entry Entry) {
	if w == nil || w.db == nil {
		return
	}
	if !entry.Action.Valid() || entry.TableName == "" {
		w.warn("audit entry dropped", slog.String("aksi", string(entry.Action)), slog.String("tabel", entry.TableName))
		return
	}
	_, err := w.db.Exec(ctx, insertEntry,
		entry.ActorID,
		string(entry.Action),
		entry.TableName,
		entry.RecordID,
		serialize(entry.OldValue),
		serialize(entry.NewValue),
		nullable(entry.IPAddress),
		nullable(entry.UserAgent),
		time.Now().UTC(),
	)
	if err != nil {
		w.warn("audit write failed",
			slog.String("aksi", string(entry.Action)),
			slog.String("tabel", entry.TableName),
			slog.Any("error", err),
		)
	}
}

// RecordActivity is a convenience wrapper for call sites without request
// context (no IP or user agent available).
func (w *Writer) RecordActivity(ctx context.Context, actorID *int64, action Action, table string, recordID *int64, oldValue, newValue any) {
	w.Record(ctx, Entry{
		ActorID:   actorID,
		Action:    action,
		TableName: table,
		RecordID:  recordID,
		OldValue:  oldValue,
		NewValue:  newValue,
	})
}

func (w *Writer) warn(msg string, args ...any) {
	if w.logger != nil {
		w.logger.Warn(msg, args...)
	}
}

// serialize reduces a snapshot to its canonical JSON text form. Strings pass
// through untouched; nil stays NULL.
func serialize(value any) *string {
	if value == nil {
		return nil
	}
	if s, ok := value.(string); ok {
		return &s
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	text := string(data)
	return &text
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
