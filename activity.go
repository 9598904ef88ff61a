package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// ActivityEventType enumerates supported activity categories.
type ActivityEventType string

const (
	ActivityEventLoginSuccess  ActivityEventType = "auth.login.success"
	ActivityEventLoginFailure  ActivityEventType = "auth.login.failure"
	ActivityEventRecordCreated ActivityEventType = "record.created"
	ActivityEventRecordUpdated ActivityEventType = "record.updated"
	ActivityEventRecordDeleted ActivityEventType = "record.deleted"
)

// ActivityEvent captures audit-friendly information about an action.
type ActivityEvent struct {
	EventType  ActivityEventType
	Entity     string
	EntityID   int64
	Actor      string
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing/telemetry purposes.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

// NormalizeActivitySink substitutes a no-op sink for nil.
func NormalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}

// AuditLogSink persists activity events as audit_logs rows. A sink
// failure is logged and swallowed so auditing never vetoes the write it
// describes.
type AuditLogSink struct {
	db     *bun.DB
	logger Logger
}

// NewAuditLogSink returns an ActivitySink backed by the audit_logs table.
func NewAuditLogSink(db *bun.DB, logger Logger) *AuditLogSink {
	if logger == nil {
		logger = defLogger{}
	}
	return &AuditLogSink{db: db, logger: logger}
}

func (s *AuditLogSink) Record(ctx context.Context, event ActivityEvent) error {
	occurred := event.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}

	details := ""
	if len(event.Metadata) > 0 {
		if raw, err := json.Marshal(event.Metadata); err == nil {
			details = string(raw)
		}
	}

	entry := &AuditLog{
		Entity:    event.Entity,
		EntityID:  event.EntityID,
		Action:    string(event.EventType),
		ChangedBy: event.Actor,
		Timestamp: occurred,
		Details:   details,
	}

	if _, err := s.db.NewInsert().Model(entry).Exec(ctx); err != nil {
		s.logger.Warn("audit sink insert failed: %v", err)
	}
	return nil
}
