// Package audit appends learning events (enrollments, submission checks,
// course completions) to an append-only log table.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

const (
	EventEnrolled        = "Enrolled"
	EventTaskChecked     = "TaskChecked"
	EventCourseCompleted = "CourseCompleted"
)

type EventLog struct {
	db  *sql.DB
	log *zap.Logger
}

func NewEventLog(db *sql.DB, log *zap.Logger) *EventLog {
	return &EventLog{db: db, log: log}
}

// Append records an event. Logging failures are reported but never block
// the operation that produced the event.
func (l *EventLog) Append(ctx context.Context, typ, key string, data any) {
	if l == nil || l.db == nil {
		return
	}
	buf, err := json.Marshal(data)
	if err != nil {
		l.log.Warn("audit event not serializable", zap.String("type", typ), zap.Error(err))
		return
	}
	_, err = l.db.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at) VALUES ($1,$2,$3,$4)`,
		typ, key, string(buf), time.Now().Unix())
	if err != nil {
		l.log.Warn("audit append failed", zap.String("type", typ), zap.Error(err))
	}
}
