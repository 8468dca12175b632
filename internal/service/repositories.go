package service

import (
	"context"
	"time"

	"github.com/codingships/honestSpanish-sub001/internal/model"
)

// Repository interfaces consumed by the services. The pgx implementations
// live in internal/repository; internal/repository/inmem provides in-memory
// doubles for tests.

type AvailabilityRepository interface {
	CreateRule(ctx context.Context, rule *model.AvailabilityRule) error
	GetRuleByID(ctx context.Context, id int64) (*model.AvailabilityRule, error)
	DeleteRule(ctx context.Context, id int64) (bool, error)
	ListRules(ctx context.Context, teacherID int64, dayOfWeek *int) ([]*model.AvailabilityRule, error)
	ListActiveRules(ctx context.Context, teacherID int64, dayOfWeek int) ([]*model.AvailabilityRule, error)
}

type TeacherRepository interface {
	GetTimezone(ctx context.Context, teacherID int64) (string, error)
	SetTimezone(ctx context.Context, teacherID int64, timezone string) error
}

type SessionRepository interface {
	// CreateScheduled must be atomic with respect to the overlap check:
	// two concurrent inserts for overlapping intervals of one teacher must
	// not both succeed.
	CreateScheduled(ctx context.Context, session *model.Session) error
	// CreateScheduledBatch is all-or-nothing.
	CreateScheduledBatch(ctx context.Context, sessions []*model.Session) error
	GetByID(ctx context.Context, id int64) (*model.Session, error)
	ListScheduledOverlapping(ctx context.Context, teacherID int64, from, to time.Time) ([]*model.Session, error)
	ListByTeacher(ctx context.Context, teacherID int64) ([]*model.Session, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*model.Session, error)
	FinalizeStatus(ctx context.Context, id int64, status model.SessionStatus, notes, reason *string) (bool, error)
	UpdateNotes(ctx context.Context, id int64, notes string) (bool, error)
}
