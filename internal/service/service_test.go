package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/codingships/honestSpanish-sub001/internal/collab"
	"github.com/codingships/honestSpanish-sub001/internal/model"
	"github.com/codingships/honestSpanish-sub001/internal/repository/inmem"
)

// Fixed clock for deterministic temporal rules. 2026-01-05 is a Monday.
var (
	testNow    = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	testMonday = "2026-01-05"
)

type testEnv struct {
	availability *AvailabilityService
	slots        *SlotService
	sessions     *SessionService
	sessionRepo  *inmem.SessionRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := inmem.NewDB()
	availRepo := inmem.NewAvailabilityRepository(db)
	teacherRepo := inmem.NewTeacherRepository(db)
	sessionRepo := inmem.NewSessionRepository(db)
	logger := zap.NewNop()

	availability := NewAvailabilityService(availRepo, teacherRepo, logger)

	slots := NewSlotService(availRepo, teacherRepo, sessionRepo, logger)
	slots.now = func() time.Time { return testNow }

	sessions := NewSessionService(
		sessionRepo,
		slots,
		collab.NewNoopMeetingLinkProvider(),
		collab.NewConsoleReportPublisher(logger),
		logger,
	)
	sessions.now = func() time.Time { return testNow }

	return &testEnv{
		availability: availability,
		slots:        slots,
		sessions:     sessions,
		sessionRepo:  sessionRepo,
	}
}

func (env *testEnv) addRule(t *testing.T, teacherID int64, day int, start, end string) *model.AvailabilityRule {
	t.Helper()

	startMinute, err := model.ParseClock(start)
	if err != nil {
		t.Fatalf("parse start clock: %v", err)
	}
	endMinute, err := model.ParseClock(end)
	if err != nil {
		t.Fatalf("parse end clock: %v", err)
	}

	rule, err := env.availability.AddRule(context.Background(), teacherID, day, startMinute, endMinute)
	if err != nil {
		t.Fatalf("add rule: %v", err)
	}
	return rule
}

func (env *testEnv) mustCreate(t *testing.T, actor Actor, in CreateSessionInput) *model.Session {
	t.Helper()

	session, err := env.sessions.Create(context.Background(), actor, in)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return session
}

func utc(date string, clock string) time.Time {
	at, err := time.Parse("2006-01-02 15:04", date+" "+clock)
	if err != nil {
		panic(err)
	}
	return at.UTC()
}
