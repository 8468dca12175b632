package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codingships/honestSpanish-sub001/internal/apperr"
	"github.com/codingships/honestSpanish-sub001/internal/model"
)

var (
	student = Actor{ID: 20, Role: model.RoleStudent}
	teacher = Actor{ID: 1, Role: model.RoleTeacher}
	admin   = Actor{ID: 99, Role: model.RoleAdmin}
)

func TestCreateSessionRejectsOverlap(t *testing.T) {
	env := newTestEnv(t)
	env.addRule(t, 1, 1, "09:00", "12:00")

	env.mustCreate(t, student, CreateSessionInput{
		TeacherID:       1,
		StudentID:       20,
		ScheduledAt:     utc(testMonday, "10:00"),
		DurationMinutes: 60,
	})

	tests := []struct {
		name         string
		at           time.Time
		duration     int
		wantConflict bool
	}{
		{name: "same slot", at: utc(testMonday, "10:00"), duration: 60, wantConflict: true},
		{name: "contained", at: utc(testMonday, "10:15"), duration: 30, wantConflict: true},
		{name: "straddles start", at: utc(testMonday, "09:30"), duration: 60, wantConflict: true},
		{name: "back to back after", at: utc(testMonday, "11:00"), duration: 60, wantConflict: false},
		{name: "back to back before", at: utc(testMonday, "09:00"), duration: 60, wantConflict: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.sessions.Create(context.Background(), admin, CreateSessionInput{
				TeacherID:       1,
				StudentID:       21,
				ScheduledAt:     tt.at,
				DurationMinutes: tt.duration,
				CustomTime:      true,
			})
			if tt.wantConflict {
				require.Error(t, err)
				assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCreateSessionRemovesSlotFromGenerator(t *testing.T) {
	env := newTestEnv(t)
	env.addRule(t, 1, 1, "09:00", "12:00")
	at := utc(testMonday, "10:00")

	env.mustCreate(t, student, CreateSessionInput{
		TeacherID:       1,
		StudentID:       20,
		ScheduledAt:     at,
		DurationMinutes: 60,
	})

	slots, err := env.slots.GenerateSlots(context.Background(), 1, testMonday, 60)
	require.NoError(t, err)
	for _, slot := range slots {
		assert.False(t, slot.Start.Equal(at), "booked start must not reappear")
	}
}

func TestCreateSessionAvailabilityIsAdvisory(t *testing.T) {
	env := newTestEnv(t)
	env.addRule(t, 1, 1, "09:00", "12:00")
	ctx := context.Background()
	outside := utc(testMonday, "15:00")

	t.Run("normal booking outside availability fails", func(t *testing.T) {
		_, err := env.sessions.Create(ctx, student, CreateSessionInput{
			TeacherID:       1,
			StudentID:       20,
			ScheduledAt:     outside,
			DurationMinutes: 60,
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindPolicy, apperr.KindOf(err))
	})

	t.Run("admin custom time bypasses the window", func(t *testing.T) {
		session, err := env.sessions.Create(ctx, admin, CreateSessionInput{
			TeacherID:       1,
			StudentID:       20,
			ScheduledAt:     outside,
			DurationMinutes: 60,
			CustomTime:      true,
		})
		require.NoError(t, err)
		assert.Equal(t, model.SessionStatusScheduled, session.Status)
	})

	t.Run("custom time still checks overlap", func(t *testing.T) {
		_, err := env.sessions.Create(ctx, admin, CreateSessionInput{
			TeacherID:       1,
			StudentID:       21,
			ScheduledAt:     outside.Add(30 * time.Minute),
			DurationMinutes: 60,
			CustomTime:      true,
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})

	t.Run("non-admins may not use custom time", func(t *testing.T) {
		_, err := env.sessions.Create(ctx, teacher, CreateSessionInput{
			TeacherID:       1,
			StudentID:       20,
			ScheduledAt:     utc(testMonday, "18:00"),
			DurationMinutes: 60,
			CustomTime:      true,
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
	})
}

func TestCreateSessionAuthorization(t *testing.T) {
	env := newTestEnv(t)
	env.addRule(t, 1, 1, "09:00", "12:00")

	_, err := env.sessions.Create(context.Background(), student, CreateSessionInput{
		TeacherID:       1,
		StudentID:       21, // someone else
		ScheduledAt:     utc(testMonday, "09:00"),
		DurationMinutes: 60,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
}

func TestCreateBulkSessionsWeeklyStride(t *testing.T) {
	env := newTestEnv(t)
	first := utc(testMonday, "10:00")
	occurrences := model.WeeklyOccurrences(first, 4)

	sessions, err := env.sessions.CreateBulk(context.Background(), teacher, 1, 20, occurrences, 60)
	require.NoError(t, err)

	require.Len(t, sessions, 4)
	for i, session := range sessions {
		assert.True(t, session.ScheduledAt.Equal(first.Add(time.Duration(i)*model.WeekStride)))
		assert.NotNil(t, session.GroupID)
		assert.Equal(t, *sessions[0].GroupID, *session.GroupID)
	}
}

func TestCreateBulkSessionsAllOrNothing(t *testing.T) {
	env := newTestEnv(t)
	first := utc(testMonday, "10:00")

	// Occupy the third occurrence in advance.
	env.mustCreate(t, admin, CreateSessionInput{
		TeacherID:       1,
		StudentID:       30,
		ScheduledAt:     first.Add(2 * model.WeekStride),
		DurationMinutes: 60,
		CustomTime:      true,
	})

	_, err := env.sessions.CreateBulk(context.Background(), teacher, 1, 20,
		model.WeeklyOccurrences(first, 4), 60)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// Nothing from the failed batch may survive.
	sessions, err := env.sessions.ListForStudent(context.Background(), 20)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestCancelSessionCutoff(t *testing.T) {
	tests := []struct {
		name     string
		actor    Actor
		lead     time.Duration
		wantKind apperr.Kind
	}{
		{name: "student inside 24h", actor: student, lead: 23*time.Hour + 59*time.Minute, wantKind: apperr.KindPolicy},
		{name: "student at 10h", actor: student, lead: 10 * time.Hour, wantKind: apperr.KindPolicy},
		{name: "student outside 24h", actor: student, lead: 24*time.Hour + time.Minute},
		{name: "teacher inside 24h", actor: teacher, lead: time.Hour},
		{name: "admin inside 24h", actor: admin, lead: time.Hour},
		{name: "teacher after start", actor: teacher, lead: -time.Minute, wantKind: apperr.KindPolicy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			at := testNow.Add(tt.lead)
			if tt.lead < 0 {
				// Creation rejects past instants; book ahead and move the
				// clock past the start instead.
				at = testNow.Add(time.Hour)
			}
			session := env.mustCreate(t, admin, CreateSessionInput{
				TeacherID:       1,
				StudentID:       20,
				ScheduledAt:     at,
				DurationMinutes: 60,
				CustomTime:      true,
			})
			if tt.lead < 0 {
				env.sessions.now = func() time.Time { return at.Add(-tt.lead) }
			}

			_, err := env.sessions.Cancel(context.Background(), tt.actor, session.ID, nil)
			if tt.wantKind != apperr.KindUnknown {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCancelSessionAuthorization(t *testing.T) {
	env := newTestEnv(t)
	session := env.mustCreate(t, admin, CreateSessionInput{
		TeacherID:       1,
		StudentID:       20,
		ScheduledAt:     testNow.Add(72 * time.Hour),
		DurationMinutes: 60,
		CustomTime:      true,
	})
	ctx := context.Background()

	_, err := env.sessions.Cancel(ctx, Actor{ID: 77, Role: model.RoleStudent}, session.ID, nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))

	_, err = env.sessions.Cancel(ctx, Actor{ID: 77, Role: model.RoleTeacher}, session.ID, nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
}

func TestTerminalStatesAreImmutable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session := env.mustCreate(t, admin, CreateSessionInput{
		TeacherID:       1,
		StudentID:       20,
		ScheduledAt:     testNow.Add(48 * time.Hour),
		DurationMinutes: 60,
		CustomTime:      true,
	})

	cancelled, err := env.sessions.Cancel(ctx, admin, session.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, model.SessionStatusCancelled, cancelled.Status)

	// Move past the scheduled time so complete/no-show preconditions would
	// otherwise hold.
	env.sessions.now = func() time.Time { return testNow.Add(50 * time.Hour) }

	_, err = env.sessions.Cancel(ctx, admin, session.ID, nil)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	_, err = env.sessions.Complete(ctx, session.ID, nil, nil)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	_, err = env.sessions.MarkNoShow(ctx, session.ID)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
}

func TestCompleteSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session := env.mustCreate(t, admin, CreateSessionInput{
		TeacherID:       1,
		StudentID:       20,
		ScheduledAt:     testNow.Add(time.Hour),
		DurationMinutes: 60,
		CustomTime:      true,
	})

	t.Run("before start is rejected", func(t *testing.T) {
		_, err := env.sessions.Complete(ctx, session.ID, nil, nil)
		require.Error(t, err)
		assert.Equal(t, apperr.KindPolicy, apperr.KindOf(err))
	})

	env.sessions.now = func() time.Time { return testNow.Add(3 * time.Hour) }

	t.Run("bad report rating is rejected", func(t *testing.T) {
		_, err := env.sessions.Complete(ctx, session.ID, nil, &model.ClassReport{Rating: 6})
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("completes with report and notes", func(t *testing.T) {
		notes := "covered subjunctive triggers"
		completed, err := env.sessions.Complete(ctx, session.ID, &notes, &model.ClassReport{
			Rating:      4,
			SkillLevels: map[string]string{"speaking": "B1", "listening": "B2"},
			Comments:    "solid progress",
		})
		require.NoError(t, err)
		assert.Equal(t, model.SessionStatusCompleted, completed.Status)
		require.NotNil(t, completed.Notes)
		assert.Equal(t, notes, *completed.Notes)
	})
}

func TestMarkNoShow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session := env.mustCreate(t, admin, CreateSessionInput{
		TeacherID:       1,
		StudentID:       20,
		ScheduledAt:     testNow.Add(time.Hour),
		DurationMinutes: 60,
		CustomTime:      true,
	})

	_, err := env.sessions.MarkNoShow(ctx, session.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindPolicy, apperr.KindOf(err))

	env.sessions.now = func() time.Time { return testNow.Add(3 * time.Hour) }

	updated, err := env.sessions.MarkNoShow(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionStatusNoShow, updated.Status)
}

func TestUpdateNotesAnyState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session := env.mustCreate(t, admin, CreateSessionInput{
		TeacherID:       1,
		StudentID:       20,
		ScheduledAt:     testNow.Add(48 * time.Hour),
		DurationMinutes: 60,
		CustomTime:      true,
	})

	_, err := env.sessions.Cancel(ctx, admin, session.ID, nil)
	require.NoError(t, err)

	updated, err := env.sessions.UpdateNotes(ctx, session.ID, "student rescheduled via chat")
	require.NoError(t, err)
	assert.Equal(t, model.SessionStatusCancelled, updated.Status, "notes update never changes status")
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "student rescheduled via chat", *updated.Notes)

	_, err = env.sessions.UpdateNotes(ctx, 404404, "x")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCreateSessionValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.sessions.Create(ctx, admin, CreateSessionInput{
		TeacherID:       1,
		StudentID:       20,
		ScheduledAt:     testNow.Add(-time.Hour),
		DurationMinutes: 60,
		CustomTime:      true,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = env.sessions.Create(ctx, admin, CreateSessionInput{
		TeacherID:       1,
		StudentID:       20,
		ScheduledAt:     testNow.Add(time.Hour),
		DurationMinutes: 0,
		CustomTime:      true,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
