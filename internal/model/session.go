package model

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "scheduled"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
	SessionStatusNoShow    SessionStatus = "no_show"
)

// Join-link window around the scheduled start. Asymmetric: a short lead-in
// so the link is not exposed too early, a longer grace period for late joiners.
const (
	JoinLeadTime  = 15 * time.Minute
	JoinGraceTime = 60 * time.Minute
)

// Two distinct "starting soon" thresholds, used in different contexts and
// deliberately not unified: the dashboard highlight is tighter than the
// list-view badge.
const (
	DashboardImminentWindow = 2 * time.Hour
	ListBadgeWindow         = 24 * time.Hour
)

// WeekStride is the fixed distance between occurrences of a recurring
// weekly booking. Exactly 168 hours, not calendar-week-aware.
const WeekStride = 7 * 24 * time.Hour

// Session is one scheduled appointment between a teacher and a student.
type Session struct {
	ID              int64         `json:"id"`
	GroupID         *uuid.UUID    `json:"group_id,omitempty"` // links occurrences of one recurring booking
	TeacherID       int64         `json:"teacher_id"`
	StudentID       int64         `json:"student_id"`
	ScheduledAt     time.Time     `json:"scheduled_at"`
	DurationMinutes int           `json:"duration_minutes"`
	Status          SessionStatus `json:"status"`
	MeetLink        *string       `json:"meet_link,omitempty"`
	Notes           *string       `json:"notes,omitempty"`
	CancelReason    *string       `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// EndsAt returns the exclusive end of the session's interval.
func (s *Session) EndsAt() time.Time {
	return s.ScheduledAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// IsTerminal reports whether the session reached a state with no
// further transitions.
func (s *Session) IsTerminal() bool {
	return s.Status != SessionStatusScheduled
}

// OverlapsInterval reports whether the session's interval shares any instant
// with [start, end). Half-open: touching endpoints do not overlap.
func (s *Session) OverlapsInterval(start, end time.Time) bool {
	return Overlaps(s.ScheduledAt, s.EndsAt(), start, end)
}

// IsJoinable reports whether the meeting link should be exposed at now.
func (s *Session) IsJoinable(now time.Time) bool {
	if s.Status != SessionStatusScheduled {
		return false
	}
	return !now.Before(s.ScheduledAt.Add(-JoinLeadTime)) && !now.After(s.ScheduledAt.Add(JoinGraceTime))
}

// IsImminent reports the dashboard-highlight classification: the session
// starts within the next two hours. Informational only.
func (s *Session) IsImminent(now time.Time) bool {
	return s.startsWithin(now, DashboardImminentWindow)
}

// IsUpcoming reports the list-view badge classification: the session starts
// within the next 24 hours. Informational only.
func (s *Session) IsUpcoming(now time.Time) bool {
	return s.startsWithin(now, ListBadgeWindow)
}

func (s *Session) startsWithin(now time.Time, window time.Duration) bool {
	if s.Status != SessionStatusScheduled {
		return false
	}
	until := s.ScheduledAt.Sub(now)
	return until >= 0 && until <= window
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) share any
// instant. Half-open interval semantics.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// WeeklyOccurrences expands a starting instant into count occurrences at a
// fixed 168-hour stride, independent of month boundaries and DST.
func WeeklyOccurrences(first time.Time, count int) []time.Time {
	occurrences := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		occurrences = append(occurrences, first.Add(time.Duration(i)*WeekStride))
	}
	return occurrences
}
