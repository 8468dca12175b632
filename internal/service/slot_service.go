package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/codingships/honestSpanish-sub001/internal/apperr"
	"github.com/codingships/honestSpanish-sub001/internal/model"
)

// DateLayout is the wire format for a calendar day.
const DateLayout = "2006-01-02"

// SlotService computes bookable slots for one teacher, one calendar date,
// one requested duration. Pure read path: nothing is persisted or cached.
//
// The candidate grid steps by the requested duration, anchored at each
// rule's start time. Overlapping rules contribute the union of their grids,
// deduplicated.
type SlotService struct {
	availRepo   AvailabilityRepository
	teacherRepo TeacherRepository
	sessionRepo SessionRepository
	logger      *zap.Logger

	now func() time.Time
}

func NewSlotService(
	availRepo AvailabilityRepository,
	teacherRepo TeacherRepository,
	sessionRepo SessionRepository,
	logger *zap.Logger,
) *SlotService {
	return &SlotService{
		availRepo:   availRepo,
		teacherRepo: teacherRepo,
		sessionRepo: sessionRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// GenerateSlots returns the bookable slots for the given date, ordered by
// start time. The date is interpreted in the teacher's timezone. An empty
// result is valid and means "no availability".
func (s *SlotService) GenerateSlots(ctx context.Context, teacherID int64, date string, durationMinutes int) ([]model.Slot, error) {
	if durationMinutes <= 0 {
		return nil, apperr.Validationf("duration_minutes must be positive, got %d", durationMinutes)
	}

	loc, err := s.teacherLocation(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	day, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return nil, apperr.Validationf("invalid date %q, want YYYY-MM-DD", date).Wrap(err)
	}

	rules, err := s.availRepo.ListActiveRules(ctx, teacherID, int(day.Weekday()))
	if err != nil {
		return nil, fmt.Errorf("list active rules: %w", err)
	}
	if len(rules) == 0 {
		return nil, nil
	}

	year, month, dayOfMonth := day.Date()
	dayEnd := time.Date(year, month, dayOfMonth+1, 0, 0, 0, 0, loc)

	sessions, err := s.sessionRepo.ListScheduledOverlapping(ctx, teacherID, day, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("list scheduled sessions: %w", err)
	}

	now := s.now()
	duration := time.Duration(durationMinutes) * time.Minute

	seen := make(map[int64]bool)
	var slots []model.Slot
	for _, rule := range rules {
		for minute := rule.StartMinute; minute+durationMinutes <= rule.EndMinute; minute += durationMinutes {
			start := time.Date(year, month, dayOfMonth, minute/60, minute%60, 0, 0, loc)
			if seen[start.Unix()] {
				continue
			}
			seen[start.Unix()] = true

			if start.Before(now) {
				continue
			}

			end := start.Add(duration)
			if overlapsAny(sessions, start, end) {
				continue
			}

			slots = append(slots, model.Slot{Start: start, End: end})
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Start.Before(slots[j].Start) })
	return slots, nil
}

// IsBookable reports whether start is one of the generated slots for its
// date. Used as the advisory availability-window check on normal booking.
func (s *SlotService) IsBookable(ctx context.Context, teacherID int64, start time.Time, durationMinutes int) (bool, error) {
	loc, err := s.teacherLocation(ctx, teacherID)
	if err != nil {
		return false, err
	}

	slots, err := s.GenerateSlots(ctx, teacherID, start.In(loc).Format(DateLayout), durationMinutes)
	if err != nil {
		return false, err
	}

	for _, slot := range slots {
		if slot.Start.Equal(start) {
			return true, nil
		}
	}
	return false, nil
}

func (s *SlotService) teacherLocation(ctx context.Context, teacherID int64) (*time.Location, error) {
	tz, err := s.teacherRepo.GetTimezone(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("get teacher timezone: %w", err)
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load location %q: %w", tz, err)
	}
	return loc, nil
}

func overlapsAny(sessions []*model.Session, start, end time.Time) bool {
	for _, session := range sessions {
		if session.OverlapsInterval(start, end) {
			return true
		}
	}
	return false
}
