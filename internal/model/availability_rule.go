package model

import (
	"fmt"
	"time"
)

// AvailabilityRule is one recurring weekly open-time window of a teacher.
// Times are wall-clock minutes from midnight in the teacher's timezone;
// a rule never crosses midnight (StartMinute < EndMinute).
type AvailabilityRule struct {
	ID          int64     `json:"id"`
	TeacherID   int64     `json:"teacher_id"`
	DayOfWeek   int       `json:"day_of_week"` // 0 = Sunday, 6 = Saturday
	StartMinute int       `json:"start_minute"`
	EndMinute   int       `json:"end_minute"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// StartClock returns the window start as "HH:MM".
func (r *AvailabilityRule) StartClock() string {
	return FormatClock(r.StartMinute)
}

// EndClock returns the window end as "HH:MM".
func (r *AvailabilityRule) EndClock() string {
	return FormatClock(r.EndMinute)
}

// ParseClock converts "HH:MM" to minutes from midnight.
func ParseClock(s string) (int, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("parse clock %q: out of range", s)
	}
	return hour*60 + minute, nil
}

// FormatClock converts minutes from midnight to "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
