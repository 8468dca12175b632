package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/codingships/honestSpanish-sub001/internal/apperr"
	"github.com/codingships/honestSpanish-sub001/internal/model"
)

// AvailabilityService holds and serves a teacher's recurring weekly
// open-time rules and the timezone those wall-clock times live in.
type AvailabilityService struct {
	availRepo   AvailabilityRepository
	teacherRepo TeacherRepository
	logger      *zap.Logger
}

func NewAvailabilityService(
	availRepo AvailabilityRepository,
	teacherRepo TeacherRepository,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		availRepo:   availRepo,
		teacherRepo: teacherRepo,
		logger:      logger,
	}
}

// AddRule creates a weekly open-time window. Overlapping rules for the same
// day are allowed; generation treats them as a union of free time.
func (s *AvailabilityService) AddRule(ctx context.Context, teacherID int64, dayOfWeek, startMinute, endMinute int) (*model.AvailabilityRule, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, apperr.Validationf("day_of_week must be between 0 and 6, got %d", dayOfWeek)
	}
	if startMinute < 0 || endMinute > 24*60 {
		return nil, apperr.Validationf("rule times must be within a single day")
	}
	if startMinute >= endMinute {
		return nil, apperr.Validationf("start time %s must be before end time %s",
			model.FormatClock(startMinute), model.FormatClock(endMinute))
	}

	rule := &model.AvailabilityRule{
		TeacherID:   teacherID,
		DayOfWeek:   dayOfWeek,
		StartMinute: startMinute,
		EndMinute:   endMinute,
		IsActive:    true,
	}

	if err := s.availRepo.CreateRule(ctx, rule); err != nil {
		return nil, fmt.Errorf("create rule: %w", err)
	}

	s.logger.Info("Availability rule created",
		zap.Int64("rule_id", rule.ID),
		zap.Int64("teacher_id", teacherID),
		zap.Int("day_of_week", dayOfWeek),
		zap.String("start", rule.StartClock()),
		zap.String("end", rule.EndClock()),
	)

	return rule, nil
}

// RemoveRule deletes a rule owned by the requesting teacher. Rules are never
// updated in place; replacement is delete plus create.
func (s *AvailabilityService) RemoveRule(ctx context.Context, ruleID, requestingTeacherID int64) error {
	rule, err := s.availRepo.GetRuleByID(ctx, ruleID)
	if err != nil {
		return fmt.Errorf("get rule: %w", err)
	}

	if rule == nil {
		return apperr.NotFoundf("availability rule %d not found", ruleID)
	}

	if rule.TeacherID != requestingTeacherID {
		return apperr.Authorizationf("rule %d does not belong to teacher %d", ruleID, requestingTeacherID)
	}

	deleted, err := s.availRepo.DeleteRule(ctx, ruleID)
	if err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	if !deleted {
		return apperr.NotFoundf("availability rule %d not found", ruleID)
	}

	s.logger.Info("Availability rule removed",
		zap.Int64("rule_id", ruleID),
		zap.Int64("teacher_id", requestingTeacherID),
	)

	return nil
}

// ListRules returns a teacher's rules, all days or one, ordered by start time.
func (s *AvailabilityService) ListRules(ctx context.Context, teacherID int64, dayOfWeek *int) ([]*model.AvailabilityRule, error) {
	if dayOfWeek != nil && (*dayOfWeek < 0 || *dayOfWeek > 6) {
		return nil, apperr.Validationf("day_of_week must be between 0 and 6, got %d", *dayOfWeek)
	}
	return s.availRepo.ListRules(ctx, teacherID, dayOfWeek)
}

// Timezone returns the teacher's IANA timezone.
func (s *AvailabilityService) Timezone(ctx context.Context, teacherID int64) (string, error) {
	return s.teacherRepo.GetTimezone(ctx, teacherID)
}

// SetTimezone stores the teacher's IANA timezone after validating it loads.
func (s *AvailabilityService) SetTimezone(ctx context.Context, teacherID int64, timezone string) error {
	if _, err := time.LoadLocation(timezone); err != nil {
		return apperr.Validationf("unknown timezone %q", timezone)
	}

	if err := s.teacherRepo.SetTimezone(ctx, teacherID, timezone); err != nil {
		return fmt.Errorf("set timezone: %w", err)
	}

	s.logger.Info("Teacher timezone updated",
		zap.Int64("teacher_id", teacherID),
		zap.String("timezone", timezone),
	)

	return nil
}
