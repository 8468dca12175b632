package inmem

import (
	"context"
	"sort"

	"github.com/codingships/honestSpanish-sub001/internal/model"
)

type AvailabilityRepository struct {
	db *DB
}

func NewAvailabilityRepository(db *DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

func (r *AvailabilityRepository) CreateRule(_ context.Context, rule *model.AvailabilityRule) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	rule.ID = r.db.allocRuleID()
	rule.CreatedAt = nowFunc()
	r.db.rules[rule.ID] = copyRule(rule)
	return nil
}

func (r *AvailabilityRepository) GetRuleByID(_ context.Context, id int64) (*model.AvailabilityRule, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	rule, ok := r.db.rules[id]
	if !ok {
		return nil, nil
	}
	return copyRule(rule), nil
}

func (r *AvailabilityRepository) DeleteRule(_ context.Context, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.rules[id]; !ok {
		return false, nil
	}
	delete(r.db.rules, id)
	return true, nil
}

func (r *AvailabilityRepository) ListRules(_ context.Context, teacherID int64, dayOfWeek *int) ([]*model.AvailabilityRule, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var rules []*model.AvailabilityRule
	for _, rule := range r.db.rules {
		if rule.TeacherID != teacherID {
			continue
		}
		if dayOfWeek != nil && rule.DayOfWeek != *dayOfWeek {
			continue
		}
		rules = append(rules, copyRule(rule))
	}

	sort.Slice(rules, func(i, j int) bool {
		if rules[i].DayOfWeek != rules[j].DayOfWeek {
			return rules[i].DayOfWeek < rules[j].DayOfWeek
		}
		return rules[i].StartMinute < rules[j].StartMinute
	})
	return rules, nil
}

func (r *AvailabilityRepository) ListActiveRules(ctx context.Context, teacherID int64, dayOfWeek int) ([]*model.AvailabilityRule, error) {
	rules, err := r.ListRules(ctx, teacherID, &dayOfWeek)
	if err != nil {
		return nil, err
	}

	active := rules[:0]
	for _, rule := range rules {
		if rule.IsActive {
			active = append(active, rule)
		}
	}
	return active, nil
}

type TeacherRepository struct {
	db *DB
}

func NewTeacherRepository(db *DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

func (r *TeacherRepository) GetTimezone(_ context.Context, teacherID int64) (string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if tz, ok := r.db.timezones[teacherID]; ok {
		return tz, nil
	}
	return "UTC", nil
}

func (r *TeacherRepository) SetTimezone(_ context.Context, teacherID int64, timezone string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.timezones[teacherID] = timezone
	return nil
}
