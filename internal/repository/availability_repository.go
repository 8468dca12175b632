package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codingships/honestSpanish-sub001/internal/model"
	"github.com/codingships/honestSpanish-sub001/internal/repository/base"
)

type AvailabilityRepository struct {
	*base.Repository
}

func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{Repository: base.NewRepository(pool)}
}

// CreateRule inserts a new availability rule.
func (r *AvailabilityRepository) CreateRule(ctx context.Context, rule *model.AvailabilityRule) error {
	query := `
		INSERT INTO availability_rules (teacher_id, day_of_week, start_minute, end_minute, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		rule.TeacherID,
		rule.DayOfWeek,
		rule.StartMinute,
		rule.EndMinute,
		rule.IsActive,
	).Scan(&rule.ID, &rule.CreatedAt)

	if err != nil {
		return fmt.Errorf("create availability rule: %w", err)
	}

	return nil
}

// GetRuleByID fetches a rule by ID. Returns nil when absent.
func (r *AvailabilityRepository) GetRuleByID(ctx context.Context, id int64) (*model.AvailabilityRule, error) {
	query := `
		SELECT id, teacher_id, day_of_week, start_minute, end_minute, is_active, created_at
		FROM availability_rules
		WHERE id = $1
	`

	var rule model.AvailabilityRule
	err := r.QueryRow(ctx, query, id).Scan(
		&rule.ID,
		&rule.TeacherID,
		&rule.DayOfWeek,
		&rule.StartMinute,
		&rule.EndMinute,
		&rule.IsActive,
		&rule.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get availability rule by id: %w", err)
	}

	return &rule, nil
}

// DeleteRule removes a rule. Returns false when no row matched.
func (r *AvailabilityRepository) DeleteRule(ctx context.Context, id int64) (bool, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM availability_rules WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete availability rule: %w", err)
	}
	return affected > 0, nil
}

// ListRules fetches a teacher's rules, optionally for one weekday,
// ordered by start time.
func (r *AvailabilityRepository) ListRules(ctx context.Context, teacherID int64, dayOfWeek *int) ([]*model.AvailabilityRule, error) {
	query := `
		SELECT id, teacher_id, day_of_week, start_minute, end_minute, is_active, created_at
		FROM availability_rules
		WHERE teacher_id = $1
		  AND ($2::smallint IS NULL OR day_of_week = $2)
		ORDER BY day_of_week, start_minute
	`

	rows, err := r.Query(ctx, query, teacherID, dayOfWeek)
	if err != nil {
		return nil, fmt.Errorf("list availability rules: %w", err)
	}
	defer rows.Close()

	var rules []*model.AvailabilityRule
	for rows.Next() {
		var rule model.AvailabilityRule
		err := rows.Scan(
			&rule.ID,
			&rule.TeacherID,
			&rule.DayOfWeek,
			&rule.StartMinute,
			&rule.EndMinute,
			&rule.IsActive,
			&rule.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan availability rule: %w", err)
		}
		rules = append(rules, &rule)
	}

	return rules, rows.Err()
}

// ListActiveRules fetches the active rules for one teacher/weekday,
// ordered by start time. This is the slot generator's read path.
func (r *AvailabilityRepository) ListActiveRules(ctx context.Context, teacherID int64, dayOfWeek int) ([]*model.AvailabilityRule, error) {
	query := `
		SELECT id, teacher_id, day_of_week, start_minute, end_minute, is_active, created_at
		FROM availability_rules
		WHERE teacher_id = $1
		  AND day_of_week = $2
		  AND is_active = true
		ORDER BY start_minute
	`

	rows, err := r.Query(ctx, query, teacherID, dayOfWeek)
	if err != nil {
		return nil, fmt.Errorf("list active availability rules: %w", err)
	}
	defer rows.Close()

	var rules []*model.AvailabilityRule
	for rows.Next() {
		var rule model.AvailabilityRule
		err := rows.Scan(
			&rule.ID,
			&rule.TeacherID,
			&rule.DayOfWeek,
			&rule.StartMinute,
			&rule.EndMinute,
			&rule.IsActive,
			&rule.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan availability rule: %w", err)
		}
		rules = append(rules, &rule)
	}

	return rules, rows.Err()
}
