package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codingships/honestSpanish-sub001/internal/repository/base"
)

// TeacherRepository serves per-teacher settings. Currently only the IANA
// timezone that anchors availability wall-clock times.
type TeacherRepository struct {
	*base.Repository
}

func NewTeacherRepository(pool *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{Repository: base.NewRepository(pool)}
}

// GetTimezone returns the teacher's timezone, defaulting to UTC when the
// teacher has no settings row yet.
func (r *TeacherRepository) GetTimezone(ctx context.Context, teacherID int64) (string, error) {
	var tz string
	err := r.QueryRow(ctx,
		`SELECT timezone FROM teacher_settings WHERE teacher_id = $1`, teacherID,
	).Scan(&tz)

	if err != nil {
		if base.IsNotFound(err) {
			return "UTC", nil
		}
		return "", fmt.Errorf("get teacher timezone: %w", err)
	}

	return tz, nil
}

// SetTimezone upserts the teacher's timezone.
func (r *TeacherRepository) SetTimezone(ctx context.Context, teacherID int64, timezone string) error {
	query := `
		INSERT INTO teacher_settings (teacher_id, timezone)
		VALUES ($1, $2)
		ON CONFLICT (teacher_id) DO UPDATE SET timezone = EXCLUDED.timezone, updated_at = now()
	`

	if _, err := r.ExecAffected(ctx, query, teacherID, timezone); err != nil {
		return fmt.Errorf("set teacher timezone: %w", err)
	}

	return nil
}
