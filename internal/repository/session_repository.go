package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codingships/honestSpanish-sub001/internal/apperr"
	"github.com/codingships/honestSpanish-sub001/internal/model"
)

const sessionColumns = `id, group_id, teacher_id, student_id, scheduled_at, duration_minutes,
		status, meet_link, notes, cancel_reason, created_at, updated_at`

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

const insertSessionQuery = `
	INSERT INTO sessions (group_id, teacher_id, student_id, scheduled_at, duration_minutes, status, meet_link)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, created_at, updated_at
`

// CreateScheduled inserts one scheduled session. The sessions_no_overlap
// exclusion constraint is the atomic overlap guard; a violation surfaces
// as a conflict error.
func (r *SessionRepository) CreateScheduled(ctx context.Context, session *model.Session) error {
	err := r.pool.QueryRow(
		ctx, insertSessionQuery,
		session.GroupID,
		session.TeacherID,
		session.StudentID,
		session.ScheduledAt,
		session.DurationMinutes,
		session.Status,
		session.MeetLink,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)

	if err != nil {
		if isOverlapViolation(err) {
			return apperr.Conflictf("teacher already has a session overlapping %s",
				session.ScheduledAt.Format(time.RFC3339)).Wrap(err)
		}
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

// CreateScheduledBatch inserts a batch of scheduled sessions in one
// transaction. All-or-nothing: the first overlap rolls everything back.
func (r *SessionRepository) CreateScheduledBatch(ctx context.Context, sessions []*model.Session) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, session := range sessions {
		err := tx.QueryRow(
			ctx, insertSessionQuery,
			session.GroupID,
			session.TeacherID,
			session.StudentID,
			session.ScheduledAt,
			session.DurationMinutes,
			session.Status,
			session.MeetLink,
		).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)

		if err != nil {
			if isOverlapViolation(err) {
				return apperr.Conflictf("occurrence %s overlaps an existing session",
					session.ScheduledAt.Format(time.RFC3339)).Wrap(err)
			}
			return fmt.Errorf("create session in batch: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByID fetches a session by ID. Returns nil when absent.
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	session, err := scanSession(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session by id: %w", err)
	}

	return session, nil
}

// ListScheduledOverlapping fetches a teacher's scheduled sessions whose
// interval intersects [from, to), ordered by start time. Catches sessions
// spilling across midnight into the window.
func (r *SessionRepository) ListScheduledOverlapping(ctx context.Context, teacherID int64, from, to time.Time) ([]*model.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE teacher_id = $1
		  AND status = 'scheduled'
		  AND scheduled_at < $3
		  AND scheduled_at + make_interval(mins => duration_minutes) > $2
		ORDER BY scheduled_at
	`

	return r.querySessions(ctx, query, teacherID, from, to)
}

// ListByTeacher fetches all sessions of a teacher, ordered by start time.
func (r *SessionRepository) ListByTeacher(ctx context.Context, teacherID int64) ([]*model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE teacher_id = $1 ORDER BY scheduled_at`
	return r.querySessions(ctx, query, teacherID)
}

// ListByStudent fetches all sessions of a student, ordered by start time.
func (r *SessionRepository) ListByStudent(ctx context.Context, studentID int64) ([]*model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE student_id = $1 ORDER BY scheduled_at`
	return r.querySessions(ctx, query, studentID)
}

// FinalizeStatus moves a still-scheduled session into a terminal status.
// Returns false when no scheduled row matched, so the caller can tell a
// lost race from a missing session.
func (r *SessionRepository) FinalizeStatus(ctx context.Context, id int64, status model.SessionStatus, notes, reason *string) (bool, error) {
	query := `
		UPDATE sessions
		SET status = $2,
		    notes = COALESCE($3::text, notes),
		    cancel_reason = COALESCE($4::text, cancel_reason),
		    updated_at = now()
		WHERE id = $1 AND status = 'scheduled'
	`

	result, err := r.pool.Exec(ctx, query, id, status, notes, reason)
	if err != nil {
		return false, fmt.Errorf("finalize session status: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// UpdateNotes replaces the session's notes in any state.
func (r *SessionRepository) UpdateNotes(ctx context.Context, id int64, notes string) (bool, error) {
	result, err := r.pool.Exec(ctx,
		`UPDATE sessions SET notes = $2, updated_at = now() WHERE id = $1`, id, notes)
	if err != nil {
		return false, fmt.Errorf("update session notes: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *SessionRepository) querySessions(ctx context.Context, query string, args ...interface{}) ([]*model.Session, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*model.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

func scanSession(row pgx.Row) (*model.Session, error) {
	var session model.Session
	err := row.Scan(
		&session.ID,
		&session.GroupID,
		&session.TeacherID,
		&session.StudentID,
		&session.ScheduledAt,
		&session.DurationMinutes,
		&session.Status,
		&session.MeetLink,
		&session.Notes,
		&session.CancelReason,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// isOverlapViolation matches the sessions_no_overlap exclusion constraint
// (SQLSTATE 23P01).
func isOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}
