package inmem

import (
	"context"
	"time"

	"github.com/codingships/honestSpanish-sub001/internal/apperr"
	"github.com/codingships/honestSpanish-sub001/internal/model"
)

type SessionRepository struct {
	db *DB
}

func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) CreateScheduled(_ context.Context, session *model.Session) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if err := r.checkOverlapLocked(session); err != nil {
		return err
	}
	r.insertLocked(session)
	return nil
}

func (r *SessionRepository) CreateScheduledBatch(_ context.Context, sessions []*model.Session) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	// Verify the whole batch before inserting anything: all-or-nothing.
	for i, session := range sessions {
		if err := r.checkOverlapLocked(session); err != nil {
			return err
		}
		for _, other := range sessions[:i] {
			if other.TeacherID == session.TeacherID &&
				other.OverlapsInterval(session.ScheduledAt, session.EndsAt()) {
				return apperr.Conflictf("occurrence %s overlaps an existing session",
					session.ScheduledAt.Format(time.RFC3339))
			}
		}
	}

	for _, session := range sessions {
		r.insertLocked(session)
	}
	return nil
}

func (r *SessionRepository) checkOverlapLocked(session *model.Session) error {
	for _, existing := range r.db.sessions {
		if existing.TeacherID != session.TeacherID || existing.Status != model.SessionStatusScheduled {
			continue
		}
		if existing.OverlapsInterval(session.ScheduledAt, session.EndsAt()) {
			return apperr.Conflictf("teacher already has a session overlapping %s",
				session.ScheduledAt.Format(time.RFC3339))
		}
	}
	return nil
}

func (r *SessionRepository) insertLocked(session *model.Session) {
	session.ID = r.db.allocSessionID()
	session.CreatedAt = nowFunc()
	session.UpdatedAt = session.CreatedAt
	r.db.sessions[session.ID] = copySession(session)
}

func (r *SessionRepository) GetByID(_ context.Context, id int64) (*model.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	session, ok := r.db.sessions[id]
	if !ok {
		return nil, nil
	}
	return copySession(session), nil
}

func (r *SessionRepository) ListScheduledOverlapping(_ context.Context, teacherID int64, from, to time.Time) ([]*model.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var sessions []*model.Session
	for _, session := range r.db.sessions {
		if session.TeacherID != teacherID || session.Status != model.SessionStatusScheduled {
			continue
		}
		if session.OverlapsInterval(from, to) {
			sessions = append(sessions, copySession(session))
		}
	}

	sortSessionsByStart(sessions)
	return sessions, nil
}

func (r *SessionRepository) ListByTeacher(_ context.Context, teacherID int64) ([]*model.Session, error) {
	return r.list(func(s *model.Session) bool { return s.TeacherID == teacherID })
}

func (r *SessionRepository) ListByStudent(_ context.Context, studentID int64) ([]*model.Session, error) {
	return r.list(func(s *model.Session) bool { return s.StudentID == studentID })
}

func (r *SessionRepository) list(match func(*model.Session) bool) ([]*model.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var sessions []*model.Session
	for _, session := range r.db.sessions {
		if match(session) {
			sessions = append(sessions, copySession(session))
		}
	}

	sortSessionsByStart(sessions)
	return sessions, nil
}

func (r *SessionRepository) FinalizeStatus(_ context.Context, id int64, status model.SessionStatus, notes, reason *string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	session, ok := r.db.sessions[id]
	if !ok || session.Status != model.SessionStatusScheduled {
		return false, nil
	}

	session.Status = status
	if notes != nil {
		session.Notes = notes
	}
	if reason != nil {
		session.CancelReason = reason
	}
	session.UpdatedAt = nowFunc()
	return true, nil
}

func (r *SessionRepository) UpdateNotes(_ context.Context, id int64, notes string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	session, ok := r.db.sessions[id]
	if !ok {
		return false, nil
	}

	session.Notes = &notes
	session.UpdatedAt = nowFunc()
	return true, nil
}
