package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codingships/honestSpanish-sub001/internal/apperr"
	"github.com/codingships/honestSpanish-sub001/internal/collab"
	"github.com/codingships/honestSpanish-sub001/internal/model"
)

// CancellationCutoff is the minimum lead time for a student-initiated
// cancellation. Teachers and admins are not bound by it.
const CancellationCutoff = 24 * time.Hour

// Actor identifies the acting user, as supplied by the identity
// collaborator. The core trusts it and performs no authentication.
type Actor struct {
	ID   int64
	Role model.Role
}

// CreateSessionInput carries one session creation request. CustomTime marks
// the administrative override that skips the availability-window check;
// overlap checking still applies unconditionally.
type CreateSessionInput struct {
	TeacherID       int64
	StudentID       int64
	ScheduledAt     time.Time
	DurationMinutes int
	MeetLink        *string
	CustomTime      bool
}

// SessionService enforces the temporal business rules around creating and
// transitioning sessions. Status machine: scheduled -> completed, cancelled
// or no_show, all terminal.
type SessionService struct {
	sessionRepo SessionRepository
	slots       *SlotService
	meetings    collab.MeetingLinkProvider
	reports     collab.ReportPublisher
	logger      *zap.Logger

	now func() time.Time
}

func NewSessionService(
	sessionRepo SessionRepository,
	slots *SlotService,
	meetings collab.MeetingLinkProvider,
	reports collab.ReportPublisher,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		slots:       slots,
		meetings:    meetings,
		reports:     reports,
		logger:      logger,
		now:         time.Now,
	}
}

// Create books one session. The availability-window check is advisory and
// applies to normal booking only; the overlap check is enforced atomically
// at commit time by the repository, which is what makes two concurrent
// bookings of the same slot safe.
func (s *SessionService) Create(ctx context.Context, actor Actor, in CreateSessionInput) (*model.Session, error) {
	if err := s.authorizeCreate(actor, in); err != nil {
		return nil, err
	}
	if in.DurationMinutes <= 0 {
		return nil, apperr.Validationf("duration_minutes must be positive, got %d", in.DurationMinutes)
	}
	if in.ScheduledAt.Before(s.now()) {
		return nil, apperr.Validationf("scheduled_at is in the past")
	}

	if !in.CustomTime {
		bookable, err := s.slots.IsBookable(ctx, in.TeacherID, in.ScheduledAt, in.DurationMinutes)
		if err != nil {
			return nil, fmt.Errorf("check availability: %w", err)
		}
		if !bookable {
			return nil, apperr.Policyf("requested time %s is outside the teacher's availability",
				in.ScheduledAt.Format(time.RFC3339))
		}
	}

	session := &model.Session{
		TeacherID:       in.TeacherID,
		StudentID:       in.StudentID,
		ScheduledAt:     in.ScheduledAt.UTC(),
		DurationMinutes: in.DurationMinutes,
		Status:          model.SessionStatusScheduled,
		MeetLink:        in.MeetLink,
	}

	if session.MeetLink == nil {
		if link, err := s.meetings.CreateLink(ctx, in.TeacherID, in.StudentID); err != nil {
			s.logger.Warn("Failed to create meeting link", zap.Error(err))
		} else if link != "" {
			session.MeetLink = &link
		}
	}

	if err := s.sessionRepo.CreateScheduled(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("Session created",
		zap.Int64("session_id", session.ID),
		zap.Int64("teacher_id", session.TeacherID),
		zap.Int64("student_id", session.StudentID),
		zap.Time("scheduled_at", session.ScheduledAt),
		zap.Int("duration_minutes", session.DurationMinutes),
		zap.Bool("custom_time", in.CustomTime),
	)

	return session, nil
}

// CreateBulk books a batch of occurrences, typically the fixed 168-hour
// weekly stride produced by model.WeeklyOccurrences with caller-side skips.
// All-or-nothing: one conflicting occurrence aborts the whole batch.
func (s *SessionService) CreateBulk(ctx context.Context, actor Actor, teacherID, studentID int64, instants []time.Time, durationMinutes int) ([]*model.Session, error) {
	if actor.Role == model.RoleStudent {
		return nil, apperr.Authorizationf("students cannot bulk-schedule sessions")
	}
	if actor.Role == model.RoleTeacher && actor.ID != teacherID {
		return nil, apperr.Authorizationf("teacher %d cannot schedule for teacher %d", actor.ID, teacherID)
	}
	if len(instants) == 0 {
		return nil, apperr.Validationf("scheduled_at_list must not be empty")
	}
	if durationMinutes <= 0 {
		return nil, apperr.Validationf("duration_minutes must be positive, got %d", durationMinutes)
	}

	now := s.now()
	groupID := uuid.New()
	sessions := make([]*model.Session, 0, len(instants))
	for _, at := range instants {
		if at.Before(now) {
			return nil, apperr.Validationf("occurrence %s is in the past", at.Format(time.RFC3339))
		}
		sessions = append(sessions, &model.Session{
			GroupID:         &groupID,
			TeacherID:       teacherID,
			StudentID:       studentID,
			ScheduledAt:     at.UTC(),
			DurationMinutes: durationMinutes,
			Status:          model.SessionStatusScheduled,
		})
	}

	if err := s.sessionRepo.CreateScheduledBatch(ctx, sessions); err != nil {
		return nil, err
	}

	s.logger.Info("Bulk sessions created",
		zap.String("group_id", groupID.String()),
		zap.Int64("teacher_id", teacherID),
		zap.Int64("student_id", studentID),
		zap.Int("count", len(sessions)),
	)

	return sessions, nil
}

// Cancel moves a scheduled session to cancelled. Students must respect the
// 24-hour cutoff; teachers and admins may cancel any time before the start.
func (s *SessionService) Cancel(ctx context.Context, actor Actor, sessionID int64, reason *string) (*model.Session, error) {
	session, err := s.getScheduled(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case model.RoleAdmin:
	case model.RoleTeacher:
		if session.TeacherID != actor.ID {
			return nil, apperr.Authorizationf("session %d does not belong to teacher %d", sessionID, actor.ID)
		}
	case model.RoleStudent:
		if session.StudentID != actor.ID {
			return nil, apperr.Authorizationf("session %d does not belong to student %d", sessionID, actor.ID)
		}
	default:
		return nil, apperr.Authorizationf("unknown role %q", actor.Role)
	}

	now := s.now()
	if !now.Before(session.ScheduledAt) {
		return nil, apperr.Policyf("session %d has already started", sessionID)
	}
	if actor.Role == model.RoleStudent && session.ScheduledAt.Sub(now) < CancellationCutoff {
		return nil, apperr.Policyf("cancellation window elapsed")
	}

	updated, err := s.finalize(ctx, session, model.SessionStatusCancelled, nil, reason)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Session cancelled",
		zap.Int64("session_id", sessionID),
		zap.Int64("acting_user_id", actor.ID),
		zap.String("acting_role", string(actor.Role)),
	)

	return updated, nil
}

// Complete moves a past scheduled session to completed, optionally
// publishing a post-class report to the document collaborator. Report
// publication is a side effect and never blocks completion.
func (s *SessionService) Complete(ctx context.Context, sessionID int64, notes *string, report *model.ClassReport) (*model.Session, error) {
	if report != nil && (report.Rating < 1 || report.Rating > 5) {
		return nil, apperr.Validationf("report rating must be between 1 and 5, got %d", report.Rating)
	}

	session, err := s.getScheduled(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.ScheduledAt.After(s.now()) {
		return nil, apperr.Policyf("session %d has not started yet", sessionID)
	}

	updated, err := s.finalize(ctx, session, model.SessionStatusCompleted, notes, nil)
	if err != nil {
		return nil, err
	}

	if report != nil {
		if err := s.reports.PublishReport(ctx, sessionID, *report); err != nil {
			s.logger.Warn("Failed to publish class report",
				zap.Int64("session_id", sessionID),
				zap.Error(err))
		}
	}

	s.logger.Info("Session completed", zap.Int64("session_id", sessionID))
	return updated, nil
}

// MarkNoShow moves a past scheduled session to no_show.
func (s *SessionService) MarkNoShow(ctx context.Context, sessionID int64) (*model.Session, error) {
	session, err := s.getScheduled(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.ScheduledAt.After(s.now()) {
		return nil, apperr.Policyf("session %d has not started yet", sessionID)
	}

	updated, err := s.finalize(ctx, session, model.SessionStatusNoShow, nil, nil)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Session marked as no-show", zap.Int64("session_id", sessionID))
	return updated, nil
}

// UpdateNotes replaces the session's notes. Allowed in any state and never
// changes the status.
func (s *SessionService) UpdateNotes(ctx context.Context, sessionID int64, notes string) (*model.Session, error) {
	updated, err := s.sessionRepo.UpdateNotes(ctx, sessionID, notes)
	if err != nil {
		return nil, fmt.Errorf("update notes: %w", err)
	}
	if !updated {
		return nil, apperr.NotFoundf("session %d not found", sessionID)
	}

	return s.sessionRepo.GetByID(ctx, sessionID)
}

// GetByID fetches one session.
func (s *SessionService) GetByID(ctx context.Context, sessionID int64) (*model.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil, apperr.NotFoundf("session %d not found", sessionID)
	}
	return session, nil
}

// ListForTeacher returns all sessions of a teacher ordered by start time.
func (s *SessionService) ListForTeacher(ctx context.Context, teacherID int64) ([]*model.Session, error) {
	return s.sessionRepo.ListByTeacher(ctx, teacherID)
}

// ListForStudent returns all sessions of a student ordered by start time.
func (s *SessionService) ListForStudent(ctx context.Context, studentID int64) ([]*model.Session, error) {
	return s.sessionRepo.ListByStudent(ctx, studentID)
}

func (s *SessionService) authorizeCreate(actor Actor, in CreateSessionInput) error {
	switch actor.Role {
	case model.RoleAdmin:
		return nil
	case model.RoleTeacher:
		if actor.ID != in.TeacherID {
			return apperr.Authorizationf("teacher %d cannot schedule for teacher %d", actor.ID, in.TeacherID)
		}
	case model.RoleStudent:
		if actor.ID != in.StudentID {
			return apperr.Authorizationf("student %d cannot book for student %d", actor.ID, in.StudentID)
		}
	default:
		return apperr.Authorizationf("unknown role %q", actor.Role)
	}

	if in.CustomTime {
		return apperr.Authorizationf("only admins may schedule outside availability windows")
	}
	return nil
}

func (s *SessionService) getScheduled(ctx context.Context, sessionID int64) (*model.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil, apperr.NotFoundf("session %d not found", sessionID)
	}
	if session.IsTerminal() {
		return nil, apperr.InvalidStatef("session %d is already %s", sessionID, session.Status)
	}
	return session, nil
}

func (s *SessionService) finalize(ctx context.Context, session *model.Session, status model.SessionStatus, notes, reason *string) (*model.Session, error) {
	finalized, err := s.sessionRepo.FinalizeStatus(ctx, session.ID, status, notes, reason)
	if err != nil {
		return nil, fmt.Errorf("finalize status: %w", err)
	}
	if !finalized {
		// Lost a race against another transition.
		return nil, apperr.InvalidStatef("session %d is no longer scheduled", session.ID)
	}

	return s.sessionRepo.GetByID(ctx, session.ID)
}
