package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/codingships/honestSpanish-sub001/internal/apperr"
	"github.com/codingships/honestSpanish-sub001/internal/model"
	"github.com/codingships/honestSpanish-sub001/internal/service"
)

func (h *Handlers) listSlots(ctx echo.Context) error {
	teacherID, err := strconv.ParseInt(ctx.Param("teacherID"), 10, 64)
	if err != nil {
		return apperr.Validationf("invalid teacher id")
	}

	date := ctx.QueryParam("date")
	if date == "" {
		return apperr.Validationf("missing date, want YYYY-MM-DD")
	}

	duration, err := strconv.Atoi(ctx.QueryParam("duration"))
	if err != nil {
		return apperr.Validationf("missing or invalid duration")
	}

	slots, err := h.slots.GenerateSlots(ctx.Request().Context(), teacherID, date, duration)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, newSlotResponses(slots))
}

func (h *Handlers) createSession(ctx echo.Context) error {
	var req createSessionRequest
	if err := ctx.Bind(&req); err != nil {
		return apperr.Validationf("invalid request body").Wrap(err)
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	session, err := h.sessions.Create(ctx.Request().Context(), getActor(ctx), service.CreateSessionInput{
		TeacherID:       req.TeacherID,
		StudentID:       req.StudentID,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		MeetLink:        req.MeetLink,
		CustomTime:      req.CustomTime,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, newSessionResponse(session, h.now()))
}

func (h *Handlers) createBulkSessions(ctx echo.Context) error {
	var req createBulkSessionsRequest
	if err := ctx.Bind(&req); err != nil {
		return apperr.Validationf("invalid request body").Wrap(err)
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	instants := req.ScheduledAtList
	if len(instants) == 0 {
		if req.FirstAt == nil || req.Weeks <= 0 {
			return apperr.Validationf("either scheduled_at_list or first_at with weeks is required")
		}
		instants = model.WeeklyOccurrences(*req.FirstAt, req.Weeks)
	}

	sessions, err := h.sessions.CreateBulk(ctx.Request().Context(), getActor(ctx),
		req.TeacherID, req.StudentID, instants, req.DurationMinutes)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, newSessionResponses(sessions, h.now()))
}

func (h *Handlers) sessionAction(ctx echo.Context) error {
	sessionID, err := strconv.ParseInt(ctx.Param("sessionID"), 10, 64)
	if err != nil {
		return apperr.Validationf("invalid session id")
	}

	var req sessionActionRequest
	if err := ctx.Bind(&req); err != nil {
		return apperr.Validationf("invalid request body").Wrap(err)
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	actor := getActor(ctx)
	reqCtx := ctx.Request().Context()

	var session *model.Session
	switch req.Action {
	case "cancel":
		session, err = h.sessions.Cancel(reqCtx, actor, sessionID, req.Reason)
	case "complete":
		if actor.Role == model.RoleStudent {
			return apperr.Authorizationf("students cannot complete sessions")
		}
		var report *model.ClassReport
		if req.Report != nil {
			report = &model.ClassReport{
				Rating:      req.Report.Rating,
				SkillLevels: req.Report.SkillLevels,
				Comments:    req.Report.Comments,
			}
		}
		session, err = h.sessions.Complete(reqCtx, sessionID, req.Notes, report)
	case "no_show":
		if actor.Role == model.RoleStudent {
			return apperr.Authorizationf("students cannot mark no-shows")
		}
		session, err = h.sessions.MarkNoShow(reqCtx, sessionID)
	case "update_notes":
		if req.Notes == nil {
			return apperr.Validationf("notes is required for update_notes")
		}
		session, err = h.sessions.UpdateNotes(reqCtx, sessionID, *req.Notes)
	}
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, newSessionResponse(session, h.now()))
}

func (h *Handlers) getSession(ctx echo.Context) error {
	sessionID, err := strconv.ParseInt(ctx.Param("sessionID"), 10, 64)
	if err != nil {
		return apperr.Validationf("invalid session id")
	}

	session, err := h.sessions.GetByID(ctx.Request().Context(), sessionID)
	if err != nil {
		return err
	}

	actor := getActor(ctx)
	if actor.Role == model.RoleStudent && session.StudentID != actor.ID {
		return apperr.Authorizationf("session %d does not belong to student %d", sessionID, actor.ID)
	}
	if actor.Role == model.RoleTeacher && session.TeacherID != actor.ID {
		return apperr.Authorizationf("session %d does not belong to teacher %d", sessionID, actor.ID)
	}

	return ctx.JSON(http.StatusOK, newSessionResponse(session, h.now()))
}

// listSessions returns the caller's own sessions; admins pick a calendar
// via teacher_id or student_id.
func (h *Handlers) listSessions(ctx echo.Context) error {
	actor := getActor(ctx)
	reqCtx := ctx.Request().Context()

	var (
		sessions []*model.Session
		err      error
	)

	switch actor.Role {
	case model.RoleTeacher:
		sessions, err = h.sessions.ListForTeacher(reqCtx, actor.ID)
	case model.RoleStudent:
		sessions, err = h.sessions.ListForStudent(reqCtx, actor.ID)
	case model.RoleAdmin:
		if raw := ctx.QueryParam("teacher_id"); raw != "" {
			var teacherID int64
			if teacherID, err = strconv.ParseInt(raw, 10, 64); err != nil {
				return apperr.Validationf("invalid teacher_id %q", raw)
			}
			sessions, err = h.sessions.ListForTeacher(reqCtx, teacherID)
		} else if raw := ctx.QueryParam("student_id"); raw != "" {
			var studentID int64
			if studentID, err = strconv.ParseInt(raw, 10, 64); err != nil {
				return apperr.Validationf("invalid student_id %q", raw)
			}
			sessions, err = h.sessions.ListForStudent(reqCtx, studentID)
		} else {
			return apperr.Validationf("teacher_id or student_id is required")
		}
	}
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, newSessionResponses(sessions, h.now()))
}
