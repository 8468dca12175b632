package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/codingships/honestSpanish-sub001/internal/apperr"
	"github.com/codingships/honestSpanish-sub001/internal/model"
)

func (h *Handlers) createRule(ctx echo.Context) error {
	var req createRuleRequest
	if err := ctx.Bind(&req); err != nil {
		return apperr.Validationf("invalid request body").Wrap(err)
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	actor := getActor(ctx)
	if actor.Role == model.RoleStudent {
		return apperr.Authorizationf("students cannot manage availability")
	}
	if actor.Role == model.RoleTeacher && actor.ID != req.TeacherID {
		return apperr.Authorizationf("teacher %d cannot manage availability of teacher %d", actor.ID, req.TeacherID)
	}

	startMinute, err := model.ParseClock(req.StartTime)
	if err != nil {
		return apperr.Validationf("invalid start_time %q, want HH:MM", req.StartTime).Wrap(err)
	}
	endMinute, err := model.ParseClock(req.EndTime)
	if err != nil {
		return apperr.Validationf("invalid end_time %q, want HH:MM", req.EndTime).Wrap(err)
	}

	rule, err := h.availability.AddRule(ctx.Request().Context(), req.TeacherID, *req.DayOfWeek, startMinute, endMinute)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, newRuleResponse(rule))
}

func (h *Handlers) listRules(ctx echo.Context) error {
	teacherID, err := strconv.ParseInt(ctx.QueryParam("teacher_id"), 10, 64)
	if err != nil {
		return apperr.Validationf("missing or invalid teacher_id")
	}

	var dayOfWeek *int
	if raw := ctx.QueryParam("day_of_week"); raw != "" {
		day, err := strconv.Atoi(raw)
		if err != nil {
			return apperr.Validationf("invalid day_of_week %q", raw)
		}
		dayOfWeek = &day
	}

	rules, err := h.availability.ListRules(ctx.Request().Context(), teacherID, dayOfWeek)
	if err != nil {
		return err
	}

	responses := make([]ruleResponse, 0, len(rules))
	for _, rule := range rules {
		responses = append(responses, newRuleResponse(rule))
	}
	return ctx.JSON(http.StatusOK, responses)
}

func (h *Handlers) deleteRule(ctx echo.Context) error {
	ruleID, err := strconv.ParseInt(ctx.Param("ruleID"), 10, 64)
	if err != nil {
		return apperr.Validationf("invalid rule id")
	}

	actor := getActor(ctx)
	if actor.Role != model.RoleTeacher {
		return apperr.Authorizationf("only the owning teacher may remove availability rules")
	}

	if err := h.availability.RemoveRule(ctx.Request().Context(), ruleID, actor.ID); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (h *Handlers) getTimezone(ctx echo.Context) error {
	teacherID, err := strconv.ParseInt(ctx.Param("teacherID"), 10, 64)
	if err != nil {
		return apperr.Validationf("invalid teacher id")
	}

	tz, err := h.availability.Timezone(ctx.Request().Context(), teacherID)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, echo.Map{"teacher_id": teacherID, "timezone": tz})
}

func (h *Handlers) setTimezone(ctx echo.Context) error {
	teacherID, err := strconv.ParseInt(ctx.Param("teacherID"), 10, 64)
	if err != nil {
		return apperr.Validationf("invalid teacher id")
	}

	actor := getActor(ctx)
	if actor.Role == model.RoleStudent || (actor.Role == model.RoleTeacher && actor.ID != teacherID) {
		return apperr.Authorizationf("cannot change timezone of teacher %d", teacherID)
	}

	var req setTimezoneRequest
	if err := ctx.Bind(&req); err != nil {
		return apperr.Validationf("invalid request body").Wrap(err)
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	if err := h.availability.SetTimezone(ctx.Request().Context(), teacherID, req.Timezone); err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, echo.Map{"teacher_id": teacherID, "timezone": req.Timezone})
}
