package handlers

import (
	"time"

	"github.com/codingships/honestSpanish-sub001/internal/model"
)

type createRuleRequest struct {
	TeacherID int64  `json:"teacher_id" validate:"required"`
	DayOfWeek *int   `json:"day_of_week" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

type ruleResponse struct {
	ID        int64  `json:"id"`
	TeacherID int64  `json:"teacher_id"`
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsActive  bool   `json:"is_active"`
}

func newRuleResponse(rule *model.AvailabilityRule) ruleResponse {
	return ruleResponse{
		ID:        rule.ID,
		TeacherID: rule.TeacherID,
		DayOfWeek: rule.DayOfWeek,
		StartTime: rule.StartClock(),
		EndTime:   rule.EndClock(),
		IsActive:  rule.IsActive,
	}
}

type setTimezoneRequest struct {
	Timezone string `json:"timezone" validate:"required"`
}

type createSessionRequest struct {
	TeacherID       int64     `json:"teacher_id" validate:"required"`
	StudentID       int64     `json:"student_id" validate:"required"`
	ScheduledAt     time.Time `json:"scheduled_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,min=1"`
	MeetLink        *string   `json:"meet_link,omitempty"`
	CustomTime      bool      `json:"custom_time,omitempty"`
}

type createBulkSessionsRequest struct {
	TeacherID       int64       `json:"teacher_id" validate:"required"`
	StudentID       int64       `json:"student_id" validate:"required"`
	DurationMinutes int         `json:"duration_minutes" validate:"required,min=1"`
	ScheduledAtList []time.Time `json:"scheduled_at_list,omitempty"`
	// Alternative to scheduled_at_list: expand a fixed weekly stride
	// server-side.
	FirstAt *time.Time `json:"first_at,omitempty"`
	Weeks   int        `json:"weeks,omitempty"`
}

type sessionActionRequest struct {
	Action string              `json:"action" validate:"required,oneof=cancel complete no_show update_notes"`
	Notes  *string             `json:"notes,omitempty"`
	Reason *string             `json:"reason,omitempty"`
	Report *classReportPayload `json:"report,omitempty"`
}

type classReportPayload struct {
	Rating      int               `json:"rating" validate:"required,min=1,max=5"`
	SkillLevels map[string]string `json:"skill_levels,omitempty"`
	Comments    string            `json:"comments,omitempty"`
}

type sessionResponse struct {
	ID              int64     `json:"id"`
	GroupID         *string   `json:"group_id,omitempty"`
	TeacherID       int64     `json:"teacher_id"`
	StudentID       int64     `json:"student_id"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	MeetLink        *string   `json:"meet_link,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
	CancelReason    *string   `json:"cancel_reason,omitempty"`
	Joinable        bool      `json:"joinable"`
	Imminent        bool      `json:"imminent"`
	Upcoming        bool      `json:"upcoming"`
}

// newSessionResponse annotates the session with the derived time-window
// classifications. The meet link is only exposed inside its join window.
func newSessionResponse(session *model.Session, now time.Time) sessionResponse {
	resp := sessionResponse{
		ID:              session.ID,
		TeacherID:       session.TeacherID,
		StudentID:       session.StudentID,
		ScheduledAt:     session.ScheduledAt,
		DurationMinutes: session.DurationMinutes,
		Status:          string(session.Status),
		Notes:           session.Notes,
		CancelReason:    session.CancelReason,
		Joinable:        session.IsJoinable(now),
		Imminent:        session.IsImminent(now),
		Upcoming:        session.IsUpcoming(now),
	}
	if session.GroupID != nil {
		groupID := session.GroupID.String()
		resp.GroupID = &groupID
	}
	if resp.Joinable {
		resp.MeetLink = session.MeetLink
	}
	return resp
}

func newSessionResponses(sessions []*model.Session, now time.Time) []sessionResponse {
	responses := make([]sessionResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, newSessionResponse(session, now))
	}
	return responses
}

type slotResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func newSlotResponses(slots []model.Slot) []slotResponse {
	responses := make([]slotResponse, 0, len(slots))
	for _, slot := range slots {
		responses = append(responses, slotResponse{Start: slot.Start, End: slot.End})
	}
	return responses
}
