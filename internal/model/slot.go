package model

import "time"

// Slot is a derived bookable window of exactly the requested duration.
// Never persisted, generated fresh per query.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ClassReport is the structured post-class report a teacher may attach when
// completing a session. Published to an external document collaborator,
// never part of the session record itself.
type ClassReport struct {
	Rating      int               `json:"rating"` // 1-5
	SkillLevels map[string]string `json:"skill_levels,omitempty"`
	Comments    string            `json:"comments,omitempty"`
}

// Role of the acting user, supplied by the identity collaborator.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)
