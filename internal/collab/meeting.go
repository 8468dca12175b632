// Package collab holds the interfaces to external collaborators: the
// meeting-link provider and the post-class report publisher. The core treats
// their outputs as opaque and never blocks on them beyond the call itself.
package collab

import "context"

// MeetingLinkProvider supplies a join link for a newly created session.
// The returned URL is an opaque string; empty means "no link".
type MeetingLinkProvider interface {
	CreateLink(ctx context.Context, teacherID, studentID int64) (string, error)
}

// NoopMeetingLinkProvider never provides a link. Used when no external
// meeting service is configured; callers may still attach links explicitly.
type NoopMeetingLinkProvider struct{}

func NewNoopMeetingLinkProvider() NoopMeetingLinkProvider {
	return NoopMeetingLinkProvider{}
}

func (NoopMeetingLinkProvider) CreateLink(context.Context, int64, int64) (string, error) {
	return "", nil
}
