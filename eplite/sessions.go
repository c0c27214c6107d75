package eplite

import (
	"context"
	"time"
)

// A session lets an author access the pads of a group until it expires.
// The session ID is meant to be handed to the browser as the sessionID
// cookie.

// Create opens a session for authorID in groupID that is valid until the
// given instant. The ID is returned under "sessionID".
func (s SessionsService) Create(ctx context.Context, groupID, authorID string, validUntil time.Time) (Payload, error) {
	args := Args{
		{Name: "groupID", Value: groupID},
		{Name: "authorID", Value: authorID},
		{Name: "validUntil", Value: validUntil.Unix()},
	}
	return s.Invoke(ctx, "createSession", POST, args)
}

// Delete deletes a session.
func (s SessionsService) Delete(ctx context.Context, sessionID string) error {
	args := Args{{Name: "sessionID", Value: sessionID}}
	_, err := s.Invoke(ctx, "deleteSession", POST, args)
	return err
}

// Info returns authorID, groupID and validUntil of a session.
func (s SessionsService) Info(ctx context.Context, sessionID string) (Payload, error) {
	args := Args{{Name: "sessionID", Value: sessionID}}
	return s.Invoke(ctx, "getSessionInfo", GET, args)
}

// OfGroup lists the sessions of a group keyed by session ID.
func (s SessionsService) OfGroup(ctx context.Context, groupID string) (Payload, error) {
	args := Args{{Name: "groupID", Value: groupID}}
	return s.Invoke(ctx, "listSessionsOfGroup", GET, args)
}

// OfAuthor lists the sessions of an author keyed by session ID.
func (s SessionsService) OfAuthor(ctx context.Context, authorID string) (Payload, error) {
	args := Args{{Name: "authorID", Value: authorID}}
	return s.Invoke(ctx, "listSessionsOfAuthor", GET, args)
}

// ValidFor returns the expiry instant d from now, truncated to seconds.
func ValidFor(d time.Duration) time.Time {
	return time.Now().Add(d).Truncate(time.Second)
}

// ValidForHours returns the expiry instant n hours from now.
func ValidForHours(n int) time.Time {
	return ValidFor(time.Duration(n) * time.Hour)
}
