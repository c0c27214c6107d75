package eplite

import "context"

// Group pads are named GROUPID$PADNAME; "$" is not allowed in the name of
// a regular pad.

// Create creates a pad with optional initial text.
func (s PadsService) Create(ctx context.Context, padID, text string) error {
	args := Args{
		{Name: "padID", Value: padID},
		{Name: "text", Value: optional(text)},
	}
	_, err := s.Invoke(ctx, "createPad", POST, args)
	return err
}

// Delete deletes a pad.
func (s PadsService) Delete(ctx context.Context, padID string) error {
	_, err := s.Invoke(ctx, "deletePad", POST, padArgs(padID))
	return err
}

// RevisionsCount returns the number of revisions under "revisions".
func (s PadsService) RevisionsCount(ctx context.Context, padID string) (Payload, error) {
	return s.Invoke(ctx, "getRevisionsCount", GET, padArgs(padID))
}

// ReadOnlyID returns the read-only ID of a pad under "readOnlyID".
func (s PadsService) ReadOnlyID(ctx context.Context, padID string) (Payload, error) {
	return s.Invoke(ctx, "getReadOnlyID", GET, padArgs(padID))
}

// SetPublicStatus makes a group pad public or private.
func (s PadsService) SetPublicStatus(ctx context.Context, padID string, public bool) error {
	args := padArgs(padID).Set("publicStatus", public)
	_, err := s.Invoke(ctx, "setPublicStatus", POST, args)
	return err
}

// PublicStatus returns whether a group pad is public under "publicStatus".
func (s PadsService) PublicStatus(ctx context.Context, padID string) (Payload, error) {
	return s.Invoke(ctx, "getPublicStatus", GET, padArgs(padID))
}

// SetPassword protects a group pad with a password.
func (s PadsService) SetPassword(ctx context.Context, padID, password string) error {
	args := padArgs(padID).Set("password", password)
	_, err := s.Invoke(ctx, "setPassword", POST, args)
	return err
}

// IsPasswordProtected returns whether a group pad has a password under
// "isPasswordProtected".
func (s PadsService) IsPasswordProtected(ctx context.Context, padID string) (Payload, error) {
	return s.Invoke(ctx, "isPasswordProtected", GET, padArgs(padID))
}

func padArgs(padID string) Args {
	return Args{{Name: "padID", Value: padID}}
}
