package eplite

import "context"

// Text returns the latest text of a pad under "text".
func (s PadsService) Text(ctx context.Context, padID string) (Payload, error) {
	return s.Invoke(ctx, "getText", GET, padArgs(padID))
}

// TextAt returns the text of a pad at revision rev.
func (s PadsService) TextAt(ctx context.Context, padID string, rev int) (Payload, error) {
	return s.Invoke(ctx, "getText", GET, padArgs(padID).Set("rev", rev))
}

// SetText creates a new revision with the given text, creating the pad
// if needed.
func (s PadsService) SetText(ctx context.Context, padID, text string) error {
	_, err := s.Invoke(ctx, "setText", POST, padArgs(padID).Set("text", text))
	return err
}

// HTML returns the latest content of a pad as HTML under "html".
func (s PadsService) HTML(ctx context.Context, padID string) (Payload, error) {
	return s.Invoke(ctx, "getHTML", GET, padArgs(padID))
}

// HTMLAt returns the content of a pad at revision rev as HTML.
func (s PadsService) HTMLAt(ctx context.Context, padID string, rev int) (Payload, error) {
	return s.Invoke(ctx, "getHTML", GET, padArgs(padID).Set("rev", rev))
}

// SetHTML creates a new revision from HTML, creating the pad if needed.
func (s PadsService) SetHTML(ctx context.Context, padID, html string) error {
	_, err := s.Invoke(ctx, "setHTML", POST, padArgs(padID).Set("html", html))
	return err
}
