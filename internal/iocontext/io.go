// Package iocontext provides injectable I/O streams via context for testability.
package iocontext

import (
	"context"
	"fmt"
	"io"
	"os"
)

// IO holds the input/output streams for commands.
type IO struct {
	Out    io.Writer // stdout
	ErrOut io.Writer // stderr
	In     io.Reader // stdin
}

// DefaultIO returns the standard IO streams.
func DefaultIO() *IO {
	return &IO{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
		In:     os.Stdin,
	}
}

type ioKey struct{}

// WithIO adds IO streams to a context.
func WithIO(ctx context.Context, streams *IO) context.Context {
	return context.WithValue(ctx, ioKey{}, streams)
}

// GetIO retrieves IO streams from context, defaulting to standard streams.
func GetIO(ctx context.Context) *IO {
	if streams, ok := ctx.Value(ioKey{}).(*IO); ok && streams != nil {
		return streams
	}
	return DefaultIO()
}

// maxInput caps content read from stdin or a file.
const maxInput = 32 << 20

// ReadContent resolves a content argument: "-" reads stdin, "@path" reads
// a file and anything else is returned as is.
func ReadContent(ctx context.Context, arg string) (string, error) {
	switch {
	case arg == "-":
		in := GetIO(ctx).In
		if in == nil {
			return "", fmt.Errorf("no standard input available")
		}
		return readLimited(in, "stdin")
	case len(arg) > 1 && arg[0] == '@':
		f, err := os.Open(arg[1:])
		if err != nil {
			return "", err
		}
		defer func() { _ = f.Close() }()
		return readLimited(f, arg[1:])
	default:
		return arg, nil
	}
}

func readLimited(r io.Reader, name string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxInput+1))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(data) > maxInput {
		return "", fmt.Errorf("%s exceeds %d bytes", name, maxInput)
	}
	return string(data), nil
}
