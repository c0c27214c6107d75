// Package dryrun previews write calls instead of sending them.
package dryrun

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/etherpad/eplite-go/eplite"
)

type contextKey string

const dryRunKey contextKey = "dry_run_enabled"

// WithDryRun returns a context with dry-run mode enabled/disabled.
func WithDryRun(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, dryRunKey, enabled)
}

// IsEnabled returns true if dry-run mode is enabled.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(dryRunKey).(bool); ok {
		return v
	}
	return false
}

// Preview represents a dry-run preview of an operation
type Preview struct {
	Method   string
	Verb     eplite.Verb
	Args     map[string]any
	Warnings []string
}

// Write outputs the preview to the writer. Arguments are listed by name.
func (p *Preview) Write(w io.Writer) {
	_, _ = fmt.Fprintf(w, "\n[DRY-RUN] Would call %s %s\n", p.Verb, p.Method)
	_, _ = fmt.Fprintf(w, "───────────────────────────────────────\n")

	if len(p.Args) > 0 {
		names := make([]string, 0, len(p.Args))
		for k := range p.Args {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			_, _ = fmt.Fprintf(w, "  %s: %v\n", k, p.Args[k])
		}
		_, _ = fmt.Fprintln(w)
	}

	if len(p.Warnings) > 0 {
		_, _ = fmt.Fprintln(w, "Warnings:")
		for _, warning := range p.Warnings {
			_, _ = fmt.Fprintf(w, "  ! %s\n", warning)
		}
		_, _ = fmt.Fprintln(w)
	}

	_, _ = fmt.Fprintf(w, "───────────────────────────────────────\n")
	_, _ = fmt.Fprintln(w, "No changes made (dry-run mode)")
}

// destructive lists the calls that cannot be undone.
var destructive = map[string]string{
	"deleteGroup":   "Deletes the group and all of its pads",
	"deletePad":     "Deletes the pad and its history",
	"deleteSession": "Ends the session for its author",
	"setText":       "Replaces the whole pad content",
	"setHTML":       "Replaces the whole pad content",
}

// Invoker previews POST calls when dry-run mode is enabled in the call's
// context and forwards everything else. A previewed call returns an empty
// payload.
type Invoker struct {
	next eplite.Invoker
	out  io.Writer
}

var _ eplite.Invoker = (*Invoker)(nil)

// Wrap returns an Invoker writing previews to out.
func Wrap(next eplite.Invoker, out io.Writer) *Invoker {
	return &Invoker{next: next, out: out}
}

// Invoke implements eplite.Invoker.
func (d *Invoker) Invoke(ctx context.Context, method string, verb eplite.Verb, args eplite.Args) (eplite.Payload, error) {
	if verb != eplite.POST || !IsEnabled(ctx) {
		return d.next.Invoke(ctx, method, verb, args)
	}

	p := &Preview{Method: method, Verb: verb, Args: make(map[string]any, len(args))}
	for _, arg := range args {
		if arg.Value == nil || arg.Name == eplite.APIKeyParam {
			continue
		}
		p.Args[arg.Name] = arg.Value
	}
	if warning, ok := destructive[method]; ok {
		p.Warnings = append(p.Warnings, warning)
	}
	p.Write(d.out)
	return eplite.Payload{}, nil
}
