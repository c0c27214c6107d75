package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/etherpad/eplite-go/eplite"
	"github.com/etherpad/eplite-go/internal/dryrun"
	"github.com/etherpad/eplite-go/internal/iocontext"
	"github.com/etherpad/eplite-go/internal/outfmt"
)

// getInvoker builds the call chain for the resolved profile.
func getInvoker(cmd *cobra.Command) (eplite.Invoker, error) {
	return newClientFactory().invoker(cmd.Context())
}

func newFormatter(cmd *cobra.Command) *outfmt.Formatter {
	ioStreams := iocontext.GetIO(cmd.Context())
	return outfmt.NewFormatter(cmd.Context(), ioStreams.Out, ioStreams.ErrOut)
}

// printJSON writes v in the structured output mode, after the --jq filter.
func printJSON(cmd *cobra.Command, v any) error {
	return newFormatter(cmd).Output(v)
}

// isJSON checks if the command context wants structured output
func isJSON(cmd *cobra.Command) bool {
	return outfmt.IsStructured(cmd.Context())
}

func cmdContext(cmd *cobra.Command) context.Context {
	return cmd.Context()
}

// printAction reports a completed write in text mode. Nothing is printed
// for a dry run since nothing was written.
func printAction(cmd *cobra.Command, action, resource, id string) {
	if flags.Quiet || isJSON(cmd) || dryrun.IsEnabled(cmd.Context()) {
		return
	}
	ioStreams := iocontext.GetIO(cmd.Context())
	message := fmt.Sprintf("%s %s", action, resource)
	if id != "" {
		message = fmt.Sprintf("%s %s", message, id)
	}
	_, _ = fmt.Fprintln(ioStreams.Out, message)
}

// printWriteResult is the structured counterpart of printAction.
func printWriteResult(cmd *cobra.Command, action, resource, id string) error {
	if !isJSON(cmd) {
		printAction(cmd, action, resource, id)
		return nil
	}
	return printJSON(cmd, map[string]any{
		"action":   action,
		"resource": resource,
		"id":       id,
		"dry_run":  dryrun.IsEnabled(cmd.Context()),
	})
}

// printField prints one field of a payload: the value alone in text mode,
// the whole payload otherwise.
func printField(cmd *cobra.Command, payload eplite.Payload, key string) error {
	if len(payload) == 0 && dryrun.IsEnabled(cmd.Context()) {
		return nil
	}
	if isJSON(cmd) {
		return printJSON(cmd, payload)
	}
	ioStreams := iocontext.GetIO(cmd.Context())
	_, _ = fmt.Fprintln(ioStreams.Out, formatValue(payload[key]))
	return nil
}

// printList prints the string list stored under key, one entry per line.
func printList(cmd *cobra.Command, payload eplite.Payload, key, empty string) error {
	if isJSON(cmd) {
		return printJSON(cmd, payload)
	}
	ioStreams := iocontext.GetIO(cmd.Context())
	items, _ := payload[key].([]any)
	if len(items) == 0 {
		_, _ = fmt.Fprintln(ioStreams.ErrOut, empty)
		return nil
	}
	for _, item := range items {
		_, _ = fmt.Fprintln(ioStreams.Out, formatValue(item))
	}
	return nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprint(val)
	}
}

// parseFields turns key=value pairs into call arguments, keeping their order.
// A value of "@path" or "-" is read from the file or stdin.
func parseFields(ctx context.Context, fields []string) (eplite.Args, error) {
	var args eplite.Args
	for _, field := range fields {
		name, value, ok := strings.Cut(field, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid field %q: expected key=value", field)
		}
		if name == eplite.APIKeyParam {
			return nil, fmt.Errorf("invalid field %q: the API key comes from the profile", field)
		}
		content, err := iocontext.ReadContent(ctx, value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		args = args.Set(name, content)
	}
	return args, nil
}

// expandIDs returns the IDs given as arguments. An argument of "-" or
// "@path" is replaced by the IDs listed in stdin or the file, separated by
// commas or whitespace.
func expandIDs(ctx context.Context, args []string) ([]string, error) {
	var ids []string
	seen := make(map[string]bool)
	add := func(id string) {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}
	for _, arg := range args {
		if arg != "-" && !strings.HasPrefix(arg, "@") {
			add(arg)
			continue
		}
		content, err := iocontext.ReadContent(ctx, arg)
		if err != nil {
			return nil, err
		}
		for _, id := range strings.FieldsFunc(content, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
		}) {
			add(id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("at least one ID is required")
	}
	return ids, nil
}

// aliasBridgeValue marks the canonical flag as changed when its alias is
// set, so flagOrAliasChanged and required-flag checks see both.
type aliasBridgeValue struct {
	pflag.Value
	canonical *pflag.Flag
}

func (v *aliasBridgeValue) Set(s string) error {
	if err := v.Value.Set(s); err != nil {
		return err
	}
	v.canonical.Changed = true
	return nil
}

// flagAlias registers a hidden alias sharing the Value of an existing flag.
func flagAlias(fs *pflag.FlagSet, name, alias string) {
	f := fs.Lookup(name)
	if f == nil {
		panic(fmt.Sprintf("flagAlias: flag %q not found", name))
	}
	a := *f
	a.Name = alias
	a.Shorthand = ""
	a.Usage = ""
	a.Hidden = true
	a.Value = &aliasBridgeValue{Value: f.Value, canonical: f}
	ann := map[string][]string{"alias-of": {name}}
	for k, v := range f.Annotations {
		if k == cobra.BashCompOneRequiredFlag {
			continue
		}
		ann[k] = v
	}
	a.Annotations = ann
	fs.AddFlag(&a)
}

// flagOrAliasChanged returns true if the named flag or any of its
// hidden aliases was explicitly set by the user.
func flagOrAliasChanged(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Changed(name) || cmd.InheritedFlags().Changed(name) {
		return true
	}
	aliasChanged := func(fs *pflag.FlagSet) bool {
		found := false
		fs.VisitAll(func(f *pflag.Flag) {
			if found {
				return
			}
			if ann, ok := f.Annotations["alias-of"]; ok && len(ann) > 0 && ann[0] == name && fs.Changed(f.Name) {
				found = true
			}
		})
		return found
	}
	return aliasChanged(cmd.Flags()) || aliasChanged(cmd.InheritedFlags())
}

// errAlreadyHandled signals that the error was already printed to stderr.
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() []error {
	return []error{errAlreadyHandled, e.err}
}

func (e *handledError) ExitCode() int {
	return e.exitCode
}

func printJSONErr(cmd *cobra.Command, v any) error {
	ioStreams := iocontext.GetIO(cmd.Context())
	return outfmt.WriteJSON(ioStreams.ErrOut, v)
}

// RunE wraps a command function with enhanced error handling
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil {
			return nil
		}
		if isJSON(cmd) {
			_ = printJSONErr(cmd, map[string]any{"error": eplite.StructuredErrorFromError(err)})
		} else {
			_, _ = fmt.Fprint(cmd.ErrOrStderr(), HandleError(err))
		}
		return &handledError{err: err, exitCode: ExitCode(err)}
	}
}
