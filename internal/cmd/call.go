package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/etherpad/eplite-go/eplite"
	"github.com/etherpad/eplite-go/internal/iocontext"
	"github.com/etherpad/eplite-go/internal/outfmt"
	"github.com/etherpad/eplite-go/internal/resolve"
)

func newCallCmd() *cobra.Command {
	var (
		verb   string
		fields []string
	)

	cmd := &cobra.Command{
		Use:     "call <method>",
		Aliases: []string{"api"},
		Short:   "Call any API method",
		Long: `Call any method of the Etherpad HTTP API and print its data.

The API key of the active profile is added to every call. Arguments are
given as repeated -f key=value flags and are sent in that order. Methods
the CLI knows default to their usual HTTP method; others default to GET.`,
		Example: `  # Read a pad
  eplite call getText -f padID=standup

  # Write with POST, reading the value from a file
  eplite call setText -X POST -f padID=standup -f text=@standup.txt

  # Methods newer than this CLI work too
  eplite call listAllPads`,
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			method := strings.TrimSpace(args[0])
			if method == "" {
				return fmt.Errorf("method is required")
			}

			known, isKnown := eplite.LookupMethod(method)
			v := eplite.GET
			if isKnown {
				v = known.Verb
			}
			if flagOrAliasChanged(cmd, "method") {
				parsed, err := eplite.ParseVerb(verb)
				if err != nil {
					return &eplite.CallError{Method: method, Verb: strings.ToUpper(verb), Err: err}
				}
				v = parsed
			}
			if !isKnown && !flags.Quiet {
				warnUnknownMethod(cmd, method)
			}

			callArgs, err := parseFields(cmdContext(cmd), fields)
			if err != nil {
				return err
			}
			inv, err := getInvoker(cmd)
			if err != nil {
				return err
			}
			result, err := inv.Invoke(cmdContext(cmd), method, v, callArgs)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, result)
			}
			return outfmt.WriteJSON(iocontext.GetIO(cmd.Context()).Out, result)
		}),
	}

	cmd.Flags().StringVarP(&verb, "method", "X", "", "HTTP method (GET or POST)")
	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "Argument as key=value ('-' or @path values are read from stdin or a file)")

	return cmd
}

func warnUnknownMethod(cmd *cobra.Command, method string) {
	hint := ""
	best, err := resolve.Match(method, eplite.MethodNames())
	var ambiguous *resolve.AmbiguousError
	switch {
	case err == nil:
		hint = fmt.Sprintf(" (did you mean %s?)", best)
	case errors.As(err, &ambiguous):
		hint = fmt.Sprintf(" (did you mean %s?)", strings.Join(ambiguous.Candidates, ", "))
	}
	errOut := iocontext.GetIO(cmd.Context()).ErrOut
	_, _ = fmt.Fprintf(errOut, "Warning: %q is not a known API method%s; sending it anyway.\n", method, hint)
}

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods [filter]",
		Short: "List the API methods the CLI knows",
		Args:  cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			names := eplite.MethodNames()
			if len(args) == 1 {
				names = resolve.Suggest(args[0], names, len(names))
			}

			type methodEntry struct {
				Name string `json:"name"`
				Verb string `json:"verb"`
			}
			entries := make([]methodEntry, 0, len(names))
			for _, name := range names {
				m, _ := eplite.LookupMethod(name)
				entries = append(entries, methodEntry{Name: m.Name, Verb: m.Verb.String()})
			}

			if isJSON(cmd) {
				return printJSON(cmd, entries)
			}
			f := newFormatter(cmd)
			if len(entries) == 0 {
				f.Empty("No matching methods.")
				return nil
			}
			f.StartTable([]string{"METHOD", "VERB"})
			for _, e := range entries {
				f.Row(e.Name, e.Verb)
			}
			return f.EndTable()
		}),
	}
}
