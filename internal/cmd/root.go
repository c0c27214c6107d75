package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/etherpad/eplite-go/eplite"
	"github.com/etherpad/eplite-go/internal/config"
	"github.com/etherpad/eplite-go/internal/debug"
	"github.com/etherpad/eplite-go/internal/dryrun"
	"github.com/etherpad/eplite-go/internal/iocontext"
	"github.com/etherpad/eplite-go/internal/outfmt"
	"github.com/etherpad/eplite-go/internal/resolve"
	"github.com/etherpad/eplite-go/internal/retry"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Output     string
	JSON       bool
	JQ         string
	Compact    bool
	Quiet      bool
	Debug      bool
	LogFormat  string
	DryRun     bool
	Timeout    time.Duration
	Lenient    bool
	Retries    int
	RetryDelay time.Duration
	Profile    string
}

// flags holds the global command flags. It is reset at the start of every
// Execute call; reading it outside a command's RunE sees stale values.
var flags = defaultFlags()

func defaultFlags() rootFlags {
	rc := retry.DefaultConfig()
	return rootFlags{
		Output:     defaultOutput(),
		LogFormat:  "text",
		Timeout:    eplite.DefaultTimeout,
		Retries:    rc.MaxRetries,
		RetryDelay: rc.Delay,
	}
}

func defaultOutput() string {
	if value := strings.TrimSpace(os.Getenv("EPLITE_OUTPUT")); value != "" {
		return value
	}
	return "text"
}

// loadDotEnv loads the optional .env file of the configuration directory.
// Variables already set in the environment win.
func loadDotEnv() {
	path := config.DotEnvPath()
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	// Runs before the flag reset so EPLITE_OUTPUT and the retry variables
	// can come from the .env file.
	loadDotEnv()
	flags = defaultFlags()

	root := &cobra.Command{
		Use:                "eplite",
		Short:              "CLI for the Etherpad Lite HTTP API",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if flags.JSON {
				if flagOrAliasChanged(cmd, "output") && flags.Output != "json" {
					return fmt.Errorf("--json conflicts with --output %s", flags.Output)
				}
				flags.Output = "json"
			}
			mode, err := outfmt.Parse(flags.Output)
			if err != nil {
				return err
			}
			if flags.JQ != "" && mode == outfmt.Text {
				if flagOrAliasChanged(cmd, "output") {
					return fmt.Errorf("--jq requires --output json, jsonl or yaml (or --json)")
				}
				mode = outfmt.JSON
			}
			ctx = outfmt.WithMode(ctx, mode)
			ctx = outfmt.WithCompact(ctx, flags.Compact)
			if flags.JQ != "" {
				ctx = outfmt.WithQuery(ctx, flags.JQ)
			}

			ioStreams := iocontext.DefaultIO()
			if flags.Quiet && mode == outfmt.Text {
				ioStreams.Out = io.Discard
			}
			ctx = iocontext.WithIO(ctx, ioStreams)
			cmd.SetOut(ioStreams.Out)
			cmd.SetErr(ioStreams.ErrOut)

			switch flags.LogFormat {
			case "text", "json":
			default:
				return fmt.Errorf("invalid --log-format %q: must be text or json", flags.LogFormat)
			}
			debug.SetupLogger(flags.Debug, flags.LogFormat)
			ctx = debug.WithDebug(ctx, flags.Debug)
			ctx = dryrun.WithDryRun(ctx, flags.DryRun)

			if flags.Timeout <= 0 {
				return fmt.Errorf("--timeout must be > 0")
			}
			if flags.Retries < 0 {
				return fmt.Errorf("--retries must be >= 0")
			}
			if flags.RetryDelay < 0 {
				return fmt.Errorf("--retry-delay must be >= 0")
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetContext(ctx)
	root.SetArgs(args)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.Output, "output", "o", flags.Output, "Output format: text|json|jsonl|yaml (env EPLITE_OUTPUT)")
	pf.BoolVarP(&flags.JSON, "json", "j", false, "Shorthand for --output json")
	pf.StringVar(&flags.JQ, "jq", "", "JQ expression to filter structured output")
	pf.BoolVar(&flags.Compact, "compact-json", false, "Compact JSON output (no indentation)")
	pf.BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress non-essential output")
	pf.BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	pf.StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format on stderr: text|json")
	pf.BoolVar(&flags.DryRun, "dry-run", false, "Preview write calls without sending them")
	pf.DurationVar(&flags.Timeout, "timeout", flags.Timeout, "HTTP request timeout (e.g., 30s, 2m)")
	pf.BoolVar(&flags.Lenient, "lenient", false, "Treat non-JSON replies as empty results instead of errors")
	pf.IntVar(&flags.Retries, "retries", flags.Retries, "Retries for failed read calls (env EPLITE_MAX_RETRIES)")
	pf.DurationVar(&flags.RetryDelay, "retry-delay", flags.RetryDelay, "Initial delay between retries (env EPLITE_RETRY_DELAY)")
	pf.StringVarP(&flags.Profile, "profile", "p", "", "Credential profile to use (env EPLITE_PROFILE)")

	flagAlias(pf, "jq", "query")
	flagAlias(pf, "compact-json", "cj")
	flagAlias(pf, "dry-run", "dr")
	flagAlias(pf, "output", "out")

	root.AddCommand(newAuthCmd())
	root.AddCommand(newGroupsCmd())
	root.AddCommand(newAuthorsCmd())
	root.AddCommand(newSessionsCmd())
	root.AddCommand(newPadsCmd())
	root.AddCommand(newTextCmd())
	root.AddCommand(newHTMLCmd())
	root.AddCommand(newCallCmd())
	root.AddCommand(newMethodsCmd())
	root.AddCommand(newVersionCmd())

	targetCmd, err := root.ExecuteC()
	if err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			_, _ = fmt.Fprintln(root.ErrOrStderr(), enhanceUnknownError(err, root, targetCmd)) //nolint:errcheck
		}
		return err
	}
	return nil
}

// enhanceUnknownError adds "did you mean?" suggestions to unknown command/flag errors.
func enhanceUnknownError(err error, root *cobra.Command, targetCmd *cobra.Command) string {
	msg := err.Error()

	if strings.Contains(msg, "unknown command") {
		if unknown := extractQuoted(msg); unknown != "" {
			parent := root
			if targetCmd != nil {
				parent = targetCmd
			}
			var names []string
			for _, c := range parent.Commands() {
				if c.IsAvailableCommand() {
					names = append(names, c.Name())
					names = append(names, c.Aliases...)
				}
			}
			if suggestions := resolve.Suggest(unknown, names, 1); len(suggestions) > 0 {
				return fmt.Sprintf("%s\n\nDid you mean %q?", msg, suggestions[0])
			}
		}
	}

	if strings.Contains(msg, "unknown flag") || strings.Contains(msg, "unknown shorthand flag") {
		if unknown := extractFlag(msg); unknown != "" {
			var flagNames []string
			collect := func(fs *pflag.FlagSet) {
				fs.VisitAll(func(f *pflag.Flag) {
					if !f.Hidden {
						flagNames = append(flagNames, "--"+f.Name)
					}
				})
			}
			helpCmd := "eplite --help"
			if targetCmd != nil {
				collect(targetCmd.Flags())
				collect(targetCmd.InheritedFlags())
				helpCmd = targetCmd.CommandPath() + " --help"
			} else {
				collect(root.PersistentFlags())
			}
			if suggestions := resolve.Suggest(strings.TrimLeft(unknown, "-"), flagNames, 1); len(suggestions) > 0 {
				return fmt.Sprintf("%s\n\nDid you mean %q?\nRun %q to see supported flags.", msg, suggestions[0], helpCmd)
			}
			return fmt.Sprintf("%s\n\nRun %q to see supported flags.", msg, helpCmd)
		}
	}

	return msg
}

// extractQuoted extracts the first double-quoted substring from s.
func extractQuoted(s string) string {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(s[start+1:], '"')
	if end < 0 {
		return ""
	}
	return s[start+1 : start+1+end]
}

// extractFlag extracts a flag name (e.g., "--foo") from an error message.
func extractFlag(s string) string {
	idx := strings.Index(s, "--")
	if idx < 0 {
		// shorthand errors look like "unknown shorthand flag: 'a' in -a"
		idx = strings.LastIndex(s, " -")
		if idx < 0 {
			return ""
		}
		rest := strings.TrimRight(strings.TrimSpace(s[idx+1:]), ".,;:!?\"'")
		if strings.HasPrefix(rest, "-") && len(rest) > 1 {
			return rest
		}
		return ""
	}
	rest := s[idx:]
	if end := strings.IndexByte(rest, ' '); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimRight(rest, ".,;:!?\"'")
}
