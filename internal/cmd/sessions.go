package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/etherpad/eplite-go/eplite"
	"github.com/etherpad/eplite-go/internal/cli"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"session", "s"},
		Short:   "Manage author sessions in groups",
	}

	cmd.AddCommand(newSessionsCreateCmd())
	cmd.AddCommand(newSessionsDeleteCmd())
	cmd.AddCommand(newSessionsInfoCmd())
	cmd.AddCommand(newSessionsOfGroupCmd())
	cmd.AddCommand(newSessionsOfAuthorCmd())

	return cmd
}

func newSessionsCreateCmd() *cobra.Command {
	var (
		hours int
		until string
	)

	cmd := &cobra.Command{
		Use:   "create <group-id> <author-id>",
		Short: "Open a session for an author in a group",
		Example: strings.TrimSpace(`
  eplite sessions create g.s8oes9dhwrvt0zif a.s8oes9dhwrvt0zif --hours 8
  eplite sessions create g.s8oes9dhwrvt0zif a.s8oes9dhwrvt0zif --until 2026-12-31T23:00:00Z
  eplite sessions create g.s8oes9dhwrvt0zif a.s8oes9dhwrvt0zif --until "next fri"
`),
		Args: cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			validUntil, err := sessionExpiry(cmd, hours, until)
			if err != nil {
				return err
			}
			inv, err := getInvoker(cmd)
			if err != nil {
				return err
			}
			result, err := eplite.Sessions(inv).Create(cmdContext(cmd), args[0], args[1], validUntil)
			if err != nil {
				return err
			}
			return printField(cmd, result, "sessionID")
		}),
	}
	cmd.Flags().IntVar(&hours, "hours", 1, "Session lifetime in hours")
	cmd.Flags().StringVar(&until, "until", "", "Expiry: a lifetime (8h, 2d), a day (tomorrow, fri) or RFC 3339")
	cmd.MarkFlagsMutuallyExclusive("hours", "until")
	return cmd
}

func sessionExpiry(cmd *cobra.Command, hours int, until string) (time.Time, error) {
	if cmd.Flags().Changed("until") {
		t, err := cli.ParseExpiry(until, time.Now())
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --until %q: use a lifetime (8h, 2d), a day (tomorrow, fri, 2026-12-31) or RFC 3339", until)
		}
		if !t.After(time.Now()) {
			return time.Time{}, fmt.Errorf("--until must be in the future")
		}
		return t, nil
	}
	if hours <= 0 {
		return time.Time{}, fmt.Errorf("--hours must be > 0")
	}
	return eplite.ValidForHours(hours), nil
}

func newSessionsDeleteCmd() *cobra.Command {
	var opts bulkDeleteOptions

	cmd := &cobra.Command{
		Use:   "delete <session-id>...",
		Short: "End sessions",
		Args:  cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			inv, err := getInvoker(cmd)
			if err != nil {
				return err
			}
			return runBulkDelete(cmd, args, "session", opts, eplite.Sessions(inv).Delete)
		}),
	}
	opts.register(cmd)
	return cmd
}

func newSessionsInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <session-id>",
		Short: "Show the group, author and expiry of a session",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			inv, err := getInvoker(cmd)
			if err != nil {
				return err
			}
			result, err := eplite.Sessions(inv).Info(cmdContext(cmd), args[0])
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, result)
			}
			var info eplite.SessionInfo
			if err := result.Decode(&info); err != nil {
				return err
			}
			f := newFormatter(cmd)
			f.Row("Group:", info.GroupID)
			f.Row("Author:", info.AuthorID)
			f.Row("Expires:", formatExpiry(info))
			return f.EndTable()
		}),
	}
}

func newSessionsOfGroupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "of-group <group-id>",
		Short: "List the sessions of a group",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			inv, err := getInvoker(cmd)
			if err != nil {
				return err
			}
			result, err := eplite.Sessions(inv).OfGroup(cmdContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printSessions(cmd, result)
		}),
	}
}

func newSessionsOfAuthorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "of-author <author-id>",
		Short: "List the sessions of an author",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			inv, err := getInvoker(cmd)
			if err != nil {
				return err
			}
			result, err := eplite.Sessions(inv).OfAuthor(cmdContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printSessions(cmd, result)
		}),
	}
}

func printSessions(cmd *cobra.Command, result eplite.Payload) error {
	if isJSON(cmd) {
		return printJSON(cmd, result)
	}
	sessions, err := result.Sessions()
	if err != nil {
		return err
	}
	f := newFormatter(cmd)
	if len(sessions) == 0 {
		f.Empty("No sessions found.")
		return nil
	}
	ids := make([]string, 0, len(sessions))
	for id := range sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	f.StartTable([]string{"SESSION", "GROUP", "AUTHOR", "EXPIRES"})
	for _, id := range ids {
		info := sessions[id]
		f.Row(id, info.GroupID, info.AuthorID, formatExpiry(info))
	}
	return f.EndTable()
}

func formatExpiry(info eplite.SessionInfo) string {
	if info.ValidUntil == 0 {
		return "-"
	}
	expires := info.Expires()
	label := expires.Local().Format(time.RFC3339)
	if expires.Before(time.Now()) {
		label += " (expired)"
	}
	return label
}
