package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/etherpad/eplite-go/eplite"
	"github.com/etherpad/eplite-go/internal/iocontext"
)

func newPadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pads",
		Aliases: []string{"pad"},
		Short:   "Manage pads",
		Long:    "Create and delete pads and manage their access settings. Use 'text' and 'html' for content.",
	}

	cmd.AddCommand(newPadsCreateCmd())
	cmd.AddCommand(newPadsDeleteCmd())
	cmd.AddCommand(newPadsRevisionsCmd())
	cmd.AddCommand(newPadsReadOnlyIDCmd())
	cmd.AddCommand(newPadsPublicCmd())
	cmd.AddCommand(newPadsPasswordCmd())
	cmd.AddCommand(newPadsProtectedCmd())

	return cmd
}

func newPadsCreateCmd() *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "create <pad-id>",
		Short: "Create a pad outside any group",
		Example: strings.TrimSpace(`
  eplite pads create standup --text "Yesterday / Today / Blockers"
  cat notes.txt | eplite pads create notes --text -
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			content, err := iocontext.ReadContent(cmdContext(cmd), text)
			if err != nil {
				return err
			}
			inv, err := getInvoker(cmd)
			if err != nil {
				return err
			}
			if err := eplite.Pads(inv).Create(cmdContext(cmd), args[0], content); err != nil {
				return err
			}
			return printWriteResult(cmd, "Created", "pad", args[0])
		}),
	}
	cmd.Flags().StringVar(&text, "text", "", "Initial text ('-' for stdin, @path for a file)")
	return cmd
}

func newPadsDeleteCmd() *cobra.Command {
	var opts bulkDeleteOptions

	cmd := &cobra.Command{
		Use:   "delete <pad-id>...",
		Short: "Delete pads",
		Example: strings.TrimSpace(`
  eplite pads delete standup
  eplite groups pads g.s8oes9dhwrvt0zif --jq '.padIDs[]' -o jsonl | xargs eplite pads delete
`),
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			inv, err := getInvoker(cmd)
			if err != nil {
				return err
			}
			return runBulkDelete(cmd, args, "pad", opts, eplite.Pads(inv).Delete)
		}),
	}
	opts.register(cmd)
	return cmd
}

func newPadsRevisionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revisions <pad-id>",
		Short: "Show the number of revisions of a pad",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			inv, err := getInvoker(cmd)
			if err != nil {
				return err
			}
			result, err := eplite.Pads(inv).RevisionsCount(cmdContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printField(cmd, result, "revisions")
		}),
	}
}

func newPadsReadOnlyIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "readonly-id <pad-id>",
		Short: "Show the read-only ID of a pad",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			inv, err := getInvoker(cmd)
			if err != nil {
				return err
			}
			result, err := eplite.Pads(inv).ReadOnlyID(cmdContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printField(cmd, result, "readOnlyID")
		}),
	}
}

func newPadsPublicCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "public",
		Short: "Show or change whether a group pad is public",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <pad-id>",
		Short: "Show whether a pad is public",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			inv, err := getInvoker(cmd)
			if err != nil {
				return err
			}
			result, err := eplite.Pads(inv).PublicStatus(cmdContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printField(cmd, result, "publicStatus")
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <pad-id> <true|false>",
		Short: "Make a pad public or private",
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			public, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("invalid value %q: must be true or false", args[1])
			}
			inv, err := getInvoker(cmd)
			if err != nil {
				return err
			}
			if err := eplite.Pads(inv).SetPublicStatus(cmdContext(cmd), args[0], public); err != nil {
				return err
			}
			action := "Made private"
			if public {
				action = "Made public"
			}
			return printWriteResult(cmd, action, "pad", args[0])
		}),
	})

	return cmd
}

func newPadsPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Manage pad passwords",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <pad-id> <password>",
		Short: "Set the password of a group pad",
		Long:  "Set the password of a group pad. The password may be '-' for stdin or @path for a file.",
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			password, err := iocontext.ReadContent(cmdContext(cmd), args[1])
			if err != nil {
				return err
			}
			password = strings.TrimRight(password, "\r\n")
			inv, err := getInvoker(cmd)
			if err != nil {
				return err
			}
			if err := eplite.Pads(inv).SetPassword(cmdContext(cmd), args[0], password); err != nil {
				return err
			}
			return printWriteResult(cmd, "Set password of", "pad", args[0])
		}),
	})

	return cmd
}

func newPadsProtectedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "protected <pad-id>",
		Short: "Show whether a pad has a password",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			inv, err := getInvoker(cmd)
			if err != nil {
				return err
			}
			result, err := eplite.Pads(inv).IsPasswordProtected(cmdContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printField(cmd, result, "isPasswordProtected")
		}),
	}
}
