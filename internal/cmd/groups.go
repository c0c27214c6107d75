package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/etherpad/eplite-go/eplite"
	"github.com/etherpad/eplite-go/internal/iocontext"
)

func newGroupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "groups",
		Aliases: []string{"group", "g"},
		Short:   "Manage groups",
		Long:    "Create and delete groups, and manage the pads that belong to them.",
	}

	cmd.AddCommand(newGroupsCreateCmd())
	cmd.AddCommand(newGroupsCreateForCmd())
	cmd.AddCommand(newGroupsDeleteCmd())
	cmd.AddCommand(newGroupsPadsCmd())
	cmd.AddCommand(newGroupsCreatePadCmd())

	return cmd
}

func newGroupsCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a new group",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			inv, err := getInvoker(cmd)
			if err != nil {
				return err
			}
			result, err := eplite.Groups(inv).Create(cmdContext(cmd))
			if err != nil {
				return err
			}
			return printField(cmd, result, "groupID")
		}),
	}
}

func newGroupsCreateForCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-for <group-mapper>",
		Short: "Return the group mapped to an external ID, creating it if needed",
		Example: strings.TrimSpace(`
  # One group per team in your own application
  eplite groups create-for team-42
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			inv, err := getInvoker(cmd)
			if err != nil {
				return err
			}
			result, err := eplite.Groups(inv).CreateFor(cmdContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printField(cmd, result, "groupID")
		}),
	}
}

func newGroupsDeleteCmd() *cobra.Command {
	var opts bulkDeleteOptions

	cmd := &cobra.Command{
		Use:   "delete <group-id>...",
		Short: "Delete groups with their pads and sessions",
		Example: strings.TrimSpace(`
  eplite groups delete g.s8oes9dhwrvt0zif
  eplite groups delete @groups.txt --progress
`),
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			inv, err := getInvoker(cmd)
			if err != nil {
				return err
			}
			return runBulkDelete(cmd, args, "group", opts, eplite.Groups(inv).Delete)
		}),
	}
	opts.register(cmd)
	return cmd
}

func newGroupsPadsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "pads <group-id>",
		Aliases: []string{"list-pads"},
		Short:   "List the pads of a group",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			inv, err := getInvoker(cmd)
			if err != nil {
				return err
			}
			result, err := eplite.Groups(inv).ListPads(cmdContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printList(cmd, result, "padIDs", "No pads found.")
		}),
	}
}

func newGroupsCreatePadCmd() *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "create-pad <group-id> <pad-name>",
		Short: "Create a pad inside a group",
		Long:  "Create a pad inside a group. The pad ID is <group-id>$<pad-name>.",
		Example: strings.TrimSpace(`
  eplite groups create-pad g.s8oes9dhwrvt0zif notes --text "Agenda"
  eplite groups create-pad g.s8oes9dhwrvt0zif notes --text @agenda.txt
`),
		Args: cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			content, err := iocontext.ReadContent(cmdContext(cmd), text)
			if err != nil {
				return err
			}
			inv, err := getInvoker(cmd)
			if err != nil {
				return err
			}
			if err := eplite.Groups(inv).CreatePad(cmdContext(cmd), args[0], args[1], content); err != nil {
				return err
			}
			return printWriteResult(cmd, "Created", "pad", args[0]+"$"+args[1])
		}),
	}
	cmd.Flags().StringVar(&text, "text", "", "Initial text ('-' for stdin, @path for a file)")
	return cmd
}
