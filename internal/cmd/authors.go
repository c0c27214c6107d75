package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/etherpad/eplite-go/eplite"
)

func newAuthorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "authors",
		Aliases: []string{"author", "a"},
		Short:   "Manage authors",
	}

	cmd.AddCommand(newAuthorsCreateCmd())
	cmd.AddCommand(newAuthorsCreateForCmd())
	cmd.AddCommand(newAuthorsPadsCmd())
	cmd.AddCommand(newAuthorsOfPadCmd())

	return cmd
}

func newAuthorsCreateCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new author",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			inv, err := getInvoker(cmd)
			if err != nil {
				return err
			}
			result, err := eplite.Authors(inv).Create(cmdContext(cmd), name)
			if err != nil {
				return err
			}
			return printField(cmd, result, "authorID")
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	return cmd
}

func newAuthorsCreateForCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create-for <author-mapper>",
		Short: "Return the author mapped to an external ID, creating it if needed",
		Example: strings.TrimSpace(`
  eplite authors create-for user-7 --name "Ada"
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			inv, err := getInvoker(cmd)
			if err != nil {
				return err
			}
			result, err := eplite.Authors(inv).CreateFor(cmdContext(cmd), args[0], name)
			if err != nil {
				return err
			}
			return printField(cmd, result, "authorID")
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	return cmd
}

func newAuthorsPadsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pads <author-id>",
		Short: "List the pads an author contributed to",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			inv, err := getInvoker(cmd)
			if err != nil {
				return err
			}
			result, err := eplite.Authors(inv).ListPads(cmdContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printList(cmd, result, "padIDs", "No pads found.")
		}),
	}
}

func newAuthorsOfPadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "of-pad <pad-id>",
		Short: "List the authors of a pad",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			inv, err := getInvoker(cmd)
			if err != nil {
				return err
			}
			result, err := eplite.Authors(inv).OfPad(cmdContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printList(cmd, result, "authorIDs", "No authors found.")
		}),
	}
}
