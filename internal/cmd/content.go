package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/etherpad/eplite-go/eplite"
	"github.com/etherpad/eplite-go/internal/iocontext"
)

// padContent binds the text and html commands to their procedures.
type padContent struct {
	name  string
	key   string
	get   func(s eplite.PadsService, ctx context.Context, padID string) (eplite.Payload, error)
	getAt func(s eplite.PadsService, ctx context.Context, padID string, rev int) (eplite.Payload, error)
	set   func(s eplite.PadsService, ctx context.Context, padID, content string) error
}

var (
	textContent = padContent{
		name:  "text",
		key:   "text",
		get:   eplite.PadsService.Text,
		getAt: eplite.PadsService.TextAt,
		set:   eplite.PadsService.SetText,
	}
	htmlContent = padContent{
		name:  "html",
		key:   "html",
		get:   eplite.PadsService.HTML,
		getAt: eplite.PadsService.HTMLAt,
		set:   eplite.PadsService.SetHTML,
	}
)

func newTextCmd() *cobra.Command {
	return newContentCmd(textContent, "Read or replace the plain text of a pad")
}

func newHTMLCmd() *cobra.Command {
	return newContentCmd(htmlContent, "Read or replace the content of a pad as HTML")
}

func newContentCmd(c padContent, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   c.name,
		Short: short,
	}
	cmd.AddCommand(newContentGetCmd(c))
	cmd.AddCommand(newContentSetCmd(c))
	return cmd
}

func newContentGetCmd(c padContent) *cobra.Command {
	var rev int

	cmd := &cobra.Command{
		Use:   "get <pad-id>",
		Short: fmt.Sprintf("Print the %s of a pad", c.name),
		Example: strings.TrimSpace(fmt.Sprintf(`
  eplite %[1]s get standup
  eplite %[1]s get standup --rev 12 > standup-12.%[1]s
`, c.name)),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			inv, err := getInvoker(cmd)
			if err != nil {
				return err
			}
			pads := eplite.Pads(inv)
			var result eplite.Payload
			if cmd.Flags().Changed("rev") {
				if rev < 0 {
					return fmt.Errorf("--rev must be >= 0")
				}
				result, err = c.getAt(pads, cmdContext(cmd), args[0], rev)
			} else {
				result, err = c.get(pads, cmdContext(cmd), args[0])
			}
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, result)
			}
			content, _ := result.String(c.key)
			ioStreams := iocontext.GetIO(cmd.Context())
			_, _ = fmt.Fprint(ioStreams.Out, content)
			if !strings.HasSuffix(content, "\n") {
				_, _ = fmt.Fprintln(ioStreams.Out)
			}
			return nil
		}),
	}
	cmd.Flags().IntVar(&rev, "rev", 0, "Revision to read (default: latest)")
	return cmd
}

func newContentSetCmd(c padContent) *cobra.Command {
	return &cobra.Command{
		Use:   "set <pad-id> <content>",
		Short: fmt.Sprintf("Replace the %s of a pad", c.name),
		Long:  fmt.Sprintf("Replace the %s of a pad. The content may be '-' for stdin or @path for a file.", c.name),
		Example: strings.TrimSpace(fmt.Sprintf(`
  eplite %[1]s set standup @standup.%[1]s
  cat standup.%[1]s | eplite %[1]s set standup -
`, c.name)),
		Args: cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			content, err := iocontext.ReadContent(cmdContext(cmd), args[1])
			if err != nil {
				return err
			}
			inv, err := getInvoker(cmd)
			if err != nil {
				return err
			}
			if err := c.set(eplite.Pads(inv), cmdContext(cmd), args[0], content); err != nil {
				return err
			}
			return printWriteResult(cmd, "Updated "+c.name+" of", "pad", args[0])
		}),
	}
}
