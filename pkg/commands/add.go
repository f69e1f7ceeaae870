package commands

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/slotboard/pkg/commands/options"
	"tableflip.dev/slotboard/pkg/prompt"
)

func addAdd(topLevel *cobra.Command) {
	ro := &options.RowOptions{}
	rg := &options.RangeOptions{}
	in := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "add [TITLE]",
		Short: "add an event",
		Long: base.Wrap80(`Add an event covering the inclusive slots --start..--end on --row.
An event that would share a slot with another event on the row is rejected.`),
		Example: `
slotboard add --row 0 --start 4 --end 9 Standup
slotboard add -I
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			title := strings.TrimSpace(strings.Join(args, " "))
			if in.Interactive {
				term := prompt.Terminal{}
				if err := prompt.Flags(cmd.Flags(), term, "row", "start", "end"); err != nil {
					return output.HandleError(err)
				}
				if title == "" {
					title, _ = term.PromptText("Title", "")
				}
			}
			if title == "" {
				return output.HandleError(errors.New("a title is required"))
			}
			e, err := load(logStderr)
			if err != nil {
				return output.HandleError(err)
			}
			defer e.close()

			status, err := e.svc.Create(ro.Row, rg.Start, rg.End, title)
			if err != nil {
				return output.HandleError(err)
			}
			if err := e.save(); err != nil {
				return output.HandleError(err)
			}
			return output.Status(status)
		},
	}

	options.AddRowArg(cmd, ro)
	options.AddRangeArgs(cmd, rg)
	options.InteractiveArgs(cmd, in)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
