package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/slotboard/pkg/app"
	"tableflip.dev/slotboard/pkg/commands/options"
	"tableflip.dev/slotboard/pkg/prompt"
)

func addClear(topLevel *cobra.Command) {
	ro := &options.RowOptions{}
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "remove every event of a row, or of the whole schedule",
		Example: `
slotboard clear --row 2
slotboard clear --yes
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			// Clearing everything is also how a corrupt schedule is reset.
			var e *env
			var err error
			if cmd.Flags().Changed("row") {
				e, err = load(logStderr)
			} else {
				e, err = loadReplacing(logStderr, cmd.ErrOrStderr())
			}
			if err != nil {
				return output.HandleError(err)
			}
			defer e.close()
			if co.Yes {
				e.svc.Confirm = prompt.Yes{}
			}

			var status string
			if cmd.Flags().Changed("row") {
				status, err = e.svc.ClearRow(ro.Row)
			} else {
				status, err = e.svc.ClearAll()
			}
			if errors.Is(err, app.ErrCancelled) {
				return output.Status(status)
			}
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
	options.AddConfirmArg(cmd, co)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
