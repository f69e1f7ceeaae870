package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/slotboard/pkg/commands/options"
)

func addRm(topLevel *cobra.Command) {
	ro := &options.RowOptions{}

	cmd := &cobra.Command{
		Use:   "rm",
		Short: "delete an event",
		Example: `
slotboard rm --row 0 --index 1
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := load(logStderr)
			if err != nil {
				return output.HandleError(err)
			}
			defer e.close()

			status, err := e.svc.Delete(ro.Row, ro.Index)
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
	options.AddIndexArg(cmd, ro)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
