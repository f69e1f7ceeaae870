package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/slotboard/pkg/commands/options"
	"tableflip.dev/slotboard/pkg/printers"
	"tableflip.dev/slotboard/pkg/schedule"
)

func addShow(topLevel *cobra.Command) {
	var showIndex bool

	cmd := &cobra.Command{
		Use:     "show",
		Aliases: []string{"ls"},
		Short:   "print the schedule",
		Example: `
slotboard show
slotboard show --json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := load(logStderr)
			if err != nil {
				return output.HandleError(err)
			}
			defer e.close()

			rows := e.svc.Board.Rows()
			if output.JSON {
				return output.Print(schedule.Serialize(rows, e.svc.Now()))
			}
			pp := printers.PrettyPrint{ShowIndex: showIndex}
			pp.Schedule(e.cfg.Timeline, rows)
			return nil
		},
	}

	options.AddOutputArg(cmd, output)
	cmd.Flags().BoolVar(&showIndex, "index", true, "Show the event index used by rm.")

	topLevel.AddCommand(cmd)
}
