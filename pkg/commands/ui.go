package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/slotboard/pkg/tui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the schedule grid",
		Long: base.Wrap80(`Open the full-screen grid. Drag across empty slots to create an event,
drag an event to move it, drag its first or last slot to resize it.`),
		Example: `
slotboard ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := open(logFileOnly)
			if err != nil {
				return err
			}
			defer e.close()
			return tui.Run(e.svc)
		},
	}

	topLevel.AddCommand(cmd)
}
