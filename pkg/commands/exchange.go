package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/slotboard/pkg/app"
	"tableflip.dev/slotboard/pkg/commands/options"
	"tableflip.dev/slotboard/pkg/config"
	"tableflip.dev/slotboard/pkg/prompt"
	"tableflip.dev/slotboard/pkg/schedule"
	"tableflip.dev/slotboard/pkg/transport"
)

func addExport(topLevel *cobra.Command) {
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "write the schedule to a timestamped JSON file",
		Example: `
slotboard export
slotboard export --dir ~/backups
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := load(logStderr)
			if err != nil {
				return output.HandleError(err)
			}
			defer e.close()
			if dir != "" {
				e.svc.Transport = transport.File{Dir: dir}
			}

			status, err := e.svc.Export(cmdContext())
			if err != nil {
				return output.HandleError(err)
			}
			return output.Status(status)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory to write into (defaults to export_dir).")
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addImport(topLevel *cobra.Command) {
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "replace the schedule with an exported file",
		Example: `
slotboard import schedule-20261015-123000.json
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := loadReplacing(logStderr, cmd.ErrOrStderr())
			if err != nil {
				return output.HandleError(err)
			}
			defer e.close()
			e.svc.Transport = transport.File{Dir: e.cfg.ExportDir, Source: args[0]}
			if co.Yes {
				e.svc.Confirm = prompt.Yes{}
			}

			status, err := e.svc.Import(cmdContext())
			if errors.Is(err, app.ErrCancelled) {
				return output.Status(status)
			}
			if err != nil {
				return output.HandleError(fmt.Errorf("%s: %w", status, err))
			}
			return output.Status(status)
		},
	}

	options.AddConfirmArg(cmd, co)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addValidate(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "check a schedule file without importing it",
		Example: `
slotboard validate schedule-20261015-123000.json
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg, err := config.Load()
			if err != nil {
				return output.HandleError(err)
			}
			raw, _, err := transport.File{Source: args[0]}.Import()
			if err != nil {
				return output.HandleError(err)
			}
			p, err := schedule.Deserialize(cfg.Timeline, raw)
			if err != nil {
				return output.HandleError(err)
			}
			n := 0
			for _, row := range p.Rows {
				n += len(row)
			}
			return output.Status(fmt.Sprintf("%s is valid: %d rows, %d events", args[0], len(p.Rows), n))
		},
	}

	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
