package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"tableflip.dev/slotboard/pkg/commands/options"
	"tableflip.dev/slotboard/pkg/config"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configuration and where the schedule is stored.",
		Example: `
slotboard info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := open(logStderr)
			if err != nil {
				return output.HandleError(err)
			}
			defer e.close()
			status, loadErr := e.svc.Load(cmdContext())

			cfg := e.cfg
			if output.JSON {
				return output.Print(map[string]any{
					"configFile": cfg.File,
					"path":       cfg.BasePath(),
					"key":        cfg.Key,
					"timeline":   cfg.Timeline,
					"totalSlots": cfg.Timeline.TotalSlots(),
					"saveDelay":  cfg.SaveDelay.String(),
					"exportDir":  cfg.ExportDir,
					"events":     e.svc.Board.Count(),
					"status":     status,
				})
			}

			bold := color.New(color.Bold)
			tbl := uitable.New()
			tbl.Separator = "  "
			if override := os.Getenv(config.EnvConfigPath); override != "" {
				tbl.AddRow(bold.Sprint(config.EnvConfigPath), override)
			} else {
				tbl.AddRow(bold.Sprint(config.EnvConfigPath), "not set")
			}
			file := cfg.File
			if file == "" {
				file = "none found, using defaults"
			}
			tl := cfg.Timeline
			tbl.AddRow(bold.Sprint("Config file"), file)
			tbl.AddRow(bold.Sprint("Store path"), cfg.BasePath())
			tbl.AddRow(bold.Sprint("Key"), cfg.Key)
			tbl.AddRow(bold.Sprint("Timeline"), fmt.Sprintf("%s-%s, %d slots of %d min, %d rows",
				tl.Label(0), tl.Label(tl.TotalSlots()), tl.TotalSlots(), 60/tl.SlotsPerHour, tl.Rows))
			tbl.AddRow(bold.Sprint("Save delay"), cfg.SaveDelay.String())
			tbl.AddRow(bold.Sprint("Export dir"), cfg.ExportDir)
			tbl.AddRow(bold.Sprint("Schedule"), status)
			tbl.RightAlign(0)
			_, _ = fmt.Fprintln(color.Output, tbl)
			if loadErr != nil {
				return loadErr
			}
			return nil
		},
	}

	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
