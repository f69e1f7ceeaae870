package options

import (
	"github.com/spf13/cobra"
)

// RowOptions address a row, and optionally an event within it.
type RowOptions struct {
	Row   int
	Index int
}

func AddRowArg(cmd *cobra.Command, o *RowOptions) {
	cmd.Flags().IntVarP(&o.Row, "row", "r", 0,
		"Zero-based row.")
}

func AddIndexArg(cmd *cobra.Command, o *RowOptions) {
	cmd.Flags().IntVarP(&o.Index, "index", "i", 0,
		"Zero-based index of the event within its row.")
}

// RangeOptions is an inclusive slot range.
type RangeOptions struct {
	Start int
	End   int
}

func AddRangeArgs(cmd *cobra.Command, o *RangeOptions) {
	cmd.Flags().IntVarP(&o.Start, "start", "s", 0, "First slot of the event.")
	cmd.Flags().IntVarP(&o.End, "end", "e", 0, "Last slot of the event.")
}

// ConfirmOptions skip the interactive confirmation of destructive commands.
type ConfirmOptions struct {
	Yes bool
}

func AddConfirmArg(cmd *cobra.Command, o *ConfirmOptions) {
	cmd.Flags().BoolVarP(&o.Yes, "yes", "y", false,
		"Do not ask for confirmation.")
}

// InteractiveOptions
type InteractiveOptions struct {
	Interactive bool
}

func InteractiveArgs(cmd *cobra.Command, o *InteractiveOptions) {
	cmd.Flags().BoolVarP(&o.Interactive, "interactive", "I", false,
		`Prompt for options that were not given.`)
}
