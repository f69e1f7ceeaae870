package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/slotboard/pkg/app"
	"tableflip.dev/slotboard/pkg/commands/options"
	"tableflip.dev/slotboard/pkg/config"
	"tableflip.dev/slotboard/pkg/logging"
	"tableflip.dev/slotboard/pkg/prompt"
	"tableflip.dev/slotboard/pkg/schedule"
	"tableflip.dev/slotboard/pkg/store"
	"tableflip.dev/slotboard/pkg/transport"
)

var (
	output = &options.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "slotboard",
		Short: base.Wrap80("Lay out non-overlapping events on a day timeline."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addShow(topLevel)
	addAdd(topLevel)
	addRm(topLevel)
	addClear(topLevel)
	addExport(topLevel)
	addImport(topLevel)
	addValidate(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addMCP(topLevel)
	addCompletions(topLevel)
}

// env is what every command needs: configuration, the store and a loaded
// schedule service.
type env struct {
	cfg *config.Config
	svc *app.Service
	log io.Closer
}

// logTo selects where logs go: the configured file, or stderr when the
// terminal is not taken over by the grid.
type logTo int

const (
	logStderr logTo = iota
	logFileOnly
)

func open(dest logTo) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	lc := logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: os.Stderr}
	var closer io.Closer = nopCloser{}
	switch {
	case cfg.Log.File != "" || dest == logFileOnly:
		if closer, err = logging.Open(cfg.Log.File, lc); err != nil {
			return nil, err
		}
	default:
		logging.Init(lc)
	}

	blob, err := store.Load(cfg)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	svc := app.New(schedule.NewBoard(cfg.Timeline), blob, cfg.Key, cfg.SaveDelay)
	svc.Transport = transport.File{Dir: cfg.ExportDir}
	svc.Confirm = prompt.Terminal{}
	return &env{cfg: cfg, svc: svc, log: closer}, nil
}

// load opens the environment and reads the saved schedule. An unreadable
// or invalid blob is an error for the CLI.
func load(dest logTo) (*env, error) {
	e, err := open(dest)
	if err != nil {
		return nil, err
	}
	if status, err := e.svc.Load(cmdContext()); err != nil {
		e.close()
		return nil, &statusError{status: status, err: err}
	}
	return e, nil
}

// loadReplacing is load for verbs that overwrite the whole schedule. An
// invalid saved schedule is reported on warn and left to be replaced.
func loadReplacing(dest logTo, warn io.Writer) (*env, error) {
	e, err := open(dest)
	if err != nil {
		return nil, err
	}
	status, err := e.svc.Load(cmdContext())
	if errors.Is(err, schedule.ErrInvalid) {
		_, _ = fmt.Fprintln(warn, status)
		return e, nil
	}
	if err != nil {
		e.close()
		return nil, &statusError{status: status, err: err}
	}
	return e, nil
}

func (e *env) close() {
	e.svc.Close()
	_ = e.log.Close()
}

// save writes a mutation through right away; the CLI exits before any
// debounced save would fire.
func (e *env) save() error {
	e.svc.Close()
	if status, err := e.svc.Save(cmdContext()); err != nil {
		return &statusError{status: status, err: err}
	}
	return nil
}

type statusError struct {
	status string
	err    error
}

func (s *statusError) Error() string { return s.status + ": " + s.err.Error() }
func (s *statusError) Unwrap() error { return s.err }

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
