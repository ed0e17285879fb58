package cmd

import (
	"context"
	"fmt"

	"github.com/nibzard/tasklist-go/internal/input"
	"github.com/nibzard/tasklist-go/internal/logging"
	"github.com/nibzard/tasklist-go/internal/ui"
)

// tuiCommand launches the interactive list. Logs go to a per-session file
// since the terminal belongs to the UI.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	fs := a.newFlagSet("tui")
	if err := fs.Parse(args); err != nil {
		return err
	}

	runLog, err := logging.OpenRunLog(a.cfg.LogDir, a.cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("opening session log: %w", err)
	}
	defer runLog.Close()
	logger := logging.New(runLog.Writer(), a.cfg.Logging("tui"))
	logger.Info("session started", "run", runLog.RunID, "backend", a.cfg.Backend, "locale", a.cfg.Locale)

	s, err := a.openSession(ctx, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	ctrl := input.NewController(s.store, s.renderer.Messages(),
		input.WithErrorTimeout(a.cfg.ErrorTimeout),
		input.WithLogger(logger),
	)
	s.adapter.SetReporter(ctrl)
	defer ctrl.ClearError()

	err = ui.Run(ctx, s.store, ctrl, s.renderer, logger)
	total, completed := s.store.Count()
	logger.Info("session ended", "tasks", total, "completed", completed, "err", err)
	return err
}
