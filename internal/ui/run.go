package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist-go/internal/input"
	"github.com/nibzard/tasklist-go/internal/render"
	"github.com/nibzard/tasklist-go/internal/todo"
)

// Run starts the TUI on the terminal and blocks until the user quits or ctx
// is done.
func Run(ctx context.Context, store *todo.Store, ctrl *input.Controller, renderer *render.Renderer, logger *log.Logger) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := NewModel(ctx, store, ctrl, renderer, logger)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// The hook runs on the timer goroutine, never inside Update.
	ctrl.SetExpireHook(func() {
		program.Send(errorExpiredMsg{})
	})
	defer ctrl.SetExpireHook(nil)

	if _, err := program.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
