package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nibzard/tasklist-go/internal/input"
	"github.com/nibzard/tasklist-go/internal/render"
	"github.com/nibzard/tasklist-go/internal/todo"
)

// addCommand adds one task from the remaining arguments.
func (a *app) addCommand(ctx context.Context, args []string) error {
	fs := a.newFlagSet("add")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := a.openSession(ctx, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	ctrl := input.NewController(s.store, s.renderer.Messages(),
		input.WithErrorTimeout(a.cfg.ErrorTimeout),
		input.WithLogger(a.logger),
	)
	defer ctrl.ClearError()
	s.adapter.SetReporter(ctrl)

	task, err := ctrl.Submit(ctx, strings.Join(fs.Args(), " "))
	if task.IsZero() {
		if msg := ctrl.Error(); msg != "" {
			return errors.New(msg)
		}
		return err
	}
	fmt.Fprintf(a.stdout, "%d\t%s\n", task.ID, render.InertText(task.Text))
	if err != nil {
		// The task was added in memory but not saved.
		return errors.New(ctrl.Error())
	}
	return nil
}

// lsCommand lists tasks in collection order.
func (a *app) lsCommand(ctx context.Context, args []string) error {
	fs := a.newFlagSet("ls")
	asJSON := fs.Bool("json", false, "Print JSON instead of text")
	done := fs.Bool("done", false, "Only completed tasks")
	pending := fs.Bool("pending", false, "Only open tasks")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *done && *pending {
		return fmt.Errorf("-done and -pending are mutually exclusive")
	}

	s, err := a.openSession(ctx, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	tasks := s.store.Tasks()
	if *done || *pending {
		filtered := make([]todo.Task, 0, len(tasks))
		for _, task := range tasks {
			if task.Completed == *done {
				filtered = append(filtered, task)
			}
		}
		tasks = filtered
	}

	if *asJSON {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	}

	for _, entry := range s.renderer.Render(tasks) {
		if entry.Kind == render.EntryEmpty {
			for _, line := range entry.Lines {
				fmt.Fprintln(a.stdout, line)
			}
			continue
		}
		box := "[ ]"
		if entry.Completed {
			box = "[x]"
		}
		fmt.Fprintf(a.stdout, "%3d %s %s\n", entry.ID, box, entry.Text)
	}
	total, completed := s.store.Count()
	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, s.renderer.RenderCount(total, completed))
	return nil
}

// toggleCommand flips the completion flag of one task.
func (a *app) toggleCommand(ctx context.Context, args []string) error {
	return a.mutate(ctx, "toggle", args, func(s *session, id int) (bool, error) {
		return s.store.Toggle(ctx, id)
	})
}

// rmCommand deletes one task.
func (a *app) rmCommand(ctx context.Context, args []string) error {
	return a.mutate(ctx, "rm", args, func(s *session, id int) (bool, error) {
		return s.store.Delete(ctx, id)
	})
}

func (a *app) mutate(ctx context.Context, name string, args []string, op func(*session, int) (bool, error)) error {
	fs := a.newFlagSet(name)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%s requires exactly one task id", name)
	}
	id, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid task id %q", fs.Arg(0))
	}

	s, err := a.openSession(ctx, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	found, err := op(s, id)
	if err != nil {
		return fmt.Errorf("%s: %w", s.renderer.Messages().SaveFailed, err)
	}
	if !found {
		return fmt.Errorf("task %d not found", id)
	}
	total, completed := s.store.Count()
	fmt.Fprintln(a.stdout, s.renderer.RenderCount(total, completed))
	return nil
}

// countCommand prints the count line.
func (a *app) countCommand(ctx context.Context, args []string) error {
	fs := a.newFlagSet("count")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := a.openSession(ctx, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	total, completed := s.store.Count()
	fmt.Fprintln(a.stdout, s.renderer.RenderCount(total, completed))
	return nil
}

// exportCommand writes the list as a standalone HTML page.
func (a *app) exportCommand(ctx context.Context, args []string) error {
	fs := a.newFlagSet("export")
	output := fs.String("o", "", "Output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := a.openSession(ctx, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	if *output == "" {
		return s.renderer.WriteHTML(a.stdout, s.store.Tasks())
	}

	f, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", *output, err)
	}
	if err := s.renderer.WriteHTML(f, s.store.Tasks()); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", *output, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", *output, err)
	}
	fmt.Fprintf(a.stderr, "Wrote %s\n", *output)
	return nil
}
