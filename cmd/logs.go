package cmd

import (
	"context"
	"fmt"

	"github.com/nibzard/tasklist-go/internal/logging"
)

// logsCommand lists or tails the terminal UI session logs of this project.
func (a *app) logsCommand(ctx context.Context, args []string) error {
	fs := a.newFlagSet("logs")
	follow := fs.Bool("follow", false, "Follow the latest log")
	fs.BoolVar(follow, "f", false, "Follow the latest log (shorthand)")
	lines := fs.Int("n", 50, "Number of lines to show (0 = all)")
	list := fs.Bool("list", false, "List session logs instead")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dir, err := logging.ProjectLogDir(a.cfg.LogDir, a.cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("resolving log dir: %w", err)
	}

	if *list {
		runs, err := logging.FindRuns(dir)
		if err != nil {
			return fmt.Errorf("listing logs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Fprintf(a.stdout, "No logs in %s\n", dir)
			return nil
		}
		for _, run := range runs {
			fmt.Fprintf(a.stdout, "%s  %s  %6d  %s\n",
				run.RunID, run.ModTime.Format("2006-01-02 15:04:05"), run.Size, run.Path)
		}
		return nil
	}

	path, err := logging.FindLatestLog(dir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if path == "" {
		return fmt.Errorf("no logs found in %s", dir)
	}
	return logging.TailLog(ctx, a.stdout, path, *lines, *follow)
}
