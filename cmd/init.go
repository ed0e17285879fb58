package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/nibzard/tasklist-go/internal/config"
	"github.com/nibzard/tasklist-go/internal/statedir"
)

// initCommand creates the project state directory with a config file.
func (a *app) initCommand(_ context.Context, args []string) error {
	flags := a.newFlagSet("init")
	force := flags.Bool("force", false, "Overwrite an existing config file")
	if err := flags.Parse(args); err != nil {
		return err
	}

	dir, err := statedir.Ensure(a.cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("creating %s: %w", statedir.Dir, err)
	}
	path := statedir.ConfigPath(a.cfg.ProjectRoot)

	if !*force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use -force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", path, err)
		}
	}

	if err := os.WriteFile(path, []byte(config.ExampleConfig()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(a.stdout, "Initialized %s\n", dir)
	fmt.Fprintf(a.stdout, "Wrote %s\n", path)
	return nil
}

// configCommand prints an example config, or the effective settings.
func (a *app) configCommand(args []string) error {
	flags := a.newFlagSet("config")
	show := flags.Bool("show", false, "Print effective settings and their sources")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if !*show {
		fmt.Fprint(a.stdout, config.ExampleConfig())
		return nil
	}

	values := a.cfg.Values()
	for _, key := range sortedKeys(a.sources.Sources) {
		fmt.Fprintf(a.stdout, "%-15s = %-30s # %s\n", key, values[key], a.sources.Sources[key])
	}
	if file := a.sources.ConfigFile(); file != "" {
		fmt.Fprintf(a.stdout, "\n# project root: %s\n# config file: %s\n", a.cfg.ProjectRoot, file)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
