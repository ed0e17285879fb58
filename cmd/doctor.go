package cmd

import (
	"context"
	"fmt"
	"slices"

	"github.com/nibzard/tasklist-go/internal/locale"
	"github.com/nibzard/tasklist-go/internal/storage"
)

// doctorCommand checks the configuration and the stored data.
func (a *app) doctorCommand(ctx context.Context, args []string) error {
	fs := a.newFlagSet("doctor")
	verbose := fs.Bool("v", false, "Show config sources")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg := a.cfg
	out := a.stdout

	fmt.Fprintln(out, "Tasklist Doctor")
	fmt.Fprintln(out, "===============")
	fmt.Fprintln(out)

	allOK := true

	// Config files
	if len(a.sources.Files) == 0 {
		fmt.Fprintln(out, "Config files: none (using defaults)")
	} else {
		fmt.Fprintln(out, "Config files:")
		for _, path := range a.sources.Files {
			fmt.Fprintf(out, "  ✅ %s\n", path)
		}
	}
	fmt.Fprintln(out)

	// Locale
	if slices.Contains(locale.Supported(), cfg.Locale) {
		fmt.Fprintf(out, "Locale: ✅ %s\n", cfg.Locale)
	} else {
		fmt.Fprintf(out, "Locale: ⚠️  %s is not supported, using %s\n", cfg.Locale, cfg.Messages().Tag)
	}
	fmt.Fprintln(out)

	// Backend
	fmt.Fprintf(out, "Storage backend: %s\n", cfg.Backend)
	switch cfg.Backend {
	case storage.BackendFile:
		fmt.Fprintf(out, "  File: %s\n", cfg.StoreFile)
	case storage.BackendSQLite:
		fmt.Fprintf(out, "  Database: %s\n", cfg.SQLiteFile)
	case storage.BackendRedis:
		fmt.Fprintf(out, "  Address: %s (db %d)\n", cfg.RedisAddr, cfg.RedisDB)
	}
	if cfg.KeyPrefix != "" {
		fmt.Fprintf(out, "  Key prefix: %s\n", cfg.KeyPrefix)
	}

	kv, err := storage.Open(ctx, cfg.Storage())
	if err != nil {
		fmt.Fprintf(out, "  ❌ Error: %v\n", err)
		fmt.Fprintln(out)
		return fmt.Errorf("doctor found issues")
	}
	defer kv.Close()
	fmt.Fprintln(out, "  ✅ OK")
	fmt.Fprintln(out)

	// Stored data
	adapter := storage.NewAdapter(kv, storage.WithPrefix(cfg.KeyPrefix), storage.WithLogger(a.logger))
	raw, err := adapter.ReadRaw(ctx)
	fmt.Fprintln(out, "Stored data:")
	if err != nil {
		fmt.Fprintf(out, "  ❌ Error: %v\n", err)
		allOK = false
	} else {
		d := storage.Diagnose(raw)
		switch {
		case d.Empty:
			fmt.Fprintln(out, "  ✅ Empty (a new list will be created)")
		case d.Valid:
			fmt.Fprintf(out, "  ✅ %d task(s), counter %d\n", d.TaskCount, d.Counter)
		default:
			fmt.Fprintln(out, "  ❌ Invalid (the list will be discarded on load):")
			for _, e := range d.Errors {
				fmt.Fprintf(out, "    - %v\n", e)
			}
			allOK = false
		}
		for _, w := range d.Warnings {
			fmt.Fprintf(out, "  ⚠️  %s\n", w)
		}
		if *verbose && d.UsedSchema {
			fmt.Fprintln(out, "  Checked against the task list schema")
		}
	}
	fmt.Fprintln(out)

	if *verbose {
		fmt.Fprintln(out, "Config sources:")
		for _, key := range sortedKeys(a.sources.Sources) {
			fmt.Fprintf(out, "  %-15s %s\n", key, a.sources.Sources[key])
		}
		fmt.Fprintln(out)
	}

	if allOK {
		fmt.Fprintln(out, "All checks passed ✅")
		return nil
	}
	fmt.Fprintln(out, "Some checks failed ❌")
	return fmt.Errorf("doctor found issues")
}
