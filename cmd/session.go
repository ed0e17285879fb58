package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist-go/internal/render"
	"github.com/nibzard/tasklist-go/internal/storage"
	"github.com/nibzard/tasklist-go/internal/todo"
)

// session is an opened backend with the task list loaded from it.
type session struct {
	kv       storage.KV
	adapter  *storage.Adapter
	store    *todo.Store
	renderer *render.Renderer
}

// openSession opens the configured backend and loads the stored list.
func (a *app) openSession(ctx context.Context, logger *log.Logger) (*session, error) {
	if logger == nil {
		logger = a.logger
	}
	kv, err := storage.Open(ctx, a.cfg.Storage())
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", a.cfg.Backend, err)
	}

	adapter := storage.NewAdapter(kv,
		storage.WithPrefix(a.cfg.KeyPrefix),
		storage.WithLogger(logger),
	)
	store := todo.NewStore(adapter)
	store.Initialize(adapter.Load(ctx))
	logger.Debug("loaded tasks", "backend", a.cfg.Backend, "count", len(store.Tasks()), "counter", store.Counter())

	return &session{
		kv:       kv,
		adapter:  adapter,
		store:    store,
		renderer: render.New(a.cfg.Messages()),
	}, nil
}

// Close releases the backend.
func (s *session) Close() error {
	return s.kv.Close()
}
