package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist-go/internal/todo"
)

// Storage keys, matching the names used by the browser version.
const (
	KeyTasks   = "tasks"
	KeyCounter = "taskIdCounter"
)

// Reporter is told about save failures so it can show a transient message.
type Reporter interface {
	SaveFailed(err error)
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithPrefix namespaces both keys, e.g. "work:" stores "work:tasks".
func WithPrefix(prefix string) AdapterOption {
	return func(a *Adapter) {
		a.prefix = prefix
	}
}

// WithLogger sets the logger used for corruption and save diagnostics.
func WithLogger(logger *log.Logger) AdapterOption {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithReporter sets the save-failure reporter.
func WithReporter(r Reporter) AdapterOption {
	return func(a *Adapter) {
		a.reporter = r
	}
}

// Adapter translates the task list to and from a KV. It implements
// todo.Persister.
type Adapter struct {
	kv       KV
	prefix   string
	logger   *log.Logger
	reporter Reporter
}

// NewAdapter creates an adapter over kv.
func NewAdapter(kv KV, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		kv:     kv,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetReporter replaces the save-failure reporter. The reporter usually
// exists only after the store it persists for, so it is wired late.
func (a *Adapter) SetReporter(r Reporter) {
	a.reporter = r
}

// Load reads the task list and counter. Missing keys yield an empty list and
// a zero counter. Unreadable or malformed data is logged and discarded, and
// both values reset to their defaults; Load never fails.
func (a *Adapter) Load(ctx context.Context) ([]todo.Task, int) {
	raw, err := a.ReadRaw(ctx)
	if err != nil {
		return a.discard(err)
	}

	tasks := []todo.Task{}
	if raw.HasTasks && raw.Tasks != "" {
		tasks, err = decodeTasks(raw.Tasks)
		if err != nil {
			return a.discard(err)
		}
	}

	counter := 0
	if raw.HasCounter && raw.Counter != "" {
		counter, err = decodeCounter(raw.Counter)
		if err != nil {
			return a.discard(err)
		}
	}

	a.logger.Debug("loaded tasks", "count", len(tasks), "counter", counter)
	return tasks, counter
}

// Save writes the task list and counter in one batch: either both keys
// change or neither does. On failure it logs, notifies the reporter and
// returns an error wrapping ErrSaveFailed. It does not retry.
func (a *Adapter) Save(ctx context.Context, tasks []todo.Task, counter int) error {
	if tasks == nil {
		tasks = []todo.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return a.fail(fmt.Errorf("marshal tasks: %w", err))
	}
	// Both keys are written together so a stored list never outruns its
	// counter.
	err = a.kv.SetAll(ctx, map[string]string{
		a.key(KeyTasks):   string(data),
		a.key(KeyCounter): strconv.Itoa(counter),
	})
	if err != nil {
		return a.fail(err)
	}
	a.logger.Debug("saved tasks", "count", len(tasks), "counter", counter)
	return nil
}

// RawState is the undecoded content of both keys.
type RawState struct {
	Tasks      string
	HasTasks   bool
	Counter    string
	HasCounter bool
}

// ReadRaw returns both stored values without decoding them.
func (a *Adapter) ReadRaw(ctx context.Context) (RawState, error) {
	var raw RawState
	var err error
	raw.Tasks, raw.HasTasks, err = a.kv.Get(ctx, a.key(KeyTasks))
	if err != nil {
		return RawState{}, fmt.Errorf("read %s: %w", KeyTasks, err)
	}
	raw.Counter, raw.HasCounter, err = a.kv.Get(ctx, a.key(KeyCounter))
	if err != nil {
		return RawState{}, fmt.Errorf("read %s: %w", KeyCounter, err)
	}
	return raw, nil
}

func (a *Adapter) key(name string) string {
	return a.prefix + name
}

func (a *Adapter) discard(err error) ([]todo.Task, int) {
	a.logger.Warn("discarding stored tasks", "err", err)
	return []todo.Task{}, 0
}

func (a *Adapter) fail(err error) error {
	a.logger.Error("saving tasks failed", "err", err)
	if a.reporter != nil {
		a.reporter.SaveFailed(err)
	}
	return fmt.Errorf("%w: %w", ErrSaveFailed, err)
}

func decodeTasks(raw string) ([]todo.Task, error) {
	var tasks []todo.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, fmt.Errorf("parse %s: %w", KeyTasks, err)
	}
	if tasks == nil {
		tasks = []todo.Task{}
	}
	return tasks, nil
}

func decodeCounter(raw string) (int, error) {
	counter, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", KeyCounter, err)
	}
	if counter < 0 {
		return 0, fmt.Errorf("parse %s: negative value %d", KeyCounter, counter)
	}
	return counter, nil
}
