package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist-go/internal/todo"
)

type captureReporter struct {
	errs []error
}

func (r *captureReporter) SaveFailed(err error) {
	r.errs = append(r.errs, err)
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestAdapterLoadMissingKeys(t *testing.T) {
	a := NewAdapter(NewMemoryKV(0), WithLogger(quietLogger()))
	tasks, counter := a.Load(context.Background())
	if tasks == nil {
		t.Error("Load should return an empty, non-nil slice")
	}
	if len(tasks) != 0 || counter != 0 {
		t.Errorf("Load = (%d tasks, %d), want (0, 0)", len(tasks), counter)
	}
}

func TestAdapterRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv, err := NewFileKV(filepath.Join(t.TempDir(), "tasks.json"), 0)
	if err != nil {
		t.Fatalf("NewFileKV failed: %v", err)
	}
	a := NewAdapter(kv, WithLogger(quietLogger()))

	store := todo.NewStore(a)
	store.Initialize(a.Load(ctx))
	milk, _ := store.Add(ctx, "Buy milk")
	dog, _ := store.Add(ctx, "Walk dog")
	bread, _ := store.Add(ctx, "Bake <bread> & \"jam\"")
	store.Toggle(ctx, dog.ID)
	store.Delete(ctx, milk.ID)

	reloaded := NewAdapter(kv, WithLogger(quietLogger()))
	tasks, counter := reloaded.Load(ctx)

	if counter != store.Counter() {
		t.Errorf("counter = %d, want %d", counter, store.Counter())
	}
	want := store.Tasks()
	if len(tasks) != len(want) {
		t.Fatalf("len = %d, want %d", len(tasks), len(want))
	}
	for i := range want {
		if tasks[i].ID != want[i].ID || tasks[i].Text != want[i].Text || tasks[i].Completed != want[i].Completed {
			t.Errorf("tasks[%d] = %+v, want %+v", i, tasks[i], want[i])
		}
		if !tasks[i].CreatedAt.Equal(want[i].CreatedAt) {
			t.Errorf("tasks[%d].CreatedAt = %v, want %v", i, tasks[i].CreatedAt, want[i].CreatedAt)
		}
	}
	if tasks[1].ID != bread.ID {
		t.Errorf("order not preserved: %+v", tasks)
	}
}

func TestAdapterLoadCorrupted(t *testing.T) {
	tests := []struct {
		name    string
		tasks   string
		counter string
	}{
		{name: "unparseable tasks", tasks: "{not json", counter: "3"},
		{name: "tasks not an array", tasks: `{"id":1}`, counter: "1"},
		{name: "wrong field type", tasks: `[{"id":"one","text":"a","completed":false}]`, counter: "1"},
		{name: "bad createdAt", tasks: `[{"id":1,"text":"a","completed":false,"createdAt":"yesterday"}]`, counter: "1"},
		{name: "non-numeric counter", tasks: `[]`, counter: "abc"},
		{name: "negative counter", tasks: `[]`, counter: "-4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv := NewMemoryKV(0)
			kv.Set(ctx, KeyTasks, tt.tasks)
			kv.Set(ctx, KeyCounter, tt.counter)

			var buf bytes.Buffer
			a := NewAdapter(kv, WithLogger(log.New(&buf)))
			tasks, counter := a.Load(ctx)
			if len(tasks) != 0 || counter != 0 {
				t.Errorf("Load = (%d tasks, %d), want (0, 0)", len(tasks), counter)
			}
			if !strings.Contains(buf.String(), "discarding stored tasks") {
				t.Errorf("corruption was not logged, got %q", buf.String())
			}
		})
	}
}

// failingKV fails every operation.
type failingKV struct {
	err error
}

func (f failingKV) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingKV) Set(context.Context, string, string) error         { return f.err }
func (f failingKV) SetAll(context.Context, map[string]string) error   { return f.err }
func (f failingKV) Close() error                                      { return nil }

func TestAdapterLoadKeepsUnreadableCreatedAt(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV(0)
	kv.Set(ctx, KeyTasks, `[{"id":1,"text":"edited","completed":false,"createdAt":""},`+
		`{"id":2,"text":"intact","completed":true,"createdAt":"2024-01-01T00:00:00.000Z"}]`)
	kv.Set(ctx, KeyCounter, "2")

	a := NewAdapter(kv, WithLogger(quietLogger()))
	tasks, counter := a.Load(ctx)
	if len(tasks) != 2 || counter != 2 {
		t.Fatalf("Load = (%d tasks, %d), want (2, 2)", len(tasks), counter)
	}
	if tasks[0].Text != "edited" || !tasks[0].CreatedAt.IsZero() {
		t.Errorf("tasks[0] = %+v, want text kept and zero createdAt", tasks[0])
	}
	if tasks[1].CreatedAt.Year() != 2024 {
		t.Errorf("tasks[1].CreatedAt = %v", tasks[1].CreatedAt)
	}
}

func TestAdapterLoadReadError(t *testing.T) {
	a := NewAdapter(failingKV{err: errors.New("disk gone")}, WithLogger(quietLogger()))
	tasks, counter := a.Load(context.Background())
	if len(tasks) != 0 || counter != 0 {
		t.Errorf("Load = (%d tasks, %d), want (0, 0)", len(tasks), counter)
	}
}

func TestAdapterLoadKeepsDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV(0)
	kv.Set(ctx, KeyTasks, `[{"id":1,"text":"a","completed":false},{"id":1,"text":"b","completed":true}]`)
	kv.Set(ctx, KeyCounter, "1")

	tasks, counter := NewAdapter(kv, WithLogger(quietLogger())).Load(ctx)
	if len(tasks) != 2 || counter != 1 {
		t.Errorf("Load = (%d tasks, %d), want (2, 1)", len(tasks), counter)
	}
}

func TestAdapterSaveFailure(t *testing.T) {
	ctx := context.Background()
	reporter := &captureReporter{}
	a := NewAdapter(NewMemoryKV(64), WithLogger(quietLogger()), WithReporter(reporter))

	store := todo.NewStore(a)
	store.Initialize(a.Load(ctx))
	task, err := store.Add(ctx, strings.Repeat("x", 90))
	if !errors.Is(err, ErrSaveFailed) {
		t.Fatalf("Add error = %v, want ErrSaveFailed", err)
	}
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("Add error = %v, want it to wrap ErrQuotaExceeded", err)
	}
	if len(reporter.errs) != 1 {
		t.Errorf("reporter called %d times, want 1", len(reporter.errs))
	}
	if _, ok := store.Get(task.ID); !ok {
		t.Error("in-memory state should be kept after a failed save")
	}
}

// TestAdapterSaveKeepsCounterWithTasks saves one task into file stores whose
// quota ranges across the point where the task list alone would fit but the
// counter would not. Whatever was stored must reload with a counter that
// covers every stored id.
func TestAdapterSaveKeepsCounterWithTasks(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	clock := func() time.Time { return created }
	dir := t.TempDir()

	for quota := int64(40); quota <= 400; quota++ {
		kv, err := NewFileKV(filepath.Join(dir, fmt.Sprintf("q%d.json", quota)), quota)
		if err != nil {
			t.Fatal(err)
		}
		a := NewAdapter(kv, WithLogger(quietLogger()))
		store := todo.NewStore(a, todo.WithClock(clock))
		store.Initialize(a.Load(ctx))
		saveErr := func() error { _, err := store.Add(ctx, "x"); return err }()

		tasks, counter := a.Load(ctx)
		if counter < todo.MaxID(tasks) {
			t.Fatalf("quota %d: reloaded counter %d is below stored id %d (save error: %v)",
				quota, counter, todo.MaxID(tasks), saveErr)
		}
		if saveErr != nil && len(tasks) != 0 {
			t.Fatalf("quota %d: failed save left %d task(s) in storage", quota, len(tasks))
		}
	}
}

// counterRejectingKV refuses any write that touches the counter key.
type counterRejectingKV struct {
	*MemoryKV
}

func (k counterRejectingKV) SetAll(ctx context.Context, entries map[string]string) error {
	if _, ok := entries[KeyCounter]; ok {
		return ErrQuotaExceeded
	}
	return k.MemoryKV.SetAll(ctx, entries)
}

func TestAdapterSaveFailureLeavesTasksUntouched(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryKV(0)
	mem.Set(ctx, KeyTasks, `[]`)
	a := NewAdapter(counterRejectingKV{mem}, WithLogger(quietLogger()))

	err := a.Save(ctx, []todo.Task{{ID: 1, Text: "x"}}, 1)
	if !errors.Is(err, ErrSaveFailed) {
		t.Fatalf("Save error = %v, want ErrSaveFailed", err)
	}
	if raw, _, _ := mem.Get(ctx, KeyTasks); raw != `[]` {
		t.Errorf("tasks = %s after a failed save, want the previous value", raw)
	}
}

func TestAdapterSaveWithoutReporter(t *testing.T) {
	a := NewAdapter(failingKV{err: errors.New("read-only")}, WithLogger(quietLogger()))
	err := a.Save(context.Background(), nil, 0)
	if !errors.Is(err, ErrSaveFailed) {
		t.Errorf("Save error = %v, want ErrSaveFailed", err)
	}
}

func TestAdapterSaveFormat(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV(0)
	a := NewAdapter(kv, WithLogger(quietLogger()))

	created := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	if err := a.Save(ctx, []todo.Task{{ID: 3, Text: "a", CreatedAt: created}}, 3); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	raw, _, _ := kv.Get(ctx, KeyTasks)
	want := `[{"id":3,"text":"a","completed":false,"createdAt":"2024-05-06T07:08:09Z"}]`
	if raw != want {
		t.Errorf("tasks = %s, want %s", raw, want)
	}
	counter, _, _ := kv.Get(ctx, KeyCounter)
	if counter != "3" {
		t.Errorf("counter = %q, want \"3\"", counter)
	}

	if err := a.Save(ctx, nil, 3); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	raw, _, _ = kv.Get(ctx, KeyTasks)
	if raw != "[]" {
		t.Errorf("empty tasks stored as %s, want []", raw)
	}
}

func TestAdapterPrefix(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV(0)
	work := NewAdapter(kv, WithPrefix("work:"), WithLogger(quietLogger()))
	home := NewAdapter(kv, WithPrefix("home:"), WithLogger(quietLogger()))

	if err := work.Save(ctx, []todo.Task{{ID: 1, Text: "report"}}, 1); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "work:"+KeyTasks); !ok {
		t.Error("prefixed key not written")
	}
	tasks, counter := home.Load(ctx)
	if len(tasks) != 0 || counter != 0 {
		t.Errorf("home list should be empty, got (%d, %d)", len(tasks), counter)
	}
}
