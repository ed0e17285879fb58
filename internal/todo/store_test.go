package todo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// recordingPersister captures every Save call.
type recordingPersister struct {
	saves    int
	tasks    []Task
	counter  int
	failWith error
}

func (p *recordingPersister) Save(_ context.Context, tasks []Task, counter int) error {
	p.saves++
	p.tasks = tasks
	p.counter = counter
	return p.failWith
}

func fixedClock() time.Time {
	return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
}

func newTestStore(p Persister, opts ...StoreOption) *Store {
	opts = append([]StoreOption{WithClock(fixedClock)}, opts...)
	return NewStore(p, opts...)
}

func TestStoreAdd(t *testing.T) {
	ctx := context.Background()
	p := &recordingPersister{}
	s := newTestStore(p)

	first, err := s.Add(ctx, "Buy milk")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if first.ID != 1 {
		t.Errorf("first id = %d, want 1", first.ID)
	}
	if first.Completed {
		t.Error("new task should not be completed")
	}
	if !first.CreatedAt.Equal(fixedClock()) {
		t.Errorf("CreatedAt = %v, want %v", first.CreatedAt, fixedClock())
	}

	second, err := s.Add(ctx, "Walk dog")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if second.ID <= first.ID {
		t.Errorf("second id %d should be greater than %d", second.ID, first.ID)
	}

	if total, _ := s.Count(); total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	if p.saves != 2 {
		t.Errorf("saves = %d, want 2", p.saves)
	}
	if p.counter != 2 || len(p.tasks) != 2 {
		t.Errorf("persisted counter=%d tasks=%d, want 2/2", p.counter, len(p.tasks))
	}

	tasks := s.Tasks()
	if tasks[0].Text != "Buy milk" || tasks[1].Text != "Walk dog" {
		t.Errorf("tasks not in insertion order: %+v", tasks)
	}
}

func TestStoreAddIDsStrictlyIncrease(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(nil)
	s.Initialize([]Task{{ID: 7, Text: "old"}}, 7)

	prev := 7
	for i := 0; i < 20; i++ {
		task, err := s.Add(ctx, "task")
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if task.ID <= prev {
			t.Fatalf("id %d not greater than previous %d", task.ID, prev)
		}
		prev = task.ID
		if i%3 == 0 {
			if _, err := s.Delete(ctx, task.ID); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
		}
	}
	if s.Counter() != 27 {
		t.Errorf("counter = %d, want 27", s.Counter())
	}
}

func TestStoreAddRejectsInvalidText(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{name: "empty", text: "", wantErr: ErrTextRequired},
		{name: "too long", text: strings.Repeat("x", MaxTextLength+1), wantErr: ErrTextTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &recordingPersister{}
			s := newTestStore(p)
			_, err := s.Add(ctx, tt.text)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Add error = %v, want %v", err, tt.wantErr)
			}
			if total, _ := s.Count(); total != 0 {
				t.Errorf("total = %d, want 0", total)
			}
			if s.Counter() != 0 {
				t.Errorf("counter = %d, want 0", s.Counter())
			}
			if p.saves != 0 {
				t.Errorf("saves = %d, want 0", p.saves)
			}
		})
	}
}

func TestStoreAddBoundary(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(nil)
	if _, err := s.Add(ctx, strings.Repeat("a", MaxTextLength)); err != nil {
		t.Errorf("text of exactly %d characters rejected: %v", MaxTextLength, err)
	}
	if _, err := s.Add(ctx, strings.Repeat("a", MaxTextLength+1)); !errors.Is(err, ErrTextTooLong) {
		t.Errorf("text of %d characters: error = %v, want ErrTextTooLong", MaxTextLength+1, err)
	}
}

func TestStoreToggleIsInvolution(t *testing.T) {
	ctx := context.Background()
	p := &recordingPersister{}
	s := newTestStore(p)
	task, _ := s.Add(ctx, "Buy milk")

	found, err := s.Toggle(ctx, task.ID)
	if err != nil || !found {
		t.Fatalf("Toggle = (%v, %v), want (true, nil)", found, err)
	}
	got, _ := s.Get(task.ID)
	if !got.Completed {
		t.Error("task should be completed after one toggle")
	}
	if _, completed := s.Count(); completed != 1 {
		t.Errorf("completed = %d, want 1", completed)
	}

	if _, err := s.Toggle(ctx, task.ID); err != nil {
		t.Fatalf("second Toggle failed: %v", err)
	}
	got, _ = s.Get(task.ID)
	if got.Completed != task.Completed {
		t.Error("two toggles should restore the original completed flag")
	}
	if p.saves != 3 {
		t.Errorf("saves = %d, want 3", p.saves)
	}
}

func TestStoreToggleMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	p := &recordingPersister{}
	changes := 0
	s := newTestStore(p, WithListener(func(Change) { changes++ }))
	s.Add(ctx, "Buy milk")
	savesBefore, changesBefore := p.saves, changes

	found, err := s.Toggle(ctx, 42)
	if err != nil {
		t.Fatalf("Toggle on missing id returned error: %v", err)
	}
	if found {
		t.Error("Toggle on missing id reported found")
	}
	if p.saves != savesBefore || changes != changesBefore {
		t.Error("Toggle on missing id should not persist or notify")
	}
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(nil)
	a, _ := s.Add(ctx, "a")
	b, _ := s.Add(ctx, "b")
	c, _ := s.Add(ctx, "c")

	found, err := s.Delete(ctx, b.ID)
	if err != nil || !found {
		t.Fatalf("Delete = (%v, %v), want (true, nil)", found, err)
	}

	tasks := s.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("len = %d, want 2", len(tasks))
	}
	if tasks[0].ID != a.ID || tasks[1].ID != c.ID {
		t.Errorf("survivor order changed: %+v", tasks)
	}

	found, err = s.Delete(ctx, b.ID)
	if err != nil {
		t.Fatalf("Delete on missing id returned error: %v", err)
	}
	if found {
		t.Error("Delete on missing id reported found")
	}
	if len(s.Tasks()) != 2 {
		t.Error("Delete on missing id changed the collection")
	}

	d, _ := s.Add(ctx, "d")
	if d.ID != 4 {
		t.Errorf("id after delete = %d, want 4 (counter never decreases)", d.ID)
	}
}

func TestStoreDeleteWithDuplicateIDsRemovesOne(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(nil)
	s.Initialize([]Task{{ID: 1, Text: "a"}, {ID: 1, Text: "b"}}, 1)

	if _, err := s.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	tasks := s.Tasks()
	if len(tasks) != 1 || tasks[0].Text != "b" {
		t.Errorf("tasks = %+v, want only b", tasks)
	}
}

func TestStoreAtAddressesRowsWithSharedIDs(t *testing.T) {
	ctx := context.Background()
	p := &recordingPersister{}
	s := newTestStore(p)
	s.Initialize([]Task{{ID: 1, Text: "first"}, {ID: 1, Text: "second"}, {ID: 2, Text: "third"}}, 2)

	if found, err := s.ToggleAt(ctx, 1); !found || err != nil {
		t.Fatalf("ToggleAt(1) = (%v, %v)", found, err)
	}
	tasks := s.Tasks()
	if tasks[0].Completed || !tasks[1].Completed {
		t.Errorf("ToggleAt(1) flipped the wrong row: %+v", tasks)
	}

	if found, err := s.DeleteAt(ctx, 1); !found || err != nil {
		t.Fatalf("DeleteAt(1) = (%v, %v)", found, err)
	}
	tasks = s.Tasks()
	if len(tasks) != 2 || tasks[0].Text != "first" || tasks[1].Text != "third" {
		t.Errorf("DeleteAt(1) left %+v", tasks)
	}
	if p.saves != 2 {
		t.Errorf("saves = %d, want 2", p.saves)
	}

	for _, i := range []int{-1, 2, 10} {
		if found, err := s.ToggleAt(ctx, i); found || err != nil {
			t.Errorf("ToggleAt(%d) = (%v, %v), want a no-op", i, found, err)
		}
		if found, err := s.DeleteAt(ctx, i); found || err != nil {
			t.Errorf("DeleteAt(%d) = (%v, %v), want a no-op", i, found, err)
		}
	}
	if p.saves != 2 {
		t.Errorf("out-of-range positions saved: saves = %d", p.saves)
	}
}

func TestStorePersistErrorKeepsState(t *testing.T) {
	ctx := context.Background()
	saveErr := errors.New("quota exceeded")
	p := &recordingPersister{failWith: saveErr}
	s := newTestStore(p)

	task, err := s.Add(ctx, "Buy milk")
	if !errors.Is(err, saveErr) {
		t.Fatalf("Add error = %v, want %v", err, saveErr)
	}
	if _, ok := s.Get(task.ID); !ok {
		t.Error("task should stay in memory after failed save")
	}

	found, err := s.Toggle(ctx, task.ID)
	if !found || !errors.Is(err, saveErr) {
		t.Fatalf("Toggle = (%v, %v), want (true, %v)", found, err, saveErr)
	}
	if got, _ := s.Get(task.ID); !got.Completed {
		t.Error("toggle should stay applied after failed save")
	}
}

func TestStoreInitializeCopiesInput(t *testing.T) {
	loaded := []Task{{ID: 1, Text: "a"}}
	s := newTestStore(nil)
	s.Initialize(loaded, 1)
	loaded[0].Text = "mutated"

	got, _ := s.Get(1)
	if got.Text != "a" {
		t.Error("Initialize should copy the loaded slice")
	}

	tasks := s.Tasks()
	tasks[0].Text = "mutated"
	got, _ = s.Get(1)
	if got.Text != "a" {
		t.Error("Tasks should return a copy")
	}
}

func TestStoreListeners(t *testing.T) {
	ctx := context.Background()
	var kinds []ChangeKind
	s := newTestStore(nil, WithListener(func(c Change) { kinds = append(kinds, c.Kind) }))

	s.Initialize(nil, 0)
	task, _ := s.Add(ctx, "a")
	s.Toggle(ctx, task.ID)
	s.Delete(ctx, task.ID)

	want := []ChangeKind{ChangeLoaded, ChangeAdded, ChangeToggled, ChangeDeleted}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kinds[%d] = %s, want %s", i, kinds[i], want[i])
		}
	}
}
