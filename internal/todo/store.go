package todo

import (
	"context"
	"time"
)

// Persister receives the full collection and counter after every mutation.
type Persister interface {
	Save(ctx context.Context, tasks []Task, counter int) error
}

// ChangeKind identifies what caused a store change notification.
type ChangeKind string

const (
	ChangeLoaded  ChangeKind = "loaded"
	ChangeAdded   ChangeKind = "added"
	ChangeToggled ChangeKind = "toggled"
	ChangeDeleted ChangeKind = "deleted"
)

// Change describes a mutation. Task is the zero value for ChangeLoaded.
type Change struct {
	Kind ChangeKind
	Task Task
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock sets the time source used for CreatedAt.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// WithListener registers a function called after every change. Listeners
// are how renderers learn that a re-render and count update are needed.
func WithListener(fn func(Change)) StoreOption {
	return func(s *Store) {
		s.listeners = append(s.listeners, fn)
	}
}

// Store is the in-memory, insertion-ordered task collection.
type Store struct {
	tasks     []Task
	counter   int
	persister Persister
	now       func() time.Time
	listeners []func(Change)
}

// NewStore creates an empty store. A nil persister disables persistence.
func NewStore(p Persister, opts ...StoreOption) *Store {
	s := &Store{
		persister: p,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers a change listener after construction.
func (s *Store) Subscribe(fn func(Change)) {
	s.listeners = append(s.listeners, fn)
}

// Initialize replaces the in-memory state with loaded data. It is called once
// at startup with the result of the storage adapter's Load.
func (s *Store) Initialize(tasks []Task, counter int) {
	s.tasks = make([]Task, len(tasks))
	copy(s.tasks, tasks)
	s.counter = counter
	s.notify(Change{Kind: ChangeLoaded})
}

// Add appends a new task with the next id. Text must already be trimmed.
// A persistence error is returned but the task stays in memory.
func (s *Store) Add(ctx context.Context, text string) (Task, error) {
	if err := ValidateText(text); err != nil {
		return Task{}, err
	}

	s.counter++
	task := Task{
		ID:        s.counter,
		Text:      text,
		Completed: false,
		CreatedAt: s.now().UTC(),
	}
	s.tasks = append(s.tasks, task)

	err := s.persist(ctx)
	s.notify(Change{Kind: ChangeAdded, Task: task})
	return task, err
}

// Toggle flips the completed flag of the task with the given id.
// Unknown ids are ignored and report found=false.
func (s *Store) Toggle(ctx context.Context, id int) (bool, error) {
	return s.ToggleAt(ctx, s.index(id))
}

// ToggleAt flips the completed flag of the task at position i in Tasks().
// Positions still address distinct rows when loaded data repeats an id.
func (s *Store) ToggleAt(ctx context.Context, i int) (bool, error) {
	if i < 0 || i >= len(s.tasks) {
		return false, nil
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	task := s.tasks[i]

	err := s.persist(ctx)
	s.notify(Change{Kind: ChangeToggled, Task: task})
	return true, err
}

// Delete removes the task with the given id, keeping the order of the rest.
// Unknown ids are ignored and report found=false.
func (s *Store) Delete(ctx context.Context, id int) (bool, error) {
	return s.DeleteAt(ctx, s.index(id))
}

// DeleteAt removes the task at position i in Tasks().
func (s *Store) DeleteAt(ctx context.Context, i int) (bool, error) {
	if i < 0 || i >= len(s.tasks) {
		return false, nil
	}
	task := s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)

	err := s.persist(ctx)
	s.notify(Change{Kind: ChangeDeleted, Task: task})
	return true, err
}

// Count returns the total and completed number of tasks.
func (s *Store) Count() (total, completed int) {
	return Counts(s.tasks)
}

// Tasks returns a copy of the collection in insertion order.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Counter returns the last minted id.
func (s *Store) Counter() int {
	return s.counter
}

// Get returns the task with the given id.
func (s *Store) Get(id int) (Task, bool) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i], true
}

// index does a linear search; loaded collections are not ordered by id.
func (s *Store) index(id int) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persist(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	return s.persister.Save(ctx, s.Tasks(), s.counter)
}

func (s *Store) notify(c Change) {
	for _, fn := range s.listeners {
		fn(c)
	}
}
