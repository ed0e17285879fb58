// Package input validates submitted task text and manages the transient
// error message shown to the user.
package input

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist-go/internal/locale"
	"github.com/nibzard/tasklist-go/internal/todo"
)

// DefaultErrorTimeout is how long an error stays visible.
const DefaultErrorTimeout = 3 * time.Second

// Field is an editable text input, such as a bubbles textinput.Model.
type Field interface {
	Value() string
	SetValue(string)
}

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler replaces the timer implementation.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		c.sched = s
	}
}

// WithErrorTimeout sets the auto-clear delay. Non-positive values keep the
// default.
func WithErrorTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller validates user input before it reaches the store and owns the
// error display.
type Controller struct {
	store   *todo.Store
	msgs    locale.Messages
	sched   Scheduler
	timeout time.Duration
	logger  *log.Logger

	mu         sync.Mutex
	message    string
	generation uint64
	cancel     func() bool
	onExpire   func()
}

// NewController creates a controller that adds tasks to store.
func NewController(store *todo.Store, msgs locale.Messages, opts ...Option) *Controller {
	c := &Controller{
		store:   store,
		msgs:    msgs,
		sched:   TimerScheduler{},
		timeout: DefaultErrorTimeout,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetExpireHook registers fn to run after a timer clears the message. It is
// called on the timer's goroutine.
func (c *Controller) SetExpireHook(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onExpire = fn
}

// Submit trims raw and adds it as a task. Validation failures show an error
// and return todo.ErrTextRequired or todo.ErrTextTooLong without touching the
// store. A save failure is returned after the task was added; the storage
// adapter reports it to the user.
func (c *Controller) Submit(ctx context.Context, raw string) (todo.Task, error) {
	text, err := todo.NormalizeText(raw)
	if err != nil {
		c.showValidationError(err)
		return todo.Task{}, err
	}

	task, err := c.store.Add(ctx, text)
	if err != nil {
		return task, err
	}
	c.ClearError()
	return task, nil
}

// SubmitField submits the field's value and empties the field on success.
func (c *Controller) SubmitField(ctx context.Context, f Field) (todo.Task, error) {
	task, err := c.Submit(ctx, f.Value())
	if task.IsZero() {
		return task, err
	}
	f.SetValue("")
	return task, err
}

// ShowError displays message and re-arms the auto-clear timer. A newer
// message always replaces an older one together with its timer.
func (c *Controller) ShowError(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopTimerLocked()
	c.generation++
	c.message = message

	gen := c.generation
	c.cancel = c.sched.AfterFunc(c.timeout, func() {
		c.expire(gen)
	})
}

// ClearError blanks the message immediately and cancels the pending timer.
func (c *Controller) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopTimerLocked()
	c.generation++
	c.message = ""
}

// Error returns the message currently displayed, or "".
func (c *Controller) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

// SaveFailed implements storage.Reporter.
func (c *Controller) SaveFailed(err error) {
	c.logger.Debug("showing save failure", "err", err)
	c.ShowError(c.msgs.SaveFailed)
}

func (c *Controller) showValidationError(err error) {
	switch {
	case errors.Is(err, todo.ErrTextTooLong):
		c.ShowError(c.msgs.TextTooLong)
	default:
		c.ShowError(c.msgs.TextRequired)
	}
}

// expire clears the message only if no newer message or clear happened
// since the timer for gen was armed.
func (c *Controller) expire(gen uint64) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.message = ""
	c.cancel = nil
	hook := c.onExpire
	c.mu.Unlock()

	if hook != nil {
		hook()
	}
}

func (c *Controller) stopTimerLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
