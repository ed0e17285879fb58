// Package render projects the task list into presentation entries.
//
// Rendering is a pure function of the current collection: every call
// rebuilds the whole list and never mutates tasks. Task text is always
// emitted as inert content so it cannot act as terminal control sequences
// or markup.
package render

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"

	"github.com/nibzard/tasklist-go/internal/locale"
	"github.com/nibzard/tasklist-go/internal/todo"
)

// EntryKind distinguishes task entries from the empty-state placeholder.
type EntryKind int

const (
	EntryTask EntryKind = iota
	EntryEmpty
)

// Entry is one presentational row.
type Entry struct {
	Kind EntryKind
	// ID binds the entry's toggle and delete controls to a task.
	ID        int
	Text      string
	Completed bool
	// ToggleLabel and DeleteLabel are the accessible control labels.
	ToggleLabel string
	DeleteLabel string
	// Lines holds the placeholder message for EntryEmpty.
	Lines []string
}

// Renderer builds entries using one message catalog.
type Renderer struct {
	msgs locale.Messages
}

// New returns a Renderer for the given catalog.
func New(msgs locale.Messages) *Renderer {
	return &Renderer{msgs: msgs}
}

// Messages returns the renderer's catalog.
func (r *Renderer) Messages() locale.Messages {
	return r.msgs
}

// Render returns one entry per task in collection order, or a single
// placeholder entry when there are no tasks.
func (r *Renderer) Render(tasks []todo.Task) []Entry {
	if len(tasks) == 0 {
		return []Entry{{
			Kind:  EntryEmpty,
			Lines: []string{r.msgs.EmptyTitle, r.msgs.EmptyHint},
		}}
	}

	entries := make([]Entry, 0, len(tasks))
	for _, task := range tasks {
		text := InertText(task.Text)
		entries = append(entries, Entry{
			Kind:        EntryTask,
			ID:          task.ID,
			Text:        text,
			Completed:   task.Completed,
			ToggleLabel: r.msgs.ToggleLabel,
			DeleteLabel: r.msgs.DeleteLabelFor(text),
		})
	}
	return entries
}

// RenderCount formats the status line, e.g. "2 tâche(s) - 1 terminée(s)".
func (r *Renderer) RenderCount(total, completed int) string {
	return r.msgs.Count(total, completed)
}

// InertText strips ANSI escape sequences and replaces the remaining control
// characters with U+FFFD so text is displayed, never interpreted.
func InertText(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return unicode.ReplacementChar
		}
		return r
	}, s)
}
