package todo

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTextLength is the maximum number of code points in a task's text.
const MaxTextLength = 100

var (
	// ErrTextRequired is returned when task text is empty after trimming.
	ErrTextRequired = errors.New("task text required")
	// ErrTextTooLong is returned when task text exceeds MaxTextLength.
	ErrTextTooLong = errors.New("task text too long")
)

// Task represents a single entry in the task list.
type Task struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// UnmarshalJSON decodes a stored task. createdAt is read leniently: an RFC
// 3339 string or a Unix time in milliseconds is kept, anything else (such as
// "" from a hand-edited file) becomes the zero time and the task survives.
func (t *Task) UnmarshalJSON(data []byte) error {
	type stored Task
	var aux struct {
		stored
		CreatedAt json.RawMessage `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*t = Task(aux.stored)
	t.CreatedAt = parseCreatedAt(aux.CreatedAt)
	return nil
}

func parseCreatedAt(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Time{}
	}
	var ts time.Time
	if err := json.Unmarshal(raw, &ts); err == nil {
		return ts
	}
	var millis int64
	if err := json.Unmarshal(raw, &millis); err == nil {
		return time.UnixMilli(millis).UTC()
	}
	return time.Time{}
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == 0
}

// NormalizeText trims surrounding whitespace from user input and validates
// the result. It returns the trimmed text, or ErrTextRequired/ErrTextTooLong.
func NormalizeText(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if err := ValidateText(text); err != nil {
		return "", err
	}
	return text, nil
}

// ValidateText checks already-trimmed text against the length rules.
func ValidateText(text string) error {
	if text == "" {
		return ErrTextRequired
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return ErrTextTooLong
	}
	return nil
}

// Counts returns the total and completed number of tasks.
func Counts(tasks []Task) (total, completed int) {
	for i := range tasks {
		if tasks[i].Completed {
			completed++
		}
	}
	return len(tasks), completed
}

// MaxID returns the largest id in tasks, or 0 for an empty list.
func MaxID(tasks []Task) int {
	highest := 0
	for i := range tasks {
		if tasks[i].ID > highest {
			highest = tasks[i].ID
		}
	}
	return highest
}
