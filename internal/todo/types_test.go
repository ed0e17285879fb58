package todo

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "plain", raw: "Buy milk", want: "Buy milk"},
		{name: "trims surrounding whitespace", raw: "  Buy milk \t\n", want: "Buy milk"},
		{name: "keeps inner whitespace", raw: "a  b", want: "a  b"},
		{name: "empty", raw: "", wantErr: ErrTextRequired},
		{name: "single space", raw: " ", wantErr: ErrTextRequired},
		{name: "only whitespace", raw: "\t \n", wantErr: ErrTextRequired},
		{name: "exactly max length", raw: strings.Repeat("a", MaxTextLength), want: strings.Repeat("a", MaxTextLength)},
		{name: "one over max length", raw: strings.Repeat("a", MaxTextLength+1), wantErr: ErrTextTooLong},
		{name: "max length after trim", raw: "  " + strings.Repeat("a", MaxTextLength) + "  ", want: strings.Repeat("a", MaxTextLength)},
		{name: "multibyte counted as code points", raw: strings.Repeat("é", MaxTextLength), want: strings.Repeat("é", MaxTextLength)},
		{name: "multibyte one over", raw: strings.Repeat("é", MaxTextLength+1), wantErr: ErrTextTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeText(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NormalizeText(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeText(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCounts(t *testing.T) {
	tasks := []Task{
		{ID: 1, Text: "a", Completed: true},
		{ID: 2, Text: "b"},
		{ID: 5, Text: "c", Completed: true},
	}
	total, completed := Counts(tasks)
	if total != 3 || completed != 2 {
		t.Errorf("Counts = (%d, %d), want (3, 2)", total, completed)
	}

	total, completed = Counts(nil)
	if total != 0 || completed != 0 {
		t.Errorf("Counts(nil) = (%d, %d), want (0, 0)", total, completed)
	}
}

func TestMaxID(t *testing.T) {
	if got := MaxID(nil); got != 0 {
		t.Errorf("MaxID(nil) = %d, want 0", got)
	}
	tasks := []Task{{ID: 3}, {ID: 9}, {ID: 4}}
	if got := MaxID(tasks); got != 9 {
		t.Errorf("MaxID = %d, want 9", got)
	}
}

func TestTaskIsZero(t *testing.T) {
	var task Task
	if !task.IsZero() {
		t.Error("zero task should report IsZero")
	}
	task.ID = 1
	if task.IsZero() {
		t.Error("task with id should not report IsZero")
	}
}

func TestTaskUnmarshalCreatedAt(t *testing.T) {
	tests := []struct {
		name string
		json string
		want time.Time
	}{
		{name: "rfc3339", json: `"2024-01-02T03:04:05.678Z"`, want: time.Date(2024, 1, 2, 3, 4, 5, 678000000, time.UTC)},
		{name: "unix millis", json: `1704164645000`, want: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{name: "empty string", json: `""`},
		{name: "garbage", json: `"yesterday"`},
		{name: "null", json: `null`},
		{name: "object", json: `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var task Task
			data := `{"id":4,"text":"keep me","completed":true,"createdAt":` + tt.json + `}`
			if err := json.Unmarshal([]byte(data), &task); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if task.ID != 4 || task.Text != "keep me" || !task.Completed {
				t.Errorf("fields lost: %+v", task)
			}
			if !task.CreatedAt.Equal(tt.want) {
				t.Errorf("CreatedAt = %v, want %v", task.CreatedAt, tt.want)
			}
		})
	}

	t.Run("missing", func(t *testing.T) {
		var task Task
		if err := json.Unmarshal([]byte(`{"id":1,"text":"a"}`), &task); err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		if !task.CreatedAt.IsZero() {
			t.Errorf("CreatedAt = %v, want zero", task.CreatedAt)
		}
	})

	t.Run("wrong field type still fails", func(t *testing.T) {
		var task Task
		if err := json.Unmarshal([]byte(`{"id":"one","text":"a"}`), &task); err == nil {
			t.Error("expected error for a non-numeric id")
		}
	})
}
