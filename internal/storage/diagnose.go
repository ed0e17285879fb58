package storage

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/tasklist-go/internal/todo"
	"github.com/nibzard/tasklist-go/internal/utils"
)

//go:embed tasks.schema.json
var tasksSchema string

const tasksSchemaURL = "tasks.schema.json"

// DiagnosticError is a problem found in stored data, with its JSON path.
type DiagnosticError struct {
	Path string
	Err  error
}

func (e *DiagnosticError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *DiagnosticError) Unwrap() error {
	return e.Err
}

// Diagnosis is the result of Diagnose. Valid reports whether Load would keep
// the stored data; warnings describe data Load accepts as-is.
type Diagnosis struct {
	Valid      bool
	Empty      bool
	TaskCount  int
	Counter    int
	Errors     []error
	Warnings   []string
	UsedSchema bool
}

// Diagnose inspects raw stored values without modifying them.
func Diagnose(raw RawState) *Diagnosis {
	d := &Diagnosis{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	if (!raw.HasTasks || raw.Tasks == "") && (!raw.HasCounter || raw.Counter == "") {
		d.Empty = true
		return d
	}

	var tasks []todo.Task
	if raw.HasTasks && raw.Tasks != "" {
		d.checkSchema(raw.Tasks)
		decoded, err := decodeTasks(raw.Tasks)
		if err != nil {
			d.addError("", err)
		} else {
			tasks = decoded
			d.TaskCount = len(tasks)
		}
	}

	if raw.HasCounter && raw.Counter != "" {
		counter, err := decodeCounter(raw.Counter)
		if err != nil {
			d.addError(KeyCounter, err)
		} else {
			d.Counter = counter
		}
	}

	if d.Valid {
		d.checkTasks(tasks)
	}
	return d
}

func (d *Diagnosis) addError(path string, err error) {
	d.Valid = false
	d.Errors = append(d.Errors, &DiagnosticError{Path: path, Err: err})
}

func (d *Diagnosis) checkSchema(raw string) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(tasksSchemaURL, strings.NewReader(tasksSchema)); err != nil {
		d.Warnings = append(d.Warnings, fmt.Sprintf("load task schema: %v", err))
		return
	}
	schema, err := compiler.Compile(tasksSchemaURL)
	if err != nil {
		d.Warnings = append(d.Warnings, fmt.Sprintf("compile task schema: %v", err))
		return
	}

	var doc interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		// decodeTasks reports the parse error.
		return
	}
	d.UsedSchema = true

	if err := schema.Validate(doc); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			d.Warnings = append(d.Warnings, err.Error())
			return
		}
		d.collectSchemaWarnings(ve)
	}
}

// collectSchemaWarnings records the leaf causes of a schema violation. Load
// keeps such data, so they are warnings rather than errors.
func (d *Diagnosis) collectSchemaWarnings(err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		// The document root is an array, so paths start with an index.
		d.Warnings = append(d.Warnings, (&DiagnosticError{
			Path: KeyTasks + utils.JSONPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		}).Error())
		return
	}
	for _, cause := range err.Causes {
		d.collectSchemaWarnings(cause)
	}
}

// checkTasks reports conditions that Load tolerates.
func (d *Diagnosis) checkTasks(tasks []todo.Task) {
	seen := make(map[int]int, len(tasks))
	for i, task := range tasks {
		if prev, ok := seen[task.ID]; ok {
			d.Warnings = append(d.Warnings, fmt.Sprintf("tasks[%d]: duplicate id %d (first at tasks[%d])", i, task.ID, prev))
		} else {
			seen[task.ID] = i
		}
		if task.CreatedAt.IsZero() {
			d.Warnings = append(d.Warnings, fmt.Sprintf("tasks[%d]: missing or unreadable createdAt", i))
		}
		if task.Text == "" {
			d.Warnings = append(d.Warnings, fmt.Sprintf("tasks[%d]: empty text", i))
		} else if n := utf8.RuneCountInString(task.Text); n > todo.MaxTextLength {
			d.Warnings = append(d.Warnings, fmt.Sprintf("tasks[%d]: text has %d characters (limit %d)", i, n, todo.MaxTextLength))
		}
	}
	if maxID := todo.MaxID(tasks); d.Counter < maxID {
		d.Warnings = append(d.Warnings, fmt.Sprintf("%s is %d but the highest id is %d; new ids may collide", KeyCounter, d.Counter, maxID))
	}
}
