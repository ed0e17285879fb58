package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/nibzard/tasklist-go/internal/todo"
)

// pageTemplate is the standalone document view. html/template escapes every
// interpolated value for its context.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 40rem; margin: 2rem auto; }
ul { list-style: none; padding: 0; }
.task-item { display: flex; gap: .5rem; align-items: center; padding: .25rem 0; }
.task-item.completed .task-text { text-decoration: line-through; opacity: .6; }
.empty-state { color: #666; text-align: center; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<ul id="taskList">
{{- range .Entries}}
{{- if .Empty}}
<li class="empty-state">{{range .Lines}}<p>{{.}}</p>{{end}}</li>
{{- else}}
<li class="task-item{{if .Completed}} completed{{end}}" data-id="{{.ID}}">
<input type="checkbox" class="task-checkbox" aria-label="{{.ToggleLabel}}" disabled{{if .Completed}} checked{{end}}>
<span class="task-text">{{.Text}}</span>
<button class="btn-delete" aria-label="{{.DeleteLabel}}" disabled>{{.DeleteText}}</button>
</li>
{{- end}}
{{- end}}
</ul>
<p id="taskCount">{{.Count}}</p>
</body>
</html>
`))

type pageData struct {
	Lang    string
	Title   string
	Count   string
	Entries []pageEntry
}

type pageEntry struct {
	Entry
	Empty      bool
	DeleteText string
}

// WriteHTML renders tasks as a standalone HTML document.
func (r *Renderer) WriteHTML(w io.Writer, tasks []todo.Task) error {
	total, completed := todo.Counts(tasks)
	data := pageData{
		Lang:  r.msgs.Tag.String(),
		Title: r.msgs.Title,
		Count: r.RenderCount(total, completed),
	}
	for _, e := range r.Render(tasks) {
		data.Entries = append(data.Entries, pageEntry{
			Entry:      e,
			Empty:      e.Kind == EntryEmpty,
			DeleteText: r.msgs.DeleteLabel,
		})
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
