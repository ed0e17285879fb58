// Package locale provides the user-facing message catalogs.
package locale

import (
	"fmt"

	"golang.org/x/text/language"
)

// Default is the catalog used when no locale is configured.
const Default = "fr"

// Messages holds every user-facing string shown by the UI and CLI.
type Messages struct {
	Tag          language.Tag
	Title        string
	Placeholder  string
	EmptyTitle   string
	EmptyHint    string
	TextRequired string
	TextTooLong  string
	SaveFailed   string
	ToggleLabel  string
	DeleteLabel  string
	// CountFormat takes the total and completed counts, in that order.
	CountFormat string
}

// Count formats the status line.
func (m Messages) Count(total, completed int) string {
	return fmt.Sprintf(m.CountFormat, total, completed)
}

// DeleteLabelFor returns the accessible label of a task's delete control.
func (m Messages) DeleteLabelFor(text string) string {
	return m.DeleteLabel + " " + text
}

var french = Messages{
	Tag:          language.French,
	Title:        "Ma liste de tâches",
	Placeholder:  "Ajouter une nouvelle tâche...",
	EmptyTitle:   "Aucune tâche pour le moment",
	EmptyHint:    "Ajoutez votre première tâche ci-dessus !",
	TextRequired: "Veuillez entrer une tâche valide",
	TextTooLong:  "La tâche ne peut pas dépasser 100 caractères",
	SaveFailed:   "Impossible de sauvegarder les tâches",
	ToggleLabel:  "Marquer comme terminée",
	DeleteLabel:  "Supprimer",
	CountFormat:  "%d tâche(s) - %d terminée(s)",
}

var english = Messages{
	Tag:          language.English,
	Title:        "My task list",
	Placeholder:  "Add a new task...",
	EmptyTitle:   "No tasks yet",
	EmptyHint:    "Add your first task above!",
	TextRequired: "Please enter a valid task",
	TextTooLong:  "A task cannot exceed 100 characters",
	SaveFailed:   "Unable to save tasks",
	ToggleLabel:  "Mark as done",
	DeleteLabel:  "Delete",
	CountFormat:  "%d task(s) - %d done",
}

var catalogs = []Messages{french, english}

var matcher = language.NewMatcher([]language.Tag{french.Tag, english.Tag})

// French returns the French catalog.
func French() Messages {
	return french
}

// English returns the English catalog.
func English() Messages {
	return english
}

// Lookup returns the catalog best matching the given BCP 47 tags, such as
// "fr", "en-US" or an Accept-Language style list. Unknown or empty input
// falls back to the French catalog.
func Lookup(tags ...string) Messages {
	if len(tags) == 0 || (len(tags) == 1 && tags[0] == "") {
		return french
	}
	_, index := language.MatchStrings(matcher, tags...)
	if index < 0 || index >= len(catalogs) {
		return french
	}
	return catalogs[index]
}

// Supported returns the base language codes that have a catalog.
func Supported() []string {
	out := make([]string, 0, len(catalogs))
	for _, c := range catalogs {
		base, _ := c.Tag.Base()
		out = append(out, base.String())
	}
	return out
}
