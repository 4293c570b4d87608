package view

import (
	"embed"
	"html/template"

	"todolist/internal/core/domain"
)

//go:embed templates/*.html
var templates embed.FS

const (
	IndexTemplate    = "index.html"
	NotFoundTemplate = "not_found.html"
)

// Templates parses the embedded page templates for gin's HTML renderer.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templates, "templates/*.html"))
}

type FilterLink struct {
	Name   string
	Title  string
	Count  int
	Active bool
}

type Item struct {
	ID        string
	Text      string
	Label     string
	Style     string
	Completed bool
}

type Page struct {
	Theme   string
	Filter  string
	Filters []FilterLink
	Items   []Item
	Counts  domain.Counts
	Message string
	Draft   string
}

var filterTitles = map[domain.Filter]string{
	domain.FilterAll:       "All",
	domain.FilterPending:   "Pending",
	domain.FilterCompleted: "Completed",
}

func NewPage(theme string, filter domain.Filter, todos []domain.Todo, counts domain.Counts, formatter domain.Formatter) Page {
	page := Page{
		Theme:  theme,
		Filter: filter.String(),
		Items:  make([]Item, 0, len(todos)),
		Counts: counts,
	}

	for _, f := range domain.Filters() {
		count := counts.All

		switch f {
		case domain.FilterPending:
			count = counts.Pending
		case domain.FilterCompleted:
			count = counts.Completed
		}

		page.Filters = append(page.Filters, FilterLink{
			Name:   f.String(),
			Title:  filterTitles[f],
			Count:  count,
			Active: f == filter,
		})
	}

	for _, todo := range todos {
		presentation := formatter.Format(todo)

		page.Items = append(page.Items, Item{
			ID:        todo.ID.String(),
			Text:      todo.Text,
			Label:     presentation.Label,
			Style:     string(presentation.StyleTag),
			Completed: todo.Completed,
		})
	}

	return page
}
