package tui

import (
	"github.com/charmbracelet/lipgloss"

	"todolist/internal/core/domain"
	"todolist/pkg/config"
)

type Styles struct {
	Title    lipgloss.Style
	Tab      lipgloss.Style
	TabOn    lipgloss.Style
	Cursor   lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
	Labels   map[domain.StyleTag]lipgloss.Style
	TextDone lipgloss.Style
}

func NewStyles(theme string) Styles {
	accent, muted, success, pending, danger := lipgloss.Color("4"), lipgloss.Color("8"), lipgloss.Color("2"), lipgloss.Color("3"), lipgloss.Color("1")

	if theme == config.ThemeDark {
		accent, muted, success, pending, danger = lipgloss.Color("12"), lipgloss.Color("245"), lipgloss.Color("10"), lipgloss.Color("11"), lipgloss.Color("9")
	}

	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		Tab:    lipgloss.NewStyle().Foreground(muted).PaddingRight(2),
		TabOn:  lipgloss.NewStyle().Bold(true).Underline(true).Foreground(accent).PaddingRight(2),
		Cursor: lipgloss.NewStyle().Bold(true).Foreground(accent),
		Muted:  lipgloss.NewStyle().Foreground(muted),
		Error:  lipgloss.NewStyle().Foreground(danger),
		Help:   lipgloss.NewStyle().Foreground(muted).MarginTop(1),
		Labels: map[domain.StyleTag]lipgloss.Style{
			domain.StylePending:   lipgloss.NewStyle().Foreground(pending),
			domain.StyleCompleted: lipgloss.NewStyle().Foreground(success),
		},
		TextDone: lipgloss.NewStyle().Strikethrough(true).Foreground(muted),
	}
}

func (s Styles) Label(tag domain.StyleTag) lipgloss.Style {
	if style, ok := s.Labels[tag]; ok {
		return style
	}

	return s.Muted
}
