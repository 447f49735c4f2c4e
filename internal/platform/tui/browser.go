// Package tui provides the terminal progress browser and its SSH
// serving support via Wish.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gems-rush/internal/progression"
)

type browserScreen int

const (
	screenWorlds browserScreen = iota
	screenLevels
)

// BrowserModel is the Bubble Tea model for the worlds/levels progress
// browser. It is read-only: attempts are driven through the CLI, the
// browser shows where the player stands.
type BrowserModel struct {
	manager *progression.Manager
	worlds  []*progression.World

	screen   browserScreen
	cursor   int
	selected *progression.World

	table  table.Model
	help   help.Model
	keys   BrowserKeyMap
	width  int
	height int

	quitting bool
}

// NewBrowserModel creates a browser over the given manager.
func NewBrowserModel(manager *progression.Manager, width, height int) BrowserModel {
	h := help.New()
	h.ShowAll = false

	return BrowserModel{
		manager: manager,
		worlds:  manager.Worlds(),
		keys:    DefaultBrowserKeyMap(),
		help:    h,
		width:   width,
		height:  height,
	}
}

// Init initializes the browser model.
func (m BrowserModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser.
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.screen == screenLevels {
			m.table = m.createLevelTable()
		}
		return m, nil
	}

	if m.screen == screenLevels {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m BrowserModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		if m.screen == screenLevels {
			m.screen = screenWorlds
			m.selected = nil
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Select):
		if m.screen == screenWorlds && len(m.worlds) > 0 {
			m.selected = m.worlds[m.cursor]
			m.screen = screenLevels
			m.table = m.createLevelTable()
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.screen == screenWorlds {
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		}

	case key.Matches(msg, m.keys.Down):
		if m.screen == screenWorlds {
			if m.cursor < len(m.worlds)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	if m.screen == screenLevels {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

// createLevelTable builds the level table for the selected world.
func (m *BrowserModel) createLevelTable() table.Model {
	columns := []table.Column{
		{Title: "Lvl", Width: 4},
		{Title: "Name", Width: 22},
		{Title: "Objective", Width: 30},
		{Title: "Stars", Width: 6},
		{Title: "Best", Width: 8},
		{Title: "Status", Width: 10},
	}

	height := m.height - 8
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	if m.selected != nil {
		rows := make([]table.Row, 0, len(m.selected.Levels))
		for _, lvl := range m.selected.Levels {
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", lvl.Def.ID),
				lvl.Def.Name,
				lvl.Def.Objective.String(),
				starBar(lvl.Progress.Stars, 3),
				bestColumn(lvl),
				statusColumn(lvl),
			})
		}
		t.SetRows(rows)
	}

	return t
}

func bestColumn(lvl *progression.Level) string {
	if lvl.Progress.BestScore == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", lvl.Progress.BestScore)
}

func statusColumn(lvl *progression.Level) string {
	switch {
	case lvl.Progress.Completed:
		return "done"
	case lvl.Progress.Unlocked:
		return "open"
	default:
		return "locked"
	}
}

// View renders the browser.
func (m BrowserModel) View() string {
	if m.quitting {
		return ""
	}

	if m.screen == screenLevels {
		return m.viewLevels()
	}
	return m.viewWorlds()
}

func (m BrowserModel) viewWorlds() string {
	var b strings.Builder

	stats := m.manager.Stats()
	title := fmt.Sprintf("G E M S   R U S H   %s %d/%d", "★", stats.StarsEarned, stats.StarsTotal)
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	for i, w := range m.worlds {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		maxStars := 3 * len(w.Levels)
		line := fmt.Sprintf("%s %s  %s %d/%d",
			w.Def.Symbol, w.Def.Theme,
			starStyle.Render("★"), w.Progress.StarsEarned, maxStars)

		switch {
		case !w.Progress.Unlocked:
			line = lockedStyle.Render(fmt.Sprintf("%s  (locked: %d★ required)", line, w.Def.StarsRequired))
		case w.Progress.Completed:
			line = completedStyle.Render(line + "  ✓")
		}

		b.WriteString("  ")
		b.WriteString(cursor)
		b.WriteString(line)
		b.WriteString("\n")

		if i == m.cursor && w.Def.Description != "" {
			b.WriteString("      ")
			b.WriteString(descStyle.Render(w.Def.Description))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m BrowserModel) viewLevels() string {
	var b strings.Builder

	w := m.selected
	title := fmt.Sprintf("%s %s  %s %d/%d",
		w.Def.Symbol, w.Def.Theme,
		"★", w.Progress.StarsEarned, 3*len(w.Levels))
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Run starts the browser in the current terminal.
func Run(manager *progression.Manager, width, height int) error {
	model := NewBrowserModel(manager, width, height)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: browser failed: %w", err)
	}
	return nil
}
