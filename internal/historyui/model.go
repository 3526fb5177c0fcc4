// Package historyui provides the Bubble Tea history interface.
package historyui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/glowcare/glowtui/internal/model"
	"github.com/glowcare/glowtui/internal/store"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

const recommendationColWidth = 40

// Model implements the Bubble Tea history UI.
type Model struct {
	store    *store.Store
	sessions []model.SessionRecord
	errMsg   string

	table table.Model

	width  int
	height int
}

// NewModel constructs a history model and loads completed sessions.
func NewModel(st *store.Store) *Model {
	m := &Model{store: st}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(m.width)
		if m.height > 4 {
			m.table.SetHeight(m.height - 4)
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	header := titleStyle.Render("Session History")
	if m.errMsg != "" {
		return header + "\n" + errorStyle.Render(m.errMsg)
	}
	if len(m.sessions) == 0 {
		return header + "\n\nNo completed sessions yet."
	}
	footer := headerStyle.Render("Scroll: up/down  Quit: q")
	return header + "\n" + mutedStyle.Render(m.table.View()) + "\n" + footer
}

func (m *Model) refresh() {
	sessions, err := m.store.ListSessions(context.Background())
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.sessions = sessions
	m.table = buildSessionTable(sessions)
	m.table.Focus()
}

func buildSessionTable(sessions []model.SessionRecord) table.Model {
	columns := []table.Column{
		{Title: "Finished", Width: 16},
		{Title: "Name", Width: 12},
		{Title: "Age", Width: 4},
		{Title: "Group", Width: 7},
		{Title: "Skin", Width: 10},
		{Title: "City", Width: 14},
		{Title: "Temp", Width: 7},
		{Title: "Recommendations", Width: recommendationColWidth},
	}
	rows := make([]table.Row, 0, len(sessions))
	for _, s := range sessions {
		temp := "-"
		if s.HasWeather {
			temp = fmt.Sprintf("%.1f°C", s.TemperatureC)
		}
		recs := runewidth.Truncate(strings.Join(s.Recommendations, ", "), recommendationColWidth, "…")
		rows = append(rows, table.Row{
			s.FinishedAt.Local().Format("2006-01-02 15:04"),
			s.Name,
			strconv.Itoa(s.Age),
			string(s.AgeGroup),
			string(s.SkinType),
			s.City,
			temp,
			recs,
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, len(rows)+1)),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.Color("#4A4A4A"))
	t.SetStyles(styles)
	return t
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
