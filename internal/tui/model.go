// Package tui provides the Bubble Tea wizard interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/glowcare/glowtui/internal/geo"
	"github.com/glowcare/glowtui/internal/model"
	"github.com/glowcare/glowtui/internal/notify"
	"github.com/glowcare/glowtui/internal/store"
	"github.com/glowcare/glowtui/internal/weather"
	"github.com/glowcare/glowtui/internal/wizard"
)

// Fetcher runs the one-shot location-and-weather sequence.
type Fetcher interface {
	Fetch(ctx context.Context) (weather.Result, error)
}

type weatherMsg struct {
	result weather.Result
}

type weatherErrMsg struct {
	err error
}

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	alertStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#FF4D4F")).
			Padding(1, 2)
)

// Model implements the Bubble Tea wizard UI.
type Model struct {
	session   *wizard.Session
	store     *store.Store
	scheduler *notify.Scheduler
	fetcher   Fetcher

	city         string
	weather      *model.WeatherSnapshot
	fetchStarted bool

	nameInput  textinput.Model
	ageInput   textinput.Model
	focusIndex int

	skinCursor int
	skinTypes  []model.SkinType

	timeInput textinput.Model

	alert string

	width  int
	height int
}

// NewModel constructs the wizard model at the data-entry step.
func NewModel(st *store.Store, scheduler *notify.Scheduler, fetcher Fetcher) *Model {
	m := &Model{
		session:   wizard.NewSession(),
		store:     st,
		scheduler: scheduler,
		fetcher:   fetcher,
		skinTypes: model.SkinTypes(),
	}
	m.nameInput = newInput("Enter your name")
	m.ageInput = newInput("Enter your age")
	m.ageInput.Validate = digitsOnly
	m.timeInput = newInput("e.g. 08:00")
	m.nameInput.Focus()
	return m
}

func newInput(placeholder string) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.CharLimit = 0
	input.Width = 30
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func digitsOnly(s string) error {
	for _, r := range s {
		if r < '0' || r > '9' {
			return fmt.Errorf("digits only")
		}
	}
	return nil
}

// Init implements tea.Model. The weather fetch is issued here exactly once
// per mount; nothing else re-triggers it.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if !m.fetchStarted {
		m.fetchStarted = true
		cmds = append(cmds, m.fetchCmd())
	}
	return tea.Batch(cmds...)
}

func (m *Model) fetchCmd() tea.Cmd {
	fetcher := m.fetcher
	return func() tea.Msg {
		result, err := fetcher.Fetch(context.Background())
		if err != nil {
			return weatherErrMsg{err: err}
		}
		return weatherMsg{result: result}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case weatherMsg:
		m.city = msg.result.City
		snap := msg.result.Snapshot
		m.weather = &snap
		return m, nil
	case weatherErrMsg:
		if errors.Is(msg.err, geo.ErrPermissionDenied) {
			m.alert = "Location permission not granted."
		} else {
			m.alert = "Unable to fetch weather and location data."
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.alert != "" {
		switch msg.Type {
		case tea.KeyEnter, tea.KeyEsc:
			m.alert = ""
		}
		return m, nil
	}
	if m.session.ReminderSlot != wizard.SlotNone {
		return m.updateReminderOverlay(msg)
	}
	switch m.session.Step {
	case wizard.StepDataEntry:
		return m.updateDataEntry(msg)
	case wizard.StepSkinTypeSelection:
		return m.updateSkinType(msg)
	default:
		return m.updateSummary(msg)
	}
}

func (m *Model) updateDataEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if err := m.session.SubmitProfile(m.nameInput.Value(), m.ageInput.Value()); err != nil {
			m.alert = "Please complete all fields correctly."
		}
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		m.focusIndex = 1 - m.focusIndex
		var cmd tea.Cmd
		if m.focusIndex == 0 {
			m.ageInput.Blur()
			cmd = m.nameInput.Focus()
		} else {
			m.nameInput.Blur()
			cmd = m.ageInput.Focus()
		}
		return m, cmd
	default:
		var cmd tea.Cmd
		if m.focusIndex == 0 {
			m.nameInput, cmd = m.nameInput.Update(msg)
		} else {
			m.ageInput, cmd = m.ageInput.Update(msg)
		}
		return m, cmd
	}
}

func (m *Model) updateSkinType(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.skinCursor > 0 {
			m.skinCursor--
		}
		return m, nil
	case "down", "j":
		if m.skinCursor < len(m.skinTypes)-1 {
			m.skinCursor++
		}
		return m, nil
	case "enter":
		m.session.SelectSkinType(m.skinTypes[m.skinCursor], m.weather)
		if m.session.Step == wizard.StepSummary {
			m.recordSession()
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) updateSummary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "n":
		m.session.StartReminders()
		if m.session.ReminderSlot != wizard.SlotNone {
			m.timeInput.SetValue("")
			return m, m.timeInput.Focus()
		}
		return m, nil
	case "r":
		m.restart()
		return m, m.nameInput.Focus()
	case "q":
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m *Model) updateReminderOverlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.supplyTime()
		return m, nil
	case tea.KeyEsc:
		m.session.SkipSlot()
		m.timeInput.SetValue("")
		if m.session.ReminderSlot == wizard.SlotNone {
			m.timeInput.Blur()
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.timeInput, cmd = m.timeInput.Update(msg)
		return m, cmd
	}
}

func (m *Model) supplyTime() {
	slot := m.session.ReminderSlot
	if slot == wizard.SlotNone {
		return
	}
	value := strings.TrimSpace(m.timeInput.Value())
	if m.scheduler != nil {
		if _, err := m.scheduler.Schedule(context.Background(), slot, value); err != nil {
			m.alert = fmt.Sprintf("Could not schedule the %s reminder: %v", slot, err)
			return
		}
	}
	m.session.RecordTime(value)
	m.timeInput.SetValue("")
	if m.session.ReminderSlot == wizard.SlotNone {
		m.timeInput.Blur()
	}
}

// restart resets the wizard session and the inputs. The weather snapshot
// fetched at mount is kept, and already-scheduled reminders stay in the
// store.
func (m *Model) restart() {
	m.session.Restart()
	m.nameInput.SetValue("")
	m.ageInput.SetValue("")
	m.timeInput.SetValue("")
	m.focusIndex = 0
	m.skinCursor = 0
	m.ageInput.Blur()
	m.timeInput.Blur()
}

func (m *Model) recordSession() {
	if m.store == nil {
		return
	}
	age, err := strconv.Atoi(m.session.Profile.Age)
	if err != nil {
		return
	}
	rec := model.SessionRecord{
		FinishedAt:      time.Now(),
		Name:            m.session.Profile.Name,
		Age:             age,
		AgeGroup:        m.session.AgeGroup,
		SkinType:        m.session.SkinType,
		City:            m.city,
		Recommendations: m.session.Recommendations,
	}
	if m.weather != nil {
		rec.HasWeather = true
		rec.TemperatureC = m.weather.TemperatureC
		rec.HumidityPct = m.weather.HumidityPct
	}
	if _, err := m.store.InsertSession(context.Background(), rec); err != nil {
		logErrf("failed to save session: %v\n", err)
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch {
	case m.alert != "":
		body = alertStyle.Render(m.alert + "\n\n" + footerStyle.Render("enter: dismiss"))
	case m.session.ReminderSlot != wizard.SlotNone:
		// The reminder overlay is orthogonal to the summary; both show.
		body = m.renderSummary() + "\n\n" + m.renderReminderOverlay()
	case m.session.Step == wizard.StepDataEntry:
		body = m.renderDataEntry()
	case m.session.Step == wizard.StepSkinTypeSelection:
		body = m.renderSkinType()
	default:
		body = m.renderSummary()
	}

	content := titleStyle.Render("Weather & Skincare") + "\n\n" + body
	if m.width == 0 || m.height == 0 {
		return content
	}
	footer := m.renderFooter()
	bodyHeight := m.height - 1
	placed := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return placed + "\n" + footerLine
}

func (m *Model) renderDataEntry() string {
	lines := []string{
		subtitleStyle.Render("Tell us about yourself"),
		"",
		m.nameInput.View(),
		m.ageInput.View(),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderSkinType() string {
	lines := []string{subtitleStyle.Render("Select Your Skin Type:"), ""}
	for i, t := range m.skinTypes {
		label := strings.ToUpper(string(t[0])) + string(t[1:])
		if i == m.skinCursor {
			lines = append(lines, selectedStyle.Render("> "+label))
		} else {
			lines = append(lines, pendingStyle.Render("  "+label))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderSummary() string {
	lines := []string{subtitleStyle.Render("Summary"), ""}
	if m.weather != nil {
		lines = append(lines, valueStyle.Render(fmt.Sprintf(
			"Based on your location (%s) and temperature (%.1f°C), along with", m.city, m.weather.TemperatureC)))
		lines = append(lines, valueStyle.Render("the personal details you entered, here are your results:"))
	} else {
		lines = append(lines, valueStyle.Render("Based on the personal details you entered, here are your results:"))
	}
	lines = append(lines,
		"",
		labelStyle.Render("Name: ")+valueStyle.Render(m.session.Profile.Name),
		labelStyle.Render("Age: ")+valueStyle.Render(m.session.Profile.Age),
		labelStyle.Render("Skin Type: ")+valueStyle.Render(string(m.session.SkinType)),
		"",
		subtitleStyle.Render("Recommendations:"),
	)
	for _, product := range m.session.Recommendations {
		lines = append(lines, valueStyle.Render("- "+product))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderReminderOverlay() string {
	slot := m.session.ReminderSlot
	lines := []string{
		subtitleStyle.Render(fmt.Sprintf("Set %s notification time:", slot)),
		"",
		m.timeInput.View(),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	var help string
	switch {
	case m.alert != "":
		help = "enter: dismiss  ctrl+c: quit"
	case m.session.ReminderSlot != wizard.SlotNone:
		help = "enter: schedule  esc: skip  ctrl+c: quit"
	case m.session.Step == wizard.StepDataEntry:
		help = "tab: switch field  enter: next  ctrl+c: quit"
	case m.session.Step == wizard.StepSkinTypeSelection:
		help = "up/down: choose  enter: select  ctrl+c: quit"
	default:
		help = "n: set notifications  r: restart  q: quit"
	}
	if m.width > 0 {
		help = runewidth.Truncate(help, m.width, "…")
	}
	return footerStyle.Render(help)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
