package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glowcare/glowtui/internal/geo"
	"github.com/glowcare/glowtui/internal/model"
	"github.com/glowcare/glowtui/internal/notify"
	"github.com/glowcare/glowtui/internal/store"
	"github.com/glowcare/glowtui/internal/weather"
	"github.com/glowcare/glowtui/internal/wizard"
)

type stubFetcher struct {
	calls  int
	result weather.Result
	err    error
}

func (f *stubFetcher) Fetch(_ context.Context) (weather.Result, error) {
	f.calls++
	if f.err != nil {
		return weather.Result{}, f.err
	}
	return f.result, nil
}

func testStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "glowtui.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func press(t *testing.T, m *Model, msg tea.Msg) *Model {
	t.Helper()
	next, _ := m.Update(msg)
	updated, ok := next.(*Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return updated
}

func typeText(t *testing.T, m *Model, text string) *Model {
	t.Helper()
	return press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func runInit(m *Model) {
	cmd := m.Init()
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, sub := range batch {
			if sub != nil {
				sub()
			}
		}
	}
}

func TestFetchRunsExactlyOnce(t *testing.T) {
	fetcher := &stubFetcher{result: weather.Result{City: "Berlin"}}
	m := NewModel(nil, nil, fetcher)
	runInit(m)
	if fetcher.calls != 1 {
		t.Fatalf("expected one fetch after init, got %d", fetcher.calls)
	}
	runInit(m)
	if fetcher.calls != 1 {
		t.Fatalf("fetch must not be re-triggered, got %d calls", fetcher.calls)
	}
}

func TestValidationAlertKeepsStep(t *testing.T) {
	m := NewModel(nil, nil, &stubFetcher{})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.alert == "" {
		t.Fatalf("expected validation alert")
	}
	if m.session.Step != wizard.StepDataEntry {
		t.Fatalf("step must not change on validation failure")
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.alert != "" {
		t.Fatalf("alert should be dismissed")
	}
}

func TestPermissionDeniedAlert(t *testing.T) {
	m := NewModel(nil, nil, &stubFetcher{})
	m = press(t, m, weatherErrMsg{err: fmt.Errorf("failed to resolve location: %w", geo.ErrPermissionDenied)})
	if m.alert != "Location permission not granted." {
		t.Fatalf("alert = %q", m.alert)
	}
	if m.weather != nil {
		t.Fatalf("weather must stay unset after a denied fetch")
	}
}

func TestGenericFetchFailureAlert(t *testing.T) {
	m := NewModel(nil, nil, &stubFetcher{})
	m = press(t, m, weatherErrMsg{err: fmt.Errorf("failed to fetch weather: boom")})
	if m.alert != "Unable to fetch weather and location data." {
		t.Fatalf("alert = %q", m.alert)
	}
}

func TestWizardHappyPath(t *testing.T) {
	st := testStore(t)
	scheduler := notify.NewScheduler(st)
	m := NewModel(st, scheduler, &stubFetcher{})

	m = press(t, m, weatherMsg{result: weather.Result{
		City:     "Lisbon",
		Snapshot: model.WeatherSnapshot{TemperatureC: 32, HumidityPct: 80},
	}})

	m = typeText(t, m, "Amy")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "30")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.session.Step != wizard.StepSkinTypeSelection {
		t.Fatalf("expected skin-type step, got %d", m.session.Step)
	}

	m = typeText(t, m, "j")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.session.Step != wizard.StepSummary {
		t.Fatalf("expected summary step, got %d", m.session.Step)
	}
	if m.session.SkinType != model.SkinTypeOily {
		t.Fatalf("skin type = %s", m.session.SkinType)
	}

	ctx := context.Background()
	sessions, err := st.ListSessions(ctx)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 recorded session, got %d", len(sessions))
	}
	rec := sessions[0]
	if rec.Name != "Amy" || rec.Age != 30 || rec.AgeGroup != model.AgeGroupAdult || rec.City != "Lisbon" {
		t.Fatalf("unexpected session record: %+v", rec)
	}
	wantRecs := []string{"Anti-Aging Serum", "Daily Sunscreen", "Mattifying Moisturizer", "Light Gel Moisturizer"}
	if len(rec.Recommendations) != len(wantRecs) {
		t.Fatalf("recommendations = %v", rec.Recommendations)
	}
	for i, product := range wantRecs {
		if rec.Recommendations[i] != product {
			t.Fatalf("recommendations = %v", rec.Recommendations)
		}
	}

	// Reminder sub-flow: supply morning, skip afternoon, supply night.
	m = typeText(t, m, "n")
	if m.session.ReminderSlot != model.SlotMorning {
		t.Fatalf("expected morning slot, got %s", m.session.ReminderSlot)
	}
	m = typeText(t, m, "08:00")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.session.ReminderSlot != model.SlotAfternoon {
		t.Fatalf("expected afternoon slot, got %s", m.session.ReminderSlot)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.session.ReminderSlot != model.SlotNight {
		t.Fatalf("expected night slot, got %s", m.session.ReminderSlot)
	}
	m = typeText(t, m, "22:30")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.session.ReminderSlot != wizard.SlotNone {
		t.Fatalf("expected completed sequence, got %s", m.session.ReminderSlot)
	}

	reminders, err := st.ListReminders(ctx, time.Time{})
	if err != nil {
		t.Fatalf("list reminders: %v", err)
	}
	if len(reminders) != 2 {
		t.Fatalf("expected 2 reminders (afternoon skipped), got %d", len(reminders))
	}

	// Restart clears the session but keeps the fetched weather.
	m = typeText(t, m, "r")
	if m.session.Step != wizard.StepDataEntry {
		t.Fatalf("expected data-entry step after restart")
	}
	if m.session.SkinType != model.SkinTypeNone || len(m.session.Recommendations) != 0 {
		t.Fatalf("session not reset: %+v", m.session)
	}
	if m.weather == nil || m.city != "Lisbon" {
		t.Fatalf("weather must survive restart")
	}
	reminders, err = st.ListReminders(ctx, time.Time{})
	if err != nil {
		t.Fatalf("list reminders: %v", err)
	}
	if len(reminders) != 2 {
		t.Fatalf("restart must not cancel reminders, got %d", len(reminders))
	}
}

func TestMalformedReminderTimeStaysOnSlot(t *testing.T) {
	st := testStore(t)
	scheduler := notify.NewScheduler(st)
	m := NewModel(st, scheduler, &stubFetcher{})

	m = typeText(t, m, "Amy")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "30")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = typeText(t, m, "n")

	m = typeText(t, m, "99:99")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.alert == "" {
		t.Fatalf("expected alert for malformed time")
	}
	if m.session.ReminderSlot != model.SlotMorning {
		t.Fatalf("slot must not advance on malformed time, got %s", m.session.ReminderSlot)
	}
	reminders, err := st.ListReminders(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("list reminders: %v", err)
	}
	if len(reminders) != 0 {
		t.Fatalf("nothing should be scheduled, got %d", len(reminders))
	}
}

func TestSummaryWithoutWeatherShowsNotice(t *testing.T) {
	m := NewModel(nil, nil, &stubFetcher{})
	m = typeText(t, m, "Amy")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "20")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.session.Step != wizard.StepSummary {
		t.Fatalf("expected summary step")
	}
	if len(m.session.Recommendations) != 1 || m.session.Recommendations[0] != "No weather data available." {
		t.Fatalf("recommendations = %v", m.session.Recommendations)
	}
}
