// Package wizard implements the forward-only wizard state machine.
package wizard

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/glowcare/glowtui/internal/model"
	"github.com/glowcare/glowtui/internal/skincare"
)

// Step is the visible wizard step.
type Step int

// Wizard steps in forward order.
const (
	StepDataEntry Step = iota
	StepSkinTypeSelection
	StepSummary
)

// SlotNone marks the reminder sequence as inactive.
const SlotNone model.TimeSlot = ""

// ErrInvalidProfile is returned when the data-entry values fail validation.
var ErrInvalidProfile = errors.New("name must be non-empty and age numeric")

var agePattern = regexp.MustCompile(`^\d+$`)

// Session holds the wizard state for one run of the screen. Weather is not
// owned here: it is fetched once at mount and outlives Restart.
type Session struct {
	Step            Step
	Profile         model.Profile
	SkinType        model.SkinType
	AgeGroup        model.AgeGroup
	Recommendations []string

	// ReminderSlot is the active slot of the reminder sub-flow, SlotNone
	// when the sub-flow is not running. It advances independently of Step.
	ReminderSlot  model.TimeSlot
	ReminderTimes map[model.TimeSlot]string
}

// NewSession returns a session at the data-entry step.
func NewSession() *Session {
	return &Session{
		ReminderSlot:  SlotNone,
		ReminderTimes: map[model.TimeSlot]string{},
	}
}

// ValidProfile reports whether the raw data-entry values pass validation:
// trimmed non-empty name and digits-only age.
func ValidProfile(name, age string) bool {
	return strings.TrimSpace(name) != "" && agePattern.MatchString(age)
}

// SubmitProfile validates the data-entry values and advances to skin-type
// selection. On validation failure the step is unchanged.
func (s *Session) SubmitProfile(name, age string) error {
	if s.Step != StepDataEntry {
		return nil
	}
	if !ValidProfile(name, age) {
		return ErrInvalidProfile
	}
	s.Profile = model.Profile{Name: name, Age: age}
	s.Step = StepSkinTypeSelection
	return nil
}

// SelectSkinType records a concrete skin type, derives the age group and
// recommendations from the given snapshot, and advances to the summary.
// The empty sentinel is ignored.
func (s *Session) SelectSkinType(t model.SkinType, snap *model.WeatherSnapshot) {
	if s.Step != StepSkinTypeSelection || t == model.SkinTypeNone {
		return
	}
	age, err := strconv.Atoi(s.Profile.Age)
	if err != nil {
		// Age passed the digits-only check at data entry.
		return
	}
	s.SkinType = t
	s.AgeGroup = skincare.ClassifyAge(age)
	s.Recommendations = skincare.Recommend(s.AgeGroup, snap)
	s.Step = StepSummary
}

// StartReminders begins the reminder sub-flow at the morning slot. Only
// reachable from the summary, and only when not already running.
func (s *Session) StartReminders() {
	if s.Step != StepSummary || s.ReminderSlot != SlotNone {
		return
	}
	s.ReminderSlot = model.SlotMorning
}

// NextSlot returns the slot following s, or SlotNone after night.
func NextSlot(slot model.TimeSlot) model.TimeSlot {
	switch slot {
	case model.SlotMorning:
		return model.SlotAfternoon
	case model.SlotAfternoon:
		return model.SlotNight
	default:
		return SlotNone
	}
}

// RecordTime stores the supplied time for the active slot and advances the
// sub-flow. It returns the slot the value was recorded for, or SlotNone if
// the sub-flow is inactive.
func (s *Session) RecordTime(value string) model.TimeSlot {
	slot := s.ReminderSlot
	if slot == SlotNone {
		return SlotNone
	}
	s.ReminderTimes[slot] = value
	s.ReminderSlot = NextSlot(slot)
	return slot
}

// SkipSlot marks the active slot as skipped and advances the sub-flow.
func (s *Session) SkipSlot() model.TimeSlot {
	slot := s.ReminderSlot
	if slot == SlotNone {
		return SlotNone
	}
	delete(s.ReminderTimes, slot)
	s.ReminderSlot = NextSlot(slot)
	return slot
}

// Restart resets everything the session owns and returns to data entry.
// Already-scheduled reminders are not cancelled, and the weather snapshot
// (owned by the caller) is deliberately untouched.
func (s *Session) Restart() {
	*s = *NewSession()
}
