// Package notify schedules local skincare reminders.
package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/glowcare/glowtui/internal/model"
	"github.com/glowcare/glowtui/internal/store"
)

// ReminderTitle is the fixed title of every scheduled reminder.
const ReminderTitle = "Skincare Reminder"

// ReminderBody returns the reminder body for a slot.
func ReminderBody(slot model.TimeSlot) string {
	return fmt.Sprintf("It's time for your %s skincare routine!", slot)
}

// ParseClock parses an "HH:MM" value into hour and minute.
func ParseClock(value string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("time must be in HH:MM format")
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid hour: %w", err)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid minute: %w", err)
	}
	if hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("hour must be between 0 and 23")
	}
	if minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("minute must be between 0 and 59")
	}
	return hour, minute, nil
}

// NextTrigger returns today at the given time, or tomorrow if that instant
// has already elapsed.
func NextTrigger(now time.Time, hour, minute int) time.Time {
	trigger := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if trigger.Before(now) {
		trigger = trigger.AddDate(0, 0, 1)
	}
	return trigger
}

// Scheduler persists reminders to the store, one per supplied slot time.
type Scheduler struct {
	store *store.Store
	now   func() time.Time
}

// NewScheduler returns a scheduler writing to the given store.
func NewScheduler(st *store.Store) *Scheduler {
	return &Scheduler{store: st, now: time.Now}
}

// Schedule validates the supplied "HH:MM" value and stores exactly one
// reminder for the slot at the next matching instant.
func (s *Scheduler) Schedule(ctx context.Context, slot model.TimeSlot, value string) (model.Reminder, error) {
	hour, minute, err := ParseClock(value)
	if err != nil {
		return model.Reminder{}, err
	}
	now := s.now()
	reminder := model.Reminder{
		Slot:      slot,
		Title:     ReminderTitle,
		Body:      ReminderBody(slot),
		FireAt:    NextTrigger(now, hour, minute),
		CreatedAt: now,
	}
	id, err := s.store.InsertReminder(ctx, reminder)
	if err != nil {
		return model.Reminder{}, fmt.Errorf("failed to save reminder: %w", err)
	}
	reminder.ID = id
	return reminder, nil
}
