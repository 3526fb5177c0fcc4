// Package model defines shared data structures.
package model

import "time"

// AgeGroup buckets a numeric age for recommendation purposes.
type AgeGroup string

// Age groups in ascending order.
const (
	AgeGroupYouth  AgeGroup = "youth"
	AgeGroupAdult  AgeGroup = "adult"
	AgeGroupSenior AgeGroup = "senior"
)

// SkinType is the user-selected skin type. The empty value is the
// "not selected yet" sentinel.
type SkinType string

// Selectable skin types.
const (
	SkinTypeNone      SkinType = ""
	SkinTypeDry       SkinType = "dry"
	SkinTypeOily      SkinType = "oily"
	SkinTypeSensitive SkinType = "sensitive"
	SkinTypeNormal    SkinType = "normal"
)

// SkinTypes lists the selectable skin types in display order.
func SkinTypes() []SkinType {
	return []SkinType{SkinTypeDry, SkinTypeOily, SkinTypeSensitive, SkinTypeNormal}
}

// Profile holds the raw data-entry values. Age stays a string until it
// passes the digits-only check.
type Profile struct {
	Name string
	Age  string
}

// Coordinates are geographic degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// WeatherSnapshot is the narrow slice of the weather provider's response
// the program consumes. Built once at the ingestion boundary; the rest of
// the payload is discarded there.
type WeatherSnapshot struct {
	TemperatureC float64
	HumidityPct  float64
	Description  string
}

// TimeSlot identifies one of the three fixed reminder windows.
type TimeSlot string

// Reminder slots in sequence order.
const (
	SlotMorning   TimeSlot = "morning"
	SlotAfternoon TimeSlot = "afternoon"
	SlotNight     TimeSlot = "night"
)

// Reminder is a scheduled skincare reminder.
type Reminder struct {
	ID        int64
	Slot      TimeSlot
	Title     string
	Body      string
	FireAt    time.Time
	CreatedAt time.Time
}

// SessionRecord captures a completed wizard run for the history view.
type SessionRecord struct {
	ID              int64
	FinishedAt      time.Time
	Name            string
	Age             int
	AgeGroup        AgeGroup
	SkinType        SkinType
	City            string
	TemperatureC    float64
	HumidityPct     float64
	HasWeather      bool
	Recommendations []string
}
