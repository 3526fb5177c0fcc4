// Package skincare implements the age-group classifier and the
// recommendation engine.
package skincare

import "github.com/glowcare/glowtui/internal/model"

// Weather thresholds for the additive recommendation rules.
const (
	hotThresholdC     = 30.0
	coldThresholdC    = 15.0
	humidThresholdPct = 70.0
)

// NoWeatherNotice is the single recommendation shown when no weather
// snapshot is available.
const NoWeatherNotice = "No weather data available."

// ClassifyAge maps a non-negative age to its age group.
func ClassifyAge(age int) model.AgeGroup {
	switch {
	case age < 25:
		return model.AgeGroupYouth
	case age < 50:
		return model.AgeGroupAdult
	default:
		return model.AgeGroupSenior
	}
}

func baseRecommendations(group model.AgeGroup) []string {
	switch group {
	case model.AgeGroupYouth:
		return []string{"Hydrating Serum", "SPF 50 Sunscreen"}
	case model.AgeGroupAdult:
		return []string{"Anti-Aging Serum", "Daily Sunscreen"}
	default:
		return []string{"Collagen Booster", "Rich Hydration Cream"}
	}
}

// Recommend returns the ordered product list for an age group and weather
// snapshot. A nil snapshot degrades to the no-weather notice. Threshold
// rules are independent and append in fixed order; duplicates are not
// removed.
func Recommend(group model.AgeGroup, snap *model.WeatherSnapshot) []string {
	if snap == nil {
		return []string{NoWeatherNotice}
	}
	recs := append([]string(nil), baseRecommendations(group)...)
	if snap.TemperatureC > hotThresholdC {
		recs = append(recs, "Mattifying Moisturizer")
	}
	if snap.TemperatureC < coldThresholdC {
		recs = append(recs, "Intensive Repair Cream")
	}
	if snap.HumidityPct > humidThresholdPct {
		recs = append(recs, "Light Gel Moisturizer")
	}
	return recs
}
