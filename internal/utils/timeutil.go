package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"workout-engine/internal/models"
)

// DetectTimeOfDay buckets the clock: 5:00-11:59 morning, 12:00-16:59
// afternoon, 17:00-20:59 evening, everything else night.
func DetectTimeOfDay(now time.Time) models.TimeOfDay {
	hour := now.Hour()
	switch {
	case hour >= 5 && hour < 12:
		return models.TimeMorning
	case hour >= 12 && hour < 17:
		return models.TimeAfternoon
	case hour >= 17 && hour < 21:
		return models.TimeEvening
	default:
		return models.TimeNight
	}
}

// DetectDayPeriod buckets the weekday: Sunday/Monday start of week,
// Tuesday-Thursday mid week, Friday/Saturday weekend.
func DetectDayPeriod(now time.Time) models.DayPeriod {
	switch int(now.Weekday()) {
	case 0, 1:
		return models.DayStartOfWeek
	case 2, 3, 4:
		return models.DayMidWeek
	default:
		return models.DayWeekend
	}
}

// CalculateDaysInactive computes whole days between the profile's
// YYYY-MM-DD last-active date and now, floored at 0. A missing or malformed
// date yields 0.
func CalculateDaysInactive(lastActiveDate string, now time.Time) int {
	if lastActiveDate == "" {
		return 0
	}
	last, err := time.Parse("2006-01-02", lastActiveDate)
	if err != nil {
		return 0
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(today.Sub(last).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// FormatPace renders minutes-per-km as "MM:SS". Non-finite or non-positive
// input returns "00:00"; a seconds value that rounds to 60 rolls over into the
// minutes.
func FormatPace(minPerKm float64) string {
	if math.IsNaN(minPerKm) || math.IsInf(minPerKm, 0) || minPerKm <= 0 {
		return "00:00"
	}
	minutes := int(minPerKm)
	seconds := int(math.Round((minPerKm - float64(minutes)) * 60))
	if seconds == 60 {
		minutes++
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// ParsePace parses a "MM:SS" pace back into minutes-per-km. Malformed input
// returns 0.
func ParsePace(pace string) float64 {
	parts := strings.SplitN(pace, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil || minutes < 0 {
		return 0
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil || seconds < 0 || seconds >= 60 {
		return 0
	}
	return float64(minutes) + float64(seconds)/60.0
}
