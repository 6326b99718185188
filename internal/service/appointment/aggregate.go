package appointment

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jwalitptl/dental-console/internal/model"
)

var clockPattern = regexp.MustCompile(`(\d+):(\d+)`)

// ClockMinutes turns a 12-hour wall clock ("2:00 PM") into minutes after midnight. PM is
// detected anywhere in the string regardless of case; unmarked times are treated as AM.
// Unparsable input sorts as midnight.
func ClockMinutes(s string) int {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	minute, err := strconv.Atoi(m[2])
	if err != nil {
		return 0
	}

	pm := strings.Contains(strings.ToUpper(s), "PM")
	switch {
	case pm && hour != 12:
		hour += 12
	case !pm && hour == 12:
		hour = 0
	}
	return hour*60 + minute
}

// SortByTime orders appointments by wall clock, keeping ties in their original order.
func SortByTime(apts []model.Appointment) {
	sort.SliceStable(apts, func(i, j int) bool {
		return ClockMinutes(apts[i].AppointmentTime) < ClockMinutes(apts[j].AppointmentTime)
	})
}

// DaySummary is the aggregation of one calendar day.
type DaySummary struct {
	All            []model.Appointment
	Total          int
	Remaining      []model.Appointment
	RemainingCount int
	Completed      int
	Percentage     int
}

// Aggregate filters all to date and derives the day's counters. Total always equals
// RemainingCount + Completed.
func Aggregate(all []model.Appointment, date string) DaySummary {
	sum := DaySummary{
		All:       []model.Appointment{},
		Remaining: []model.Appointment{},
	}
	for _, a := range all {
		if a.AppointmentDate != date {
			continue
		}
		sum.All = append(sum.All, a)
		if !a.IsCompleted() {
			sum.Remaining = append(sum.Remaining, a)
		}
	}
	SortByTime(sum.Remaining)

	sum.Total = len(sum.All)
	sum.RemainingCount = len(sum.Remaining)
	sum.Completed = sum.Total - sum.RemainingCount
	if sum.Completed < 0 {
		sum.Completed = 0
	}
	sum.Percentage = Percent(sum.Completed, sum.Total)
	return sum
}

// Percent is round-half-up(100*part/whole), or 0 for an empty whole.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return (200*part + whole) / (2 * whole)
}
