// Package export renders timetables as iCalendar feeds and spreadsheets.
package export

import (
	"strings"

	"github.com/starford/brainbrew/internal/models"
)

// scheduledDays returns the days that carry a schedule or are marked active,
// in calendar order.
func scheduledDays(tt models.StudyTimetable) []models.Weekday {
	active := make(map[models.Weekday]bool, len(tt.ActiveDays))
	for _, d := range tt.ActiveDays {
		active[d] = true
	}
	var out []models.Weekday
	for _, d := range models.Weekdays {
		if _, ok := tt.WeeklySchedule[d]; ok || active[d] {
			out = append(out, d)
		}
	}
	return out
}

func dayTitle(d models.Weekday) string { return capitalize(string(d)) }

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func slotTitle(s models.TimeSlot) string {
	switch {
	case s.Activity == models.ActivityStudy && s.Subject != "":
		return "Study: " + s.Subject
	case s.Label != "":
		return s.Label
	default:
		return capitalize(string(s.Activity))
	}
}
