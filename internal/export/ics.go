package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/starford/brainbrew/internal/models"
)

const floatingLayout = "20060102T150405"

var byDay = map[models.Weekday]string{
	models.Monday:    "MO",
	models.Tuesday:   "TU",
	models.Wednesday: "WE",
	models.Thursday:  "TH",
	models.Friday:    "FR",
	models.Saturday:  "SA",
	models.Sunday:    "SU",
}

// WeekStart returns midnight of the Monday of the week containing t.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, time.UTC)
}

// ICS renders every slot as a weekly recurring event in floating local time,
// first occurring in the week that contains weekOf. Slots that end before
// they start are skipped.
func ICS(tt models.StudyTimetable, weekOf, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//BrainBrew//Study Timetable//EN")
	cal.SetXWRCalName(tt.Name)

	monday := WeekStart(weekOf)
	for _, day := range scheduledDays(tt) {
		date := monday.AddDate(0, 0, day.Index())
		for _, s := range tt.WeeklySchedule[day] {
			if s.EndTime <= s.StartTime {
				continue
			}
			start := date.Add(time.Duration(s.StartTime.Minutes()) * time.Minute)
			end := date.Add(time.Duration(s.EndTime.Minutes()) * time.Minute)

			ev := cal.AddEvent(fmt.Sprintf("%s@brainbrew", s.ID))
			ev.SetDtStampTime(stamp)
			ev.SetSummary(slotTitle(s))
			ev.SetProperty(ics.ComponentPropertyDtStart, start.Format(floatingLayout))
			ev.SetProperty(ics.ComponentPropertyDtEnd, end.Format(floatingLayout))
			ev.SetProperty(ics.ComponentPropertyCategories, string(s.Activity))
			ev.AddRrule("FREQ=WEEKLY;BYDAY=" + byDay[day])
		}
	}
	return cal.Serialize()
}
