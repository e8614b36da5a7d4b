package schedule

import "github.com/starford/brainbrew/internal/models"

// SlotTemplate describes a slot to append. Zero fields fall back to the
// default study block.
type SlotTemplate struct {
	StartTime *models.ClockTime `json:"start_time,omitempty"`
	EndTime   *models.ClockTime `json:"end_time,omitempty"`
	Activity  models.Activity   `json:"activity,omitempty"`
	Subject   string            `json:"subject,omitempty"`
	Label     string            `json:"label,omitempty"`
}

// SlotPatch carries the fields to overwrite; nil fields are left alone.
type SlotPatch struct {
	StartTime *models.ClockTime `json:"start_time,omitempty"`
	EndTime   *models.ClockTime `json:"end_time,omitempty"`
	Activity  *models.Activity  `json:"activity,omitempty"`
	Subject   *string           `json:"subject,omitempty"`
	Label     *string           `json:"label,omitempty"`
}

var (
	defaultSlotStart = models.MustClock("09:00")
	defaultSlotEnd   = models.MustClock("09:50")
)

// DefaultSlot returns the block used when a template is missing: a 50 minute
// study session at 09:00 on the timetable's first subject.
func DefaultSlot(tt models.StudyTimetable) models.TimeSlot {
	subject := "Study"
	if len(tt.Subjects) > 0 {
		subject = tt.Subjects[0]
	}
	return models.TimeSlot{
		StartTime: defaultSlotStart,
		EndTime:   defaultSlotEnd,
		Activity:  models.ActivityStudy,
		Subject:   subject,
	}
}

// AddSlot appends a new slot with a fresh id to the end of day. The day is
// neither re-sorted nor checked for overlaps; manual edits are trusted.
// The returned timetable shares nothing with tt.
func AddSlot(tt models.StudyTimetable, day models.Weekday, tmpl *SlotTemplate) (models.StudyTimetable, models.TimeSlot) {
	slot := DefaultSlot(tt)
	if tmpl != nil {
		if tmpl.StartTime != nil {
			slot.StartTime = *tmpl.StartTime
		}
		if tmpl.EndTime != nil {
			slot.EndTime = *tmpl.EndTime
		}
		if tmpl.Activity != "" {
			slot.Activity = tmpl.Activity
			if tmpl.Activity != models.ActivityStudy {
				slot.Subject = ""
			}
		}
		if tmpl.Subject != "" {
			slot.Subject = tmpl.Subject
		}
		slot.Label = tmpl.Label
	}
	slot.ID = newID()

	out := tt.Clone()
	if out.WeeklySchedule == nil {
		out.WeeklySchedule = models.WeeklySchedule{}
	}
	out.WeeklySchedule[day] = append(out.WeeklySchedule[day], slot)
	return out, slot
}

// UpdateSlot merges patch into the slot with id slotID on day, keeping its id
// and position. It reports whether the slot was found; a missing slot leaves
// the timetable unchanged.
func UpdateSlot(tt models.StudyTimetable, day models.Weekday, slotID string, patch SlotPatch) (models.StudyTimetable, bool) {
	out := tt.Clone()
	slots := out.WeeklySchedule[day]
	for i := range slots {
		if slots[i].ID != slotID {
			continue
		}
		s := &slots[i]
		if patch.StartTime != nil {
			s.StartTime = *patch.StartTime
		}
		if patch.EndTime != nil {
			s.EndTime = *patch.EndTime
		}
		if patch.Activity != nil {
			s.Activity = *patch.Activity
		}
		if patch.Subject != nil {
			s.Subject = *patch.Subject
		}
		if patch.Label != nil {
			s.Label = *patch.Label
		}
		return out, true
	}
	return out, false
}

// DeleteSlot removes the slot with id slotID from day and reports whether it
// was there. A missing slot leaves the timetable unchanged.
func DeleteSlot(tt models.StudyTimetable, day models.Weekday, slotID string) (models.StudyTimetable, bool) {
	out := tt.Clone()
	slots, ok := out.WeeklySchedule[day]
	if !ok {
		return out, false
	}
	kept := slots[:0]
	for _, s := range slots {
		if s.ID != slotID {
			kept = append(kept, s)
		}
	}
	out.WeeklySchedule[day] = kept
	return out, len(kept) < len(slots)
}

// FindSlot returns the slot with id slotID on day.
func FindSlot(tt models.StudyTimetable, day models.Weekday, slotID string) (models.TimeSlot, bool) {
	for _, s := range tt.WeeklySchedule[day] {
		if s.ID == slotID {
			return s, true
		}
	}
	return models.TimeSlot{}, false
}
