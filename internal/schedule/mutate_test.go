package schedule

import (
	"testing"
	"time"

	"github.com/starford/brainbrew/internal/models"
)

func newTestTimetable(t *testing.T) models.StudyTimetable {
	t.Helper()
	tt, err := NewTimetable(validInput(), time.Now())
	if err != nil {
		t.Fatalf("NewTimetable: %v", err)
	}
	return tt
}

func TestAddSlot_Default(t *testing.T) {
	tt := newTestTimetable(t)
	before := len(tt.WeeklySchedule[models.Monday])

	out, slot := AddSlot(tt, models.Monday, nil)

	day := out.WeeklySchedule[models.Monday]
	if len(day) != before+1 {
		t.Fatalf("len = %d, want %d", len(day), before+1)
	}
	if day[len(day)-1].ID != slot.ID {
		t.Error("new slot not appended at the end")
	}
	if got := describe(slot); got != "09:00-09:50 study Math" {
		t.Errorf("slot = %q", got)
	}
	if len(tt.WeeklySchedule[models.Monday]) != before {
		t.Error("input timetable was modified")
	}
}

func TestAddSlot_DefaultWithoutSubjects(t *testing.T) {
	slot := DefaultSlot(models.StudyTimetable{})
	if slot.Subject != "Study" {
		t.Errorf("subject = %q, want Study", slot.Subject)
	}
}

func TestAddSlot_TemplateAndInactiveDay(t *testing.T) {
	tt := newTestTimetable(t)
	start, end := clock("20:00"), clock("20:30")

	out, slot := AddSlot(tt, models.Saturday, &SlotTemplate{
		StartTime: &start, EndTime: &end, Activity: models.ActivityFree, Label: "Reading",
	})

	if got := describe(slot); got != "20:00-20:30 free Reading" {
		t.Errorf("slot = %q", got)
	}
	if len(out.WeeklySchedule[models.Saturday]) != 1 {
		t.Errorf("saturday slots = %d, want 1", len(out.WeeklySchedule[models.Saturday]))
	}
	if _, ok := tt.WeeklySchedule[models.Saturday]; ok {
		t.Error("input timetable gained a day")
	}
}

func TestAddSlot_OverlapIsAcceptedAndReported(t *testing.T) {
	tt := newTestTimetable(t)
	// 09:00-09:50 lands on top of the generated morning sessions.
	out, slot := AddSlot(tt, models.Monday, nil)

	found := false
	for _, c := range Conflicts(out.WeeklySchedule[models.Monday]) {
		if c.Second == slot.ID {
			found = true
			if c.Overlap != 0 {
				t.Errorf("out-of-order slot overlap = %d, want 0", c.Overlap)
			}
		}
	}
	if !found {
		t.Error("appended out-of-order slot was not reported")
	}
	if len(Conflicts(tt.WeeklySchedule[models.Monday])) != 0 {
		t.Error("generated day reports conflicts")
	}
}

func TestAddSlot_NeverReusesIDs(t *testing.T) {
	tt := newTestTimetable(t)
	out, first := AddSlot(tt, models.Monday, nil)
	out, _ = DeleteSlot(out, models.Monday, first.ID)
	_, second := AddSlot(out, models.Monday, nil)
	if first.ID == second.ID {
		t.Errorf("id %q reused after delete", first.ID)
	}
}

func TestUpdateSlot_PreservesIdentityAndPosition(t *testing.T) {
	tt := newTestTimetable(t)
	target := tt.WeeklySchedule[models.Monday][3]
	subject := "Chemistry"
	end := target.EndTime.Add(-10)

	out, ok := UpdateSlot(tt, models.Monday, target.ID, SlotPatch{Subject: &subject, EndTime: &end})
	if !ok {
		t.Fatal("UpdateSlot reported a miss")
	}

	got := out.WeeklySchedule[models.Monday][3]
	if got.ID != target.ID {
		t.Errorf("id changed: %q -> %q", target.ID, got.ID)
	}
	if got.Subject != "Chemistry" || got.EndTime != end {
		t.Errorf("patch not applied: %q", describe(got))
	}
	if got.StartTime != target.StartTime || got.Activity != target.Activity {
		t.Errorf("untouched fields changed: %q", describe(got))
	}
	if tt.WeeklySchedule[models.Monday][3].Subject == "Chemistry" {
		t.Error("input timetable was modified")
	}
}

func TestUpdateSlot_EndBeforeStartIsAccepted(t *testing.T) {
	tt := newTestTimetable(t)
	target := tt.WeeklySchedule[models.Monday][0]
	end := clock("05:00")
	out, _ := UpdateSlot(tt, models.Monday, target.ID, SlotPatch{EndTime: &end})
	got, ok := FindSlot(out, models.Monday, target.ID)
	if !ok || got.EndTime != end {
		t.Errorf("slot = %+v, ok = %v", got, ok)
	}
}

func TestUpdateSlot_MissingIsNoop(t *testing.T) {
	tt := newTestTimetable(t)
	label := "x"
	out, ok := UpdateSlot(tt, models.Monday, "missing", SlotPatch{Label: &label})
	if ok {
		t.Error("UpdateSlot reported a match for a missing id")
	}
	a, b := tt.WeeklySchedule[models.Monday], out.WeeklySchedule[models.Monday]
	if len(a) != len(b) {
		t.Fatal("length changed")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("slot %d changed", i)
		}
	}
}

func TestDeleteSlot(t *testing.T) {
	tt := newTestTimetable(t)
	day := tt.WeeklySchedule[models.Wednesday]
	victim := day[1]

	out, ok := DeleteSlot(tt, models.Wednesday, victim.ID)
	if !ok {
		t.Fatal("DeleteSlot reported a miss")
	}

	if len(out.WeeklySchedule[models.Wednesday]) != len(day)-1 {
		t.Fatalf("len = %d", len(out.WeeklySchedule[models.Wednesday]))
	}
	if _, ok := FindSlot(out, models.Wednesday, victim.ID); ok {
		t.Error("slot still present")
	}
	if _, ok := FindSlot(tt, models.Wednesday, victim.ID); !ok {
		t.Error("input timetable was modified")
	}
	if len(out.WeeklySchedule[models.Monday]) != len(tt.WeeklySchedule[models.Monday]) {
		t.Error("other day changed")
	}

	same, ok := DeleteSlot(out, models.Friday, victim.ID)
	if ok {
		t.Error("DeleteSlot reported a match on a missing day")
	}
	if _, ok := same.WeeklySchedule[models.Friday]; ok {
		t.Error("delete on a missing day created it")
	}
	if _, ok := DeleteSlot(out, models.Wednesday, "missing"); ok {
		t.Error("DeleteSlot reported a match for a missing id")
	}
}
