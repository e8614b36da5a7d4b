package models

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseClock_RoundTripsEveryMinute(t *testing.T) {
	for m := 0; m < MinutesPerDay; m++ {
		c := ClockTime(m)
		got, err := ParseClock(c.String())
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", c.String(), err)
		}
		if got != c {
			t.Fatalf("round trip %q = %d, want %d", c.String(), got, m)
		}
	}
}

func TestParseClock_Invalid(t *testing.T) {
	for _, in := range []string{"", "7", "24:00", "12:60", "12:5", "ab:cd", "12-30", "123:00", "+7:30", "-1:00", "07:+5", " 7:30x"} {
		if _, err := ParseClock(in); err == nil {
			t.Errorf("ParseClock(%q) should fail", in)
		}
	}
}

func TestParseClock_SingleDigitHour(t *testing.T) {
	c, err := ParseClock("7:05")
	if err != nil {
		t.Fatalf("ParseClock: %v", err)
	}
	if c.String() != "07:05" {
		t.Errorf("String() = %q, want 07:05", c.String())
	}
}

func TestClockTime_StringWrapsPastMidnight(t *testing.T) {
	if got := ClockTime(23*60 + 50).Add(20).String(); got != "00:10" {
		t.Errorf("String() = %q, want 00:10", got)
	}
}

func TestClockTime_JSON(t *testing.T) {
	slot := TimeSlot{ID: "x", StartTime: MustClock("09:00"), EndTime: MustClock("09:50"), Activity: ActivityStudy}
	data, err := json.Marshal(slot)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	_ = json.Unmarshal(data, &raw)
	if raw["start_time"] != "09:00" || raw["end_time"] != "09:50" {
		t.Errorf("wire format = %s", data)
	}

	var back TimeSlot
	if err := json.Unmarshal([]byte(`{"start_time":"25:00"}`), &back); err == nil {
		t.Error("invalid clock should fail to decode")
	}
}

func TestClockTime_YAML(t *testing.T) {
	var r DailyRoutine
	src := "wake_up_time: \"06:30\"\nsleep_time: \"23:00\"\nexercise_time: \"18:15\"\n"
	if err := yaml.Unmarshal([]byte(src), &r); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if r.WakeUpTime.String() != "06:30" || r.SleepTime.String() != "23:00" {
		t.Errorf("routine = %+v", r)
	}
	if r.ExerciseTime == nil || r.ExerciseTime.String() != "18:15" {
		t.Errorf("exercise = %v", r.ExerciseTime)
	}

	out, err := yaml.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	var again DailyRoutine
	if err := yaml.Unmarshal(out, &again); err != nil {
		t.Fatalf("re-decode: %v\n%s", err, out)
	}
	if again.WakeUpTime != r.WakeUpTime {
		t.Errorf("wake = %v, want %v", again.WakeUpTime, r.WakeUpTime)
	}
}

func TestStudyTimetable_CloneIsDeep(t *testing.T) {
	tt := StudyTimetable{
		Subjects:       []string{"Math"},
		ActiveDays:     []Weekday{Monday},
		WeeklySchedule: WeeklySchedule{Monday: {{ID: "a", Label: "orig"}}},
		Routine:        DefaultRoutine(),
	}
	cp := tt.Clone()
	cp.WeeklySchedule[Monday][0].Label = "changed"
	cp.Subjects[0] = "Physics"
	*cp.Routine.ExerciseTime = 0

	if tt.WeeklySchedule[Monday][0].Label != "orig" {
		t.Error("clone shares slot storage")
	}
	if tt.Subjects[0] != "Math" {
		t.Error("clone shares subjects")
	}
	if tt.Routine.ExerciseTime.String() != "17:00" {
		t.Error("clone shares exercise time")
	}
}
