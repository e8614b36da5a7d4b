package models

import "time"

// Activity classifies what a TimeSlot is used for.
type Activity string

const (
	ActivityStudy    Activity = "study"
	ActivityBreak    Activity = "break"
	ActivityMeal     Activity = "meal"
	ActivityExercise Activity = "exercise"
	ActivityFree     Activity = "free"
	ActivitySleep    Activity = "sleep" // manual only
)

// Activities lists every accepted activity value.
var Activities = []Activity{
	ActivityStudy, ActivityBreak, ActivityMeal, ActivityExercise, ActivityFree, ActivitySleep,
}

// Valid reports whether a is one of Activities.
func (a Activity) Valid() bool {
	for _, v := range Activities {
		if a == v {
			return true
		}
	}
	return false
}

// Weekday is one of the seven fixed lowercase weekday tags.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays lists the tags in calendar order starting on Monday.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Valid reports whether d is a known weekday tag.
func (d Weekday) Valid() bool {
	return d.Index() >= 0
}

// Index returns the Monday-based position of d, or -1 when unknown.
func (d Weekday) Index() int {
	for i, v := range Weekdays {
		if d == v {
			return i
		}
	}
	return -1
}

// StudyPeriod is the user's preferred time of day for studying.
type StudyPeriod string

const (
	StudyMorning   StudyPeriod = "morning"
	StudyAfternoon StudyPeriod = "afternoon"
	StudyEvening   StudyPeriod = "evening"
	StudyNight     StudyPeriod = "night"
)

// TimeSlot is one contiguous block within a day.
type TimeSlot struct {
	ID        string    `json:"id" yaml:"id"`
	StartTime ClockTime `json:"start_time" yaml:"start_time"`
	EndTime   ClockTime `json:"end_time" yaml:"end_time"`
	Activity  Activity  `json:"activity" yaml:"activity"`
	Subject   string    `json:"subject,omitempty" yaml:"subject,omitempty"`
	Label     string    `json:"label,omitempty" yaml:"label,omitempty"`
}

// Duration returns the slot length in minutes.
func (s TimeSlot) Duration() int {
	return s.EndTime.Minutes() - s.StartTime.Minutes()
}

// DailyRoutine is the input to day generation.
//
// PreferredStudyTime is recorded for display only; generation packs study
// sessions from wake-up time regardless of it.
type DailyRoutine struct {
	WakeUpTime         ClockTime   `json:"wake_up_time" yaml:"wake_up_time"`
	SleepTime          ClockTime   `json:"sleep_time" yaml:"sleep_time"`
	BreakfastTime      ClockTime   `json:"breakfast_time" yaml:"breakfast_time"`
	LunchTime          ClockTime   `json:"lunch_time" yaml:"lunch_time"`
	DinnerTime         ClockTime   `json:"dinner_time" yaml:"dinner_time"`
	ExerciseTime       *ClockTime  `json:"exercise_time,omitempty" yaml:"exercise_time,omitempty"`
	StudyHoursPerDay   float64     `json:"study_hours_per_day" yaml:"study_hours_per_day"`
	PreferredStudyTime StudyPeriod `json:"preferred_study_time,omitempty" yaml:"preferred_study_time,omitempty"`
}

// DefaultRoutine returns the routine new timetables start from.
func DefaultRoutine() DailyRoutine {
	exercise := MustClock("17:00")
	return DailyRoutine{
		WakeUpTime:         MustClock("06:00"),
		SleepTime:          MustClock("22:00"),
		BreakfastTime:      MustClock("07:00"),
		LunchTime:          MustClock("12:30"),
		DinnerTime:         MustClock("19:00"),
		ExerciseTime:       &exercise,
		StudyHoursPerDay:   6,
		PreferredStudyTime: StudyMorning,
	}
}

// WeeklySchedule maps each active weekday to its ordered slots.
type WeeklySchedule map[Weekday][]TimeSlot

// Clone returns a deep copy so callers can edit days independently.
func (w WeeklySchedule) Clone() WeeklySchedule {
	if w == nil {
		return nil
	}
	out := make(WeeklySchedule, len(w))
	for day, slots := range w {
		cp := make([]TimeSlot, len(slots))
		copy(cp, slots)
		out[day] = cp
	}
	return out
}

// StudyTimetable is the persisted aggregate produced by the weekly scheduler.
type StudyTimetable struct {
	ID             string         `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name"`
	Routine        DailyRoutine   `json:"routine" yaml:"routine"`
	Subjects       []string       `json:"subjects" yaml:"subjects"`
	WeeklySchedule WeeklySchedule `json:"weekly_schedule" yaml:"weekly_schedule"`
	ActiveDays     []Weekday      `json:"active_days" yaml:"active_days"`
	CreatedAt      time.Time      `json:"created_at" yaml:"created_at"`
}

// Clone returns a copy that shares no slices or maps with t.
func (t StudyTimetable) Clone() StudyTimetable {
	out := t
	out.Subjects = append([]string(nil), t.Subjects...)
	out.ActiveDays = append([]Weekday(nil), t.ActiveDays...)
	out.WeeklySchedule = t.WeeklySchedule.Clone()
	if t.Routine.ExerciseTime != nil {
		ex := *t.Routine.ExerciseTime
		out.Routine.ExerciseTime = &ex
	}
	return out
}
