// Package schedule synthesizes daily study timetables from a routine and
// applies manual slot edits to stored timetables.
package schedule

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/starford/brainbrew/internal/models"
)

// Block lengths in minutes.
const (
	StudySessionMinutes = 50
	BreakMinutes        = 15
	MealMinutes         = 30
	ExerciseMinutes     = 60

	// lookaheadMinutes is how far ahead an anchor counts as "next".
	lookaheadMinutes = 60
)

// Labels emitted for generated non-study slots.
const (
	LabelBreakfast = "Breakfast"
	LabelLunch     = "Lunch"
	LabelDinner    = "Dinner"
	LabelExercise  = "Exercise"
	LabelBreak     = "Short Break"
	LabelFree      = "Free Time"
)

// newID is swapped out in tests that need predictable identifiers.
var newID = uuid.NewString

type fixedEvent struct {
	start    int
	duration int
	activity models.Activity
	label    string
}

func fixedEvents(r models.DailyRoutine) []fixedEvent {
	events := []fixedEvent{
		{start: r.BreakfastTime.Minutes(), duration: MealMinutes, activity: models.ActivityMeal, label: LabelBreakfast},
		{start: r.LunchTime.Minutes(), duration: MealMinutes, activity: models.ActivityMeal, label: LabelLunch},
		{start: r.DinnerTime.Minutes(), duration: MealMinutes, activity: models.ActivityMeal, label: LabelDinner},
	}
	if r.ExerciseTime != nil {
		events = append(events, fixedEvent{
			start: r.ExerciseTime.Minutes(), duration: ExerciseMinutes,
			activity: models.ActivityExercise, label: LabelExercise,
		})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].start < events[j].start })
	return events
}

// dayBuilder accumulates contiguous slots from a moving cursor.
type dayBuilder struct {
	slots    []models.TimeSlot
	cursor   int
	subjects []string
	next     int // round-robin position into subjects
}

func (b *dayBuilder) emit(end int, activity models.Activity, subject, label string) {
	b.slots = append(b.slots, models.TimeSlot{
		ID:        newID(),
		StartTime: models.ClockTime(b.cursor),
		EndTime:   models.ClockTime(end),
		Activity:  activity,
		Subject:   subject,
		Label:     label,
	})
	b.cursor = end
}

func (b *dayBuilder) study(minutes int) {
	subject := b.subjects[b.next%len(b.subjects)]
	b.next++
	b.emit(b.cursor+minutes, models.ActivityStudy, subject, "")
}

// GenerateDaySlots greedily packs one day between wake-up and sleep time.
//
// Fixed anchors (meals, exercise) keep their start times; study sessions go
// into the gaps with subjects assigned round-robin from index 0, each followed
// by a short break when one fits. Whatever cannot hold a session becomes free
// time, so for a well-formed routine the result tiles [wake, sleep) exactly.
// Anchors outside that window are dropped, and study hours that do not fit are
// dropped too. A routine with sleep <= wake yields no slots.
func GenerateDaySlots(routine models.DailyRoutine, subjects []string) []models.TimeSlot {
	sleep := routine.SleepTime.Minutes()
	events := fixedEvents(routine)
	remaining := int(math.Round(routine.StudyHoursPerDay * 60))

	b := &dayBuilder{
		slots:    []models.TimeSlot{},
		cursor:   routine.WakeUpTime.Minutes(),
		subjects: subjects,
	}
	pending := 0

	for b.cursor < sleep {
		// Anchors behind the cursor were either before wake-up or swallowed by
		// an earlier anchor; they never fire.
		for pending < len(events) && events[pending].start < b.cursor {
			pending++
		}
		nextStart := sleep
		if pending < len(events) && events[pending].start < sleep {
			nextStart = events[pending].start
		}
		session := min(StudySessionMinutes, remaining)
		canStudy := remaining > 0 && len(subjects) > 0

		switch {
		case nextStart < sleep && nextStart < b.cursor+lookaheadMinutes:
			ev := events[pending]
			gap := ev.start - b.cursor
			if canStudy && gap >= session {
				b.study(session)
				remaining -= session
				if b.cursor+BreakMinutes <= ev.start {
					b.emit(b.cursor+BreakMinutes, models.ActivityBreak, "", LabelBreak)
				}
			}
			if b.cursor < ev.start {
				b.emit(ev.start, models.ActivityFree, "", LabelFree)
			}
			b.emit(min(ev.start+ev.duration, sleep), ev.activity, "", ev.label)
			pending++

		case canStudy && b.cursor+session <= sleep:
			b.study(session)
			remaining -= session
			if remaining > 0 && b.cursor+BreakMinutes <= nextStart {
				b.emit(b.cursor+BreakMinutes, models.ActivityBreak, "", LabelBreak)
			}

		default:
			if nextStart <= b.cursor {
				return b.slots
			}
			b.emit(nextStart, models.ActivityFree, "", LabelFree)
		}
	}
	return b.slots
}
