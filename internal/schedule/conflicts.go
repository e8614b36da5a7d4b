package schedule

import "github.com/starford/brainbrew/internal/models"

// Conflict flags two neighbouring slots that break the generated-day
// ordering: the later one starts before the earlier one ends.
type Conflict struct {
	First  string `json:"first"`
	Second string `json:"second"`
	// Overlap is the number of shared minutes; zero for a slot that merely
	// starts earlier than its predecessor without sharing time.
	Overlap int `json:"overlap_minutes"`
}

// Conflicts reports adjacent pairs where slot[i].end > slot[i+1].start.
// Generated days never produce any; manual edits may. Edits are not
// rejected for this, the result is informational.
func Conflicts(slots []models.TimeSlot) []Conflict {
	out := []Conflict{}
	for i := 0; i+1 < len(slots); i++ {
		a, b := slots[i], slots[i+1]
		if a.EndTime <= b.StartTime {
			continue
		}
		overlap := min(a.EndTime, b.EndTime) - max(a.StartTime, b.StartTime)
		out = append(out, Conflict{First: a.ID, Second: b.ID, Overlap: max(int(overlap), 0)})
	}
	return out
}

// StudyMinutes totals the length of study slots.
func StudyMinutes(slots []models.TimeSlot) int {
	total := 0
	for _, s := range slots {
		if s.Activity == models.ActivityStudy {
			total += s.Duration()
		}
	}
	return total
}
