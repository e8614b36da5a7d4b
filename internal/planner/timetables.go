package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/starford/brainbrew/internal/apperr"
	"github.com/starford/brainbrew/internal/kv"
	"github.com/starford/brainbrew/internal/models"
	"github.com/starford/brainbrew/internal/schedule"
)

// ListTimetables returns stored timetables, newest first.
func (s *Service) ListTimetables(ctx context.Context) ([]models.StudyTimetable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tts, _, err := load[models.StudyTimetable](ctx, s.store, kv.KeyTimetables)
	return tts, err
}

// GetTimetable returns the timetable with id.
func (s *Service) GetTimetable(ctx context.Context, id string) (models.StudyTimetable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tts, _, err := load[models.StudyTimetable](ctx, s.store, kv.KeyTimetables)
	if err != nil {
		return models.StudyTimetable{}, err
	}
	i := indexOfTimetable(tts, id)
	if i < 0 {
		return models.StudyTimetable{}, apperr.ErrNotFound
	}
	return tts[i], nil
}

// CreateTimetable validates in, generates the week and stores the result in
// front of the existing timetables. Every subject must already exist in the
// subject collection.
func (s *Service) CreateTimetable(ctx context.Context, in schedule.TimetableInput) (models.StudyTimetable, error) {
	if err := in.Validate(); err != nil {
		return models.StudyTimetable{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	subjects, err := s.subjectsLocked(ctx)
	if err != nil {
		return models.StudyTimetable{}, err
	}
	for _, name := range in.Subjects {
		if findSubjectByName(subjects, name) < 0 {
			return models.StudyTimetable{}, apperr.Validation(fmt.Errorf("unknown subject %q", strings.TrimSpace(name)))
		}
	}

	tt, err := schedule.NewTimetable(in, s.now())
	if err != nil {
		return models.StudyTimetable{}, err
	}
	tts, _, err := load[models.StudyTimetable](ctx, s.store, kv.KeyTimetables)
	if err != nil {
		return models.StudyTimetable{}, err
	}
	tts = append([]models.StudyTimetable{tt}, tts...)
	if err := kv.Save(ctx, s.store, kv.KeyTimetables, tts); err != nil {
		return models.StudyTimetable{}, err
	}
	s.publish(ResourceTimetable, KindCreated, tt.ID)
	return tt, nil
}

// PreviewWeek generates a week without storing anything.
func (s *Service) PreviewWeek(in schedule.TimetableInput) (models.WeeklySchedule, error) {
	tt, err := schedule.NewTimetable(in, s.now())
	if err != nil {
		return nil, err
	}
	return tt.WeeklySchedule, nil
}

// DeleteTimetable removes the timetable with id.
func (s *Service) DeleteTimetable(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tts, _, err := load[models.StudyTimetable](ctx, s.store, kv.KeyTimetables)
	if err != nil {
		return err
	}
	i := indexOfTimetable(tts, id)
	if i < 0 {
		return apperr.ErrNotFound
	}
	tts = append(tts[:i], tts[i+1:]...)
	if err := storeList(ctx, s.store, kv.KeyTimetables, tts); err != nil {
		return err
	}
	s.publish(ResourceTimetable, KindDeleted, id)
	return nil
}

// DaySchedule returns one day of a timetable together with any overlaps that
// manual edits introduced.
func (s *Service) DaySchedule(ctx context.Context, id string, day models.Weekday) ([]models.TimeSlot, []schedule.Conflict, error) {
	if !day.Valid() {
		return nil, nil, apperr.Validation(fmt.Errorf("unknown weekday %q", day))
	}
	tt, err := s.GetTimetable(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	slots := tt.WeeklySchedule[day]
	if slots == nil {
		slots = []models.TimeSlot{}
	}
	return slots, schedule.Conflicts(slots), nil
}

// AddSlot appends a slot to day and returns the stored timetable and the new
// slot.
func (s *Service) AddSlot(ctx context.Context, id string, day models.Weekday, tmpl *schedule.SlotTemplate) (models.StudyTimetable, models.TimeSlot, error) {
	if err := checkSlotEdit(day, templateActivity(tmpl)); err != nil {
		return models.StudyTimetable{}, models.TimeSlot{}, err
	}
	var slot models.TimeSlot
	tt, err := s.mutate(ctx, id, func(tt models.StudyTimetable) (models.StudyTimetable, bool) {
		var out models.StudyTimetable
		out, slot = schedule.AddSlot(tt, day, tmpl)
		return out, true
	})
	return tt, slot, err
}

// UpdateSlot patches a slot. An unknown slot id leaves the timetable as is.
// A patch that sets the activity must name a known one.
func (s *Service) UpdateSlot(ctx context.Context, id string, day models.Weekday, slotID string, patch schedule.SlotPatch) (models.StudyTimetable, error) {
	if err := checkSlotEdit(day, ""); err != nil {
		return models.StudyTimetable{}, err
	}
	if patch.Activity != nil && !patch.Activity.Valid() {
		return models.StudyTimetable{}, apperr.Validation(fmt.Errorf("unknown activity %q", *patch.Activity))
	}
	return s.mutate(ctx, id, func(tt models.StudyTimetable) (models.StudyTimetable, bool) {
		return schedule.UpdateSlot(tt, day, slotID, patch)
	})
}

// DeleteSlot removes a slot. An unknown slot id leaves the timetable as is.
func (s *Service) DeleteSlot(ctx context.Context, id string, day models.Weekday, slotID string) (models.StudyTimetable, error) {
	if err := checkSlotEdit(day, ""); err != nil {
		return models.StudyTimetable{}, err
	}
	return s.mutate(ctx, id, func(tt models.StudyTimetable) (models.StudyTimetable, bool) {
		return schedule.DeleteSlot(tt, day, slotID)
	})
}

// mutate applies fn to the stored timetable. When fn reports no change the
// collection is neither saved nor announced.
func (s *Service) mutate(ctx context.Context, id string, fn func(models.StudyTimetable) (models.StudyTimetable, bool)) (models.StudyTimetable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tts, _, err := load[models.StudyTimetable](ctx, s.store, kv.KeyTimetables)
	if err != nil {
		return models.StudyTimetable{}, err
	}
	i := indexOfTimetable(tts, id)
	if i < 0 {
		return models.StudyTimetable{}, apperr.ErrNotFound
	}
	out, changed := fn(tts[i])
	if !changed {
		return out, nil
	}
	tts[i] = out
	if err := kv.Save(ctx, s.store, kv.KeyTimetables, tts); err != nil {
		return models.StudyTimetable{}, err
	}
	s.publish(ResourceTimetable, KindUpdated, id)
	return tts[i], nil
}

func checkSlotEdit(day models.Weekday, activity models.Activity) error {
	if !day.Valid() {
		return apperr.Validation(fmt.Errorf("unknown weekday %q", day))
	}
	if activity != "" && !activity.Valid() {
		return apperr.Validation(fmt.Errorf("unknown activity %q", activity))
	}
	return nil
}

func templateActivity(tmpl *schedule.SlotTemplate) models.Activity {
	if tmpl == nil {
		return ""
	}
	return tmpl.Activity
}

func indexOfTimetable(tts []models.StudyTimetable, id string) int {
	for i := range tts {
		if tts[i].ID == id {
			return i
		}
	}
	return -1
}
