package internal

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/starford/brainbrew/internal/models"
	"github.com/starford/brainbrew/internal/schedule"
)

// RoutineFile is the YAML document read by the generate command.
type RoutineFile struct {
	Name     string              `yaml:"name"`
	Routine  models.DailyRoutine `yaml:"routine"`
	Subjects []string            `yaml:"subjects"`
	Days     []models.Weekday    `yaml:"days"`
}

type generatedDay struct {
	Day          models.Weekday    `yaml:"day"`
	StudyMinutes int               `yaml:"study_minutes"`
	Slots        []models.TimeSlot `yaml:"slots"`
}

type generatedWeek struct {
	Name string         `yaml:"name"`
	Days []generatedDay `yaml:"days"`
}

// GenerateWeek reads a RoutineFile from r and writes the generated week to w
// as YAML, days in calendar order. Nothing is persisted.
func GenerateWeek(r io.Reader, w io.Writer) error {
	var in RoutineFile
	if err := yaml.NewDecoder(r).Decode(&in); err != nil {
		return fmt.Errorf("parse routine: %w", err)
	}
	if in.Name == "" {
		in.Name = "Generated"
	}

	tt, err := schedule.NewTimetable(schedule.TimetableInput{
		Name:       in.Name,
		Routine:    in.Routine,
		Subjects:   in.Subjects,
		ActiveDays: in.Days,
	}, time.Now())
	if err != nil {
		return err
	}

	out := generatedWeek{Name: tt.Name}
	for _, day := range models.Weekdays {
		slots, ok := tt.WeeklySchedule[day]
		if !ok {
			continue
		}
		out.Days = append(out.Days, generatedDay{
			Day:          day,
			StudyMinutes: schedule.StudyMinutes(slots),
			Slots:        slots,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}
