package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MinutesPerDay is the length of a day on the naive local clock.
const MinutesPerDay = 24 * 60

// ClockTime is a naive local clock value stored as minutes since midnight.
// It crosses every boundary (JSON, YAML, query strings) as zero-padded "HH:MM".
type ClockTime int

// ParseClock parses a 24-hour "HH:MM" string. Single-digit hours are accepted
// on input; output is always zero-padded.
func ParseClock(s string) (ClockTime, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(m) != 2 || len(h) == 0 || len(h) > 2 || !allDigits(h) || !allDigits(m) {
		return 0, fmt.Errorf("clock: invalid time %q, want HH:MM", s)
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("clock: invalid hour in %q", s)
	}
	mins, err := strconv.Atoi(m)
	if err != nil || mins < 0 || mins > 59 {
		return 0, fmt.Errorf("clock: invalid minute in %q", s)
	}
	return ClockTime(hours*60 + mins), nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MustClock is ParseClock for literals known to be valid.
func MustClock(s string) ClockTime {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Minutes returns the value as minutes since midnight.
func (c ClockTime) Minutes() int { return int(c) }

// Add returns c shifted by d minutes without wrapping.
func (c ClockTime) Add(d int) ClockTime { return c + ClockTime(d) }

// String formats the value as "HH:MM"; values past midnight wrap.
func (c ClockTime) String() string {
	m := int(c) % MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("clock: expected string: %w", err)
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c ClockTime) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

func (c *ClockTime) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
