package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DaySchedule is a doctor's working window for one day of the week.
// Times are 24-hour "HH:MM" strings; StartTime must precede EndTime
// whenever IsAvailable is true.
type DaySchedule struct {
	IsAvailable bool   `json:"is_available"`
	StartTime   string `json:"start_time,omitempty"`
	EndTime     string `json:"end_time,omitempty"`
}

// WeeklySchedule maps a lowercase weekday name ("monday".."sunday") to the
// doctor's working window for that day. Days without an entry are treated as
// unavailable. Stored as a JSONB column on the doctor profile.
type WeeklySchedule map[string]DaySchedule

// Value implements driver.Valuer for JSONB storage
func (s WeeklySchedule) Value() (driver.Value, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB storage
func (s *WeeklySchedule) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]DaySchedule{}
	err := json.Unmarshal(bytes, &result)
	*s = WeeklySchedule(result)
	return err
}

// WeekdayKey returns the schedule key for a calendar date, e.g. "monday".
func WeekdayKey(date time.Time) string {
	return strings.ToLower(date.Weekday().String())
}

// ForDate returns the working window for the given date's day of week.
// The second return is false when no entry exists for that day.
func (s WeeklySchedule) ForDate(date time.Time) (DaySchedule, bool) {
	day, ok := s[WeekdayKey(date)]
	return day, ok
}

// ParseClock parses an "HH:MM" 24-hour time string into minutes since midnight.
func ParseClock(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as an "HH:MM" string.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

var validWeekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// Validate checks every configured day: weekday keys must be recognized and
// available days must carry a well-formed window with start before end.
func (s WeeklySchedule) Validate() error {
	for day, window := range s {
		if !validWeekdays[day] {
			return fmt.Errorf("unknown weekday %q", day)
		}
		if !window.IsAvailable {
			continue
		}
		start, err := ParseClock(window.StartTime)
		if err != nil {
			return fmt.Errorf("%s: invalid start time %q", day, window.StartTime)
		}
		end, err := ParseClock(window.EndTime)
		if err != nil {
			return fmt.Errorf("%s: invalid end time %q", day, window.EndTime)
		}
		if start >= end {
			return fmt.Errorf("%s: start time %s must be before end time %s", day, window.StartTime, window.EndTime)
		}
	}
	return nil
}
