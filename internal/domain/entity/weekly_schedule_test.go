package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	minutes, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9*60+30, minutes)

	minutes, err = ParseClock("00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, minutes)

	minutes, err = ParseClock("23:59")
	require.NoError(t, err)
	assert.Equal(t, 23*60+59, minutes)

	_, err = ParseClock("9:30am")
	assert.Error(t, err)

	_, err = ParseClock("25:00")
	assert.Error(t, err)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "09:30", FormatClock(9*60+30))
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "23:59", FormatClock(23*60+59))
}

func TestWeekdayKeyAndForDate(t *testing.T) {
	// 2026-09-14 is a Monday
	monday := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "monday", WeekdayKey(monday))
	assert.Equal(t, "sunday", WeekdayKey(monday.AddDate(0, 0, 6)))

	schedule := WeeklySchedule{
		"monday": {IsAvailable: true, StartTime: "09:00", EndTime: "17:00"},
	}

	day, ok := schedule.ForDate(monday)
	require.True(t, ok)
	assert.Equal(t, "09:00", day.StartTime)

	_, ok = schedule.ForDate(monday.AddDate(0, 0, 1))
	assert.False(t, ok)
}

func TestWeeklyScheduleValidate(t *testing.T) {
	valid := WeeklySchedule{
		"monday":  {IsAvailable: true, StartTime: "09:00", EndTime: "17:00"},
		"tuesday": {IsAvailable: false},
		"sunday":  {IsAvailable: true, StartTime: "10:00", EndTime: "14:00"},
	}
	assert.NoError(t, valid.Validate())

	unknownDay := WeeklySchedule{
		"moonday": {IsAvailable: true, StartTime: "09:00", EndTime: "17:00"},
	}
	assert.Error(t, unknownDay.Validate())

	badStart := WeeklySchedule{
		"monday": {IsAvailable: true, StartTime: "late", EndTime: "17:00"},
	}
	assert.Error(t, badStart.Validate())

	inverted := WeeklySchedule{
		"monday": {IsAvailable: true, StartTime: "17:00", EndTime: "09:00"},
	}
	assert.Error(t, inverted.Validate())

	// Unavailable days may omit times entirely
	closed := WeeklySchedule{
		"monday": {IsAvailable: false},
	}
	assert.NoError(t, closed.Validate())
}
