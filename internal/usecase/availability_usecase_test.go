package usecase

import (
	"testing"
	"time"

	"github.com/Awantha2003/Nature-Pulse-sub001/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

var workday = entity.DaySchedule{IsAvailable: true, StartTime: "09:00", EndTime: "12:00"}

func TestBuildAvailableSlots(t *testing.T) {
	// 2026-09-14 is a Monday; "now" is well before that day
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	slots := buildAvailableSlots(workday, 30, nil, date, now)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, slots)
}

func TestBuildAvailableSlotsExcludesBooked(t *testing.T) {
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	slots := buildAvailableSlots(workday, 30, []string{"09:30", "11:00"}, date, now)
	assert.Equal(t, []string{"09:00", "10:00", "10:30", "11:30"}, slots)
}

func TestBuildAvailableSlotsSameDayPastTimes(t *testing.T) {
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	// At 10:15 the 09:00-10:00 slots are gone; a slot starting exactly now is
	// also excluded
	now := time.Date(2026, 9, 14, 10, 15, 0, 0, time.UTC)
	slots := buildAvailableSlots(workday, 30, nil, date, now)
	assert.Equal(t, []string{"10:30", "11:00", "11:30"}, slots)

	now = time.Date(2026, 9, 14, 10, 30, 0, 0, time.UTC)
	slots = buildAvailableSlots(workday, 30, nil, date, now)
	assert.Equal(t, []string{"11:00", "11:30"}, slots)
}

func TestBuildAvailableSlotsPartialTrailingWindow(t *testing.T) {
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	// 09:00-10:45 with 30-minute slots: 10:30 does not fit before the end
	day := entity.DaySchedule{IsAvailable: true, StartTime: "09:00", EndTime: "10:45"}
	slots := buildAvailableSlots(day, 30, nil, date, now)
	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, slots)
}

func TestBuildAvailableSlotsEmptyOnBadWindow(t *testing.T) {
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	day := entity.DaySchedule{IsAvailable: true, StartTime: "bad", EndTime: "12:00"}
	assert.Empty(t, buildAvailableSlots(day, 30, nil, date, now))
}

func TestValidateBookingDate(t *testing.T) {
	now := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)

	// Today and dates inside the horizon are fine
	assert.NoError(t, validateBookingDate(time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC), now, 30))
	assert.NoError(t, validateBookingDate(time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), now, 30))

	// Yesterday is rejected
	assert.ErrorIs(t, validateBookingDate(time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC), now, 30), ErrInvalidDate)

	// One day past the horizon is rejected
	assert.ErrorIs(t, validateBookingDate(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), now, 30), ErrInvalidDate)
}

func TestSlotWithinWindow(t *testing.T) {
	assert.True(t, slotWithinWindow(workday, "09:00", 30))
	assert.True(t, slotWithinWindow(workday, "11:30", 30))

	// Slot would run past the end of the window
	assert.False(t, slotWithinWindow(workday, "11:45", 30))
	assert.False(t, slotWithinWindow(workday, "12:00", 30))

	// Before the window, misaligned, or malformed
	assert.False(t, slotWithinWindow(workday, "08:30", 30))
	assert.False(t, slotWithinWindow(workday, "09:15", 30))
	assert.False(t, slotWithinWindow(workday, "nine", 30))

	closed := entity.DaySchedule{IsAvailable: false, StartTime: "09:00", EndTime: "12:00"}
	assert.False(t, slotWithinWindow(closed, "09:00", 30))
}
