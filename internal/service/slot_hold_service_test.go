package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSlotKey(t *testing.T) {
	doctorID := uuid.MustParse("7d53d2ff-11f2-4a7a-9f34-0a2f2c6d5b1e")
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	key := SlotKey(doctorID, date, "14:30")
	assert.Equal(t, "appointment:slot:7d53d2ff-11f2-4a7a-9f34-0a2f2c6d5b1e:2026-09-15:14:30", key)
}

func TestCalculateTTL(t *testing.T) {
	s := &SlotHoldService{}

	// A future date gets a positive TTL that outlives the appointment day
	future := time.Now().UTC().AddDate(0, 0, 7).Truncate(24 * time.Hour)
	ttl := s.calculateTTL(future)
	assert.Greater(t, ttl, 7*24*time.Hour)
	assert.LessOrEqual(t, ttl, 8*24*time.Hour)

	// Past dates collapse to a short cleanup TTL
	past := time.Now().UTC().AddDate(0, 0, -2)
	assert.Equal(t, 1*time.Minute, s.calculateTTL(past))
}
