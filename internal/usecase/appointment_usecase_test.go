package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateVisitDetails(t *testing.T) {
	// Virtual visits carry a meeting link and no physical location
	assert.NoError(t, validateVisitDetails(true, "", "https://meet.example.com/abc"))
	assert.ErrorIs(t, validateVisitDetails(true, "", ""), ErrVirtualNeedsLink)
	assert.ErrorIs(t, validateVisitDetails(true, "Clinic Room 2", "https://meet.example.com/abc"), ErrVirtualNeedsLink)

	// In-person visits carry a location and no meeting link
	assert.NoError(t, validateVisitDetails(false, "Clinic Room 2", ""))
	assert.ErrorIs(t, validateVisitDetails(false, "", ""), ErrInPersonNeedsPlace)
	assert.ErrorIs(t, validateVisitDetails(false, "Clinic Room 2", "https://meet.example.com/abc"), ErrInPersonNeedsPlace)

	// Whitespace-only values are treated as absent
	assert.ErrorIs(t, validateVisitDetails(true, "", "  "), ErrVirtualNeedsLink)
	assert.ErrorIs(t, validateVisitDetails(false, "  ", ""), ErrInPersonNeedsPlace)
}
