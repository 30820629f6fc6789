package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAppointment(status AppointmentStatus) *Appointment {
	return &Appointment{
		ID:              uuid.New(),
		PatientID:       uuid.New(),
		DoctorID:        uuid.New(),
		AppointmentDate: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		AppointmentTime: "10:00",
		Status:          status,
	}
}

func TestAppointmentTransitions(t *testing.T) {
	cases := []struct {
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{AppointmentStatusScheduled, AppointmentStatusConfirmed, true},
		{AppointmentStatusScheduled, AppointmentStatusCancelled, true},
		{AppointmentStatusScheduled, AppointmentStatusNoShow, true},
		{AppointmentStatusScheduled, AppointmentStatusInProgress, false},
		{AppointmentStatusScheduled, AppointmentStatusCompleted, false},
		{AppointmentStatusConfirmed, AppointmentStatusInProgress, true},
		{AppointmentStatusConfirmed, AppointmentStatusCancelled, true},
		{AppointmentStatusConfirmed, AppointmentStatusNoShow, true},
		{AppointmentStatusConfirmed, AppointmentStatusCompleted, false},
		{AppointmentStatusConfirmed, AppointmentStatusScheduled, false},
		{AppointmentStatusInProgress, AppointmentStatusCompleted, true},
		{AppointmentStatusInProgress, AppointmentStatusCancelled, false},
		{AppointmentStatusInProgress, AppointmentStatusNoShow, false},
		{AppointmentStatusCompleted, AppointmentStatusCancelled, false},
		{AppointmentStatusCompleted, AppointmentStatusScheduled, false},
		{AppointmentStatusCancelled, AppointmentStatusScheduled, false},
		{AppointmentStatusCancelled, AppointmentStatusConfirmed, false},
		{AppointmentStatusNoShow, AppointmentStatusScheduled, false},
	}

	for _, tc := range cases {
		a := newAppointment(tc.from)
		assert.Equalf(t, tc.allowed, a.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)

		err := a.ValidateTransition(tc.to)
		if tc.allowed {
			assert.NoError(t, err)
		} else {
			var transitionErr *InvalidTransitionError
			require.ErrorAs(t, err, &transitionErr)
			assert.Equal(t, tc.from, transitionErr.From)
			assert.Equal(t, tc.to, transitionErr.To)
		}
	}
}

func TestAppointmentIsTerminal(t *testing.T) {
	assert.False(t, newAppointment(AppointmentStatusScheduled).IsTerminal())
	assert.False(t, newAppointment(AppointmentStatusConfirmed).IsTerminal())
	assert.False(t, newAppointment(AppointmentStatusInProgress).IsTerminal())
	assert.True(t, newAppointment(AppointmentStatusCompleted).IsTerminal())
	assert.True(t, newAppointment(AppointmentStatusCancelled).IsTerminal())
	assert.True(t, newAppointment(AppointmentStatusNoShow).IsTerminal())
}

func TestAppointmentOccupiesSlot(t *testing.T) {
	assert.True(t, newAppointment(AppointmentStatusScheduled).OccupiesSlot())
	assert.True(t, newAppointment(AppointmentStatusConfirmed).OccupiesSlot())
	assert.True(t, newAppointment(AppointmentStatusInProgress).OccupiesSlot())
	assert.True(t, newAppointment(AppointmentStatusCompleted).OccupiesSlot())
	assert.False(t, newAppointment(AppointmentStatusCancelled).OccupiesSlot())
	assert.False(t, newAppointment(AppointmentStatusNoShow).OccupiesSlot())
}

func TestAppointmentStartsAt(t *testing.T) {
	a := newAppointment(AppointmentStatusScheduled)
	a.AppointmentDate = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	a.AppointmentTime = "14:30"

	assert.Equal(t, time.Date(2026, 9, 15, 14, 30, 0, 0, time.UTC), a.StartsAt())
}

func TestValidateCancellationPatientCutoff(t *testing.T) {
	cutoff := 24 * time.Hour
	a := newAppointment(AppointmentStatusConfirmed)
	startsAt := a.StartsAt()

	// 25 hours before: allowed
	err := a.ValidateCancellation(RolePatient, "schedule conflict", startsAt.Add(-25*time.Hour), cutoff)
	assert.NoError(t, err)

	// 23 hours before: inside the window, rejected
	err = a.ValidateCancellation(RolePatient, "schedule conflict", startsAt.Add(-23*time.Hour), cutoff)
	var windowErr *CancellationWindowError
	require.ErrorAs(t, err, &windowErr)
	assert.Equal(t, cutoff, windowErr.Cutoff)
	assert.Equal(t, startsAt, windowErr.AppointmentAt)

	// Exactly at the boundary: still allowed (not after)
	err = a.ValidateCancellation(RolePatient, "schedule conflict", startsAt.Add(-cutoff), cutoff)
	assert.NoError(t, err)
}

func TestValidateCancellationPatientNeedsReason(t *testing.T) {
	cutoff := 24 * time.Hour
	a := newAppointment(AppointmentStatusConfirmed)
	now := a.StartsAt().Add(-48 * time.Hour)

	err := a.ValidateCancellation(RolePatient, "", now, cutoff)
	assert.ErrorIs(t, err, ErrCancellationReasonRequired)

	// Whitespace does not count as a reason
	err = a.ValidateCancellation(RolePatient, "   ", now, cutoff)
	assert.ErrorIs(t, err, ErrCancellationReasonRequired)

	assert.NoError(t, a.ValidateCancellation(RolePatient, "schedule conflict", now, cutoff))
}

func TestValidateCancellationDoctorBypassesCutoff(t *testing.T) {
	cutoff := 24 * time.Hour
	a := newAppointment(AppointmentStatusConfirmed)

	// One hour before start: doctors and admins may still cancel, reason
	// optional
	now := a.StartsAt().Add(-time.Hour)
	assert.NoError(t, a.ValidateCancellation(RoleDoctor, "", now, cutoff))
	assert.NoError(t, a.ValidateCancellation(RoleAdmin, "", now, cutoff))
}

func TestValidateCancellationTerminalStates(t *testing.T) {
	cutoff := 24 * time.Hour
	for _, status := range []AppointmentStatus{
		AppointmentStatusCompleted, AppointmentStatusCancelled,
		AppointmentStatusNoShow, AppointmentStatusInProgress,
	} {
		a := newAppointment(status)
		err := a.ValidateCancellation(RoleAdmin, "", a.StartsAt().Add(-48*time.Hour), cutoff)
		var transitionErr *InvalidTransitionError
		assert.Truef(t, errors.As(err, &transitionErr), "cancel from %s should be rejected", status)
	}
}

func TestMarkCancelledRefundsPaidAppointment(t *testing.T) {
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	actorID := uuid.New()

	a := newAppointment(AppointmentStatusConfirmed)
	a.Payment.Status = PaymentStatusPaid

	a.MarkCancelled(actorID, "feeling better", now)

	assert.Equal(t, AppointmentStatusCancelled, a.Status)
	assert.Equal(t, "feeling better", a.CancellationReason)
	require.NotNil(t, a.CancelledBy)
	assert.Equal(t, actorID, *a.CancelledBy)
	require.NotNil(t, a.CancelledAt)
	assert.Equal(t, now, *a.CancelledAt)
	assert.Equal(t, PaymentStatusRefunded, a.Payment.Status)
}

func TestMarkCancelledLeavesUnpaidPaymentAlone(t *testing.T) {
	a := newAppointment(AppointmentStatusScheduled)
	a.Payment.Status = PaymentStatusPending

	a.MarkCancelled(uuid.New(), "", time.Now().UTC())

	assert.Equal(t, AppointmentStatusCancelled, a.Status)
	assert.Equal(t, PaymentStatusPending, a.Payment.Status)
}

func TestValidAppointmentStatusAndType(t *testing.T) {
	assert.True(t, ValidAppointmentStatus(AppointmentStatusScheduled))
	assert.True(t, ValidAppointmentStatus(AppointmentStatusNoShow))
	assert.False(t, ValidAppointmentStatus("archived"))

	assert.True(t, ValidAppointmentType(AppointmentTypeConsultation))
	assert.True(t, ValidAppointmentType(AppointmentTypeEmergency))
	assert.False(t, ValidAppointmentType("walk_in"))
}
