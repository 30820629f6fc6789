package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed  AppointmentStatus = "confirmed"
	AppointmentStatusInProgress AppointmentStatus = "in_progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
	AppointmentStatusNoShow     AppointmentStatus = "no_show"
)

// ValidAppointmentStatus reports whether the given status is a recognized value.
func ValidAppointmentStatus(s AppointmentStatus) bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed, AppointmentStatusInProgress,
		AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

// AppointmentType represents the kind of visit being booked
type AppointmentType string

const (
	AppointmentTypeConsultation AppointmentType = "consultation"
	AppointmentTypeFollowUp     AppointmentType = "follow_up"
	AppointmentTypeEmergency    AppointmentType = "emergency"
	AppointmentTypeRoutine      AppointmentType = "routine"
)

// ValidAppointmentType reports whether the given type is a recognized value.
func ValidAppointmentType(t AppointmentType) bool {
	switch t {
	case AppointmentTypeConsultation, AppointmentTypeFollowUp,
		AppointmentTypeEmergency, AppointmentTypeRoutine:
		return true
	}
	return false
}

// StringList stores a list of strings as a JSONB column.
type StringList []string

// Value implements driver.Valuer for JSONB storage
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB storage
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
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

	var result []string
	err := json.Unmarshal(bytes, &result)
	*l = StringList(result)
	return err
}

// InvalidTransitionError is returned when a lifecycle transition is not
// allowed by the appointment state machine.
type InvalidTransitionError struct {
	From AppointmentStatus
	To   AppointmentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid appointment transition from %s to %s", e.From, e.To)
}

// InvalidPaymentTransitionError is returned when a payment status change is
// not allowed by the payment state machine.
type InvalidPaymentTransitionError struct {
	From PaymentStatus
	To   PaymentStatus
}

func (e *InvalidPaymentTransitionError) Error() string {
	return fmt.Sprintf("invalid payment transition from %s to %s", e.From, e.To)
}

// ErrCancellationReasonRequired is returned when a patient cancels without
// giving a reason. Doctors and admins may omit it.
var ErrCancellationReasonRequired = errors.New("a cancellation reason is required")

// CancellationWindowError is returned when a patient tries to cancel inside
// the cutoff window before the appointment.
type CancellationWindowError struct {
	Cutoff        time.Duration
	AppointmentAt time.Time
}

func (e *CancellationWindowError) Error() string {
	return fmt.Sprintf("appointments cannot be cancelled within %v of the start time (%s)",
		e.Cutoff, e.AppointmentAt.Format(time.RFC3339))
}

// Appointment represents a booked visit between a patient and a doctor.
//
// Exactly one non-cancelled, non-no-show appointment may occupy a given
// (doctor, date, time) tuple; the database enforces this with a partial
// unique index over the active statuses.
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	AppointmentDate time.Time         `gorm:"type:date;not null;index" json:"appointment_date"`
	AppointmentTime string            `gorm:"type:varchar(5);not null" json:"appointment_time"`
	Duration        int               `gorm:"not null" json:"duration"`
	Type            AppointmentType   `gorm:"type:varchar(20);not null" json:"type"`
	IsVirtual       bool              `gorm:"not null;default:false" json:"is_virtual"`
	Location        string            `gorm:"type:varchar(255)" json:"location,omitempty"`
	MeetingLink     string            `gorm:"type:varchar(255)" json:"meeting_link,omitempty"`
	Reason          string            `gorm:"type:text;not null" json:"reason"`
	Symptoms        StringList        `gorm:"type:jsonb" json:"symptoms,omitempty"`
	Notes           string            `gorm:"type:text" json:"notes,omitempty"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	Payment         Payment           `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`

	CancellationReason string     `gorm:"type:text" json:"cancellation_reason,omitempty"`
	CancelledBy        *uuid.UUID `gorm:"type:uuid" json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient PatientProfile `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  DoctorProfile  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// appointmentTransitions is the closed transition table for the lifecycle.
// completed, cancelled and no_show are terminal.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusScheduled:  {AppointmentStatusConfirmed, AppointmentStatusCancelled, AppointmentStatusNoShow},
	AppointmentStatusConfirmed:  {AppointmentStatusInProgress, AppointmentStatusCancelled, AppointmentStatusNoShow},
	AppointmentStatusInProgress: {AppointmentStatusCompleted},
}

// CanTransitionTo reports whether the state machine allows moving from the
// appointment's current status to target.
func (a *Appointment) CanTransitionTo(target AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[a.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ValidateTransition returns an InvalidTransitionError when the target status
// is not reachable from the current one.
func (a *Appointment) ValidateTransition(target AppointmentStatus) error {
	if !a.CanTransitionTo(target) {
		return &InvalidTransitionError{From: a.Status, To: target}
	}
	return nil
}

// IsTerminal checks if the appointment has reached a final state
func (a *Appointment) IsTerminal() bool {
	return a.Status == AppointmentStatusCompleted ||
		a.Status == AppointmentStatusCancelled ||
		a.Status == AppointmentStatusNoShow
}

// OccupiesSlot reports whether the appointment blocks its doctor/date/time
// slot. Cancelled and no-show appointments free the slot.
func (a *Appointment) OccupiesSlot() bool {
	return a.Status != AppointmentStatusCancelled && a.Status != AppointmentStatusNoShow
}

// StartsAt combines the appointment date and HH:MM time into a UTC instant.
func (a *Appointment) StartsAt() time.Time {
	minutes, err := ParseClock(a.AppointmentTime)
	if err != nil {
		return a.AppointmentDate
	}
	year, month, day := a.AppointmentDate.Date()
	return time.Date(year, month, day, minutes/60, minutes%60, 0, 0, time.UTC)
}

// ValidateCancellation checks whether an actor with the given role may cancel
// the appointment at time now. Doctors and admins may cancel any time before
// a terminal state; patients must be outside the cutoff window and must give
// a reason.
func (a *Appointment) ValidateCancellation(actorRole string, reason string, now time.Time, cutoff time.Duration) error {
	if err := a.ValidateTransition(AppointmentStatusCancelled); err != nil {
		return err
	}
	if actorRole == RolePatient {
		if strings.TrimSpace(reason) == "" {
			return ErrCancellationReasonRequired
		}
		if now.After(a.StartsAt().Add(-cutoff)) {
			return &CancellationWindowError{Cutoff: cutoff, AppointmentAt: a.StartsAt()}
		}
	}
	return nil
}

// MarkCancelled applies a cancellation: status, audit metadata, and a demo
// refund when the appointment was already paid.
func (a *Appointment) MarkCancelled(actorID uuid.UUID, reason string, now time.Time) {
	a.Status = AppointmentStatusCancelled
	a.CancellationReason = reason
	a.CancelledBy = &actorID
	a.CancelledAt = &now
	if a.Payment.IsPaid() {
		// Refund policy: demo payments are refunded in full on cancellation.
		_ = a.Payment.ApplyRefund()
	}
}
