package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID        uuid.UUID `json:"doctor" validate:"required"`
	AppointmentDate string    `json:"appointment_date" validate:"required"` // Format: YYYY-MM-DD
	AppointmentTime string    `json:"appointment_time" validate:"required"` // Format: HH:MM
	Type            string    `json:"type" validate:"required"`
	Reason          string    `json:"reason" validate:"required,min=5"`
	Symptoms        []string  `json:"symptoms" validate:"omitempty"`
	Notes           string    `json:"notes" validate:"omitempty"`
	IsVirtual       bool      `json:"is_virtual"`
	Location        string    `json:"location" validate:"omitempty"`
	MeetingLink     string    `json:"meeting_link" validate:"omitempty"`
	PaymentMethod   string    `json:"payment_method" validate:"required"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" validate:"omitempty"`
}

type ListAppointmentsQuery struct {
	Status  string
	StartAt string
	EndAt   string
	Page    int
	Limit   int
}

// Response DTOs

type PaymentResponse struct {
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Method        string          `json:"method,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
}

type AppointmentResponse struct {
	ID                 uuid.UUID        `json:"id"`
	PatientID          uuid.UUID        `json:"patient_id"`
	DoctorID           uuid.UUID        `json:"doctor_id"`
	PatientName        string           `json:"patient_name,omitempty"`
	DoctorName         string           `json:"doctor_name,omitempty"`
	AppointmentDate    string           `json:"appointment_date"`
	AppointmentTime    string           `json:"appointment_time"`
	Duration           int              `json:"duration"`
	Type               string           `json:"type"`
	IsVirtual          bool             `json:"is_virtual"`
	Location           string           `json:"location,omitempty"`
	MeetingLink        string           `json:"meeting_link,omitempty"`
	Reason             string           `json:"reason"`
	Symptoms           []string         `json:"symptoms,omitempty"`
	Notes              string           `json:"notes,omitempty"`
	Status             string           `json:"status"`
	Payment            *PaymentResponse `json:"payment"`
	CancellationReason string           `json:"cancellation_reason,omitempty"`
	CancelledBy        *uuid.UUID       `json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time       `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int64                 `json:"total"`
}

type AvailabilityResponse struct {
	DoctorID       uuid.UUID `json:"doctor_id"`
	Date           string    `json:"date"`
	AvailableSlots []string  `json:"available_slots"`
}
