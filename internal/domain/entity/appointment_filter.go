package entity

import "github.com/google/uuid"

// AppointmentFilter is a domain-level filter for querying appointments.
// Used by repository layer to avoid coupling with delivery DTOs.
type AppointmentFilter struct {
	PatientID uuid.UUID // scope to a patient (patient role)
	DoctorID  uuid.UUID // scope to a doctor (doctor role)
	Status    AppointmentStatus
	StartAt   string // Format: YYYY-MM-DD
	EndAt     string // Format: YYYY-MM-DD
	Page      int
	Limit     int
}
