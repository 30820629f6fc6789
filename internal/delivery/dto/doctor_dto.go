package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DayScheduleRequest is one day's working window in a weekly schedule update.
type DayScheduleRequest struct {
	IsAvailable bool   `json:"is_available"`
	StartTime   string `json:"start_time" validate:"omitempty"`
	EndTime     string `json:"end_time" validate:"omitempty"`
}

// Request DTOs

type CreateDoctorRequest struct {
	Email           string           `json:"email" validate:"required,email"`
	Password        string           `json:"password" validate:"required,min=6"`
	FullName        string           `json:"full_name" validate:"required,min=2"`
	LicenseNumber   string           `json:"license_number" validate:"required"`
	Specialization  string           `json:"specialization" validate:"required"`
	Biography       string           `json:"biography" validate:"omitempty"`
	ConsultationFee *decimal.Decimal `json:"consultation_fee" validate:"omitempty"`
}

type UpdateDoctorRequest struct {
	Email               string           `json:"email" validate:"omitempty,email"`
	Password            string           `json:"password" validate:"omitempty,min=6"`
	FullName            string           `json:"full_name" validate:"omitempty,min=2"`
	LicenseNumber       string           `json:"license_number" validate:"omitempty"`
	Specialization      string           `json:"specialization" validate:"omitempty"`
	Biography           string           `json:"biography" validate:"omitempty"`
	ConsultationFee     *decimal.Decimal `json:"consultation_fee" validate:"omitempty"`
	IsAcceptingPatients *bool            `json:"is_accepting_patients" validate:"omitempty"`
	IsActive            *bool            `json:"is_active" validate:"omitempty"`
}

type DoctorUpdateSelfRequest struct {
	OldPassword         string           `json:"old_password" validate:"omitempty"`
	Password            string           `json:"password" validate:"omitempty,min=6"`
	Biography           string           `json:"biography" validate:"omitempty"`
	ConsultationFee     *decimal.Decimal `json:"consultation_fee" validate:"omitempty"`
	IsAcceptingPatients *bool            `json:"is_accepting_patients" validate:"omitempty"`
}

type UpdateWeeklyScheduleRequest struct {
	WeeklySchedule map[string]DayScheduleRequest `json:"weekly_schedule" validate:"required"`
}

// Response DTOs

type DoctorResponse struct {
	ID                  uuid.UUID                     `json:"id"`
	Email               string                        `json:"email"`
	FullName            string                        `json:"full_name"`
	LicenseNumber       string                        `json:"license_number"`
	Specialization      string                        `json:"specialization"`
	Biography           string                        `json:"biography,omitempty"`
	ConsultationFee     decimal.Decimal               `json:"consultation_fee"`
	IsAcceptingPatients bool                          `json:"is_accepting_patients"`
	WeeklySchedule      map[string]DayScheduleRequest `json:"weekly_schedule,omitempty"`
	IsActive            *bool                         `json:"is_active"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
