package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

type PatientUpdateSelfRequest struct {
	OldPassword string `json:"old_password" validate:"omitempty"`
	Password    string `json:"password" validate:"omitempty,min=6"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,min=10,max=20"`
	Address     string `json:"address" validate:"omitempty"`
}

// Response DTOs

type PatientResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	NationalID  string    `json:"national_id"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	DateOfBirth string    `json:"date_of_birth"`
	Gender      string    `json:"gender"`
	Address     string    `json:"address,omitempty"`
}
