package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type DemoPaymentRequest struct {
	AppointmentID uuid.UUID       `json:"appointment_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	PaymentMethod string          `json:"payment_method" validate:"required"`
	TransactionID string          `json:"transaction_id" validate:"omitempty"`
}

type CreatePaymentIntentRequest struct {
	Amount   decimal.Decimal   `json:"amount" validate:"required"`
	Metadata map[string]string `json:"metadata" validate:"omitempty"`
}

// Response DTOs

type PaymentIntentResponse struct {
	ClientSecret string `json:"client_secret,omitempty"`
	IntentID     string `json:"intent_id,omitempty"`
	Demo         bool   `json:"demo"`
}
