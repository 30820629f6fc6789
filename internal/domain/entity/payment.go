package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents the payment sub-state of an appointment
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// PaymentMethod represents how an appointment is paid for
type PaymentMethod string

const (
	PaymentMethodDemoCard   PaymentMethod = "demo_card"
	PaymentMethodDemoMobile PaymentMethod = "demo_mobile"
	PaymentMethodDemoBank   PaymentMethod = "demo_bank"
	PaymentMethodCard       PaymentMethod = "card"
	PaymentMethodInsurance  PaymentMethod = "insurance"
)

// ValidPaymentMethod reports whether the given method is a recognized value.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodDemoCard, PaymentMethodDemoMobile, PaymentMethodDemoBank,
		PaymentMethodCard, PaymentMethodInsurance:
		return true
	}
	return false
}

// Payment is the payment sub-state embedded in an appointment row.
// Status starts at pending on creation and moves to paid or failed before the
// appointment can be confirmed; refunded is reachable only from paid.
type Payment struct {
	Amount        decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"amount"`
	Status        PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	TransactionID string          `gorm:"type:varchar(100)" json:"transaction_id,omitempty"`
	Method        PaymentMethod   `gorm:"type:varchar(20)" json:"method,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
}

// IsPending checks if the payment has not completed yet
func (p *Payment) IsPending() bool {
	return p.Status == PaymentStatusPending
}

// IsPaid checks if the payment has completed successfully
func (p *Payment) IsPaid() bool {
	return p.Status == PaymentStatusPaid
}

// ApplyCompletion records a successful payment notification.
//
// Idempotent by transaction ID: a repeat notification carrying the transaction
// ID already stored returns changed=false with no error, so webhook retries
// are harmless. Any other completion against a non-pending payment is an
// invalid payment transition.
func (p *Payment) ApplyCompletion(transactionID string, method PaymentMethod, now time.Time) (bool, error) {
	if p.Status == PaymentStatusPaid && p.TransactionID == transactionID {
		return false, nil
	}
	if p.Status != PaymentStatusPending {
		return false, &InvalidPaymentTransitionError{From: p.Status, To: PaymentStatusPaid}
	}

	p.Status = PaymentStatusPaid
	p.TransactionID = transactionID
	p.Method = method
	p.PaidAt = &now
	return true, nil
}

// ApplyFailure marks a pending payment as failed.
func (p *Payment) ApplyFailure() error {
	if p.Status != PaymentStatusPending {
		return &InvalidPaymentTransitionError{From: p.Status, To: PaymentStatusFailed}
	}
	p.Status = PaymentStatusFailed
	return nil
}

// ApplyRefund moves a paid payment to refunded. Used when a paid appointment
// is cancelled.
func (p *Payment) ApplyRefund() error {
	if p.Status != PaymentStatusPaid {
		return &InvalidPaymentTransitionError{From: p.Status, To: PaymentStatusRefunded}
	}
	p.Status = PaymentStatusRefunded
	return nil
}
