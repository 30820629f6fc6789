package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCompletion(t *testing.T) {
	now := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)

	p := Payment{
		Amount: decimal.NewFromInt(150),
		Status: PaymentStatusPending,
	}

	changed, err := p.ApplyCompletion("TXN-20260910-000001", PaymentMethodDemoCard, now)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, PaymentStatusPaid, p.Status)
	assert.Equal(t, "TXN-20260910-000001", p.TransactionID)
	assert.Equal(t, PaymentMethodDemoCard, p.Method)
	require.NotNil(t, p.PaidAt)
	assert.Equal(t, now, *p.PaidAt)
}

func TestApplyCompletionIdempotentByTransactionID(t *testing.T) {
	now := time.Now().UTC()
	p := Payment{Status: PaymentStatusPending}

	_, err := p.ApplyCompletion("TXN-20260910-000001", PaymentMethodDemoCard, now)
	require.NoError(t, err)

	// Replaying the same transaction is a no-op, not an error
	changed, err := p.ApplyCompletion("TXN-20260910-000001", PaymentMethodDemoBank, now.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, PaymentMethodDemoCard, p.Method)

	// A different transaction against an already-paid payment is rejected
	_, err = p.ApplyCompletion("TXN-20260910-000002", PaymentMethodDemoCard, now)
	var paymentErr *InvalidPaymentTransitionError
	require.ErrorAs(t, err, &paymentErr)
	assert.Equal(t, PaymentStatusPaid, paymentErr.From)
	assert.Equal(t, PaymentStatusPaid, paymentErr.To)
}

func TestApplyCompletionRejectsNonPending(t *testing.T) {
	for _, status := range []PaymentStatus{PaymentStatusFailed, PaymentStatusRefunded} {
		p := Payment{Status: status}
		_, err := p.ApplyCompletion("TXN-X", PaymentMethodDemoCard, time.Now().UTC())
		var paymentErr *InvalidPaymentTransitionError
		require.ErrorAsf(t, err, &paymentErr, "completion from %s should fail", status)
		assert.Equal(t, status, paymentErr.From)
	}
}

func TestApplyFailure(t *testing.T) {
	p := Payment{Status: PaymentStatusPending}
	require.NoError(t, p.ApplyFailure())
	assert.Equal(t, PaymentStatusFailed, p.Status)

	// Failure is only reachable from pending
	assert.Error(t, p.ApplyFailure())
}

func TestApplyRefund(t *testing.T) {
	p := Payment{Status: PaymentStatusPaid}
	require.NoError(t, p.ApplyRefund())
	assert.Equal(t, PaymentStatusRefunded, p.Status)

	for _, status := range []PaymentStatus{PaymentStatusPending, PaymentStatusFailed, PaymentStatusRefunded} {
		p := Payment{Status: status}
		assert.Errorf(t, p.ApplyRefund(), "refund from %s should fail", status)
	}
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, ValidPaymentMethod(PaymentMethodDemoCard))
	assert.True(t, ValidPaymentMethod(PaymentMethodInsurance))
	assert.False(t, ValidPaymentMethod("crypto"))
}
