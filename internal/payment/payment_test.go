package payment

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ritikk978/next-nest/internal/model"
)

func TestChargesPerType(t *testing.T) {
	tests := []struct {
		txnType model.TransactionType
		amount  float64
		fees    float64
		tax     float64
		total   float64
	}{
		{model.TxnSecurityDeposit, 10000, 100, 500, 10600},
		{model.TxnRentPayment, 15000, 150, 750, 15900},
		{model.TxnBrokerage, 10000, 200, 1800, 12000},
		{model.TxnServiceCharge, 1000, 30, 180, 1210},
		{model.TxnRefund, 5000, 0, 0, 5000},
	}

	for _, tc := range tests {
		fees, tax, total := Charges(tc.txnType, tc.amount)
		assert.Equal(t, tc.fees, fees, "fees for %s", tc.txnType)
		assert.Equal(t, tc.tax, tax, "tax for %s", tc.txnType)
		assert.Equal(t, tc.total, total, "total for %s", tc.txnType)
	}
}

func TestChargesRounding(t *testing.T) {
	fees, tax, total := Charges(model.TxnRentPayment, 999.99)
	assert.Equal(t, 10.0, fees)
	assert.Equal(t, 50.0, tax)
	assert.Equal(t, 1059.99, total)
}

func TestNewTransactionIDFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^TXN[0-9A-F]{16}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewTransactionID()
		assert.Regexp(t, pattern, id)
		assert.False(t, seen[id], "duplicate transaction id %s", id)
		seen[id] = true
	}
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, CanTransition(model.PaymentPending, model.PaymentSuccess))
	assert.True(t, CanTransition(model.PaymentPending, model.PaymentFailed))
	assert.True(t, CanTransition(model.PaymentPending, model.PaymentCancelled))
	assert.True(t, CanTransition(model.PaymentSuccess, model.PaymentRefunded))
	assert.True(t, CanTransition(model.PaymentSuccess, model.PaymentPartiallyRefunded))
	assert.True(t, CanTransition(model.PaymentPartiallyRefunded, model.PaymentRefunded))

	assert.False(t, CanTransition(model.PaymentFailed, model.PaymentSuccess))
	assert.False(t, CanTransition(model.PaymentCancelled, model.PaymentPending))
	assert.False(t, CanTransition(model.PaymentRefunded, model.PaymentSuccess))
	assert.False(t, CanTransition(model.PaymentPending, model.PaymentRefunded))
}

func TestTriggersRented(t *testing.T) {
	bookingID := uint(12)

	deposit := &model.Transaction{Type: model.TxnSecurityDeposit, BookingID: &bookingID}
	assert.True(t, TriggersRented(deposit))

	rent := &model.Transaction{Type: model.TxnRentPayment, BookingID: &bookingID}
	assert.True(t, TriggersRented(rent))

	brokerage := &model.Transaction{Type: model.TxnBrokerage, BookingID: &bookingID}
	assert.False(t, TriggersRented(brokerage))

	noBooking := &model.Transaction{Type: model.TxnRentPayment}
	assert.False(t, TriggersRented(noBooking))
}

func settled(amount float64) *model.Transaction {
	return &model.Transaction{
		TransactionID: "TXN0123456789ABCDEF",
		UserID:        3,
		Amount:        amount,
		Status:        model.PaymentSuccess,
		IsRefundable:  true,
		PaymentMethod: model.MethodUPI,
	}
}

func TestValidateRefund(t *testing.T) {
	assert.NoError(t, ValidateRefund(settled(5000), 5000))
	assert.NoError(t, ValidateRefund(settled(5000), 1200))

	pending := settled(5000)
	pending.Status = model.PaymentPending
	assert.Error(t, ValidateRefund(pending, 100))

	locked := settled(5000)
	locked.IsRefundable = false
	assert.Error(t, ValidateRefund(locked, 100))

	assert.Error(t, ValidateRefund(settled(5000), 5001))
	assert.Error(t, ValidateRefund(settled(5000), 0))
	assert.Error(t, ValidateRefund(settled(5000), -10))
}

func TestNewRefund(t *testing.T) {
	original := settled(5000)
	bookingID := uint(8)
	original.BookingID = &bookingID

	refund := NewRefund(original, 2000, "Visit cancelled")

	assert.Equal(t, model.TxnRefund, refund.Type)
	assert.Equal(t, model.PaymentPending, refund.Status)
	assert.Equal(t, 2000.0, refund.Amount)
	assert.Equal(t, 2000.0, refund.TotalAmount)
	assert.Zero(t, refund.Fees)
	assert.Zero(t, refund.Tax)
	assert.False(t, refund.IsRefundable)
	assert.Equal(t, original.TransactionID, refund.ReferenceID)
	assert.Equal(t, original.BookingID, refund.BookingID)
	assert.NotEqual(t, original.TransactionID, refund.TransactionID)
}

func TestRefundedStatus(t *testing.T) {
	original := settled(5000)
	assert.Equal(t, model.PaymentRefunded, RefundedStatus(original, 5000))
	assert.Equal(t, model.PaymentPartiallyRefunded, RefundedStatus(original, 2000))
}
