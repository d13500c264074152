package payment

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ritikk978/next-nest/internal/model"
)

// rates holds the platform fee and tax percentage per transaction type.
// Types not listed (refunds included) carry no charges.
var rates = map[model.TransactionType]struct {
	FeePercent float64
	TaxPercent float64
}{
	model.TxnSecurityDeposit: {FeePercent: 1, TaxPercent: 5},
	model.TxnRentPayment:     {FeePercent: 1, TaxPercent: 5},
	model.TxnBrokerage:       {FeePercent: 2, TaxPercent: 18},
	model.TxnServiceCharge:   {FeePercent: 3, TaxPercent: 18},
}

// Charges computes fees, tax and total for an amount and type.
// Total = amount + fees + tax, each rounded to two decimals.
func Charges(txnType model.TransactionType, amount float64) (fees, tax, total float64) {
	r := rates[txnType]
	fees = round2(amount * r.FeePercent / 100)
	tax = round2(amount * r.TaxPercent / 100)
	total = round2(amount + fees + tax)
	return fees, tax, total
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

// NewTransactionID mints a ledger identifier of the form TXN followed
// by 16 hex characters
func NewTransactionID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "TXN" + strings.ToUpper(raw[:16])
}

// statusTransitions is the settlement state machine. SUCCESS may still
// move to refunded states; FAILED and CANCELLED are terminal.
var statusTransitions = map[model.PaymentStatus][]model.PaymentStatus{
	model.PaymentPending: {model.PaymentSuccess, model.PaymentFailed, model.PaymentCancelled},
	model.PaymentSuccess: {model.PaymentRefunded, model.PaymentPartiallyRefunded},
	model.PaymentPartiallyRefunded: {model.PaymentRefunded},
}

// CanTransition reports whether a settlement status change is legal
func CanTransition(from, to model.PaymentStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TriggersRented reports whether settling this transaction marks the
// booked property as rented
func TriggersRented(txn *model.Transaction) bool {
	if txn.BookingID == nil {
		return false
	}
	return txn.Type == model.TxnSecurityDeposit || txn.Type == model.TxnRentPayment
}

// ValidateRefund checks a refund request against the original
// transaction
func ValidateRefund(original *model.Transaction, amount float64) error {
	if original.Status != model.PaymentSuccess {
		return fmt.Errorf("transaction %s is not settled", original.TransactionID)
	}
	if !original.IsRefundable {
		return fmt.Errorf("transaction %s is not refundable", original.TransactionID)
	}
	if amount <= 0 {
		return fmt.Errorf("refund amount must be positive")
	}
	if amount > original.Amount {
		return fmt.Errorf("refund amount %.2f exceeds original amount %.2f", amount, original.Amount)
	}
	return nil
}

// NewRefund builds the ledger entry for a validated refund. Refunds
// carry no fees or tax and can never themselves be refunded.
func NewRefund(original *model.Transaction, amount float64, reason string) *model.Transaction {
	return &model.Transaction{
		TransactionID: NewTransactionID(),
		UserID:        original.UserID,
		BookingID:     original.BookingID,
		ServiceID:     original.ServiceID,
		Type:          model.TxnRefund,
		Amount:        amount,
		PaymentMethod: original.PaymentMethod,
		Status:        model.PaymentPending,
		ReferenceID:   original.TransactionID,
		Description:   reason,
		TotalAmount:   amount,
		IsRefundable:  false,
	}
}

// RefundedStatus picks the status the original transaction moves to
// once a refund settles
func RefundedStatus(original *model.Transaction, refunded float64) model.PaymentStatus {
	if refunded >= original.Amount {
		return model.PaymentRefunded
	}
	return model.PaymentPartiallyRefunded
}
