package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ritikk978/next-nest/internal/model"
	"github.com/ritikk978/next-nest/internal/payment"
)

func openLedgerDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.Property{}, &model.Booking{},
		&model.ServiceProvider{}, &model.Service{}, &model.Transaction{},
	))
	return db
}

func settledDeposit(t *testing.T, db *gorm.DB, amount float64) *model.Transaction {
	t.Helper()

	fees, tax, total := payment.Charges(model.TxnSecurityDeposit, amount)
	txn := model.Transaction{
		TransactionID: payment.NewTransactionID(),
		UserID:        1,
		Type:          model.TxnSecurityDeposit,
		Amount:        amount,
		PaymentMethod: model.MethodUPI,
		Status:        model.PaymentSuccess,
		Fees:          fees,
		Tax:           tax,
		TotalAmount:   total,
		IsRefundable:  true,
	}
	require.NoError(t, db.Create(&txn).Error)
	return &txn
}

// settleOne marks a refund SUCCESS and settles it against its original
// inside one transaction, the way a status change applies it
func settleOne(t *testing.T, db *gorm.DB, refund *model.Transaction) {
	t.Helper()

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(refund).Update("status", model.PaymentSuccess).Error; err != nil {
			return err
		}
		refund.Status = model.PaymentSuccess
		return settleRefund(tx, refund)
	})
	require.NoError(t, err)
}

func originalStatus(t *testing.T, db *gorm.DB, transactionID string) model.PaymentStatus {
	t.Helper()

	var got model.Transaction
	require.NoError(t, db.Where("transaction_id = ?", transactionID).First(&got).Error)
	return got.Status
}

func TestSettlePartialRefundMarksOriginalPartiallyRefunded(t *testing.T) {
	db := openLedgerDB(t)
	original := settledDeposit(t, db, 5000)

	refund := payment.NewRefund(original, 3000, "tenant moved out early")
	require.NoError(t, db.Create(refund).Error)

	settleOne(t, db, refund)

	assert.Equal(t, model.PaymentPartiallyRefunded, originalStatus(t, db, original.TransactionID))
}

func TestSettleFullRefundMarksOriginalRefunded(t *testing.T) {
	db := openLedgerDB(t)
	original := settledDeposit(t, db, 5000)

	refund := payment.NewRefund(original, 5000, "deposit returned")
	require.NoError(t, db.Create(refund).Error)

	settleOne(t, db, refund)

	assert.Equal(t, model.PaymentRefunded, originalStatus(t, db, original.TransactionID))
}

func TestSettleSecondRefundCompletesTheOriginal(t *testing.T) {
	db := openLedgerDB(t)
	original := settledDeposit(t, db, 5000)

	first := payment.NewRefund(original, 3000, "partial return")
	require.NoError(t, db.Create(first).Error)
	settleOne(t, db, first)
	require.Equal(t, model.PaymentPartiallyRefunded, originalStatus(t, db, original.TransactionID))

	second := payment.NewRefund(original, 2000, "remainder")
	require.NoError(t, db.Create(second).Error)
	settleOne(t, db, second)

	assert.Equal(t, model.PaymentRefunded, originalStatus(t, db, original.TransactionID))
}
