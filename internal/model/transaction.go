package model

import (
	"time"
)

// TransactionType classifies what a payment is for
type TransactionType string

const (
	TxnSecurityDeposit TransactionType = "SECURITY_DEPOSIT"
	TxnRentPayment     TransactionType = "RENT_PAYMENT"
	TxnBrokerage       TransactionType = "BROKERAGE"
	TxnServiceCharge   TransactionType = "SERVICE_CHARGE"
	TxnRefund          TransactionType = "REFUND"
)

// PaymentStatus is the settlement state of a transaction
type PaymentStatus string

const (
	PaymentPending           PaymentStatus = "PENDING"
	PaymentSuccess           PaymentStatus = "SUCCESS"
	PaymentFailed            PaymentStatus = "FAILED"
	PaymentRefunded          PaymentStatus = "REFUNDED"
	PaymentPartiallyRefunded PaymentStatus = "PARTIALLY_REFUNDED"
	PaymentCancelled         PaymentStatus = "CANCELLED"
)

// PaymentMethod is how the payer settles the transaction
type PaymentMethod string

const (
	MethodUPI         PaymentMethod = "UPI"
	MethodCard        PaymentMethod = "CARD"
	MethodNetBanking  PaymentMethod = "NET_BANKING"
	MethodWallet      PaymentMethod = "WALLET"
	MethodCash        PaymentMethod = "CASH"
)

// Transaction is one entry in the payment ledger.
// Invariant: TotalAmount = Amount + Fees + Tax. Refund rows carry zero
// fees and tax and are themselves non-refundable.
type Transaction struct {
	ID                     uint            `json:"id" gorm:"primaryKey"`
	TransactionID          string          `json:"transaction_id" gorm:"type:varchar(32);uniqueIndex;not null"`
	UserID                 uint            `json:"user_id" gorm:"index;not null"`
	User                   *User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	BookingID              *uint           `json:"booking_id,omitempty" gorm:"index"`
	Booking                *Booking        `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
	ServiceID              *uint           `json:"service_id,omitempty" gorm:"index"`
	Service                *Service        `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
	Type                   TransactionType `json:"type" gorm:"type:varchar(30);index;not null"`
	Amount                 float64         `json:"amount" gorm:"type:decimal(12,2);not null"`
	PaymentMethod          PaymentMethod   `json:"payment_method" gorm:"type:varchar(20);not null"`
	Status                 PaymentStatus   `json:"status" gorm:"type:varchar(30);index;not null"`
	PaymentDate            *time.Time      `json:"payment_date,omitempty"`
	ReferenceID            string          `json:"reference_id,omitempty" gorm:"type:varchar(100)"`
	FailureReason          string          `json:"failure_reason,omitempty" gorm:"type:varchar(255)"`
	Description            string          `json:"description,omitempty" gorm:"type:varchar(1000)"`
	Fees                   float64         `json:"fees" gorm:"type:decimal(12,2)"`
	Tax                    float64         `json:"tax" gorm:"type:decimal(12,2)"`
	TotalAmount            float64         `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	IsRefundable           bool            `json:"is_refundable"`
	ReceiptURL             string          `json:"receipt_url,omitempty" gorm:"type:varchar(512)"`
	PaymentGatewayResponse string          `json:"-" gorm:"type:text"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}
