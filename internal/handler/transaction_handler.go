package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ritikk978/next-nest/internal/httperr"
	"github.com/ritikk978/next-nest/internal/mailer"
	"github.com/ritikk978/next-nest/internal/middleware"
	"github.com/ritikk978/next-nest/internal/model"
	"github.com/ritikk978/next-nest/internal/payment"
	"github.com/ritikk978/next-nest/pkg/database"
	"github.com/ritikk978/next-nest/pkg/logger"
	"github.com/ritikk978/next-nest/prometheus"
)

// PaymentRequest defines the structure for payment initiation requests
type PaymentRequest struct {
	Type          model.TransactionType `json:"type"`
	Amount        float64               `json:"amount"`
	PaymentMethod model.PaymentMethod   `json:"payment_method"`
	BookingID     *uint                 `json:"booking_id"`
	ServiceID     *uint                 `json:"service_id"`
	Description   string                `json:"description"`
}

// InitiatePayment creates a PENDING ledger entry with computed charges
func InitiatePayment(c echo.Context) error {
	log := logger.FromEcho(c)
	log.Info("Initiating payment")

	callerID, _ := middleware.CallerID(c)

	var req PaymentRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid request data", zap.Error(err))
		return httperr.BadRequest("Invalid request data")
	}

	fields := make(map[string]string)
	if req.Amount <= 0 {
		fields["amount"] = "Amount must be positive"
	}
	switch req.Type {
	case model.TxnSecurityDeposit, model.TxnRentPayment, model.TxnBrokerage, model.TxnServiceCharge:
	case model.TxnRefund:
		fields["type"] = "Refunds are created through the refund endpoint"
	default:
		fields["type"] = "Unknown transaction type"
	}
	switch req.PaymentMethod {
	case model.MethodUPI, model.MethodCard, model.MethodNetBanking, model.MethodWallet, model.MethodCash:
	default:
		fields["payment_method"] = "Unknown payment method"
	}
	if len(fields) > 0 {
		return httperr.Validation(fields)
	}

	if req.BookingID != nil {
		var b model.Booking
		if result := database.GetDB().First(&b, *req.BookingID); result.Error != nil {
			return httperr.NotFound("Booking not found")
		}
		if b.TenantID != callerID {
			return httperr.Forbidden("You cannot pay for another user's booking")
		}
	}
	if req.ServiceID != nil {
		var svc model.Service
		if result := database.GetDB().First(&svc, *req.ServiceID); result.Error != nil {
			return httperr.NotFound("Service not found")
		}
	}

	fees, tax, total := payment.Charges(req.Type, req.Amount)

	txn := model.Transaction{
		TransactionID: payment.NewTransactionID(),
		UserID:        callerID,
		BookingID:     req.BookingID,
		ServiceID:     req.ServiceID,
		Type:          req.Type,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Status:        model.PaymentPending,
		Description:   req.Description,
		Fees:          fees,
		Tax:           tax,
		TotalAmount:   total,
		// Deposits come back when the tenancy ends; everything else
		// settles for good
		IsRefundable: req.Type == model.TxnSecurityDeposit,
	}

	if result := database.GetDB().Create(&txn); result.Error != nil {
		log.Error("Failed to create transaction", zap.Error(result.Error))
		return httperr.Internal("Failed to initiate payment")
	}

	prometheus.RecordPaymentOperation("initiate", string(txn.Type))
	log.Info("Payment initiated",
		zap.String("transaction_id", txn.TransactionID),
		zap.Float64("total_amount", txn.TotalAmount))

	return c.JSON(http.StatusCreated, txn)
}

// loadVisibleTransaction resolves a ledger entry the caller may see:
// its payer, the counterpart property owner or an admin
func loadVisibleTransaction(c echo.Context) (*model.Transaction, error) {
	var txn model.Transaction
	result := database.GetDB().
		Preload("Booking").Preload("Booking.Property").
		Where("transaction_id = ?", c.Param("txnId")).
		First(&txn)
	if result.Error != nil {
		return nil, httperr.NotFound("Transaction not found")
	}

	callerID, _ := middleware.CallerID(c)
	role, _ := middleware.CallerRole(c)

	if role == model.RoleAdmin || txn.UserID == callerID {
		return &txn, nil
	}
	if txn.Booking != nil && txn.Booking.Property != nil && txn.Booking.Property.OwnerID == callerID {
		return &txn, nil
	}
	return nil, httperr.Forbidden("You cannot access this transaction")
}

// GetTransaction returns one ledger entry by its transaction id
func GetTransaction(c echo.Context) error {
	txn, err := loadVisibleTransaction(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, txn)
}

// MyTransactions lists the caller's ledger entries
func MyTransactions(c echo.Context) error {
	callerID, _ := middleware.CallerID(c)

	query := database.GetDB().Where("user_id = ?", callerID)
	if txnType := c.QueryParam("type"); txnType != "" {
		query = query.Where("type = ?", txnType)
	}
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var txns []model.Transaction
	if result := query.Order("created_at DESC").Find(&txns); result.Error != nil {
		return httperr.Internal("Failed to retrieve transactions")
	}
	return c.JSON(http.StatusOK, txns)
}

type statusChangeRequest struct {
	Status          model.PaymentStatus `json:"status"`
	ReferenceID     string              `json:"reference_id"`
	FailureReason   string              `json:"failure_reason"`
	GatewayResponse string              `json:"gateway_response"`
}

// UpdatePaymentStatus settles or fails a pending transaction
func UpdatePaymentStatus(c echo.Context) error {
	txn, err := loadVisibleTransaction(c)
	if err != nil {
		return err
	}

	var req statusChangeRequest
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest("Invalid request data")
	}

	return applyStatusChange(c, txn, &req)
}

// PaymentCallback accepts the gateway's settlement notification
func PaymentCallback(c echo.Context) error {
	var req struct {
		TransactionID string `json:"transaction_id"`
		statusChangeRequest
	}
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest("Invalid request data")
	}

	var txn model.Transaction
	result := database.GetDB().
		Preload("Booking").Preload("Booking.Property").
		Where("transaction_id = ?", req.TransactionID).
		First(&txn)
	if result.Error != nil {
		return httperr.NotFound("Transaction not found")
	}

	return applyStatusChange(c, &txn, &req.statusChangeRequest)
}

func applyStatusChange(c echo.Context, txn *model.Transaction, req *statusChangeRequest) error {
	log := logger.FromEcho(c)

	if !payment.CanTransition(txn.Status, req.Status) {
		return httperr.BadRequest(fmt.Sprintf("transaction cannot move from %s to %s", txn.Status, req.Status))
	}

	now := time.Now()
	updates := map[string]interface{}{"status": req.Status}
	if req.ReferenceID != "" {
		updates["reference_id"] = req.ReferenceID
	}
	if req.GatewayResponse != "" {
		updates["payment_gateway_response"] = req.GatewayResponse
	}

	switch req.Status {
	case model.PaymentSuccess:
		updates["payment_date"] = now
		updates["receipt_url"] = fmt.Sprintf("%s/api/v1/transactions/%s/receipt", AppConfig.Server.BaseURL, txn.TransactionID)
	case model.PaymentFailed:
		reason := req.FailureReason
		if reason == "" {
			reason = "Payment failed"
		}
		updates["failure_reason"] = reason
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(txn).Updates(updates).Error; err != nil {
			return err
		}

		if req.Status != model.PaymentSuccess {
			return nil
		}

		// A settled deposit or rent payment takes the listing off the
		// market
		if payment.TriggersRented(txn) {
			var b model.Booking
			if err := tx.First(&b, *txn.BookingID).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.Property{}).
				Where("id = ?", b.PropertyID).
				Update("status", model.ListingRented).Error; err != nil {
				return err
			}
		}

		// A settled refund closes out the original transaction
		if txn.Type == model.TxnRefund && txn.ReferenceID != "" {
			return settleRefund(tx, txn)
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to update payment status",
			zap.String("transaction_id", txn.TransactionID),
			zap.Error(err))
		return httperr.Internal("Failed to update payment status")
	}

	if req.Status == model.PaymentSuccess {
		prometheus.RecordPaymentAmount(string(txn.Type), txn.TotalAmount)
		sendReceipt(txn)
	}
	prometheus.RecordPaymentOperation("status_"+string(req.Status), string(txn.Type))
	log.Info("Payment status updated",
		zap.String("transaction_id", txn.TransactionID),
		zap.String("status", string(req.Status)))

	txn.Status = req.Status
	return c.JSON(http.StatusOK, txn)
}

func settleRefund(tx *gorm.DB, refund *model.Transaction) error {
	var original model.Transaction
	if err := tx.Where("transaction_id = ?", refund.ReferenceID).First(&original).Error; err != nil {
		return err
	}

	// Sum earlier settled refunds only; the one being settled is already
	// SUCCESS in this transaction and is added separately
	var refunded float64
	err := tx.Model(&model.Transaction{}).
		Where("type = ? AND reference_id = ? AND status = ? AND id <> ?",
			model.TxnRefund, original.TransactionID, model.PaymentSuccess, refund.ID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&refunded).Error
	if err != nil {
		return err
	}
	refunded += refund.Amount

	return tx.Model(&original).
		Update("status", payment.RefundedStatus(&original, refunded)).Error
}

func sendReceipt(txn *model.Transaction) {
	var user model.User
	if result := database.GetDB().First(&user, txn.UserID); result.Error != nil {
		return
	}
	id, total := txn.TransactionID, txn.TotalAmount
	mailer.Dispatch("payment_receipt", func() error {
		return Notifier.SendPaymentReceipt(user.Email, user.FullName(), id, total)
	})
}

// TransactionReceipt renders a settled transaction as a receipt
func TransactionReceipt(c echo.Context) error {
	txn, err := loadVisibleTransaction(c)
	if err != nil {
		return err
	}

	switch txn.Status {
	case model.PaymentSuccess, model.PaymentRefunded, model.PaymentPartiallyRefunded:
	default:
		return httperr.BadRequest("A receipt is only available for settled transactions")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"transaction_id": txn.TransactionID,
		"type":           txn.Type,
		"amount":         txn.Amount,
		"fees":           txn.Fees,
		"tax":            txn.Tax,
		"total_amount":   txn.TotalAmount,
		"payment_method": txn.PaymentMethod,
		"payment_date":   txn.PaymentDate,
		"status":         txn.Status,
		"description":    txn.Description,
	})
}

// InitiateRefund creates a REFUND ledger entry against a settled
// transaction
func InitiateRefund(c echo.Context) error {
	log := logger.FromEcho(c)

	txn, err := loadVisibleTransaction(c)
	if err != nil {
		return err
	}

	var req struct {
		Amount float64 `json:"amount"`
		Reason string  `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest("Invalid request data")
	}
	if req.Amount == 0 {
		req.Amount = txn.Amount
	}

	if err := payment.ValidateRefund(txn, req.Amount); err != nil {
		log.Warn("Refund rejected",
			zap.String("transaction_id", txn.TransactionID),
			zap.Error(err))
		return httperr.BadRequest(err.Error())
	}

	refund := payment.NewRefund(txn, req.Amount, req.Reason)
	if result := database.GetDB().Create(refund); result.Error != nil {
		log.Error("Failed to create refund", zap.Error(result.Error))
		return httperr.Internal("Failed to initiate refund")
	}

	prometheus.RecordPaymentOperation("refund", string(txn.Type))
	log.Info("Refund initiated",
		zap.String("transaction_id", refund.TransactionID),
		zap.String("original", txn.TransactionID),
		zap.Float64("amount", req.Amount))

	return c.JSON(http.StatusCreated, refund)
}

// TransactionStats returns the all-time settled total and today's
// payment activity. Refund entries are excluded from the total.
func TransactionStats(c echo.Context) error {
	log := logger.FromEcho(c)

	var total float64
	err := database.GetDB().Model(&model.Transaction{}).
		Where("status = ? AND type <> ?", model.PaymentSuccess, model.TxnRefund).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	if err != nil {
		log.Error("Failed to aggregate total revenue", zap.Error(err))
		return httperr.Internal("Failed to retrieve statistics")
	}

	midnight := time.Now().Truncate(24 * time.Hour)
	type todayStats struct {
		Count int64   `json:"count"`
		Sum   float64 `json:"sum"`
	}
	var today todayStats
	err = database.GetDB().Model(&model.Transaction{}).
		Where("status = ? AND payment_date >= ?", model.PaymentSuccess, midnight).
		Select("COUNT(*) as count, COALESCE(SUM(total_amount), 0) as sum").
		Scan(&today).Error
	if err != nil {
		log.Error("Failed to aggregate today's payments", zap.Error(err))
		return httperr.Internal("Failed to retrieve statistics")
	}

	var pending int64
	database.GetDB().Model(&model.Transaction{}).
		Where("status = ?", model.PaymentPending).
		Count(&pending)

	return c.JSON(http.StatusOK, echo.Map{
		"total_revenue": total,
		"today":         today,
		"pending":       pending,
	})
}

// Revenue aggregates settled transaction volume by type, optionally
// bucketed by calendar month
func Revenue(c echo.Context) error {
	log := logger.FromEcho(c)

	query := database.GetDB().Model(&model.Transaction{}).Where("status = ?", model.PaymentSuccess)

	if from := c.QueryParam("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return httperr.BadRequest("A valid 'from' timestamp is required")
		}
		query = query.Where("payment_date >= ?", t)
	}
	if to := c.QueryParam("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return httperr.BadRequest("A valid 'to' timestamp is required")
		}
		query = query.Where("payment_date < ?", t)
	}

	if c.QueryParam("group_by") == "month" {
		type monthlyRevenue struct {
			Month string                `json:"month"`
			Type  model.TransactionType `json:"type"`
			Total float64               `json:"total"`
			Count int64                 `json:"count"`
		}
		var rows []monthlyRevenue
		result := query.
			Select("to_char(payment_date, 'YYYY-MM') as month, type, SUM(total_amount) as total, COUNT(*) as count").
			Group("month, type").
			Order("month, type").
			Scan(&rows)
		if result.Error != nil {
			log.Error("Failed to aggregate monthly revenue", zap.Error(result.Error))
			return httperr.Internal("Failed to aggregate revenue")
		}
		return c.JSON(http.StatusOK, rows)
	}

	type typeRevenue struct {
		Type  model.TransactionType `json:"type"`
		Total float64               `json:"total"`
		Count int64                 `json:"count"`
	}
	var rows []typeRevenue
	result := query.
		Select("type, SUM(total_amount) as total, COUNT(*) as count").
		Group("type").
		Order("type").
		Scan(&rows)
	if result.Error != nil {
		log.Error("Failed to aggregate revenue", zap.Error(result.Error))
		return httperr.Internal("Failed to aggregate revenue")
	}
	return c.JSON(http.StatusOK, rows)
}
