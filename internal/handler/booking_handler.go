package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ritikk978/next-nest/internal/booking"
	"github.com/ritikk978/next-nest/internal/httperr"
	"github.com/ritikk978/next-nest/internal/mailer"
	"github.com/ritikk978/next-nest/internal/middleware"
	"github.com/ritikk978/next-nest/internal/model"
	"github.com/ritikk978/next-nest/pkg/database"
	"github.com/ritikk978/next-nest/pkg/logger"
	"github.com/ritikk978/next-nest/prometheus"
)

// BookingRequest defines the structure for appointment creation requests
type BookingRequest struct {
	PropertyID              uint              `json:"property_id"`
	BookingType             model.BookingType `json:"booking_type"`
	ScheduledTime           time.Time         `json:"scheduled_time"`
	Notes                   string            `json:"notes"`
	ContactName             string            `json:"contact_name"`
	ContactEmail            string            `json:"contact_email"`
	ContactPhone            string            `json:"contact_phone"`
	IsOfflineVisit          bool              `json:"is_offline_visit"`
	RequiresAgentAssistance bool              `json:"requires_agent_assistance"`
	TenantRequirements      string            `json:"tenant_requirements"`
}

// nonCancelledTimes loads the scheduled times that can still block a
// slot on a property
func nonCancelledTimes(tx *gorm.DB, propertyID uint, around time.Time) ([]time.Time, error) {
	from, to := booking.ConflictWindow(around)

	var times []time.Time
	result := tx.Model(&model.Booking{}).
		Where("property_id = ? AND status <> ?", propertyID, model.BookingCancelled).
		Where("scheduled_time >= ? AND scheduled_time <= ?", from, to).
		Pluck("scheduled_time", &times)
	return times, result.Error
}

// CreateBooking handles scheduling an appointment on a property
func CreateBooking(c echo.Context) error {
	log := logger.FromEcho(c)
	log.Info("Creating new booking")

	callerID, _ := middleware.CallerID(c)

	var req BookingRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid request data", zap.Error(err))
		return httperr.BadRequest("Invalid request data")
	}

	fields := make(map[string]string)
	if req.PropertyID == 0 {
		fields["property_id"] = "Property id is required"
	}
	switch req.BookingType {
	case model.BookingPropertyVisit, model.BookingVirtualTour, model.BookingPropertyUnlock:
	default:
		fields["booking_type"] = "Booking type must be PROPERTY_VISIT, VIRTUAL_TOUR or PROPERTY_UNLOCK"
	}
	if req.ScheduledTime.IsZero() || req.ScheduledTime.Before(time.Now()) {
		fields["scheduled_time"] = "Scheduled time must be in the future"
	}
	if len(fields) > 0 {
		return httperr.Validation(fields)
	}

	var property model.Property
	if result := database.GetDB().First(&property, req.PropertyID); result.Error != nil {
		return httperr.NotFound("Property not found")
	}
	if !property.IsActive {
		return httperr.BadRequest("This listing does not accept bookings")
	}
	if property.OwnerID == callerID {
		return httperr.BadRequest("You cannot book a visit to your own listing")
	}

	newBooking := model.Booking{
		PropertyID:              property.ID,
		TenantID:                callerID,
		BookingType:             req.BookingType,
		Status:                  model.BookingPending,
		ScheduledTime:           req.ScheduledTime,
		Notes:                   req.Notes,
		ContactName:             req.ContactName,
		ContactEmail:            req.ContactEmail,
		ContactPhone:            req.ContactPhone,
		IsOfflineVisit:          req.IsOfflineVisit,
		RequiresAgentAssistance: req.RequiresAgentAssistance,
		TenantRequirements:      req.TenantRequirements,
	}

	// The availability check and the insert share one transaction.
	// Concurrent requests can still interleave between check and
	// commit; read-committed keeps this a known race.
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		existing, err := nonCancelledTimes(tx, property.ID, req.ScheduledTime)
		if err != nil {
			return err
		}
		if !booking.SlotAvailable(req.ScheduledTime, existing) {
			prometheus.SlotConflictsCounter.Inc()
			return httperr.Conflict("The requested time slot is not available")
		}
		return tx.Create(&newBooking).Error
	})
	if err != nil {
		if herr, ok := err.(*httperr.Error); ok {
			log.Warn("Booking slot conflict",
				zap.Uint("property_id", property.ID),
				zap.Time("scheduled_time", req.ScheduledTime))
			return herr
		}
		log.Error("Failed to create booking", zap.Error(err))
		return httperr.Internal("Failed to create booking")
	}

	var tenant, owner *model.User
	var tenantRow, ownerRow model.User
	if database.GetDB().First(&tenantRow, callerID).Error == nil {
		tenant = &tenantRow
	}
	if database.GetDB().First(&ownerRow, property.OwnerID).Error == nil {
		owner = &ownerRow
	}
	notifyBookingCreated(&newBooking, &property, tenant, owner)

	prometheus.RecordBookingOperation("create")
	log.Info("Booking created",
		zap.Uint("booking_id", newBooking.ID),
		zap.Uint("property_id", property.ID),
		zap.Time("scheduled_time", newBooking.ScheduledTime))

	return c.JSON(http.StatusCreated, newBooking)
}

// notifyBookingCreated tells both parties a visit was requested
func notifyBookingCreated(b *model.Booking, property *model.Property, tenant, owner *model.User) {
	when := b.ScheduledTime.Format(time.RFC1123)
	title := property.Title

	if tenant != nil {
		email, name := tenant.Email, tenant.FullName()
		mailer.Dispatch("booking_requested", func() error {
			return Notifier.SendBookingRequested(email, name, title, when)
		})
	}
	if owner != nil {
		email, name := owner.Email, owner.FullName()
		mailer.Dispatch("booking_received", func() error {
			return Notifier.SendBookingReceived(email, name, title, when)
		})
	}
}

// AvailableSlots lists bookable half-hour slots on a property within a
// date range
func AvailableSlots(c echo.Context) error {
	log := logger.FromEcho(c)

	var property model.Property
	if result := database.GetDB().First(&property, c.Param("id")); result.Error != nil {
		return httperr.NotFound("Property not found")
	}

	from, err := time.Parse(time.RFC3339, c.QueryParam("from"))
	if err != nil {
		return httperr.BadRequest("A valid 'from' timestamp is required")
	}
	to, err := time.Parse(time.RFC3339, c.QueryParam("to"))
	if err != nil || !to.After(from) {
		return httperr.BadRequest("A valid 'to' timestamp after 'from' is required")
	}
	if to.Sub(from) > 7*24*time.Hour {
		return httperr.BadRequest("The slot range cannot exceed 7 days")
	}

	var existing []time.Time
	result := database.GetDB().Model(&model.Booking{}).
		Where("property_id = ? AND status <> ?", property.ID, model.BookingCancelled).
		Where("scheduled_time >= ? AND scheduled_time <= ?", from.Add(-booking.SlotSpacing), to.Add(booking.SlotSpacing)).
		Pluck("scheduled_time", &existing)
	if result.Error != nil {
		log.Error("Failed to load existing bookings", zap.Error(result.Error))
		return httperr.Internal("Failed to compute available slots")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"property_id": property.ID,
		"slots":       booking.VisitSlots(from, to, existing),
	})
}

func loadBookingWithSides(c echo.Context) (*model.Booking, booking.Side, error) {
	var b model.Booking
	result := database.GetDB().Preload("Property").Preload("Tenant").First(&b, c.Param("id"))
	if result.Error != nil {
		return nil, "", httperr.NotFound("Booking not found")
	}

	callerID, _ := middleware.CallerID(c)
	role, _ := middleware.CallerRole(c)

	switch {
	case role == model.RoleAdmin:
		return &b, booking.SideAdmin, nil
	case b.TenantID == callerID:
		return &b, booking.SideTenant, nil
	case b.Property != nil && b.Property.OwnerID == callerID:
		return &b, booking.SideOwner, nil
	default:
		return nil, "", httperr.Forbidden("You cannot access this booking")
	}
}

// GetBooking returns one booking, visible to its tenant, the property
// owner and admins
func GetBooking(c echo.Context) error {
	b, _, err := loadBookingWithSides(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

// MyBookings returns the caller's bookings as tenant
func MyBookings(c echo.Context) error {
	callerID, _ := middleware.CallerID(c)

	query := database.GetDB().Preload("Property").Where("tenant_id = ?", callerID)
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if from := c.QueryParam("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			query = query.Where("scheduled_time >= ?", t)
		}
	}
	if to := c.QueryParam("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			query = query.Where("scheduled_time < ?", t)
		}
	}

	var bookings []model.Booking
	if result := query.Order("scheduled_time DESC").Find(&bookings); result.Error != nil {
		return httperr.Internal("Failed to retrieve bookings")
	}
	return c.JSON(http.StatusOK, bookings)
}

// PropertyBookings returns every booking on one of the caller's
// listings
func PropertyBookings(c echo.Context) error {
	var property model.Property
	if result := database.GetDB().First(&property, c.Param("id")); result.Error != nil {
		return httperr.NotFound("Property not found")
	}

	callerID, _ := middleware.CallerID(c)
	role, _ := middleware.CallerRole(c)
	if property.OwnerID != callerID && role != model.RoleAdmin {
		return httperr.Forbidden("You cannot view bookings for this listing")
	}

	var bookings []model.Booking
	result := database.GetDB().Preload("Tenant").
		Where("property_id = ?", property.ID).
		Order("scheduled_time DESC").
		Find(&bookings)
	if result.Error != nil {
		return httperr.Internal("Failed to retrieve bookings")
	}
	return c.JSON(http.StatusOK, bookings)
}

// UpdateBooking reschedules an appointment. Only the tenant may move
// it, and the new slot goes through the same availability check.
func UpdateBooking(c echo.Context) error {
	log := logger.FromEcho(c)

	b, side, err := loadBookingWithSides(c)
	if err != nil {
		return err
	}
	if side != booking.SideTenant && side != booking.SideAdmin {
		return httperr.Forbidden("Only the tenant can reschedule this booking")
	}
	if booking.IsTerminal(b.Status) {
		return httperr.BadRequest("A closed booking cannot be rescheduled")
	}

	var req struct {
		ScheduledTime time.Time `json:"scheduled_time"`
		Notes         *string   `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest("Invalid request data")
	}
	if req.ScheduledTime.IsZero() || req.ScheduledTime.Before(time.Now()) {
		return httperr.Validation(map[string]string{"scheduled_time": "Scheduled time must be in the future"})
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		existing, err := nonCancelledTimes(tx, b.PropertyID, req.ScheduledTime)
		if err != nil {
			return err
		}
		// The booking's own current slot does not block its move
		others := existing[:0]
		for _, t := range existing {
			if !t.Equal(b.ScheduledTime) {
				others = append(others, t)
			}
		}
		if !booking.SlotAvailable(req.ScheduledTime, others) {
			prometheus.SlotConflictsCounter.Inc()
			return httperr.Conflict("The requested time slot is not available")
		}

		updates := map[string]interface{}{
			"scheduled_time": req.ScheduledTime,
			// A moved appointment needs re-confirmation
			"status":         model.BookingPending,
			"confirmed_time": nil,
		}
		if req.Notes != nil {
			updates["notes"] = *req.Notes
		}
		return tx.Model(b).Updates(updates).Error
	})
	if err != nil {
		if herr, ok := err.(*httperr.Error); ok {
			return herr
		}
		log.Error("Failed to reschedule booking", zap.Uint("booking_id", b.ID), zap.Error(err))
		return httperr.Internal("Failed to reschedule booking")
	}

	prometheus.RecordBookingOperation("reschedule")
	log.Info("Booking rescheduled",
		zap.Uint("booking_id", b.ID),
		zap.Time("scheduled_time", req.ScheduledTime))

	b.ScheduledTime = req.ScheduledTime
	b.Status = model.BookingPending
	return c.JSON(http.StatusOK, b)
}

// UpcomingBookings returns the caller's future non-cancelled
// appointments, soonest first
func UpcomingBookings(c echo.Context) error {
	callerID, _ := middleware.CallerID(c)

	var bookings []model.Booking
	result := database.GetDB().Preload("Property").
		Where("tenant_id = ? AND status <> ?", callerID, model.BookingCancelled).
		Where("scheduled_time > ?", time.Now()).
		Order("scheduled_time ASC").
		Find(&bookings)
	if result.Error != nil {
		return httperr.Internal("Failed to retrieve bookings")
	}
	return c.JSON(http.StatusOK, bookings)
}

// BookingStats returns appointment counts per status and type
func BookingStats(c echo.Context) error {
	log := logger.FromEcho(c)

	type statusCount struct {
		Status model.BookingStatus `json:"status"`
		Count  int64               `json:"count"`
	}
	var byStatus []statusCount
	if result := database.GetDB().Model(&model.Booking{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&byStatus); result.Error != nil {
		log.Error("Failed to aggregate booking stats", zap.Error(result.Error))
		return httperr.Internal("Failed to retrieve statistics")
	}

	type typeCount struct {
		BookingType model.BookingType `json:"booking_type"`
		Count       int64             `json:"count"`
	}
	var byType []typeCount
	if result := database.GetDB().Model(&model.Booking{}).
		Select("booking_type, count(*) as count").
		Group("booking_type").
		Scan(&byType); result.Error != nil {
		log.Error("Failed to aggregate booking stats", zap.Error(result.Error))
		return httperr.Internal("Failed to retrieve statistics")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"by_status": byStatus,
		"by_type":   byType,
	})
}

// UpdateBookingStatus drives the appointment lifecycle
func UpdateBookingStatus(c echo.Context) error {
	log := logger.FromEcho(c)

	b, side, err := loadBookingWithSides(c)
	if err != nil {
		return err
	}

	var req struct {
		Status model.BookingStatus `json:"status"`
		Reason string              `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest("Invalid request data")
	}

	if err := booking.Transition(b.Status, req.Status, side); err != nil {
		if booking.CanTransition(b.Status, req.Status) {
			return httperr.Forbidden(err.Error())
		}
		return httperr.BadRequest(err.Error())
	}

	now := time.Now()
	updates := map[string]interface{}{"status": req.Status}
	switch req.Status {
	case model.BookingConfirmed:
		updates["confirmed_time"] = now
	case model.BookingCompleted:
		updates["completed_at"] = now
	case model.BookingCancelled:
		reason := req.Reason
		if reason == "" {
			reason = "Cancelled by " + string(side)
		}
		updates["cancellation_reason"] = reason
	}

	if result := database.GetDB().Model(b).Updates(updates); result.Error != nil {
		log.Error("Failed to update booking status", zap.Uint("booking_id", b.ID), zap.Error(result.Error))
		return httperr.Internal("Failed to update booking")
	}

	notifyBookingStatus(b, req.Status, req.Reason)
	prometheus.RecordBookingOperation("status_" + string(req.Status))
	log.Info("Booking status updated",
		zap.Uint("booking_id", b.ID),
		zap.String("from", string(b.Status)),
		zap.String("to", string(req.Status)))

	b.Status = req.Status
	return c.JSON(http.StatusOK, b)
}

func notifyBookingStatus(b *model.Booking, status model.BookingStatus, reason string) {
	if b.Tenant == nil || b.Property == nil {
		return
	}
	email, name, title := b.Tenant.Email, b.Tenant.FullName(), b.Property.Title

	switch status {
	case model.BookingConfirmed:
		when := b.ScheduledTime.Format(time.RFC1123)
		mailer.Dispatch("booking_confirmed", func() error {
			return Notifier.SendBookingConfirmed(email, name, title, when)
		})
	case model.BookingCancelled:
		mailer.Dispatch("booking_cancelled", func() error {
			return Notifier.SendBookingCancelled(email, name, title, reason)
		})
	}
}

// AddBookingFeedback records the tenant's rating after a completed
// visit
func AddBookingFeedback(c echo.Context) error {
	log := logger.FromEcho(c)

	var b model.Booking
	if result := database.GetDB().First(&b, c.Param("id")); result.Error != nil {
		return httperr.NotFound("Booking not found")
	}

	callerID, _ := middleware.CallerID(c)
	if !booking.CanLeaveFeedback(&b, callerID) {
		if b.TenantID != callerID {
			return httperr.Forbidden("Only the tenant can leave feedback")
		}
		return httperr.BadRequest("Feedback can only be left on completed visits")
	}

	var req struct {
		Feedback string `json:"feedback"`
		Rating   *int   `json:"rating"`
	}
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest("Invalid request data")
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return httperr.Validation(map[string]string{"rating": "Rating must be between 1 and 5"})
	}

	updates := map[string]interface{}{"feedback_from_tenant": req.Feedback}
	if req.Rating != nil {
		updates["rating_from_tenant"] = *req.Rating
	}

	if result := database.GetDB().Model(&b).Updates(updates); result.Error != nil {
		log.Error("Failed to save feedback", zap.Uint("booking_id", b.ID), zap.Error(result.Error))
		return httperr.Internal("Failed to save feedback")
	}

	log.Info("Booking feedback recorded", zap.Uint("booking_id", b.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Feedback recorded"})
}

// DeleteBooking cancels an appointment on behalf of the tenant. The
// row survives with status CANCELLED.
func DeleteBooking(c echo.Context) error {
	log := logger.FromEcho(c)

	b, side, err := loadBookingWithSides(c)
	if err != nil {
		return err
	}
	if side == booking.SideOwner {
		return httperr.Forbidden("Only the tenant can delete this booking")
	}
	if booking.IsTerminal(b.Status) {
		return httperr.BadRequest("This booking is already closed")
	}

	updates := map[string]interface{}{
		"status":              model.BookingCancelled,
		"cancellation_reason": "Deleted by user",
	}
	if result := database.GetDB().Model(b).Updates(updates); result.Error != nil {
		log.Error("Failed to cancel booking", zap.Uint("booking_id", b.ID), zap.Error(result.Error))
		return httperr.Internal("Failed to delete booking")
	}

	notifyBookingStatus(b, model.BookingCancelled, "Deleted by user")
	prometheus.RecordBookingOperation("delete")
	log.Info("Booking cancelled by deletion", zap.Uint("booking_id", b.ID))

	return c.JSON(http.StatusOK, echo.Map{"message": "Booking deleted"})
}
