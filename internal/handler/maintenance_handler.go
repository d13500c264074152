package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ritikk978/next-nest/internal/httperr"
	"github.com/ritikk978/next-nest/internal/middleware"
	"github.com/ritikk978/next-nest/internal/model"
	"github.com/ritikk978/next-nest/pkg/database"
	"github.com/ritikk978/next-nest/pkg/logger"
)

// maintenanceTransitions is the work-order lifecycle
var maintenanceTransitions = map[model.MaintenanceStatus][]model.MaintenanceStatus{
	model.MaintenanceRequested:  {model.MaintenanceScheduled, model.MaintenanceDeclined, model.MaintenanceCancelled},
	model.MaintenanceScheduled:  {model.MaintenanceInProgress, model.MaintenanceCancelled},
	model.MaintenanceInProgress: {model.MaintenanceCompleted, model.MaintenanceCancelled},
}

func maintenanceCanTransition(from, to model.MaintenanceStatus) bool {
	for _, next := range maintenanceTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// MaintenanceRequestPayload defines the structure for work-order creation
type MaintenanceRequestPayload struct {
	PropertyID        uint                  `json:"property_id"`
	Type              model.MaintenanceType `json:"type"`
	Description       string                `json:"description"`
	UrgencyLevel      model.UrgencyLevel    `json:"urgency_level"`
	PreferredDateTime *time.Time            `json:"preferred_date_time"`
	ContactNumber     string                `json:"contact_number"`
}

// CreateMaintenanceRequest raises a work order against a property
func CreateMaintenanceRequest(c echo.Context) error {
	log := logger.FromEcho(c)
	callerID, _ := middleware.CallerID(c)

	var req MaintenanceRequestPayload
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest("Invalid request data")
	}

	fields := make(map[string]string)
	if req.PropertyID == 0 {
		fields["property_id"] = "Property id is required"
	}
	if req.Description == "" {
		fields["description"] = "Description is required"
	}
	switch req.UrgencyLevel {
	case model.UrgencyLow, model.UrgencyMedium, model.UrgencyHigh, model.UrgencyEmergency:
	default:
		fields["urgency_level"] = "Urgency must be LOW, MEDIUM, HIGH or EMERGENCY"
	}
	if len(fields) > 0 {
		return httperr.Validation(fields)
	}

	var property model.Property
	if result := database.GetDB().First(&property, req.PropertyID); result.Error != nil {
		return httperr.NotFound("Property not found")
	}

	mr := model.MaintenanceRequest{
		PropertyID:        property.ID,
		RequesterID:       callerID,
		Type:              req.Type,
		Description:       req.Description,
		UrgencyLevel:      req.UrgencyLevel,
		Status:            model.MaintenanceRequested,
		PreferredDateTime: req.PreferredDateTime,
		ContactNumber:     req.ContactNumber,
		VisibleToLandlord: true,
		VisibleToTenant:   true,
	}

	if result := database.GetDB().Create(&mr); result.Error != nil {
		log.Error("Failed to create maintenance request", zap.Error(result.Error))
		return httperr.Internal("Failed to create maintenance request")
	}

	log.Info("Maintenance request created",
		zap.Uint("request_id", mr.ID),
		zap.Uint("property_id", property.ID),
		zap.String("urgency", string(mr.UrgencyLevel)))
	return c.JSON(http.StatusCreated, mr)
}

// maintenanceSide resolves the caller's standing on a work order
func maintenanceSide(c echo.Context, mr *model.MaintenanceRequest) (requester, owner, admin bool) {
	callerID, _ := middleware.CallerID(c)
	role, _ := middleware.CallerRole(c)
	requester = mr.RequesterID == callerID
	owner = mr.Property != nil && mr.Property.OwnerID == callerID
	admin = role == model.RoleAdmin
	return requester, owner, admin
}

func loadMaintenanceRequest(c echo.Context) (*model.MaintenanceRequest, error) {
	var mr model.MaintenanceRequest
	result := database.GetDB().Preload("Property").Preload("Requester").First(&mr, c.Param("id"))
	if result.Error != nil {
		return nil, httperr.NotFound("Maintenance request not found")
	}
	return &mr, nil
}

// GetMaintenanceRequest returns one work order
func GetMaintenanceRequest(c echo.Context) error {
	mr, err := loadMaintenanceRequest(c)
	if err != nil {
		return err
	}

	requester, owner, admin := maintenanceSide(c, mr)
	if (requester && mr.VisibleToTenant) || (owner && mr.VisibleToLandlord) || admin {
		return c.JSON(http.StatusOK, mr)
	}
	return httperr.Forbidden("You cannot access this maintenance request")
}

// MyMaintenanceRequests lists work orders the caller raised
func MyMaintenanceRequests(c echo.Context) error {
	callerID, _ := middleware.CallerID(c)

	query := database.GetDB().Preload("Property").
		Where("requester_id = ? AND visible_to_tenant = ?", callerID, true)
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []model.MaintenanceRequest
	if result := query.Order("created_at DESC").Find(&requests); result.Error != nil {
		return httperr.Internal("Failed to retrieve maintenance requests")
	}
	return c.JSON(http.StatusOK, requests)
}

// PropertyMaintenanceRequests lists work orders on a property for its
// owner
func PropertyMaintenanceRequests(c echo.Context) error {
	var property model.Property
	if result := database.GetDB().First(&property, c.Param("id")); result.Error != nil {
		return httperr.NotFound("Property not found")
	}

	callerID, _ := middleware.CallerID(c)
	role, _ := middleware.CallerRole(c)
	if property.OwnerID != callerID && role != model.RoleAdmin {
		return httperr.Forbidden("You cannot view maintenance requests for this listing")
	}

	var requests []model.MaintenanceRequest
	result := database.GetDB().Preload("Requester").
		Where("property_id = ? AND visible_to_landlord = ?", property.ID, true).
		Order("created_at DESC").
		Find(&requests)
	if result.Error != nil {
		return httperr.Internal("Failed to retrieve maintenance requests")
	}
	return c.JSON(http.StatusOK, requests)
}

// UpdateMaintenanceStatus moves a work order through its lifecycle.
// Scheduling and resolution belong to the property owner; the
// requester can only cancel.
func UpdateMaintenanceStatus(c echo.Context) error {
	log := logger.FromEcho(c)

	mr, err := loadMaintenanceRequest(c)
	if err != nil {
		return err
	}

	requester, owner, admin := maintenanceSide(c, mr)
	if !requester && !owner && !admin {
		return httperr.Forbidden("You cannot access this maintenance request")
	}

	var req struct {
		Status                  model.MaintenanceStatus `json:"status"`
		ScheduledDateTime       *time.Time              `json:"scheduled_date_time"`
		ResolutionNotes         string                  `json:"resolution_notes"`
		LandlordNotes           string                  `json:"landlord_notes"`
		AssignedServiceProvider string                  `json:"assigned_service_provider"`
	}
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest("Invalid request data")
	}

	if !maintenanceCanTransition(mr.Status, req.Status) {
		return httperr.BadRequest("Invalid maintenance status transition")
	}
	if req.Status != model.MaintenanceCancelled && !owner && !admin {
		return httperr.Forbidden("Only the property owner can set this status")
	}

	updates := map[string]interface{}{"status": req.Status}
	switch req.Status {
	case model.MaintenanceScheduled:
		if req.ScheduledDateTime == nil {
			return httperr.Validation(map[string]string{"scheduled_date_time": "A scheduled time is required"})
		}
		updates["scheduled_date_time"] = *req.ScheduledDateTime
		if req.AssignedServiceProvider != "" {
			updates["assigned_service_provider"] = req.AssignedServiceProvider
		}
	case model.MaintenanceCompleted:
		updates["completed_date_time"] = time.Now()
		updates["resolution_notes"] = req.ResolutionNotes
	}
	if req.LandlordNotes != "" {
		updates["landlord_notes"] = req.LandlordNotes
	}

	if result := database.GetDB().Model(mr).Updates(updates); result.Error != nil {
		log.Error("Failed to update maintenance status", zap.Uint("request_id", mr.ID), zap.Error(result.Error))
		return httperr.Internal("Failed to update maintenance request")
	}

	log.Info("Maintenance status updated",
		zap.Uint("request_id", mr.ID),
		zap.String("from", string(mr.Status)),
		zap.String("to", string(req.Status)))
	return c.JSON(http.StatusOK, echo.Map{"message": "Status updated", "status": req.Status})
}

// AddMaintenanceFeedback records the requester's satisfaction after
// completion
func AddMaintenanceFeedback(c echo.Context) error {
	log := logger.FromEcho(c)

	mr, err := loadMaintenanceRequest(c)
	if err != nil {
		return err
	}

	callerID, _ := middleware.CallerID(c)
	if mr.RequesterID != callerID {
		return httperr.Forbidden("Only the requester can leave feedback")
	}
	if mr.Status != model.MaintenanceCompleted {
		return httperr.BadRequest("Feedback can only be left on completed requests")
	}

	var req struct {
		SatisfactionRating *int   `json:"satisfaction_rating"`
		Feedback           string `json:"feedback"`
	}
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest("Invalid request data")
	}
	if req.SatisfactionRating != nil && (*req.SatisfactionRating < 1 || *req.SatisfactionRating > 5) {
		return httperr.Validation(map[string]string{"satisfaction_rating": "Rating must be between 1 and 5"})
	}

	updates := map[string]interface{}{"feedback": req.Feedback}
	if req.SatisfactionRating != nil {
		updates["satisfaction_rating"] = *req.SatisfactionRating
	}

	if result := database.GetDB().Model(mr).Updates(updates); result.Error != nil {
		log.Error("Failed to save maintenance feedback", zap.Uint("request_id", mr.ID), zap.Error(result.Error))
		return httperr.Internal("Failed to save feedback")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Feedback recorded"})
}

// DeleteMaintenanceRequest cancels a work order. The row survives with
// status CANCELLED.
func DeleteMaintenanceRequest(c echo.Context) error {
	log := logger.FromEcho(c)

	mr, err := loadMaintenanceRequest(c)
	if err != nil {
		return err
	}

	requester, _, admin := maintenanceSide(c, mr)
	if !requester && !admin {
		return httperr.Forbidden("Only the requester can delete this maintenance request")
	}
	if mr.Status == model.MaintenanceCompleted || mr.Status == model.MaintenanceCancelled {
		return httperr.BadRequest("This maintenance request is already closed")
	}

	if result := database.GetDB().Model(mr).Update("status", model.MaintenanceCancelled); result.Error != nil {
		log.Error("Failed to cancel maintenance request", zap.Uint("request_id", mr.ID), zap.Error(result.Error))
		return httperr.Internal("Failed to delete maintenance request")
	}

	log.Info("Maintenance request cancelled", zap.Uint("request_id", mr.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Maintenance request deleted"})
}
