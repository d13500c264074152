package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ritikk978/next-nest/internal/httperr"
	"github.com/ritikk978/next-nest/internal/model"
	"github.com/ritikk978/next-nest/pkg/database"
	"github.com/ritikk978/next-nest/pkg/logger"
)

// ServiceRequest defines the structure for catalog entries
type ServiceRequest struct {
	Name                      string                `json:"name"`
	Description               string                `json:"description"`
	Category                  model.ServiceCategory `json:"category"`
	BasePrice                 float64               `json:"base_price"`
	DurationInMinutes         int                   `json:"duration_in_minutes"`
	ServiceAreas              []string              `json:"service_areas"`
	AvailableForOnlineBooking bool                  `json:"available_for_online_booking"`
	DiscountPercentage        *float64              `json:"discount_percentage"`
	TaxIncluded               bool                  `json:"tax_included"`
	TermsAndConditions        string                `json:"terms_and_conditions"`
	CancellationPolicy        string                `json:"cancellation_policy"`
	Featured                  bool                  `json:"featured"`
	ProviderIDs               []uint                `json:"provider_ids"`
}

func validateService(req *ServiceRequest) map[string]string {
	fields := make(map[string]string)
	if req.Name == "" {
		fields["name"] = "Name is required"
	}
	if req.Description == "" {
		fields["description"] = "Description is required"
	}
	if req.BasePrice <= 0 {
		fields["base_price"] = "Base price must be positive"
	}
	if req.DurationInMinutes <= 0 {
		fields["duration_in_minutes"] = "Duration must be positive"
	}
	switch req.Category {
	case model.ServiceCleaning, model.ServiceMoving, model.ServiceRepairs,
		model.ServicePainting, model.ServiceInspection, model.ServiceLegal:
	default:
		fields["category"] = "Unknown service category"
	}
	return fields
}

// CreateService adds an entry to the services catalog
func CreateService(c echo.Context) error {
	log := logger.FromEcho(c)

	var req ServiceRequest
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest("Invalid request data")
	}
	if fields := validateService(&req); len(fields) > 0 {
		return httperr.Validation(fields)
	}

	svc := model.Service{
		Name:                      req.Name,
		Description:               req.Description,
		Category:                  req.Category,
		BasePrice:                 req.BasePrice,
		DurationInMinutes:         req.DurationInMinutes,
		Status:                    model.ServiceActive,
		Featured:                  req.Featured,
		ServiceAreas:              req.ServiceAreas,
		AvailableForOnlineBooking: req.AvailableForOnlineBooking,
		DiscountPercentage:        req.DiscountPercentage,
		TaxIncluded:               req.TaxIncluded,
		TermsAndConditions:        req.TermsAndConditions,
		CancellationPolicy:        req.CancellationPolicy,
	}

	if len(req.ProviderIDs) > 0 {
		var providers []model.ServiceProvider
		if result := database.GetDB().Find(&providers, req.ProviderIDs); result.Error != nil || len(providers) != len(req.ProviderIDs) {
			return httperr.BadRequest("One or more providers do not exist")
		}
		svc.Providers = providers
	}

	if result := database.GetDB().Create(&svc); result.Error != nil {
		log.Error("Failed to create service", zap.Error(result.Error))
		return httperr.Internal("Failed to create service")
	}

	log.Info("Service created", zap.Uint("service_id", svc.ID), zap.String("category", string(svc.Category)))
	return c.JSON(http.StatusCreated, svc)
}

// ListServices searches the active services catalog
func ListServices(c echo.Context) error {
	query := database.GetDB().Where("status = ?", model.ServiceActive)

	if category := c.QueryParam("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if c.QueryParam("featured") == "true" {
		query = query.Where("featured = ?", true)
	}
	if maxPrice := c.QueryParam("max_price"); maxPrice != "" {
		query = query.Where("base_price <= ?", maxPrice)
	}
	if area := c.QueryParam("area"); area != "" {
		// Service areas are stored as a JSON array
		query = query.Where("service_areas::text ILIKE ?", "%\""+area+"\"%")
	}

	var services []model.Service
	if result := query.Order("featured DESC, rating DESC").Find(&services); result.Error != nil {
		return httperr.Internal("Failed to retrieve services")
	}
	return c.JSON(http.StatusOK, services)
}

// GetService returns one catalog entry with its providers
func GetService(c echo.Context) error {
	var svc model.Service
	if result := database.GetDB().Preload("Providers").First(&svc, c.Param("id")); result.Error != nil {
		return httperr.NotFound("Service not found")
	}
	return c.JSON(http.StatusOK, svc)
}

// UpdateService edits a catalog entry
func UpdateService(c echo.Context) error {
	log := logger.FromEcho(c)

	var svc model.Service
	if result := database.GetDB().First(&svc, c.Param("id")); result.Error != nil {
		return httperr.NotFound("Service not found")
	}

	var req ServiceRequest
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest("Invalid request data")
	}
	if fields := validateService(&req); len(fields) > 0 {
		return httperr.Validation(fields)
	}

	svc.Name = req.Name
	svc.Description = req.Description
	svc.Category = req.Category
	svc.BasePrice = req.BasePrice
	svc.DurationInMinutes = req.DurationInMinutes
	svc.Featured = req.Featured
	svc.ServiceAreas = req.ServiceAreas
	svc.AvailableForOnlineBooking = req.AvailableForOnlineBooking
	svc.DiscountPercentage = req.DiscountPercentage
	svc.TaxIncluded = req.TaxIncluded
	svc.TermsAndConditions = req.TermsAndConditions
	svc.CancellationPolicy = req.CancellationPolicy

	if result := database.GetDB().Save(&svc); result.Error != nil {
		log.Error("Failed to update service", zap.Uint("service_id", svc.ID), zap.Error(result.Error))
		return httperr.Internal("Failed to update service")
	}
	return c.JSON(http.StatusOK, svc)
}

// UpdateServiceStatus activates, deactivates or discontinues a catalog
// entry. Rows are never removed.
func UpdateServiceStatus(c echo.Context) error {
	var svc model.Service
	if result := database.GetDB().First(&svc, c.Param("id")); result.Error != nil {
		return httperr.NotFound("Service not found")
	}

	var req struct {
		Status model.ServiceStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest("Invalid request data")
	}
	switch req.Status {
	case model.ServiceActive, model.ServiceInactive, model.ServiceDiscontinued:
	default:
		return httperr.BadRequest("Invalid service status")
	}

	if result := database.GetDB().Model(&svc).Update("status", req.Status); result.Error != nil {
		return httperr.Internal("Failed to update service status")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Status updated", "status": req.Status})
}

// ProviderRequest defines the structure for service provider entries
type ProviderRequest struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	ContactEmail  string `json:"contact_email"`
	ContactPhone  string `json:"contact_phone"`
	Description   string `json:"description"`
	Address       string `json:"address"`
}

// CreateServiceProvider registers a vendor
func CreateServiceProvider(c echo.Context) error {
	log := logger.FromEcho(c)

	var req ProviderRequest
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest("Invalid request data")
	}

	fields := make(map[string]string)
	if req.Name == "" {
		fields["name"] = "Name is required"
	}
	if req.ContactEmail == "" {
		fields["contact_email"] = "Contact email is required"
	}
	if req.ContactPhone == "" {
		fields["contact_phone"] = "Contact phone is required"
	}
	if req.Address == "" {
		fields["address"] = "Address is required"
	}
	if len(fields) > 0 {
		return httperr.Validation(fields)
	}

	provider := model.ServiceProvider{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		ContactEmail:  req.ContactEmail,
		ContactPhone:  req.ContactPhone,
		Description:   req.Description,
		Address:       req.Address,
		IsActive:      true,
	}
	if result := database.GetDB().Create(&provider); result.Error != nil {
		log.Error("Failed to create service provider", zap.Error(result.Error))
		return httperr.Internal("Failed to create service provider")
	}

	log.Info("Service provider created", zap.Uint("provider_id", provider.ID))
	return c.JSON(http.StatusCreated, provider)
}

// ListServiceProviders returns active vendors
func ListServiceProviders(c echo.Context) error {
	var providers []model.ServiceProvider
	if result := database.GetDB().Where("is_active = ?", true).Find(&providers); result.Error != nil {
		return httperr.Internal("Failed to retrieve service providers")
	}
	return c.JSON(http.StatusOK, providers)
}

func loadServiceAndProvider(c echo.Context) (*model.Service, *model.ServiceProvider, error) {
	var svc model.Service
	if result := database.GetDB().Preload("Providers").First(&svc, c.Param("id")); result.Error != nil {
		return nil, nil, httperr.NotFound("Service not found")
	}
	var provider model.ServiceProvider
	if result := database.GetDB().First(&provider, c.Param("providerId")); result.Error != nil {
		return nil, nil, httperr.NotFound("Service provider not found")
	}
	return &svc, &provider, nil
}

// LinkServiceProvider assigns a vendor to a catalog entry
func LinkServiceProvider(c echo.Context) error {
	log := logger.FromEcho(c)

	svc, provider, err := loadServiceAndProvider(c)
	if err != nil {
		return err
	}
	if !provider.IsActive {
		return httperr.BadRequest("An inactive provider cannot be assigned")
	}
	for _, p := range svc.Providers {
		if p.ID == provider.ID {
			return httperr.Conflict("Provider is already assigned to this service")
		}
	}

	if err := database.GetDB().Model(svc).Association("Providers").Append(provider); err != nil {
		log.Error("Failed to link provider",
			zap.Uint("service_id", svc.ID),
			zap.Uint("provider_id", provider.ID),
			zap.Error(err))
		return httperr.Internal("Failed to assign provider")
	}

	log.Info("Provider linked to service",
		zap.Uint("service_id", svc.ID),
		zap.Uint("provider_id", provider.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Provider assigned"})
}

// UnlinkServiceProvider removes a vendor from a catalog entry
func UnlinkServiceProvider(c echo.Context) error {
	log := logger.FromEcho(c)

	svc, provider, err := loadServiceAndProvider(c)
	if err != nil {
		return err
	}

	linked := false
	for _, p := range svc.Providers {
		if p.ID == provider.ID {
			linked = true
			break
		}
	}
	if !linked {
		return httperr.NotFound("Provider is not assigned to this service")
	}

	if err := database.GetDB().Model(svc).Association("Providers").Delete(provider); err != nil {
		log.Error("Failed to unlink provider",
			zap.Uint("service_id", svc.ID),
			zap.Uint("provider_id", provider.ID),
			zap.Error(err))
		return httperr.Internal("Failed to remove provider")
	}

	log.Info("Provider unlinked from service",
		zap.Uint("service_id", svc.ID),
		zap.Uint("provider_id", provider.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Provider removed"})
}
