package handler

import (
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ritikk978/next-nest/internal/httperr"
	"github.com/ritikk978/next-nest/internal/middleware"
	"github.com/ritikk978/next-nest/internal/model"
	"github.com/ritikk978/next-nest/internal/policy"
	"github.com/ritikk978/next-nest/internal/storage"
	"github.com/ritikk978/next-nest/pkg/database"
	"github.com/ritikk978/next-nest/pkg/logger"
	"github.com/ritikk978/next-nest/pkg/redisutil"
	"github.com/ritikk978/next-nest/prometheus"
)

const listingCachePrefix = "listings"

// FileStore holds uploaded images, wired at startup
var FileStore storage.FileStorage

// PropertyRequest defines the structure for listing creation/update requests
type PropertyRequest struct {
	Title               string                      `json:"title"`
	Description         string                      `json:"description"`
	PropertyType        model.PropertyType          `json:"property_type"`
	BHKType             int                         `json:"bhk_type"`
	RentAmount          float64                     `json:"rent_amount"`
	SecurityDeposit     float64                     `json:"security_deposit"`
	MaintenanceCharges  float64                     `json:"maintenance_charges"`
	LockInPeriod        int                         `json:"lock_in_period"`
	SquareFeet          float64                     `json:"square_feet"`
	City                string                      `json:"city"`
	Locality            string                      `json:"locality"`
	FullAddress         string                      `json:"full_address"`
	ProjectName         string                      `json:"project_name"`
	Latitude            *float64                    `json:"latitude"`
	Longitude           *float64                    `json:"longitude"`
	FurnishingStatus    model.FurnishingStatus      `json:"furnishing_status"`
	OwnershipType       model.PropertyOwnershipType `json:"ownership_type"`
	FloorNumber         *int                        `json:"floor_number"`
	TotalFloors         *int                        `json:"total_floors"`
	PropertyAge         int                         `json:"property_age"`
	ParkingAvailable    bool                        `json:"parking_available"`
	PreferredTenantType string                      `json:"preferred_tenant_type"`
	Amenities           []string                    `json:"amenities"`
	IsReadyToMove       *bool                       `json:"is_ready_to_move"`
	IsPetFriendly       *bool                       `json:"is_pet_friendly"`
	Brokerage           *float64                    `json:"brokerage"`
}

func validateProperty(req *PropertyRequest) map[string]string {
	fields := make(map[string]string)
	if req.Title == "" {
		fields["title"] = "Title is required"
	}
	if req.Description == "" {
		fields["description"] = "Description is required"
	}
	if req.RentAmount <= 0 {
		fields["rent_amount"] = "Rent amount must be positive"
	}
	if req.SecurityDeposit < 0 {
		fields["security_deposit"] = "Security deposit cannot be negative"
	}
	if req.BHKType <= 0 {
		fields["bhk_type"] = "BHK type must be positive"
	}
	if req.City == "" {
		fields["city"] = "City is required"
	}
	if req.Locality == "" {
		fields["locality"] = "Locality is required"
	}
	if req.FullAddress == "" {
		fields["full_address"] = "Full address is required"
	}
	return fields
}

// CreateProperty handles creating a new listing
func CreateProperty(c echo.Context) error {
	log := logger.FromEcho(c)
	log.Info("Creating new property listing")

	callerID, _ := middleware.CallerID(c)
	role, _ := middleware.CallerRole(c)
	if role != model.RoleLandlord && role != model.RoleBroker && role != model.RoleAdmin {
		return httperr.Forbidden("Only landlords and brokers can create listings")
	}

	var req PropertyRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid request data", zap.Error(err))
		return httperr.BadRequest("Invalid request data")
	}
	if fields := validateProperty(&req); len(fields) > 0 {
		return httperr.Validation(fields)
	}

	property := model.Property{
		Title:               req.Title,
		Description:         req.Description,
		PropertyType:        req.PropertyType,
		BHKType:             req.BHKType,
		RentAmount:          req.RentAmount,
		SecurityDeposit:     req.SecurityDeposit,
		MaintenanceCharges:  req.MaintenanceCharges,
		LockInPeriod:        req.LockInPeriod,
		SquareFeet:          req.SquareFeet,
		City:                req.City,
		Locality:            req.Locality,
		FullAddress:         req.FullAddress,
		ProjectName:         req.ProjectName,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		FurnishingStatus:    req.FurnishingStatus,
		OwnershipType:       req.OwnershipType,
		FloorNumber:         req.FloorNumber,
		TotalFloors:         req.TotalFloors,
		PropertyAge:         req.PropertyAge,
		ParkingAvailable:    req.ParkingAvailable,
		PreferredTenantType: req.PreferredTenantType,
		Status:              model.ListingPendingVerification,
		OwnerID:             callerID,
		Amenities:           req.Amenities,
		IsActive:            true,
		IsReadyToMove:       req.IsReadyToMove == nil || *req.IsReadyToMove,
		IsPetFriendly:       req.IsPetFriendly != nil && *req.IsPetFriendly,
		Brokerage:           req.Brokerage,
	}

	if result := database.GetDB().Create(&property); result.Error != nil {
		log.Error("Failed to create property", zap.Error(result.Error))
		return httperr.Internal("Failed to create listing")
	}

	invalidateListingCache(c)
	prometheus.RecordPropertyOperation("create")
	log.Info("Property created", zap.Uint("property_id", property.ID), zap.String("city", property.City))

	return c.JSON(http.StatusCreated, property)
}

// ListProperties handles the public listing search. Results for a
// filter combination are cached until the next listing mutation.
func ListProperties(c echo.Context) error {
	log := logger.FromEcho(c)

	params := map[string]string{}
	for _, name := range []string{"search", "city", "locality", "property_type", "bhk_type", "furnishing_status",
		"min_rent", "max_rent", "pet_friendly", "ready_to_move", "parking", "max_age", "tenant_type",
		"amenities", "page", "size"} {
		if v := c.QueryParam(name); v != "" {
			params[name] = v
		}
	}

	cacheKey := redisutil.QueryCacheKey(listingCachePrefix, params)
	var cached []model.Property
	if hit, err := redisutil.GetCached(c.Request().Context(), cacheKey, &cached); err == nil && hit {
		prometheus.ListingCacheHits.Inc()
		return c.JSON(http.StatusOK, cached)
	}
	prometheus.ListingCacheMisses.Inc()

	query := database.GetDB().Where("is_active = ?", true).Where("status = ?", model.ListingActive)

	if term := params["search"]; term != "" {
		pattern := "%" + term + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ? OR locality ILIKE ?", pattern, pattern, pattern)
	}
	if city := params["city"]; city != "" {
		query = query.Where("city = ?", city)
	}
	if locality := params["locality"]; locality != "" {
		query = query.Where("locality = ?", locality)
	}
	if pt := params["property_type"]; pt != "" {
		query = query.Where("property_type = ?", pt)
	}
	if bhk := params["bhk_type"]; bhk != "" {
		query = query.Where("bhk_type = ?", bhk)
	}
	if fs := params["furnishing_status"]; fs != "" {
		query = query.Where("furnishing_status = ?", fs)
	}
	if minRent := params["min_rent"]; minRent != "" {
		query = query.Where("rent_amount >= ?", minRent)
	}
	if maxRent := params["max_rent"]; maxRent != "" {
		query = query.Where("rent_amount <= ?", maxRent)
	}
	if params["pet_friendly"] == "true" {
		query = query.Where("is_pet_friendly = ?", true)
	}
	if params["ready_to_move"] == "true" {
		query = query.Where("is_ready_to_move = ?", true)
	}
	if params["parking"] == "true" {
		query = query.Where("parking_available = ?", true)
	}
	if maxAge := params["max_age"]; maxAge != "" {
		query = query.Where("property_age <= ?", maxAge)
	}
	if tenantType := params["tenant_type"]; tenantType != "" {
		query = query.Where("preferred_tenant_type = ?", tenantType)
	}
	// Amenities are stored as a JSON array; match each requested one
	// against the serialized text
	for _, amenity := range strings.Split(params["amenities"], ",") {
		if amenity = strings.TrimSpace(amenity); amenity != "" {
			query = query.Where("amenities::text ILIKE ?", "%\""+amenity+"\"%")
		}
	}

	page, size := pagination(params["page"], params["size"])
	query = query.Order("created_at DESC").Offset((page - 1) * size).Limit(size)

	var properties []model.Property
	if result := query.Find(&properties); result.Error != nil {
		log.Error("Failed to list properties", zap.Error(result.Error))
		return httperr.Internal("Failed to retrieve listings")
	}

	if err := redisutil.SetCached(c.Request().Context(), cacheKey, properties, AppConfig.Redis.CacheTTL); err != nil {
		log.Warn("Failed to cache listing results", zap.Error(err))
	}

	log.Info("Properties retrieved", zap.Int("count", len(properties)))
	return c.JSON(http.StatusOK, properties)
}

func pagination(pageParam, sizeParam string) (page, size int) {
	page, size = 1, 20
	if p, err := strconv.Atoi(pageParam); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(sizeParam); err == nil && s > 0 && s <= 100 {
		size = s
	}
	return page, size
}

// GetProperty returns a single listing by id. Inactive listings are
// visible only to their owner and admins.
func GetProperty(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var property model.Property
	if result := database.GetDB().Preload("Owner").First(&property, id); result.Error != nil {
		log.Warn("Property not found", zap.String("property_id", id))
		return httperr.NotFound("Property not found")
	}

	if !property.IsActive {
		callerID, _ := middleware.CallerID(c)
		role, _ := middleware.CallerRole(c)
		if !policy.Allow(role, "property", policy.ActionUpdate, policy.Relate(callerID, 0, property.OwnerID)...) {
			return httperr.Forbidden("This listing is not available")
		}
	}

	prometheus.RecordPropertyView(property.City)
	return c.JSON(http.StatusOK, property)
}

// MyProperties returns every listing owned by the caller, active or not
func MyProperties(c echo.Context) error {
	callerID, _ := middleware.CallerID(c)

	var properties []model.Property
	result := database.GetDB().Where("owner_id = ?", callerID).Order("created_at DESC").Find(&properties)
	if result.Error != nil {
		return httperr.Internal("Failed to retrieve listings")
	}
	return c.JSON(http.StatusOK, properties)
}

func loadOwnedProperty(c echo.Context, action policy.Action) (*model.Property, error) {
	var property model.Property
	if result := database.GetDB().First(&property, c.Param("id")); result.Error != nil {
		return nil, httperr.NotFound("Property not found")
	}

	callerID, _ := middleware.CallerID(c)
	role, _ := middleware.CallerRole(c)
	if !policy.Allow(role, "property", action, policy.Relate(callerID, 0, property.OwnerID)...) {
		return nil, httperr.Forbidden("You cannot modify this listing")
	}
	return &property, nil
}

// UpdateProperty updates listing fields
func UpdateProperty(c echo.Context) error {
	log := logger.FromEcho(c)

	property, err := loadOwnedProperty(c, policy.ActionUpdate)
	if err != nil {
		return err
	}

	var req PropertyRequest
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest("Invalid request data")
	}
	if fields := validateProperty(&req); len(fields) > 0 {
		return httperr.Validation(fields)
	}

	property.Title = req.Title
	property.Description = req.Description
	property.PropertyType = req.PropertyType
	property.BHKType = req.BHKType
	property.RentAmount = req.RentAmount
	property.SecurityDeposit = req.SecurityDeposit
	property.MaintenanceCharges = req.MaintenanceCharges
	property.LockInPeriod = req.LockInPeriod
	property.SquareFeet = req.SquareFeet
	property.City = req.City
	property.Locality = req.Locality
	property.FullAddress = req.FullAddress
	property.ProjectName = req.ProjectName
	property.Latitude = req.Latitude
	property.Longitude = req.Longitude
	property.FurnishingStatus = req.FurnishingStatus
	property.OwnershipType = req.OwnershipType
	property.FloorNumber = req.FloorNumber
	property.TotalFloors = req.TotalFloors
	property.PropertyAge = req.PropertyAge
	property.ParkingAvailable = req.ParkingAvailable
	property.PreferredTenantType = req.PreferredTenantType
	property.Amenities = req.Amenities
	property.Brokerage = req.Brokerage
	if req.IsReadyToMove != nil {
		property.IsReadyToMove = *req.IsReadyToMove
	}
	if req.IsPetFriendly != nil {
		property.IsPetFriendly = *req.IsPetFriendly
	}

	// An edited listing goes back through verification before it is
	// publicly searchable again
	if property.Status == model.ListingActive {
		property.Status = model.ListingPendingVerification
		property.IsVerified = false
	}

	if result := database.GetDB().Save(property); result.Error != nil {
		log.Error("Failed to update property", zap.Uint("property_id", property.ID), zap.Error(result.Error))
		return httperr.Internal("Failed to update listing")
	}

	invalidateListingCache(c)
	prometheus.RecordPropertyOperation("update")
	log.Info("Property updated", zap.Uint("property_id", property.ID))

	return c.JSON(http.StatusOK, property)
}

// UpdatePropertyStatus changes the listing lifecycle status
func UpdatePropertyStatus(c echo.Context) error {
	log := logger.FromEcho(c)

	property, err := loadOwnedProperty(c, policy.ActionUpdate)
	if err != nil {
		return err
	}

	var req struct {
		Status model.ListingStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest("Invalid request data")
	}

	switch req.Status {
	case model.ListingActive, model.ListingInactive, model.ListingRented, model.ListingUnderScreening:
	default:
		return httperr.BadRequest("Invalid listing status")
	}

	if result := database.GetDB().Model(property).Update("status", req.Status); result.Error != nil {
		log.Error("Failed to update property status", zap.Uint("property_id", property.ID), zap.Error(result.Error))
		return httperr.Internal("Failed to update listing status")
	}

	invalidateListingCache(c)
	prometheus.RecordPropertyOperation("status_change")
	log.Info("Property status updated",
		zap.Uint("property_id", property.ID),
		zap.String("status", string(req.Status)))

	return c.JSON(http.StatusOK, echo.Map{"message": "Status updated", "status": req.Status})
}

// VerifyProperty records the verification outcome on a listing
func VerifyProperty(c echo.Context) error {
	log := logger.FromEcho(c)

	var property model.Property
	if result := database.GetDB().First(&property, c.Param("id")); result.Error != nil {
		return httperr.NotFound("Property not found")
	}

	var req struct {
		Approved bool   `json:"approved"`
		Notes    string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest("Invalid request data")
	}

	updates := map[string]interface{}{
		"is_verified":        req.Approved,
		"verification_notes": req.Notes,
	}
	if req.Approved {
		updates["status"] = model.ListingActive
	} else {
		updates["status"] = model.ListingRejected
	}

	if result := database.GetDB().Model(&property).Updates(updates); result.Error != nil {
		log.Error("Failed to verify property", zap.Uint("property_id", property.ID), zap.Error(result.Error))
		return httperr.Internal("Failed to verify listing")
	}

	invalidateListingCache(c)
	prometheus.RecordPropertyOperation("verify")
	log.Info("Property verification recorded",
		zap.Uint("property_id", property.ID),
		zap.Bool("approved", req.Approved))

	return c.JSON(http.StatusOK, echo.Map{"message": "Verification recorded"})
}

// DeleteProperty removes a listing from public view. The row survives
// with is_active=false and status INACTIVE.
func DeleteProperty(c echo.Context) error {
	log := logger.FromEcho(c)

	property, err := loadOwnedProperty(c, policy.ActionDelete)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"is_active": false,
		"status":    model.ListingInactive,
	}
	if result := database.GetDB().Model(property).Updates(updates); result.Error != nil {
		log.Error("Failed to delete property", zap.Uint("property_id", property.ID), zap.Error(result.Error))
		return httperr.Internal("Failed to delete listing")
	}

	invalidateListingCache(c)
	prometheus.RecordPropertyOperation("delete")
	log.Info("Property deactivated", zap.Uint("property_id", property.ID))

	return c.JSON(http.StatusOK, echo.Map{"message": "Listing deleted"})
}

// UploadPropertyImages attaches uploaded images to a listing
func UploadPropertyImages(c echo.Context) error {
	log := logger.FromEcho(c)

	property, err := loadOwnedProperty(c, policy.ActionUpdate)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return httperr.BadRequest("A multipart form with image files is required")
	}
	files := form.File["images"]
	if len(files) == 0 {
		return httperr.BadRequest("At least one image file is required")
	}

	urls := property.ImageURLs
	for _, fh := range files {
		if fh.Size > AppConfig.Storage.MaxUploadSize {
			return httperr.PayloadTooLarge("Image exceeds the maximum upload size")
		}
		contentType := fh.Header.Get("Content-Type")
		if !storage.ValidImageType(contentType) {
			return httperr.BadRequest("Only JPEG, PNG, WEBP and GIF images are accepted")
		}

		src, err := fh.Open()
		if err != nil {
			log.Error("Failed to read uploaded file", zap.Error(err))
			return httperr.Internal("Failed to store image")
		}

		url, err := FileStore.Store(c.Request().Context(), "properties", fh.Filename, contentType, src, fh.Size)
		src.Close()
		if err != nil {
			log.Error("Failed to store image", zap.Error(err))
			return httperr.Internal("Failed to store image")
		}
		urls = append(urls, url)
	}

	if result := database.GetDB().Model(property).Update("image_urls", urls); result.Error != nil {
		log.Error("Failed to save image URLs", zap.Uint("property_id", property.ID), zap.Error(result.Error))
		return httperr.Internal("Failed to store image")
	}

	invalidateListingCache(c)
	log.Info("Property images uploaded",
		zap.Uint("property_id", property.ID),
		zap.Int("count", len(files)))

	return c.JSON(http.StatusOK, echo.Map{"image_urls": urls})
}

// RemovePropertyImage detaches one image URL from a listing and deletes
// the stored object when it lives in our file store
func RemovePropertyImage(c echo.Context) error {
	log := logger.FromEcho(c)

	property, err := loadOwnedProperty(c, policy.ActionUpdate)
	if err != nil {
		return err
	}

	var req struct {
		ImageURL string `json:"image_url"`
	}
	if err := c.Bind(&req); err != nil || req.ImageURL == "" {
		return httperr.BadRequest("An image_url is required")
	}

	urls := make([]string, 0, len(property.ImageURLs))
	found := false
	for _, u := range property.ImageURLs {
		if u == req.ImageURL {
			found = true
			continue
		}
		urls = append(urls, u)
	}
	if !found {
		return httperr.NotFound("Image not found on this listing")
	}

	if result := database.GetDB().Model(property).Update("image_urls", urls); result.Error != nil {
		log.Error("Failed to remove image URL", zap.Uint("property_id", property.ID), zap.Error(result.Error))
		return httperr.Internal("Failed to remove image")
	}

	if name := path.Base(req.ImageURL); name != "" && name != "." {
		if err := FileStore.Delete(c.Request().Context(), "properties", name); err != nil {
			log.Warn("Failed to delete stored image", zap.String("object", name), zap.Error(err))
		}
	}

	invalidateListingCache(c)
	log.Info("Property image removed", zap.Uint("property_id", property.ID))
	return c.JSON(http.StatusOK, echo.Map{"image_urls": urls})
}

// DistinctCities lists every city with at least one searchable listing
func DistinctCities(c echo.Context) error {
	var cities []string
	result := database.GetDB().Model(&model.Property{}).
		Where("is_active = ? AND status = ?", true, model.ListingActive).
		Distinct("city").Order("city").Pluck("city", &cities)
	if result.Error != nil {
		return httperr.Internal("Failed to retrieve cities")
	}
	return c.JSON(http.StatusOK, cities)
}

// DistinctLocalities lists the localities with searchable listings in a city
func DistinctLocalities(c echo.Context) error {
	city := c.QueryParam("city")
	if city == "" {
		return httperr.BadRequest("A city is required")
	}

	var localities []string
	result := database.GetDB().Model(&model.Property{}).
		Where("is_active = ? AND status = ? AND city = ?", true, model.ListingActive, city).
		Distinct("locality").Order("locality").Pluck("locality", &localities)
	if result.Error != nil {
		return httperr.Internal("Failed to retrieve localities")
	}
	return c.JSON(http.StatusOK, localities)
}

// PropertyStats returns listing counts per status plus totals
func PropertyStats(c echo.Context) error {
	log := logger.FromEcho(c)

	type statusCount struct {
		Status model.ListingStatus `json:"status"`
		Count  int64               `json:"count"`
	}
	var counts []statusCount
	result := database.GetDB().Model(&model.Property{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&counts)
	if result.Error != nil {
		log.Error("Failed to aggregate property stats", zap.Error(result.Error))
		return httperr.Internal("Failed to retrieve statistics")
	}

	var total, active int64
	database.GetDB().Model(&model.Property{}).Count(&total)
	database.GetDB().Model(&model.Property{}).Where("is_active = ?", true).Count(&active)

	return c.JSON(http.StatusOK, echo.Map{
		"total":     total,
		"active":    active,
		"by_status": counts,
	})
}

func invalidateListingCache(c echo.Context) {
	if err := redisutil.InvalidatePrefix(c.Request().Context(), listingCachePrefix); err != nil {
		logger.FromEcho(c).Warn("Failed to invalidate listing cache", zap.Error(err))
	}
}
