package handler

import (
	"net/http"
	"path"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ritikk978/next-nest/internal/httperr"
	"github.com/ritikk978/next-nest/internal/middleware"
	"github.com/ritikk978/next-nest/internal/model"
	"github.com/ritikk978/next-nest/internal/policy"
	"github.com/ritikk978/next-nest/internal/storage"
	"github.com/ritikk978/next-nest/pkg/database"
	"github.com/ritikk978/next-nest/pkg/logger"
)

// RoommateRequestPayload defines the structure for flat-share listing requests
type RoommateRequestPayload struct {
	RequestType       model.RoommateRequestType `json:"request_type"`
	Title             string                    `json:"title"`
	Description       string                    `json:"description"`
	Location          string                    `json:"location"`
	SpecificArea      string                    `json:"specific_area"`
	Budget            float64                   `json:"budget"`
	RentAmount        *float64                  `json:"rent_amount"`
	PropertyType      string                    `json:"property_type"`
	BHKType           *int                      `json:"bhk_type"`
	PreferredGender   model.Gender              `json:"preferred_gender"`
	PreferredAgeRange string                    `json:"preferred_age_range"`
	NonSmoker         bool                      `json:"non_smoker"`
	NoPets            bool                      `json:"no_pets"`
	Lifestyle         []string                  `json:"lifestyle"`
	MoveInDate        time.Time                 `json:"move_in_date"`
}

func validateRoommateRequest(req *RoommateRequestPayload) map[string]string {
	fields := make(map[string]string)
	if req.RequestType != model.RoommateHasPlace && req.RequestType != model.RoommateNeedsPlace {
		fields["request_type"] = "Request type must be HAS_PLACE or NEEDS_PLACE"
	}
	if req.Title == "" {
		fields["title"] = "Title is required"
	}
	if req.Description == "" {
		fields["description"] = "Description is required"
	}
	if req.Location == "" {
		fields["location"] = "Location is required"
	}
	if req.Budget <= 0 {
		fields["budget"] = "Budget must be positive"
	}
	if req.MoveInDate.IsZero() {
		fields["move_in_date"] = "Move-in date is required"
	}
	return fields
}

// CreateRoommateRequest posts a new flat-share listing
func CreateRoommateRequest(c echo.Context) error {
	log := logger.FromEcho(c)
	callerID, _ := middleware.CallerID(c)

	var req RoommateRequestPayload
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest("Invalid request data")
	}
	if fields := validateRoommateRequest(&req); len(fields) > 0 {
		return httperr.Validation(fields)
	}

	rr := model.RoommateRequest{
		UserID:            callerID,
		RequestType:       req.RequestType,
		Status:            model.RoommateRequestActive,
		Title:             req.Title,
		Description:       req.Description,
		Location:          req.Location,
		SpecificArea:      req.SpecificArea,
		Budget:            req.Budget,
		RentAmount:        req.RentAmount,
		PropertyType:      req.PropertyType,
		BHKType:           req.BHKType,
		PreferredGender:   req.PreferredGender,
		PreferredAgeRange: req.PreferredAgeRange,
		NonSmoker:         req.NonSmoker,
		NoPets:            req.NoPets,
		Lifestyle:         req.Lifestyle,
		MoveInDate:        req.MoveInDate,
	}

	if result := database.GetDB().Create(&rr); result.Error != nil {
		log.Error("Failed to create roommate request", zap.Error(result.Error))
		return httperr.Internal("Failed to create roommate request")
	}

	log.Info("Roommate request created", zap.Uint("request_id", rr.ID))
	return c.JSON(http.StatusCreated, rr)
}

// ListRoommateRequests searches active flat-share listings
func ListRoommateRequests(c echo.Context) error {
	log := logger.FromEcho(c)

	query := database.GetDB().Preload("User").Where("status = ?", model.RoommateRequestActive)

	if location := c.QueryParam("location"); location != "" {
		query = query.Where("location = ?", location)
	}
	if reqType := c.QueryParam("request_type"); reqType != "" {
		query = query.Where("request_type = ?", reqType)
	}
	if gender := c.QueryParam("preferred_gender"); gender != "" {
		query = query.Where("preferred_gender = ?", gender)
	}
	if maxBudget := c.QueryParam("max_budget"); maxBudget != "" {
		query = query.Where("budget <= ?", maxBudget)
	}
	if moveInBefore := c.QueryParam("move_in_before"); moveInBefore != "" {
		if t, err := time.Parse(time.RFC3339, moveInBefore); err == nil {
			query = query.Where("move_in_date <= ?", t)
		}
	}

	page, size := pagination(c.QueryParam("page"), c.QueryParam("size"))
	query = query.Order("created_at DESC").Offset((page - 1) * size).Limit(size)

	var requests []model.RoommateRequest
	if result := query.Find(&requests); result.Error != nil {
		log.Error("Failed to list roommate requests", zap.Error(result.Error))
		return httperr.Internal("Failed to retrieve roommate requests")
	}
	return c.JSON(http.StatusOK, requests)
}

// GetRoommateRequest returns one flat-share listing by id
func GetRoommateRequest(c echo.Context) error {
	var rr model.RoommateRequest
	if result := database.GetDB().Preload("User").First(&rr, c.Param("id")); result.Error != nil {
		return httperr.NotFound("Roommate request not found")
	}
	return c.JSON(http.StatusOK, rr)
}

func loadOwnRoommateRequest(c echo.Context, action policy.Action) (*model.RoommateRequest, error) {
	var rr model.RoommateRequest
	if result := database.GetDB().First(&rr, c.Param("id")); result.Error != nil {
		return nil, httperr.NotFound("Roommate request not found")
	}

	callerID, _ := middleware.CallerID(c)
	role, _ := middleware.CallerRole(c)
	if !policy.Allow(role, "roommate_request", action, policy.Relate(callerID, rr.UserID, 0)...) {
		return nil, httperr.Forbidden("You cannot modify this roommate request")
	}
	return &rr, nil
}

// UpdateRoommateRequest edits a flat-share listing
func UpdateRoommateRequest(c echo.Context) error {
	log := logger.FromEcho(c)

	rr, err := loadOwnRoommateRequest(c, policy.ActionUpdate)
	if err != nil {
		return err
	}

	var req RoommateRequestPayload
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest("Invalid request data")
	}
	if fields := validateRoommateRequest(&req); len(fields) > 0 {
		return httperr.Validation(fields)
	}

	rr.RequestType = req.RequestType
	rr.Title = req.Title
	rr.Description = req.Description
	rr.Location = req.Location
	rr.SpecificArea = req.SpecificArea
	rr.Budget = req.Budget
	rr.RentAmount = req.RentAmount
	rr.PropertyType = req.PropertyType
	rr.BHKType = req.BHKType
	rr.PreferredGender = req.PreferredGender
	rr.PreferredAgeRange = req.PreferredAgeRange
	rr.NonSmoker = req.NonSmoker
	rr.NoPets = req.NoPets
	rr.Lifestyle = req.Lifestyle
	rr.MoveInDate = req.MoveInDate

	if result := database.GetDB().Save(rr); result.Error != nil {
		log.Error("Failed to update roommate request", zap.Uint("request_id", rr.ID), zap.Error(result.Error))
		return httperr.Internal("Failed to update roommate request")
	}

	log.Info("Roommate request updated", zap.Uint("request_id", rr.ID))
	return c.JSON(http.StatusOK, rr)
}

// UpdateRoommateRequestStatus pauses, closes or reactivates a listing
func UpdateRoommateRequestStatus(c echo.Context) error {
	rr, err := loadOwnRoommateRequest(c, policy.ActionUpdate)
	if err != nil {
		return err
	}

	var req struct {
		Status model.RoommateRequestStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest("Invalid request data")
	}
	switch req.Status {
	case model.RoommateRequestActive, model.RoommateRequestPaused, model.RoommateRequestClosed:
	default:
		return httperr.BadRequest("Invalid roommate request status")
	}

	if result := database.GetDB().Model(rr).Update("status", req.Status); result.Error != nil {
		return httperr.Internal("Failed to update roommate request")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Status updated", "status": req.Status})
}

// DeleteRoommateRequest closes a flat-share listing. The row survives
// with status CLOSED.
func DeleteRoommateRequest(c echo.Context) error {
	log := logger.FromEcho(c)

	rr, err := loadOwnRoommateRequest(c, policy.ActionDelete)
	if err != nil {
		return err
	}

	if result := database.GetDB().Model(rr).Update("status", model.RoommateRequestClosed); result.Error != nil {
		log.Error("Failed to close roommate request", zap.Uint("request_id", rr.ID), zap.Error(result.Error))
		return httperr.Internal("Failed to delete roommate request")
	}

	log.Info("Roommate request closed", zap.Uint("request_id", rr.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Roommate request deleted"})
}

// UploadRoommateImages attaches images to a flat-share listing
func UploadRoommateImages(c echo.Context) error {
	log := logger.FromEcho(c)

	rr, err := loadOwnRoommateRequest(c, policy.ActionUpdate)
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

	urls := rr.ImageURLs
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
			return httperr.Internal("Failed to store image")
		}
		url, err := FileStore.Store(c.Request().Context(), "roommates", fh.Filename, contentType, src, fh.Size)
		src.Close()
		if err != nil {
			log.Error("Failed to store image", zap.Error(err))
			return httperr.Internal("Failed to store image")
		}
		urls = append(urls, url)
	}

	if result := database.GetDB().Model(rr).Update("image_urls", urls); result.Error != nil {
		return httperr.Internal("Failed to store image")
	}
	return c.JSON(http.StatusOK, echo.Map{"image_urls": urls})
}

// RemoveRoommateImage detaches one image URL from a flat-share listing
func RemoveRoommateImage(c echo.Context) error {
	log := logger.FromEcho(c)

	rr, err := loadOwnRoommateRequest(c, policy.ActionUpdate)
	if err != nil {
		return err
	}

	var req struct {
		ImageURL string `json:"image_url"`
	}
	if err := c.Bind(&req); err != nil || req.ImageURL == "" {
		return httperr.BadRequest("An image_url is required")
	}

	urls := make([]string, 0, len(rr.ImageURLs))
	found := false
	for _, u := range rr.ImageURLs {
		if u == req.ImageURL {
			found = true
			continue
		}
		urls = append(urls, u)
	}
	if !found {
		return httperr.NotFound("Image not found on this request")
	}

	if result := database.GetDB().Model(rr).Update("image_urls", urls); result.Error != nil {
		log.Error("Failed to remove image URL", zap.Uint("request_id", rr.ID), zap.Error(result.Error))
		return httperr.Internal("Failed to remove image")
	}

	if name := path.Base(req.ImageURL); name != "" && name != "." {
		if err := FileStore.Delete(c.Request().Context(), "roommates", name); err != nil {
			log.Warn("Failed to delete stored image", zap.String("object", name), zap.Error(err))
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"image_urls": urls})
}

// RoommateStats returns flat-share request counts per status and type
func RoommateStats(c echo.Context) error {
	log := logger.FromEcho(c)

	type statusCount struct {
		Status model.RoommateRequestStatus `json:"status"`
		Count  int64                       `json:"count"`
	}
	var byStatus []statusCount
	if result := database.GetDB().Model(&model.RoommateRequest{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&byStatus); result.Error != nil {
		log.Error("Failed to aggregate roommate stats", zap.Error(result.Error))
		return httperr.Internal("Failed to retrieve statistics")
	}

	type typeCount struct {
		RequestType model.RoommateRequestType `json:"request_type"`
		Count       int64                     `json:"count"`
	}
	var byType []typeCount
	if result := database.GetDB().Model(&model.RoommateRequest{}).
		Select("request_type, count(*) as count").
		Group("request_type").
		Scan(&byType); result.Error != nil {
		log.Error("Failed to aggregate roommate stats", zap.Error(result.Error))
		return httperr.Internal("Failed to retrieve statistics")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"by_status": byStatus,
		"by_type":   byType,
	})
}

// RespondToRoommateRequest sends an interest response to a listing
func RespondToRoommateRequest(c echo.Context) error {
	log := logger.FromEcho(c)
	callerID, _ := middleware.CallerID(c)

	var rr model.RoommateRequest
	if result := database.GetDB().First(&rr, c.Param("id")); result.Error != nil {
		return httperr.NotFound("Roommate request not found")
	}
	if rr.Status != model.RoommateRequestActive {
		return httperr.BadRequest("This roommate request is not accepting responses")
	}
	if rr.UserID == callerID {
		return httperr.BadRequest("You cannot respond to your own request")
	}

	var req struct {
		Message            string `json:"message"`
		ContactInformation string `json:"contact_information"`
	}
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest("Invalid request data")
	}
	if req.Message == "" {
		return httperr.Validation(map[string]string{"message": "Message is required"})
	}

	var count int64
	database.GetDB().Model(&model.RoommateResponse{}).
		Where("roommate_request_id = ? AND responder_id = ?", rr.ID, callerID).
		Count(&count)
	if count > 0 {
		return httperr.Conflict("You have already responded to this request")
	}

	response := model.RoommateResponse{
		RoommateRequestID:  rr.ID,
		ResponderID:        callerID,
		Message:            req.Message,
		Status:             model.RoommateResponsePending,
		ContactInformation: req.ContactInformation,
	}
	if result := database.GetDB().Create(&response); result.Error != nil {
		log.Error("Failed to create roommate response", zap.Error(result.Error))
		return httperr.Internal("Failed to send response")
	}

	log.Info("Roommate response created",
		zap.Uint("request_id", rr.ID),
		zap.Uint("response_id", response.ID))
	return c.JSON(http.StatusCreated, response)
}

// ListRoommateResponses returns the responses on one of the caller's
// requests and marks them read
func ListRoommateResponses(c echo.Context) error {
	rr, err := loadOwnRoommateRequest(c, policy.ActionUpdate)
	if err != nil {
		return err
	}

	var responses []model.RoommateResponse
	result := database.GetDB().Preload("Responder").
		Where("roommate_request_id = ?", rr.ID).
		Order("created_at DESC").
		Find(&responses)
	if result.Error != nil {
		return httperr.Internal("Failed to retrieve responses")
	}

	database.GetDB().Model(&model.RoommateResponse{}).
		Where("roommate_request_id = ? AND is_read = ?", rr.ID, false).
		Update("is_read", true)

	return c.JSON(http.StatusOK, responses)
}

// UpdateRoommateResponseStatus approves or declines a response
func UpdateRoommateResponseStatus(c echo.Context) error {
	log := logger.FromEcho(c)
	callerID, _ := middleware.CallerID(c)
	role, _ := middleware.CallerRole(c)

	var response model.RoommateResponse
	result := database.GetDB().Preload("RoommateRequest").First(&response, c.Param("responseId"))
	if result.Error != nil {
		return httperr.NotFound("Response not found")
	}
	if response.RoommateRequest == nil ||
		!policy.Allow(role, "roommate_request", policy.ActionUpdate, policy.Relate(callerID, response.RoommateRequest.UserID, 0)...) {
		return httperr.Forbidden("You cannot decide on this response")
	}

	var req struct {
		Status model.RoommateResponseStatus `json:"status"`
		Notes  string                       `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest("Invalid request data")
	}
	if req.Status != model.RoommateResponseApproved && req.Status != model.RoommateResponseDeclined {
		return httperr.BadRequest("Status must be APPROVED or DECLINED")
	}
	if response.Status != model.RoommateResponsePending {
		return httperr.BadRequest("This response has already been decided")
	}

	updates := map[string]interface{}{"status": req.Status, "notes": req.Notes}
	if result := database.GetDB().Model(&response).Updates(updates); result.Error != nil {
		log.Error("Failed to update response", zap.Uint("response_id", response.ID), zap.Error(result.Error))
		return httperr.Internal("Failed to update response")
	}

	log.Info("Roommate response decided",
		zap.Uint("response_id", response.ID),
		zap.String("status", string(req.Status)))
	return c.JSON(http.StatusOK, echo.Map{"message": "Response updated", "status": req.Status})
}

// MyRoommateRequests lists the caller's own flat-share listings
func MyRoommateRequests(c echo.Context) error {
	callerID, _ := middleware.CallerID(c)

	var requests []model.RoommateRequest
	result := database.GetDB().Where("user_id = ?", callerID).Order("created_at DESC").Find(&requests)
	if result.Error != nil {
		return httperr.Internal("Failed to retrieve roommate requests")
	}
	return c.JSON(http.StatusOK, requests)
}

// MyRoommateResponses lists the responses the caller has sent
func MyRoommateResponses(c echo.Context) error {
	callerID, _ := middleware.CallerID(c)

	var responses []model.RoommateResponse
	result := database.GetDB().Preload("RoommateRequest").
		Where("responder_id = ?", callerID).
		Order("created_at DESC").
		Find(&responses)
	if result.Error != nil {
		return httperr.Internal("Failed to retrieve responses")
	}
	return c.JSON(http.StatusOK, responses)
}

// DeleteRoommateResponse withdraws a response the caller sent, while it
// is still undecided
func DeleteRoommateResponse(c echo.Context) error {
	log := logger.FromEcho(c)
	callerID, _ := middleware.CallerID(c)
	role, _ := middleware.CallerRole(c)

	var response model.RoommateResponse
	if result := database.GetDB().First(&response, c.Param("responseId")); result.Error != nil {
		return httperr.NotFound("Response not found")
	}
	if response.ResponderID != callerID && role != model.RoleAdmin {
		return httperr.Forbidden("You cannot withdraw this response")
	}
	if response.Status != model.RoommateResponsePending {
		return httperr.BadRequest("A decided response cannot be withdrawn")
	}

	if result := database.GetDB().Delete(&response); result.Error != nil {
		log.Error("Failed to withdraw response", zap.Uint("response_id", response.ID), zap.Error(result.Error))
		return httperr.Internal("Failed to withdraw response")
	}

	log.Info("Roommate response withdrawn", zap.Uint("response_id", response.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Response withdrawn"})
}

// RoommateLocations lists every location with at least one active
// flat-share listing
func RoommateLocations(c echo.Context) error {
	var locations []string
	result := database.GetDB().Model(&model.RoommateRequest{}).
		Where("status = ?", model.RoommateRequestActive).
		Distinct("location").Order("location").Pluck("location", &locations)
	if result.Error != nil {
		return httperr.Internal("Failed to retrieve locations")
	}
	return c.JSON(http.StatusOK, locations)
}
