package handler

import (
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ritikk978/next-nest/internal/httperr"
	"github.com/ritikk978/next-nest/internal/middleware"
	"github.com/ritikk978/next-nest/internal/model"
	"github.com/ritikk978/next-nest/internal/policy"
	"github.com/ritikk978/next-nest/pkg/database"
	"github.com/ritikk978/next-nest/pkg/logger"
)

// UpdateUserRequest defines the structure for profile update requests
type UpdateUserRequest struct {
	FirstName   *string       `json:"first_name"`
	LastName    *string       `json:"last_name"`
	Email       *string       `json:"email"`
	PhoneNumber *string       `json:"phone_number"`
	Gender      *model.Gender `json:"gender"`
}

// GetCurrentUser returns the authenticated user's own profile
func GetCurrentUser(c echo.Context) error {
	callerID, _ := middleware.CallerID(c)

	var user model.User
	if result := database.GetDB().First(&user, callerID); result.Error != nil {
		return httperr.NotFound("User not found")
	}
	return c.JSON(http.StatusOK, user)
}

// GetUser returns a user profile by id
func GetUser(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var user model.User
	if result := database.GetDB().First(&user, id); result.Error != nil {
		log.Warn("User not found", zap.String("user_id", id))
		return httperr.NotFound("User not found")
	}
	return c.JSON(http.StatusOK, user)
}

// ListUsers returns all accounts, optionally filtered by role
func ListUsers(c echo.Context) error {
	log := logger.FromEcho(c)

	query := database.GetDB()
	if role := c.QueryParam("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if enabled := c.QueryParam("enabled"); enabled != "" {
		query = query.Where("enabled = ?", enabled == "true")
	}

	var users []model.User
	if result := query.Find(&users); result.Error != nil {
		log.Error("Failed to list users", zap.Error(result.Error))
		return httperr.Internal("Failed to retrieve users")
	}

	return c.JSON(http.StatusOK, users)
}

// UserStats returns account counts per role
func UserStats(c echo.Context) error {
	log := logger.FromEcho(c)

	type roleCount struct {
		Role  model.UserRole `json:"role"`
		Count int64          `json:"count"`
	}
	var counts []roleCount
	result := database.GetDB().Model(&model.User{}).
		Select("role, count(*) as count").
		Where("enabled = ?", true).
		Group("role").
		Scan(&counts)
	if result.Error != nil {
		log.Error("Failed to aggregate user stats", zap.Error(result.Error))
		return httperr.Internal("Failed to retrieve statistics")
	}

	midnight := time.Now().Truncate(24 * time.Hour)
	var today int64
	database.GetDB().Model(&model.User{}).
		Where("created_at >= ?", midnight).
		Count(&today)

	var recent []model.User
	database.GetDB().Where("enabled = ?", true).
		Order("created_at DESC").Limit(10).Find(&recent)

	return c.JSON(http.StatusOK, echo.Map{
		"by_role":             counts,
		"today_registrations": today,
		"recent":              recent,
	})
}

// UpdateUser updates profile fields on an account
func UpdateUser(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var user model.User
	if result := database.GetDB().First(&user, id); result.Error != nil {
		return httperr.NotFound("User not found")
	}

	callerID, _ := middleware.CallerID(c)
	role, _ := middleware.CallerRole(c)
	if !policy.Allow(role, "user", policy.ActionUpdate, policy.Relate(callerID, user.ID, 0)...) {
		return httperr.Forbidden("You cannot modify this account")
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest("Invalid request data")
	}

	emailChanged := false
	if req.Email != nil {
		newEmail := strings.ToLower(strings.TrimSpace(*req.Email))
		if _, err := mail.ParseAddress(newEmail); err != nil {
			return httperr.Validation(map[string]string{"email": "A valid email address is required"})
		}
		if newEmail != user.Email {
			var count int64
			database.GetDB().Model(&model.User{}).Where("email = ? AND id <> ?", newEmail, user.ID).Count(&count)
			if count > 0 {
				return httperr.Conflict("Email is already registered")
			}
			user.Email = newEmail
			// A changed address has to prove itself again
			user.EmailVerified = false
			emailChanged = true
		}
	}
	if req.PhoneNumber != nil && *req.PhoneNumber != user.PhoneNumber {
		var count int64
		database.GetDB().Model(&model.User{}).Where("phone_number = ? AND id <> ?", *req.PhoneNumber, user.ID).Count(&count)
		if count > 0 {
			return httperr.Conflict("Phone number is already registered")
		}
		user.PhoneNumber = *req.PhoneNumber
		user.PhoneVerified = false
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}

	if result := database.GetDB().Save(&user); result.Error != nil {
		log.Error("Failed to update user", zap.Uint("user_id", user.ID), zap.Error(result.Error))
		return httperr.Internal("Failed to update account")
	}

	if emailChanged {
		sendVerificationMail(c, &user)
	}

	log.Info("User updated", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, user)
}

// SearchUsers finds accounts by a name or email fragment, optionally
// narrowed to a role
func SearchUsers(c echo.Context) error {
	log := logger.FromEcho(c)

	term := strings.TrimSpace(c.QueryParam("term"))
	if term == "" {
		return httperr.BadRequest("A search term is required")
	}

	pattern := "%" + term + "%"
	query := database.GetDB().
		Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
	if role := c.QueryParam("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var users []model.User
	if result := query.Limit(50).Find(&users); result.Error != nil {
		log.Error("Failed to search users", zap.Error(result.Error))
		return httperr.Internal("Failed to search users")
	}
	return c.JSON(http.StatusOK, users)
}

// ChangePassword updates the caller's own password after verifying the
// current one
func ChangePassword(c echo.Context) error {
	log := logger.FromEcho(c)
	callerID, _ := middleware.CallerID(c)

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest("Invalid request data")
	}
	if len(req.NewPassword) < 8 {
		return httperr.Validation(map[string]string{"new_password": "Password must be at least 8 characters"})
	}

	var user model.User
	if result := database.GetDB().First(&user, callerID); result.Error != nil {
		return httperr.NotFound("User not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return httperr.BadRequest("Current password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return httperr.Internal("Failed to change password")
	}

	if result := database.GetDB().Model(&user).Update("password", string(hashed)); result.Error != nil {
		log.Error("Failed to change password", zap.Uint("user_id", user.ID), zap.Error(result.Error))
		return httperr.Internal("Failed to change password")
	}

	log.Info("Password changed", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Password changed successfully"})
}

// DeleteUser disables an account. The row survives and stays fetchable
// by id with enabled=false.
func DeleteUser(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var user model.User
	if result := database.GetDB().First(&user, id); result.Error != nil {
		return httperr.NotFound("User not found")
	}

	callerID, _ := middleware.CallerID(c)
	role, _ := middleware.CallerRole(c)
	if !policy.Allow(role, "user", policy.ActionDelete, policy.Relate(callerID, user.ID, 0)...) {
		return httperr.Forbidden("You cannot delete this account")
	}

	if result := database.GetDB().Model(&user).Update("enabled", false); result.Error != nil {
		log.Error("Failed to disable user", zap.Uint("user_id", user.ID), zap.Error(result.Error))
		return httperr.Internal("Failed to delete account")
	}

	log.Info("User disabled", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Account deleted"})
}
