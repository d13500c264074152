package handler

import (
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ritikk978/next-nest/internal/httperr"
	"github.com/ritikk978/next-nest/internal/mailer"
	"github.com/ritikk978/next-nest/internal/middleware"
	"github.com/ritikk978/next-nest/internal/model"
	"github.com/ritikk978/next-nest/pkg/config"
	"github.com/ritikk978/next-nest/pkg/database"
	"github.com/ritikk978/next-nest/pkg/jwtutil"
	"github.com/ritikk978/next-nest/pkg/logger"
	"github.com/ritikk978/next-nest/pkg/redisutil"
	"github.com/ritikk978/next-nest/prometheus"
)

const (
	resetTokenPurpose  = "password_reset"
	verifyTokenPurpose = "email_verification"
	oneTimeTokenTTL    = 30 * time.Minute
)

// Notifier delivers transactional mail for the handler layer. Wired at
// startup; defaults to the no-op implementation.
var Notifier mailer.Notifier = mailer.Nop{}

// AppConfig is the loaded configuration, set at startup
var AppConfig *config.Config

// RegisterRequest defines the structure for account creation requests
type RegisterRequest struct {
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	Email       string         `json:"email"`
	PhoneNumber string         `json:"phone_number"`
	Password    string         `json:"password"`
	Role        model.UserRole `json:"role"`
	Gender      model.Gender   `json:"gender"`
}

// LoginRequest defines the structure for login requests
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the issued token pair and the account
type AuthResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         *model.User `json:"user"`
}

func validateRegister(req *RegisterRequest) map[string]string {
	fields := make(map[string]string)
	if strings.TrimSpace(req.FirstName) == "" {
		fields["first_name"] = "First name is required"
	}
	if strings.TrimSpace(req.LastName) == "" {
		fields["last_name"] = "Last name is required"
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		fields["email"] = "A valid email address is required"
	}
	if len(req.PhoneNumber) < 10 {
		fields["phone_number"] = "A valid phone number is required"
	}
	if len(req.Password) < 8 {
		fields["password"] = "Password must be at least 8 characters"
	}
	switch req.Role {
	case model.RoleTenant, model.RoleLandlord, model.RoleBroker:
	case model.RoleAdmin:
		fields["role"] = "Admin accounts cannot be self-registered"
	default:
		fields["role"] = "Role must be TENANT, LANDLORD or BROKER"
	}
	return fields
}

// Register handles new account creation
func Register(c echo.Context) error {
	log := logger.FromEcho(c)
	log.Info("Registering new user")

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid request data", zap.Error(err))
		return httperr.BadRequest("Invalid request data")
	}

	if fields := validateRegister(&req); len(fields) > 0 {
		return httperr.Validation(fields)
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	db := database.GetDB()
	var count int64
	db.Model(&model.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		log.Warn("Email already registered", zap.String("email", req.Email))
		return httperr.Conflict("Email is already registered")
	}
	db.Model(&model.User{}).Where("phone_number = ?", req.PhoneNumber).Count(&count)
	if count > 0 {
		log.Warn("Phone number already registered")
		return httperr.Conflict("Phone number is already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return httperr.Internal("Failed to create account")
	}

	user := model.User{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    string(hashed),
		Role:        req.Role,
		Gender:      req.Gender,
		Enabled:     true,
	}

	if result := db.Create(&user); result.Error != nil {
		log.Error("Failed to create user", zap.Error(result.Error))
		return httperr.Internal("Failed to create account")
	}

	log.Info("User registered", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))

	mailer.Dispatch("welcome", func() error {
		return Notifier.SendWelcome(user.Email, user.FullName())
	})
	sendVerificationMail(c, &user)

	return issueTokens(c, log, &user, http.StatusCreated)
}

// Login handles credential verification and token issuance
func Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.AuthAttemptsCounter.Inc()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid request data", zap.Error(err))
		return httperr.BadRequest("Invalid request data")
	}

	var user model.User
	result := database.GetDB().Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user)
	if result.Error != nil {
		log.Warn("Login failed, unknown email")
		prometheus.AuthErrorsCounter.Inc()
		return httperr.Unauthorized("Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Login failed, wrong password", zap.Uint("user_id", user.ID))
		prometheus.AuthErrorsCounter.Inc()
		return httperr.Unauthorized("Invalid email or password")
	}

	if !user.Enabled {
		log.Warn("Login attempt on disabled account", zap.Uint("user_id", user.ID))
		prometheus.AuthErrorsCounter.Inc()
		return httperr.Forbidden("Account is disabled")
	}

	log.Info("User logged in", zap.Uint("user_id", user.ID))
	prometheus.AuthSuccessCounter.Inc()

	return issueTokens(c, log, &user, http.StatusOK)
}

func issueTokens(c echo.Context, log *zap.Logger, user *model.User, status int) error {
	accessToken, err := jwtutil.GenerateAccessToken(user)
	if err != nil {
		log.Error("Failed to generate access token", zap.Error(err))
		return httperr.Internal("Failed to issue tokens")
	}
	refreshToken, err := jwtutil.GenerateRefreshToken(user)
	if err != nil {
		log.Error("Failed to generate refresh token", zap.Error(err))
		return httperr.Internal("Failed to issue tokens")
	}

	return c.JSON(status, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	})
}

// RefreshToken exchanges a refresh token for a new token pair
func RefreshToken(c echo.Context) error {
	log := logger.FromEcho(c)

	authHeader := c.Request().Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return httperr.Unauthorized("invalid authorization format, expected Bearer token")
	}
	tokenString := parts[1]

	claims, err := jwtutil.ValidateToken(tokenString)
	if err != nil {
		log.Warn("Invalid refresh token", zap.Error(err))
		return httperr.Unauthorized("invalid or expired token")
	}
	if claims.Kind != jwtutil.KindRefresh {
		return httperr.Unauthorized("a refresh token is required")
	}
	if redisutil.IsTokenBlacklisted(c.Request().Context(), tokenString) {
		return httperr.Unauthorized("token has been revoked")
	}

	var user model.User
	if result := database.GetDB().First(&user, claims.UserID); result.Error != nil {
		return httperr.Unauthorized("account no longer exists")
	}
	if !user.Enabled {
		return httperr.Forbidden("Account is disabled")
	}

	// The old refresh token is spent once a new pair is issued
	if err := redisutil.BlacklistToken(c.Request().Context(), tokenString, claims.ExpiresIn()); err != nil {
		log.Warn("Failed to revoke used refresh token", zap.Error(err))
	}

	log.Info("Token pair refreshed", zap.Uint("user_id", user.ID))
	return issueTokens(c, log, &user, http.StatusOK)
}

// Logout revokes the presented access token
func Logout(c echo.Context) error {
	log := logger.FromEcho(c)

	tokenString, _ := c.Get("token").(string)
	claims, err := jwtutil.ValidateToken(tokenString)
	if err != nil {
		return httperr.Unauthorized("invalid or expired token")
	}

	if err := redisutil.BlacklistToken(c.Request().Context(), tokenString, claims.ExpiresIn()); err != nil {
		log.Error("Failed to blacklist token", zap.Error(err))
		return httperr.Internal("Failed to log out")
	}

	log.Info("User logged out", zap.Uint("user_id", claims.UserID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

// ValidateToken reports whether the presented bearer token is an
// accepted access token and echoes its claims back
func ValidateToken(c echo.Context) error {
	authHeader := c.Request().Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return httperr.Unauthorized("invalid authorization format, expected Bearer token")
	}
	tokenString := parts[1]

	claims, err := jwtutil.ValidateToken(tokenString)
	if err != nil {
		return httperr.Unauthorized("invalid or expired token")
	}
	if claims.Kind != jwtutil.KindAccess {
		return httperr.Unauthorized("an access token is required")
	}
	if redisutil.IsTokenBlacklisted(c.Request().Context(), tokenString) {
		return httperr.Unauthorized("token has been revoked")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"valid":      true,
		"user_id":    claims.UserID,
		"email":      claims.Email,
		"role":       claims.Role,
		"expires_in": claims.ExpiresIn().Seconds(),
	})
}

// ForgotPassword issues a one-time reset token by email. The response
// never reveals whether the address exists.
func ForgotPassword(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest("Invalid request data")
	}

	var user model.User
	result := database.GetDB().Where("email = ? AND enabled = ?", strings.ToLower(strings.TrimSpace(req.Email)), true).First(&user)
	if result.Error == nil {
		token := uuid.NewString()
		if err := redisutil.StoreToken(c.Request().Context(), resetTokenPurpose, token, user.ID, oneTimeTokenTTL); err != nil {
			log.Error("Failed to store reset token", zap.Error(err))
			return httperr.Internal("Failed to process request")
		}

		resetURL := AppConfig.Server.BaseURL + "/reset-password?token=" + token
		mailer.Dispatch("password_reset", func() error {
			return Notifier.SendPasswordReset(user.Email, user.FullName(), resetURL)
		})
		log.Info("Password reset token issued", zap.Uint("user_id", user.ID))
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "If the email exists, a reset link has been sent"})
}

// ResetPassword consumes a one-time token and sets a new password
func ResetPassword(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest("Invalid request data")
	}
	if len(req.NewPassword) < 8 {
		return httperr.Validation(map[string]string{"new_password": "Password must be at least 8 characters"})
	}

	userID, ok := redisutil.ConsumeToken(c.Request().Context(), resetTokenPurpose, req.Token)
	if !ok {
		return httperr.BadRequest("Invalid or expired reset token")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return httperr.Internal("Failed to reset password")
	}

	result := database.GetDB().Model(&model.User{}).Where("id = ?", userID).Update("password", string(hashed))
	if result.Error != nil || result.RowsAffected == 0 {
		log.Error("Failed to update password", zap.Uint("user_id", userID), zap.Error(result.Error))
		return httperr.Internal("Failed to reset password")
	}

	log.Info("Password reset completed", zap.Uint("user_id", userID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Password has been reset"})
}

// RequestEmailVerification re-sends the verification link to the caller
func RequestEmailVerification(c echo.Context) error {
	log := logger.FromEcho(c)

	callerID, _ := middleware.CallerID(c)
	var user model.User
	if result := database.GetDB().First(&user, callerID); result.Error != nil {
		return httperr.NotFound("User not found")
	}
	if user.EmailVerified {
		return httperr.BadRequest("Email is already verified")
	}

	sendVerificationMail(c, &user)
	log.Info("Verification email requested", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Verification email sent"})
}

func sendVerificationMail(c echo.Context, user *model.User) {
	log := logger.FromEcho(c)

	token := uuid.NewString()
	if err := redisutil.StoreToken(c.Request().Context(), verifyTokenPurpose, token, user.ID, oneTimeTokenTTL); err != nil {
		log.Warn("Failed to store verification token", zap.Error(err))
		return
	}

	verifyURL := AppConfig.Server.BaseURL + "/api/v1/auth/verify-email?token=" + token
	email, name := user.Email, user.FullName()
	mailer.Dispatch("email_verification", func() error {
		return Notifier.SendEmailVerification(email, name, verifyURL)
	})
}

// RequestPhoneVerification is a placeholder until an SMS gateway is
// connected
func RequestPhoneVerification(c echo.Context) error {
	return echo.NewHTTPError(http.StatusNotImplemented, "Phone verification is not available yet")
}

// VerifyPhone is a placeholder until an SMS gateway is connected
func VerifyPhone(c echo.Context) error {
	return echo.NewHTTPError(http.StatusNotImplemented, "Phone verification is not available yet")
}

// VerifyEmail consumes a verification token and marks the email verified
func VerifyEmail(c echo.Context) error {
	log := logger.FromEcho(c)

	token := c.QueryParam("token")
	if token == "" {
		return httperr.BadRequest("Verification token is required")
	}

	userID, ok := redisutil.ConsumeToken(c.Request().Context(), verifyTokenPurpose, token)
	if !ok {
		return httperr.BadRequest("Invalid or expired verification token")
	}

	result := database.GetDB().Model(&model.User{}).Where("id = ?", userID).Update("email_verified", true)
	if result.Error != nil || result.RowsAffected == 0 {
		log.Error("Failed to mark email verified", zap.Uint("user_id", userID), zap.Error(result.Error))
		return httperr.Internal("Failed to verify email")
	}

	log.Info("Email verified", zap.Uint("user_id", userID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Email verified successfully"})
}
