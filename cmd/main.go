package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ritikk978/next-nest/internal/handler"
	"github.com/ritikk978/next-nest/internal/httperr"
	"github.com/ritikk978/next-nest/internal/mailer"
	mid "github.com/ritikk978/next-nest/internal/middleware"
	"github.com/ritikk978/next-nest/internal/storage"
	"github.com/ritikk978/next-nest/pkg/config"
	"github.com/ritikk978/next-nest/pkg/database"
	"github.com/ritikk978/next-nest/pkg/jwtutil"
	"github.com/ritikk978/next-nest/pkg/logger"
	"github.com/ritikk978/next-nest/pkg/redisutil"
	"github.com/ritikk978/next-nest/prometheus"
)

func main() {
	// Load configuration
	appConfig, err := config.Load("nextnest")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting nextnest",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize Redis
	redisutil.InitRedis(appConfig)
	log.Info("Redis client initialized", zap.String("addr", appConfig.Redis.Addr))

	// Initialize file storage
	store, err := storage.New(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize file storage", zap.Error(err))
	}
	log.Info("File storage initialized", zap.String("backend", appConfig.Storage.Backend))

	// Wire handler collaborators
	handler.AppConfig = appConfig
	handler.FileStore = store
	handler.Notifier = mailer.New(appConfig)

	// Initialize Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httperr.ErrorHandler

	// Middleware
	e.Use(echomw.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api/v1")

	// Auth routes
	auth := api.Group("/auth")
	auth.POST("/register", handler.Register)
	auth.POST("/login", handler.Login)
	auth.POST("/refresh", handler.RefreshToken)
	auth.POST("/forgot-password", handler.ForgotPassword)
	auth.POST("/reset-password", handler.ResetPassword)
	auth.GET("/verify-email", handler.VerifyEmail)
	auth.GET("/validate", handler.ValidateToken)
	auth.POST("/logout", handler.Logout, mid.AuthMiddleware)
	auth.POST("/request-verification", handler.RequestEmailVerification, mid.AuthMiddleware)
	auth.POST("/request-phone-verification", handler.RequestPhoneVerification, mid.AuthMiddleware)
	auth.POST("/verify-phone", handler.VerifyPhone, mid.AuthMiddleware)

	// User routes
	users := api.Group("/users", mid.AuthMiddleware)
	users.GET("/me", handler.GetCurrentUser)
	users.PUT("/me/password", handler.ChangePassword)
	users.POST("/me/profile-image", handler.UploadProfileImage)
	users.GET("/stats", handler.UserStats, mid.RequireAdmin)
	users.GET("/search", handler.SearchUsers, mid.RequireAdmin)
	users.GET("", handler.ListUsers, mid.RequireAdmin)
	users.GET("/:id", handler.GetUser)
	users.PUT("/:id", handler.UpdateUser)
	users.DELETE("/:id", handler.DeleteUser)

	// Property routes
	properties := api.Group("/properties")
	properties.GET("", handler.ListProperties)
	properties.GET("/cities", handler.DistinctCities)
	properties.GET("/localities", handler.DistinctLocalities)
	properties.GET("/stats", handler.PropertyStats, mid.AuthMiddleware, mid.RequireAdmin)
	properties.GET("/:id", handler.GetProperty)
	properties.GET("/:id/booking-slots", handler.AvailableSlots)
	properties.POST("", handler.CreateProperty, mid.AuthMiddleware)
	properties.GET("/mine", handler.MyProperties, mid.AuthMiddleware)
	properties.PUT("/:id", handler.UpdateProperty, mid.AuthMiddleware)
	properties.PATCH("/:id/status", handler.UpdatePropertyStatus, mid.AuthMiddleware)
	properties.POST("/:id/verify", handler.VerifyProperty, mid.AuthMiddleware, mid.RequireAdmin)
	properties.DELETE("/:id", handler.DeleteProperty, mid.AuthMiddleware)
	properties.POST("/:id/images", handler.UploadPropertyImages, mid.AuthMiddleware)
	properties.DELETE("/:id/images", handler.RemovePropertyImage, mid.AuthMiddleware)
	properties.GET("/:id/bookings", handler.PropertyBookings, mid.AuthMiddleware)
	properties.GET("/:id/maintenance-requests", handler.PropertyMaintenanceRequests, mid.AuthMiddleware)

	// Booking routes
	bookings := api.Group("/bookings", mid.AuthMiddleware)
	bookings.POST("", handler.CreateBooking)
	bookings.GET("/mine", handler.MyBookings)
	bookings.GET("/upcoming", handler.UpcomingBookings)
	bookings.GET("/stats", handler.BookingStats, mid.RequireAdmin)
	bookings.GET("/:id", handler.GetBooking)
	bookings.PUT("/:id", handler.UpdateBooking)
	bookings.PATCH("/:id/status", handler.UpdateBookingStatus)
	bookings.POST("/:id/feedback", handler.AddBookingFeedback)
	bookings.DELETE("/:id", handler.DeleteBooking)

	// Transaction routes
	transactions := api.Group("/transactions")
	transactions.POST("/callback", handler.PaymentCallback)
	transactions.POST("", handler.InitiatePayment, mid.AuthMiddleware)
	transactions.GET("/mine", handler.MyTransactions, mid.AuthMiddleware)
	transactions.GET("/revenue", handler.Revenue, mid.AuthMiddleware, mid.RequireAdmin)
	transactions.GET("/stats", handler.TransactionStats, mid.AuthMiddleware, mid.RequireAdmin)
	transactions.GET("/:txnId", handler.GetTransaction, mid.AuthMiddleware)
	transactions.GET("/:txnId/receipt", handler.TransactionReceipt, mid.AuthMiddleware)
	transactions.PATCH("/:txnId/status", handler.UpdatePaymentStatus, mid.AuthMiddleware, mid.RequireAdmin)
	transactions.POST("/:txnId/refund", handler.InitiateRefund, mid.AuthMiddleware)

	// Roommate routes
	roommates := api.Group("/roommate-requests", mid.AuthMiddleware)
	roommates.POST("", handler.CreateRoommateRequest)
	roommates.GET("", handler.ListRoommateRequests)
	roommates.GET("/mine", handler.MyRoommateRequests)
	roommates.GET("/locations", handler.RoommateLocations)
	roommates.GET("/stats", handler.RoommateStats, mid.RequireAdmin)
	roommates.GET("/responses/mine", handler.MyRoommateResponses)
	roommates.GET("/:id", handler.GetRoommateRequest)
	roommates.PUT("/:id", handler.UpdateRoommateRequest)
	roommates.PATCH("/:id/status", handler.UpdateRoommateRequestStatus)
	roommates.DELETE("/:id", handler.DeleteRoommateRequest)
	roommates.POST("/:id/images", handler.UploadRoommateImages)
	roommates.DELETE("/:id/images", handler.RemoveRoommateImage)
	roommates.POST("/:id/responses", handler.RespondToRoommateRequest)
	roommates.GET("/:id/responses", handler.ListRoommateResponses)
	roommates.PATCH("/responses/:responseId", handler.UpdateRoommateResponseStatus)
	roommates.DELETE("/responses/:responseId", handler.DeleteRoommateResponse)

	// Maintenance routes
	maintenance := api.Group("/maintenance-requests", mid.AuthMiddleware)
	maintenance.POST("", handler.CreateMaintenanceRequest)
	maintenance.GET("/mine", handler.MyMaintenanceRequests)
	maintenance.GET("/:id", handler.GetMaintenanceRequest)
	maintenance.PATCH("/:id/status", handler.UpdateMaintenanceStatus)
	maintenance.POST("/:id/feedback", handler.AddMaintenanceFeedback)
	maintenance.DELETE("/:id", handler.DeleteMaintenanceRequest)

	// Conversation routes
	conversations := api.Group("/conversations", mid.AuthMiddleware)
	conversations.POST("", handler.CreateConversation)
	conversations.GET("", handler.MyConversations)
	conversations.GET("/:id", handler.GetConversation)
	conversations.GET("/:id/messages", handler.ListMessages)
	conversations.POST("/:id/messages", handler.SendMessage)
	conversations.POST("/:id/close", handler.CloseConversation)

	// Services catalog routes
	services := api.Group("/services")
	services.GET("", handler.ListServices)
	services.GET("/providers", handler.ListServiceProviders)
	services.GET("/:id", handler.GetService)
	services.POST("", handler.CreateService, mid.AuthMiddleware, mid.RequireAdmin)
	services.PUT("/:id", handler.UpdateService, mid.AuthMiddleware, mid.RequireAdmin)
	services.PATCH("/:id/status", handler.UpdateServiceStatus, mid.AuthMiddleware, mid.RequireAdmin)
	services.POST("/providers", handler.CreateServiceProvider, mid.AuthMiddleware, mid.RequireAdmin)
	services.POST("/:id/providers/:providerId", handler.LinkServiceProvider, mid.AuthMiddleware, mid.RequireAdmin)
	services.DELETE("/:id/providers/:providerId", handler.UnlinkServiceProvider, mid.AuthMiddleware, mid.RequireAdmin)

	// Stored file serving (local backend)
	api.GET("/files/:dir/:name", handler.ServeFile)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
