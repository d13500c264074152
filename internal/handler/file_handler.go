package handler

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ritikk978/next-nest/internal/httperr"
	"github.com/ritikk978/next-nest/internal/middleware"
	"github.com/ritikk978/next-nest/internal/model"
	"github.com/ritikk978/next-nest/internal/storage"
	"github.com/ritikk978/next-nest/pkg/database"
	"github.com/ritikk978/next-nest/pkg/logger"
)

// ServeFile streams a stored upload back to the client
func ServeFile(c echo.Context) error {
	dir := c.Param("dir")
	name := c.Param("name")

	rc, err := FileStore.Open(c.Request().Context(), dir, name)
	if err != nil {
		return httperr.NotFound("File not found")
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return c.Stream(http.StatusOK, contentType, rc)
}

// UploadProfileImage replaces the caller's profile picture
func UploadProfileImage(c echo.Context) error {
	log := logger.FromEcho(c)
	callerID, _ := middleware.CallerID(c)

	fh, err := c.FormFile("image")
	if err != nil {
		return httperr.BadRequest("An image file is required")
	}
	if fh.Size > AppConfig.Storage.MaxUploadSize {
		return httperr.PayloadTooLarge("Image exceeds the maximum upload size")
	}
	contentType := fh.Header.Get("Content-Type")
	if !storage.ValidImageType(contentType) {
		return httperr.BadRequest("Only JPEG, PNG, WEBP and GIF images are accepted")
	}

	var src io.ReadCloser
	src, err = fh.Open()
	if err != nil {
		log.Error("Failed to read uploaded file", zap.Error(err))
		return httperr.Internal("Failed to store image")
	}
	defer src.Close()

	url, err := FileStore.Store(c.Request().Context(), "profiles", fh.Filename, contentType, src, fh.Size)
	if err != nil {
		log.Error("Failed to store profile image", zap.Error(err))
		return httperr.Internal("Failed to store image")
	}

	result := database.GetDB().Model(&model.User{}).Where("id = ?", callerID).Update("profile_image_url", url)
	if result.Error != nil {
		log.Error("Failed to save profile image URL", zap.Uint("user_id", callerID), zap.Error(result.Error))
		return httperr.Internal("Failed to store image")
	}

	log.Info("Profile image updated", zap.Uint("user_id", callerID))
	return c.JSON(http.StatusOK, echo.Map{"profile_image_url": url})
}
