package mailer

import (
	"go.uber.org/zap"

	"github.com/ritikk978/next-nest/pkg/logger"
)

// Dispatch runs a notification in the background. Mail must never fail
// a request, so errors are logged and dropped.
func Dispatch(what string, fn func() error) {
	go func() {
		if err := fn(); err != nil {
			logger.GetLogger().Warn("Failed to send notification email",
				zap.String("notification", what),
				zap.Error(err))
		}
	}()
}
