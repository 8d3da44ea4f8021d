package bootstrap

import (
	appconfig "github.com/skinsociete/platform/internal/config"
	"github.com/skinsociete/platform/internal/notify"
	"github.com/skinsociete/platform/pkg/logging"
)

// BuildEmailSender returns the SendGrid sender when an API key is configured,
// otherwise a stub that logs instead of sending.
func BuildEmailSender(cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg == nil || cfg.SendGridAPIKey == "" {
		logger.Warn("sendgrid api key not set; booking emails are logged only")
		return notify.NewStubEmailSender(logger)
	}
	return notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger)
}
