package archive

import (
	"stocktake-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature exposes workspace archiving over the control API.
type Feature struct {
	service *Service
	enabled bool
	logger  *zap.Logger
}

// NewFeature creates the archive feature. It stays disabled when no storage
// endpoint is configured.
func NewFeature(service *Service, enabled bool, log *zap.Logger) *Feature {
	return &Feature{service: service, enabled: enabled, logger: log}
}

// Name implements loader.Feature.
func (f *Feature) Name() string { return "archive" }

// IsEnabled implements loader.Feature.
func (f *Feature) IsEnabled() bool { return f.enabled }

// Load implements loader.Feature.
func (f *Feature) Load(app fiber.Router) error {
	app.Post("/archive", f.handleArchive)
	return nil
}

func (f *Feature) handleArchive(c *fiber.Ctx) error {
	l := logger.WithRayID(f.logger, c)

	uploaded, err := f.service.Run(c.Context())
	if err != nil {
		l.Error("Archive run failed", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"objects": uploaded})
}
