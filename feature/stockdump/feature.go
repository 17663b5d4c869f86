package stockdump

import (
	"io"

	"stocktake-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature exposes stock dump ingestion over the control API.
type Feature struct {
	service *Service
	logger  *zap.Logger
}

// NewFeature creates the stockdump feature.
func NewFeature(service *Service, log *zap.Logger) *Feature {
	return &Feature{service: service, logger: log}
}

// Name implements loader.Feature.
func (f *Feature) Name() string { return "stockdump" }

// IsEnabled implements loader.Feature.
func (f *Feature) IsEnabled() bool { return true }

// Load implements loader.Feature.
func (f *Feature) Load(app fiber.Router) error {
	group := app.Group("/stock")
	group.Post("/upload", f.handleUpload)
	return nil
}

// handleUpload ingests a stock dump uploaded as multipart form field "file".
func (f *Feature) handleUpload(c *fiber.Ctx) error {
	l := logger.WithRayID(f.logger, c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing file upload: "+err.Error())
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to open upload: "+err.Error())
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to read upload: "+err.Error())
	}

	report, err := f.service.Ingest(data)
	if err != nil {
		l.Error("Stock ingestion failed", zap.Error(err))
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	return c.JSON(report)
}
