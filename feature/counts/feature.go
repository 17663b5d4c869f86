package counts

import (
	"errors"
	"io"

	"stocktake-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature exposes count file ingestion over the control API.
type Feature struct {
	service *Service
	logger  *zap.Logger
}

// NewFeature creates the counts feature.
func NewFeature(service *Service, log *zap.Logger) *Feature {
	return &Feature{service: service, logger: log}
}

// Name implements loader.Feature.
func (f *Feature) Name() string { return "counts" }

// IsEnabled implements loader.Feature.
func (f *Feature) IsEnabled() bool { return true }

// Load implements loader.Feature.
func (f *Feature) Load(app fiber.Router) error {
	group := app.Group("/counts")
	group.Post("/upload", f.handleUpload)
	return nil
}

// handleUpload ingests a count file uploaded as multipart form field "file".
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

	snapName, report, err := f.service.Ingest(fileHeader.Filename, data)
	if err != nil {
		l.Error("Count ingestion failed", zap.Error(err))
		if errors.Is(err, ErrSchema) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{"snapshot": snapName, "report": report})
}
