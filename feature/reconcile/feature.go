package reconcile

import (
	"errors"

	"stocktake-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature exposes reconciliation over the control API.
type Feature struct {
	service *Service
	logger  *zap.Logger
}

// NewFeature creates the reconcile feature.
func NewFeature(service *Service, log *zap.Logger) *Feature {
	return &Feature{service: service, logger: log}
}

// Name implements loader.Feature.
func (f *Feature) Name() string { return "reconcile" }

// IsEnabled implements loader.Feature.
func (f *Feature) IsEnabled() bool { return true }

// Load implements loader.Feature.
func (f *Feature) Load(app fiber.Router) error {
	group := app.Group("/reconcile")
	group.Post("/", f.handleRun)
	group.Get("/status", f.handleStatus)
	group.Get("/ledger", f.handleLedger)
	return nil
}

// handleRun triggers a reconciliation and returns its summary.
func (f *Feature) handleRun(c *fiber.Ctx) error {
	l := logger.WithRayID(f.logger, c)

	summary, err := f.service.Run()
	if err != nil {
		l.Error("Reconciliation failed", zap.Error(err))
		if errors.Is(err, ErrMissingStockSnapshot) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(summary)
}

// handleStatus reports when the ledger was last produced.
func (f *Feature) handleStatus(c *fiber.Ctx) error {
	ledgerAt, ok := f.service.LastLedgerTime()
	if !ok {
		return c.JSON(fiber.Map{"reconciled": false})
	}
	return c.JSON(fiber.Map{"reconciled": true, "ledger_at": ledgerAt})
}

// handleLedger returns the full combined ledger.
func (f *Feature) handleLedger(c *fiber.Ctx) error {
	l := logger.WithRayID(f.logger, c)

	records, err := f.service.Ledger()
	if err != nil {
		l.Error("Ledger read failed", zap.Error(err))
		return fiber.NewError(fiber.StatusNotFound, "no ledger has been produced yet")
	}
	return c.JSON(records)
}
