package watcher

import (
	"github.com/gofiber/fiber/v2"
)

// Feature exposes the watcher state over the control API.
type Feature struct {
	watcher *Watcher
	enabled bool
}

// NewFeature creates the watcher feature. The watcher may be nil when
// disabled by configuration.
func NewFeature(w *Watcher, enabled bool) *Feature {
	return &Feature{watcher: w, enabled: enabled}
}

// Name implements loader.Feature.
func (f *Feature) Name() string { return "watcher" }

// IsEnabled implements loader.Feature.
func (f *Feature) IsEnabled() bool { return f.enabled }

// Load implements loader.Feature.
func (f *Feature) Load(app fiber.Router) error {
	app.Get("/watcher/status", f.handleStatus)
	return nil
}

func (f *Feature) handleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"state": f.watcher.State().String()})
}
