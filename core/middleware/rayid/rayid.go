package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the response header carrying the request RayID.
const HeaderName = "X-Ray-ID"

// New returns a middleware that assigns a unique RayID to every request.
// The ID is stored in the request locals under "ray_id" and echoed back in
// the response headers so clients can reference it when reporting problems.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderName)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals("ray_id", id)
		c.Set(HeaderName, id)

		return c.Next()
	}
}
