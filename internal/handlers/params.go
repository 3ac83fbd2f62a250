package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// idParam parses the :id route parameter. A non-numeric id cannot match any
// owned row, so callers treat a false return the same as not-found.
func idParam(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
