package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clinsim/backend/internal/catalog"
)

type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// GetCatalog serves the static selection tree: archetypes (with their own
// navigation groups where defined) and the default body regions.
func (h *CatalogHandler) GetCatalog(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"archetypes":   catalog.Archetypes,
		"body_regions": catalog.BodyRegions,
	})
}
