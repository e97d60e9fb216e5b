package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ondieki1237/kenicweb-sub000/services"
)

type RegistrarHandler struct {
	Registrars *services.RegistrarService
}

func NewRegistrarHandler(registrars *services.RegistrarService) *RegistrarHandler {
	return &RegistrarHandler{Registrars: registrars}
}

func (h *RegistrarHandler) List(c *fiber.Ctx) error {
	registrars := h.Registrars.List()
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(registrars),
		"data":    registrars,
	})
}

// Pricing answers GET /registrars/pricing?domain=X with the ascending-price
// quote list for one domain.
func (h *RegistrarHandler) Pricing(c *fiber.Ctx) error {
	domain := c.Query("domain")
	if domain == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "domain query parameter is required",
		})
	}

	pricing := h.Registrars.PricingForDomain(domain)
	response := fiber.Map{
		"success": true,
		"domain":  domain,
		"data":    pricing,
	}
	if len(pricing) > 0 {
		response["bestPrice"] = pricing[0]
	}
	return c.JSON(response)
}
