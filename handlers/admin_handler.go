package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/ondieki1237/kenicweb-sub000/database"
	"github.com/ondieki1237/kenicweb-sub000/jobs"
	"github.com/ondieki1237/kenicweb-sub000/models"
	"github.com/ondieki1237/kenicweb-sub000/services"
	"github.com/sirupsen/logrus"
)

type AdminHandler struct {
	Registrars  *services.RegistrarService
	PricingSync *jobs.PricingSyncJob
}

func NewAdminHandler(registrars *services.RegistrarService, pricingSync *jobs.PricingSyncJob) *AdminHandler {
	return &AdminHandler{
		Registrars:  registrars,
		PricingSync: pricingSync,
	}
}

// AdminAuthMiddleware rejects requests without the configured admin token.
// When no token is configured the admin surface is open (local development).
func AdminAuthMiddleware(adminToken string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if adminToken != "" && c.Get("X-Admin-Token") != adminToken {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "invalid admin token",
			})
		}
		return c.Next()
	}
}

// ReplaceRegistrars answers PUT /admin/registrars: the table's only
// mutation path, a full bulk replace.
func (h *AdminHandler) ReplaceRegistrars(c *fiber.Ctx) error {
	type Request struct {
		Registrars []models.Registrar `json:"registrars"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request",
		})
	}

	if err := h.Registrars.ReplaceAll(req.Registrars); err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	// Persist the replacement out of band; in-memory state is authoritative.
	if database.DB != nil {
		go func(registrars []models.Registrar) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := database.ReplaceRegistrars(ctx, registrars); err != nil {
				logrus.Errorf("Failed to persist registrar table: %v", err)
			}
		}(h.Registrars.List())
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(req.Registrars),
	})
}

// TriggerPricingSync answers POST /admin/pricing/sync by running the
// pricing sync job in the background.
func (h *AdminHandler) TriggerPricingSync(c *fiber.Ctx) error {
	go h.PricingSync.Run()
	return c.JSON(fiber.Map{
		"success": true,
		"message": "pricing sync started",
	})
}
