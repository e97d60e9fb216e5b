package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/ondieki1237/kenicweb-sub000/database"
	"github.com/ondieki1237/kenicweb-sub000/models"
	"github.com/ondieki1237/kenicweb-sub000/services"
	"github.com/ondieki1237/kenicweb-sub000/shared"
)

type DomainHandler struct {
	Availability *services.AvailabilityService
	Registrars   *services.RegistrarService
}

func NewDomainHandler(availability *services.AvailabilityService, registrars *services.RegistrarService) *DomainHandler {
	return &DomainHandler{
		Availability: availability,
		Registrars:   registrars,
	}
}

// CheckDomain answers GET /domains/check?domain=X with availability plus the
// sorted pricing list and cheapest quote.
func (h *DomainHandler) CheckDomain(c *fiber.Ctx) error {
	domain := c.Query("domain")
	if domain == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "domain query parameter is required",
		})
	}

	result, err := h.Availability.Check(c.Context(), domain)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	recordLookup(result)

	pricing := h.Registrars.PricingForDomain(result.Domain)
	response := fiber.Map{
		"success": true,
		"data":    result,
		"pricing": pricing,
	}
	if len(pricing) > 0 {
		response["bestPrice"] = pricing[0]
	}
	return c.JSON(response)
}

// BulkCheck answers POST /domains/bulk-check. Results preserve input order;
// per-item failures come back in the array rather than failing the batch.
func (h *DomainHandler) BulkCheck(c *fiber.Ctx) error {
	type Request struct {
		Domains []string `json:"domains"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request",
		})
	}

	results, err := h.Availability.CheckBulk(c.Context(), req.Domains)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	for i := range results {
		recordLookup(&results[i])
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(results),
		"data":    results,
	})
}

// recordLookup writes the check to the history table, fire-and-forget.
func recordLookup(result *models.AvailabilityResult) {
	if database.DB == nil || result.Error != "" {
		return
	}
	go func(lookup models.DomainLookup) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		database.InsertLookup(ctx, lookup)
	}(models.DomainLookup{
		Domain:    result.Domain,
		Available: result.Available,
		Outcome:   result.Outcome.String(),
		Message:   result.Message,
		CheckedAt: time.Now(),
	})
}

// statusForError maps service errors to HTTP statuses. Validation failures
// are the caller's fault; anything else that escapes the fail-open paths is
// a server-side problem.
func statusForError(err error) int {
	if shared.IsCategory(err, shared.ErrorCategoryValidation) {
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}
