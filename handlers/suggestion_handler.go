package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ondieki1237/kenicweb-sub000/services"
)

type SuggestionHandler struct {
	Suggestions *services.SuggestionService
}

func NewSuggestionHandler(suggestions *services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{Suggestions: suggestions}
}

// AISuggest answers POST /suggestions/ai. Total provider failure is a 200
// with success:false so the frontend renders an empty state instead of an
// error page.
func (h *SuggestionHandler) AISuggest(c *fiber.Ctx) error {
	type Request struct {
		BusinessDescription string `json:"business_description"`
		Max                 int    `json:"max"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request",
		})
	}

	response, err := h.Suggestions.SuggestForBusiness(c.Context(), req.BusinessDescription, req.Max)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	return c.JSON(response)
}

// KeywordSuggest answers GET /domains/suggestions?q=root&max=N.
func (h *SuggestionHandler) KeywordSuggest(c *fiber.Ctx) error {
	root := c.Query("q")
	if root == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "q query parameter is required",
		})
	}
	max := c.QueryInt("max", 0)

	response, err := h.Suggestions.SuggestForKeyword(c.Context(), root, max)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	return c.JSON(response)
}
