package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ondieki1237/kenicweb-sub000/services"
	"github.com/sirupsen/logrus"
)

type CacheHandler struct {
	Cache *services.CacheService
}

func NewCacheHandler(cache *services.CacheService) *CacheHandler {
	return &CacheHandler{Cache: cache}
}

// Stats answers GET /admin/cache/stats.
func (h *CacheHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.Cache.Stats(),
	})
}

// Clear answers DELETE /admin/cache by dropping every cached WHOIS response.
func (h *CacheHandler) Clear(c *fiber.Ctx) error {
	size := h.Cache.Size()
	h.Cache.Clear()
	logrus.Infof("Cache cleared by admin request, %d entries removed", size)
	return c.JSON(fiber.Map{
		"success": true,
		"removed": size,
	})
}
