package jobs

import (
	"context"
	"time"

	"github.com/ondieki1237/kenicweb-sub000/database"
	"github.com/ondieki1237/kenicweb-sub000/services"
	"github.com/sirupsen/logrus"
)

// CacheCleanupJob sweeps expired WHOIS responses from the in-memory cache
// and, when persistence is configured, prunes old lookup-history rows.
type CacheCleanupJob struct {
	CacheService *services.CacheService
}

func NewCacheCleanupJob(cacheService *services.CacheService) *CacheCleanupJob {
	return &CacheCleanupJob{CacheService: cacheService}
}

func (j *CacheCleanupJob) Run() {
	logrus.Info("Starting Cache Cleanup Job")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	removed := j.CacheService.RemoveExpired()

	if database.DB != nil {
		if err := database.CleanupOldLookups(ctx, 90*24*time.Hour); err != nil {
			logrus.Errorf("Failed to prune lookup history: %v", err)
		}
	}

	logrus.WithField("removed", removed).Info("Cache Cleanup Job completed")
}
