package jobs

import (
	"github.com/ondieki1237/kenicweb-sub000/services"
	"github.com/sirupsen/logrus"
)

// PricingSyncJob refreshes the registrar table's prices from each
// registrar's public price page. A failed scrape leaves that registrar's
// existing prices untouched.
type PricingSyncJob struct {
	Registrars *services.RegistrarService
	Scraper    *services.PricingScraper
	Suffixes   []string
}

func NewPricingSyncJob(registrars *services.RegistrarService, scraper *services.PricingScraper, suffixes []string) *PricingSyncJob {
	return &PricingSyncJob{
		Registrars: registrars,
		Scraper:    scraper,
		Suffixes:   suffixes,
	}
}

func (j *PricingSyncJob) Run() {
	logrus.Info("Starting Registrar Pricing Sync Job")

	updated := 0
	skipped := 0
	failed := 0

	for _, registrar := range j.Registrars.List() {
		if registrar.PricingPageURL == "" {
			skipped++
			continue
		}

		prices, err := j.Scraper.FetchPrices(registrar.PricingPageURL, j.Suffixes)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"registrar": registrar.Name,
				"url":       registrar.PricingPageURL,
				"error":     err.Error(),
			}).Warn("Pricing scrape failed, keeping existing prices")
			failed++
			continue
		}

		if j.Registrars.UpdatePrices(registrar.Name, prices) {
			logrus.WithFields(logrus.Fields{
				"registrar":  registrar.Name,
				"extensions": len(prices),
			}).Info("Registrar prices refreshed")
			updated++
		}
	}

	logrus.WithFields(logrus.Fields{
		"updated": updated,
		"skipped": skipped,
		"failed":  failed,
	}).Info("Registrar Pricing Sync Job completed")
}
