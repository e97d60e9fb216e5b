package services

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/ondieki1237/kenicweb-sub000/shared"
	"github.com/sirupsen/logrus"
)

// kesAmount matches the first shilling amount in a table cell, e.g.
// "KES 1,000/yr" or "Ksh 750".
var kesAmount = regexp.MustCompile(`(?i)k(?:es|sh)?\.?\s*([0-9][0-9,]*)`)

// PricingScraper pulls per-extension registration prices from registrar
// price pages. Registrars publish these as plain HTML tables, so a row that
// mentions a supported suffix and a shilling amount is taken as that
// suffix's price.
type PricingScraper struct {
	limiter *shared.RequestRateLimiter
}

func NewPricingScraper() *PricingScraper {
	return &PricingScraper{
		limiter: shared.NewRequestRateLimiter(1 * time.Second),
	}
}

// FetchPrices scrapes one registrar price page and returns a suffix→KES
// map. Failing to extract any price is an error so a broken page never
// replaces a registrar's existing prices with an empty table.
func (s *PricingScraper) FetchPrices(pageURL string, suffixes []string) (map[string]int, error) {
	s.limiter.EnforceRateLimit()

	byLength := make([]string, len(suffixes))
	copy(byLength, suffixes)
	// Longest suffix first so a ".me.ke" cell is not claimed by ".ke".
	sort.Slice(byLength, func(i, j int) bool { return len(byLength[i]) > len(byLength[j]) })
	suffixes = byLength

	prices := make(map[string]int)

	c := colly.NewCollector()
	c.SetRequestTimeout(30 * time.Second)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
		r.Headers.Set("Accept", "text/html,application/xhtml+xml")
	})

	c.OnHTML("table tr", func(e *colly.HTMLElement) {
		suffix, price, ok := extractPriceRow(e.DOM, suffixes)
		if !ok {
			return
		}
		// First table mentioning the suffix wins; later rows are usually
		// renewal or transfer prices.
		if _, exists := prices[suffix]; !exists {
			prices[suffix] = price
		}
	})

	var fetchErr error
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	})

	if err := c.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", pageURL, err)
	}
	if fetchErr != nil {
		return nil, fetchErr
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("no prices extracted from %s", pageURL)
	}

	logrus.WithFields(logrus.Fields{
		"component": "PricingScraper",
		"url":       pageURL,
		"prices":    len(prices),
	}).Debug("Extracted registrar prices")

	return prices, nil
}

// extractPriceRow reads one table row: the suffix from any cell that names a
// supported extension, the price from the first cell with a shilling amount.
func extractPriceRow(row *goquery.Selection, suffixes []string) (string, int, bool) {
	var suffix string
	var price int
	found := false

	row.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
		text := strings.ToLower(strings.TrimSpace(cell.Text()))
		if text == "" {
			return
		}

		if suffix == "" {
			for _, candidate := range suffixes {
				if text == candidate || text == strings.TrimPrefix(candidate, ".") ||
					strings.Contains(text, candidate+" ") || strings.HasSuffix(text, candidate) {
					suffix = candidate
					break
				}
			}
		}

		if !found {
			if match := kesAmount.FindStringSubmatch(text); match != nil {
				raw := strings.ReplaceAll(match[1], ",", "")
				if n, err := strconv.Atoi(raw); err == nil && n > 0 {
					price = n
					found = true
				}
			}
		}
	})

	if suffix == "" || !found {
		return "", 0, false
	}
	return suffix, price, true
}
