package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/ondieki1237/kenicweb-sub000/models"
	"github.com/ondieki1237/kenicweb-sub000/shared"
	"github.com/sirupsen/logrus"
)

// MaxBulkDomains caps one bulk-check request.
const MaxBulkDomains = 10

const (
	minDomainLength = 3
	maxDomainLength = 63
)

var domainCharset = regexp.MustCompile(`^[a-z0-9.-]+$`)

// AvailabilityService answers "is this domain available" for single and bulk
// queries. It owns input normalization and the fail-open policy: network and
// registry failures degrade to "probably available" results instead of
// request failures, so only malformed input is a hard error.
type AvailabilityService struct {
	whois         *WhoisClient
	suffixes      []string
	defaultSuffix string
}

// NewAvailabilityService creates the service. suffixes is the shared allowed
// .ke suffix list; defaultSuffix is appended to bare names.
func NewAvailabilityService(whois *WhoisClient, suffixes []string, defaultSuffix string) *AvailabilityService {
	byLength := make([]string, len(suffixes))
	copy(byLength, suffixes)
	// Longest suffix first so ".co.ke" beats ".ke".
	sort.Slice(byLength, func(i, j int) bool { return len(byLength[i]) > len(byLength[j]) })

	return &AvailabilityService{
		whois:         whois,
		suffixes:      byLength,
		defaultSuffix: defaultSuffix,
	}
}

// NormalizeDomain lower-cases, validates, and extension-qualifies a
// free-form domain string. The operation is idempotent: normalizing an
// already-normalized domain returns it unchanged.
func (s *AvailabilityService) NormalizeDomain(input string) (string, error) {
	domain := strings.ToLower(strings.TrimSpace(input))

	if len(domain) < minDomainLength || len(domain) > maxDomainLength {
		return "", shared.NewValidationError("DOMAIN_LENGTH",
			fmt.Sprintf("domain must be between %d and %d characters", minDomainLength, maxDomainLength),
			"AvailabilityService", "NormalizeDomain")
	}
	if !domainCharset.MatchString(domain) {
		return "", shared.NewValidationError("DOMAIN_CHARSET",
			"domain may only contain lowercase letters, digits, dots and hyphens",
			"AvailabilityService", "NormalizeDomain")
	}

	for strings.Contains(domain, "..") {
		domain = strings.ReplaceAll(domain, "..", ".")
	}
	domain = strings.Trim(domain, ".")

	if suffix := s.matchSuffix(domain); suffix != "" {
		name := strings.Trim(strings.TrimSuffix(domain, suffix), ".")
		if name == "" {
			return "", shared.NewValidationError("DOMAIN_EMPTY_NAME",
				"domain has no name part before its extension",
				"AvailabilityService", "NormalizeDomain")
		}
		// Keep at most the name and the .ke extension.
		return strings.Split(name, ".")[0] + suffix, nil
	}

	name := strings.Split(domain, ".")[0]
	if name == "" {
		return "", shared.NewValidationError("DOMAIN_EMPTY_NAME",
			"domain has no name part", "AvailabilityService", "NormalizeDomain")
	}
	return name + s.defaultSuffix, nil
}

// matchSuffix returns the longest allowed suffix the domain ends with, or "".
func (s *AvailabilityService) matchSuffix(domain string) string {
	for _, suffix := range s.suffixes {
		if strings.HasSuffix(domain, suffix) && len(domain) > len(suffix) {
			return suffix
		}
	}
	return ""
}

// Check looks up one domain. The returned error is non-nil only for
// malformed input; all network and registry failures are absorbed into a
// fail-open result.
func (s *AvailabilityService) Check(ctx context.Context, input string) (*models.AvailabilityResult, error) {
	domain, err := s.NormalizeDomain(input)
	if err != nil {
		return nil, err
	}

	raw, err := s.whois.Lookup(ctx, domain)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"component": "AvailabilityService",
			"domain":    domain,
			"error":     err.Error(),
		}).Warn("WHOIS lookup failed, reporting domain as likely available")

		return &models.AvailabilityResult{
			Domain:    domain,
			Available: true,
			Message:   fmt.Sprintf("WHOIS lookup failed (%s); the domain is likely available but could not be confirmed", err.Error()),
			WhoisData: nil,
			Outcome:   models.AvailabilityUnknown,
		}, nil
	}

	if ClassifyAvailability(raw) == models.AvailabilityAvailable {
		record := ParseWhoisResponse(domain, raw)
		if record.ErrorMessage != "" {
			// The server answered with a processing error, not a clean
			// "no match". Still reported as available, flagged uncertain.
			return &models.AvailabilityResult{
				Domain:    domain,
				Available: true,
				Message:   "WHOIS server returned an ambiguous response; the domain is likely available but could not be confirmed",
				WhoisData: nil,
				Outcome:   models.AvailabilityUnknown,
			}, nil
		}
		return &models.AvailabilityResult{
			Domain:    domain,
			Available: true,
			Message:   "Domain is available for registration",
			WhoisData: nil,
			Outcome:   models.AvailabilityAvailable,
		}, nil
	}

	record := ParseWhoisResponse(domain, raw)
	return &models.AvailabilityResult{
		Domain:    domain,
		Available: false,
		Message:   "Domain is already registered",
		WhoisData: record,
		Outcome:   models.AvailabilityTaken,
	}, nil
}

// CheckBulk checks up to MaxBulkDomains domains concurrently. Results come
// back in input order: each lookup writes to its own index, so completion
// timing has no observable effect. Per-item validation failures become
// same-shaped error results instead of aborting the batch.
func (s *AvailabilityService) CheckBulk(ctx context.Context, inputs []string) ([]models.AvailabilityResult, error) {
	if len(inputs) == 0 {
		return nil, shared.NewValidationError("BULK_EMPTY",
			"at least one domain is required", "AvailabilityService", "CheckBulk")
	}
	if len(inputs) > MaxBulkDomains {
		return nil, shared.NewValidationError("BULK_TOO_MANY",
			fmt.Sprintf("a maximum of %d domains may be checked at once, got %d", MaxBulkDomains, len(inputs)),
			"AvailabilityService", "CheckBulk")
	}

	results := make([]models.AvailabilityResult, len(inputs))
	var wg sync.WaitGroup

	for i, input := range inputs {
		wg.Add(1)
		go func(i int, input string) {
			defer wg.Done()
			result, err := s.Check(ctx, input)
			if err != nil {
				results[i] = models.AvailabilityResult{
					Domain:  strings.ToLower(strings.TrimSpace(input)),
					Message: "domain could not be checked",
					Error:   err.Error(),
					Outcome: models.AvailabilityUnknown,
				}
				return
			}
			results[i] = *result
		}(i, input)
	}

	wg.Wait()
	return results, nil
}
