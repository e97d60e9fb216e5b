package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ondieki1237/kenicweb-sub000/models"
	"github.com/ondieki1237/kenicweb-sub000/shared"
	"github.com/sirupsen/logrus"
)

// ideaRequestCount is how many raw name ideas each provider is asked for.
// More than the suggestion cap, since expansion candidates get filtered
// down by availability.
const ideaRequestCount = 10

// SuggestionService produces available .ke domain candidates, ranked by
// price. Ideas come from an ordered chain of generative-AI providers (first
// success wins, one shot each) or from a caller-supplied keyword; either way
// the candidates are expanded across the supported suffixes, verified under
// a concurrency ceiling, and priced.
type SuggestionService struct {
	providers    []IdeaProvider
	availability *AvailabilityService
	registrars   *RegistrarService
	suffixes     []string
	concurrency  int
	defaultMax   int
}

// NewSuggestionService creates the pipeline. suffixes must be in expansion
// order; concurrency caps in-flight availability checks.
func NewSuggestionService(providers []IdeaProvider, availability *AvailabilityService, registrars *RegistrarService, suffixes []string, concurrency, defaultMax int) *SuggestionService {
	if concurrency <= 0 {
		concurrency = 5
	}
	if defaultMax <= 0 {
		defaultMax = 5
	}
	return &SuggestionService{
		providers:    providers,
		availability: availability,
		registrars:   registrars,
		suffixes:     suffixes,
		concurrency:  concurrency,
		defaultMax:   defaultMax,
	}
}

// SuggestForBusiness runs the AI pipeline for a business description. Total
// provider failure comes back as Success: false with an empty list, not an
// error; the returned error is non-nil only for malformed input.
func (s *SuggestionService) SuggestForBusiness(ctx context.Context, businessDescription string, max int) (*models.SuggestionResponse, error) {
	businessDescription = strings.TrimSpace(businessDescription)
	if businessDescription == "" {
		return nil, shared.NewValidationError("DESCRIPTION_REQUIRED",
			"a business description is required", "SuggestionService", "SuggestForBusiness")
	}
	if max <= 0 {
		max = s.defaultMax
	}

	ideas, providerName, err := s.generateIdeas(ctx, businessDescription)
	if err != nil {
		return &models.SuggestionResponse{
			Success:             false,
			BusinessDescription: businessDescription,
			Suggestions:         []models.DomainSuggestion{},
			Error:               err.Error(),
		}, nil
	}

	suggestions := s.verifyAndRank(ctx, s.ExpandCandidates(ideas), max)
	return &models.SuggestionResponse{
		Success:             true,
		BusinessDescription: businessDescription,
		Provider:            providerName,
		Count:               len(suggestions),
		Suggestions:         suggestions,
	}, nil
}

// SuggestForKeyword expands a single name root across the supported
// suffixes and returns the available, priced candidates.
func (s *SuggestionService) SuggestForKeyword(ctx context.Context, root string, max int) (*models.SuggestionResponse, error) {
	root = strings.ToLower(strings.TrimSpace(root))
	if len(root) < minDomainLength || len(root) > maxDomainLength || !domainCharset.MatchString(root) {
		return nil, shared.NewValidationError("KEYWORD_INVALID",
			"keyword must be 3-63 characters of lowercase letters, digits, dots and hyphens",
			"SuggestionService", "SuggestForKeyword")
	}
	if max <= 0 {
		max = s.defaultMax
	}

	suggestions := s.verifyAndRank(ctx, s.ExpandCandidates([]string{root}), max)
	return &models.SuggestionResponse{
		Success:     true,
		Query:       root,
		Count:       len(suggestions),
		Suggestions: suggestions,
	}, nil
}

// generateIdeas walks the provider chain in order and returns the first
// non-empty idea list. Each provider gets exactly one attempt.
func (s *SuggestionService) generateIdeas(ctx context.Context, businessDescription string) ([]string, string, error) {
	if len(s.providers) == 0 {
		return nil, "", shared.NewServiceError(shared.ErrorCategoryConfiguration, "NO_PROVIDERS",
			"no AI providers are configured", "SuggestionService", "generateIdeas", false, nil)
	}

	var failures []string
	for _, provider := range s.providers {
		ideas, err := provider.GenerateIdeas(ctx, businessDescription, ideaRequestCount)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"component": "SuggestionService",
				"provider":  provider.Name(),
				"error":     err.Error(),
			}).Warn("Idea provider failed, falling through to next provider")
			failures = append(failures, fmt.Sprintf("%s: %v", provider.Name(), err))
			continue
		}

		logrus.WithFields(logrus.Fields{
			"component": "SuggestionService",
			"provider":  provider.Name(),
			"ideas":     len(ideas),
		}).Info("Idea provider succeeded")
		return ideas, provider.Name(), nil
	}

	return nil, "", shared.NewServiceError(shared.ErrorCategoryProvider, "ALL_PROVIDERS_FAILED",
		"all providers failed: "+strings.Join(failures, "; "),
		"SuggestionService", "generateIdeas", false, nil)
}

// ExpandCandidates turns raw ideas into fully qualified .ke candidates.
// Ideas already carrying an allowed suffix pass through unchanged; the rest
// expand to one candidate per suffix. The result is de-duplicated with
// first-occurrence ordering.
func (s *SuggestionService) ExpandCandidates(ideas []string) []string {
	seen := make(map[string]bool)
	var candidates []string

	add := func(candidate string) {
		if !seen[candidate] {
			seen[candidate] = true
			candidates = append(candidates, candidate)
		}
	}

	for _, idea := range ideas {
		idea = strings.ToLower(strings.TrimSpace(idea))
		if idea == "" {
			continue
		}
		if s.hasAllowedSuffix(idea) {
			add(idea)
			continue
		}
		for _, suffix := range s.suffixes {
			add(idea + suffix)
		}
	}
	return candidates
}

func (s *SuggestionService) hasAllowedSuffix(domain string) bool {
	for _, suffix := range s.suffixes {
		if strings.HasSuffix(domain, suffix) && len(domain) > len(suffix) {
			return true
		}
	}
	return false
}

// verifyAndRank checks candidates under the concurrency ceiling, drops
// unavailable or unconfirmed ones, prices the rest, and returns the
// cheapest max entries.
func (s *SuggestionService) verifyAndRank(ctx context.Context, candidates []string, max int) []models.DomainSuggestion {
	checked := make([]*models.DomainSuggestion, len(candidates))

	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i, candidate := range candidates {
		wg.Add(1)
		go func(i int, candidate string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := s.availability.Check(ctx, candidate)
			if err != nil || result.Outcome != models.AvailabilityAvailable {
				// Taken, unconfirmed, or invalid: dropped, not surfaced.
				return
			}

			pricing := s.registrars.PricingForDomain(result.Domain)
			suggestion := &models.DomainSuggestion{
				Domain:    result.Domain,
				Available: true,
				WhoisData: result.WhoisData,
				Pricing:   pricing,
			}
			if len(pricing) > 0 {
				best := pricing[0]
				suggestion.BestPrice = &best
			}
			if result.WhoisData != nil {
				suggestion.ExpiryDate = result.WhoisData.ExpiryDate
			}
			checked[i] = suggestion
		}(i, candidate)
	}

	wg.Wait()

	suggestions := make([]models.DomainSuggestion, 0, len(candidates))
	for _, suggestion := range checked {
		if suggestion != nil {
			suggestions = append(suggestions, *suggestion)
		}
	}

	// Cheapest first; candidates without any price quote sort last.
	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].BestPrice == nil {
			return false
		}
		if suggestions[j].BestPrice == nil {
			return true
		}
		return suggestions[i].BestPrice.Price < suggestions[j].BestPrice.Price
	})

	if len(suggestions) > max {
		suggestions = suggestions[:max]
	}
	return suggestions
}
