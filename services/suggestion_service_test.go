package services

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ondieki1237/kenicweb-sub000/config"
	"github.com/ondieki1237/kenicweb-sub000/shared"
)

// stubProvider is a scripted IdeaProvider that records its invocations.
type stubProvider struct {
	name  string
	ideas []string
	err   error

	mu    *sync.Mutex
	calls *[]string
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) GenerateIdeas(ctx context.Context, businessDescription string, count int) ([]string, error) {
	p.mu.Lock()
	*p.calls = append(*p.calls, p.name)
	p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	return p.ideas, nil
}

// newStubChain builds a provider chain plus the shared invocation log.
func newStubChain(providers ...*stubProvider) ([]IdeaProvider, *[]string) {
	var mu sync.Mutex
	calls := &[]string{}
	chain := make([]IdeaProvider, len(providers))
	for i, p := range providers {
		p.mu = &mu
		p.calls = calls
		chain[i] = p
	}
	return chain, calls
}

func newTestSuggestionService(providers []IdeaProvider, respond func(query string) string, concurrency, defaultMax int) *SuggestionService {
	availability, _ := newTestAvailabilityService(respond)
	registrars := NewRegistrarService(config.AllowedSuffixes())
	return NewSuggestionService(providers, availability, registrars, config.AllowedSuffixes(), concurrency, defaultMax)
}

func TestGenerateIdeasFallsThroughProvidersInOrder(t *testing.T) {
	chain, calls := newStubChain(
		&stubProvider{name: "gemini", err: errors.New("quota exhausted")},
		&stubProvider{name: "openai", err: errors.New("server error")},
		&stubProvider{name: "anthropic", ideas: []string{"dukalink", "sokohub"}},
		&stubProvider{name: "cohere", ideas: []string{"never-used"}},
	)
	service := newTestSuggestionService(chain, availableResponder, 5, 5)

	response, err := service.SuggestForBusiness(context.Background(), "online hardware store in Nakuru", 5)
	if err != nil {
		t.Fatalf("SuggestForBusiness failed: %v", err)
	}
	if !response.Success {
		t.Fatalf("expected success, got error %q", response.Error)
	}
	if response.Provider != "anthropic" {
		t.Errorf("Provider = %q, want the first succeeding provider", response.Provider)
	}

	want := []string{"gemini", "openai", "anthropic"}
	if len(*calls) != len(want) {
		t.Fatalf("provider invocations = %v, want %v", *calls, want)
	}
	for i, name := range want {
		if (*calls)[i] != name {
			t.Errorf("invocation %d = %q, want %q", i, (*calls)[i], name)
		}
	}
}

func TestSuggestForBusinessReportsTotalProviderFailureAsEmptyResult(t *testing.T) {
	chain, _ := newStubChain(
		&stubProvider{name: "gemini", err: errors.New("down")},
		&stubProvider{name: "openai", err: errors.New("also down")},
	)
	service := newTestSuggestionService(chain, availableResponder, 5, 5)

	response, err := service.SuggestForBusiness(context.Background(), "a bakery in Kisumu", 5)
	if err != nil {
		t.Fatalf("total provider failure must not be a request error, got %v", err)
	}
	if response.Success {
		t.Error("expected Success = false")
	}
	if response.Suggestions == nil || len(response.Suggestions) != 0 {
		t.Errorf("Suggestions = %v, want empty non-nil list", response.Suggestions)
	}
	if !strings.Contains(response.Error, "gemini") || !strings.Contains(response.Error, "openai") {
		t.Errorf("Error should name every failed provider, got %q", response.Error)
	}
}

func TestSuggestForBusinessRejectsEmptyDescription(t *testing.T) {
	chain, calls := newStubChain(&stubProvider{name: "gemini", ideas: []string{"x"}})
	service := newTestSuggestionService(chain, availableResponder, 5, 5)

	_, err := service.SuggestForBusiness(context.Background(), "   ", 5)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !shared.IsCategory(err, shared.ErrorCategoryValidation) {
		t.Errorf("expected validation category, got %v", err)
	}
	if len(*calls) != 0 {
		t.Error("no provider should be called for invalid input")
	}
}

func TestExpandCandidatesCoversEverySuffixInOrder(t *testing.T) {
	service := newTestSuggestionService(nil, availableResponder, 5, 5)

	candidates := service.ExpandCandidates([]string{"duka"})
	want := []string{
		"duka.co.ke", "duka.ke", "duka.or.ke", "duka.ac.ke",
		"duka.sc.ke", "duka.go.ke", "duka.me.ke",
	}
	if len(candidates) != len(want) {
		t.Fatalf("candidates = %v, want %v", candidates, want)
	}
	for i, c := range want {
		if candidates[i] != c {
			t.Errorf("candidates[%d] = %q, want %q", i, candidates[i], c)
		}
	}
}

func TestExpandCandidatesPassesQualifiedNamesThrough(t *testing.T) {
	service := newTestSuggestionService(nil, availableResponder, 5, 5)

	candidates := service.ExpandCandidates([]string{"duka.or.ke"})
	if len(candidates) != 1 || candidates[0] != "duka.or.ke" {
		t.Errorf("candidates = %v, want just duka.or.ke", candidates)
	}
}

func TestExpandCandidatesDeduplicates(t *testing.T) {
	service := newTestSuggestionService(nil, availableResponder, 5, 5)

	candidates := service.ExpandCandidates([]string{"duka", "Duka", "duka.co.ke"})
	seen := make(map[string]int)
	for _, c := range candidates {
		seen[c]++
		if seen[c] > 1 {
			t.Errorf("candidate %q appears more than once", c)
		}
	}
	if len(candidates) != 7 {
		t.Errorf("got %d candidates, want 7", len(candidates))
	}
}

func TestVerificationHonorsConcurrencyCeiling(t *testing.T) {
	const ceiling = 3

	var inFlight, peak int32
	availabilityService := func() *AvailabilityService {
		cache := NewCacheService(time.Hour, 100)
		client := NewWhoisClient("whois.test:43", time.Second, 0, time.Millisecond, cache, time.Hour)
		client.limiter = shared.NewRequestRateLimiter(0)
		client.sleep = func(time.Duration) {}
		client.dial = func(network, address string, timeout time.Duration) (net.Conn, error) {
			current := atomic.AddInt32(&inFlight, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if current <= old || atomic.CompareAndSwapInt32(&peak, old, current) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return &fakeConn{respond: availableResponder}, nil
		}
		return NewAvailabilityService(client, config.AllowedSuffixes(), config.DefaultSuffix)
	}()

	chain, _ := newStubChain(&stubProvider{name: "gemini", ideas: []string{"duka", "soko", "kazi"}})
	registrars := NewRegistrarService(config.AllowedSuffixes())
	service := NewSuggestionService(chain, availabilityService, registrars, config.AllowedSuffixes(), ceiling, 50)

	response, err := service.SuggestForBusiness(context.Background(), "a marketplace", 50)
	if err != nil {
		t.Fatalf("SuggestForBusiness failed: %v", err)
	}
	// 3 ideas expand to 21 candidates, all available.
	if response.Count != 21 {
		t.Errorf("Count = %d, want 21", response.Count)
	}
	if got := atomic.LoadInt32(&peak); got > ceiling {
		t.Errorf("peak concurrent WHOIS lookups = %d, ceiling is %d", got, ceiling)
	}
}

func TestSuggestForKeywordRanksByPriceAscending(t *testing.T) {
	service := newTestSuggestionService(nil, availableResponder, 5, 10)

	response, err := service.SuggestForKeyword(context.Background(), "duka", 10)
	if err != nil {
		t.Fatalf("SuggestForKeyword failed: %v", err)
	}
	if !response.Success {
		t.Fatal("expected success")
	}
	if response.Query != "duka" {
		t.Errorf("Query = %q", response.Query)
	}
	if len(response.Suggestions) != 7 {
		t.Fatalf("got %d suggestions, want one per suffix", len(response.Suggestions))
	}

	for i := 1; i < len(response.Suggestions); i++ {
		prev, cur := response.Suggestions[i-1].BestPrice, response.Suggestions[i].BestPrice
		if prev == nil {
			t.Fatalf("suggestion %d has no price but sorts before a priced one", i-1)
		}
		if cur != nil && cur.Price < prev.Price {
			t.Errorf("suggestions out of order at %d: %d before %d", i, prev.Price, cur.Price)
		}
	}

	// Every seed registrar prices .co.ke cheapest, so the .co.ke candidate
	// must rank first.
	if response.Suggestions[0].Domain != "duka.co.ke" {
		t.Errorf("cheapest suggestion = %q, want duka.co.ke", response.Suggestions[0].Domain)
	}
	if response.Suggestions[0].BestPrice == nil || response.Suggestions[0].BestPrice.Price != 699 {
		t.Errorf("best price = %+v, want the cheapest registrar quote", response.Suggestions[0].BestPrice)
	}
}

func TestSuggestForKeywordTruncatesToMax(t *testing.T) {
	service := newTestSuggestionService(nil, availableResponder, 5, 5)

	response, err := service.SuggestForKeyword(context.Background(), "duka", 3)
	if err != nil {
		t.Fatalf("SuggestForKeyword failed: %v", err)
	}
	if len(response.Suggestions) != 3 {
		t.Errorf("got %d suggestions, want 3", len(response.Suggestions))
	}
}

func TestSuggestForKeywordDropsTakenAndUnconfirmedDomains(t *testing.T) {
	service := newTestSuggestionService(nil, func(query string) string {
		switch {
		case strings.HasSuffix(query, ".co.ke"):
			return "Domain Name: " + query + "\nRegistrar: Test"
		case strings.HasSuffix(query, ".go.ke"):
			return "Server can't process your request"
		default:
			return "No match"
		}
	}, 5, 10)

	response, err := service.SuggestForKeyword(context.Background(), "duka", 10)
	if err != nil {
		t.Fatalf("SuggestForKeyword failed: %v", err)
	}
	for _, suggestion := range response.Suggestions {
		if strings.HasSuffix(suggestion.Domain, ".co.ke") {
			t.Errorf("taken domain %q surfaced as a suggestion", suggestion.Domain)
		}
		if strings.HasSuffix(suggestion.Domain, ".go.ke") {
			t.Errorf("unconfirmed domain %q surfaced as a suggestion", suggestion.Domain)
		}
	}
	if len(response.Suggestions) != 5 {
		t.Errorf("got %d suggestions, want 5 confirmed-available suffixes", len(response.Suggestions))
	}
}

func TestSuggestForKeywordRejectsInvalidRoots(t *testing.T) {
	service := newTestSuggestionService(nil, availableResponder, 5, 5)

	for _, root := range []string{"", "ab", "bad root", strings.Repeat("a", 64)} {
		if _, err := service.SuggestForKeyword(context.Background(), root, 5); err == nil {
			t.Errorf("SuggestForKeyword(%q) should fail", root)
		}
	}
}

func TestParseIdeasStripsListDecoration(t *testing.T) {
	text := "1. DukaLink\n2) Soko Hub\n- kaziflow\n* \"nakurumart\"\n• pesapoint, biasharanet\n\nNot valid: under_score"
	ideas := parseIdeas(text, 10)

	want := []string{"dukalink", "sokohub", "kaziflow", "nakurumart", "pesapoint", "biasharanet"}
	if len(ideas) != len(want) {
		t.Fatalf("ideas = %v, want %v", ideas, want)
	}
	for i, idea := range want {
		if ideas[i] != idea {
			t.Errorf("ideas[%d] = %q, want %q", i, ideas[i], idea)
		}
	}
}

func TestParseIdeasCapsAtRequestedCount(t *testing.T) {
	ideas := parseIdeas("one\ntwo\nthree\nfour", 2)
	if len(ideas) != 2 {
		t.Errorf("got %d ideas, want 2", len(ideas))
	}
}
