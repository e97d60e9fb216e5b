package models

// DomainSuggestion is one verified candidate produced by the suggestion
// pipeline: an available domain with its full pricing list and the cheapest
// quote. ExpiryDate is carried over from WHOIS when the record had one.
type DomainSuggestion struct {
	Domain     string          `json:"domain"`
	Available  bool            `json:"available"`
	WhoisData  *WhoisRecord    `json:"whoisData"`
	Pricing    []DomainPricing `json:"pricing"`
	BestPrice  *DomainPricing  `json:"bestPrice"`
	ExpiryDate string          `json:"expiryDate,omitempty"`
}

// SuggestionResponse is the suggestion pipeline's caller-facing result.
// Total provider failure is reported as Success: false with an empty
// suggestion list, never as an error, so callers can render an empty state.
type SuggestionResponse struct {
	Success             bool               `json:"success"`
	BusinessDescription string             `json:"businessDescription,omitempty"`
	Query               string             `json:"query,omitempty"`
	Provider            string             `json:"provider,omitempty"`
	Count               int                `json:"count"`
	Suggestions         []DomainSuggestion `json:"suggestions"`
	Error               string             `json:"error,omitempty"`
}
