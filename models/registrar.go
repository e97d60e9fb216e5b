package models

import (
	"time"

	"github.com/google/uuid"
)

// Registrar is a KeNIC-accredited registrar with its per-extension prices in
// Kenyan shillings. The table is static reference data: it is only mutated
// through an explicit bulk replace (admin endpoint or pricing sync job).
type Registrar struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Website     string         `json:"website"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	Prices      map[string]int `json:"prices"`
	Features    []string       `json:"features"`
	Rating      float64        `json:"rating"`
	ReviewCount int            `json:"review_count"`

	// SignupURL is a template with one %s verb for the domain being
	// registered; used to build registration deep links.
	SignupURL string `json:"signup_url"`

	// PricingPageURL, when set, lets the pricing sync job refresh this
	// registrar's prices from its public price page.
	PricingPageURL string `json:"pricing_page_url,omitempty"`
}

// DomainPricing is a (domain, registrar) price quote computed on demand.
type DomainPricing struct {
	RegistrarID   uuid.UUID `json:"registrar_id"`
	RegistrarName string    `json:"registrar_name"`
	Website       string    `json:"website"`
	Price         int       `json:"price"`
	Currency      string    `json:"currency"`
	RegisterURL   string    `json:"register_url"`
	Rating        float64   `json:"rating"`
	ReviewCount   int       `json:"review_count"`
}

// DomainLookup is one row of the optional lookup-history audit trail. The
// check path writes these fire-and-forget; nothing on the lookup path reads
// them back.
type DomainLookup struct {
	ID        uuid.UUID `json:"id"`
	Domain    string    `json:"domain"`
	Available bool      `json:"available"`
	Outcome   string    `json:"outcome"`
	Message   string    `json:"message"`
	CheckedAt time.Time `json:"checked_at"`
}
