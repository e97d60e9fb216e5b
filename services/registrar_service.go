package services

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/ondieki1237/kenicweb-sub000/models"
	"github.com/ondieki1237/kenicweb-sub000/shared"
	"github.com/sirupsen/logrus"
)

// RegistrarService owns the registrar price table: a static in-memory list
// seeded at startup and replaced wholesale by the admin endpoint or the
// pricing sync job. There is no per-field update path.
type RegistrarService struct {
	mutex      sync.RWMutex
	registrars []models.Registrar
	suffixes   []string
}

// NewRegistrarService creates the service seeded with the default table.
func NewRegistrarService(suffixes []string) *RegistrarService {
	byLength := make([]string, len(suffixes))
	copy(byLength, suffixes)
	sort.Slice(byLength, func(i, j int) bool { return len(byLength[i]) > len(byLength[j]) })

	return &RegistrarService{
		registrars: defaultRegistrars(),
		suffixes:   byLength,
	}
}

// List returns a copy of the registrar table.
func (s *RegistrarService) List() []models.Registrar {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]models.Registrar, len(s.registrars))
	copy(out, s.registrars)
	return out
}

// ReplaceAll swaps in a new registrar table. This is the only mutation path.
func (s *RegistrarService) ReplaceAll(registrars []models.Registrar) error {
	if len(registrars) == 0 {
		return shared.NewValidationError("REGISTRARS_EMPTY",
			"registrar table replacement must contain at least one registrar",
			"RegistrarService", "ReplaceAll")
	}
	for i := range registrars {
		if registrars[i].Name == "" {
			return shared.NewValidationError("REGISTRAR_NAME_REQUIRED",
				"every registrar needs a name", "RegistrarService", "ReplaceAll")
		}
		if registrars[i].ID == uuid.Nil {
			registrars[i].ID = uuid.New()
		}
		if registrars[i].Prices == nil {
			registrars[i].Prices = map[string]int{}
		}
	}

	s.mutex.Lock()
	s.registrars = registrars
	s.mutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"component":  "RegistrarService",
		"registrars": len(registrars),
	}).Info("Registrar table replaced")
	return nil
}

// UpdatePrices replaces one registrar's price map by name, used by the
// pricing sync job after a successful scrape. Unknown names are ignored so a
// stale scrape source cannot grow the table.
func (s *RegistrarService) UpdatePrices(name string, prices map[string]int) bool {
	if len(prices) == 0 {
		return false
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i := range s.registrars {
		if strings.EqualFold(s.registrars[i].Name, name) {
			s.registrars[i].Prices = prices
			return true
		}
	}
	return false
}

// PricingForDomain returns every registrar's quote for the domain, sorted
// ascending by price. Registrars without a price for the domain's extension
// are skipped. Quotes are computed on demand and never cached.
func (s *RegistrarService) PricingForDomain(domain string) []models.DomainPricing {
	suffix := s.suffixForDomain(domain)
	if suffix == "" {
		return nil
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var pricing []models.DomainPricing
	for _, registrar := range s.registrars {
		price, ok := registrar.Prices[suffix]
		if !ok {
			continue
		}
		registerURL := registrar.Website
		if registrar.SignupURL != "" {
			registerURL = fmt.Sprintf(registrar.SignupURL, domain)
		}
		pricing = append(pricing, models.DomainPricing{
			RegistrarID:   registrar.ID,
			RegistrarName: registrar.Name,
			Website:       registrar.Website,
			Price:         price,
			Currency:      "KES",
			RegisterURL:   registerURL,
			Rating:        registrar.Rating,
			ReviewCount:   registrar.ReviewCount,
		})
	}

	sort.SliceStable(pricing, func(i, j int) bool { return pricing[i].Price < pricing[j].Price })
	return pricing
}

// BestPrice returns the cheapest quote for the domain, or nil when no
// registrar prices its extension.
func (s *RegistrarService) BestPrice(domain string) *models.DomainPricing {
	pricing := s.PricingForDomain(domain)
	if len(pricing) == 0 {
		return nil
	}
	best := pricing[0]
	return &best
}

func (s *RegistrarService) suffixForDomain(domain string) string {
	domain = strings.ToLower(domain)
	for _, suffix := range s.suffixes {
		if strings.HasSuffix(domain, suffix) && len(domain) > len(suffix) {
			return suffix
		}
	}
	return ""
}

// defaultRegistrars is the seed table of KeNIC-accredited registrars. Prices
// are KES per year for first registration; the pricing sync job refreshes
// them from each registrar's public price page.
func defaultRegistrars() []models.Registrar {
	return []models.Registrar{
		{
			ID:      uuid.New(),
			Name:    "Truehost Kenya",
			Website: "https://truehost.co.ke",
			Email:   "support@truehost.co.ke",
			Phone:   "+254 20 790 3111",
			Prices: map[string]int{
				".co.ke": 749, ".ke": 3000, ".or.ke": 749, ".ac.ke": 999,
				".sc.ke": 999, ".go.ke": 999, ".me.ke": 749,
			},
			Features:       []string{"Free DNS management", "Email forwarding", "24/7 support"},
			Rating:         4.6,
			ReviewCount:    1820,
			SignupURL:      "https://truehost.co.ke/cart.php?a=add&domain=register&query=%s",
			PricingPageURL: "https://truehost.co.ke/domains-pricing",
		},
		{
			ID:      uuid.New(),
			Name:    "HostPinnacle",
			Website: "https://www.hostpinnacle.co.ke",
			Email:   "info@hostpinnacle.co.ke",
			Phone:   "+254 700 000 510",
			Prices: map[string]int{
				".co.ke": 699, ".ke": 2900, ".or.ke": 699, ".ac.ke": 950,
				".sc.ke": 950, ".go.ke": 950, ".me.ke": 699,
			},
			Features:       []string{"Free WHOIS privacy", "Free SSL with hosting"},
			Rating:         4.5,
			ReviewCount:    940,
			SignupURL:      "https://www.hostpinnacle.co.ke/domain-registration?domain=%s",
			PricingPageURL: "https://www.hostpinnacle.co.ke/domain-pricing",
		},
		{
			ID:      uuid.New(),
			Name:    "Kenya Website Experts",
			Website: "https://www.kenyawebexperts.co.ke",
			Email:   "sales@kenyawebexperts.co.ke",
			Phone:   "+254 20 240 0691",
			Prices: map[string]int{
				".co.ke": 999, ".ke": 3500, ".or.ke": 999, ".ac.ke": 1200,
				".sc.ke": 1200, ".go.ke": 1200, ".me.ke": 999,
			},
			Features:       []string{"Domain lock", "Free email account", "Local support"},
			Rating:         4.7,
			ReviewCount:    2650,
			SignupURL:      "https://www.kenyawebexperts.co.ke/domain-search?domain=%s",
			PricingPageURL: "https://www.kenyawebexperts.co.ke/domain-registration",
		},
		{
			ID:      uuid.New(),
			Name:    "Sasahost",
			Website: "https://www.sasahost.co.ke",
			Email:   "info@sasahost.co.ke",
			Phone:   "+254 713 478 555",
			Prices: map[string]int{
				".co.ke": 1000, ".ke": 3200, ".or.ke": 1000, ".ac.ke": 1150,
				".sc.ke": 1150, ".go.ke": 1150, ".me.ke": 1000,
			},
			Features:       []string{"Free DNS hosting", "Domain forwarding"},
			Rating:         4.4,
			ReviewCount:    1310,
			SignupURL:      "https://www.sasahost.co.ke/domains/?domain=%s",
			PricingPageURL: "https://www.sasahost.co.ke/domain-prices",
		},
		{
			ID:      uuid.New(),
			Name:    "EAC Directory",
			Website: "https://www.eacdirectory.co.ke",
			Email:   "support@eacdirectory.co.ke",
			Phone:   "+254 709 677 000",
			Prices: map[string]int{
				".co.ke": 850, ".ke": 3100, ".or.ke": 850, ".ac.ke": 1050,
				".sc.ke": 1050, ".go.ke": 1050, ".me.ke": 850,
			},
			Features:       []string{"Bulk registration discounts", "Reseller API"},
			Rating:         4.2,
			ReviewCount:    480,
			SignupURL:      "https://www.eacdirectory.co.ke/register?domain=%s",
			PricingPageURL: "https://www.eacdirectory.co.ke/domain-pricing",
		},
	}
}
