package models

// Availability is the internal tri-state outcome of a domain check. The
// HTTP-facing result collapses it to a boolean, but keeping the third state
// inside the core means "the registry never answered" is not confused with
// "the registry said no match" anywhere except at the serialization boundary.
type Availability int

const (
	AvailabilityUnknown Availability = iota
	AvailabilityAvailable
	AvailabilityTaken
)

func (a Availability) String() string {
	switch a {
	case AvailabilityAvailable:
		return "available"
	case AvailabilityTaken:
		return "taken"
	default:
		return "unknown"
	}
}

// RegistrantContact holds the registrant fields KeNIC exposes over WHOIS.
type RegistrantContact struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Organization string `json:"organization"`
}

// WhoisRecord is a parsed snapshot of one WHOIS response. Dates are kept as
// the raw text the registry emitted; KeNIC's formats are not stable enough
// to normalize without losing information. A record is constructed fresh per
// lookup and never mutated afterwards.
type WhoisRecord struct {
	Domain       string            `json:"domain"`
	Status       string            `json:"status"`
	Registrar    string            `json:"registrar"`
	CreationDate string            `json:"creationDate"`
	ExpiryDate   string            `json:"expiryDate"`
	UpdatedDate  string            `json:"updatedDate"`
	Registrant   RegistrantContact `json:"registrant"`
	Nameservers  []string          `json:"nameservers"`
	DNSSEC       string            `json:"dnssec,omitempty"`
	Raw          string            `json:"raw"`

	// ErrorMessage is set when the server returned a processing error
	// instead of record data; it holds the full raw text.
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// AvailabilityResult is the outcome of checking one candidate domain.
// Invariant: Available == true implies WhoisData == nil.
type AvailabilityResult struct {
	Domain    string       `json:"domain"`
	Available bool         `json:"available"`
	Message   string       `json:"message"`
	WhoisData *WhoisRecord `json:"whoisData"`
	Error     string       `json:"error,omitempty"`

	// Outcome records what the check actually established. Unknown is
	// serialized as Available: true (fail-open) so the UI stays optimistic
	// under registry flakiness, but callers inside the core can tell the
	// difference.
	Outcome Availability `json:"-"`
}
