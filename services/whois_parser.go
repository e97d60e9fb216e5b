package services

import (
	"strings"

	"github.com/ondieki1237/kenicweb-sub000/models"
)

// serverErrorMarkers are substrings (matched case-insensitively) that mean
// the WHOIS server answered with a processing error instead of record data.
// Distinct from "not found": a response carrying one of these is uncertain,
// not authoritative.
var serverErrorMarkers = []string{
	"server can't process your request",
	"timeout",
	"the queried object does not exist",
}

// availabilityMarkers are the "no such registration" phrasings KeNIC and
// other registries emit. The last two overlap with serverErrorMarkers on
// purpose: the product treats an erroring registry as "probably available".
var availabilityMarkers = []string{
	"no match",
	"not found",
	"domain not found",
	"no entries found",
	"the queried object does not exist",
	"server can't process your request",
	"timeout",
}

// ClassifyAvailability decides availability from raw WHOIS text. WHOIS has
// no structured "not found" code, so this is keyword matching over the
// lower-cased response.
func ClassifyAvailability(raw string) models.Availability {
	lower := strings.ToLower(raw)
	for _, marker := range availabilityMarkers {
		if strings.Contains(lower, marker) {
			return models.AvailabilityAvailable
		}
	}
	return models.AvailabilityTaken
}

// ParseWhoisResponse converts raw WHOIS text into a WhoisRecord. It never
// fails: unrecognized keys are ignored and absent fields stay empty.
func ParseWhoisResponse(domain, raw string) *models.WhoisRecord {
	record := &models.WhoisRecord{
		Domain: domain,
		Status: "unknown",
		Raw:    raw,
	}

	lowerRaw := strings.ToLower(raw)
	for _, marker := range serverErrorMarkers {
		if strings.Contains(lowerRaw, marker) {
			record.ErrorMessage = raw
			break
		}
	}

	seenNameservers := make(map[string]bool)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "%") || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		if value == "" {
			continue
		}

		switch key {
		case "domain name":
			record.Domain = strings.ToLower(value)
		case "domain status":
			record.Status = value
		case "registrar":
			record.Registrar = value
		case "creation date":
			record.CreationDate = value
		case "registry expiry date", "expiry date":
			record.ExpiryDate = value
		case "updated date":
			record.UpdatedDate = value
		case "registrant name":
			record.Registrant.Name = value
		case "registrant email":
			record.Registrant.Email = value
		case "registrant phone":
			record.Registrant.Phone = value
		case "registrant organization":
			record.Registrant.Organization = value
		case "name server":
			// First occurrence wins for ordering.
			ns := strings.ToLower(value)
			if !seenNameservers[ns] {
				seenNameservers[ns] = true
				record.Nameservers = append(record.Nameservers, ns)
			}
		case "dnssec":
			record.DNSSEC = value
		}
	}

	return record
}
