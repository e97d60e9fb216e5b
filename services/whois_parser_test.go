package services

import (
	"strings"
	"testing"

	"github.com/ondieki1237/kenicweb-sub000/models"
)

const registeredResponse = `% This is the KeNIC Whois server.
% All rights reserved.

Domain Name: SAFARICOM.CO.KE
Domain Status: clientTransferProhibited
Registrar: Safaricom PLC
Creation Date: 2000-04-14T00:00:00Z
Registry Expiry Date: 2026-04-14T00:00:00Z
Updated Date: 2025-03-01T08:30:00Z
Registrant Name: Safaricom Limited
Registrant Organization: Safaricom PLC
Registrant Email: domains@safaricom.co.ke
Registrant Phone: +254.722000000
Name Server: ns1.safaricom.co.ke
Name Server: NS1.SAFARICOM.CO.KE
Name Server: ns2.safaricom.co.ke
DNSSEC: unsigned
# end of response`

func TestClassifyAvailability(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want models.Availability
	}{
		{"no match marker", "No match for domain \"fresh.co.ke\"", models.AvailabilityAvailable},
		{"not found marker", "Domain not found in registry", models.AvailabilityAvailable},
		{"no entries marker", "%ERROR: no entries found", models.AvailabilityAvailable},
		{"queried object missing", "The queried object does not exist", models.AvailabilityAvailable},
		{"server error treated as available", "Server can't process your request right now", models.AvailabilityAvailable},
		{"registered record", registeredResponse, models.AvailabilityTaken},
		{"case insensitive", "NO MATCH FOR DOMAIN", models.AvailabilityAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyAvailability(tt.raw); got != tt.want {
				t.Errorf("ClassifyAvailability(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseWhoisResponseRegisteredDomain(t *testing.T) {
	record := ParseWhoisResponse("safaricom.co.ke", registeredResponse)

	if record.Domain != "safaricom.co.ke" {
		t.Errorf("Domain = %q, want lowercased server value", record.Domain)
	}
	if record.Status != "clientTransferProhibited" {
		t.Errorf("Status = %q", record.Status)
	}
	if record.Registrar != "Safaricom PLC" {
		t.Errorf("Registrar = %q", record.Registrar)
	}
	if record.CreationDate != "2000-04-14T00:00:00Z" {
		t.Errorf("CreationDate = %q", record.CreationDate)
	}
	if record.ExpiryDate != "2026-04-14T00:00:00Z" {
		t.Errorf("ExpiryDate = %q", record.ExpiryDate)
	}
	if record.UpdatedDate != "2025-03-01T08:30:00Z" {
		t.Errorf("UpdatedDate = %q", record.UpdatedDate)
	}
	if record.Registrant.Name != "Safaricom Limited" || record.Registrant.Organization != "Safaricom PLC" {
		t.Errorf("Registrant = %+v", record.Registrant)
	}
	if record.Registrant.Email != "domains@safaricom.co.ke" {
		t.Errorf("Registrant.Email = %q", record.Registrant.Email)
	}
	if record.DNSSEC != "unsigned" {
		t.Errorf("DNSSEC = %q", record.DNSSEC)
	}
	if record.ErrorMessage != "" {
		t.Errorf("clean record should carry no error message, got %q", record.ErrorMessage)
	}
	if record.Raw != registeredResponse {
		t.Error("Raw should carry the full server response")
	}
}

func TestParseWhoisResponseDeduplicatesNameservers(t *testing.T) {
	record := ParseWhoisResponse("safaricom.co.ke", registeredResponse)

	want := []string{"ns1.safaricom.co.ke", "ns2.safaricom.co.ke"}
	if len(record.Nameservers) != len(want) {
		t.Fatalf("Nameservers = %v, want %v", record.Nameservers, want)
	}
	for i, ns := range want {
		if record.Nameservers[i] != ns {
			t.Errorf("Nameservers[%d] = %q, want %q", i, record.Nameservers[i], ns)
		}
	}
}

func TestParseWhoisResponseSkipsCommentsAndBlankLines(t *testing.T) {
	raw := "% comment with a colon: ignored\n# another: ignored\n\nRegistrar: Real Registrar"
	record := ParseWhoisResponse("example.co.ke", raw)

	if record.Registrar != "Real Registrar" {
		t.Errorf("Registrar = %q", record.Registrar)
	}
	if record.Domain != "example.co.ke" {
		t.Errorf("Domain should fall back to the queried domain, got %q", record.Domain)
	}
	if record.Status != "unknown" {
		t.Errorf("Status should default to unknown, got %q", record.Status)
	}
}

func TestParseWhoisResponseFlagsServerErrors(t *testing.T) {
	raw := "Server can't process your request at this time"
	record := ParseWhoisResponse("example.co.ke", raw)

	if record.ErrorMessage == "" {
		t.Fatal("expected ErrorMessage for a server error response")
	}
	if !strings.Contains(record.ErrorMessage, "can't process") {
		t.Errorf("ErrorMessage = %q", record.ErrorMessage)
	}
}

func TestParseWhoisResponseNeverFailsOnGarbage(t *testing.T) {
	for _, raw := range []string{"", ":::", "no colons here", "key:", "\n\n\n"} {
		record := ParseWhoisResponse("example.co.ke", raw)
		if record == nil {
			t.Fatalf("ParseWhoisResponse returned nil for %q", raw)
		}
		if record.Domain != "example.co.ke" {
			t.Errorf("Domain = %q for input %q", record.Domain, raw)
		}
	}
}
