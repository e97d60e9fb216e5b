package config

import (
	"testing"
	"time"
)

func TestAllowedSuffixesOrderAndIsolation(t *testing.T) {
	want := []string{".co.ke", ".ke", ".or.ke", ".ac.ke", ".sc.ke", ".go.ke", ".me.ke"}

	suffixes := AllowedSuffixes()
	if len(suffixes) != len(want) {
		t.Fatalf("AllowedSuffixes = %v, want %v", suffixes, want)
	}
	for i, s := range want {
		if suffixes[i] != s {
			t.Errorf("suffixes[%d] = %q, want %q", i, suffixes[i], s)
		}
	}

	// Callers get a copy; mutating it must not leak into the shared list.
	suffixes[0] = ".mutated"
	if AllowedSuffixes()[0] != ".co.ke" {
		t.Error("AllowedSuffixes returned the shared slice, not a copy")
	}
}

func TestDurationAccessorsFallBackOnBadValues(t *testing.T) {
	cfg := &Config{
		WhoisTimeoutSeconds: 0,
		WhoisRetryBackoff:   "not-a-number",
		WhoisCacheTTLMins:   "-5",
		PricingSyncHours:    "",
	}

	if got := cfg.GetWhoisTimeout(); got != 10*time.Second {
		t.Errorf("GetWhoisTimeout = %v", got)
	}
	if got := cfg.GetWhoisRetryBackoff(); got != 2*time.Second {
		t.Errorf("GetWhoisRetryBackoff = %v", got)
	}
	if got := cfg.GetWhoisCacheTTL(); got != time.Hour {
		t.Errorf("GetWhoisCacheTTL = %v", got)
	}
	if got := cfg.GetPricingSyncInterval(); got != 24*time.Hour {
		t.Errorf("GetPricingSyncInterval = %v", got)
	}
}

func TestDurationAccessorsParseConfiguredValues(t *testing.T) {
	cfg := &Config{
		WhoisTimeoutSeconds: 5,
		WhoisRetryBackoff:   "1",
		WhoisCacheTTLMins:   "30",
		PricingSyncHours:    "6",
	}

	if got := cfg.GetWhoisTimeout(); got != 5*time.Second {
		t.Errorf("GetWhoisTimeout = %v", got)
	}
	if got := cfg.GetWhoisRetryBackoff(); got != time.Second {
		t.Errorf("GetWhoisRetryBackoff = %v", got)
	}
	if got := cfg.GetWhoisCacheTTL(); got != 30*time.Minute {
		t.Errorf("GetWhoisCacheTTL = %v", got)
	}
	if got := cfg.GetPricingSyncInterval(); got != 6*time.Hour {
		t.Errorf("GetPricingSyncInterval = %v", got)
	}
}

func TestWhoisAddr(t *testing.T) {
	cfg := &Config{WhoisHost: "whois.kenic.or.ke", WhoisPort: 43}
	if got := cfg.WhoisAddr(); got != "whois.kenic.or.ke:43" {
		t.Errorf("WhoisAddr = %q", got)
	}
}
