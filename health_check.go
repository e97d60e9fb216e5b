//go:build ignore

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ondieki1237/kenicweb-sub000/config"
	"github.com/ondieki1237/kenicweb-sub000/database"
	"github.com/ondieki1237/kenicweb-sub000/services"
)

// Standalone health probe: go run health_check.go
func main() {
	fmt.Printf("Domain Backend Health Check - %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Println(strings.Repeat("=", 50))

	cfg := config.LoadConfig()
	healthScore := 0
	totalTests := 3

	// Test 1: KeNIC WHOIS server
	fmt.Print("WHOIS server: ")
	cache := services.NewCacheService(time.Minute, 10)
	whois := services.NewWhoisClient(cfg.WhoisAddr(), cfg.GetWhoisTimeout(), 0,
		cfg.GetWhoisRetryBackoff(), cache, time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if raw, err := whois.Lookup(ctx, "kenic.or.ke"); err != nil {
		fmt.Printf("FAILED (%v)\n", err)
	} else {
		fmt.Printf("OK (%d bytes)\n", len(raw))
		healthScore++
	}
	cancel()

	// Test 2: availability classification on a known-registered domain
	fmt.Print("Availability check: ")
	availability := services.NewAvailabilityService(whois, config.AllowedSuffixes(), config.DefaultSuffix)
	ctx, cancel = context.WithTimeout(context.Background(), 15*time.Second)
	if result, err := availability.Check(ctx, "kenic.or.ke"); err != nil {
		fmt.Printf("FAILED (%v)\n", err)
	} else if result.Available {
		fmt.Printf("SUSPECT (kenic.or.ke reported available: %s)\n", result.Message)
	} else {
		fmt.Println("OK (kenic.or.ke registered)")
		healthScore++
	}
	cancel()

	// Test 3: database, when configured
	fmt.Print("Database: ")
	if cfg.DatabaseURL == "" {
		fmt.Println("SKIPPED (DATABASE_URL not set)")
		totalTests--
	} else if err := database.Connect(cfg.DatabaseURL); err != nil {
		fmt.Printf("FAILED (%v)\n", err)
	} else {
		fmt.Println("OK")
		healthScore++
		database.Close()
	}

	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Health: %d/%d checks passed\n", healthScore, totalTests)
}
