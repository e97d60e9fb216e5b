package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/ondieki1237/kenicweb-sub000/models"
	"github.com/sirupsen/logrus"
)

// DB is the shared connection pool. It stays nil when no DATABASE_URL is
// configured; the lookup path never depends on it.
var DB *sql.DB

func Connect(databaseURL string) error {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	DB = db
	return nil
}

func Close() {
	if DB != nil {
		DB.Close()
	}
}

// Migrate applies the schema file. Safe to run repeatedly; the schema only
// uses IF NOT EXISTS statements.
func Migrate(schemaPath string) error {
	schema, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}
	if _, err := DB.Exec(string(schema)); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// InsertLookup records one availability check in the history table. Callers
// fire-and-forget this; failures are logged, never surfaced.
func InsertLookup(ctx context.Context, lookup models.DomainLookup) {
	if DB == nil {
		return
	}
	if lookup.ID == uuid.Nil {
		lookup.ID = uuid.New()
	}
	if lookup.CheckedAt.IsZero() {
		lookup.CheckedAt = time.Now()
	}

	query := `
		INSERT INTO domain_lookups (id, domain, available, outcome, message, checked_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := DB.ExecContext(ctx, query,
		lookup.ID, lookup.Domain, lookup.Available, lookup.Outcome, lookup.Message, lookup.CheckedAt,
	); err != nil {
		logrus.WithFields(logrus.Fields{
			"component": "database",
			"domain":    lookup.Domain,
		}).Warnf("Failed to record domain lookup: %v", err)
	}
}

// CleanupOldLookups deletes lookup-history rows older than the retention
// window.
func CleanupOldLookups(ctx context.Context, retention time.Duration) error {
	if DB == nil {
		return nil
	}
	result, err := DB.ExecContext(ctx,
		`DELETE FROM domain_lookups WHERE checked_at < $1`, time.Now().Add(-retention))
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows > 0 {
		logrus.Infof("Pruned %d old domain lookup records", rows)
	}
	return nil
}

// LoadRegistrars reads the persisted registrar table. An empty result means
// the seed table should be kept.
func LoadRegistrars(ctx context.Context) ([]models.Registrar, error) {
	if DB == nil {
		return nil, nil
	}

	rows, err := DB.QueryContext(ctx, `
		SELECT id, name, website, email, phone, prices, features, rating,
		       review_count, signup_url, pricing_page_url
		FROM registrars ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var registrars []models.Registrar
	for rows.Next() {
		var r models.Registrar
		var pricesJSON, featuresJSON []byte
		if err := rows.Scan(&r.ID, &r.Name, &r.Website, &r.Email, &r.Phone,
			&pricesJSON, &featuresJSON, &r.Rating, &r.ReviewCount,
			&r.SignupURL, &r.PricingPageURL); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(pricesJSON, &r.Prices); err != nil {
			return nil, fmt.Errorf("bad prices for registrar %s: %w", r.Name, err)
		}
		if len(featuresJSON) > 0 {
			if err := json.Unmarshal(featuresJSON, &r.Features); err != nil {
				return nil, fmt.Errorf("bad features for registrar %s: %w", r.Name, err)
			}
		}
		registrars = append(registrars, r)
	}
	return registrars, rows.Err()
}

// ReplaceRegistrars persists a bulk registrar replacement in one
// transaction.
func ReplaceRegistrars(ctx context.Context, registrars []models.Registrar) error {
	if DB == nil {
		return nil
	}

	tx, err := DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM registrars`); err != nil {
		return err
	}

	query := `
		INSERT INTO registrars (id, name, website, email, phone, prices,
			features, rating, review_count, signup_url, pricing_page_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	for _, r := range registrars {
		pricesJSON, err := json.Marshal(r.Prices)
		if err != nil {
			return fmt.Errorf("bad prices for registrar %s: %w", r.Name, err)
		}
		featuresJSON, err := json.Marshal(r.Features)
		if err != nil {
			return fmt.Errorf("bad features for registrar %s: %w", r.Name, err)
		}
		if _, err := tx.ExecContext(ctx, query,
			r.ID, r.Name, r.Website, r.Email, r.Phone, pricesJSON,
			featuresJSON, r.Rating, r.ReviewCount, r.SignupURL, r.PricingPageURL,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}
