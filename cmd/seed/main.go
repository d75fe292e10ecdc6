// seed inserts an activated test user and a small address book into the
// local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/contactly/contactly/internal/auth"
	"github.com/contactly/contactly/internal/infrastructure/postgres"
)

const (
	seedEmail    = "seed@test.local"
	seedPassword = "Seed123!local"
)

type contactSpec struct {
	firstname string
	lastname  string
	phone     string
}

var contacts = []contactSpec{
	{"Ada", "Lovelace", "+12025550101"},
	{"Grace", "Hopper", "+12025550102"},
	{"Alan", "Turing", "+442075550103"},
	{"Edsger", "Dijkstra", "+31205550104"},
	{"Barbara", "Liskov", "+12025550105"},
	{"Donald", "Knuth", "+12025550106"},
	{"Radia", "Perlman", "+12025550107"},
	{"Ken", "Thompson", "+12025550108"},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set — run: direnv allow")
	}

	if err := postgres.Migrate(ctx, dbURL); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	hash, err := auth.HashPassword(seedPassword)
	if err != nil {
		pool.Close()
		log.Fatalf("hash password: %v", err)
	}

	// Upsert the test user, already activated so login works immediately.
	var userID string
	err = pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, email_active)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (email) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			email_active  = TRUE,
			updated_at    = NOW()
		RETURNING id`,
		seedEmail, hash,
	).Scan(&userID)
	if err != nil {
		pool.Close()
		log.Fatalf("upsert user: %v", err)
	}

	// Insert contacts, skip any that already exist (idempotent re-runs)
	var inserted, skipped int
	for _, spec := range contacts {
		tag, err := pool.Exec(ctx, `
			INSERT INTO contacts (owner_id, firstname, lastname, phone)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (owner_id, phone) DO NOTHING`,
			userID, spec.firstname, spec.lastname, spec.phone,
		)
		if err != nil {
			pool.Close()
			log.Fatalf("insert contact %s: %v", spec.phone, err)
		}
		if tag.RowsAffected() == 0 {
			skipped++
		} else {
			inserted++
		}
	}

	pool.Close()

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  User:             %s\n", seedEmail)
	fmt.Printf("  User ID:          %s\n", userID)
	fmt.Printf("  Password:         %s\n", seedPassword)
	fmt.Printf("  Contacts created: %d  (skipped %d already existing)\n", inserted, skipped)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1 — log in:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/api/v1/user/login \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", seedEmail, seedPassword)
	fmt.Println()
	fmt.Println("  Step 2 — list contacts with the returned token:")
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Println("    curl -s http://localhost:8080/api/v1/contact -H \"Authorization: Bearer $JWT\"")
}
