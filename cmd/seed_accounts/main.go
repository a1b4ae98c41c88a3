package main

import (
	"context"
	"log"
	"os"

	"crebito/internal/db"
)

// The fixed account population. Accounts are provisioned here, never
// through the API.
var seedAccounts = []struct {
	id          int64
	creditLimit int64
}{
	{1, 100_000},
	{2, 80_000},
	{3, 1_000_000},
	{4, 10_000_000},
	{5, 500_000},
}

func main() {
	// expects DATABASE_URL env var
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	ctx := context.Background()

	for _, a := range seedAccounts {
		tag, err := pool.Exec(ctx,
			`INSERT INTO accounts (id, credit_limit, balance)
			 VALUES ($1, $2, 0)
			 ON CONFLICT (id) DO NOTHING`,
			a.id, a.creditLimit,
		)
		if err != nil {
			log.Fatalf("seed account %d failed: %v", a.id, err)
		}
		if tag.RowsAffected() == 0 {
			log.Printf("account %d already provisioned\n", a.id)
		} else {
			log.Printf("account %d created with limit %d\n", a.id, a.creditLimit)
		}
	}
}
