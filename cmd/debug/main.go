package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/tombolapay/settlement/internal/database"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default/environment variables")
	}

	// Construct connection string
	connString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
	)

	dbPool, err := database.NewPool(connString, 5, 5*time.Minute, time.Hour)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	ctx := context.Background()

	// Dump batches
	fmt.Println("--- Batches ---")
	rows, err := dbPool.Query(ctx, `
		SELECT batch_id, name, winners_remaining, losers_remaining, sold_tickets, total_tickets, is_active
		FROM batches ORDER BY created_at
	`)
	if err != nil {
		log.Printf("Failed to query batches: %v", err)
	} else {
		for rows.Next() {
			var id, name string
			var winners, losers, sold, total int
			var active bool
			if err := rows.Scan(&id, &name, &winners, &losers, &sold, &total, &active); err != nil {
				log.Printf("Failed to scan batch: %v", err)
				continue
			}
			fmt.Printf("ID: %s, Name: %s, Winners: %d, Losers: %d, Sold: %d/%d, Active: %v\n",
				id, name, winners, losers, sold, total, active)
		}
		rows.Close()
	}

	// Dump wallets against their ledger sums
	fmt.Println("\n--- Wallets ---")
	query := `
		SELECT w.user_id, w.balance, COALESCE(SUM(t.amount), 0) AS ledger_sum
		FROM wallets w
		LEFT JOIN wallet_transactions t ON t.user_id = w.user_id
		GROUP BY w.user_id, w.balance
		ORDER BY w.user_id
	`
	rows, err = dbPool.Query(ctx, query)
	if err != nil {
		log.Printf("Failed to query wallets: %v", err)
	} else {
		for rows.Next() {
			var userID string
			var balance, ledgerSum int64
			if err := rows.Scan(&userID, &balance, &ledgerSum); err != nil {
				log.Printf("Failed to scan wallet: %v", err)
				continue
			}
			marker := ""
			if balance != ledgerSum {
				marker = "  <-- MISMATCH"
			}
			fmt.Printf("User: %s, Balance: %d, LedgerSum: %d%s\n", userID, balance, ledgerSum, marker)
		}
		rows.Close()
	}

	// Dump non-terminal payment attempts
	fmt.Println("\n--- Pending Payment Attempts ---")
	rows, err = dbPool.Query(ctx, `
		SELECT attempt_id, user_id, amount, phone, created_at
		FROM payment_attempts WHERE status = 'pending' ORDER BY created_at
	`)
	if err != nil {
		log.Printf("Failed to query payment attempts: %v", err)
	} else {
		for rows.Next() {
			var id, userID, phone string
			var amount int64
			var createdAt time.Time
			if err := rows.Scan(&id, &userID, &amount, &phone, &createdAt); err != nil {
				log.Printf("Failed to scan attempt: %v", err)
				continue
			}
			fmt.Printf("ID: %s, User: %s, Amount: %d, Phone: %s, Age: %s\n",
				id, userID, amount, phone, time.Since(createdAt).Round(time.Second))
		}
		rows.Close()
	}
}
