package seeders

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

func seedAdminUser(ctx context.Context, db *pgxpool.Pool) error {
	email := getenv("SEED_ADMIN_EMAIL", "admin@university.edu")

	var existing uint64
	err := db.QueryRow(ctx, "SELECT id FROM users WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL", email).Scan(&existing)
	if err == nil {
		log.Printf("  admin %s already exists, skipping", email)
		return nil
	}
	if err != pgx.ErrNoRows {
		return fmt.Errorf("checking for existing admin: %w", err)
	}

	password := getenv("SEED_ADMIN_PASSWORD", "change-me")
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx,
		`INSERT INTO users (name, email, phone, role, password_hash) VALUES ($1, $2, $3, $4, $5)`,
		"System Administrator", email, "", "admin", string(hash))
	if err != nil {
		return fmt.Errorf("inserting admin user: %w", err)
	}

	log.Printf("  admin %s created", email)
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
