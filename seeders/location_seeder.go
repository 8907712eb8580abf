package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

var defaultLocations = []struct {
	Campus string
	Name   string
}{
	{"Main Campus", "Engineering Building"},
	{"Main Campus", "Science Building"},
	{"Main Campus", "Library"},
	{"Main Campus", "Administration"},
	{"North Campus", "Medical Center"},
	{"North Campus", "Dormitory A"},
	{"North Campus", "Cafeteria"},
}

func seedLocations(ctx context.Context, db *pgxpool.Pool) error {
	for _, l := range defaultLocations {
		_, err := db.Exec(ctx,
			`INSERT INTO locations (campus, name) VALUES ($1, $2) ON CONFLICT (campus, name) DO NOTHING`,
			l.Campus, l.Name)
		if err != nil {
			return fmt.Errorf("inserting location %s / %s: %w", l.Campus, l.Name, err)
		}
	}
	log.Printf("  %d locations ensured", len(defaultLocations))
	return nil
}
