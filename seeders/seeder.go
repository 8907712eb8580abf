package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedBaseline fills the lookup data a fresh install needs: the default
// campus locations and a handful of starter spare parts.
func SeedBaseline(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("seeding baseline data...")

	if err := seedLocations(ctx, db); err != nil {
		log.Fatalf("seeding locations: %v", err)
	}
	if err := seedSpareParts(ctx, db); err != nil {
		log.Fatalf("seeding spare parts: %v", err)
	}
	log.Println("baseline data seeded")
}

// SeedAdmin creates the initial administrator account if none exists.
func SeedAdmin(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("seeding admin account...")

	if err := seedAdminUser(ctx, db); err != nil {
		log.Fatalf("seeding admin user: %v", err)
	}
	log.Println("admin account seeded")
}
