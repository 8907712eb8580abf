package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

var starterParts = []struct {
	Name        string
	PartNumber  string
	Quantity    int
	MinQuantity int
	UnitCost    float64
}{
	{"HVAC Filter 24x24", "FLT-2424", 20, 5, 12.50},
	{"Fan Belt A-42", "BLT-A42", 10, 3, 8.00},
	{"Fluorescent Tube T8", "LMP-T8", 50, 10, 4.25},
	{"Compressor Oil 1L", "OIL-C1", 12, 4, 18.00},
}

func seedSpareParts(ctx context.Context, db *pgxpool.Pool) error {
	for _, p := range starterParts {
		_, err := db.Exec(ctx,
			`INSERT INTO spare_parts (name, part_number, quantity, min_quantity, unit_cost)
			 SELECT $1, $2, $3, $4, $5
			 WHERE NOT EXISTS (SELECT 1 FROM spare_parts WHERE LOWER(name) = LOWER($1) AND deleted_at IS NULL)`,
			p.Name, p.PartNumber, p.Quantity, p.MinQuantity, p.UnitCost)
		if err != nil {
			return fmt.Errorf("inserting spare part %s: %w", p.Name, err)
		}
	}
	log.Printf("  %d spare parts ensured", len(starterParts))
	return nil
}
