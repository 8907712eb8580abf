package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminRepositoryInterface interface {
	WipeOperationalDataTx(ctx context.Context, tx pgx.Tx) error
}

type AdminRepository struct {
	storage *pgxpool.Pool
}

func NewAdminRepository(storage *pgxpool.Pool) AdminRepositoryInterface {
	return &AdminRepository{storage: storage}
}

// WipeOperationalDataTx hard-deletes all operational records. Users,
// locations and ticket counters are left untouched.
func (r *AdminRepository) WipeOperationalDataTx(ctx context.Context, tx pgx.Tx) error {
	// Child tables first, parents after.
	statements := []string{
		`DELETE FROM request_parts`,
		`DELETE FROM request_assignees`,
		`DELETE FROM service_requests`,
		`DELETE FROM spare_part_order_items`,
		`DELETE FROM spare_part_orders`,
		`DELETE FROM spare_parts`,
		`DELETE FROM job_order_items`,
		`DELETE FROM job_orders`,
		`DELETE FROM attendance_records`,
		`DELETE FROM equipments`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
