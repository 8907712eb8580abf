package repositories

import (
	"context"
	"fmt"
)

// TicketRepositoryInterface hands out year-scoped sequence numbers for
// human-readable ticket ids.
type TicketRepositoryInterface interface {
	// NextSequence returns the next sequence number for the given two-digit
	// year. The increment is a single atomic statement, so two concurrent
	// callers can never receive the same number. The sequence restarts
	// implicitly at the year boundary because the year is the counter key.
	NextSequence(ctx context.Context, q Querier, year int) (int, error)
}

type TicketRepository struct{}

func NewTicketRepository() TicketRepositoryInterface {
	return &TicketRepository{}
}

func (r *TicketRepository) NextSequence(ctx context.Context, q Querier, year int) (int, error) {
	const query = `
		INSERT INTO ticket_counters (year, seq) VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET seq = ticket_counters.seq + 1
		RETURNING seq
	`
	var seq int
	if err := q.QueryRow(ctx, query, year).Scan(&seq); err != nil {
		return 0, fmt.Errorf("ticket counter for year %d: %w", year, err)
	}
	return seq, nil
}

// FormatTicketID renders the wire format: two-digit year, dash, zero-padded
// sequence ("25-0001").
func FormatTicketID(year, seq int) string {
	return fmt.Sprintf("%02d-%04d", year%100, seq)
}
