package repository

import (
	"database/sql"
	"fmt"
)

// OrderSequence is the counter that mints human-readable order numbers.
const OrderSequence = "orderId"

// execer covers both *sql.DB and *sql.Tx so the order repository can mint a
// sequence number inside its checkout transaction.
type execer interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

// nextSequence atomically increments and returns the named counter, creating
// it on first use. Run inside the checkout transaction, a rolled-back order
// reclaims its number and the sequence stays gapless.
func nextSequence(q execer, name string) (int64, error) {
	query := `
        INSERT INTO counters (id, seq)
        VALUES ($1, 1)
        ON CONFLICT (id) DO UPDATE SET seq = counters.seq + 1
        RETURNING seq`
	var seq int64
	if err := q.QueryRow(query, name).Scan(&seq); err != nil {
		return 0, fmt.Errorf("could not advance counter %q: %w", name, err)
	}
	return seq, nil
}
