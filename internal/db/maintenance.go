package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// RefreshSearchableFields recomputes searchable_title and searchable_name
// where they no longer equal the trimmed, lowercased display field.
// It returns the number of rows rewritten in each table.
func (db *DB) RefreshSearchableFields(ctx context.Context) (jobs, candidates int64, err error) {
	err = pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE jobs SET searchable_title = lower(btrim(title, E' \t\n\r'))
			 WHERE searchable_title IS DISTINCT FROM lower(btrim(title, E' \t\n\r'))`)
		if err != nil {
			return fmt.Errorf("jobs: %w", err)
		}
		jobs = tag.RowsAffected()

		tag, err = tx.Exec(ctx,
			`UPDATE candidates SET searchable_name = lower(btrim(name, E' \t\n\r'))
			 WHERE searchable_name IS DISTINCT FROM lower(btrim(name, E' \t\n\r'))`)
		if err != nil {
			return fmt.Errorf("candidates: %w", err)
		}
		candidates = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to refresh searchable fields: %w", err)
	}
	return jobs, candidates, nil
}
