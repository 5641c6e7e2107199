package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/talent-search/internal/types"
)

const jobColumns = `id, title, department, location, status, description, requirements,
	keywords, searchable_title, created_at`

// scanJob reads jobColumns followed by any extra destinations
func scanJob(row pgx.Row, extra ...any) (types.Job, error) {
	var j types.Job
	dest := append([]any{
		&j.ID, &j.Title, &j.Department, &j.Location, &j.Status, &j.Description,
		&j.Requirements, &j.Keywords, &j.SearchableTitle, &j.CreatedAt,
	}, extra...)
	err := row.Scan(dest...)
	return j, err
}

func (db *DB) queryJobs(ctx context.Context, op, query string, args ...any) ([]types.Job, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	defer rows.Close()

	var jobs []types.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return jobs, nil
}

// InsertJob creates a job. Missing id, creation time and status are filled in.
func (db *DB) InsertJob(ctx context.Context, job *types.Job) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	if job.Status == "" {
		job.Status = types.JobStatusDraft
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO jobs (id, title, department, location, status, description, requirements,
		                   keywords, searchable_title, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		job.ID, job.Title, job.Department, job.Location, job.Status, job.Description,
		job.Requirements, nonNil(job.Keywords), job.SearchableTitle, job.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}
	return nil
}

// GetJob retrieves a job by ID
func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*types.Job, error) {
	j, err := scanJob(db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &j, nil
}

// DeleteJob removes a job. Its candidates are kept.
func (db *DB) DeleteJob(ctx context.Context, id uuid.UUID) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	return nil
}

// MatchJobs returns jobs whose title matches m.Pattern, or whose searchable
// title equals m.Normalized when that is set.
func (db *DB) MatchJobs(ctx context.Context, m types.FieldMatch) ([]types.Job, error) {
	return db.queryJobs(ctx, "match jobs",
		`SELECT `+jobColumns+`
		 FROM jobs
		 WHERE title ~* $1 OR ($2 <> '' AND searchable_title = $2)
		 ORDER BY created_at DESC, id
		 LIMIT $3`,
		m.Pattern, m.Normalized, m.Limit,
	)
}

// TextSearchJobs runs an OR-ed full-text query and returns matches ordered by
// title boost (when q.BoostPattern is set) and weighted relevance.
func (db *DB) TextSearchJobs(ctx context.Context, q types.TextQuery) ([]types.Job, error) {
	query := fmt.Sprintf(
		`SELECT %s, %s AS score,
		        CASE WHEN $2 <> '' AND title ~* $2 THEN %d ELSE 0 END AS title_match
		 FROM jobs, %s
		 WHERE search_vector @@ tsq.q
		 ORDER BY title_match DESC, score DESC, created_at DESC, id
		 LIMIT $3`,
		jobColumns, jobRank, types.TitleBoostValue, orTSQuery(1))

	rows, err := db.pool.Query(ctx, query, q.Terms, q.BoostPattern, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search jobs: %w", err)
	}
	defer rows.Close()

	var jobs []types.Job
	for rows.Next() {
		var score float64
		var boost int
		j, err := scanJob(rows, &score, &boost)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		j.Score = score
		j.TitleBoost = boost
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to search jobs: %w", err)
	}
	return jobs, nil
}

// SuggestJobs returns jobs whose title, department, location or any keyword matches q.Pattern.
func (db *DB) SuggestJobs(ctx context.Context, q types.PrefixQuery) ([]types.Job, error) {
	return db.queryJobs(ctx, "suggest jobs",
		`SELECT `+jobColumns+`
		 FROM jobs
		 WHERE title ~* $1 OR department ~* $1 OR location ~* $1
		    OR EXISTS (SELECT 1 FROM unnest(keywords) AS k WHERE k ~* $1)
		 ORDER BY created_at DESC, id
		 LIMIT $2`,
		q.Pattern, q.Limit,
	)
}

// FilterJobs lists jobs matching the equality filters and optional text query.
func (db *DB) FilterJobs(ctx context.Context, f types.JobFilter) ([]types.Job, error) {
	args := []any{}
	argNum := 1

	from := "jobs"
	score := "0::float8"
	if f.Query != "" {
		from += ", " + orTSQuery(argNum)
		score = jobRank
		args = append(args, f.Query)
		argNum++
	}

	query := fmt.Sprintf(`SELECT %s, %s AS score FROM %s WHERE 1=1`, jobColumns, score, from)
	if f.Query != "" {
		query += " AND search_vector @@ tsq.q"
	}
	if f.Department != "" {
		query += fmt.Sprintf(" AND department = $%d", argNum)
		args = append(args, f.Department)
		argNum++
	}
	if f.Location != "" {
		query += fmt.Sprintf(" AND location = $%d", argNum)
		args = append(args, f.Location)
		argNum++
	}
	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, f.Status)
		argNum++
	}

	if f.Query != "" {
		query += " ORDER BY score DESC, created_at DESC, id"
	} else {
		query += " ORDER BY created_at DESC, id"
	}
	query += fmt.Sprintf(" LIMIT $%d", argNum)
	args = append(args, f.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to filter jobs: %w", err)
	}
	defer rows.Close()

	var jobs []types.Job
	for rows.Next() {
		var score float64
		j, err := scanJob(rows, &score)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		j.Score = score
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to filter jobs: %w", err)
	}
	return jobs, nil
}

// JobSummaries loads id, title and department for each id in one round trip.
// Ids with no job are absent from the result.
func (db *DB) JobSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]types.JobSummary, error) {
	out := make(map[uuid.UUID]types.JobSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, title, department FROM jobs WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load job summaries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s types.JobSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Department); err != nil {
			return nil, fmt.Errorf("failed to scan job summary: %w", err)
		}
		out[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load job summaries: %w", err)
	}
	return out, nil
}
