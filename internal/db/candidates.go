package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/talent-search/internal/types"
)

const candidateColumns = `id, job_id, name, email, match_score, match_explanation, resume_text,
	skills, searchable_name, created_at`

func scanCandidate(row pgx.Row, extra ...any) (types.Candidate, error) {
	var c types.Candidate
	dest := append([]any{
		&c.ID, &c.JobID, &c.Name, &c.Email, &c.MatchScore, &c.MatchExplanation,
		&c.ResumeText, &c.Skills, &c.SearchableName, &c.CreatedAt,
	}, extra...)
	err := row.Scan(dest...)
	return c, err
}

// queryCandidates runs query and scans candidateColumns plus a trailing score column.
func (db *DB) queryCandidates(ctx context.Context, op, query string, args ...any) ([]types.Candidate, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	defer rows.Close()

	var candidates []types.Candidate
	for rows.Next() {
		var score float64
		c, err := scanCandidate(rows, &score)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		c.Score = score
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return candidates, nil
}

// InsertCandidate creates a candidate. Missing id and creation time are filled in.
func (db *DB) InsertCandidate(ctx context.Context, c *types.Candidate) error {
	if c.JobID == uuid.Nil {
		return fmt.Errorf("candidate %q has no job id", c.Name)
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO candidates (id, job_id, name, email, match_score, match_explanation,
		                         resume_text, skills, searchable_name, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.JobID, c.Name, c.Email, c.MatchScore, c.MatchExplanation,
		c.ResumeText, nonNil(c.Skills), c.SearchableName, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert candidate: %w", err)
	}
	return nil
}

// MatchCandidates returns candidates whose name matches m.Pattern, or whose
// searchable name equals m.Normalized when that is set.
func (db *DB) MatchCandidates(ctx context.Context, m types.FieldMatch) ([]types.Candidate, error) {
	return db.queryCandidates(ctx, "match candidates",
		`SELECT `+candidateColumns+`, 0::float8
		 FROM candidates
		 WHERE name ~* $1 OR ($2 <> '' AND searchable_name = $2)
		 ORDER BY created_at DESC, id
		 LIMIT $3`,
		m.Pattern, m.Normalized, m.Limit,
	)
}

// TextSearchCandidates runs an OR-ed full-text query ordered by weighted relevance.
func (db *DB) TextSearchCandidates(ctx context.Context, q types.TextQuery) ([]types.Candidate, error) {
	query := fmt.Sprintf(
		`SELECT %s, %s AS score
		 FROM candidates, %s
		 WHERE search_vector @@ tsq.q
		 ORDER BY score DESC, created_at DESC, id
		 LIMIT $2`,
		candidateColumns, candidateRank, orTSQuery(1))
	return db.queryCandidates(ctx, "search candidates", query, q.Terms, q.Limit)
}

// SuggestCandidates returns candidates whose name, email or any skill matches q.Pattern.
func (db *DB) SuggestCandidates(ctx context.Context, q types.PrefixQuery) ([]types.Candidate, error) {
	args := []any{q.Pattern}
	argNum := 2

	query := `SELECT ` + candidateColumns + `, 0::float8
		FROM candidates
		WHERE (name ~* $1 OR email ~* $1
		       OR EXISTS (SELECT 1 FROM unnest(skills) AS s WHERE s ~* $1))`
	if q.JobID != nil {
		query += fmt.Sprintf(" AND job_id = $%d", argNum)
		args = append(args, *q.JobID)
		argNum++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d", argNum)
	args = append(args, q.Limit)

	return db.queryCandidates(ctx, "suggest candidates", query, args...)
}

// FilterCandidates lists candidates by job, inclusive score range and optional text query.
func (db *DB) FilterCandidates(ctx context.Context, f types.CandidateFilter) ([]types.Candidate, error) {
	args := []any{}
	argNum := 1

	from := "candidates"
	score := "0::float8"
	if f.Query != "" {
		from += ", " + orTSQuery(argNum)
		score = candidateRank
		args = append(args, f.Query)
		argNum++
	}

	query := fmt.Sprintf(`SELECT %s, %s AS score FROM %s WHERE 1=1`, candidateColumns, score, from)
	if f.Query != "" {
		query += " AND search_vector @@ tsq.q"
	}
	if f.JobID != nil {
		query += fmt.Sprintf(" AND job_id = $%d", argNum)
		args = append(args, *f.JobID)
		argNum++
	}
	if f.MinScore != nil {
		query += fmt.Sprintf(" AND match_score >= $%d", argNum)
		args = append(args, *f.MinScore)
		argNum++
	}
	if f.MaxScore != nil {
		query += fmt.Sprintf(" AND match_score <= $%d", argNum)
		args = append(args, *f.MaxScore)
		argNum++
	}

	if f.Query != "" {
		query += " ORDER BY score DESC, created_at DESC, id"
	} else {
		query += " ORDER BY created_at DESC, id"
	}
	query += fmt.Sprintf(" LIMIT $%d", argNum)
	args = append(args, f.Limit)

	return db.queryCandidates(ctx, "filter candidates", query, args...)
}
