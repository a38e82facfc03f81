package tracking

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// pgUniqueViolation is the SQLSTATE for unique_violation
	pgUniqueViolation = "23505"

	pgThreadConstraint = "tracked_issue_thread_id_key"
)

type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Store backed by PostgreSQL. The tracked_issue table
// is created by the database migrations.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool}
}

func (p *postgresStore) Track(ctx context.Context, issue TrackedIssue) error {
	if err := issue.validate(); err != nil {
		return err
	}

	var err error
	if issue.TrackedAt.IsZero() {
		_, err = p.pool.Exec(ctx,
			`INSERT INTO tracked_issue (owner, repo, issue_number, thread_id) VALUES ($1, $2, $3, $4)`,
			issue.Owner, issue.Repo, issue.IssueNumber, issue.ThreadID,
		)
	} else {
		_, err = p.pool.Exec(ctx,
			`INSERT INTO tracked_issue (owner, repo, issue_number, thread_id, tracked_at) VALUES ($1, $2, $3, $4, $5)`,
			issue.Owner, issue.Repo, issue.IssueNumber, issue.ThreadID, issue.TrackedAt,
		)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			if pgErr.ConstraintName == pgThreadConstraint {
				return ErrDuplicateThread
			}
			return ErrDuplicateMapping
		}
		return fmt.Errorf("failed to track issue %s: %w", issue.Key(), err)
	}
	return nil
}

func (p *postgresStore) LookupThread(ctx context.Context, key IssueKey) (string, error) {
	var threadID string
	err := p.pool.QueryRow(ctx,
		`SELECT thread_id FROM tracked_issue WHERE owner = $1 AND repo = $2 AND issue_number = $3`,
		key.Owner, key.Repo, key.Number,
	).Scan(&threadID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up thread of %s: %w", key, err)
	}
	return threadID, nil
}

func (p *postgresStore) LookupByThread(ctx context.Context, threadID string) (*TrackedIssue, error) {
	issue := &TrackedIssue{}
	err := p.pool.QueryRow(ctx,
		`SELECT owner, repo, issue_number, thread_id, tracked_at FROM tracked_issue WHERE thread_id = $1`,
		threadID,
	).Scan(&issue.Owner, &issue.Repo, &issue.IssueNumber, &issue.ThreadID, &issue.TrackedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up thread %s: %w", threadID, err)
	}
	return issue, nil
}

func (p *postgresStore) ListTracked(ctx context.Context, owner, repo string) ([]TrackedIssue, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT owner, repo, issue_number, thread_id, tracked_at FROM tracked_issue WHERE owner = $1 AND repo = $2`,
		owner, repo,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked issues: %w", err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (TrackedIssue, error) {
		var issue TrackedIssue
		err := row.Scan(&issue.Owner, &issue.Repo, &issue.IssueNumber, &issue.ThreadID, &issue.TrackedAt)
		return issue, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan tracked issues: %w", err)
	}
	return out, nil
}

func (p *postgresStore) UntrackByIssue(ctx context.Context, key IssueKey) error {
	_, err := p.pool.Exec(ctx,
		`DELETE FROM tracked_issue WHERE owner = $1 AND repo = $2 AND issue_number = $3`,
		key.Owner, key.Repo, key.Number,
	)
	if err != nil {
		return fmt.Errorf("failed to untrack %s: %w", key, err)
	}
	return nil
}

func (p *postgresStore) UntrackByThread(ctx context.Context, threadID string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM tracked_issue WHERE thread_id = $1`, threadID); err != nil {
		return fmt.Errorf("failed to untrack thread %s: %w", threadID, err)
	}
	return nil
}

func (p *postgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *postgresStore) Close() error {
	p.pool.Close()
	return nil
}
