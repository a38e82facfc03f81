package tracking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tracked_issue (
    owner        TEXT     NOT NULL,
    repo         TEXT     NOT NULL,
    issue_number INTEGER  NOT NULL CHECK (issue_number > 0),
    thread_id    TEXT     NOT NULL,
    tracked_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (owner, repo, issue_number),
    CONSTRAINT tracked_issue_thread_id_key UNIQUE (thread_id)
);
`

type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) a SQLite database at path and applies
// the tracking schema. Use ":memory:" for a throwaway database.
func NewSQLiteStore(ctx context.Context, path string) (Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serializes writers anyway, and an in-memory database only exists
	// on the connection that created it.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Track(ctx context.Context, issue TrackedIssue) error {
	if err := issue.validate(); err != nil {
		return err
	}
	if issue.TrackedAt.IsZero() {
		issue.TrackedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tracked_issue (owner, repo, issue_number, thread_id, tracked_at) VALUES (?, ?, ?, ?, ?)`,
		issue.Owner, issue.Repo, issue.IssueNumber, issue.ThreadID, issue.TrackedAt,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) {
			switch sqliteErr.ExtendedCode {
			case sqlite3.ErrConstraintPrimaryKey:
				return ErrDuplicateMapping
			case sqlite3.ErrConstraintUnique:
				return ErrDuplicateThread
			}
		}
		return fmt.Errorf("failed to track issue %s: %w", issue.Key(), err)
	}
	return nil
}

func (s *sqliteStore) LookupThread(ctx context.Context, key IssueKey) (string, error) {
	var threadID string
	err := s.db.QueryRowContext(ctx,
		`SELECT thread_id FROM tracked_issue WHERE owner = ? AND repo = ? AND issue_number = ?`,
		key.Owner, key.Repo, key.Number,
	).Scan(&threadID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up thread of %s: %w", key, err)
	}
	return threadID, nil
}

func (s *sqliteStore) LookupByThread(ctx context.Context, threadID string) (*TrackedIssue, error) {
	issue := &TrackedIssue{}
	err := s.db.QueryRowContext(ctx,
		`SELECT owner, repo, issue_number, thread_id, tracked_at FROM tracked_issue WHERE thread_id = ?`,
		threadID,
	).Scan(&issue.Owner, &issue.Repo, &issue.IssueNumber, &issue.ThreadID, &issue.TrackedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up thread %s: %w", threadID, err)
	}
	return issue, nil
}

func (s *sqliteStore) ListTracked(ctx context.Context, owner, repo string) ([]TrackedIssue, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT owner, repo, issue_number, thread_id, tracked_at FROM tracked_issue WHERE owner = ? AND repo = ?`,
		owner, repo,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked issues: %w", err)
	}
	defer rows.Close()

	var out []TrackedIssue
	for rows.Next() {
		var issue TrackedIssue
		if err := rows.Scan(&issue.Owner, &issue.Repo, &issue.IssueNumber, &issue.ThreadID, &issue.TrackedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tracked issue: %w", err)
		}
		out = append(out, issue)
	}
	return out, rows.Err()
}

func (s *sqliteStore) UntrackByIssue(ctx context.Context, key IssueKey) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM tracked_issue WHERE owner = ? AND repo = ? AND issue_number = ?`,
		key.Owner, key.Repo, key.Number,
	)
	if err != nil {
		return fmt.Errorf("failed to untrack %s: %w", key, err)
	}
	return nil
}

func (s *sqliteStore) UntrackByThread(ctx context.Context, threadID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tracked_issue WHERE thread_id = ?`, threadID); err != nil {
		return fmt.Errorf("failed to untrack thread %s: %w", threadID, err)
	}
	return nil
}

func (s *sqliteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
