package create

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/threadsync/threadsync/internal/issues"
	otelutil "github.com/threadsync/threadsync/internal/otel"
	pkgsync "github.com/threadsync/threadsync/internal/sync"
	"github.com/threadsync/threadsync/internal/telemetry"
	"github.com/threadsync/threadsync/internal/threads"
	"github.com/threadsync/threadsync/internal/tracking"
)

// ErrThreadNotCreated is returned when the issue was filed but its thread could
// not be opened. The reconcile loop opens the thread on its next run.
var ErrThreadNotCreated = errors.New("issue created without a thread")

// Result is what Create produced
type Result struct {
	Issue *issues.Issue

	// Thread is nil when only the issue could be created
	Thread *threads.Thread
}

// Creator files issues submitted from chat and mirrors them right away
type Creator struct {
	source issues.Source
	sink   threads.Sink
	store  tracking.Store
	locker *tracking.Locker
	repo   pkgsync.Repository

	truncate threads.TruncatePolicy
	metrics  *telemetry.SyncMetrics
	tracer   trace.Tracer
}

// CreatorOption configures a Creator
type CreatorOption func(*Creator)

// WithMessageLimit sets the maximum length of the thread message
func WithMessageLimit(n int) CreatorOption {
	return func(c *Creator) {
		if n > 0 {
			c.truncate = threads.TruncatePolicy{Limit: n}
		}
	}
}

// WithMetrics records created threads on m
func WithMetrics(m *telemetry.SyncMetrics) CreatorOption {
	return func(c *Creator) {
		c.metrics = m
	}
}

// WithTracer starts spans on tracer
func WithTracer(tracer trace.Tracer) CreatorOption {
	return func(c *Creator) {
		c.tracer = tracer
	}
}

// NewCreator creates a Creator filing issues in repo
func NewCreator(
	source issues.Source, sink threads.Sink, store tracking.Store, locker *tracking.Locker,
	repo pkgsync.Repository, opts ...CreatorOption,
) *Creator {
	c := &Creator{
		source:   source,
		sink:     sink,
		store:    store,
		locker:   locker,
		repo:     repo,
		truncate: threads.TruncatePolicy{Limit: threads.DefaultMessageLimit},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IssueBody returns the body filed on the tracker, crediting the chat user
func IssueBody(draft Draft) string {
	if draft.User == "" {
		return draft.Body
	}
	return fmt.Sprintf("%s\n\nCreated By: `%s`", draft.Body, draft.User)
}

// Create files draft as an issue of type t, opens its thread with the matching
// tags and tracks the pair. If the issue cannot be filed nothing is created. If
// the thread cannot be opened the error wraps ErrThreadNotCreated and the result
// still carries the issue.
func (c *Creator) Create(ctx context.Context, draft Draft, t IssueType) (*Result, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, fmt.Errorf("issue title cannot be empty")
	}

	ctx, span := otelutil.StartSpan(ctx, c.tracer, "create.Issue",
		trace.WithAttributes(otelutil.AttrOwner.String(c.repo.Owner), otelutil.AttrRepo.String(c.repo.Name)),
	)
	defer span.End()

	// held across issue and thread creation so the reconcile loop cannot mirror
	// the new issue before it is tracked
	unlock := c.locker.Lock(c.repo.Owner, c.repo.Name)
	defer unlock()

	body := IssueBody(draft)
	label := t.Label()

	issue, err := c.source.CreateIssue(ctx, c.repo.Owner, c.repo.Name, issues.NewIssue{
		Title:  draft.Title,
		Body:   body,
		Labels: []string{label},
	})
	if err != nil {
		otelutil.RecordError(span, err)
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}
	span.SetAttributes(otelutil.AttrIssueNumber.Int(issue.Number))
	result := &Result{Issue: issue}

	tags, err := c.sink.AvailableTags(ctx)
	if err != nil {
		slog.Warn("Failed to load forum tags, creating thread without tags", "error", err)
	}

	thread, err := c.sink.CreateThread(ctx, threads.ThreadSpec{
		Name:    threads.TruncatePolicy{Limit: threads.NameLimit}.Apply(draft.Title),
		Content: c.truncate.Fit(body, fmt.Sprintf("\n\n[Created Issue](%s)", issue.HTMLURL)),
		Tags:    threads.TagMatchPolicy{}.Match(tags, []string{label}),
	})
	if err != nil {
		otelutil.RecordError(span, err)
		return result, fmt.Errorf("%w: issue #%d: %w", ErrThreadNotCreated, issue.Number, err)
	}
	result.Thread = thread
	c.metrics.AddThreadsCreated(ctx, c.repo.String(), "create", 1)

	err = c.store.Track(ctx, tracking.TrackedIssue{
		Owner:       c.repo.Owner,
		Repo:        c.repo.Name,
		IssueNumber: issue.Number,
		ThreadID:    thread.ID,
	})
	if err != nil {
		otelutil.RecordError(span, err)
		slog.Error("Thread created but not tracked",
			"repo", c.repo.String(), "issue", issue.Number, "thread_id", thread.ID, "error", err)
		return result, nil
	}

	slog.Info("Created issue from chat",
		"repo", c.repo.String(), "issue", issue.Number, "thread_id", thread.ID, "user", draft.User)
	return result, nil
}
