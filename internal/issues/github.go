package issues

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
)

// GitHubOption configures the GitHub client
type GitHubOption func(*githubSource) error

// WithBaseURL points the client at a GitHub Enterprise or test server
func WithBaseURL(baseURL string) GitHubOption {
	return func(g *githubSource) error {
		if baseURL == "" {
			return nil
		}
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return fmt.Errorf("invalid base url: %w", err)
		}
		g.client.BaseURL = u
		return nil
	}
}

type githubSource struct {
	client *github.Client
}

// NewGitHubSource creates a Source backed by the GitHub REST API
func NewGitHubSource(httpClient *http.Client, token string, opts ...GitHubOption) (Source, error) {
	client := github.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	g := &githubSource{client: client}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *githubSource) ListOpenIssues(ctx context.Context, owner, repo string, page, perPage int) ([]Issue, error) {
	list, _, err := g.client.Issues.ListByRepo(ctx, owner, repo, &github.IssueListByRepoOptions{
		State:     StateOpen,
		Sort:      "created",
		Direction: "desc",
		ListOptions: github.ListOptions{
			Page:    page,
			PerPage: perPage,
		},
	})
	if err != nil {
		return nil, wrapError("list issues", err)
	}

	out := make([]Issue, 0, len(list))
	for _, gi := range list {
		out = append(out, fromGitHub(gi))
	}
	return out, nil
}

func (g *githubSource) GetIssue(ctx context.Context, owner, repo string, number int) (*Issue, error) {
	gi, _, err := g.client.Issues.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, wrapError(fmt.Sprintf("get issue %d", number), err)
	}
	issue := fromGitHub(gi)
	return &issue, nil
}

func (g *githubSource) CreateIssue(ctx context.Context, owner, repo string, issue NewIssue) (*Issue, error) {
	req := &github.IssueRequest{
		Title: github.String(issue.Title),
		Body:  github.String(issue.Body),
	}
	if len(issue.Labels) > 0 {
		req.Labels = &issue.Labels
	}

	gi, _, err := g.client.Issues.Create(ctx, owner, repo, req)
	if err != nil {
		return nil, wrapError("create issue", err)
	}
	created := fromGitHub(gi)
	slog.Info("Created issue", "owner", owner, "repo", repo, "number", created.Number)
	return &created, nil
}

func (g *githubSource) CloseIssue(ctx context.Context, owner, repo string, number int) error {
	_, _, err := g.client.Issues.Edit(ctx, owner, repo, number, &github.IssueRequest{
		State: github.String(StateClosed),
	})
	if err != nil {
		return wrapError(fmt.Sprintf("close issue %d", number), err)
	}
	return nil
}

func (g *githubSource) PostComment(ctx context.Context, owner, repo string, number int, body string) error {
	_, _, err := g.client.Issues.CreateComment(ctx, owner, repo, number, &github.IssueComment{
		Body: github.String(body),
	})
	if err != nil {
		return wrapError(fmt.Sprintf("comment on issue %d", number), err)
	}
	return nil
}

func fromGitHub(gi *github.Issue) Issue {
	issue := Issue{
		Number:      gi.GetNumber(),
		Title:       gi.GetTitle(),
		Body:        gi.GetBody(),
		Reporter:    gi.GetUser().GetLogin(),
		HTMLURL:     gi.GetHTMLURL(),
		State:       gi.GetState(),
		PullRequest: gi.IsPullRequest(),
	}
	for _, label := range gi.Labels {
		if name := label.GetName(); name != "" {
			issue.Labels = append(issue.Labels, name)
		}
	}
	return issue
}

// wrapError converts go-github errors into APIError / ErrNotFound / ErrGone
func wrapError(op string, err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		slog.Warn("GitHub rate limit exceeded", "operation", op, "reset", rateErr.Rate.Reset.Time)
		return &APIError{Op: op, StatusCode: rateErr.Response.StatusCode, Message: rateErr.Message}
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		case http.StatusGone:
			return fmt.Errorf("%s: %w", op, ErrGone)
		}
		return &APIError{Op: op, StatusCode: respErr.Response.StatusCode, Message: respErr.Message}
	}

	return fmt.Errorf("failed to %s: %w", op, err)
}
