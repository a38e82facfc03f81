package issues_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/threadsync/threadsync/internal/httpclient"
	"github.com/threadsync/threadsync/internal/issues"
)

var _ = Describe("GitHub source", func() {
	var (
		ctx    context.Context
		mux    *http.ServeMux
		server *httptest.Server
		source issues.Source
	)

	BeforeEach(func() {
		ctx = context.Background()
		mux = http.NewServeMux()
		server = httptest.NewServer(mux)

		var err error
		source, err = issues.NewGitHubSource(httpclient.NewClient(5*time.Second), "ghp_test", issues.WithBaseURL(server.URL))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("ListOpenIssues", func() {
		It("requests one page of open issues and maps the fields", func() {
			mux.HandleFunc("GET /repos/acme/widgets/issues", func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Header.Get("Authorization")).To(Equal("Bearer ghp_test"))
				Expect(r.URL.Query().Get("state")).To(Equal("open"))
				Expect(r.URL.Query().Get("page")).To(Equal("2"))
				Expect(r.URL.Query().Get("per_page")).To(Equal("30"))

				_, _ = io.WriteString(w, `[
					{"number": 12, "title": "Crash on start", "body": "stack trace",
					 "state": "open", "html_url": "https://github.com/acme/widgets/issues/12",
					 "user": {"login": "octocat"}, "labels": [{"name": "bug"}, {"name": "p1"}]},
					{"number": 13, "title": "Add feature", "state": "open",
					 "pull_request": {"url": "https://api.github.com/repos/acme/widgets/pulls/13"}}
				]`)
			})

			list, err := source.ListOpenIssues(ctx, "acme", "widgets", 2, 30)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(2))

			Expect(list[0]).To(Equal(issues.Issue{
				Number:   12,
				Title:    "Crash on start",
				Body:     "stack trace",
				Labels:   []string{"bug", "p1"},
				Reporter: "octocat",
				HTMLURL:  "https://github.com/acme/widgets/issues/12",
				State:    issues.StateOpen,
			}))
			Expect(list[1].PullRequest).To(BeTrue())
		})

		It("returns an empty page past the end", func() {
			mux.HandleFunc("GET /repos/acme/widgets/issues", func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, `[]`)
			})

			list, err := source.ListOpenIssues(ctx, "acme", "widgets", 9, 30)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(BeEmpty())
		})

		It("returns an APIError on server errors", func() {
			mux.HandleFunc("GET /repos/acme/widgets/issues", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = io.WriteString(w, `{"message": "upstream unavailable"}`)
			})

			_, err := source.ListOpenIssues(ctx, "acme", "widgets", 1, 30)
			var apiErr *issues.APIError
			Expect(errors.As(err, &apiErr)).To(BeTrue())
			Expect(apiErr.StatusCode).To(Equal(http.StatusBadGateway))
			Expect(err.Error()).To(ContainSubstring("upstream unavailable"))
		})
	})

	Describe("GetIssue", func() {
		It("returns the issue", func() {
			mux.HandleFunc("GET /repos/acme/widgets/issues/5", func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, `{"number": 5, "title": "Old bug", "state": "closed"}`)
			})

			issue, err := source.GetIssue(ctx, "acme", "widgets", 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(issue.Number).To(Equal(5))
			Expect(issue.IsClosed()).To(BeTrue())
		})

		It("maps 404 to ErrNotFound", func() {
			mux.HandleFunc("GET /repos/acme/widgets/issues/404", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, `{"message": "Not Found"}`)
			})

			_, err := source.GetIssue(ctx, "acme", "widgets", 404)
			Expect(err).To(MatchError(issues.ErrNotFound))
			Expect(err).NotTo(MatchError(issues.ErrGone))
		})

		It("maps 410 to ErrGone", func() {
			mux.HandleFunc("GET /repos/acme/widgets/issues/410", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusGone)
				_, _ = io.WriteString(w, `{"message": "This issue was deleted"}`)
			})

			_, err := source.GetIssue(ctx, "acme", "widgets", 410)
			Expect(err).To(MatchError(issues.ErrGone))
		})

		It("wraps transport errors", func() {
			server.Close()

			_, err := source.GetIssue(ctx, "acme", "widgets", 1)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to get issue 1"))
		})
	})

	Describe("CreateIssue", func() {
		It("sends title, body and labels", func() {
			mux.HandleFunc("POST /repos/acme/widgets/issues", func(w http.ResponseWriter, r *http.Request) {
				var req map[string]any
				Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
				Expect(req).To(HaveKeyWithValue("title", "New thing"))
				Expect(req).To(HaveKeyWithValue("body", "details"))
				Expect(req).To(HaveKeyWithValue("labels", ConsistOf("enhancement")))

				w.WriteHeader(http.StatusCreated)
				_, _ = io.WriteString(w, `{"number": 77, "title": "New thing", "state": "open",
					"html_url": "https://github.com/acme/widgets/issues/77"}`)
			})

			issue, err := source.CreateIssue(ctx, "acme", "widgets", issues.NewIssue{
				Title:  "New thing",
				Body:   "details",
				Labels: []string{"enhancement"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(issue.Number).To(Equal(77))
			Expect(issue.HTMLURL).To(Equal("https://github.com/acme/widgets/issues/77"))
		})

		It("returns an APIError when validation fails", func() {
			mux.HandleFunc("POST /repos/acme/widgets/issues", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = io.WriteString(w, `{"message": "Validation Failed"}`)
			})

			_, err := source.CreateIssue(ctx, "acme", "widgets", issues.NewIssue{Title: "x"})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("HTTP 422"))
		})
	})

	Describe("CloseIssue and PostComment", func() {
		It("patches the state to closed", func() {
			mux.HandleFunc("PATCH /repos/acme/widgets/issues/5", func(w http.ResponseWriter, r *http.Request) {
				var req map[string]any
				Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
				Expect(req).To(HaveKeyWithValue("state", "closed"))
				_, _ = io.WriteString(w, `{"number": 5, "state": "closed"}`)
			})

			Expect(source.CloseIssue(ctx, "acme", "widgets", 5)).To(Succeed())
		})

		It("posts the comment body", func() {
			var got string
			mux.HandleFunc("POST /repos/acme/widgets/issues/5/comments", func(w http.ResponseWriter, r *http.Request) {
				var req map[string]string
				Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
				got = req["body"]
				w.WriteHeader(http.StatusCreated)
				_, _ = io.WriteString(w, `{"id": 1}`)
			})

			Expect(source.PostComment(ctx, "acme", "widgets", 5, "Closed from Discord")).To(Succeed())
			Expect(got).To(Equal("Closed from Discord"))
		})

		It("reports failures of the comment", func() {
			mux.HandleFunc("POST /repos/acme/widgets/issues/5/comments", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				_, _ = io.WriteString(w, `{"message": "Resource not accessible by integration"}`)
			})

			err := source.PostComment(ctx, "acme", "widgets", 5, "hi")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(fmt.Sprintf("HTTP %d", http.StatusForbidden)))
		})
	})

	It("rejects an invalid base URL", func() {
		_, err := issues.NewGitHubSource(http.DefaultClient, "", issues.WithBaseURL("://bad"))
		Expect(err).To(HaveOccurred())
	})
})
