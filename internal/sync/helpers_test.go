package sync

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/threadsync/threadsync/internal/issues"
	issuesmocks "github.com/threadsync/threadsync/internal/issues/mocks"
	"github.com/threadsync/threadsync/internal/threads"
	threadsmocks "github.com/threadsync/threadsync/internal/threads/mocks"
	"github.com/threadsync/threadsync/internal/tracking"
)

var testRepo = Repository{Owner: "acme", Name: "widgets"}

type fixture struct {
	source *issuesmocks.MockSource
	sink   *threadsmocks.MockSink
	store  tracking.Store
	locker *tracking.Locker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	return &fixture{
		source: issuesmocks.NewMockSource(ctrl),
		sink:   threadsmocks.NewMockSink(ctrl),
		store:  tracking.NewMemoryStore(),
		locker: tracking.NewLocker(),
	}
}

func openIssue(number int) issues.Issue {
	return issues.Issue{
		Number:   number,
		Title:    fmt.Sprintf("Issue %d", number),
		Body:     "Something is broken",
		Reporter: "octocat",
		HTMLURL:  fmt.Sprintf("https://github.com/acme/widgets/issues/%d", number),
		State:    issues.StateOpen,
	}
}

func openIssues(from, to int) []issues.Issue {
	var out []issues.Issue
	for n := from; n <= to; n++ {
		out = append(out, openIssue(n))
	}
	return out
}

// threadPerIssue answers CreateThread with a thread id derived from a counter
func threadPerIssue() func(context.Context, threads.ThreadSpec) (*threads.Thread, error) {
	n := 0
	return func(_ context.Context, spec threads.ThreadSpec) (*threads.Thread, error) {
		n++
		return &threads.Thread{ID: fmt.Sprintf("thread-%d", n), Name: spec.Name}, nil
	}
}

func track(t *testing.T, store tracking.Store, number int, threadID string) {
	t.Helper()
	require.NoError(t, store.Track(context.Background(), tracking.TrackedIssue{
		Owner: testRepo.Owner, Repo: testRepo.Name, IssueNumber: number, ThreadID: threadID,
	}))
}

func trackedThreads(t *testing.T, store tracking.Store) map[int]string {
	t.Helper()
	list, err := store.ListTracked(context.Background(), testRepo.Owner, testRepo.Name)
	require.NoError(t, err)
	out := make(map[int]string, len(list))
	for _, m := range list {
		out[m.IssueNumber] = m.ThreadID
	}
	return out
}
