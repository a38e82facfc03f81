package sync

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/threadsync/threadsync/internal/issues"
)

func TestPrune(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	track(t, f.store, 1, "thread-1") // open
	track(t, f.store, 2, "thread-2") // closed
	track(t, f.store, 3, "thread-3") // deleted
	track(t, f.store, 4, "thread-4") // fetch fails
	track(t, f.store, 5, "thread-5") // not visible

	closed := openIssue(2)
	closed.State = issues.StateClosed

	f.source.EXPECT().GetIssue(gomock.Any(), "acme", "widgets", 1).Return(issuePtr(openIssue(1)), nil)
	f.source.EXPECT().GetIssue(gomock.Any(), "acme", "widgets", 2).Return(&closed, nil)
	f.source.EXPECT().GetIssue(gomock.Any(), "acme", "widgets", 3).
		Return(nil, fmt.Errorf("get issue 3: %w", issues.ErrGone))
	f.source.EXPECT().GetIssue(gomock.Any(), "acme", "widgets", 4).Return(nil, errors.New("timeout"))
	f.source.EXPECT().GetIssue(gomock.Any(), "acme", "widgets", 5).
		Return(nil, fmt.Errorf("get issue 5: %w", issues.ErrNotFound))

	f.sink.EXPECT().SendMessage(gomock.Any(), "thread-2", ClosedOnTrackerNotice(2, closed.HTMLURL)).Return(nil)
	f.sink.EXPECT().LockAndArchive(gomock.Any(), "thread-2").Return(nil)
	f.sink.EXPECT().SendMessage(gomock.Any(), "thread-3", ClosedOnTrackerNotice(3, "")).Return(nil)
	f.sink.EXPECT().LockAndArchive(gomock.Any(), "thread-3").Return(errors.New("missing access"))

	p := NewPruner(f.source, f.sink, f.store, f.locker, testRepo)
	result, err := p.Prune(context.Background())
	require.NoError(t, err)

	assert.Equal(t, PruneResult{Checked: 5, Untracked: 2, Failed: 2}, result)
	assert.Equal(t, map[int]string{1: "thread-1", 4: "thread-4", 5: "thread-5"}, trackedThreads(t, f.store))
}

func TestPrune_LostAccessKeepsMappings(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	for n := 1; n <= 3; n++ {
		track(t, f.store, n, fmt.Sprintf("thread-%d", n))
		f.source.EXPECT().GetIssue(gomock.Any(), "acme", "widgets", n).
			Return(nil, fmt.Errorf("get issue %d: %w", n, issues.ErrNotFound))
	}
	// no SendMessage or LockAndArchive expected

	result, err := NewPruner(f.source, f.sink, f.store, f.locker, testRepo).Prune(context.Background())
	require.NoError(t, err)

	assert.Equal(t, PruneResult{Checked: 3, Failed: 3}, result)
	assert.Equal(t, map[int]string{1: "thread-1", 2: "thread-2", 3: "thread-3"}, trackedThreads(t, f.store))
}

func TestPrune_NothingTracked(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	result, err := NewPruner(f.source, f.sink, f.store, f.locker, testRepo).Prune(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PruneResult{}, result)
}
