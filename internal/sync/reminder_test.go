package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/threadsync/threadsync/internal/issues"
	"github.com/threadsync/threadsync/internal/tracking"
	trackingmocks "github.com/threadsync/threadsync/internal/tracking/mocks"
)

func trackedList(numbers ...int) []tracking.TrackedIssue {
	var out []tracking.TrackedIssue
	for _, n := range numbers {
		out = append(out, tracking.TrackedIssue{
			Owner: "acme", Repo: "widgets", IssueNumber: n, ThreadID: "thread-" + string(rune('0'+n)),
		})
	}
	return out
}

func issuePtr(i issues.Issue) *issues.Issue {
	return &i
}

func TestReminder_SendsOnePerIssue(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	store := trackingmocks.NewMockStore(gomock.NewController(t))
	store.EXPECT().ListTracked(gomock.Any(), "acme", "widgets").Return(trackedList(1, 2), nil)

	for _, n := range []int{1, 2} {
		f.source.EXPECT().GetIssue(gomock.Any(), "acme", "widgets", n).Return(issuePtr(openIssue(n)), nil)
	}
	f.sink.EXPECT().SendMessage(gomock.Any(), "thread-1",
		"Reminder: Issue 1 in acme/widgets is still open. https://github.com/acme/widgets/issues/1").Return(nil)
	f.sink.EXPECT().SendMessage(gomock.Any(), "thread-2",
		"Reminder: Issue 2 in acme/widgets is still open. https://github.com/acme/widgets/issues/2").Return(nil)

	assert.True(t, NewReminder(f.source, f.sink, store, testRepo).Sweep(context.Background()))
}

func TestReminder_StopsAtFirstFetchFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	store := trackingmocks.NewMockStore(gomock.NewController(t))
	store.EXPECT().ListTracked(gomock.Any(), "acme", "widgets").Return(trackedList(1, 2, 3), nil)

	gomock.InOrder(
		f.source.EXPECT().GetIssue(gomock.Any(), "acme", "widgets", 1).Return(issuePtr(openIssue(1)), nil),
		f.source.EXPECT().GetIssue(gomock.Any(), "acme", "widgets", 2).Return(nil, errors.New("timeout")),
	)
	f.sink.EXPECT().SendMessage(gomock.Any(), "thread-1", gomock.Any()).Return(nil)
	// nothing is expected for issue 3

	assert.False(t, NewReminder(f.source, f.sink, store, testRepo).Sweep(context.Background()))
}

func TestReminder_MissingIssueStops(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	store := trackingmocks.NewMockStore(gomock.NewController(t))
	store.EXPECT().ListTracked(gomock.Any(), "acme", "widgets").Return(trackedList(1, 2), nil)
	f.source.EXPECT().GetIssue(gomock.Any(), "acme", "widgets", 1).Return(nil, nil)

	assert.False(t, NewReminder(f.source, f.sink, store, testRepo).Sweep(context.Background()))
}

func TestReminder_StopsAtFirstSendFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	store := trackingmocks.NewMockStore(gomock.NewController(t))
	store.EXPECT().ListTracked(gomock.Any(), "acme", "widgets").Return(trackedList(1, 2), nil)
	f.source.EXPECT().GetIssue(gomock.Any(), "acme", "widgets", 1).Return(issuePtr(openIssue(1)), nil)
	f.sink.EXPECT().SendMessage(gomock.Any(), "thread-1", gomock.Any()).Return(errors.New("missing permissions"))

	assert.False(t, NewReminder(f.source, f.sink, store, testRepo).Sweep(context.Background()))
}

func TestReminder_SkipsClosedIssues(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	store := trackingmocks.NewMockStore(gomock.NewController(t))
	store.EXPECT().ListTracked(gomock.Any(), "acme", "widgets").Return(trackedList(1, 2), nil)

	closed := openIssue(1)
	closed.State = issues.StateClosed
	f.source.EXPECT().GetIssue(gomock.Any(), "acme", "widgets", 1).Return(&closed, nil)
	f.source.EXPECT().GetIssue(gomock.Any(), "acme", "widgets", 2).Return(issuePtr(openIssue(2)), nil)
	f.sink.EXPECT().SendMessage(gomock.Any(), "thread-2", gomock.Any()).Return(nil)

	assert.True(t, NewReminder(f.source, f.sink, store, testRepo).Sweep(context.Background()))
}

func TestReminder_NothingTracked(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	assert.True(t, NewReminder(f.source, f.sink, f.store, testRepo).Sweep(context.Background()))
}

func TestReminder_ListFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	store := trackingmocks.NewMockStore(gomock.NewController(t))
	store.EXPECT().ListTracked(gomock.Any(), "acme", "widgets").Return(nil, errors.New("db down"))

	assert.False(t, NewReminder(f.source, f.sink, store, testRepo).Sweep(context.Background()))
}
