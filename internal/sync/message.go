package sync

import (
	"fmt"
	"strings"

	"github.com/threadsync/threadsync/internal/issues"
	"github.com/threadsync/threadsync/internal/threads"
)

const emptyDescription = "_No description provided._"

// ThreadSpecFor builds the thread mirroring issue. The name is cut to the thread
// name limit and the description is cut so the reporter footer and link survive.
func ThreadSpecFor(issue issues.Issue, available []threads.Tag, truncate threads.TruncatePolicy) threads.ThreadSpec {
	body := strings.TrimSpace(issue.Body)
	if body == "" {
		body = emptyDescription
	}

	var footer strings.Builder
	footer.WriteString("\n\n")
	if issue.Reporter != "" {
		fmt.Fprintf(&footer, "Reported by `%s`\n", issue.Reporter)
	}
	fmt.Fprintf(&footer, "[View Issue](%s)", issue.HTMLURL)

	name := strings.TrimSpace(issue.Title)
	if name == "" {
		name = fmt.Sprintf("Issue #%d", issue.Number)
	}

	return threads.ThreadSpec{
		Name:    threads.TruncatePolicy{Limit: threads.NameLimit}.Apply(name),
		Content: truncate.Fit(body, footer.String()),
		Tags:    threads.TagMatchPolicy{}.Match(available, issue.Labels),
	}
}

// ReminderMessage is the message posted to the thread of an open tracked issue
func ReminderMessage(repo Repository, number int, url string) string {
	return fmt.Sprintf("Reminder: Issue %d in %s is still open. %s", number, repo, url)
}

// CloseComment is posted on the issue when its thread is archived
func CloseComment(threadID string) string {
	return fmt.Sprintf("Closed because the Discord thread %s was archived.", threadID)
}

// ClosedConfirmation is posted to the thread once its issue is closed and untracked
func ClosedConfirmation(number int) string {
	return fmt.Sprintf("Issue #%d has been closed and is no longer tracked.", number)
}

// ClosedOnTrackerNotice is posted to the thread when the issue was closed on the tracker
func ClosedOnTrackerNotice(number int, url string) string {
	msg := fmt.Sprintf("Issue #%d was closed on GitHub; this thread is no longer tracked.", number)
	if url != "" {
		msg += " " + url
	}
	return msg
}
