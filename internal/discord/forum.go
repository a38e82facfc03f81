package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/threadsync/threadsync/internal/threads"
)

const (
	archivedPageSize = 100
	maxArchivedPages = 50
)

// ErrForumNotReady is returned by sink operations before EnsureForum succeeded
var ErrForumNotReady = errors.New("forum channel not resolved yet")

// ForumSink creates and manages the threads of one forum channel
type ForumSink struct {
	api       sessionAPI
	guildID   string
	forumName string

	mu      sync.RWMutex
	forumID string
}

var _ threads.Sink = (*ForumSink)(nil)

// NewForumSink creates a sink for the forum named forumName in guildID
func NewForumSink(api sessionAPI, guildID, forumName string) *ForumSink {
	return &ForumSink{
		api:       api,
		guildID:   guildID,
		forumName: forumName,
	}
}

// GuildID returns the guild the forum lives in
func (f *ForumSink) GuildID() string {
	return f.guildID
}

// ForumID returns the id of the forum, empty before EnsureForum
func (f *ForumSink) ForumID() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.forumID
}

// EnsureForum resolves the forum channel by name, creating it when the guild has
// none. A missing guild is an error.
func (f *ForumSink) EnsureForum(ctx context.Context) (string, error) {
	if id := f.ForumID(); id != "" {
		return id, nil
	}

	if _, err := f.api.Guild(f.guildID, discordgo.WithContext(ctx)); err != nil {
		return "", fmt.Errorf("guild %s not found: %w", f.guildID, err)
	}

	channels, err := f.api.GuildChannels(f.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to list channels of guild %s: %w", f.guildID, err)
	}

	forum := findForum(channels, f.forumName)
	if forum == nil {
		slog.Info("Creating forum channel", "guild_id", f.guildID, "name", f.forumName)
		forum, err = f.api.GuildChannelCreate(f.guildID, f.forumName, discordgo.ChannelTypeGuildForum,
			discordgo.WithContext(ctx))
		if err != nil {
			return "", fmt.Errorf("failed to create forum %s: %w", f.forumName, err)
		}
	}

	f.mu.Lock()
	f.forumID = forum.ID
	f.mu.Unlock()

	slog.Info("Using forum channel", "guild_id", f.guildID, "forum_id", forum.ID, "name", f.forumName)
	return forum.ID, nil
}

func findForum(channels []*discordgo.Channel, name string) *discordgo.Channel {
	for _, ch := range channels {
		if ch != nil && ch.Type == discordgo.ChannelTypeGuildForum && ch.Name == name {
			return ch
		}
	}
	return nil
}

func (f *ForumSink) forum() (string, error) {
	id := f.ForumID()
	if id == "" {
		return "", ErrForumNotReady
	}
	return id, nil
}

// AvailableTags returns the tags defined on the forum
func (f *ForumSink) AvailableTags(ctx context.Context) ([]threads.Tag, error) {
	forumID, err := f.forum()
	if err != nil {
		return nil, err
	}

	ch, err := f.api.Channel(forumID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapError("get forum", err)
	}

	tags := make([]threads.Tag, 0, len(ch.AvailableTags))
	for _, t := range ch.AvailableTags {
		tags = append(tags, threads.Tag{ID: t.ID, Name: t.Name})
	}
	return tags, nil
}

// CreateThread starts a thread in the forum
func (f *ForumSink) CreateThread(ctx context.Context, spec threads.ThreadSpec) (*threads.Thread, error) {
	forumID, err := f.forum()
	if err != nil {
		return nil, err
	}

	ch, err := f.api.ForumThreadStartComplex(forumID, threadStart(spec), &discordgo.MessageSend{
		Content: spec.Content,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapError("create thread", err)
	}
	return toThread(ch), nil
}

func threadStart(spec threads.ThreadSpec) *discordgo.ThreadStart {
	start := &discordgo.ThreadStart{
		Name: threads.TruncatePolicy{Limit: threads.NameLimit}.Apply(spec.Name),
	}
	for _, tag := range spec.Tags {
		start.AppliedTags = append(start.AppliedTags, tag.ID)
	}
	return start
}

// SendMessage posts content to a thread, cut to the message limit
func (f *ForumSink) SendMessage(ctx context.Context, threadID, content string) error {
	content = threads.TruncatePolicy{Limit: threads.DefaultMessageLimit}.Apply(content)
	if _, err := f.api.ChannelMessageSend(threadID, content, discordgo.WithContext(ctx)); err != nil {
		return wrapError("send message", err)
	}
	return nil
}

// ArchivedThreads lists the archived public threads of the forum, newest first
func (f *ForumSink) ArchivedThreads(ctx context.Context) ([]threads.Thread, error) {
	forumID, err := f.forum()
	if err != nil {
		return nil, err
	}

	// before is exclusive, so each page restarts just after the last timestamp
	// seen and threads sharing it are dropped by id. A page made of a single
	// timestamp falls back to the exclusive bound to keep moving.
	var (
		out      []threads.Thread
		before   *time.Time
		lastSeen time.Time
		seen     = map[string]struct{}{}
	)
	for page := 0; page < maxArchivedPages; page++ {
		list, err := f.api.ThreadsArchived(forumID, before, archivedPageSize, discordgo.WithContext(ctx))
		if err != nil {
			return nil, wrapError("list archived threads", err)
		}
		for _, ch := range list.Threads {
			if _, dup := seen[ch.ID]; dup {
				continue
			}
			seen[ch.ID] = struct{}{}
			out = append(out, *toThread(ch))
		}
		if !list.HasMore || len(list.Threads) == 0 {
			return out, nil
		}

		last := list.Threads[len(list.Threads)-1]
		if last.ThreadMetadata == nil {
			return out, nil
		}
		ts := last.ThreadMetadata.ArchiveTimestamp
		next := ts.Add(time.Millisecond)
		if page > 0 && ts.Equal(lastSeen) {
			next = ts
		}
		lastSeen = ts
		before = &next
	}
	slog.Warn("Stopped listing archived threads at the page limit", "forum_id", forumID, "pages", maxArchivedPages)
	return out, nil
}

// IsManagedArchived reports whether the thread is archived and belongs to the forum
func (f *ForumSink) IsManagedArchived(ctx context.Context, threadID string) (bool, error) {
	forumID, err := f.forum()
	if err != nil {
		return false, err
	}

	ch, err := f.api.Channel(threadID, discordgo.WithContext(ctx))
	if err != nil {
		return false, wrapError("get thread", err)
	}
	return ch.ParentID == forumID && isArchived(ch), nil
}

// LockAndArchive locks a thread and archives it
func (f *ForumSink) LockAndArchive(ctx context.Context, threadID string) error {
	yes := true
	_, err := f.api.ChannelEdit(threadID, &discordgo.ChannelEdit{
		Locked:   &yes,
		Archived: &yes,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return wrapError("lock thread", err)
	}
	return nil
}

func isArchived(ch *discordgo.Channel) bool {
	return ch != nil && ch.ThreadMetadata != nil && ch.ThreadMetadata.Archived
}

func toThread(ch *discordgo.Channel) *threads.Thread {
	return &threads.Thread{
		ID:       ch.ID,
		Name:     ch.Name,
		ParentID: ch.ParentID,
		Archived: isArchived(ch),
	}
}

// wrapError maps unknown-channel responses to threads.ErrNotFound
func wrapError(op string, err error) error {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("failed to %s: %w", op, threads.ErrNotFound)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
