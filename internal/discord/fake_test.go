package discord

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

var errNotFound = &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}}

// fakeSession is an in-memory guild implementing sessionAPI
type fakeSession struct {
	mu sync.Mutex

	guildID  string
	channels map[string]*discordgo.Channel
	archived []*discordgo.Channel
	nextID   int

	messages  map[string][]string
	edits     map[string]*discordgo.ChannelEdit
	started   []*discordgo.ThreadStart
	responses []*discordgo.InteractionResponse
	followups []*discordgo.WebhookParams
	editsResp []string
	commands  []*discordgo.ApplicationCommand

	createErr error
	sendErr   error
}

func newFakeSession(guildID string, channels ...*discordgo.Channel) *fakeSession {
	f := &fakeSession{
		guildID:  guildID,
		channels: make(map[string]*discordgo.Channel),
		messages: make(map[string][]string),
		edits:    make(map[string]*discordgo.ChannelEdit),
	}
	for _, ch := range channels {
		f.channels[ch.ID] = ch
	}
	return f
}

func (f *fakeSession) Guild(guildID string, _ ...discordgo.RequestOption) (*discordgo.Guild, error) {
	if guildID != f.guildID {
		return nil, errNotFound
	}
	return &discordgo.Guild{ID: guildID}, nil
}

func (f *fakeSession) GuildChannels(guildID string, _ ...discordgo.RequestOption) ([]*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*discordgo.Channel
	for _, ch := range f.channels {
		if ch.GuildID == guildID {
			out = append(out, ch)
		}
	}
	return out, nil
}

func (f *fakeSession) GuildChannelCreate(
	guildID, name string, ctype discordgo.ChannelType, _ ...discordgo.RequestOption,
) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	ch := &discordgo.Channel{ID: "created-forum", GuildID: guildID, Name: name, Type: ctype}
	f.channels[ch.ID] = ch
	return ch, nil
}

func (f *fakeSession) Channel(channelID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.channels[channelID]
	if !ok {
		return nil, errNotFound
	}
	return ch, nil
}

func (f *fakeSession) ForumThreadStartComplex(
	channelID string, threadData *discordgo.ThreadStart, messageData *discordgo.MessageSend,
	_ ...discordgo.RequestOption,
) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	ch := &discordgo.Channel{
		ID:             "thread-" + string(rune('0'+f.nextID)),
		GuildID:        f.guildID,
		Name:           threadData.Name,
		ParentID:       channelID,
		Type:           discordgo.ChannelTypeGuildPublicThread,
		ThreadMetadata: &discordgo.ThreadMetadata{},
	}
	f.channels[ch.ID] = ch
	f.started = append(f.started, threadData)
	f.messages[ch.ID] = append(f.messages[ch.ID], messageData.Content)
	return ch, nil
}

func (f *fakeSession) ChannelMessageSend(
	channelID, content string, _ ...discordgo.RequestOption,
) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	if _, ok := f.channels[channelID]; !ok {
		return nil, errNotFound
	}
	f.messages[channelID] = append(f.messages[channelID], content)
	return &discordgo.Message{ChannelID: channelID, Content: content}, nil
}

func (f *fakeSession) ChannelEdit(
	channelID string, data *discordgo.ChannelEdit, _ ...discordgo.RequestOption,
) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.channels[channelID]
	if !ok {
		return nil, errNotFound
	}
	f.edits[channelID] = data
	if ch.ThreadMetadata == nil {
		ch.ThreadMetadata = &discordgo.ThreadMetadata{}
	}
	if data.Archived != nil {
		ch.ThreadMetadata.Archived = *data.Archived
	}
	if data.Locked != nil {
		ch.ThreadMetadata.Locked = *data.Locked
	}
	return ch, nil
}

// ThreadsArchived pages f.archived two at a time
func (f *fakeSession) ThreadsArchived(
	channelID string, before *time.Time, _ int, _ ...discordgo.RequestOption,
) (*discordgo.ThreadsList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matching []*discordgo.Channel
	for _, ch := range f.archived {
		if ch.ParentID != channelID {
			continue
		}
		if before != nil && !ch.ThreadMetadata.ArchiveTimestamp.Before(*before) {
			continue
		}
		matching = append(matching, ch)
	}
	const pageSize = 2
	if len(matching) > pageSize {
		return &discordgo.ThreadsList{Threads: matching[:pageSize], HasMore: true}, nil
	}
	return &discordgo.ThreadsList{Threads: matching}, nil
}

func (f *fakeSession) InteractionRespond(
	_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeSession) FollowupMessageCreate(
	_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption,
) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followups = append(f.followups, data)
	return &discordgo.Message{Content: data.Content}, nil
}

func (f *fakeSession) InteractionResponseEdit(
	_ *discordgo.Interaction, newresp *discordgo.WebhookEdit, _ ...discordgo.RequestOption,
) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if newresp.Content == nil {
		return nil, errors.New("empty edit")
	}
	f.editsResp = append(f.editsResp, *newresp.Content)
	return &discordgo.Message{Content: *newresp.Content}, nil
}

func (f *fakeSession) ApplicationCommandBulkOverwrite(
	_, _ string, commands []*discordgo.ApplicationCommand, _ ...discordgo.RequestOption,
) ([]*discordgo.ApplicationCommand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = commands
	return commands, nil
}

func (f *fakeSession) snapshotFollowups() []*discordgo.WebhookParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*discordgo.WebhookParams(nil), f.followups...)
}

func (f *fakeSession) snapshotResponses() []*discordgo.InteractionResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*discordgo.InteractionResponse(nil), f.responses...)
}
