package discord

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/threadsync/threadsync/internal/create"
	"github.com/threadsync/threadsync/internal/issues"
	issuesmocks "github.com/threadsync/threadsync/internal/issues/mocks"
	pkgsync "github.com/threadsync/threadsync/internal/sync"
	"github.com/threadsync/threadsync/internal/tracking"
)

var testRepo = pkgsync.Repository{Owner: "acme", Name: "widgets"}

type botFixture struct {
	api    *fakeSession
	source *issuesmocks.MockSource
	store  tracking.Store
	clock  *clocktesting.FakeClock
	bot    *Bot
}

func newBotFixture(t *testing.T, channels ...*discordgo.Channel) *botFixture {
	t.Helper()

	api := newFakeSession(testGuild, append([]*discordgo.Channel{forumChannel()}, channels...)...)
	sink := readySink(t, api)
	source := issuesmocks.NewMockSource(gomock.NewController(t))
	store := tracking.NewMemoryStore()
	locker := tracking.NewLocker()
	fakeClock := clocktesting.NewFakeClock(time.Now())

	bot := newBot(nil, api, sink,
		pkgsync.NewLifecycleHandler(source, sink, store, locker, testRepo),
		create.NewCreator(source, sink, store, locker, testRepo),
		create.NewFlow(create.WithClock(fakeClock)),
	)
	t.Cleanup(func() { _ = bot.Stop() })

	return &botFixture{api: api, source: source, store: store, clock: fakeClock, bot: bot}
}

func commandInteraction(sub, channelID string) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:        "cmd",
		Type:      discordgo.InteractionApplicationCommand,
		ChannelID: channelID,
		Data: discordgo.ApplicationCommandInteractionData{
			Name: "issues",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: sub, Type: discordgo.ApplicationCommandOptionSubCommand},
			},
		},
	}
}

func modalInteraction(title, body string) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:     "modal",
		Type:   discordgo.InteractionModalSubmit,
		Member: &discordgo.Member{User: &discordgo.User{Username: "alice"}},
		Data: discordgo.ModalSubmitInteractionData{
			CustomID: createModalID,
			Components: []discordgo.MessageComponent{
				&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					&discordgo.TextInput{CustomID: titleInputID, Value: title},
				}},
				&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					&discordgo.TextInput{CustomID: bodyInputID, Value: body},
				}},
			},
		},
	}
}

func selectInteraction(customID, value string) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:   "select",
		Type: discordgo.InteractionMessageComponent,
		Data: discordgo.MessageComponentInteractionData{
			CustomID: customID,
			Values:   []string{value},
		},
	}
}

// selectMenuID returns the custom id of the select menu sent in resp
func selectMenuID(t *testing.T, resp *discordgo.InteractionResponse) string {
	t.Helper()
	require.NotEmpty(t, resp.Data.Components)
	row, ok := resp.Data.Components[0].(discordgo.ActionsRow)
	require.True(t, ok)
	menu, ok := row.Components[0].(discordgo.SelectMenu)
	require.True(t, ok)
	return menu.CustomID
}

func waitFollowup(t *testing.T, api *fakeSession) *discordgo.WebhookParams {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(api.snapshotFollowups()) > 0
	}, 5*time.Second, time.Millisecond)
	return api.snapshotFollowups()[0]
}

func TestBot_CreateFlow(t *testing.T) {
	t.Parallel()

	f := newBotFixture(t)
	f.source.EXPECT().CreateIssue(gomock.Any(), "acme", "widgets", issues.NewIssue{
		Title:  "Crash on start",
		Body:   "It crashes\n\nCreated By: `alice`",
		Labels: []string{"bug"},
	}).Return(&issues.Issue{Number: 42, HTMLURL: "https://github.com/acme/widgets/issues/42"}, nil)

	f.bot.handleInteraction(commandInteraction("create", "general"))
	f.bot.handleInteraction(modalInteraction("Crash on start", "It crashes"))

	responses := f.api.snapshotResponses()
	require.Len(t, responses, 2)
	assert.Equal(t, discordgo.InteractionResponseModal, responses[0].Type)
	customID := selectMenuID(t, responses[1])

	f.bot.handleInteraction(selectInteraction(customID, "Bug"))

	followup := waitFollowup(t, f.api)
	assert.Equal(t, "[Created Thread](https://discord.com/channels/guild-1/thread-1)", followup.Content)

	responses = f.api.snapshotResponses()
	require.Len(t, responses, 3)
	assert.Equal(t, discordgo.InteractionResponseUpdateMessage, responses[2].Type)
	assert.Equal(t, "Done!", responses[2].Data.Content)

	threadID, err := f.store.LookupThread(context.Background(),
		tracking.IssueKey{Owner: "acme", Repo: "widgets", Number: 42})
	require.NoError(t, err)
	assert.Equal(t, "thread-1", threadID)
	assert.Equal(t, []string{"tag-bug"}, f.api.started[0].AppliedTags)
}

func TestBot_CreateFlowTimesOut(t *testing.T) {
	t.Parallel()

	f := newBotFixture(t)

	f.bot.handleInteraction(modalInteraction("Crash on start", "It crashes"))
	customID := selectMenuID(t, f.api.snapshotResponses()[0])

	require.Eventually(t, f.clock.HasWaiters, 5*time.Second, time.Millisecond)
	f.clock.Step(create.DefaultSelectionTimeout)

	followup := waitFollowup(t, f.api)
	assert.Equal(t, "Issue Creation Timed Out.", followup.Content)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, followup.Flags)

	// a late selection is refused and nothing is created
	f.bot.handleInteraction(selectInteraction(customID, "Bug"))
	responses := f.api.snapshotResponses()
	assert.Equal(t, "This issue creation has expired.", responses[len(responses)-1].Data.Content)
	assert.Empty(t, f.api.started)
}

func TestBot_CreateRequiresTitle(t *testing.T) {
	t.Parallel()

	f := newBotFixture(t)
	f.bot.handleInteraction(modalInteraction("   ", "body"))

	responses := f.api.snapshotResponses()
	require.Len(t, responses, 1)
	assert.Equal(t, "An issue needs a title.", responses[0].Data.Content)
}

func TestBot_CreateRefusedAfterStop(t *testing.T) {
	t.Parallel()

	f := newBotFixture(t)
	require.NoError(t, f.bot.Stop())

	f.bot.handleInteraction(modalInteraction("Crash on start", "It crashes"))

	responses := f.api.snapshotResponses()
	require.Len(t, responses, 1)
	assert.Equal(t, shuttingDownMessage, responses[0].Data.Content)
	assert.Empty(t, f.api.snapshotFollowups())
	assert.Empty(t, f.api.started)
}

func TestBot_CloseCommand(t *testing.T) {
	t.Parallel()

	thread := &discordgo.Channel{ID: "t5", ParentID: testForumID, ThreadMetadata: &discordgo.ThreadMetadata{}}
	f := newBotFixture(t, thread)
	require.NoError(t, f.store.Track(context.Background(), tracking.TrackedIssue{
		Owner: "acme", Repo: "widgets", IssueNumber: 5, ThreadID: "t5",
	}))

	f.source.EXPECT().PostComment(gomock.Any(), "acme", "widgets", 5, gomock.Any()).Return(nil)
	f.source.EXPECT().CloseIssue(gomock.Any(), "acme", "widgets", 5).Return(nil)

	f.bot.handleInteraction(commandInteraction("close", "t5"))

	assert.Equal(t, []string{"Issue closed."}, f.api.editsResp)
	assert.Equal(t, []string{pkgsync.ClosedConfirmation(5)}, f.api.messages["t5"])
	assert.True(t, thread.ThreadMetadata.Locked)
	assert.True(t, thread.ThreadMetadata.Archived)

	_, err := f.store.LookupByThread(context.Background(), "t5")
	assert.ErrorIs(t, err, tracking.ErrNotFound)
}

func TestBot_CloseCommandOutsideTrackedThread(t *testing.T) {
	t.Parallel()

	f := newBotFixture(t)
	f.bot.handleInteraction(commandInteraction("close", "general"))
	assert.Equal(t, []string{notTrackedMessage}, f.api.editsResp)
}

func TestBot_ThreadArchived(t *testing.T) {
	t.Parallel()

	archived := &discordgo.Channel{
		ID:             "t5",
		ParentID:       testForumID,
		ThreadMetadata: &discordgo.ThreadMetadata{Archived: true},
	}
	f := newBotFixture(t, archived)
	require.NoError(t, f.store.Track(context.Background(), tracking.TrackedIssue{
		Owner: "acme", Repo: "widgets", IssueNumber: 5, ThreadID: "t5",
	}))

	f.source.EXPECT().PostComment(gomock.Any(), "acme", "widgets", 5, gomock.Any()).Return(nil)
	f.source.EXPECT().CloseIssue(gomock.Any(), "acme", "widgets", 5).Return(nil)

	f.bot.onThreadUpdate(nil, &discordgo.ThreadUpdate{
		Channel:      archived,
		BeforeUpdate: &discordgo.Channel{ID: "t5", ParentID: testForumID, ThreadMetadata: &discordgo.ThreadMetadata{}},
	})

	_, err := f.store.LookupByThread(context.Background(), "t5")
	assert.ErrorIs(t, err, tracking.ErrNotFound)
	assert.True(t, archived.ThreadMetadata.Locked)
}

func TestBot_RegisterCommands(t *testing.T) {
	t.Parallel()

	f := newBotFixture(t)
	require.NoError(t, f.bot.registerCommands("app-1"))
	require.Len(t, f.api.commands, 1)
	assert.Equal(t, "issues", f.api.commands[0].Name)
}
