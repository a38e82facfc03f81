package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/threadsync/threadsync/internal/create"
	pkgsync "github.com/threadsync/threadsync/internal/sync"
)

// Bot serves the gateway events of the guild
type Bot struct {
	session   *discordgo.Session
	api       sessionAPI
	sink      *ForumSink
	lifecycle *pkgsync.LifecycleHandler
	creator   *create.Creator
	flow      *create.Flow

	ctx            context.Context
	cancel         context.CancelFunc
	removeHandlers []func()

	// mu guards stopping so no create flow is added to wg once Stop waits on it
	mu       sync.Mutex
	stopping bool
	wg       sync.WaitGroup
}

// NewBot creates a Bot. session carries both the gateway and the REST client.
func NewBot(
	session *discordgo.Session,
	sink *ForumSink,
	lifecycle *pkgsync.LifecycleHandler,
	creator *create.Creator,
	flow *create.Flow,
) *Bot {
	return newBot(session, session, sink, lifecycle, creator, flow)
}

func newBot(
	session *discordgo.Session,
	api sessionAPI,
	sink *ForumSink,
	lifecycle *pkgsync.LifecycleHandler,
	creator *create.Creator,
	flow *create.Flow,
) *Bot {
	ctx, cancel := context.WithCancel(context.Background())
	return &Bot{
		session:   session,
		api:       api,
		sink:      sink,
		lifecycle: lifecycle,
		creator:   creator,
		flow:      flow,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start opens the gateway and resolves the forum. It fails when the guild does
// not exist or the forum can neither be found nor created.
func (b *Bot) Start(ctx context.Context) error {
	b.removeHandlers = append(b.removeHandlers,
		b.session.AddHandler(b.onReady),
		b.session.AddHandler(b.onThreadUpdate),
		b.session.AddHandler(b.onInteraction),
	)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord gateway: %w", err)
	}

	if _, err := b.sink.EnsureForum(ctx); err != nil {
		_ = b.session.Close()
		return err
	}

	slog.Info("Discord bot started", "guild_id", b.sink.GuildID(), "forum_id", b.sink.ForumID())
	return nil
}

// Stop closes the gateway and waits for pending create flows to return
func (b *Bot) Stop() error {
	b.mu.Lock()
	b.stopping = true
	b.mu.Unlock()

	b.cancel()
	for _, remove := range b.removeHandlers {
		remove()
	}
	b.wg.Wait()

	if b.session == nil {
		return nil
	}
	if err := b.session.Close(); err != nil {
		return fmt.Errorf("failed to close discord gateway: %w", err)
	}
	return nil
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	slog.Info("Discord gateway ready", "user", r.User.Username)
	if err := b.registerCommands(r.User.ID); err != nil {
		slog.Error("Failed to register slash commands", "error", err)
	}
}

func (b *Bot) registerCommands(appID string) error {
	_, err := b.api.ApplicationCommandBulkOverwrite(appID, b.sink.GuildID(), commands(),
		discordgo.WithContext(b.ctx))
	return err
}

func (b *Bot) onThreadUpdate(_ *discordgo.Session, update *discordgo.ThreadUpdate) {
	if !archivedTransition(update, b.sink.ForumID()) {
		return
	}
	if _, err := b.lifecycle.HandleArchived(b.ctx, update.ID); err != nil {
		slog.Error("Failed to handle archived thread", "thread_id", update.ID, "error", err)
	}
}

func (b *Bot) onInteraction(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	b.handleInteraction(i.Interaction)
}

func (b *Bot) handleInteraction(i *discordgo.Interaction) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(i)
	case discordgo.InteractionModalSubmit:
		b.handleModal(i)
	case discordgo.InteractionMessageComponent:
		b.handleComponent(i)
	}
}

func (b *Bot) respond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) {
	if err := b.api.InteractionRespond(i, resp, discordgo.WithContext(b.ctx)); err != nil {
		slog.Error("Failed to respond to interaction", "interaction_id", i.ID, "error", err)
	}
}

func (b *Bot) followup(i *discordgo.Interaction, content string, flags discordgo.MessageFlags) {
	_, err := b.api.FollowupMessageCreate(i, false, &discordgo.WebhookParams{
		Content: content,
		Flags:   flags,
	}, discordgo.WithContext(b.ctx))
	if err != nil {
		slog.Error("Failed to send followup message", "interaction_id", i.ID, "error", err)
	}
}

func (b *Bot) handleCommand(i *discordgo.Interaction) {
	data := i.ApplicationCommandData()
	if data.Name != commandName || len(data.Options) == 0 {
		return
	}

	switch data.Options[0].Name {
	case subcommandCreate:
		b.respond(i, createModal())
	case subcommandClose:
		b.handleClose(i)
	}
}

func (b *Bot) handleClose(i *discordgo.Interaction) {
	b.respond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})

	closed, err := b.lifecycle.Close(b.ctx, i.ChannelID)
	var content string
	switch {
	case err != nil:
		slog.Error("Failed to close issue from command", "thread_id", i.ChannelID, "error", err)
		content = "Failed to close the issue."
	case !closed:
		content = notTrackedMessage
	default:
		content = "Issue closed."
	}

	if _, err := b.api.InteractionResponseEdit(i, &discordgo.WebhookEdit{Content: &content},
		discordgo.WithContext(b.ctx)); err != nil {
		slog.Error("Failed to edit interaction response", "interaction_id", i.ID, "error", err)
	}
}

func (b *Bot) handleModal(i *discordgo.Interaction) {
	data := i.ModalSubmitData()
	if data.CustomID != createModalID {
		return
	}

	values := modalValues(data)
	draft := create.Draft{
		Title: strings.TrimSpace(values[titleInputID]),
		Body:  values[bodyInputID],
		User:  interactionUser(i),
	}
	if draft.Title == "" {
		b.respond(i, ephemeral("An issue needs a title."))
		return
	}

	b.mu.Lock()
	if b.stopping {
		b.mu.Unlock()
		b.respond(i, ephemeral(shuttingDownMessage))
		return
	}
	b.wg.Add(1)
	b.mu.Unlock()

	id := b.flow.Begin(draft)
	go b.awaitSelection(i, id)

	b.respond(i, typeSelectResponse(id))
}

// awaitSelection waits for the issue type of flow id and files the issue
func (b *Bot) awaitSelection(i *discordgo.Interaction, id string) {
	defer b.wg.Done()

	draft, issueType, err := b.flow.Await(b.ctx, id)
	switch {
	case errors.Is(err, create.ErrSelectionTimeout):
		slog.Info("Issue creation timed out", "user", draft.User)
		b.followup(i, timedOutMessage, discordgo.MessageFlagsEphemeral)
		return
	case err != nil:
		return
	}

	result, err := b.creator.Create(b.ctx, draft, issueType)
	switch {
	case errors.Is(err, create.ErrThreadNotCreated):
		slog.Error("Issue created without a thread", "error", err)
		b.followup(i, fmt.Sprintf("Created [issue #%d](%s), but its thread could not be opened yet.",
			result.Issue.Number, result.Issue.HTMLURL), discordgo.MessageFlagsEphemeral)
	case err != nil:
		slog.Error("Failed to create issue from chat", "user", draft.User, "error", err)
		b.followup(i, "Failed to create the issue.", discordgo.MessageFlagsEphemeral)
	default:
		b.followup(i, fmt.Sprintf("[Created Thread](%s)", JumpURL(b.sink.GuildID(), result.Thread.ID)), 0)
	}
}

func (b *Bot) handleComponent(i *discordgo.Interaction) {
	data := i.MessageComponentData()
	id, ok := flowIDFromCustomID(data.CustomID)
	if !ok || len(data.Values) == 0 {
		return
	}

	issueType, err := create.ParseIssueType(data.Values[0])
	if err != nil {
		b.respond(i, ephemeral("Unknown issue type."))
		return
	}

	if err := b.flow.Select(id, issueType); err != nil {
		b.respond(i, ephemeral("This issue creation has expired."))
		return
	}

	b.respond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    "Done!",
			Components: []discordgo.MessageComponent{},
		},
	})
}
