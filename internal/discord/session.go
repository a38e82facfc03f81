package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// sessionAPI is the subset of the discordgo REST client threadsync uses.
// *discordgo.Session implements it.
type sessionAPI interface {
	Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error)
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
	GuildChannelCreate(
		guildID, name string, ctype discordgo.ChannelType, options ...discordgo.RequestOption,
	) (*discordgo.Channel, error)
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ForumThreadStartComplex(
		channelID string, threadData *discordgo.ThreadStart, messageData *discordgo.MessageSend,
		options ...discordgo.RequestOption,
	) (*discordgo.Channel, error)
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelEdit(channelID string, data *discordgo.ChannelEdit, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ThreadsArchived(
		channelID string, before *time.Time, limit int, options ...discordgo.RequestOption,
	) (*discordgo.ThreadsList, error)

	InteractionRespond(
		interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption,
	) error
	FollowupMessageCreate(
		interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption,
	) (*discordgo.Message, error)
	InteractionResponseEdit(
		interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption,
	) (*discordgo.Message, error)
	ApplicationCommandBulkOverwrite(
		appID, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption,
	) ([]*discordgo.ApplicationCommand, error)
}

var _ sessionAPI = (*discordgo.Session)(nil)

// NewSession creates a bot session for token. The gateway is not opened.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	s.Identify.Intents = discordgo.IntentsGuilds
	return s, nil
}

// JumpURL returns the link to a channel or thread of guild
func JumpURL(guildID, channelID string) string {
	return "https://discord.com/channels/" + guildID + "/" + channelID
}
