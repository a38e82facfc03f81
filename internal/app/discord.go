package app

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/threadsync/threadsync/internal/config"
	"github.com/threadsync/threadsync/internal/discord"
)

// discordSession pairs the gateway session with the forum it writes to
type discordSession struct {
	session *discordgo.Session
	sink    *discord.ForumSink
}

func newDiscordSession(cfg config.DiscordConfig) (*discordSession, error) {
	session, err := discord.NewSession(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	return &discordSession{
		session: session,
		sink:    discord.NewForumSink(session, cfg.GuildID, cfg.ForumName),
	}, nil
}
