package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/threadsync/threadsync/internal/create"
)

const (
	commandName         = "issues"
	subcommandCreate    = "create"
	subcommandClose     = "close"
	createModalID       = "issues_create_modal"
	titleInputID        = "title"
	bodyInputID         = "body"
	typeSelectPrefix    = "issues_type:"
	titleMaxLength      = 256
	timedOutMessage     = "Issue Creation Timed Out."
	shuttingDownMessage = "The bot is shutting down, try again shortly."
	notTrackedMessage   = "This thread is not tracking an issue."
)

// commands returns the application commands registered in the guild
func commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        commandName,
			Description: "Manage Github issues",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subcommandCreate,
					Description: "Create a new issue",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subcommandClose,
					Description: "Close the issue of this thread",
				},
			},
		},
	}
}

func createModal() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: createModalID,
			Title:    "Create an Issue",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:  titleInputID,
						Label:     "Title",
						Style:     discordgo.TextInputShort,
						Required:  true,
						MaxLength: titleMaxLength,
					},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID: bodyInputID,
						Label:    "Body",
						Style:    discordgo.TextInputParagraph,
					},
				}},
			},
		},
	}
}

// modalValues returns the text input values of a modal submission by custom id
func modalValues(data discordgo.ModalSubmitInteractionData) map[string]string {
	values := make(map[string]string)
	for _, row := range data.Components {
		actions, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, c := range actions.Components {
			if input, ok := c.(*discordgo.TextInput); ok {
				values[input.CustomID] = input.Value
			}
		}
	}
	return values
}

func typeSelectResponse(flowID string) *discordgo.InteractionResponse {
	minValues := 1
	options := make([]discordgo.SelectMenuOption, 0, len(create.IssueTypes))
	for _, t := range create.IssueTypes {
		options = append(options, discordgo.SelectMenuOption{
			Label:       string(t),
			Value:       string(t),
			Description: t.Description(),
		})
	}

	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "## Label the Issue",
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						MenuType:    discordgo.StringSelectMenu,
						CustomID:    typeSelectPrefix + flowID,
						Placeholder: "Issue Type",
						MinValues:   &minValues,
						MaxValues:   1,
						Options:     options,
					},
				}},
			},
		},
	}
}

// flowIDFromCustomID extracts the create flow id of an issue type selection
func flowIDFromCustomID(customID string) (string, bool) {
	id, ok := strings.CutPrefix(customID, typeSelectPrefix)
	return id, ok && id != ""
}

func ephemeral(content string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}
}

// interactionUser returns the name of the user behind an interaction
func interactionUser(i *discordgo.Interaction) string {
	switch {
	case i.Member != nil && i.Member.User != nil:
		return i.Member.User.Username
	case i.User != nil:
		return i.User.Username
	default:
		return ""
	}
}
