package discord

import "github.com/bwmarrin/discordgo"

// archivedTransition reports whether update moved a thread of forumID into the
// archived state. Updates of threads that were already archived are ignored.
func archivedTransition(update *discordgo.ThreadUpdate, forumID string) bool {
	if update == nil || update.Channel == nil || forumID == "" {
		return false
	}
	if update.ParentID != forumID || !isArchived(update.Channel) {
		return false
	}
	return !isArchived(update.BeforeUpdate)
}
