package events

import (
	"github.com/bwmarrin/discordgo"
)

func (h *handlers) onInviteCreate(s *discordgo.Session, i *discordgo.InviteCreate) {
	h.svc.Invites.Created(i.GuildID, i.Code, i.Uses)
}

func (h *handlers) onInviteDelete(s *discordgo.Session, i *discordgo.InviteDelete) {
	h.svc.Invites.Deleted(i.GuildID, i.Code)
}
