package community

import (
	"errors"
	"fmt"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/PancyStudios/ChiiBot/pkg/giveaway"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/models"
	"github.com/bwmarrin/discordgo"
)

func (m *module) gstartCommand() *discord.Command {
	return discord.NewCommand(
		"gstart",
		"Lance un giveaway",
		category,
		m.gstartHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "temps",
			Description: "Durée (30s, 5m, 2h, 1d)",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "gagnants",
			Description: "Nombre de gagnants",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "prix",
			Description: "Ce qui est à gagner",
			Required:    true,
		},
	).AdminOnly().WithBotPermissions(discordgo.PermissionAddReactions)
}

func (m *module) gstartHandler(ctx *discord.CommandContext) error {
	duration, err := giveaway.ParseDuration(ctx.GetStringOption("temps"))
	if err != nil {
		return ctx.Reply(err.Error())
	}
	winners := int(ctx.GetIntOption("gagnants"))
	if winners < 1 {
		return ctx.Reply(giveaway.ErrInvalidWinners.Error())
	}
	prize := ctx.GetStringOption("prix")
	endsAt := time.Now().Add(duration)

	host := ctx.User()
	msg, err := ctx.Session.ChannelMessageSendEmbed(ctx.ChannelID(), giveaway.StartEmbed(prize, winners, endsAt, host.Username))
	if err != nil {
		return err
	}
	if err := ctx.Session.MessageReactionAdd(ctx.ChannelID(), msg.ID, giveaway.Emoji); err != nil {
		logger.Warn("Réaction du giveaway impossible: "+err.Error(), "Giveaway")
	}

	err = m.svc.Giveaways.Start(ctx.Context(), models.Giveaway{
		GuildID:   ctx.GuildID(),
		ChannelID: ctx.ChannelID(),
		MessageID: msg.ID,
		HostID:    host.ID,
		Prize:     prize,
		Winners:   winners,
		EndsAt:    endsAt,
	})
	if err != nil {
		return err
	}

	logger.Info(fmt.Sprintf("Giveaway '%s' lancé par %s pour %s", prize, host.Username, duration), "Giveaway")
	if ctx.IsInteraction() {
		return ctx.ReplyEphemeral("✅ Giveaway lancé !")
	}
	return nil
}

func (m *module) grerollCommand() *discord.Command {
	return discord.NewCommand(
		"greroll",
		"Tire un nouveau gagnant d'un giveaway",
		category,
		m.grerollHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "message",
			Description: "ID du message du giveaway",
			Required:    true,
		},
	).AdminOnly()
}

func (m *module) grerollHandler(ctx *discord.CommandContext) error {
	messageID := discord.MentionID(ctx.GetStringOption("message"))
	channelID := ctx.ChannelID()
	if g, ok := m.svc.Giveaways.Get(messageID); ok {
		channelID = g.ChannelID
	}

	winner, err := m.svc.Giveaways.Reroll(channelID, messageID)
	if err != nil {
		if messageID == "" || discord.ClassifyError(err) == discord.ErrorNotFound {
			return ctx.Reply("⚠️ Message non trouvé!")
		}
		return err
	}
	if winner == "" {
		return ctx.Reply("😢 Pas de participants trouvés!")
	}
	return ctx.Reply(fmt.Sprintf("🎉 Nouveau gagnant: <@%s>!", winner))
}

func (m *module) gendCommand() *discord.Command {
	return discord.NewCommand(
		"gend",
		"Termine un giveaway immédiatement",
		category,
		m.gendHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "message",
			Description: "ID du message du giveaway",
			Required:    true,
		},
	).AdminOnly()
}

func (m *module) gendHandler(ctx *discord.CommandContext) error {
	id := discord.MentionID(ctx.GetStringOption("message"))
	winners, err := m.svc.Giveaways.End(ctx.Context(), id)
	if errors.Is(err, giveaway.ErrNotFound) {
		return ctx.Reply("⚠️ Aucun giveaway en cours pour ce message!")
	}
	if err != nil && winners == nil {
		return err
	}
	if err != nil {
		logger.Error(err.Error(), "Giveaway")
	}
	if ctx.IsInteraction() {
		return ctx.ReplyEphemeral("✅ Giveaway terminé.")
	}
	return nil
}
