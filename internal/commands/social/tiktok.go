// Package social provides the TikTok notification commands.
package social

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/ChiiBot/internal/services"
	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/tiktok"
	"github.com/bwmarrin/discordgo"
)

const (
	category  = "social"
	colorPink = 0xE91E63
	footer    = "✧ Ninis • Made with 💖"
	noAccount = "❌ Aucun compte TikTok n'est enregistré pour les notifications."
)

type module struct {
	svc *services.Services
}

// RegisterSocialCommands registers the TikTok admin commands
func RegisterSocialCommands(client *discord.ExtendedClient, svc *services.Services) {
	m := &module{svc: svc}
	client.CommandHandler.RegisterCommands(
		discord.NewCommand("settiktok", "Associe un membre à un compte TikTok", category, m.setHandler).
			WithOptions(
				memberOption(),
				&discordgo.ApplicationCommandOption{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "username",
					Description: "Nom d'utilisateur TikTok",
					Required:    true,
				},
			).WithAliases("set_tiktok").AdminOnly(),
		discord.NewCommand("removetiktok", "Retire l'association TikTok d'un membre", category, m.removeHandler).
			WithOptions(memberOption()).WithAliases("remove_tiktok").AdminOnly(),
		discord.NewCommand("listtiktok", "Liste les comptes TikTok suivis", category, m.listHandler).
			WithAliases("list_tiktok").AdminOnly(),
		discord.NewCommand("checktiktok", "Vérifie les comptes TikTok maintenant", category, m.checkHandler).
			WithAliases("check_tiktok_now").AdminOnly(),
		discord.NewCommand("tiktokinterval", "Change l'intervalle de vérification TikTok", category, m.intervalHandler).
			WithOptions(&discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "minutes",
				Description: "Intervalle en minutes (1 minimum)",
				Required:    true,
			}).WithAliases("set_tiktok_interval").AdminOnly(),
		discord.NewCommand("createtiktokchannel", "Crée le salon et le rôle de notifications TikTok", category, m.createChannelHandler).
			WithAliases("create_tiktok_channel").AdminOnly().
			WithBotPermissions(discordgo.PermissionManageChannels|discordgo.PermissionManageRoles),
	)
}

func memberOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "membre",
		Description: "Membre Discord concerné",
		Required:    true,
	}
}

// NormalizeUsername strips the @ and any profile URL around a TikTok handle.
func NormalizeUsername(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "tiktok.com/"); i >= 0 {
		s = s[i+len("tiktok.com/"):]
		if j := strings.IndexAny(s, "/?"); j >= 0 {
			s = s[:j]
		}
	}
	return strings.TrimPrefix(s, "@")
}

func (m *module) setHandler(ctx *discord.CommandContext) error {
	member := ctx.GetUserOption("membre")
	username := NormalizeUsername(ctx.GetStringOption("username"))
	if member == nil || username == "" {
		return ctx.Reply("❌ Utilisation: `" + ctx.Client.Prefix + "settiktok @membre nom_utilisateur`")
	}

	if err := m.svc.TikTok.SetAccount(ctx.Context(), member.ID, username); err != nil {
		return err
	}
	if err := ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Title: "✅ Compte TikTok associé",
		Description: fmt.Sprintf("Les notifications pour les vidéos et lives de **@%s** seront maintenant envoyées pour %s.",
			username, member.Mention()),
		Color:  colorPink,
		Footer: &discordgo.MessageEmbedFooter{Text: footer},
	}); err != nil {
		return err
	}

	// first check records the baseline
	if _, err := m.svc.TikTok.CheckAccount(ctx.Context(), member.ID, username); err != nil && !errors.Is(err, tiktok.ErrFetcherDisabled) {
		logger.Warn(fmt.Sprintf("Première vérification de @%s échouée: %v", username, err), "TikTok")
	}
	return nil
}

func (m *module) removeHandler(ctx *discord.CommandContext) error {
	member := ctx.GetUserOption("membre")
	if member == nil {
		return ctx.ReplyEphemeral("❌ Membre introuvable.")
	}
	username, ok, err := m.svc.TikTok.RemoveAccount(ctx.Context(), member.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ctx.Reply(fmt.Sprintf("❌ %s n'est pas associé à un compte TikTok.", member.Mention()))
	}
	return ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Title:       "✅ Association supprimée",
		Description: fmt.Sprintf("Les notifications TikTok pour %s (@%s) ont été désactivées.", member.Mention(), username),
		Color:       0xE74C3C,
		Footer:      &discordgo.MessageEmbedFooter{Text: footer},
	})
}

func (m *module) listHandler(ctx *discord.CommandContext) error {
	accounts := m.svc.TikTok.Accounts()
	if len(accounts) == 0 {
		return ctx.Reply(noAccount)
	}
	guildID := ctx.GuildID()
	return ctx.ReplyEmbed(AccountsEmbed(accounts, func(id string) (string, bool) {
		return discord.MemberName(ctx.Session, guildID, id)
	}, m.svc.TikTok.Interval()))
}

// AccountsEmbed lists the linked accounts of members present in the guild.
func AccountsEmbed(accounts []tiktok.Account, name func(string) (string, bool), interval time.Duration) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "📱 Comptes TikTok enregistrés",
		Description: "Liste des membres avec notifications TikTok activées:",
		Color:       colorPink,
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%s • vérification toutes les %d min", footer, int(interval.Minutes()))},
	}
	for _, acc := range accounts {
		display, ok := name(acc.UserID)
		if !ok {
			continue
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  display,
			Value: "TikTok: @" + acc.Username,
		})
	}
	return embed
}

func (m *module) checkHandler(ctx *discord.CommandContext) error {
	if len(m.svc.TikTok.Accounts()) == 0 {
		return ctx.Reply(noAccount)
	}
	if err := ctx.Reply("⏳ Vérification des comptes TikTok en cours..."); err != nil {
		return err
	}
	round := m.svc.TikTok.CheckAll(ctx.Context())
	msg := "✅ Vérification terminée."
	if round.Failed > 0 {
		msg = fmt.Sprintf("⚠️ Vérification terminée: %d/%d comptes en erreur.", round.Failed, round.Checked)
	}
	return ctx.EditReply(msg)
}

func (m *module) intervalHandler(ctx *discord.CommandContext) error {
	minutes := ctx.GetIntOption("minutes")
	err := m.svc.TikTok.SetInterval(ctx.Context(), time.Duration(minutes)*time.Minute)
	if errors.Is(err, tiktok.ErrIntervalTooShort) {
		return ctx.Reply("❌ L'intervalle doit être d'au moins 1 minute.")
	}
	if err != nil {
		logger.Error(err.Error(), "TikTok")
	}
	return ctx.Reply(fmt.Sprintf("✅ L'intervalle de vérification TikTok est maintenant de %d minutes.", minutes))
}
