package social

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/tiktok"
	"github.com/bwmarrin/discordgo"
)

func (m *module) createChannelHandler(ctx *discord.CommandContext) error {
	guildID := ctx.GuildID()
	guild := ctx.Guild()
	if guild == nil {
		return ctx.Reply("❌ Serveur introuvable.")
	}

	out := &responder{ctx: ctx}
	role := discord.FindRole(ctx.Session, guildID, tiktok.RoleName)
	if role == nil {
		color, mentionable := 0xFF69B4, true
		created, err := ctx.Session.GuildRoleCreate(guildID, &discordgo.RoleParams{
			Name:        tiktok.RoleName,
			Color:       &color,
			Mentionable: &mentionable,
		})
		if err != nil {
			logger.Error(fmt.Sprintf("Erreur lors de la création du rôle '%s': %v", tiktok.RoleName, err), "TikTok")
			return out.text(fmt.Sprintf("❌ Erreur lors de la création du rôle: %v", err))
		}
		role = created
		if err := out.embed(&discordgo.MessageEmbed{
			Title:       "✅ Rôle de notifications TikTok créé",
			Description: fmt.Sprintf("Le rôle %s a été créé. Les membres peuvent s'assigner ce rôle pour recevoir les notifications TikTok.", role.Mention()),
			Color:       0x2ECC71,
		}); err != nil {
			return err
		}
	}

	if existing := discord.FindChannel(ctx.Session, guildID, tiktok.ChannelName); existing != nil {
		return out.text(fmt.Sprintf("⚠️ Le salon %s existe déjà.", existing.Mention()))
	}

	parentID, err := notificationCategory(ctx.Session, guild)
	if err != nil {
		return out.text(fmt.Sprintf("❌ Erreur lors de la création du salon: %v", err))
	}

	channel, err := ctx.Session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:     tiktok.ChannelName,
		Type:     discordgo.ChannelTypeGuildText,
		Topic:    "Notifications automatiques pour les lives et vidéos TikTok",
		ParentID: parentID,
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{
				ID:    guildID,
				Type:  discordgo.PermissionOverwriteTypeRole,
				Allow: discordgo.PermissionViewChannel,
				Deny:  discordgo.PermissionSendMessages,
			},
			{
				ID:   ctx.Session.State.User.ID,
				Type: discordgo.PermissionOverwriteTypeMember,
				Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionEmbedLinks |
					discordgo.PermissionAttachFiles | discordgo.PermissionManageMessages,
			},
		},
	})
	if err != nil {
		logger.Error("Erreur lors de la création du salon TikTok: "+err.Error(), "TikTok")
		return out.text(fmt.Sprintf("❌ Erreur lors de la création du salon: %v", err))
	}

	if err := out.embed(ChannelCreatedEmbed(ctx.Client.Prefix, channel.Mention(), role.Mention())); err != nil {
		return err
	}
	_, err = ctx.Session.ChannelMessageSendEmbed(channel.ID, &discordgo.MessageEmbed{
		Title: "📱 Notifications TikTok",
		Description: "Ce salon affichera automatiquement des notifications quand:\n" +
			"• Un membre enregistré commence un LIVE TikTok\n" +
			"• Un membre enregistré publie une nouvelle vidéo TikTok\n\n" +
			fmt.Sprintf("Pour recevoir des notifications, prenez le rôle %s.\n", role.Mention()) +
			"Un administrateur doit associer les comptes Discord aux comptes TikTok.",
		Color:  colorPink,
		Footer: &discordgo.MessageEmbedFooter{Text: footer},
	})
	return err
}

// responder answers the command once, then posts follow-ups in the channel.
type responder struct {
	ctx     *discord.CommandContext
	replied bool
}

func (r *responder) send(data *discordgo.MessageSend) error {
	if !r.replied {
		r.replied = true
		return r.ctx.ReplyComplex(data)
	}
	_, err := r.ctx.Session.ChannelMessageSendComplex(r.ctx.ChannelID(), data)
	return err
}

func (r *responder) text(content string) error {
	return r.send(&discordgo.MessageSend{Content: content})
}

func (r *responder) embed(embed *discordgo.MessageEmbed) error {
	return r.send(&discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}})
}

// notificationCategory returns the category for the channel, creating
// tiktok.CategoryName when no notification or announcement category exists.
func notificationCategory(s *discordgo.Session, guild *discordgo.Guild) (string, error) {
	var fallback string
	for _, c := range guild.Channels {
		if c.Type != discordgo.ChannelTypeGuildCategory {
			continue
		}
		if c.Name == tiktok.CategoryName {
			return c.ID, nil
		}
		name := strings.ToLower(c.Name)
		if fallback == "" && (strings.Contains(name, "notif") || strings.Contains(name, "annonce")) {
			fallback = c.ID
		}
	}
	if fallback != "" {
		return fallback, nil
	}
	cat, err := s.GuildChannelCreate(guild.ID, tiktok.CategoryName, discordgo.ChannelTypeGuildCategory)
	if err != nil {
		return "", err
	}
	logger.Info(fmt.Sprintf("Catégorie '%s' créée sur %s", tiktok.CategoryName, guild.Name), "TikTok")
	return cat.ID, nil
}

// ChannelCreatedEmbed confirms createtiktokchannel and lists the commands.
func ChannelCreatedEmbed(prefix, channel, role string) *discordgo.MessageEmbed {
	commands := []string{
		"`%ssettiktok` - Associer un compte TikTok",
		"`%sremovetiktok` - Retirer un compte TikTok",
		"`%slisttiktok` - Lister les comptes configurés",
		"`%schecktiktok` - Vérifier maintenant",
		"`%stiktokinterval` - Changer l'intervalle de vérification",
	}
	for i, c := range commands {
		commands[i] = fmt.Sprintf(c, prefix)
	}
	return &discordgo.MessageEmbed{
		Title: "✅ Salon de notifications TikTok créé",
		Description: fmt.Sprintf("Le salon %s a été créé pour recevoir les notifications TikTok.\n\n"+
			"Utilisez `%ssettiktok @membre nom_utilisateur_tiktok` pour configurer les notifications.\n\n"+
			"Les membres peuvent s'assigner le rôle %s pour être notifiés.", channel, prefix, role),
		Color: 0x2ECC71,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Commandes disponibles", Value: strings.Join(commands, "\n")},
		},
	}
}
