package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func memberOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "membre",
		Description: "Le membre à afficher (toi par défaut)",
	}
}

func target(ctx *discord.CommandContext) *discordgo.User {
	if u := ctx.GetUserOption("membre"); u != nil {
		return u
	}
	return ctx.User()
}

func avatarCommand() *discord.Command {
	return discord.NewCommand(
		"avatar",
		"Affiche l'avatar d'un membre",
		category,
		func(ctx *discord.CommandContext) error {
			user := target(ctx)
			url := user.AvatarURL("1024")
			return ctx.ReplyEmbed(&discordgo.MessageEmbed{
				Title:       "Avatar de " + user.Username,
				Description: fmt.Sprintf("[Lien direct](%s)", url),
				Color:       embedColor,
				Image:       &discordgo.MessageEmbedImage{URL: url},
			})
		},
	).WithOptions(memberOption())
}

func userInfoCommand() *discord.Command {
	return discord.NewCommand(
		"userinfo",
		"Affiche les informations d'un membre",
		category,
		func(ctx *discord.CommandContext) error {
			user := target(ctx)
			member, err := ctx.Session.State.Member(ctx.GuildID(), user.ID)
			if err != nil {
				member, err = ctx.Session.GuildMember(ctx.GuildID(), user.ID)
				if err != nil {
					return ctx.Reply("❌ Ce membre n'est pas sur le serveur.")
				}
			}
			if member.User == nil {
				member.User = user
			}
			return ctx.ReplyEmbed(UserInfoEmbed(member, ctx.GuildID(), memberColor(ctx.Session.State, user.ID, ctx.ChannelID())))
		},
	).WithOptions(memberOption()).WithAliases("whois")
}

// memberColor is the colour of the member's highest coloured role, 0 when
// the state cache does not know them.
func memberColor(state *discordgo.State, userID, channelID string) int {
	return state.UserColor(userID, channelID)
}

// UserInfoEmbed describes member. The @everyone role (same id as the guild)
// is not listed.
func UserInfoEmbed(member *discordgo.Member, guildID string, color int) *discordgo.MessageEmbed {
	user := member.User

	bot := "Non"
	if user.Bot {
		bot = "Oui"
	}
	nick := member.Nick
	if nick == "" {
		nick = user.DisplayName()
	}

	created := "Inconnu"
	if ts, err := discordgo.SnowflakeTimestamp(user.ID); err == nil {
		created = relative(ts)
	}
	joined := "Inconnu"
	if !member.JoinedAt.IsZero() {
		joined = relative(member.JoinedAt)
	}

	var roles []string
	for _, id := range member.Roles {
		if id != guildID {
			roles = append(roles, "<@&"+id+">")
		}
	}
	rolesValue := "Aucun"
	if len(roles) > 0 {
		rolesValue = strings.Join(roles, " ")
	}

	return &discordgo.MessageEmbed{
		Title:     "Informations sur " + user.Username,
		Color:     color,
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("")},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "ID", Value: user.ID, Inline: true},
			{Name: "Surnom", Value: nick, Inline: true},
			{Name: "Bot", Value: bot, Inline: true},
			{Name: "Compte créé", Value: created, Inline: true},
			{Name: "A rejoint", Value: joined, Inline: true},
			{Name: fmt.Sprintf("Rôles [%d]", len(roles)), Value: rolesValue},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: footerText},
	}
}

func relative(t time.Time) string {
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}
