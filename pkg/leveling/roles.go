package leveling

import (
	"context"
	"errors"
	"fmt"

	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// ErrRoleMissing is returned when a milestone role does not exist in the guild.
var ErrRoleMissing = errors.New("milestone role missing")

// RoleClient is the slice of the Discord API the role sync needs.
type RoleClient interface {
	GuildRoles(guildID string) ([]*discordgo.Role, error)
	MemberRoleIDs(guildID, userID string) ([]string, error)
	AddMemberRole(guildID, userID, roleID string) error
	RemoveMemberRole(guildID, userID, roleID string) error
}

func rolesByName(roles []*discordgo.Role) map[string]*discordgo.Role {
	out := make(map[string]*discordgo.Role, len(roles))
	for _, r := range roles {
		out[r.Name] = r
	}
	return out
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// SyncRoles gives the member the highest milestone role reached at level and
// removes the other milestone roles. Each failed call is logged and the
// remaining calls still run, so the member may end up with a partial set.
func SyncRoles(ctx context.Context, rc RoleClient, guildID, userID string, level int) error {
	target, ok := MilestoneFor(level)
	if !ok {
		return nil
	}

	guildRoles, err := rc.GuildRoles(guildID)
	if err != nil {
		return fmt.Errorf("list roles: %w", err)
	}
	byName := rolesByName(guildRoles)

	targetRole, ok := byName[target.Role]
	if !ok {
		logger.Warn(fmt.Sprintf("Le rôle %s n'existe pas sur le serveur %s", target.Role, guildID), "Levels")
		return fmt.Errorf("%w: %s", ErrRoleMissing, target.Role)
	}

	held, err := rc.MemberRoleIDs(guildID, userID)
	if err != nil {
		return fmt.Errorf("member roles: %w", err)
	}

	var errs []error
	for _, m := range Milestones {
		if m.Role == target.Role {
			continue
		}
		role, ok := byName[m.Role]
		if !ok || !contains(held, role.ID) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := rc.RemoveMemberRole(guildID, userID, role.ID); err != nil {
			logger.Error(fmt.Sprintf("Erreur lors du retrait du rôle %s pour %s: %v", m.Role, userID, err), "Levels")
			errs = append(errs, err)
		}
	}

	if !contains(held, targetRole.ID) {
		if err := rc.AddMemberRole(guildID, userID, targetRole.ID); err != nil {
			logger.Error(fmt.Sprintf("Erreur lors de l'ajout du rôle %s à %s: %v", target.Role, userID, err), "Levels")
			errs = append(errs, err)
		} else {
			logger.Info(fmt.Sprintf("%s a reçu le rôle %s pour le niveau %d", userID, target.Role, level), "Levels")
		}
	}

	return errors.Join(errs...)
}

// ClearRoles removes every milestone role the member holds.
func ClearRoles(rc RoleClient, guildID, userID string) error {
	guildRoles, err := rc.GuildRoles(guildID)
	if err != nil {
		return fmt.Errorf("list roles: %w", err)
	}
	held, err := rc.MemberRoleIDs(guildID, userID)
	if err != nil {
		return fmt.Errorf("member roles: %w", err)
	}

	var errs []error
	for _, r := range guildRoles {
		if IsMilestoneRole(r.Name) && contains(held, r.ID) {
			if err := rc.RemoveMemberRole(guildID, userID, r.ID); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
