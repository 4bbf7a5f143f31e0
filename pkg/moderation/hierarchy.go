package moderation

import (
	"errors"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Hierarchy errors returned by CheckHierarchy
var (
	ErrBotBelowTarget   = errors.New("target role is above the bot")
	ErrActorBelowTarget = errors.New("target role is above the moderator")
)

// DefaultMute is the timeout applied by mute without a duration
const DefaultMute = time.Hour

// MaxMute is the longest timeout Discord accepts
const MaxMute = 28 * 24 * time.Hour

// TopRolePosition returns the highest position among the member's roles (0 for @everyone only).
func TopRolePosition(memberRoleIDs []string, guildRoles []*discordgo.Role) int {
	positions := make(map[string]int, len(guildRoles))
	for _, r := range guildRoles {
		positions[r.ID] = r.Position
	}
	top := 0
	for _, id := range memberRoleIDs {
		if p, ok := positions[id]; ok && p > top {
			top = p
		}
	}
	return top
}

// CheckHierarchy applies Discord's rule: both the bot and the moderator must
// sit strictly above the target. The guild owner bypasses the moderator check.
func CheckHierarchy(botTop, actorTop, targetTop int, actorIsOwner bool) error {
	if botTop <= targetTop {
		return ErrBotBelowTarget
	}
	if !actorIsOwner && actorTop <= targetTop {
		return ErrActorBelowTarget
	}
	return nil
}

// ParseMuteMinutes turns an optional minutes argument into a timeout duration.
func ParseMuteMinutes(arg string) (time.Duration, error) {
	if arg == "" {
		return DefaultMute, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid duration")
	}
	d := time.Duration(n) * time.Minute
	if d > MaxMute {
		d = MaxMute
	}
	return d, nil
}

// ValidClearAmount reports whether n messages can be bulk deleted.
func ValidClearAmount(n int) bool {
	return n >= 1 && n <= 100
}
