package discord

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/bwmarrin/discordgo"
)

// ErrMissingArgument is returned by ParseArgs when a required option has no value.
var ErrMissingArgument = errors.New("missing argument")

// SplitCommand separates "!name rest of line" into the lowercased name and
// the untouched remainder. ok is false when content does not start with prefix.
func SplitCommand(content, prefix string) (name, rest string, ok bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", "", false
	}
	name, rest = nextField(content[len(prefix):])
	if name == "" {
		return "", "", false
	}
	return strings.ToLower(name), rest, true
}

// nextField returns the first whitespace separated field and what follows it.
func nextField(s string) (field, rest string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := strings.IndexFunc(s, unicode.IsSpace)
	if end < 0 {
		return s, ""
	}
	return s[:end], strings.TrimLeftFunc(s[end:], unicode.IsSpace)
}

// ParseArgs maps a prefix command line onto the command options by
// position. The last option takes the rest of the line when it is a string.
func ParseArgs(options []*discordgo.ApplicationCommandOption, input string) (map[string]string, error) {
	args := make(map[string]string, len(options))
	rest := strings.TrimSpace(input)

	for i, opt := range options {
		var value string
		if i == len(options)-1 && opt.Type == discordgo.ApplicationCommandOptionString {
			value, rest = strings.TrimSpace(rest), ""
		} else {
			value, rest = nextField(rest)
		}

		if value == "" {
			if opt.Required {
				return args, fmt.Errorf("%w: %s", ErrMissingArgument, opt.Name)
			}
			continue
		}
		args[opt.Name] = value
	}
	return args, nil
}

// MentionID extracts the snowflake from a user, role or channel mention.
// A bare numeric id is returned as is; anything else yields "".
func MentionID(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">") {
		s = strings.TrimSuffix(s[1:], ">")
		s = strings.TrimLeft(s, "@#!&")
	}
	if s == "" {
		return ""
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return s
}

// Usage renders "!name <required> [optional]" for error messages and help.
func Usage(prefix string, cmd *Command) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(cmd.Name)
	for _, opt := range cmd.Options {
		if opt.Required {
			fmt.Fprintf(&b, " <%s>", opt.Name)
		} else {
			fmt.Fprintf(&b, " [%s]", opt.Name)
		}
	}
	return b.String()
}
