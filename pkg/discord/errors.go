package discord

import (
	"errors"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

// ErrorKind groups Discord REST failures by what the user should be told.
type ErrorKind int

const (
	ErrorOther ErrorKind = iota
	ErrorPermission
	ErrorNotFound
)

// ClassifyError inspects a (possibly wrapped) discordgo REST error.
func ClassifyError(err error) ErrorKind {
	var rest *discordgo.RESTError
	if !errors.As(err, &rest) {
		return ErrorOther
	}

	if rest.Message != nil {
		switch rest.Message.Code {
		case discordgo.ErrCodeMissingPermissions, discordgo.ErrCodeMissingAccess:
			return ErrorPermission
		case discordgo.ErrCodeUnknownMember, discordgo.ErrCodeUnknownMessage, discordgo.ErrCodeUnknownChannel,
			discordgo.ErrCodeUnknownUser, discordgo.ErrCodeUnknownRole, discordgo.ErrCodeUnknownGuild:
			return ErrorNotFound
		}
	}

	if rest.Response != nil {
		switch rest.Response.StatusCode {
		case http.StatusForbidden:
			return ErrorPermission
		case http.StatusNotFound:
			return ErrorNotFound
		}
	}
	return ErrorOther
}

// ErrorMessage is the French reply for a failed Discord action.
func ErrorMessage(err error) string {
	switch ClassifyError(err) {
	case ErrorPermission:
		return "❌ Je n'ai pas les permissions nécessaires pour effectuer cette action."
	case ErrorNotFound:
		return "❌ Élément introuvable (membre, message ou salon supprimé ?)."
	default:
		return "❌ Une erreur s'est produite: " + err.Error()
	}
}
