package dev

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/PancyStudios/ChiiBot/internal/services"
	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// evalPath is the package the bot's values are exported under inside the
// interpreter. Scripts see them dot-imported.
const evalPath = "github.com/PancyStudios/ChiiBot/internal/commands/dev"

const maxResult = 1900

func evalCommand(svc *services.Services) *discord.Command {
	return discord.NewCommand(
		"eval",
		"Évalue du code Go (dangereux)",
		"dev",
		func(ctx *discord.CommandContext) error {
			start := time.Now()
			if err := ctx.Defer(); err != nil {
				return err
			}

			out, err := Evaluate(CleanCode(ctx.GetStringOption("code")), map[string]reflect.Value{
				"Ctx":      reflect.ValueOf(ctx),
				"Bot":      reflect.ValueOf(ctx.Client),
				"Session":  reflect.ValueOf(ctx.Session),
				"Services": reflect.ValueOf(svc),
				"Config":   reflect.ValueOf(svc.Config),
			})
			logger.Debug(fmt.Sprintf("Eval terminé en %s", time.Since(start)), "DevEval")
			if err != nil {
				return ctx.EditReply(fmt.Sprintf("❌ **Erreur d'exécution:**\n```go\n%v\n```", err))
			}
			return ctx.EditReply(fmt.Sprintf("✅ **Résultat:**\n```go\n%s\n```", out))
		},
	).WithOptions(&discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "code",
		Description: "Code ou expression Go à évaluer",
		Required:    true,
	}).AdminOnly().AsDev()
}

// CleanCode strips a surrounding markdown code block.
func CleanCode(code string) string {
	code = strings.TrimSpace(code)
	code = strings.TrimPrefix(code, "```go")
	code = strings.TrimPrefix(code, "```")
	code = strings.TrimSuffix(code, "```")
	return strings.TrimSpace(code)
}

// Evaluate runs code in a fresh interpreter with the standard library and
// symbols available, and formats the result with %#v.
func Evaluate(code string, symbols map[string]reflect.Value) (string, error) {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return "", fmt.Errorf("chargement de la stdlib: %w", err)
	}
	if len(symbols) > 0 {
		if err := i.Use(interp.Exports{evalPath + "/dev": symbols}); err != nil {
			return "", fmt.Errorf("enregistrement des variables: %w", err)
		}
		if _, err := i.Eval(`import . "` + evalPath + `"`); err != nil {
			return "", fmt.Errorf("import des variables: %w", err)
		}
	}

	res, err := i.Eval(code)
	if err != nil {
		return "", err
	}
	out := "nil"
	if res.IsValid() && res.CanInterface() {
		out = fmt.Sprintf("%#v", res.Interface())
	}
	if r := []rune(out); len(r) > maxResult {
		out = string(r[:maxResult]) + "... (tronqué)"
	}
	return out, nil
}
