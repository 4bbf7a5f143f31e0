// Package assistant answers member questions through a chat completion API.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultModel = openai.GPT4oMini
	MaxTokens    = 800
	Temperature  = 0.7

	// MaxAnswer is Discord's message length limit.
	MaxAnswer = 2000

	SystemPrompt = "Tu es un assistant utile, précis et amical qui répond aux questions dans un serveur Discord. Garde tes réponses concises, moins de 1500 caractères si possible."
)

var (
	ErrEmptyQuestion = errors.New("empty question")
	ErrNoAnswer      = errors.New("completion returned no choices")
	ErrDisabled      = errors.New("assistant disabled: no API key")
)

// Completer sends one system + user exchange and returns the reply.
type Completer interface {
	Complete(ctx context.Context, system, question string) (string, error)
}

// OpenAI is the go-openai backed Completer.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = DefaultModel
	}
	return &OpenAI{client: openai.NewClient(apiKey), model: model}
}

// Model returns the configured model name.
func (o *OpenAI) Model() string { return o.model }

func (o *OpenAI) Complete(ctx context.Context, system, question string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoAnswer
	}
	return resp.Choices[0].Message.Content, nil
}

// Disabled answers every question with ErrDisabled.
type Disabled struct{}

func (Disabled) Complete(context.Context, string, string) (string, error) { return "", ErrDisabled }

// Assistant wraps a Completer with the bot's prompt and limits.
type Assistant struct {
	Completer Completer
	Model     string
}

// Ask returns the trimmed, length-limited answer to question.
func (a *Assistant) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}
	answer, err := a.Completer.Complete(ctx, SystemPrompt, question)
	if err != nil {
		logger.Error(fmt.Sprintf("Erreur lors de l'appel à l'API OpenAI: %v", err), "Assistant")
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if n := len([]rune(answer)); n > MaxAnswer {
		logger.Info(fmt.Sprintf("Réponse tronquée de %d à %d caractères", n, MaxAnswer), "Assistant")
	}
	return Truncate(answer, MaxAnswer), nil
}

// Truncate limits s to max characters, ending with "..." when cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// Kind classifies completion failures for the user-facing message.
type Kind int

const (
	KindOther Kind = iota
	KindQuota
	KindRateLimit
	KindContextLength
	KindDisabled
)

// Classify maps an API error to a Kind. Structured API errors are checked
// first, then the message text.
func Classify(err error) Kind {
	if errors.Is(err, ErrDisabled) {
		return KindDisabled
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		code, _ := apiErr.Code.(string)
		switch {
		case code == "insufficient_quota" || apiErr.Type == "insufficient_quota":
			return KindQuota
		case code == "rate_limit_exceeded":
			return KindRateLimit
		case code == "context_length_exceeded":
			return KindContextLength
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "insufficient_quota"):
		return KindQuota
	case strings.Contains(msg, "rate_limit_exceeded"):
		return KindRateLimit
	case strings.Contains(msg, "maximum context length"), strings.Contains(msg, "max_tokens"):
		return KindContextLength
	}
	return KindOther
}

// Description is the user-facing explanation of a failure.
func Description(err error) string {
	switch Classify(err) {
	case KindQuota:
		return "Le quota d'utilisation de l'API OpenAI est épuisé. Contactez l'administrateur du bot pour recharger les crédits."
	case KindRateLimit:
		return "Trop de demandes ont été envoyées à OpenAI. Veuillez réessayer dans quelques minutes."
	case KindContextLength:
		return "La question est trop longue. Essayez de la reformuler plus brièvement."
	case KindDisabled:
		return "L'assistant n'est pas configuré sur ce bot."
	}
	return fmt.Sprintf("Je n'ai pas pu obtenir une réponse de ChatGPT.\nErreur: %s...", Truncate(err.Error(), 100))
}

// AnswerEmbed presents an answer.
func AnswerEmbed(question, answer, author, model string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "📝 Réponse à: " + Truncate(question, 103),
		Description: answer,
		Color:       0x3498db,
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Demandé par %s • Propulsé par %s", author, model)},
	}
}

// ErrorEmbed presents a failure.
func ErrorEmbed(err error) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       "❌ Erreur avec ChatGPT",
		Description: Description(err),
		Color:       0xe74c3c,
	}
	if Classify(err) == KindQuota {
		e.Fields = []*discordgo.MessageEmbedField{{
			Name:  "Solution",
			Value: "L'administrateur doit vérifier le compte OpenAI pour recharger les crédits ou mettre à jour le plan de facturation.",
		}}
	}
	return e
}

// UsageEmbed is shown when ask is called without a question.
func UsageEmbed(prefix string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "❌ Erreur",
		Description: fmt.Sprintf("Tu dois poser une question ! Usage: `%sask <question>`", prefix),
		Color:       0xe74c3c,
	}
}
