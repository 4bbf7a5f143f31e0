package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

type fakeCompleter struct {
	answer string
	err    error
	system string
}

func (f *fakeCompleter) Complete(_ context.Context, system, _ string) (string, error) {
	f.system = system
	return f.answer, f.err
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("é", 2500)
	got := Truncate(long, MaxAnswer)
	if n := len([]rune(got)); n != MaxAnswer {
		t.Errorf("rune length = %v, want %v", n, MaxAnswer)
	}
	if !strings.HasSuffix(got, "...") || !strings.HasPrefix(got, strings.Repeat("é", 1997)) {
		t.Error("Truncate() should keep 1997 characters and append ...")
	}
	if got := Truncate("court", MaxAnswer); got != "court" {
		t.Errorf("Truncate(short) = %q", got)
	}
	if got := Truncate(strings.Repeat("a", 2000), MaxAnswer); len(got) != 2000 || strings.HasSuffix(got, "...") {
		t.Error("exactly 2000 characters must not be cut")
	}
}

func TestAsk(t *testing.T) {
	f := &fakeCompleter{answer: "  " + strings.Repeat("x", 2100) + "\n"}
	a := &Assistant{Completer: f, Model: DefaultModel}

	got, err := a.Ask(context.Background(), "pourquoi ?")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != MaxAnswer || !strings.HasSuffix(got, "...") {
		t.Errorf("Ask() length = %d", len(got))
	}
	if f.system != SystemPrompt {
		t.Errorf("system prompt = %q", f.system)
	}

	if _, err := a.Ask(context.Background(), "   "); !errors.Is(err, ErrEmptyQuestion) {
		t.Errorf("Ask(blank) error = %v, want ErrEmptyQuestion", err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"api quota", &openai.APIError{Code: "insufficient_quota", HTTPStatusCode: 429}, KindQuota},
		{"api rate", &openai.APIError{Code: "rate_limit_exceeded", HTTPStatusCode: 429}, KindRateLimit},
		{"api context", &openai.APIError{Code: "context_length_exceeded", HTTPStatusCode: 400}, KindContextLength},
		{"wrapped", fmt.Errorf("ask: %w", &openai.APIError{Type: "insufficient_quota"}), KindQuota},
		{"text context", errors.New("This model's maximum context length is 128000 tokens"), KindContextLength},
		{"text max tokens", errors.New("max_tokens is too large"), KindContextLength},
		{"disabled", ErrDisabled, KindDisabled},
		{"other", errors.New("connection reset"), KindOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorEmbed(t *testing.T) {
	e := ErrorEmbed(&openai.APIError{Code: "insufficient_quota"})
	if len(e.Fields) != 1 || e.Fields[0].Name != "Solution" {
		t.Errorf("quota embed fields = %+v", e.Fields)
	}
	e = ErrorEmbed(errors.New(strings.Repeat("z", 300)))
	if len(e.Fields) != 0 || !strings.Contains(e.Description, "Je n'ai pas pu obtenir") {
		t.Errorf("other embed = %+v", e)
	}
}

func TestAnswerEmbedTitle(t *testing.T) {
	q := strings.Repeat("q", 150)
	e := AnswerEmbed(q, "r", "nini", DefaultModel)
	if want := "📝 Réponse à: " + strings.Repeat("q", 100) + "..."; e.Title != want {
		t.Errorf("Title = %q, want %q", e.Title, want)
	}
}
