package classifier

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bytebender77/honeypot/internal/pkg/logger"
	"github.com/bytebender77/honeypot/pkg/llm"
)

type stubProvider struct {
	response string
	err      error
	gotChat  []llm.Message
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	s.gotChat = history
	return s.response, s.err
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.response, s.err
}

func TestClassifyVerdicts(t *testing.T) {
	tests := []struct {
		name           string
		response       string
		err            error
		wantIsScam     bool
		wantConfidence float64
		wantReason     string
	}{
		{
			name:           "clean scam verdict",
			response:       `{"is_scam": true, "confidence": 0.95, "reason": "Urgency and payment demand"}`,
			wantIsScam:     true,
			wantConfidence: 0.95,
			wantReason:     "Urgency and payment demand",
		},
		{
			name:           "clean benign verdict",
			response:       `{"is_scam": false, "confidence": 0.9, "reason": "Ordinary greeting"}`,
			wantIsScam:     false,
			wantConfidence: 0.9,
			wantReason:     "Ordinary greeting",
		},
		{
			name:           "fenced json accepted",
			response:       "```json\n{\"is_scam\": true, \"confidence\": 0.8, \"reason\": \"Phishing link\"}\n```",
			wantIsScam:     true,
			wantConfidence: 0.8,
			wantReason:     "Phishing link",
		},
		{
			name:           "provider error fails safe",
			err:            errors.New("timeout"),
			wantIsScam:     FallbackIsScam,
			wantConfidence: FallbackConfidence,
			wantReason:     FallbackReason,
		},
		{
			name:           "empty model output",
			response:       "   ",
			wantIsScam:     FallbackIsScam,
			wantConfidence: FallbackConfidence,
			wantReason:     "No response from classifier",
		},
		{
			name:           "missing field fails safe",
			response:       `{"is_scam": true, "confidence": 0.9}`,
			wantIsScam:     FallbackIsScam,
			wantConfidence: FallbackConfidence,
			wantReason:     FallbackReason,
		},
		{
			name:           "prose instead of json fails safe",
			response:       "This looks like a scam to me.",
			wantIsScam:     FallbackIsScam,
			wantConfidence: FallbackConfidence,
			wantReason:     FallbackReason,
		},
		{
			name:           "confidence clamped above one",
			response:       `{"is_scam": true, "confidence": 3.5, "reason": "x"}`,
			wantIsScam:     true,
			wantConfidence: 1.0,
			wantReason:     "x",
		},
		{
			name:           "confidence clamped below zero",
			response:       `{"is_scam": false, "confidence": -0.4, "reason": "x"}`,
			wantIsScam:     false,
			wantConfidence: 0.0,
			wantReason:     "x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(&stubProvider{response: tt.response, err: tt.err}, logger.NopLogger{})

			got := c.Classify(context.Background(), "You won a lottery, pay the fee")

			if got.IsScam != tt.wantIsScam {
				t.Errorf("IsScam = %v, want %v", got.IsScam, tt.wantIsScam)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tt.wantConfidence)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}

func TestClassifyEmptyInput(t *testing.T) {
	provider := &stubProvider{response: `{"is_scam": false, "confidence": 1, "reason": "x"}`}
	c := NewClassifier(provider, logger.NopLogger{})

	got := c.Classify(context.Background(), "   \n\t ")

	if !got.IsScam {
		t.Error("empty input must fail safe to scam")
	}
	if got.Reason != "Empty or invalid message" {
		t.Errorf("Reason = %q, want %q", got.Reason, "Empty or invalid message")
	}
	if provider.gotChat != nil {
		t.Error("empty input must not reach the model")
	}
}

func TestClassifyNilProvider(t *testing.T) {
	c := NewClassifier(nil, logger.NopLogger{})

	got := c.Classify(context.Background(), "hello")

	if !got.IsScam || got.Confidence != FallbackConfidence {
		t.Errorf("nil provider verdict = %+v, want fail-safe", got)
	}
}

func TestClassifyTruncatesLongMessages(t *testing.T) {
	provider := &stubProvider{response: `{"is_scam": true, "confidence": 0.9, "reason": "x"}`}
	c := NewClassifier(provider, logger.NopLogger{})

	c.Classify(context.Background(), strings.Repeat("a", MaxMessageLength+500))

	if len(provider.gotChat) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(provider.gotChat))
	}
	sent := provider.gotChat[1].Content
	if !strings.HasSuffix(sent, "... [TRUNCATED]") {
		t.Error("oversized message must carry the truncation marker")
	}
	if len(sent) != MaxMessageLength+len("... [TRUNCATED]") {
		t.Errorf("sent length = %d, want %d", len(sent), MaxMessageLength+len("... [TRUNCATED]"))
	}
}

func TestClassifyCapsReasonLength(t *testing.T) {
	longReason := strings.TrimSpace(strings.Repeat("word ", 40))
	provider := &stubProvider{response: `{"is_scam": true, "confidence": 0.9, "reason": "` + longReason + `"}`}
	c := NewClassifier(provider, logger.NopLogger{})

	got := c.Classify(context.Background(), "pay now")

	if !strings.HasSuffix(got.Reason, "...") {
		t.Error("over-long reason must be capped with an ellipsis")
	}
	if n := len(strings.Fields(got.Reason)); n > 25 {
		t.Errorf("reason has %d words, want at most 25", n)
	}
}
