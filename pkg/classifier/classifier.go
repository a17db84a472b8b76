// FILE: pkg/classifier/classifier.go
// PURPOSE: Scam/benign verdict for a single message. Gatekeeper for the
// honeypot pipeline: on ANY failure it falls back to "is scam", because a
// missed scam costs more than a false alarm here.

package classifier

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/bytebender77/honeypot/internal/constant"
	"github.com/bytebender77/honeypot/internal/pkg/logger"
	"github.com/bytebender77/honeypot/pkg/llm"
)

// MaxMessageLength caps input before the model call to prevent token abuse.
const MaxMessageLength = 4000

// Fail-safe verdict applied whenever classification cannot be trusted.
const (
	FallbackIsScam     = true
	FallbackConfidence = 0.7
	FallbackReason     = "Unreliable classification output"
)

const maxReasonWords = 25

// Result is the classification verdict.
type Result struct {
	IsScam     bool    `json:"is_scam"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Classifier asks the model for a scam verdict with deterministic sampling.
type Classifier struct {
	provider llm.LLMProvider
	logger   logger.ILogger
}

func NewClassifier(provider llm.LLMProvider, log logger.ILogger) *Classifier {
	return &Classifier{
		provider: provider,
		logger:   log,
	}
}

// Classify returns a verdict for one message. It never returns an error:
// every failure path collapses into the fail-safe result.
func (c *Classifier) Classify(ctx context.Context, message string) Result {
	if strings.TrimSpace(message) == "" {
		return Result{
			IsScam:     FallbackIsScam,
			Confidence: FallbackConfidence,
			Reason:     "Empty or invalid message",
		}
	}

	// No model backend configured: apply the fail-safe verdict.
	if c.provider == nil {
		return failSafeResult()
	}

	safeMessage := truncateMessage(strings.TrimSpace(message))

	raw, err := c.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: constant.ScamClassifierPrompt},
		{Role: "user", Content: safeMessage},
	},
		llm.WithTemperature(0.0), // Deterministic output
		llm.WithMaxTokens(256),
	)
	if err != nil {
		c.logger.Warn("Classifier", "Model call failed, applying fail-safe verdict", map[string]interface{}{
			"error": err.Error(),
		})
		return failSafeResult()
	}
	if strings.TrimSpace(raw) == "" {
		return Result{
			IsScam:     FallbackIsScam,
			Confidence: FallbackConfidence,
			Reason:     "No response from classifier",
		}
	}

	return parseResponse(raw)
}

func failSafeResult() Result {
	return Result{
		IsScam:     FallbackIsScam,
		Confidence: FallbackConfidence,
		Reason:     FallbackReason,
	}
}

func truncateMessage(message string) string {
	if len(message) > MaxMessageLength {
		return message[:MaxMessageLength] + "... [TRUNCATED]"
	}
	return message
}

// parseResponse validates the model output strictly: a JSON object with
// exactly the three verdict fields. Anything else yields the fail-safe.
func parseResponse(response string) Result {
	cleaned := cleanJSONResponse(response)

	var data struct {
		IsScam     *bool    `json:"is_scam"`
		Confidence *float64 `json:"confidence"`
		Reason     *string  `json:"reason"`
	}
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return failSafeResult()
	}
	if data.IsScam == nil || data.Confidence == nil || data.Reason == nil {
		return failSafeResult()
	}

	confidence := *data.Confidence
	if confidence < 0.0 {
		confidence = 0.0
	}
	if confidence > 1.0 {
		confidence = 1.0
	}

	reason := *data.Reason
	words := strings.Fields(reason)
	if len(words) > maxReasonWords {
		reason = strings.Join(words[:maxReasonWords], " ") + "..."
	}

	return Result{
		IsScam:     *data.IsScam,
		Confidence: confidence,
		Reason:     reason,
	}
}

func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	jsonStart := strings.Index(response, "{")
	jsonEnd := strings.LastIndex(response, "}")
	if jsonStart >= 0 && jsonEnd > jsonStart {
		response = response[jsonStart : jsonEnd+1]
	}
	return response
}
