// FILE: pkg/intel/extractor.go
// PURPOSE: Zero-hallucination intel extraction. Regex first (the floor),
// model-assisted second (best effort), merged by set union.

package intel

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bytebender77/honeypot/internal/constant"
	"github.com/bytebender77/honeypot/internal/pkg/logger"
	"github.com/bytebender77/honeypot/pkg/llm"
	"github.com/bytebender77/honeypot/pkg/store"
)

// Extractor combines deterministic regex extraction with an optional
// model-assisted pass. The model result is adopted all-or-nothing: if any
// field fails strict validation, the entire response is discarded and the
// regex result stands alone. Callers never see a failure.
type Extractor struct {
	provider llm.LLMProvider
	logger   logger.ILogger
}

func NewExtractor(provider llm.LLMProvider, log logger.ILogger) *Extractor {
	return &Extractor{
		provider: provider,
		logger:   log,
	}
}

// Extract pulls indicators out of a finished conversation.
func (e *Extractor) Extract(ctx context.Context, conversation []store.Message) Result {
	if len(conversation) == 0 {
		return NewResult()
	}

	transcript := formatTranscript(conversation)

	regexResult := ExtractViaRegex(transcript)

	llmResult, ok := e.extractViaLLM(ctx, transcript)
	if !ok {
		return regexResult
	}

	return regexResult.Merge(llmResult)
}

// ExtractFromText is a convenience for a single raw text block.
func (e *Extractor) ExtractFromText(ctx context.Context, text string) Result {
	return e.Extract(ctx, []store.Message{{Role: "text", Content: text}})
}

func formatTranscript(conversation []store.Message) string {
	var sb strings.Builder
	for _, msg := range conversation {
		sb.WriteString(fmt.Sprintf("%s: %s\n", msg.Role, msg.Content))
	}
	return sb.String()
}

// extractViaLLM runs the model-assisted pass. The second return value is
// false whenever the call fails or the response violates the schema.
func (e *Extractor) extractViaLLM(ctx context.Context, transcript string) (Result, bool) {
	if e.provider == nil {
		return Result{}, false
	}

	raw, err := e.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: constant.IntelExtractorPrompt},
		{Role: "user", Content: transcript},
	},
		llm.WithTemperature(0.0), // Deterministic
		llm.WithMaxTokens(512),
	)
	if err != nil {
		e.logger.Warn("Intel", "LLM extraction call failed, using regex result only", map[string]interface{}{
			"error": err.Error(),
		})
		return Result{}, false
	}

	result, ok := parseStrictResult(raw)
	if !ok {
		e.logger.Warn("Intel", "LLM extraction output failed schema validation, discarded", nil)
		return Result{}, false
	}
	return result, true
}

// parseStrictResult validates the model output against the locked schema:
// a JSON object with the four indicator fields, each a list of strings.
// Partial adoption is forbidden.
func parseStrictResult(response string) (Result, bool) {
	cleaned := cleanJSONResponse(response)

	var data map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return Result{}, false
	}

	required := []string{"bank_accounts", "upi_ids", "phishing_links", "other_indicators"}
	lists := make(map[string][]string, len(required))
	for _, field := range required {
		raw, present := data[field]
		if !present {
			return Result{}, false
		}
		var items []string
		// json.Unmarshal into []string rejects non-string elements outright.
		if err := json.Unmarshal(raw, &items); err != nil {
			return Result{}, false
		}
		if items == nil {
			items = []string{}
		}
		lists[field] = items
	}

	return Result{
		BankAccounts:    lists["bank_accounts"],
		UpiIDs:          lists["upi_ids"],
		PhishingLinks:   lists["phishing_links"],
		OtherIndicators: lists["other_indicators"],
	}, true
}

// cleanJSONResponse strips markdown fences and narrows to the outermost
// JSON object, since models like to wrap JSON in prose.
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
