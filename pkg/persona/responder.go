// FILE: pkg/persona/responder.go
// PURPOSE: Single-turn persona replies for scammer engagement. Stateless on
// purpose: each reply sees only the latest inbound message, multi-turn
// coherence is not a goal.

package persona

import (
	"context"
	"regexp"
	"strings"

	"github.com/bytebender77/honeypot/internal/constant"
	"github.com/bytebender77/honeypot/internal/pkg/logger"
	"github.com/bytebender77/honeypot/pkg/llm"
)

// MaxMessageLength caps inbound text before the model call.
const MaxMessageLength = 4000

// FallbackResponse replaces any reply this component cannot vouch for.
const FallbackResponse = "Sorry, I didn't understand. Can you explain again?"

// Output patterns that break character or cross safety lines. A single hit
// rejects the reply wholesale.
var unsafePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)i am an? (ai|bot|assistant|robot|program)`),
	regexp.MustCompile(`(?i)i('m| am) not (a )?real`),
	regexp.MustCompile(`(?i)i('m| am) (an? )?(artificial|automated)`),
	regexp.MustCompile(`(?i)as an ai`),
	regexp.MustCompile(`(?i)i (have |just )?(sent|transferred|paid)`),
	regexp.MustCompile(`(?i)payment (sent|done|completed)`),
	regexp.MustCompile(`(?i)money (sent|transferred)`),
}

var urlInOutputPattern = regexp.MustCompile(`(?i)https?://|www\.`)

// Instruction-override phrasings scrubbed from input before it reaches the
// model. The scam content itself is left intact.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore (all )?(previous |prior |above )?instructions`),
	regexp.MustCompile(`(?i)disregard (all )?(previous |prior |above )?instructions`),
	regexp.MustCompile(`(?i)forget (all )?(previous |prior |above )?instructions`),
	regexp.MustCompile(`(?i)you are now`),
	regexp.MustCompile(`(?i)new instructions:`),
	regexp.MustCompile(`(?i)system:`),
	regexp.MustCompile(`<\|.*?\|>`), // Special control tokens
}

var (
	markdownChars     = regexp.MustCompile("\\*\\*|__|\\*|_|`|#")
	sentenceSplitter  = regexp.MustCompile(`[.!?]+`)
	emojiPattern      = regexp.MustCompile(`[\x{1F600}-\x{1F64F}\x{1F300}-\x{1F5FF}\x{1F680}-\x{1F6FF}\x{1F1E0}-\x{1F1FF}]`)
	maxReplySentences = 3
)

// Responder generates in-character honeypot replies.
type Responder struct {
	provider llm.LLMProvider
	logger   logger.ILogger
}

func NewResponder(provider llm.LLMProvider, log logger.ILogger) *Responder {
	return &Responder{
		provider: provider,
		logger:   log,
	}
}

// Respond produces one persona reply to a scam message. Never errors:
// anything untrustworthy becomes the fixed fallback sentence.
func (r *Responder) Respond(ctx context.Context, message string) string {
	if strings.TrimSpace(message) == "" {
		return FallbackResponse
	}
	if r.provider == nil {
		return FallbackResponse
	}

	safeMessage := sanitizeInput(strings.TrimSpace(message))
	safeMessage = truncateMessage(safeMessage)

	raw, err := r.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: constant.HoneypotPersonaPrompt},
		{Role: "user", Content: safeMessage},
	},
		llm.WithTemperature(0.4), // Slight variation keeps replies natural
		llm.WithMaxTokens(150),
	)
	if err != nil {
		r.logger.Warn("Persona", "Model call failed, using fallback reply", map[string]interface{}{
			"error": err.Error(),
		})
		return FallbackResponse
	}
	if strings.TrimSpace(raw) == "" {
		return FallbackResponse
	}

	return validateOutput(raw)
}

func truncateMessage(message string) string {
	if len(message) > MaxMessageLength {
		return message[:MaxMessageLength] + "... [TRUNCATED]"
	}
	return message
}

// sanitizeInput neutralizes prompt-injection spans without altering
// the surrounding scam content.
func sanitizeInput(message string) string {
	sanitized := message
	for _, pattern := range injectionPatterns {
		sanitized = pattern.ReplaceAllString(sanitized, "[FILTERED]")
	}
	return sanitized
}

// validateOutput enforces the reply policy: stay in character, no URLs,
// no money-sent claims, plain text, at most 3 sentences, no emoji.
func validateOutput(response string) string {
	for _, pattern := range unsafePatterns {
		if pattern.MatchString(response) {
			return FallbackResponse
		}
	}
	if urlInOutputPattern.MatchString(response) {
		return FallbackResponse
	}

	response = markdownChars.ReplaceAllString(response, "")

	parts := sentenceSplitter.Split(response, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) > maxReplySentences {
		response = strings.Join(sentences[:maxReplySentences], ". ") + "."
	}

	response = emojiPattern.ReplaceAllString(response, "")

	return strings.TrimSpace(response)
}
