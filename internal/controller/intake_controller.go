package controller

import (
	"encoding/json"

	"github.com/bytebender77/honeypot/internal/dto"
	"github.com/bytebender77/honeypot/internal/pkg/serverutils"
	"github.com/bytebender77/honeypot/internal/service"
	"github.com/bytebender77/honeypot/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// IIntakeController serves the external transport contract: a single
// flexible-format POST plus health probes. Unlike the versioned API, it
// tolerates whatever field names the sender picked and answers in the
// sender's own shape, never a wrapped envelope.
type IIntakeController interface {
	RegisterRoutes(r fiber.Router)
	Intake(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
	Root(ctx *fiber.Ctx) error
}

type intakeController struct {
	honeypotService service.IHoneypotService
	apiKey          string
	hasLLM          bool
}

func NewIntakeController(honeypotService service.IHoneypotService, apiKey string, hasLLM bool) IIntakeController {
	return &intakeController{
		honeypotService: honeypotService,
		apiKey:          apiKey,
		hasLLM:          hasLLM,
	}
}

func (c *intakeController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
	r.Get("/", c.Root)
	r.Post("/", serverutils.ApiKeyMiddleware(c.apiKey), c.Intake)
}

func (c *intakeController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"status": "healthy"})
}

func (c *intakeController) Root(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"status": "healthy", "service": "honeypot"})
}

func (c *intakeController) Intake(ctx *fiber.Ctx) error {
	var body map[string]interface{}
	if err := json.Unmarshal(ctx.Body(), &body); err != nil {
		return serverutils.NewHttpError(fiber.StatusBadRequest, "Invalid JSON body")
	}

	sessionId := sniffSessionId(body)
	messageText, messageIsObject := sniffMessage(body)

	// Object-form messages get the minimal {status, reply} answer.
	if messageIsObject {
		if messageText == "" {
			return serverutils.NewHttpError(fiber.StatusBadRequest, "Missing message text")
		}
		return ctx.JSON(dto.IntakeReply{
			Status: "success",
			Reply:  c.honeypotService.Engage(ctx.Context(), messageText),
		})
	}

	if !c.hasLLM {
		return serverutils.NewHttpError(fiber.StatusInternalServerError, "LLM API key not configured")
	}

	if messageText == "" {
		// Connectivity probes send empty bodies; answer with an empty
		// but well-formed result instead of an error.
		return ctx.JSON(emptyIntakeResponse("No message content provided"))
	}

	res, err := c.honeypotService.Intake(ctx.Context(), sessionId, messageText, sniffHistory(body))
	if err != nil {
		resp := emptyIntakeResponse("Error: " + err.Error())
		resp.Status = "error"
		return ctx.JSON(resp)
	}

	return ctx.JSON(res)
}

// sniffSessionId accepts the session id under any of the field names seen
// in the wild, generating one when absent.
func sniffSessionId(body map[string]interface{}) string {
	for _, key := range []string{"sessionId", "session_id", "id"} {
		if v, ok := body[key].(string); ok && v != "" {
			return v
		}
	}
	return uuid.NewString()
}

// sniffMessage finds the inbound text. The second return reports whether
// the sender used the object form {"message": {"text": ...}}.
func sniffMessage(body map[string]interface{}) (string, bool) {
	switch msg := body["message"].(type) {
	case map[string]interface{}:
		if text, ok := msg["text"].(string); ok && text != "" {
			return text, true
		}
		if content, ok := msg["content"].(string); ok && content != "" {
			return content, true
		}
		return "", true
	case string:
		return msg, false
	}

	for _, key := range []string{"text", "content", "input"} {
		if v, ok := body[key].(string); ok && v != "" {
			return v, false
		}
	}
	return "", false
}

// sniffHistory converts a caller-supplied conversationHistory into
// transcript messages, tolerating both sender/text and role/content keys.
func sniffHistory(body map[string]interface{}) []store.Message {
	raw, ok := body["conversationHistory"].([]interface{})
	if !ok {
		return nil
	}

	history := make([]store.Message, 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		role, _ := entry["sender"].(string)
		if role == "" {
			role, _ = entry["role"].(string)
		}
		if role == "" {
			role = store.RoleUser
		}

		text, _ := entry["text"].(string)
		if text == "" {
			text, _ = entry["content"].(string)
		}

		history = append(history, store.Message{Role: role, Content: text})
	}
	return history
}

func emptyIntakeResponse(notes string) *dto.IntakeResponse {
	return &dto.IntakeResponse{
		Status: "success",
		ExtractedIntelligence: dto.IntakeIntelligenceDTO{
			BankAccounts:       []string{},
			UpiIds:             []string{},
			PhishingLinks:      []string{},
			PhoneNumbers:       []string{},
			SuspiciousKeywords: []string{},
		},
		AgentNotes: notes,
	}
}
