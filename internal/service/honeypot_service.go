// FILE: internal/service/honeypot_service.go
package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bytebender77/honeypot/internal/dto"
	"github.com/bytebender77/honeypot/internal/mapper"
	"github.com/bytebender77/honeypot/internal/pkg/logger"
	"github.com/bytebender77/honeypot/pkg/engine"
	"github.com/bytebender77/honeypot/pkg/intel"
	"github.com/bytebender77/honeypot/pkg/persona"
	"github.com/bytebender77/honeypot/pkg/store"

	"github.com/patrickmn/go-cache"
)

type IHoneypotService interface {
	ProcessMessage(ctx context.Context, sessionId string, message string) (*dto.SessionResultResponse, error)
	GetSession(ctx context.Context, sessionId string) (*dto.SessionResultResponse, error)
	EndSession(ctx context.Context, sessionId string, reason string) (*dto.SessionResultResponse, error)
	ClearSession(ctx context.Context, sessionId string) error
	Engage(ctx context.Context, message string) string
	Intake(ctx context.Context, sessionId string, message string, history []store.Message) (*dto.IntakeResponse, error)
	BuildCallbackPayload(sessionId string) (*dto.CallbackPayload, error)
}

// intakeState accumulates per-session intelligence across intake calls.
// The versioned API extracts once at completion; the flexible intake
// endpoint extracts on every call and keeps the union.
type intakeState struct {
	StartedAt         time.Time
	MessagesExchanged int
	ScamDetected      bool
	Notes             []string
	Intel             intel.Result
}

type honeypotService struct {
	engine           *engine.Engine
	responder        engine.PersonaResponder
	extractor        engine.IntelExtractor
	publisherService IPublisherService
	intakeSessions   *cache.Cache
	fastReplyOnly    bool
	hasLLM           bool
	logger           logger.ILogger
}

func NewHoneypotService(
	eng *engine.Engine,
	responder engine.PersonaResponder,
	extractor engine.IntelExtractor,
	publisherService IPublisherService,
	fastReplyOnly bool,
	hasLLM bool,
	log logger.ILogger,
) IHoneypotService {
	return &honeypotService{
		engine:           eng,
		responder:        responder,
		extractor:        extractor,
		publisherService: publisherService,
		intakeSessions:   cache.New(1*time.Hour, 10*time.Minute),
		fastReplyOnly:    fastReplyOnly,
		hasLLM:           hasLLM,
		logger:           log,
	}
}

func (s *honeypotService) ProcessMessage(ctx context.Context, sessionId string, message string) (*dto.SessionResultResponse, error) {
	wasComplete := s.wasComplete(sessionId)

	session := s.engine.ProcessMessage(ctx, sessionId, message)

	if session.IsComplete && !wasComplete {
		s.publishCompleted(ctx, session.ID)
	}

	return mapper.SessionToResult(session), nil
}

func (s *honeypotService) GetSession(ctx context.Context, sessionId string) (*dto.SessionResultResponse, error) {
	session, err := s.engine.GetSession(sessionId)
	if err != nil {
		return nil, err
	}
	return mapper.SessionToResult(session), nil
}

func (s *honeypotService) EndSession(ctx context.Context, sessionId string, reason string) (*dto.SessionResultResponse, error) {
	wasComplete := s.wasComplete(sessionId)

	session, err := s.engine.EndSession(ctx, sessionId, reason)
	if err != nil {
		return nil, err
	}

	if !wasComplete {
		s.publishCompleted(ctx, session.ID)
	}

	return mapper.SessionToResult(session), nil
}

func (s *honeypotService) ClearSession(ctx context.Context, sessionId string) error {
	s.engine.ClearSession(sessionId)
	s.intakeSessions.Delete(sessionId)
	return nil
}

// Engage produces a single standalone reply without session bookkeeping.
// Model output is preferred; keyword rules cover the degraded paths.
func (s *honeypotService) Engage(ctx context.Context, message string) string {
	if s.fastReplyOnly || !s.hasLLM {
		return ruleBasedReply(message)
	}

	reply := s.responder.Respond(ctx, message)
	if reply == persona.FallbackResponse {
		return ruleBasedReply(message)
	}
	return reply
}

// Intake runs the full pipeline for the flexible endpoint and aggregates
// intelligence across calls for the same session.
func (s *honeypotService) Intake(ctx context.Context, sessionId string, message string, history []store.Message) (*dto.IntakeResponse, error) {
	state := s.intakeState(sessionId)
	wasComplete := s.wasComplete(sessionId)

	session := s.engine.ProcessMessage(ctx, sessionId, message)

	state.MessagesExchanged += 2
	if session.Classification != nil && session.Classification.IsScam {
		state.ScamDetected = true
		state.Notes = appendUnique(state.Notes, session.Classification.Reason)
	}

	// Extraction on every intake call: caller-supplied history plus the
	// exchange that just happened.
	transcript := make([]store.Message, 0, len(history)+2)
	transcript = append(transcript, history...)
	transcript = append(transcript, store.Message{Role: store.RoleUser, Content: message})
	if session.AgentReply != "" {
		transcript = append(transcript, store.Message{Role: store.RoleAgent, Content: session.AgentReply})
	}
	if s.extractor != nil {
		state.Intel = state.Intel.Merge(s.extractor.Extract(ctx, transcript))
	}

	s.intakeSessions.Set(sessionId, state, cache.DefaultExpiration)

	if (session.IsComplete && !wasComplete) || (state.ScamDetected && state.MessagesExchanged >= 4) {
		s.publishCompleted(ctx, sessionId)
	}

	resp := &dto.IntakeResponse{
		Status:       "success",
		ScamDetected: state.ScamDetected,
		EngagementMetrics: dto.EngagementMetricsDTO{
			EngagementDurationSeconds: int(time.Since(state.StartedAt).Seconds()),
			TotalMessagesExchanged:    state.MessagesExchanged,
		},
		ExtractedIntelligence: intelToIntakeDTO(state.Intel),
		AgentNotes:            joinNotes(state.Notes, ""),
	}
	if session.AgentReply != "" {
		reply := session.AgentReply
		resp.AgentResponse = &reply
	}
	return resp, nil
}

// BuildCallbackPayload assembles the final-result report for a session,
// preferring the intake aggregate when one exists.
func (s *honeypotService) BuildCallbackPayload(sessionId string) (*dto.CallbackPayload, error) {
	session, err := s.engine.GetSession(sessionId)
	if err != nil {
		return nil, err
	}

	payload := &dto.CallbackPayload{
		SessionId:              session.ID,
		TotalMessagesExchanged: len(session.Conversation),
		ExtractedIntelligence:  mapper.IntelToIntake(session.ExtractedIntel),
		AgentNotes:             "Engagement completed",
	}
	if session.Classification != nil {
		payload.ScamDetected = session.Classification.IsScam
	}

	if cached, found := s.intakeSessions.Get(sessionId); found {
		state := cached.(*intakeState)
		payload.ScamDetected = payload.ScamDetected || state.ScamDetected
		if state.MessagesExchanged > payload.TotalMessagesExchanged {
			payload.TotalMessagesExchanged = state.MessagesExchanged
		}
		payload.ExtractedIntelligence = mergeIntakeIntel(payload.ExtractedIntelligence, intelToIntakeDTO(state.Intel))
		payload.AgentNotes = joinNotes(state.Notes, "Engagement completed")
	}

	return payload, nil
}

func (s *honeypotService) wasComplete(sessionId string) bool {
	session, err := s.engine.GetSession(sessionId)
	return err == nil && session.IsComplete
}

func (s *honeypotService) intakeState(sessionId string) *intakeState {
	if cached, found := s.intakeSessions.Get(sessionId); found {
		return cached.(*intakeState)
	}
	return &intakeState{
		StartedAt: time.Now(),
		Intel:     intel.NewResult(),
	}
}

// publishCompleted notifies the reporting fanout. Reporting is auxiliary,
// so a bus failure is logged and swallowed.
func (s *honeypotService) publishCompleted(ctx context.Context, sessionId string) {
	msgJson, err := json.Marshal(dto.SessionCompletedMessage{SessionId: sessionId})
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		s.logger.Warn("HoneypotService", "Failed to publish session completion", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}
}

// ruleBasedReply answers from keyword rules, no model round trip.
func ruleBasedReply(message string) string {
	text := strings.ToLower(strings.TrimSpace(message))
	if text == "" {
		return persona.FallbackResponse
	}

	accountKeywords := []string{"account", "bank", "blocked", "suspended", "verify", "otp"}
	prizeKeywords := []string{"won", "prize", "lottery", "lucky draw", "reward"}
	paymentKeywords := []string{"upi", "pay", "payment", "send", "transfer", "fee"}

	if containsAny(text, accountKeywords) {
		return "Why is my account being blocked? I need to understand, can you explain?"
	}
	if containsAny(text, prizeKeywords) {
		return "I did not enter any draw. Why do I have to pay, can you explain?"
	}
	if containsAny(text, paymentKeywords) {
		return "Why do I need to pay? Please explain the process."
	}

	return persona.FallbackResponse
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func appendUnique(list []string, item string) []string {
	for _, existing := range list {
		if existing == item {
			return list
		}
	}
	return append(list, item)
}

func joinNotes(notes []string, fallback string) string {
	if len(notes) == 0 {
		return fallback
	}
	return strings.Join(notes, "; ")
}

func intelToIntakeDTO(result intel.Result) dto.IntakeIntelligenceDTO {
	return mapper.IntelToIntake(&store.Intel{
		BankAccounts:    result.BankAccounts,
		UpiIDs:          result.UpiIDs,
		PhishingLinks:   result.PhishingLinks,
		OtherIndicators: result.OtherIndicators,
	})
}

func mergeIntakeIntel(a, b dto.IntakeIntelligenceDTO) dto.IntakeIntelligenceDTO {
	return dto.IntakeIntelligenceDTO{
		BankAccounts:       unionStrings(a.BankAccounts, b.BankAccounts),
		UpiIds:             unionStrings(a.UpiIds, b.UpiIds),
		PhishingLinks:      unionStrings(a.PhishingLinks, b.PhishingLinks),
		PhoneNumbers:       unionStrings(a.PhoneNumbers, b.PhoneNumbers),
		SuspiciousKeywords: unionStrings(a.SuspiciousKeywords, b.SuspiciousKeywords),
	}
}

func unionStrings(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	seen := make(map[string]struct{}, len(a)+len(b))
	for _, v := range append(a, b...) {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
