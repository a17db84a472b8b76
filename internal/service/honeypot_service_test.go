package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/bytebender77/honeypot/internal/dto"
	"github.com/bytebender77/honeypot/internal/pkg/logger"
	"github.com/bytebender77/honeypot/internal/repository/memory"
	"github.com/bytebender77/honeypot/pkg/classifier"
	"github.com/bytebender77/honeypot/pkg/engine"
	"github.com/bytebender77/honeypot/pkg/intel"
	"github.com/bytebender77/honeypot/pkg/persona"
	"github.com/bytebender77/honeypot/pkg/store"
)

type stubClassifier struct {
	isScam bool
}

func (s *stubClassifier) Classify(ctx context.Context, message string) classifier.Result {
	return classifier.Result{IsScam: s.isScam, Confidence: 0.9, Reason: "stub verdict"}
}

type stubResponder struct {
	reply string
}

func (s *stubResponder) Respond(ctx context.Context, message string) string {
	return s.reply
}

type regexOnlyExtractor struct{}

func (regexOnlyExtractor) Extract(ctx context.Context, conversation []store.Message) intel.Result {
	var text string
	for _, m := range conversation {
		text += m.Content + "\n"
	}
	return intel.ExtractViaRegex(text)
}

type capturingPublisher struct {
	published [][]byte
}

func (p *capturingPublisher) Publish(ctx context.Context, payload []byte) error {
	p.published = append(p.published, payload)
	return nil
}

func newTestService(isScam bool, reply string, pub IPublisherService) IHoneypotService {
	responder := &stubResponder{reply: reply}
	eng := engine.NewEngine(
		memory.NewSessionRepository(),
		&stubClassifier{isScam: isScam},
		responder,
		regexOnlyExtractor{},
		6,
		logger.NopLogger{},
	)
	return NewHoneypotService(eng, responder, regexOnlyExtractor{}, pub, false, true, logger.NopLogger{})
}

func TestProcessMessagePublishesOnceOnCompletion(t *testing.T) {
	pub := &capturingPublisher{}
	svc := newTestService(false, "unused", pub)

	res, err := svc.ProcessMessage(context.Background(), "s1", "see you at lunch")
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsComplete {
		t.Fatal("benign message must complete the session")
	}
	if len(pub.published) != 1 {
		t.Fatalf("published %d completion events, want 1", len(pub.published))
	}

	var msg dto.SessionCompletedMessage
	if err := json.Unmarshal(pub.published[0], &msg); err != nil {
		t.Fatal(err)
	}
	if msg.SessionId != "s1" {
		t.Errorf("SessionId = %q, want s1", msg.SessionId)
	}

	// Reprocessing a completed session is a no-op and must not republish.
	if _, err := svc.ProcessMessage(context.Background(), "s1", "hello again"); err != nil {
		t.Fatal(err)
	}
	if len(pub.published) != 1 {
		t.Error("sticky completion must not publish again")
	}
}

func TestEndSessionPublishesOnce(t *testing.T) {
	pub := &capturingPublisher{}
	svc := newTestService(true, "why?", pub)

	if _, err := svc.ProcessMessage(context.Background(), "s1", "pay to fraud@ybl"); err != nil {
		t.Fatal(err)
	}
	if len(pub.published) != 0 {
		t.Fatal("open session must not publish")
	}

	if _, err := svc.EndSession(context.Background(), "s1", ""); err != nil {
		t.Fatal(err)
	}
	if len(pub.published) != 1 {
		t.Fatalf("published %d events after forced end, want 1", len(pub.published))
	}

	if _, err := svc.EndSession(context.Background(), "s1", "again"); err != nil {
		t.Fatal(err)
	}
	if len(pub.published) != 1 {
		t.Error("ending an already-complete session must not republish")
	}
}

func TestIntakeAggregatesAcrossCalls(t *testing.T) {
	pub := &capturingPublisher{}
	svc := newTestService(true, "Which account?", pub)

	first, err := svc.Intake(context.Background(), "s1", "send fee to fraud@ybl", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !first.ScamDetected {
		t.Error("scam verdict must set scamDetected")
	}
	if first.EngagementMetrics.TotalMessagesExchanged != 2 {
		t.Errorf("TotalMessagesExchanged = %d, want 2", first.EngagementMetrics.TotalMessagesExchanged)
	}
	if len(first.ExtractedIntelligence.UpiIds) != 1 || first.ExtractedIntelligence.UpiIds[0] != "fraud@ybl" {
		t.Errorf("UpiIds = %v, want [fraud@ybl]", first.ExtractedIntelligence.UpiIds)
	}
	if first.AgentResponse == nil || *first.AgentResponse != "Which account?" {
		t.Error("agentResponse must carry the persona reply")
	}

	second, err := svc.Intake(context.Background(), "s1", "also try backup@paytm", nil)
	if err != nil {
		t.Fatal(err)
	}
	if second.EngagementMetrics.TotalMessagesExchanged != 4 {
		t.Errorf("TotalMessagesExchanged = %d, want 4", second.EngagementMetrics.TotalMessagesExchanged)
	}
	if len(second.ExtractedIntelligence.UpiIds) != 2 {
		t.Errorf("UpiIds = %v, want both handles", second.ExtractedIntelligence.UpiIds)
	}

	// Scam detected and four messages exchanged: the report fires.
	if len(pub.published) == 0 {
		t.Error("sustained scam engagement must trigger the reporter")
	}
}

func TestBuildCallbackPayloadPrefersIntakeAggregate(t *testing.T) {
	pub := &capturingPublisher{}
	svc := newTestService(true, "why?", pub)

	if _, err := svc.Intake(context.Background(), "s1", "wire to account no. 123456789012", nil); err != nil {
		t.Fatal(err)
	}

	payload, err := svc.BuildCallbackPayload("s1")
	if err != nil {
		t.Fatal(err)
	}
	if payload.SessionId != "s1" || !payload.ScamDetected {
		t.Errorf("payload = %+v, want scam session s1", payload)
	}
	if len(payload.ExtractedIntelligence.BankAccounts) != 1 {
		t.Errorf("BankAccounts = %v, want one entry", payload.ExtractedIntelligence.BankAccounts)
	}
	if payload.AgentNotes == "" {
		t.Error("agentNotes must not be empty")
	}
}

func TestBuildCallbackPayloadUnknownSession(t *testing.T) {
	svc := newTestService(true, "why?", &capturingPublisher{})

	if _, err := svc.BuildCallbackPayload("missing"); err == nil {
		t.Error("unknown session must error")
	}
}

func TestRuleBasedReply(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "account keywords",
			message: "Your bank account is BLOCKED, verify OTP now",
			want:    "Why is my account being blocked? I need to understand, can you explain?",
		},
		{
			name:    "prize keywords",
			message: "Congratulations you won a lottery",
			want:    "I did not enter any draw. Why do I have to pay, can you explain?",
		},
		{
			name:    "payment keywords",
			message: "send the processing fee via UPI",
			want:    "Why do I need to pay? Please explain the process.",
		},
		{
			name:    "no keyword match",
			message: "hello there",
			want:    persona.FallbackResponse,
		},
		{
			name:    "empty",
			message: "  ",
			want:    persona.FallbackResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ruleBasedReply(tt.message); got != tt.want {
				t.Errorf("ruleBasedReply(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestEngageFastReplyOnly(t *testing.T) {
	responder := &stubResponder{reply: "model reply"}
	eng := engine.NewEngine(memory.NewSessionRepository(), &stubClassifier{isScam: true}, responder, regexOnlyExtractor{}, 6, logger.NopLogger{})

	fast := NewHoneypotService(eng, responder, regexOnlyExtractor{}, &capturingPublisher{}, true, true, logger.NopLogger{})
	if got := fast.Engage(context.Background(), "verify your account"); got == "model reply" {
		t.Error("fast-reply mode must not call the model")
	}

	full := NewHoneypotService(eng, responder, regexOnlyExtractor{}, &capturingPublisher{}, false, true, logger.NopLogger{})
	if got := full.Engage(context.Background(), "verify your account"); got != "model reply" {
		t.Errorf("Engage() = %q, want model reply", got)
	}
}
