package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/bytebender77/honeypot/internal/pkg/logger"
	"github.com/bytebender77/honeypot/internal/repository/memory"
	"github.com/bytebender77/honeypot/pkg/classifier"
	"github.com/bytebender77/honeypot/pkg/intel"
	"github.com/bytebender77/honeypot/pkg/store"
)

type fixedClassifier struct {
	isScam bool
	reason string
	calls  int
}

func (f *fixedClassifier) Classify(ctx context.Context, message string) classifier.Result {
	f.calls++
	return classifier.Result{IsScam: f.isScam, Confidence: 0.9, Reason: f.reason}
}

type fixedResponder struct {
	reply string
	calls int
}

func (f *fixedResponder) Respond(ctx context.Context, message string) string {
	f.calls++
	return f.reply
}

type countingExtractor struct {
	result intel.Result
	calls  int
}

func (c *countingExtractor) Extract(ctx context.Context, conversation []store.Message) intel.Result {
	c.calls++
	return c.result
}

func newTestEngine(c MessageClassifier, r PersonaResponder, x IntelExtractor, maxTurns int) *Engine {
	return NewEngine(memory.NewSessionRepository(), c, r, x, maxTurns, logger.NopLogger{})
}

func TestProcessMessageBenignCompletesImmediately(t *testing.T) {
	responder := &fixedResponder{reply: "hello"}
	extractor := &countingExtractor{result: intel.NewResult()}
	e := newTestEngine(&fixedClassifier{isScam: false, reason: "Ordinary greeting"}, responder, extractor, 6)

	session := e.ProcessMessage(context.Background(), "s1", "hi, lunch tomorrow?")

	if !session.IsComplete {
		t.Fatal("benign session must complete on the first message")
	}
	if session.StopReason != StopReasonBenign {
		t.Errorf("StopReason = %q, want %q", session.StopReason, StopReasonBenign)
	}
	if session.Turns != 0 {
		t.Errorf("Turns = %d, want 0", session.Turns)
	}
	if responder.calls != 0 {
		t.Error("persona must never engage benign traffic")
	}
	if extractor.calls != 0 {
		t.Error("benign sessions must not be extracted")
	}
	if session.AgentReply != "" {
		t.Errorf("AgentReply = %q, want empty", session.AgentReply)
	}
}

func TestProcessMessageScamEngages(t *testing.T) {
	responder := &fixedResponder{reply: "Why is my account blocked?"}
	e := newTestEngine(&fixedClassifier{isScam: true, reason: "Payment demand"}, responder, &countingExtractor{result: intel.NewResult()}, 6)

	session := e.ProcessMessage(context.Background(), "s1", "Pay the fee or lose your account")

	if session.IsComplete {
		t.Fatal("scam session must stay open before the turn ceiling")
	}
	if session.Turns != 1 {
		t.Errorf("Turns = %d, want 1", session.Turns)
	}
	if session.AgentReply != responder.reply {
		t.Errorf("AgentReply = %q, want %q", session.AgentReply, responder.reply)
	}
	if len(session.Conversation) != 2 {
		t.Fatalf("Conversation length = %d, want 2", len(session.Conversation))
	}
	if session.Conversation[0].Role != store.RoleUser || session.Conversation[1].Role != store.RoleAgent {
		t.Error("conversation must record user then agent")
	}
}

func TestProcessMessageTurnCeiling(t *testing.T) {
	responder := &fixedResponder{reply: "tell me more"}
	extractor := &countingExtractor{result: intel.NewResult()}
	e := newTestEngine(&fixedClassifier{isScam: true, reason: "scam"}, responder, extractor, 6)

	var session *store.Session
	for i := 0; i < 6; i++ {
		session = e.ProcessMessage(context.Background(), "s1", fmt.Sprintf("msg %d", i))
	}

	if !session.IsComplete {
		t.Fatal("session must complete on the sixth engagement")
	}
	wantReason := fmt.Sprintf("Maximum turns (%d) reached", 6)
	if session.StopReason != wantReason {
		t.Errorf("StopReason = %q, want %q", session.StopReason, wantReason)
	}
	if session.Turns != 6 {
		t.Errorf("Turns = %d, want 6", session.Turns)
	}
	if extractor.calls != 1 {
		t.Errorf("extractor ran %d times, want exactly once", extractor.calls)
	}

	// A seventh message is a sticky no-op: no reply, no extra turn.
	before := responder.calls
	again := e.ProcessMessage(context.Background(), "s1", "are you still there?")
	if responder.calls != before {
		t.Error("completed session must not engage the persona again")
	}
	if again.Turns != 6 || again.StopReason != wantReason {
		t.Error("completed session state must be unchanged")
	}
	if extractor.calls != 1 {
		t.Error("extraction must not rerun for a completed session")
	}
}

func TestProcessMessageEmptyInputEndsScamSession(t *testing.T) {
	e := newTestEngine(&fixedClassifier{isScam: true, reason: "scam"}, &fixedResponder{reply: "ok"}, &countingExtractor{result: intel.NewResult()}, 6)

	e.ProcessMessage(context.Background(), "s1", "pay the fee")
	session := e.ProcessMessage(context.Background(), "s1", "   ")

	if !session.IsComplete {
		t.Fatal("empty input on an open scam session must complete it")
	}
	if session.StopReason != StopReasonEmptyInput {
		t.Errorf("StopReason = %q, want %q", session.StopReason, StopReasonEmptyInput)
	}
	// The empty-input exchange still counts: the persona replied once.
	if session.Turns != 2 {
		t.Errorf("Turns = %d, want 2", session.Turns)
	}
}

func TestGetSessionUnknownId(t *testing.T) {
	e := newTestEngine(&fixedClassifier{}, &fixedResponder{}, &countingExtractor{}, 6)

	if _, err := e.GetSession("missing"); err != ErrSessionNotFound {
		t.Errorf("GetSession err = %v, want ErrSessionNotFound", err)
	}
	if _, err := e.EndSession(context.Background(), "missing", ""); err != ErrSessionNotFound {
		t.Errorf("EndSession err = %v, want ErrSessionNotFound", err)
	}
}

func TestEndSessionForcesCompletionAndExtraction(t *testing.T) {
	extractor := &countingExtractor{result: intel.Result{
		UpiIDs:          []string{"fraud@ybl"},
		BankAccounts:    []string{},
		PhishingLinks:   []string{},
		OtherIndicators: []string{},
	}}
	e := newTestEngine(&fixedClassifier{isScam: true, reason: "scam"}, &fixedResponder{reply: "why?"}, extractor, 6)

	e.ProcessMessage(context.Background(), "s1", "send to fraud@ybl")
	session, err := e.EndSession(context.Background(), "s1", "")
	if err != nil {
		t.Fatal(err)
	}

	if !session.IsComplete || session.StopReason != StopReasonManual {
		t.Errorf("StopReason = %q, want %q", session.StopReason, StopReasonManual)
	}
	if session.ExtractedIntel == nil {
		t.Fatal("force-ended scam session must carry extracted intel")
	}
	if len(session.ExtractedIntel.UpiIDs) != 1 || session.ExtractedIntel.UpiIDs[0] != "fraud@ybl" {
		t.Errorf("UpiIDs = %v, want [fraud@ybl]", session.ExtractedIntel.UpiIDs)
	}

	// Ending again keeps the first stop reason and does not re-extract.
	again, err := e.EndSession(context.Background(), "s1", "other reason")
	if err != nil {
		t.Fatal(err)
	}
	if again.StopReason != StopReasonManual {
		t.Error("first stop reason must win")
	}
	if extractor.calls != 1 {
		t.Errorf("extractor ran %d times, want exactly once", extractor.calls)
	}
}

func TestClearSession(t *testing.T) {
	e := newTestEngine(&fixedClassifier{isScam: true, reason: "scam"}, &fixedResponder{reply: "ok"}, &countingExtractor{result: intel.NewResult()}, 6)

	e.ProcessMessage(context.Background(), "s1", "pay up")
	e.ClearSession("s1")

	if _, err := e.GetSession("s1"); err != ErrSessionNotFound {
		t.Error("cleared session must be gone")
	}

	// Clearing an unknown id is a no-op.
	e.ClearSession("never-existed")
}

// End to end against the real regex extractor: a scam message carrying a
// UPI handle must surface it in the final intel.
func TestScamConversationYieldsUpiIntel(t *testing.T) {
	extractor := intel.NewExtractor(nil, logger.NopLogger{})
	e := newTestEngine(&fixedClassifier{isScam: true, reason: "Urgency and OTP demand"}, &fixedResponder{reply: "Which account is blocked?"}, extractor, 6)

	e.ProcessMessage(context.Background(), "s1", "URGENT: account blocked, send OTP to scammer@upi now")
	session, err := e.EndSession(context.Background(), "s1", "")
	if err != nil {
		t.Fatal(err)
	}

	if session.ExtractedIntel == nil {
		t.Fatal("expected extracted intel")
	}
	found := false
	for _, id := range session.ExtractedIntel.UpiIDs {
		if id == "scammer@upi" {
			found = true
		}
	}
	if !found {
		t.Errorf("UpiIDs = %v, want to contain scammer@upi", session.ExtractedIntel.UpiIDs)
	}
}
