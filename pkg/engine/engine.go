// FILE: pkg/engine/engine.go
// PURPOSE: Turn-bounded conversation state machine. Sequences classification,
// engagement, exit check, and one-shot extraction for each inbound message.

package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bytebender77/honeypot/internal/pkg/logger"
	"github.com/bytebender77/honeypot/internal/repository/memory"
	"github.com/bytebender77/honeypot/pkg/classifier"
	"github.com/bytebender77/honeypot/pkg/intel"
	"github.com/bytebender77/honeypot/pkg/store"
)

// DefaultMaxTurns is the hard ceiling on engagement replies per session.
const DefaultMaxTurns = 6

// Stop reasons recorded at the completion transition.
const (
	StopReasonBenign     = "Message classified as benign"
	StopReasonEmptyInput = "Empty user input"
	StopReasonManual     = "Manually ended"
)

// ErrSessionNotFound is returned by introspection and force-end operations.
// Message processing never sees it: sessions are created lazily there.
var ErrSessionNotFound = errors.New("session not found")

// MessageClassifier yields a scam verdict for a single message.
type MessageClassifier interface {
	Classify(ctx context.Context, message string) classifier.Result
}

// PersonaResponder yields one in-character engagement reply.
type PersonaResponder interface {
	Respond(ctx context.Context, message string) string
}

// IntelExtractor pulls indicators out of a finished transcript.
type IntelExtractor interface {
	Extract(ctx context.Context, conversation []store.Message) intel.Result
}

// Engine owns per-session state and drives the honeypot pipeline:
//
//	classify -> (benign: complete) | (scam: engage -> exit check -> complete?)
//
// Each inbound message is processed as one synchronous unit; on the
// transition to complete for a scam session, extraction runs exactly once.
type Engine struct {
	sessions   memory.ISessionRepository
	classifier MessageClassifier
	responder  PersonaResponder
	extractor  IntelExtractor
	maxTurns   int
	logger     logger.ILogger
}

func NewEngine(
	sessions memory.ISessionRepository,
	msgClassifier MessageClassifier,
	responder PersonaResponder,
	extractor IntelExtractor,
	maxTurns int,
	log logger.ILogger,
) *Engine {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Engine{
		sessions:   sessions,
		classifier: msgClassifier,
		responder:  responder,
		extractor:  extractor,
		maxTurns:   maxTurns,
		logger:     log,
	}
}

// MaxTurns reports the configured engagement ceiling.
func (e *Engine) MaxTurns() int {
	return e.maxTurns
}

// ProcessMessage runs one full transition for an inbound message. Sessions
// are created lazily; a completed session is a sticky no-op that returns its
// last known state. Never returns an error: every component degrades to its
// documented fallback.
func (e *Engine) ProcessMessage(ctx context.Context, sessionID, message string) *store.Session {
	session, found := e.sessions.Get(sessionID)
	if !found {
		session = &store.Session{ID: sessionID}
	}

	if session.IsComplete {
		return session
	}

	// 1. Classify, record verdict, append the inbound message.
	verdict := e.classifier.Classify(ctx, message)
	session.Classification = &store.Classification{
		IsScam:     verdict.IsScam,
		Confidence: verdict.Confidence,
		Reason:     verdict.Reason,
	}
	session.AddUserMessage(message)

	if !verdict.IsScam {
		// 2. Benign traffic ends here; the persona is never engaged.
		session.MarkComplete(StopReasonBenign)
	} else {
		// 3. Engage: one persona reply, one turn.
		reply := e.responder.Respond(ctx, message)
		session.AgentReply = reply
		session.AddAgentMessage(reply)
		session.Turns++

		// 4. Exit check: hard ceiling first, then the counterpart going quiet.
		if session.Turns >= e.maxTurns {
			session.MarkComplete(fmt.Sprintf("Maximum turns (%d) reached", e.maxTurns))
		} else if strings.TrimSpace(message) == "" {
			session.MarkComplete(StopReasonEmptyInput)
		}
	}

	// 5. On the completion transition for a scam session, extract once.
	e.maybeExtract(ctx, session)

	e.sessions.Save(session)
	return session
}

// GetSession returns the current state of a session.
func (e *Engine) GetSession(sessionID string) (*store.Session, error) {
	session, found := e.sessions.Get(sessionID)
	if !found {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// EndSession forces completion without engaging the persona. Extraction still
// runs if the stored classification says scam.
func (e *Engine) EndSession(ctx context.Context, sessionID, reason string) (*store.Session, error) {
	session, found := e.sessions.Get(sessionID)
	if !found {
		return nil, ErrSessionNotFound
	}

	if reason == "" {
		reason = StopReasonManual
	}
	session.MarkComplete(reason)
	e.maybeExtract(ctx, session)
	e.sessions.Save(session)
	return session, nil
}

// ClearSession discards session memory. Clearing an unknown id is a no-op.
func (e *Engine) ClearSession(sessionID string) {
	e.sessions.Delete(sessionID)
}

// maybeExtract runs intel extraction at most once per session, only after
// completion and only for scam-classified conversations.
func (e *Engine) maybeExtract(ctx context.Context, session *store.Session) {
	if !session.IsComplete || session.ExtractedIntel != nil {
		return
	}
	if session.Classification == nil || !session.Classification.IsScam {
		return
	}

	result := intel.NewResult()
	if e.extractor != nil {
		result = e.extractor.Extract(ctx, session.Conversation)
	}

	session.ExtractedIntel = &store.Intel{
		BankAccounts:    result.BankAccounts,
		UpiIDs:          result.UpiIDs,
		PhishingLinks:   result.PhishingLinks,
		OtherIndicators: result.OtherIndicators,
	}

	e.logger.Info("Engine", "Intel extraction completed", map[string]interface{}{
		"session_id": session.ID,
		"turns":      session.Turns,
		"empty":      result.IsEmpty(),
	})
}
