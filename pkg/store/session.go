package store

// Message roles within a honeypot conversation.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// Message is a single entry in the conversation transcript.
type Message struct {
	Role    string `json:"role"` // "user" (the scammer) | "agent" (the honeypot persona)
	Content string `json:"content"`
}

// Classification is the verdict stored on a session, overwritten per incoming message.
type Classification struct {
	IsScam     bool    `json:"is_scam"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Intel holds the indicators extracted from a completed scam conversation.
// Empty slices are a valid result: absence of evidence, not a failure.
type Intel struct {
	BankAccounts    []string `json:"bank_accounts"`
	UpiIDs          []string `json:"upi_ids"`
	PhishingLinks   []string `json:"phishing_links"`
	OtherIndicators []string `json:"other_indicators"`
}

// Session is the active honeypot conversation state held in memory.
//
// IsComplete is monotonic: once true, the session accepts no further
// classification or engagement work. ExtractedIntel is set at most once,
// at the moment of completion, and only for scam-classified sessions.
type Session struct {
	ID             string          `json:"id"`
	Turns          int             `json:"turns"`
	Conversation   []Message       `json:"conversation"`
	IsComplete     bool            `json:"is_complete"`
	Classification *Classification `json:"classification"`
	AgentReply     string          `json:"agent_reply"`
	StopReason     string          `json:"stop_reason"`
	ExtractedIntel *Intel          `json:"extracted_intel"`
}

// AddUserMessage appends a scammer message to the transcript.
func (s *Session) AddUserMessage(content string) {
	s.Conversation = append(s.Conversation, Message{Role: RoleUser, Content: content})
}

// AddAgentMessage appends a persona reply to the transcript.
func (s *Session) AddAgentMessage(content string) {
	s.Conversation = append(s.Conversation, Message{Role: RoleAgent, Content: content})
}

// MarkComplete closes the session. The first reason wins; later calls are no-ops.
func (s *Session) MarkComplete(reason string) {
	if s.IsComplete {
		return
	}
	s.IsComplete = true
	s.StopReason = reason
}
