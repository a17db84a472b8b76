package dto

// --- Versioned API (strict) ---

type ProcessMessageRequest struct {
	// SessionId is optional; a UUID is generated when absent.
	SessionId string `json:"session_id" validate:"omitempty,max=128"`
	Message   string `json:"message" validate:"required"`
}

type EndSessionRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=200"`
}

type ClassificationDTO struct {
	IsScam     bool    `json:"is_scam"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

type ExtractedIntelDTO struct {
	BankAccounts    []string `json:"bank_accounts"`
	UpiIds          []string `json:"upi_ids"`
	PhishingLinks   []string `json:"phishing_links"`
	OtherIndicators []string `json:"other_indicators"`
}

// SessionResultResponse is the full state returned for every honeypot
// operation: process, introspect, and force-end.
type SessionResultResponse struct {
	SessionId      string             `json:"session_id"`
	Classification *ClassificationDTO `json:"classification"`
	AgentReply     *string            `json:"agent_reply"`
	ExtractedIntel *ExtractedIntelDTO `json:"extracted_intel"`
	IsComplete     bool               `json:"is_complete"`
	Turns          int                `json:"turns"`
	StopReason     *string            `json:"stop_reason"`
}

// --- Flexible intake endpoint (external transport format, camelCase) ---

type EngagementMetricsDTO struct {
	EngagementDurationSeconds int `json:"engagementDurationSeconds"`
	TotalMessagesExchanged    int `json:"totalMessagesExchanged"`
}

type IntakeIntelligenceDTO struct {
	BankAccounts       []string `json:"bankAccounts"`
	UpiIds             []string `json:"upiIds"`
	PhishingLinks      []string `json:"phishingLinks"`
	PhoneNumbers       []string `json:"phoneNumbers"`
	SuspiciousKeywords []string `json:"suspiciousKeywords"`
}

type IntakeResponse struct {
	Status                string                `json:"status"`
	ScamDetected          bool                  `json:"scamDetected"`
	EngagementMetrics     EngagementMetricsDTO  `json:"engagementMetrics"`
	ExtractedIntelligence IntakeIntelligenceDTO `json:"extractedIntelligence"`
	AgentResponse         *string               `json:"agentResponse"`
	AgentNotes            string                `json:"agentNotes"`
}

// IntakeReply is the minimal submission-format answer: {status, reply}.
type IntakeReply struct {
	Status string `json:"status"`
	Reply  string `json:"reply"`
}

// --- Reporting (fire-and-forget collaborators) ---

// SessionCompletedMessage travels over the in-process event bus when a
// session reaches its terminal state.
type SessionCompletedMessage struct {
	SessionId string `json:"session_id"`
}

// CallbackPayload is the final-result shape delivered to the external
// reporting endpoint.
type CallbackPayload struct {
	SessionId              string                `json:"sessionId"`
	ScamDetected           bool                  `json:"scamDetected"`
	TotalMessagesExchanged int                   `json:"totalMessagesExchanged"`
	ExtractedIntelligence  IntakeIntelligenceDTO `json:"extractedIntelligence"`
	AgentNotes             string                `json:"agentNotes"`
}
