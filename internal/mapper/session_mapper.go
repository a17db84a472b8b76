package mapper

import (
	"github.com/bytebender77/honeypot/internal/dto"
	"github.com/bytebender77/honeypot/pkg/store"
)

// SessionToResult maps internal session state to the API response shape.
// Optional fields become null rather than zero values, so a caller can tell
// "no reply yet" from "empty reply".
func SessionToResult(session *store.Session) *dto.SessionResultResponse {
	res := &dto.SessionResultResponse{
		SessionId:  session.ID,
		IsComplete: session.IsComplete,
		Turns:      session.Turns,
	}

	if session.Classification != nil {
		res.Classification = &dto.ClassificationDTO{
			IsScam:     session.Classification.IsScam,
			Confidence: session.Classification.Confidence,
			Reason:     session.Classification.Reason,
		}
	}
	if session.AgentReply != "" {
		reply := session.AgentReply
		res.AgentReply = &reply
	}
	if session.StopReason != "" {
		reason := session.StopReason
		res.StopReason = &reason
	}
	if session.ExtractedIntel != nil {
		res.ExtractedIntel = &dto.ExtractedIntelDTO{
			BankAccounts:    emptyIfNil(session.ExtractedIntel.BankAccounts),
			UpiIds:          emptyIfNil(session.ExtractedIntel.UpiIDs),
			PhishingLinks:   emptyIfNil(session.ExtractedIntel.PhishingLinks),
			OtherIndicators: emptyIfNil(session.ExtractedIntel.OtherIndicators),
		}
	}

	return res
}

// IntelToIntake maps extracted indicators to the external camelCase shape.
// IFSC codes and similar land in suspiciousKeywords; phone numbers are not
// extracted deterministically, so that list stays empty.
func IntelToIntake(intel *store.Intel) dto.IntakeIntelligenceDTO {
	out := dto.IntakeIntelligenceDTO{
		BankAccounts:       []string{},
		UpiIds:             []string{},
		PhishingLinks:      []string{},
		PhoneNumbers:       []string{},
		SuspiciousKeywords: []string{},
	}
	if intel == nil {
		return out
	}
	out.BankAccounts = emptyIfNil(intel.BankAccounts)
	out.UpiIds = emptyIfNil(intel.UpiIDs)
	out.PhishingLinks = emptyIfNil(intel.PhishingLinks)
	out.SuspiciousKeywords = emptyIfNil(intel.OtherIndicators)
	return out
}

func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
