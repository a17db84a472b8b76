// FILE: internal/pkg/mailer/alert_mailer.go
package mailer

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/bytebender77/honeypot/internal/dto"
)

type IAlertMailer interface {
	SendScamAlert(toEmail string, payload dto.CallbackPayload) error
}

type alertMailer struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewAlertMailer(host string, port int, username, password, senderEmail, senderName string) IAlertMailer {
	d := gomail.NewDialer(host, port, username, password)

	return &alertMailer{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (s *alertMailer) SendScamAlert(toEmail string, payload dto.CallbackPayload) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Scam session concluded: %s", payload.SessionId))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Honeypot session concluded</h2>
			<p><b>Session:</b> %s</p>
			<p><b>Scam detected:</b> %v</p>
			<p><b>Messages exchanged:</b> %d</p>
			<p><b>UPI IDs:</b> %s</p>
			<p><b>Bank accounts:</b> %s</p>
			<p><b>Links:</b> %s</p>
			<p><b>Notes:</b> %s</p>
		</div>
	`,
		payload.SessionId,
		payload.ScamDetected,
		payload.TotalMessagesExchanged,
		joinOrDash(payload.ExtractedIntelligence.UpiIds),
		joinOrDash(payload.ExtractedIntelligence.BankAccounts),
		joinOrDash(payload.ExtractedIntelligence.PhishingLinks),
		payload.AgentNotes,
	)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send scam alert to %s: %w", toEmail, err)
	}
	return nil
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
