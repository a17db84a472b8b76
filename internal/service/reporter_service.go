// FILE: internal/service/reporter_service.go
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/bytebender77/honeypot/internal/constant"
	"github.com/bytebender77/honeypot/internal/dto"
	"github.com/bytebender77/honeypot/internal/pkg/logger"
	"github.com/bytebender77/honeypot/internal/pkg/mailer"
	"github.com/bytebender77/honeypot/internal/websocket"
	"github.com/bytebender77/honeypot/pkg/events"
	pktNats "github.com/bytebender77/honeypot/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IReporterService fans out final session results. Every sink is
// fire-and-forget: a failed report never surfaces to the message path.
type IReporterService interface {
	Consume(ctx context.Context) error
}

type reporterService struct {
	pubSub          *gochannel.GoChannel
	topicName       string
	honeypotService IHoneypotService
	hub             *websocket.Hub
	eventPublisher  *pktNats.Publisher
	alertMailer     mailer.IAlertMailer
	callbackURL     string
	alertEmail      string
	httpClient      *http.Client
	logger          logger.ILogger
}

func NewReporterService(
	pubSub *gochannel.GoChannel,
	topicName string,
	honeypotService IHoneypotService,
	hub *websocket.Hub,
	eventPublisher *pktNats.Publisher,
	alertMailer mailer.IAlertMailer,
	callbackURL string,
	alertEmail string,
	log logger.ILogger,
) IReporterService {
	return &reporterService{
		pubSub:          pubSub,
		topicName:       topicName,
		honeypotService: honeypotService,
		hub:             hub,
		eventPublisher:  eventPublisher,
		alertMailer:     alertMailer,
		callbackURL:     callbackURL,
		alertEmail:      alertEmail,
		httpClient:      &http.Client{Timeout: 5 * time.Second},
		logger:          log,
	}
}

func (rs *reporterService) Consume(ctx context.Context) error {
	messages, err := rs.pubSub.Subscribe(ctx, rs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			rs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (rs *reporterService) processMessage(ctx context.Context, msg *message.Message) {
	// Reports are best-effort; a malformed or unprocessable message is
	// acked so it never blocks the bus.
	defer msg.Ack()

	var payload dto.SessionCompletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		rs.logger.Error("ReporterService", "Failed to unmarshal completion message", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	report, err := rs.honeypotService.BuildCallbackPayload(payload.SessionId)
	if err != nil {
		rs.logger.Warn("ReporterService", "Session vanished before reporting", map[string]interface{}{
			"session_id": payload.SessionId,
		})
		return
	}

	rs.sendCallback(ctx, report)
	rs.publishEvent(ctx, report)
	rs.broadcast(report)
	rs.sendAlert(report)
}

func (rs *reporterService) sendCallback(ctx context.Context, report *dto.CallbackPayload) {
	if rs.callbackURL == "" {
		return
	}

	body, err := json.Marshal(report)
	if err != nil {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rs.callbackURL, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := rs.httpClient.Do(req)
	if err != nil {
		rs.logger.Warn("ReporterService", "Callback delivery failed", map[string]interface{}{
			"session_id": report.SessionId,
			"error":      err.Error(),
		})
		return
	}
	defer resp.Body.Close()

	rs.logger.Info("ReporterService", "Callback delivered", map[string]interface{}{
		"session_id": report.SessionId,
		"status":     resp.StatusCode,
	})
}

func (rs *reporterService) publishEvent(ctx context.Context, report *dto.CallbackPayload) {
	if rs.eventPublisher == nil {
		return
	}

	evt := events.BaseEvent{
		Type: constant.TopicSessionCompleted,
		Data: map[string]interface{}{
			"sessionId":              report.SessionId,
			"scamDetected":           report.ScamDetected,
			"totalMessagesExchanged": report.TotalMessagesExchanged,
			"extractedIntelligence":  report.ExtractedIntelligence,
			"agentNotes":             report.AgentNotes,
		},
		OccurredAt: time.Now(),
	}
	if err := rs.eventPublisher.Publish(ctx, evt); err != nil {
		rs.logger.Warn("ReporterService", "Failed to publish SESSION_COMPLETED event", map[string]interface{}{
			"session_id": report.SessionId,
			"error":      err.Error(),
		})
	}
}

func (rs *reporterService) broadcast(report *dto.CallbackPayload) {
	if rs.hub == nil {
		return
	}
	rs.hub.Broadcast("session_completed", report)
}

func (rs *reporterService) sendAlert(report *dto.CallbackPayload) {
	if rs.alertMailer == nil || rs.alertEmail == "" || !report.ScamDetected {
		return
	}
	if err := rs.alertMailer.SendScamAlert(rs.alertEmail, *report); err != nil {
		rs.logger.Warn("ReporterService", "Scam alert mail failed", map[string]interface{}{
			"session_id": report.SessionId,
			"error":      err.Error(),
		})
	}
}
