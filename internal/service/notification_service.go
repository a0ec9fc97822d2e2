package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/gym-access-service/internal/config"
	"github.com/spec-kit/gym-access-service/internal/events"
)

const (
	lowBalanceThreshold  = 100.0
	expiryWarningHorizon = 7 * 24 * time.Hour
)

// NotificationService handles emitting notifications for domain events:
// front desk gets pinged when an entering member is low on balance or close
// to subscription expiry.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventMemberEntered, n.handleMemberEntered)
	n.dispatcher.Subscribe(events.EventStaffScanRouted, n.handleStaffScanRouted)
}

func (n *NotificationService) handleMemberEntered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MemberEnteredPayload)
	if !ok {
		return nil
	}

	if payload.RemainingBalance != nil && *payload.RemainingBalance < lowBalanceThreshold {
		n.logger.Info("low balance on entry",
			zap.String("rfid_tag", event.IdentityTag),
			zap.Float64("remaining_balance", *payload.RemainingBalance))
		n.sendWebhookNotificationStub(ctx, event)
	}

	if payload.Expiry != nil && time.Until(*payload.Expiry) < expiryWarningHorizon {
		n.logger.Info("subscription near expiry on entry",
			zap.String("rfid_tag", event.IdentityTag),
			zap.Time("subscription_expiry", *payload.Expiry))
		n.sendEmailNotificationStub(ctx, event)
	}
	return nil
}

func (n *NotificationService) handleStaffScanRouted(ctx context.Context, event events.Event) error {
	n.logger.Info("StaffScanRouted", zap.String("rfid_tag", event.IdentityTag), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("rfid_tag", event.IdentityTag),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("rfid_tag", event.IdentityTag),
		zap.String("event_type", string(event.Type)))
}
