package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/config"
	"github.com/spec-kit/account-service/internal/events"
)

// NotificationService handles emitting notifications for account events.
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
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventUserLoggedIn, n.handleUserLoggedIn)
	n.dispatcher.Subscribe(events.EventUserUpdated, n.handleUserUpdated)
	n.dispatcher.Subscribe(events.EventUserDeleted, n.handleUserDeleted)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("UserRegistered", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleUserLoggedIn(ctx context.Context, event events.Event) error {
	n.logger.Info("UserLoggedIn", zap.String("user_id", event.UserID))
	return nil
}

func (n *NotificationService) handleUserUpdated(ctx context.Context, event events.Event) error {
	n.logger.Info("UserUpdated", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleUserDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("UserDeleted", zap.String("user_id", event.UserID))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	n.logger.Info("email notification stub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("event", string(event.Type)),
		zap.String("user_id", event.UserID),
	)
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if n.cfg.WebhookURL == "" {
		return
	}
	n.logger.Info("webhook notification stub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event", string(event.Type)),
		zap.String("user_id", event.UserID),
	)
}
