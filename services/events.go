package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/yashrajoria/storefront/metrics"
	"github.com/yashrajoria/storefront/pkg/awsx"
	"go.uber.org/zap"
)

// eventPublisher sends domain events to SNS. Publishing is best-effort: failures
// are logged and counted, never returned.
type eventPublisher struct {
	sns      awsx.SNSPublisher
	topicArn string
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

func newEventPublisher(sns awsx.SNSPublisher, topicArn string, logger *zap.Logger, m *metrics.Metrics) *eventPublisher {
	return &eventPublisher{sns: sns, topicArn: topicArn, logger: logger, metrics: m}
}

func (p *eventPublisher) publish(ctx context.Context, eventType string, event interface{}) {
	if p.sns == nil || p.topicArn == "" {
		p.logger.Debug("SNS client not configured, skipping event", zap.String("event", eventType))
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal event", zap.String("event", eventType), zap.Error(err))
		p.metrics.PublishFailed(eventType)
		return
	}

	// The request may finish before SNS answers; keep its values but not its deadline.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := p.sns.Publish(pubCtx, p.topicArn, body); err != nil {
		p.logger.Error("Failed to publish event", zap.String("event", eventType), zap.Error(err))
		p.metrics.PublishFailed(eventType)
		return
	}
	p.logger.Info("Published event", zap.String("event", eventType))
}

// EventPublisher names the SNS client and topic a service publishes to. A zero
// value disables publishing.
type EventPublisher struct {
	SNS      awsx.SNSPublisher
	TopicArn string
}
