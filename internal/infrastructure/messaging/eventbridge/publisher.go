// Package eventbridge publishes dashboard lifecycle events to an EventBridge bus.
package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	"dashboard-backend/internal/application/ports"
	apperrors "dashboard-backend/internal/errors"
)

// Source is the EventBridge source of every event this service emits.
const Source = "performance-dashboard"

// Client is the subset of the EventBridge API used by the publisher.
type Client interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// Publisher implements ports.EventPublisher.
type Publisher struct {
	client       Client
	eventBusName string
	logger       *zap.Logger
}

var _ ports.EventPublisher = (*Publisher)(nil)

func NewPublisher(client Client, eventBusName string, logger *zap.Logger) *Publisher {
	return &Publisher{client: client, eventBusName: eventBusName, logger: logger.Named("EventBridgePublisher")}
}

// Publish sends event as a single PutEvents entry with the event type as
// detail-type and the dashboard as resource.
func (p *Publisher) Publish(ctx context.Context, event ports.DashboardEvent) error {
	detail, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	result, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{{
			EventBusName: aws.String(p.eventBusName),
			Source:       aws.String(Source),
			DetailType:   aws.String(string(event.Type)),
			Detail:       aws.String(string(detail)),
			Time:         aws.Time(event.OccurredAt),
			Resources:    []string{"dashboard/" + event.DashboardID},
		}},
	})
	if err != nil {
		return apperrors.External(apperrors.CodeEventPublishFail, "Failed to publish event").
			WithOperation("PutEvents").
			WithResource(string(event.Type)).
			WithCause(err).
			Build()
	}

	if result.FailedEntryCount > 0 {
		for _, entry := range result.Entries {
			if entry.ErrorCode != nil {
				p.logger.Error("Failed to publish event",
					zap.String("eventType", string(event.Type)),
					zap.String("errorCode", aws.ToString(entry.ErrorCode)),
					zap.String("errorMessage", aws.ToString(entry.ErrorMessage)),
				)
			}
		}
		return apperrors.External(apperrors.CodeEventPublishFail, "Failed to publish event").
			WithOperation("PutEvents").
			WithResource(string(event.Type)).
			WithDetails(fmt.Sprintf("%d entries failed", result.FailedEntryCount)).
			Build()
	}

	p.logger.Debug("event published",
		zap.String("eventType", string(event.Type)),
		zap.String("dashboardID", event.DashboardID),
	)
	return nil
}
