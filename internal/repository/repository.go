package repository

import (
	"context"

	"github.com/mr1hm/alert-relay/internal/models"
)

type SubscriberRepository interface {
	AddSubscriber(ctx context.Context, s *models.Subscriber) error
	// ListByCity returns subscribers whose city contains the filter,
	// case-insensitively. An empty filter returns the entire pool.
	ListByCity(ctx context.Context, city string) ([]models.Subscriber, error)
}

type DeliveryLogRepository interface {
	AddSummary(ctx context.Context, s *models.DeliverySummary) error
	// HasDelivery reports whether any summary exists for the alert id. Used
	// by feed ingestion to avoid re-dispatching an already-handled alert.
	HasDelivery(ctx context.Context, alertID string) (bool, error)
}
