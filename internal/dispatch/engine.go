package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mr1hm/alert-relay/internal/models"
	"github.com/mr1hm/alert-relay/internal/repository"
)

// Engine is the alert distribution entrypoint. It supports two invocation
// shapes: an explicit recipient list with pre-resolved languages, or
// location-based dispatch where the engine resolves subscribers itself.
type Engine struct {
	coord *Coordinator
	subs  repository.SubscriberRepository
	logs  repository.DeliveryLogRepository
}

func NewEngine(coord *Coordinator, subs repository.SubscriberRepository, logs repository.DeliveryLogRepository) *Engine {
	return &Engine{
		coord: coord,
		subs:  subs,
		logs:  logs,
	}
}

// ValidateAlert rejects alerts that cannot be attributed to any recipient
// outcome. Validation failures fail the whole invocation before any dispatch
// begins.
func ValidateAlert(a *models.Alert) error {
	if a == nil {
		return errors.New("alert is required")
	}
	if a.ID == "" {
		return errors.New("alert id is required")
	}
	if a.Title == "" {
		return errors.New("alert title is required")
	}
	if !a.Severity.Known() {
		return fmt.Errorf("unknown alert severity: %q", a.Severity)
	}
	if a.Type == "" {
		return errors.New("alert type is required")
	}
	return nil
}

// SendToRecipients dispatches to an explicit recipient list, bypassing the
// eligibility resolver.
func (e *Engine) SendToRecipients(ctx context.Context, alert *models.Alert, recipients []Recipient) (*models.DeliverySummary, error) {
	if err := ValidateAlert(alert); err != nil {
		return nil, err
	}

	slog.Info("processing emergency alert", "alert_id", alert.ID, "recipients", len(recipients))

	attempts := e.coord.Dispatch(ctx, alert, recipients)
	summary := summarize(alert, attempts)
	e.persist(ctx, summary)
	return summary, nil
}

// SendToLocation queries the subscriber store for the alert's city, resolves
// eligibility, and dispatches to the matching subscribers in their stored
// language.
func (e *Engine) SendToLocation(ctx context.Context, alert *models.Alert) (*models.DeliverySummary, error) {
	if err := ValidateAlert(alert); err != nil {
		return nil, err
	}
	if alert.City == "" {
		return nil, errors.New("location dispatch requires an alert city")
	}

	slog.Info("processing location-based alert", "alert_id", alert.ID, "city", alert.City)

	pool, err := e.subs.ListByCity(ctx, alert.City)
	if err != nil {
		// An unreachable subscriber pool is a no-op dispatch, not a failure.
		slog.Warn("subscriber query failed, dispatching to nobody", "alert_id", alert.ID, "error", err)
		pool = nil
	}

	recipients := Resolve(alert, pool)
	slog.Info("resolved eligible subscribers", "alert_id", alert.ID, "eligible", len(recipients), "pool", len(pool))

	attempts := e.coord.Dispatch(ctx, alert, recipients)
	summary := summarize(alert, attempts)
	e.persist(ctx, summary)
	return summary, nil
}

func summarize(alert *models.Alert, attempts []models.DispatchAttempt) *models.DeliverySummary {
	summary := &models.DeliverySummary{
		ID:              uuid.NewString(),
		AlertID:         alert.ID,
		Location:        alert.Location,
		City:            alert.City,
		RecipientsCount: len(attempts),
		CreatedAt:       time.Now().UTC(),
	}

	for _, at := range attempts {
		if at.Sent {
			summary.SentCount++
			continue
		}
		summary.FailedCount++
		summary.Failures = append(summary.Failures, models.Failure{
			Channel:   at.Channel,
			Recipient: at.Destination,
			Reason:    at.Reason,
		})
	}

	summary.Success = summary.FailedCount == 0
	if !summary.Success {
		slog.Error("delivery errors", "alert_id", alert.ID, "failed", summary.FailedCount, "sent", summary.SentCount)
	}
	return summary
}

// persist is best-effort: a failure to write the log never alters the
// dispatch result already computed.
func (e *Engine) persist(ctx context.Context, summary *models.DeliverySummary) {
	if err := e.logs.AddSummary(ctx, summary); err != nil {
		slog.Warn("failed to log alert delivery", "alert_id", summary.AlertID, "error", err)
	}
}
