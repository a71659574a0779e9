// Package ingestion polls an external alert feed and hands new, located
// alerts to the dispatch engine through a broadcaster.
package ingestion

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mr1hm/alert-relay/internal/config"
	"github.com/mr1hm/alert-relay/internal/dispatch"
	"github.com/mr1hm/alert-relay/internal/models"
	"github.com/mr1hm/alert-relay/internal/repository"
)

// Sender is the slice of the dispatch engine ingestion needs.
type Sender interface {
	SendToLocation(ctx context.Context, alert *models.Alert) (*models.DeliverySummary, error)
}

var _ Sender = (*dispatch.Engine)(nil)

type Manager struct {
	cfg         *config.Config
	logs        repository.DeliveryLogRepository
	sender      Sender
	broadcaster *Broadcaster
	wg          sync.WaitGroup
}

func NewManager(cfg *config.Config, logs repository.DeliveryLogRepository, sender Sender, broadcaster *Broadcaster) *Manager {
	return &Manager{
		cfg:         cfg,
		logs:        logs,
		sender:      sender,
		broadcaster: broadcaster,
	}
}

func (m *Manager) Start(ctx context.Context) {
	m.wg.Add(1)
	go m.runDispatcher(ctx)

	if m.cfg.Feed.Enabled {
		m.wg.Add(1)
		go m.runPoller(ctx, m.cfg.Feed.URL, m.cfg.Feed.PollInterval)
	}
}

func (m *Manager) runPoller(ctx context.Context, url string, interval time.Duration) {
	defer m.wg.Done()
	slog.Info("starting feed poller", "url", url, "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Initial poll
	m.poll(ctx, url)

	for {
		select {
		case <-ctx.Done():
			slog.Info("feed poller shutting down")
			return
		case <-ticker.C:
			m.poll(ctx, url)
		}
	}
}

func (m *Manager) poll(ctx context.Context, url string) {
	slog.Debug("polling alert feed")

	alerts, err := m.pollFeed(ctx, url)
	if err != nil {
		slog.Error("feed poll failed", "error", err)
		return
	}

	accepted := 0
	for _, a := range alerts {
		if err := dispatch.ValidateAlert(a); err != nil {
			slog.Warn("skipping malformed feed alert", "alert_id", a.ID, "error", err)
			continue
		}
		if a.City == "" {
			slog.Debug("skipping feed alert without a city", "alert_id", a.ID)
			continue
		}

		delivered, err := m.logs.HasDelivery(ctx, a.ID)
		if err != nil {
			slog.Error("error checking delivery log", "alert_id", a.ID, "error", err)
			continue
		}
		if delivered {
			continue
		}

		m.broadcaster.Broadcast(a)
		accepted++
	}

	slog.Debug("feed poll complete", "total", len(alerts), "accepted", accepted)
}

// runDispatcher consumes broadcast alerts and runs location dispatch for each.
func (m *Manager) runDispatcher(ctx context.Context) {
	defer m.wg.Done()

	id, alerts := m.broadcaster.Subscribe()
	defer m.broadcaster.Unsubscribe(id)

	for {
		select {
		case <-ctx.Done():
			return
		case a, ok := <-alerts:
			if !ok {
				return
			}
			summary, err := m.sender.SendToLocation(ctx, a)
			if err != nil {
				slog.Error("location dispatch failed", "alert_id", a.ID, "error", err)
				continue
			}
			slog.Info("dispatched feed alert",
				"alert_id", a.ID,
				"city", a.City,
				"recipients", summary.RecipientsCount,
				"sent", summary.SentCount,
				"failed", summary.FailedCount,
			)
		}
	}
}

func (m *Manager) Stop() {
	m.wg.Wait()
	slog.Info("ingestion manager stopped")
}
