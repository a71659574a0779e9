package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mr1hm/alert-relay/internal/models"
)

type feedRecord struct {
	ID           string                          `json:"id"`
	Title        string                          `json:"title"`
	Description  string                          `json:"description"`
	Severity     string                          `json:"severity"`
	Type         string                          `json:"type"`
	Location     string                          `json:"location"`
	City         string                          `json:"city"`
	State        string                          `json:"state"`
	Timestamp    time.Time                       `json:"timestamp"`
	Source       string                          `json:"source"`
	Translations map[string]models.LocalizedText `json:"translations"`
}

func (m *Manager) pollFeed(ctx context.Context, url string) ([]*models.Alert, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	client := &http.Client{
		Timeout: 15 * time.Second,
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	var records []feedRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("error decoding resp.Body: %w", err)
	}

	alerts := make([]*models.Alert, 0, len(records))
	for _, r := range records {
		a := &models.Alert{
			ID:           r.ID,
			Title:        r.Title,
			Description:  r.Description,
			Severity:     models.Severity(r.Severity),
			Type:         r.Type,
			Location:     r.Location,
			City:         r.City,
			State:        r.State,
			Timestamp:    r.Timestamp,
			Source:       r.Source,
			Translations: r.Translations,
		}
		alerts = append(alerts, a)
	}

	return alerts, nil
}
