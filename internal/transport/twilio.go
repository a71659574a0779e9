package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mr1hm/alert-relay/internal/config"
	"github.com/mr1hm/alert-relay/internal/models"
	"github.com/mr1hm/alert-relay/internal/render"
)

const twilioAPIBase = "https://api.twilio.com"

// Twilio sends SMS through the Twilio Messages REST API.
type Twilio struct {
	cfg     config.TwilioConfig
	baseURL string
	client  *http.Client
}

func NewTwilio(cfg config.TwilioConfig) *Twilio {
	return &Twilio{
		cfg:     cfg,
		baseURL: twilioAPIBase,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (t *Twilio) Channel() models.Channel {
	return models.ChannelSMS
}

func (t *Twilio) Configured() error {
	if missing := t.cfg.Missing(); len(missing) > 0 {
		return fmt.Errorf("SMS disabled: missing secrets: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (t *Twilio) Send(ctx context.Context, destination string, content render.Content) error {
	if err := t.Configured(); err != nil {
		return err
	}
	if destination == "" {
		return fmt.Errorf("SMS failed: empty destination number")
	}

	form := url.Values{
		"To":   {destination},
		"From": {t.cfg.FromNumber},
		"Body": {content.Body},
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.baseURL, t.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("SMS failed: %w", err)
	}
	req.SetBasicAuth(t.cfg.AccountSID, t.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("SMS failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("SMS failed: %d %s", resp.StatusCode, twilioError(resp.Body, resp.Status))
	}

	return nil
}

// twilioError extracts the provider's error message, falling back to the raw
// body or HTTP status when the body is not the expected JSON shape.
func twilioError(body io.Reader, status string) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return status
	}

	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return string(raw)
}
