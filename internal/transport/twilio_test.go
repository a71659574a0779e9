package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mr1hm/alert-relay/internal/config"
	"github.com/mr1hm/alert-relay/internal/models"
	"github.com/mr1hm/alert-relay/internal/render"
)

func fullTwilioConfig() config.TwilioConfig {
	return config.TwilioConfig{
		AccountSID: "AC123",
		AuthToken:  "secret",
		FromNumber: "+15550009999",
	}
}

func TestTwilio_Channel(t *testing.T) {
	if got := NewTwilio(fullTwilioConfig()).Channel(); got != models.ChannelSMS {
		t.Errorf("expected SMS channel, got %s", got)
	}
}

func TestTwilio_ConfiguredNamesMissingSecrets(t *testing.T) {
	tw := NewTwilio(config.TwilioConfig{AccountSID: "AC123"})

	err := tw.Configured()
	if err == nil {
		t.Fatal("expected error for missing credentials")
	}
	for _, want := range []string{"TWILIO_AUTH_TOKEN", "TWILIO_PHONE_NUMBER"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error must name %s, got %q", want, err)
		}
	}
	if strings.Contains(err.Error(), "TWILIO_ACCOUNT_SID") {
		t.Errorf("present credential must not be reported missing: %q", err)
	}
}

func TestTwilio_SendSuccess(t *testing.T) {
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if !strings.Contains(r.URL.Path, "/Accounts/AC123/Messages.json") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if user, pass, ok := r.BasicAuth(); !ok || user != "AC123" || pass != "secret" {
			t.Error("expected basic auth with account credentials")
		}
		_ = r.ParseForm()
		gotForm = map[string]string{
			"To":   r.PostForm.Get("To"),
			"From": r.PostForm.Get("From"),
			"Body": r.PostForm.Get("Body"),
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM1"}`))
	}))
	defer srv.Close()

	tw := NewTwilio(fullTwilioConfig())
	tw.baseURL = srv.URL

	err := tw.Send(context.Background(), "+15550000001", render.Content{Body: "test alert"})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if gotForm["To"] != "+15550000001" || gotForm["From"] != "+15550009999" || gotForm["Body"] != "test alert" {
		t.Errorf("unexpected form: %v", gotForm)
	}
}

func TestTwilio_SendProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code": 21211, "message": "Invalid 'To' phone number"}`))
	}))
	defer srv.Close()

	tw := NewTwilio(fullTwilioConfig())
	tw.baseURL = srv.URL

	err := tw.Send(context.Background(), "bogus", render.Content{Body: "test"})
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	if !strings.Contains(err.Error(), "Invalid 'To' phone number") {
		t.Errorf("error must carry the provider reason, got %q", err)
	}
}

func TestTwilio_SendUnconfigured(t *testing.T) {
	tw := NewTwilio(config.TwilioConfig{})

	err := tw.Send(context.Background(), "+15550000001", render.Content{Body: "test"})
	if err == nil || !strings.Contains(err.Error(), "missing secrets") {
		t.Errorf("unconfigured send must fail with the missing-secret reason, got %v", err)
	}
}

func TestTwilio_SendUnreachableHost(t *testing.T) {
	tw := NewTwilio(fullTwilioConfig())
	tw.baseURL = "http://127.0.0.1:1" // nothing listens here

	err := tw.Send(context.Background(), "+15550000001", render.Content{Body: "test"})
	if err == nil {
		t.Fatal("expected error for unreachable host")
	}
	if !strings.Contains(err.Error(), "SMS failed") {
		t.Errorf("network errors must resolve to a failed outcome, got %q", err)
	}
}
