// Package transport wraps the external delivery providers behind a uniform
// send contract. Transports never panic: every failure path resolves to an
// error value so the dispatch coordinator can treat failures as data.
package transport

import (
	"context"

	"github.com/mr1hm/alert-relay/internal/models"
	"github.com/mr1hm/alert-relay/internal/render"
)

type Transport interface {
	Channel() models.Channel

	// Configured reports readiness. A non-nil error names the missing
	// credentials and means Send must not be attempted.
	Configured() error

	Send(ctx context.Context, destination string, content render.Content) error
}
