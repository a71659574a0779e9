package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/mr1hm/alert-relay/internal/models"
	"github.com/mr1hm/alert-relay/internal/render"
	"github.com/mr1hm/alert-relay/internal/transport"
	"github.com/mr1hm/alert-relay/internal/worker"
)

// Coordinator fans one alert out across every (recipient, channel) pair.
// Attempts are independent: each one settles as sent or failed on its own,
// and Dispatch waits for all of them before returning. A failing attempt
// never cancels or delays its siblings.
type Coordinator struct {
	transports     map[models.Channel]transport.Transport
	workers        int
	attemptTimeout time.Duration
}

func NewCoordinator(workers int, attemptTimeout time.Duration, transports ...transport.Transport) *Coordinator {
	byChannel := make(map[models.Channel]transport.Transport, len(transports))
	for _, t := range transports {
		byChannel[t.Channel()] = t
	}
	return &Coordinator{
		transports:     byChannel,
		workers:        workers,
		attemptTimeout: attemptTimeout,
	}
}

// Dispatch returns one settled DispatchAttempt per scheduled send. Attempts
// routed to an unconfigured transport are recorded as pre-flight failures
// naming the missing credentials and never reach the network.
func (c *Coordinator) Dispatch(ctx context.Context, alert *models.Alert, recipients []Recipient) []models.DispatchAttempt {
	attempts := buildAttempts(recipients)
	if len(attempts) == 0 {
		return attempts
	}

	pool := worker.NewPool(c.workers, len(attempts))
	pool.Start(ctx)

	for i := range attempts {
		at := &attempts[i]

		tr, ok := c.transports[at.Channel]
		if !ok {
			at.Reason = "no transport registered for channel " + string(at.Channel)
			continue
		}
		if err := tr.Configured(); err != nil {
			at.Reason = err.Error()
			continue
		}

		// Each task owns exactly one attempt; no state is shared across
		// attempts during fan-out.
		pool.Submit(func(ctx context.Context) {
			c.run(ctx, tr, alert, at)
		})
	}

	pool.Stop()
	return attempts
}

func (c *Coordinator) run(ctx context.Context, tr transport.Transport, alert *models.Alert, at *models.DispatchAttempt) {
	content := render.Render(alert, at.Channel, at.Language)

	sendCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	if err := tr.Send(sendCtx, at.Destination, content); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			at.Reason = "timeout"
		} else {
			at.Reason = err.Error()
		}
		return
	}
	at.Sent = true
}

func buildAttempts(recipients []Recipient) []models.DispatchAttempt {
	attempts := make([]models.DispatchAttempt, 0, len(recipients))
	for _, r := range recipients {
		lang := r.Language
		if lang == "" {
			lang = models.DefaultLanguage
		}
		if r.Phone != "" {
			attempts = append(attempts, models.DispatchAttempt{
				Channel:     models.ChannelSMS,
				Destination: r.Phone,
				Language:    lang,
			})
		}
		if r.Email != "" {
			attempts = append(attempts, models.DispatchAttempt{
				Channel:     models.ChannelEmail,
				Destination: r.Email,
				Language:    lang,
			})
		}
	}
	return attempts
}
