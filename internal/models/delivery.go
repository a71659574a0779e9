package models

import "time"

type Channel string

const (
	ChannelSMS   Channel = "SMS"
	ChannelEmail Channel = "Email"
)

// DispatchAttempt is one (recipient, channel) delivery unit. Each attempt
// settles independently: Sent is true on success, otherwise Reason explains
// the failure.
type DispatchAttempt struct {
	Channel     Channel
	Destination string // phone number or email address
	Language    string
	Sent        bool
	Reason      string
}

// Failure is the persisted detail for one failed attempt.
type Failure struct {
	Channel   Channel `json:"channel"`
	Recipient string  `json:"recipient"`
	Reason    string  `json:"reason"`
}

// DeliverySummary is the aggregate outcome of one alert dispatch. Immutable
// after creation.
type DeliverySummary struct {
	ID              string    `json:"id"`
	AlertID         string    `json:"alert_id"`
	Location        string    `json:"location"`
	City            string    `json:"city,omitempty"`
	RecipientsCount int       `json:"recipients_count"`
	SentCount       int       `json:"sent_count"`
	FailedCount     int       `json:"failed_count"`
	Success         bool      `json:"success"`
	Failures        []Failure `json:"failures,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
