package dispatch

import (
	"strings"

	"github.com/mr1hm/alert-relay/internal/models"
)

// Recipient is one resolved delivery target. A non-empty Phone means an SMS
// attempt, a non-empty Email an email attempt; both may be set.
type Recipient struct {
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Language string `json:"language,omitempty"`
}

// Resolve filters the subscriber pool down to the recipients eligible for the
// alert. A subscriber is eligible when:
//
//  1. the alert has no city, or the subscriber's city contains the alert's
//     city (case-insensitive substring match, matching the upstream
//     "ilike %city%" policy);
//  2. the alert's severity and type are both in the subscriber's preference
//     sets;
//  3. at least one channel is enabled with a non-empty address.
//
// Subscribers with zero usable channels are dropped entirely. An empty pool
// yields an empty result, never an error.
func Resolve(alert *models.Alert, pool []models.Subscriber) []Recipient {
	recipients := make([]Recipient, 0, len(pool))

	for _, sub := range pool {
		if !cityMatches(alert.City, sub.City) {
			continue
		}
		if !sub.WantsSeverity(alert.Severity) || !sub.WantsType(alert.Type) {
			continue
		}

		r := Recipient{Language: sub.Language}
		if r.Language == "" {
			r.Language = models.DefaultLanguage
		}
		if sub.SMSEnabled && sub.Phone != "" {
			r.Phone = sub.Phone
		}
		if sub.EmailEnabled && sub.Email != "" {
			r.Email = sub.Email
		}
		if r.Phone == "" && r.Email == "" {
			continue
		}

		recipients = append(recipients, r)
	}

	return recipients
}

func cityMatches(alertCity, subscriberCity string) bool {
	if alertCity == "" {
		return true
	}
	return strings.Contains(strings.ToLower(subscriberCity), strings.ToLower(alertCity))
}
