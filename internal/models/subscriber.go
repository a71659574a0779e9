package models

import "time"

// DefaultLanguage is used when a subscriber has no stored language preference.
const DefaultLanguage = "en"

// Subscriber is a registered alert recipient. The dispatch engine treats it as
// read-only input; the subscriber store owns its lifecycle.
type Subscriber struct {
	ID           string     `json:"id"`
	FullName     string     `json:"full_name,omitempty"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Language     string     `json:"language,omitempty"`
	City         string     `json:"city,omitempty"`
	State        string     `json:"state,omitempty"`
	EmailEnabled bool       `json:"email_enabled"`
	SMSEnabled   bool       `json:"sms_enabled"`
	Severities   []Severity `json:"severity_levels"`
	AlertTypes   []string   `json:"alert_types"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (s *Subscriber) WantsSeverity(sev Severity) bool {
	for _, v := range s.Severities {
		if v == sev {
			return true
		}
	}
	return false
}

func (s *Subscriber) WantsType(alertType string) bool {
	for _, v := range s.AlertTypes {
		if v == alertType {
			return true
		}
	}
	return false
}
