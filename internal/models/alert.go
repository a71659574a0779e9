package models

import "time"

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Known returns false for severities outside the closed set. Alert type is an
// open string tag and has no equivalent check.
func (s Severity) Known() bool {
	switch s {
	case SeverityCritical, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// LocalizedText is one language's rendering of an alert's title and description.
type LocalizedText struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Alert is a single emergency event. Immutable once handed to the dispatch
// engine.
type Alert struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	Type        string    `json:"type"` // earthquake, flood, fire, storm, ...
	Location    string    `json:"location"`
	City        string    `json:"city,omitempty"`
	State       string    `json:"state,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Source      string    `json:"source"`

	// Translations maps language codes to pre-supplied localized text. Missing
	// codes fall back to the default-language Title/Description.
	Translations map[string]LocalizedText `json:"translations,omitempty"`
}

// Localized returns the alert text for lang, falling back to the
// default-language fields when no translation exists.
func (a *Alert) Localized(lang string) LocalizedText {
	if t, ok := a.Translations[lang]; ok {
		return t
	}
	return LocalizedText{Title: a.Title, Description: a.Description}
}
