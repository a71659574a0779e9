// Package render shapes alerts into channel-appropriate message content.
// Rendering is a pure function of (alert, channel, language): no state, no
// network, identical inputs always yield identical output.
package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/mr1hm/alert-relay/internal/models"
)

// Content is a rendered message. Subject is empty for SMS.
type Content struct {
	Subject string
	Body    string
}

var severityGlyph = map[models.Severity]string{
	models.SeverityCritical: "🚨",
	models.SeverityWarning:  "⚠️",
	models.SeverityInfo:     "ℹ️",
}

var typeGlyph = map[string]string{
	"earthquake": "🌍",
	"flood":      "🌊",
	"fire":       "🔥",
	"storm":      "⛈️",
}

var severityColor = map[models.Severity]string{
	models.SeverityCritical: "#dc2626",
	models.SeverityWarning:  "#f59e0b",
	models.SeverityInfo:     "#3b82f6",
}

func glyphFor(sev models.Severity) string {
	if g, ok := severityGlyph[sev]; ok {
		return g
	}
	return "⚠️"
}

// glyphForType tolerates the open type set: unknown types get a generic glyph.
func glyphForType(alertType string) string {
	if g, ok := typeGlyph[strings.ToLower(alertType)]; ok {
		return g
	}
	return "⚠️"
}

func formatTimestamp(a *models.Alert) string {
	return a.Timestamp.UTC().Format("Jan 2, 2006 15:04 MST")
}

// Render dispatches to the channel-specific renderer.
func Render(a *models.Alert, ch models.Channel, lang string) Content {
	if ch == models.ChannelEmail {
		return Email(a, lang)
	}
	return SMS(a, lang)
}

// SMS renders a single plain-text message.
func SMS(a *models.Alert, lang string) Content {
	loc := a.Localized(lang)

	var b strings.Builder
	fmt.Fprintf(&b, "%s EMERGENCY ALERT\n\n", glyphFor(a.Severity))
	fmt.Fprintf(&b, "%s %s\n\n", glyphForType(a.Type), loc.Title)
	fmt.Fprintf(&b, "📍 %s\n", a.Location)
	fmt.Fprintf(&b, "🕒 %s\n", formatTimestamp(a))
	fmt.Fprintf(&b, "📡 Source: %s\n\n", a.Source)
	fmt.Fprintf(&b, "%s\n\n", loc.Description)
	b.WriteString("⚠️ Take immediate action if in affected area.\n\n")
	b.WriteString("Reply STOP to unsubscribe.")

	return Content{Body: b.String()}
}

var emailTmpl = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Emergency Alert</title>
  </head>
  <body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
      <div style="background: {{.Color}}; color: white; padding: 20px; border-radius: 8px; margin-bottom: 20px;">
        <h1 style="margin: 0; font-size: 24px;">🚨 EMERGENCY ALERT</h1>
        <p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold;">{{.Title}}</p>
      </div>
      <div style="background: #f9fafb; padding: 20px; border-radius: 8px; margin-bottom: 20px;">
        <p><strong>📍 Location:</strong> {{.Location}}</p>
        <p><strong>🕒 Time:</strong> {{.Time}}</p>
        <p><strong>⚠️ Severity:</strong> {{.Severity}}</p>
        <p><strong>📡 Source:</strong> {{.Source}}</p>
      </div>
      <div style="margin-bottom: 20px;">
        <h3>Alert Details:</h3>
        <p>{{.Description}}</p>
      </div>
      <div style="background: #fef3c7; border: 1px solid #f59e0b; padding: 15px; border-radius: 8px; margin-bottom: 20px;">
        <p style="margin: 0; font-weight: bold; color: #92400e;">
          ⚠️ If you are in the affected area, please take immediate action and follow local authority guidance.
        </p>
      </div>
      <div style="font-size: 12px; color: #666; text-align: center; margin-top: 30px; border-top: 1px solid #e5e7eb; padding-top: 20px;">
        <p>Emergency Alert System | Real-time disaster monitoring</p>
        <p>This is an automated emergency notification. Please do not reply to this email.</p>
      </div>
    </div>
  </body>
</html>
`))

type emailData struct {
	Color       template.CSS
	Title       string
	Location    string
	Time        string
	Severity    string
	Source      string
	Description string
}

// Email renders a subject line and an HTML body.
func Email(a *models.Alert, lang string) Content {
	loc := a.Localized(lang)

	color, ok := severityColor[a.Severity]
	if !ok {
		color = severityColor[models.SeverityWarning]
	}

	var b strings.Builder
	// The template only fails on a type mismatch in emailData, which cannot
	// happen at runtime.
	_ = emailTmpl.Execute(&b, emailData{
		Color:       template.CSS(color),
		Title:       loc.Title,
		Location:    a.Location,
		Time:        formatTimestamp(a),
		Severity:    strings.ToUpper(string(a.Severity)),
		Source:      a.Source,
		Description: loc.Description,
	})

	return Content{
		Subject: fmt.Sprintf("🚨 %s ALERT: %s", strings.ToUpper(string(a.Severity)), loc.Title),
		Body:    b.String(),
	}
}
