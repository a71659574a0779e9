package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mr1hm/alert-relay/internal/dispatch"
	"github.com/mr1hm/alert-relay/internal/ingestion"
	"github.com/mr1hm/alert-relay/internal/models"
	"github.com/mr1hm/alert-relay/internal/repository"
)

// AlertSender is the slice of the dispatch engine the API needs.
type AlertSender interface {
	SendToRecipients(ctx context.Context, alert *models.Alert, recipients []dispatch.Recipient) (*models.DeliverySummary, error)
	SendToLocation(ctx context.Context, alert *models.Alert) (*models.DeliverySummary, error)
}

type Handler struct {
	engine      AlertSender
	subs        repository.SubscriberRepository
	broadcaster *ingestion.Broadcaster
}

func NewHandler(engine AlertSender, subs repository.SubscriberRepository, broadcaster *ingestion.Broadcaster) *Handler {
	return &Handler{
		engine:      engine,
		subs:        subs,
		broadcaster: broadcaster,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/alerts/send", h.sendAlert)
	r.POST("/api/alerts/location", h.sendLocationAlert)
	r.POST("/api/subscribers", h.createSubscriber)
	r.GET("/health", h.health)
	r.POST("/api/debug/test-alert", h.broadcastTestAlert)
}

type sendAlertRequest struct {
	Alert      models.Alert         `json:"alert"`
	Recipients []dispatch.Recipient `json:"recipients"`
}

func (h *Handler) sendAlert(c *gin.Context) {
	var req sendAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	summary, err := h.engine.SendToRecipients(c.Request.Context(), &req.Alert, req.Recipients)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": summary.Success,
		"sent":    summary.SentCount,
		"failed":  summary.FailedCount,
		"errors":  summary.Failures,
		"message": fmt.Sprintf("Alert processing complete: %d successful, %d failed", summary.SentCount, summary.FailedCount),
		"summary": summary,
	})
}

type locationAlertRequest struct {
	Alert models.Alert `json:"alert"`
}

func (h *Handler) sendLocationAlert(c *gin.Context) {
	var req locationAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	summary, err := h.engine.SendToLocation(c.Request.Context(), &req.Alert)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    summary.Success,
		"message":    fmt.Sprintf("Alert sent to %d recipients in %s", summary.RecipientsCount, req.Alert.City),
		"location":   req.Alert.City,
		"recipients": summary.RecipientsCount,
		"sent":       summary.SentCount,
		"failed":     summary.FailedCount,
		"summary":    summary,
	})
}

type createSubscriberRequest struct {
	FullName     string            `json:"full_name"`
	Email        string            `json:"email"`
	Phone        string            `json:"phone"`
	Language     string            `json:"language"`
	City         string            `json:"city"`
	State        string            `json:"state"`
	EmailEnabled bool              `json:"email_enabled"`
	SMSEnabled   bool              `json:"sms_enabled"`
	Severities   []models.Severity `json:"severity_levels"`
	AlertTypes   []string          `json:"alert_types"`
}

func (h *Handler) createSubscriber(c *gin.Context) {
	var req createSubscriberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Email == "" && req.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one of email or phone is required"})
		return
	}
	for _, sev := range req.Severities {
		if !sev.Known() {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown severity level: %q", sev)})
			return
		}
	}

	sub := &models.Subscriber{
		ID:           uuid.NewString(),
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		Language:     req.Language,
		City:         req.City,
		State:        req.State,
		EmailEnabled: req.EmailEnabled,
		SMSEnabled:   req.SMSEnabled,
		Severities:   req.Severities,
		AlertTypes:   req.AlertTypes,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.subs.AddSubscriber(c.Request.Context(), sub); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create subscriber"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": sub.ID})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) broadcastTestAlert(c *gin.Context) {
	alert := &models.Alert{
		ID:          fmt.Sprintf("test_%d", time.Now().UnixNano()),
		Title:       "Test Alert - Flash Flood Warning",
		Description: "This is a test alert for debugging",
		Severity:    models.SeverityWarning,
		Type:        "flood",
		Location:    "Los Angeles, CA",
		City:        "Los Angeles",
		State:       "CA",
		Timestamp:   time.Now(),
		Source:      "TEST",
	}

	// Broadcast only - the alert reaches the dispatch loop like a feed alert
	if h.broadcaster != nil {
		h.broadcaster.Broadcast(alert)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "test alert broadcast",
		"id":      alert.ID,
	})
}
