package repository

import (
	"context"
	"testing"
	"time"

	"github.com/mr1hm/alert-relay/internal/models"
)

func setupTestDB(t *testing.T) *SQLiteDB {
	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	return db
}

func testSubscriber(id, city string) *models.Subscriber {
	return &models.Subscriber{
		ID:           id,
		FullName:     "Test Person",
		Email:        id + "@x.com",
		Phone:        "+15550000001",
		Language:     "es",
		City:         city,
		State:        "CA",
		EmailEnabled: true,
		SMSEnabled:   true,
		Severities:   []models.Severity{models.SeverityCritical, models.SeverityWarning},
		AlertTypes:   []string{"earthquake", "fire"},
		CreatedAt:    time.Now().UTC(),
	}
}

func TestSQLiteDB_AddAndListSubscribers(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	if err := db.AddSubscriber(ctx, testSubscriber("sub_1", "Los Angeles")); err != nil {
		t.Fatalf("AddSubscriber failed: %v", err)
	}

	subs, err := db.ListByCity(ctx, "")
	if err != nil {
		t.Fatalf("ListByCity failed: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected 1 subscriber, got %d", len(subs))
	}

	got := subs[0]
	if got.Email != "sub_1@x.com" || got.Language != "es" || !got.EmailEnabled {
		t.Errorf("unexpected subscriber: %+v", got)
	}
	if len(got.Severities) != 2 || got.Severities[0] != models.SeverityCritical {
		t.Errorf("severity set not round-tripped: %v", got.Severities)
	}
	if len(got.AlertTypes) != 2 || got.AlertTypes[1] != "fire" {
		t.Errorf("type set not round-tripped: %v", got.AlertTypes)
	}
}

func TestSQLiteDB_ListByCityFilter(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	for id, city := range map[string]string{
		"sub_la":   "Los Angeles",
		"sub_ela":  "East Los Angeles",
		"sub_hou":  "Houston",
		"sub_none": "",
	} {
		if err := db.AddSubscriber(ctx, testSubscriber(id, city)); err != nil {
			t.Fatalf("AddSubscriber(%s) failed: %v", id, err)
		}
	}

	subs, err := db.ListByCity(ctx, "los angeles")
	if err != nil {
		t.Fatalf("ListByCity failed: %v", err)
	}
	if len(subs) != 2 {
		t.Errorf("expected 2 matches for substring filter, got %d", len(subs))
	}

	all, err := db.ListByCity(ctx, "")
	if err != nil {
		t.Fatalf("ListByCity failed: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("empty filter must return the whole pool, got %d", len(all))
	}
}

func TestSQLiteDB_AddSummaryAndHasDelivery(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	summary := &models.DeliverySummary{
		ID:              "sum_1",
		AlertID:         "alert_1",
		Location:        "Los Angeles, CA",
		City:            "Los Angeles",
		RecipientsCount: 3,
		SentCount:       2,
		FailedCount:     1,
		Success:         false,
		Failures: []models.Failure{
			{Channel: models.ChannelSMS, Recipient: "+15550000001", Reason: "timeout"},
		},
		CreatedAt: time.Now().UTC(),
	}

	if err := db.AddSummary(ctx, summary); err != nil {
		t.Fatalf("AddSummary failed: %v", err)
	}

	has, err := db.HasDelivery(ctx, "alert_1")
	if err != nil {
		t.Fatalf("HasDelivery failed: %v", err)
	}
	if !has {
		t.Error("expected delivery record for alert_1")
	}

	has, err = db.HasDelivery(ctx, "alert_unknown")
	if err != nil {
		t.Fatalf("HasDelivery failed: %v", err)
	}
	if has {
		t.Error("expected no delivery record for alert_unknown")
	}
}

func TestSQLiteDB_AddSummaryWithoutFailures(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	summary := &models.DeliverySummary{
		ID:              "sum_2",
		AlertID:         "alert_2",
		RecipientsCount: 1,
		SentCount:       1,
		Success:         true,
		CreatedAt:       time.Now().UTC(),
	}

	if err := db.AddSummary(ctx, summary); err != nil {
		t.Fatalf("AddSummary failed: %v", err)
	}
}
