package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mr1hm/alert-relay/internal/models"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS subscribers (
			id TEXT PRIMARY KEY,
			full_name TEXT,
			email TEXT,
			phone TEXT,
			language TEXT,
			city TEXT,
			state TEXT,
			email_enabled INTEGER NOT NULL DEFAULT 0,
			sms_enabled INTEGER NOT NULL DEFAULT 0,
			severity_levels TEXT NOT NULL,
			alert_types TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS alert_logs (
			id TEXT PRIMARY KEY,
			alert_id TEXT NOT NULL,
			location TEXT,
			city TEXT,
			recipients_count INTEGER NOT NULL,
			sent_count INTEGER NOT NULL,
			failed_count INTEGER NOT NULL,
			success INTEGER NOT NULL,
			failures TEXT,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_subscribers_city ON subscribers(city);
		CREATE INDEX IF NOT EXISTS idx_alert_logs_alert_id ON alert_logs(alert_id);
  	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) AddSubscriber(ctx context.Context, sub *models.Subscriber) error {
	severities, err := json.Marshal(sub.Severities)
	if err != nil {
		return fmt.Errorf("error marshaling severity levels: %w", err)
	}
	types, err := json.Marshal(sub.AlertTypes)
	if err != nil {
		return fmt.Errorf("error marshaling alert types: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO subscribers
			(id, full_name, email, phone, language, city, state, email_enabled, sms_enabled, severity_levels, alert_types, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.FullName, sub.Email, sub.Phone, sub.Language, sub.City, sub.State,
		sub.EmailEnabled, sub.SMSEnabled, string(severities), string(types), sub.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting subscriber: %w", err)
	}
	return nil
}

func (s *SQLiteDB) ListByCity(ctx context.Context, city string) ([]models.Subscriber, error) {
	query := `
		SELECT id, full_name, email, phone, language, city, state, email_enabled, sms_enabled, severity_levels, alert_types, created_at
		FROM subscribers`
	var args []any
	if city != "" {
		query += ` WHERE LOWER(city) LIKE ?`
		args = append(args, "%"+strings.ToLower(city)+"%")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying subscribers: %w", err)
	}
	defer rows.Close()

	var subs []models.Subscriber
	for rows.Next() {
		var sub models.Subscriber
		var severities, types string
		if err := rows.Scan(
			&sub.ID, &sub.FullName, &sub.Email, &sub.Phone, &sub.Language, &sub.City, &sub.State,
			&sub.EmailEnabled, &sub.SMSEnabled, &severities, &types, &sub.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning subscriber: %w", err)
		}
		if err := json.Unmarshal([]byte(severities), &sub.Severities); err != nil {
			return nil, fmt.Errorf("error unmarshaling severity levels: %w", err)
		}
		if err := json.Unmarshal([]byte(types), &sub.AlertTypes); err != nil {
			return nil, fmt.Errorf("error unmarshaling alert types: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (s *SQLiteDB) AddSummary(ctx context.Context, sum *models.DeliverySummary) error {
	var failures sql.NullString
	if len(sum.Failures) > 0 {
		raw, err := json.Marshal(sum.Failures)
		if err != nil {
			return fmt.Errorf("error marshaling failures: %w", err)
		}
		failures = sql.NullString{String: string(raw), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO alert_logs
			(id, alert_id, location, city, recipients_count, sent_count, failed_count, success, failures, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sum.ID, sum.AlertID, sum.Location, sum.City,
		sum.RecipientsCount, sum.SentCount, sum.FailedCount, sum.Success, failures, sum.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting delivery summary: %w", err)
	}
	return nil
}

func (s *SQLiteDB) HasDelivery(ctx context.Context, alertID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM alert_logs WHERE alert_id = ? LIMIT 1`, alertID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error checking delivery log: %w", err)
	}
	return true, nil
}
