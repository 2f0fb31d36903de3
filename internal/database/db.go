package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// schema holds the idempotent table definitions for the records this
// service owns. The unique keys back two invariants: one event_sections
// row per (event, section) pair, and at most one section per venue holding
// a given svg_path.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS venues (
		id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name         VARCHAR(255) NOT NULL,
		city         VARCHAR(128) NOT NULL DEFAULT '',
		state        VARCHAR(64)  NULL,
		map_document MEDIUMTEXT   NULL,
		created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS sections (
		id                   BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		venue_id             BIGINT UNSIGNED NOT NULL,
		name                 VARCHAR(128) NOT NULL,
		section_type         VARCHAR(16)  NOT NULL DEFAULT 'STANDARD',
		svg_path             VARCHAR(128) NULL,
		capacity             INT NOT NULL DEFAULT 100,
		row_count            INT NULL,
		seats_per_row        INT NULL,
		is_general_admission BOOLEAN NOT NULL DEFAULT FALSE,
		sort_order           INT NOT NULL DEFAULT 0,
		UNIQUE KEY uq_sections_venue_svg (venue_id, svg_path),
		KEY idx_sections_venue (venue_id),
		CONSTRAINT fk_sections_venue FOREIGN KEY (venue_id) REFERENCES venues (id)
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		venue_id   BIGINT UNSIGNED NOT NULL,
		name       VARCHAR(255) NOT NULL,
		starts_at  DATETIME NOT NULL,
		price_from DECIMAL(10,2) NOT NULL DEFAULT 0,
		price_to   DECIMAL(10,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_events_venue (venue_id),
		CONSTRAINT fk_events_venue FOREIGN KEY (venue_id) REFERENCES venues (id)
	)`,
	`CREATE TABLE IF NOT EXISTS event_sections (
		id              BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		event_id        BIGINT UNSIGNED NOT NULL,
		section_id      BIGINT UNSIGNED NOT NULL,
		price           DECIMAL(10,2) NOT NULL,
		service_fee     DECIMAL(10,2) NOT NULL DEFAULT 0,
		capacity        INT NOT NULL DEFAULT 100,
		available_count INT NOT NULL DEFAULT 100,
		UNIQUE KEY uq_event_sections_pair (event_id, section_id),
		CONSTRAINT fk_event_sections_event FOREIGN KEY (event_id) REFERENCES events (id),
		CONSTRAINT fk_event_sections_section FOREIGN KEY (section_id) REFERENCES sections (id)
	)`,
	`CREATE TABLE IF NOT EXISTS ticket_listings (
		id               BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		event_section_id BIGINT UNSIGNED NOT NULL,
		price            DECIMAL(10,2) NOT NULL,
		quantity         INT NOT NULL,
		row_name         VARCHAR(8)  NULL,
		seat_numbers     VARCHAR(32) NULL,
		is_resale        BOOLEAN NOT NULL DEFAULT FALSE,
		is_lowest_price  BOOLEAN NOT NULL DEFAULT FALSE,
		has_clear_view   BOOLEAN NOT NULL DEFAULT TRUE,
		status           VARCHAR(16) NOT NULL DEFAULT 'AVAILABLE',
		KEY idx_listings_event_section (event_section_id),
		CONSTRAINT fk_listings_event_section FOREIGN KEY (event_section_id) REFERENCES event_sections (id)
	)`,
}

// EnsureSchema runs the table definitions; safe to call on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
