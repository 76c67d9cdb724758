package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/lazypower/persona/internal/profile"
)

// LoadProfile returns the persisted profile for a user, or nil if none
// exists. A record that fails to decode is treated as absent — the defined
// recovery policy is a fresh empty profile, not a failed read.
func (db *DB) LoadProfile(userID string) (*profile.Profile, error) {
	var data string
	err := db.QueryRow("SELECT data FROM profiles WHERE user_id = ?", userID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", userID, err)
	}

	var p profile.Profile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		log.Printf("store: corrupt profile for %s (%v), starting fresh", userID, err)
		return nil, nil
	}
	return &p, nil
}

// SaveCycle persists the outcome of one update cycle as a unit: the full
// profile document, plus the timeline event when one was produced, plus FIFO
// eviction past the timeline cap. Either everything commits or the previous
// persisted state remains authoritative.
func (db *DB) SaveCycle(p *profile.Profile, event *profile.TimelineEvent, timelineCap int) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile %s: %w", p.UserID, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin save cycle: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UnixMilli()
	if _, err := tx.Exec(`
		INSERT INTO profiles (user_id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, p.UserID, string(data), now, now); err != nil {
		return fmt.Errorf("save profile %s: %w", p.UserID, err)
	}

	if event != nil {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal timeline event: %w", err)
		}
		if _, err := tx.Exec(`
			INSERT INTO timeline_events (user_id, event_id, event_type, payload, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, p.UserID, event.ID, event.EventType, string(payload), now); err != nil {
			return fmt.Errorf("append timeline event: %w", err)
		}

		if timelineCap > 0 {
			if _, err := tx.Exec(`
				DELETE FROM timeline_events
				WHERE user_id = ? AND id NOT IN (
					SELECT id FROM timeline_events WHERE user_id = ?
					ORDER BY id DESC LIMIT ?
				)
			`, p.UserID, p.UserID, timelineCap); err != nil {
				return fmt.Errorf("evict timeline events: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save cycle: %w", err)
	}
	return nil
}

// DeleteProfile removes a user's profile and timeline atomically. Used by the
// administrative reset path; the next access recreates an empty profile.
func (db *DB) DeleteProfile(userID string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete profile: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM profiles WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("delete profile %s: %w", userID, err)
	}
	if _, err := tx.Exec("DELETE FROM timeline_events WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("delete timeline %s: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete profile: %w", err)
	}
	return nil
}

// ListUsers returns all user ids with a persisted profile.
func (db *DB) ListUsers() ([]string, error) {
	rows, err := db.Query("SELECT user_id FROM profiles ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, id)
	}
	return users, rows.Err()
}
