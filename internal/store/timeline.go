package store

import (
	"encoding/json"
	"fmt"

	"github.com/lazypower/persona/internal/profile"
)

// GetTimeline returns a user's timeline events oldest-first. limit <= 0
// returns everything (the table is capped at write time anyway).
func (db *DB) GetTimeline(userID string, limit int) ([]profile.TimelineEvent, error) {
	query := `
		SELECT payload FROM timeline_events
		WHERE user_id = ? ORDER BY id
	`
	args := []any{userID}
	if limit > 0 {
		// Take the newest N, still presented oldest-first.
		query = `
			SELECT payload FROM (
				SELECT id, payload FROM timeline_events
				WHERE user_id = ? ORDER BY id DESC LIMIT ?
			) ORDER BY id
		`
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("get timeline: %w", err)
	}
	defer rows.Close()

	var events []profile.TimelineEvent
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan timeline event: %w", err)
		}
		var ev profile.TimelineEvent
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			return nil, fmt.Errorf("decode timeline event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// CountTimeline returns the number of timeline events for a user.
func (db *DB) CountTimeline(userID string) (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM timeline_events WHERE user_id = ?", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count timeline: %w", err)
	}
	return count, nil
}
