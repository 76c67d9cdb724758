package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/lazypower/persona/internal/profile"
)

func appendEvent(t *testing.T, db *DB, p *profile.Profile, name string, keep int) {
	t.Helper()
	ev := profile.NewTimelineEvent(map[string][]profile.Observation{
		"intent": {{Name: name, Confidence: 0.5, Category: "intent", Subcategory: "intent_type"}},
	}, time.Now())
	if err := db.SaveCycle(p, &ev, keep); err != nil {
		t.Fatalf("SaveCycle: %v", err)
	}
}

func TestTimelineOrderedOldestFirst(t *testing.T) {
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()

	p := testProfile(t, "u1")
	for i := 0; i < 3; i++ {
		appendEvent(t, db, p, fmt.Sprintf("tag-%d", i), 1000)
	}

	events, err := db.GetTimeline("u1", 0)
	if err != nil {
		t.Fatalf("GetTimeline: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	for i, ev := range events {
		want := fmt.Sprintf("tag-%d", i)
		if ev.ExtractedTags["intent"][0].Name != want {
			t.Errorf("event %d name = %q, want %q", i, ev.ExtractedTags["intent"][0].Name, want)
		}
	}
}

func TestTimelineLimitReturnsNewest(t *testing.T) {
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()

	p := testProfile(t, "u1")
	for i := 0; i < 5; i++ {
		appendEvent(t, db, p, fmt.Sprintf("tag-%d", i), 1000)
	}

	events, err := db.GetTimeline("u1", 2)
	if err != nil {
		t.Fatalf("GetTimeline: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	// Newest two, still oldest-first.
	if events[0].ExtractedTags["intent"][0].Name != "tag-3" {
		t.Errorf("events[0] = %q, want tag-3", events[0].ExtractedTags["intent"][0].Name)
	}
	if events[1].ExtractedTags["intent"][0].Name != "tag-4" {
		t.Errorf("events[1] = %q, want tag-4", events[1].ExtractedTags["intent"][0].Name)
	}
}

func TestTimelineCapEvictsOldestFirst(t *testing.T) {
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()

	p := testProfile(t, "u1")
	const keep = 1000
	for i := 0; i < 1005; i++ {
		appendEvent(t, db, p, fmt.Sprintf("tag-%d", i), keep)
	}

	count, err := db.CountTimeline("u1")
	if err != nil {
		t.Fatalf("CountTimeline: %v", err)
	}
	if count != keep {
		t.Fatalf("count = %d, want %d", count, keep)
	}

	events, err := db.GetTimeline("u1", 0)
	if err != nil {
		t.Fatalf("GetTimeline: %v", err)
	}
	if got := events[0].ExtractedTags["intent"][0].Name; got != "tag-5" {
		t.Errorf("oldest surviving event = %q, want tag-5 (first 5 evicted)", got)
	}
	if got := events[len(events)-1].ExtractedTags["intent"][0].Name; got != "tag-1004" {
		t.Errorf("newest event = %q, want tag-1004", got)
	}
}

func TestTimelineIsolatedPerUser(t *testing.T) {
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()

	pa := testProfile(t, "alice")
	pb := testProfile(t, "bob")
	appendEvent(t, db, pa, "alice-tag", 1000)
	appendEvent(t, db, pb, "bob-tag", 1000)

	events, err := db.GetTimeline("alice", 0)
	if err != nil {
		t.Fatalf("GetTimeline: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("alice has %d events, want 1", len(events))
	}
	if events[0].ExtractedTags["intent"][0].Name != "alice-tag" {
		t.Errorf("alice's event = %q", events[0].ExtractedTags["intent"][0].Name)
	}
}
