package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/lazypower/persona/internal/profile"
	"github.com/lazypower/persona/internal/taxonomy"
)

// Store is the persistence boundary. SaveCycle must be all-or-nothing:
// profile document plus timeline event commit together or not at all.
type Store interface {
	LoadProfile(userID string) (*profile.Profile, error)
	SaveCycle(p *profile.Profile, event *profile.TimelineEvent, timelineCap int) error
	DeleteProfile(userID string) error
	GetTimeline(userID string, limit int) ([]profile.TimelineEvent, error)
	CountTimeline(userID string) (int, error)
}

// Engine sequences profile update cycles. Each ApplyObservations call is a
// read-modify-write transaction over one user's profile; calls for the same
// user are serialized on a per-user mutex so concurrent batches cannot lose
// updates. Different users proceed in parallel.
type Engine struct {
	Store  Store
	Tax    taxonomy.Taxonomy
	Params profile.Params

	mu    sync.Mutex
	users map[string]*sync.Mutex
}

// New creates an Engine.
func New(st Store, tax taxonomy.Taxonomy, params profile.Params) *Engine {
	return &Engine{
		Store:  st,
		Tax:    tax,
		Params: params,
		users:  make(map[string]*sync.Mutex),
	}
}

func (e *Engine) userLock(userID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.users[userID]
	if !ok {
		l = &sync.Mutex{}
		e.users[userID] = l
	}
	return l
}

// loadOrCreate returns the persisted profile, or a fresh empty one on first
// reference (or after a corrupt record). Caller must hold the user lock.
func (e *Engine) loadOrCreate(userID string, now time.Time) (*profile.Profile, error) {
	p, err := e.Store.LoadProfile(userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = profile.NewEmpty(userID, e.Tax, now)
	}
	return p, nil
}

// ApplyObservations runs one full update cycle for a user:
// reinforce → decay → metrics → persist → timeline, committed atomically.
// An empty batch still counts as one interaction and still re-runs decay.
func (e *Engine) ApplyObservations(userID string, batch map[string][]profile.Observation) (*profile.Profile, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id required")
	}

	l := e.userLock(userID)
	l.Lock()
	defer l.Unlock()

	now := time.Now()
	p, err := e.loadOrCreate(userID, now)
	if err != nil {
		return nil, err
	}

	profile.ApplyBatch(p, batch, e.Tax, e.Params, now)

	event := profile.NewTimelineEvent(batch, now)
	if err := e.Store.SaveCycle(p, &event, e.Params.TimelineCap); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProfile fetches a user's profile, creating and persisting an empty one
// on first access.
func (e *Engine) GetProfile(userID string) (*profile.Profile, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id required")
	}

	l := e.userLock(userID)
	l.Lock()
	defer l.Unlock()

	p, err := e.Store.LoadProfile(userID)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}

	p = profile.NewEmpty(userID, e.Tax, time.Now())
	if err := e.Store.SaveCycle(p, nil, e.Params.TimelineCap); err != nil {
		return nil, err
	}
	return p, nil
}

// GetTimeline returns a user's audit trail, oldest-first.
func (e *Engine) GetTimeline(userID string, limit int) ([]profile.TimelineEvent, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id required")
	}
	return e.Store.GetTimeline(userID, limit)
}

// Reset replaces a user's profile and timeline with a fresh empty state.
// Administrative action; the lifecycle engine itself never deletes.
func (e *Engine) Reset(userID string) (*profile.Profile, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id required")
	}

	l := e.userLock(userID)
	l.Lock()
	defer l.Unlock()

	if err := e.Store.DeleteProfile(userID); err != nil {
		return nil, err
	}
	p := profile.NewEmpty(userID, e.Tax, time.Now())
	if err := e.Store.SaveCycle(p, nil, e.Params.TimelineCap); err != nil {
		return nil, err
	}
	return p, nil
}

// Stats summarizes a profile for display surfaces.
type Stats struct {
	UserID            string         `json:"user_id"`
	ProfileMaturity   float64        `json:"profile_maturity"`
	TotalInteractions int            `json:"total_interactions"`
	TotalTags         int            `json:"total_tags"`
	ConfidentTags     int            `json:"confident_tags"`
	TagsByDimension   map[string]int `json:"tags_by_dimension"`
	TimelineEvents    int            `json:"timeline_events"`
	LastUpdated       string         `json:"last_updated"`
}

// GetStats derives display statistics for a user.
func (e *Engine) GetStats(userID string) (*Stats, error) {
	p, err := e.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	events, err := e.Store.CountTimeline(userID)
	if err != nil {
		return nil, err
	}

	perDim, total := profile.TagCounts(p)
	return &Stats{
		UserID:            p.UserID,
		ProfileMaturity:   p.ProfileMaturity,
		TotalInteractions: p.TotalInteractions,
		TotalTags:         total,
		ConfidentTags:     profile.ConfidentCount(p, e.Params),
		TagsByDimension:   perDim,
		TimelineEvents:    events,
		LastUpdated:       p.LastUpdated,
	}, nil
}
