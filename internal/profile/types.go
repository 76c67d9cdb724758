package profile

import (
	"fmt"
	"time"

	"github.com/lazypower/persona/internal/taxonomy"
)

// Observation is one candidate attribute produced by an external observation
// source (LLM extraction, batch import, etc). Transient: it is folded into a
// TagInstance and only persisted verbatim inside timeline events.
type Observation struct {
	Name        string  `json:"name"`
	Confidence  float64 `json:"confidence"`
	Evidence    string  `json:"evidence"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	Timestamp   string  `json:"timestamp"`
}

// TagInstance is the durable record of a tag within a user's profile.
// Identity is TagName within its (category, subcategory) bucket.
type TagInstance struct {
	TagName            string   `json:"tag_name"`
	Confidence         float64  `json:"confidence"`
	ReinforcementCount int      `json:"reinforcement_count"`
	FirstSeen          string   `json:"first_seen"`
	LastReinforced     string   `json:"last_reinforced"`
	EvidenceList       []string `json:"evidence_list"`
	DecayRate          float64  `json:"decay_rate"`
}

// DimensionSummary is a derived per-sub-dimension rollup. Summaries are
// discarded and rebuilt every cycle, never patched in place.
type DimensionSummary struct {
	DimensionName    string  `json:"dimension_name"`
	SubdimensionName string  `json:"subdimension_name"`
	DominantTag      string  `json:"dominant_tag"`
	Confidence       float64 `json:"confidence"`
	TagCount         int     `json:"tag_count"`
	LastUpdated      string  `json:"last_updated"`
}

// Profile is the aggregate root for one user: a two-level
// category → subcategory → instances structure plus derived metrics.
type Profile struct {
	UserID             string                               `json:"user_id"`
	CreatedAt          string                               `json:"created_at"`
	LastUpdated        string                               `json:"last_updated"`
	TagDimensions      map[string]map[string][]*TagInstance `json:"tag_dimensions"`
	ProfileMaturity    float64                              `json:"profile_maturity"`
	TotalInteractions  int                                  `json:"total_interactions"`
	DimensionSummaries []DimensionSummary                   `json:"dimension_summaries"`
}

// NewEmpty creates a fresh profile with every declared dimension and
// sub-dimension present as an empty bucket.
func NewEmpty(userID string, tax taxonomy.Taxonomy, now time.Time) *Profile {
	dims := make(map[string]map[string][]*TagInstance, len(tax.Dimensions))
	for _, d := range tax.Dimensions {
		subs := make(map[string][]*TagInstance, len(d.Subdimensions))
		for _, s := range d.Subdimensions {
			subs[s] = []*TagInstance{}
		}
		dims[d.Name] = subs
	}
	ts := FormatTime(now)
	return &Profile{
		UserID:             userID,
		CreatedAt:          ts,
		LastUpdated:        ts,
		TagDimensions:      dims,
		DimensionSummaries: []DimensionSummary{},
	}
}

// Bucket returns the instance list for a (category, subcategory) pair,
// creating the bucket on first use.
func (p *Profile) Bucket(category, subcategory string) []*TagInstance {
	if p.TagDimensions == nil {
		p.TagDimensions = make(map[string]map[string][]*TagInstance)
	}
	subs, ok := p.TagDimensions[category]
	if !ok {
		subs = make(map[string][]*TagInstance)
		p.TagDimensions[category] = subs
	}
	return subs[subcategory]
}

// Find returns the instance with the given tag name in a bucket, or nil.
func (p *Profile) Find(category, subcategory, tagName string) *TagInstance {
	for _, inst := range p.Bucket(category, subcategory) {
		if inst.TagName == tagName {
			return inst
		}
	}
	return nil
}

// FormatTime renders a timestamp as RFC 3339 UTC, the profile's canonical
// ISO-8601 form.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// timeLayouts covers RFC 3339 plus the zone-less ISO-8601 variant that
// upstream extraction pipelines commonly emit.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTime parses an ISO-8601 timestamp string. Zone-less values are
// interpreted as UTC.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}
