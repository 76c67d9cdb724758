package profile

import (
	"log"
	"time"

	"github.com/lazypower/persona/internal/taxonomy"
)

// ApplyBatch runs one full update cycle in memory: route every observation,
// decay the entire profile, rebuild derived metrics. The order is fixed —
// decay runs globally after routing so dormant tags keep losing confidence
// even while other dimensions are being reinforced. Persistence and timeline
// recording belong to the caller.
//
// The call itself counts as one interaction, even with an empty batch.
func ApplyBatch(p *Profile, batch map[string][]Observation, tax taxonomy.Taxonomy, params Params, now time.Time) {
	p.TotalInteractions++

	for category, observations := range batch {
		if !tax.HasDimension(category) {
			// Tolerant ingestion: unknown categories are dropped, not errors.
			log.Printf("profile: dropping %d observations for unknown category %q", len(observations), category)
			continue
		}
		for _, obs := range observations {
			obs.Category = category
			Upsert(p, obs, tax, params, now)
		}
	}

	if params.StrictExclusivity {
		pruneExclusive(p, tax)
	}

	DecayAll(p, params, now)
	RecalculateMetrics(p, params)
	p.LastUpdated = FormatTime(now)
}

// Upsert merges one observation into the profile: reinforce the instance with
// the same tag name if it exists, otherwise insert a fresh one (resolving
// exclusivity first). Unknown subcategories create their bucket on first use.
func Upsert(p *Profile, obs Observation, tax taxonomy.Taxonomy, params Params, now time.Time) {
	if obs.Timestamp == "" {
		obs.Timestamp = FormatTime(now)
	}

	if existing := p.Find(obs.Category, obs.Subcategory, obs.Name); existing != nil {
		Reinforce(existing, obs, params)
		return
	}

	bucket := p.Bucket(obs.Category, obs.Subcategory)
	if tax.IsExclusive(obs.Category, obs.Subcategory) {
		bucket = ResolveExclusive(bucket, obs)
	}

	bucket = append(bucket, &TagInstance{
		TagName:            obs.Name,
		Confidence:         obs.Confidence,
		ReinforcementCount: 1,
		FirstSeen:          obs.Timestamp,
		LastReinforced:     obs.Timestamp,
		EvidenceList:       []string{obs.Evidence},
		DecayRate:          params.DefaultDecayRate,
	})
	p.TagDimensions[obs.Category][obs.Subcategory] = bucket
}

// Reinforce folds a new observation into an existing instance. Confidence
// moves a fixed fraction toward the new signal regardless of how many
// reinforcements came before, and is capped at 1.0.
func Reinforce(inst *TagInstance, obs Observation, params Params) {
	inst.ReinforcementCount++
	inst.LastReinforced = obs.Timestamp

	w := params.ReinforcementWeight
	inst.Confidence = inst.Confidence*(1-w) + obs.Confidence*w
	if inst.Confidence > 1.0 {
		inst.Confidence = 1.0
	}

	inst.EvidenceList = append(inst.EvidenceList, obs.Evidence)
	if len(inst.EvidenceList) > params.EvidenceCap {
		inst.EvidenceList = inst.EvidenceList[len(inst.EvidenceList)-params.EvidenceCap:]
	}
}
