package profile

import (
	"math"
	"time"
)

// DecayAll recomputes confidence for every instance in the profile based on
// elapsed time since last reinforcement. It runs unconditionally every cycle,
// including over instances reinforced moments earlier: for those days_since
// is 0 and the decay factor 1.0, but the base-confidence division by
// (1 + reinforcement_count*0.1) still applies. That division is part of the
// historical scoring behavior and must not be simplified away — long-run
// maturity numbers depend on it.
func DecayAll(p *Profile, params Params, now time.Time) {
	for _, subs := range p.TagDimensions {
		for _, bucket := range subs {
			for _, inst := range bucket {
				decayInstance(inst, params, now)
			}
		}
	}
}

func decayInstance(inst *TagInstance, params Params, now time.Time) {
	last, err := ParseTime(inst.LastReinforced)
	if err != nil {
		// Unparseable timestamp: leave this instance alone, don't fail the cycle.
		return
	}

	daysSince := math.Floor(now.Sub(last).Hours() / 24)

	decayFactor := 1.0 - daysSince*inst.DecayRate/params.DecayWindowDays
	if decayFactor < 0.1 {
		decayFactor = 0.1
	}

	base := inst.Confidence / (1 + float64(inst.ReinforcementCount)*0.1)
	confidence := base * decayFactor
	if confidence < params.MinConfidence {
		confidence = params.MinConfidence
	}
	inst.Confidence = confidence
}
