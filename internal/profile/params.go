package profile

// Params holds the lifecycle tuning knobs. Constructed once at startup and
// injected into every component that needs them.
type Params struct {
	// ReinforcementWeight is how far a reinforcement pulls confidence toward
	// the new observation's confidence.
	ReinforcementWeight float64

	// DefaultDecayRate is assigned to newly created instances.
	DefaultDecayRate float64

	// DecayWindowDays is the decay period: an instance loses
	// decay_rate/DecayWindowDays of its decay factor per idle day.
	DecayWindowDays float64

	// MinConfidence is the floor decay can never push confidence below.
	MinConfidence float64

	// EvidenceCap bounds evidence_list; oldest entries are dropped first.
	EvidenceCap int

	// ConfidentThreshold is the confidence at which an instance counts
	// toward maturity's quality ratio.
	ConfidentThreshold float64

	// MaturityTagTarget is the tag count at which maturity's quantity term
	// saturates.
	MaturityTagTarget float64

	// TimelineCap bounds the per-user timeline; oldest events are evicted.
	TimelineCap int

	// StrictExclusivity prunes exclusive sub-dimensions down to their
	// dominant instance at the end of each routing step. Off by default:
	// historically a weaker incoming tag coexists with the current strongest
	// until a stronger challenger replaces it.
	StrictExclusivity bool
}

// DefaultParams returns the canonical lifecycle parameters.
func DefaultParams() Params {
	return Params{
		ReinforcementWeight: 0.3,
		DefaultDecayRate:    0.1,
		DecayWindowDays:     30,
		MinConfidence:       0.1,
		EvidenceCap:         10,
		ConfidentThreshold:  0.6,
		MaturityTagTarget:   10,
		TimelineCap:         1000,
	}
}
