package profile

import (
	"log"

	"github.com/lazypower/persona/internal/taxonomy"
)

// ResolveExclusive enforces the at-most-one-active-value rule for an
// exclusive sub-dimension at insert time. If the candidate's confidence
// strictly exceeds the current strongest instance's, the strongest is removed
// (full replacement, not merge). A weaker or equal candidate is left to
// coexist — the bucket only converges to a single entry when a stronger
// challenger arrives, unless StrictExclusivity prunes it.
func ResolveExclusive(bucket []*TagInstance, candidate Observation) []*TagInstance {
	if len(bucket) == 0 {
		return bucket
	}

	strongest := 0
	for i, inst := range bucket {
		if inst.Confidence > bucket[strongest].Confidence {
			strongest = i
		}
	}

	if candidate.Confidence <= bucket[strongest].Confidence {
		return bucket
	}

	log.Printf("profile: replacing %s with %s in exclusive %s/%s",
		bucket[strongest].TagName, candidate.Name, candidate.Category, candidate.Subcategory)
	return append(bucket[:strongest], bucket[strongest+1:]...)
}

// pruneExclusive trims every exclusive bucket down to its dominant instance.
// Only runs under Params.StrictExclusivity.
func pruneExclusive(p *Profile, tax taxonomy.Taxonomy) {
	for category, subs := range p.TagDimensions {
		for subcategory, bucket := range subs {
			if len(bucket) <= 1 || !tax.IsExclusive(category, subcategory) {
				continue
			}
			dominant := bucket[0]
			for _, inst := range bucket[1:] {
				if inst.Confidence > dominant.Confidence {
					dominant = inst
				}
			}
			subs[subcategory] = []*TagInstance{dominant}
		}
	}
}
