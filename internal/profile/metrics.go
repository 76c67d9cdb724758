package profile

import "sort"

// RecalculateMetrics rebuilds dimension summaries and profile maturity from
// scratch. Summaries are fully derived state: the old slice is discarded, one
// summary is emitted per populated bucket, and the dominant tag is the
// highest-confidence instance (first encountered wins ties).
func RecalculateMetrics(p *Profile, params Params) {
	p.DimensionSummaries = p.DimensionSummaries[:0]

	totalTags := 0
	confidentTags := 0

	for category, subs := range p.TagDimensions {
		for subcategory, bucket := range subs {
			if len(bucket) == 0 {
				continue
			}

			dominant := bucket[0]
			for _, inst := range bucket[1:] {
				if inst.Confidence > dominant.Confidence {
					dominant = inst
				}
			}

			p.DimensionSummaries = append(p.DimensionSummaries, DimensionSummary{
				DimensionName:    category,
				SubdimensionName: subcategory,
				DominantTag:      dominant.TagName,
				Confidence:       dominant.Confidence,
				TagCount:         len(bucket),
				LastUpdated:      dominant.LastReinforced,
			})

			totalTags += len(bucket)
			for _, inst := range bucket {
				if inst.Confidence >= params.ConfidentThreshold {
					confidentTags++
				}
			}
		}
	}

	// Map iteration order is random; keep summaries stable for callers.
	sort.Slice(p.DimensionSummaries, func(i, j int) bool {
		a, b := p.DimensionSummaries[i], p.DimensionSummaries[j]
		if a.DimensionName != b.DimensionName {
			return a.DimensionName < b.DimensionName
		}
		return a.SubdimensionName < b.SubdimensionName
	})

	// Maturity rewards quality (fraction confident) and quantity (capped at
	// MaturityTagTarget tags); past the target only the quality ratio matters.
	if totalTags == 0 {
		p.ProfileMaturity = 0.0
		return
	}
	maturity := (float64(confidentTags) / float64(totalTags)) * (float64(totalTags) / params.MaturityTagTarget)
	if maturity > 1.0 {
		maturity = 1.0
	}
	p.ProfileMaturity = maturity
}

// TagCounts returns the number of instances per dimension, plus totals used
// by the stats surface.
func TagCounts(p *Profile) (perDimension map[string]int, total int) {
	perDimension = make(map[string]int, len(p.TagDimensions))
	for category, subs := range p.TagDimensions {
		n := 0
		for _, bucket := range subs {
			n += len(bucket)
		}
		perDimension[category] = n
		total += n
	}
	return perDimension, total
}

// ConfidentCount returns how many instances meet the confident threshold.
func ConfidentCount(p *Profile, params Params) int {
	n := 0
	for _, subs := range p.TagDimensions {
		for _, bucket := range subs {
			for _, inst := range bucket {
				if inst.Confidence >= params.ConfidentThreshold {
					n++
				}
			}
		}
	}
	return n
}
