package profile

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/lazypower/persona/internal/taxonomy"
)

func testTime() time.Time {
	return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
}

func obsAt(name string, confidence float64, cat, sub string, ts time.Time) Observation {
	return Observation{
		Name:        name,
		Confidence:  confidence,
		Evidence:    "evidence for " + name,
		Category:    cat,
		Subcategory: sub,
		Timestamp:   FormatTime(ts),
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestReinforceWeightedAverage(t *testing.T) {
	now := testTime()
	inst := &TagInstance{
		TagName:            "runner",
		Confidence:         0.5,
		ReinforcementCount: 1,
		FirstSeen:          FormatTime(now),
		LastReinforced:     FormatTime(now),
		EvidenceList:       []string{"first"},
		DecayRate:          0.1,
	}

	Reinforce(inst, obsAt("runner", 0.9, "product_usage", "feature_preference", now), DefaultParams())

	// 0.5*0.7 + 0.9*0.3 = 0.62
	if !almostEqual(inst.Confidence, 0.62) {
		t.Errorf("Confidence = %v, want 0.62", inst.Confidence)
	}
	if inst.ReinforcementCount != 2 {
		t.Errorf("ReinforcementCount = %d, want 2", inst.ReinforcementCount)
	}
	if len(inst.EvidenceList) != 2 {
		t.Errorf("EvidenceList length = %d, want 2", len(inst.EvidenceList))
	}
}

func TestReinforceConfidenceCap(t *testing.T) {
	now := testTime()
	inst := &TagInstance{
		TagName:            "runner",
		Confidence:         0.99,
		ReinforcementCount: 1,
		LastReinforced:     FormatTime(now),
	}

	params := DefaultParams()
	params.ReinforcementWeight = 1.0
	Reinforce(inst, Observation{Name: "runner", Confidence: 1.5, Timestamp: FormatTime(now)}, params)

	if inst.Confidence > 1.0 {
		t.Errorf("Confidence = %v, want <= 1.0", inst.Confidence)
	}
}

func TestEvidenceCapKeepsMostRecent(t *testing.T) {
	now := testTime()
	tax := taxonomy.Default()
	params := DefaultParams()
	p := NewEmpty("u1", tax, now)

	for i := 0; i < 15; i++ {
		obs := obsAt("night-owl", 0.7, "product_usage", "interaction_preference", now)
		obs.Evidence = fmt.Sprintf("evidence-%d", i)
		Upsert(p, obs, tax, params, now)
	}

	inst := p.Find("product_usage", "interaction_preference", "night-owl")
	if inst == nil {
		t.Fatal("instance not found")
	}
	if len(inst.EvidenceList) != 10 {
		t.Fatalf("EvidenceList length = %d, want 10", len(inst.EvidenceList))
	}
	if inst.EvidenceList[0] != "evidence-5" {
		t.Errorf("oldest kept evidence = %q, want evidence-5", inst.EvidenceList[0])
	}
	if inst.EvidenceList[9] != "evidence-14" {
		t.Errorf("newest evidence = %q, want evidence-14", inst.EvidenceList[9])
	}
	if inst.ReinforcementCount != 15 {
		t.Errorf("ReinforcementCount = %d, want 15", inst.ReinforcementCount)
	}
}

func TestUpsertCreatesNewInstance(t *testing.T) {
	now := testTime()
	tax := taxonomy.Default()
	p := NewEmpty("u1", tax, now)

	Upsert(p, obsAt("parent", 0.8, "demographics", "health_role", now), tax, DefaultParams(), now)

	inst := p.Find("demographics", "health_role", "parent")
	if inst == nil {
		t.Fatal("instance not created")
	}
	if inst.ReinforcementCount != 1 {
		t.Errorf("ReinforcementCount = %d, want 1", inst.ReinforcementCount)
	}
	if inst.FirstSeen != inst.LastReinforced {
		t.Errorf("FirstSeen %q != LastReinforced %q", inst.FirstSeen, inst.LastReinforced)
	}
	if inst.DecayRate != 0.1 {
		t.Errorf("DecayRate = %v, want 0.1", inst.DecayRate)
	}
	if len(inst.EvidenceList) != 1 {
		t.Errorf("EvidenceList length = %d, want 1", len(inst.EvidenceList))
	}
}

func TestUpsertUnknownSubcategoryCreatesBucket(t *testing.T) {
	now := testTime()
	tax := taxonomy.Default()
	p := NewEmpty("u1", tax, now)

	Upsert(p, obsAt("tag-a", 0.5, "intent", "brand_affinity", now), tax, DefaultParams(), now)

	if p.Find("intent", "brand_affinity", "tag-a") == nil {
		t.Error("bucket for unknown subcategory not created")
	}
}

func TestUpsertDefaultsMissingTimestamp(t *testing.T) {
	now := testTime()
	tax := taxonomy.Default()
	p := NewEmpty("u1", tax, now)

	obs := obsAt("tag-a", 0.5, "intent", "intent_type", now)
	obs.Timestamp = ""
	Upsert(p, obs, tax, DefaultParams(), now)

	inst := p.Find("intent", "intent_type", "tag-a")
	if inst.LastReinforced != FormatTime(now) {
		t.Errorf("LastReinforced = %q, want cycle time", inst.LastReinforced)
	}
}

func TestApplyBatchDropsUnknownCategory(t *testing.T) {
	now := testTime()
	tax := taxonomy.Default()
	p := NewEmpty("u1", tax, now)

	batch := map[string][]Observation{
		"astrology": {obsAt("aries", 0.9, "astrology", "sign", now)},
		"intent":    {obsAt("research", 0.7, "intent", "intent_type", now)},
	}
	ApplyBatch(p, batch, tax, DefaultParams(), now)

	if _, ok := p.TagDimensions["astrology"]; ok {
		t.Error("unknown category was not dropped")
	}
	if p.Find("intent", "intent_type", "research") == nil {
		t.Error("known category was not applied")
	}
}

func TestApplyBatchEmptyStillCountsInteraction(t *testing.T) {
	now := testTime()
	tax := taxonomy.Default()
	p := NewEmpty("u1", tax, now)

	ApplyBatch(p, nil, tax, DefaultParams(), now)
	ApplyBatch(p, map[string][]Observation{}, tax, DefaultParams(), now)

	if p.TotalInteractions != 2 {
		t.Errorf("TotalInteractions = %d, want 2", p.TotalInteractions)
	}
	for cat, subs := range p.TagDimensions {
		for sub, bucket := range subs {
			if len(bucket) != 0 {
				t.Errorf("bucket %s/%s not empty after empty batches", cat, sub)
			}
		}
	}
}

func TestApplyBatchConfidenceStaysClamped(t *testing.T) {
	now := testTime()
	tax := taxonomy.Default()
	params := DefaultParams()
	p := NewEmpty("u1", tax, now)

	// Many cycles of mixed-confidence reinforcement on the same tag.
	for i := 0; i < 50; i++ {
		conf := float64(i%11) / 10.0
		batch := map[string][]Observation{
			"product_usage": {obsAt("power-user", conf, "product_usage", "feature_preference", now)},
		}
		ApplyBatch(p, batch, tax, params, now.Add(time.Duration(i)*24*time.Hour))
	}

	inst := p.Find("product_usage", "feature_preference", "power-user")
	if inst.Confidence < 0.1 || inst.Confidence > 1.0 {
		t.Errorf("Confidence = %v, want within [0.1, 1.0]", inst.Confidence)
	}
}
