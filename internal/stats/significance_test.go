package stats_test

import (
	"testing"

	"github.com/headline-goat/goatchart/internal/aggregate"
	"github.com/headline-goat/goatchart/internal/stats"
)

func names(id string) string {
	return map[string]string{"1": "Control", "2": "Treatment", "3": "Third"}[id]
}

func bucket(date string, counts map[string]aggregate.Counts) aggregate.Bucket {
	return aggregate.Bucket{Date: date, Counts: counts}
}

func TestSignificanceTest_ClearWinner(t *testing.T) {
	// 10% vs 5% over 1000 views each
	confidence := stats.SignificanceTest(100, 1000, 50, 1000)

	if confidence < 0.95 {
		t.Errorf("expected high confidence (>0.95), got %f", confidence)
	}
}

func TestSignificanceTest_NoSignificance(t *testing.T) {
	confidence := stats.SignificanceTest(50, 1000, 50, 1000)

	if confidence > 0.60 {
		t.Errorf("expected low confidence (<0.60) for equal rates, got %f", confidence)
	}
}

func TestSignificanceTest_SmallSample(t *testing.T) {
	confidence := stats.SignificanceTest(5, 20, 2, 20)

	if confidence > 0.95 {
		t.Errorf("expected lower confidence for small sample, got %f", confidence)
	}
}

func TestSignificanceTest_ZeroViews(t *testing.T) {
	if c := stats.SignificanceTest(0, 0, 0, 0); c != 0.5 {
		t.Errorf("expected 0.5 for zero views, got %f", c)
	}
	if c := stats.SignificanceTest(10, 100, 0, 0); c != 0.5 {
		t.Errorf("expected 0.5 when only one variation has data, got %f", c)
	}
}

func TestAnalyze_SumsWindow(t *testing.T) {
	buckets := []aggregate.Bucket{
		bucket("2024-01-01", map[string]aggregate.Counts{"1": {Visits: 50, Conversions: 5}, "2": {Visits: 50, Conversions: 10}}),
		bucket("2024-01-02", map[string]aggregate.Counts{"1": {Visits: 50, Conversions: 5}, "2": {Visits: 50, Conversions: 10}}),
	}

	result := stats.Analyze(buckets, []string{"1", "2"}, names)

	if len(result.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(result.Variants))
	}
	control, treatment := result.Variants[0], result.Variants[1]

	if control.Views != 100 || control.Conversions != 10 || control.Rate != 10 {
		t.Errorf("control = %+v, want 10/100 at 10%%", control)
	}
	if treatment.Rate != 20 {
		t.Errorf("treatment rate = %f, want 20", treatment.Rate)
	}
	if treatment.Name != "Treatment" || treatment.ID != "2" {
		t.Errorf("treatment identity = %q/%q", treatment.ID, treatment.Name)
	}
	if result.LeadingVariant != 1 {
		t.Errorf("expected variant 1 to be leading, got %d", result.LeadingVariant)
	}
}

func TestAnalyze_ConfidenceIntervals(t *testing.T) {
	buckets := []aggregate.Bucket{
		bucket("2024-01-01", map[string]aggregate.Counts{"1": {Visits: 1000, Conversions: 100}, "2": {Visits: 1000, Conversions: 150}}),
	}

	result := stats.Analyze(buckets, []string{"1", "2"}, names)

	for i, v := range result.Variants {
		if v.CILower >= v.Rate {
			t.Errorf("variant %d: CI lower %f should be < rate %f", i, v.CILower, v.Rate)
		}
		if v.CIUpper <= v.Rate {
			t.Errorf("variant %d: CI upper %f should be > rate %f", i, v.CIUpper, v.Rate)
		}
		if v.CILower < 0 || v.CIUpper > 100 {
			t.Errorf("variant %d: CI [%f, %f] out of bounds", i, v.CILower, v.CIUpper)
		}
	}
	if !result.Confident {
		t.Errorf("expected 15%% vs 10%% over 1000 views to be significant, got %f", result.ConfidenceLevel)
	}
}

func TestAnalyze_ControlLeading(t *testing.T) {
	buckets := []aggregate.Bucket{
		bucket("2024-01-01", map[string]aggregate.Counts{
			"1": {Visits: 1000, Conversions: 200},
			"2": {Visits: 1000, Conversions: 100},
			"3": {Visits: 1000, Conversions: 150},
		}),
	}

	result := stats.Analyze(buckets, []string{"1", "2", "3"}, names)

	if result.LeadingVariant != 0 {
		t.Errorf("expected control to lead, got %d", result.LeadingVariant)
	}
	// control vs best challenger (15%) is still clearly significant
	if result.ConfidenceLevel < 0.95 {
		t.Errorf("expected high confidence, got %f", result.ConfidenceLevel)
	}
}

func TestAnalyze_EmptyWindow(t *testing.T) {
	result := stats.Analyze(nil, []string{"1", "2"}, names)

	if len(result.Variants) != 2 {
		t.Fatalf("expected 2 variants even with no data, got %d", len(result.Variants))
	}
	for _, v := range result.Variants {
		if v.Views != 0 || v.Conversions != 0 || v.Rate != 0 {
			t.Errorf("expected zero stats, got %+v", v)
		}
	}
	if result.Confident {
		t.Error("empty window should not be confident")
	}
}
