package store

import (
	"math"
	"testing"

	"tankplan/internal/model"
)

func TestFitBurnFactorPerfectLine(t *testing.T) {
	samples := []model.BurnSample{
		{ExtraWeight: 10000, DistanceNm: 2000, ExtraBurn: 0.00022 * 10000 * 2000},
		{ExtraWeight: 20000, DistanceNm: 3000, ExtraBurn: 0.00022 * 20000 * 3000},
	}
	alpha, n := FitBurnFactor(samples)
	if n != 2 {
		t.Fatalf("n: got %d", n)
	}
	if math.Abs(alpha-0.00022) > 1e-12 {
		t.Fatalf("alpha: got %g, want 0.00022", alpha)
	}
}

func TestFitBurnFactorSkipsDegenerate(t *testing.T) {
	samples := []model.BurnSample{
		{ExtraWeight: 0, DistanceNm: 2000, ExtraBurn: 100},
		{ExtraWeight: 10000, DistanceNm: 0, ExtraBurn: 100},
	}
	if alpha, n := FitBurnFactor(samples); n != 0 || alpha != 0 {
		t.Fatalf("got alpha=%g n=%d, want 0, 0", alpha, n)
	}
}

func TestFitBurnFactorClampsNegative(t *testing.T) {
	// noise can push the fit below zero; a negative alpha is meaningless
	samples := []model.BurnSample{
		{ExtraWeight: 10000, DistanceNm: 2000, ExtraBurn: -500},
	}
	alpha, n := FitBurnFactor(samples)
	if n != 1 || alpha != 0 {
		t.Fatalf("got alpha=%g n=%d, want clamp to 0", alpha, n)
	}
}

func TestNullIfEmpty(t *testing.T) {
	if v := nullIfEmpty(""); v != nil {
		t.Fatalf("empty -> nil expected, got %v", v)
	}
	if v := nullIfEmpty("MLE-TFU"); v != "MLE-TFU" {
		t.Fatalf("got %v", v)
	}
}
