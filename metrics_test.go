package main

import (
	"errors"
	"math"
	"testing"
)

/* ─── Input validation guard tests ───────────────────────────────────── */

// TestCalculateMetrics_InvalidInputs verifies that non-positive weight,
// height, or age each fail with errInvalidInput rather than producing
// nonsense numbers.
func TestCalculateMetrics_InvalidInputs(t *testing.T) {
	cases := []struct {
		name     string
		weightKG float64
		heightCM float64
		ageYears int
	}{
		{"zero weight", 0, 175, 30},
		{"negative weight", -70, 175, 30},
		{"zero height", 70, 0, 30},
		{"negative height", 70, -175, 30},
		{"zero age", 70, 175, 0},
		{"negative age", 70, 175, -30},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := calculateMetrics(tc.weightKG, tc.heightCM, tc.ageYears, "male", "sedentary")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, errInvalidInput) {
				t.Errorf("expected errInvalidInput, got %v", err)
			}
		})
	}
}

/* ─── BMR accuracy tests ─────────────────────────────────────────────── */

// TestCalculateMetrics_MaleFemaleBMRDelta verifies the gender adjustment:
// with identical body metrics, male and female BMR differ by exactly 166
// (+5 vs -161).
func TestCalculateMetrics_MaleFemaleBMRDelta(t *testing.T) {
	male, err := calculateMetrics(70, 175, 30, "male", "sedentary")
	if err != nil {
		t.Fatalf("male: %v", err)
	}
	female, err := calculateMetrics(70, 175, 30, "female", "sedentary")
	if err != nil {
		t.Fatalf("female: %v", err)
	}
	if delta := male.BMRKcal - female.BMRKcal; delta != 166 {
		t.Errorf("male-female BMR delta = %d, want 166", delta)
	}
}

// TestCalculateMetrics_KnownValues pins the full Mifflin-St Jeor computation
// for one set of inputs: 70kg, 175cm, 30y male, sedentary.
// bmr = 10*70 + 6.25*175 - 5*30 + 5 = 1648.75 → 1649
// tdee = 1648.75 * 1.2 = 1978.5 → 1979; target = 1979 - 500 = 1479
func TestCalculateMetrics_KnownValues(t *testing.T) {
	got, err := calculateMetrics(70, 175, 30, "male", "sedentary")
	if err != nil {
		t.Fatal(err)
	}
	want := Metrics{BMRKcal: 1649, TDEEKcal: 1979, TargetWeightLossKcal: 1479, ActivityFactorUsed: 1.2}
	if got != want {
		t.Errorf("calculateMetrics = %+v, want %+v", got, want)
	}
}

// TestCalculateMetrics_OtherGenderUnadjusted verifies the documented gap:
// genders other than male/female leave the BMR base unadjusted.
func TestCalculateMetrics_OtherGenderUnadjusted(t *testing.T) {
	got, err := calculateMetrics(70, 175, 30, "nonbinary", "sedentary")
	if err != nil {
		t.Fatal(err)
	}
	// Base Mifflin-St Jeor with no adjustment: 1643.75 → 1644
	if got.BMRKcal != 1644 {
		t.Errorf("BMR = %d, want 1644 (unadjusted)", got.BMRKcal)
	}
}

// TestCalculateMetrics_GenderCaseInsensitive verifies that gender and
// activity-level matching ignores case.
func TestCalculateMetrics_GenderCaseInsensitive(t *testing.T) {
	upper, err := calculateMetrics(70, 175, 30, "MALE", "Sedentary")
	if err != nil {
		t.Fatal(err)
	}
	lower, err := calculateMetrics(70, 175, 30, "male", "sedentary")
	if err != nil {
		t.Fatal(err)
	}
	if upper != lower {
		t.Errorf("case-insensitive mismatch: %+v vs %+v", upper, lower)
	}
}

/* ─── Activity factor tests ──────────────────────────────────────────── */

// TestCalculateMetrics_ActivityFactors verifies the lookup table and that the
// applied factor is echoed back for auditability.
func TestCalculateMetrics_ActivityFactors(t *testing.T) {
	cases := []struct {
		level  string
		factor float64
	}{
		{"sedentary", 1.2},
		{"lightly active", 1.375},
		{"moderately active", 1.55},
		{"very active", 1.725},
	}

	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			got, err := calculateMetrics(70, 175, 30, "male", tc.level)
			if err != nil {
				t.Fatal(err)
			}
			if got.ActivityFactorUsed != tc.factor {
				t.Errorf("factor = %v, want %v", got.ActivityFactorUsed, tc.factor)
			}
		})
	}
}

// TestCalculateMetrics_UnknownActivityFallsBack verifies that an unrecognized
// activity level silently falls back to 1.55 instead of erroring.
func TestCalculateMetrics_UnknownActivityFallsBack(t *testing.T) {
	got, err := calculateMetrics(70, 175, 30, "male", "couch potato")
	if err != nil {
		t.Fatalf("expected no error for unknown activity level, got %v", err)
	}
	if got.ActivityFactorUsed != 1.55 {
		t.Errorf("factor = %v, want fallback 1.55", got.ActivityFactorUsed)
	}
}

/* ─── Determinism / consistency tests ────────────────────────────────── */

// TestCalculateMetrics_Deterministic verifies same inputs → identical output.
func TestCalculateMetrics_Deterministic(t *testing.T) {
	a, err := calculateMetrics(82.3, 168.5, 44, "female", "lightly active")
	if err != nil {
		t.Fatal(err)
	}
	b, err := calculateMetrics(82.3, 168.5, 44, "female", "lightly active")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("non-deterministic: %+v vs %+v", a, b)
	}
}

// TestCalculateMetrics_TargetIsTDEEMinus500 verifies the published target is
// always the rounded TDEE minus the fixed 500 kcal deficit.
func TestCalculateMetrics_TargetIsTDEEMinus500(t *testing.T) {
	weights := []float64{55, 70, 85.5, 120}
	for _, w := range weights {
		got, err := calculateMetrics(w, 175, 30, "male", "very active")
		if err != nil {
			t.Fatal(err)
		}
		if got.TargetWeightLossKcal != got.TDEEKcal-500 {
			t.Errorf("weight %v: target = %d, tdee = %d, want delta 500", w, got.TargetWeightLossKcal, got.TDEEKcal)
		}
		if math.Abs(float64(got.TDEEKcal)) < 1 {
			t.Errorf("weight %v: implausible TDEE %d", w, got.TDEEKcal)
		}
	}
}
