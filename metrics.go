package main

import (
	"fmt"
	"math"
	"strings"
)

// activityFactors maps activity level strings to their TDEE multiplier.
// This is the single source of truth for known activity levels. Lookups are
// lower-cased; unknown levels fall back to defaultActivityFactor rather than
// erroring, so a misspelled wearable profile never blocks an evaluation.
var activityFactors = map[string]float64{
	"sedentary":         1.2,
	"lightly active":    1.375,
	"moderately active": 1.55,
	"very active":       1.725,
}

const defaultActivityFactor = 1.55

// Mifflin-St Jeor gender adjustments. Any gender other than male/female
// leaves the BMR unadjusted.
const (
	maleBMRAdjust   = 5
	femaleBMRAdjust = -161
)

// targetDeficitKcal is the fixed daily deficit applied to TDEE for the
// weight-loss calorie target.
const targetDeficitKcal = 500

// calculateMetrics computes BMR (Mifflin-St Jeor), TDEE, and the weight-loss
// calorie target from body metrics and activity level. Pure and deterministic;
// safe for concurrent use. Weight, height, and age must all be positive or an
// errInvalidInput-wrapped error is returned.
func calculateMetrics(weightKG, heightCM float64, ageYears int, gender, activityLevel string) (Metrics, error) {
	if weightKG <= 0 || heightCM <= 0 || ageYears <= 0 {
		return Metrics{}, fmt.Errorf("%w: weight, height, and age must be positive numbers", errInvalidInput)
	}

	bmr := 10*weightKG + 6.25*heightCM - 5*float64(ageYears)
	switch strings.ToLower(gender) {
	case "male":
		bmr += maleBMRAdjust
	case "female":
		bmr += femaleBMRAdjust
	}

	factor, ok := activityFactors[strings.ToLower(activityLevel)]
	if !ok {
		factor = defaultActivityFactor
	}
	tdee := bmr * factor

	// Round to whole kilocalories; the target is the rounded TDEE minus the
	// fixed deficit so the two published numbers always differ by exactly 500.
	tdeeRounded := int(math.Round(tdee))
	return Metrics{
		BMRKcal:              int(math.Round(bmr)),
		TDEEKcal:             tdeeRounded,
		TargetWeightLossKcal: tdeeRounded - targetDeficitKcal,
		ActivityFactorUsed:   factor,
	}, nil
}
