package main

import (
	"hash/fnv"
	"math"
	"math/rand"
	"time"
)

// LogProvider supplies a day's health log for a user/date pair. In production
// this would wrap a wearable or logging API; here logs are synthesized.
type LogProvider interface {
	GetDailyLogs(userID, date string) (DailyLog, error)
}

// syntheticLogProvider generates plausible daily logs seeded per (user, date),
// so the same pair always yields the same log within and across runs.
type syntheticLogProvider struct {
	baseWeightKG float64
}

func newSyntheticLogProvider(baseWeightKG float64) *syntheticLogProvider {
	return &syntheticLogProvider{baseWeightKG: baseWeightKG}
}

// logSeed derives a stable seed from the (user, date) pair.
func logSeed(userID, date string) int64 {
	h := fnv.New64a()
	h.Write([]byte(userID + date))
	return int64(h.Sum64() % 1000)
}

func (p *syntheticLogProvider) GetDailyLogs(userID, date string) (DailyLog, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return DailyLog{}, err
	}

	rng := rand.New(rand.NewSource(logSeed(userID, date)))
	weight := p.baseWeightKG + (rng.Float64()*2 - 1) // ±1.0 kg around base
	weight = math.Round(weight*10) / 10

	return DailyLog{
		UserID:                 userID,
		Date:                   DateOnly{day},
		WeightKG:               weight,
		CaloriesConsumed:       2000 + rng.Intn(601),
		ActivityCaloriesBurned: 400 + rng.Intn(401),
		Steps:                  6000 + rng.Intn(8001),
		MealsSummary: "Breakfast: Eggs & Avocado (400 kcal). Lunch: Chicken Rice (700 kcal). " +
			"Dinner: Steak & Veggies (800 kcal). Snacks: 2 protein bars (500 kcal total).",
	}, nil
}

// generateWeightHistory produces a synthetic weekly weight series for the
// progress chart. The target trend decreases by exactly 0.5 kg per week from
// the initial weight; the "actual" line fluctuates around it with noise that
// grows with the week index. Seeded per user so the chart is stable on reload.
func generateWeightHistory(userID string, initialWeightKG float64, weeks int) []WeightHistoryEntry {
	const targetWeeklyLossKG = 0.5

	rng := rand.New(rand.NewSource(logSeed(userID, "history")))
	now := time.Now()

	history := make([]WeightHistoryEntry, 0, weeks)
	for i := 0; i < weeks; i++ {
		ideal := initialWeightKG - targetWeeklyLossKG*float64(i+1)
		fluctuation := (rng.Float64()*0.8 - 0.4) * (1 + float64(i)*0.1)

		history = append(history, WeightHistoryEntry{
			Week:           i + 1,
			Date:           DateOnly{now.AddDate(0, 0, -7*(weeks-i))},
			ActualWeightKG: round2(ideal + fluctuation),
			TargetTrendKG:  round2(ideal),
		})
	}
	return history
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
