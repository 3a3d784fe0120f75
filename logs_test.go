package main

import (
	"math"
	"testing"
)

/* ─── Synthetic daily log tests ──────────────────────────────────────── */

// TestGetDailyLogs_Deterministic verifies that the same (user, date) pair
// always produces the same log, within a run and across provider instances.
func TestGetDailyLogs_Deterministic(t *testing.T) {
	p1 := newSyntheticLogProvider(85.0)
	p2 := newSyntheticLogProvider(85.0)

	a, err := p1.GetDailyLogs("kiit0001", "2026-08-30")
	if err != nil {
		t.Fatal(err)
	}
	b, err := p2.GetDailyLogs("kiit0001", "2026-08-30")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("logs differ for same (user, date):\n%+v\n%+v", a, b)
	}
}

// TestGetDailyLogs_Ranges verifies that every generated field stays inside
// its synthetic range across a spread of dates.
func TestGetDailyLogs_Ranges(t *testing.T) {
	p := newSyntheticLogProvider(85.0)
	dates := []string{"2026-08-01", "2026-08-15", "2026-08-30", "2026-09-01"}

	for _, date := range dates {
		logs, err := p.GetDailyLogs("kiit0001", date)
		if err != nil {
			t.Fatalf("%s: %v", date, err)
		}
		if logs.WeightKG < 84.0 || logs.WeightKG > 86.0 {
			t.Errorf("%s: weight %v outside 85±1", date, logs.WeightKG)
		}
		if logs.CaloriesConsumed < 2000 || logs.CaloriesConsumed > 2600 {
			t.Errorf("%s: calories %d outside 2000..2600", date, logs.CaloriesConsumed)
		}
		if logs.ActivityCaloriesBurned < 400 || logs.ActivityCaloriesBurned > 800 {
			t.Errorf("%s: burned %d outside 400..800", date, logs.ActivityCaloriesBurned)
		}
		if logs.Steps < 6000 || logs.Steps > 14000 {
			t.Errorf("%s: steps %d outside 6000..14000", date, logs.Steps)
		}
		if logs.MealsSummary == "" {
			t.Errorf("%s: empty meals summary", date)
		}
	}
}

// TestGetDailyLogs_InvalidDate verifies that a malformed date errors instead
// of silently producing a log for the zero time.
func TestGetDailyLogs_InvalidDate(t *testing.T) {
	p := newSyntheticLogProvider(85.0)
	if _, err := p.GetDailyLogs("kiit0001", "30-08-2026"); err == nil {
		t.Error("expected error for malformed date, got nil")
	}
}

/* ─── Weight history tests ───────────────────────────────────────────── */

// TestGenerateWeightHistory_TargetTrend verifies the contract the chart
// depends on: 12 weekly records with target_trend_kg = initial − 0.5·week,
// strictly decreasing.
func TestGenerateWeightHistory_TargetTrend(t *testing.T) {
	history := generateWeightHistory("kiit0001", 85.0, 12)

	if len(history) != 12 {
		t.Fatalf("expected 12 entries, got %d", len(history))
	}
	for i, entry := range history {
		if entry.Week != i+1 {
			t.Errorf("entry %d: week = %d, want %d", i, entry.Week, i+1)
		}
		want := 85.0 - 0.5*float64(i+1)
		if math.Abs(entry.TargetTrendKG-want) > 1e-9 {
			t.Errorf("week %d: target trend = %v, want %v", entry.Week, entry.TargetTrendKG, want)
		}
		if i > 0 && entry.TargetTrendKG >= history[i-1].TargetTrendKG {
			t.Errorf("week %d: target trend %v not strictly decreasing from %v",
				entry.Week, entry.TargetTrendKG, history[i-1].TargetTrendKG)
		}
	}
}

// TestGenerateWeightHistory_ActualNearTrend verifies the actual-weight line
// fluctuates around the trend without running away: the allowed noise at week
// i is ±0.4·(1 + 0.1·i) kg.
func TestGenerateWeightHistory_ActualNearTrend(t *testing.T) {
	history := generateWeightHistory("kiit0001", 85.0, 12)

	for i, entry := range history {
		bound := 0.4*(1+float64(i)*0.1) + 0.01 // rounding slack
		if math.Abs(entry.ActualWeightKG-entry.TargetTrendKG) > bound {
			t.Errorf("week %d: actual %v deviates more than %v from trend %v",
				entry.Week, entry.ActualWeightKG, bound, entry.TargetTrendKG)
		}
	}
}

// TestGenerateWeightHistory_StablePerUser verifies the series is reproducible
// for a user, so the dashboard chart does not jump on every reload.
func TestGenerateWeightHistory_StablePerUser(t *testing.T) {
	a := generateWeightHistory("kiit0001", 85.0, 6)
	b := generateWeightHistory("kiit0001", 85.0, 6)
	for i := range a {
		if a[i].ActualWeightKG != b[i].ActualWeightKG {
			t.Errorf("week %d: actual weight differs between calls: %v vs %v",
				a[i].Week, a[i].ActualWeightKG, b[i].ActualWeightKG)
		}
	}
}
