package main

import (
	"time"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// UserProfile holds identity and physiology for one user. It is owned by the
// caller (config or request), never mutated by the agent.
type UserProfile struct {
	UserID          string  `json:"user_id"`
	Gender          string  `json:"gender"`
	AgeYears        int     `json:"age_years"`
	HeightCM        float64 `json:"height_cm"`
	ActivityLevel   string  `json:"activity_level"`
	TargetWeightKG  float64 `json:"target_weight_kg"`
	InitialWeightKG float64 `json:"initial_weight_kg"`
	Goal            string  `json:"goal"`
}

// DailyLog is one day's health record for a (user, date) pair. Logs are
// produced fresh each cycle by the log provider and not persisted here.
type DailyLog struct {
	UserID                 string   `json:"user_id"`
	Date                   DateOnly `json:"date"`
	WeightKG               float64  `json:"weight_kg"`
	CaloriesConsumed       int      `json:"calories_consumed"`
	ActivityCaloriesBurned int      `json:"activity_calories_burned"`
	Steps                  int      `json:"steps"`
	MealsSummary           string   `json:"meals_summary"`
}

// Metrics is derived on demand from profile + latest log; never stored.
// ActivityFactorUsed echoes the multiplier actually applied, for auditability.
type Metrics struct {
	BMRKcal              int     `json:"bmr_kcal"`
	TDEEKcal             int     `json:"tdee_kcal"`
	TargetWeightLossKcal int     `json:"target_weight_loss_kcal"`
	ActivityFactorUsed   float64 `json:"activity_factor_used"`
}

/* ─── Plan schema ────────────────────────────────────────────────────── */

// MealItem is a single meal within a day's plan.
type MealItem struct {
	MealType         string `json:"meal_type"`
	RecipeSuggestion string `json:"recipe_suggestion"`
	EstimatedKcal    int    `json:"estimated_kcal"`
}

// ActivityItem is the primary physical activity for a day.
type ActivityItem struct {
	ActivityType    string `json:"activity_type"`
	DurationMinutes int    `json:"duration_minutes"`
	Description     string `json:"description"`
}

// DailyPlan holds the meals and activity for one day. Day indices across a
// plan must be exactly 1..duration_days, unique and complete.
type DailyPlan struct {
	Day      int          `json:"day"`
	Meals    []MealItem   `json:"meals"`
	Activity ActivityItem `json:"activity"`
}

// Plan is the structured multi-day artifact produced by the planning engine.
type Plan struct {
	PlanTitle      string      `json:"plan_title"`
	DurationDays   int         `json:"duration_days"`
	AgentReasoning string      `json:"agent_reasoning"`
	DailyPlans     []DailyPlan `json:"daily_plans"`
}

// StoredPlan is a Plan plus persistence metadata. At most one stored plan per
// user is active at any time; superseded plans are deactivated, never deleted.
type StoredPlan struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"is_active"`
	Plan
}

/* ─── History series ─────────────────────────────────────────────────── */

// WeightHistoryEntry is one week in the synthetic progress series rendered by
// the dashboard. TargetTrendKG decreases by a fixed 0.5 kg per week.
type WeightHistoryEntry struct {
	Week           int      `json:"week"`
	Date           DateOnly `json:"date"`
	ActualWeightKG float64  `json:"actual_weight_kg"`
	TargetTrendKG  float64  `json:"target_trend_kg"`
}

/* ─── API request / response types ───────────────────────────────────── */

// runAgentRequest is the request body for POST /api/agent/run. UserID is
// optional — the configured profile's user is used when omitted.
type runAgentRequest struct {
	UserID string `json:"user_id"`
}

// runAgentResponse surfaces the outcome of one full agent cycle.
type runAgentResponse struct {
	UserID         string `json:"user_id"`
	ProgressReport string `json:"progress_report"`
	PlanSaved      bool   `json:"plan_saved"`
	NewPlan        *Plan  `json:"new_plan"`
}
