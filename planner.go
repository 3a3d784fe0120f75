package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Planner generates a structured multi-day plan for a user, or fails with a
// planningError. Persistence is never a side effect of planning — the
// controller saves the result in a separate, explicit step.
type Planner interface {
	GeneratePlan(ctx context.Context, profile UserProfile, currentDate, planContext string) (Plan, error)
}

/* ─── Prompt constants ───────────────────────────────────────────────── */

const planningSystemPrompt = `You are an autonomous health and nutrition coach. Generate a structured multi-day health plan and return it as a JSON object with:
- "plan_title" (string, a short motivational title, e.g. "Week 1: Focus on Protein")
- "duration_days" (integer, length of the plan in days, e.g. 7)
- "agent_reasoning" (string, 2-3 sentences explaining why this plan was generated)
- "daily_plans" (array with exactly duration_days entries, one per day):
  - "day" (integer, 1-based day number, sequential and unique)
  - "meals" (array of meal objects):
    - "meal_type" (Breakfast, Lunch, Dinner, or Snack)
    - "recipe_suggestion" (string, a brief, specific, easy-to-follow meal idea)
    - "estimated_kcal" (integer, estimated calories for this single meal)
  - "activity" (object, the primary physical activity for the day):
    - "activity_type" (e.g. Cardio, Strength Training, Yoga)
    - "duration_minutes" (integer)
    - "description" (string, the goal for this activity)

Keep daily meal totals consistent with the user's calorie target. Return only valid JSON, no explanation.`

const planningUserPromptTemplate = `Analyze the provided user profile, history, and metrics. Generate a comprehensive 7-day health and nutrition plan for the goal: %s. The current date is %s.`

/* ─── OpenAI HTTP client ─────────────────────────────────────────────── */

// openAIMessage is a single message in the OpenAI chat completions request.
type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIRequest is the request body for the OpenAI chat completions API.
type openAIRequest struct {
	Model          string                 `json:"model"`
	Messages       []openAIMessage        `json:"messages"`
	Temperature    float64                `json:"temperature"`
	ResponseFormat map[string]interface{} `json:"response_format"`
}

// openAIPlanner calls the OpenAI chat completions API with a JSON response
// format. Uses raw net/http to avoid pulling in the OpenAI SDK; the base URL
// is overridable so tests can point at an httptest server.
type openAIPlanner struct {
	baseURL string
}

func newOpenAIPlanner(baseURL string) *openAIPlanner {
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	return &openAIPlanner{baseURL: baseURL}
}

// callOpenAI sends a chat completions request and returns the raw content
// string from the first choice. Failures carry a planning error kind derived
// from the transport error or HTTP status.
func (p *openAIPlanner) callOpenAI(ctx context.Context, messages []openAIMessage) (string, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", &planningError{kind: planningKindAuth, err: fmt.Errorf("OPENAI_API_KEY not set")}
	}

	reqBody := openAIRequest{
		Model:       "gpt-4o-mini",
		Messages:    messages,
		Temperature: 0,
		ResponseFormat: map[string]interface{}{
			"type": "json_object",
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", &planningError{kind: planningKindOther, err: fmt.Errorf("marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", &planningError{kind: planningKindOther, err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", &planningError{kind: planningKindNetwork, err: fmt.Errorf("http request: %w", err)}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &planningError{kind: planningKindNetwork, err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		kind := planningKindOther
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			kind = planningKindAuth
		case http.StatusTooManyRequests:
			kind = planningKindRateLimit
		}
		return "", &planningError{kind: kind, err: fmt.Errorf("openai returned status %d", resp.StatusCode)}
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return "", &planningError{kind: planningKindMalformed, err: fmt.Errorf("unmarshal response: %w", err)}
	}
	if len(result.Choices) == 0 {
		return "", &planningError{kind: planningKindOther, err: fmt.Errorf("no choices in response")}
	}

	return result.Choices[0].Message.Content, nil
}

// GeneratePlan prompts the model with the planning instructions plus the
// accumulated cycle context and requires the response to conform exactly to
// the plan schema. Schema conformance is all-or-nothing — a response that
// parses but violates the schema is rejected as malformed output.
func (p *openAIPlanner) GeneratePlan(ctx context.Context, profile UserProfile, currentDate, planContext string) (Plan, error) {
	systemPrompt := planningSystemPrompt
	if planContext != "" {
		systemPrompt += "\n\nCONTEXT AND HISTORY FOR ADAPTATION:\n" + planContext
	}

	messages := []openAIMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf(planningUserPromptTemplate, profile.Goal, currentDate)},
	}

	content, err := p.callOpenAI(ctx, messages)
	if err != nil {
		return Plan{}, err
	}

	var plan Plan
	if err := json.Unmarshal([]byte(content), &plan); err != nil {
		return Plan{}, &planningError{kind: planningKindMalformed, err: fmt.Errorf("parse plan JSON: %w", err)}
	}
	if err := validatePlan(plan); err != nil {
		return Plan{}, &planningError{kind: planningKindMalformed, err: err}
	}

	return plan, nil
}

/* ─── Schema validation ──────────────────────────────────────────────── */

// validatePlan checks the structural invariants of a generated plan: a title,
// a positive duration, and day entries covering exactly 1..duration_days with
// at least one fully-described meal and an activity type per day.
func validatePlan(plan Plan) error {
	if plan.PlanTitle == "" {
		return fmt.Errorf("plan_title is empty")
	}
	if plan.DurationDays < 1 {
		return fmt.Errorf("duration_days must be at least 1, got %d", plan.DurationDays)
	}
	if len(plan.DailyPlans) != plan.DurationDays {
		return fmt.Errorf("expected %d daily plans, got %d", plan.DurationDays, len(plan.DailyPlans))
	}

	seen := make(map[int]bool, len(plan.DailyPlans))
	for _, day := range plan.DailyPlans {
		if day.Day < 1 || day.Day > plan.DurationDays {
			return fmt.Errorf("day index %d out of range 1..%d", day.Day, plan.DurationDays)
		}
		if seen[day.Day] {
			return fmt.Errorf("duplicate day index %d", day.Day)
		}
		seen[day.Day] = true

		if len(day.Meals) == 0 {
			return fmt.Errorf("day %d has no meals", day.Day)
		}
		for _, meal := range day.Meals {
			if meal.MealType == "" || meal.RecipeSuggestion == "" {
				return fmt.Errorf("day %d has a meal missing meal_type or recipe_suggestion", day.Day)
			}
		}
		if day.Activity.ActivityType == "" {
			return fmt.Errorf("day %d has no activity_type", day.Day)
		}
	}
	return nil
}
