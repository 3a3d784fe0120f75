package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"
)

// agentPhase enumerates the states of one evaluation cycle:
// fetch → evaluate → (replan | done), with replan always ending in done.
type agentPhase int

const (
	phaseFetch agentPhase = iota
	phaseEvaluate
	phaseReplan
	phaseDone
)

// agentState is the transient record threaded through one cycle. Created at
// cycle start, discarded at cycle end; never persisted.
type agentState struct {
	userID         string
	currentPlan    *StoredPlan
	logs           *DailyLog
	replanNeeded   bool
	progressReport string
	newPlan        *Plan
	planSaved      bool
	llmContext     string
}

// agentRunner holds the collaborators for the adaptive planning cycle. All
// are injected by the composition root, so tests can substitute doubles.
type agentRunner struct {
	store   PlanStore
	logs    LogProvider
	planner Planner
	profile UserProfile
	now     func() time.Time
}

func newAgentRunner(store PlanStore, logs LogProvider, planner Planner, profile UserProfile) *agentRunner {
	return &agentRunner{
		store:   store,
		logs:    logs,
		planner: planner,
		profile: profile,
		now:     time.Now,
	}
}

// runCycle executes one full pass through the state machine for userID. A run
// never loops: each phase is entered at most once. The returned state carries
// the progress report and, when a replan succeeded, the new plan.
func (r *agentRunner) runCycle(ctx context.Context, userID string) agentState {
	state := agentState{userID: userID}

	for phase := phaseFetch; phase != phaseDone; {
		switch phase {
		case phaseFetch:
			phase = r.fetch(ctx, &state)
		case phaseEvaluate:
			phase = r.evaluate(&state)
		case phaseReplan:
			phase = r.replan(ctx, &state)
		}
	}

	log.Printf("[agent] cycle finished for user %s: %s", userID, state.progressReport)
	return state
}

// fetch loads the active plan and today's log and assembles the planner
// context. Storage or log-provider failure here is terminal for the cycle:
// the report is set and evaluate/replan are skipped.
func (r *agentRunner) fetch(ctx context.Context, state *agentState) agentPhase {
	activePlan, err := r.store.LoadActivePlan(ctx, state.userID)
	if err != nil {
		log.Printf("[agent] fetch: loading active plan for user %s: %v", state.userID, err)
		state.replanNeeded = false
		if errors.Is(err, errStorageConn) {
			state.progressReport = "FATAL ERROR: Database connection failed."
		} else {
			state.progressReport = "FATAL ERROR: Data fetching failed."
		}
		return phaseDone
	}
	state.currentPlan = activePlan

	today := r.now().Format("2006-01-02")
	logs, err := r.logs.GetDailyLogs(state.userID, today)
	if err != nil {
		log.Printf("[agent] fetch: loading daily logs for user %s: %v", state.userID, err)
		state.replanNeeded = false
		state.progressReport = "FATAL ERROR: Data fetching failed."
		return phaseDone
	}
	state.logs = &logs

	planContext := "None"
	if activePlan != nil {
		planContext = jsonContext(activePlan)
	}
	state.llmContext = fmt.Sprintf(
		"USER PROFILE: %s\nCURRENT ACTIVE PLAN: %s\nTODAY'S LOGS: %s",
		jsonContext(r.profile), planContext, jsonContext(logs))

	return phaseEvaluate
}

// evaluate decides whether the plan needs revision. A metrics failure biases
// toward replanning rather than silently continuing on a stale plan.
func (r *agentRunner) evaluate(state *agentState) agentPhase {
	var report string
	replan := false

	switch {
	case state.currentPlan == nil:
		report = "No active plan found. Initial plan required."
		replan = true
	default:
		metrics, err := calculateMetrics(
			state.logs.WeightKG,
			r.profile.HeightCM,
			r.profile.AgeYears,
			r.profile.Gender,
			r.profile.ActivityLevel,
		)
		switch {
		case err != nil:
			log.Printf("[agent] evaluate: metric calculation for user %s: %v", state.userID, err)
			report = "FATAL: Metric calculation failed. Forcing replan to establish new base."
			replan = true
		case state.logs.CaloriesConsumed > int(float64(metrics.TargetWeightLossKcal)*1.2):
			report = fmt.Sprintf(
				"Compliance Alert: Calories consumed (%d) were 20%%+ over the target (%d). Plan adjustment is needed.",
				state.logs.CaloriesConsumed, metrics.TargetWeightLossKcal)
			replan = true
		case state.logs.Steps < 5000:
			report = fmt.Sprintf(
				"Activity Alert: Steps (%d) were too low. Focus needs to shift to simple movement goals.",
				state.logs.Steps)
			replan = true
		default:
			report = "Progress is adequate. Maintaining current plan."
		}
	}

	state.progressReport = report
	state.replanNeeded = replan
	state.llmContext += "\nEVALUATION: " + report

	if replan {
		return phaseReplan
	}
	return phaseDone
}

// replan asks the planning engine for a new plan and persists it. Exactly one
// store write happens on success; none on any failure. Failures are reported
// with an error-kind label, never with raw provider text.
func (r *agentRunner) replan(ctx context.Context, state *agentState) agentPhase {
	plan, err := r.planner.GeneratePlan(ctx, r.profile, r.now().Format("2006-01-02"), state.llmContext)
	if err == nil {
		_, err = r.store.SavePlan(ctx, state.userID, plan)
	}
	if err != nil {
		log.Printf("[agent] replan for user %s: %v", state.userID, err)
		state.replanNeeded = false
		state.newPlan = nil
		state.progressReport = fmt.Sprintf("FATAL ERROR: Planning failed due to: %s.", planningKind(err))
		return phaseDone
	}

	state.replanNeeded = false
	state.newPlan = &plan
	state.planSaved = true
	return phaseDone
}

// jsonContext renders a value as compact JSON for the planner context. Falls
// back to %+v if marshalling fails, which only happens for non-JSON types.
func jsonContext(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}
