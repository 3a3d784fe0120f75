package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PlanStore is the persistence boundary for plans. Implementations must
// guarantee that at most one plan per user is active at any time.
type PlanStore interface {
	// SavePlan deactivates every previously active plan for the user and
	// inserts plan as the new active one with a server-assigned creation
	// timestamp. Returns the new plan's identifier.
	SavePlan(ctx context.Context, userID string, plan Plan) (string, error)

	// LoadActivePlan returns the single active plan for the user, or
	// (nil, nil) when none exists. A non-nil error always means a genuine
	// storage failure, never "not found".
	LoadActivePlan(ctx context.Context, userID string) (*StoredPlan, error)
}

// pgPlanStore persists plans in Postgres. The daily_plans document is stored
// as JSONB, queried by (user_id, is_active).
type pgPlanStore struct {
	db *pgxpool.Pool
}

func newPGPlanStore(db *pgxpool.Pool) *pgPlanStore {
	return &pgPlanStore{db: db}
}

// encodeDailyPlans renders the daily-plans document as JSON text. The value
// must reach the driver as a string: the pool runs the simple query protocol,
// where a []byte argument is quoted as a bytea hex literal (`\x…`) that the
// jsonb column rejects, while a string is sent verbatim and casts cleanly.
func encodeDailyPlans(days []DailyPlan) (string, error) {
	b, err := json.Marshal(days)
	if err != nil {
		return "", fmt.Errorf("encode daily plans: %w", err)
	}
	return string(b), nil
}

// SavePlan runs deactivate + insert inside one transaction, so two concurrent
// saves for the same user serialize at the database and there is never a
// window with two active plans (nor one with zero).
func (s *pgPlanStore) SavePlan(ctx context.Context, userID string, plan Plan) (string, error) {
	dailyPlans, err := encodeDailyPlans(plan.DailyPlans)
	if err != nil {
		return "", err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: begin save: %v", errStorageConn, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE plans SET is_active = false WHERE user_id = @userID AND is_active`,
		pgx.NamedArgs{"userID": userID}); err != nil {
		return "", fmt.Errorf("%w: deactivate previous plans: %v", errStorageQuery, err)
	}

	id := uuid.New().String()
	if _, err := tx.Exec(ctx,
		`INSERT INTO plans (id, user_id, created_at, is_active, plan_title, duration_days, agent_reasoning, daily_plans)
		 VALUES (@id, @userID, now(), true, @title, @duration, @reasoning, @dailyPlans)`,
		pgx.NamedArgs{
			"id":         id,
			"userID":     userID,
			"title":      plan.PlanTitle,
			"duration":   plan.DurationDays,
			"reasoning":  plan.AgentReasoning,
			"dailyPlans": dailyPlans,
		}); err != nil {
		return "", fmt.Errorf("%w: insert plan: %v", errStorageQuery, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("%w: commit save: %v", errStorageQuery, err)
	}

	log.Printf("[planstore] new plan %s saved for user %s", id, userID)
	return id, nil
}

// planRow is the scan shape for the plans table; daily_plans arrives as raw
// JSONB and is decoded separately.
type planRow struct {
	ID             string    `db:"id"`
	UserID         string    `db:"user_id"`
	CreatedAt      time.Time `db:"created_at"`
	IsActive       bool      `db:"is_active"`
	PlanTitle      string    `db:"plan_title"`
	DurationDays   int       `db:"duration_days"`
	AgentReasoning string    `db:"agent_reasoning"`
	DailyPlans     []byte    `db:"daily_plans"`
}

func (s *pgPlanStore) LoadActivePlan(ctx context.Context, userID string) (*StoredPlan, error) {
	// pool.Query fails when no connection can be acquired; execution errors
	// surface later through the row collector. Classify the two separately so
	// the agent's fetch phase reports a connection failure as such.
	rows, err := s.db.Query(ctx,
		`SELECT * FROM plans WHERE user_id = @userID AND is_active LIMIT 1`,
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return nil, fmt.Errorf("%w: load active plan: %v", errStorageConn, err)
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[planRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan active plan: %v", errStorageQuery, err)
	}

	stored := &StoredPlan{
		ID:        row.ID,
		UserID:    row.UserID,
		CreatedAt: row.CreatedAt,
		IsActive:  row.IsActive,
		Plan: Plan{
			PlanTitle:      row.PlanTitle,
			DurationDays:   row.DurationDays,
			AgentReasoning: row.AgentReasoning,
		},
	}
	if err := json.Unmarshal(row.DailyPlans, &stored.DailyPlans); err != nil {
		return nil, fmt.Errorf("%w: decode daily plans: %v", errStorageQuery, err)
	}
	return stored, nil
}
