package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler holds shared dependencies for all route handlers. Every collaborator
// is injected here by the composition root (main or a test), so there is no
// hidden process-wide state behind the store or planner.
type Handler struct {
	store   PlanStore
	logs    LogProvider
	runner  *agentRunner
	profile UserProfile
}

func newHandler(store PlanStore, logs LogProvider, planner Planner, profile UserProfile) *Handler {
	return &Handler{
		store:   store,
		logs:    logs,
		runner:  newAgentRunner(store, logs, planner, profile),
		profile: profile,
	}
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool creates a connection pool. We use a pool (not a single conn)
// because managed Postgres providers close idle connections after a few
// minutes.
func getDBPool() *pgxpool.Pool {
	config, err := pgxpool.ParseConfig(os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to parse DB URL: %v\n", err)
		os.Exit(1)
	}
	// Simple query protocol avoids "cached plan must not change result type"
	// errors from server-side prepared statement caches after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("DB pool ready!")
	return pool
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	api := router.Group("/api")
	api.POST("/agent/run", h.runAgent)
	api.GET("/plan", h.getActivePlan)
	api.GET("/progress/history", h.getWeightHistory)
	api.GET("/metrics", h.getMetricsPreview)
	api.GET("/logs/daily", h.getDailyLog)
}
