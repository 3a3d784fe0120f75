package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// runAgent handles POST /api/agent/run: one full fetch → evaluate →
// (replan | done) cycle. Failures inside the cycle are cycle-terminal, not
// HTTP errors — the response still carries the (FATAL) progress report so the
// dashboard can show what happened. Only a malformed request body is a 400.
func (h *Handler) runAgent(c *gin.Context) {
	var req runAgentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apiError(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	userID := req.UserID
	if userID == "" {
		userID = h.profile.UserID
	}

	state := h.runner.runCycle(c.Request.Context(), userID)

	c.JSON(http.StatusOK, runAgentResponse{
		UserID:         userID,
		ProgressReport: state.progressReport,
		PlanSaved:      state.planSaved,
		NewPlan:        state.newPlan,
	})
}

// getActivePlan handles GET /api/plan?user_id=…. Returns 404 when the user
// has no active plan and 500 only for genuine storage failures — the two are
// never conflated.
func (h *Handler) getActivePlan(c *gin.Context) {
	userID := c.DefaultQuery("user_id", h.profile.UserID)

	plan, err := h.store.LoadActivePlan(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, errStorageConn) {
			apiError(c, http.StatusInternalServerError, "database connection failed")
			return
		}
		apiError(c, http.StatusInternalServerError, "failed to load plan")
		return
	}
	if plan == nil {
		apiError(c, http.StatusNotFound, "no active plan")
		return
	}

	c.JSON(http.StatusOK, plan)
}

// getWeightHistory handles GET /api/progress/history?user_id=…&weeks=12.
// Returns the synthetic progress series the dashboard charts.
func (h *Handler) getWeightHistory(c *gin.Context) {
	userID := c.DefaultQuery("user_id", h.profile.UserID)

	weeks := 12
	if s := c.Query("weeks"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 104 {
			apiError(c, http.StatusBadRequest, "weeks must be an integer between 1 and 104")
			return
		}
		weeks = n
	}

	c.JSON(http.StatusOK, generateWeightHistory(userID, h.profile.InitialWeightKG, weeks))
}

// getMetricsPreview handles GET /api/metrics?date=YYYY-MM-DD (defaults to
// today). Recomputes metrics from the day's log weight and the configured
// profile; metrics are derived on demand and never cached.
func (h *Handler) getMetricsPreview(c *gin.Context) {
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))
	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	logs, err := h.logs.GetDailyLogs(h.profile.UserID, date)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch daily logs")
		return
	}

	metrics, err := calculateMetrics(logs.WeightKG, h.profile.HeightCM, h.profile.AgeYears,
		h.profile.Gender, h.profile.ActivityLevel)
	if err != nil {
		if errors.Is(err, errInvalidInput) {
			apiError(c, http.StatusBadRequest, "profile or log values out of range")
			return
		}
		apiError(c, http.StatusInternalServerError, "failed to compute metrics")
		return
	}

	c.JSON(http.StatusOK, metrics)
}

// getDailyLog handles GET /api/logs/daily?date=YYYY-MM-DD (defaults to today)
// — the log-provider view the dashboard renders next to the plan.
func (h *Handler) getDailyLog(c *gin.Context) {
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))
	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	logs, err := h.logs.GetDailyLogs(h.profile.UserID, date)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch daily logs")
		return
	}

	c.JSON(http.StatusOK, logs)
}
