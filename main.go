package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// defaultProfile is the configured coaching profile. Immutable for the
// lifetime of the process; the agent reads it, never mutates it.
var defaultProfile = UserProfile{
	UserID:          "kiit0001",
	Gender:          "male",
	AgeYears:        30,
	HeightCM:        175,
	ActivityLevel:   "moderately active",
	TargetWeightKG:  75.0,
	InitialWeightKG: 85.0,
	Goal:            "Aggressively lose 10 kg over the next 12 weeks while building muscle mass. Must hit protein targets.",
}

func main() {
	log.SetPrefix("healthcoach-api: ")
	log.SetFlags(0)

	runOnce := flag.Bool("run-agent", false, "run one agent cycle and exit instead of serving")
	userID := flag.String("user", "", "user id for -run-agent (defaults to the configured profile)")
	flag.Parse()

	// .env is optional in deployed environments; the variables themselves are not.
	godotenv.Load()
	if os.Getenv("DB_URL") == "" {
		log.Fatal("DB_URL not set")
	}
	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Fatal("OPENAI_API_KEY not set")
	}

	pool := getDBPool()
	defer pool.Close()

	h := newHandler(
		newPGPlanStore(pool),
		newSyntheticLogProvider(defaultProfile.InitialWeightKG),
		newOpenAIPlanner(os.Getenv("OPENAI_BASE_URL")),
		defaultProfile,
	)

	if *runOnce {
		runAgentOnce(h, *userID)
		return
	}

	fmt.Println("Starting gin app...")

	router := gin.Default()
	router.SetTrustedProxies(nil)

	// The dashboard SPA runs on a different origin.
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:    []string{"*"},
	}))

	h.registerRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	router.Run(":" + port)
}

// runAgentOnce runs a single adaptive cycle from the command line and prints
// the outcome, mirroring what POST /api/agent/run returns.
func runAgentOnce(h *Handler, userID string) {
	if userID == "" {
		userID = h.profile.UserID
	}

	state := h.runner.runCycle(context.Background(), userID)

	fmt.Printf("Final Outcome: %s\n", state.progressReport)
	if state.planSaved {
		fmt.Println("ACTION TAKEN: New plan was generated and saved.")
	} else {
		fmt.Println("ACTION TAKEN: Plan maintained. No new plan generated.")
	}
}
