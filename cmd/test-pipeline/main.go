package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/config"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/generation"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/models"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/notifications"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/providers"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/ratelimit"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/storage"
)

func main() {
	fmt.Println("🏟️  GLIMPSE - Generation Pipeline Test")
	fmt.Println("=====================================")

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	provider := providers.FromConfig(cfg)
	fmt.Printf("\n📡 Active provider: %s", provider.Name())
	if !provider.IsEnabled() {
		fmt.Printf(" ⚠️  (no API key - expect fallback artifacts)")
	}
	fmt.Println()

	pipeline := generation.NewService(cfg, provider, ratelimit.NewStore(),
		storage.NewMemoryStorage(), notifications.NewService(cfg))

	matchContext := "Arsenal 2 - 1 Chelsea, 75th minute, Premier League"
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fmt.Printf("\n⚽ Match context: %s\n", matchContext)
	fmt.Println(strings.Repeat("-", 40))

	for _, mode := range []models.Mode{models.ModeCommentary, models.ModePrediction, models.ModeAnalysis, models.ModeInsights} {
		testMode(ctx, pipeline, mode, matchContext)
	}

	fmt.Println("\n✅ Pipeline test completed!")
}

func testMode(ctx context.Context, pipeline *generation.Service, mode models.Mode, matchContext string) {
	fmt.Printf("\n🔸 Testing %s... ", mode)

	start := time.Now()
	result, err := pipeline.Generate(ctx, models.GenerationRequest{
		Mode:         mode,
		MatchContext: matchContext,
		CallerID:     "pipeline-test",
		TriggeredBy:  models.TriggerManual,
	})
	if err != nil {
		fmt.Printf("❌ FAILED: %v\n", err)
		return
	}

	status := "✅ OK"
	if result.Fallback {
		status = "⚠️  FALLBACK"
	}
	fmt.Printf("%s (%v)\n", status, time.Since(start).Round(time.Millisecond))
	fmt.Printf("   Text: %s\n", truncate(result.Text, 120))

	switch mode {
	case models.ModeCommentary:
		fmt.Printf("   Event: %s | Sentiment: %s\n", result.EventType, result.Sentiment)
	case models.ModePrediction:
		fmt.Printf("   Confidence: %d%%\n", result.ConfidencePercent)
	default:
		fmt.Printf("   Kind: %s\n", result.AnalysisKind)
	}
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length] + "..."
}
