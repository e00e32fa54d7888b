package generation

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/classify"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/models"
)

// fallbackResult builds the deterministic placeholder artifact substituted
// when the provider fails. The "[DEMO]" prefix and the Fallback flag keep
// degraded output distinguishable from genuine provider output; the live
// dashboard must never be left without content.
func fallbackResult(req models.GenerationRequest) *models.GenerationResult {
	result := &models.GenerationResult{
		ID:          uuid.NewString(),
		Mode:        req.Mode,
		GeneratedAt: time.Now().UTC(),
		TriggeredBy: req.TriggeredBy,
		Fallback:    true,
	}

	switch req.Mode {
	case models.ModePrediction:
		result.Text = fmt.Sprintf("[DEMO] The match %s looks evenly balanced, with a %d%% chance the current form holds.",
			req.MatchContext, classify.DefaultConfidence)
		result.ConfidencePercent = classify.DefaultConfidence
	case models.ModeAnalysis:
		result.Text = fmt.Sprintf("[DEMO] Both sides in %s are holding their shape, with the midfield battle likely to decide the outcome.",
			req.MatchContext)
		result.AnalysisKind = "tactical"
	case models.ModeInsights:
		result.Text = fmt.Sprintf("[DEMO] Recent form suggests %s could go either way; keep an eye on set pieces.",
			req.MatchContext)
		result.AnalysisKind = "insights"
	default: // commentary
		result.Text = fmt.Sprintf("[DEMO] The action in %s continues with high intensity as both teams push forward.",
			req.MatchContext)
		result.EventType = classify.EventGeneral
		result.Sentiment = classify.SentimentNeutral
	}

	return result
}
