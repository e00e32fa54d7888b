// Package prompts builds the system/user prompt pair sent to the AI
// provider for each generation mode.
package prompts

import (
	"fmt"

	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/models"
)

// Per-mode output ceilings, bounding provider cost and latency.
const (
	commentaryMaxTokens = 200
	predictionMaxTokens = 400
	analysisMaxTokens   = 500
)

// Prompt is the finished triple handed to the provider gateway.
type Prompt struct {
	System    string
	User      string
	MaxTokens int
}

// Build assembles the prompt for the given mode and match context. When
// customInstruction is non-empty it is used verbatim as the user prompt,
// otherwise a mode-specific template embeds the match context. Build never
// fails and has no side effects.
func Build(mode models.Mode, matchContext, customInstruction string) Prompt {
	switch mode {
	case models.ModePrediction:
		return Prompt{
			System:    "You are a sports analytics expert. Provide data-driven match outcome predictions with clear probability estimates.",
			User:      userPrompt(customInstruction, "Predict the outcome of this match: %s. Include a confidence percentage (e.g. 75%%) and the key factors behind your prediction.", matchContext),
			MaxTokens: predictionMaxTokens,
		}
	case models.ModeAnalysis:
		return Prompt{
			System:    "You are a professional sports analyst. Break down formations, tactics and key battles in clear, insightful language.",
			User:      userPrompt(customInstruction, "Provide a tactical analysis of this match: %s. Cover formations, strengths, weaknesses and the likely deciding factors.", matchContext),
			MaxTokens: analysisMaxTokens,
		}
	case models.ModeInsights:
		return Prompt{
			System:    "You are a professional sports analyst. Surface the statistics and storylines casual viewers would miss.",
			User:      userPrompt(customInstruction, "Share the most interesting insights about this match: %s. Highlight notable statistics, form trends and storylines.", matchContext),
			MaxTokens: analysisMaxTokens,
		}
	default: // commentary
		return Prompt{
			System:    "You are an expert sports commentator. Deliver vivid, energetic play-by-play commentary in two or three sentences.",
			User:      userPrompt(customInstruction, "Generate live commentary for this moment: %s. Keep it punchy and broadcast-ready.", matchContext),
			MaxTokens: commentaryMaxTokens,
		}
	}
}

func userPrompt(customInstruction, template, matchContext string) string {
	if customInstruction != "" {
		return customInstruction
	}
	return fmt.Sprintf(template, matchContext)
}
