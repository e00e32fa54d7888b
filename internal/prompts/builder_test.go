package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/models"
)

func TestBuild_ModeTemplates(t *testing.T) {
	matchContext := "Team A vs Team B, 2-1, second half"

	tests := []struct {
		name          string
		mode          models.Mode
		wantInSystem  string
		wantMaxTokens int
	}{
		{
			name:          "Commentary uses commentator voice",
			mode:          models.ModeCommentary,
			wantInSystem:  "sports commentator",
			wantMaxTokens: 200,
		},
		{
			name:          "Prediction uses analytics voice",
			mode:          models.ModePrediction,
			wantInSystem:  "sports analytics expert",
			wantMaxTokens: 400,
		},
		{
			name:          "Analysis uses analyst voice",
			mode:          models.ModeAnalysis,
			wantInSystem:  "sports analyst",
			wantMaxTokens: 500,
		},
		{
			name:          "Insights uses analyst voice",
			mode:          models.ModeInsights,
			wantInSystem:  "sports analyst",
			wantMaxTokens: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := Build(tt.mode, matchContext, "")

			assert.Contains(t, prompt.System, tt.wantInSystem)
			assert.Contains(t, prompt.User, matchContext)
			assert.Equal(t, tt.wantMaxTokens, prompt.MaxTokens)
		})
	}
}

func TestBuild_PredictionAsksForPercentage(t *testing.T) {
	prompt := Build(models.ModePrediction, "Team A vs Team B", "")
	assert.Contains(t, prompt.User, "confidence percentage")
}

func TestBuild_CustomInstructionVerbatim(t *testing.T) {
	instruction := "Focus only on the goalkeeper's positioning."
	prompt := Build(models.ModeCommentary, "Team A vs Team B", instruction)

	assert.Equal(t, instruction, prompt.User)
	// The mode still controls voice and token ceiling.
	assert.Contains(t, prompt.System, "sports commentator")
	assert.Equal(t, 200, prompt.MaxTokens)
}

func TestBuild_EmptyCustomInstructionUsesTemplate(t *testing.T) {
	prompt := Build(models.ModeAnalysis, "Team A vs Team B", "")
	assert.Contains(t, prompt.User, "Team A vs Team B")
	assert.NotEmpty(t, prompt.User)
}
