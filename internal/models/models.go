package models

import "time"

// Mode identifies which kind of artifact a generation request targets.
type Mode string

const (
	ModeCommentary Mode = "commentary"
	ModePrediction Mode = "prediction"
	ModeAnalysis   Mode = "analysis"
	ModeInsights   Mode = "insights"
)

// Valid reports whether m is one of the supported generation modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeCommentary, ModePrediction, ModeAnalysis, ModeInsights:
		return true
	}
	return false
}

// Trigger records how a generation request was initiated.
type Trigger string

const (
	TriggerManual Trigger = "manual"
	TriggerAuto   Trigger = "auto"
)

// GenerationRequest describes a single generation call. It is created per
// call, consumed once and never mutated.
type GenerationRequest struct {
	Mode              Mode    `json:"mode"`
	MatchContext      string  `json:"match_context"`      // team names, scores, sport, current state
	CustomInstruction string  `json:"custom_instruction"` // optional free-text override
	CallerID          string  `json:"caller_id"`          // rate-limit bucketing identity
	TriggeredBy       Trigger `json:"triggered_by"`
}

// GenerationResult is the finished artifact handed to storage and returned
// to the caller. Which fields are populated depends on Mode:
// commentary carries EventType/Sentiment, prediction carries
// ConfidencePercent, analysis and insights carry AnalysisKind.
type GenerationResult struct {
	ID                string    `json:"id"`
	Mode              Mode      `json:"mode"`
	Text              string    `json:"text"`
	EventType         string    `json:"event_type,omitempty"`         // "goal", "save", "foul", etc.
	Sentiment         string    `json:"sentiment,omitempty"`          // "exciting", "disappointing", "neutral"
	ConfidencePercent int       `json:"confidence_percent,omitempty"` // 0-100
	AnalysisKind      string    `json:"analysis_kind,omitempty"`      // "tactical" or "insights"
	GeneratedAt       time.Time `json:"generated_at"`
	TriggeredBy       Trigger   `json:"triggered_by"`
	Fallback          bool      `json:"fallback"` // true when the provider failed and a placeholder was substituted
}

// Alert represents an operational notification about pipeline health.
type Alert struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // "critical", "urgent", "info"
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
