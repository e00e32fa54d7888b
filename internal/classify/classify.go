// Package classify derives structured signals from free-text provider
// output using ordered keyword heuristics. Absence of a signal always
// resolves to a documented default; nothing in this package errors.
package classify

import (
	"regexp"
	"strconv"
	"strings"
)

// Event types recognised in commentary text.
const (
	EventGoal         = "goal"
	EventSave         = "save"
	EventFoul         = "foul"
	EventSetPiece     = "setpiece"
	EventSubstitution = "substitution"
	EventGeneral      = "general"
)

// Sentiment labels for commentary text.
const (
	SentimentExciting      = "exciting"
	SentimentDisappointing = "disappointing"
	SentimentNeutral       = "neutral"
)

// DefaultConfidence is used when prediction text carries no percentage.
const DefaultConfidence = 70

// eventRules are checked in order; the first matching keyword set wins.
// The order is deliberate: text often contains several keywords ("a goal
// from the free kick") and the established precedence is part of the
// contract. A false positive like "save the date" is an accepted
// limitation of the heuristic, not a defect.
var eventRules = []struct {
	event    string
	keywords []string
}{
	{EventGoal, []string{"goal", "scores", "scored", "net", "strike"}},
	{EventSave, []string{"save", "keeper", "goalkeeper", "denied", "stops"}},
	{EventFoul, []string{"foul", "yellow card", "red card", "penalty", "booking"}},
	{EventSetPiece, []string{"corner", "free kick", "free-kick", "throw-in", "set piece"}},
	{EventSubstitution, []string{"substitution", "substituted", "comes on", "replaced"}},
}

// sentimentRules are checked in order: exciting before disappointing.
var sentimentRules = []struct {
	sentiment string
	keywords  []string
}{
	{SentimentExciting, []string{"goal", "amazing", "incredible", "brilliant", "spectacular", "stunning", "what a"}},
	{SentimentDisappointing, []string{"miss", "missed", "failed", "poor", "wasted", "disappointing", "off target"}},
}

var percentPattern = regexp.MustCompile(`(\d+)%`)

// EventType tags commentary text with the first matching event keyword set,
// defaulting to "general".
func EventType(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range eventRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.event
			}
		}
	}
	return EventGeneral
}

// Sentiment tags commentary text as exciting, disappointing or neutral.
func Sentiment(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range sentimentRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.sentiment
			}
		}
	}
	return SentimentNeutral
}

// Confidence extracts the first percentage figure from prediction text and
// returns it clamped to [0,100]. Predictions must always carry a confidence
// value, so text with no percentage yields DefaultConfidence.
func Confidence(text string) int {
	match := percentPattern.FindStringSubmatch(text)
	if match == nil {
		return DefaultConfidence
	}

	value, err := strconv.Atoi(match[1])
	if err != nil {
		// Only possible if the digits overflow int; treat as no signal.
		return DefaultConfidence
	}

	if value > 100 {
		return 100
	}
	return value
}
