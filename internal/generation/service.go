// Package generation coordinates the AI pipeline: rate limiting, prompt
// construction, the provider call, response classification, persistence and
// the fallback policy that keeps callers supplied with content when the
// provider is unavailable.
package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/classify"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/config"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/models"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/notifications"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/prompts"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/providers"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/ratelimit"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/storage"
)

// Service orchestrates generation requests end to end. The only mutable
// state shared between concurrent Generate calls lives in the injected
// rate-limit store and the watch list; everything else is per-request.
type Service struct {
	config   *config.Config
	provider providers.Provider
	limits   *ratelimit.Store
	storage  storage.StorageInterface
	notifier notifications.NotificationInterface

	// Match contexts the scheduler generates auto commentary for.
	mu      sync.RWMutex
	watched map[string]bool
}

// NewService creates the orchestrator and registers the three limiter
// tiers on the injected store.
func NewService(cfg *config.Config, provider providers.Provider, limits *ratelimit.Store,
	store storage.StorageInterface, notifier notifications.NotificationInterface) *Service {

	limits.AddTier(ratelimit.TierGeneral, cfg.GeneralLimitMax, cfg.GeneralLimitWindow)
	limits.AddTier(ratelimit.TierCommentary, cfg.CommentaryLimitMax, cfg.CommentaryLimitWindow)
	limits.AddTier(ratelimit.TierAI, cfg.AILimitMax, cfg.AILimitWindow)

	return &Service{
		config:   cfg,
		provider: provider,
		limits:   limits,
		storage:  store,
		notifier: notifier,
		watched:  make(map[string]bool),
	}
}

// Generate runs a single generation request through the pipeline. It
// returns a *ratelimit.LimitError when a quota tier rejects the request;
// any provider failure is absorbed into a fallback artifact so the caller
// always receives content. Exactly one provider attempt is made per call.
func (s *Service) Generate(ctx context.Context, req models.GenerationRequest) (*models.GenerationResult, error) {
	if !req.Mode.Valid() {
		return nil, fmt.Errorf("unsupported mode %q", req.Mode)
	}

	if err := s.admit(req); err != nil {
		return nil, err
	}

	prompt := prompts.Build(req.Mode, req.MatchContext, req.CustomInstruction)

	start := time.Now()
	text, err := s.provider.Complete(ctx, prompt)
	observeProviderCall(s.provider.Name(), time.Since(start), err == nil)

	if err != nil {
		// An abandoned caller gets nothing persisted on its behalf.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		s.reportFailure(err)
		result := fallbackResult(req)
		observeGeneration(req.Mode, outcomeFallback)
		s.persist(result)
		return result, nil
	}

	result := s.assemble(req, text)
	observeGeneration(req.Mode, outcomeProvider)
	s.persist(result)
	return result, nil
}

// admit checks the limiter tiers in order: general, then the commentary
// tier for commentary requests, then the provider tier. A rejection stops
// the pipeline before any prompt is built.
func (s *Service) admit(req models.GenerationRequest) error {
	tiers := []string{ratelimit.TierGeneral}
	if req.Mode == models.ModeCommentary {
		tiers = append(tiers, ratelimit.TierCommentary)
	}
	tiers = append(tiers, ratelimit.TierAI)

	for _, tier := range tiers {
		if !s.limits.Allow(tier, req.CallerID) {
			observeRateLimited(tier)
			logrus.Warnf("Rate limit hit on %s tier for caller %s", tier, req.CallerID)
			return &ratelimit.LimitError{
				Tier:       tier,
				RetryAfter: s.limits.RetryAfter(tier, req.CallerID),
			}
		}
	}
	return nil
}

// assemble classifies the provider text and builds the mode-appropriate
// result. The timestamp is assigned here, not taken from the provider.
func (s *Service) assemble(req models.GenerationRequest, text string) *models.GenerationResult {
	result := &models.GenerationResult{
		ID:          uuid.NewString(),
		Mode:        req.Mode,
		Text:        text,
		GeneratedAt: time.Now().UTC(),
		TriggeredBy: req.TriggeredBy,
	}

	switch req.Mode {
	case models.ModeCommentary:
		result.EventType = classify.EventType(text)
		result.Sentiment = classify.Sentiment(text)
	case models.ModePrediction:
		result.ConfidencePercent = classify.Confidence(text)
	case models.ModeAnalysis:
		result.AnalysisKind = "tactical"
	case models.ModeInsights:
		result.AnalysisKind = "insights"
	}

	return result
}

// reportFailure logs the provider failure and, for configuration errors,
// raises an ops alert: a missing credential is a deployment defect that
// should be noticed before users notice the placeholder content.
func (s *Service) reportFailure(err error) {
	var confErr *providers.ConfigurationError
	if errors.As(err, &confErr) {
		logrus.Errorf("AI provider misconfigured, serving fallback content: %v", confErr)
		alert := &models.Alert{
			ID:        uuid.NewString(),
			Type:      "critical",
			Title:     "AI provider credential missing",
			Message:   confErr.Error(),
			CreatedAt: time.Now().UTC(),
		}
		if alertErr := s.notifier.SendAlert(alert); alertErr != nil {
			logrus.Errorf("Failed to send configuration alert: %v", alertErr)
		}
		return
	}

	logrus.Warnf("AI provider call failed, serving fallback content: %v", err)
}

// persist hands the artifact to storage. The user-facing response is more
// time-sensitive than durability, so a persistence failure is logged and
// the result is still returned to the caller.
func (s *Service) persist(result *models.GenerationResult) {
	data, err := json.Marshal(result)
	if err != nil {
		logrus.Errorf("Failed to marshal artifact %s: %v", result.ID, err)
		return
	}

	filename := fmt.Sprintf("%s/%s-%s.json", result.Mode,
		result.GeneratedAt.Format("2006-01-02-15-04-05"), result.ID)

	if err := s.storage.Store(filename, data); err != nil {
		logrus.Errorf("Failed to persist artifact %s: %v", result.ID, err)
	}
}

// ListArtifacts returns persisted artifact names matching prefix, so the
// dashboard can read back what the pipeline produced.
func (s *Service) ListArtifacts(prefix string) ([]string, error) {
	return s.storage.List(prefix)
}

// Watch registers a match context for auto commentary ticks.
func (s *Service) Watch(matchContext string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watched[matchContext] = true
}

// Unwatch removes a match context from the auto commentary list.
func (s *Service) Unwatch(matchContext string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.watched, matchContext)
}

// Watched returns the match contexts currently receiving auto commentary.
func (s *Service) Watched() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contexts := make([]string, 0, len(s.watched))
	for matchContext := range s.watched {
		contexts = append(contexts, matchContext)
	}
	sort.Strings(contexts)
	return contexts
}
