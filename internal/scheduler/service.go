package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/config"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/generation"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/models"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/ratelimit"
)

// callerID used for scheduler-triggered generations so auto commentary
// shares one rate-limit identity distinct from interactive callers.
const schedulerCaller = "scheduler"

// Service drives auto commentary: on a fixed interval it generates one
// commentary artifact for every watched match context. Each tick issues
// fresh isolated requests; stopping the scheduler is the only cancellation.
type Service struct {
	config   *config.Config
	pipeline *generation.Service
	cron     *cron.Cron
}

// NewService creates a new scheduler service
func NewService(cfg *config.Config, pipeline *generation.Service) *Service {
	return &Service{
		config:   cfg,
		pipeline: pipeline,
		cron:     cron.New(cron.WithSeconds()),
	}
}

// Start begins the auto-commentary ticks. Disabled deployments return
// immediately without starting cron.
func (s *Service) Start() error {
	if !s.config.AutoCommentaryEnabled {
		logrus.Info("Auto commentary disabled, scheduler not started")
		return nil
	}

	interval := int(s.config.AutoCommentaryInterval.Seconds())
	if interval < 1 {
		interval = 1
	}
	cronExpression := fmt.Sprintf("@every %ds", interval)

	_, err := s.cron.AddFunc(cronExpression, s.tick)
	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Scheduler started, auto commentary every %s", s.config.AutoCommentaryInterval)
	return nil
}

func (s *Service) tick() {
	watched := s.pipeline.Watched()
	if len(watched) == 0 {
		return
	}

	for _, matchContext := range watched {
		req := models.GenerationRequest{
			Mode:         models.ModeCommentary,
			MatchContext: matchContext,
			CallerID:     schedulerCaller,
			TriggeredBy:  models.TriggerAuto,
		}

		ctx, cancel := context.WithTimeout(context.Background(), s.config.ProviderTimeout)
		result, err := s.pipeline.Generate(ctx, req)
		cancel()
		if err != nil {
			var limitErr *ratelimit.LimitError
			if errors.As(err, &limitErr) {
				// The AI tier is the backstop for provider spend; skip the
				// rest of this tick and let the next one catch up.
				logrus.Debugf("Auto commentary throttled (%s tier), skipping tick", limitErr.Tier)
				return
			}
			logrus.Errorf("Auto commentary failed for %q: %v", matchContext, err)
			continue
		}

		logrus.Debugf("Auto commentary generated for %q (event: %s)", matchContext, result.EventType)
	}
}

// Stop stops the scheduler
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		logrus.Info("Scheduler stopped")
	}
}
