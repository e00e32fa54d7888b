package generation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/classify"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/config"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/models"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/prompts"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/providers"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/ratelimit"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/storage"
)

// stubProvider returns a fixed response or error for every call.
type stubProvider struct {
	text  string
	err   error
	calls int
}

func (s *stubProvider) Name() string    { return "stub" }
func (s *stubProvider) IsEnabled() bool { return true }

func (s *stubProvider) Complete(ctx context.Context, prompt prompts.Prompt) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

// MockNotifier is a mock implementation of the notification interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendAlert(alert *models.Alert) error {
	args := m.Called(alert)
	return args.Error(0)
}

// MockStorage is a mock implementation of the storage interface
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Store(filename string, data []byte) error {
	args := m.Called(filename, data)
	return args.Error(0)
}

func (m *MockStorage) Retrieve(filename string) ([]byte, error) {
	args := m.Called(filename)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStorage) List(prefix string) ([]string, error) {
	args := m.Called(prefix)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStorage) Delete(filename string) error {
	args := m.Called(filename)
	return args.Error(0)
}

func testConfig() *config.Config {
	return &config.Config{
		GeneralLimitMax:       100,
		GeneralLimitWindow:    15 * time.Minute,
		CommentaryLimitMax:    50,
		CommentaryLimitWindow: time.Minute,
		AILimitMax:            50,
		AILimitWindow:         time.Minute,
	}
}

func newTestService(cfg *config.Config, provider providers.Provider) *Service {
	return NewService(cfg, provider, ratelimit.NewStore(), storage.NewMemoryStorage(), &noopNotifier{})
}

type noopNotifier struct{}

func (n *noopNotifier) SendAlert(alert *models.Alert) error { return nil }

func TestGenerate_PredictionExtractsConfidence(t *testing.T) {
	provider := &stubProvider{text: "Team A wins, 82% confidence due to recent form."}
	service := newTestService(testConfig(), provider)

	result, err := service.Generate(context.Background(), models.GenerationRequest{
		Mode:         models.ModePrediction,
		MatchContext: "Team A vs Team B",
		CallerID:     "user-1",
		TriggeredBy:  models.TriggerManual,
	})

	require.NoError(t, err)
	assert.Equal(t, "Team A wins, 82% confidence due to recent form.", result.Text)
	assert.Equal(t, 82, result.ConfidencePercent)
	assert.False(t, result.Fallback)
	assert.False(t, result.GeneratedAt.IsZero())
}

func TestGenerate_CommentaryClassifiesText(t *testing.T) {
	provider := &stubProvider{text: "GOAL! What a strike!"}
	service := newTestService(testConfig(), provider)

	result, err := service.Generate(context.Background(), models.GenerationRequest{
		Mode:         models.ModeCommentary,
		MatchContext: "Team A vs Team B",
		CallerID:     "user-1",
		TriggeredBy:  models.TriggerManual,
	})

	require.NoError(t, err)
	assert.Equal(t, classify.EventGoal, result.EventType)
	assert.Equal(t, classify.SentimentExciting, result.Sentiment)
	assert.Equal(t, models.TriggerManual, result.TriggeredBy)
}

func TestGenerate_ProviderFailureProducesFallback(t *testing.T) {
	provider := &stubProvider{err: &providers.ProviderError{Provider: "stub", Reason: "timeout"}}
	service := newTestService(testConfig(), provider)

	result, err := service.Generate(context.Background(), models.GenerationRequest{
		Mode:         models.ModeCommentary,
		MatchContext: "Team A vs Team B",
		CallerID:     "user-1",
		TriggeredBy:  models.TriggerManual,
	})

	require.NoError(t, err, "provider failures must not surface to the caller")
	assert.True(t, result.Fallback, "fallback artifacts must be marked distinguishably")
	assert.Contains(t, result.Text, "Team A vs Team B")
	assert.Contains(t, result.Text, "[DEMO]")
	assert.Equal(t, classify.EventGeneral, result.EventType)
	assert.Equal(t, classify.SentimentNeutral, result.Sentiment)
}

func TestGenerate_AllModesTotalAvailability(t *testing.T) {
	// Even with a permanently failing provider every mode returns a
	// non-empty artifact.
	modes := []models.Mode{models.ModeCommentary, models.ModePrediction, models.ModeAnalysis, models.ModeInsights}

	for _, mode := range modes {
		t.Run(string(mode), func(t *testing.T) {
			provider := &stubProvider{err: &providers.ProviderError{Provider: "stub", Reason: "unreachable"}}
			service := newTestService(testConfig(), provider)

			result, err := service.Generate(context.Background(), models.GenerationRequest{
				Mode:         mode,
				MatchContext: "Team A vs Team B",
				CallerID:     "user-1",
				TriggeredBy:  models.TriggerManual,
			})

			require.NoError(t, err)
			assert.NotEmpty(t, result.Text)
			assert.True(t, result.Fallback)
		})
	}
}

func TestGenerate_FallbackPredictionCarriesDefaultConfidence(t *testing.T) {
	provider := &stubProvider{err: &providers.ProviderError{Provider: "stub", Reason: "timeout"}}
	service := newTestService(testConfig(), provider)

	result, err := service.Generate(context.Background(), models.GenerationRequest{
		Mode:         models.ModePrediction,
		MatchContext: "Team A vs Team B",
		CallerID:     "user-1",
	})

	require.NoError(t, err)
	assert.Equal(t, classify.DefaultConfidence, result.ConfidencePercent)
}

func TestGenerate_ConfigurationErrorRaisesAlert(t *testing.T) {
	provider := &stubProvider{err: &providers.ConfigurationError{Provider: "stub", Reason: "API key not set"}}
	notifier := &MockNotifier{}
	notifier.On("SendAlert", mock.AnythingOfType("*models.Alert")).Return(nil)

	service := NewService(testConfig(), provider, ratelimit.NewStore(), storage.NewMemoryStorage(), notifier)

	result, err := service.Generate(context.Background(), models.GenerationRequest{
		Mode:         models.ModeCommentary,
		MatchContext: "Team A vs Team B",
		CallerID:     "user-1",
	})

	require.NoError(t, err, "even configuration errors produce a fallback, not a failure")
	assert.True(t, result.Fallback)
	notifier.AssertCalled(t, "SendAlert", mock.AnythingOfType("*models.Alert"))
}

func TestGenerate_RateLimitedIsNotAFallback(t *testing.T) {
	cfg := testConfig()
	cfg.AILimitMax = 2
	provider := &stubProvider{text: "Steady possession play in midfield."}
	service := newTestService(cfg, provider)

	req := models.GenerationRequest{
		Mode:         models.ModeAnalysis,
		MatchContext: "Team A vs Team B",
		CallerID:     "user-1",
	}

	_, err := service.Generate(context.Background(), req)
	require.NoError(t, err)
	_, err = service.Generate(context.Background(), req)
	require.NoError(t, err)

	result, err := service.Generate(context.Background(), req)
	require.Error(t, err)
	assert.Nil(t, result, "a rate-limited caller gets a signal to slow down, not degraded content")

	var limitErr *ratelimit.LimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, ratelimit.TierAI, limitErr.Tier)
	assert.Equal(t, 2, provider.calls, "rejected requests must never reach the provider")
}

func TestGenerate_CommentaryTierOnlyGatesCommentary(t *testing.T) {
	cfg := testConfig()
	cfg.CommentaryLimitMax = 1
	provider := &stubProvider{text: "A measured spell of possession."}
	service := newTestService(cfg, provider)

	commentary := models.GenerationRequest{
		Mode:         models.ModeCommentary,
		MatchContext: "Team A vs Team B",
		CallerID:     "user-1",
	}

	_, err := service.Generate(context.Background(), commentary)
	require.NoError(t, err)
	_, err = service.Generate(context.Background(), commentary)
	require.Error(t, err)

	// Other modes bypass the commentary tier.
	_, err = service.Generate(context.Background(), models.GenerationRequest{
		Mode:         models.ModeAnalysis,
		MatchContext: "Team A vs Team B",
		CallerID:     "user-1",
	})
	assert.NoError(t, err)
}

func TestGenerate_PersistsArtifact(t *testing.T) {
	provider := &stubProvider{text: "A neat passing move through the lines."}
	store := storage.NewMemoryStorage()
	service := NewService(testConfig(), provider, ratelimit.NewStore(), store, &noopNotifier{})

	_, err := service.Generate(context.Background(), models.GenerationRequest{
		Mode:         models.ModeCommentary,
		MatchContext: "Team A vs Team B",
		CallerID:     "user-1",
	})
	require.NoError(t, err)

	names, err := store.List("commentary/")
	require.NoError(t, err)
	assert.Len(t, names, 1)
}

func TestGenerate_PersistenceFailureStillReturnsResult(t *testing.T) {
	provider := &stubProvider{text: "A neat passing move through the lines."}
	store := &MockStorage{}
	store.On("Store", mock.Anything, mock.Anything).Return(assert.AnError)

	service := NewService(testConfig(), provider, ratelimit.NewStore(), store, &noopNotifier{})

	result, err := service.Generate(context.Background(), models.GenerationRequest{
		Mode:         models.ModeCommentary,
		MatchContext: "Team A vs Team B",
		CallerID:     "user-1",
	})

	require.NoError(t, err, "the response is more time-sensitive than durability")
	assert.NotEmpty(t, result.Text)
}

func TestGenerate_InvalidModeRejected(t *testing.T) {
	provider := &stubProvider{text: "irrelevant"}
	service := newTestService(testConfig(), provider)

	_, err := service.Generate(context.Background(), models.GenerationRequest{
		Mode:         "poetry",
		MatchContext: "Team A vs Team B",
		CallerID:     "user-1",
	})

	require.Error(t, err)
	assert.Zero(t, provider.calls)
}

func TestGenerate_AbandonedCallDiscarded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := &stubProvider{err: &providers.ProviderError{Provider: "stub", Reason: "context canceled"}}
	store := storage.NewMemoryStorage()
	service := NewService(testConfig(), provider, ratelimit.NewStore(), store, &noopNotifier{})

	_, err := service.Generate(ctx, models.GenerationRequest{
		Mode:         models.ModeCommentary,
		MatchContext: "Team A vs Team B",
		CallerID:     "user-1",
	})

	require.Error(t, err)

	// Nothing is persisted on behalf of a caller that walked away.
	names, listErr := store.List("")
	require.NoError(t, listErr)
	assert.Empty(t, names)
}

func TestWatchList(t *testing.T) {
	service := newTestService(testConfig(), &stubProvider{text: "play continues"})

	service.Watch("Team A vs Team B")
	service.Watch("Team C vs Team D")
	service.Watch("Team A vs Team B") // duplicate is a no-op

	assert.Equal(t, []string{"Team A vs Team B", "Team C vs Team D"}, service.Watched())

	service.Unwatch("Team A vs Team B")
	assert.Equal(t, []string{"Team C vs Team D"}, service.Watched())
}
