package advisor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/skylens/weather-assistant/internal/config"
	"github.com/skylens/weather-assistant/internal/weather"
	"github.com/skylens/weather-assistant/pkg/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeCompleter struct {
	mu       sync.Mutex
	calls    int
	reply    string
	err      error
	failWhen func(prompt string) bool
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []chatMessage) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	prompt := messages[len(messages)-1].Content
	if f.failWhen != nil && f.failWhen(prompt) {
		return "", fmt.Errorf("simulated completion failure")
	}
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func enabledConfig() config.AdvisorConfig {
	return config.AdvisorConfig{
		Enabled:         true,
		APIKey:          "sk-test",
		Model:           "gpt-3.5-turbo",
		RequestsPerHour: 100,
	}
}

func newTestAdvisor(t *testing.T, cfg config.AdvisorConfig, comp completer, now func() time.Time) *Advisor {
	t.Helper()
	if now == nil {
		now = time.Now
	}
	return &Advisor{
		cfg:         cfg,
		completions: comp,
		limiter:     newRateLimiter(cfg.RequestsPerHour, now),
		logger:      zaptest.NewLogger(t),
		tele:        &telemetry.Telemetry{},
	}
}

func testRecord() *weather.WeatherRecord {
	vis := 10
	return &weather.WeatherRecord{
		Location: weather.Location{Name: "Berlin"},
		Current: weather.CurrentConditions{
			Temperature: 22,
			Condition:   "Clear",
			Description: "clear sky",
			Humidity:    50,
			Visibility:  &vis,
			Wind:        weather.Wind{Speed: 10},
		},
	}
}

func TestAvailableGate(t *testing.T) {
	cases := []struct {
		name      string
		cfg       config.AdvisorConfig
		available bool
	}{
		{"enabled with key", config.AdvisorConfig{Enabled: true, APIKey: "sk-test"}, true},
		{"disabled", config.AdvisorConfig{Enabled: false, APIKey: "sk-test"}, false},
		{"empty key", config.AdvisorConfig{Enabled: true, APIKey: ""}, false},
		{"placeholder key", config.AdvisorConfig{Enabled: true, APIKey: "YOUR_OPENAI_API_KEY"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			adv := newTestAdvisor(t, tc.cfg, &fakeCompleter{}, nil)
			assert.Equal(t, tc.available, adv.Available())
		})
	}
}

func TestUnavailableAdvisorUsesRulesWithoutNetwork(t *testing.T) {
	comp := &fakeCompleter{reply: "generated"}
	adv := newTestAdvisor(t, config.AdvisorConfig{Enabled: false}, comp, nil)
	record := testRecord()
	ctx := context.Background()

	results := []AdviceResult{
		adv.ClothingAdvice(ctx, record),
		adv.TravelAdvice(ctx, record),
		adv.HealthAdvice(ctx, record),
		adv.ActivitySuggestions(ctx, record),
	}

	for _, result := range results {
		assert.Equal(t, SourceRules, result.Source)
		assert.Equal(t, ConfidenceMedium, result.Confidence)
		assert.NotEmpty(t, result.Advice)
	}

	assert.Equal(t, 0, comp.callCount(), "no network attempt may be made when unavailable")
}

func TestGeneratedAdvice(t *testing.T) {
	comp := &fakeCompleter{reply: "Wear something nice."}
	adv := newTestAdvisor(t, enabledConfig(), comp, nil)

	result := adv.ClothingAdvice(context.Background(), testRecord())

	require.Equal(t, SourceAI, result.Source)
	assert.Equal(t, ConfidenceHigh, result.Confidence)
	assert.Equal(t, "Wear something nice.", result.Advice)
	assert.Equal(t, 1, comp.callCount())
}

func TestAdviceFallsBackOnCompletionError(t *testing.T) {
	comp := &fakeCompleter{err: fmt.Errorf("upstream unavailable")}
	adv := newTestAdvisor(t, enabledConfig(), comp, nil)

	result := adv.TravelAdvice(context.Background(), testRecord())

	assert.Equal(t, SourceRules, result.Source)
	assert.Equal(t, ConfidenceMedium, result.Confidence)
	assert.NotEmpty(t, result.Advice)
}

func TestAdviceFallsBackOnRateLimit(t *testing.T) {
	comp := &fakeCompleter{reply: "generated"}
	cfg := enabledConfig()
	cfg.RequestsPerHour = 1

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	adv := newTestAdvisor(t, cfg, comp, func() time.Time { return now })
	record := testRecord()
	ctx := context.Background()

	first := adv.ClothingAdvice(ctx, record)
	assert.Equal(t, SourceAI, first.Source)

	second := adv.HealthAdvice(ctx, record)
	assert.Equal(t, SourceRules, second.Source, "quota exhaustion must fall back to rules")
	assert.Equal(t, 1, comp.callCount(), "the denied attempt must not reach the network")

	now = now.Add(2 * time.Hour)

	third := adv.ActivitySuggestions(ctx, record)
	assert.Equal(t, SourceAI, third.Source, "quota resets after the window")
}

func TestChatOutcomes(t *testing.T) {
	ctx := context.Background()
	record := testRecord()

	t.Run("ai", func(t *testing.T) {
		adv := newTestAdvisor(t, enabledConfig(), &fakeCompleter{reply: "It is sunny."}, nil)
		reply := adv.HandleChatMessage(ctx, "Is it sunny?", record)
		assert.Equal(t, SourceAI, reply.Source)
		assert.Equal(t, "It is sunny.", reply.Response)
	})

	t.Run("fallback when unavailable", func(t *testing.T) {
		adv := newTestAdvisor(t, config.AdvisorConfig{Enabled: false}, &fakeCompleter{}, nil)
		reply := adv.HandleChatMessage(ctx, "Is it sunny?", record)
		assert.Equal(t, SourceFallback, reply.Source)
		assert.Equal(t, chatUnavailableMessage, reply.Response)
	})

	t.Run("error when the attempt fails", func(t *testing.T) {
		adv := newTestAdvisor(t, enabledConfig(), &fakeCompleter{err: fmt.Errorf("boom")}, nil)
		reply := adv.HandleChatMessage(ctx, "Is it sunny?", record)
		assert.Equal(t, SourceError, reply.Source)
		assert.Equal(t, chatErrorMessage, reply.Response)
	})
}

func TestConcurrentCategoriesFallBackIndependently(t *testing.T) {
	// Only the travel prompt fails; the other categories stay generative.
	comp := &fakeCompleter{
		reply: "generated",
		failWhen: func(prompt string) bool {
			return strings.Contains(prompt, "travel tips")
		},
	}
	adv := newTestAdvisor(t, enabledConfig(), comp, nil)
	record := testRecord()
	ctx := context.Background()

	var wg sync.WaitGroup
	var clothing, travel, health, activity AdviceResult

	wg.Add(4)
	go func() { defer wg.Done(); clothing = adv.ClothingAdvice(ctx, record) }()
	go func() { defer wg.Done(); travel = adv.TravelAdvice(ctx, record) }()
	go func() { defer wg.Done(); health = adv.HealthAdvice(ctx, record) }()
	go func() { defer wg.Done(); activity = adv.ActivitySuggestions(ctx, record) }()
	wg.Wait()

	assert.Equal(t, SourceRules, travel.Source)
	assert.Equal(t, SourceAI, clothing.Source)
	assert.Equal(t, SourceAI, health.Source)
	assert.Equal(t, SourceAI, activity.Source)
}

func TestPromptsEmbedWeatherContext(t *testing.T) {
	record := testRecord()

	for name, prompt := range map[string]string{
		"clothing": buildClothingPrompt(record),
		"travel":   buildTravelPrompt(record),
		"health":   buildHealthPrompt(record),
		"activity": buildActivityPrompt(record),
	} {
		assert.Contains(t, prompt, "Berlin", "%s prompt should name the location", name)
		assert.Contains(t, prompt, "22", "%s prompt should carry the temperature", name)
	}

	chatPrompt := buildChatPrompt("Should I bike?", record)
	assert.Contains(t, chatPrompt, "Should I bike?")
	assert.Contains(t, chatPrompt, "Berlin")
}

func TestTravelPromptHandlesMissingVisibility(t *testing.T) {
	record := testRecord()
	record.Current.Visibility = nil

	prompt := buildTravelPrompt(record)
	assert.Contains(t, prompt, "visibility unknown")
}
