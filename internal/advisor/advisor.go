package advisor

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/skylens/weather-assistant/internal/config"
	"github.com/skylens/weather-assistant/internal/weather"
	"github.com/skylens/weather-assistant/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	SourceAI       = "ai"
	SourceRules    = "rules"
	SourceFallback = "fallback"
	SourceError    = "error"

	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
)

const (
	chatUnavailableMessage = "I'm sorry, but AI chat is not available right now. Please make sure your API key is configured."
	chatErrorMessage       = "I'm having trouble processing your request right now. Please try again later."
)

// AdviceResult is a single piece of categorized advice. Source says where it
// came from; confidence is high for generated text, medium for rule output.
type AdviceResult struct {
	Advice     string `json:"advice"`
	Confidence string `json:"confidence"`
	Source     string `json:"source"`
}

// ChatReply is the outcome of a free-form chat turn.
type ChatReply struct {
	Response string `json:"response"`
	Source   string `json:"source"`
}

var errRateLimited = errors.New("rate limit exceeded for advice requests")

// Advisor produces weather advice, generative first when eligible, rule-based
// otherwise. The advice methods are total: they always return a usable result
// and never an error.
type Advisor struct {
	cfg         config.AdvisorConfig
	completions completer
	limiter     *rateLimiter
	logger      *zap.Logger
	tele        *telemetry.Telemetry
}

func New(cfg config.AdvisorConfig, logger *zap.Logger, tele *telemetry.Telemetry) *Advisor {
	return &Advisor{
		cfg:         cfg,
		completions: newCompletionClient(cfg),
		limiter:     newRateLimiter(cfg.RequestsPerHour, time.Now),
		logger:      logger,
		tele:        tele,
	}
}

// Available reports whether the generative path may be attempted: the feature
// must be enabled and a real (non-placeholder) credential configured. When
// false, every advice method goes straight to its rule table and no network
// request is made.
func (a *Advisor) Available() bool {
	return a.cfg.Enabled && a.cfg.APIKey != "" && !strings.HasPrefix(a.cfg.APIKey, "YOUR_")
}

func (a *Advisor) ClothingAdvice(ctx context.Context, record *weather.WeatherRecord) AdviceResult {
	return a.advise(ctx, "clothing", clothingSystemPrompt, buildClothingPrompt(record), record, clothingRules)
}

func (a *Advisor) TravelAdvice(ctx context.Context, record *weather.WeatherRecord) AdviceResult {
	return a.advise(ctx, "travel", travelSystemPrompt, buildTravelPrompt(record), record, travelRules)
}

func (a *Advisor) HealthAdvice(ctx context.Context, record *weather.WeatherRecord) AdviceResult {
	return a.advise(ctx, "health", healthSystemPrompt, buildHealthPrompt(record), record, healthRules)
}

func (a *Advisor) ActivitySuggestions(ctx context.Context, record *weather.WeatherRecord) AdviceResult {
	return a.advise(ctx, "activity", activitySystemPrompt, buildActivityPrompt(record), record, activityRules)
}

// HandleChatMessage answers a free-form question with weather context. The
// three outcomes are distinct: generated text (ai), feature unavailable
// (fallback), and a failed generative attempt (error).
func (a *Advisor) HandleChatMessage(ctx context.Context, message string, record *weather.WeatherRecord) ChatReply {
	if !a.Available() {
		return ChatReply{Response: chatUnavailableMessage, Source: SourceFallback}
	}

	tracer := a.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "advisor.HandleChatMessage")
	defer span.End()

	text, err := a.generate(ctx, chatSystemPrompt, buildChatPrompt(message, record))
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		a.logger.Error("AI chat failed", zap.Error(err))
		return ChatReply{Response: chatErrorMessage, Source: SourceError}
	}

	span.SetAttributes(attribute.Bool("success", true))
	return ChatReply{Response: text, Source: SourceAI}
}

// advise runs the two-tier strategy for one category. The rule fallback never
// fails, so the result is always valid regardless of what the generative path
// does.
func (a *Advisor) advise(ctx context.Context, category, system, prompt string, record *weather.WeatherRecord, rules func(*weather.WeatherRecord) AdviceResult) AdviceResult {
	if !a.Available() {
		return rules(record)
	}

	tracer := a.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "advisor."+category)
	defer span.End()

	text, err := a.generate(ctx, system, prompt)
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		a.logger.Warn("AI advice failed, using rules",
			zap.String("category", category),
			zap.Error(err))
		return rules(record)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return AdviceResult{Advice: text, Confidence: ConfidenceHigh, Source: SourceAI}
}

func (a *Advisor) generate(ctx context.Context, system, prompt string) (string, error) {
	if !a.limiter.Allow() {
		return "", errRateLimited
	}

	return a.completions.Complete(ctx, []chatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: prompt},
	})
}
