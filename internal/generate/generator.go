package generate

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"quill/internal/logging"
	"quill/internal/posts"
	"quill/internal/services"
	"quill/internal/services/llm"
)

const (
	// DefaultTopicCount is the number of ideas requested per ideation call.
	DefaultTopicCount = 3

	temperatureTopics   = 0.7
	temperatureFullPost = 0.4
	temperatureTraining = 0.6
)

// CompletionClient is the provider surface the generator depends on.
type CompletionClient interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// Generator turns provider completions into domain values. Construct one at
// process start and reuse it; it holds no per-call state.
type Generator struct {
	client  CompletionClient
	logger  *slog.Logger
	randInt func(n int) int
}

// Option customizes the generator.
type Option func(*Generator)

// WithRandInt overrides the random source used for placeholder image seeds.
func WithRandInt(randInt func(n int) int) Option {
	return func(g *Generator) {
		if randInt != nil {
			g.randInt = randInt
		}
	}
}

// New constructs a generator around the given completion client.
func New(client CompletionClient, logger *slog.Logger, opts ...Option) *Generator {
	g := &Generator{
		client:  client,
		logger:  logging.NewComponentLogger(logger, "generate"),
		randInt: rand.Intn,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateTopics requests count article ideas for a niche. An empty provider
// response yields an empty list rather than an error; malformed JSON is a
// hard failure.
func (g *Generator) GenerateTopics(ctx context.Context, niche, styleContext string, count int) ([]GeneratedTopic, error) {
	if count <= 0 {
		count = DefaultTopicCount
	}
	niche = strings.TrimSpace(niche)
	if niche == "" {
		return nil, services.Wrap(services.ErrValidation, "generate", "topics", "niche required", nil)
	}

	text, err := g.client.Complete(ctx, llm.Request{
		Instruction: topicsInstruction(niche, styleContext, count),
		Schema:      llm.Schema{Name: "topic list", Definition: topicListSchema(count)},
		Temperature: temperatureTopics,
	})
	if err != nil {
		return nil, fmt.Errorf("generate topics: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		g.logger.Warn("topic generation returned no text", logging.String("niche", niche))
		return nil, nil
	}

	var topics []GeneratedTopic
	if err := llm.DecodeJSON(text, &topics); err != nil {
		return nil, services.Wrap(services.ErrMalformed, "generate", "topics", "parse response", err)
	}

	for i := range topics {
		topics[i].CoverImage = g.placeholderCoverURL(topics[i].Topic)
		topics[i].AEOQuestions = RepairFAQ(topics[i].Topic, topics[i].AEOQuestions)
	}
	g.logger.Info("generated topics",
		logging.String("niche", niche),
		logging.Int("count", len(topics)))
	return topics, nil
}

// GenerateFullPost writes a complete article for a topic. Unlike topic
// ideation, an empty provider response is an error here: a null article
// cannot serve as a no-op.
func (g *Generator) GenerateFullPost(ctx context.Context, topic, tone, styleContext string) (*posts.Post, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, services.Wrap(services.ErrValidation, "generate", "full post", "topic required", nil)
	}

	text, err := g.client.Complete(ctx, llm.Request{
		Instruction: fullPostInstruction(topic, tone, styleContext),
		Schema:      llm.Schema{Name: "article", Definition: fullPostSchema()},
		Temperature: temperatureFullPost,
	})
	if err != nil {
		return nil, fmt.Errorf("generate full post: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, services.Wrap(services.ErrMalformed, "generate", "full post", "provider returned no text", nil)
	}

	var draft generatedPost
	if err := llm.DecodeJSON(text, &draft); err != nil {
		return nil, services.Wrap(services.ErrMalformed, "generate", "full post", "parse response", err)
	}
	if strings.TrimSpace(draft.Title) == "" {
		draft.Title = topic
	}

	geo := draft.GeoTargeting
	if geo == "" {
		geo = GeoTargetingForTone(tone)
	}

	post := &posts.Post{
		Title:            draft.Title,
		Excerpt:          draft.Excerpt,
		Content:          draft.Content,
		Keywords:         draft.Keywords,
		Category:         draft.Category,
		ReadTime:         draft.ReadTime,
		GeoTargeting:     geo,
		SEOScore:         draft.SEOScore,
		AEOQuestions:     RepairFAQ(topic, draft.AEOQuestions),
		CommercialIntent: draft.CommercialIntent,
		IsHowTo:          draft.IsHowTo,
		Steps:            draft.Steps,
	}
	g.logger.Info("generated full post",
		logging.String("topic", topic),
		logging.Bool("how_to", post.IsHowTo),
		logging.Bool("commercial", post.CommercialIntent))
	return post, nil
}

// GenerateTrainingModule builds a lesson outline for a topic.
func (g *Generator) GenerateTrainingModule(ctx context.Context, topic string) (*TrainingModule, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, services.Wrap(services.ErrValidation, "generate", "training module", "topic required", nil)
	}

	text, err := g.client.Complete(ctx, llm.Request{
		Instruction: trainingModuleInstruction(topic),
		Schema:      llm.Schema{Name: "training module", Definition: trainingModuleSchema()},
		Temperature: temperatureTraining,
	})
	if err != nil {
		return nil, fmt.Errorf("generate training module: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, services.Wrap(services.ErrMalformed, "generate", "training module", "provider returned no text", nil)
	}

	var module TrainingModule
	if err := llm.DecodeJSON(text, &module); err != nil {
		return nil, services.Wrap(services.ErrMalformed, "generate", "training module", "parse response", err)
	}
	if module.Topic == "" {
		module.Topic = topic
	}
	return &module, nil
}

// GeoTargetingForTone infers the geographic target from a tone string. A
// "UK" substring routes to UK targeting, anything else stays global.
func GeoTargetingForTone(tone string) string {
	if strings.Contains(strings.ToUpper(tone), "UK") {
		return "UK"
	}
	return "Global"
}

// placeholderCoverURL builds a deterministic-but-varied placeholder image
// URL. The seed combines a truncated encoding of the topic with a random
// integer, so repeated calls for the same topic land near each other.
func (g *Generator) placeholderCoverURL(topic string) string {
	encoded := base64.RawURLEncoding.EncodeToString([]byte(topic))
	if len(encoded) > 16 {
		encoded = encoded[:16]
	}
	return fmt.Sprintf("https://picsum.photos/seed/%s%d/1200/630", encoded, g.randInt(1000))
}
