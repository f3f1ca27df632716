// Package images resolves cover images for posts. It tries AI generation
// against a rendering endpoint, uploads successful fetches to remote
// storage, and degrades to a deterministic stock placeholder when
// generation is exhausted.
package images

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quill/internal/config"
	"quill/internal/logging"
	"quill/internal/services"
	"quill/internal/slugify"
)

const (
	maxAttempts   = 3
	minImageBytes = 1000
	attemptPause  = time.Second
)

// Outcome names the terminal state of an acquisition run.
type Outcome string

const (
	// OutcomeStored means a generated image was fetched and uploaded.
	OutcomeStored Outcome = "stored"
	// OutcomeFallback means generation was exhausted and a stock
	// placeholder URL was substituted.
	OutcomeFallback Outcome = "fallback"
	// OutcomeFailed means the pipeline could not produce any image.
	OutcomeFailed Outcome = "failed"
)

// Result describes where a cover image came from. Success stays true for
// fallbacks: the caller always gets a usable URL unless configuration is
// missing entirely.
type Result struct {
	URL     string
	Outcome Outcome
	Success bool
	Note    string
}

// Uploader persists fetched image bytes and reports whether it is usable.
type Uploader interface {
	Configured() bool
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

// Pipeline acquires cover images.
type Pipeline struct {
	cfg      config.Images
	uploader Uploader
	client   *http.Client
	logger   *slog.Logger
	seed     func() int
	sleep    func(context.Context, time.Duration) error
	now      func() time.Time
}

// Option customizes the pipeline.
type Option func(*Pipeline)

// WithHTTPClient overrides the fetch client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Pipeline) {
		if client != nil {
			p.client = client
		}
	}
}

// WithSeed overrides the random seed source for generated-image URLs.
func WithSeed(seed func() int) Option {
	return func(p *Pipeline) {
		if seed != nil {
			p.seed = seed
		}
	}
}

// WithSleeper overrides the pause between attempts.
func WithSleeper(sleep func(context.Context, time.Duration) error) Option {
	return func(p *Pipeline) {
		if sleep != nil {
			p.sleep = sleep
		}
	}
}

// WithClock overrides the timestamp source for generated filenames.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// New constructs a pipeline from configuration.
func New(cfg *config.Config, uploader Uploader, logger *slog.Logger, opts ...Option) *Pipeline {
	images := config.Default().Images
	if cfg != nil {
		images = cfg.Images
	}
	timeout := time.Duration(images.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	p := &Pipeline{
		cfg:      images,
		uploader: uploader,
		client:   &http.Client{Timeout: timeout},
		logger:   logging.NewComponentLogger(logger, "images"),
		seed:     func() int { return rand.Intn(1000000) },
		sleep:    sleepTimer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AcquireCover resolves a cover image for a topic. The prompt is used
// verbatim when supplied, otherwise a blog-header framing of the topic. A
// missing storage configuration fails immediately without attempting
// generation; every other failure degrades to the stock fallback.
func (p *Pipeline) AcquireCover(ctx context.Context, topic, prompt string) (Result, error) {
	if p.uploader == nil || !p.uploader.Configured() {
		return Result{Outcome: OutcomeFailed},
			services.Wrap(services.ErrConfiguration, "images", "acquire", "storage api url and key required", nil)
	}
	if strings.TrimSpace(prompt) == "" {
		prompt = fmt.Sprintf("Cinematic blog header illustration for an article about %s", topic)
	}

	var lastFailure string
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		data, err := p.fetchGenerated(ctx, prompt)
		if err != nil {
			lastFailure = err.Error()
			p.logger.Warn("image generation attempt failed",
				logging.Int("attempt", attempt),
				logging.Error(err))
			if attempt < maxAttempts {
				if sleepErr := p.sleep(ctx, attemptPause); sleepErr != nil {
					return Result{Outcome: OutcomeFailed}, sleepErr
				}
			}
			continue
		}

		filename := slugify.Filename(topic, p.now().Unix(), ".jpg")
		storedURL, err := p.uploader.Upload(ctx, filename, data)
		if err != nil {
			lastFailure = err.Error()
			p.logger.Warn("image upload failed",
				logging.Int("attempt", attempt),
				logging.Error(err))
			if attempt < maxAttempts {
				if sleepErr := p.sleep(ctx, attemptPause); sleepErr != nil {
					return Result{Outcome: OutcomeFailed}, sleepErr
				}
			}
			continue
		}

		p.logger.Info("cover image stored",
			logging.String("filename", filename),
			logging.String("url", storedURL))
		return Result{URL: storedURL, Outcome: OutcomeStored, Success: true}, nil
	}

	fallback := p.stockFallbackURL(topic)
	p.logger.Warn("image generation exhausted, using stock fallback",
		logging.String("url", fallback))
	return Result{
		URL:     fallback,
		Outcome: OutcomeFallback,
		Success: true,
		Note:    fmt.Sprintf("AI image generation failed after %d attempts: %s", maxAttempts, lastFailure),
	}, nil
}

func (p *Pipeline) fetchGenerated(ctx context.Context, prompt string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/%s?width=%d&height=%d&seed=%d&nologo=true",
		p.cfg.BaseURL, url.PathEscape(prompt), p.cfg.Width, p.cfg.Height, p.seed())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image provider returned http %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image bytes: %w", err)
	}
	if len(data) < minImageBytes {
		return nil, fmt.Errorf("image payload too small (%d bytes)", len(data))
	}
	return data, nil
}

// stockFallbackURL builds a topic-relevant placeholder from the first three
// words of the topic against the stock photo service.
func (p *Pipeline) stockFallbackURL(topic string) string {
	words := slugify.FirstWords(topic, 3)
	for i := range words {
		words[i] = slugify.Slug(words[i])
	}
	tags := strings.Join(words, ",")
	if tags == "" || tags == "post" {
		tags = "blog"
	}
	return fmt.Sprintf("%s/%d/%d/%s", p.cfg.StockBaseURL, p.cfg.Width, p.cfg.Height, tags)
}

// TimestampFallbackURL is the orchestrator's last-resort placeholder when
// the pipeline itself errors.
func TimestampFallbackURL(ts time.Time) string {
	return fmt.Sprintf("https://picsum.photos/seed/%d/1200/630", ts.Unix())
}

func sleepTimer(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
