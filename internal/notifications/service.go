package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"quill/internal/config"
)

const userAgent = "Quill-Go/0.1.0"

// Service defines the notification surface exposed to publishing components.
type Service interface {
	NotifyPostPublished(ctx context.Context, title, slug string) error
	NotifyAutoPublishFailed(ctx context.Context, niche string, err error) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyPostPublished(ctx context.Context, title, slug string) error {
	title = strings.TrimSpace(title)
	message := fmt.Sprintf("Published: %s", title)
	if slug = strings.TrimSpace(slug); slug != "" {
		message = fmt.Sprintf("%s\nSlug: %s", message, slug)
	}
	data := payload{
		title:   "Quill - Post Published",
		message: message,
		tags:    []string{"quill", "publish", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyAutoPublishFailed(ctx context.Context, niche string, err error) error {
	niche = strings.TrimSpace(niche)
	message := fmt.Sprintf("Auto-publish failed for niche: %s", niche)
	if err != nil {
		message = fmt.Sprintf("%s\n%s", message, strings.TrimSpace(err.Error()))
	}
	data := payload{
		title:    "Quill - Auto-Publish Failed",
		message:  message,
		tags:     []string{"quill", "publish", "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Quill - Error",
		message:  builder.String(),
		tags:     []string{"quill", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Quill - Test",
		message:  "Notification system test",
		tags:     []string{"quill", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyPostPublished(context.Context, string, string) error      { return nil }
func (noopService) NotifyAutoPublishFailed(context.Context, string, error) error   { return nil }
func (noopService) NotifyError(context.Context, error, string) error               { return nil }
func (noopService) TestNotification(context.Context) error                         { return nil }
