// Package storage talks to the remote file storage HTTP API used for
// uploaded cover images.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quill/internal/config"
	"quill/internal/services"
)

// HTTPDoer abstracts the HTTP client for testing.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client wraps the storage API. The zero value is an unconfigured client
// whose operations fail with a configuration error.
type Client struct {
	apiURL     string
	apiKey     string
	httpClient HTTPDoer
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.httpClient = doer
		}
	}
}

// NewClient constructs a storage client from configuration.
func NewClient(cfg *config.Config, opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	if cfg != nil {
		client.apiURL = strings.TrimRight(cfg.Storage.APIURL, "/")
		client.apiKey = cfg.Storage.APIKey
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Configured reports whether the API endpoint and key are both set.
func (c *Client) Configured() bool {
	return c != nil && c.apiURL != "" && c.apiKey != ""
}

// RemoteFile describes one stored file as reported by the list endpoint.
type RemoteFile struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	MTime    int64  `json:"mtime"`
}

type uploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Error   string `json:"error"`
}

// Upload stores data under filename and returns the public URL.
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	if !c.Configured() {
		return "", services.Wrap(services.ErrConfiguration, "storage", "upload", "api url and key required", nil)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", services.Wrap(services.ErrStorage, "storage", "upload", "build form", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", services.Wrap(services.ErrStorage, "storage", "upload", "write form", err)
	}
	if err := writer.Close(); err != nil {
		return "", services.Wrap(services.ErrStorage, "storage", "upload", "close form", err)
	}

	endpoint := fmt.Sprintf("%s?action=upload&api_key=%s", c.apiURL, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", services.Wrap(services.ErrStorage, "storage", "upload", "new request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrStorage, "storage", "upload", "http error", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrStorage, "storage", "upload", "read body", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", services.Wrap(services.ErrStorage, "storage", "upload",
			fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(payload))), nil)
	}

	var decoded uploadResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return "", services.Wrap(services.ErrStorage, "storage", "upload", "decode response", err)
	}
	if !decoded.Success || decoded.URL == "" {
		message := decoded.Error
		if message == "" {
			message = "upload rejected"
		}
		return "", services.Wrap(services.ErrStorage, "storage", "upload", message, nil)
	}
	return decoded.URL, nil
}

// List returns the files currently held by the storage service.
func (c *Client) List(ctx context.Context) ([]RemoteFile, error) {
	if !c.Configured() {
		return nil, services.Wrap(services.ErrConfiguration, "storage", "list", "api url and key required", nil)
	}

	endpoint := c.apiURL + "?action=list"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "storage", "list", "new request", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "storage", "list", "http error", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "storage", "list", "read body", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, services.Wrap(services.ErrStorage, "storage", "list",
			fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(payload))), nil)
	}

	var files []RemoteFile
	if err := json.Unmarshal(payload, &files); err != nil {
		return nil, services.Wrap(services.ErrStorage, "storage", "list", "decode response", err)
	}
	return files, nil
}

// Delete removes a stored file by name.
func (c *Client) Delete(ctx context.Context, filename string) error {
	if !c.Configured() {
		return services.Wrap(services.ErrConfiguration, "storage", "delete", "api url and key required", nil)
	}
	if strings.TrimSpace(filename) == "" {
		return services.Wrap(services.ErrValidation, "storage", "delete", "filename required", nil)
	}

	endpoint := fmt.Sprintf("%s?action=delete&filename=%s", c.apiURL, url.QueryEscape(filename))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return services.Wrap(services.ErrStorage, "storage", "delete", "new request", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrStorage, "storage", "delete", "http error", err)
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= http.StatusMultipleChoices {
		return services.Wrap(services.ErrStorage, "storage", "delete",
			fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(payload))), nil)
	}
	return nil
}
