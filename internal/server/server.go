// Package server exposes the quill HTTP API: post CRUD, Markdown preview,
// topic generation, and auto-publish.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"quill/internal/config"
	"quill/internal/generate"
	"quill/internal/logging"
	"quill/internal/notifications"
	"quill/internal/posts"
	"quill/internal/render"
	"quill/internal/services"
)

// Publisher runs the auto-publish flow.
type Publisher interface {
	AutoPublish(ctx context.Context, niche string) (*posts.Post, error)
}

// TopicGenerator produces article ideas.
type TopicGenerator interface {
	GenerateTopics(ctx context.Context, niche, styleContext string, count int) ([]generate.GeneratedTopic, error)
}

// Server serves the HTTP API.
type Server struct {
	bind         string
	token        string
	defaultNiche string
	styleContext string
	logger       *slog.Logger

	store     *posts.Store
	cache     *posts.Cache
	topics    TopicGenerator
	publisher Publisher
	notifier  notifications.Service

	listener net.Listener
	server   *http.Server
}

// New constructs the API server.
func New(cfg *config.Config, store *posts.Store, cache *posts.Cache, topics TopicGenerator, publisher Publisher, notifier notifications.Service, logger *slog.Logger) *Server {
	srv := &Server{
		bind:         cfg.Server.Bind,
		token:        cfg.Server.Token,
		defaultNiche: cfg.Publish.DefaultNiche,
		styleContext: cfg.Publish.StyleContext,
		logger:       logging.NewComponentLogger(logger, "api"),
		store:        store,
		cache:        cache,
		topics:       topics,
		publisher:    publisher,
		notifier:     notifier,
	}
	if srv.notifier == nil {
		srv.notifier = notifications.NewService(cfg)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", authMiddleware(srv.token, srv.handleStatus))
	mux.HandleFunc("/api/posts", authMiddleware(srv.token, srv.handlePosts))
	mux.HandleFunc("/api/posts/", authMiddleware(srv.token, srv.handlePostItem))
	mux.HandleFunc("/api/generate/topics", authMiddleware(srv.token, srv.handleGenerateTopics))
	mux.HandleFunc("/api/publish/auto", authMiddleware(srv.token, srv.handleAutoPublish))

	srv.server = &http.Server{
		Handler:           srv.withRequestID(mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Handler exposes the configured handler for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins serving until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() {
	if s == nil || s.server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := services.WithRequestID(r.Context(), uuid.NewString())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"running": true,
		"dbPath":  s.store.Path(),
		"posts":   stats,
	})
}

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListPosts(w, r)
	case http.MethodPost:
		s.handleUpsertPost(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	if items, ok := s.cache.GetList(r.Context()); ok {
		s.writeJSON(w, http.StatusOK, map[string]any{"posts": items})
		return
	}
	items, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []*posts.Post{}
	}
	s.cache.SetList(r.Context(), items)
	s.writeJSON(w, http.StatusOK, map[string]any{"posts": items})
}

func (s *Server) handleUpsertPost(w http.ResponseWriter, r *http.Request) {
	var post posts.Post
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid post payload: "+err.Error())
		return
	}
	id, err := s.store.Upsert(r.Context(), &post)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.cache.Invalidate(r.Context())
	s.writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *Server) handlePostItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/posts/")
	if rest == "" {
		s.writeError(w, http.StatusNotFound, "post not found")
		return
	}
	id := rest
	wantHTML := false
	if strings.HasSuffix(rest, "/html") {
		id = strings.TrimSuffix(rest, "/html")
		wantHTML = true
	}
	if id == "" || strings.Contains(id, "/") {
		s.writeError(w, http.StatusNotFound, "post not found")
		return
	}
	ctx := services.WithPostID(r.Context(), id)

	switch {
	case r.Method == http.MethodGet && wantHTML:
		s.handlePostHTML(w, r.WithContext(ctx), id)
	case r.Method == http.MethodGet:
		post, err := s.store.GetByID(ctx, id)
		if err != nil {
			s.writePostError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{"post": post})
	case r.Method == http.MethodDelete:
		if err := s.store.Delete(ctx, id); err != nil {
			s.writePostError(w, err)
			return
		}
		s.cache.Invalidate(ctx)
		s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handlePostHTML(w http.ResponseWriter, r *http.Request, id string) {
	post, err := s.store.GetByID(r.Context(), id)
	if err != nil {
		s.writePostError(w, err)
		return
	}
	html, err := render.HTML(post.Content)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

func (s *Server) handleGenerateTopics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		Niche        string `json:"niche"`
		StyleContext string `json:"styleContext"`
		Count        int    `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Niche) == "" {
		req.Niche = s.defaultNiche
	}
	if req.StyleContext == "" {
		req.StyleContext = s.styleContext
	}

	topics, err := s.topics.GenerateTopics(r.Context(), req.Niche, req.StyleContext, req.Count)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if topics == nil {
		topics = []generate.GeneratedTopic{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"topics": topics})
}

func (s *Server) handleAutoPublish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		Niche string `json:"niche"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Niche) == "" {
		req.Niche = s.defaultNiche
	}

	post, err := s.publisher.AutoPublish(r.Context(), req.Niche)
	if err != nil {
		_ = s.notifier.NotifyAutoPublishFailed(r.Context(), req.Niche, err)
		s.writeServiceError(w, err)
		return
	}
	id, err := s.store.Upsert(r.Context(), post)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.cache.Invalidate(r.Context())
	_ = s.notifier.NotifyPostPublished(r.Context(), post.Title, post.Slug)
	s.writeJSON(w, http.StatusOK, map[string]any{"id": id, "post": post})
}

func (s *Server) writePostError(w http.ResponseWriter, err error) {
	if errors.Is(err, posts.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "post not found")
		return
	}
	s.writeError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrConfiguration):
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, services.ErrValidation):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrMalformed):
		s.writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
