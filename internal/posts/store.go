package posts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"quill/internal/config"
	"quill/internal/services"
	"quill/internal/slugify"
)

// ErrNotFound indicates no post exists with the requested identifier.
var ErrNotFound = errors.New("post not found")

// Store manages post persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the posts database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "posts.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Upsert validates and stores a post, inserting or replacing by id. A post
// without an id gets a generated one; a post without a slug derives it from
// the title. The assigned id is returned.
func (s *Store) Upsert(ctx context.Context, post *Post) (string, error) {
	if post == nil {
		return "", services.Wrap(services.ErrValidation, "posts", "upsert", "nil post", nil)
	}
	if strings.TrimSpace(post.Title) == "" {
		return "", services.Wrap(services.ErrValidation, "posts", "upsert", "title required", nil)
	}
	if post.Status == "" {
		post.Status = StatusDraft
	}
	if !ValidStatus(post.Status) {
		return "", services.Wrap(services.ErrValidation, "posts", "upsert", fmt.Sprintf("unknown status %q", post.Status), nil)
	}
	now := time.Now().UTC()
	if post.Status == StatusScheduled {
		if post.ScheduledDate == nil || !post.ScheduledDate.After(now) {
			return "", services.Wrap(services.ErrValidation, "posts", "upsert", "scheduled posts require a future scheduled date", nil)
		}
	}
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if strings.TrimSpace(post.Slug) == "" {
		post.Slug = slugify.Slug(post.Title)
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now

	keywords, err := encodeList(post.Keywords)
	if err != nil {
		return "", fmt.Errorf("encode keywords: %w", err)
	}
	questions, err := encodeQuestions(post.AEOQuestions)
	if err != nil {
		return "", fmt.Errorf("encode aeo questions: %w", err)
	}
	steps, err := encodeList(post.Steps)
	if err != nil {
		return "", fmt.Errorf("encode steps: %w", err)
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO posts (
            id, slug, title, excerpt, content, keywords, category, status,
            read_time, cover_image, geo_targeting, seo_score, aeo_questions,
            commercial_intent, is_how_to, steps, scheduled_date, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            slug = excluded.slug,
            title = excluded.title,
            excerpt = excluded.excerpt,
            content = excluded.content,
            keywords = excluded.keywords,
            category = excluded.category,
            status = excluded.status,
            read_time = excluded.read_time,
            cover_image = excluded.cover_image,
            geo_targeting = excluded.geo_targeting,
            seo_score = excluded.seo_score,
            aeo_questions = excluded.aeo_questions,
            commercial_intent = excluded.commercial_intent,
            is_how_to = excluded.is_how_to,
            steps = excluded.steps,
            scheduled_date = excluded.scheduled_date,
            updated_at = excluded.updated_at`,
		post.ID,
		post.Slug,
		post.Title,
		nullableString(post.Excerpt),
		nullableString(post.Content),
		keywords,
		nullableString(post.Category),
		string(post.Status),
		nullableString(post.ReadTime),
		nullableString(post.CoverImage),
		nullableString(post.GeoTargeting),
		post.SEOScore,
		questions,
		boolToInt(post.CommercialIntent),
		boolToInt(post.IsHowTo),
		steps,
		nullableTime(post.ScheduledDate),
		post.CreatedAt.Format(time.RFC3339Nano),
		post.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("upsert post: %w", err)
	}
	return post.ID, nil
}

// List returns all posts ordered by creation time, newest first.
func (s *Store) List(ctx context.Context) ([]*Post, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+postColumns+" FROM posts ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var items []*Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return items, nil
}

// GetByID fetches a single post.
func (s *Store) GetByID(ctx context.Context, id string) (*Post, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE id = ?", id)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return post, err
}

// Delete removes a post by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats counts stored posts by lifecycle state.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT status, COUNT(1) FROM posts GROUP BY status")
	if err != nil {
		return Stats{}, fmt.Errorf("post stats: %w", err)
	}
	defer rows.Close()

	var stats Stats
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return Stats{}, fmt.Errorf("scan stats: %w", err)
		}
		stats.Total += count
		switch Status(status) {
		case StatusDraft:
			stats.Draft = count
		case StatusPublished:
			stats.Published = count
		case StatusScheduled:
			stats.Scheduled = count
		}
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("iterate stats: %w", err)
	}
	return stats, nil
}

const postColumns = "id, slug, title, excerpt, content, keywords, category, status, read_time, cover_image, geo_targeting, seo_score, aeo_questions, commercial_intent, is_how_to, steps, scheduled_date, created_at, updated_at"

func scanPost(scanner interface{ Scan(dest ...any) error }) (*Post, error) {
	var (
		id               string
		slug             string
		title            string
		excerpt          sql.NullString
		content          sql.NullString
		keywordsRaw      string
		category         sql.NullString
		statusStr        string
		readTime         sql.NullString
		coverImage       sql.NullString
		geoTargeting     sql.NullString
		seoScore         int
		questionsRaw     string
		commercialIntent int
		isHowTo          int
		stepsRaw         string
		scheduledRaw     sql.NullString
		createdRaw       string
		updatedRaw       string
	)

	if err := scanner.Scan(
		&id,
		&slug,
		&title,
		&excerpt,
		&content,
		&keywordsRaw,
		&category,
		&statusStr,
		&readTime,
		&coverImage,
		&geoTargeting,
		&seoScore,
		&questionsRaw,
		&commercialIntent,
		&isHowTo,
		&stepsRaw,
		&scheduledRaw,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	post := &Post{
		ID:               id,
		Slug:             slug,
		Title:            title,
		Excerpt:          excerpt.String,
		Content:          content.String,
		Category:         category.String,
		Status:           Status(statusStr),
		ReadTime:         readTime.String,
		CoverImage:       coverImage.String,
		GeoTargeting:     geoTargeting.String,
		SEOScore:         seoScore,
		CommercialIntent: commercialIntent != 0,
		IsHowTo:          isHowTo != 0,
	}

	if err := decodeList(keywordsRaw, &post.Keywords); err != nil {
		return nil, services.Wrap(services.ErrMalformed, "posts", "scan", "keywords column", err)
	}
	if err := decodeList(stepsRaw, &post.Steps); err != nil {
		return nil, services.Wrap(services.ErrMalformed, "posts", "scan", "steps column", err)
	}
	if strings.TrimSpace(questionsRaw) != "" {
		if err := json.Unmarshal([]byte(questionsRaw), &post.AEOQuestions); err != nil {
			return nil, services.Wrap(services.ErrMalformed, "posts", "scan", "aeo_questions column", err)
		}
	}
	if scheduledRaw.Valid && scheduledRaw.String != "" {
		when, err := parseTimeString(scheduledRaw.String)
		if err != nil {
			return nil, services.Wrap(services.ErrMalformed, "posts", "scan", "scheduled_date column", err)
		}
		post.ScheduledDate = &when
	}

	var err error
	if post.CreatedAt, err = parseTimeString(createdRaw); err != nil {
		return nil, services.Wrap(services.ErrMalformed, "posts", "scan", "created_at column", err)
	}
	if post.UpdatedAt, err = parseTimeString(updatedRaw); err != nil {
		return nil, services.Wrap(services.ErrMalformed, "posts", "scan", "updated_at column", err)
	}
	return post, nil
}

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func encodeQuestions(values []AEOQuestion) (string, error) {
	if values == nil {
		values = []AEOQuestion{}
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func decodeList(raw string, target *[]string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), target)
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if when, err := time.Parse(layout, value); err == nil {
			return when.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
