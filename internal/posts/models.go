package posts

import "time"

// Status enumerates post lifecycle states.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusScheduled Status = "scheduled"
)

// ValidStatus reports whether s is a known lifecycle state.
func ValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusPublished, StatusScheduled:
		return true
	}
	return false
}

// AEOQuestion is a single FAQ entry attached to a post.
type AEOQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Post is a blog post as stored and served by the API.
type Post struct {
	ID               string        `json:"id"`
	Slug             string        `json:"slug"`
	Title            string        `json:"title"`
	Excerpt          string        `json:"excerpt"`
	Content          string        `json:"content"`
	Keywords         []string      `json:"keywords"`
	Category         string        `json:"category"`
	Status           Status        `json:"status"`
	ReadTime         string        `json:"readTime"`
	CoverImage       string        `json:"coverImage"`
	GeoTargeting     string        `json:"geoTargeting"`
	SEOScore         int           `json:"seoScore"`
	AEOQuestions     []AEOQuestion `json:"aeoQuestions"`
	CommercialIntent bool          `json:"commercialIntent"`
	IsHowTo          bool          `json:"isHowTo"`
	Steps            []string      `json:"steps"`
	ScheduledDate    *time.Time    `json:"scheduledDate,omitempty"`
	CreatedAt        time.Time     `json:"dateCreated"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// Stats summarizes the stored posts by lifecycle state.
type Stats struct {
	Total     int `json:"total"`
	Draft     int `json:"draft"`
	Published int `json:"published"`
	Scheduled int `json:"scheduled"`
}
