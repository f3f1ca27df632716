package generate

import "quill/internal/posts"

// GeneratedTopic is one article idea produced by topic ideation.
type GeneratedTopic struct {
	Topic            string              `json:"topic"`
	Relevance        string              `json:"relevance"`
	Content          string              `json:"content"`
	Excerpt          string              `json:"excerpt"`
	Keywords         []string            `json:"keywords"`
	Category         string              `json:"category"`
	ReadTime         string              `json:"readTime"`
	GeoTargeting     string              `json:"geoTargeting"`
	AEOQuestions     []posts.AEOQuestion `json:"aeoQuestions"`
	SEOScore         int                 `json:"seoScore"`
	CoverImage       string              `json:"coverImage"`
	CommercialIntent bool                `json:"commercialIntent"`
	IsHowTo          bool                `json:"isHowTo"`
	Steps            []string            `json:"steps"`
}

// generatedPost is the provider-facing shape of a full article response.
type generatedPost struct {
	Title            string              `json:"title"`
	Excerpt          string              `json:"excerpt"`
	Content          string              `json:"content"`
	Keywords         []string            `json:"keywords"`
	Category         string              `json:"category"`
	ReadTime         string              `json:"readTime"`
	GeoTargeting     string              `json:"geoTargeting"`
	AEOQuestions     []posts.AEOQuestion `json:"aeoQuestions"`
	SEOScore         int                 `json:"seoScore"`
	CommercialIntent bool                `json:"commercialIntent"`
	IsHowTo          bool                `json:"isHowTo"`
	Steps            []string            `json:"steps"`
}

// TrainingModule is a structured lesson outline for a topic.
type TrainingModule struct {
	Topic               string   `json:"topic"`
	LearningObjectives  []string `json:"learningObjectives"`
	KeyConcepts         string   `json:"keyConcepts"`
	CaseStudy           string   `json:"caseStudy"`
	ActionableTakeaways []string `json:"actionableTakeaways"`
}
