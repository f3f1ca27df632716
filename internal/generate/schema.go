package generate

// Schema descriptors serialized into the system prompt. The provider is
// trusted to follow them; responses are still validated after decoding.

func aeoQuestionsSchema() map[string]any {
	return map[string]any{
		"type":     "array",
		"minItems": 4,
		"maxItems": 6,
		"items": map[string]any{
			"type":     "object",
			"required": []string{"question", "answer"},
			"properties": map[string]any{
				"question": map[string]any{"type": "string"},
				"answer":   map[string]any{"type": "string", "minLength": 1},
			},
		},
	}
}

func topicListSchema(count int) map[string]any {
	return map[string]any{
		"type":     "array",
		"minItems": count,
		"maxItems": count,
		"items": map[string]any{
			"type": "object",
			"required": []string{
				"topic", "relevance", "content", "excerpt", "keywords",
				"category", "readTime", "geoTargeting", "aeoQuestions", "seoScore",
			},
			"properties": map[string]any{
				"topic":            map[string]any{"type": "string"},
				"relevance":        map[string]any{"type": "string"},
				"content":          map[string]any{"type": "string"},
				"excerpt":          map[string]any{"type": "string"},
				"keywords":         map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"category":         map[string]any{"type": "string"},
				"readTime":         map[string]any{"type": "string"},
				"geoTargeting":     map[string]any{"type": "string"},
				"aeoQuestions":     aeoQuestionsSchema(),
				"seoScore":         map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
				"commercialIntent": map[string]any{"type": "boolean"},
				"isHowTo":          map[string]any{"type": "boolean"},
				"steps":            map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
		},
	}
}

func fullPostSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"required": []string{
			"title", "excerpt", "content", "keywords", "category",
			"readTime", "aeoQuestions", "seoScore", "commercialIntent", "isHowTo",
		},
		"properties": map[string]any{
			"title":            map[string]any{"type": "string"},
			"excerpt":          map[string]any{"type": "string"},
			"content":          map[string]any{"type": "string"},
			"keywords":         map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"category":         map[string]any{"type": "string"},
			"readTime":         map[string]any{"type": "string"},
			"geoTargeting":     map[string]any{"type": "string"},
			"aeoQuestions":     aeoQuestionsSchema(),
			"seoScore":         map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"commercialIntent": map[string]any{"type": "boolean"},
			"isHowTo":          map[string]any{"type": "boolean"},
			"steps":            map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
	}
}

func trainingModuleSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"required": []string{
			"topic", "learningObjectives", "keyConcepts", "caseStudy", "actionableTakeaways",
		},
		"properties": map[string]any{
			"topic":               map[string]any{"type": "string"},
			"learningObjectives":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"keyConcepts":         map[string]any{"type": "string"},
			"caseStudy":           map[string]any{"type": "string"},
			"actionableTakeaways": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
	}
}
