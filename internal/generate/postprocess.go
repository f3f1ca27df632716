package generate

import (
	"fmt"
	"strings"

	"quill/internal/posts"
)

const (
	minFAQEntries = 4
	maxFAQEntries = 6
)

// RepairFAQ normalizes a FAQ list to the 4-6 entry contract. Entries with
// an empty question or answer are dropped, overruns are truncated, and
// shortfalls are padded with deterministic topic-derived entries so the
// list is usable downstream without revalidation.
func RepairFAQ(topic string, entries []posts.AEOQuestion) []posts.AEOQuestion {
	repaired := make([]posts.AEOQuestion, 0, maxFAQEntries)
	for _, entry := range entries {
		question := strings.TrimSpace(entry.Question)
		answer := strings.TrimSpace(entry.Answer)
		if question == "" || answer == "" {
			continue
		}
		repaired = append(repaired, posts.AEOQuestion{Question: question, Answer: answer})
		if len(repaired) == maxFAQEntries {
			break
		}
	}

	for i := 0; len(repaired) < minFAQEntries; i++ {
		pad := paddingEntry(topic, i)
		if containsQuestion(repaired, pad.Question) {
			continue
		}
		repaired = append(repaired, pad)
	}
	return repaired
}

func paddingEntry(topic string, index int) posts.AEOQuestion {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = "this topic"
	}
	templates := []posts.AEOQuestion{
		{
			Question: fmt.Sprintf("What is %s?", topic),
			Answer:   fmt.Sprintf("%s is covered in depth in the article above, including the key ideas and why they matter.", topic),
		},
		{
			Question: fmt.Sprintf("Why does %s matter?", topic),
			Answer:   fmt.Sprintf("Understanding %s helps you make better decisions and avoid common mistakes.", topic),
		},
		{
			Question: fmt.Sprintf("How do I get started with %s?", topic),
			Answer:   fmt.Sprintf("Start with the fundamentals described in the article, then apply them to %s step by step.", topic),
		},
		{
			Question: fmt.Sprintf("What are common mistakes with %s?", topic),
			Answer:   fmt.Sprintf("The most common mistakes with %s come from skipping the basics; the article highlights what to watch for.", topic),
		},
		{
			Question: fmt.Sprintf("Where can I learn more about %s?", topic),
			Answer:   fmt.Sprintf("The article above is a good starting point for %s, and its keywords point to related reading.", topic),
		},
		{
			Question: fmt.Sprintf("Is %s right for me?", topic),
			Answer:   fmt.Sprintf("That depends on your goals; the article explains who benefits most from %s.", topic),
		},
	}
	return templates[index%len(templates)]
}

func containsQuestion(entries []posts.AEOQuestion, question string) bool {
	for _, entry := range entries {
		if strings.EqualFold(entry.Question, question) {
			return true
		}
	}
	return false
}
