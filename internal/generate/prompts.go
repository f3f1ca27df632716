package generate

import (
	"fmt"
	"strings"
)

func topicsInstruction(niche, styleContext string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Propose %d varied blog article ideas for the %q niche.", count, niche)
	b.WriteString(" Each idea needs a working draft of the full article body in Markdown,")
	b.WriteString(" a short excerpt, 3-5 keywords, a category, an estimated read time")
	b.WriteString(" (for example \"5 min read\"), geographic targeting, an SEO score from 0 to 100,")
	b.WriteString(" and 4 to 6 FAQ entries with non-empty answers.")
	appendStructuralRules(&b)
	appendStyleContext(&b, styleContext)
	return b.String()
}

func fullPostInstruction(topic, tone, styleContext string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a complete blog article about %q in a %s tone.", topic, tone)
	b.WriteString(" Provide a title, a short excerpt, the article body in Markdown,")
	b.WriteString(" 3-5 keywords, a category, an estimated read time, an SEO score from 0 to 100,")
	b.WriteString(" and 4 to 6 FAQ entries with non-empty answers.")
	appendStructuralRules(&b)
	b.WriteString(" Set commercialIntent to true only when the article naturally promotes a service.")
	b.WriteString(" Set isHowTo to true only for step-by-step guides, and then include an ordered steps list.")
	appendStyleContext(&b, styleContext)
	return b.String()
}

func trainingModuleInstruction(topic string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Design a concise training module about %q.", topic)
	b.WriteString(" Provide 3-5 learning objectives, a key-concepts overview,")
	b.WriteString(" a short illustrative case study, and 3-5 actionable takeaways.")
	return b.String()
}

func appendStructuralRules(b *strings.Builder) {
	b.WriteString(" Structural rules: the article body must not start with a top-level heading;")
	b.WriteString(" FAQ content belongs only in the aeoQuestions field and must never be repeated in the body.")
}

func appendStyleContext(b *strings.Builder, styleContext string) {
	styleContext = strings.TrimSpace(styleContext)
	if styleContext == "" {
		return
	}
	b.WriteString(" Match this writing style closely: ")
	b.WriteString(styleContext)
}
