package llm

import (
	_ "embed"
	"strings"

	"matchrate-backend/resume/parse"
)

// DefaultPromptVersion is used when a caller does not pin a version.
const DefaultPromptVersion = "rewrite_v1"

//go:embed prompts/rewrite_v1.txt
var promptRewriteV1 string

// Message is one chat message sent to a provider.
type Message struct {
	Role    string
	Content string
}

// PromptTemplate returns the system prompt for version and whether the
// version was recognized.
func PromptTemplate(version string) (string, bool) {
	switch version {
	case "", DefaultPromptVersion:
		return expandHeadings(promptRewriteV1), true
	default:
		return expandHeadings(promptRewriteV1), false
	}
}

// BuildRewriteMessages assembles the chat messages for a rewrite. The system
// prompt names the parser's own headings so the reply parses cleanly.
func BuildRewriteMessages(input RewriteInput) []Message {
	system, _ := PromptTemplate(input.PromptVersion)
	var user strings.Builder
	user.WriteString("JOB DESCRIPTION:\n")
	user.WriteString(strings.TrimSpace(input.JobDescription))
	user.WriteString("\n\nORIGINAL RESUME:\n")
	user.WriteString(strings.TrimSpace(input.ResumeText))
	return []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user.String()},
	}
}

func expandHeadings(tmpl string) string {
	headings := []string{
		parse.HeadingSummary,
		parse.HeadingExperience,
		parse.HeadingSkills,
		parse.HeadingEducation,
		parse.HeadingRecognition,
	}
	var list strings.Builder
	for i, h := range headings {
		if i > 0 {
			list.WriteString("\n")
		}
		list.WriteString("  ")
		list.WriteString(h)
	}
	return strings.NewReplacer(
		"{{HEADINGS}}", list.String(),
		"{{RECOGNITION}}", parse.HeadingRecognition,
		"{{SKILLS}}", parse.HeadingSkills,
	).Replace(tmpl)
}
