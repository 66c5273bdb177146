package rag

import (
	"fmt"
	"strings"

	"github.com/passionfruits-net/docchat/internal/models"
)

const defaultSystemPrompt = "You are a helpful assistant. Use the provided document excerpts to answer the user's question."

// PromptInput carries everything that shapes the system instruction for one
// request. Built from tenant configuration plus the caller's preferences.
type PromptInput struct {
	CustomSystemPrompt string
	Complexity         string
	IncludeGeneralAI   bool
	Language           string
}

// BuildSystemPrompt assembles the system instruction from independent
// fragments so each concern (tenant instruction, complexity, general
// knowledge, language) stays separately testable.
func BuildSystemPrompt(in PromptInput) string {
	fragments := []string{baseFragment(in.CustomSystemPrompt)}

	if in.Complexity == models.ComplexitySimple {
		fragments = append(fragments, "Use simple, plain language suitable for a young reader. Break your response into short paragraphs and explain technical terms simply.")
	} else {
		fragments = append(fragments, "Structure your response with clear paragraphs and a professional tone.")
	}

	if in.IncludeGeneralAI {
		fragments = append(fragments, "Prioritize the provided documents when they contain relevant information, but supplement with your general knowledge when needed.")
	} else {
		fragments = append(fragments, `Answer ONLY with the information inside <docs></docs>. If the answer isn't there, reply "I don't have that information".`)
	}

	fragments = append(fragments, "Do NOT include citations or source references in your response; sources are shown separately.")

	if frag := languageFragment(in.Language); frag != "" {
		fragments = append(fragments, frag)
	}

	return strings.Join(fragments, " ")
}

func baseFragment(custom string) string {
	if custom != "" {
		return custom
	}
	return defaultSystemPrompt
}

func languageFragment(lang string) string {
	switch lang {
	case LangNorwegian:
		return "Answer in Norwegian."
	case LangEnglish:
		return "Answer in English."
	default:
		return ""
	}
}

// BuildUserPrompt embeds the query plus the retrieved chunk texts, each
// labeled with its source file, inside a <docs> block.
func BuildUserPrompt(message string, chunks []RetrievedChunk) string {
	var b strings.Builder
	b.WriteString(message)
	b.WriteString("\n<docs>\n")
	for i, c := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%s]\n%s", c.FileName, c.Text)
	}
	b.WriteString("\n</docs>")
	return b.String()
}
