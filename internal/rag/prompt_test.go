package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/passionfruits-net/docchat/internal/models"
)

func TestBuildSystemPromptDefault(t *testing.T) {
	got := BuildSystemPrompt(PromptInput{Complexity: models.ComplexityAdvanced})

	assert.True(t, strings.HasPrefix(got, defaultSystemPrompt))
	assert.Contains(t, got, "professional tone")
	assert.Contains(t, got, `reply "I don't have that information"`)
	assert.NotContains(t, got, "general knowledge")
}

func TestBuildSystemPromptCustomInstruction(t *testing.T) {
	got := BuildSystemPrompt(PromptInput{
		CustomSystemPrompt: "You are the Acme Insurance helper.",
		Complexity:         models.ComplexityAdvanced,
	})

	assert.True(t, strings.HasPrefix(got, "You are the Acme Insurance helper."))
	assert.NotContains(t, got, defaultSystemPrompt)
}

func TestBuildSystemPromptSimpleComplexity(t *testing.T) {
	got := BuildSystemPrompt(PromptInput{Complexity: models.ComplexitySimple})

	assert.Contains(t, got, "simple, plain language")
	assert.NotContains(t, got, "professional tone")
}

func TestBuildSystemPromptGeneralKnowledge(t *testing.T) {
	got := BuildSystemPrompt(PromptInput{
		Complexity:       models.ComplexityAdvanced,
		IncludeGeneralAI: true,
	})

	assert.Contains(t, got, "general knowledge")
	assert.NotContains(t, got, "Answer ONLY")
}

func TestBuildSystemPromptLanguageDirective(t *testing.T) {
	assert.Contains(t,
		BuildSystemPrompt(PromptInput{Language: LangNorwegian}),
		"Answer in Norwegian.")
	assert.Contains(t,
		BuildSystemPrompt(PromptInput{Language: LangEnglish}),
		"Answer in English.")
	assert.NotContains(t,
		BuildSystemPrompt(PromptInput{}),
		"Answer in")
}

func TestBuildUserPrompt(t *testing.T) {
	chunks := []RetrievedChunk{
		{Text: "The coverage limit is $500,000.", FileName: "policy.pdf"},
		{Text: "Claims must be filed within 30 days.", FileName: "terms.pdf"},
	}

	got := BuildUserPrompt("What is the coverage limit?", chunks)

	assert.True(t, strings.HasPrefix(got, "What is the coverage limit?"))
	assert.Contains(t, got, "<docs>")
	assert.Contains(t, got, "</docs>")
	assert.Contains(t, got, "[policy.pdf]\nThe coverage limit is $500,000.")
	assert.Contains(t, got, "[terms.pdf]\nClaims must be filed within 30 days.")
}
