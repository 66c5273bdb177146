package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordDetector(t *testing.T) {
	det := KeywordDetector{}

	tests := []struct {
		name string
		text string
		want string
	}{
		{"norwegian question", "Hva er dekning for min forsikring?", LangNorwegian},
		{"norwegian common words", "Hvordan kan jeg si opp avtalen min?", LangNorwegian},
		{"english question", "What is the coverage limit of my policy?", LangEnglish},
		{"english common words", "How can I cancel this subscription?", LangEnglish},
		{"no signal", "xyzzy plugh 42", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, det.Detect(tt.text))
		})
	}
}

func TestKeywordDetectorIgnoresPunctuationAndCase(t *testing.T) {
	det := KeywordDetector{}
	assert.Equal(t, LangEnglish, det.Detect("WHAT, exactly, IS the POLICY?!"))
}
