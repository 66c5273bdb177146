package rag

import "strings"

// Detector guesses the language of a query so the answer can match it.
// Implementations are heuristics; an empty result means "no opinion" and no
// language directive is added to the prompt.
type Detector interface {
	Detect(text string) string
}

const (
	LangNorwegian = "no"
	LangEnglish   = "en"
)

// KeywordDetector scores a fixed keyword list per language and returns the
// winner. Low precision by nature; swap in a proper classifier behind the
// Detector interface if it matters.
type KeywordDetector struct{}

var norwegianWords = map[string]struct{}{
	"og": {}, "er": {}, "det": {}, "som": {}, "en": {}, "til": {}, "av": {},
	"ikke": {}, "jeg": {}, "hva": {}, "hvordan": {}, "hvorfor": {}, "kan": {},
	"med": {}, "har": {}, "om": {}, "den": {}, "eller": {}, "mitt": {}, "min": {},
	"dekning": {}, "forsikring": {}, "vilkår": {},
}

var englishWords = map[string]struct{}{
	"the": {}, "is": {}, "and": {}, "what": {}, "how": {}, "why": {}, "can": {},
	"with": {}, "have": {}, "about": {}, "this": {}, "that": {}, "my": {},
	"coverage": {}, "insurance": {}, "policy": {},
}

func (KeywordDetector) Detect(text string) string {
	var no, en int
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:\"'")
		if _, ok := norwegianWords[word]; ok {
			no++
		}
		if _, ok := englishWords[word]; ok {
			en++
		}
	}

	switch {
	case no > en:
		return LangNorwegian
	case en > no:
		return LangEnglish
	default:
		return ""
	}
}
