// Package rules holds the word rules shared by solo rounds and live matches.
package rules

import (
	"strings"

	"github.com/mcoot/wordduel/internal/model"
)

// Dictionary is the word lookup the rules depend on
type Dictionary interface {
	IsValidWord(word string) bool
	HasWordWith(start, end rune) bool
	WordsWith(start, end rune) int
	FallbackPair() (model.LetterPair, bool)
}

// Scorer values an accepted word
type Scorer interface {
	Score(word string) int
}

// Normalize trims surrounding whitespace and lowercases a submitted word
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// MatchesLetters reports whether word starts and ends with the pair's letters
func MatchesLetters(letters model.LetterPair, word string) bool {
	return word != "" &&
		strings.HasPrefix(word, string(letters.Start)) &&
		strings.HasSuffix(word, string(letters.End))
}

// Check runs the letter, dictionary and reuse checks in that order and
// returns the first failing reason, or "" if the word is playable.
// word must already be normalized.
func Check(letters model.LetterPair, word string, dict Dictionary, used map[string]struct{}) model.RejectReason {
	if !MatchesLetters(letters, word) {
		return model.RejectWrongLetters
	}
	if !dict.IsValidWord(word) {
		return model.RejectNotInDictionary
	}
	if _, dup := used[word]; dup {
		return model.RejectAlreadyUsed
	}
	return ""
}
