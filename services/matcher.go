// services/matcher.go
package services

import (
	"strings"

	"trivia-chat-server/utils"

	"github.com/xrash/smetrics"
)

const (
	// answerSimilarityThreshold accepts an answer on fuzzy similarity alone.
	answerSimilarityThreshold = 0.9

	// questionSimilarityThreshold rejects a freshly generated question as a
	// duplicate of a known one. Same metric as answer matching, stricter
	// purpose, looser cut-off.
	questionSimilarityThreshold = 0.85

	// substringMinLen keeps the substring rule from firing on tiny fragments
	// ("a" is inside almost everything).
	substringMinLen = 2
)

// jaroWinkler with the metric's conventional boost threshold and prefix size.
func jaroWinkler(a, b string) float64 {
	return smetrics.JaroWinkler(a, b, 0.7, 4)
}

// IsCorrect decides whether free-text user input matches the canonical
// answer. The canonical answer may carry several acceptable variants
// separated by "/"; matching any one of them is enough.
//
// Per variant, both sides are normalized and abbreviation-expanded, then
// accepted on the first rule that fires: exact equality, substring
// containment (either direction, with a minimum length), Jaro-Winkler
// similarity, or token-set inclusion (either direction). The cheap string
// checks run before the similarity metric on purpose: they also tolerate
// partial answers like "zelda" for "The Legend of Zelda".
func IsCorrect(userInput, canonicalAnswer string) bool {
	user := utils.ExpandAbbreviations(utils.NormalizeText(userInput))

	for _, variant := range strings.Split(canonicalAnswer, "/") {
		answer := utils.ExpandAbbreviations(utils.NormalizeText(strings.TrimSpace(variant)))
		if answer == "" {
			continue
		}

		if user == answer {
			return true
		}
		if len(user) > substringMinLen && strings.Contains(answer, user) {
			return true
		}
		if len(answer) > substringMinLen && strings.Contains(user, answer) {
			return true
		}
		if jaroWinkler(user, answer) > answerSimilarityThreshold {
			return true
		}
		if tokenSubset(user, answer) || tokenSubset(answer, user) {
			return true
		}
	}

	return false
}

// QuestionsAlike reports whether two question texts are similar enough that
// the second should be treated as a duplicate of the first.
func QuestionsAlike(a, b string) bool {
	return jaroWinkler(a, b) >= questionSimilarityThreshold
}

// tokenSubset reports whether every whitespace-delimited token of a occurs
// among the tokens of b. A tokenless left side never matches; otherwise
// punctuation-only input would pass against anything.
func tokenSubset(a, b string) bool {
	aTokens := strings.Fields(a)
	if len(aTokens) == 0 {
		return false
	}
	have := make(map[string]bool)
	for _, tok := range strings.Fields(b) {
		have[tok] = true
	}
	for _, tok := range aTokens {
		if !have[tok] {
			return false
		}
	}
	return true
}
