package typing

import (
	"sort"
	"strings"
	"unicode"

	"joyverse/internal/models"
)

// Alignment holds the per-letter tallies produced by comparing typed input
// against its target word across a history of attempts.
type Alignment struct {
	// ErrorCounts counts, per target letter, positions where the typed
	// letter differed or was missing.
	ErrorCounts map[string]int

	// OKCounts counts, per target letter, positions typed correctly.
	OKCounts map[string]int

	// Confusions maps target letter -> typed letter -> occurrences.
	Confusions map[string]map[string]int

	// first-seen orders, used for deterministic tie-breaking
	errorOrder    []string
	okOrder       []string
	confusedOrder []string
	typedOrder    map[string][]string
}

// Align walks each attempt position by position and tallies matches,
// errors and confusions. The comparison is positional: there is no
// edit-distance re-alignment, so an inserted or omitted letter shifts
// blame onto every subsequent position. That mis-attribution is accepted;
// re-aligning would change the diagnostic output downstream consumers see.
//
// Both sides are lowercased and stripped of non-letter characters first.
// Positions where the typed word runs past the target are ignored.
func Align(history []models.TypingAttempt) *Alignment {
	a := &Alignment{
		ErrorCounts: make(map[string]int),
		OKCounts:    make(map[string]int),
		Confusions:  make(map[string]map[string]int),
		typedOrder:  make(map[string][]string),
	}

	for _, attempt := range history {
		target := normalizeLetters(attempt.Word)
		typed := normalizeLetters(attempt.Input)

		n := len(target)
		if len(typed) > n {
			n = len(typed)
		}

		for i := 0; i < n; i++ {
			if i >= len(target) {
				continue
			}
			t := target[i]

			if i < len(typed) && typed[i] == t {
				if a.OKCounts[t] == 0 {
					a.okOrder = append(a.okOrder, t)
				}
				a.OKCounts[t]++
				continue
			}

			if a.ErrorCounts[t] == 0 {
				a.errorOrder = append(a.errorOrder, t)
			}
			a.ErrorCounts[t]++

			if i < len(typed) {
				u := typed[i]
				if a.Confusions[t] == nil {
					a.Confusions[t] = make(map[string]int)
					a.confusedOrder = append(a.confusedOrder, t)
				}
				if a.Confusions[t][u] == 0 {
					a.typedOrder[t] = append(a.typedOrder[t], u)
				}
				a.Confusions[t][u]++
			}
		}
	}

	return a
}

// ScoreErrors returns the per-letter error counts for a history.
func ScoreErrors(history []models.TypingAttempt) map[string]int {
	return Align(history).ErrorCounts
}

// RankedErrors returns the letters with recorded errors, most frequent
// first. Letters with equal counts keep first-seen order, so a fixed
// history always yields the same ranking.
func (a *Alignment) RankedErrors() []string {
	ranked := make([]string, len(a.errorOrder))
	copy(ranked, a.errorOrder)
	sort.SliceStable(ranked, func(i, j int) bool {
		return a.ErrorCounts[ranked[i]] > a.ErrorCounts[ranked[j]]
	})
	return ranked
}

// Strengths returns the letters typed correctly at least as often as
// incorrectly, most successful first.
func (a *Alignment) Strengths() []string {
	var strengths []string
	for _, letter := range a.okOrder {
		if a.OKCounts[letter] >= a.ErrorCounts[letter] {
			strengths = append(strengths, letter)
		}
	}
	sort.SliceStable(strengths, func(i, j int) bool {
		return a.OKCounts[strengths[i]] > a.OKCounts[strengths[j]]
	})
	return strengths
}

// ConfusionPairs emits, for each target letter with recorded confusions,
// its top maxPerLetter most frequent mistaken-as letters. Target letters
// appear in first-seen order; ties between mistaken letters keep
// first-seen order; self-confusion is skipped.
func (a *Alignment) ConfusionPairs(maxPerLetter int) []models.ConfusionPair {
	var pairs []models.ConfusionPair
	for _, target := range a.confusedOrder {
		typed := make([]string, len(a.typedOrder[target]))
		copy(typed, a.typedOrder[target])
		sort.SliceStable(typed, func(i, j int) bool {
			return a.Confusions[target][typed[i]] > a.Confusions[target][typed[j]]
		})

		count := 0
		for _, u := range typed {
			if u == target {
				continue
			}
			pairs = append(pairs, models.ConfusionPair{Confuses: u, With: target})
			count++
			if count == maxPerLetter {
				break
			}
		}
	}
	return pairs
}

// normalizeLetters lowercases a word and drops everything that is not a
// letter, returning one string per remaining letter.
func normalizeLetters(word string) []string {
	var letters []string
	for _, r := range strings.ToLower(word) {
		if unicode.IsLetter(r) {
			letters = append(letters, string(r))
		}
	}
	return letters
}
