package typing

import (
	"math/rand"
	"strings"
	"sync"

	"joyverse/internal/models"
	"joyverse/internal/wordbank"
)

// Selector picks the next practice word for a child, biased toward the
// letters their typing history shows them struggling with.
type Selector struct {
	bank *wordbank.Bank

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector creates a selector over the given bank. The random source is
// injected so that selection is reproducible under test; pass a source
// seeded from the clock in production.
func NewSelector(bank *wordbank.Bank, rng *rand.Rand) *Selector {
	return &Selector{bank: bank, rng: rng}
}

// Next returns the next practice word. The choice is driven by the error
// profile of the incorrect attempts in history:
//
//  1. Bank words already used this session are excluded (case-insensitive).
//  2. If every bank word has been used, a uniformly random word from the
//     whole bank is returned; repeats are expected once the bank runs out.
//  3. With no error profile yet (first word, or a perfect history), the
//     word is uniform over the remaining candidates.
//  4. Otherwise the most problematic letter that appears in at least one
//     candidate decides: uniform over the candidates containing it.
//
// Next never returns "" while the bank is non-empty.
func (s *Selector) Next(history []models.TypingAttempt, usedWords []string) string {
	if s.bank.Len() == 0 {
		return ""
	}

	var incorrect []models.TypingAttempt
	for _, attempt := range history {
		if !attempt.Correct {
			incorrect = append(incorrect, attempt)
		}
	}
	ranked := Align(incorrect).RankedErrors()

	used := make(map[string]struct{}, len(usedWords))
	for _, w := range usedWords {
		used[strings.ToLower(w)] = struct{}{}
	}

	var candidates []string
	for _, w := range s.bank.Words() {
		if _, ok := used[w]; !ok {
			candidates = append(candidates, w)
		}
	}

	if len(candidates) == 0 {
		return s.pick(s.bank.Words())
	}

	for _, letter := range ranked {
		var matching []string
		for _, w := range candidates {
			if strings.Contains(w, letter) {
				matching = append(matching, w)
			}
		}
		if len(matching) > 0 {
			return s.pick(matching)
		}
	}

	return s.pick(candidates)
}

// pick returns a uniformly random element. The rng is guarded because
// selections for different sessions may run concurrently.
func (s *Selector) pick(words []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return words[s.rng.Intn(len(words))]
}
