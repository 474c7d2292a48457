package wordbank

import (
	"fmt"
	"os"
	"strings"
	"unicode"
)

// defaultWords is the built-in practice vocabulary: short, child-friendly
// words that between them cover every letter of the alphabet.
var defaultWords = []string{
	"cat", "dog", "sun", "tree", "book",
	"bed", "red", "bird", "fish", "cake",
	"milk", "ball", "frog", "star", "moon",
	"rain", "wind", "leaf", "hand", "door",
	"bell", "duck", "goat", "lamp", "nest",
	"ship", "sock", "tent", "web", "box",
	"cup", "pen", "hat", "map", "bag",
	"bus", "car", "jam", "kite", "log",
	"mop", "net", "owl", "pig", "rug",
	"toy", "van", "zip", "ant", "bee",
	"cow", "egg", "fox", "hen", "ice",
	"jar", "key", "quiz", "quack", "six",
	"yarn", "dig", "bad", "dad", "pond",
}

// Bank is a fixed, deduplicated vocabulary of practice words. It is built
// once at process start and never mutated afterwards, so it is safe to
// share across goroutines without synchronization.
type Bank struct {
	words []string
	index map[string]struct{}
}

// New builds a bank from the given words. Words are lowercased; blanks and
// duplicates are dropped. Iteration order is the (first-seen) input order.
func New(words []string) *Bank {
	b := &Bank{index: make(map[string]struct{}, len(words))}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, seen := b.index[w]; seen {
			continue
		}
		b.index[w] = struct{}{}
		b.words = append(b.words, w)
	}
	return b
}

// Default returns a bank holding the built-in vocabulary.
func Default() *Bank {
	return New(defaultWords)
}

// LoadFile reads a newline-separated word list. Lines starting with # are
// ignored.
func LoadFile(path string) (*Bank, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read word bank: %w", err)
	}

	var words []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}

	bank := New(words)
	if bank.Len() == 0 {
		return nil, fmt.Errorf("word bank %s contains no words", path)
	}
	return bank, nil
}

// Words returns the bank's words in iteration order. Callers must not
// modify the returned slice.
func (b *Bank) Words() []string {
	return b.words
}

// Len returns the number of words in the bank.
func (b *Bank) Len() int {
	return len(b.words)
}

// Contains reports whether the bank holds the given word,
// case-insensitively.
func (b *Bank) Contains(word string) bool {
	_, ok := b.index[strings.ToLower(word)]
	return ok
}

// coversAlphabet reports whether every ASCII letter appears in some word.
// Used by tests to keep the default list honest.
func (b *Bank) coversAlphabet() bool {
	seen := make(map[rune]bool)
	for _, w := range b.words {
		for _, r := range w {
			if unicode.IsLetter(r) {
				seen[r] = true
			}
		}
	}
	for r := 'a'; r <= 'z'; r++ {
		if !seen[r] {
			return false
		}
	}
	return true
}
