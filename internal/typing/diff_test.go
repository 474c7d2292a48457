package typing

import (
	"testing"

	"joyverse/internal/models"
)

func attempt(word, input string, correct bool) models.TypingAttempt {
	return models.TypingAttempt{Word: word, Input: input, Correct: correct}
}

func TestAlignSubstitution(t *testing.T) {
	var history []models.TypingAttempt
	for i := 0; i < 5; i++ {
		history = append(history, attempt("bed", "ded", false))
	}

	a := Align(history)

	if got := a.ErrorCounts["b"]; got != 5 {
		t.Errorf("ErrorCounts[b] = %d, want 5", got)
	}
	if got := a.Confusions["b"]["d"]; got != 5 {
		t.Errorf("Confusions[b][d] = %d, want 5", got)
	}
	if got := a.OKCounts["e"]; got != 5 {
		t.Errorf("OKCounts[e] = %d, want 5", got)
	}
	if got := a.OKCounts["d"]; got != 5 {
		t.Errorf("OKCounts[d] = %d, want 5", got)
	}

	pairs := a.ConfusionPairs(2)
	if len(pairs) != 1 || pairs[0].Confuses != "d" || pairs[0].With != "b" {
		t.Errorf("ConfusionPairs() = %v, want [{d b}]", pairs)
	}
}

func TestAlignIsPositional(t *testing.T) {
	// A dropped first letter shifts every later comparison: this is the
	// documented behavior, not a bug.
	a := Align([]models.TypingAttempt{attempt("cat", "at", false)})

	for _, letter := range []string{"c", "a", "t"} {
		if got := a.ErrorCounts[letter]; got != 1 {
			t.Errorf("ErrorCounts[%s] = %d, want 1", letter, got)
		}
	}
	if got := a.Confusions["c"]["a"]; got != 1 {
		t.Errorf("Confusions[c][a] = %d, want 1", got)
	}
	if got := a.Confusions["a"]["t"]; got != 1 {
		t.Errorf("Confusions[a][t] = %d, want 1", got)
	}
	// "t" had nothing typed at its position: an error without a confusion
	if len(a.Confusions["t"]) != 0 {
		t.Errorf("Confusions[t] = %v, want none", a.Confusions["t"])
	}
}

func TestAlignIgnoresOverrun(t *testing.T) {
	a := Align([]models.TypingAttempt{attempt("cat", "catt", false)})

	if len(a.ErrorCounts) != 0 {
		t.Errorf("ErrorCounts = %v, want none for typed-too-long input", a.ErrorCounts)
	}
	if got := a.OKCounts["t"]; got != 1 {
		t.Errorf("OKCounts[t] = %d, want 1", got)
	}
}

func TestAlignNormalizes(t *testing.T) {
	a := Align([]models.TypingAttempt{attempt("Bed!", "DED", false)})

	if got := a.ErrorCounts["b"]; got != 1 {
		t.Errorf("ErrorCounts[b] = %d, want 1", got)
	}
	if got := a.OKCounts["e"]; got != 1 {
		t.Errorf("OKCounts[e] = %d, want 1", got)
	}
}

func TestRankedErrorsIsDeterministic(t *testing.T) {
	history := []models.TypingAttempt{
		attempt("bb", "dd", false), // b: 2 errors
		attempt("p", "q", false),   // p: 1 error
		attempt("m", "n", false),   // m: 1 error, ties with p
	}

	for i := 0; i < 10; i++ {
		ranked := Align(history).RankedErrors()
		want := []string{"b", "p", "m"}
		if len(ranked) != len(want) {
			t.Fatalf("RankedErrors() = %v, want %v", ranked, want)
		}
		for j := range want {
			if ranked[j] != want[j] {
				t.Fatalf("RankedErrors() = %v, want %v", ranked, want)
			}
		}
	}
}

func TestConfusionPairsTopTwo(t *testing.T) {
	history := []models.TypingAttempt{
		attempt("bbb", "ddd", false),
		attempt("bb", "pp", false),
		attempt("b", "q", false),
	}

	pairs := Align(history).ConfusionPairs(2)

	if len(pairs) != 2 {
		t.Fatalf("ConfusionPairs() returned %d pairs, want 2", len(pairs))
	}
	if pairs[0].Confuses != "d" || pairs[1].Confuses != "p" {
		t.Errorf("ConfusionPairs() = %v, want d then p", pairs)
	}
	for _, p := range pairs {
		if p.With != "b" {
			t.Errorf("pair %v targets %s, want b", p, p.With)
		}
	}
}

func TestConfusionPairsSkipsSelf(t *testing.T) {
	// "ab" vs "ba": a confused with b at position 0, b confused with a at
	// position 1. No self-confusion can be recorded positionally, but the
	// skip also guards letters that mix matches and errors elsewhere.
	pairs := Align([]models.TypingAttempt{attempt("ab", "ba", false)}).ConfusionPairs(2)

	for _, p := range pairs {
		if p.Confuses == p.With {
			t.Errorf("self-confusion pair emitted: %v", p)
		}
	}
}

func TestStrengths(t *testing.T) {
	history := []models.TypingAttempt{
		attempt("aaa", "aaa", true),
		attempt("ab", "ab", true),
		attempt("b", "d", false),
	}

	strengths := Align(history).Strengths()

	// a: 4 ok, 0 err -> strength; b: 1 ok, 1 err -> still a strength (ok >= err)
	if len(strengths) != 2 || strengths[0] != "a" || strengths[1] != "b" {
		t.Errorf("Strengths() = %v, want [a b]", strengths)
	}
}
