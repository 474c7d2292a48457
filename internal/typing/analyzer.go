package typing

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"joyverse/internal/models"
)

// ErrNoResults is returned when analysis is requested for an empty batch.
// Callers are expected to treat it as a reportable condition, not a fault.
var ErrNoResults = errors.New("no typing results to analyze")

// Severity thresholds on overall accuracy.
const (
	severeBelow   = 60
	moderateBelow = 80
)

const (
	maxConfusionsPerLetter = 2
	recommendationTopN     = 5
)

// Analyze turns a batch of typing attempts into a diagnostic report:
// problem letters, confusion patterns, strengths, accuracy and a coarse
// severity grade, plus therapist-facing practice recommendations.
func Analyze(results []models.TypingAttempt) (*models.Report, error) {
	if len(results) == 0 {
		return nil, ErrNoResults
	}

	correct := 0
	for _, r := range results {
		if r.Correct {
			correct++
		}
	}
	accuracy := int(math.Round(float64(correct) / float64(len(results)) * 100))

	alignment := Align(results)

	report := &models.Report{
		ProblematicLetters: alignment.RankedErrors(),
		ConfusionPatterns:  alignment.ConfusionPairs(maxConfusionsPerLetter),
		Strengths:          alignment.Strengths(),
		OverallAccuracy:    accuracy,
		Severity:           severityFor(accuracy),
	}
	report.Recommendations = recommendations(report)

	return report, nil
}

// BuildAnalysis wraps Analyze with the bookkeeping captured at analysis
// time for caching on a session.
func BuildAnalysis(results []models.TypingResult, analyzedAt time.Time) (*models.TypingAnalysis, error) {
	attempts := make([]models.TypingAttempt, len(results))
	correct := 0
	for i, r := range results {
		attempts[i] = r.Attempt()
		if r.Correct {
			correct++
		}
	}

	report, err := Analyze(attempts)
	if err != nil {
		return nil, err
	}

	return &models.TypingAnalysis{
		Report:       *report,
		AnalyzedAt:   analyzedAt,
		TotalWords:   len(results),
		CorrectWords: correct,
	}, nil
}

func severityFor(accuracy int) string {
	switch {
	case accuracy < severeBelow:
		return "severe"
	case accuracy < moderateBelow:
		return "moderate"
	default:
		return "mild"
	}
}

// recommendations derives deterministic practice hints from the report's
// top problem letters and confusion pairs.
func recommendations(report *models.Report) []string {
	var recs []string

	if len(report.ProblematicLetters) > 0 {
		top := report.ProblematicLetters
		if len(top) > recommendationTopN {
			top = top[:recommendationTopN]
		}
		recs = append(recs, fmt.Sprintf("Practice words containing the letters: %s", strings.Join(top, ", ")))
	}

	pairs := report.ConfusionPatterns
	if len(pairs) > recommendationTopN {
		pairs = pairs[:recommendationTopN]
	}
	for _, p := range pairs {
		recs = append(recs, fmt.Sprintf("Work on telling '%s' apart from '%s'", p.Confuses, p.With))
	}

	if len(recs) == 0 {
		recs = append(recs, "No consistent letter difficulties detected; continue mixed practice")
	}

	return recs
}
