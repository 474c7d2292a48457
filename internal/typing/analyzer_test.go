package typing

import (
	"errors"
	"testing"
	"time"

	"joyverse/internal/models"
)

// makeBatch builds total attempts of which correct are typed right.
func makeBatch(correct, total int) []models.TypingAttempt {
	batch := make([]models.TypingAttempt, total)
	for i := 0; i < total; i++ {
		if i < correct {
			batch[i] = attempt("bed", "bed", true)
		} else {
			batch[i] = attempt("bed", "ded", false)
		}
	}
	return batch
}

func TestAnalyzeEmpty(t *testing.T) {
	_, err := Analyze(nil)
	if !errors.Is(err, ErrNoResults) {
		t.Errorf("Analyze(nil) error = %v, want ErrNoResults", err)
	}
}

func TestAnalyzeSeverityBoundaries(t *testing.T) {
	tests := []struct {
		name         string
		correct      int
		wantAccuracy int
		wantSeverity string
	}{
		{"just below severe cutoff", 59, 59, "severe"},
		{"at severe cutoff", 60, 60, "moderate"},
		{"just below moderate cutoff", 79, 79, "moderate"},
		{"at moderate cutoff", 80, 80, "mild"},
		{"perfect", 100, 100, "mild"},
		{"all wrong", 0, 0, "severe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := Analyze(makeBatch(tt.correct, 100))
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}
			if report.OverallAccuracy != tt.wantAccuracy {
				t.Errorf("OverallAccuracy = %d, want %d", report.OverallAccuracy, tt.wantAccuracy)
			}
			if report.Severity != tt.wantSeverity {
				t.Errorf("Severity = %q, want %q", report.Severity, tt.wantSeverity)
			}
		})
	}
}

func TestAnalyzeAccuracyRounds(t *testing.T) {
	report, err := Analyze(makeBatch(2, 3))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if report.OverallAccuracy != 67 {
		t.Errorf("OverallAccuracy = %d, want 67", report.OverallAccuracy)
	}
}

func TestAnalyzePerfectSession(t *testing.T) {
	report, err := Analyze(makeBatch(10, 10))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if report.OverallAccuracy != 100 {
		t.Errorf("OverallAccuracy = %d, want 100", report.OverallAccuracy)
	}
	if len(report.ProblematicLetters) != 0 {
		t.Errorf("ProblematicLetters = %v, want none", report.ProblematicLetters)
	}
	if len(report.ConfusionPatterns) != 0 {
		t.Errorf("ConfusionPatterns = %v, want none", report.ConfusionPatterns)
	}
	if report.Severity != "mild" {
		t.Errorf("Severity = %q, want mild", report.Severity)
	}
	if len(report.Recommendations) != 1 {
		t.Fatalf("Recommendations = %v, want the mixed-practice fallback", report.Recommendations)
	}
}

func TestAnalyzeReportsConfusion(t *testing.T) {
	report, err := Analyze(makeBatch(0, 5))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	found := false
	for _, p := range report.ConfusionPatterns {
		if p.Confuses == "d" && p.With == "b" {
			found = true
		}
	}
	if !found {
		t.Errorf("ConfusionPatterns = %v, want {d b}", report.ConfusionPatterns)
	}

	if len(report.ProblematicLetters) == 0 || report.ProblematicLetters[0] != "b" {
		t.Errorf("ProblematicLetters = %v, want b first", report.ProblematicLetters)
	}
	if len(report.Recommendations) == 0 {
		t.Error("Recommendations is empty")
	}
}

func TestBuildAnalysis(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	results := []models.TypingResult{
		{Word: "bed", Input: "bed", Correct: true, CompletedAt: now},
		{Word: "bed", Input: "ded", Correct: false, CompletedAt: now},
	}

	analysis, err := BuildAnalysis(results, now)
	if err != nil {
		t.Fatalf("BuildAnalysis() error = %v", err)
	}

	if analysis.TotalWords != 2 || analysis.CorrectWords != 1 {
		t.Errorf("TotalWords/CorrectWords = %d/%d, want 2/1", analysis.TotalWords, analysis.CorrectWords)
	}
	if analysis.OverallAccuracy != 50 {
		t.Errorf("OverallAccuracy = %d, want 50", analysis.OverallAccuracy)
	}
	if !analysis.AnalyzedAt.Equal(now) {
		t.Errorf("AnalyzedAt = %v, want %v", analysis.AnalyzedAt, now)
	}
}

func TestBuildAnalysisEmpty(t *testing.T) {
	_, err := BuildAnalysis(nil, time.Now())
	if !errors.Is(err, ErrNoResults) {
		t.Errorf("BuildAnalysis(nil) error = %v, want ErrNoResults", err)
	}
}
