package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// EmotionService forwards facial-landmark frames to the emotion predictor
// and accumulates the labels it returns per puzzle, so a completed puzzle
// can be stored with the emotions observed while it was being solved.
type EmotionService struct {
	client       *http.Client
	predictorURL string

	mu      sync.Mutex
	pending map[string][]string // session:puzzle -> emotion labels
}

// NewEmotionService creates a new emotion service.
func NewEmotionService(predictorURL string) *EmotionService {
	return &EmotionService{
		client:       &http.Client{Timeout: 10 * time.Second},
		predictorURL: predictorURL,
		pending:      make(map[string][]string),
	}
}

type predictRequest struct {
	Landmarks json.RawMessage `json:"landmarks"`
}

type predictResponse struct {
	Emotion string `json:"emotion"`
}

// Predict sends one landmark frame to the predictor and returns the
// detected emotion label.
func (s *EmotionService) Predict(ctx context.Context, landmarks json.RawMessage) (string, error) {
	body, err := json.Marshal(predictRequest{Landmarks: landmarks})
	if err != nil {
		return "", fmt.Errorf("failed to encode landmarks: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.predictorURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build predictor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("emotion predictor unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("emotion predictor returned status %d", resp.StatusCode)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode predictor response: %w", err)
	}
	if out.Emotion == "" {
		return "", fmt.Errorf("emotion predictor returned no label")
	}
	return out.Emotion, nil
}

func key(sessionID, puzzleID string) string {
	return sessionID + ":" + puzzleID
}

// Accumulate buffers an emotion label against a puzzle in progress.
func (s *EmotionService) Accumulate(sessionID, puzzleID, emotion string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(sessionID, puzzleID)
	s.pending[k] = append(s.pending[k], emotion)
}

// Drain returns and clears the emotions buffered for a puzzle.
func (s *EmotionService) Drain(sessionID, puzzleID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(sessionID, puzzleID)
	emotions := s.pending[k]
	delete(s.pending, k)
	return emotions
}

// Dominant returns the most frequent label; ties go to the label seen
// first. Empty input yields "".
func Dominant(emotions []string) string {
	counts := make(map[string]int)
	best := ""
	for _, e := range emotions {
		counts[e]++
		if best == "" || counts[e] > counts[best] {
			best = e
		}
	}
	return best
}
