package service

import (
	"fmt"

	"joyverse/internal/credentials"
	"joyverse/internal/models"
	"joyverse/internal/repository"
	"joyverse/internal/validation"
)

// TherapistService handles the therapist-facing management surface:
// the dashboard, child profiles, theme and activity assignment.
type TherapistService struct {
	therapistRepo *repository.TherapistRepository
	childRepo     *repository.ChildRepository
	sessionRepo   *repository.SessionRepository
	storyRepo     *repository.StoryRepository
}

// NewTherapistService creates a new therapist service.
func NewTherapistService(therapistRepo *repository.TherapistRepository, childRepo *repository.ChildRepository, sessionRepo *repository.SessionRepository, storyRepo *repository.StoryRepository) *TherapistService {
	return &TherapistService{
		therapistRepo: therapistRepo,
		childRepo:     childRepo,
		sessionRepo:   sessionRepo,
		storyRepo:     storyRepo,
	}
}

// Dashboard returns the therapist's account view with all its children.
func (s *TherapistService) Dashboard(therapistID int64) (*models.TherapistWithChildren, error) {
	therapist, err := s.therapistRepo.GetByID(therapistID)
	if err != nil {
		return nil, err
	}
	if therapist == nil {
		return nil, ErrTherapistNotFound
	}

	children, err := s.childRepo.ListByTherapist(therapistID)
	if err != nil {
		return nil, err
	}

	return &models.TherapistWithChildren{
		Username: therapist.Username,
		Code:     therapist.Code,
		Children: children,
	}, nil
}

// AddChild creates a child profile under the therapist. Usernames must be
// unique among that therapist's children only; an empty username gets a
// generated kid-friendly one.
func (s *TherapistService) AddChild(therapistID int64, username string) (*models.Child, error) {
	if username == "" {
		generated, err := s.freeUsername(therapistID)
		if err != nil {
			return nil, err
		}
		username = generated
	}
	if err := validation.ValidateUsername(username); err != nil {
		return nil, err
	}

	existing, err := s.childRepo.GetByTherapistAndUsername(therapistID, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	return s.childRepo.CreateChild(therapistID, username)
}

// freeUsername generates a child username not yet taken under the
// therapist.
func (s *TherapistService) freeUsername(therapistID int64) (string, error) {
	for i := 0; i < 10; i++ {
		username, err := credentials.GenerateChildUsername()
		if err != nil {
			return "", fmt.Errorf("failed to generate username: %w", err)
		}
		existing, err := s.childRepo.GetByTherapistAndUsername(therapistID, username)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return username, nil
		}
	}
	return "", fmt.Errorf("failed to find a free username")
}

// ownedChild loads a child and verifies the therapist owns it.
func (s *TherapistService) ownedChild(therapistID, childID int64) (*models.Child, error) {
	child, err := s.childRepo.GetByID(childID)
	if err != nil {
		return nil, err
	}
	if child == nil || child.TherapistID != therapistID {
		return nil, ErrChildNotFound
	}
	return child, nil
}

// GetChild returns one of the therapist's children.
func (s *TherapistService) GetChild(therapistID, childID int64) (*models.Child, error) {
	return s.ownedChild(therapistID, childID)
}

// RemoveChild deletes a child profile and all its sessions.
func (s *TherapistService) RemoveChild(therapistID, childID int64) error {
	if _, err := s.ownedChild(therapistID, childID); err != nil {
		return err
	}
	return s.childRepo.Delete(childID)
}

// AssignThemes replaces the child's currently assigned puzzle themes.
// Running sessions keep the theme snapshot taken at their start.
func (s *TherapistService) AssignThemes(therapistID, childID int64, themes []string) error {
	if _, err := s.ownedChild(therapistID, childID); err != nil {
		return err
	}
	for _, theme := range themes {
		if err := validation.ValidateRequired("theme", theme); err != nil {
			return err
		}
	}
	return s.childRepo.UpdateThemes(childID, themes)
}

// SetPreferredGame restricts the child to one game mode, or clears the
// restriction when mode is empty.
func (s *TherapistService) SetPreferredGame(therapistID, childID int64, mode string) error {
	if _, err := s.ownedChild(therapistID, childID); err != nil {
		return err
	}
	if mode != "" {
		if err := validation.ValidateGameMode(mode); err != nil {
			return err
		}
	}
	return s.childRepo.UpdatePreferredGame(childID, mode)
}

// SetPreferredStory assigns the story the child should read next and
// switches the child to the reading game.
func (s *TherapistService) SetPreferredStory(therapistID, childID, storyID int64) error {
	if _, err := s.ownedChild(therapistID, childID); err != nil {
		return err
	}
	story, err := s.storyRepo.GetByID(storyID)
	if err != nil {
		return err
	}
	if story == nil {
		return ErrStoryNotFound
	}
	if err := s.childRepo.UpdatePreferredStory(childID, fmt.Sprintf("%d", storyID)); err != nil {
		return err
	}
	return s.childRepo.UpdatePreferredGame(childID, models.GameReading)
}

// ChildRecordings lists the child's read-aloud recordings grouped by
// session, newest session first.
func (s *TherapistService) ChildRecordings(therapistID, childID int64) ([]models.SessionRecordings, error) {
	sessions, err := s.ChildSessions(therapistID, childID)
	if err != nil {
		return nil, err
	}
	var out []models.SessionRecordings
	for _, session := range sessions {
		if len(session.ReadingRecordings) == 0 {
			continue
		}
		out = append(out, models.SessionRecordings{
			SessionID:  session.SessionID,
			Date:       session.Date,
			Recordings: session.ReadingRecordings,
		})
	}
	return out, nil
}

// ChildSessions lists a child's sessions for the therapist's review,
// newest first.
func (s *TherapistService) ChildSessions(therapistID, childID int64) ([]models.Session, error) {
	if _, err := s.ownedChild(therapistID, childID); err != nil {
		return nil, err
	}
	return s.sessionRepo.ListByChild(childID)
}

// SessionSummaries lists compact per-session rows for the dashboard.
func (s *TherapistService) SessionSummaries(therapistID, childID int64) ([]models.SessionSummary, error) {
	sessions, err := s.ChildSessions(therapistID, childID)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.SessionSummary, len(sessions))
	for i, session := range sessions {
		summaries[i] = models.SessionSummary{
			SessionID:   session.SessionID,
			Date:        session.Date,
			TypingWords: len(session.TypingResults),
			PuzzlesDone: len(session.PlayedPuzzles),
			HasAnalysis: session.TypingAnalysis != nil,
		}
	}
	return summaries, nil
}
