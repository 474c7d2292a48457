package service

import (
	"joyverse/internal/models"
	"joyverse/internal/repository"
	"joyverse/internal/validation"
)

// StoryService manages the reading-exercise story library.
type StoryService struct {
	storyRepo *repository.StoryRepository
}

// NewStoryService creates a new story service.
func NewStoryService(storyRepo *repository.StoryRepository) *StoryService {
	return &StoryService{storyRepo: storyRepo}
}

// AddStory stores a new story.
func (s *StoryService) AddStory(title, author, story, moral string) (*models.Story, error) {
	if err := validation.ValidateRequired("title", title); err != nil {
		return nil, err
	}
	if err := validation.ValidateRequired("story", story); err != nil {
		return nil, err
	}
	return s.storyRepo.Create(title, author, story, moral)
}

// GetStory retrieves one story.
func (s *StoryService) GetStory(id int64) (*models.Story, error) {
	story, err := s.storyRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if story == nil {
		return nil, ErrStoryNotFound
	}
	return story, nil
}

// ListStories retrieves all stories.
func (s *StoryService) ListStories() ([]models.Story, error) {
	return s.storyRepo.List()
}

// DeleteStory removes a story.
func (s *StoryService) DeleteStory(id int64) error {
	if _, err := s.GetStory(id); err != nil {
		return err
	}
	return s.storyRepo.Delete(id)
}
