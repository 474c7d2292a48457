package repository

import (
	"database/sql"
	"fmt"
	"time"

	"joyverse/internal/database"
	"joyverse/internal/models"
)

// StoryRepository handles database operations for reading-exercise stories.
type StoryRepository struct {
	db *database.DB
}

// NewStoryRepository creates a new story repository.
func NewStoryRepository(db *database.DB) *StoryRepository {
	return &StoryRepository{db: db}
}

// Create stores a new story.
func (r *StoryRepository) Create(title, author, story, moral string) (*models.Story, error) {
	query := "INSERT INTO stories (title, author, story, moral, created_at) VALUES (?, ?, ?, ?, ?)"
	now := time.Now().UTC()
	id, err := r.db.ExecReturningID(query, title, author, story, moral, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create story: %w", err)
	}
	return &models.Story{ID: id, Title: title, Author: author, Story: story, Moral: moral, CreatedAt: now}, nil
}

// GetByID retrieves a story, or nil when absent.
func (r *StoryRepository) GetByID(id int64) (*models.Story, error) {
	query := "SELECT id, title, author, story, moral, created_at FROM stories WHERE id = ?"
	s := &models.Story{}
	err := r.db.QueryRow(query, id).Scan(&s.ID, &s.Title, &s.Author, &s.Story, &s.Moral, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get story: %w", err)
	}
	return s, nil
}

// List retrieves all stories, oldest first.
func (r *StoryRepository) List() ([]models.Story, error) {
	query := "SELECT id, title, author, story, moral, created_at FROM stories ORDER BY created_at ASC"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query stories: %w", err)
	}
	defer rows.Close()

	var stories []models.Story
	for rows.Next() {
		var s models.Story
		if err := rows.Scan(&s.ID, &s.Title, &s.Author, &s.Story, &s.Moral, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan story: %w", err)
		}
		stories = append(stories, s)
	}
	return stories, rows.Err()
}

// Delete removes a story.
func (r *StoryRepository) Delete(id int64) error {
	query := "DELETE FROM stories WHERE id = ?"
	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete story: %w", err)
	}
	return nil
}
