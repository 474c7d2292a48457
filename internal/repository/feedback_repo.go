package repository

import (
	"fmt"
	"time"

	"joyverse/internal/database"
	"joyverse/internal/models"
)

// FeedbackRepository handles database operations for public-site feedback
// and FAQ submissions.
type FeedbackRepository struct {
	db *database.DB
}

// NewFeedbackRepository creates a new feedback repository.
func NewFeedbackRepository(db *database.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// CreateFeedback stores a feedback message.
func (r *FeedbackRepository) CreateFeedback(name, email, message string) (*models.Feedback, error) {
	query := "INSERT INTO feedback (name, email, message, created_at) VALUES (?, ?, ?, ?)"
	now := time.Now().UTC()
	id, err := r.db.ExecReturningID(query, name, email, message, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}
	return &models.Feedback{ID: id, Name: name, Email: email, Message: message, CreatedAt: now}, nil
}

// ListFeedback retrieves all feedback, newest first.
func (r *FeedbackRepository) ListFeedback() ([]models.Feedback, error) {
	query := "SELECT id, name, email, message, created_at FROM feedback ORDER BY created_at DESC"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer rows.Close()

	var items []models.Feedback
	for rows.Next() {
		var f models.Feedback
		if err := rows.Scan(&f.ID, &f.Name, &f.Email, &f.Message, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

// CreateFAQ stores a visitor question.
func (r *FeedbackRepository) CreateFAQ(name, email, question string) (*models.FAQ, error) {
	query := "INSERT INTO faqs (name, email, question, created_at) VALUES (?, ?, ?, ?)"
	now := time.Now().UTC()
	id, err := r.db.ExecReturningID(query, name, email, question, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create faq: %w", err)
	}
	return &models.FAQ{ID: id, Name: name, Email: email, Question: question, CreatedAt: now}, nil
}

// ListFAQs retrieves all questions, newest first.
func (r *FeedbackRepository) ListFAQs() ([]models.FAQ, error) {
	query := "SELECT id, name, email, question, created_at FROM faqs ORDER BY created_at DESC"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query faqs: %w", err)
	}
	defer rows.Close()

	var items []models.FAQ
	for rows.Next() {
		var f models.FAQ
		if err := rows.Scan(&f.ID, &f.Name, &f.Email, &f.Question, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan faq: %w", err)
		}
		items = append(items, f)
	}
	return items, rows.Err()
}
