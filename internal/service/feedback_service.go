package service

import (
	"context"
	"log"
	"time"

	"joyverse/internal/models"
	"joyverse/internal/repository"
	"joyverse/internal/validation"
)

// FeedbackService stores public-site feedback and questions and notifies
// the admin by email. Notification failures are logged; the submission is
// already stored by then and must not fail.
type FeedbackService struct {
	feedbackRepo *repository.FeedbackRepository
	email        *EmailService
}

// NewFeedbackService creates a new feedback service.
func NewFeedbackService(feedbackRepo *repository.FeedbackRepository, email *EmailService) *FeedbackService {
	return &FeedbackService{feedbackRepo: feedbackRepo, email: email}
}

// SubmitFeedback validates and stores a feedback message.
func (s *FeedbackService) SubmitFeedback(name, email, message string) (*models.Feedback, error) {
	if err := validation.ValidateRequired("name", name); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidateRequired("message", message); err != nil {
		return nil, err
	}

	feedback, err := s.feedbackRepo.CreateFeedback(name, email, message)
	if err != nil {
		return nil, err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.email.NotifyFeedback(ctx, name, email, message); err != nil {
			log.Printf("failed to send feedback notification: %v", err)
		}
	}()

	return feedback, nil
}

// SubmitQuestion validates and stores an FAQ question.
func (s *FeedbackService) SubmitQuestion(name, email, question string) (*models.FAQ, error) {
	if err := validation.ValidateRequired("name", name); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidateRequired("question", question); err != nil {
		return nil, err
	}

	faq, err := s.feedbackRepo.CreateFAQ(name, email, question)
	if err != nil {
		return nil, err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.email.NotifyQuestion(ctx, name, email, question); err != nil {
			log.Printf("failed to send question notification: %v", err)
		}
	}()

	return faq, nil
}

// ListFeedback returns all feedback, newest first.
func (s *FeedbackService) ListFeedback() ([]models.Feedback, error) {
	return s.feedbackRepo.ListFeedback()
}

// ListQuestions returns all FAQ questions, newest first.
func (s *FeedbackService) ListQuestions() ([]models.FAQ, error) {
	return s.feedbackRepo.ListFAQs()
}
