package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"joyverse/internal/config"
	"joyverse/internal/database"
	"joyverse/internal/handlers"
	"joyverse/internal/repository"
	"joyverse/internal/service"
	"joyverse/internal/typing"
	"joyverse/internal/wordbank"
)

func main() {
	cfg := config.Load()

	db, err := database.Initialize(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Word bank for typing practice
	bank := wordbank.Default()
	if cfg.WordBankPath != "" {
		bank, err = wordbank.LoadFile(cfg.WordBankPath)
		if err != nil {
			log.Fatalf("Failed to load word bank: %v", err)
		}
	}
	log.Printf("Word bank loaded: %d words", bank.Len())
	selector := typing.NewSelector(bank, rand.New(rand.NewSource(time.Now().UnixNano())))

	// Repositories
	therapistRepo := repository.NewTherapistRepository(db)
	childRepo := repository.NewChildRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	storyRepo := repository.NewStoryRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	wordListRepo := repository.NewWordListRepository(db)

	// Services
	authService := service.NewAuthService(therapistRepo, invitationRepo, cfg.JWTSecret, cfg.TokenDuration)
	therapistService := service.NewTherapistService(therapistRepo, childRepo, sessionRepo, storyRepo)
	sessionService := service.NewSessionService(sessionRepo, childRepo, therapistRepo, selector)
	storyService := service.NewStoryService(storyRepo)
	emotionService := service.NewEmotionService(cfg.EmotionPredictorURL)
	emailService, err := service.NewEmailService(cfg.SESRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AdminEmail, cfg.EmailDebug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	feedbackService := service.NewFeedbackService(feedbackRepo, emailService)

	// Handlers
	middleware := handlers.NewMiddleware(authService, cfg.AdminKey)
	authHandler := handlers.NewAuthHandler(authService)
	therapistHandler := handlers.NewTherapistHandler(therapistService, sessionService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	puzzleHandler := handlers.NewPuzzleHandler(wordListRepo, sessionService, emotionService)
	emotionHandler := handlers.NewEmotionHandler(emotionService, sessionService)
	storyHandler := handlers.NewStoryHandler(storyService, sessionService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)

	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /api/signup", middleware.RateLimit(authHandler.SignUp))
	mux.HandleFunc("POST /api/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/feedback", middleware.RateLimit(feedbackHandler.SubmitFeedback))
	mux.HandleFunc("POST /api/faq", middleware.RateLimit(feedbackHandler.SubmitQuestion))
	mux.HandleFunc("GET /api/stories", storyHandler.ListStories)
	mux.HandleFunc("GET /api/stories/{storyId}", storyHandler.GetStory)
	mux.HandleFunc("GET /api/puzzles/themes", puzzleHandler.ListThemes)
	mux.HandleFunc("GET /api/puzzles/{theme}/{level}", puzzleHandler.GetWordList)

	// Child session routes
	mux.HandleFunc("POST /api/child/login", middleware.RateLimit(sessionHandler.ChildLogin))
	mux.HandleFunc("GET /api/sessions/{sessionId}", sessionHandler.GetSession)
	mux.HandleFunc("POST /api/sessions/{sessionId}/typing/next-word", sessionHandler.NextWord)
	mux.HandleFunc("POST /api/sessions/{sessionId}/typing/results", sessionHandler.SubmitTyping)
	mux.HandleFunc("POST /api/sessions/{sessionId}/typing/analyze", sessionHandler.Analyze)
	mux.HandleFunc("POST /api/sessions/{sessionId}/emotions", sessionHandler.TrackEmotion)
	mux.HandleFunc("POST /api/sessions/{sessionId}/emotions/predict", emotionHandler.Predict)
	mux.HandleFunc("GET /api/sessions/{sessionId}/emotions/dominant", emotionHandler.Dominant)
	mux.HandleFunc("POST /api/sessions/{sessionId}/puzzles", puzzleHandler.CompletePuzzle)
	mux.HandleFunc("POST /api/sessions/{sessionId}/readings", storyHandler.RecordReading)

	// Therapist routes
	mux.HandleFunc("POST /api/change-password", middleware.RequireTherapist(authHandler.ChangePassword))
	mux.HandleFunc("GET /api/therapist/dashboard", middleware.RequireTherapist(therapistHandler.Dashboard))
	mux.HandleFunc("POST /api/therapist/children", middleware.RequireTherapist(therapistHandler.AddChild))
	mux.HandleFunc("GET /api/therapist/children/{childId}", middleware.RequireTherapist(therapistHandler.GetChild))
	mux.HandleFunc("DELETE /api/therapist/children/{childId}", middleware.RequireTherapist(therapistHandler.RemoveChild))
	mux.HandleFunc("PUT /api/therapist/children/{childId}/themes", middleware.RequireTherapist(therapistHandler.AssignThemes))
	mux.HandleFunc("PUT /api/therapist/children/{childId}/game", middleware.RequireTherapist(therapistHandler.SetPreferredGame))
	mux.HandleFunc("PUT /api/therapist/children/{childId}/story", middleware.RequireTherapist(therapistHandler.SetPreferredStory))
	mux.HandleFunc("GET /api/therapist/children/{childId}/sessions", middleware.RequireTherapist(therapistHandler.ChildSessions))
	mux.HandleFunc("GET /api/therapist/children/{childId}/sessions/summary", middleware.RequireTherapist(therapistHandler.SessionSummaries))
	mux.HandleFunc("GET /api/therapist/children/{childId}/recordings", middleware.RequireTherapist(therapistHandler.ChildRecordings))
	mux.HandleFunc("GET /api/therapist/children/{childId}/typing-analysis", middleware.RequireTherapist(therapistHandler.ChildAnalysis))

	// Super-admin routes
	mux.HandleFunc("POST /api/admin/invitations", middleware.RequireAdmin(authHandler.CreateInvitation))
	mux.HandleFunc("GET /api/admin/invitations", middleware.RequireAdmin(authHandler.ListInvitations))
	mux.HandleFunc("GET /api/admin/therapists", middleware.RequireAdmin(authHandler.ListTherapists))
	mux.HandleFunc("DELETE /api/admin/therapists/{id}", middleware.RequireAdmin(authHandler.DeleteTherapist))
	mux.HandleFunc("POST /api/admin/stories", middleware.RequireAdmin(storyHandler.AddStory))
	mux.HandleFunc("DELETE /api/admin/stories/{storyId}", middleware.RequireAdmin(storyHandler.DeleteStory))
	mux.HandleFunc("PUT /api/admin/puzzles/{theme}/{level}", middleware.RequireAdmin(puzzleHandler.UpsertWordList))
	mux.HandleFunc("GET /api/admin/feedback", middleware.RequireAdmin(feedbackHandler.ListFeedback))
	mux.HandleFunc("GET /api/admin/faq", middleware.RequireAdmin(feedbackHandler.ListQuestions))

	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}
