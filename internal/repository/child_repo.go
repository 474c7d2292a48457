package repository

import (
	"database/sql"
	"fmt"
	"time"

	"joyverse/internal/database"
	"joyverse/internal/models"
)

// ChildRepository handles database operations for child profiles.
type ChildRepository struct {
	db *database.DB
}

// NewChildRepository creates a new child repository.
func NewChildRepository(db *database.DB) *ChildRepository {
	return &ChildRepository{db: db}
}

const childColumns = "id, therapist_id, username, joined_at, current_themes, played_puzzles, preferred_game, preferred_story"

// CreateChild creates a child profile under a therapist.
func (r *ChildRepository) CreateChild(therapistID int64, username string) (*models.Child, error) {
	themes, err := encodeJSON([]string{})
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO children (therapist_id, username, joined_at, current_themes, played_puzzles, preferred_game, preferred_story)
		VALUES (?, ?, ?, ?, ?, '', '')`
	now := time.Now().UTC()
	id, err := r.db.ExecReturningID(query, therapistID, username, now, themes, themes)
	if err != nil {
		return nil, fmt.Errorf("failed to create child: %w", err)
	}

	return &models.Child{
		ID:          id,
		TherapistID: therapistID,
		Username:    username,
		JoinedAt:    now,
	}, nil
}

func scanChild(scan func(dest ...interface{}) error) (*models.Child, error) {
	c := &models.Child{}
	var themes, puzzles sql.NullString
	err := scan(&c.ID, &c.TherapistID, &c.Username, &c.JoinedAt, &themes, &puzzles, &c.PreferredGame, &c.PreferredStory)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get child: %w", err)
	}
	if err := decodeJSON(themes, &c.CurrentThemes); err != nil {
		return nil, err
	}
	if err := decodeJSON(puzzles, &c.PlayedPuzzles); err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID retrieves a child by ID, or nil when absent.
func (r *ChildRepository) GetByID(id int64) (*models.Child, error) {
	query := "SELECT " + childColumns + " FROM children WHERE id = ?"
	return scanChild(r.db.QueryRow(query, id).Scan)
}

// GetByTherapistAndUsername retrieves a child by its owner and username.
// Usernames are only unique within one therapist's children.
func (r *ChildRepository) GetByTherapistAndUsername(therapistID int64, username string) (*models.Child, error) {
	query := "SELECT " + childColumns + " FROM children WHERE therapist_id = ? AND username = ?"
	return scanChild(r.db.QueryRow(query, therapistID, username).Scan)
}

// ListByTherapist retrieves all of a therapist's children, oldest first.
func (r *ChildRepository) ListByTherapist(therapistID int64) ([]models.Child, error) {
	query := "SELECT " + childColumns + " FROM children WHERE therapist_id = ? ORDER BY joined_at ASC"
	rows, err := r.db.Query(query, therapistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query children: %w", err)
	}
	defer rows.Close()

	var children []models.Child
	for rows.Next() {
		c, err := scanChild(rows.Scan)
		if err != nil {
			return nil, err
		}
		children = append(children, *c)
	}
	return children, rows.Err()
}

// UpdateThemes replaces a child's currently assigned themes.
func (r *ChildRepository) UpdateThemes(childID int64, themes []string) error {
	if themes == nil {
		themes = []string{}
	}
	encoded, err := encodeJSON(themes)
	if err != nil {
		return err
	}
	query := "UPDATE children SET current_themes = ? WHERE id = ?"
	if _, err := r.db.Exec(query, encoded, childID); err != nil {
		return fmt.Errorf("failed to update themes: %w", err)
	}
	return nil
}

// UpdatePreferredGame sets which game mode a child is restricted to. An
// empty mode clears the restriction.
func (r *ChildRepository) UpdatePreferredGame(childID int64, mode string) error {
	query := "UPDATE children SET preferred_game = ? WHERE id = ?"
	if _, err := r.db.Exec(query, mode, childID); err != nil {
		return fmt.Errorf("failed to update preferred game: %w", err)
	}
	return nil
}

// UpdatePreferredStory sets the story a child should read next.
func (r *ChildRepository) UpdatePreferredStory(childID int64, storyID string) error {
	query := "UPDATE children SET preferred_story = ? WHERE id = ?"
	if _, err := r.db.Exec(query, storyID, childID); err != nil {
		return fmt.Errorf("failed to update preferred story: %w", err)
	}
	return nil
}

// AddPlayedPuzzle appends a puzzle ID to the child's lifetime played list,
// skipping duplicates.
func (r *ChildRepository) AddPlayedPuzzle(childID int64, puzzleID string) error {
	child, err := r.GetByID(childID)
	if err != nil {
		return err
	}
	if child == nil {
		return fmt.Errorf("child %d not found", childID)
	}
	for _, p := range child.PlayedPuzzles {
		if p == puzzleID {
			return nil
		}
	}
	encoded, err := encodeJSON(append(child.PlayedPuzzles, puzzleID))
	if err != nil {
		return err
	}
	query := "UPDATE children SET played_puzzles = ? WHERE id = ?"
	if _, err := r.db.Exec(query, encoded, childID); err != nil {
		return fmt.Errorf("failed to record played puzzle: %w", err)
	}
	return nil
}

// Delete removes a child profile and, via cascade, its sessions.
func (r *ChildRepository) Delete(childID int64) error {
	query := "DELETE FROM children WHERE id = ?"
	if _, err := r.db.Exec(query, childID); err != nil {
		return fmt.Errorf("failed to delete child: %w", err)
	}
	return nil
}
