package repository

import (
	"database/sql"
	"fmt"

	"joyverse/internal/database"
	"joyverse/internal/models"
)

// WordListRepository handles database operations for themed puzzle word
// lists.
type WordListRepository struct {
	db *database.DB
}

// NewWordListRepository creates a new word list repository.
func NewWordListRepository(db *database.DB) *WordListRepository {
	return &WordListRepository{db: db}
}

// Upsert stores the word list for a theme and level, replacing any
// existing list for that pair.
func (r *WordListRepository) Upsert(theme string, level int, words []models.PuzzleWord) (*models.WordList, error) {
	encoded, err := encodeJSON(words)
	if err != nil {
		return nil, err
	}

	existing, err := r.GetByThemeLevel(theme, level)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		query := "UPDATE word_lists SET words = ? WHERE id = ?"
		if _, err := r.db.Exec(query, encoded, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to update word list: %w", err)
		}
		existing.Words = words
		return existing, nil
	}

	query := "INSERT INTO word_lists (theme, level, words) VALUES (?, ?, ?)"
	id, err := r.db.ExecReturningID(query, theme, level, encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to create word list: %w", err)
	}
	return &models.WordList{ID: id, Theme: theme, Level: level, Words: words}, nil
}

// GetByThemeLevel retrieves the word list for a theme and level, or nil.
func (r *WordListRepository) GetByThemeLevel(theme string, level int) (*models.WordList, error) {
	query := "SELECT id, theme, level, words FROM word_lists WHERE theme = ? AND level = ?"
	wl := &models.WordList{}
	var words sql.NullString
	err := r.db.QueryRow(query, theme, level).Scan(&wl.ID, &wl.Theme, &wl.Level, &words)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word list: %w", err)
	}
	if err := decodeJSON(words, &wl.Words); err != nil {
		return nil, err
	}
	return wl, nil
}

// ListThemes retrieves the distinct themes that have word lists.
func (r *WordListRepository) ListThemes() ([]string, error) {
	query := "SELECT DISTINCT theme FROM word_lists ORDER BY theme ASC"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query themes: %w", err)
	}
	defer rows.Close()

	var themes []string
	for rows.Next() {
		var theme string
		if err := rows.Scan(&theme); err != nil {
			return nil, fmt.Errorf("failed to scan theme: %w", err)
		}
		themes = append(themes, theme)
	}
	return themes, rows.Err()
}
