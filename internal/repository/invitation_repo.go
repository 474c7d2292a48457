package repository

import (
	"database/sql"
	"fmt"
	"time"

	"joyverse/internal/database"
	"joyverse/internal/models"
)

// InvitationRepository handles database operations for signup invitations.
type InvitationRepository struct {
	db *database.DB
}

// NewInvitationRepository creates a new invitation repository.
func NewInvitationRepository(db *database.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

// Create inserts a fresh unused invitation code.
func (r *InvitationRepository) Create(code string) (*models.Invitation, error) {
	query := "INSERT INTO invitations (code, is_used, created_at) VALUES (?, ?, ?)"
	now := time.Now().UTC()
	if _, err := r.db.Exec(query, code, false, now); err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}
	return &models.Invitation{Code: code, CreatedAt: now}, nil
}

// GetByCode retrieves an invitation, or nil when absent.
func (r *InvitationRepository) GetByCode(code string) (*models.Invitation, error) {
	query := "SELECT code, is_used, created_at, used_by, used_at FROM invitations WHERE code = ?"
	inv := &models.Invitation{}
	var usedBy sql.NullString
	var usedAt sql.NullTime
	err := r.db.QueryRow(query, code).Scan(&inv.Code, &inv.IsUsed, &inv.CreatedAt, &usedBy, &usedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	inv.UsedBy = usedBy.String
	if usedAt.Valid {
		t := usedAt.Time
		inv.UsedAt = &t
	}
	return inv, nil
}

// List retrieves all invitations, newest first.
func (r *InvitationRepository) List() ([]models.Invitation, error) {
	query := "SELECT code, is_used, created_at, used_by, used_at FROM invitations ORDER BY created_at DESC"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query invitations: %w", err)
	}
	defer rows.Close()

	var invitations []models.Invitation
	for rows.Next() {
		var inv models.Invitation
		var usedBy sql.NullString
		var usedAt sql.NullTime
		if err := rows.Scan(&inv.Code, &inv.IsUsed, &inv.CreatedAt, &usedBy, &usedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		inv.UsedBy = usedBy.String
		if usedAt.Valid {
			t := usedAt.Time
			inv.UsedAt = &t
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}
