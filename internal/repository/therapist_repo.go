package repository

import (
	"database/sql"
	"fmt"
	"time"

	"joyverse/internal/database"
	"joyverse/internal/models"
)

// TherapistRepository handles database operations for therapist accounts.
type TherapistRepository struct {
	db *database.DB
}

// NewTherapistRepository creates a new therapist repository.
func NewTherapistRepository(db *database.DB) *TherapistRepository {
	return &TherapistRepository{db: db}
}

// CreateTherapist creates a new therapist account.
func (r *TherapistRepository) CreateTherapist(username, passwordHash, code, invitationCode string) (*models.Therapist, error) {
	query := `INSERT INTO therapists (username, password_hash, code, invitation_code_used, created_at)
		VALUES (?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	id, err := r.db.ExecReturningID(query, username, passwordHash, code, invitationCode, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create therapist: %w", err)
	}

	return &models.Therapist{
		ID:                 id,
		Username:           username,
		PasswordHash:       passwordHash,
		Code:               code,
		InvitationCodeUsed: invitationCode,
		CreatedAt:          now,
	}, nil
}

// CreateWithInvitation creates a therapist and consumes the single-use
// invitation that gated the signup, atomically. Neither side survives
// without the other.
func (r *TherapistRepository) CreateWithInvitation(username, passwordHash, code, invitationCode string) (*models.Therapist, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	id, err := tx.ExecReturningID(
		`INSERT INTO therapists (username, password_hash, code, invitation_code_used, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		username, passwordHash, code, invitationCode, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create therapist: %w", err)
	}

	if _, err := tx.Exec(
		"UPDATE invitations SET is_used = ?, used_by = ?, used_at = ? WHERE code = ?",
		true, username, now, invitationCode); err != nil {
		return nil, fmt.Errorf("failed to consume invitation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit signup: %w", err)
	}

	return &models.Therapist{
		ID:                 id,
		Username:           username,
		PasswordHash:       passwordHash,
		Code:               code,
		InvitationCodeUsed: invitationCode,
		CreatedAt:          now,
	}, nil
}

const therapistColumns = "id, username, password_hash, code, invitation_code_used, created_at"

func scanTherapist(row *sql.Row) (*models.Therapist, error) {
	t := &models.Therapist{}
	err := row.Scan(&t.ID, &t.Username, &t.PasswordHash, &t.Code, &t.InvitationCodeUsed, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get therapist: %w", err)
	}
	return t, nil
}

// GetByUsername retrieves a therapist by username, or nil when absent.
func (r *TherapistRepository) GetByUsername(username string) (*models.Therapist, error) {
	query := "SELECT " + therapistColumns + " FROM therapists WHERE username = ?"
	return scanTherapist(r.db.QueryRow(query, username))
}

// GetByID retrieves a therapist by ID, or nil when absent.
func (r *TherapistRepository) GetByID(id int64) (*models.Therapist, error) {
	query := "SELECT " + therapistColumns + " FROM therapists WHERE id = ?"
	return scanTherapist(r.db.QueryRow(query, id))
}

// GetByCode retrieves a therapist by its 6-digit code, or nil when absent.
func (r *TherapistRepository) GetByCode(code string) (*models.Therapist, error) {
	query := "SELECT " + therapistColumns + " FROM therapists WHERE code = ?"
	return scanTherapist(r.db.QueryRow(query, code))
}

// CodeExists reports whether any therapist already holds the given code.
func (r *TherapistRepository) CodeExists(code string) (bool, error) {
	var n int
	query := "SELECT COUNT(*) FROM therapists WHERE code = ?"
	if err := r.db.QueryRow(query, code).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check code: %w", err)
	}
	return n > 0, nil
}

// UpdatePassword replaces a therapist's password hash.
func (r *TherapistRepository) UpdatePassword(id int64, passwordHash string) error {
	query := "UPDATE therapists SET password_hash = ? WHERE id = ?"
	if _, err := r.db.Exec(query, passwordHash, id); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// ListAll retrieves every therapist account, oldest first.
func (r *TherapistRepository) ListAll() ([]models.Therapist, error) {
	query := "SELECT " + therapistColumns + " FROM therapists ORDER BY created_at ASC"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query therapists: %w", err)
	}
	defer rows.Close()

	var therapists []models.Therapist
	for rows.Next() {
		var t models.Therapist
		if err := rows.Scan(&t.ID, &t.Username, &t.PasswordHash, &t.Code, &t.InvitationCodeUsed, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan therapist: %w", err)
		}
		therapists = append(therapists, t)
	}
	return therapists, rows.Err()
}

// Delete removes a therapist account. Children and sessions are removed by
// the schema's ON DELETE CASCADE.
func (r *TherapistRepository) Delete(id int64) error {
	query := "DELETE FROM therapists WHERE id = ?"
	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete therapist: %w", err)
	}
	return nil
}
