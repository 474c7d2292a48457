package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"joyverse/internal/credentials"
	"joyverse/internal/models"
	"joyverse/internal/repository"
	"joyverse/internal/validation"
)

// FixedInvitationCode is the well-known signup code. Unlike issued codes
// it is reusable and never marked consumed.
const FixedInvitationCode = "joyversetherapist"

// codeRetries bounds the search for an unclaimed 6-digit therapist code.
const codeRetries = 10

// Claims is the JWT payload for a logged-in therapist.
type Claims struct {
	TherapistID int64  `json:"therapistId"`
	Username    string `json:"username"`
	jwt.RegisteredClaims
}

// AuthService handles therapist signup, login and token verification.
type AuthService struct {
	therapistRepo  *repository.TherapistRepository
	invitationRepo *repository.InvitationRepository

	jwtSecret     []byte
	tokenDuration time.Duration
}

// NewAuthService creates a new auth service.
func NewAuthService(therapistRepo *repository.TherapistRepository, invitationRepo *repository.InvitationRepository, jwtSecret string, tokenDuration time.Duration) *AuthService {
	return &AuthService{
		therapistRepo:  therapistRepo,
		invitationRepo: invitationRepo,
		jwtSecret:      []byte(jwtSecret),
		tokenDuration:  tokenDuration,
	}
}

// SignUp registers a therapist account. Registration is gated by an
// invitation code: either the fixed reusable code or a single-use issued
// one, which is consumed on success.
func (s *AuthService) SignUp(username, password, invitationCode string) (*models.Therapist, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}

	if invitationCode != FixedInvitationCode {
		inv, err := s.invitationRepo.GetByCode(invitationCode)
		if err != nil {
			return nil, fmt.Errorf("failed to check invitation: %w", err)
		}
		if inv == nil {
			return nil, ErrInvalidInvitation
		}
		if inv.IsUsed {
			return nil, ErrInvitationUsed
		}
	}

	existing, err := s.therapistRepo.GetByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing therapist: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := s.uniqueCode()
	if err != nil {
		return nil, err
	}

	if invitationCode != FixedInvitationCode {
		therapist, err := s.therapistRepo.CreateWithInvitation(username, string(hash), code, invitationCode)
		if err != nil {
			return nil, fmt.Errorf("failed to create therapist: %w", err)
		}
		return therapist, nil
	}

	therapist, err := s.therapistRepo.CreateTherapist(username, string(hash), code, invitationCode)
	if err != nil {
		return nil, fmt.Errorf("failed to create therapist: %w", err)
	}
	return therapist, nil
}

// uniqueCode generates a therapist code not yet held by any account.
func (s *AuthService) uniqueCode() (string, error) {
	for i := 0; i < codeRetries; i++ {
		code, err := credentials.GenerateTherapistCode()
		if err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}
		taken, err := s.therapistRepo.CodeExists(code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", errors.New("failed to find a free therapist code")
}

// Login verifies credentials and returns the therapist with a signed token.
func (s *AuthService) Login(username, password string) (*models.Therapist, string, error) {
	therapist, err := s.therapistRepo.GetByUsername(username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get therapist: %w", err)
	}
	if therapist == nil {
		return nil, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(therapist.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(therapist)
	if err != nil {
		return nil, "", err
	}
	return therapist, token, nil
}

func (s *AuthService) issueToken(t *models.Therapist) (string, error) {
	now := time.Now()
	claims := Claims{
		TherapistID: t.ID,
		Username:    t.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenDuration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses and validates a token, returning its claims.
func (s *AuthService) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ChangePassword replaces a therapist's password after verifying the old one.
func (s *AuthService) ChangePassword(therapistID int64, oldPassword, newPassword string) error {
	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}

	therapist, err := s.therapistRepo.GetByID(therapistID)
	if err != nil {
		return fmt.Errorf("failed to get therapist: %w", err)
	}
	if therapist == nil {
		return ErrTherapistNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(therapist.PasswordHash), []byte(oldPassword)) != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.therapistRepo.UpdatePassword(therapistID, string(hash))
}

// CreateInvitation issues a fresh single-use invitation code.
func (s *AuthService) CreateInvitation() (*models.Invitation, error) {
	code, err := credentials.GenerateTherapistCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invitation code: %w", err)
	}
	return s.invitationRepo.Create("inv-" + code)
}

// ListInvitations returns every issued invitation.
func (s *AuthService) ListInvitations() ([]models.Invitation, error) {
	return s.invitationRepo.List()
}

// ListTherapists returns every therapist account.
func (s *AuthService) ListTherapists() ([]models.Therapist, error) {
	return s.therapistRepo.ListAll()
}

// DeleteTherapist removes an account and all data under it.
func (s *AuthService) DeleteTherapist(id int64) error {
	return s.therapistRepo.Delete(id)
}
