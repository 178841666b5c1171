package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rafael/central-backend/internal/config"
	"github.com/rafael/central-backend/internal/domain"
	"github.com/rafael/central-backend/internal/repository"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotApproved        = errors.New("user not yet approved by an administrator")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrNoActiveSession    = errors.New("no active session for token")
)

type AuthService struct {
	userRepo     repository.UserRepository
	sessionRepo  repository.SessionRepository
	approvalRepo repository.ApprovalRepository
	roleRepo     repository.RoleRepository
	cfg          *config.Config
	logger       zerolog.Logger
}

func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, approvalRepo repository.ApprovalRepository, roleRepo repository.RoleRepository, cfg *config.Config, logger zerolog.Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		approvalRepo: approvalRepo,
		roleRepo:     roleRepo,
		cfg:          cfg,
		logger:       logger.With().Str("component", "auth_service").Logger(),
	}
}

type LoginInput struct {
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

// TokenClaims is the authenticated-subject identity carried by a token.
type TokenClaims struct {
	SubjectID uuid.UUID
	Email     string
}

// Login verifies credentials and approval status, signs a token and
// records it in the session ledger. A matching inactive session row for
// the same (user, token, ip, ua) fingerprint is reopened instead of
// duplicated, so exactly one active row exists per (user, token) pair.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	approval, err := s.approvalRepo.LatestByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotApproved
		}
		return "", err
	}
	if approval.Status != domain.ApprovalStatusApproved {
		return "", ErrNotApproved
	}

	ttl := time.Duration(s.cfg.JWTExpirationHours) * time.Hour
	token, err := signToken(s.cfg.JWTSecret, user.ID, user.Email, ttl)
	if err != nil {
		return "", err
	}

	session, err := s.sessionRepo.GetMatch(ctx, user.ID, token, input.IPAddress, input.UserAgent)
	switch {
	case err == nil:
		if !session.IsActive {
			session.IsActive = true
			session.EndedAt = nil
			session.StartedAt = time.Now()
			if err := s.sessionRepo.Update(ctx, session); err != nil {
				return "", err
			}
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		session = &domain.UserSession{
			ID:        uuid.New(),
			UserID:    user.ID,
			Token:     token,
			IPAddress: input.IPAddress,
			UserAgent: input.UserAgent,
			StartedAt: time.Now(),
			IsActive:  true,
		}
		if err := s.sessionRepo.Create(ctx, session); err != nil {
			return "", err
		}
	default:
		return "", err
	}

	return token, nil
}

// Logout deactivates the active session matching the token. A second
// logout with the same token finds no active session.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, token string) error {
	session, err := s.sessionRepo.GetActive(ctx, userID, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoActiveSession
		}
		return err
	}

	now := time.Now()
	session.IsActive = false
	session.EndedAt = &now
	return s.sessionRepo.Update(ctx, session)
}

// ValidateToken verifies the token signature and expiry and extracts
// the subject. Signing methods are restricted up front so malformed or
// oversized tokens are rejected before any expensive work.
func (s *AuthService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	subjectID, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidToken
	}
	email, _ := claims["email"].(string)

	return &TokenClaims{SubjectID: subjectID, Email: email}, nil
}

// ValidateSession checks the ledger for an active record of the token,
// making logout and server-side revocation effective even for a
// not-yet-expired signed token.
func (s *AuthService) ValidateSession(ctx context.Context, userID uuid.UUID, token string) error {
	_, err := s.sessionRepo.GetActive(ctx, userID, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoActiveSession
		}
		return err
	}
	return nil
}

// HasRole reports whether the user holds the named role.
func (s *AuthService) HasRole(ctx context.Context, userID uuid.UUID, roleName string) (bool, error) {
	roles, err := s.roleRepo.ListForUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, role := range roles {
		if role.Name == roleName {
			return true, nil
		}
	}
	return false, nil
}

func signToken(secret string, subjectID uuid.UUID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subjectID.String(),
		"email": email,
		"iat":   now.Unix(),
	}
	if ttl > 0 {
		claims["exp"] = now.Add(ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
