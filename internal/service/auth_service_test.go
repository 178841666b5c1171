package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rafael/central-backend/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenAuthService(secret string) *AuthService {
	cfg := &config.Config{JWTSecret: secret, JWTExpirationHours: 1}
	return NewAuthService(nil, nil, nil, nil, cfg, zerolog.Nop())
}

func hs256Token(t *testing.T, secret string, subjectID uuid.UUID, expiresAt time.Time) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":   subjectID.String(),
		"email": "subject@example.com",
		"iat":   time.Now().Unix(),
		"exp":   expiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuthService_ValidateToken(t *testing.T) {
	const secret = "unit-test-secret"
	svc := tokenAuthService(secret)
	subjectID := uuid.New()

	t.Run("valid token", func(t *testing.T) {
		token, err := signToken(secret, subjectID, "subject@example.com", time.Hour)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, subjectID, claims.SubjectID)
		assert.Equal(t, "subject@example.com", claims.Email)
	})

	// Every verification failure collapses to the same error so the
	// response never reveals why the token was rejected
	failures := []struct {
		name  string
		token string
	}{
		{
			name:  "malformed token",
			token: "this.is.garbage",
		},
		{
			name:  "wrong signing secret",
			token: hs256Token(t, "some-other-secret", subjectID, time.Now().Add(time.Hour)),
		},
		{
			name:  "expired token",
			token: hs256Token(t, secret, subjectID, time.Now().Add(-time.Minute)),
		},
		{
			name: "unexpected signing method",
			token: func() string {
				claims := jwt.MapClaims{"sub": subjectID.String()}
				signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
					SignedString(jwt.UnsafeAllowNoneSignatureType)
				require.NoError(t, err)
				return signed
			}(),
		},
		{
			name: "valid signature without a subject",
			token: func() string {
				claims := jwt.MapClaims{"email": "subject@example.com"}
				signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
					SignedString([]byte(secret))
				require.NoError(t, err)
				return signed
			}(),
		},
	}

	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateToken(tt.token)
			assert.Nil(t, claims)
			assert.Equal(t, ErrInvalidToken, err)
		})
	}
}
