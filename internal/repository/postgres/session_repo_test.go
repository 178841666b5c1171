package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rafael/central-backend/internal/domain"
	"github.com/rafael/central-backend/internal/repository/postgres"
	"github.com/rafael/central-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedSessionUser(t *testing.T, testDB *testutil.TestDB) *domain.User {
	t.Helper()
	testutil.SeedUserLevels(t, testDB.DB)
	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	return user
}

func TestSessionRepository_GetMatch(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewSessionRepository(testDB.DB)
	ctx := context.Background()

	user := seedSessionUser(t, testDB)

	session := &domain.UserSession{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     "token-abc",
		IPAddress: "10.0.0.1",
		UserAgent: "agent-one",
		StartedAt: time.Now(),
		IsActive:  false,
	}
	require.NoError(t, repo.Create(ctx, session))

	// The full (user, token, ip, ua) fingerprint matches regardless of
	// the active flag
	found, err := repo.GetMatch(ctx, user.ID, "token-abc", "10.0.0.1", "agent-one")
	require.NoError(t, err)
	assert.Equal(t, session.ID, found.ID)

	// Any differing component misses
	_, err = repo.GetMatch(ctx, user.ID, "token-abc", "10.0.0.1", "agent-two")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	_, err = repo.GetMatch(ctx, user.ID, "token-abc", "10.0.0.2", "agent-one")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	_, err = repo.GetMatch(ctx, user.ID, "other-token", "10.0.0.1", "agent-one")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestSessionRepository_GetActive(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewSessionRepository(testDB.DB)
	ctx := context.Background()

	user := seedSessionUser(t, testDB)

	active := &domain.UserSession{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     "token-active",
		IPAddress: "10.0.0.1",
		UserAgent: "agent",
		StartedAt: time.Now(),
		IsActive:  true,
	}
	require.NoError(t, repo.Create(ctx, active))

	ended := time.Now()
	closed := &domain.UserSession{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     "token-closed",
		IPAddress: "10.0.0.1",
		UserAgent: "agent",
		StartedAt: time.Now().Add(-time.Hour),
		EndedAt:   &ended,
		IsActive:  false,
	}
	require.NoError(t, repo.Create(ctx, closed))

	found, err := repo.GetActive(ctx, user.ID, "token-active")
	require.NoError(t, err)
	assert.Equal(t, active.ID, found.ID)

	// A closed session is invisible to the active lookup
	_, err = repo.GetActive(ctx, user.ID, "token-closed")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestSessionRepository_ReopenSession(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewSessionRepository(testDB.DB)
	ctx := context.Background()

	user := seedSessionUser(t, testDB)

	ended := time.Now()
	session := &domain.UserSession{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     "token-reuse",
		IPAddress: "10.0.0.1",
		UserAgent: "agent",
		StartedAt: time.Now().Add(-time.Hour),
		EndedAt:   &ended,
		IsActive:  false,
	}
	require.NoError(t, repo.Create(ctx, session))

	// Reopening clears the end marker instead of inserting a new row
	session.IsActive = true
	session.EndedAt = nil
	session.StartedAt = time.Now()
	require.NoError(t, repo.Update(ctx, session))

	var count int64
	require.NoError(t, testDB.DB.Model(&domain.UserSession{}).
		Where("user_id = ? AND token = ?", user.ID, "token-reuse").
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	found, err := repo.GetActive(ctx, user.ID, "token-reuse")
	require.NoError(t, err)
	assert.True(t, found.IsActive)
	assert.Nil(t, found.EndedAt)
}
