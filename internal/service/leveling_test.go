package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/rafael/central-backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func userLevels(points ...int) []*domain.UserLevel {
	// Built descending, the order the matcher expects
	levels := make([]*domain.UserLevel, len(points))
	for i, p := range points {
		levels[i] = &domain.UserLevel{ID: uuid.New(), RequiredPoints: p, LevelNumber: len(points) - i}
	}
	return levels
}

func TestMatchUserLevel(t *testing.T) {
	levels := userLevels(500, 100, 0)

	tests := []struct {
		name     string
		points   int
		expected int // index into levels, -1 for nil
	}{
		{"zero points matches lowest tier", 0, 2},
		{"just below threshold stays in lower tier", 99, 2},
		{"exact threshold matches", 100, 1},
		{"above threshold matches", 101, 1},
		{"top tier", 500, 0},
		{"far above top tier", 100000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched := MatchUserLevel(levels, tt.points)
			if tt.expected < 0 {
				assert.Nil(t, matched)
				return
			}
			assert.Equal(t, levels[tt.expected].ID, matched.ID)
		})
	}
}

func TestMatchUserLevel_NoTierReached(t *testing.T) {
	// No zero-point tier configured; below the lowest threshold nothing
	// matches and the caller keeps the current level
	levels := userLevels(500, 100)
	assert.Nil(t, MatchUserLevel(levels, 50))
}

func TestMatchUserLevel_Empty(t *testing.T) {
	assert.Nil(t, MatchUserLevel(nil, 1000))
}

func TestMatchUserLevel_Monotonic(t *testing.T) {
	// More points never map to a lower tier
	levels := userLevels(500, 100, 0)

	previous := -1
	for points := 0; points <= 600; points += 25 {
		matched := MatchUserLevel(levels, points)
		assert.NotNil(t, matched, "points=%d", points)
		assert.GreaterOrEqual(t, matched.LevelNumber, previous, "points=%d", points)
		previous = matched.LevelNumber
	}
}

func TestMatchCustomerLevel(t *testing.T) {
	levels := []*domain.CustomerLevel{
		{ID: uuid.New(), RequiredPoints: 200, LevelNumber: 3},
		{ID: uuid.New(), RequiredPoints: 50, LevelNumber: 2},
		{ID: uuid.New(), RequiredPoints: 0, LevelNumber: 1},
	}

	assert.Equal(t, 1, MatchCustomerLevel(levels, 0).LevelNumber)
	assert.Equal(t, 2, MatchCustomerLevel(levels, 50).LevelNumber)
	assert.Equal(t, 3, MatchCustomerLevel(levels, 9999).LevelNumber)
	assert.Nil(t, MatchCustomerLevel(nil, 10))
}
