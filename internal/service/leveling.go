package service

import "github.com/rafael/central-backend/internal/domain"

// MatchUserLevel picks the highest tier whose threshold the points meet.
// Levels must be sorted by required points descending. Returns nil when
// no tier matches or none are configured.
func MatchUserLevel(levels []*domain.UserLevel, points int) *domain.UserLevel {
	for _, level := range levels {
		if points >= level.RequiredPoints {
			return level
		}
	}
	return nil
}

// MatchCustomerLevel is MatchUserLevel for the customer tier table.
func MatchCustomerLevel(levels []*domain.CustomerLevel, points int) *domain.CustomerLevel {
	for _, level := range levels {
		if points >= level.RequiredPoints {
			return level
		}
	}
	return nil
}
