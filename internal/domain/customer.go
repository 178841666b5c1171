package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Customer struct {
	ID               uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name             string          `json:"name" gorm:"not null"`
	Email            string          `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash     string          `json:"-" gorm:"not null"`
	Document         string          `json:"document" gorm:"uniqueIndex;not null"`
	Phone            string          `json:"phone" gorm:"uniqueIndex;not null"`
	Birthday         *datatypes.Date `json:"birthday"`
	Points           int             `json:"points" gorm:"not null;default:0"`
	LevelID          uuid.UUID       `json:"levelId" gorm:"type:uuid;not null"`
	StripeCustomerID string          `json:"stripeCustomerId"`
	AffiliateUserID  *uuid.UUID      `json:"affiliateUserId" gorm:"type:uuid"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type CustomerLevel struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	LevelNumber    int       `json:"levelNumber" gorm:"not null"`
	RequiredPoints int       `json:"requiredPoints" gorm:"not null"`
	IconURL        string    `json:"iconUrl"`
	CreatedAt      time.Time `json:"createdAt"`
}
