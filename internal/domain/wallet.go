package domain

import (
	"time"

	"github.com/google/uuid"
)

// Wallet is created with a zero balance when a user is approved.
type Wallet struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;uniqueIndex;not null"`
	Balance   float64   `json:"balance" gorm:"type:numeric(10,2);not null;default:0"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AffiliateLink is the referral identifier registered for an approved
// user, in the form "aff-<userId>-<unix ms>".
type AffiliateLink struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID        uuid.UUID `json:"userId" gorm:"type:uuid;uniqueIndex;not null"`
	GeneratedLink string    `json:"generatedLink" gorm:"uniqueIndex;not null"`
	CreatedAt     time.Time `json:"createdAt"`
}
