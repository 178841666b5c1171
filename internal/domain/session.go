package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserSession is the server-side ledger entry for an issued token.
// A session is valid only while IsActive is true and the token itself
// still verifies; flipping IsActive revokes a not-yet-expired token.
type UserSession struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID  `json:"userId" gorm:"type:uuid;not null;index"`
	Token     string     `json:"-" gorm:"not null;index"`
	IPAddress string     `json:"ipAddress" gorm:"not null"`
	UserAgent string     `json:"userAgent" gorm:"not null"`
	StartedAt time.Time  `json:"startedAt" gorm:"not null"`
	EndedAt   *time.Time `json:"endedAt"`
	IsActive  bool       `json:"isActive" gorm:"not null;default:true"`
}
