package domain

import (
	"time"

	"github.com/google/uuid"
)

// Approval lifecycle for newly registered users. Only the latest
// approval row per user is authoritative.
const (
	ApprovalStatusPending  = "pending"
	ApprovalStatusApproved = "approved"
	ApprovalStatusRejected = "rejected"
)

type User struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name            string    `json:"name" gorm:"not null"`
	Email           string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash    string    `json:"-" gorm:"not null"`
	Document        string    `json:"document" gorm:"uniqueIndex;not null"`
	Phone           string    `json:"phone" gorm:"uniqueIndex;not null"`
	Localization    string    `json:"localization"`
	Enterprise      string    `json:"enterprise"`
	CompanyPosition string    `json:"companyPosition"`
	Website         string    `json:"website"`
	Birthday        string    `json:"birthday"`
	Bio             string    `json:"bio"`
	Points          int       `json:"points" gorm:"not null;default:0"`
	LevelID         uuid.UUID `json:"levelId" gorm:"type:uuid;not null"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type UserLevel struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name           string    `json:"name" gorm:"not null"`
	LevelNumber    int       `json:"levelNumber" gorm:"not null"`
	RequiredPoints int       `json:"requiredPoints" gorm:"not null"`
	IconURL        string    `json:"iconUrl"`
	CreatedAt      time.Time `json:"createdAt"`
}

// UserApproval records the admin approval workflow for a user account.
// A pending row is created at registration; login requires the latest
// row to be approved.
type UserApproval struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID     uuid.UUID  `json:"userId" gorm:"type:uuid;not null;index"`
	Token      string     `json:"-" gorm:"not null"`
	Status     string     `json:"status" gorm:"not null"`
	CreatedAt  time.Time  `json:"createdAt"`
	AcceptedAt *time.Time `json:"acceptedAt"`
}
