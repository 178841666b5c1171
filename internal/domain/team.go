package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusExpired  = "expired"
)

// InvitationTTL is how long a pending invitation stays acceptable.
const InvitationTTL = 24 * time.Hour

type Team struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OwnerUserID uuid.UUID `json:"ownerUserId" gorm:"type:uuid;uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Member struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Name         string    `json:"name" gorm:"not null"`
	Active       bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"createdAt"`
}

type TeamMember struct {
	TeamID   uuid.UUID `json:"teamId" gorm:"type:uuid;primaryKey"`
	MemberID uuid.UUID `json:"memberId" gorm:"type:uuid;primaryKey"`
	RoleID   uuid.UUID `json:"roleId" gorm:"type:uuid;not null"`
	JoinedAt time.Time `json:"joinedAt" gorm:"not null"`
}

// TeamMemberDetail joins a membership row with its member and role.
type TeamMemberDetail struct {
	TeamMember TeamMember `json:"teamMember"`
	Member     Member     `json:"member"`
	Role       Role       `json:"role"`
}

type TeamInvitation struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TeamID          uuid.UUID  `json:"teamId" gorm:"type:uuid;not null;index"`
	Email           string     `json:"email" gorm:"not null"`
	RoleID          uuid.UUID  `json:"roleId" gorm:"type:uuid;not null"`
	InvitedByUserID uuid.UUID  `json:"invitedByUserId" gorm:"type:uuid;not null"`
	Token           string     `json:"-" gorm:"uniqueIndex;not null"`
	Status          string     `json:"status" gorm:"not null"`
	CreatedAt       time.Time  `json:"createdAt"`
	AcceptedAt      *time.Time `json:"acceptedAt"`
}
