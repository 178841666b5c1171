package domain

import "github.com/google/uuid"

const (
	RoleAdmin  = "Admin"
	RoleBroker = "Broker"
)

type Role struct {
	ID   uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name string    `json:"name" gorm:"uniqueIndex;not null"`
}

type UserRole struct {
	UserID uuid.UUID `json:"userId" gorm:"type:uuid;primaryKey"`
	RoleID uuid.UUID `json:"roleId" gorm:"type:uuid;primaryKey"`
}
