package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleCivilian   Role = "civilian"
	RoleUndercover Role = "undercover"
	RoleMrWhite    Role = "mrwhite"
)

type Player struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoomID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_players_room_guest"`
	GuestID    string    `gorm:"not null;uniqueIndex:idx_players_room_guest"`
	Name       string    `gorm:"size:64;not null"`
	IsHost     bool      `gorm:"not null;default:false"`
	IsAlive    bool      `gorm:"not null;default:true"`
	Role       *Role     `gorm:"size:16"`
	Word       *string
	LastSeenAt *time.Time
	CreatedAt  time.Time
}

func (p *Player) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// HasRole is nil-safe.
func (p *Player) HasRole(role Role) bool {
	return p.Role != nil && *p.Role == role
}
