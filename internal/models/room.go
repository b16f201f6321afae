package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoomStatus string

const (
	StatusLobby                  RoomStatus = "lobby"
	StatusInGame                 RoomStatus = "in_game"
	StatusEndedCivilian          RoomStatus = "ended_civilian"
	StatusEndedUndercover        RoomStatus = "ended_undercover"
	StatusEndedUndercoverMrWhite RoomStatus = "ended_undercover_mrwhite"
	StatusEndedMrWhite           RoomStatus = "ended_mrwhite"
)

// Ended reports whether the status is one of the terminal outcomes.
func (s RoomStatus) Ended() bool {
	switch s {
	case StatusEndedCivilian, StatusEndedUndercover, StatusEndedUndercoverMrWhite, StatusEndedMrWhite:
		return true
	}
	return false
}

type Room struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Code            string     `gorm:"size:6;uniqueIndex;not null"`
	Status          RoomStatus `gorm:"size:32;not null;default:'lobby'"`
	HostGuestID     string     `gorm:"not null"`
	HostVersion     int        `gorm:"not null;default:0"`
	UndercoverCount int        `gorm:"not null;default:0"`
	MrWhiteCount    int        `gorm:"not null;default:0"`
	CurrentRoundID  *uuid.UUID `gorm:"type:uuid"`
	CivilianWord    string
	UndercoverWord  string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Связи
	Players []Player `gorm:"foreignKey:RoomID"`
	Rounds  []Round  `gorm:"foreignKey:RoomID"`
}

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
