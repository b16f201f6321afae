package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Vote struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoomID         uuid.UUID `gorm:"type:uuid;not null;index"`
	RoundID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_votes_round_voter"`
	VoterGuestID   string    `gorm:"not null;uniqueIndex:idx_votes_round_voter"`
	TargetPlayerID uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// ReadyMark gates the legacy reveal phase.
type ReadyMark struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoomID    uuid.UUID `gorm:"type:uuid;not null;index"`
	RoundID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_readies_round_guest"`
	GuestID   string    `gorm:"not null;uniqueIndex:idx_readies_round_guest"`
	CreatedAt time.Time
}

func (ReadyMark) TableName() string {
	return "readies"
}

func (m *ReadyMark) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
