package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Phase string

const (
	PhaseAssign       Phase = "assign"
	PhaseDescribe     Phase = "describe"
	PhaseMrWhiteGuess Phase = "mrwhite_guess"
	PhaseResult       Phase = "result"
	// PhaseReveal is the legacy gate between assignment and describing.
	PhaseReveal Phase = "reveal"
)

type Round struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RoomID             uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_rounds_room_number"`
	RoundNumber        int        `gorm:"not null;uniqueIndex:idx_rounds_room_number"`
	Phase              Phase      `gorm:"size:32;not null"`
	EliminatedPlayerID *uuid.UUID `gorm:"type:uuid"`
	Tied               bool       `gorm:"not null;default:false"`
	CreatedAt          time.Time
}

func (r *Round) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
