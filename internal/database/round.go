package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/thereayou/undercover/internal/models"
)

func (d *Database) CreateRound(ctx context.Context, round *models.Round) error {
	return translate(d.with(ctx).Create(round).Error)
}

func (d *Database) GetRound(ctx context.Context, id uuid.UUID) (*models.Round, error) {
	var round models.Round
	if err := d.with(ctx).First(&round, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &round, nil
}

// GetCurrentRound follows the room's CurrentRoundID pointer.
func (d *Database) GetCurrentRound(ctx context.Context, room *models.Room) (*models.Round, error) {
	if room.CurrentRoundID == nil {
		return nil, ErrNotFound
	}
	return d.GetRound(ctx, *room.CurrentRoundID)
}

// TransitionRound applies updates only while the round is still in phase from.
// A false result means another request already moved the round on.
func (d *Database) TransitionRound(ctx context.Context, roundID uuid.UUID, from models.Phase, updates map[string]any) (bool, error) {
	res := d.with(ctx).Model(&models.Round{}).
		Where("id = ? AND phase = ?", roundID, from).
		Updates(updates)
	return res.RowsAffected == 1, res.Error
}
