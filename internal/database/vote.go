package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/thereayou/undercover/internal/models"
	"gorm.io/gorm/clause"
)

// UpsertVote writes the voter's choice for the round, replacing any earlier one.
func (d *Database) UpsertVote(ctx context.Context, vote *models.Vote) error {
	return d.with(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "round_id"}, {Name: "voter_guest_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"target_player_id", "updated_at"}),
	}).Create(vote).Error
}

func (d *Database) GetRoundVotes(ctx context.Context, roundID uuid.UUID) ([]models.Vote, error) {
	var votes []models.Vote
	err := d.with(ctx).Where("round_id = ?", roundID).Order("voter_guest_id ASC").Find(&votes).Error
	return votes, err
}

func (d *Database) CountRoundVoters(ctx context.Context, roundID uuid.UUID) (int, error) {
	var n int64
	err := d.with(ctx).Model(&models.Vote{}).
		Where("round_id = ?", roundID).
		Distinct("voter_guest_id").
		Count(&n).Error
	return int(n), err
}

func (d *Database) HasVoted(ctx context.Context, roundID uuid.UUID, guestID string) (bool, error) {
	var n int64
	err := d.with(ctx).Model(&models.Vote{}).
		Where("round_id = ? AND voter_guest_id = ?", roundID, guestID).
		Count(&n).Error
	return n > 0, err
}

func (d *Database) DeleteRoundVotes(ctx context.Context, roundID uuid.UUID) error {
	return d.with(ctx).Delete(&models.Vote{}, "round_id = ?", roundID).Error
}

// MarkReady is insert-or-ignore on (round, guest).
func (d *Database) MarkReady(ctx context.Context, mark *models.ReadyMark) error {
	return d.with(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "round_id"}, {Name: "guest_id"}},
		DoNothing: true,
	}).Create(mark).Error
}

func (d *Database) UnmarkReady(ctx context.Context, roundID uuid.UUID, guestID string) error {
	return d.with(ctx).Delete(&models.ReadyMark{}, "round_id = ? AND guest_id = ?", roundID, guestID).Error
}

func (d *Database) GetRoundReadies(ctx context.Context, roundID uuid.UUID) ([]models.ReadyMark, error) {
	var marks []models.ReadyMark
	err := d.with(ctx).Where("round_id = ?", roundID).Find(&marks).Error
	return marks, err
}
