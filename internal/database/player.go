package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/undercover/internal/models"
)

func (d *Database) CreatePlayer(ctx context.Context, player *models.Player) error {
	return translate(d.with(ctx).Create(player).Error)
}

func (d *Database) GetPlayerByGuest(ctx context.Context, roomID uuid.UUID, guestID string) (*models.Player, error) {
	var player models.Player
	err := d.with(ctx).
		Where("room_id = ? AND guest_id = ?", roomID, guestID).
		First(&player).Error
	if err != nil {
		return nil, translate(err)
	}
	return &player, nil
}

func (d *Database) GetPlayer(ctx context.Context, roomID, playerID uuid.UUID) (*models.Player, error) {
	var player models.Player
	err := d.with(ctx).
		Where("room_id = ? AND id = ?", roomID, playerID).
		First(&player).Error
	if err != nil {
		return nil, translate(err)
	}
	return &player, nil
}

// GetRoomPlayers возвращает игроков комнаты в порядке входа
func (d *Database) GetRoomPlayers(ctx context.Context, roomID uuid.UUID) ([]models.Player, error) {
	var players []models.Player
	err := d.with(ctx).
		Where("room_id = ?", roomID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&players).Error
	return players, err
}

func (d *Database) GetAlivePlayers(ctx context.Context, roomID uuid.UUID) ([]models.Player, error) {
	var players []models.Player
	err := d.with(ctx).
		Where("room_id = ? AND is_alive = ?", roomID, true).
		Order("created_at ASC").
		Order("id ASC").
		Find(&players).Error
	return players, err
}

func (d *Database) CountPlayers(ctx context.Context, roomID uuid.UUID) (int, error) {
	var n int64
	err := d.with(ctx).Model(&models.Player{}).Where("room_id = ?", roomID).Count(&n).Error
	return int(n), err
}

func (d *Database) CountAlivePlayers(ctx context.Context, roomID uuid.UUID) (int, error) {
	var n int64
	err := d.with(ctx).Model(&models.Player{}).
		Where("room_id = ? AND is_alive = ?", roomID, true).
		Count(&n).Error
	return int(n), err
}

// TouchPlayer records liveness; it reports false when the guest is not in the room.
func (d *Database) TouchPlayer(ctx context.Context, roomID uuid.UUID, guestID string, at time.Time) (bool, error) {
	res := d.with(ctx).Model(&models.Player{}).
		Where("room_id = ? AND guest_id = ?", roomID, guestID).
		Update("last_seen_at", at)
	return res.RowsAffected > 0, res.Error
}

func (d *Database) AssignRole(ctx context.Context, playerID uuid.UUID, role models.Role, word *string) error {
	return d.with(ctx).Model(&models.Player{}).Where("id = ?", playerID).Updates(map[string]any{
		"role": role,
		"word": word,
	}).Error
}

// EliminatePlayer marks an alive player dead; false means it was already eliminated.
func (d *Database) EliminatePlayer(ctx context.Context, playerID uuid.UUID) (bool, error) {
	res := d.with(ctx).Model(&models.Player{}).
		Where("id = ? AND is_alive = ?", playerID, true).
		Update("is_alive", false)
	return res.RowsAffected == 1, res.Error
}

// RemovePlayer deletes the guest's player row with its votes and ready marks, and any vote cast against it.
func (d *Database) RemovePlayer(ctx context.Context, roomID uuid.UUID, guestID string) (bool, error) {
	player, err := d.GetPlayerByGuest(ctx, roomID, guestID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	db := d.with(ctx)
	if err := db.Delete(&models.Vote{}, "room_id = ? AND (voter_guest_id = ? OR target_player_id = ?)", roomID, guestID, player.ID).Error; err != nil {
		return false, err
	}
	if err := db.Delete(&models.ReadyMark{}, "room_id = ? AND guest_id = ?", roomID, guestID).Error; err != nil {
		return false, err
	}
	if err := db.Delete(&models.Player{}, "id = ?", player.ID).Error; err != nil {
		return false, err
	}
	return true, nil
}
