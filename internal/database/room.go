package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/thereayou/undercover/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (d *Database) CreateRoom(ctx context.Context, room *models.Room) error {
	return translate(d.with(ctx).Create(room).Error)
}

func (d *Database) GetRoomByCode(ctx context.Context, code string) (*models.Room, error) {
	var room models.Room
	if err := d.with(ctx).First(&room, "code = ?", code).Error; err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

func (d *Database) GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	var room models.Room
	if err := d.with(ctx).First(&room, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

// LockRoom reads the room with a row lock held until the surrounding transaction ends.
// Every transaction that mutates a room takes this lock first, so writers of one room
// run one after another and each sees what the previous one committed.
// sqlite has no row locks; its single writer gives the same ordering.
func (d *Database) LockRoom(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	var room models.Room
	err := d.with(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&room, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

func (d *Database) RoomCodeExists(ctx context.Context, code string) (bool, error) {
	var n int64
	err := d.with(ctx).Model(&models.Room{}).Where("code = ?", code).Count(&n).Error
	return n > 0, err
}

// SwapRoomStatus moves the room from one status to another only if it is still in from.
func (d *Database) SwapRoomStatus(ctx context.Context, roomID uuid.UUID, from, to models.RoomStatus) (bool, error) {
	res := d.with(ctx).Model(&models.Room{}).
		Where("id = ? AND status = ?", roomID, from).
		Update("status", to)
	return res.RowsAffected == 1, res.Error
}

func (d *Database) UpdateRoleQuotas(ctx context.Context, roomID uuid.UUID, undercover, mrwhite int) error {
	return d.with(ctx).Model(&models.Room{}).Where("id = ?", roomID).Updates(map[string]any{
		"undercover_count": undercover,
		"mr_white_count":   mrwhite,
	}).Error
}

func (d *Database) UpdateWordPair(ctx context.Context, roomID uuid.UUID, civilian, undercover string) error {
	return d.with(ctx).Model(&models.Room{}).Where("id = ?", roomID).Updates(map[string]any{
		"civilian_word":   civilian,
		"undercover_word": undercover,
	}).Error
}

func (d *Database) SetCurrentRound(ctx context.Context, roomID uuid.UUID, roundID *uuid.UUID) error {
	return d.with(ctx).Model(&models.Room{}).Where("id = ?", roomID).Update("current_round_id", roundID).Error
}

// SwapHost reassigns the host only if the room still has the observed host, bumping HostVersion.
// Player IsHost flags are rewritten in the same call when the swap wins.
func (d *Database) SwapHost(ctx context.Context, roomID uuid.UUID, observed, next string) (bool, error) {
	res := d.with(ctx).Model(&models.Room{}).
		Where("id = ? AND host_guest_id = ?", roomID, observed).
		Updates(map[string]any{
			"host_guest_id": next,
			"host_version":  gorm.Expr("host_version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected != 1 {
		return false, nil
	}

	if err := d.with(ctx).Model(&models.Player{}).
		Where("room_id = ?", roomID).
		Update("is_host", false).Error; err != nil {
		return false, err
	}
	if err := d.with(ctx).Model(&models.Player{}).
		Where("room_id = ? AND guest_id = ?", roomID, next).
		Update("is_host", true).Error; err != nil {
		return false, err
	}
	return true, nil
}

// ResetRoom brings a room back to the lobby: rounds, votes and ready marks are dropped and
// every player is revived without a role.
func (d *Database) ResetRoom(ctx context.Context, roomID uuid.UUID) error {
	db := d.with(ctx)
	if err := db.Delete(&models.Vote{}, "room_id = ?", roomID).Error; err != nil {
		return err
	}
	if err := db.Delete(&models.ReadyMark{}, "room_id = ?", roomID).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Room{}).Where("id = ?", roomID).Updates(map[string]any{
		"status":           models.StatusLobby,
		"current_round_id": nil,
		"civilian_word":    "",
		"undercover_word":  "",
	}).Error; err != nil {
		return err
	}
	if err := db.Delete(&models.Round{}, "room_id = ?", roomID).Error; err != nil {
		return err
	}
	return db.Model(&models.Player{}).Where("room_id = ?", roomID).Updates(map[string]any{
		"is_alive": true,
		"role":     nil,
		"word":     nil,
	}).Error
}

// DeleteRoom removes the room and everything it owns.
func (d *Database) DeleteRoom(ctx context.Context, roomID uuid.UUID) error {
	db := d.with(ctx)
	if err := db.Delete(&models.Vote{}, "room_id = ?", roomID).Error; err != nil {
		return err
	}
	if err := db.Delete(&models.ReadyMark{}, "room_id = ?", roomID).Error; err != nil {
		return err
	}
	if err := db.Delete(&models.Round{}, "room_id = ?", roomID).Error; err != nil {
		return err
	}
	if err := db.Delete(&models.Player{}, "room_id = ?", roomID).Error; err != nil {
		return err
	}
	return db.Delete(&models.Room{}, "id = ?", roomID).Error
}
