package game

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/thereayou/undercover/internal/database"
	"github.com/thereayou/undercover/internal/models"
)

// CreateRoom opens a lobby with the caller as its host.
func (e *Engine) CreateRoom(ctx context.Context, guestID, name string) (*models.Room, *models.Player, error) {
	if err := requireGuest(guestID); err != nil {
		return nil, nil, err
	}
	name, err := validateName(name)
	if err != nil {
		return nil, nil, err
	}

	for attempt := 0; attempt < roomCodeAttempts; attempt++ {
		code, err := e.codes()
		if err != nil {
			return nil, nil, fail("ROOM_CODE_FAILED", err)
		}
		if !ValidRoomCode(code) {
			continue
		}
		taken, err := e.db.RoomCodeExists(ctx, code)
		if err != nil {
			return nil, nil, fail("ROOM_CREATE_FAILED", err)
		}
		if taken {
			continue
		}

		now := e.now()
		room := &models.Room{Code: code, Status: models.StatusLobby, HostGuestID: guestID}
		host := &models.Player{GuestID: guestID, Name: name, IsHost: true, IsAlive: true, LastSeenAt: &now}

		err = e.db.Transaction(ctx, func(tx *database.Database) error {
			if err := tx.CreateRoom(ctx, room); err != nil {
				return err
			}
			host.RoomID = room.ID
			return tx.CreatePlayer(ctx, host)
		})
		if database.IsDuplicate(err) {
			continue
		}
		if err != nil {
			return nil, nil, fail("ROOM_CREATE_FAILED", err)
		}

		log.Info().Str("room", room.Code).Str("host", guestID).Msg("room created")
		e.bump(ctx, room)
		return room, host, nil
	}
	return nil, nil, ErrRoomCodeExhausted
}

// JoinRoom adds the caller to a lobby. A guest that is already a member gets its
// existing player back, whatever the room status.
func (e *Engine) JoinRoom(ctx context.Context, code, guestID, name string) (*models.Room, *models.Player, error) {
	if err := requireGuest(guestID); err != nil {
		return nil, nil, err
	}
	name, err := validateName(name)
	if err != nil {
		return nil, nil, err
	}
	room, err := e.prepare(ctx, code, guestID)
	if err != nil {
		return nil, nil, err
	}

	var player *models.Player
	err = e.db.Transaction(ctx, func(tx *database.Database) error {
		// held until commit, so a concurrent Start sees this player or refuses it
		current, err := tx.LockRoom(ctx, room.ID)
		if errors.Is(err, database.ErrNotFound) {
			return ErrRoomNotFound
		}
		if err != nil {
			return err
		}

		existing, err := loadMember(ctx, tx, current, guestID)
		if err == nil {
			player = existing
			return nil
		}
		if !errors.Is(err, ErrNotInRoom) {
			return err
		}

		if current.Status != models.StatusLobby {
			return ErrRoomNotJoinable
		}

		now := e.now()
		player = &models.Player{RoomID: room.ID, GuestID: guestID, Name: name, IsAlive: true, LastSeenAt: &now}
		return tx.CreatePlayer(ctx, player)
	})
	if database.IsDuplicate(err) {
		// a concurrent join for the same guest won
		player, err = loadMember(ctx, e.db, room, guestID)
	}
	if err != nil {
		return nil, nil, fail("ROOM_JOIN_FAILED", err)
	}

	log.Info().Str("room", room.Code).Str("guest", guestID).Msg("player joined")
	e.bump(ctx, room)
	return room, player, nil
}

// LeaveRoom removes the caller. The last player out deletes the room.
// Leaving a room that does not exist, or one the guest is not in, is a no-op.
func (e *Engine) LeaveRoom(ctx context.Context, code, guestID string) error {
	if err := requireGuest(guestID); err != nil {
		return err
	}
	room, err := loadRoom(ctx, e.db, code)
	if errors.Is(err, ErrRoomNotFound) {
		return nil
	}
	if err != nil {
		return fail("ROOM_LEAVE_FAILED", err)
	}

	var removed, deleted bool
	err = e.db.Transaction(ctx, func(tx *database.Database) error {
		current, err := tx.LockRoom(ctx, room.ID)
		if errors.Is(err, database.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if removed, err = tx.RemovePlayer(ctx, room.ID, guestID); err != nil || !removed {
			return err
		}

		left, err := tx.CountPlayers(ctx, room.ID)
		if err != nil {
			return err
		}
		if left == 0 {
			deleted = true
			return tx.DeleteRoom(ctx, room.ID)
		}

		if current.Status.Ended() {
			return nil
		}
		alive, err := tx.CountAlivePlayers(ctx, room.ID)
		if err != nil {
			return err
		}
		if err := clampQuotas(ctx, tx, current, alive); err != nil {
			return err
		}
		if current.Status != models.StatusInGame {
			return nil
		}

		// the leaver may have been the last missing vote
		round, err := loadCurrentRound(ctx, tx, current)
		if errors.Is(err, ErrRoundNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		_, err = e.resolveVotes(ctx, tx, current, round)
		return err
	})
	if err != nil {
		return fail("ROOM_LEAVE_FAILED", err)
	}
	if !removed {
		return nil
	}

	log.Info().Str("room", room.Code).Str("guest", guestID).Bool("roomDeleted", deleted).Msg("player left")
	if deleted {
		if e.revisions != nil {
			if err := e.revisions.Forget(ctx, room.ID); err != nil {
				log.Warn().Err(err).Str("room", room.Code).Msg("forgetting state revision")
			}
		}
		return nil
	}

	if _, err := e.EnsureHost(ctx, room); err != nil {
		return err
	}
	e.bump(ctx, room)
	return nil
}

// clampQuotas keeps undercover+mrwhite below the alive count of a room that is
// still open or in play, dropping Mr. White seats before undercover ones.
// room is updated in place so later steps of the same transaction see the new quotas.
func clampQuotas(ctx context.Context, tx *database.Database, room *models.Room, alive int) error {
	undercover, mrwhite := room.UndercoverCount, room.MrWhiteCount
	if undercover+mrwhite < alive || undercover+mrwhite == 0 {
		return nil
	}
	limit := max(alive-1, 0)
	for undercover+mrwhite > limit && mrwhite > 0 {
		mrwhite--
	}
	for undercover+mrwhite > limit && undercover > 0 {
		undercover--
	}
	if err := tx.UpdateRoleQuotas(ctx, room.ID, undercover, mrwhite); err != nil {
		return err
	}
	log.Info().Str("room", room.Code).Int("undercover", undercover).Int("mrwhite", mrwhite).Msg("role quotas clamped")
	room.UndercoverCount, room.MrWhiteCount = undercover, mrwhite
	return nil
}

// EndRoom deletes the room and everything in it. Host only.
func (e *Engine) EndRoom(ctx context.Context, code, guestID string) error {
	room, err := e.prepare(ctx, code, guestID)
	if err != nil {
		return err
	}

	err = e.db.Transaction(ctx, func(tx *database.Database) error {
		current, err := tx.LockRoom(ctx, room.ID)
		if errors.Is(err, database.ErrNotFound) {
			return ErrRoomNotFound
		}
		if err != nil {
			return err
		}
		if err := requireHost(current, guestID); err != nil {
			return err
		}
		return tx.DeleteRoom(ctx, room.ID)
	})
	if err != nil {
		return fail("ROOM_END_FAILED", err)
	}

	log.Info().Str("room", room.Code).Msg("room ended")
	if e.revisions != nil {
		if err := e.revisions.Forget(ctx, room.ID); err != nil {
			log.Warn().Err(err).Str("room", room.Code).Msg("forgetting state revision")
		}
	}
	return nil
}

// SetRoleQuotas changes how many undercover and Mr. White seats the next deal uses.
func (e *Engine) SetRoleQuotas(ctx context.Context, code, guestID string, undercover, mrwhite int) error {
	if undercover < 0 {
		return ErrUndercoverCountInvalid
	}
	if mrwhite < 0 {
		return ErrMrWhiteCountInvalid
	}
	room, err := e.prepare(ctx, code, guestID)
	if err != nil {
		return err
	}

	err = e.db.Transaction(ctx, func(tx *database.Database) error {
		current, err := tx.LockRoom(ctx, room.ID)
		if err != nil {
			return err
		}
		if err := requireHost(current, guestID); err != nil {
			return err
		}
		if current.Status.Ended() {
			return ErrRoomNotConfigurable
		}
		alive, err := tx.CountAlivePlayers(ctx, room.ID)
		if err != nil {
			return err
		}
		if alive == 0 {
			return ErrNoPlayers
		}
		if undercover+mrwhite >= alive {
			return ErrRoleCountsTooHigh
		}
		return tx.UpdateRoleQuotas(ctx, room.ID, undercover, mrwhite)
	})
	if err != nil {
		return fail("ROOM_CONFIG_FAILED", err)
	}

	log.Info().Str("room", room.Code).Int("undercover", undercover).Int("mrwhite", mrwhite).Msg("role quotas set")
	e.bump(ctx, room)
	return nil
}
