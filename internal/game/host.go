package game

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/thereayou/undercover/internal/database"
	"github.com/thereayou/undercover/internal/models"
)

// DefaultHostTimeout is how long a host may go without a liveness ping.
const DefaultHostTimeout = 30 * time.Second

type Handover struct {
	Changed        bool   `json:"changed"`
	NewHostGuestID string `json:"newHostGuestId,omitempty"`
}

// HostIsStale reports whether p can no longer act as host. A nil player is stale.
func HostIsStale(p *models.Player, now time.Time, timeout time.Duration) bool {
	if p == nil || !p.IsAlive || p.LastSeenAt == nil {
		return true
	}
	return now.Sub(*p.LastSeenAt) > timeout
}

// PickHostCandidate returns the fresh alive player seen most recently, or nil.
// Equal timestamps fall back to join order, then id.
func PickHostCandidate(players []models.Player, now time.Time, timeout time.Duration) *models.Player {
	var best *models.Player
	for i := range players {
		p := &players[i]
		if HostIsStale(p, now, timeout) {
			continue
		}
		if best == nil || fresher(p, best) {
			best = p
		}
	}
	return best
}

func fresher(a, b *models.Player) bool {
	if !a.LastSeenAt.Equal(*b.LastSeenAt) {
		return a.LastSeenAt.After(*b.LastSeenAt)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}

// EnsureHost replaces a stale host. The swap is conditional on the host observed in room,
// so concurrent callers converge on a single winner and the call is safe to repeat.
// On a successful handover room is updated in place.
func (e *Engine) EnsureHost(ctx context.Context, room *models.Room) (Handover, error) {
	var handover Handover
	now := e.now()

	err := e.db.Transaction(ctx, func(tx *database.Database) error {
		players, err := tx.GetRoomPlayers(ctx, room.ID)
		if err != nil {
			return err
		}

		var host *models.Player
		for i := range players {
			if players[i].GuestID == room.HostGuestID {
				host = &players[i]
				break
			}
		}
		if !HostIsStale(host, now, e.hostTimeout) {
			return nil
		}

		candidate := PickHostCandidate(players, now, e.hostTimeout)
		if candidate == nil || candidate.GuestID == room.HostGuestID {
			return nil
		}

		swapped, err := tx.SwapHost(ctx, room.ID, room.HostGuestID, candidate.GuestID)
		if err != nil || !swapped {
			return err
		}
		handover = Handover{Changed: true, NewHostGuestID: candidate.GuestID}
		return nil
	})
	if err != nil {
		return Handover{}, internalError("HOST_HANDOVER_FAILED", err)
	}

	if handover.Changed {
		log.Info().
			Str("room", room.Code).
			Str("from", room.HostGuestID).
			Str("to", handover.NewHostGuestID).
			Msg("host handed over")
		room.HostGuestID = handover.NewHostGuestID
		room.HostVersion++
		e.bump(ctx, room)
	}
	return handover, nil
}
