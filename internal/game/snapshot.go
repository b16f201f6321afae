package game

import (
	"context"

	"github.com/google/uuid"
	"github.com/thereayou/undercover/internal/models"
)

type Snapshot struct {
	Room    SnapshotRoom     `json:"room"`
	Me      SnapshotMe       `json:"me"`
	Round   SnapshotRound    `json:"round"`
	Counts  SnapshotCounts   `json:"counts"`
	Flags   SnapshotFlags    `json:"flags"`
	Voting  SnapshotVoting   `json:"voting"`
	Players []SnapshotPlayer `json:"players"`
}

type SnapshotRoom struct {
	ID     uuid.UUID         `json:"id"`
	Code   string            `json:"code"`
	Status models.RoomStatus `json:"status"`
	Config RoleConfig        `json:"config"`
}

type RoleConfig struct {
	Undercover int `json:"undercover"`
	MrWhite    int `json:"mrwhite"`
	Civilian   int `json:"civilian"`
}

type SnapshotMe struct {
	PlayerID uuid.UUID `json:"playerId"`
	GuestID  string    `json:"guestId"`
	Name     string    `json:"name"`
	IsHost   bool      `json:"isHost"`
	IsAlive  bool      `json:"isAlive"`
}

type SnapshotRound struct {
	// ID is empty while the room has no round.
	ID                 string       `json:"id"`
	RoundNumber        int          `json:"roundNumber"`
	Phase              models.Phase `json:"phase"`
	EliminatedPlayerID *uuid.UUID   `json:"eliminatedPlayerId"`
}

type SnapshotCounts struct {
	Alive int `json:"alive"`
	Ready int `json:"ready"`
}

type SnapshotFlags struct {
	MeReady bool `json:"meReady"`
}

type SnapshotVoting struct {
	Votes      int             `json:"votes"`
	MeVoted    bool            `json:"meVoted"`
	Eliminated *SnapshotPlayer `json:"eliminated"`
	Tied       bool            `json:"tied"`
}

type SnapshotPlayer struct {
	ID      uuid.UUID `json:"id"`
	GuestID string    `json:"guestId"`
	Name    string    `json:"name"`
	IsHost  bool      `json:"isHost"`
	IsAlive bool      `json:"isAlive"`
	IsReady bool      `json:"isReady"`
}

// Snapshot builds the caller's view of the room. It never writes; Poll does the
// bookkeeping that should precede it.
func (e *Engine) Snapshot(ctx context.Context, code, guestID string) (*Snapshot, error) {
	if err := requireGuest(guestID); err != nil {
		return nil, err
	}
	room, err := loadRoom(ctx, e.db, code)
	if err != nil {
		return nil, fail("STATE_FAILED", err)
	}
	players, err := e.db.GetRoomPlayers(ctx, room.ID)
	if err != nil {
		return nil, fail("STATE_FAILED", err)
	}

	var me *models.Player
	alive := 0
	for i := range players {
		if players[i].GuestID == guestID {
			me = &players[i]
		}
		if players[i].IsAlive {
			alive++
		}
	}
	if me == nil {
		return nil, ErrNotInRoom
	}

	snap := &Snapshot{
		Room: SnapshotRoom{
			ID:     room.ID,
			Code:   room.Code,
			Status: room.Status,
			Config: RoleConfig{
				Undercover: room.UndercoverCount,
				MrWhite:    room.MrWhiteCount,
				Civilian:   max(0, alive-room.UndercoverCount-room.MrWhiteCount),
			},
		},
		Me: SnapshotMe{
			PlayerID: me.ID,
			GuestID:  me.GuestID,
			Name:     me.Name,
			IsHost:   me.IsHost,
			IsAlive:  me.IsAlive,
		},
		Round:   SnapshotRound{Phase: models.PhaseAssign},
		Counts:  SnapshotCounts{Alive: alive},
		Players: make([]SnapshotPlayer, len(players)),
	}

	ready := map[string]bool{}
	var round *models.Round
	if room.CurrentRoundID != nil {
		round, err = loadCurrentRound(ctx, e.db, room)
		if err != nil {
			return nil, fail("STATE_FAILED", err)
		}
		marks, err := e.db.GetRoundReadies(ctx, round.ID)
		if err != nil {
			return nil, fail("STATE_FAILED", err)
		}
		for _, m := range marks {
			ready[m.GuestID] = true
		}
	}

	for i, p := range players {
		snap.Players[i] = SnapshotPlayer{
			ID:      p.ID,
			GuestID: p.GuestID,
			Name:    p.Name,
			IsHost:  p.IsHost,
			IsAlive: p.IsAlive,
			IsReady: ready[p.GuestID],
		}
		if p.IsAlive && ready[p.GuestID] {
			snap.Counts.Ready++
		}
	}
	if round == nil {
		return snap, nil
	}

	snap.Round = SnapshotRound{
		ID:                 round.ID.String(),
		RoundNumber:        round.RoundNumber,
		Phase:              round.Phase,
		EliminatedPlayerID: round.EliminatedPlayerID,
	}
	snap.Flags.MeReady = ready[guestID]

	votes, err := e.db.GetRoundVotes(ctx, round.ID)
	if err != nil {
		return nil, fail("STATE_FAILED", err)
	}
	snap.Voting.Votes = len(votes)
	snap.Voting.Tied = round.Tied
	if snap.Voting.MeVoted, err = e.db.HasVoted(ctx, round.ID, guestID); err != nil {
		return nil, fail("STATE_FAILED", err)
	}
	if round.EliminatedPlayerID != nil {
		for i := range snap.Players {
			if snap.Players[i].ID == *round.EliminatedPlayerID {
				p := snap.Players[i]
				snap.Voting.Eliminated = &p
				break
			}
		}
	}
	return snap, nil
}
