package services

import (
	"context"

	"github.com/thereayou/undercover/internal/game"
	"github.com/thereayou/undercover/internal/models"
)

// RoomService is the membership side of a room, implemented by *game.Engine.
type RoomService interface {
	CreateRoom(ctx context.Context, guestID, name string) (*models.Room, *models.Player, error)
	JoinRoom(ctx context.Context, code, guestID, name string) (*models.Room, *models.Player, error)
	LeaveRoom(ctx context.Context, code, guestID string) error
	EndRoom(ctx context.Context, code, guestID string) error
	SetRoleQuotas(ctx context.Context, code, guestID string, undercover, mrwhite int) error
}

// GameService drives rounds and reads state, implemented by *game.Engine.
type GameService interface {
	Start(ctx context.Context, code, guestID string) (*models.Round, error)
	AssignRoles(ctx context.Context, code, guestID string) error
	CastVote(ctx context.Context, code, guestID, targetPlayerID string) (*game.VoteOutcome, error)
	SubmitGuess(ctx context.Context, code, guestID, guess string) (bool, error)
	ContinueRound(ctx context.Context, code, guestID string) error
	NextRound(ctx context.Context, code, guestID string) (*models.Round, error)
	Reset(ctx context.Context, code, guestID string) error
	MarkReady(ctx context.Context, code, guestID string) error
	UnmarkReady(ctx context.Context, code, guestID string) error
	Heartbeat(ctx context.Context, code, guestID string) (game.Handover, error)
	Secret(ctx context.Context, code, guestID string) (*game.Secret, error)

	Poll(ctx context.Context, code, guestID string) (int64, error)
	Snapshot(ctx context.Context, code, guestID string) (*game.Snapshot, error)
}

var (
	_ RoomService = (*game.Engine)(nil)
	_ GameService = (*game.Engine)(nil)
)
