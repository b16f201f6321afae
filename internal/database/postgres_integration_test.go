//go:build integration

package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/thereayou/undercover/internal/database"
	"github.com/thereayou/undercover/internal/models"
)

func TestPostgres(t *testing.T) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("undercover"),
		postgres.WithUsername("undercover"),
		postgres.WithPassword("undercover"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Connect(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Ping())

	room, players := seed(t, db)

	t.Run("duplicate code maps to ErrDuplicate", func(t *testing.T) {
		err := db.CreateRoom(ctx, &models.Room{Code: room.Code, HostGuestID: "x"})
		assert.ErrorIs(t, err, database.ErrDuplicate)
	})

	t.Run("vote upsert", func(t *testing.T) {
		round := &models.Round{RoomID: room.ID, RoundNumber: 1, Phase: models.PhaseDescribe}
		require.NoError(t, db.CreateRound(ctx, round))

		for _, target := range players[1:] {
			require.NoError(t, db.UpsertVote(ctx, &models.Vote{RoomID: room.ID, RoundID: round.ID, VoterGuestID: "g0", TargetPlayerID: target.ID}))
		}
		votes, err := db.GetRoundVotes(ctx, round.ID)
		require.NoError(t, err)
		require.Len(t, votes, 1)
		assert.Equal(t, players[2].ID, votes[0].TargetPlayerID)
	})

	t.Run("failed transaction rolls back", func(t *testing.T) {
		err := db.Transaction(ctx, func(tx *database.Database) error {
			if _, err := tx.SwapRoomStatus(ctx, room.ID, models.StatusLobby, models.StatusInGame); err != nil {
				return err
			}
			return tx.CreateRound(ctx, &models.Round{RoomID: room.ID, RoundNumber: 1, Phase: models.PhaseAssign})
		})
		assert.ErrorIs(t, err, database.ErrDuplicate)

		got, err := db.GetRoom(ctx, room.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusLobby, got.Status)
	})

	t.Run("delete room", func(t *testing.T) {
		require.NoError(t, db.Transaction(ctx, func(tx *database.Database) error {
			return tx.DeleteRoom(ctx, room.ID)
		}))
		_, err := db.GetRoom(ctx, room.ID)
		assert.ErrorIs(t, err, database.ErrNotFound)
	})
}
