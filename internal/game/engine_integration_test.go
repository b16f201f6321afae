//go:build integration

package game

import (
	"context"
	"fmt"
	"sync"
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

func postgresDB(t *testing.T) *database.Database {
	t.Helper()
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
	return db
}

func TestConcurrentPostgres(t *testing.T) {
	db := postgresDB(t)

	t.Run("simultaneous last votes resolve the round", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			f := newFixtureOn(t, db)
			code := f.lobby(6)
			f.deal(code, 1, 0)

			target := f.withRole(code, models.RoleCivilian)[0]
			other := f.withRole(code, models.RoleUndercover)[0]

			players := f.players(code)
			outcomes := make([]*VoteOutcome, len(players))
			errs := make([]error, len(players))
			var wg sync.WaitGroup
			for j, p := range players {
				choice := target.ID
				if p.ID == target.ID {
					choice = other.ID
				}
				wg.Add(1)
				go func(j int, guestID, choice string) {
					defer wg.Done()
					outcomes[j], errs[j] = f.engine.CastVote(f.ctx, code, guestID, choice)
				}(j, p.GuestID, choice.String())
			}
			wg.Wait()

			resolved := 0
			for j := range players {
				require.NoError(t, errs[j])
				if outcomes[j].Resolved {
					resolved++
				}
			}
			assert.Equal(t, 1, resolved)
			assert.NotEqual(t, models.PhaseDescribe, f.round(code).Phase)
		}
	})

	t.Run("joins racing a start never miss the deal", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			f := newFixtureOn(t, db)
			code := f.lobby(3)

			var wg sync.WaitGroup
			var startErr, assignErr error
			joinErrs := make([]error, 4)
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, startErr = f.engine.Start(f.ctx, code, "g0"); startErr == nil {
					assignErr = f.engine.AssignRoles(f.ctx, code, "g0")
				}
			}()
			for j := range joinErrs {
				wg.Add(1)
				go func(j int) {
					defer wg.Done()
					_, _, joinErrs[j] = f.engine.JoinRoom(f.ctx, code, fmt.Sprintf("late%d", j), fmt.Sprintf("Late %d", j))
				}(j)
			}
			wg.Wait()

			require.NoError(t, startErr)
			require.NoError(t, assignErr)
			for _, err := range joinErrs {
				if err != nil {
					assert.ErrorIs(t, err, ErrRoomNotJoinable)
				}
			}
			for _, p := range f.players(code) {
				assert.NotNil(t, p.Role, "player %s has no role", p.GuestID)
			}
		}
	})
}
