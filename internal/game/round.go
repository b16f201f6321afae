package game

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/thereayou/undercover/internal/database"
	"github.com/thereayou/undercover/internal/models"
)

// errRoundRaced aborts a transaction that lost the race to open the next round.
var errRoundRaced = errors.New("next round already created")

type VoteOutcome struct {
	// Resolved is set only for the call whose vote completed the tally.
	Resolved           bool
	EliminatedPlayerID *uuid.UUID
	Tied               bool
	Phase              models.Phase
	Status             models.RoomStatus
}

// Secret is what a player may know about themselves.
type Secret struct {
	PlayerID uuid.UUID
	Role     models.Role
	Word     *string
}

// Start moves a lobby into play and opens round one.
func (e *Engine) Start(ctx context.Context, code, guestID string) (*models.Round, error) {
	room, err := e.prepare(ctx, code, guestID)
	if err != nil {
		return nil, err
	}

	var round *models.Round
	err = e.db.Transaction(ctx, func(tx *database.Database) error {
		current, err := tx.LockRoom(ctx, room.ID)
		if err != nil {
			return err
		}
		if current.Status != models.StatusLobby {
			return ErrRoomNotStartable
		}
		if err := requireHost(current, guestID); err != nil {
			return err
		}
		players, err := tx.CountPlayers(ctx, room.ID)
		if err != nil {
			return err
		}
		if players < MinPlayers {
			return ErrMinPlayers
		}

		swapped, err := tx.SwapRoomStatus(ctx, room.ID, models.StatusLobby, models.StatusInGame)
		if err != nil {
			return err
		}
		if !swapped {
			return ErrRoomNotStartable
		}

		round = &models.Round{RoomID: room.ID, RoundNumber: 1, Phase: models.PhaseAssign}
		if err := tx.CreateRound(ctx, round); err != nil {
			return err
		}
		return tx.SetCurrentRound(ctx, room.ID, &round.ID)
	})
	if err != nil {
		return nil, fail("GAME_START_FAILED", err)
	}

	log.Info().Str("room", room.Code).Msg("game started")
	e.bump(ctx, room)
	return round, nil
}

// AssignRoles deals roles and words to every alive player of the current round.
func (e *Engine) AssignRoles(ctx context.Context, code, guestID string) error {
	room, err := e.prepare(ctx, code, guestID)
	if err != nil {
		return err
	}

	var pair WordPair
	err = e.db.Transaction(ctx, func(tx *database.Database) error {
		current, err := tx.LockRoom(ctx, room.ID)
		if err != nil {
			return err
		}
		if err := requireHost(current, guestID); err != nil {
			return err
		}
		if err := requireInGame(current); err != nil {
			return err
		}
		round, err := loadCurrentRound(ctx, tx, current)
		if err != nil {
			return err
		}
		if round.Phase != models.PhaseAssign {
			return ErrAlreadyAssigned
		}

		alive, err := tx.GetAlivePlayers(ctx, room.ID)
		if err != nil {
			return err
		}
		ids := make([]uuid.UUID, len(alive))
		for i, p := range alive {
			ids[i] = p.ID
		}
		pair = e.words.Pick(e.rng)
		assignments, err := AssignRoles(ids, current.UndercoverCount, current.MrWhiteCount, pair, e.rng)
		if err != nil {
			return err
		}

		moved, err := tx.TransitionRound(ctx, round.ID, models.PhaseAssign, map[string]any{"phase": e.describePhase()})
		if err != nil {
			return err
		}
		if !moved {
			return ErrAlreadyAssigned
		}
		for _, a := range assignments {
			if err := tx.AssignRole(ctx, a.PlayerID, a.Role, a.Word); err != nil {
				return err
			}
		}
		return tx.UpdateWordPair(ctx, room.ID, pair.Common, pair.Undercover)
	})
	if err != nil {
		return fail("ROLE_ASSIGN_FAILED", err)
	}

	log.Info().Str("room", room.Code).Msg("roles assigned")
	e.bump(ctx, room)
	return nil
}

// CastVote records or replaces the caller's vote and resolves the round once
// every alive player has voted.
func (e *Engine) CastVote(ctx context.Context, code, guestID, targetPlayerID string) (*VoteOutcome, error) {
	if err := requireGuest(guestID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(targetPlayerID) == "" {
		return nil, ErrTargetRequired
	}
	room, err := e.prepare(ctx, code, guestID)
	if err != nil {
		return nil, err
	}

	var outcome *VoteOutcome
	err = e.db.Transaction(ctx, func(tx *database.Database) error {
		current, err := tx.LockRoom(ctx, room.ID)
		if err != nil {
			return err
		}
		if err := requireInGame(current); err != nil {
			return err
		}
		round, err := loadCurrentRound(ctx, tx, current)
		if err != nil {
			return err
		}
		if round.Phase != models.PhaseDescribe {
			return ErrNotInDescribe
		}
		voter, err := loadMember(ctx, tx, current, guestID)
		if err != nil {
			return err
		}
		if !voter.IsAlive {
			return ErrEliminated
		}

		targetID, err := uuid.Parse(strings.TrimSpace(targetPlayerID))
		if err != nil {
			return ErrTargetNotFound
		}
		if targetID == voter.ID {
			return ErrCannotVoteSelf
		}
		target, err := tx.GetPlayer(ctx, room.ID, targetID)
		if errors.Is(err, database.ErrNotFound) {
			return ErrTargetNotFound
		}
		if err != nil {
			return err
		}
		if !target.IsAlive {
			return ErrTargetEliminated
		}

		vote := &models.Vote{RoomID: room.ID, RoundID: round.ID, VoterGuestID: guestID, TargetPlayerID: target.ID}
		if err := tx.UpsertVote(ctx, vote); err != nil {
			return err
		}
		outcome, err = e.resolveVotes(ctx, tx, current, round)
		return err
	})
	if err != nil {
		return nil, fail("VOTE_FAILED", err)
	}

	e.bump(ctx, room)
	return outcome, nil
}

// resolveVotes tallies the round once distinct voters reach the alive count.
// The round's phase is claimed with a conditional update before anything else is
// written, so a second caller for the same round changes nothing.
func (e *Engine) resolveVotes(ctx context.Context, tx *database.Database, room *models.Room, round *models.Round) (*VoteOutcome, error) {
	outcome := &VoteOutcome{Phase: round.Phase, Status: room.Status}
	if round.Phase != models.PhaseDescribe {
		return outcome, nil
	}

	alive, err := tx.GetAlivePlayers(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	voters, err := tx.CountRoundVoters(ctx, round.ID)
	if err != nil {
		return nil, err
	}
	if len(alive) == 0 || voters < len(alive) {
		return outcome, nil
	}

	votes, err := tx.GetRoundVotes(ctx, round.ID)
	if err != nil {
		return nil, err
	}
	tally := Tally(votes, e.tiePolicy)

	if tally.Eliminated == nil {
		claimed, err := tx.TransitionRound(ctx, round.ID, models.PhaseDescribe, map[string]any{
			"phase":                models.PhaseResult,
			"tied":                 true,
			"eliminated_player_id": nil,
		})
		if err != nil || !claimed {
			return outcome, err
		}
		log.Info().Str("room", room.Code).Int("round", round.RoundNumber).Msg("vote tied, nobody eliminated")
		outcome.Resolved, outcome.Tied, outcome.Phase = true, true, models.PhaseResult
		return outcome, nil
	}

	var target *models.Player
	for i := range alive {
		if alive[i].ID == *tally.Eliminated {
			target = &alive[i]
			break
		}
	}
	if target == nil {
		// the leader is already out, so this tally was applied before
		return outcome, nil
	}

	// counts as they will be once the target is out
	target.IsAlive = false
	counts := CountRoles(alive)
	var eliminatedRole models.Role
	if target.Role != nil {
		eliminatedRole = *target.Role
	}
	verdict := Evaluate(counts, eliminatedRole)

	guessTarget := target.ID
	if verdict.Branch == BranchSurvivingMrWhiteGuess {
		for _, p := range alive {
			if p.IsAlive && p.HasRole(models.RoleMrWhite) {
				guessTarget = p.ID
				break
			}
		}
	}

	claimed, err := tx.TransitionRound(ctx, round.ID, models.PhaseDescribe, map[string]any{
		"phase":                verdict.Phase,
		"tied":                 false,
		"eliminated_player_id": guessTarget,
	})
	if err != nil || !claimed {
		return outcome, err
	}
	if _, err := tx.EliminatePlayer(ctx, target.ID); err != nil {
		return nil, err
	}
	if verdict.Status != "" {
		if _, err := tx.SwapRoomStatus(ctx, room.ID, models.StatusInGame, verdict.Status); err != nil {
			return nil, err
		}
		outcome.Status = verdict.Status
	} else if err := clampQuotas(ctx, tx, room, len(alive)-1); err != nil {
		return nil, err
	}

	outcome.Resolved = true
	outcome.EliminatedPlayerID = &target.ID
	outcome.Phase = verdict.Phase

	log.Info().
		Str("room", room.Code).
		Int("round", round.RoundNumber).
		Str("player", target.ID.String()).
		Str("role", string(eliminatedRole)).
		Str("phase", string(verdict.Phase)).
		Msg("player eliminated")
	if verdict.Status != "" {
		log.Info().Str("room", room.Code).Str("status", string(verdict.Status)).Msg("game over")
	}
	return outcome, nil
}

// SubmitGuess lets the Mr. White named on the round guess the civilian word.
func (e *Engine) SubmitGuess(ctx context.Context, code, guestID, guess string) (bool, error) {
	if err := requireGuest(guestID); err != nil {
		return false, err
	}
	if strings.TrimSpace(guess) == "" {
		return false, ErrGuessRequired
	}
	room, err := e.prepare(ctx, code, guestID)
	if err != nil {
		return false, err
	}

	var correct bool
	var status models.RoomStatus
	err = e.db.Transaction(ctx, func(tx *database.Database) error {
		current, err := tx.LockRoom(ctx, room.ID)
		if err != nil {
			return err
		}
		if err := requireInGame(current); err != nil {
			return err
		}
		round, err := loadCurrentRound(ctx, tx, current)
		if err != nil {
			return err
		}
		if round.Phase != models.PhaseMrWhiteGuess {
			return ErrNotInMrWhiteGuess
		}
		if round.EliminatedPlayerID == nil {
			return ErrNoEliminated
		}
		guesser, err := loadMember(ctx, tx, current, guestID)
		if err != nil {
			return err
		}
		if guesser.ID != *round.EliminatedPlayerID {
			return ErrEliminatedMrWhiteOnly
		}
		if !guesser.HasRole(models.RoleMrWhite) {
			return ErrNotMrWhite
		}

		alive, err := tx.GetAlivePlayers(ctx, room.ID)
		if err != nil {
			return err
		}
		word := current.CivilianWord
		for _, p := range alive {
			if p.HasRole(models.RoleCivilian) && p.Word != nil {
				word = *p.Word
				break
			}
		}
		if word == "" {
			return ErrCivilianWordNotFound
		}

		moved, err := tx.TransitionRound(ctx, round.ID, models.PhaseMrWhiteGuess, map[string]any{"phase": models.PhaseResult})
		if err != nil {
			return err
		}
		if !moved {
			return ErrNotInMrWhiteGuess
		}

		correct = MatchesWord(guess, word)
		switch {
		case correct:
			status = models.StatusEndedMrWhite
		case CiviliansWon(CountRoles(alive)):
			status = models.StatusEndedCivilian
		default:
			return nil
		}
		_, err = tx.SwapRoomStatus(ctx, room.ID, models.StatusInGame, status)
		return err
	})
	if err != nil {
		return false, fail("GUESS_FAILED", err)
	}

	log.Info().Str("room", room.Code).Bool("correct", correct).Msg("mr. white guessed")
	if status != "" {
		log.Info().Str("room", room.Code).Str("status", string(status)).Msg("game over")
	}
	e.bump(ctx, room)
	return correct, nil
}

// resultGuard loads the room and current round for a host advancing out of result.
func resultGuard(ctx context.Context, tx *database.Database, roomID uuid.UUID, guestID string) (*models.Room, *models.Round, error) {
	current, err := tx.LockRoom(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}
	if err := requireHost(current, guestID); err != nil {
		return nil, nil, err
	}
	if err := requireInGame(current); err != nil {
		return nil, nil, err
	}
	round, err := loadCurrentRound(ctx, tx, current)
	if err != nil {
		return nil, nil, err
	}
	if round.Phase != models.PhaseResult {
		return nil, nil, ErrNotInResult
	}
	return current, round, nil
}

// ContinueRound reopens voting within the same round.
func (e *Engine) ContinueRound(ctx context.Context, code, guestID string) error {
	room, err := e.prepare(ctx, code, guestID)
	if err != nil {
		return err
	}

	err = e.db.Transaction(ctx, func(tx *database.Database) error {
		_, round, err := resultGuard(ctx, tx, room.ID, guestID)
		if err != nil {
			return err
		}
		moved, err := tx.TransitionRound(ctx, round.ID, models.PhaseResult, map[string]any{
			"phase":                models.PhaseDescribe,
			"tied":                 false,
			"eliminated_player_id": nil,
		})
		if err != nil {
			return err
		}
		if !moved {
			return ErrNotInResult
		}
		return tx.DeleteRoundVotes(ctx, round.ID)
	})
	if err != nil {
		return fail("ROUND_ADVANCE_FAILED", err)
	}

	log.Info().Str("room", room.Code).Msg("voting reopened")
	e.bump(ctx, room)
	return nil
}

// NextRound opens round n+1. Two hosts racing here create one round between them.
func (e *Engine) NextRound(ctx context.Context, code, guestID string) (*models.Round, error) {
	room, err := e.prepare(ctx, code, guestID)
	if err != nil {
		return nil, err
	}

	var next *models.Round
	err = e.db.Transaction(ctx, func(tx *database.Database) error {
		_, round, err := resultGuard(ctx, tx, room.ID, guestID)
		if err != nil {
			return err
		}
		if err := tx.DeleteRoundVotes(ctx, round.ID); err != nil {
			return err
		}
		next = &models.Round{RoomID: room.ID, RoundNumber: round.RoundNumber + 1, Phase: e.describePhase()}
		if err := tx.CreateRound(ctx, next); err != nil {
			if database.IsDuplicate(err) {
				return errRoundRaced
			}
			return err
		}
		return tx.SetCurrentRound(ctx, room.ID, &next.ID)
	})
	if errors.Is(err, errRoundRaced) {
		current, err := loadRoom(ctx, e.db, room.Code)
		if err != nil {
			return nil, fail("ROUND_ADVANCE_FAILED", err)
		}
		next, err = loadCurrentRound(ctx, e.db, current)
		if err != nil {
			return nil, fail("ROUND_ADVANCE_FAILED", err)
		}
		return next, nil
	}
	if err != nil {
		return nil, fail("ROUND_ADVANCE_FAILED", err)
	}

	log.Info().Str("room", room.Code).Int("round", next.RoundNumber).Msg("round started")
	e.bump(ctx, room)
	return next, nil
}

// Reset sends the room back to the lobby with every player revived. Host only.
func (e *Engine) Reset(ctx context.Context, code, guestID string) error {
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
		if err := tx.ResetRoom(ctx, room.ID); err != nil {
			return err
		}
		// everyone is back in, but leavers may have taken seats with them
		players, err := tx.CountPlayers(ctx, room.ID)
		if err != nil {
			return err
		}
		return clampQuotas(ctx, tx, current, players)
	})
	if err != nil {
		return fail("ROOM_RESET_FAILED", err)
	}

	log.Info().Str("room", room.Code).Msg("room reset")
	e.bump(ctx, room)
	return nil
}

func (e *Engine) readyGuard(ctx context.Context, tx *database.Database, roomID uuid.UUID, guestID string) (*models.Room, *models.Round, error) {
	current, err := tx.LockRoom(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}
	if err := requireInGame(current); err != nil {
		return nil, nil, err
	}
	round, err := loadCurrentRound(ctx, tx, current)
	if err != nil {
		return nil, nil, err
	}
	if round.Phase != models.PhaseReveal {
		return nil, nil, ErrNotInReveal
	}
	player, err := loadMember(ctx, tx, current, guestID)
	if err != nil {
		return nil, nil, err
	}
	if !player.IsAlive {
		return nil, nil, ErrEliminated
	}
	return current, round, nil
}

// MarkReady records that the caller has seen their word. The last alive player
// to mark ready moves the round on to describe.
func (e *Engine) MarkReady(ctx context.Context, code, guestID string) error {
	room, err := e.prepare(ctx, code, guestID)
	if err != nil {
		return err
	}

	err = e.db.Transaction(ctx, func(tx *database.Database) error {
		current, round, err := e.readyGuard(ctx, tx, room.ID, guestID)
		if err != nil {
			return err
		}
		if err := tx.MarkReady(ctx, &models.ReadyMark{RoomID: room.ID, RoundID: round.ID, GuestID: guestID}); err != nil {
			return err
		}
		_, err = advanceReveal(ctx, tx, current, round)
		return err
	})
	if err != nil {
		return fail("READY_FAILED", err)
	}

	e.bump(ctx, room)
	return nil
}

func (e *Engine) UnmarkReady(ctx context.Context, code, guestID string) error {
	room, err := e.prepare(ctx, code, guestID)
	if err != nil {
		return err
	}

	err = e.db.Transaction(ctx, func(tx *database.Database) error {
		_, round, err := e.readyGuard(ctx, tx, room.ID, guestID)
		if err != nil {
			return err
		}
		return tx.UnmarkReady(ctx, round.ID, guestID)
	})
	if err != nil {
		return fail("READY_FAILED", err)
	}

	e.bump(ctx, room)
	return nil
}

// advanceReveal moves a reveal round to describe once every alive player is ready.
func advanceReveal(ctx context.Context, tx *database.Database, room *models.Room, round *models.Round) (bool, error) {
	if round.Phase != models.PhaseReveal {
		return false, nil
	}
	alive, err := tx.GetAlivePlayers(ctx, room.ID)
	if err != nil {
		return false, err
	}
	marks, err := tx.GetRoundReadies(ctx, round.ID)
	if err != nil {
		return false, err
	}
	ready := make(map[string]bool, len(marks))
	for _, m := range marks {
		ready[m.GuestID] = true
	}
	for _, p := range alive {
		if !ready[p.GuestID] {
			return false, nil
		}
	}

	moved, err := tx.TransitionRound(ctx, round.ID, models.PhaseReveal, map[string]any{"phase": models.PhaseDescribe})
	if err == nil && moved {
		log.Info().Str("room", room.Code).Int("round", round.RoundNumber).Msg("everyone ready")
	}
	return moved, err
}

// Heartbeat records the caller as alive and runs host election.
func (e *Engine) Heartbeat(ctx context.Context, code, guestID string) (Handover, error) {
	if err := requireGuest(guestID); err != nil {
		return Handover{}, err
	}
	room, err := loadRoom(ctx, e.db, code)
	if err != nil {
		return Handover{}, fail("HEARTBEAT_FAILED", err)
	}
	touched, err := e.db.TouchPlayer(ctx, room.ID, guestID, e.now())
	if err != nil {
		return Handover{}, fail("HEARTBEAT_FAILED", err)
	}
	if !touched {
		return Handover{}, ErrNotInRoom
	}
	return e.EnsureHost(ctx, room)
}

// Poll is the mutating half of a state read: liveness, host election and the
// reveal auto-advance. It returns the room's current revision.
func (e *Engine) Poll(ctx context.Context, code, guestID string) (int64, error) {
	room, err := loadRoom(ctx, e.db, code)
	if err != nil {
		return 0, fail("POLL_FAILED", err)
	}
	if guestID != "" {
		if _, err := e.db.TouchPlayer(ctx, room.ID, guestID, e.now()); err != nil {
			return 0, fail("POLL_FAILED", err)
		}
	}
	if _, err := e.EnsureHost(ctx, room); err != nil {
		return 0, err
	}

	if room.Status == models.StatusInGame {
		var advanced bool
		err = e.db.Transaction(ctx, func(tx *database.Database) error {
			current, err := tx.LockRoom(ctx, room.ID)
			if errors.Is(err, database.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			if current.Status != models.StatusInGame {
				return nil
			}
			round, err := loadCurrentRound(ctx, tx, current)
			if errors.Is(err, ErrRoundNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			advanced, err = advanceReveal(ctx, tx, current, round)
			return err
		})
		if err != nil {
			return 0, fail("POLL_FAILED", err)
		}
		if advanced {
			e.bump(ctx, room)
		}
	}

	if e.revisions == nil {
		return 0, nil
	}
	rev, err := e.revisions.Current(ctx, room.ID)
	if err != nil {
		log.Warn().Err(err).Str("room", room.Code).Msg("reading state revision")
		return 0, nil
	}
	return rev, nil
}

// Secret returns the caller's own role and word.
func (e *Engine) Secret(ctx context.Context, code, guestID string) (*Secret, error) {
	room, err := e.prepare(ctx, code, guestID)
	if err != nil {
		return nil, err
	}
	player, err := loadMember(ctx, e.db, room, guestID)
	if err != nil {
		return nil, fail("SECRET_FAILED", err)
	}
	if player.Role == nil {
		return nil, ErrNotAssigned
	}
	return &Secret{PlayerID: player.ID, Role: *player.Role, Word: player.Word}, nil
}
