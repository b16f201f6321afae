package game

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/thereayou/undercover/internal/database"
	"github.com/thereayou/undercover/internal/models"
)

// MaxNameLength is counted in runes.
const MaxNameLength = 32

// Revisions tracks a per-room counter that moves on every visible state change.
type Revisions interface {
	Bump(ctx context.Context, roomID uuid.UUID) (int64, error)
	Current(ctx context.Context, roomID uuid.UUID) (int64, error)
	Forget(ctx context.Context, roomID uuid.UUID) error
}

type Config struct {
	HostTimeout time.Duration
	TiePolicy   TiePolicy
	// RevealGate inserts the reveal phase before every describe phase.
	RevealGate bool
	Words      WordPool

	Random        Random
	Clock         func() time.Time
	CodeGenerator func() (string, error)
}

// Engine runs every room and round operation against the database.
// It holds no per-room state of its own.
type Engine struct {
	db        *database.Database
	revisions Revisions

	hostTimeout time.Duration
	tiePolicy   TiePolicy
	revealGate  bool
	words       WordPool
	rng         Random
	clock       func() time.Time
	codes       func() (string, error)
}

func New(db *database.Database, revisions Revisions, cfg Config) *Engine {
	e := &Engine{
		db:          db,
		revisions:   revisions,
		hostTimeout: cfg.HostTimeout,
		tiePolicy:   cfg.TiePolicy,
		revealGate:  cfg.RevealGate,
		words:       cfg.Words,
		rng:         cfg.Random,
		clock:       cfg.Clock,
		codes:       cfg.CodeGenerator,
	}
	if e.hostTimeout <= 0 {
		e.hostTimeout = DefaultHostTimeout
	}
	if e.tiePolicy == "" {
		e.tiePolicy = TieNoElimination
	}
	if len(e.words) == 0 {
		e.words = DefaultWordPool
	}
	if e.rng == nil {
		e.rng = newTimeSeededRandom()
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	if e.codes == nil {
		e.codes = GenerateRoomCode
	}
	return e
}

func (e *Engine) now() time.Time {
	return e.clock().UTC()
}

func (e *Engine) bump(ctx context.Context, room *models.Room) {
	if e.revisions == nil {
		return
	}
	if _, err := e.revisions.Bump(ctx, room.ID); err != nil {
		log.Warn().Err(err).Str("room", room.Code).Msg("bumping state revision")
	}
}

// fail passes game errors through and hides everything else behind an internal code.
func fail(code string, err error) error {
	var gameErr *Error
	if errors.As(err, &gameErr) {
		return err
	}
	log.Error().Err(err).Str("code", code).Msg("persistence failure")
	return internalError(code, err)
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}

func requireGuest(guestID string) error {
	if strings.TrimSpace(guestID) == "" {
		return ErrGuestRequired
	}
	return nil
}

func loadRoom(ctx context.Context, db *database.Database, code string) (*models.Room, error) {
	code, err := NormalizeRoomCode(code)
	if err != nil {
		return nil, err
	}
	room, err := db.GetRoomByCode(ctx, code)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrRoomNotFound
	}
	return room, err
}

func loadMember(ctx context.Context, db *database.Database, room *models.Room, guestID string) (*models.Player, error) {
	player, err := db.GetPlayerByGuest(ctx, room.ID, guestID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotInRoom
	}
	return player, err
}

func loadCurrentRound(ctx context.Context, db *database.Database, room *models.Room) (*models.Round, error) {
	round, err := db.GetCurrentRound(ctx, room)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrRoundNotFound
	}
	return round, err
}

func requireHost(room *models.Room, guestID string) error {
	if room.HostGuestID != guestID {
		return ErrHostOnly
	}
	return nil
}

func requireInGame(room *models.Room) error {
	if room.Status != models.StatusInGame {
		return ErrRoomNotInGame
	}
	return nil
}

// prepare resolves the room and runs host election before an operation touches it.
func (e *Engine) prepare(ctx context.Context, code, guestID string) (*models.Room, error) {
	if err := requireGuest(guestID); err != nil {
		return nil, err
	}
	room, err := loadRoom(ctx, e.db, code)
	if err != nil {
		return nil, fail("ROOM_LOAD_FAILED", err)
	}
	if _, err := e.EnsureHost(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// describePhase is where play resumes after assignment or a new round.
func (e *Engine) describePhase() models.Phase {
	if e.revealGate {
		return models.PhaseReveal
	}
	return models.PhaseDescribe
}
