package dto

import "github.com/thereayou/undercover/internal/game"

// CodeRequest is the body of every game action that needs nothing but the room.
type CodeRequest struct {
	Code string `json:"code"`
}

type VoteRequest struct {
	Code           string `json:"code"`
	TargetPlayerID string `json:"targetPlayerId"`
}

type GuessRequest struct {
	Code  string `json:"code"`
	Guess string `json:"guess"`
}

type StartResponse struct {
	OK       bool   `json:"ok"`
	RoomCode string `json:"roomCode"`
	RoundID  string `json:"roundId"`
}

type VoteResponse struct {
	OK                 bool    `json:"ok"`
	Resolved           bool    `json:"resolved"`
	EliminatedPlayerID *string `json:"eliminatedPlayerId"`
	Tied               bool    `json:"tied"`
	Phase              string  `json:"phase"`
	Status             string  `json:"status"`
}

type GuessResponse struct {
	OK      bool `json:"ok"`
	Correct bool `json:"correct"`
}

type SecretResponse struct {
	PlayerID string  `json:"playerId"`
	Role     string  `json:"role"`
	Word     *string `json:"word"`
}

type HeartbeatResponse struct {
	OK       bool          `json:"ok"`
	Handover game.Handover `json:"handover"`
}
