package game

import (
	"github.com/google/uuid"
	"github.com/thereayou/undercover/internal/models"
)

// MinPlayers is the smallest table that can be dealt.
const MinPlayers = 3

type Assignment struct {
	PlayerID uuid.UUID
	Role     models.Role
	// Word is nil for Mr. White.
	Word *string
}

// AssignRoles deals roles over a uniform permutation of playerIDs: the first undercover
// players get the undercover word, the next mrwhite get no word, the rest are civilians.
func AssignRoles(playerIDs []uuid.UUID, undercover, mrwhite int, pair WordPair, rng Random) ([]Assignment, error) {
	if len(playerIDs) < MinPlayers {
		return nil, ErrMinPlayers
	}
	if undercover < 0 {
		return nil, ErrUndercoverCountInvalid
	}
	if mrwhite < 0 {
		return nil, ErrMrWhiteCountInvalid
	}
	if undercover+mrwhite >= len(playerIDs) {
		return nil, ErrRoleCountsTooHigh
	}

	ids := make([]uuid.UUID, len(playerIDs))
	copy(ids, playerIDs)
	rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})

	common, secret := pair.Common, pair.Undercover
	out := make([]Assignment, len(ids))
	for i, id := range ids {
		switch {
		case i < undercover:
			out[i] = Assignment{PlayerID: id, Role: models.RoleUndercover, Word: &secret}
		case i < undercover+mrwhite:
			out[i] = Assignment{PlayerID: id, Role: models.RoleMrWhite}
		default:
			out[i] = Assignment{PlayerID: id, Role: models.RoleCivilian, Word: &common}
		}
	}
	return out, nil
}
