package game

import (
	"strings"

	"github.com/thereayou/undercover/internal/models"
)

type RoleCounts struct {
	Civilian   int
	Undercover int
	MrWhite    int
}

// CountRoles counts the alive players per role.
func CountRoles(players []models.Player) RoleCounts {
	var c RoleCounts
	for _, p := range players {
		if !p.IsAlive || p.Role == nil {
			continue
		}
		switch *p.Role {
		case models.RoleCivilian:
			c.Civilian++
		case models.RoleUndercover:
			c.Undercover++
		case models.RoleMrWhite:
			c.MrWhite++
		}
	}
	return c
}

type Branch int

const (
	BranchUndercoverMrWhiteWin Branch = iota + 1
	BranchSurvivingMrWhiteGuess
	BranchUndercoverWin
	BranchMrWhiteGuess
	BranchCivilianWin
	BranchContinue
)

type Verdict struct {
	Branch Branch
	Phase  models.Phase
	// Status is empty unless the game is over.
	Status models.RoomStatus
}

// Evaluate applies the win table to the role counts left after an elimination.
// The first matching rule wins.
func Evaluate(c RoleCounts, eliminated models.Role) Verdict {
	switch {
	case c.Civilian == 0 && c.Undercover > 0 && c.MrWhite > 0:
		return Verdict{Branch: BranchUndercoverMrWhiteWin, Phase: models.PhaseResult, Status: models.StatusEndedUndercoverMrWhite}
	case c.Undercover == 0 && c.Civilian == 1 && c.MrWhite == 1:
		return Verdict{Branch: BranchSurvivingMrWhiteGuess, Phase: models.PhaseMrWhiteGuess}
	case c.Undercover > 0 && c.Civilian == c.Undercover:
		return Verdict{Branch: BranchUndercoverWin, Phase: models.PhaseResult, Status: models.StatusEndedUndercover}
	case eliminated == models.RoleMrWhite:
		return Verdict{Branch: BranchMrWhiteGuess, Phase: models.PhaseMrWhiteGuess}
	case c.Undercover == 0 && c.MrWhite == 0:
		return Verdict{Branch: BranchCivilianWin, Phase: models.PhaseResult, Status: models.StatusEndedCivilian}
	default:
		return Verdict{Branch: BranchContinue, Phase: models.PhaseResult}
	}
}

// CiviliansWon is the check applied after a failed Mr. White guess.
func CiviliansWon(c RoleCounts) bool {
	return c.Undercover == 0
}

// MatchesWord compares a guess with the civilian word, ignoring case and surrounding space.
func MatchesWord(guess, word string) bool {
	return strings.ToLower(strings.TrimSpace(guess)) == strings.ToLower(strings.TrimSpace(word))
}
