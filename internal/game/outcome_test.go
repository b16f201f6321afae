package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thereayou/undercover/internal/models"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		counts     RoleCounts
		eliminated models.Role
		branch     Branch
		phase      models.Phase
		status     models.RoomStatus
	}{
		{
			name:       "civilians gone with undercover and mr white left",
			counts:     RoleCounts{Civilian: 0, Undercover: 1, MrWhite: 1},
			eliminated: models.RoleCivilian,
			branch:     BranchUndercoverMrWhiteWin,
			phase:      models.PhaseResult,
			status:     models.StatusEndedUndercoverMrWhite,
		},
		{
			name:       "lone civilian against lone mr white",
			counts:     RoleCounts{Civilian: 1, Undercover: 0, MrWhite: 1},
			eliminated: models.RoleCivilian,
			branch:     BranchSurvivingMrWhiteGuess,
			phase:      models.PhaseMrWhiteGuess,
		},
		{
			name:       "undercover reach parity",
			counts:     RoleCounts{Civilian: 1, Undercover: 1},
			eliminated: models.RoleCivilian,
			branch:     BranchUndercoverWin,
			phase:      models.PhaseResult,
			status:     models.StatusEndedUndercover,
		},
		{
			name:       "undercover parity beats mr white elimination",
			counts:     RoleCounts{Civilian: 2, Undercover: 2},
			eliminated: models.RoleMrWhite,
			branch:     BranchUndercoverWin,
			phase:      models.PhaseResult,
			status:     models.StatusEndedUndercover,
		},
		{
			name:       "mr white voted out",
			counts:     RoleCounts{Civilian: 3, Undercover: 1},
			eliminated: models.RoleMrWhite,
			branch:     BranchMrWhiteGuess,
			phase:      models.PhaseMrWhiteGuess,
		},
		{
			name:       "mr white voted out with no undercover left",
			counts:     RoleCounts{Civilian: 2},
			eliminated: models.RoleMrWhite,
			branch:     BranchMrWhiteGuess,
			phase:      models.PhaseMrWhiteGuess,
		},
		{
			name:       "last impostor voted out",
			counts:     RoleCounts{Civilian: 2},
			eliminated: models.RoleUndercover,
			branch:     BranchCivilianWin,
			phase:      models.PhaseResult,
			status:     models.StatusEndedCivilian,
		},
		{
			name:       "game goes on",
			counts:     RoleCounts{Civilian: 1, Undercover: 2},
			eliminated: models.RoleCivilian,
			branch:     BranchContinue,
			phase:      models.PhaseResult,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Evaluate(tt.counts, tt.eliminated)
			assert.Equal(t, tt.branch, v.Branch)
			assert.Equal(t, tt.phase, v.Phase)
			assert.Equal(t, tt.status, v.Status)
		})
	}
}

// Exactly one branch fires for every input, and it is the first whose guard holds.
func TestEvaluateBranchesExclusive(t *testing.T) {
	guards := []func(c RoleCounts, r models.Role) bool{
		func(c RoleCounts, _ models.Role) bool { return c.Civilian == 0 && c.Undercover > 0 && c.MrWhite > 0 },
		func(c RoleCounts, _ models.Role) bool { return c.Undercover == 0 && c.Civilian == 1 && c.MrWhite == 1 },
		func(c RoleCounts, _ models.Role) bool { return c.Undercover > 0 && c.Civilian == c.Undercover },
		func(_ RoleCounts, r models.Role) bool { return r == models.RoleMrWhite },
		func(c RoleCounts, _ models.Role) bool { return c.Undercover == 0 && c.MrWhite == 0 },
		func(RoleCounts, models.Role) bool { return true },
	}
	roles := []models.Role{models.RoleCivilian, models.RoleUndercover, models.RoleMrWhite}

	for civ := 0; civ <= 4; civ++ {
		for uc := 0; uc <= 3; uc++ {
			for mw := 0; mw <= 2; mw++ {
				for _, role := range roles {
					c := RoleCounts{Civilian: civ, Undercover: uc, MrWhite: mw}
					want := Branch(0)
					for i, guard := range guards {
						if guard(c, role) {
							want = Branch(i + 1)
							break
						}
					}
					assert.Equal(t, want, Evaluate(c, role).Branch, "%+v eliminated %s", c, role)
				}
			}
		}
	}
}

func TestCountRoles(t *testing.T) {
	civ, uc, mw := models.RoleCivilian, models.RoleUndercover, models.RoleMrWhite
	players := []models.Player{
		{IsAlive: true, Role: &civ},
		{IsAlive: true, Role: &civ},
		{IsAlive: false, Role: &civ},
		{IsAlive: true, Role: &uc},
		{IsAlive: true, Role: &mw},
		{IsAlive: true},
	}
	assert.Equal(t, RoleCounts{Civilian: 2, Undercover: 1, MrWhite: 1}, CountRoles(players))
}

func TestCiviliansWon(t *testing.T) {
	assert.True(t, CiviliansWon(RoleCounts{Civilian: 1, MrWhite: 1}))
	assert.False(t, CiviliansWon(RoleCounts{Civilian: 3, Undercover: 1}))
}

func TestMatchesWord(t *testing.T) {
	tests := []struct {
		guess, word string
		want        bool
	}{
		{"Coffee ", "coffee", true},
		{"  COFFEE", "Coffee", true},
		{"coffee", "Coffee\n", true},
		{"Tea", "Coffee", false},
		{"Cof fee", "Coffee", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchesWord(tt.guess, tt.word), "%q vs %q", tt.guess, tt.word)
	}
}
