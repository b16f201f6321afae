package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/undercover/internal/models"
)

func votesFor(targets ...uuid.UUID) []models.Vote {
	out := make([]models.Vote, len(targets))
	for i, target := range targets {
		out[i] = models.Vote{VoterGuestID: uuid.NewString(), TargetPlayerID: target}
	}
	return out
}

func TestTallyMajority(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	for _, policy := range []TiePolicy{TieNoElimination, TieLowestID} {
		res := Tally(votesFor(a, b, a), policy)
		require.NotNil(t, res.Eliminated, policy)
		assert.Equal(t, a, *res.Eliminated)
		assert.False(t, res.Tied)
		assert.Equal(t, 2, res.Counts[a])
		assert.Equal(t, 1, res.Counts[b])
	}
}

func TestTallyTie(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	b := uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	c := uuid.MustParse("00000000-0000-0000-0000-00000000000c")
	votes := votesFor(b, a, b, a, c)

	res := Tally(votes, TieNoElimination)
	assert.True(t, res.Tied)
	assert.Nil(t, res.Eliminated)
	assert.Equal(t, []uuid.UUID{a, b}, res.Leaders)

	res = Tally(votes, TieLowestID)
	assert.False(t, res.Tied)
	require.NotNil(t, res.Eliminated)
	assert.Equal(t, a, *res.Eliminated)
}

func TestTallyNoVotes(t *testing.T) {
	res := Tally(nil, TieLowestID)
	assert.Nil(t, res.Eliminated)
	assert.False(t, res.Tied)
	assert.Empty(t, res.Counts)
}

func TestParseTiePolicy(t *testing.T) {
	p, err := ParseTiePolicy("")
	require.NoError(t, err)
	assert.Equal(t, TieNoElimination, p)

	p, err = ParseTiePolicy("lowest_id")
	require.NoError(t, err)
	assert.Equal(t, TieLowestID, p)

	_, err = ParseTiePolicy("coin_flip")
	assert.Error(t, err)
}
