package game

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/thereayou/undercover/internal/models"
)

// TiePolicy decides what an exact tie for the most votes does.
type TiePolicy string

const (
	// TieNoElimination eliminates nobody and flags the round as tied.
	TieNoElimination TiePolicy = "no_elimination"
	// TieLowestID eliminates the lexicographically smallest player id among the leaders.
	TieLowestID TiePolicy = "lowest_id"
)

func ParseTiePolicy(s string) (TiePolicy, error) {
	switch p := TiePolicy(s); p {
	case TieNoElimination, TieLowestID:
		return p, nil
	case "":
		return TieNoElimination, nil
	}
	return "", fmt.Errorf("unknown tie policy %q", s)
}

type TallyResult struct {
	Counts map[uuid.UUID]int
	// Leaders are the targets sharing the highest count, sorted by id string.
	Leaders    []uuid.UUID
	Eliminated *uuid.UUID
	Tied       bool
}

// Tally counts votes per target and picks the player to eliminate.
func Tally(votes []models.Vote, policy TiePolicy) TallyResult {
	res := TallyResult{Counts: make(map[uuid.UUID]int)}
	for _, v := range votes {
		res.Counts[v.TargetPlayerID]++
	}

	best := 0
	for id, n := range res.Counts {
		switch {
		case n > best:
			best = n
			res.Leaders = []uuid.UUID{id}
		case n == best:
			res.Leaders = append(res.Leaders, id)
		}
	}
	sort.Slice(res.Leaders, func(i, j int) bool {
		return res.Leaders[i].String() < res.Leaders[j].String()
	})

	switch {
	case len(res.Leaders) == 0:
	case len(res.Leaders) == 1 || policy == TieLowestID:
		id := res.Leaders[0]
		res.Eliminated = &id
	default:
		res.Tied = true
	}
	return res
}
