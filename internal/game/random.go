package game

import (
	"math/rand"
	"sync"
	"time"
)

// Random is the randomness used for word draws and role shuffles.
type Random interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandom returns a goroutine-safe source; the same seed yields the same sequence.
func NewRandom(seed int64) Random {
	return &lockedRand{rnd: rand.New(rand.NewSource(seed))}
}

func newTimeSeededRandom() Random {
	return NewRandom(time.Now().UnixNano())
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}

func (r *lockedRand) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rnd.Shuffle(n, swap)
}
