package checker

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ballotchain/ballot-node/core/state/bus"
)

// Checker keeps the per block tally deltas: votes added to candidates
// and ballots recorded on voters must match for every candidate.
type Checker struct {
	votes   map[uint32]int64
	ballots map[uint32]int64

	lock sync.RWMutex
}

func NewChecker(bus *bus.Bus) *Checker {
	checker := &Checker{
		votes:   map[uint32]int64{},
		ballots: map[uint32]int64{},
	}
	bus.SetChecker(checker)

	return checker
}

func (c *Checker) AddVote(candidateID uint32) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.votes[candidateID]++
}

func (c *Checker) AddBallot(candidateID uint32) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.ballots[candidateID]++
}

// Reset resets checker data
func (c *Checker) Reset() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.votes = map[uint32]int64{}
	c.ballots = map[uint32]int64{}
}

func (c *Checker) Check() error {
	c.lock.RLock()
	defer c.lock.RUnlock()

	ids := make([]uint32, 0, len(c.votes)+len(c.ballots))
	for id := range c.votes {
		ids = append(ids, id)
	}
	for id := range c.ballots {
		if _, ok := c.votes[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		if diff := c.votes[id] - c.ballots[id]; diff != 0 {
			return fmt.Errorf("invariants error on candidate %d: %d", id, diff)
		}
	}

	return nil
}
