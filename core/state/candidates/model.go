package candidates

import (
	"sync"
)

type Model struct {
	ID        uint32
	Name      string
	VoteCount uint64

	markDirty func(id uint32)
	lock      sync.RWMutex
}

func (candidate *Model) GetName() string {
	candidate.lock.RLock()
	defer candidate.lock.RUnlock()

	return candidate.Name
}

func (candidate *Model) GetVoteCount() uint64 {
	candidate.lock.RLock()
	defer candidate.lock.RUnlock()

	return candidate.VoteCount
}

func (candidate *Model) addVote() {
	candidate.lock.Lock()
	defer candidate.lock.Unlock()

	candidate.VoteCount++
	candidate.markDirty(candidate.ID)
}
