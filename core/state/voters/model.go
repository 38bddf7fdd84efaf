package voters

import (
	"sync"

	"github.com/ballotchain/ballot-node/core/types"
)

type Model struct {
	Authorized       bool
	Voted            bool
	VotedCandidateID uint32

	address   types.Address
	markDirty func(types.Address)
	lock      sync.RWMutex
}

// Record is a copy of the voter state safe to hand out
type Record struct {
	Authorized       bool
	Voted            bool
	VotedCandidateID uint32
}

func (model *Model) record() Record {
	model.lock.RLock()
	defer model.lock.RUnlock()

	return Record{
		Authorized:       model.Authorized,
		Voted:            model.Voted,
		VotedCandidateID: model.VotedCandidateID,
	}
}

// authorize reports whether the voter was not authorized before
func (model *Model) authorize() bool {
	model.lock.Lock()
	defer model.lock.Unlock()

	if model.Authorized {
		return false
	}
	model.Authorized = true
	model.markDirty(model.address)
	return true
}

func (model *Model) setVoted(candidateID uint32) {
	model.lock.Lock()
	defer model.lock.Unlock()

	model.Voted = true
	model.VotedCandidateID = candidateID
	model.markDirty(model.address)
}
