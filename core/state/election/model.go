package election

import (
	"sync"

	"github.com/ballotchain/ballot-node/core/types"
)

type Model struct {
	Owner         types.Address
	Status        byte
	EnforceWindow bool

	markDirty func()
	mx        sync.RWMutex
}

func (model *Model) owner() types.Address {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return model.Owner
}

func (model *Model) setOwner(owner types.Address) {
	model.mx.Lock()
	defer model.mx.Unlock()

	if model.Owner != owner {
		model.markDirty()
	}
	model.Owner = owner
}

func (model *Model) status() types.ElectionStatus {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return types.ElectionStatus(model.Status)
}

// setStatus reports whether the status actually changed
func (model *Model) setStatus(status types.ElectionStatus) bool {
	model.mx.Lock()
	defer model.mx.Unlock()

	if model.Status == byte(status) {
		return false
	}
	model.Status = byte(status)
	model.markDirty()
	return true
}

func (model *Model) enforceWindow() bool {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return model.EnforceWindow
}

func (model *Model) setEnforceWindow(enforce bool) {
	model.mx.Lock()
	defer model.mx.Unlock()

	if model.EnforceWindow != enforce {
		model.markDirty()
	}
	model.EnforceWindow = enforce
}
