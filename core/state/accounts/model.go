package accounts

import (
	"sync"

	"github.com/ballotchain/ballot-node/core/types"
)

type Model struct {
	Nonce uint64

	address   types.Address
	markDirty func(types.Address)
	lock      sync.RWMutex
}

func (model *Model) getNonce() uint64 {
	model.lock.RLock()
	defer model.lock.RUnlock()

	return model.Nonce
}

func (model *Model) setNonce(nonce uint64) {
	model.lock.Lock()
	defer model.lock.Unlock()

	model.Nonce = nonce
	model.markDirty(model.address)
}
