package accounts

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/ballotchain/ballot-node/core/state/bus"
	"github.com/ballotchain/ballot-node/core/types"
	"github.com/cosmos/iavl"
	"github.com/tendermint/go-amino"
)

const mainPrefix = byte('a')

var cdc = amino.NewCodec()

type RAccounts interface {
	Export(state *types.AppState)
	GetNonce(address types.Address) uint64
}

// Accounts keeps the replay protection nonce of every sender
type Accounts struct {
	list  map[types.Address]*Model
	dirty map[types.Address]struct{}

	db  atomic.Value
	bus *bus.Bus

	lock sync.RWMutex
}

func NewAccounts(stateBus *bus.Bus, db *iavl.ImmutableTree) *Accounts {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}
	return &Accounts{
		db:    immutableTree,
		bus:   stateBus,
		list:  map[types.Address]*Model{},
		dirty: map[types.Address]struct{}{},
	}
}

func (a *Accounts) immutableTree() *iavl.ImmutableTree {
	db := a.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (a *Accounts) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	a.db.Store(immutableTree)
}

func (a *Accounts) Commit(db *iavl.MutableTree, version int64) error {
	for _, address := range a.getOrderedDirty() {
		account := a.getFromMap(address)

		a.lock.Lock()
		delete(a.dirty, address)
		a.lock.Unlock()

		account.lock.RLock()
		data, err := cdc.MarshalBinaryBare(account)
		account.lock.RUnlock()
		if err != nil {
			return fmt.Errorf("can't encode account %s: %s", address.String(), err)
		}

		path := append([]byte{mainPrefix}, address.Bytes()...)
		if len(data) == 0 {
			db.Remove(path)
			continue
		}
		db.Set(path, data)
	}

	return nil
}

func (a *Accounts) GetNonce(address types.Address) uint64 {
	account := a.get(address)
	if account == nil {
		return 0
	}

	return account.getNonce()
}

func (a *Accounts) SetNonce(address types.Address, nonce uint64) {
	a.getOrNew(address).setNonce(nonce)
}

func (a *Accounts) Export(state *types.AppState) {
	var stored []types.Address
	if tree := a.immutableTree(); tree != nil {
		tree.IterateRange([]byte{mainPrefix}, []byte{mainPrefix + 1}, true, func(key []byte, value []byte) bool {
			stored = append(stored, types.BytesToAddress(key[1:]))
			return false
		})
	}
	for _, address := range stored {
		a.get(address)
	}

	a.lock.RLock()
	addresses := make([]types.Address, 0, len(a.list))
	for address := range a.list {
		addresses = append(addresses, address)
	}
	a.lock.RUnlock()

	sort.Slice(addresses, func(i, j int) bool {
		return bytes.Compare(addresses[i][:], addresses[j][:]) == -1
	})

	for _, address := range addresses {
		nonce := a.GetNonce(address)
		if nonce == 0 {
			continue
		}
		state.Accounts = append(state.Accounts, types.Account{
			Address: address,
			Nonce:   nonce,
		})
	}
}

func (a *Accounts) get(address types.Address) *Model {
	if account := a.getFromMap(address); account != nil {
		return account
	}

	tree := a.immutableTree()
	if tree == nil {
		return nil
	}

	_, enc := tree.Get(append([]byte{mainPrefix}, address.Bytes()...))
	if len(enc) == 0 {
		return nil
	}

	account := &Model{}
	if err := cdc.UnmarshalBinaryBare(enc, account); err != nil {
		panic(fmt.Sprintf("failed to decode account %s: %s", address.String(), err))
	}

	account.address = address
	account.markDirty = a.markDirty
	a.setToMap(address, account)

	return account
}

func (a *Accounts) getOrNew(address types.Address) *Model {
	account := a.get(address)
	if account == nil {
		account = &Model{
			address:   address,
			markDirty: a.markDirty,
		}
		a.setToMap(address, account)
	}

	return account
}

func (a *Accounts) markDirty(address types.Address) {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.dirty[address] = struct{}{}
}

func (a *Accounts) getOrderedDirty() []types.Address {
	a.lock.RLock()
	keys := make([]types.Address, 0, len(a.dirty))
	for k := range a.dirty {
		keys = append(keys, k)
	}
	a.lock.RUnlock()

	sort.SliceStable(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].Bytes(), keys[j].Bytes()) == 1
	})

	return keys
}

func (a *Accounts) getFromMap(address types.Address) *Model {
	a.lock.RLock()
	defer a.lock.RUnlock()

	return a.list[address]
}

func (a *Accounts) setToMap(address types.Address, model *Model) {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.list[address] = model
}
