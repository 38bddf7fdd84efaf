package voters

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

const mainPrefix = byte('v')

var cdc = amino.NewCodec()

type RVoters interface {
	Export(state *types.AppState)
	Get(address types.Address) Record
}

// Voters is the whitelist of addresses allowed to vote together with their ballots
type Voters struct {
	list  map[types.Address]*Model
	dirty map[types.Address]struct{}

	db  atomic.Value
	bus *bus.Bus

	lock sync.RWMutex
}

func NewVoters(stateBus *bus.Bus, db *iavl.ImmutableTree) *Voters {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}
	return &Voters{
		db:    immutableTree,
		bus:   stateBus,
		list:  map[types.Address]*Model{},
		dirty: map[types.Address]struct{}{},
	}
}

func (v *Voters) immutableTree() *iavl.ImmutableTree {
	db := v.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (v *Voters) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	v.db.Store(immutableTree)
}

func (v *Voters) Commit(db *iavl.MutableTree, version int64) error {
	for _, address := range v.getOrderedDirty() {
		voter := v.getFromMap(address)

		v.lock.Lock()
		delete(v.dirty, address)
		v.lock.Unlock()

		voter.lock.RLock()
		data, err := cdc.MarshalBinaryBare(voter)
		voter.lock.RUnlock()
		if err != nil {
			return fmt.Errorf("can't encode voter %s: %s", address.String(), err)
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

// Get never fails: an untouched address has the zero record
func (v *Voters) Get(address types.Address) Record {
	voter := v.get(address)
	if voter == nil {
		return Record{}
	}
	return voter.record()
}

// Authorize whitelists address. Returns false if it already was.
func (v *Voters) Authorize(address types.Address) bool {
	return v.getOrNew(address).authorize()
}

// SetVoted records the ballot of address and reports it to the checker
func (v *Voters) SetVoted(address types.Address, candidateID uint32) {
	v.getOrNew(address).setVoted(candidateID)
	v.bus.Checker().AddBallot(candidateID)
}

// SetRecord stores a voter as is, used on genesis import
func (v *Voters) SetRecord(address types.Address, record Record) {
	voter := v.getOrNew(address)

	voter.lock.Lock()
	voter.Authorized = record.Authorized
	voter.Voted = record.Voted
	voter.VotedCandidateID = record.VotedCandidateID
	voter.lock.Unlock()

	v.markDirty(address)
}

func (v *Voters) Export(state *types.AppState) {
	var stored []types.Address
	if tree := v.immutableTree(); tree != nil {
		tree.IterateRange([]byte{mainPrefix}, []byte{mainPrefix + 1}, true, func(key []byte, value []byte) bool {
			stored = append(stored, types.BytesToAddress(key[1:]))
			return false
		})
	}
	for _, address := range stored {
		v.get(address)
	}

	v.lock.RLock()
	addresses := make([]types.Address, 0, len(v.list))
	for address := range v.list {
		addresses = append(addresses, address)
	}
	v.lock.RUnlock()

	sort.Slice(addresses, func(i, j int) bool {
		return bytes.Compare(addresses[i][:], addresses[j][:]) == -1
	})

	for _, address := range addresses {
		record := v.Get(address)
		if !record.Authorized && !record.Voted {
			continue
		}
		state.Voters = append(state.Voters, types.Voter{
			Address:          address,
			Authorized:       record.Authorized,
			Voted:            record.Voted,
			VotedCandidateID: record.VotedCandidateID,
		})
	}
}

func (v *Voters) get(address types.Address) *Model {
	if voter := v.getFromMap(address); voter != nil {
		return voter
	}

	tree := v.immutableTree()
	if tree == nil {
		return nil
	}

	_, enc := tree.Get(append([]byte{mainPrefix}, address.Bytes()...))
	if len(enc) == 0 {
		return nil
	}

	voter := &Model{}
	if err := cdc.UnmarshalBinaryBare(enc, voter); err != nil {
		panic(fmt.Sprintf("failed to decode voter %s: %s", address.String(), err))
	}

	voter.address = address
	voter.markDirty = v.markDirty
	v.setToMap(address, voter)

	return voter
}

func (v *Voters) getOrNew(address types.Address) *Model {
	voter := v.get(address)
	if voter == nil {
		voter = &Model{
			address:   address,
			markDirty: v.markDirty,
		}
		v.setToMap(address, voter)
	}

	return voter
}

func (v *Voters) markDirty(address types.Address) {
	v.lock.Lock()
	defer v.lock.Unlock()

	v.dirty[address] = struct{}{}
}

func (v *Voters) getOrderedDirty() []types.Address {
	v.lock.RLock()
	keys := make([]types.Address, 0, len(v.dirty))
	for k := range v.dirty {
		keys = append(keys, k)
	}
	v.lock.RUnlock()

	sort.SliceStable(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].Bytes(), keys[j].Bytes()) == 1
	})

	return keys
}

func (v *Voters) getFromMap(address types.Address) *Model {
	v.lock.RLock()
	defer v.lock.RUnlock()

	return v.list[address]
}

func (v *Voters) setToMap(address types.Address, model *Model) {
	v.lock.Lock()
	defer v.lock.Unlock()

	v.list[address] = model
}
