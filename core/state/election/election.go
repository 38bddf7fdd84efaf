package election

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ballotchain/ballot-node/core/state/bus"
	"github.com/ballotchain/ballot-node/core/types"
	"github.com/cosmos/iavl"
	"github.com/tendermint/go-amino"
)

const mainPrefix = 'e'

var cdc = amino.NewCodec()

type RElection interface {
	Export(state *types.AppState)
	Owner() types.Address
	IsOwner(address types.Address) bool
	Status() types.ElectionStatus
	IsActive() bool
	EnforceWindow() bool
}

// Election holds the owner and the lifecycle phase of the election
type Election struct {
	model   *Model
	isDirty bool

	db atomic.Value

	bus *bus.Bus
	mx  sync.Mutex
}

func NewElection(stateBus *bus.Bus, db *iavl.ImmutableTree) *Election {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}
	return &Election{bus: stateBus, db: immutableTree}
}

func (e *Election) immutableTree() *iavl.ImmutableTree {
	db := e.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (e *Election) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	e.db.Store(immutableTree)
}

func (e *Election) Commit(db *iavl.MutableTree, version int64) error {
	e.mx.Lock()
	defer e.mx.Unlock()

	if !e.isDirty {
		return nil
	}

	e.isDirty = false

	data, err := cdc.MarshalBinaryBare(e.model)
	if err != nil {
		return fmt.Errorf("can't encode election model: %s", err)
	}

	path := []byte{mainPrefix}
	db.Set(path, data)

	return nil
}

// Owner returns the address fixed at genesis
func (e *Election) Owner() types.Address {
	return e.getOrNew().owner()
}

// IsOwner is the identity gate of every administrative operation
func (e *Election) IsOwner(address types.Address) bool {
	return e.Owner() == address
}

func (e *Election) Status() types.ElectionStatus {
	return e.getOrNew().status()
}

func (e *Election) IsActive() bool {
	return e.Status() == types.ElectionActive
}

func (e *Election) EnforceWindow() bool {
	return e.getOrNew().enforceWindow()
}

// Start opens voting. Returns false if the election is already active.
func (e *Election) Start() bool {
	return e.getOrNew().setStatus(types.ElectionActive)
}

// End closes voting. Returns false if the election has already ended.
func (e *Election) End() bool {
	return e.getOrNew().setStatus(types.ElectionEnded)
}

func (e *Election) SetOwner(owner types.Address) {
	e.getOrNew().setOwner(owner)
}

func (e *Election) SetStatus(status types.ElectionStatus) {
	e.getOrNew().setStatus(status)
}

func (e *Election) SetEnforceWindow(enforce bool) {
	e.getOrNew().setEnforceWindow(enforce)
}

func (e *Election) Export(state *types.AppState) {
	model := e.getOrNew()

	state.Owner = model.owner()
	state.ElectionStatus = model.status().String()
	state.EnforceElectionWindow = model.enforceWindow()
}

func (e *Election) get() *Model {
	e.mx.Lock()
	defer e.mx.Unlock()

	if e.model != nil {
		return e.model
	}

	tree := e.immutableTree()
	if tree == nil {
		return nil
	}

	path := []byte{mainPrefix}
	_, enc := tree.Get(path)
	if len(enc) == 0 {
		return nil
	}

	model := &Model{}
	if err := cdc.UnmarshalBinaryBare(enc, model); err != nil {
		panic(fmt.Sprintf("failed to decode election model: %s", err))
	}

	e.model = model
	e.model.markDirty = e.markDirty
	return e.model
}

func (e *Election) getOrNew() *Model {
	model := e.get()
	if model == nil {
		model = &Model{
			Status:    byte(types.ElectionInactive),
			markDirty: e.markDirty,
		}
		e.mx.Lock()
		e.model = model
		e.mx.Unlock()
	}

	return model
}

func (e *Election) markDirty() {
	e.mx.Lock()
	defer e.mx.Unlock()

	e.isDirty = true
}
