package candidates

import (
	"encoding/binary"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/ballotchain/ballot-node/core/state/bus"
	"github.com/ballotchain/ballot-node/core/types"
	"github.com/cosmos/iavl"
	"github.com/tendermint/go-amino"
)

const (
	mainPrefix  = 'c'
	countPrefix = 'k'
)

var cdc = amino.NewCodec()

// RCandidates interface represents Candidates state
type RCandidates interface {
	Export(state *types.AppState)
	Exists(id uint32) bool
	Count() uint32
	GetCandidate(id uint32) *Model
	GetCandidates() []*Model
}

// Candidates struct is a store of candidates state
type Candidates struct {
	list  map[uint32]*Model
	count *uint32

	isDirty bool
	dirty   map[uint32]struct{}

	db  atomic.Value
	bus *bus.Bus

	lock sync.RWMutex
}

// NewCandidates returns newly created Candidates state with a given bus and iavl
func NewCandidates(bus *bus.Bus, db *iavl.ImmutableTree) *Candidates {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}
	return &Candidates{
		db:    immutableTree,
		bus:   bus,
		list:  map[uint32]*Model{},
		dirty: map[uint32]struct{}{},
	}
}

func (c *Candidates) immutableTree() *iavl.ImmutableTree {
	db := c.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (c *Candidates) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	c.db.Store(immutableTree)
}

// Commit writes changes to iavl, may return an error
func (c *Candidates) Commit(db *iavl.MutableTree, version int64) error {
	dirty := c.getOrderedDirty()
	for _, id := range dirty {
		candidate := c.getFromMap(id)

		c.lock.Lock()
		delete(c.dirty, id)
		c.lock.Unlock()

		candidate.lock.RLock()
		data, err := cdc.MarshalBinaryBare(candidate)
		candidate.lock.RUnlock()
		if err != nil {
			return fmt.Errorf("can't encode candidate %d: %s", id, err)
		}

		db.Set(pathCandidate(id), data)
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	if c.isDirty {
		c.isDirty = false
		db.Set([]byte{countPrefix}, uint32ToBytes(*c.count))
	}

	return nil
}

// Create allocates the next id for a candidate with the given name and returns it
func (c *Candidates) Create(name string) uint32 {
	id := c.Count() + 1
	c.CreateWithID(id, name, 0)
	return id
}

// CreateWithID stores a candidate under an explicit id, used on genesis import
func (c *Candidates) CreateWithID(id uint32, name string, voteCount uint64) {
	candidate := &Model{
		ID:        id,
		Name:      name,
		VoteCount: voteCount,
		markDirty: c.markDirty,
	}

	c.setToMap(id, candidate)
	c.markDirty(id)

	c.lock.Lock()
	defer c.lock.Unlock()

	count := c.loadCount()
	if id > count {
		c.count = &id
		c.isDirty = true
	}
}

// AddVote adds exactly one vote to the candidate and reports it to the checker
func (c *Candidates) AddVote(id uint32) {
	candidate := c.GetCandidate(id)
	if candidate == nil {
		panic(fmt.Sprintf("candidate %d not found", id))
	}

	candidate.addVote()
	c.bus.Checker().AddVote(id)
}

// Exists returns whether the id was ever allocated
func (c *Candidates) Exists(id uint32) bool {
	return id != 0 && id <= c.Count()
}

// Count returns the number of registered candidates, equal to the highest allocated id
func (c *Candidates) Count() uint32 {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.loadCount()
}

// GetCandidate returns candidate with given id, nil if it does not exist
func (c *Candidates) GetCandidate(id uint32) *Model {
	if id == 0 {
		return nil
	}

	candidate := c.getFromMap(id)
	if candidate != nil {
		return candidate
	}

	tree := c.immutableTree()
	if tree == nil {
		return nil
	}

	_, enc := tree.Get(pathCandidate(id))
	if len(enc) == 0 {
		return nil
	}

	candidate = &Model{}
	if err := cdc.UnmarshalBinaryBare(enc, candidate); err != nil {
		panic(fmt.Sprintf("failed to decode candidate %d: %s", id, err))
	}

	candidate.ID = id
	candidate.markDirty = c.markDirty
	c.setToMap(id, candidate)

	return candidate
}

// GetCandidates returns all candidates in ascending id order
func (c *Candidates) GetCandidates() []*Model {
	count := c.Count()
	candidates := make([]*Model, 0, count)
	for id := uint32(1); id <= count; id++ {
		candidate := c.GetCandidate(id)
		if candidate == nil {
			panic(fmt.Sprintf("candidate %d is missing from state", id))
		}
		candidates = append(candidates, candidate)
	}

	return candidates
}

func (c *Candidates) Export(state *types.AppState) {
	for _, candidate := range c.GetCandidates() {
		state.Candidates = append(state.Candidates, types.Candidate{
			ID:        candidate.ID,
			Name:      candidate.GetName(),
			VoteCount: candidate.GetVoteCount(),
		})
	}
}

// loadCount must be called under lock
func (c *Candidates) loadCount() uint32 {
	if c.count != nil {
		return *c.count
	}

	var count uint32
	if tree := c.immutableTree(); tree != nil {
		if _, enc := tree.Get([]byte{countPrefix}); len(enc) == 4 {
			count = binary.BigEndian.Uint32(enc)
		}
	}
	c.count = &count

	return count
}

func (c *Candidates) markDirty(id uint32) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.dirty[id] = struct{}{}
}

func (c *Candidates) getOrderedDirty() []uint32 {
	c.lock.RLock()
	keys := make([]uint32, 0, len(c.dirty))
	for k := range c.dirty {
		keys = append(keys, k)
	}
	c.lock.RUnlock()

	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})

	return keys
}

func (c *Candidates) getFromMap(id uint32) *Model {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.list[id]
}

func (c *Candidates) setToMap(id uint32, model *Model) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.list[id] = model
}

func pathCandidate(id uint32) []byte {
	return append([]byte{mainPrefix}, uint32ToBytes(id)...)
}

func uint32ToBytes(value uint32) []byte {
	var b = make([]byte, 4)
	binary.BigEndian.PutUint32(b, value)
	return b
}
