package state

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	eventsdb "github.com/ballotchain/ballot-node/core/events"
	"github.com/ballotchain/ballot-node/core/state/accounts"
	"github.com/ballotchain/ballot-node/core/state/bus"
	"github.com/ballotchain/ballot-node/core/state/candidates"
	"github.com/ballotchain/ballot-node/core/state/checker"
	"github.com/ballotchain/ballot-node/core/state/election"
	"github.com/ballotchain/ballot-node/core/state/voters"
	"github.com/ballotchain/ballot-node/core/types"
	"github.com/ballotchain/ballot-node/tree"
	"github.com/cosmos/iavl"
	db "github.com/tendermint/tm-db"
)

// Interface is implemented by State and CheckState only.
// Transactions mutate storage only when they get a *State.
type Interface interface {
	isValue_State()
}

type CheckState struct {
	state *State
}

func NewCheckState(state *State) *CheckState {
	return &CheckState{state: state}
}

func (cs *CheckState) isValue_State() {}

func (cs *CheckState) Export() types.AppState {
	appState := new(types.AppState)
	cs.Election().Export(appState)
	cs.Candidates().Export(appState)
	cs.Voters().Export(appState)
	cs.Accounts().Export(appState)

	return *appState
}

func (cs *CheckState) Election() election.RElection {
	return cs.state.Election
}

func (cs *CheckState) Candidates() candidates.RCandidates {
	return cs.state.Candidates
}

func (cs *CheckState) Voters() voters.RVoters {
	return cs.state.Voters
}

func (cs *CheckState) Accounts() accounts.RAccounts {
	return cs.state.Accounts
}

type State struct {
	Election   *election.Election
	Candidates *candidates.Candidates
	Voters     *voters.Voters
	Accounts   *accounts.Accounts
	Checker    *checker.Checker

	db             db.DB
	events         eventsdb.IEventsDB
	tree           tree.MTree
	keepLastStates int64

	bus            *bus.Bus
	lock           sync.RWMutex
	height         int64
	initialVersion int64
}

func (s *State) isValue_State() {}

func NewState(height uint64, db db.DB, events eventsdb.IEventsDB, cacheSize int, keepLastStates int64, initialVersion uint64) (*State, error) {
	iavlTree, err := tree.NewMutableTree(height, db, cacheSize, initialVersion)
	if err != nil {
		return nil, err
	}

	state := newStateForTree(iavlTree.GetLastImmutable(), events, db, keepLastStates)

	state.tree = iavlTree
	state.height = int64(height)
	state.initialVersion = int64(initialVersion)

	return state, nil
}

// NewCheckStateAtHeight opens a read-only view of the state saved at height
func NewCheckStateAtHeight(height uint64, db db.DB) (*CheckState, error) {
	iavlTree, err := tree.NewImmutableTree(height, db)
	if err != nil {
		return nil, err
	}
	return NewCheckState(newStateForTree(iavlTree, nil, db, 0)), nil
}

func (s *State) Tree() tree.MTree {
	return s.tree
}

func (s *State) Events() eventsdb.IEventsDB {
	return s.events
}

// Height returns the version of the last commit
func (s *State) Height() int64 {
	return atomic.LoadInt64(&s.height)
}

func (s *State) Lock() {
	s.lock.Lock()
}

func (s *State) Unlock() {
	s.lock.Unlock()
}

func (s *State) RLock() {
	s.lock.RLock()
}

func (s *State) RUnlock() {
	s.lock.RUnlock()
}

// Check verifies the tally deltas accumulated since the last commit
func (s *State) Check() error {
	return s.Checker.Check()
}

func (s *State) Commit() ([]byte, error) {
	s.Checker.Reset()

	hash, version, err := s.tree.Commit(
		s.Accounts,
		s.Election,
		s.Candidates,
		s.Voters,
	)
	if err != nil {
		return hash, err
	}

	atomic.StoreInt64(&s.height, version)

	versionToDelete := version - s.keepLastStates - 1
	if versionToDelete < s.initialVersion {
		return hash, nil
	}

	if err := s.tree.DeleteVersion(versionToDelete); err != nil {
		log.Printf("DeleteVersion %d error: %s\n", versionToDelete, err)
	}

	return hash, nil
}

// Import loads a verified genesis state. Nothing is reported to the checker.
func (s *State) Import(state types.AppState) error {
	status, err := types.ParseElectionStatus(state.ElectionStatus)
	if err != nil {
		return err
	}

	s.Election.SetOwner(state.Owner)
	s.Election.SetStatus(status)
	s.Election.SetEnforceWindow(state.EnforceElectionWindow)

	for _, c := range state.Candidates {
		if c.ID != s.Candidates.Count()+1 {
			return fmt.Errorf("candidate id %d is out of order", c.ID)
		}
		s.Candidates.CreateWithID(c.ID, c.Name, c.VoteCount)
	}

	for _, v := range state.Voters {
		s.Voters.SetRecord(v.Address, voters.Record{
			Authorized:       v.Authorized,
			Voted:            v.Voted,
			VotedCandidateID: v.VotedCandidateID,
		})
	}

	for _, a := range state.Accounts {
		if a.Nonce == 0 {
			continue
		}
		s.Accounts.SetNonce(a.Address, a.Nonce)
	}

	return nil
}

// Export reloads the last saved version from disk and exports it
func (s *State) Export() types.AppState {
	state, err := NewCheckStateAtHeight(uint64(s.tree.Version()), s.db)
	if err != nil {
		log.Panicf("Create new state at height %d failed: %s", s.tree.Version(), err)
	}

	return state.Export()
}

func newStateForTree(immutableTree *iavl.ImmutableTree, events eventsdb.IEventsDB, db db.DB, keepLastStates int64) *State {
	stateBus := bus.NewBus()

	stateChecker := checker.NewChecker(stateBus)

	return &State{
		Election:       election.NewElection(stateBus, immutableTree),
		Candidates:     candidates.NewCandidates(stateBus, immutableTree),
		Voters:         voters.NewVoters(stateBus, immutableTree),
		Accounts:       accounts.NewAccounts(stateBus, immutableTree),
		Checker:        stateChecker,
		db:             db,
		events:         events,
		keepLastStates: keepLastStates,
		bus:            stateBus,
	}
}
