package voters

import (
	"testing"

	"github.com/ballotchain/ballot-node/core/state/bus"
	"github.com/ballotchain/ballot-node/core/state/checker"
	"github.com/ballotchain/ballot-node/core/types"
	"github.com/ballotchain/ballot-node/tree"
	db "github.com/tendermint/tm-db"
)

func TestVoters(t *testing.T) {
	t.Parallel()
	mutableTree, _ := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	b := bus.NewBus()
	c := checker.NewChecker(b)
	voters := NewVoters(b, mutableTree.GetLastImmutable())

	address := types.HexToAddress("0x00000000000000000000000000000000000000b1")

	if record := voters.Get(address); record != (Record{}) {
		t.Fatalf("untouched voter has record %+v", record)
	}

	if !voters.Authorize(address) {
		t.Fatal("first authorization reported no change")
	}
	if voters.Authorize(address) {
		t.Fatal("second authorization reported a change")
	}

	// zero address is a regular voter
	if !voters.Authorize(types.Address{}) {
		t.Fatal("zero address was not authorized")
	}

	voters.SetVoted(address, 3)
	c.AddVote(3)
	if err := c.Check(); err != nil {
		t.Fatal(err)
	}

	if _, _, err := mutableTree.Commit(voters); err != nil {
		t.Fatal(err)
	}

	reloaded := NewVoters(b, mutableTree.GetLastImmutable())
	want := Record{Authorized: true, Voted: true, VotedCandidateID: 3}
	if record := reloaded.Get(address); record != want {
		t.Fatalf("record want %+v, got %+v", want, record)
	}
	if !reloaded.Get(types.Address{}).Authorized {
		t.Fatal("zero address authorization was lost")
	}

	var state types.AppState
	reloaded.Export(&state)
	if len(state.Voters) != 2 {
		t.Fatalf("exported voters want 2, got %d", len(state.Voters))
	}
	if state.Voters[0].Address != (types.Address{}) {
		t.Fatalf("voters are not sorted: %s first", state.Voters[0].Address)
	}
}
