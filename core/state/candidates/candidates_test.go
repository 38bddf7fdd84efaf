package candidates

import (
	"testing"

	"github.com/ballotchain/ballot-node/core/state/bus"
	"github.com/ballotchain/ballot-node/core/state/checker"
	"github.com/ballotchain/ballot-node/tree"
	db "github.com/tendermint/tm-db"
)

func TestCandidates_Create(t *testing.T) {
	t.Parallel()
	mutableTree, _ := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	b := bus.NewBus()
	checker.NewChecker(b)
	candidates := NewCandidates(b, mutableTree.GetLastImmutable())

	if candidates.Exists(1) {
		t.Fatal("candidate exists in empty registry")
	}

	for i, name := range []string{"Alice", "Bob", "Alice"} {
		if id := candidates.Create(name); id != uint32(i+1) {
			t.Fatalf("id want %d, got %d", i+1, id)
		}
	}

	if candidates.Count() != 3 {
		t.Fatalf("count want 3, got %d", candidates.Count())
	}
	if candidates.Exists(0) || candidates.Exists(4) {
		t.Fatal("unallocated id reported as existing")
	}

	_, _, err := mutableTree.Commit(candidates)
	if err != nil {
		t.Fatal(err)
	}

	reloaded := NewCandidates(b, mutableTree.GetLastImmutable())
	list := reloaded.GetCandidates()
	if len(list) != 3 {
		t.Fatalf("reloaded count want 3, got %d", len(list))
	}
	for i, c := range list {
		if c.ID != uint32(i+1) {
			t.Fatalf("candidates are not ordered: %d at %d", c.ID, i)
		}
	}
	if list[2].GetName() != "Alice" {
		t.Fatalf("duplicate name was not kept, got %s", list[2].GetName())
	}
}

func TestCandidates_AddVote(t *testing.T) {
	t.Parallel()
	mutableTree, _ := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	b := bus.NewBus()
	c := checker.NewChecker(b)
	candidates := NewCandidates(b, mutableTree.GetLastImmutable())

	id := candidates.Create("Alice")
	candidates.AddVote(id)
	candidates.AddVote(id)

	if got := candidates.GetCandidate(id).GetVoteCount(); got != 2 {
		t.Fatalf("vote count want 2, got %d", got)
	}

	// two votes reported, no ballots
	if err := c.Check(); err == nil {
		t.Fatal("checker did not see the votes")
	}

	if _, _, err := mutableTree.Commit(candidates); err != nil {
		t.Fatal(err)
	}

	reloaded := NewCandidates(b, mutableTree.GetLastImmutable())
	if got := reloaded.GetCandidate(id).GetVoteCount(); got != 2 {
		t.Fatalf("reloaded vote count want 2, got %d", got)
	}
}
