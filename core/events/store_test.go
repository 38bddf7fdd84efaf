package events

import (
	"testing"

	"github.com/ballotchain/ballot-node/core/types"
	db "github.com/tendermint/tm-db"
)

func TestIEventsDB(t *testing.T) {
	memDB := db.NewMemDB()
	store := NewEventsStore(memDB)

	owner := types.HexToAddress("0x04bea23efb744dc93b4fda4c20bf4a21c6e195f1")
	voter := types.HexToAddress("0x18467bbb64a8edf890201d526c35957d82be3d95")

	store.AddEvent(12, &CandidateAddedEvent{ID: 1, Name: "Alice"})
	store.AddEvent(12, &VoterAuthorizedEvent{Address: voter})
	store.AddEvent(12, &ElectionStartedEvent{Owner: owner})
	if err := store.CommitEvents(12); err != nil {
		t.Fatal(err)
	}

	store.AddEvent(14, &VoteCastEvent{Address: voter, CandidateID: 1})
	store.AddEvent(14, &ElectionEndedEvent{Owner: owner})
	if err := store.CommitEvents(14); err != nil {
		t.Fatal(err)
	}

	loadEvents := store.LoadEvents(12)
	if len(loadEvents) != 3 {
		t.Fatalf("count of events not equal 3, got %d", len(loadEvents))
	}

	if loadEvents[0].Type() != TypeCandidateAddedEvent {
		t.Fatal("invalid event type")
	}
	if added := loadEvents[0].(*CandidateAddedEvent); added.ID != 1 || added.Name != "Alice" {
		t.Fatalf("unexpected event %+v", added)
	}
	if authorized := loadEvents[1].(*VoterAuthorizedEvent); authorized.Address != voter {
		t.Fatalf("voter address want %s, got %s", voter, authorized.Address)
	}
	if started := loadEvents[2].(*ElectionStartedEvent); started.Owner != owner {
		t.Fatalf("owner address want %s, got %s", owner, started.Owner)
	}

	// a fresh store must rebuild the address dictionary from disk
	reopened := NewEventsStore(memDB)
	loadEvents = reopened.LoadEvents(14)
	if len(loadEvents) != 2 {
		t.Fatalf("count of events not equal 2, got %d", len(loadEvents))
	}
	vote := loadEvents[0].(*VoteCastEvent)
	if vote.Address != voter || vote.CandidateID != 1 {
		t.Fatalf("unexpected vote event %+v", vote)
	}
	if ended := loadEvents[1].(*ElectionEndedEvent); ended.Owner != owner {
		t.Fatalf("owner address want %s, got %s", owner, ended.Owner)
	}

	if len(store.LoadEvents(13)) != 0 {
		t.Fatal("events found for an empty height")
	}
}

func TestIEventsDB_CommitDropsStaleHeight(t *testing.T) {
	store := NewEventsStore(db.NewMemDB())

	store.AddEvent(5, &CandidateAddedEvent{ID: 1, Name: "Alice"})
	if err := store.CommitEvents(6); err != nil {
		t.Fatal(err)
	}

	if len(store.LoadEvents(5)) != 0 || len(store.LoadEvents(6)) != 0 {
		t.Fatal("stale events were stored")
	}
}
