package transaction

import (
	"strings"
	"testing"

	"github.com/ballotchain/ballot-node/core/code"
	"github.com/ballotchain/ballot-node/core/events"
	"github.com/ballotchain/ballot-node/core/state"
)

func TestAddCandidateTx(t *testing.T) {
	t.Parallel()
	cState, privateKey, _ := ownedState(t)

	for i, name := range []string{"Alice", "Bob"} {
		response := runTx(cState, makeTx(t, privateKey, uint64(i+1), AddCandidateData{Name: name}))
		if response.Code != code.OK {
			t.Fatalf("Response code is not 0. Error: %s", response.Log)
		}
		if want := []byte{byte('1' + i)}; string(response.Data) != string(want) {
			t.Fatalf("candidate id want %s, got %s", want, response.Data)
		}
	}

	list := cState.Candidates.GetCandidates()
	if len(list) != 2 || list[0].GetName() != "Alice" || list[1].GetName() != "Bob" {
		t.Fatalf("unexpected candidates %v", list)
	}
	if list[0].GetVoteCount() != 0 {
		t.Fatal("new candidate has votes")
	}

	if err := cState.Events().CommitEvents(1); err != nil {
		t.Fatal(err)
	}
	loaded := cState.Events().LoadEvents(1)
	if len(loaded) != 2 {
		t.Fatalf("events want 2, got %d", len(loaded))
	}
	if added := loaded[1].(*events.CandidateAddedEvent); added.ID != 2 || added.Name != "Bob" {
		t.Fatalf("unexpected event %+v", added)
	}

	if err := checkState(cState); err != nil {
		t.Error(err)
	}
}

func TestAddCandidateTxDuplicateName(t *testing.T) {
	t.Parallel()
	cState, privateKey, _ := ownedState(t)

	runTx(cState, makeTx(t, privateKey, 1, AddCandidateData{Name: "Alice"}))
	response := runTx(cState, makeTx(t, privateKey, 2, AddCandidateData{Name: "Alice"}))
	if response.Code != code.OK {
		t.Fatalf("Response code is not 0. Error: %s", response.Log)
	}
	if cState.Candidates.Count() != 2 {
		t.Fatalf("count want 2, got %d", cState.Candidates.Count())
	}
}

func TestAddCandidateTxInvalidName(t *testing.T) {
	t.Parallel()
	cState, privateKey, _ := ownedState(t)

	cases := []struct {
		name string
		code uint32
	}{
		{"", code.EmptyCandidateName},
		{" \t ", code.EmptyCandidateName},
		{strings.Repeat("x", 65), code.CandidateNameTooLong},
		{strings.Repeat("\xff", 64), code.InvalidCandidateName},
		{"Al\xc3ce", code.InvalidCandidateName},
	}

	for _, c := range cases {
		response := runTx(cState, makeTx(t, privateKey, 1, AddCandidateData{Name: c.name}))
		if response.Code != c.code {
			t.Fatalf("name %q: response code is not %d. Got %d", c.name, c.code, response.Code)
		}
	}

	if cState.Candidates.Count() != 0 {
		t.Fatal("invalid candidate was stored")
	}
}

func TestAddCandidateTxCheckDoesNotMutate(t *testing.T) {
	t.Parallel()
	cState, privateKey, _ := ownedState(t)

	response := runTx(state.NewCheckState(cState), makeTx(t, privateKey, 1, AddCandidateData{Name: "Alice"}))
	if response.Code != code.OK {
		t.Fatalf("Response code is not 0. Error: %s", response.Log)
	}
	if cState.Candidates.Count() != 0 {
		t.Fatal("check tx created a candidate")
	}
	if response.Tags != nil {
		t.Fatal("check tx returned tags")
	}
}
