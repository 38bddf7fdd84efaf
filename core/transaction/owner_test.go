package transaction

import (
	"encoding/json"
	"testing"

	"github.com/ballotchain/ballot-node/core/code"
	"github.com/ballotchain/ballot-node/core/state"
	"github.com/ballotchain/ballot-node/core/types"
)

func TestRequireOwner(t *testing.T) {
	t.Parallel()
	cState, _, owner := ownedState(t)
	checkState := state.NewCheckState(cState)

	if response := RequireOwner(owner, checkState); response != nil {
		t.Fatalf("owner rejected: %s", response.Log)
	}

	stranger := types.HexToAddress("0x00000000000000000000000000000000000000cc")
	response := RequireOwner(stranger, checkState)
	if response == nil {
		t.Fatal("stranger passed the owner gate")
	}
	if response.Code != code.Unauthorized {
		t.Fatalf("Response code is not %d. Got %d", code.Unauthorized, response.Code)
	}

	var info map[string]string
	if err := json.Unmarshal([]byte(response.Info), &info); err != nil {
		t.Fatal(err)
	}
	if info["owner"] != owner.String() || info["sender"] != stranger.String() {
		t.Fatalf("unexpected info %s", response.Info)
	}
}

func TestRequireOwnerFollowsOwnerChange(t *testing.T) {
	t.Parallel()
	cState, _, owner := ownedState(t)
	successor := types.HexToAddress("0x00000000000000000000000000000000000000dd")

	cState.Election.SetOwner(successor)
	checkState := state.NewCheckState(cState)

	if response := RequireOwner(successor, checkState); response != nil {
		t.Fatalf("new owner rejected: %s", response.Log)
	}
	if response := RequireOwner(owner, checkState); response == nil || response.Code != code.Unauthorized {
		t.Fatal("previous owner passed the owner gate")
	}
}

func TestAdminTxRejectsNonOwner(t *testing.T) {
	t.Parallel()
	cState, _, _ := ownedState(t)
	strangerKey, stranger := generateKey(t)

	datas := []Data{
		AddCandidateData{Name: "Alice"},
		AuthorizeVoterData{Address: stranger},
		StartElectionData{},
		EndElectionData{},
	}

	for _, data := range datas {
		response := runTx(cState, makeTx(t, strangerKey, 1, data))
		if response.Code != code.Unauthorized {
			t.Fatalf("%s: response code is not %d. Got %d", data.String(), code.Unauthorized, response.Code)
		}
	}

	if cState.Candidates.Count() != 0 {
		t.Fatal("candidate was created by a stranger")
	}
	if cState.Voters.Get(stranger).Authorized {
		t.Fatal("stranger authorized itself")
	}
	if cState.Election.Status() != types.ElectionInactive {
		t.Fatal("stranger changed the election status")
	}
	if cState.Accounts.GetNonce(stranger) != 0 {
		t.Fatal("failed tx changed the nonce")
	}

	if err := checkState(cState); err != nil {
		t.Error(err)
	}
}
