package ballot

import (
	"testing"

	"github.com/ballotchain/ballot-node/cmd/utils"
	"github.com/ballotchain/ballot-node/config"
	"github.com/ballotchain/ballot-node/core/types"
	abciTypes "github.com/tendermint/tendermint/abci/types"
	tmjson "github.com/tendermint/tendermint/libs/json"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

func TestCommitPanicsOnTallyDrift(t *testing.T) {
	t.Parallel()
	storage := utils.NewStorage(t.TempDir(), "")
	if err := storage.InitStorages(utils.MemDBBackend, 0); err != nil {
		t.Fatal(err)
	}
	app := NewBallotBlockchain(storage, config.DefaultConfig(), tmlog.NewNopLogger())

	appState, err := tmjson.Marshal(types.AppState{
		Owner:          types.HexToAddress("0x00000000000000000000000000000000000000aa"),
		ElectionStatus: types.ElectionActive.String(),
		Candidates:     []types.Candidate{{ID: 1, Name: "Alice"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	app.InitChain(abciTypes.RequestInitChain{AppStateBytes: appState, InitialHeight: 1})

	defer func() {
		if recover() == nil {
			t.Fatal("commit did not panic")
		}
		if app.appDB.GetLastHeight() != 0 {
			t.Fatal("drifted block was persisted")
		}
	}()

	// a vote counted without a matching ballot
	app.stateDeliver.Candidates.AddVote(1)
	app.EndBlock(abciTypes.RequestEndBlock{Height: 1})
	app.Commit()
}
