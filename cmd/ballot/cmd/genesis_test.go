package cmd

import (
	"testing"
	"time"

	"github.com/ballotchain/ballot-node/cmd/utils"
	"github.com/ballotchain/ballot-node/config"
	"github.com/ballotchain/ballot-node/core/ballot"
	"github.com/ballotchain/ballot-node/core/ballot/ballottest"
	"github.com/ballotchain/ballot-node/core/code"
	"github.com/ballotchain/ballot-node/core/transaction"
	"github.com/ballotchain/ballot-node/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abciTypes "github.com/tendermint/tendermint/abci/types"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

func TestExportImportGenesis(t *testing.T) {
	t.Parallel()
	ownerKey, owner := ballottest.GenerateKey(t)
	voterKey, voter := ballottest.GenerateKey(t)

	app, _ := ballottest.New(t, newElection(owner, []string{"Alice", "Zoë"}, true))
	for _, response := range ballottest.Block(app,
		ballottest.SignTx(t, ownerKey, 1, transaction.AuthorizeVoterData{Address: voter}),
		ballottest.SignTx(t, ownerKey, 2, transaction.StartElectionData{}),
	) {
		require.Equal(t, code.OK, response.Code, response.Log)
	}
	response := ballottest.Block(app, ballottest.SignTx(t, voterKey, 1, transaction.VoteData{CandidateID: 1}))[0]
	require.Equal(t, code.OK, response.Code, response.Log)

	height := app.Height()
	stateAtHeight, err := app.GetStateForHeight(height)
	require.NoError(t, err)
	exported := stateAtHeight.Export()

	genesis, err := makeGenesis(exported, "ballot-test", time.Unix(0, 0).UTC(), int64(height)+1, nil, true)
	require.NoError(t, err)
	assert.EqualValues(t, height+1, genesis.InitialHeight)

	appState, err := appStateFromGenesis(genesis)
	require.NoError(t, err)
	assert.Equal(t, exported, appState)

	storage := utils.NewStorage(t.TempDir(), "")
	require.NoError(t, storage.InitStorages(utils.MemDBBackend, 0))
	imported := ballot.NewBallotBlockchain(storage, config.DefaultConfig(), tmlog.NewNopLogger())
	imported.InitChain(abciTypes.RequestInitChain{AppStateBytes: genesis.AppState, InitialHeight: genesis.InitialHeight})
	assert.Equal(t, height, imported.Height())
	assert.Equal(t, exported, imported.CurrentState().Export())

	// the imported ballot is still spent
	response = ballottest.Block(imported, ballottest.SignTx(t, voterKey, 2, transaction.VoteData{CandidateID: 2}))[0]
	assert.Equal(t, code.AlreadyVoted, response.Code)
	assert.EqualValues(t, height+1, imported.Height())
}

func TestMakeGenesisRejectsInvalidState(t *testing.T) {
	t.Parallel()

	appState := newElection(types.Address{}, []string{"Alice"}, false)
	_, err := makeGenesis(appState, "ballot-test", time.Now(), 1, nil, false)
	assert.Error(t, err)
}

func TestNewElection(t *testing.T) {
	t.Parallel()
	_, owner := ballottest.GenerateKey(t)

	appState := newElection(owner, []string{"Alice", "Bob"}, true)
	require.NoError(t, appState.Verify())
	assert.Equal(t, []types.Candidate{{ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob"}}, appState.Candidates)
	assert.Equal(t, types.ElectionInactive.String(), appState.ElectionStatus)
	assert.True(t, appState.EnforceElectionWindow)
}
