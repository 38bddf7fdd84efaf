package ballot_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ballotchain/ballot-node/config"
	"github.com/ballotchain/ballot-node/core/ballot"
	"github.com/ballotchain/ballot-node/core/ballot/ballottest"
	"github.com/ballotchain/ballot-node/core/code"
	eventsdb "github.com/ballotchain/ballot-node/core/events"
	"github.com/ballotchain/ballot-node/core/transaction"
	"github.com/ballotchain/ballot-node/core/types"
	abciTypes "github.com/tendermint/tendermint/abci/types"
	tmjson "github.com/tendermint/tendermint/libs/json"
	tmlog "github.com/tendermint/tendermint/libs/log"
	tmproto "github.com/tendermint/tendermint/proto/tendermint/types"
)

func genesisFor(owner types.Address) types.AppState {
	return types.AppState{
		Owner:          owner,
		ElectionStatus: types.ElectionInactive.String(),
	}
}

func query(t *testing.T, app *ballot.Blockchain, path string, data string, height int64, result interface{}) abciTypes.ResponseQuery {
	t.Helper()

	response := app.Query(abciTypes.RequestQuery{Path: path, Data: []byte(data), Height: height})
	if response.Code != code.OK || result == nil {
		return response
	}
	if err := json.Unmarshal(response.Value, result); err != nil {
		t.Fatal(err)
	}
	return response
}

func TestElectionFlow(t *testing.T) {
	t.Parallel()
	ownerKey, owner := ballottest.GenerateKey(t)
	voterKey, voter := ballottest.GenerateKey(t)
	app, _ := ballottest.New(t, genesisFor(owner))

	responses := ballottest.Block(app,
		ballottest.SignTx(t, ownerKey, 1, transaction.AddCandidateData{Name: "Alice"}),
		ballottest.SignTx(t, ownerKey, 2, transaction.AddCandidateData{Name: "Bob"}),
		ballottest.SignTx(t, ownerKey, 3, transaction.AuthorizeVoterData{Address: voter}),
		ballottest.SignTx(t, ownerKey, 4, transaction.StartElectionData{}),
	)
	for i, response := range responses {
		if response.Code != code.OK {
			t.Fatalf("tx %d failed: %s", i, response.Log)
		}
	}

	if response := ballottest.Block(app, ballottest.SignTx(t, voterKey, 1, transaction.VoteData{CandidateID: 2}))[0]; response.Code != code.OK {
		t.Fatalf("vote failed: %s", response.Log)
	}

	if info := app.Info(abciTypes.RequestInfo{}); info.LastBlockHeight != 2 || len(info.LastBlockAppHash) == 0 {
		t.Fatalf("unexpected info %+v", info)
	}

	var status types.StatusResult
	query(t, app, ballot.QueryStatus, "", 0, &status)
	if status.Status != "active" || !status.Active || status.CandidatesCount != 2 {
		t.Fatalf("unexpected status %+v", status)
	}

	var candidates []types.CandidateResult
	query(t, app, ballot.QueryCandidates, "", 0, &candidates)
	want := []types.CandidateResult{{ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob", VoteCount: 1}}
	if !reflect.DeepEqual(candidates, want) {
		t.Fatalf("candidates want %+v, got %+v", want, candidates)
	}

	var record types.VoterResult
	query(t, app, ballot.QueryVoter, voter.String(), 0, &record)
	if !record.Authorized || !record.Voted || record.VotedCandidateID != 2 {
		t.Fatalf("unexpected voter %+v", record)
	}

	// the voter had not voted yet at height 1
	query(t, app, ballot.QueryVoter, voter.String(), 1, &record)
	if !record.Authorized || record.Voted {
		t.Fatalf("unexpected historical voter %+v", record)
	}

	var nonce types.NonceResult
	query(t, app, ballot.QueryNonce, owner.String(), 0, &nonce)
	if nonce.Nonce != 4 {
		t.Fatalf("owner nonce want 4, got %d", nonce.Nonce)
	}

	var committed types.EventsResult
	query(t, app, ballot.QueryEvents, "", 1, &committed)
	if len(committed.Events) != 4 || committed.Events[3].Type != eventsdb.TypeElectionStartedEvent {
		t.Fatalf("unexpected events at height 1: %+v", committed.Events)
	}
	query(t, app, ballot.QueryEvents, "", 0, &committed)
	if committed.Height != 2 || len(committed.Events) != 1 || committed.Events[0].Type != eventsdb.TypeVoteCastEvent {
		t.Fatalf("unexpected events at height 2: %+v", committed)
	}
}

func TestQueryErrors(t *testing.T) {
	t.Parallel()
	_, owner := ballottest.GenerateKey(t)
	genesis := genesisFor(owner)
	genesis.Candidates = []types.Candidate{{ID: 1, Name: "Alice"}}
	app, _ := ballottest.New(t, genesis)
	ballottest.Block(app)

	var candidate types.CandidateResult
	query(t, app, ballot.QueryCandidate, "1", 0, &candidate)
	if candidate.Name != "Alice" {
		t.Fatalf("unexpected candidate %+v", candidate)
	}

	cases := []struct {
		path   string
		data   string
		height int64
		code   uint32
	}{
		{ballot.QueryCandidate, "2", 0, code.InvalidCandidateID},
		{ballot.QueryCandidate, "0", 0, code.InvalidCandidateID},
		{ballot.QueryCandidate, "first", 0, code.InvalidQueryData},
		{ballot.QueryVoter, "0xzz", 0, code.InvalidQueryData},
		{ballot.QueryNonce, "", 0, code.InvalidQueryData},
		{"/balance", "", 0, code.UnknownQueryPath},
		{ballot.QueryOwner, "", 100, code.StateNotFound},
	}
	for _, c := range cases {
		if response := query(t, app, c.path, c.data, c.height, nil); response.Code != c.code {
			t.Errorf("%s %q: code want %d, got %d", c.path, c.data, c.code, response.Code)
		}
	}
}

func TestQueryBeforeFirstBlock(t *testing.T) {
	t.Parallel()
	_, owner := ballottest.GenerateKey(t)
	app, _ := ballottest.New(t, genesisFor(owner))

	var result types.OwnerResult
	query(t, app, ballot.QueryOwner, "", 0, &result)
	if result.Owner != owner {
		t.Fatalf("owner want %s, got %s", owner, result.Owner)
	}
}

func TestExportQuery(t *testing.T) {
	t.Parallel()
	_, owner := ballottest.GenerateKey(t)
	_, voter := ballottest.GenerateKey(t)
	genesis := types.AppState{
		Owner:                 owner,
		ElectionStatus:        types.ElectionActive.String(),
		EnforceElectionWindow: true,
		Candidates:            []types.Candidate{{ID: 1, Name: "Alice", VoteCount: 1}, {ID: 2, Name: "Bob"}},
		Voters:                []types.Voter{{Address: voter, Authorized: true, Voted: true, VotedCandidateID: 1}},
	}
	app, _ := ballottest.New(t, genesis)
	ballottest.Block(app)

	response := app.Query(abciTypes.RequestQuery{Path: ballot.QueryExport})
	if response.Code != code.OK {
		t.Fatal(response.Log)
	}

	var exported types.AppState
	if err := tmjson.Unmarshal(response.Value, &exported); err != nil {
		t.Fatal(err)
	}
	if err := exported.Verify(); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(exported, genesis) {
		t.Fatalf("export want %+v, got %+v", genesis, exported)
	}
}

func TestCheckTxMempool(t *testing.T) {
	t.Parallel()
	ownerKey, owner := ballottest.GenerateKey(t)
	app, _ := ballottest.New(t, genesisFor(owner))

	first := app.CheckTx(abciTypes.RequestCheckTx{Tx: ballottest.SignTx(t, ownerKey, 1, transaction.AddCandidateData{Name: "Alice"})})
	if first.Code != code.OK {
		t.Fatalf("check failed: %s", first.Log)
	}

	second := app.CheckTx(abciTypes.RequestCheckTx{Tx: ballottest.SignTx(t, ownerKey, 1, transaction.AddCandidateData{Name: "Bob"})})
	if second.Code != code.TxFromSenderAlreadyInMempool {
		t.Fatalf("code want %d, got %d", code.TxFromSenderAlreadyInMempool, second.Code)
	}

	if app.CurrentState().Candidates().Count() != 0 {
		t.Fatal("check tx mutated the state")
	}

	ballottest.Block(app, ballottest.SignTx(t, ownerKey, 1, transaction.AddCandidateData{Name: "Alice"}))

	third := app.CheckTx(abciTypes.RequestCheckTx{Tx: ballottest.SignTx(t, ownerKey, 2, transaction.AddCandidateData{Name: "Bob"})})
	if third.Code != code.OK {
		t.Fatalf("mempool was not reset: %s", third.Log)
	}
}

type recorder struct {
	mx      sync.Mutex
	heights []uint64
	events  []eventsdb.Events
}

func (r *recorder) OnCommit(height uint64, events eventsdb.Events) {
	r.mx.Lock()
	defer r.mx.Unlock()

	r.heights = append(r.heights, height)
	r.events = append(r.events, events)
}

func TestObserverGetsCommittedEvents(t *testing.T) {
	t.Parallel()
	ownerKey, owner := ballottest.GenerateKey(t)
	app, _ := ballottest.New(t, genesisFor(owner))

	observer := &recorder{}
	app.RegisterObserver(observer)

	ballottest.Block(app, ballottest.SignTx(t, ownerKey, 1, transaction.AddCandidateData{Name: "Alice"}))
	ballottest.Block(app)

	if !reflect.DeepEqual(observer.heights, []uint64{1, 2}) {
		t.Fatalf("unexpected heights %v", observer.heights)
	}
	if len(observer.events[0]) != 1 || len(observer.events[1]) != 0 {
		t.Fatalf("unexpected events %v", observer.events)
	}
	if added := observer.events[0][0].(*eventsdb.CandidateAddedEvent); added.ID != 1 || added.Name != "Alice" {
		t.Fatalf("unexpected event %+v", added)
	}
}

func TestFailedTxKeepsState(t *testing.T) {
	t.Parallel()
	_, owner := ballottest.GenerateKey(t)
	strangerKey, _ := ballottest.GenerateKey(t)
	app, _ := ballottest.New(t, genesisFor(owner))

	responses := ballottest.Block(app,
		ballottest.SignTx(t, strangerKey, 1, transaction.AddCandidateData{Name: "Mallory"}),
		ballottest.SignTx(t, strangerKey, 1, transaction.VoteData{CandidateID: 1}),
	)
	if responses[0].Code != code.Unauthorized || responses[1].Code != code.NotAuthorized {
		t.Fatalf("unexpected codes %d, %d", responses[0].Code, responses[1].Code)
	}
	if !strings.Contains(responses[0].Info, owner.String()) {
		t.Fatalf("info does not name the owner: %s", responses[0].Info)
	}

	if app.CurrentState().Candidates().Count() != 0 {
		t.Fatal("failed tx created a candidate")
	}
}

func TestRestart(t *testing.T) {
	t.Parallel()
	ownerKey, owner := ballottest.GenerateKey(t)
	app, storage := ballottest.New(t, genesisFor(owner))

	ballottest.Block(app, ballottest.SignTx(t, ownerKey, 1, transaction.AddCandidateData{Name: "Alice"}))
	ballottest.Block(app, ballottest.SignTx(t, ownerKey, 2, transaction.StartElectionData{}))

	restarted := ballot.NewBallotBlockchain(storage, config.DefaultConfig(), tmlog.NewNopLogger())
	if restarted.Height() != 2 {
		t.Fatalf("height want 2, got %d", restarted.Height())
	}
	if info := restarted.Info(abciTypes.RequestInfo{}); info.LastBlockHeight != 2 {
		t.Fatalf("info height want 2, got %d", info.LastBlockHeight)
	}

	var status types.StatusResult
	query(t, restarted, ballot.QueryStatus, "", 0, &status)
	if !status.Active || status.CandidatesCount != 1 {
		t.Fatalf("unexpected status %+v", status)
	}

	ballottest.Block(restarted, ballottest.SignTx(t, ownerKey, 3, transaction.EndElectionData{}))
	query(t, restarted, ballot.QueryStatus, "", 0, &status)
	if status.Status != "ended" {
		t.Fatalf("status want ended, got %s", status.Status)
	}
}

func TestQueryIgnoresUncommittedBlock(t *testing.T) {
	t.Parallel()
	ownerKey, owner := ballottest.GenerateKey(t)
	app, _ := ballottest.New(t, genesisFor(owner))

	app.BeginBlock(abciTypes.RequestBeginBlock{Header: tmproto.Header{Height: 1, Time: time.Unix(1600000005, 0)}})
	response := app.DeliverTx(abciTypes.RequestDeliverTx{Tx: ballottest.SignTx(t, ownerKey, 1, transaction.AddCandidateData{Name: "Alice"})})
	if response.Code != code.OK {
		t.Fatalf("add candidate failed: %s", response.Log)
	}

	var candidates []types.CandidateResult
	query(t, app, ballot.QueryCandidates, "", 0, &candidates)
	if len(candidates) != 0 {
		t.Fatalf("uncommitted candidates are visible: %+v", candidates)
	}
	var status types.StatusResult
	query(t, app, ballot.QueryStatus, "", 0, &status)
	if status.CandidatesCount != 0 {
		t.Fatalf("candidates count want 0, got %d", status.CandidatesCount)
	}

	app.EndBlock(abciTypes.RequestEndBlock{Height: 1})
	app.Commit()

	query(t, app, ballot.QueryCandidates, "", 0, &candidates)
	if len(candidates) != 1 || candidates[0].Name != "Alice" {
		t.Fatalf("committed candidates want [Alice], got %+v", candidates)
	}
}

func TestCloseReleasesStorages(t *testing.T) {
	t.Parallel()
	_, owner := ballottest.GenerateKey(t)
	app, storage := ballottest.New(t, genesisFor(owner))
	ballottest.Block(app)

	if err := app.Close(); err != nil {
		t.Fatal(err)
	}
	if storage.StateDB() != nil || storage.EventDB() != nil || storage.AppDB() != nil {
		t.Fatal("databases are still held after close")
	}
	if err := app.Close(); err != nil {
		t.Fatalf("second close: %s", err)
	}
}
