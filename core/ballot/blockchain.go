package ballot

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ballotchain/ballot-node/cmd/utils"
	"github.com/ballotchain/ballot-node/config"
	"github.com/ballotchain/ballot-node/core/appdb"
	eventsdb "github.com/ballotchain/ballot-node/core/events"
	"github.com/ballotchain/ballot-node/core/state"
	"github.com/ballotchain/ballot-node/core/statistics"
	"github.com/ballotchain/ballot-node/core/transaction"
	"github.com/ballotchain/ballot-node/core/types"
	l "github.com/ballotchain/ballot-node/log"
	"github.com/ballotchain/ballot-node/version"
	"github.com/cosmos/cosmos-sdk/types/errors"
	abciTypes "github.com/tendermint/tendermint/abci/types"
	tmjson "github.com/tendermint/tendermint/libs/json"
	tmlog "github.com/tendermint/tendermint/libs/log"
	rpc "github.com/tendermint/tendermint/rpc/client/local"
	db "github.com/tendermint/tm-db"
)

// Block params
const (
	blockMaxBytes = 1000000
	blockMaxGas   = -1
)

// Observer is notified with the events of every committed block
type Observer interface {
	OnCommit(height uint64, events eventsdb.Events)
}

// Blockchain is the election ABCI application
type Blockchain struct {
	abciTypes.BaseApplication

	logger tmlog.Logger

	executor      *transaction.Executor
	statisticData *statistics.Data

	appDB        *appdb.AppDB
	eventsDB     eventsdb.IEventsDB
	stateDeliver *state.State
	stateCheck   *state.CheckState
	genesisState *state.CheckState // imported genesis, served until the first block is saved
	height       uint64 // current Blockchain height

	// local rpc client for Tendermint
	rpcClient *rpc.Local

	// currentMempool is responsive for prevent sending multiple transactions from one address in one block
	currentMempool *sync.Map

	lockObservers sync.RWMutex
	observers     []Observer

	cfg      *config.Config
	storages *utils.Storage
	lock     sync.RWMutex
}

// NewBallotBlockchain creates Blockchain instance, should be only called once
func NewBallotBlockchain(storages *utils.Storage, cfg *config.Config, logger tmlog.Logger) *Blockchain {
	// Initiate Application DB. Used for persisting data like current block, start height, etc.
	applicationDB := appdb.NewAppDB(storages.AppDB())

	var eventsDB eventsdb.IEventsDB
	if !cfg.ValidatorMode {
		eventsDB = eventsdb.NewEventsStore(storages.EventDB())
	} else {
		eventsDB = &eventsdb.MockEvents{}
	}

	if logger == nil {
		logger = l.NewLogger(cfg)
	}

	app := &Blockchain{
		logger:         logger.With("module", "ballot"),
		appDB:          applicationDB,
		storages:       storages,
		eventsDB:       eventsDB,
		currentMempool: &sync.Map{},
		cfg:            cfg,
		executor:       transaction.NewExecutor(),
	}
	if applicationDB.GetStartHeight() != 0 || applicationDB.GetLastHeight() != 0 {
		app.initState()
	}
	return app
}

func (blockchain *Blockchain) initState() {
	initialHeight := blockchain.appDB.GetStartHeight()
	currentHeight := blockchain.appDB.GetLastHeight()

	stateDeliver, err := state.NewState(currentHeight,
		blockchain.storages.StateDB(),
		blockchain.eventsDB,
		blockchain.cfg.StateCacheSize,
		blockchain.cfg.KeepLastStates,
		initialHeight+1)
	if err != nil {
		panic(err)
	}

	height := currentHeight
	if height == 0 {
		height = initialHeight
	}
	atomic.StoreUint64(&blockchain.height, height)

	blockchain.lock.Lock()
	blockchain.stateDeliver = stateDeliver
	blockchain.stateCheck = state.NewCheckState(stateDeliver)
	blockchain.lock.Unlock()
}

// InitChain imports the genesis election state. Only called once.
func (blockchain *Blockchain) InitChain(req abciTypes.RequestInitChain) abciTypes.ResponseInitChain {
	var genesisState types.AppState
	if err := tmjson.Unmarshal(req.AppStateBytes, &genesisState); err != nil {
		panic(err)
	}

	if err := genesisState.Verify(); err != nil {
		panic(errors.Wrap(err, "genesis"))
	}

	var initialHeight uint64
	if req.InitialHeight > 1 {
		initialHeight = uint64(req.InitialHeight) - 1
	}

	blockchain.appDB.SetStartHeight(initialHeight)
	blockchain.initState()

	// genesis stays in the working tree and is saved with the first block
	if err := blockchain.stateDeliver.Import(genesisState); err != nil {
		panic(err)
	}
	if err := blockchain.stateDeliver.Check(); err != nil {
		panic(err)
	}

	genesisSnapshot, err := blockchain.genesisSnapshot(genesisState)
	if err != nil {
		panic(err)
	}
	blockchain.lock.Lock()
	blockchain.genesisState = genesisSnapshot
	blockchain.lock.Unlock()

	blockchain.appDB.SaveStartHeight()
	blockchain.statisticData.SetCandidatesCount(blockchain.stateDeliver.Candidates.Count())

	blockchain.logger.Info("Genesis imported", "owner", genesisState.Owner.String(), "candidates", len(genesisState.Candidates), "voters", len(genesisState.Voters))

	return abciTypes.ResponseInitChain{
		Validators: req.Validators,
	}
}

// BeginBlock signals the beginning of a block.
func (blockchain *Blockchain) BeginBlock(req abciTypes.RequestBeginBlock) abciTypes.ResponseBeginBlock {
	height := uint64(req.Header.Height)
	if blockchain.stateDeliver == nil {
		blockchain.initState()
	}

	blockchain.StatisticData().SetStartBlock(height, time.Now(), req.Header.Time)
	blockchain.appDB.AddBlocksTime(req.Header.Time)

	return abciTypes.ResponseBeginBlock{}
}

// EndBlock signals the end of a block
func (blockchain *Blockchain) EndBlock(req abciTypes.RequestEndBlock) abciTypes.ResponseEndBlock {
	height := uint64(req.Height)
	atomic.StoreUint64(&blockchain.height, height)

	blockchain.StatisticData().SetCandidatesCount(blockchain.stateDeliver.Candidates.Count())
	defer blockchain.StatisticData().SetEndBlockDuration(time.Now(), height)

	return abciTypes.ResponseEndBlock{
		ConsensusParamUpdates: &abciTypes.ConsensusParams{
			Block: &abciTypes.BlockParams{
				MaxBytes: blockMaxBytes,
				MaxGas:   blockMaxGas,
			},
		},
	}
}

// Info return application info. Used for synchronization between Tendermint and the app
func (blockchain *Blockchain) Info(_ abciTypes.RequestInfo) (resInfo abciTypes.ResponseInfo) {
	hash := blockchain.appDB.GetLastBlockHash()
	height := int64(blockchain.appDB.GetLastHeight())
	return abciTypes.ResponseInfo{
		Version:          version.Version,
		AppVersion:       version.AppVer,
		LastBlockHeight:  height,
		LastBlockAppHash: hash,
	}
}

// DeliverTx deliver a tx for full processing
func (blockchain *Blockchain) DeliverTx(req abciTypes.RequestDeliverTx) abciTypes.ResponseDeliverTx {
	response := blockchain.executor.RunTx(blockchain.stateDeliver, req.Tx, blockchain.Height()+1, nil, blockchain.cfg.ValidatorMode)

	if blockchain.statisticData != nil {
		if tx, err := transaction.DecodeFromBytes(req.Tx); err == nil {
			blockchain.statisticData.AddTx(tx.Type.String(), response.Code, tx.Type == transaction.TypeVote)
		}
	}

	return abciTypes.ResponseDeliverTx{
		Code: response.Code,
		Data: response.Data,
		Log:  response.Log,
		Info: response.Info,
		Events: []abciTypes.Event{
			{
				Type:       "tags",
				Attributes: response.Tags,
			},
		},
	}
}

// CheckTx validates a tx for the mempool
func (blockchain *Blockchain) CheckTx(req abciTypes.RequestCheckTx) abciTypes.ResponseCheckTx {
	response := blockchain.executor.RunTx(blockchain.CurrentState(), req.Tx, blockchain.Height()+1, blockchain.mempool(), true)

	return abciTypes.ResponseCheckTx{
		Code: response.Code,
		Data: response.Data,
		Log:  response.Log,
		Info: response.Info,
	}
}

// Commit the state and return the application Merkle root hash
func (blockchain *Blockchain) Commit() abciTypes.ResponseCommit {
	height := blockchain.Height()

	if err := blockchain.stateDeliver.Check(); err != nil {
		panic(errors.Wrap(err, fmt.Sprintf("height %d", height)))
	}

	// Flush events db
	if err := blockchain.eventsDB.CommitEvents(uint32(height)); err != nil {
		panic(err)
	}

	// Committing election state
	hash, err := blockchain.stateDeliver.Commit()
	if err != nil {
		panic(err)
	}

	{ // Persist application hash and height
		blockchain.appDB.SetLastBlockHash(hash)
		blockchain.appDB.SetLastHeight(height)
		blockchain.appDB.SaveBlocksTime()
	}

	// Clear mempool
	blockchain.lock.Lock()
	blockchain.currentMempool = &sync.Map{}
	blockchain.genesisState = nil
	blockchain.lock.Unlock()

	blockchain.notifyObservers(height)

	return abciTypes.ResponseCommit{
		Data: hash,
	}
}

func (blockchain *Blockchain) notifyObservers(height uint64) {
	blockchain.lockObservers.RLock()
	defer blockchain.lockObservers.RUnlock()

	if len(blockchain.observers) == 0 {
		return
	}

	committed := blockchain.eventsDB.LoadEvents(uint32(height))
	for _, observer := range blockchain.observers {
		observer.OnCommit(height, committed)
	}
}

// genesisSnapshot imports genesis into a separate in-memory tree, so queries never see the block being delivered
func (blockchain *Blockchain) genesisSnapshot(genesis types.AppState) (*state.CheckState, error) {
	snapshot, err := state.NewState(0, db.NewMemDB(), &eventsdb.MockEvents{}, blockchain.cfg.StateCacheSize, 1, blockchain.appDB.GetStartHeight()+1)
	if err != nil {
		return nil, err
	}
	if err := snapshot.Import(genesis); err != nil {
		return nil, err
	}
	return state.NewCheckState(snapshot), nil
}

// Close closes db connections
func (blockchain *Blockchain) Close() error {
	return blockchain.storages.Close()
}
