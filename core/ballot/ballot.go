package ballot

import (
	"sync"
	"sync/atomic"

	"github.com/ballotchain/ballot-node/core/state"
	"github.com/ballotchain/ballot-node/core/statistics"
	tmNode "github.com/tendermint/tendermint/node"
	rpc "github.com/tendermint/tendermint/rpc/client/local"
)

// RpcClient returns the local rpc client of the running Tendermint node
func (blockchain *Blockchain) RpcClient() *rpc.Local {
	return blockchain.rpcClient
}

// InitialHeight returns the height the chain state was imported at
func (blockchain *Blockchain) InitialHeight() uint64 {
	return blockchain.appDB.GetStartHeight()
}

// CurrentState returns a read-only view of the working state, used by CheckTx
func (blockchain *Blockchain) CurrentState() *state.CheckState {
	blockchain.lock.RLock()
	defer blockchain.lock.RUnlock()

	return blockchain.stateCheck
}

// GetStateForHeight returns immutable state for given height, zero means the latest one
func (blockchain *Blockchain) GetStateForHeight(height uint64) (*state.CheckState, error) {
	if height > 0 {
		s, err := state.NewCheckStateAtHeight(height, blockchain.storages.StateDB())
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return blockchain.CurrentState(), nil
}

// Height returns current height of the blockchain
func (blockchain *Blockchain) Height() uint64 {
	return atomic.LoadUint64(&blockchain.height)
}

// SetTmNode sets Tendermint node
func (blockchain *Blockchain) SetTmNode(node *tmNode.Node) {
	blockchain.rpcClient = rpc.New(node)
}

// RegisterObserver adds an observer notified after every commit
func (blockchain *Blockchain) RegisterObserver(observer Observer) {
	blockchain.lockObservers.Lock()
	defer blockchain.lockObservers.Unlock()

	blockchain.observers = append(blockchain.observers, observer)
}

// SetStatisticData used for collection statistics about blockchain operations
func (blockchain *Blockchain) SetStatisticData(statisticData *statistics.Data) *statistics.Data {
	blockchain.statisticData = statisticData
	return blockchain.statisticData
}

// StatisticData used for collection statistics about blockchain operations
func (blockchain *Blockchain) StatisticData() *statistics.Data {
	return blockchain.statisticData
}

func (blockchain *Blockchain) mempool() *sync.Map {
	blockchain.lock.RLock()
	defer blockchain.lock.RUnlock()

	return blockchain.currentMempool
}
