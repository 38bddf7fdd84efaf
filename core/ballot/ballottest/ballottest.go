// Package ballottest runs an in-memory election application for tests.
package ballottest

import (
	"testing"
	"time"

	"github.com/ballotchain/ballot-node/cmd/utils"
	"github.com/ballotchain/ballot-node/config"
	"github.com/ballotchain/ballot-node/core/ballot"
	"github.com/ballotchain/ballot-node/core/transaction"
	"github.com/ballotchain/ballot-node/core/types"
	"github.com/btcsuite/btcd/btcec"
	abciTypes "github.com/tendermint/tendermint/abci/types"
	tmjson "github.com/tendermint/tendermint/libs/json"
	tmlog "github.com/tendermint/tendermint/libs/log"
	tmproto "github.com/tendermint/tendermint/proto/tendermint/types"
)

// New imports genesis into a fresh application backed by memory databases
func New(t testing.TB, genesis types.AppState) (*ballot.Blockchain, *utils.Storage) {
	t.Helper()

	storage := utils.NewStorage(t.TempDir(), "")
	if err := storage.InitStorages(utils.MemDBBackend, 0); err != nil {
		t.Fatal(err)
	}

	app := ballot.NewBallotBlockchain(storage, config.DefaultConfig(), tmlog.NewNopLogger())

	appState, err := tmjson.Marshal(genesis)
	if err != nil {
		t.Fatal(err)
	}
	app.InitChain(abciTypes.RequestInitChain{AppStateBytes: appState, InitialHeight: 1})

	return app, storage
}

// Block runs one block with txs and commits it
func Block(app *ballot.Blockchain, txs ...[]byte) []abciTypes.ResponseDeliverTx {
	height := int64(app.Height()) + 1

	app.BeginBlock(abciTypes.RequestBeginBlock{Header: tmproto.Header{Height: height, Time: time.Unix(1600000000+height*5, 0)}})
	responses := make([]abciTypes.ResponseDeliverTx, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, app.DeliverTx(abciTypes.RequestDeliverTx{Tx: tx}))
	}
	app.EndBlock(abciTypes.RequestEndBlock{Height: height})
	app.Commit()

	return responses
}

// AutoCommit commits a block after every delivered tx, so a mock broadcast behaves like a real one
type AutoCommit struct {
	*ballot.Blockchain
}

func (a AutoCommit) DeliverTx(req abciTypes.RequestDeliverTx) abciTypes.ResponseDeliverTx {
	return Block(a.Blockchain, req.Tx)[0]
}

// GenerateKey returns a new secp256k1 key and its address
func GenerateKey(t testing.TB) (*btcec.PrivateKey, types.Address) {
	t.Helper()

	privateKey, err := btcec.NewPrivateKey(btcec.S256())
	if err != nil {
		t.Fatal(err)
	}
	return privateKey, transaction.PubKeyToAddress(privateKey.PubKey())
}

// SignTx builds a signed and encoded transaction
func SignTx(t testing.TB, privateKey *btcec.PrivateKey, nonce uint64, data transaction.Data) []byte {
	t.Helper()

	tx, err := transaction.NewTransaction(nonce, data, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := tx.Sign(privateKey); err != nil {
		t.Fatal(err)
	}
	encoded, err := tx.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	return encoded
}
