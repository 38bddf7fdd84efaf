package transaction

import (
	"sync"
	"testing"

	eventsdb "github.com/ballotchain/ballot-node/core/events"
	"github.com/ballotchain/ballot-node/core/state"
	"github.com/ballotchain/ballot-node/core/types"
	"github.com/btcsuite/btcd/btcec"
	db "github.com/tendermint/tm-db"
)

func getState() *state.State {
	s, err := state.NewState(0, db.NewMemDB(), eventsdb.NewEventsStore(db.NewMemDB()), 1, 1, 0)
	if err != nil {
		panic(err)
	}

	return s
}

func checkState(cState *state.State) error {
	if err := cState.Check(); err != nil {
		return err
	}

	_, err := cState.Commit()
	if err != nil {
		return err
	}

	exportedState := cState.Export()
	if err := exportedState.Verify(); err != nil {
		return err
	}

	return nil
}

func generateKey(t *testing.T) (*btcec.PrivateKey, types.Address) {
	privateKey, err := btcec.NewPrivateKey(btcec.S256())
	if err != nil {
		t.Fatal(err)
	}
	return privateKey, PubKeyToAddress(privateKey.PubKey())
}

func makeTx(t *testing.T, privateKey *btcec.PrivateKey, nonce uint64, data Data) []byte {
	tx, err := NewTransaction(nonce, data, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := tx.Sign(privateKey); err != nil {
		t.Fatal(err)
	}

	encodedTx, err := tx.Serialize()
	if err != nil {
		t.Fatal(err)
	}

	return encodedTx
}

func runTx(cState state.Interface, rawTx []byte) Response {
	return NewExecutor().RunTx(cState, rawTx, 1, &sync.Map{}, false)
}

// ownedState returns a state whose owner is the returned key
func ownedState(t *testing.T) (*state.State, *btcec.PrivateKey, types.Address) {
	cState := getState()
	privateKey, owner := generateKey(t)
	cState.Election.SetOwner(owner)
	return cState, privateKey, owner
}
