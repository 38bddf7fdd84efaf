package transaction

import (
	"github.com/ballotchain/ballot-node/core/code"
	"github.com/ballotchain/ballot-node/core/events"
	"github.com/ballotchain/ballot-node/core/state"
)

type StartElectionData struct{}

func (data StartElectionData) TxType() TxType {
	return TypeStartElection
}

func (data StartElectionData) String() string {
	return "START ELECTION"
}

func (data StartElectionData) Run(tx *Transaction, context state.Interface, currentBlock uint64) Response {
	sender, _ := tx.Sender()

	if response := RequireOwner(sender, checkStateOf(context)); response != nil {
		return *response
	}

	if deliverState, ok := context.(*state.State); ok {
		if deliverState.Election.Start() {
			deliverState.Events().AddEvent(uint32(currentBlock), &events.ElectionStartedEvent{Owner: sender})
		}
		deliverState.Accounts.SetNonce(sender, tx.Nonce)
	}

	return Response{Code: code.OK}
}

type EndElectionData struct{}

func (data EndElectionData) TxType() TxType {
	return TypeEndElection
}

func (data EndElectionData) String() string {
	return "END ELECTION"
}

func (data EndElectionData) Run(tx *Transaction, context state.Interface, currentBlock uint64) Response {
	sender, _ := tx.Sender()

	if response := RequireOwner(sender, checkStateOf(context)); response != nil {
		return *response
	}

	if deliverState, ok := context.(*state.State); ok {
		if deliverState.Election.End() {
			deliverState.Events().AddEvent(uint32(currentBlock), &events.ElectionEndedEvent{Owner: sender})
		}
		deliverState.Accounts.SetNonce(sender, tx.Nonce)
	}

	return Response{Code: code.OK}
}
