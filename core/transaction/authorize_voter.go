package transaction

import (
	"encoding/hex"
	"fmt"

	"github.com/ballotchain/ballot-node/core/code"
	"github.com/ballotchain/ballot-node/core/events"
	"github.com/ballotchain/ballot-node/core/state"
	"github.com/ballotchain/ballot-node/core/types"
	abcTypes "github.com/tendermint/tendermint/abci/types"
)

type AuthorizeVoterData struct {
	Address types.Address
}

func (data AuthorizeVoterData) TxType() TxType {
	return TypeAuthorizeVoter
}

func (data AuthorizeVoterData) String() string {
	return fmt.Sprintf("AUTHORIZE VOTER address:%s", data.Address.String())
}

func (data AuthorizeVoterData) Run(tx *Transaction, context state.Interface, currentBlock uint64) Response {
	sender, _ := tx.Sender()

	if response := RequireOwner(sender, checkStateOf(context)); response != nil {
		return *response
	}

	var tags []abcTypes.EventAttribute
	if deliverState, ok := context.(*state.State); ok {
		if deliverState.Voters.Authorize(data.Address) {
			deliverState.Events().AddEvent(uint32(currentBlock), &events.VoterAuthorizedEvent{Address: data.Address})
		}
		deliverState.Accounts.SetNonce(sender, tx.Nonce)

		tags = []abcTypes.EventAttribute{
			{Key: []byte("tx.voter"), Value: []byte(hex.EncodeToString(data.Address[:])), Index: true},
		}
	}

	return Response{
		Code: code.OK,
		Tags: tags,
	}
}
