package transaction

import (
	"fmt"
	"strconv"

	"github.com/ballotchain/ballot-node/core/code"
	"github.com/ballotchain/ballot-node/core/events"
	"github.com/ballotchain/ballot-node/core/state"
	"github.com/ballotchain/ballot-node/core/types"
	abcTypes "github.com/tendermint/tendermint/abci/types"
)

type AddCandidateData struct {
	Name string
}

func (data AddCandidateData) TxType() TxType {
	return TypeAddCandidate
}

func (data AddCandidateData) basicCheck(tx *Transaction, context *state.CheckState) *Response {
	if response := RequireOwner(tx.MustSender(), context); response != nil {
		return response
	}

	switch types.ValidateCandidateName(data.Name) {
	case nil:
		return nil
	case types.ErrEmptyCandidateName:
		return &Response{
			Code: code.EmptyCandidateName,
			Log:  "Candidate name is empty",
			Info: EncodeError(code.NewEmptyCandidateName()),
		}
	case types.ErrCandidateNameTooLong:
		return &Response{
			Code: code.CandidateNameTooLong,
			Log:  fmt.Sprintf("Candidate name is over %d bytes", types.MaxCandidateNameLength),
			Info: EncodeError(code.NewCandidateNameTooLong(strconv.Itoa(types.MaxCandidateNameLength), strconv.Itoa(len(data.Name)))),
		}
	default:
		return &Response{
			Code: code.InvalidCandidateName,
			Log:  "Candidate name is not valid UTF-8",
			Info: EncodeError(code.NewInvalidCandidateName()),
		}
	}
}

func (data AddCandidateData) String() string {
	return fmt.Sprintf("ADD CANDIDATE name:%s", data.Name)
}

func (data AddCandidateData) Run(tx *Transaction, context state.Interface, currentBlock uint64) Response {
	sender, _ := tx.Sender()

	response := data.basicCheck(tx, checkStateOf(context))
	if response != nil {
		return *response
	}

	var id uint32
	var tags []abcTypes.EventAttribute
	if deliverState, ok := context.(*state.State); ok {
		id = deliverState.Candidates.Create(data.Name)
		deliverState.Accounts.SetNonce(sender, tx.Nonce)
		deliverState.Events().AddEvent(uint32(currentBlock), &events.CandidateAddedEvent{ID: id, Name: data.Name})

		tags = []abcTypes.EventAttribute{
			{Key: []byte("tx.candidate_id"), Value: []byte(strconv.Itoa(int(id))), Index: true},
		}
	} else {
		id = context.(*state.CheckState).Candidates().Count() + 1
	}

	return Response{
		Code: code.OK,
		Data: []byte(strconv.Itoa(int(id))),
		Tags: tags,
	}
}
