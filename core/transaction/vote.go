package transaction

import (
	"fmt"
	"strconv"

	"github.com/ballotchain/ballot-node/core/code"
	"github.com/ballotchain/ballot-node/core/events"
	"github.com/ballotchain/ballot-node/core/state"
	abcTypes "github.com/tendermint/tendermint/abci/types"
)

type VoteData struct {
	CandidateID uint32
}

func (data VoteData) TxType() TxType {
	return TypeVote
}

func (data VoteData) String() string {
	return fmt.Sprintf("VOTE candidate:%d", data.CandidateID)
}

func (data VoteData) basicCheck(tx *Transaction, context *state.CheckState) *Response {
	sender := tx.MustSender()
	record := context.Voters().Get(sender)

	if !record.Authorized {
		return &Response{
			Code: code.NotAuthorized,
			Log:  fmt.Sprintf("%s is not authorized to vote", sender.String()),
			Info: EncodeError(code.NewNotAuthorized(sender.String())),
		}
	}

	if record.Voted {
		return &Response{
			Code: code.AlreadyVoted,
			Log:  fmt.Sprintf("%s has already voted", sender.String()),
			Info: EncodeError(code.NewAlreadyVoted(sender.String(), strconv.Itoa(int(record.VotedCandidateID)))),
		}
	}

	if !context.Candidates().Exists(data.CandidateID) {
		return &Response{
			Code: code.InvalidCandidateID,
			Log:  fmt.Sprintf("Candidate %d does not exist", data.CandidateID),
			Info: EncodeError(code.NewInvalidCandidateID(strconv.Itoa(int(data.CandidateID)), strconv.Itoa(int(context.Candidates().Count())))),
		}
	}

	if election := context.Election(); election.EnforceWindow() && !election.IsActive() {
		return &Response{
			Code: code.ElectionNotActive,
			Log:  "Election is not active",
			Info: EncodeError(code.NewElectionNotActive(election.Status().String())),
		}
	}

	return nil
}

func (data VoteData) Run(tx *Transaction, context state.Interface, currentBlock uint64) Response {
	sender, _ := tx.Sender()

	response := data.basicCheck(tx, checkStateOf(context))
	if response != nil {
		return *response
	}

	var tags []abcTypes.EventAttribute
	if deliverState, ok := context.(*state.State); ok {
		deliverState.Voters.SetVoted(sender, data.CandidateID)
		deliverState.Candidates.AddVote(data.CandidateID)
		deliverState.Accounts.SetNonce(sender, tx.Nonce)
		deliverState.Events().AddEvent(uint32(currentBlock), &events.VoteCastEvent{Address: sender, CandidateID: data.CandidateID})

		tags = []abcTypes.EventAttribute{
			{Key: []byte("tx.candidate_id"), Value: []byte(strconv.Itoa(int(data.CandidateID))), Index: true},
		}
	}

	return Response{
		Code: code.OK,
		Tags: tags,
	}
}
