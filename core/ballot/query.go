package ballot

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ballotchain/ballot-node/core/code"
	eventsdb "github.com/ballotchain/ballot-node/core/events"
	"github.com/ballotchain/ballot-node/core/state"
	"github.com/ballotchain/ballot-node/core/transaction"
	"github.com/ballotchain/ballot-node/core/types"
	abciTypes "github.com/tendermint/tendermint/abci/types"
	tmjson "github.com/tendermint/tendermint/libs/json"
)

// Query paths
const (
	QueryOwner      = "/owner"
	QueryStatus     = "/status"
	QueryActive     = "/active"
	QueryCandidates = "/candidates"
	QueryCandidate  = "/candidate"
	QueryVoter      = "/voter"
	QueryNonce      = "/nonce"
	QueryEvents     = "/events"
	QueryExport     = "/export"
)

// Query serves read-only requests against committed state
func (blockchain *Blockchain) Query(req abciTypes.RequestQuery) abciTypes.ResponseQuery {
	if req.Path == QueryEvents {
		return blockchain.queryEvents(req)
	}

	height := uint64(req.Height)
	cState, err := blockchain.queryState(height)
	if err != nil {
		return abciTypes.ResponseQuery{
			Code:   code.StateNotFound,
			Log:    fmt.Sprintf("state at height %d not found: %s", height, err),
			Height: req.Height,
		}
	}
	if height == 0 {
		height = blockchain.appDB.GetLastHeight()
	}

	var result interface{}
	switch req.Path {
	case QueryOwner:
		result = types.OwnerResult{Owner: cState.Election().Owner()}
	case QueryStatus:
		result = types.StatusResult{
			Status:                cState.Election().Status().String(),
			Active:                cState.Election().IsActive(),
			EnforceElectionWindow: cState.Election().EnforceWindow(),
			CandidatesCount:       cState.Candidates().Count(),
		}
	case QueryActive:
		result = types.ActiveResult{Active: cState.Election().IsActive()}
	case QueryCandidates:
		list := cState.Candidates().GetCandidates()
		candidates := make([]types.CandidateResult, 0, len(list))
		for _, candidate := range list {
			candidates = append(candidates, types.CandidateResult{ID: candidate.ID, Name: candidate.GetName(), VoteCount: candidate.GetVoteCount()})
		}
		result = candidates
	case QueryCandidate:
		id, err := strconv.ParseUint(strings.TrimSpace(string(req.Data)), 10, 32)
		if err != nil {
			return invalidQueryData(req, err)
		}
		candidate := cState.Candidates().GetCandidate(uint32(id))
		if candidate == nil {
			count := cState.Candidates().Count()
			return abciTypes.ResponseQuery{
				Code:   code.InvalidCandidateID,
				Log:    fmt.Sprintf("Candidate %d not found", id),
				Info:   transaction.EncodeError(code.NewInvalidCandidateID(strconv.FormatUint(id, 10), strconv.FormatUint(uint64(count), 10))),
				Height: int64(height),
			}
		}
		result = types.CandidateResult{ID: candidate.ID, Name: candidate.GetName(), VoteCount: candidate.GetVoteCount()}
	case QueryVoter:
		address, err := types.ParseAddress(strings.TrimSpace(string(req.Data)))
		if err != nil {
			return invalidQueryData(req, err)
		}
		record := cState.Voters().Get(address)
		result = types.VoterResult{
			Address:          address,
			Authorized:       record.Authorized,
			Voted:            record.Voted,
			VotedCandidateID: record.VotedCandidateID,
		}
	case QueryNonce:
		address, err := types.ParseAddress(strings.TrimSpace(string(req.Data)))
		if err != nil {
			return invalidQueryData(req, err)
		}
		result = types.NonceResult{Address: address, Nonce: cState.Accounts().GetNonce(address)}
	case QueryExport:
		value, err := tmjson.Marshal(cState.Export())
		if err != nil {
			panic(err)
		}
		return abciTypes.ResponseQuery{Value: value, Height: int64(height)}
	default:
		return abciTypes.ResponseQuery{
			Code: code.UnknownQueryPath,
			Log:  fmt.Sprintf("Unknown query path %q", req.Path),
		}
	}

	value, err := json.Marshal(result)
	if err != nil {
		panic(err)
	}

	return abciTypes.ResponseQuery{Value: value, Height: int64(height)}
}

func (blockchain *Blockchain) queryEvents(req abciTypes.RequestQuery) abciTypes.ResponseQuery {
	height := uint64(req.Height)
	if height == 0 {
		height = blockchain.appDB.GetLastHeight()
	}

	result := EventsResult(height, blockchain.eventsDB.LoadEvents(uint32(height)))
	value, err := json.Marshal(result)
	if err != nil {
		panic(err)
	}

	return abciTypes.ResponseQuery{Value: value, Height: int64(height)}
}

// EventsResult converts the events of a block to their JSON form
func EventsResult(height uint64, events eventsdb.Events) types.EventsResult {
	result := types.EventsResult{Height: height, Events: make([]types.EventResult, 0, len(events))}
	for _, event := range events {
		value, err := json.Marshal(event)
		if err != nil {
			panic(err)
		}
		result.Events = append(result.Events, types.EventResult{Type: event.Type(), Value: value})
	}
	return result
}

// queryState returns the state committed at height, zero means the last committed block
func (blockchain *Blockchain) queryState(height uint64) (*state.CheckState, error) {
	if height != 0 {
		return blockchain.GetStateForHeight(height)
	}

	lastHeight := blockchain.appDB.GetLastHeight()
	if lastHeight == 0 || lastHeight == blockchain.InitialHeight() {
		blockchain.lock.RLock()
		defer blockchain.lock.RUnlock()

		if blockchain.genesisState == nil {
			return nil, fmt.Errorf("genesis is not imported")
		}
		return blockchain.genesisState, nil
	}

	return blockchain.GetStateForHeight(lastHeight)
}

func invalidQueryData(req abciTypes.RequestQuery, err error) abciTypes.ResponseQuery {
	return abciTypes.ResponseQuery{
		Code:   code.InvalidQueryData,
		Log:    fmt.Sprintf("Invalid data for %s: %s", req.Path, err),
		Height: req.Height,
	}
}
