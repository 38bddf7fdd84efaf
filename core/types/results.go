package types

import "encoding/json"

// Query results shared by the node, the API and the client binding.

type OwnerResult struct {
	Owner Address `json:"owner"`
}

type StatusResult struct {
	Status                string `json:"status"`
	Active                bool   `json:"active"`
	EnforceElectionWindow bool   `json:"enforce_election_window"`
	CandidatesCount       uint32 `json:"candidates_count"`
}

type ActiveResult struct {
	Active bool `json:"active"`
}

type CandidateResult struct {
	ID        uint32 `json:"id"`
	Name      string `json:"name"`
	VoteCount uint64 `json:"vote_count"`
}

type VoterResult struct {
	Address          Address `json:"address"`
	Authorized       bool    `json:"authorized"`
	Voted            bool    `json:"voted"`
	VotedCandidateID uint32  `json:"voted_candidate_id"`
}

type NonceResult struct {
	Address Address `json:"address"`
	Nonce   uint64  `json:"nonce"`
}

type EventResult struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

type EventsResult struct {
	Height uint64        `json:"height"`
	Events []EventResult `json:"events"`
}
