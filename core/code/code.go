package code

import (
	"strconv"
)

// Codes for transaction checks and delivers responses
const (
	// general
	OK                           uint32 = 0
	WrongNonce                   uint32 = 101
	TxTooLarge                   uint32 = 105
	DecodeError                  uint32 = 106
	TxPayloadTooLarge            uint32 = 109
	TxFromSenderAlreadyInMempool uint32 = 113
	WrongChainID                 uint32 = 115
	UnknownTransactionType       uint32 = 116

	// owner
	Unauthorized uint32 = 401

	// voter
	NotAuthorized uint32 = 501
	AlreadyVoted  uint32 = 502

	// candidate
	InvalidCandidateID   uint32 = 601
	EmptyCandidateName   uint32 = 602
	CandidateNameTooLong uint32 = 603
	InvalidCandidateName uint32 = 604

	// election
	ElectionNotActive uint32 = 701

	// query
	UnknownQueryPath uint32 = 901
	InvalidQueryData uint32 = 902
	StateNotFound    uint32 = 903
)

var names = map[uint32]string{
	OK:                           "OK",
	WrongNonce:                   "WrongNonce",
	TxTooLarge:                   "TxTooLarge",
	DecodeError:                  "DecodeError",
	TxPayloadTooLarge:            "TxPayloadTooLarge",
	TxFromSenderAlreadyInMempool: "TxFromSenderAlreadyInMempool",
	WrongChainID:                 "WrongChainID",
	UnknownTransactionType:       "UnknownTransactionType",
	Unauthorized:                 "Unauthorized",
	NotAuthorized:                "NotAuthorized",
	AlreadyVoted:                 "AlreadyVoted",
	InvalidCandidateID:           "InvalidCandidateId",
	EmptyCandidateName:           "EmptyCandidateName",
	CandidateNameTooLong:         "CandidateNameTooLong",
	InvalidCandidateName:         "InvalidCandidateName",
	ElectionNotActive:            "ElectionNotActive",
	UnknownQueryPath:             "UnknownQueryPath",
	InvalidQueryData:             "InvalidQueryData",
	StateNotFound:                "StateNotFound",
}

var messages = map[uint32]string{
	OK:                           "Success",
	WrongNonce:                   "Transaction nonce does not follow the account nonce",
	TxTooLarge:                   "Transaction is too large",
	DecodeError:                  "Transaction can not be decoded",
	TxPayloadTooLarge:            "Transaction payload is too large",
	TxFromSenderAlreadyInMempool: "Sender already has a transaction waiting in the mempool",
	WrongChainID:                 "Transaction is signed for another network",
	UnknownTransactionType:       "Transaction type is not supported",
	Unauthorized:                 "Only the election owner can do this",
	NotAuthorized:                "You are not authorized to vote",
	AlreadyVoted:                 "You have already voted",
	InvalidCandidateID:           "Candidate does not exist",
	EmptyCandidateName:           "Candidate name can not be empty",
	CandidateNameTooLong:         "Candidate name is too long",
	InvalidCandidateName:         "Candidate name is not valid UTF-8",
	ElectionNotActive:            "The election is not active",
	UnknownQueryPath:             "Unknown query path",
	InvalidQueryData:             "Query data can not be parsed",
	StateNotFound:                "State for the requested height is not available",
}

// Name returns the stable kind of the code, "Unknown" for codes this node never returns
func Name(c uint32) string {
	if name, ok := names[c]; ok {
		return name
	}
	return "Unknown"
}

// Message returns a human readable description of the code
func Message(c uint32) string {
	if msg, ok := messages[c]; ok {
		return msg
	}
	return "Transaction failed with code " + strconv.Itoa(int(c))
}

type wrongNonce struct {
	Code          string `json:"code,omitempty"`
	ExpectedNonce string `json:"expected_nonce,omitempty"`
	GotNonce      string `json:"got_nonce,omitempty"`
}

func NewWrongNonce(expectedNonce string, gotNonce string) *wrongNonce {
	return &wrongNonce{Code: strconv.Itoa(int(WrongNonce)), ExpectedNonce: expectedNonce, GotNonce: gotNonce}
}

type txTooLarge struct {
	Code        string `json:"code,omitempty"`
	MaxTxLength string `json:"max_tx_length,omitempty"`
	GotTxLength string `json:"got_tx_length,omitempty"`
}

func NewTxTooLarge(maxTxLength string, gotTxLength string) *txTooLarge {
	return &txTooLarge{Code: strconv.Itoa(int(TxTooLarge)), MaxTxLength: maxTxLength, GotTxLength: gotTxLength}
}

type decodeError struct {
	Code string `json:"code,omitempty"`
}

func NewDecodeError() *decodeError {
	return &decodeError{Code: strconv.Itoa(int(DecodeError))}
}

type txPayloadTooLarge struct {
	Code             string `json:"code,omitempty"`
	MaxPayloadLength string `json:"max_payload_length,omitempty"`
	GotPayloadLength string `json:"got_payload_length,omitempty"`
}

func NewTxPayloadTooLarge(maxPayloadLength string, gotPayloadLength string) *txPayloadTooLarge {
	return &txPayloadTooLarge{Code: strconv.Itoa(int(TxPayloadTooLarge)), MaxPayloadLength: maxPayloadLength, GotPayloadLength: gotPayloadLength}
}

type txFromSenderAlreadyInMempool struct {
	Code   string `json:"code,omitempty"`
	Sender string `json:"sender,omitempty"`
}

func NewTxFromSenderAlreadyInMempool(sender string) *txFromSenderAlreadyInMempool {
	return &txFromSenderAlreadyInMempool{Code: strconv.Itoa(int(TxFromSenderAlreadyInMempool)), Sender: sender}
}

type wrongChainID struct {
	Code             string `json:"code,omitempty"`
	CurrentChainId   string `json:"current_chain_id,omitempty"`
	CurrentChainName string `json:"current_chain_name,omitempty"`
	GotChainId       string `json:"got_chain_id,omitempty"`
}

func NewWrongChainID(currentChainId string, currentChainName string, gotChainId string) *wrongChainID {
	return &wrongChainID{Code: strconv.Itoa(int(WrongChainID)), CurrentChainId: currentChainId, CurrentChainName: currentChainName, GotChainId: gotChainId}
}

type unknownTransactionType struct {
	Code string `json:"code,omitempty"`
	Type string `json:"type,omitempty"`
}

func NewUnknownTransactionType(txType string) *unknownTransactionType {
	return &unknownTransactionType{Code: strconv.Itoa(int(UnknownTransactionType)), Type: txType}
}

type unauthorized struct {
	Code   string `json:"code,omitempty"`
	Owner  string `json:"owner,omitempty"`
	Sender string `json:"sender,omitempty"`
}

func NewUnauthorized(owner string, sender string) *unauthorized {
	return &unauthorized{Code: strconv.Itoa(int(Unauthorized)), Owner: owner, Sender: sender}
}

type notAuthorized struct {
	Code  string `json:"code,omitempty"`
	Voter string `json:"voter,omitempty"`
}

func NewNotAuthorized(voter string) *notAuthorized {
	return &notAuthorized{Code: strconv.Itoa(int(NotAuthorized)), Voter: voter}
}

type alreadyVoted struct {
	Code             string `json:"code,omitempty"`
	Voter            string `json:"voter,omitempty"`
	VotedCandidateID string `json:"voted_candidate_id,omitempty"`
}

func NewAlreadyVoted(voter string, votedCandidateID string) *alreadyVoted {
	return &alreadyVoted{Code: strconv.Itoa(int(AlreadyVoted)), Voter: voter, VotedCandidateID: votedCandidateID}
}

type invalidCandidateID struct {
	Code            string `json:"code,omitempty"`
	CandidateID     string `json:"candidate_id,omitempty"`
	CandidatesCount string `json:"candidates_count,omitempty"`
}

func NewInvalidCandidateID(candidateID string, candidatesCount string) *invalidCandidateID {
	return &invalidCandidateID{Code: strconv.Itoa(int(InvalidCandidateID)), CandidateID: candidateID, CandidatesCount: candidatesCount}
}

type emptyCandidateName struct {
	Code string `json:"code,omitempty"`
}

func NewEmptyCandidateName() *emptyCandidateName {
	return &emptyCandidateName{Code: strconv.Itoa(int(EmptyCandidateName))}
}

type candidateNameTooLong struct {
	Code          string `json:"code,omitempty"`
	MaxNameLength string `json:"max_name_length,omitempty"`
	GotNameLength string `json:"got_name_length,omitempty"`
}

func NewCandidateNameTooLong(maxNameLength string, gotNameLength string) *candidateNameTooLong {
	return &candidateNameTooLong{Code: strconv.Itoa(int(CandidateNameTooLong)), MaxNameLength: maxNameLength, GotNameLength: gotNameLength}
}

type invalidCandidateName struct {
	Code string `json:"code,omitempty"`
}

func NewInvalidCandidateName() *invalidCandidateName {
	return &invalidCandidateName{Code: strconv.Itoa(int(InvalidCandidateName))}
}

type electionNotActive struct {
	Code   string `json:"code,omitempty"`
	Status string `json:"status,omitempty"`
}

func NewElectionNotActive(status string) *electionNotActive {
	return &electionNotActive{Code: strconv.Itoa(int(ElectionNotActive)), Status: status}
}
