package events

import (
	"github.com/ballotchain/ballot-node/core/types"
)

// Event type names
const (
	TypeCandidateAddedEvent  = "ballot/CandidateAddedEvent"
	TypeVoterAuthorizedEvent = "ballot/VoterAuthorizedEvent"
	TypeElectionStartedEvent = "ballot/ElectionStartedEvent"
	TypeElectionEndedEvent   = "ballot/ElectionEndedEvent"
	TypeVoteCastEvent        = "ballot/VoteCastEvent"
)

type Event interface {
	Type() string
	convert(addressID func([20]byte) uint32) compactEvent
}

type compactEvent interface {
	compile(address func(uint32) [20]byte) Event
}

type Events []Event

type candidateAdded struct {
	ID   uint32
	Name string
}

func (c *candidateAdded) compile(func(uint32) [20]byte) Event {
	return &CandidateAddedEvent{ID: c.ID, Name: c.Name}
}

type CandidateAddedEvent struct {
	ID   uint32 `json:"id"`
	Name string `json:"name"`
}

func (ce *CandidateAddedEvent) Type() string {
	return TypeCandidateAddedEvent
}

func (ce *CandidateAddedEvent) convert(func([20]byte) uint32) compactEvent {
	return &candidateAdded{ID: ce.ID, Name: ce.Name}
}

type voterAuthorized struct {
	AddressID uint32
}

func (v *voterAuthorized) compile(address func(uint32) [20]byte) Event {
	return &VoterAuthorizedEvent{Address: address(v.AddressID)}
}

type VoterAuthorizedEvent struct {
	Address types.Address `json:"address"`
}

func (ve *VoterAuthorizedEvent) Type() string {
	return TypeVoterAuthorizedEvent
}

func (ve *VoterAuthorizedEvent) convert(addressID func([20]byte) uint32) compactEvent {
	return &voterAuthorized{AddressID: addressID(ve.Address)}
}

type electionStarted struct {
	OwnerID uint32
}

func (e *electionStarted) compile(address func(uint32) [20]byte) Event {
	return &ElectionStartedEvent{Owner: address(e.OwnerID)}
}

type ElectionStartedEvent struct {
	Owner types.Address `json:"owner"`
}

func (ee *ElectionStartedEvent) Type() string {
	return TypeElectionStartedEvent
}

func (ee *ElectionStartedEvent) convert(addressID func([20]byte) uint32) compactEvent {
	return &electionStarted{OwnerID: addressID(ee.Owner)}
}

type electionEnded struct {
	OwnerID uint32
}

func (e *electionEnded) compile(address func(uint32) [20]byte) Event {
	return &ElectionEndedEvent{Owner: address(e.OwnerID)}
}

type ElectionEndedEvent struct {
	Owner types.Address `json:"owner"`
}

func (ee *ElectionEndedEvent) Type() string {
	return TypeElectionEndedEvent
}

func (ee *ElectionEndedEvent) convert(addressID func([20]byte) uint32) compactEvent {
	return &electionEnded{OwnerID: addressID(ee.Owner)}
}

type voteCast struct {
	AddressID   uint32
	CandidateID uint32
}

func (v *voteCast) compile(address func(uint32) [20]byte) Event {
	return &VoteCastEvent{Address: address(v.AddressID), CandidateID: v.CandidateID}
}

type VoteCastEvent struct {
	Address     types.Address `json:"address"`
	CandidateID uint32        `json:"candidate_id"`
}

func (ve *VoteCastEvent) Type() string {
	return TypeVoteCastEvent
}

func (ve *VoteCastEvent) convert(addressID func([20]byte) uint32) compactEvent {
	return &voteCast{AddressID: addressID(ve.Address), CandidateID: ve.CandidateID}
}
