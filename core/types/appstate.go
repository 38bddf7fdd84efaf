package types

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxCandidateNameLength is the longest candidate name, in bytes
const MaxCandidateNameLength = 64

// ElectionStatus is the lifecycle phase of the election
type ElectionStatus byte

const (
	ElectionInactive ElectionStatus = iota
	ElectionActive
	ElectionEnded
)

func (s ElectionStatus) String() string {
	switch s {
	case ElectionInactive:
		return "inactive"
	case ElectionActive:
		return "active"
	case ElectionEnded:
		return "ended"
	}
	return fmt.Sprintf("unknown(%d)", byte(s))
}

func ParseElectionStatus(s string) (ElectionStatus, error) {
	switch s {
	case "", "inactive":
		return ElectionInactive, nil
	case "active":
		return ElectionActive, nil
	case "ended":
		return ElectionEnded, nil
	}
	return 0, fmt.Errorf("unknown election status %q", s)
}

var (
	ErrEmptyCandidateName   = errors.New("candidate name is empty")
	ErrCandidateNameTooLong = fmt.Errorf("candidate name is longer than %d bytes", MaxCandidateNameLength)
	ErrInvalidCandidateName = errors.New("candidate name is not valid utf-8")
)

// ValidateCandidateName returns one of the ErrXxxCandidateName errors for names a candidate can not be registered with
func ValidateCandidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyCandidateName
	}
	if len(name) > MaxCandidateNameLength {
		return ErrCandidateNameTooLong
	}
	// names are exported as JSON, which would rewrite invalid bytes
	if !utf8.ValidString(name) {
		return ErrInvalidCandidateName
	}
	return nil
}

type AppState struct {
	Note                  string      `json:"note"`
	Owner                 Address     `json:"owner"`
	ElectionStatus        string      `json:"election_status"`
	EnforceElectionWindow bool        `json:"enforce_election_window"`
	Candidates            []Candidate `json:"candidates,omitempty"`
	Voters                []Voter     `json:"voters,omitempty"`
	Accounts              []Account   `json:"accounts,omitempty"`
}

func (s *AppState) Verify() error {
	if s.Owner.IsZero() {
		return fmt.Errorf("owner address is not set")
	}

	if _, err := ParseElectionStatus(s.ElectionStatus); err != nil {
		return err
	}

	votes := make(map[uint32]uint64, len(s.Candidates))
	for i, c := range s.Candidates {
		if c.ID != uint32(i+1) {
			return fmt.Errorf("candidate ids should be sequential from 1, got %d at position %d", c.ID, i)
		}
		if err := ValidateCandidateName(c.Name); err != nil {
			return fmt.Errorf("candidate %d: %s", c.ID, err)
		}
		votes[c.ID] = c.VoteCount
	}

	voters := map[Address]struct{}{}
	for _, v := range s.Voters {
		// check for voters duplication
		if _, exists := voters[v.Address]; exists {
			return fmt.Errorf("duplicated voter %s", v.Address.String())
		}
		voters[v.Address] = struct{}{}

		if !v.Voted {
			if v.VotedCandidateID != 0 {
				return fmt.Errorf("voter %s has a candidate but has not voted", v.Address.String())
			}
			continue
		}

		if !v.Authorized {
			return fmt.Errorf("voter %s has voted but is not authorized", v.Address.String())
		}

		if _, ok := votes[v.VotedCandidateID]; !ok {
			return fmt.Errorf("voter %s voted for unknown candidate %d", v.Address.String(), v.VotedCandidateID)
		}

		if votes[v.VotedCandidateID] == 0 {
			return fmt.Errorf("candidate %d has less votes than ballots", v.VotedCandidateID)
		}
		votes[v.VotedCandidateID]--
	}

	for id, rest := range votes {
		if rest != 0 {
			return fmt.Errorf("candidate %d has %d votes without ballots", id, rest)
		}
	}

	accounts := map[Address]struct{}{}
	for _, acc := range s.Accounts {
		// check for account duplication
		if _, exists := accounts[acc.Address]; exists {
			return fmt.Errorf("duplicated account %s", acc.Address.String())
		}
		accounts[acc.Address] = struct{}{}
	}

	return nil
}

type Candidate struct {
	ID        uint32 `json:"id"`
	Name      string `json:"name"`
	VoteCount uint64 `json:"vote_count"`
}

type Voter struct {
	Address          Address `json:"address"`
	Authorized       bool    `json:"authorized"`
	Voted            bool    `json:"voted"`
	VotedCandidateID uint32  `json:"voted_candidate_id"`
}

type Account struct {
	Address Address `json:"address"`
	Nonce   uint64  `json:"nonce"`
}
