package transaction

func getData(txType TxType) (Data, bool) {
	switch txType {
	case TypeAddCandidate:
		return &AddCandidateData{}, true
	case TypeAuthorizeVoter:
		return &AuthorizeVoterData{}, true
	case TypeStartElection:
		return &StartElectionData{}, true
	case TypeEndElection:
		return &EndElectionData{}, true
	case TypeVote:
		return &VoteData{}, true
	default:
		return nil, false
	}
}
