package bus

type Checker interface {
	AddVote(candidateID uint32)
	AddBallot(candidateID uint32)
}
