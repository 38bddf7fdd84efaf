package client

import (
	"context"
	"testing"

	"github.com/ballotchain/ballot-node/core/ballot/ballottest"
	"github.com/ballotchain/ballot-node/core/code"
	eventsdb "github.com/ballotchain/ballot-node/core/events"
	"github.com/ballotchain/ballot-node/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/rpc/client/mock"
)

func newTestClient(t *testing.T) (*Client, *Signer) {
	owner, err := GenerateKey()
	require.NoError(t, err)

	app, _ := ballottest.New(t, types.AppState{
		Owner:          owner.Address(),
		ElectionStatus: types.ElectionInactive.String(),
	})
	ballottest.Block(app)

	return New(mock.ABCIApp{App: ballottest.AutoCommit{Blockchain: app}}), owner
}

func TestClientElection(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, owner := newTestClient(t)

	voter, err := GenerateKey()
	require.NoError(t, err)

	gotOwner, err := c.Owner(ctx)
	require.NoError(t, err)
	assert.Equal(t, owner.Address(), gotOwner)

	id, err := c.AddCandidate(ctx, owner, "Alice")
	require.NoError(t, err)
	assert.EqualValues(t, 1, id)

	id, err = c.AddCandidate(ctx, owner, "Bob")
	require.NoError(t, err)
	assert.EqualValues(t, 2, id)

	require.NoError(t, c.AuthorizeVoter(ctx, owner, voter.Address()))
	require.NoError(t, c.StartElection(ctx, owner))

	active, err := c.IsActive(ctx)
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, c.Vote(ctx, voter, 2))

	events, err := c.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events.Events, 1)
	assert.Equal(t, eventsdb.TypeVoteCastEvent, events.Events[0].Type)

	candidate, err := c.GetCandidate(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, types.CandidateResult{ID: 2, Name: "Bob", VoteCount: 1}, candidate)

	record, err := c.GetVoterRecord(ctx, voter.Address())
	require.NoError(t, err)
	assert.True(t, record.Voted)
	assert.EqualValues(t, 2, record.VotedCandidateID)

	all, err := c.GetAllCandidates(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, c.EndElection(ctx, owner))
	status, err := c.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ended", status.Status)
	assert.False(t, status.Active)

	nonce, err := c.Nonce(ctx, owner.Address())
	require.NoError(t, err)
	assert.EqualValues(t, 5, nonce)
}

func TestClientErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, owner := newTestClient(t)

	stranger, err := GenerateKey()
	require.NoError(t, err)

	err = c.StartElection(ctx, stranger)
	require.Error(t, err)
	assert.True(t, IsKind(err, code.Unauthorized))

	txErr, ok := err.(*TxError)
	require.True(t, ok)
	assert.Equal(t, "Unauthorized", txErr.Kind)
	assert.NotEmpty(t, txErr.Message)

	err = c.Vote(ctx, stranger, 1)
	assert.True(t, IsKind(err, code.NotAuthorized))

	_, err = c.AddCandidate(ctx, owner, "   ")
	assert.True(t, IsKind(err, code.EmptyCandidateName))

	_, err = c.GetCandidate(ctx, 7)
	assert.True(t, IsKind(err, code.InvalidCandidateID))

	require.NoError(t, c.AuthorizeVoter(ctx, owner, stranger.Address()))
	_, err = c.AddCandidate(ctx, owner, "Alice")
	require.NoError(t, err)
	require.NoError(t, c.Vote(ctx, stranger, 1))
	assert.True(t, IsKind(c.Vote(ctx, stranger, 1), code.AlreadyVoted))
}

func TestClientHistoricalReads(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, owner := newTestClient(t)

	_, err := c.AddCandidate(ctx, owner, "Alice")
	require.NoError(t, err)

	// height 1 is the empty block committed before the first tx
	all, err := c.AtHeight(1).GetAllCandidates(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	all, err = c.GetAllCandidates(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSigner(t *testing.T) {
	t.Parallel()
	signer, err := GenerateKey()
	require.NoError(t, err)

	restored, err := KeyFromHex(signer.Hex())
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), restored.Address())

	_, err = KeyFromHex("0x1234")
	assert.Error(t, err)
	_, err = KeyFromHex("not hex")
	assert.Error(t, err)
}
