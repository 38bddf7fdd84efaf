// Package client is a typed binding to the election node over tendermint RPC.
package client

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/ballotchain/ballot-node/core/ballot"
	"github.com/ballotchain/ballot-node/core/code"
	"github.com/ballotchain/ballot-node/core/transaction"
	"github.com/ballotchain/ballot-node/core/types"
	"github.com/pkg/errors"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	rpchttp "github.com/tendermint/tendermint/rpc/client/http"
)

// Client reads the election state and sends signed transactions
type Client struct {
	rpc    rpcclient.ABCIClient
	height int64
}

func New(rpc rpcclient.ABCIClient) *Client {
	return &Client{rpc: rpc}
}

// NewHTTP connects to the tendermint RPC of a node, e.g. tcp://127.0.0.1:26657
func NewHTTP(remote string) (*Client, error) {
	rpc, err := rpchttp.New(remote, "/websocket")
	if err != nil {
		return nil, errors.Wrapf(err, "connect to %s", remote)
	}
	return New(rpc), nil
}

// AtHeight returns a client whose reads use the state committed at height
func (c *Client) AtHeight(height int64) *Client {
	return &Client{rpc: c.rpc, height: height}
}

func (c *Client) query(ctx context.Context, path string, data string, result interface{}) error {
	response, err := c.rpc.ABCIQueryWithOptions(ctx, path, []byte(data), rpcclient.ABCIQueryOptions{Height: c.height})
	if err != nil {
		return errors.Wrapf(err, "query %s", path)
	}
	if response.Response.Code != code.OK {
		return NewTxError(response.Response.Code, response.Response.Log)
	}
	if err := json.Unmarshal(response.Response.Value, result); err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	return nil
}

func (c *Client) Owner(ctx context.Context) (types.Address, error) {
	var result types.OwnerResult
	err := c.query(ctx, ballot.QueryOwner, "", &result)
	return result.Owner, err
}

func (c *Client) IsActive(ctx context.Context) (bool, error) {
	var result types.ActiveResult
	err := c.query(ctx, ballot.QueryActive, "", &result)
	return result.Active, err
}

func (c *Client) Status(ctx context.Context) (types.StatusResult, error) {
	var result types.StatusResult
	err := c.query(ctx, ballot.QueryStatus, "", &result)
	return result, err
}

func (c *Client) GetCandidate(ctx context.Context, id uint32) (types.CandidateResult, error) {
	var result types.CandidateResult
	err := c.query(ctx, ballot.QueryCandidate, strconv.FormatUint(uint64(id), 10), &result)
	return result, err
}

func (c *Client) GetAllCandidates(ctx context.Context) ([]types.CandidateResult, error) {
	var result []types.CandidateResult
	err := c.query(ctx, ballot.QueryCandidates, "", &result)
	return result, err
}

func (c *Client) GetVoterRecord(ctx context.Context, address types.Address) (types.VoterResult, error) {
	var result types.VoterResult
	err := c.query(ctx, ballot.QueryVoter, address.String(), &result)
	return result, err
}

func (c *Client) Nonce(ctx context.Context, address types.Address) (uint64, error) {
	var result types.NonceResult
	err := c.query(ctx, ballot.QueryNonce, address.String(), &result)
	return result.Nonce, err
}

// Events returns the events committed at the client height, the last block by default
func (c *Client) Events(ctx context.Context) (types.EventsResult, error) {
	var result types.EventsResult
	err := c.query(ctx, ballot.QueryEvents, "", &result)
	return result, err
}

// AddCandidate registers a candidate and returns its id
func (c *Client) AddCandidate(ctx context.Context, owner *Signer, name string) (uint32, error) {
	data, err := c.send(ctx, owner, transaction.AddCandidateData{Name: name})
	if err != nil {
		return 0, err
	}

	id, err := strconv.ParseUint(string(data), 10, 32)
	if err != nil {
		return 0, errors.Wrap(err, "decode candidate id")
	}
	return uint32(id), nil
}

func (c *Client) AuthorizeVoter(ctx context.Context, owner *Signer, voter types.Address) error {
	_, err := c.send(ctx, owner, transaction.AuthorizeVoterData{Address: voter})
	return err
}

func (c *Client) StartElection(ctx context.Context, owner *Signer) error {
	_, err := c.send(ctx, owner, transaction.StartElectionData{})
	return err
}

func (c *Client) EndElection(ctx context.Context, owner *Signer) error {
	_, err := c.send(ctx, owner, transaction.EndElectionData{})
	return err
}

func (c *Client) Vote(ctx context.Context, voter *Signer, candidateID uint32) error {
	_, err := c.send(ctx, voter, transaction.VoteData{CandidateID: candidateID})
	return err
}

// send signs data with the next nonce of signer and waits for the block
func (c *Client) send(ctx context.Context, signer *Signer, data transaction.Data) ([]byte, error) {
	nonce, err := c.AtHeight(0).Nonce(ctx, signer.Address())
	if err != nil {
		return nil, err
	}

	tx, err := signer.Sign(nonce+1, data)
	if err != nil {
		return nil, err
	}

	result, err := c.rpc.BroadcastTxCommit(ctx, tx)
	if err != nil {
		return nil, errors.Wrap(err, "broadcast transaction")
	}
	if result.CheckTx.Code != code.OK {
		return nil, NewTxError(result.CheckTx.Code, result.CheckTx.Log)
	}
	if result.DeliverTx.Code != code.OK {
		return nil, NewTxError(result.DeliverTx.Code, result.DeliverTx.Log)
	}

	return result.DeliverTx.Data, nil
}
