package transaction

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	abcTypes "github.com/tendermint/tendermint/abci/types"

	"github.com/ballotchain/ballot-node/core/code"
	"github.com/ballotchain/ballot-node/core/state"
	"github.com/ballotchain/ballot-node/core/types"
)

const (
	maxPayloadLength = 1024
	maxTxLength      = 1024 + maxPayloadLength
)

// Response represents standard response from tx delivery/check
type Response struct {
	Code uint32                    `json:"code,omitempty"`
	Data []byte                    `json:"data,omitempty"`
	Log  string                    `json:"log,omitempty"`
	Info string                    `json:"-"`
	Tags []abcTypes.EventAttribute `json:"tags,omitempty"`
}

type Executor struct {
	decodeTxFunc func(buf []byte) (*Transaction, error)
}

func NewExecutor() *Executor {
	return &Executor{decodeTxFunc: DecodeFromBytes}
}

// RunTx executes transaction in given context
func (e *Executor) RunTx(context state.Interface, rawTx []byte, currentBlock uint64, currentMempool *sync.Map, notSaveTags bool) Response {
	lenRawTx := len(rawTx)
	if lenRawTx > maxTxLength {
		return Response{
			Code: code.TxTooLarge,
			Log:  fmt.Sprintf("TX length is over %d bytes", maxTxLength),
			Info: EncodeError(code.NewTxTooLarge(fmt.Sprintf("%d", maxTxLength), fmt.Sprintf("%d", lenRawTx))),
		}
	}

	tx, err := e.decodeTxFunc(rawTx)
	if err != nil {
		return Response{
			Code: code.DecodeError,
			Log:  err.Error(),
			Info: EncodeError(code.NewDecodeError()),
		}
	}

	if tx.ChainID != types.CurrentChainID {
		return Response{
			Code: code.WrongChainID,
			Log:  "Wrong chain id",
			Info: EncodeError(code.NewWrongChainID(fmt.Sprintf("%d", types.CurrentChainID), types.CurrentChainID.String(), fmt.Sprintf("%d", tx.ChainID))),
		}
	}

	var checkState *state.CheckState
	var isCheck bool
	if checkState, isCheck = context.(*state.CheckState); !isCheck {
		checkState = state.NewCheckState(context.(*state.State))
	}

	lenPayload := len(tx.Payload)
	if lenPayload > maxPayloadLength {
		return Response{
			Code: code.TxPayloadTooLarge,
			Log:  fmt.Sprintf("TX payload length is over %d bytes", maxPayloadLength),
			Info: EncodeError(code.NewTxPayloadTooLarge(fmt.Sprintf("%d", maxPayloadLength), fmt.Sprintf("%d", lenPayload))),
		}
	}

	sender, err := tx.Sender()
	if err != nil {
		return Response{
			Code: code.DecodeError,
			Log:  err.Error(),
			Info: EncodeError(code.NewDecodeError()),
		}
	}

	if expectedNonce := checkState.Accounts().GetNonce(sender) + 1; expectedNonce != tx.Nonce {
		return Response{
			Code: code.WrongNonce,
			Log:  fmt.Sprintf("Unexpected nonce. Expected: %d, got %d.", expectedNonce, tx.Nonce),
			Info: EncodeError(code.NewWrongNonce(fmt.Sprintf("%d", expectedNonce), fmt.Sprintf("%d", tx.Nonce))),
		}
	}

	response := tx.decodedData.Run(tx, context, currentBlock)
	if response.Code == code.OK && isCheck && currentMempool != nil {
		// check if mempool already has transactions from this address
		if _, has := currentMempool.LoadOrStore(sender, true); has {
			return Response{
				Code: code.TxFromSenderAlreadyInMempool,
				Log:  fmt.Sprintf("Tx from %s already exists in mempool", sender.String()),
				Info: EncodeError(code.NewTxFromSenderAlreadyInMempool(sender.String())),
			}
		}
	}

	if notSaveTags || isCheck {
		response.Tags = nil
	} else {
		response.Tags = append(response.Tags,
			abcTypes.EventAttribute{Key: []byte("tx.from"), Value: []byte(hex.EncodeToString(sender[:])), Index: true},
			abcTypes.EventAttribute{Key: []byte("tx.type"), Value: []byte(hex.EncodeToString([]byte{byte(tx.decodedData.TxType())})), Index: true},
		)
	}

	return response
}

// EncodeError encodes error to json
func EncodeError(data interface{}) string {
	marshaled, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}
	return string(marshaled)
}
