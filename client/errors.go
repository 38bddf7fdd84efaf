package client

import (
	"fmt"

	"github.com/ballotchain/ballot-node/core/code"
)

// TxError is a failed transaction or query as reported by the node
type TxError struct {
	Code    uint32 `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Log     string `json:"log,omitempty"`
}

func NewTxError(c uint32, log string) *TxError {
	return &TxError{
		Code:    c,
		Kind:    code.Name(c),
		Message: code.Message(c),
		Log:     log,
	}
}

func (e *TxError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.Code, e.Message)
}

// IsKind reports whether err is a *TxError with the given code
func IsKind(err error, c uint32) bool {
	txErr, ok := err.(*TxError)
	return ok && txErr.Code == c
}
