package transaction

import (
	"fmt"

	"github.com/ballotchain/ballot-node/core/code"
	"github.com/ballotchain/ballot-node/core/state"
	"github.com/ballotchain/ballot-node/core/types"
)

// RequireOwner is the identity gate: nil when caller is the election owner.
// It reads only, so every administrative tx runs it before anything else.
func RequireOwner(caller types.Address, context *state.CheckState) *Response {
	if context.Election().IsOwner(caller) {
		return nil
	}

	owner := context.Election().Owner()
	return &Response{
		Code: code.Unauthorized,
		Log:  fmt.Sprintf("%s is not the election owner", caller.String()),
		Info: EncodeError(code.NewUnauthorized(owner.String(), caller.String())),
	}
}

func checkStateOf(context state.Interface) *state.CheckState {
	if checkState, isCheck := context.(*state.CheckState); isCheck {
		return checkState
	}
	return state.NewCheckState(context.(*state.State))
}
