package api

import (
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/ballotchain/ballot-node/core/ballot"
	"github.com/ballotchain/ballot-node/core/code"
	"github.com/gin-gonic/gin"
	abciTypes "github.com/tendermint/tendermint/abci/types"
)

// ErrorResponse is the body of every failed request carrying a node error code
type ErrorResponse struct {
	Code    uint32 `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Log     string `json:"log,omitempty"`
}

func newErrorResponse(c uint32, log string) ErrorResponse {
	return ErrorResponse{Code: c, Kind: code.Name(c), Message: code.Message(c), Log: log}
}

func httpStatus(c uint32) int {
	switch c {
	case code.InvalidCandidateID, code.StateNotFound:
		return http.StatusNotFound
	case code.UnknownQueryPath:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func (a *API) query(c *gin.Context, path string, data string) {
	height, ok := heightParam(c)
	if !ok {
		return
	}

	response := a.querier.Query(abciTypes.RequestQuery{Path: path, Data: []byte(data), Height: height})
	if response.Code != code.OK {
		c.JSON(httpStatus(response.Code), newErrorResponse(response.Code, response.Log))
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", response.Value)
}

func (a *API) owner(c *gin.Context) {
	a.query(c, ballot.QueryOwner, "")
}

func (a *API) status(c *gin.Context) {
	a.query(c, ballot.QueryStatus, "")
}

func (a *API) active(c *gin.Context) {
	a.query(c, ballot.QueryActive, "")
}

func (a *API) candidates(c *gin.Context) {
	a.query(c, ballot.QueryCandidates, "")
}

func (a *API) candidate(c *gin.Context) {
	a.query(c, ballot.QueryCandidate, c.Param("id"))
}

func (a *API) voter(c *gin.Context) {
	a.query(c, ballot.QueryVoter, c.Param("address"))
}

func (a *API) nonce(c *gin.Context) {
	a.query(c, ballot.QueryNonce, c.Param("address"))
}

func (a *API) events(c *gin.Context) {
	a.query(c, ballot.QueryEvents, "")
}

type sendTransactionRequest struct {
	Tx string `json:"tx" binding:"required"`
}

type SendTransactionResponse struct {
	Code uint32 `json:"code"`
	Hash string `json:"hash"`
	Data string `json:"data,omitempty"`
}

func (a *API) sendTransaction(c *gin.Context) {
	var req sendTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse(code.DecodeError, err.Error()))
		return
	}

	tx, err := hex.DecodeString(strings.TrimPrefix(req.Tx, "0x"))
	if err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse(code.DecodeError, err.Error()))
		return
	}

	result, err := a.broadcaster.BroadcastTxSync(c.Request.Context(), tx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": map[string]string{
				"message": err.Error(),
			},
		})
		return
	}

	if result.Code != code.OK {
		c.JSON(http.StatusBadRequest, newErrorResponse(result.Code, result.Log))
		return
	}

	c.JSON(http.StatusOK, SendTransactionResponse{
		Code: result.Code,
		Hash: "0x" + strings.ToLower(result.Hash.String()),
		Data: string(result.Data),
	})
}
