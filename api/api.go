// Package api serves the election state over HTTP.
package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ballotchain/ballot-node/config"
	"github.com/ballotchain/ballot-node/core/statistics"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/handlers"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	abciTypes "github.com/tendermint/tendermint/abci/types"
	tmlog "github.com/tendermint/tendermint/libs/log"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmTypes "github.com/tendermint/tendermint/types"
	"golang.org/x/sync/semaphore"
)

// Querier answers ABCI queries against committed state
type Querier interface {
	Query(req abciTypes.RequestQuery) abciTypes.ResponseQuery
}

// Broadcaster submits raw transactions to the mempool
type Broadcaster interface {
	BroadcastTxSync(ctx context.Context, tx tmTypes.Tx) (*ctypes.ResultBroadcastTx, error)
}

type API struct {
	querier     Querier
	broadcaster Broadcaster
	hub         *Hub

	statisticData *statistics.Data
	gatherer      prometheus.Gatherer
	limit         *semaphore.Weighted
	logger        tmlog.Logger
}

func New(querier Querier, broadcaster Broadcaster, hub *Hub, cfg *config.Config, logger tmlog.Logger) *API {
	return &API{
		querier:     querier,
		broadcaster: broadcaster,
		hub:         hub,
		gatherer:    prometheus.DefaultGatherer,
		limit:       semaphore.NewWeighted(int64(cfg.APISimultaneousRequests)),
		logger:      logger,
	}
}

// WithStatistics enables response time collection and the /metrics endpoint
func (a *API) WithStatistics(statisticData *statistics.Data, gatherer prometheus.Gatherer) *API {
	a.statisticData = statisticData
	a.gatherer = gatherer
	return a
}

// Handler returns the router wrapped into CORS, recovery and access log handlers
func (a *API) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{})))
	r.GET("/api/subscribe", a.subscribe)

	limited := r.Group("/api", a.limitRequests, a.measure)
	limited.GET("/owner", a.owner)
	limited.GET("/status", a.status)
	limited.GET("/active", a.active)
	limited.GET("/candidates", a.candidates)
	limited.GET("/candidate/:id", a.candidate)
	limited.GET("/voter/:address", a.voter)
	limited.GET("/nonce/:address", a.nonce)
	limited.GET("/events", a.events)
	limited.POST("/send_transaction", a.sendTransaction)

	var handler http.Handler = r
	handler = handlers.CombinedLoggingHandler(logWriter{a.logger}, handler)
	handler = handlers.RecoveryHandler(handlers.RecoveryLogger(logWriter{a.logger}), handlers.PrintRecoveryStack(false))(handler)
	handler = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(handler)

	return handler
}

// Run serves the API on listenAddr, e.g. tcp://0.0.0.0:8841, until ctx is done
func (a *API) Run(ctx context.Context, listenAddr string) error {
	apiURL, err := url.Parse(listenAddr)
	if err != nil {
		return errors.Wrapf(err, "parse api address %s", listenAddr)
	}

	server := &http.Server{Addr: apiURL.Host, Handler: a.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("API shutdown", "err", err)
		}
	}()

	a.logger.Info("Starting API server", "addr", apiURL.Host)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "api server")
	}
	return nil
}

func (a *API) limitRequests(c *gin.Context) {
	if !a.limit.TryAcquire(1) {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"error": map[string]string{
				"message": "too many simultaneous requests",
			},
		})
		return
	}
	defer a.limit.Release(1)

	c.Next()
}

func (a *API) measure(c *gin.Context) {
	start := time.Now()
	c.Next()
	a.statisticData.SetApiTime(time.Since(start), c.FullPath())
}

// heightParam reads the optional ?height= query
func heightParam(c *gin.Context) (int64, bool) {
	raw := c.Query("height")
	if raw == "" {
		return 0, true
	}

	height, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || height < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": map[string]string{
				"message": "height must be a non-negative integer",
			},
		})
		return 0, false
	}
	return height, true
}

type logWriter struct {
	logger tmlog.Logger
}

func (w logWriter) Write(p []byte) (int, error) {
	w.logger.Info(string(trimNewline(p)))
	return len(p), nil
}

// Println lets logWriter serve as a recovery logger
func (w logWriter) Println(v ...interface{}) {
	w.logger.Error("API panic", "err", v)
}

func trimNewline(p []byte) []byte {
	for len(p) > 0 && (p[len(p)-1] == '\n' || p[len(p)-1] == '\r') {
		p = p[:len(p)-1]
	}
	return p
}
