package statistics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Data holds the node metrics, a nil *Data is a valid no-op collector
type Data struct {
	BlockStart struct {
		sync.RWMutex
		height    uint64
		time      time.Time
		timestamp float64
	}
	BlockEnd blockEnd

	Election election
	Api      apiResponseTime
}

type LastBlockInfo struct {
	Height    uint64
	Duration  float64
	Timestamp float64
}

type blockEnd struct {
	sync.RWMutex
	HeightProm    prometheus.Gauge
	DurationProm  prometheus.Gauge
	TimestampProm prometheus.Gauge
	LastBlockInfo LastBlockInfo
}

type election struct {
	candidates prometheus.Gauge
	votes      prometheus.Counter
	txs        *prometheus.CounterVec
}

type apiResponseTime struct {
	sync.Mutex
	responseTime *prometheus.GaugeVec
}

// New creates the collectors and registers them on reg
func New(reg prometheus.Registerer) *Data {
	apiVec := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "api",
			Help: "Api response time by path",
		},
		[]string{"path"},
	)
	lastBlockDuration := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "last_block_duration",
			Help: "Last block duration",
		},
	)
	height := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "height",
			Help: "Current height",
		},
	)
	timeBlock := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "last_block_timestamp",
			Help: "Timestamp of the last block",
		},
	)
	candidates := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "candidates",
			Help: "Registered candidates",
		},
	)
	votes := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "votes_total",
			Help: "Votes cast",
		},
	)
	txs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transactions_total",
			Help: "Delivered transactions by type and result code",
		},
		[]string{"type", "code"},
	)
	reg.MustRegister(apiVec, lastBlockDuration, height, timeBlock, candidates, votes, txs)

	return &Data{
		Api:      apiResponseTime{responseTime: apiVec},
		BlockEnd: blockEnd{HeightProm: height, DurationProm: lastBlockDuration, TimestampProm: timeBlock},
		Election: election{candidates: candidates, votes: votes, txs: txs},
	}
}

func (d *Data) SetStartBlock(height uint64, now time.Time, headerTime time.Time) {
	if d == nil {
		return
	}

	d.BlockStart.Lock()
	defer d.BlockStart.Unlock()

	d.BlockStart.height = height
	d.BlockStart.time = now
	d.BlockStart.timestamp = float64(headerTime.Unix())
}

func (d *Data) SetEndBlockDuration(timeEnd time.Time, height uint64) {
	if d == nil {
		return
	}

	d.BlockStart.RLock()
	defer d.BlockStart.RUnlock()

	if height != d.BlockStart.height {
		return
	}

	d.BlockEnd.Lock()
	defer d.BlockEnd.Unlock()

	durationSeconds := timeEnd.Sub(d.BlockStart.time).Seconds()

	d.BlockEnd.HeightProm.Set(float64(height))
	d.BlockEnd.DurationProm.Set(durationSeconds)
	d.BlockEnd.TimestampProm.Set(d.BlockStart.timestamp)

	d.BlockEnd.LastBlockInfo.Height = height
	d.BlockEnd.LastBlockInfo.Duration = durationSeconds
	d.BlockEnd.LastBlockInfo.Timestamp = d.BlockStart.timestamp
}

func (d *Data) SetCandidatesCount(count uint32) {
	if d == nil {
		return
	}

	d.Election.candidates.Set(float64(count))
}

// AddTx counts a delivered transaction, successful votes also bump the votes counter
func (d *Data) AddTx(txType string, code uint32, isVote bool) {
	if d == nil {
		return
	}

	d.Election.txs.With(prometheus.Labels{"type": txType, "code": strconv.FormatUint(uint64(code), 10)}).Inc()
	if isVote && code == 0 {
		d.Election.votes.Inc()
	}
}

func (d *Data) SetApiTime(duration time.Duration, path string) {
	if d == nil {
		return
	}

	d.Api.Lock()
	defer d.Api.Unlock()

	d.Api.responseTime.With(prometheus.Labels{"path": path}).Set(duration.Seconds())
}

func (d *Data) GetLastBlockInfo() LastBlockInfo {
	if d == nil {
		return LastBlockInfo{}
	}

	d.BlockEnd.RLock()
	defer d.BlockEnd.RUnlock()

	return d.BlockEnd.LastBlockInfo
}
