package statistics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestBlockDuration(t *testing.T) {
	t.Parallel()
	data := New(prometheus.NewRegistry())

	start := time.Unix(2000, 0)
	data.SetStartBlock(10, start, start)
	data.SetEndBlockDuration(start.Add(3*time.Second), 10)

	info := data.GetLastBlockInfo()
	if info.Height != 10 || info.Duration != 3 || info.Timestamp != 2000 {
		t.Fatalf("unexpected block info %+v", info)
	}
	if got := testutil.ToFloat64(data.BlockEnd.HeightProm); got != 10 {
		t.Fatalf("height gauge want 10, got %v", got)
	}

	// a block that never started is ignored
	data.SetEndBlockDuration(start.Add(time.Minute), 11)
	if data.GetLastBlockInfo().Height != 10 {
		t.Fatal("unstarted block was recorded")
	}
}

func TestElectionCounters(t *testing.T) {
	t.Parallel()
	data := New(prometheus.NewRegistry())

	data.SetCandidatesCount(3)
	data.AddTx("0x05", 0, true)
	data.AddTx("0x05", 502, true)
	data.AddTx("0x01", 0, false)

	if got := testutil.ToFloat64(data.Election.candidates); got != 3 {
		t.Fatalf("candidates want 3, got %v", got)
	}
	if got := testutil.ToFloat64(data.Election.votes); got != 1 {
		t.Fatalf("votes want 1, got %v", got)
	}
	if got := testutil.ToFloat64(data.Election.txs.WithLabelValues("0x05", "502")); got != 1 {
		t.Fatalf("failed votes want 1, got %v", got)
	}
}

func TestNilData(t *testing.T) {
	t.Parallel()
	var data *Data

	data.SetStartBlock(1, time.Now(), time.Now())
	data.SetEndBlockDuration(time.Now(), 1)
	data.SetCandidatesCount(1)
	data.AddTx("0x01", 0, false)
	data.SetApiTime(time.Second, "/api/status")
	if data.GetLastBlockInfo() != (LastBlockInfo{}) {
		t.Fatal("nil data returned block info")
	}
}
