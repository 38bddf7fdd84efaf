package appdb

import (
	"bytes"
	"testing"
	"time"

	db "github.com/tendermint/tm-db"
)

func TestAppDBHeightAndHash(t *testing.T) {
	t.Parallel()
	memDB := db.NewMemDB()
	appDB := NewAppDB(memDB)

	if appDB.GetLastHeight() != 0 || appDB.GetLastBlockHash() != nil {
		t.Fatal("fresh db is not empty")
	}

	hash := bytes.Repeat([]byte{0xab}, 32)
	appDB.SetLastBlockHash(hash)
	appDB.SetLastHeight(42)
	appDB.SetStartHeight(7)
	appDB.SaveStartHeight()

	reopened := NewAppDB(memDB)
	if reopened.GetLastHeight() != 42 {
		t.Fatalf("height want 42, got %d", reopened.GetLastHeight())
	}
	if !bytes.Equal(reopened.GetLastBlockHash(), hash) {
		t.Fatalf("hash want %x, got %x", hash, reopened.GetLastBlockHash())
	}
	if reopened.GetStartHeight() != 7 {
		t.Fatalf("start height want 7, got %d", reopened.GetStartHeight())
	}
}

func TestAppDBBlocksTime(t *testing.T) {
	t.Parallel()
	memDB := db.NewMemDB()
	appDB := NewAppDB(memDB)

	if sum, count := appDB.GetLastBlockTimeDelta(); sum != 0 || count != 0 {
		t.Fatalf("want no delta, got %d/%d", sum, count)
	}

	start := time.Unix(1000, 0)
	for i := 0; i < 6; i++ {
		appDB.AddBlocksTime(start.Add(time.Duration(i*5) * time.Second))
	}
	appDB.SaveBlocksTime()

	reopened := NewAppDB(memDB)
	sum, count := reopened.GetLastBlockTimeDelta()
	if count != BlocksTimeCount-1 || sum != 5*(BlocksTimeCount-1) {
		t.Fatalf("unexpected delta %d over %d blocks", sum, count)
	}
}
