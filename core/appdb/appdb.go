package appdb

import (
	"encoding/binary"
	"sync/atomic"
	"time"

	tmjson "github.com/tendermint/tendermint/libs/json"
	"github.com/tendermint/tm-db"
)

const (
	hashPath        = "hash"
	heightPath      = "height"
	startHeightPath = "startHeight"
	blocksTimePath  = "blockDelta"
)

// BlocksTimeCount is the number of recent block timestamps kept for the average block time
const BlocksTimeCount = 4

// AppDB is responsible for storing basic information about app state on disk
type AppDB struct {
	db db.DB

	startHeight    uint64
	lastHeight     uint64
	lastTimeBlocks []uint64
}

// NewAppDB creates AppDB instance over the given database
func NewAppDB(appDB db.DB) *AppDB {
	return &AppDB{db: appDB}
}

// Close closes db connection
func (appDB *AppDB) Close() error {
	return appDB.db.Close()
}

// GetLastBlockHash returns latest block hash stored on disk
func (appDB *AppDB) GetLastBlockHash() []byte {
	rawHash, err := appDB.db.Get([]byte(hashPath))
	if err != nil {
		panic(err)
	}

	if len(rawHash) == 0 {
		return nil
	}

	var hash [32]byte
	copy(hash[:], rawHash)
	return hash[:]
}

// SetLastBlockHash stores given block hash on disk, panics on error
func (appDB *AppDB) SetLastBlockHash(hash []byte) {
	if err := appDB.db.Set([]byte(hashPath), hash); err != nil {
		panic(err)
	}
}

// GetLastHeight returns latest block height stored on disk
func (appDB *AppDB) GetLastHeight() uint64 {
	val := atomic.LoadUint64(&appDB.lastHeight)
	if val != 0 {
		return val
	}

	result, err := appDB.db.Get([]byte(heightPath))
	if err != nil {
		panic(err)
	}

	if len(result) != 0 {
		val = binary.BigEndian.Uint64(result)
		atomic.StoreUint64(&appDB.lastHeight, val)
	}

	return val
}

// SetLastHeight stores given block height on disk, panics on error
func (appDB *AppDB) SetLastHeight(height uint64) {
	h := make([]byte, 8)
	binary.BigEndian.PutUint64(h, height)

	if err := appDB.db.Set([]byte(heightPath), h); err != nil {
		panic(err)
	}

	atomic.StoreUint64(&appDB.lastHeight, height)
}

// SetStartHeight sets the initial height of the chain in memory
func (appDB *AppDB) SetStartHeight(height uint64) {
	atomic.StoreUint64(&appDB.startHeight, height)
}

// SaveStartHeight stores start height on disk, panics on error
func (appDB *AppDB) SaveStartHeight() {
	h := make([]byte, 8)
	binary.BigEndian.PutUint64(h, atomic.LoadUint64(&appDB.startHeight))

	if err := appDB.db.Set([]byte(startHeightPath), h); err != nil {
		panic(err)
	}
}

// GetStartHeight returns start height stored on disk
func (appDB *AppDB) GetStartHeight() uint64 {
	val := atomic.LoadUint64(&appDB.startHeight)
	if val != 0 {
		return val
	}

	result, err := appDB.db.Get([]byte(startHeightPath))
	if err != nil {
		panic(err)
	}

	if len(result) != 0 {
		val = binary.BigEndian.Uint64(result)
		atomic.StoreUint64(&appDB.startHeight, val)
	}

	return val
}

// GetLastBlockTimeDelta returns the summed time between the latest blocks and the number of gaps
func (appDB *AppDB) GetLastBlockTimeDelta() (sumTimes int, count int) {
	appDB.loadBlocksTime()
	return calcBlockDelta(appDB.lastTimeBlocks)
}

func calcBlockDelta(times []uint64) (sumTimes int, num int) {
	count := len(times)
	if count < 2 {
		return 0, 0
	}

	var res int
	for i, timestamp := range times[1:] {
		res += int(timestamp - times[i])
	}
	return res, count - 1
}

// AddBlocksTime remembers the header time of a new block
func (appDB *AppDB) AddBlocksTime(time time.Time) {
	appDB.loadBlocksTime()

	appDB.lastTimeBlocks = append(appDB.lastTimeBlocks, uint64(time.Unix()))
	count := len(appDB.lastTimeBlocks)
	if count > BlocksTimeCount {
		appDB.lastTimeBlocks = appDB.lastTimeBlocks[count-BlocksTimeCount:]
	}
}

// SaveBlocksTime stores the remembered block times on disk, panics on error
func (appDB *AppDB) SaveBlocksTime() {
	data, err := tmjson.Marshal(appDB.lastTimeBlocks)
	if err != nil {
		panic(err)
	}

	if err := appDB.db.Set([]byte(blocksTimePath), data); err != nil {
		panic(err)
	}
}

func (appDB *AppDB) loadBlocksTime() {
	if len(appDB.lastTimeBlocks) != 0 {
		return
	}

	result, err := appDB.db.Get([]byte(blocksTimePath))
	if err != nil {
		panic(err)
	}
	if len(result) == 0 {
		return
	}

	if err := tmjson.Unmarshal(result, &appDB.lastTimeBlocks); err != nil {
		panic(err)
	}
}
