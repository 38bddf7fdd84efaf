package utils

import (
	"fmt"
	"path/filepath"

	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	db "github.com/tendermint/tm-db"
	"go.uber.org/multierr"
)

// MemDBBackend keeps every database in memory, used by tests
const MemDBBackend = "memdb"

// Storage owns the databases of the node: state tree, events and application info
type Storage struct {
	ballotHome   string
	ballotConfig string

	stateDB db.DB
	eventDB db.DB
	appDB   db.DB
}

func NewStorage(home string, config string) *Storage {
	return &Storage{ballotHome: GetBallotHome(home), ballotConfig: GetBallotConfigPath(home, config)}
}

func (s *Storage) GetBallotHome() string {
	return s.ballotHome
}

func (s *Storage) GetBallotConfigPath() string {
	return s.ballotConfig
}

// InitStorages opens state, events and app databases for the given backend
func (s *Storage) InitStorages(backend string, stateMemLimit int) error {
	if backend == MemDBBackend {
		s.stateDB = db.NewMemDB()
		s.eventDB = db.NewMemDB()
		s.appDB = db.NewMemDB()
		return nil
	}

	var err error
	if s.stateDB, err = s.InitStateLevelDB("data/state", GetDbOpts(stateMemLimit)); err != nil {
		return err
	}
	if s.eventDB, err = s.InitStateLevelDB("data/events", nil); err != nil {
		return multierr.Append(err, s.Close())
	}
	if s.appDB, err = s.InitStateLevelDB("data/app", nil); err != nil {
		return multierr.Append(err, s.Close())
	}

	return nil
}

// InitStateLevelDB opens goleveldb database at <home>/<name>
func (s *Storage) InitStateLevelDB(name string, opts *opt.Options) (db.DB, error) {
	dir, file := filepath.Split(filepath.Join(s.ballotHome, name))
	levelDB, err := db.NewGoLevelDBWithOpts(file, dir, opts)
	if err != nil {
		return nil, err
	}

	return levelDB, nil
}

func (s *Storage) StateDB() db.DB {
	return s.stateDB
}

func (s *Storage) EventDB() db.DB {
	return s.eventDB
}

func (s *Storage) AppDB() db.DB {
	return s.appDB
}

// Close closes every opened database, a closed storage may be initialized again
func (s *Storage) Close() error {
	var err error
	for _, d := range []*db.DB{&s.stateDB, &s.eventDB, &s.appDB} {
		if *d != nil {
			err = multierr.Append(err, (*d).Close())
			*d = nil
		}
	}
	return err
}

// GetDbOpts returns goleveldb options for the state database, memLimit is in megabytes
func GetDbOpts(memLimit int) *opt.Options {
	if memLimit < 1024 {
		panic(fmt.Sprintf("Not enough memory given to StateDB. Expected >1024M, given %d", memLimit))
	}
	return &opt.Options{
		OpenFilesCacheCapacity: memLimit,
		BlockCacheCapacity:     memLimit / 2 * opt.MiB,
		WriteBuffer:            memLimit / 4 * opt.MiB, // Two of these are used internally
		Filter:                 filter.NewBloomFilter(10),
	}
}
