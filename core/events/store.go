package events

import (
	"encoding/binary"
	"sync"

	"github.com/tendermint/go-amino"
	db "github.com/tendermint/tm-db"
)

// IEventsDB is an interface of Events
type IEventsDB interface {
	AddEvent(height uint32, event Event)
	LoadEvents(height uint32) Events
	CommitEvents(height uint32) error
	Close() error
}

type eventsStore struct {
	cdc *amino.Codec
	sync.RWMutex
	db        db.DB
	pending   pendingEvents
	loaded    bool
	idAddress map[uint32][20]byte
	addressID map[[20]byte]uint32
}

type pendingEvents struct {
	sync.Mutex
	height uint32
	items  Events
}

// NewEventsStore creates new events store in given DB
func NewEventsStore(db db.DB) IEventsDB {
	codec := amino.NewCodec()
	codec.RegisterInterface((*compactEvent)(nil), nil)
	codec.RegisterConcrete(&candidateAdded{}, "candidateAdded", nil)
	codec.RegisterConcrete(&voterAuthorized{}, "voterAuthorized", nil)
	codec.RegisterConcrete(&electionStarted{}, "electionStarted", nil)
	codec.RegisterConcrete(&electionEnded{}, "electionEnded", nil)
	codec.RegisterConcrete(&voteCast{}, "voteCast", nil)

	return &eventsStore{
		cdc:       codec,
		db:        db,
		idAddress: make(map[uint32][20]byte),
		addressID: make(map[[20]byte]uint32),
	}
}

func (store *eventsStore) cacheAddress(id uint32, address [20]byte) {
	store.idAddress[id] = address
	store.addressID[address] = id
}

func (store *eventsStore) AddEvent(height uint32, event Event) {
	store.pending.Lock()
	defer store.pending.Unlock()
	if store.pending.height != height {
		store.pending.items = Events{}
	}
	store.pending.items = append(store.pending.items, event)
	store.pending.height = height
}

func (store *eventsStore) LoadEvents(height uint32) Events {
	store.loadCache()

	bytes, err := store.db.Get(uint32ToBytes(height))
	if err != nil {
		panic(err)
	}
	if len(bytes) == 0 {
		return Events{}
	}

	var items []compactEvent
	if err := store.cdc.UnmarshalBinaryBare(bytes, &items); err != nil {
		panic(err)
	}

	store.RLock()
	defer store.RUnlock()

	resultEvents := make(Events, 0, len(items))
	for _, compactEvent := range items {
		resultEvents = append(resultEvents, compactEvent.compile(store.address))
	}

	return resultEvents
}

// CommitEvents stores the events added for height. Events pending for another height are dropped.
func (store *eventsStore) CommitEvents(height uint32) error {
	store.loadCache()

	store.pending.Lock()
	defer store.pending.Unlock()

	if store.pending.height != height || len(store.pending.items) == 0 {
		store.pending.items = Events{}
		return nil
	}

	store.Lock()
	defer store.Unlock()

	data := make([]compactEvent, 0, len(store.pending.items))
	for _, item := range store.pending.items {
		data = append(data, item.convert(store.saveAddress))
	}

	bytes, err := store.cdc.MarshalBinaryBare(data)
	if err != nil {
		return err
	}

	if err := store.db.Set(uint32ToBytes(height), bytes); err != nil {
		return err
	}

	store.pending.items = Events{}
	return nil
}

func (store *eventsStore) Close() error {
	return store.db.Close()
}

func (store *eventsStore) loadCache() {
	store.Lock()
	defer store.Unlock()
	if !store.loaded {
		store.loadAddresses()
		store.loaded = true
	}
}

const addressPrefix = "address"
const addressesCountKey = "addresses"

func (store *eventsStore) address(id uint32) [20]byte {
	return store.idAddress[id]
}

func (store *eventsStore) saveAddress(address [20]byte) uint32 {
	if id, ok := store.addressID[address]; ok {
		return id
	}

	id := uint32(len(store.addressID))
	store.cacheAddress(id, address)

	if err := store.db.Set(append([]byte(addressPrefix), uint32ToBytes(id)...), address[:]); err != nil {
		panic(err)
	}
	if err := store.db.Set([]byte(addressesCountKey), uint32ToBytes(uint32(len(store.addressID)))); err != nil {
		panic(err)
	}
	return id
}

func (store *eventsStore) loadAddresses() {
	count, err := store.db.Get([]byte(addressesCountKey))
	if err != nil {
		panic(err)
	}
	if len(count) > 0 {
		for id := uint32(0); id < binary.BigEndian.Uint32(count); id++ {
			address, err := store.db.Get(append([]byte(addressPrefix), uint32ToBytes(id)...))
			if err != nil {
				panic(err)
			}
			var key [20]byte
			copy(key[:], address)
			store.cacheAddress(id, key)
		}
	}
}

func uint32ToBytes(height uint32) []byte {
	var h = make([]byte, 4)
	binary.BigEndian.PutUint32(h, height)
	return h
}
