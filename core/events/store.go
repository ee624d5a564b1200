package events

import (
	"encoding/binary"
	"sync"

	"github.com/pkg/errors"
	"github.com/tendermint/go-amino"
	db "github.com/tendermint/tm-db"
)

// IEventsDB is an interface of Events
type IEventsDB interface {
	AddEvent(height uint64, event Event)
	LoadEvents(height uint64) (Events, error)
	CommitEvents() error
}

type eventsStore struct {
	cdc *amino.Codec
	sync.RWMutex
	db        db.DB
	pending   pendingEvents
	idAddress map[uint32][20]byte
	addressID map[[20]byte]uint32
}

type pendingEvents struct {
	sync.Mutex
	height uint64
	items  Events
}

// NewEventsStore creates new events store in given DB
func NewEventsStore(db db.DB) IEventsDB {
	codec := amino.NewCodec()
	codec.RegisterInterface((*compactEvent)(nil), nil)
	codec.RegisterConcrete(&influenceUpdated{}, "influenceUpdated", nil)
	codec.RegisterConcrete(&influenceRemoved{}, "influenceRemoved", nil)
	codec.RegisterConcrete(&snapshotRecorded{}, "snapshotRecorded", nil)
	codec.RegisterConcrete(&rewardScheduleUpdated{}, "rewardScheduleUpdated", nil)
	codec.RegisterConcrete(&rewardClaimed{}, "rewardClaimed", nil)

	return &eventsStore{
		cdc:       codec,
		RWMutex:   sync.RWMutex{},
		db:        db,
		pending:   pendingEvents{},
		idAddress: make(map[uint32][20]byte),
		addressID: make(map[[20]byte]uint32),
	}
}

func (store *eventsStore) cacheAddress(id uint32, address [20]byte) {
	store.idAddress[id] = address
	store.addressID[address] = id
}

func (store *eventsStore) AddEvent(height uint64, event Event) {
	store.pending.Lock()
	defer store.pending.Unlock()
	if store.pending.height != height {
		store.pending.items = Events{}
	}
	store.pending.items = append(store.pending.items, event)
	store.pending.height = height
}

func (store *eventsStore) LoadEvents(height uint64) (Events, error) {
	if err := store.loadCache(); err != nil {
		return nil, err
	}

	bytes, err := store.db.Get(heightKey(height))
	if err != nil {
		return nil, err
	}
	if len(bytes) == 0 {
		return Events{}, nil
	}

	var items []compactEvent
	if err := store.cdc.UnmarshalBinaryBare(bytes, &items); err != nil {
		return nil, errors.Wrapf(err, "can't decode events at height %d", height)
	}

	store.RLock()
	defer store.RUnlock()

	resultEvents := make(Events, 0, len(items))
	for _, compactEvent := range items {
		resultEvents = append(resultEvents, compactEvent.compile(store.idAddress[compactEvent.addressID()]))
	}

	return resultEvents, nil
}

// CommitEvents writes pending events under their height and clears them.
func (store *eventsStore) CommitEvents() error {
	if err := store.loadCache(); err != nil {
		return err
	}

	store.pending.Lock()
	defer store.pending.Unlock()
	if len(store.pending.items) == 0 {
		return nil
	}

	store.Lock()
	defer store.Unlock()

	batch := store.db.NewBatch()
	defer batch.Close()

	var data []compactEvent
	for _, item := range store.pending.items {
		var id uint32
		if address, ok := item.address(); ok {
			var err error
			if id, err = store.saveAddress(batch, address); err != nil {
				return err
			}
		}
		data = append(data, item.convert(id))
	}

	bytes, err := store.cdc.MarshalBinaryBare(data)
	if err != nil {
		return err
	}

	if err := batch.Set(heightKey(store.pending.height), bytes); err != nil {
		return err
	}

	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "can't write events")
	}

	store.pending.items = Events{}

	return nil
}

func (store *eventsStore) loadCache() error {
	store.Lock()
	defer store.Unlock()

	if len(store.idAddress) != 0 {
		return nil
	}

	return store.loadAddresses()
}

const heightPrefix = "height"
const addressPrefix = "address"
const addressesCountKey = "addresses"

func (store *eventsStore) saveAddress(batch db.Batch, address [20]byte) (uint32, error) {
	if id, ok := store.addressID[address]; ok {
		return id, nil
	}

	id := uint32(len(store.addressID))
	store.cacheAddress(id, address)

	if err := batch.Set(append([]byte(addressPrefix), uint32ToBytes(id)...), address[:]); err != nil {
		return 0, err
	}
	if err := batch.Set([]byte(addressesCountKey), uint32ToBytes(uint32(len(store.addressID)))); err != nil {
		return 0, err
	}
	return id, nil
}

func (store *eventsStore) loadAddresses() error {
	count, err := store.db.Get([]byte(addressesCountKey))
	if err != nil {
		return err
	}
	if len(count) == 0 {
		return nil
	}

	for id := uint32(0); id < binary.BigEndian.Uint32(count); id++ {
		address, err := store.db.Get(append([]byte(addressPrefix), uint32ToBytes(id)...))
		if err != nil {
			return err
		}
		var key [20]byte
		copy(key[:], address)
		store.cacheAddress(id, key)
	}

	return nil
}

func heightKey(height uint64) []byte {
	var h = make([]byte, 8)
	binary.BigEndian.PutUint64(h, height)
	return append([]byte(heightPrefix), h...)
}

func uint32ToBytes(height uint32) []byte {
	var h = make([]byte, 4)
	binary.BigEndian.PutUint32(h, height)
	return h
}
