package dbbadger

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
	"github.com/vulpemventures/go-bip48/internal/core/domain"
	"github.com/vulpemventures/go-bip48/internal/core/ports"
)

// repoManager holds the badgerhold store and the domain repositories
// implementations in a single data structure.
type repoManager struct {
	coordinatorRepository *coordinatorRepository

	coordinatorEventHandlers *handlerMap
}

// NewRepoManager is the factory for creating a new badger implementation
// of the ports.RepoManager interface.
// It takes care of creating the db files on disk (or in-memory if no baseDbDir
// is provided - to be used only for testing purposes), and opening and closing
// the connection to them.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	var coordinatorDbDir string
	if len(baseDbDir) > 0 {
		coordinatorDbDir = filepath.Join(baseDbDir, "coordinator")
	}

	coordinatorDb, err := createDb(coordinatorDbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening coordinator db: %w", err)
	}

	coordinatorRepo := newCoordinatorRepository(coordinatorDb)

	rm := &repoManager{
		coordinatorRepository:    coordinatorRepo,
		coordinatorEventHandlers: newHandlerMap(),
	}

	go rm.listenToCoordinatorEvents()

	return rm, nil
}

func (rm *repoManager) CoordinatorRepository() domain.CoordinatorRepository {
	return rm.coordinatorRepository
}

func (rm *repoManager) RegisterHandlerForCoordinatorEvent(
	eventType domain.CoordinatorEventType, handler ports.CoordinatorEventHandler,
) {
	rm.coordinatorEventHandlers.set(int(eventType), handler)
}

func (rm *repoManager) Reset() {
	rm.coordinatorRepository.reset()
}

func (rm *repoManager) Close() {
	rm.coordinatorRepository.close()
}

func (rm *repoManager) listenToCoordinatorEvents() {
	for event := range rm.coordinatorRepository.chEvents {
		if handlers, ok := rm.coordinatorEventHandlers.get(int(event.EventType)); ok {
			for i := range handlers {
				handler := handlers[i]
				go handler.(ports.CoordinatorEventHandler)(event)
			}
		}
	}
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}

	if !isInMemory {
		ticker := time.NewTicker(30 * time.Minute)

		go func() {
			for {
				<-ticker.C
				if err := db.Badger().RunValueLogGC(0.5); err != nil && err != badger.ErrNoRewrite {
					log.Warnf("garbage collector: %s", err)
				}
			}
		}()
	}

	return db, nil
}

// handlerMap is a util type to prevent race conditions when registering
// or retrieving handlers for events.
type handlerMap struct {
	handlersByEventType map[int][]interface{}
	lock                *sync.RWMutex
}

func newHandlerMap() *handlerMap {
	return &handlerMap{
		handlersByEventType: make(map[int][]interface{}),
		lock:                &sync.RWMutex{},
	}
}

func (m *handlerMap) set(key int, val interface{}) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.handlersByEventType[key] = append(m.handlersByEventType[key], val)
}

func (m *handlerMap) get(key int) ([]interface{}, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	val, ok := m.handlersByEventType[key]
	return val, ok
}
