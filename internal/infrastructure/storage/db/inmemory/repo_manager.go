package inmemory

import (
	"sync"
	"time"

	"github.com/vulpemventures/go-bip48/internal/core/domain"
	"github.com/vulpemventures/go-bip48/internal/core/ports"
)

type repoManager struct {
	coordinatorRepository *coordinatorRepository

	coordinatorEventHandlers *handlerMap
}

func NewRepoManager() ports.RepoManager {
	coordinatorRepo := newCoordinatorRepository()

	rm := &repoManager{
		coordinatorRepository:    coordinatorRepo,
		coordinatorEventHandlers: newHandlerMap(),
	}

	go rm.listenToCoordinatorEvents()

	return rm
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
		time.Sleep(time.Millisecond)

		if handlers, ok := rm.coordinatorEventHandlers.get(int(event.EventType)); ok {
			for i := range handlers {
				handler := handlers[i]
				go handler.(ports.CoordinatorEventHandler)(event)
			}
		}
	}
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
