package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vulpemventures/go-bip48/internal/core/domain"
)

var (
	ErrCoordinatorAlreadyExisting = fmt.Errorf("coordinator already existing")
)

type coordinatorInmemoryStore struct {
	coordinator *domain.Coordinator
	lock        *sync.RWMutex
}

type coordinatorRepository struct {
	store            *coordinatorInmemoryStore
	chEvents         chan domain.CoordinatorEvent
	externalChEvents chan domain.CoordinatorEvent
	chLock           *sync.Mutex
}

func NewCoordinatorRepository() domain.CoordinatorRepository {
	return newCoordinatorRepository()
}

func newCoordinatorRepository() *coordinatorRepository {
	return &coordinatorRepository{
		store: &coordinatorInmemoryStore{
			lock: &sync.RWMutex{},
		},
		chEvents:         make(chan domain.CoordinatorEvent),
		externalChEvents: make(chan domain.CoordinatorEvent),
		chLock:           &sync.Mutex{},
	}
}

func (r *coordinatorRepository) CreateCoordinator(
	ctx context.Context, coordinator *domain.Coordinator,
) error {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	if r.store.coordinator != nil {
		return ErrCoordinatorAlreadyExisting
	}

	r.store.coordinator = coordinator

	go r.publishEvent(domain.CoordinatorEvent{
		EventType: domain.CoordinatorCreated,
	})

	return nil
}

func (r *coordinatorRepository) GetCoordinator(
	ctx context.Context,
) (*domain.Coordinator, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	if r.store.coordinator == nil {
		return nil, fmt.Errorf("coordinator is not initialized")
	}
	return r.store.coordinator, nil
}

func (r *coordinatorRepository) UnlockCoordinator(
	ctx context.Context, password string,
) error {
	if err := r.UpdateCoordinator(
		ctx, func(c *domain.Coordinator) (*domain.Coordinator, error) {
			if err := c.Unlock(password); err != nil {
				return nil, err
			}
			return c, nil
		},
	); err != nil {
		return err
	}

	go r.publishEvent(domain.CoordinatorEvent{
		EventType: domain.CoordinatorUnlocked,
	})

	return nil
}

func (r *coordinatorRepository) LockCoordinator(
	ctx context.Context, password string,
) error {
	if err := r.UpdateCoordinator(
		ctx, func(c *domain.Coordinator) (*domain.Coordinator, error) {
			if err := c.Lock(password); err != nil {
				return nil, err
			}
			return c, nil
		},
	); err != nil {
		return err
	}

	go r.publishEvent(domain.CoordinatorEvent{
		EventType: domain.CoordinatorLocked,
	})

	return nil
}

func (r *coordinatorRepository) UpdateCoordinator(
	ctx context.Context,
	updateFn func(*domain.Coordinator) (*domain.Coordinator, error),
) error {
	coordinator, err := r.GetCoordinator(ctx)
	if err != nil {
		return err
	}

	updatedCoordinator, err := updateFn(coordinator)
	if err != nil {
		return err
	}

	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	r.store.coordinator = updatedCoordinator
	return nil
}

func (r *coordinatorRepository) AddCosigner(
	ctx context.Context, xpub string,
) (*domain.Cosigner, error) {
	var cosigner *domain.Cosigner
	var completed bool
	if err := r.UpdateCoordinator(
		ctx, func(c *domain.Coordinator) (*domain.Coordinator, error) {
			var err error
			cosigner, err = c.AddCosigner(xpub)
			if err != nil {
				return nil, err
			}
			completed = c.IsComplete()
			return c, nil
		},
	); err != nil {
		return nil, err
	}

	go r.publishEvent(domain.CoordinatorEvent{
		EventType: domain.CoordinatorCosignerAdded,
		Cosigner:  cosigner,
	})
	if completed {
		go r.publishEvent(domain.CoordinatorEvent{
			EventType: domain.CoordinatorCompleted,
		})
	}

	return cosigner, nil
}

func (r *coordinatorRepository) GetEventChannel() chan domain.CoordinatorEvent {
	return r.externalChEvents
}

func (r *coordinatorRepository) publishEvent(event domain.CoordinatorEvent) {
	r.chLock.Lock()
	defer r.chLock.Unlock()

	r.chEvents <- event

	// send over channel without blocking in case nobody is listening.
	select {
	case r.externalChEvents <- event:
	default:
	}
}

func (r *coordinatorRepository) reset() {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	r.store.coordinator = nil
}

func (r *coordinatorRepository) close() {
	close(r.chEvents)
	close(r.externalChEvents)
}
