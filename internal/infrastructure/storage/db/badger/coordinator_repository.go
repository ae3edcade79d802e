package dbbadger

import (
	"context"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
	"github.com/vulpemventures/go-bip48/internal/core/domain"
)

const (
	// there can be only 1 coordinator in database, the key is hardcoded for
	// easier retrival.
	coordinatorKey = "coordinator"
)

type coordinatorRepository struct {
	store            *badgerhold.Store
	chEvents         chan domain.CoordinatorEvent
	externalChEvents chan domain.CoordinatorEvent
	lock             *sync.Mutex

	log func(format string, a ...interface{})
}

func NewCoordinatorRepository(
	store *badgerhold.Store,
) domain.CoordinatorRepository {
	return newCoordinatorRepository(store)
}

func newCoordinatorRepository(store *badgerhold.Store) *coordinatorRepository {
	chEvents := make(chan domain.CoordinatorEvent, 10)
	externalChEvents := make(chan domain.CoordinatorEvent, 10)
	lock := &sync.Mutex{}
	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("coordinator repository: %s", format)
		log.Debugf(format, a...)
	}
	return &coordinatorRepository{store, chEvents, externalChEvents, lock, logFn}
}

func (r *coordinatorRepository) CreateCoordinator(
	ctx context.Context, coordinator *domain.Coordinator,
) error {
	if err := r.insertCoordinator(ctx, coordinator); err != nil {
		return err
	}

	go r.publishEvent(domain.CoordinatorEvent{
		EventType: domain.CoordinatorCreated,
	})

	return nil
}

func (r *coordinatorRepository) GetCoordinator(
	ctx context.Context,
) (*domain.Coordinator, error) {
	return r.getCoordinator(ctx)
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
	updateFn func(c *domain.Coordinator) (*domain.Coordinator, error),
) error {
	coordinator, err := r.getCoordinator(ctx)
	if err != nil {
		return err
	}

	updatedCoordinator, err := updateFn(coordinator)
	if err != nil {
		return err
	}

	return r.updateCoordinator(ctx, updatedCoordinator)
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

func (r *coordinatorRepository) insertCoordinator(
	ctx context.Context, coordinator *domain.Coordinator,
) error {
	var err error

	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.store.TxInsert(tx, coordinatorKey, *coordinator)
	} else {
		err = r.store.Insert(coordinatorKey, *coordinator)
	}
	if err != nil {
		if err == badgerhold.ErrKeyExists {
			return fmt.Errorf("coordinator is already initialized")
		}
		return err
	}

	return nil
}

func (r *coordinatorRepository) getCoordinator(
	ctx context.Context,
) (*domain.Coordinator, error) {
	var err error
	var coordinator domain.Coordinator

	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.store.TxGet(tx, coordinatorKey, &coordinator)
	} else {
		err = r.store.Get(coordinatorKey, &coordinator)
	}

	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("coordinator is not initialized")
		}
		return nil, err
	}

	return &coordinator, nil
}

func (r *coordinatorRepository) updateCoordinator(
	ctx context.Context, coordinator *domain.Coordinator,
) error {
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		return r.store.TxUpdate(tx, coordinatorKey, *coordinator)
	}
	return r.store.Update(coordinatorKey, *coordinator)
}

func (r *coordinatorRepository) publishEvent(event domain.CoordinatorEvent) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.log("publish event %s", event.EventType)
	r.chEvents <- event

	// send over channel without blocking in case nobody is listening.
	select {
	case r.externalChEvents <- event:
	default:
	}
}

func (r *coordinatorRepository) reset() {
	r.store.Badger().DropAll()
}

func (r *coordinatorRepository) close() {
	r.store.Close()
	close(r.chEvents)
	close(r.externalChEvents)
}
