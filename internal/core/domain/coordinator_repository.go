package domain

import (
	"context"
)

const (
	CoordinatorCreated CoordinatorEventType = iota
	CoordinatorUnlocked
	CoordinatorLocked
	CoordinatorPasswordChanged
	CoordinatorCosignerAdded
	CoordinatorCompleted
)

var (
	coordinatorTypeString = map[CoordinatorEventType]string{
		CoordinatorCreated:         "CoordinatorCreated",
		CoordinatorUnlocked:        "CoordinatorUnlocked",
		CoordinatorLocked:          "CoordinatorLocked",
		CoordinatorPasswordChanged: "CoordinatorPasswordChanged",
		CoordinatorCosignerAdded:   "CoordinatorCosignerAdded",
		CoordinatorCompleted:       "CoordinatorCompleted",
	}
)

type CoordinatorEventType int

func (t CoordinatorEventType) String() string {
	return coordinatorTypeString[t]
}

// CoordinatorEvent holds info about an event occured within the repository.
type CoordinatorEvent struct {
	EventType CoordinatorEventType
	Cosigner  *Cosigner
}

// CoordinatorRepository is the abstraction for any kind of database intended
// to persist a Coordinator.
type CoordinatorRepository interface {
	// CreateCoordinator stores a new Coordinator if not yet existing.
	// Generates a CoordinatorCreated event if successfull.
	CreateCoordinator(ctx context.Context, coordinator *Coordinator) error
	// GetCoordinator returns the stored coordinator, if existing.
	GetCoordinator(ctx context.Context) (*Coordinator, error)
	// UnlockCoordinator attempts to update the status of the Coordinator to
	// "unlocked". Generates a CoordinatorUnlocked event if successfull.
	UnlockCoordinator(ctx context.Context, password string) error
	// LockCoordinator updates the status of the Coordinator to "locked".
	// Generates a CoordinatorLocked event if successfull.
	LockCoordinator(ctx context.Context, password string) error
	// UpdateCoordinator allows to make multiple changes to the Coordinator in
	// a transactional way.
	UpdateCoordinator(
		ctx context.Context, updateFn func(c *Coordinator) (*Coordinator, error),
	) error
	// AddCosigner registers a new cosigner xpub and returns its assigned
	// index. Generates a CoordinatorCosignerAdded event if successfull, plus
	// a CoordinatorCompleted one if the registration filled the cosigner set.
	AddCosigner(ctx context.Context, xpub string) (*Cosigner, error)
	// GetEventChannel returns the channel of CoordinatorEvents.
	GetEventChannel() chan CoordinatorEvent
}
