package ports

import (
	"github.com/vulpemventures/go-bip48/internal/core/domain"
)

type CoordinatorEventHandler func(event domain.CoordinatorEvent)

// RepoManager is the abstraction for any kind of service intended to manage
// domain repositories implementations of the same concrete type.
type RepoManager interface {
	// CoordinatorRepository returns the coordinator repository.
	CoordinatorRepository() domain.CoordinatorRepository

	// RegisterHandlerForCoordinatorEvent registers an handler function,
	// executed whenever the given event type occurs.
	RegisterHandlerForCoordinatorEvent(
		eventType domain.CoordinatorEventType, handler CoordinatorEventHandler,
	)

	// Reset brings all the repos to their initial state by deleting any
	// persisted data.
	Reset()

	// Close closes the connection with all concrete repositories
	// implementations.
	Close()
}
