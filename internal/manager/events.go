package manager

import (
	"github.com/google/uuid"

	"github.com/the-outcaster/projectplus-updater/internal/archive"
	"github.com/the-outcaster/projectplus-updater/internal/product"
)

// EventKind discriminates notifications coming back from workers.
type EventKind int

const (
	// EventProgress carries an installer progress snapshot.
	EventProgress EventKind = iota
	// EventCompleted is the terminal success notification for an operation.
	EventCompleted
	// EventFailed is the terminal failure notification for an operation.
	EventFailed
)

// Event is the only way workers communicate with the controller. For a
// single operation, progress events arrive in non-decreasing completed
// order and the terminal event (completed or failed) is always last.
type Event struct {
	OpID     uuid.UUID
	Product  product.Product
	Kind     EventKind
	Progress archive.Progress // set for EventProgress
	Message  string           // human-readable, set for terminal events
	Err      error            // set for EventFailed
}

// Terminal reports whether this is the last event of its operation.
func (e Event) Terminal() bool {
	return e.Kind == EventCompleted || e.Kind == EventFailed
}
