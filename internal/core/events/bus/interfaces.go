package bus

import "time"

// EventBus is an in-process pub/sub channel keyed by event type.
//
// Key characteristics:
//   - Synchronous delivery: Publish calls handlers in the caller goroutine, in
//     subscription order.
//   - Deferred delivery: Enqueue stores events until Flush, which the frame
//     driver calls once per frame after the systems ran.
//   - Error aggregation: handler errors are joined and returned.
//   - Handlers may subscribe or cancel while an event is being delivered; the
//     change applies to the next delivery.
type EventBus interface {
	// Publish delivers the event synchronously to all active subscribers of event.Type().
	Publish(event Event) error
	// Emit is shorthand for Publish(NewEvent(eventType, source, data)).
	Emit(eventType, source string, data any) error
	// PublishWithFilters drops the event when any filter rejects it.
	PublishWithFilters(event Event, filters ...EventFilter) error

	// Subscribe registers a handler for an event type.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. It is safe to call with nil.
	Unsubscribe(Subscription) error

	// Enqueue defers delivery of the event until the next Flush.
	Enqueue(event Event)
	// Flush delivers every queued event in FIFO order. Events enqueued by
	// handlers during a flush are delivered by the next Flush.
	Flush() error
	// Pending returns the number of queued events.
	Pending() int

	// GetMetrics returns a snapshot of the delivery counters.
	GetMetrics() EventBusMetrics
}

// Event is an immutable message transported by the EventBus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

type (
	// EventHandler is invoked per delivered event.
	EventHandler func(event Event) error
	// EventFilter decides whether an event should be delivered.
	EventFilter func(event Event) bool
)

// Subscription represents a registered handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler from the bus. Multiple calls are safe.
	Cancel() error
}

// EventBusMetrics holds delivery counters.
type EventBusMetrics struct {
	Published         uint64
	Deferred          uint64
	DeliveredHandlers uint64
	Errors            uint64
	DroppedByFilters  uint64
	SubscribersActive uint64
}
