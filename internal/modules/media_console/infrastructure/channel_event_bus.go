package infrastructure

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"sync"

	"github.com/sglre6355/heimdall/internal/modules/media_console/application/ports"
	"github.com/sglre6355/heimdall/internal/modules/media_console/domain"
)

// DefaultEventBufferSize is the default buffer size for the event channel.
const DefaultEventBufferSize = 100

// ErrNotAnEvent is returned when subscribing to a type that does not implement domain.Event.
var ErrNotAnEvent = errors.New("type does not implement domain.Event")

var eventInterface = reflect.TypeFor[domain.Event]()

// Compile-time checks that ChannelEventBus implements ports interfaces.
var (
	_ ports.EventPublisher  = (*ChannelEventBus)(nil)
	_ ports.EventSubscriber = (*ChannelEventBus)(nil)
)

// ChannelEventBus delivers events to handlers on a single dispatcher goroutine,
// in publish order. Publishing never blocks the console loop.
type ChannelEventBus struct {
	events   chan domain.Event
	handlers map[reflect.Type][]ports.EventHandler

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
	mu     sync.RWMutex
}

// NewChannelEventBus creates a new ChannelEventBus with the given buffer size.
func NewChannelEventBus(bufferSize int) *ChannelEventBus {
	if bufferSize <= 0 {
		bufferSize = DefaultEventBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	bus := &ChannelEventBus{
		events:   make(chan domain.Event, bufferSize),
		handlers: make(map[reflect.Type][]ports.EventHandler),
		ctx:      ctx,
		cancel:   cancel,
	}

	bus.wg.Add(1)
	go bus.dispatch()

	return bus
}

func (b *ChannelEventBus) dispatch() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.events:
			if !ok {
				return
			}
			b.mu.RLock()
			handlers := b.handlers[reflect.TypeOf(event)]
			b.mu.RUnlock()
			for _, handler := range handlers {
				handler(b.ctx, event)
			}
		}
	}
}

// Publish queues an event for delivery.
// Non-blocking: if the channel buffer is full, the event is dropped with a warning.
func (b *ChannelEventBus) Publish(event domain.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	eventType := reflect.TypeOf(event)
	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", eventType)
		return
	}

	select {
	case b.events <- event:
		slog.Debug("published event", "type", eventType)
	default:
		slog.Warn("event buffer full, dropping event", "type", eventType)
	}
}

// Subscribe registers a handler for events of the given concrete type.
func (b *ChannelEventBus) Subscribe(eventType reflect.Type, handler ports.EventHandler) error {
	if eventType == nil || !eventType.Implements(eventInterface) {
		return ErrNotAnEvent
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

// Close stops the dispatcher. After calling Close, publishing will no longer send events.
func (b *ChannelEventBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	b.cancel()
	close(b.events)
	b.wg.Wait()

	slog.Debug("channel event bus closed")
}
