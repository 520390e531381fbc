package ports

import (
	"context"
	"reflect"

	"github.com/sglre6355/heimdall/internal/modules/media_console/domain"
)

// EventHandler handles a published event.
type EventHandler func(ctx context.Context, event domain.Event)

// EventSubscriber registers handlers by event type.
type EventSubscriber interface {
	Subscribe(eventType reflect.Type, handler EventHandler) error
}
