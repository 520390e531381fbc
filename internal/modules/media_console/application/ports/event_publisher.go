package ports

import "github.com/sglre6355/heimdall/internal/modules/media_console/domain"

// EventPublisher publishes console events. Publish must not block.
type EventPublisher interface {
	Publish(event domain.Event)
}
