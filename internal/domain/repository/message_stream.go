package repository

import (
	"context"

	"tallerhub/internal/domain/entity"
)

// MessageCreatedEvent describes one newly written chat message.
type MessageCreatedEvent struct {
	WorkOrderID string
	ChannelID   string
	MessageID   string
	Message     *entity.Message
}

// MessageStream delivers created-message events from the document store's
// change feed until ctx is cancelled. Delivery is at-least-once; handlers
// must tolerate duplicates.
type MessageStream interface {
	Listen(ctx context.Context, handler func(ctx context.Context, event MessageCreatedEvent)) error
}
