package repository

import (
	"context"
	"time"

	"tallerhub/internal/domain/entity"
)

type ChatRepository interface {
	// EnsureChat creates or merges the root chat document for a work order.
	EnsureChat(ctx context.Context, chat *entity.Chat) error
	GetChat(ctx context.Context, workOrderID string) (*entity.Chat, error)
	UpdateSummary(ctx context.Context, workOrderID, lastMessage, lastSenderUID string) error
	ListChats(ctx context.Context) ([]*entity.Chat, error)

	EnsureChannel(ctx context.Context, workOrderID, channelID string) error
	ListChannels(ctx context.Context, workOrderID string) ([]*entity.Channel, error)
	DeleteChannel(ctx context.Context, workOrderID, channelID string) error

	CreateMessage(ctx context.Context, workOrderID, channelID string, message *entity.Message) error
	ListMessages(ctx context.Context, workOrderID, channelID string) ([]*entity.Message, error)
	DeleteMessage(ctx context.Context, workOrderID, channelID, messageID string) error

	DeleteChat(ctx context.Context, workOrderID string) error

	// GetReadMarker returns nil (not an error) when the viewer has no marker yet.
	GetReadMarker(ctx context.Context, workOrderID, uid string) (*entity.ReadMarker, error)
	SetReadMarker(ctx context.Context, workOrderID, uid string, at time.Time) error
}
