package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tallerhub/internal/domain/entity"
	"tallerhub/internal/domain/repository"
	"tallerhub/pkg/errors"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) chatDoc(workOrderID string) *firestore.DocumentRef {
	return r.client.Collection("jobChats").Doc(workOrderID)
}

func (r *firestoreChatRepository) EnsureChat(ctx context.Context, chat *entity.Chat) error {
	data := map[string]interface{}{
		"id":          chat.WorkOrderID,
		"workOrderId": chat.WorkOrderID,
		"updatedAt":   firestore.ServerTimestamp,
	}
	if chat.Plate != "" {
		data["plate"] = chat.Plate
	}
	if chat.OrderNumber != "" {
		data["orderNumber"] = chat.OrderNumber
	}
	if chat.CustomerName != "" {
		data["customerName"] = chat.CustomerName
	}
	if chat.BudgetStatus != "" {
		data["budgetStatus"] = chat.BudgetStatus
	}

	_, err := r.chatDoc(chat.WorkOrderID).Set(ctx, data, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to ensure chat", err)
	}

	return nil
}

func (r *firestoreChatRepository) GetChat(ctx context.Context, workOrderID string) (*entity.Chat, error) {
	doc, err := r.chatDoc(workOrderID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Chat", err)
		}
		return nil, errors.Internal("Failed to get chat", err)
	}

	var chat entity.Chat
	if err := doc.DataTo(&chat); err != nil {
		return nil, errors.Internal("Failed to parse chat data", err)
	}
	chat.ID = doc.Ref.ID
	chat.WorkOrderID = doc.Ref.ID

	return &chat, nil
}

func (r *firestoreChatRepository) UpdateSummary(ctx context.Context, workOrderID, lastMessage, lastSenderUID string) error {
	_, err := r.chatDoc(workOrderID).Set(ctx, map[string]interface{}{
		"lastMessage":   lastMessage,
		"lastSenderUid": lastSenderUID,
		"updatedAt":     firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to update chat summary", err)
	}

	return nil
}

func (r *firestoreChatRepository) ListChats(ctx context.Context) ([]*entity.Chat, error) {
	iter := r.client.Collection("jobChats").OrderBy("updatedAt", firestore.Desc).Documents(ctx)

	var chats []*entity.Chat
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate chats", err)
		}

		var chat entity.Chat
		if err := doc.DataTo(&chat); err != nil {
			continue // Skip malformed documents
		}
		chat.ID = doc.Ref.ID
		chat.WorkOrderID = doc.Ref.ID
		chats = append(chats, &chat)
	}

	return chats, nil
}

func (r *firestoreChatRepository) EnsureChannel(ctx context.Context, workOrderID, channelID string) error {
	_, err := r.chatDoc(workOrderID).Collection("channels").Doc(channelID).Set(ctx, map[string]interface{}{
		"id":        channelID,
		"name":      channelID,
		"updatedAt": firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to ensure channel", err)
	}

	return nil
}

func (r *firestoreChatRepository) ListChannels(ctx context.Context, workOrderID string) ([]*entity.Channel, error) {
	iter := r.chatDoc(workOrderID).Collection("channels").Documents(ctx)

	var channels []*entity.Channel
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate channels", err)
		}

		var channel entity.Channel
		if err := doc.DataTo(&channel); err != nil {
			continue
		}
		channel.ID = doc.Ref.ID
		channels = append(channels, &channel)
	}

	return channels, nil
}

func (r *firestoreChatRepository) DeleteChannel(ctx context.Context, workOrderID, channelID string) error {
	_, err := r.chatDoc(workOrderID).Collection("channels").Doc(channelID).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete channel", err)
	}

	return nil
}

func (r *firestoreChatRepository) CreateMessage(ctx context.Context, workOrderID, channelID string, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	// Stored createdAt is server-assigned; the local clock only fills the
	// value echoed back to the caller
	message.CreatedAt = time.Now()

	_, err := r.chatDoc(workOrderID).Collection("channels").Doc(channelID).
		Collection("messages").Doc(message.ID).Set(ctx, map[string]interface{}{
			"id":          message.ID,
			"text":        message.Text,
			"uid":         message.UID,
			"displayName": message.DisplayName,
			"createdAt":   firestore.ServerTimestamp,
		})
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}

	return nil
}

func (r *firestoreChatRepository) ListMessages(ctx context.Context, workOrderID, channelID string) ([]*entity.Message, error) {
	iter := r.chatDoc(workOrderID).Collection("channels").Doc(channelID).
		Collection("messages").OrderBy("createdAt", firestore.Asc).Documents(ctx)

	var messages []*entity.Message
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			continue
		}
		message.ID = doc.Ref.ID
		messages = append(messages, &message)
	}

	return messages, nil
}

func (r *firestoreChatRepository) DeleteMessage(ctx context.Context, workOrderID, channelID, messageID string) error {
	_, err := r.chatDoc(workOrderID).Collection("channels").Doc(channelID).
		Collection("messages").Doc(messageID).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete message", err)
	}

	return nil
}

func (r *firestoreChatRepository) DeleteChat(ctx context.Context, workOrderID string) error {
	_, err := r.chatDoc(workOrderID).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete chat", err)
	}

	return nil
}

func (r *firestoreChatRepository) GetReadMarker(ctx context.Context, workOrderID, uid string) (*entity.ReadMarker, error) {
	doc, err := r.chatDoc(workOrderID).Collection("reads").Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			// No marker yet means the viewer never read this chat
			return nil, nil
		}
		return nil, errors.Internal("Failed to get read marker", err)
	}

	var marker entity.ReadMarker
	if err := doc.DataTo(&marker); err != nil {
		return nil, errors.Internal("Failed to parse read marker", err)
	}

	return &marker, nil
}

// SetReadMarker stores a server-assigned lastReadAt so it lives in the same
// clock domain as chat updatedAt; at only orders the in-process debounce.
func (r *firestoreChatRepository) SetReadMarker(ctx context.Context, workOrderID, uid string, at time.Time) error {
	_, err := r.chatDoc(workOrderID).Collection("reads").Doc(uid).Set(ctx, map[string]interface{}{
		"lastReadAt": firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to set read marker", err)
	}

	return nil
}
