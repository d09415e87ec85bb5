package usecase

import (
	"context"
	"strings"
	"time"

	"tallerhub/internal/domain/entity"
	"tallerhub/internal/domain/repository"
	"tallerhub/internal/infrastructure/ratelimit"
	"tallerhub/pkg/errors"
	"tallerhub/pkg/logger"
)

// Chat summaries keep at most this much of the last message for lists.
const summaryMaxLength = 180

type ChatUseCase struct {
	chatRepo      repository.ChatRepository
	workOrderRepo repository.WorkOrderRepository
	userRepo      repository.UserRepository
	tracker       *UnreadTracker
	rateLimiter   *ratelimit.RateLimiter
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	workOrderRepo repository.WorkOrderRepository,
	userRepo repository.UserRepository,
	readDebounce time.Duration,
) *ChatUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &ChatUseCase{
		chatRepo:      chatRepo,
		workOrderRepo: workOrderRepo,
		userRepo:      userRepo,
		tracker:       NewUnreadTracker(chatRepo, readDebounce),
		rateLimiter:   rateLimiter,
	}
}

type SendMessageInput struct {
	WorkOrderID string
	ChannelID   string
	Text        string
}

type ChatListItem struct {
	*entity.Chat
	Unread bool `json:"unread"`
}

// EnsureChat lazily creates the chat root and default channel for a work
// order, merging in the denormalized metadata chat lists render from.
func (uc *ChatUseCase) EnsureChat(ctx context.Context, workOrderID string) (*entity.Chat, error) {
	chat := &entity.Chat{WorkOrderID: workOrderID}

	// Best effort: the chat still works if the work order lookup fails
	if order, err := uc.workOrderRepo.GetByID(ctx, workOrderID); err == nil {
		chat.Plate = order.Plate()
		chat.OrderNumber = order.OrderNumber()
		chat.CustomerName = order.CustomerName()
		chat.BudgetStatus = order.BudgetStatus
	}

	if err := uc.chatRepo.EnsureChat(ctx, chat); err != nil {
		return nil, err
	}
	if err := uc.chatRepo.EnsureChannel(ctx, workOrderID, entity.DefaultChannelName); err != nil {
		return nil, err
	}

	return uc.chatRepo.GetChat(ctx, workOrderID)
}

func (uc *ChatUseCase) SendMessage(ctx context.Context, uid string, input SendMessageInput) (*entity.Message, error) {
	allowed, waitTime := uc.rateLimiter.Allow(uid, "send_message")
	if !allowed {
		return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before sending another message", waitTime)
	}

	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, errors.BadRequest("Message text is required", nil)
	}

	channelID := input.ChannelID
	if channelID == "" {
		channelID = entity.DefaultChannelName
	}

	if _, err := uc.EnsureChat(ctx, input.WorkOrderID); err != nil {
		return nil, err
	}
	if channelID != entity.DefaultChannelName {
		if err := uc.chatRepo.EnsureChannel(ctx, input.WorkOrderID, channelID); err != nil {
			return nil, err
		}
	}

	displayName := ""
	if user, err := uc.userRepo.GetByID(ctx, uid); err == nil {
		displayName = user.DisplayName
		if displayName == "" {
			displayName = user.Email
		}
	}

	message := &entity.Message{
		Text:        text,
		UID:         uid,
		DisplayName: displayName,
	}
	if err := uc.chatRepo.CreateMessage(ctx, input.WorkOrderID, channelID, message); err != nil {
		return nil, err
	}

	summary := text
	if runes := []rune(summary); len(runes) > summaryMaxLength {
		summary = string(runes[:summaryMaxLength])
	}
	if err := uc.chatRepo.UpdateSummary(ctx, input.WorkOrderID, summary, uid); err != nil {
		// The message is already stored; a stale summary only affects lists
		logger.Warn("Failed to update chat summary for work order %s: %v", input.WorkOrderID, err)
	}

	// The sender has obviously read their own message
	if err := uc.tracker.MarkRead(ctx, input.WorkOrderID, uid); err != nil {
		logger.Warn("Failed to mark chat %s read for sender: %v", input.WorkOrderID, err)
	}

	return message, nil
}

func (uc *ChatUseCase) ListMessages(ctx context.Context, workOrderID, channelID string) ([]*entity.Message, error) {
	if channelID == "" {
		channelID = entity.DefaultChannelName
	}
	return uc.chatRepo.ListMessages(ctx, workOrderID, channelID)
}

// ListChats returns every chat summary with the unread flag computed for
// the viewer.
func (uc *ChatUseCase) ListChats(ctx context.Context, viewerID string) ([]*ChatListItem, error) {
	chats, err := uc.chatRepo.ListChats(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*ChatListItem, 0, len(chats))
	for _, chat := range chats {
		marker, err := uc.chatRepo.GetReadMarker(ctx, chat.WorkOrderID, viewerID)
		if err != nil {
			logger.Warn("Failed to read marker for chat %s: %v", chat.WorkOrderID, err)
			marker = nil
		}
		items = append(items, &ChatListItem{
			Chat:   chat,
			Unread: IsUnread(chat, marker, viewerID),
		})
	}

	return items, nil
}

func (uc *ChatUseCase) MarkRead(ctx context.Context, workOrderID, viewerID string) error {
	return uc.tracker.MarkRead(ctx, workOrderID, viewerID)
}

// DeleteChatForJob removes a work order's whole chat tree: messages first,
// then each channel document, then the root. Missing documents are skipped
// silently and failures are logged but never propagated, so the delete,
// reject and finalize workflows that call this are never blocked. A partial
// failure leaves a tree a re-run can finish cleaning.
func (uc *ChatUseCase) DeleteChatForJob(ctx context.Context, workOrderID string) {
	channels, err := uc.chatRepo.ListChannels(ctx, workOrderID)
	if err != nil {
		logger.Warn("Could not list channels for chat %s: %v", workOrderID, err)
		return
	}

	clean := true
	for _, channel := range channels {
		messages, err := uc.chatRepo.ListMessages(ctx, workOrderID, channel.ID)
		if err != nil {
			logger.Warn("Could not list messages for chat %s channel %s: %v", workOrderID, channel.ID, err)
			clean = false
			continue
		}

		channelClean := true
		for _, message := range messages {
			if err := uc.chatRepo.DeleteMessage(ctx, workOrderID, channel.ID, message.ID); err != nil {
				logger.Warn("Could not delete message %s in chat %s: %v", message.ID, workOrderID, err)
				channelClean = false
			}
		}
		if !channelClean {
			clean = false
			continue
		}

		if err := uc.chatRepo.DeleteChannel(ctx, workOrderID, channel.ID); err != nil {
			logger.Warn("Could not delete channel %s in chat %s: %v", channel.ID, workOrderID, err)
			clean = false
		}
	}

	// Children before parent: keep the root while any descendant remains
	if !clean {
		return
	}
	if err := uc.chatRepo.DeleteChat(ctx, workOrderID); err != nil {
		logger.Warn("Could not delete chat root for work order %s: %v", workOrderID, err)
	}
}
