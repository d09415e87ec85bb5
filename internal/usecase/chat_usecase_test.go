package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tallerhub/internal/domain/entity"
	apperrors "tallerhub/pkg/errors"
)

type fakeChatRepo struct {
	chats     map[string]*entity.Chat
	chatOrder []string
	channels  map[string][]string
	messages  map[string][]*entity.Message
	markers   map[string]*entity.ReadMarker
	nextID    int

	listChannelsErr error
	deleteMsgErr    map[string]error
	markerErr       error
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		chats:        make(map[string]*entity.Chat),
		channels:     make(map[string][]string),
		messages:     make(map[string][]*entity.Message),
		markers:      make(map[string]*entity.ReadMarker),
		deleteMsgErr: make(map[string]error),
	}
}

func msgKey(workOrderID, channelID string) string { return workOrderID + "/" + channelID }

func (f *fakeChatRepo) EnsureChat(ctx context.Context, chat *entity.Chat) error {
	if existing, ok := f.chats[chat.WorkOrderID]; ok {
		if chat.Plate != "" {
			existing.Plate = chat.Plate
		}
		if chat.BudgetStatus != "" {
			existing.BudgetStatus = chat.BudgetStatus
		}
		return nil
	}
	stored := *chat
	stored.ID = chat.WorkOrderID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.chats[chat.WorkOrderID] = &stored
	f.chatOrder = append(f.chatOrder, chat.WorkOrderID)
	return nil
}

func (f *fakeChatRepo) GetChat(ctx context.Context, workOrderID string) (*entity.Chat, error) {
	chat, ok := f.chats[workOrderID]
	if !ok {
		return nil, apperrors.NotFound("Chat", nil)
	}
	return chat, nil
}

func (f *fakeChatRepo) UpdateSummary(ctx context.Context, workOrderID, lastMessage, lastSenderUID string) error {
	chat, ok := f.chats[workOrderID]
	if !ok {
		return apperrors.NotFound("Chat", nil)
	}
	chat.LastMessage = lastMessage
	chat.LastSenderUID = lastSenderUID
	chat.UpdatedAt = time.Now()
	return nil
}

func (f *fakeChatRepo) ListChats(ctx context.Context) ([]*entity.Chat, error) {
	chats := make([]*entity.Chat, 0, len(f.chatOrder))
	for _, id := range f.chatOrder {
		chats = append(chats, f.chats[id])
	}
	return chats, nil
}

func (f *fakeChatRepo) EnsureChannel(ctx context.Context, workOrderID, channelID string) error {
	for _, id := range f.channels[workOrderID] {
		if id == channelID {
			return nil
		}
	}
	f.channels[workOrderID] = append(f.channels[workOrderID], channelID)
	return nil
}

func (f *fakeChatRepo) ListChannels(ctx context.Context, workOrderID string) ([]*entity.Channel, error) {
	if f.listChannelsErr != nil {
		return nil, f.listChannelsErr
	}
	channels := make([]*entity.Channel, 0, len(f.channels[workOrderID]))
	for _, id := range f.channels[workOrderID] {
		channels = append(channels, &entity.Channel{ID: id, Name: id})
	}
	return channels, nil
}

func (f *fakeChatRepo) DeleteChannel(ctx context.Context, workOrderID, channelID string) error {
	kept := f.channels[workOrderID][:0]
	for _, id := range f.channels[workOrderID] {
		if id != channelID {
			kept = append(kept, id)
		}
	}
	f.channels[workOrderID] = kept
	return nil
}

func (f *fakeChatRepo) CreateMessage(ctx context.Context, workOrderID, channelID string, message *entity.Message) error {
	f.nextID++
	message.ID = fmt.Sprintf("m%d", f.nextID)
	message.CreatedAt = time.Now()
	key := msgKey(workOrderID, channelID)
	f.messages[key] = append(f.messages[key], message)
	return nil
}

func (f *fakeChatRepo) ListMessages(ctx context.Context, workOrderID, channelID string) ([]*entity.Message, error) {
	src := f.messages[msgKey(workOrderID, channelID)]
	out := make([]*entity.Message, len(src))
	copy(out, src)
	return out, nil
}

func (f *fakeChatRepo) DeleteMessage(ctx context.Context, workOrderID, channelID, messageID string) error {
	if err := f.deleteMsgErr[messageID]; err != nil {
		return err
	}
	key := msgKey(workOrderID, channelID)
	kept := f.messages[key][:0]
	for _, m := range f.messages[key] {
		if m.ID != messageID {
			kept = append(kept, m)
		}
	}
	f.messages[key] = kept
	return nil
}

func (f *fakeChatRepo) DeleteChat(ctx context.Context, workOrderID string) error {
	delete(f.chats, workOrderID)
	kept := f.chatOrder[:0]
	for _, id := range f.chatOrder {
		if id != workOrderID {
			kept = append(kept, id)
		}
	}
	f.chatOrder = kept
	return nil
}

func (f *fakeChatRepo) GetReadMarker(ctx context.Context, workOrderID, uid string) (*entity.ReadMarker, error) {
	if f.markerErr != nil {
		return nil, f.markerErr
	}
	return f.markers[workOrderID+"/"+uid], nil
}

func (f *fakeChatRepo) SetReadMarker(ctx context.Context, workOrderID, uid string, at time.Time) error {
	f.markers[workOrderID+"/"+uid] = &entity.ReadMarker{LastReadAt: at}
	return nil
}

type fakeWorkOrderRepo struct {
	orders map[string]*entity.WorkOrder
	nextID int
}

func newFakeWorkOrderRepo() *fakeWorkOrderRepo {
	return &fakeWorkOrderRepo{orders: make(map[string]*entity.WorkOrder)}
}

func (f *fakeWorkOrderRepo) Create(ctx context.Context, order *entity.WorkOrder) error {
	f.nextID++
	if order.ID == "" {
		order.ID = fmt.Sprintf("wo%d", f.nextID)
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	f.orders[order.ID] = order
	return nil
}

func (f *fakeWorkOrderRepo) GetByID(ctx context.Context, id string) (*entity.WorkOrder, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, apperrors.NotFound("Work order", nil)
	}
	return order, nil
}

func (f *fakeWorkOrderRepo) Update(ctx context.Context, order *entity.WorkOrder) error {
	if _, ok := f.orders[order.ID]; !ok {
		return apperrors.NotFound("Work order", nil)
	}
	order.UpdatedAt = time.Now()
	f.orders[order.ID] = order
	return nil
}

func (f *fakeWorkOrderRepo) Delete(ctx context.Context, id string) error {
	delete(f.orders, id)
	return nil
}

func (f *fakeWorkOrderRepo) ListByStatus(ctx context.Context, status string) ([]*entity.WorkOrder, error) {
	var out []*entity.WorkOrder
	for _, order := range f.orders {
		if status == "" || order.BudgetStatus == status {
			out = append(out, order)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (f *fakeUserRepo) Upsert(ctx context.Context, user *entity.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.NotFound("User", nil)
	}
	return user, nil
}

func newChatFixture() (*ChatUseCase, *fakeChatRepo, *fakeWorkOrderRepo, *fakeUserRepo) {
	chatRepo := newFakeChatRepo()
	workOrderRepo := newFakeWorkOrderRepo()
	userRepo := newFakeUserRepo()
	uc := NewChatUseCase(chatRepo, workOrderRepo, userRepo, 0)
	return uc, chatRepo, workOrderRepo, userRepo
}

func TestSendMessageCreatesChatTree(t *testing.T) {
	uc, chatRepo, workOrderRepo, userRepo := newChatFixture()
	ctx := context.Background()

	workOrderRepo.orders["wo1"] = &entity.WorkOrder{
		ID:           "wo1",
		Data:         map[string]interface{}{"plate": "1234-ABC", "customerName": "Marta"},
		BudgetStatus: entity.BudgetStatusApproved,
	}
	userRepo.users["u1"] = &entity.User{ID: "u1", DisplayName: "Paco"}

	message, err := uc.SendMessage(ctx, "u1", SendMessageInput{WorkOrderID: "wo1", Text: "  listo el cambio de aceite  "})
	require.NoError(t, err)

	assert.Equal(t, "listo el cambio de aceite", message.Text)
	assert.Equal(t, "Paco", message.DisplayName)

	chat, err := chatRepo.GetChat(ctx, "wo1")
	require.NoError(t, err)
	assert.Equal(t, "1234-ABC", chat.Plate)
	assert.Equal(t, "listo el cambio de aceite", chat.LastMessage)
	assert.Equal(t, "u1", chat.LastSenderUID)

	assert.Equal(t, []string{entity.DefaultChannelName}, chatRepo.channels["wo1"])
	require.Len(t, chatRepo.messages[msgKey("wo1", entity.DefaultChannelName)], 1)

	// The sender never sees their own message as unread
	require.NotNil(t, chatRepo.markers["wo1/u1"])
}

func TestSendMessageRejectsBlankText(t *testing.T) {
	uc, chatRepo, _, _ := newChatFixture()

	_, err := uc.SendMessage(context.Background(), "u1", SendMessageInput{WorkOrderID: "wo1", Text: "   \n\t"})

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, "BAD_REQUEST"))
	assert.Empty(t, chatRepo.chats)
}

func TestSendMessageTruncatesSummary(t *testing.T) {
	uc, chatRepo, _, _ := newChatFixture()

	long := strings.Repeat("a", 200)
	message, err := uc.SendMessage(context.Background(), "u1", SendMessageInput{WorkOrderID: "wo1", Text: long})
	require.NoError(t, err)

	// The message keeps the full text; only the list summary is cut
	assert.Len(t, []rune(message.Text), 200)
	chat := chatRepo.chats["wo1"]
	assert.Len(t, []rune(chat.LastMessage), 180)
}

func TestSendMessageOnNamedChannel(t *testing.T) {
	uc, chatRepo, _, _ := newChatFixture()
	ctx := context.Background()

	_, err := uc.SendMessage(ctx, "u1", SendMessageInput{WorkOrderID: "wo1", ChannelID: "parts", Text: "pedido el filtro"})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{entity.DefaultChannelName, "parts"}, chatRepo.channels["wo1"])
	assert.Len(t, chatRepo.messages[msgKey("wo1", "parts")], 1)
	assert.Empty(t, chatRepo.messages[msgKey("wo1", entity.DefaultChannelName)])
}

func TestListChatsComputesUnread(t *testing.T) {
	uc, _, _, _ := newChatFixture()
	ctx := context.Background()

	_, err := uc.SendMessage(ctx, "u2", SendMessageInput{WorkOrderID: "wo1", Text: "hola"})
	require.NoError(t, err)
	_, err = uc.SendMessage(ctx, "u1", SendMessageInput{WorkOrderID: "wo2", Text: "hola"})
	require.NoError(t, err)

	items, err := uc.ListChats(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)

	byID := map[string]bool{}
	for _, item := range items {
		byID[item.WorkOrderID] = item.Unread
	}
	assert.True(t, byID["wo1"], "someone else's message must show unread")
	assert.False(t, byID["wo2"], "own message must not show unread")

	require.NoError(t, uc.MarkRead(ctx, "wo1", "u1"))
	items, err = uc.ListChats(ctx, "u1")
	require.NoError(t, err)
	for _, item := range items {
		assert.False(t, item.Unread)
	}
}

func TestListChatsSurvivesMarkerReadFailure(t *testing.T) {
	uc, chatRepo, _, _ := newChatFixture()
	ctx := context.Background()

	_, err := uc.SendMessage(ctx, "u2", SendMessageInput{WorkOrderID: "wo1", Text: "hola"})
	require.NoError(t, err)
	_, err = uc.SendMessage(ctx, "u1", SendMessageInput{WorkOrderID: "wo2", Text: "hola"})
	require.NoError(t, err)

	chatRepo.markerErr = fmt.Errorf("firestore unavailable")

	items, err := uc.ListChats(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)

	// An unreadable marker is treated as never-read: someone else's message
	// stays visible as unread, own messages never do
	byID := map[string]bool{}
	for _, item := range items {
		byID[item.WorkOrderID] = item.Unread
	}
	assert.True(t, byID["wo1"])
	assert.False(t, byID["wo2"])
}

func seedChatTree(t *testing.T, uc *ChatUseCase, workOrderID string, channels, messagesPerChannel int) {
	t.Helper()
	ctx := context.Background()
	for c := 0; c < channels; c++ {
		channelID := fmt.Sprintf("channel-%d", c)
		for m := 0; m < messagesPerChannel; m++ {
			_, err := uc.SendMessage(ctx, "u1", SendMessageInput{
				WorkOrderID: workOrderID,
				ChannelID:   channelID,
				Text:        fmt.Sprintf("message %d-%d", c, m),
			})
			require.NoError(t, err)
		}
	}
}

func TestDeleteChatForJobCascades(t *testing.T) {
	uc, chatRepo, _, _ := newChatFixture()
	ctx := context.Background()

	seedChatTree(t, uc, "wo1", 2, 3)
	require.Len(t, chatRepo.messages[msgKey("wo1", "channel-0")], 3)
	require.Len(t, chatRepo.messages[msgKey("wo1", "channel-1")], 3)

	uc.DeleteChatForJob(ctx, "wo1")

	assert.Empty(t, chatRepo.messages[msgKey("wo1", "channel-0")])
	assert.Empty(t, chatRepo.messages[msgKey("wo1", "channel-1")])
	assert.Empty(t, chatRepo.channels["wo1"])
	assert.NotContains(t, chatRepo.chats, "wo1")
}

func TestDeleteChatForJobKeepsRootOnPartialFailure(t *testing.T) {
	uc, chatRepo, _, _ := newChatFixture()
	ctx := context.Background()

	seedChatTree(t, uc, "wo1", 2, 2)

	stuck := chatRepo.messages[msgKey("wo1", "channel-1")][0].ID
	chatRepo.deleteMsgErr[stuck] = fmt.Errorf("transient firestore error")

	uc.DeleteChatForJob(ctx, "wo1")

	// The failing channel and the root survive so a retry can finish
	assert.Contains(t, chatRepo.chats, "wo1")
	assert.Contains(t, chatRepo.channels["wo1"], "channel-1")
	assert.NotEmpty(t, chatRepo.messages[msgKey("wo1", "channel-1")])

	delete(chatRepo.deleteMsgErr, stuck)
	uc.DeleteChatForJob(ctx, "wo1")

	assert.NotContains(t, chatRepo.chats, "wo1")
	assert.Empty(t, chatRepo.channels["wo1"])
	assert.Empty(t, chatRepo.messages[msgKey("wo1", "channel-1")])
}

func TestDeleteChatForJobMissingChatIsNoop(t *testing.T) {
	uc, chatRepo, _, _ := newChatFixture()

	uc.DeleteChatForJob(context.Background(), "never-existed")

	assert.Empty(t, chatRepo.chats)
}
