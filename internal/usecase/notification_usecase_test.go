package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tallerhub/internal/domain/entity"
	"tallerhub/internal/domain/repository"
	"tallerhub/internal/domain/service"
)

type fakeTokenRepo struct {
	tokens    []*entity.DeviceToken
	saved     []*entity.DeviceToken
	deleted   []string
	listErr   error
	deleteErr map[string]error
}

func (f *fakeTokenRepo) Save(ctx context.Context, token *entity.DeviceToken) error {
	f.saved = append(f.saved, token)
	return nil
}

func (f *fakeTokenRepo) ListAll(ctx context.Context) ([]*entity.DeviceToken, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.tokens, nil
}

func (f *fakeTokenRepo) Delete(ctx context.Context, uid, token string) error {
	if err := f.deleteErr[token]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, uid+"/"+token)
	return nil
}

type fakeSender struct {
	calls   [][]string
	data    []map[string]string
	outcome map[string]service.PushResult
	err     error
}

func (f *fakeSender) SendMulticast(ctx context.Context, tokens []string, data map[string]string) ([]service.PushResult, error) {
	f.calls = append(f.calls, tokens)
	f.data = append(f.data, data)
	if f.err != nil {
		return nil, f.err
	}

	results := make([]service.PushResult, 0, len(tokens))
	for _, tok := range tokens {
		if r, ok := f.outcome[tok]; ok {
			results = append(results, r)
			continue
		}
		results = append(results, service.PushResult{Token: tok, Success: true})
	}
	return results, nil
}

type fakeStream struct {
	events   []repository.MessageCreatedEvent
	failures int
	calls    int
	cancel   context.CancelFunc
}

func (f *fakeStream) Listen(ctx context.Context, handler func(ctx context.Context, event repository.MessageCreatedEvent)) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("watch stream reset")
	}
	for _, event := range f.events {
		handler(ctx, event)
	}
	f.cancel()
	return ctx.Err()
}

func token(uid, value string) *entity.DeviceToken {
	return &entity.DeviceToken{UID: uid, Token: value}
}

func TestNotifyExcludesAuthorTokens(t *testing.T) {
	repo := &fakeTokenRepo{tokens: []*entity.DeviceToken{
		token("author", "tok-a1"),
		token("other", "tok-b1"),
		token("author", "tok-a2"),
		token("other2", "tok-c1"),
	}}
	sender := &fakeSender{}
	uc := NewNotificationUseCase(repo, nil, sender)

	err := uc.NotifyMessageCreated(context.Background(), "wo1", &entity.Message{UID: "author", Text: "hola"})

	require.NoError(t, err)
	require.Len(t, sender.calls, 1)
	assert.Equal(t, []string{"tok-b1", "tok-c1"}, sender.calls[0])
}

func TestNotifyDeduplicatesTokens(t *testing.T) {
	repo := &fakeTokenRepo{tokens: []*entity.DeviceToken{
		token("u1", "tok-shared"),
		token("u2", "tok-shared"),
		token("u1", "tok-own"),
	}}
	sender := &fakeSender{}
	uc := NewNotificationUseCase(repo, nil, sender)

	err := uc.NotifyMessageCreated(context.Background(), "wo1", &entity.Message{UID: "author", Text: "hola"})

	require.NoError(t, err)
	require.Len(t, sender.calls, 1)
	assert.Equal(t, []string{"tok-shared", "tok-own"}, sender.calls[0])
}

func TestNotifyPayloadContents(t *testing.T) {
	repo := &fakeTokenRepo{tokens: []*entity.DeviceToken{token("u1", "tok-1")}}
	sender := &fakeSender{}
	uc := NewNotificationUseCase(repo, nil, sender)

	err := uc.NotifyMessageCreated(context.Background(), "wo42", &entity.Message{UID: "author", Text: "brake pads arrived"})

	require.NoError(t, err)
	require.Len(t, sender.data, 1)
	data := sender.data[0]
	assert.Equal(t, "New message", data["title"])
	assert.Equal(t, "brake pads arrived", data["body"])
	assert.Equal(t, "/chat-job/wo42", data["url"])
	assert.Equal(t, "chat-job-wo42", data["tag"])
	assert.Equal(t, "wo42", data["workOrderId"])
}

func TestNotifyTruncatesLongBody(t *testing.T) {
	repo := &fakeTokenRepo{tokens: []*entity.DeviceToken{token("u1", "tok-1")}}
	sender := &fakeSender{}
	uc := NewNotificationUseCase(repo, nil, sender)

	long := strings.Repeat("x", 85)
	err := uc.NotifyMessageCreated(context.Background(), "wo1", &entity.Message{UID: "author", Text: long})

	require.NoError(t, err)
	require.Len(t, sender.data, 1)
	assert.Equal(t, strings.Repeat("x", 77)+"...", sender.data[0]["body"])
}

func TestNotifyBodyAtLimitIsKept(t *testing.T) {
	repo := &fakeTokenRepo{tokens: []*entity.DeviceToken{token("u1", "tok-1")}}
	sender := &fakeSender{}
	uc := NewNotificationUseCase(repo, nil, sender)

	exact := strings.Repeat("y", 80)
	err := uc.NotifyMessageCreated(context.Background(), "wo1", &entity.Message{UID: "author", Text: exact})

	require.NoError(t, err)
	assert.Equal(t, exact, sender.data[0]["body"])
}

func TestNotifyEmptyTextUsesFallback(t *testing.T) {
	repo := &fakeTokenRepo{tokens: []*entity.DeviceToken{token("u1", "tok-1")}}
	sender := &fakeSender{}
	uc := NewNotificationUseCase(repo, nil, sender)

	err := uc.NotifyMessageCreated(context.Background(), "wo1", &entity.Message{UID: "author"})

	require.NoError(t, err)
	assert.Equal(t, "You have a new message", sender.data[0]["body"])
}

func TestNotifyWithoutAuthorSkipsSend(t *testing.T) {
	repo := &fakeTokenRepo{tokens: []*entity.DeviceToken{token("u1", "tok-1")}}
	sender := &fakeSender{}
	uc := NewNotificationUseCase(repo, nil, sender)

	require.NoError(t, uc.NotifyMessageCreated(context.Background(), "wo1", &entity.Message{Text: "orphan"}))
	require.NoError(t, uc.NotifyMessageCreated(context.Background(), "wo1", nil))
	assert.Empty(t, sender.calls)
}

func TestNotifyNoTargetsSkipsProvider(t *testing.T) {
	repo := &fakeTokenRepo{tokens: []*entity.DeviceToken{token("author", "tok-a1")}}
	sender := &fakeSender{}
	uc := NewNotificationUseCase(repo, nil, sender)

	err := uc.NotifyMessageCreated(context.Background(), "wo1", &entity.Message{UID: "author", Text: "hola"})

	require.NoError(t, err)
	assert.Empty(t, sender.calls)
}

func TestNotifyChunksLargeAudience(t *testing.T) {
	var tokens []*entity.DeviceToken
	for i := 0; i < 1200; i++ {
		tokens = append(tokens, token(fmt.Sprintf("u%d", i), fmt.Sprintf("tok-%04d", i)))
	}
	repo := &fakeTokenRepo{tokens: tokens}
	sender := &fakeSender{}
	uc := NewNotificationUseCase(repo, nil, sender)

	err := uc.NotifyMessageCreated(context.Background(), "wo1", &entity.Message{UID: "author", Text: "hola"})

	require.NoError(t, err)
	require.Len(t, sender.calls, 3)
	assert.Len(t, sender.calls[0], 500)
	assert.Len(t, sender.calls[1], 500)
	assert.Len(t, sender.calls[2], 200)
	assert.Equal(t, "tok-0000", sender.calls[0][0])
	assert.Equal(t, "tok-0500", sender.calls[1][0])
	assert.Equal(t, "tok-1199", sender.calls[2][199])
}

func TestNotifyPrunesPermanentlyDeadTokens(t *testing.T) {
	repo := &fakeTokenRepo{tokens: []*entity.DeviceToken{
		token("u1", "tok-dead"),
		token("u2", "tok-throttled"),
		token("u3", "tok-live"),
	}}
	sender := &fakeSender{outcome: map[string]service.PushResult{
		"tok-dead":      {Token: "tok-dead", ErrorCode: service.PushErrUnregistered},
		"tok-throttled": {Token: "tok-throttled", ErrorCode: service.PushErrQuotaExceeded},
	}}
	uc := NewNotificationUseCase(repo, nil, sender)

	err := uc.NotifyMessageCreated(context.Background(), "wo1", &entity.Message{UID: "author", Text: "hola"})

	require.NoError(t, err)
	assert.Equal(t, []string{"u1/tok-dead"}, repo.deleted)
}

func TestNotifyPruneSurvivesDeleteFailure(t *testing.T) {
	repo := &fakeTokenRepo{
		tokens: []*entity.DeviceToken{
			token("u1", "tok-dead1"),
			token("u2", "tok-dead2"),
		},
		deleteErr: map[string]error{"tok-dead1": errors.New("firestore down")},
	}
	sender := &fakeSender{outcome: map[string]service.PushResult{
		"tok-dead1": {Token: "tok-dead1", ErrorCode: service.PushErrInvalidRegistration},
		"tok-dead2": {Token: "tok-dead2", ErrorCode: service.PushErrUnregistered},
	}}
	uc := NewNotificationUseCase(repo, nil, sender)

	err := uc.NotifyMessageCreated(context.Background(), "wo1", &entity.Message{UID: "author", Text: "hola"})

	require.NoError(t, err)
	assert.Equal(t, []string{"u2/tok-dead2"}, repo.deleted)
}

func TestNotifyTokenScanErrorPropagates(t *testing.T) {
	scanErr := errors.New("collection group scan failed")
	repo := &fakeTokenRepo{listErr: scanErr}
	sender := &fakeSender{}
	uc := NewNotificationUseCase(repo, nil, sender)

	err := uc.NotifyMessageCreated(context.Background(), "wo1", &entity.Message{UID: "author", Text: "hola"})

	assert.ErrorIs(t, err, scanErr)
	assert.Empty(t, sender.calls)
}

func TestNotifyProviderErrorPropagates(t *testing.T) {
	repo := &fakeTokenRepo{tokens: []*entity.DeviceToken{token("u1", "tok-1")}}
	sendErr := errors.New("fcm unreachable")
	sender := &fakeSender{err: sendErr}
	uc := NewNotificationUseCase(repo, nil, sender)

	err := uc.NotifyMessageCreated(context.Background(), "wo1", &entity.Message{UID: "author", Text: "hola"})

	assert.ErrorIs(t, err, sendErr)
	assert.Empty(t, repo.deleted)
}

func TestRunDeliversStreamedEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	repo := &fakeTokenRepo{tokens: []*entity.DeviceToken{token("u1", "tok-1")}}
	sender := &fakeSender{}
	stream := &fakeStream{
		events: []repository.MessageCreatedEvent{
			{WorkOrderID: "wo1", Message: &entity.Message{UID: "author", Text: "first"}},
			{WorkOrderID: "wo2", Message: &entity.Message{UID: "author", Text: "second"}},
		},
		cancel: cancel,
	}
	uc := NewNotificationUseCase(repo, stream, sender)

	uc.Run(ctx)

	require.Len(t, sender.calls, 2)
	assert.Equal(t, "/chat-job/wo1", sender.data[0]["url"])
	assert.Equal(t, "/chat-job/wo2", sender.data[1]["url"])
}

func TestRunResubscribesAfterStreamFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	repo := &fakeTokenRepo{tokens: []*entity.DeviceToken{token("u1", "tok-1")}}
	sender := &fakeSender{}
	stream := &fakeStream{
		failures: 2,
		events: []repository.MessageCreatedEvent{
			{WorkOrderID: "wo1", Message: &entity.Message{UID: "author", Text: "after reconnect"}},
		},
		cancel: cancel,
	}
	uc := NewNotificationUseCase(repo, stream, sender)
	uc.retryDelay = 0

	uc.Run(ctx)

	// Two failed subscriptions, then the third delivers
	assert.Equal(t, 3, stream.calls)
	require.Len(t, sender.calls, 1)
	assert.Equal(t, "/chat-job/wo1", sender.data[0]["url"])
}

func TestRegisterAndUnregisterToken(t *testing.T) {
	repo := &fakeTokenRepo{}
	uc := NewNotificationUseCase(repo, nil, &fakeSender{})

	record, err := uc.RegisterToken(context.Background(), "u1", "tok-1", "Mozilla/5.0")
	require.NoError(t, err)
	assert.Equal(t, "u1", record.UID)
	assert.Equal(t, "tok-1", record.Token)
	assert.Equal(t, "Mozilla/5.0", record.UserAgent)
	require.Len(t, repo.saved, 1)

	require.NoError(t, uc.UnregisterToken(context.Background(), "u1", "tok-1"))
	assert.Equal(t, []string{"u1/tok-1"}, repo.deleted)
}
