package usecase

import (
	"context"
	"time"

	"tallerhub/internal/domain/entity"
	"tallerhub/internal/domain/repository"
	"tallerhub/internal/domain/service"
	"tallerhub/pkg/logger"
)

const (
	notificationTitle = "New message"
	emptyBodyFallback = "You have a new message"

	// Body is cut to 77 visible characters plus "..." whenever the text
	// exceeds 80.
	maxBodyLength = 80

	// FCM accepts at most 500 tokens per multicast call.
	multicastChunkSize = 500

	streamRetryBaseDelay = time.Second
	streamRetryMaxDelay  = time.Minute
)

// PushPayload is the composed notification content, sent data-only so the
// receiving side renders it exactly once.
type PushPayload struct {
	Title       string
	Body        string
	URL         string
	Tag         string
	WorkOrderID string
}

func (p PushPayload) Data() map[string]string {
	return map[string]string{
		"title":       p.Title,
		"body":        p.Body,
		"url":         p.URL,
		"tag":         p.Tag,
		"workOrderId": p.WorkOrderID,
	}
}

// PushTarget is one deliverable token together with its owner.
type PushTarget struct {
	UID   string
	Token string
}

type NotificationUseCase struct {
	tokenRepo  repository.DeviceTokenRepository
	stream     repository.MessageStream
	sender     service.PushSender
	retryDelay time.Duration
}

func NewNotificationUseCase(
	tokenRepo repository.DeviceTokenRepository,
	stream repository.MessageStream,
	sender service.PushSender,
) *NotificationUseCase {
	return &NotificationUseCase{
		tokenRepo:  tokenRepo,
		stream:     stream,
		sender:     sender,
		retryDelay: streamRetryBaseDelay,
	}
}

// Run consumes the created-message feed until ctx is cancelled, resubscribing
// with backoff when the stream drops. Resubscription cannot replay history
// because the stream treats its first snapshot as baseline. Delivery is
// at-least-once; a duplicate event at worst sends a duplicate push.
func (uc *NotificationUseCase) Run(ctx context.Context) {
	delay := uc.retryDelay
	for {
		err := uc.stream.Listen(ctx, func(ctx context.Context, event repository.MessageCreatedEvent) {
			if err := uc.NotifyMessageCreated(ctx, event.WorkOrderID, event.Message); err != nil {
				logger.Error("Chat notification for work order %s failed: %v", event.WorkOrderID, err)
			}
		})
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			logger.Error("Message stream failed, resubscribing in %s: %v", delay, err)
		} else {
			logger.Warn("Message stream closed, resubscribing in %s", delay)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		delay *= 2
		if delay > streamRetryMaxDelay {
			delay = streamRetryMaxDelay
		}
	}
}

// NotifyMessageCreated handles one new chat message end to end: resolve
// targets excluding the author, compose, fan out, prune dead tokens.
func (uc *NotificationUseCase) NotifyMessageCreated(ctx context.Context, workOrderID string, message *entity.Message) error {
	if message == nil || message.UID == "" {
		// Without a sender we cannot exclude anyone, so do not send at all
		logger.Debug("Message without author on work order %s, skipping notification", workOrderID)
		return nil
	}

	targets, err := uc.resolveTargets(ctx, message.UID)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return nil
	}

	payload := composePayload(message, workOrderID)

	results, err := uc.dispatch(ctx, targets, payload)
	if err != nil {
		return err
	}

	pruned := uc.prune(ctx, targets, results)

	delivered := 0
	for _, r := range results {
		if r.Success {
			delivered++
		}
	}
	logger.Info("Chat notification for work order %s: %d delivered, %d failed, %d tokens pruned",
		workOrderID, delivered, len(results)-delivered, pruned)

	return nil
}

// resolveTargets scans every registered token, drops the excluded user's
// tokens and de-duplicates by token value. An empty result is not an error.
func (uc *NotificationUseCase) resolveTargets(ctx context.Context, excludeUID string) ([]PushTarget, error) {
	tokens, err := uc.tokenRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(tokens))
	var targets []PushTarget
	for _, t := range tokens {
		if t.UID == excludeUID {
			continue
		}
		if _, dup := seen[t.Token]; dup {
			continue
		}
		seen[t.Token] = struct{}{}
		targets = append(targets, PushTarget{UID: t.UID, Token: t.Token})
	}

	return targets, nil
}

func composePayload(message *entity.Message, workOrderID string) PushPayload {
	body := message.Text
	if body == "" {
		body = emptyBodyFallback
	} else if runes := []rune(body); len(runes) > maxBodyLength {
		body = string(runes[:maxBodyLength-3]) + "..."
	}

	return PushPayload{
		Title:       notificationTitle,
		Body:        body,
		URL:         "/chat-job/" + workOrderID,
		Tag:         "chat-job-" + workOrderID,
		WorkOrderID: workOrderID,
	}
}

// dispatch sends the payload to every target, chunking above the provider's
// per-call limit. One result per input token, in input order. A whole-call
// provider failure aborts with zero results.
func (uc *NotificationUseCase) dispatch(ctx context.Context, targets []PushTarget, payload PushPayload) ([]service.PushResult, error) {
	if len(targets) == 0 {
		return []service.PushResult{}, nil
	}

	data := payload.Data()

	var results []service.PushResult
	for start := 0; start < len(targets); start += multicastChunkSize {
		end := start + multicastChunkSize
		if end > len(targets) {
			end = len(targets)
		}

		tokens := make([]string, 0, end-start)
		for _, t := range targets[start:end] {
			tokens = append(tokens, t.Token)
		}

		chunk, err := uc.sender.SendMulticast(ctx, tokens, data)
		if err != nil {
			return nil, err
		}
		results = append(results, chunk...)
	}

	return results, nil
}

// prune deletes the token records the provider reported as permanently
// invalid. Best-effort per token; transient failures are left alone.
func (uc *NotificationUseCase) prune(ctx context.Context, targets []PushTarget, results []service.PushResult) int {
	owners := make(map[string]string, len(targets))
	for _, t := range targets {
		owners[t.Token] = t.UID
	}

	pruned := 0
	for _, r := range results {
		if r.Success {
			continue
		}
		if r.ErrorCode != service.PushErrUnregistered && r.ErrorCode != service.PushErrInvalidRegistration {
			continue
		}

		uid, ok := owners[r.Token]
		if !ok {
			continue
		}
		if err := uc.tokenRepo.Delete(ctx, uid, r.Token); err != nil {
			logger.Warn("Failed to prune invalid token for user %s: %v", uid, err)
			continue
		}
		pruned++
	}

	return pruned
}

// RegisterToken upserts a push registration for the current user.
func (uc *NotificationUseCase) RegisterToken(ctx context.Context, uid, token, userAgent string) (*entity.DeviceToken, error) {
	record := &entity.DeviceToken{
		UID:       uid,
		Token:     token,
		UserAgent: userAgent,
	}
	if err := uc.tokenRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// UnregisterToken removes one of the current user's push registrations.
func (uc *NotificationUseCase) UnregisterToken(ctx context.Context, uid, token string) error {
	return uc.tokenRepo.Delete(ctx, uid, token)
}
