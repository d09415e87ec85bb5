package firebase

import (
	"context"

	"firebase.google.com/go/v4/messaging"

	"tallerhub/internal/domain/service"
	"tallerhub/pkg/errors"
)

type MessagingClient struct {
	client *messaging.Client
}

func NewMessagingClient(client *messaging.Client) *MessagingClient {
	return &MessagingClient{
		client: client,
	}
}

// SendMulticast sends one data-only multicast. Callers must keep the token
// count within the FCM per-call limit; chunking happens a layer up.
func (m *MessagingClient) SendMulticast(ctx context.Context, tokens []string, data map[string]string) ([]service.PushResult, error) {
	resp, err := m.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
		Tokens: tokens,
		Data:   data,
	})
	if err != nil {
		return nil, errors.Internal("FCM multicast failed", err)
	}

	results := make([]service.PushResult, 0, len(resp.Responses))
	for i, r := range resp.Responses {
		result := service.PushResult{
			Token:   tokens[i],
			Success: r.Success,
		}
		if !r.Success {
			result.ErrorCode = classifyError(r.Error)
		}
		results = append(results, result)
	}

	return results, nil
}

func classifyError(err error) string {
	switch {
	case messaging.IsUnregistered(err):
		return service.PushErrUnregistered
	case messaging.IsInvalidArgument(err):
		return service.PushErrInvalidRegistration
	case messaging.IsQuotaExceeded(err):
		return service.PushErrQuotaExceeded
	case messaging.IsUnavailable(err):
		return service.PushErrUnavailable
	default:
		return service.PushErrUnknown
	}
}
