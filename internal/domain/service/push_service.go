package service

import "context"

// Error classes reported per token by the push provider. Only the first two
// mean the token is permanently dead and safe to delete.
const (
	PushErrUnregistered        = "unregistered"
	PushErrInvalidRegistration = "invalid-registration"
	PushErrQuotaExceeded       = "quota-exceeded"
	PushErrUnavailable         = "unavailable"
	PushErrUnknown             = "unknown"
)

// PushResult is the outcome of one token's delivery attempt.
type PushResult struct {
	Token     string `json:"token"`
	Success   bool   `json:"success"`
	ErrorCode string `json:"error_code,omitempty"`
}

// PushSender sends one data-only multicast to at most the provider's batch
// limit of tokens. A returned error means the whole call failed; per-token
// failures appear in the result slice, one entry per input token, in order.
type PushSender interface {
	SendMulticast(ctx context.Context, tokens []string, data map[string]string) ([]PushResult, error)
}
