package repository

import (
	"context"

	"tallerhub/internal/domain/entity"
)

type DeviceTokenRepository interface {
	// Save upserts a token record; the token value is the document key.
	Save(ctx context.Context, token *entity.DeviceToken) error
	// ListAll scans every stored token across all users in one query.
	ListAll(ctx context.Context) ([]*entity.DeviceToken, error)
	Delete(ctx context.Context, uid, token string) error
}
