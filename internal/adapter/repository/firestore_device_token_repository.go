package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"tallerhub/internal/domain/entity"
	"tallerhub/internal/domain/repository"
	"tallerhub/pkg/errors"
)

type firestoreDeviceTokenRepository struct {
	client *firestore.Client
}

func NewFirestoreDeviceTokenRepository(client *firestore.Client) repository.DeviceTokenRepository {
	return &firestoreDeviceTokenRepository{
		client: client,
	}
}

func (r *firestoreDeviceTokenRepository) Save(ctx context.Context, token *entity.DeviceToken) error {
	now := time.Now()
	if token.CreatedAt.IsZero() {
		token.CreatedAt = now
	}
	token.UpdatedAt = now

	// Token value is the document key so re-registration overwrites
	_, err := r.client.Collection("users").Doc(token.UID).
		Collection("fcmTokens").Doc(token.Token).Set(ctx, token)
	if err != nil {
		return errors.Internal("Failed to save device token", err)
	}

	return nil
}

func (r *firestoreDeviceTokenRepository) ListAll(ctx context.Context) ([]*entity.DeviceToken, error) {
	// Single scan over every user's tokens; no per-user fan-out
	iter := r.client.CollectionGroup("fcmTokens").Documents(ctx)

	var tokens []*entity.DeviceToken
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to scan device tokens", err)
		}

		var token entity.DeviceToken
		if err := doc.DataTo(&token); err != nil {
			continue // Skip malformed documents
		}
		if token.Token == "" {
			// Older records may rely on the document id as the token value
			token.Token = doc.Ref.ID
		}
		if token.UID == "" || token.Token == "" {
			continue
		}
		tokens = append(tokens, &token)
	}

	return tokens, nil
}

func (r *firestoreDeviceTokenRepository) Delete(ctx context.Context, uid, token string) error {
	_, err := r.client.Collection("users").Doc(uid).
		Collection("fcmTokens").Doc(token).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete device token", err)
	}

	return nil
}
