package usecase

import (
	"context"

	"tallerhub/internal/domain/entity"
	"tallerhub/internal/domain/repository"
	"tallerhub/internal/infrastructure/firebase"
)

type UserUseCase struct {
	userRepo   repository.UserRepository
	authClient *firebase.FirebaseAuthClient
}

func NewUserUseCase(userRepo repository.UserRepository, authClient *firebase.FirebaseAuthClient) *UserUseCase {
	return &UserUseCase{
		userRepo:   userRepo,
		authClient: authClient,
	}
}

// SyncProfile mirrors the identity provider's record into the users
// collection; called on sign-in so chat display names stay current.
func (uc *UserUseCase) SyncProfile(ctx context.Context, uid string) (*entity.User, error) {
	email, displayName, err := uc.authClient.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		ID:          uid,
		Email:       email,
		DisplayName: displayName,
	}
	if err := uc.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (uc *UserUseCase) GetProfile(ctx context.Context, uid string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, uid)
}
