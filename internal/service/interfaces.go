package service

import (
	"context"
	"time"

	"tts-service/internal/entity"
)

// Store interfaces are satisfied by the repository package; tests swap in
// in-memory implementations from internal/testutil.

type UserStore interface {
	GetUserByID(ctx context.Context, id int) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
}

type APIKeyStore interface {
	GetByID(ctx context.Context, id int) (*entity.APIKey, error)
	GetByHash(ctx context.Context, hash string) (*entity.APIKey, error)
	ListByUser(ctx context.Context, userID, skip, limit int) ([]entity.APIKey, error)
	Create(ctx context.Context, key *entity.APIKey) (*entity.APIKey, error)
	TouchLastUsed(ctx context.Context, id int, at time.Time) error
	Delete(ctx context.Context, id int) error
}

type VoiceStore interface {
	GetByID(ctx context.Context, id int) (*entity.Voice, error)
	ListByUser(ctx context.Context, userID, skip, limit int) ([]entity.Voice, error)
	Create(ctx context.Context, voice *entity.Voice) (*entity.Voice, error)
	UpdateStatus(ctx context.Context, id int, status, cacheFilePath string) error
	Delete(ctx context.Context, id int) error
}
