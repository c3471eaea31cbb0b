package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"time"

	"tts-service/internal/entity"
)

const (
	apiKeyPrefix    = "sk_"
	apiKeyBytes     = 32
	keyPrefixLength = 8
)

var (
	ErrAPIKeyNotFound = errors.New("API key not found")
	ErrInvalidAPIKey  = errors.New("invalid API key")
)

// APIKeyService issues and validates long-lived API keys. Only the SHA-256
// hash of a key is ever persisted.
type APIKeyService struct {
	keys  APIKeyStore
	users UserStore
}

// NewAPIKeyService creates a new instance of APIKeyService.
func NewAPIKeyService(keys APIKeyStore, users UserStore) *APIKeyService {
	return &APIKeyService{keys: keys, users: users}
}

// GenerateKey returns a new raw key and its hash.
func GenerateKey() (raw, hash string, err error) {
	buf := make([]byte, apiKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = apiKeyPrefix + base64.RawURLEncoding.EncodeToString(buf)
	return raw, HashKey(raw), nil
}

// HashKey returns the hex SHA-256 of a raw key.
func HashKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Create issues a new key for the user. The raw key is only present in the
// returned value; it cannot be recovered later.
func (s *APIKeyService) Create(ctx context.Context, userID int, name string, expiresAt *time.Time) (*entity.APIKeyCreated, error) {
	raw, hash, err := GenerateKey()
	if err != nil {
		return nil, err
	}

	key, err := s.keys.Create(ctx, &entity.APIKey{
		Name:      name,
		Key:       hash,
		UserID:    userID,
		IsActive:  true,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Error creating API key")
		return nil, err
	}

	key.Prefix = raw[:keyPrefixLength]
	return &entity.APIKeyCreated{APIKey: *key, RawKey: raw}, nil
}

// List returns the user's keys with display prefixes derived from the hash.
func (s *APIKeyService) List(ctx context.Context, userID, skip, limit int) ([]entity.APIKey, error) {
	keys, err := s.keys.ListByUser(ctx, userID, skip, limit)
	if err != nil {
		return nil, err
	}
	for i := range keys {
		keys[i].Prefix = keys[i].Key[:keyPrefixLength]
	}
	return keys, nil
}

// Delete removes one of the user's keys.
func (s *APIKeyService) Delete(ctx context.Context, userID, id int) error {
	key, err := s.keys.GetByID(ctx, id)
	if err != nil || key.UserID != userID {
		return ErrAPIKeyNotFound
	}
	return s.keys.Delete(ctx, id)
}

// Authenticate resolves a raw API key to an active user, rejecting inactive
// and expired keys, and records the usage time.
func (s *APIKeyService) Authenticate(ctx context.Context, raw string) (*entity.User, error) {
	key, err := s.keys.GetByHash(ctx, HashKey(raw))
	if err != nil {
		return nil, ErrInvalidAPIKey
	}
	if !key.IsActive {
		return nil, ErrInvalidAPIKey
	}
	if key.ExpiresAt != nil && key.ExpiresAt.Before(time.Now()) {
		return nil, ErrInvalidAPIKey
	}

	if err := s.keys.TouchLastUsed(ctx, key.ID, time.Now().UTC()); err != nil {
		logger.Error().Err(err).Int("key_id", key.ID).Msg("Error updating API key usage time")
	}

	user, err := s.users.GetUserByID(ctx, key.UserID)
	if err != nil || !user.IsActive {
		return nil, ErrInvalidAPIKey
	}

	return user, nil
}
