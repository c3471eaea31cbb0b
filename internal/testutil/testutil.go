// Package testutil provides in-memory store implementations for tests.
package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"tts-service/internal/entity"
)

var ErrNotFound = errors.New("not found")

type MemUserStore struct {
	mu     sync.Mutex
	nextID int
	users  map[int]entity.User
}

func NewMemUserStore() *MemUserStore {
	return &MemUserStore{users: map[int]entity.User{}}
}

func (s *MemUserStore) GetUserByID(_ context.Context, id int) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemUserStore) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemUserStore) CreateUser(_ context.Context, user *entity.User) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now().UTC()
	s.users[user.ID] = *user
	u := *user
	return &u, nil
}

// SetActive flips the active flag, for inactive-user tests.
func (s *MemUserStore) SetActive(id int, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := s.users[id]
	user.IsActive = active
	s.users[id] = user
}

type MemAPIKeyStore struct {
	mu     sync.Mutex
	nextID int
	keys   map[int]entity.APIKey
}

func NewMemAPIKeyStore() *MemAPIKeyStore {
	return &MemAPIKeyStore{keys: map[int]entity.APIKey{}}
}

func (s *MemAPIKeyStore) GetByID(_ context.Context, id int) (*entity.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.keys[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &key, nil
}

func (s *MemAPIKeyStore) GetByHash(_ context.Context, hash string) (*entity.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range s.keys {
		if key.Key == hash {
			k := key
			return &k, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemAPIKeyStore) ListByUser(_ context.Context, userID, skip, limit int) ([]entity.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := []entity.APIKey{}
	for id := 1; id <= s.nextID; id++ {
		key, ok := s.keys[id]
		if ok && key.UserID == userID {
			keys = append(keys, key)
		}
	}
	if skip >= len(keys) {
		return []entity.APIKey{}, nil
	}
	keys = keys[skip:]
	if limit < len(keys) {
		keys = keys[:limit]
	}
	return keys, nil
}

func (s *MemAPIKeyStore) Create(_ context.Context, key *entity.APIKey) (*entity.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	key.ID = s.nextID
	key.CreatedAt = time.Now().UTC()
	s.keys[key.ID] = *key
	k := *key
	return &k, nil
}

func (s *MemAPIKeyStore) TouchLastUsed(_ context.Context, id int, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.keys[id]
	if !ok {
		return ErrNotFound
	}
	key.LastUsedAt = &at
	s.keys[id] = key
	return nil
}

func (s *MemAPIKeyStore) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, id)
	return nil
}

type MemVoiceStore struct {
	mu     sync.Mutex
	nextID int
	voices map[int]entity.Voice
}

func NewMemVoiceStore() *MemVoiceStore {
	return &MemVoiceStore{voices: map[int]entity.Voice{}}
}

func (s *MemVoiceStore) GetByID(_ context.Context, id int) (*entity.Voice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	voice, ok := s.voices[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &voice, nil
}

func (s *MemVoiceStore) ListByUser(_ context.Context, userID, skip, limit int) ([]entity.Voice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	voices := []entity.Voice{}
	for id := 1; id <= s.nextID; id++ {
		voice, ok := s.voices[id]
		if ok && voice.UserID == userID {
			voices = append(voices, voice)
		}
	}
	if skip >= len(voices) {
		return []entity.Voice{}, nil
	}
	voices = voices[skip:]
	if limit < len(voices) {
		voices = voices[:limit]
	}
	return voices, nil
}

func (s *MemVoiceStore) Create(_ context.Context, voice *entity.Voice) (*entity.Voice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	voice.ID = s.nextID
	voice.CreatedAt = time.Now().UTC()
	voice.UpdatedAt = voice.CreatedAt
	s.voices[voice.ID] = *voice
	v := *voice
	return &v, nil
}

func (s *MemVoiceStore) UpdateStatus(_ context.Context, id int, status, cacheFilePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	voice, ok := s.voices[id]
	if !ok {
		return ErrNotFound
	}
	voice.Status = status
	if cacheFilePath != "" {
		voice.CacheFilePath = cacheFilePath
	}
	voice.UpdatedAt = time.Now().UTC()
	s.voices[id] = voice
	return nil
}

func (s *MemVoiceStore) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.voices, id)
	return nil
}
