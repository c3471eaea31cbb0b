package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"

	"tts-service/internal/entity"
)

var (
	ErrVoiceNotFound   = errors.New("voice not found")
	ErrInvalidLanguage = errors.New("unsupported language")
	ErrVoiceFileTooBig = errors.New("voice file exceeds the size limit")
	ErrVoiceProcessing = errors.New("voice processing failed")
)

const voiceCacheTTL = 10 * 365 * 24 * time.Hour

// VoiceService manages uploaded voice samples and their processing lifecycle
// (pending -> processing -> ready/failed). Processing itself runs in the
// Kafka consumer; this service publishes the events that drive it.
type VoiceService struct {
	voices      VoiceStore
	rdb         *redis.Client
	kafkaWriter *kafka.Writer
	uploadDir   string
	cacheDir    string
	maxFileSize int64
}

// NewVoiceService creates a new instance of VoiceService.
func NewVoiceService(voices VoiceStore, rdb *redis.Client, kafkaWriter *kafka.Writer, uploadDir, cacheDir string, maxFileSize int64) *VoiceService {
	return &VoiceService{
		voices:      voices,
		rdb:         rdb,
		kafkaWriter: kafkaWriter,
		uploadDir:   uploadDir,
		cacheDir:    cacheDir,
		maxFileSize: maxFileSize,
	}
}

// Create stores the uploaded sample on disk, records the voice as pending and
// publishes a created event for the processing consumer.
func (s *VoiceService) Create(ctx context.Context, voice *entity.Voice, filename string, src io.Reader) (*entity.Voice, error) {
	if !entity.ValidLanguage(voice.Language) {
		return nil, ErrInvalidLanguage
	}

	if err := os.MkdirAll(s.uploadDir, 0o750); err != nil {
		return nil, err
	}

	stamp := time.Now().UTC().Format("20060102_150405")
	name := fmt.Sprintf("%d_%s_%s", voice.UserID, stamp, filepath.Base(filename))
	path := filepath.Join(s.uploadDir, name)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, err
	}

	written, err := io.Copy(dst, io.LimitReader(src, s.maxFileSize+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err == nil && written > s.maxFileSize {
		err = ErrVoiceFileTooBig
	}
	if err != nil {
		os.Remove(path)
		return nil, err
	}

	voice.Status = entity.VoiceStatusPending
	voice.OriginalFilePath = path

	created, err := s.voices.Create(ctx, voice)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating voice")
		os.Remove(path)
		return nil, err
	}

	if err := s.publishVoiceEvent(ctx, created, "created"); err != nil {
		logger.Error().Err(err).Int("voice_id", created.ID).Msg("Error publishing voice event")
	}

	return created, nil
}

// Get returns one of the user's voices.
func (s *VoiceService) Get(ctx context.Context, userID, id int) (*entity.Voice, error) {
	voice, err := s.voices.GetByID(ctx, id)
	if err != nil || voice.UserID != userID {
		return nil, ErrVoiceNotFound
	}
	return voice, nil
}

// List returns the user's voices.
func (s *VoiceService) List(ctx context.Context, userID, skip, limit int) ([]entity.Voice, error) {
	return s.voices.ListByUser(ctx, userID, skip, limit)
}

// Delete removes a voice, its files and its cache entry.
func (s *VoiceService) Delete(ctx context.Context, userID, id int) error {
	voice, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	if voice.OriginalFilePath != "" {
		os.Remove(voice.OriginalFilePath)
	}
	if voice.CacheFilePath != "" {
		os.Remove(voice.CacheFilePath)
	}

	if os.Getenv("ENV") != "test" {
		if err := s.rdb.Del(ctx, voice.CacheKey()).Err(); err != nil {
			logger.Error().Err(err).Int("voice_id", id).Msg("Error dropping voice cache")
		}
	}

	if err := s.publishVoiceEvent(ctx, voice, "deleted"); err != nil {
		logger.Error().Err(err).Int("voice_id", id).Msg("Error publishing voice event")
	}

	return s.voices.Delete(ctx, id)
}

// Process prepares an uploaded voice for synthesis. Called from the Kafka
// consumer on created events.
func (s *VoiceService) Process(ctx context.Context, id int) error {
	voice, err := s.voices.GetByID(ctx, id)
	if err != nil {
		return ErrVoiceNotFound
	}

	if err := s.voices.UpdateStatus(ctx, id, entity.VoiceStatusProcessing, ""); err != nil {
		return err
	}

	cachePath, err := s.prepareCacheFile(voice)
	if err != nil {
		logger.Error().Err(err).Int("voice_id", id).Msg("Voice processing failed")
		if uerr := s.voices.UpdateStatus(ctx, id, entity.VoiceStatusFailed, ""); uerr != nil {
			return uerr
		}
		return ErrVoiceProcessing
	}

	if err := s.voices.UpdateStatus(ctx, id, entity.VoiceStatusReady, cachePath); err != nil {
		return err
	}

	s.cacheVoice(ctx, voice, cachePath)
	return nil
}

func (s *VoiceService) prepareCacheFile(voice *entity.Voice) (string, error) {
	if err := os.MkdirAll(s.cacheDir, 0o750); err != nil {
		return "", err
	}

	src, err := os.Open(voice.OriginalFilePath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	cachePath := filepath.Join(s.cacheDir, fmt.Sprintf("voice_%d.wav", voice.ID))
	dst, err := os.OpenFile(cachePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return "", err
	}

	_, err = io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(cachePath)
		return "", err
	}

	return cachePath, nil
}

func (s *VoiceService) cacheVoice(ctx context.Context, voice *entity.Voice, cachePath string) {
	// if env is set to test, return
	if os.Getenv("ENV") == "test" {
		return
	}

	voice.Status = entity.VoiceStatusReady
	voice.CacheFilePath = cachePath
	payload, err := json.Marshal(voice)
	if err != nil {
		return
	}

	if err := s.rdb.Set(ctx, voice.CacheKey(), payload, voiceCacheTTL).Err(); err != nil {
		logger.Error().Err(err).Int("voice_id", voice.ID).Msg("Error caching voice")
	}
}

func (s *VoiceService) publishVoiceEvent(ctx context.Context, voice *entity.Voice, key string) error {
	// if env is set to test, return
	if os.Getenv("ENV") == "test" {
		return nil
	}

	voiceJSON, err := json.Marshal(voice)
	if err != nil {
		return err
	}

	// voice.created.1 or voice.deleted.1
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("voice.%s.%d", key, voice.ID)),
		Value: voiceJSON,
	}

	return s.kafkaWriter.WriteMessages(ctx, msg)
}
