package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"tts-service/internal/entity"
	"tts-service/internal/synth"
)

var (
	ErrTextRequired  = errors.New("text is required")
	ErrVoiceNotReady = errors.New("voice is not ready for synthesis")
	ErrAudioNotFound = errors.New("audio file not found")
)

// SpeechResult describes a generated audio file on disk.
type SpeechResult struct {
	Filename string
	FilePath string
	Duration float64
}

// TTSService turns text into stored WAV files via the synthesis backend.
type TTSService struct {
	voices      VoiceStore
	synthesizer synth.Synthesizer
	kafkaWriter *kafka.Writer
	outputDir   string
}

// NewTTSService creates a new instance of TTSService.
func NewTTSService(voices VoiceStore, synthesizer synth.Synthesizer, kafkaWriter *kafka.Writer, outputDir string) *TTSService {
	return &TTSService{
		voices:      voices,
		synthesizer: synthesizer,
		kafkaWriter: kafkaWriter,
		outputDir:   outputDir,
	}
}

// GenerateSpeech synthesizes the request text and writes the audio to the
// output directory. When a voice id is given it must belong to the user and
// have finished processing; without one the backend's default speaker is used.
func (s *TTSService) GenerateSpeech(ctx context.Context, user *entity.User, req *entity.TTSRequest) (*SpeechResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrTextRequired
	}

	opts := synth.Options{}
	if req.VoiceID > 0 {
		voice, err := s.voices.GetByID(ctx, req.VoiceID)
		if err != nil || voice.UserID != user.ID {
			return nil, ErrVoiceNotFound
		}
		if voice.Status != entity.VoiceStatusReady {
			return nil, ErrVoiceNotReady
		}
		opts.Language = voice.Language
		opts.SpeakerRefPath = voice.CacheFilePath
	}

	audio, err := s.synthesizer.Synthesize(ctx, req.Text, opts)
	if err != nil {
		logger.Error().Err(err).Int("user_id", user.ID).Msg("Error generating speech")
		return nil, err
	}

	duration, err := synth.WAVDuration(audio)
	if err != nil {
		return nil, fmt.Errorf("backend returned invalid audio: %w", err)
	}

	if err := os.MkdirAll(s.outputDir, 0o750); err != nil {
		return nil, err
	}

	filename := uuid.NewString() + ".wav"
	path := filepath.Join(s.outputDir, filename)
	if err := os.WriteFile(path, audio, 0o600); err != nil {
		return nil, err
	}

	if err := s.publishUsageEvent(ctx, user, req, filename, duration); err != nil {
		logger.Error().Err(err).Int("user_id", user.ID).Msg("Error publishing usage event")
	}

	return &SpeechResult{Filename: filename, FilePath: path, Duration: duration}, nil
}

// ResolveDownload maps a generated filename back to its path, refusing
// anything that could escape the output directory.
func (s *TTSService) ResolveDownload(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || !strings.HasSuffix(filename, ".wav") {
		return "", ErrAudioNotFound
	}

	path := filepath.Join(s.outputDir, filename)
	if _, err := os.Stat(path); err != nil {
		return "", ErrAudioNotFound
	}

	return path, nil
}

func (s *TTSService) publishUsageEvent(ctx context.Context, user *entity.User, req *entity.TTSRequest, filename string, duration float64) error {
	// if env is set to test, return
	if os.Getenv("ENV") == "test" {
		return nil
	}

	event := map[string]interface{}{
		"user_id":  user.ID,
		"voice_id": req.VoiceID,
		"chars":    len(req.Text),
		"duration": duration,
		"filename": filename,
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("tts.generated.%d", user.ID)),
		Value: eventJSON,
	}

	return s.kafkaWriter.WriteMessages(ctx, msg)
}
