package consumer

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tts-service/internal/entity"
	"tts-service/internal/service"
	"tts-service/internal/testutil"
)

func TestProcessMessageCreated(t *testing.T) {
	t.Setenv("ENV", "test")
	ctx := context.Background()

	voices := testutil.NewMemVoiceStore()
	dir := t.TempDir()
	svc := service.NewVoiceService(voices, nil, nil, filepath.Join(dir, "uploads"), filepath.Join(dir, "cache"), 1<<20)

	voice, err := svc.Create(ctx, &entity.Voice{
		UserID:     1,
		Name:       "narrator",
		Language:   entity.LanguageEN,
		SampleText: "text",
	}, "sample.wav", strings.NewReader("wav bytes"))
	require.NoError(t, err)

	c := NewConsumer(svc, nil)
	c.processMessage(ctx, kafka.Message{Key: []byte("voice.created." + strconv.Itoa(voice.ID))})

	got, err := voices.GetByID(ctx, voice.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.VoiceStatusReady, got.Status)
}

func TestProcessMessageIgnoresJunk(t *testing.T) {
	t.Setenv("ENV", "test")
	voices := testutil.NewMemVoiceStore()
	svc := service.NewVoiceService(voices, nil, nil, t.TempDir(), t.TempDir(), 1<<20)
	c := NewConsumer(svc, nil)

	// none of these may panic or touch the store
	for _, key := range []string{"", "order.created.1", "voice.created.abc", "voice.exploded.1", "voice.deleted.1"} {
		c.processMessage(context.Background(), kafka.Message{Key: []byte(key)})
	}
}
