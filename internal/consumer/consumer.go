package consumer

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"tts-service/internal/service"
)

// Consumer drives voice processing off the voice event topic. Uploads are
// acknowledged immediately by the API; the heavy lifting happens here.
type Consumer struct {
	voiceSvc *service.VoiceService
	reader   *kafka.Reader
}

func NewConsumer(voiceSvc *service.VoiceService, reader *kafka.Reader) *Consumer {
	return &Consumer{voiceSvc: voiceSvc, reader: reader}
}

// Start reads voice events until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Msgf("Error reading message: %v", err)
			continue
		}

		c.processMessage(ctx, msg)
	}
}

// processMessage handles a single voice event.
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	// key -> "voice.created.<id>" or "voice.deleted.<id>"
	parts := strings.Split(string(msg.Key), ".")
	if len(parts) != 3 || parts[0] != "voice" {
		log.Warn().Msgf("Skipping message with unexpected key %q", msg.Key)
		return
	}

	id, err := strconv.Atoi(parts[2])
	if err != nil {
		log.Error().Msgf("Invalid voice id in key %q: %v", msg.Key, err)
		return
	}

	switch parts[1] {
	case "created":
		if err := c.voiceSvc.Process(ctx, id); err != nil {
			log.Error().Msgf("Error processing voice %d: %v", id, err)
		}
	case "deleted":
		// Files and cache are already gone; nothing to do.
	default:
		log.Warn().Msgf("Unknown voice event %q", parts[1])
	}
}
