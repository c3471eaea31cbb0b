// Package synth defines the text-to-speech synthesis boundary. The service
// never generates audio itself; it forwards text to an external synthesis
// backend and hands the resulting WAV data back to the caller.
package synth

import "context"

// Options controls a single synthesis call.
type Options struct {
	// Language is the ISO-639-1 code (e.g. "en", "uk", "ru").
	Language string

	// SpeakerRefPath optionally points at a processed voice sample on the
	// backend for voice cloning. Empty means the default speaker.
	SpeakerRefPath string

	// Temperature controls randomness in generation. Zero means backend default.
	Temperature float64
}

// Synthesizer converts text to WAV audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, opts Options) ([]byte, error)
}
