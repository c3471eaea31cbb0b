package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	apiGenerateSpeech = "/v1/generate/speech"
	apiHealth         = "/health"

	contentTypeJSON = "application/json"
	contentTypeWAV  = "audio/wav"

	defaultTemperature = 0.75
	defaultLanguage    = "en"
)

var (
	ErrTextEmpty  = errors.New("text cannot be empty")
	ErrEmptyAudio = errors.New("received empty audio data")
)

// HTTPSynthesizer talks to a standalone synthesis backend over HTTP.
type HTTPSynthesizer struct {
	httpClient *http.Client
	baseURL    string
}

// synthRequest is the JSON payload the backend expects.
type synthRequest struct {
	Text           string  `json:"text"`
	SpeakerRefPath string  `json:"speaker_ref_path,omitempty"`
	Language       string  `json:"language"`
	Temperature    float64 `json:"temperature"`
}

// synthError is the structured error response from the backend.
type synthError struct {
	Detail    string `json:"detail"`
	ErrorCode string `json:"error_code,omitempty"`
}

// NewHTTPSynthesizer creates a client for the synthesis backend. The baseURL
// should include protocol and port (e.g. "http://localhost:8000").
func NewHTTPSynthesizer(baseURL string, timeout time.Duration) *HTTPSynthesizer {
	return &HTTPSynthesizer{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Synthesize sends a generation request and returns the raw WAV audio.
func (s *HTTPSynthesizer) Synthesize(ctx context.Context, text string, opts Options) ([]byte, error) {
	if text == "" {
		return nil, ErrTextEmpty
	}

	payload := synthRequest{
		Text:           text,
		SpeakerRefPath: opts.SpeakerRefPath,
		Language:       opts.Language,
		Temperature:    opts.Temperature,
	}
	if payload.Language == "" {
		payload.Language = defaultLanguage
	}
	if payload.Temperature == 0 {
		payload.Temperature = defaultTemperature
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+apiGenerateSpeech, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", contentTypeWAV)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		var synthErr synthError
		if json.Unmarshal(raw, &synthErr) == nil && synthErr.Detail != "" {
			return nil, fmt.Errorf("synthesis backend error (%s): %s", resp.Status, synthErr.Detail)
		}
		return nil, fmt.Errorf("synthesis backend returned non-OK status: %s, body: %s", resp.Status, raw)
	}

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, contentTypeWAV) {
		return nil, fmt.Errorf("unexpected content type: expected %s, got %s", contentTypeWAV, ct)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(audio) == 0 {
		return nil, ErrEmptyAudio
	}

	return audio, nil
}

// Health checks that the synthesis backend is reachable.
func (s *HTTPSynthesizer) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+apiHealth, nil)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("synthesis backend unhealthy: %s", resp.Status)
	}
	return nil
}
