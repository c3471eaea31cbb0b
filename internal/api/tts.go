package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"tts-service/internal/entity"
	"tts-service/internal/service"
)

type TTSHandler struct {
	ttsService *service.TTSService
}

// NewTTSHandler creates a new instance of TTSHandler.
func NewTTSHandler(ttsService *service.TTSService) *TTSHandler {
	return &TTSHandler{ttsService: ttsService}
}

// GenerateSpeech synthesizes text --> POST /api/v1/tts/generate_speech
// With stream=true the WAV bytes are sent directly; otherwise the response
// carries a download URL and the audio duration.
func (h *TTSHandler) GenerateSpeech(c echo.Context) error {
	req := &entity.TTSRequest{}
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	result, err := h.ttsService.GenerateSpeech(c.Request().Context(), CurrentUser(c), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTextRequired):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrVoiceNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrVoiceNotReady):
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}

	if req.Stream {
		return c.Attachment(result.FilePath, "speech.wav")
	}

	return c.JSON(http.StatusOK, entity.TTSResponse{
		AudioURL: "/api/v1/tts/download/" + result.Filename,
		Duration: result.Duration,
		Text:     req.Text,
	})
}

// Download serves a generated audio file --> GET /api/v1/tts/download/:filename
func (h *TTSHandler) Download(c echo.Context) error {
	path, err := h.ttsService.ResolveDownload(c.Param("filename"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}

	return c.Attachment(path, "speech.wav")
}
