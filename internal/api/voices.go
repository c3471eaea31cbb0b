package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"tts-service/internal/entity"
	"tts-service/internal/service"
)

var allowedVoiceTypes = map[string]bool{
	"audio/wav":   true,
	"audio/x-wav": true,
}

type VoiceHandler struct {
	voiceService *service.VoiceService
}

// NewVoiceHandler creates a new instance of VoiceHandler.
func NewVoiceHandler(voiceService *service.VoiceService) *VoiceHandler {
	return &VoiceHandler{voiceService: voiceService}
}

// Create uploads a new voice sample --> POST /api/v1/voices
// Multipart form: audio_file (WAV) plus name, language, description, sample_text.
func (h *VoiceHandler) Create(c echo.Context) error {
	fileHeader, err := c.FormFile("audio_file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "audio_file is required"})
	}
	if ct := fileHeader.Header.Get("Content-Type"); !allowedVoiceTypes[ct] {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "file type " + ct + " not allowed, must be WAV"})
	}

	voice := &entity.Voice{
		UserID:      CurrentUser(c).ID,
		Name:        c.FormValue("name"),
		Language:    c.FormValue("language"),
		Description: c.FormValue("description"),
		SampleText:  c.FormValue("sample_text"),
	}
	if voice.Name == "" || voice.SampleText == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name and sample_text are required"})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	defer src.Close()

	created, err := h.voiceService.Create(c.Request().Context(), voice, fileHeader.Filename, src)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidLanguage):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrVoiceFileTooBig):
			return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, created)
}

// List returns the caller's voices --> GET /api/v1/voices
func (h *VoiceHandler) List(c echo.Context) error {
	user := CurrentUser(c)
	skip, limit := pagination(c)

	voices, err := h.voiceService.List(c.Request().Context(), user.ID, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, voices)
}

// Get returns voice details --> GET /api/v1/voices/:id
func (h *VoiceHandler) Get(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}

	voice, err := h.voiceService.Get(c.Request().Context(), CurrentUser(c).ID, id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, voice)
}

// Delete removes a voice --> DELETE /api/v1/voices/:id
func (h *VoiceHandler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}

	if err := h.voiceService.Delete(c.Request().Context(), CurrentUser(c).ID, id); err != nil {
		if errors.Is(err, service.ErrVoiceNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.NoContent(http.StatusNoContent)
}
