package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"tts-service/internal/service"
)

type APIKeyHandler struct {
	keyService *service.APIKeyService
}

// NewAPIKeyHandler creates a new instance of APIKeyHandler.
func NewAPIKeyHandler(keyService *service.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{keyService: keyService}
}

// Create issues a new API key --> POST /api/v1/api-keys
// The raw key is only returned here, never again.
func (h *APIKeyHandler) Create(c echo.Context) error {
	req := struct {
		Name      string     `json:"name"`
		ExpiresAt *time.Time `json:"expires_at"`
	}{}

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}

	user := CurrentUser(c)
	created, err := h.keyService.Create(c.Request().Context(), user.ID, req.Name, req.ExpiresAt)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, created)
}

// List returns the caller's API keys --> GET /api/v1/api-keys
func (h *APIKeyHandler) List(c echo.Context) error {
	user := CurrentUser(c)
	skip, limit := pagination(c)

	keys, err := h.keyService.List(c.Request().Context(), user.ID, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, keys)
}

// Delete removes an API key --> DELETE /api/v1/api-keys/:id
func (h *APIKeyHandler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}

	user := CurrentUser(c)
	if err := h.keyService.Delete(c.Request().Context(), user.ID, id); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}

	return c.NoContent(http.StatusNoContent)
}

func pagination(c echo.Context) (skip, limit int) {
	skip, _ = strconv.Atoi(c.QueryParam("skip"))
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}
	return skip, limit
}
