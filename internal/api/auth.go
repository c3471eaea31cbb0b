package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"tts-service/internal/entity"
	"tts-service/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new instance of AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user --> POST /api/v1/auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	req := struct {
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}{}

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "email and password are required"})
	}

	user, err := h.authService.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, user)
}

// Login issues an access token --> POST /api/v1/auth/login/access-token
//
// The username field is accepted alongside email for OAuth2 password-form
// compatibility.
func (h *AuthHandler) Login(c echo.Context) error {
	req := struct {
		Username string `json:"username" form:"username"`
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}{}

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	email := req.Username
	if email == "" {
		email = req.Email
	}

	token, err := h.authService.Login(c.Request().Context(), email, req.Password)
	if err != nil {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, entity.Token{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
