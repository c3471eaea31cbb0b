package api

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"tts-service/internal/entity"
	"tts-service/internal/service"
)

const currentUserKey = "currentUser"

// CurrentUser returns the authenticated user set by the auth middleware.
func CurrentUser(c echo.Context) *entity.User {
	user, _ := c.Get(currentUserKey).(*entity.User)
	return user
}

func unauthorized(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return c.JSON(http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
}

// UserAuth accepts either a bearer JWT or an X-API-Key header and resolves
// the caller to an active user.
func UserAuth(authService *service.AuthService, keyService *service.APIKeyService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header != "" {
				parts := strings.SplitN(header, " ", 2)
				if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
					return unauthorized(c)
				}
				user, err := authService.Authenticate(ctx, strings.TrimSpace(parts[1]))
				if err != nil {
					return unauthorized(c)
				}
				c.Set(currentUserKey, user)
				return next(c)
			}

			if apiKey := c.Request().Header.Get("X-API-Key"); apiKey != "" {
				user, err := keyService.Authenticate(ctx, apiKey)
				if err != nil {
					return unauthorized(c)
				}
				c.Set(currentUserKey, user)
				return next(c)
			}

			return unauthorized(c)
		}
	}
}

// JWTAuth validates bearer tokens with the echo-jwt middleware. Missing and
// malformed tokens get the same 401 as invalid ones.
func JWTAuth(authService *service.AuthService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: authService.Secret(),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(service.JwtCustomClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return unauthorized(c)
		},
	})
}

// ResolveJWTUser turns the token validated by the echo-jwt middleware into
// the current user. It must run after echojwt on the same group.
func ResolveJWTUser(authService *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return unauthorized(c)
			}
			user, err := authService.Authenticate(c.Request().Context(), token.Raw)
			if err != nil {
				return unauthorized(c)
			}
			c.Set(currentUserKey, user)
			return next(c)
		}
	}
}
