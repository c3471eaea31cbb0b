package service

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"tts-service/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

var (
	ErrEmailTaken         = errors.New("the user with this email already exists")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInactiveUser       = errors.New("inactive user")
	ErrInvalidToken       = errors.New("invalid token")
)

type JwtCustomClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService handles registration, login and bearer-token validation.
type AuthService struct {
	users    UserStore
	rdb      *redis.Client
	secret   []byte
	tokenTTL time.Duration
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(users UserStore, rdb *redis.Client, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		rdb:      rdb,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// Register creates a regular (non-superuser) account.
func (s *AuthService) Register(ctx context.Context, email, password string) (*entity.User, error) {
	if existing, _ := s.users.GetUserByEmail(ctx, email); existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:          email,
		HashedPassword: string(hashed),
		IsActive:       true,
		IsSuperuser:    false,
	}

	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating user")
		return nil, err
	}

	return created, nil
}

// Login verifies credentials and returns a signed JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", ErrInactiveUser
	}

	claims := &JwtCustomClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
		},
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := tkn.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	// if env is set to test, skip the session cache
	if os.Getenv("ENV") == "test" {
		return t, nil
	}

	// Store the JWT token in Redis with the user email as the key
	err = s.rdb.Set(ctx, "session:"+user.Email, t, s.tokenTTL).Err()
	if err != nil {
		return "", err
	}

	return t, nil
}

// Authenticate resolves a bearer token to an active user.
func (s *AuthService) Authenticate(ctx context.Context, tokenStr string) (*entity.User, error) {
	claims := &JwtCustomClaims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	id, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	return user, nil
}

// Secret exposes the signing key for the echo-jwt middleware.
func (s *AuthService) Secret() []byte {
	return s.secret
}

// EnsureSuperuser seeds the default admin account on a fresh deployment.
func (s *AuthService) EnsureSuperuser(ctx context.Context, email, password string) error {
	if existing, _ := s.users.GetUserByEmail(ctx, email); existing != nil {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.users.CreateUser(ctx, &entity.User{
		Email:          email,
		HashedPassword: string(hashed),
		IsActive:       true,
		IsSuperuser:    true,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Error seeding superuser")
		return err
	}

	logger.Info().Str("email", email).Msg("Seeded first superuser")
	return nil
}
