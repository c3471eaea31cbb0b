package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"tts-service/internal/api"
	"tts-service/internal/config"
	"tts-service/internal/consumer"
	"tts-service/internal/repository"
	"tts-service/internal/service"
	"tts-service/internal/synth"
	"tts-service/migrations"
)

func connectDB(cfg *config.Config) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Printf("Connected to DB %s", cfg.DBName)
				return db, nil
			}
		}
		log.Printf("Retry %d: failed to connect to DB %s (%s:%s): %v", i+1, cfg.DBName, cfg.DBHost, cfg.DBPort, err)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to DB %s at %s:%s after retries: %v", cfg.DBName, cfg.DBHost, cfg.DBPort, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := connectDB(cfg)
	if err != nil {
		panic(err)
	}

	if err := migrations.AutoMigrateUsers(3, db); err != nil {
		log.Fatalf("Failed to migrate users table: %v", err)
	}
	if err := migrations.AutoMigrateAPIKeys(3, db); err != nil {
		log.Fatalf("Failed to migrate api_keys table: %v", err)
	}
	if err := migrations.AutoMigrateVoices(3, db); err != nil {
		log.Fatalf("Failed to migrate voices table: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	voiceWriter := config.NewKafkaWriter(cfg.KafkaBrokers, cfg.VoiceTopic)
	usageWriter := config.NewKafkaWriter(cfg.KafkaBrokers, cfg.UsageTopic)

	userRepo := repository.NewUserRepository(db)
	keyRepo := repository.NewAPIKeyRepository(db)
	voiceRepo := repository.NewVoiceRepository(db)

	synthesizer := synth.NewHTTPSynthesizer(cfg.SynthURL, time.Duration(cfg.SynthTimeoutSeconds)*time.Second)

	authService := service.NewAuthService(userRepo, rdb, cfg.JWTSecret, time.Duration(cfg.TokenExpireMinutes)*time.Minute)
	keyService := service.NewAPIKeyService(keyRepo, userRepo)
	voiceService := service.NewVoiceService(voiceRepo, rdb, voiceWriter, cfg.VoiceUploadDir, cfg.VoiceCacheDir, cfg.MaxVoiceFileSize)
	ttsService := service.NewTTSService(voiceRepo, synthesizer, usageWriter, cfg.TTSOutputDir)

	if err := authService.EnsureSuperuser(context.Background(), cfg.FirstSuperuser, cfg.FirstSuperuserPassword); err != nil {
		log.Fatalf("Failed to seed superuser: %v", err)
	}

	// voice processing consumer
	voiceReader := config.NewKafkaReader(cfg.KafkaBrokers, cfg.VoiceTopic, "tts-service-group")
	go consumer.NewConsumer(voiceService, voiceReader).Start(context.Background())

	authHandler := api.NewAuthHandler(authService)
	keyHandler := api.NewAPIKeyHandler(keyService)
	voiceHandler := api.NewVoiceHandler(voiceService)
	ttsHandler := api.NewTTSHandler(ttsService)

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(10),
				Burst:     30,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	// Public routes
	e.POST("/api/v1/auth/register", authHandler.Register)
	e.POST("/api/v1/auth/login/access-token", authHandler.Login)
	e.GET("/docs", api.Docs)
	e.GET("/redoc", api.ReDoc)
	e.GET("/api/v1/openapi.json", api.OpenAPI)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "tts-service",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// API keys are managed with a JWT session only
	keys := e.Group("/api/v1/api-keys", api.JWTAuth(authService), api.ResolveJWTUser(authService))
	keys.POST("", keyHandler.Create)
	keys.GET("", keyHandler.List)
	keys.DELETE("/:id", keyHandler.Delete)

	// Voices and synthesis accept a JWT or an API key
	userAuth := api.UserAuth(authService, keyService)

	voices := e.Group("/api/v1/voices", userAuth)
	voices.POST("", voiceHandler.Create)
	voices.GET("", voiceHandler.List)
	voices.GET("/:id", voiceHandler.Get)
	voices.DELETE("/:id", voiceHandler.Delete)

	tts := e.Group("/api/v1/tts", userAuth)
	tts.POST("/generate_speech", ttsHandler.GenerateSpeech)
	tts.GET("/download/:filename", ttsHandler.Download)

	// Start server
	e.Logger.Fatal(e.Start(cfg.HTTPAddr))
}
