package config

import "github.com/ilyakaznacheev/cleanenv"

// Config holds all service settings. Everything is read from the
// environment so the service runs unchanged in docker-compose and CI.
type Config struct {
	Env      string `env:"ENV" env-default:"development"`
	HTTPAddr string `env:"HTTP_ADDR" env-default:":8080"`

	DBHost string `env:"DB_HOST" env-default:"127.0.0.1"`
	DBPort string `env:"DB_PORT" env-default:"3306"`
	DBUser string `env:"DB_USER" env-default:"root"`
	DBPass string `env:"DB_PASS" env-default:""`
	DBName string `env:"DB_NAME" env-default:"tts-db"`

	RedisAddr string `env:"REDIS_ADDR" env-default:"localhost:6379"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" env-default:"localhost:9092,localhost:9093,localhost:9094"`
	VoiceTopic   string   `env:"KAFKA_VOICE_TOPIC" env-default:"voice-topic"`
	UsageTopic   string   `env:"KAFKA_USAGE_TOPIC" env-default:"tts-usage-topic"`

	JWTSecret          string `env:"JWT_SECRET" env-default:"secret"`
	TokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" env-default:"11520"`

	FirstSuperuser         string `env:"FIRST_SUPERUSER" env-default:"admin@example.com"`
	FirstSuperuserPassword string `env:"FIRST_SUPERUSER_PASSWORD" env-default:"admin"`

	SynthURL            string `env:"SYNTH_URL" env-default:"http://localhost:8000"`
	SynthTimeoutSeconds int    `env:"SYNTH_TIMEOUT_SECONDS" env-default:"120"`

	VoiceUploadDir   string `env:"VOICE_UPLOAD_DIR" env-default:"data/voice_uploads"`
	VoiceCacheDir    string `env:"VOICE_CACHE_DIR" env-default:"data/voice_cache"`
	TTSOutputDir     string `env:"TTS_OUTPUT_DIR" env-default:"data/tts_output"`
	MaxVoiceFileSize int64  `env:"MAX_VOICE_FILE_SIZE" env-default:"104857600"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
