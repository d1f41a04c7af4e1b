package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/Patasheva/congrats-analyzer/internal/ai"
	"github.com/Patasheva/congrats-analyzer/internal/database"
)

type Config struct {
	Port          string `env:"PORT"            envDefault:"8080"`
	MaxUploadSize int64  `env:"MAX_UPLOAD_SIZE" envDefault:"209715200"`
	ScratchDir    string `env:"SCRATCH_DIR"     envDefault:"./temp_files"`
	DefaultLocale string `env:"DEFAULT_LOCALE"  envDefault:"en"`

	DBType         string `env:"DB_TYPE"         envDefault:"sqlite"`
	DBPath         string `env:"DB_PATH"         envDefault:"./congrats.db"`
	DBHost         string `env:"DB_HOST"         envDefault:"localhost"`
	DBPort         int    `env:"DB_PORT"         envDefault:"5432"`
	DBUser         string `env:"DB_USER"         envDefault:"congrats"`
	DBPassword     string `env:"DB_PASSWORD"     envDefault:"congrats_dev"`
	DBName         string `env:"DB_NAME"         envDefault:"congrats"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"./migrations"`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	SpeechModel   string `env:"SPEECH_MODEL"   envDefault:"whisper-1"`
	VisionModel   string `env:"VISION_MODEL"   envDefault:"gpt-4o"`
	MaxNewTokens  int    `env:"MAX_NEW_TOKENS" envDefault:"2048"`
	VerifyModels  bool   `env:"VERIFY_MODELS"  envDefault:"false"`

	GoogleVisionKey string `env:"GOOGLE_VISION_API_KEY"`

	FFmpegPath string `env:"FFMPEG_PATH" envDefault:"ffmpeg"`

	LogLevel     string `env:"LOG_LEVEL"     envDefault:"info"`
	OTELEndpoint string `env:"OTEL_ENDPOINT"`
}

// Load reads an optional .env file from the working directory and then the
// process environment. Variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Database() database.Config {
	return database.Config{
		Type:       c.DBType,
		Host:       c.DBHost,
		Port:       c.DBPort,
		User:       c.DBUser,
		Password:   c.DBPassword,
		Name:       c.DBName,
		SQLitePath: c.DBPath,
	}
}

func (c *Config) AI() *ai.Config {
	return &ai.Config{
		OpenAIAPIKey:    c.OpenAIAPIKey,
		OpenAIBaseURL:   c.OpenAIBaseURL,
		SpeechModel:     c.SpeechModel,
		VisionModel:     c.VisionModel,
		MaxNewTokens:    c.MaxNewTokens,
		VerifyModels:    c.VerifyModels,
		GoogleVisionKey: c.GoogleVisionKey,
	}
}
