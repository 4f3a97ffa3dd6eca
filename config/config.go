package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server    Server
	Database  Database
	Gemini    Gemini
	JWT       JWT
	Storage   Storage
	Upload    Upload
	RateLimit RateLimit
	Tracing   Tracing
	Log       Log
}

type Server struct {
	Port           string
	Mode           string
	AllowedOrigins []string
}

type Database struct {
	Driver   string // "postgres", "mysql" or "sqlite"
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	Path     string // sqlite only
}

type Gemini struct {
	ApiKey  string
	Model   string
	Timeout time.Duration
}

type JWT struct {
	Secret string
}

type Storage struct {
	Type           string // "local" or "minio"
	LocalPath      string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

type Upload struct {
	MaxBytes int64
}

type RateLimit struct {
	MaxRequests int
	Window      time.Duration
}

type Tracing struct {
	Enabled           bool
	CollectorEndpoint string
}

type Log struct {
	Level string
	File  string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Server.Mode = viper.GetString("GIN_MODE")
	config.Server.AllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))

	config.Database.Driver = strings.ToLower(viper.GetString("DATABASE_DRIVER"))
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.Path = viper.GetString("DATABASE_PATH")

	config.Gemini.ApiKey = viper.GetString("GEMINI_API_KEY")
	config.Gemini.Model = viper.GetString("GEMINI_MODEL")
	config.Gemini.Timeout = viper.GetDuration("GEMINI_TIMEOUT")

	config.JWT.Secret = viper.GetString("JWT_SECRET")

	config.Storage.Type = strings.ToLower(viper.GetString("STORAGE_TYPE"))
	config.Storage.LocalPath = viper.GetString("STORAGE_LOCAL_PATH")
	config.Storage.MinioEndpoint = viper.GetString("MINIO_ENDPOINT")
	config.Storage.MinioAccessKey = viper.GetString("MINIO_ACCESS_KEY")
	config.Storage.MinioSecretKey = viper.GetString("MINIO_SECRET_KEY")
	config.Storage.MinioBucket = viper.GetString("MINIO_BUCKET")
	config.Storage.MinioUseSSL = viper.GetBool("MINIO_USE_SSL")

	config.Upload.MaxBytes = viper.GetInt64("UPLOAD_MAX_BYTES")

	config.RateLimit.MaxRequests = viper.GetInt("RATE_LIMIT_MAX_REQUESTS")
	config.RateLimit.Window = viper.GetDuration("RATE_LIMIT_WINDOW")

	config.Tracing.Enabled = viper.GetBool("TRACING_ENABLED")
	config.Tracing.CollectorEndpoint = viper.GetString("TRACING_COLLECTOR_ENDPOINT")

	config.Log.Level = viper.GetString("LOG_LEVEL")
	config.Log.File = viper.GetString("LOG_FILE")

	log.Info().
		Str("port", config.Server.Port).
		Str("dbDriver", config.Database.Driver).
		Str("geminiModel", config.Gemini.Model).
		Str("storage", config.Storage.Type).
		Bool("geminiKeySet", config.Gemini.ApiKey != "").
		Msg("Config loaded")
	return &config, nil
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_PATH", "quiz.db")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("GEMINI_TIMEOUT", "90s")
	viper.SetDefault("STORAGE_TYPE", "local")
	viper.SetDefault("STORAGE_LOCAL_PATH", "uploads")
	viper.SetDefault("MINIO_BUCKET", "uploads")
	viper.SetDefault("UPLOAD_MAX_BYTES", 20<<20)
	viper.SetDefault("RATE_LIMIT_MAX_REQUESTS", 10)
	viper.SetDefault("RATE_LIMIT_WINDOW", "1m")
	viper.SetDefault("LOG_LEVEL", "info")
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
