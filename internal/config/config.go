package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Media      MediaConfig
	Whisper    WhisperConfig
	LLM        LLMConfig
	Generation GenerationConfig
	Logger     LoggerConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// MediaConfig controls audio acquisition. CookieFile and PlayerClient are
// host workarounds passed straight through to yt-dlp; they are deployment
// configuration, not pipeline logic.
type MediaConfig struct {
	ScratchDir      string
	YtdlpPath       string
	CookieFile      string
	PlayerClient    string
	ProbeTimeout    time.Duration
	DownloadTimeout time.Duration
}

type WhisperConfig struct {
	BinaryPath string
	ModelPath  string
	Language   string
	Timeout    time.Duration
}

type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

type GenerationConfig struct {
	MaxConcurrent      int64
	TranscriptCacheTTL time.Duration
}

type LoggerConfig struct {
	Env   string
	Level string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../configs")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
	}

	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		DB: DBConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetInt("db.port"),
			User:     viper.GetString("db.user"),
			Password: viper.GetString("db.password"),
			DBName:   viper.GetString("db.name"),
			SSLMode:  viper.GetString("db.sslmode"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			SecretKey:       viper.GetString("jwt.secret_key"),
			AccessTokenTTL:  viper.GetDuration("jwt.access_token_ttl"),
			RefreshTokenTTL: viper.GetDuration("jwt.refresh_token_ttl"),
		},
		Media: MediaConfig{
			ScratchDir:      viper.GetString("media.scratch_dir"),
			YtdlpPath:       viper.GetString("media.ytdlp_path"),
			CookieFile:      viper.GetString("media.cookie_file"),
			PlayerClient:    viper.GetString("media.player_client"),
			ProbeTimeout:    viper.GetDuration("media.probe_timeout"),
			DownloadTimeout: viper.GetDuration("media.download_timeout"),
		},
		Whisper: WhisperConfig{
			BinaryPath: viper.GetString("whisper.binary_path"),
			ModelPath:  viper.GetString("whisper.model_path"),
			Language:   viper.GetString("whisper.language"),
			Timeout:    viper.GetDuration("whisper.timeout"),
		},
		LLM: LLMConfig{
			APIKey:      viper.GetString("llm.api_key"),
			BaseURL:     viper.GetString("llm.base_url"),
			Model:       viper.GetString("llm.model"),
			Temperature: viper.GetFloat64("llm.temperature"),
			Timeout:     viper.GetDuration("llm.timeout"),
		},
		Generation: GenerationConfig{
			MaxConcurrent:      viper.GetInt64("generation.max_concurrent"),
			TranscriptCacheTTL: viper.GetDuration("generation.transcript_cache_ttl"),
		},
		Logger: LoggerConfig{
			Env:   viper.GetString("logger.env"),
			Level: viper.GetString("logger.level"),
		},
	}

	// Environment variable overrides for deployment.
	if host := os.Getenv("DB_HOST"); host != "" {
		config.DB.Host = host
	}
	if user := os.Getenv("DB_USER"); user != "" {
		config.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.DB.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		config.DB.DBName = dbname
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		config.JWT.SecretKey = secret
	}
	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		config.LLM.APIKey = apiKey
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)
	viper.SetDefault("db.sslmode", "disable")
	viper.SetDefault("jwt.access_token_ttl", 15*time.Minute)
	viper.SetDefault("jwt.refresh_token_ttl", 7*24*time.Hour)
	viper.SetDefault("media.scratch_dir", "media")
	viper.SetDefault("media.ytdlp_path", "yt-dlp")
	viper.SetDefault("media.probe_timeout", 30*time.Second)
	viper.SetDefault("media.download_timeout", 5*time.Minute)
	viper.SetDefault("whisper.binary_path", "whisper-cli")
	viper.SetDefault("whisper.timeout", 10*time.Minute)
	viper.SetDefault("llm.model", "gemini-2.0-flash")
	viper.SetDefault("llm.temperature", 0.1)
	viper.SetDefault("llm.timeout", 60*time.Second)
	viper.SetDefault("generation.max_concurrent", 4)
	viper.SetDefault("generation.transcript_cache_ttl", 24*time.Hour)
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("logger.level", "info")
}

// GetDSN builds a Postgres connection string for the pgx stdlib driver.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User,
		c.DB.Password,
		c.DB.Host,
		c.DB.Port,
		c.DB.DBName,
		c.DB.SSLMode,
	)
}
