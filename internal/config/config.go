package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// readSecret reads a Docker secret from a file path specified by an env var
// with _FILE suffix. If FOO is already set directly, the file is skipped.
// If FOO_FILE is set, reads the file content and sets FOO.
func readSecret(envKey string) {
	if os.Getenv(envKey) != "" {
		return
	}
	fileKey := envKey + "_FILE"
	filePath := os.Getenv(fileKey)
	if filePath == "" {
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	val := strings.TrimSpace(string(data))
	os.Setenv(envKey, val)
}

type Config struct {
	Server     ServerConfig
	Redis      RedisConfig
	Auth       AuthConfig
	RateLimit  RateLimitConfig
	Render     RenderConfig
	Firecrawl  FirecrawlConfig
	LLM        LLMConfig
	ElevenLabs ElevenLabsConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	// JWTSecret enables bearer auth on the API group when non-empty.
	JWTSecret string
}

type RateLimitConfig struct {
	GeneratePerHour int
}

type RenderConfig struct {
	// Mode is "templated" or "agentic", fixed for the process lifetime.
	Mode string
	// ProjectDir is the canonical render-capable project (cloned once,
	// npm-installed once). Templated mode renders in place; agentic mode
	// copies it per job.
	ProjectDir string
	// OutputDir is the public store completed videos are copied into.
	OutputDir string
	// WorkBaseDir holds the per-job disposable workspaces for agentic mode.
	WorkBaseDir string
	// CompositionID is the composition the external renderer is asked for.
	CompositionID string
	// AgentTimeoutSec bounds the coding-agent subprocess.
	AgentTimeoutSec int
	// MusicDir holds the bundled background-music loops.
	MusicDir string
}

type FirecrawlConfig struct {
	APIKey  string
	BaseURL string
}

type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type ElevenLabsConfig struct {
	APIKey  string
	VoiceID string
	ModelID string
	BaseURL string
}

func Load() (*Config, error) {
	// Read Docker Swarm secrets from _FILE env vars before Viper binds
	readSecret("REDIS_PASSWORD")
	readSecret("FIRECRAWL_API_KEY")
	readSecret("OPENAI_API_KEY")
	readSecret("ELEVENLABS_API_KEY")
	readSecret("JWT_SECRET")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variables
	viper.AutomaticEnv()

	// Bind environment variables with underscores to nested config keys
	_ = viper.BindEnv("server.port", "SERVER_PORT")
	_ = viper.BindEnv("server.env", "SERVER_ENV")
	_ = viper.BindEnv("server.log_level", "LOG_LEVEL")
	_ = viper.BindEnv("redis.addr", "REDIS_ADDR")
	_ = viper.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = viper.BindEnv("redis.db", "REDIS_DB")
	_ = viper.BindEnv("auth.jwt_secret", "JWT_SECRET")
	_ = viper.BindEnv("ratelimit.generate_per_hour", "RATELIMIT_GENERATE_PER_HOUR")
	_ = viper.BindEnv("render.mode", "RENDER_MODE")
	_ = viper.BindEnv("render.project_dir", "REMOTION_PROJECT_DIR")
	_ = viper.BindEnv("render.output_dir", "OUTPUT_DIR")
	_ = viper.BindEnv("render.work_base_dir", "WORK_BASE_DIR")
	_ = viper.BindEnv("render.composition_id", "COMPOSITION_ID")
	_ = viper.BindEnv("render.agent_timeout_sec", "AGENT_TIMEOUT_SEC")
	_ = viper.BindEnv("render.music_dir", "MUSIC_DIR")
	_ = viper.BindEnv("firecrawl.api_key", "FIRECRAWL_API_KEY")
	_ = viper.BindEnv("firecrawl.base_url", "FIRECRAWL_BASE_URL")
	_ = viper.BindEnv("llm.api_key", "OPENAI_API_KEY")
	_ = viper.BindEnv("llm.base_url", "OPENAI_BASE_URL")
	_ = viper.BindEnv("llm.model", "OPENAI_MODEL")
	_ = viper.BindEnv("elevenlabs.api_key", "ELEVENLABS_API_KEY")
	_ = viper.BindEnv("elevenlabs.voice_id", "ELEVENLABS_VOICE_ID")
	_ = viper.BindEnv("elevenlabs.model_id", "ELEVENLABS_MODEL_ID")
	_ = viper.BindEnv("elevenlabs.base_url", "ELEVENLABS_BASE_URL")

	// Defaults
	viper.SetDefault("server.port", "8000")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("ratelimit.generate_per_hour", 10)

	// Render defaults
	viper.SetDefault("render.mode", "templated")
	viper.SetDefault("render.project_dir", "~/remotion-demo-2")
	viper.SetDefault("render.output_dir", "outputs")
	viper.SetDefault("render.work_base_dir", "~/.remotion-agentic")
	viper.SetDefault("render.composition_id", "PromoVideo")
	viper.SetDefault("render.agent_timeout_sec", 900)
	viper.SetDefault("render.music_dir", "assets/music")

	// Collaborator defaults
	viper.SetDefault("firecrawl.base_url", "https://api.firecrawl.dev/v1")
	viper.SetDefault("llm.base_url", "https://api.openai.com/v1")
	viper.SetDefault("llm.model", "gpt-4o")
	viper.SetDefault("elevenlabs.base_url", "https://api.elevenlabs.io/v1")
	viper.SetDefault("elevenlabs.voice_id", "EXAVITQu4vr4xnSDxMaL")
	viper.SetDefault("elevenlabs.model_id", "eleven_turbo_v2_5")

	// Try to read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port:     viper.GetString("server.port"),
			Env:      viper.GetString("server.env"),
			LogLevel: viper.GetString("server.log_level"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Auth: AuthConfig{
			JWTSecret: viper.GetString("auth.jwt_secret"),
		},
		RateLimit: RateLimitConfig{
			GeneratePerHour: viper.GetInt("ratelimit.generate_per_hour"),
		},
		Render: RenderConfig{
			Mode:            viper.GetString("render.mode"),
			ProjectDir:      expandHome(viper.GetString("render.project_dir")),
			OutputDir:       viper.GetString("render.output_dir"),
			WorkBaseDir:     expandHome(viper.GetString("render.work_base_dir")),
			CompositionID:   viper.GetString("render.composition_id"),
			AgentTimeoutSec: viper.GetInt("render.agent_timeout_sec"),
			MusicDir:        viper.GetString("render.music_dir"),
		},
		Firecrawl: FirecrawlConfig{
			APIKey:  viper.GetString("firecrawl.api_key"),
			BaseURL: viper.GetString("firecrawl.base_url"),
		},
		LLM: LLMConfig{
			APIKey:  viper.GetString("llm.api_key"),
			BaseURL: viper.GetString("llm.base_url"),
			Model:   viper.GetString("llm.model"),
		},
		ElevenLabs: ElevenLabsConfig{
			APIKey:  viper.GetString("elevenlabs.api_key"),
			VoiceID: viper.GetString("elevenlabs.voice_id"),
			ModelID: viper.GetString("elevenlabs.model_id"),
			BaseURL: viper.GetString("elevenlabs.base_url"),
		},
	}

	return cfg, nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + path[1:]
		}
	}
	return path
}
