package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Storage   StorageConfig
	Supabase  SupabaseConfig
	Auth      AuthConfig
	AI        AIConfig
	History   HistoryConfig
	Graph     GraphConfig
	Telemetry TelemetryConfig
	Seed      SeedConfig
}

type ServerConfig struct {
	Addr            string
	FrontendURL     string
	ShutdownTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type StorageConfig struct {
	// Driver is one of memory, sqlite or supabase.
	Driver     string
	SQLitePath string
}

type SupabaseConfig struct {
	URL string
	Key string
}

type AuthConfig struct {
	JWTSecret   string
	Required    bool
	DefaultUser string
}

type AIConfig struct {
	// Provider is one of anthropic, gemini, openai or none.
	Provider     string
	Model        string
	Timeout      time.Duration
	MaxRetries   int
	AnthropicKey string
	GeminiKey    string
	OpenAIKey    string
}

// APIKey returns the key for the selected provider.
func (c AIConfig) APIKey() string {
	switch c.Provider {
	case "anthropic":
		return c.AnthropicKey
	case "gemini":
		return c.GeminiKey
	case "openai":
		return c.OpenAIKey
	}
	return ""
}

type HistoryConfig struct {
	MaxDepth             int
	ClearRedoOnNewAction bool
}

type GraphConfig struct {
	ForbidCycles bool
}

type TelemetryConfig struct {
	Enabled      bool
	Stdout       bool
	OTLPEndpoint string
}

type SeedConfig struct {
	Demo bool
}

const envPrefix = "FOCUSFLOW"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.frontend_url", "http://localhost:5173")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.sqlite_path", "focusflow.db")
	v.SetDefault("supabase.url", "")
	v.SetDefault("supabase.key", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.required", false)
	v.SetDefault("auth.default_user", "demo")
	v.SetDefault("ai.provider", "anthropic")
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.timeout", 30*time.Second)
	v.SetDefault("ai.max_retries", 2)
	v.SetDefault("ai.anthropic_api_key", "")
	v.SetDefault("ai.gemini_api_key", "")
	v.SetDefault("ai.openai_api_key", "")
	v.SetDefault("history.max_depth", 100)
	v.SetDefault("history.clear_redo_on_new_action", false)
	v.SetDefault("graph.forbid_cycles", false)
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.stdout", false)
	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("seed.demo", false)
}

// Variables the deployment already uses without our prefix.
var legacyEnv = map[string][]string{
	"supabase.url":         {"SUPABASE_URL"},
	"supabase.key":         {"SUPABASE_KEY"},
	"auth.jwt_secret":      {"SUPABASE_JWT_SECRET", "JWT_SECRET"},
	"server.frontend_url":  {"FRONTEND_URL"},
	"ai.anthropic_api_key": {"ANTHROPIC_API_KEY"},
	"ai.gemini_api_key":    {"GEMINI_API_KEY"},
	"ai.openai_api_key":    {"OPENAI_API_KEY"},
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. With an empty path,
// ./focusflow.yaml is used when it exists.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range legacyEnv {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(append([]string{key, prefixed}, names...)...); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("focusflow")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:            v.GetString("server.addr"),
			FrontendURL:     v.GetString("server.frontend_url"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Storage: StorageConfig{
			Driver:     strings.ToLower(v.GetString("storage.driver")),
			SQLitePath: v.GetString("storage.sqlite_path"),
		},
		Supabase: SupabaseConfig{
			URL: v.GetString("supabase.url"),
			Key: v.GetString("supabase.key"),
		},
		Auth: AuthConfig{
			JWTSecret:   v.GetString("auth.jwt_secret"),
			Required:    v.GetBool("auth.required"),
			DefaultUser: v.GetString("auth.default_user"),
		},
		AI: AIConfig{
			Provider:     strings.ToLower(v.GetString("ai.provider")),
			Model:        v.GetString("ai.model"),
			Timeout:      v.GetDuration("ai.timeout"),
			MaxRetries:   v.GetInt("ai.max_retries"),
			AnthropicKey: v.GetString("ai.anthropic_api_key"),
			GeminiKey:    v.GetString("ai.gemini_api_key"),
			OpenAIKey:    v.GetString("ai.openai_api_key"),
		},
		History: HistoryConfig{
			MaxDepth:             v.GetInt("history.max_depth"),
			ClearRedoOnNewAction: v.GetBool("history.clear_redo_on_new_action"),
		},
		Graph: GraphConfig{
			ForbidCycles: v.GetBool("graph.forbid_cycles"),
		},
		Telemetry: TelemetryConfig{
			Enabled:      v.GetBool("telemetry.enabled"),
			Stdout:       v.GetBool("telemetry.stdout"),
			OTLPEndpoint: v.GetString("telemetry.otlp_endpoint"),
		},
		Seed: SeedConfig{
			Demo: v.GetBool("seed.demo"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory", "sqlite":
	case "supabase":
		if c.Supabase.URL == "" || c.Supabase.Key == "" {
			return fmt.Errorf("storage.driver supabase requires supabase.url and supabase.key")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	switch c.AI.Provider {
	case "anthropic", "gemini", "openai", "none":
	default:
		return fmt.Errorf("unknown ai.provider %q", c.AI.Provider)
	}
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("ai.timeout must be positive")
	}
	if c.History.MaxDepth <= 0 {
		return fmt.Errorf("history.max_depth must be positive")
	}
	return nil
}
