package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	UploadDir       string        `mapstructure:"upload_dir"`
	MaxUploadMB     int64         `mapstructure:"max_upload_mb"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// MaxUploadBytes is the request body limit for audio uploads.
func (s ServerConfig) MaxUploadBytes() int64 {
	return s.MaxUploadMB << 20
}

type ProvidersConfig struct {
	// Timeout bounds every outbound transcription or generation call.
	Timeout time.Duration `mapstructure:"timeout"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey             string `mapstructure:"api_key"`
	BaseURL            string `mapstructure:"base_url"`
	ChatModel          string `mapstructure:"chat_model"`
	TranscriptionModel string `mapstructure:"transcription_model"`
}

type OllamaConfig struct {
	URLs  []string `mapstructure:"urls"`
	Model string   `mapstructure:"model"`
}

type AssistantConfig struct {
	// Provider is one of gemini, openai, ollama, mock. Empty picks the
	// first provider that has credentials, falling back to mock.
	Provider string       `mapstructure:"provider"`
	Gemini   GeminiConfig `mapstructure:"gemini"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
	Ollama   OllamaConfig `mapstructure:"ollama"`
}

type WhisperConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type TranscriptionConfig struct {
	// Provider is one of whisper, openai, mock. Empty means auto.
	Provider  string        `mapstructure:"provider"`
	Language  string        `mapstructure:"language"`
	Whisper   WhisperConfig `mapstructure:"whisper"`
	MockDelay time.Duration `mapstructure:"mock_delay"`
}

type RedisConfig struct {
	Addr    string `mapstructure:"addr"`
	Pass    string `mapstructure:"pass"`
	Channel string `mapstructure:"channel"`
}

type ObjectStoreConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type AccountConfig struct {
	ID           string `mapstructure:"id"`
	Username     string `mapstructure:"username"`
	Email        string `mapstructure:"email"`
	PasswordHash string `mapstructure:"password_hash"`
}

type AuthConfig struct {
	Enabled       bool            `mapstructure:"enabled"`
	JWTSecret     string          `mapstructure:"jwt_secret"`
	TokenTTLHours int             `mapstructure:"token_ttl_hours"`
	Accounts      []AccountConfig `mapstructure:"accounts"`
}

type Settings struct {
	Env           string              `mapstructure:"env"`
	Debug         bool                `mapstructure:"debug"`
	Server        ServerConfig        `mapstructure:"server"`
	Providers     ProvidersConfig     `mapstructure:"providers"`
	Assistant     AssistantConfig     `mapstructure:"assistant"`
	Transcription TranscriptionConfig `mapstructure:"transcription"`
	Redis         RedisConfig         `mapstructure:"redis"`
	ObjectStore   ObjectStoreConfig   `mapstructure:"object_store"`
	Auth          AuthConfig          `mapstructure:"auth"`
}

const envPrefix = "TICNOTE"

// legacyEnv maps config keys to the bare variable names the service has
// always honoured.
var legacyEnv = map[string]string{
	"env":                      "ENV",
	"server.port":              "PORT",
	"assistant.gemini.api_key": "GEMINI_API_KEY",
	"assistant.openai.api_key": "OPENAI_API_KEY",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("debug", false)

	v.SetDefault("server.port", 5001)
	v.SetDefault("server.upload_dir", "uploads")
	v.SetDefault("server.max_upload_mb", 25)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("providers.timeout", 60*time.Second)

	v.SetDefault("assistant.provider", "")
	v.SetDefault("assistant.gemini.api_key", "")
	v.SetDefault("assistant.gemini.model", "gemini-1.5-flash")
	v.SetDefault("assistant.openai.api_key", "")
	v.SetDefault("assistant.openai.base_url", "")
	v.SetDefault("assistant.openai.chat_model", "gpt-4o-mini")
	v.SetDefault("assistant.openai.transcription_model", "whisper-1")
	v.SetDefault("assistant.ollama.urls", []string{})
	v.SetDefault("assistant.ollama.model", "llama3.1:8b-instruct")

	v.SetDefault("transcription.provider", "")
	v.SetDefault("transcription.language", "en")
	v.SetDefault("transcription.whisper.base_url", "")
	v.SetDefault("transcription.mock_delay", 2*time.Second)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.pass", "")
	v.SetDefault("redis.channel", "ticnote:broadcast")

	v.SetDefault("object_store.endpoint", "")
	v.SetDefault("object_store.access_key", "")
	v.SetDefault("object_store.secret_key", "")
	v.SetDefault("object_store.bucket", "ticnote-uploads")
	v.SetDefault("object_store.use_ssl", false)

	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl_hours", 24)
}

// Load reads config_<ENV>.yaml from the working directory and applies
// environment overrides. A missing file is not an error.
func Load() (*Settings, error) {
	return LoadFrom(viper.GetViper(), ".")
}

// LoadFrom is Load against an explicit viper instance and search paths.
func LoadFrom(v *viper.Viper, paths ...string) (*Settings, error) {
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, envPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	v.SetConfigName("config_" + genEnv(v))
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return decode(v)
}

// Watch re-decodes the settings whenever the config file changes and hands
// them to fn. It is a no-op when no config file was loaded.
func Watch(v *viper.Viper, fn func(*Settings, error)) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		fn(decode(v))
	})
	v.WatchConfig()
}

func decode(v *viper.Viper) (*Settings, error) {
	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := settings.validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *Settings) validate() error {
	if s.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive, got %d", s.Server.Port)
	}
	if s.Server.UploadDir == "" {
		return errors.New("server.upload_dir is required")
	}
	if s.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive, got %d", s.Server.MaxUploadMB)
	}
	if s.Auth.Enabled && len(s.Auth.Accounts) == 0 {
		return errors.New("auth.enabled requires at least one entry in auth.accounts")
	}
	if s.Auth.Enabled && s.Auth.JWTSecret == "" {
		return errors.New("auth.enabled requires auth.jwt_secret")
	}
	return nil
}

func genEnv(v *viper.Viper) string {
	env := v.GetString("env")
	if env == "" {
		return "dev"
	}
	return env
}
