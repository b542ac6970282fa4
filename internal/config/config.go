// Package config loads server settings from defaults, an optional config
// file, a .env file and AILUTIONS_* environment variables, in rising order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "AILUTIONS"

type Config struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	GRPC      GRPCConfig      `mapstructure:"grpc"`
	Web       WebConfig       `mapstructure:"web"`
	Log       LogConfig       `mapstructure:"log"`
	Store     StoreConfig     `mapstructure:"store"`
	Narrative NarrativeConfig `mapstructure:"narrative"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Azure     AzureConfig     `mapstructure:"azure"`
	Chrome    ChromeConfig    `mapstructure:"chrome"`
	Render    RenderConfig    `mapstructure:"render"`
	OTel      OTelConfig      `mapstructure:"otel"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

// GRPCConfig leaves the gRPC listener off when Addr is empty.
type GRPCConfig struct {
	Addr string `mapstructure:"addr"`
}

type WebConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=memory file sqlite postgres"`
	Path   string `mapstructure:"path"`
	DSN    string `mapstructure:"dsn" validate:"required_if=Driver postgres"`
}

type NarrativeConfig struct {
	Provider  string        `mapstructure:"provider" validate:"oneof=anthropic azure-openai"`
	Model     string        `mapstructure:"model"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxTokens int           `mapstructure:"max_tokens" validate:"gte=256"`
}

type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type AzureConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	APIKey     string `mapstructure:"api_key"`
	Deployment string `mapstructure:"deployment"`
}

type ChromeConfig struct {
	Path string `mapstructure:"path"`
}

type RenderConfig struct {
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// OTelConfig exports traces over OTLP/HTTP when Endpoint is set.
type OTelConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name" validate:"required"`
}

var validate = validator.New()

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("grpc.addr", "")
	v.SetDefault("web.dir", "web")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("store.driver", "file")
	v.SetDefault("store.path", "data/submissions.json")
	v.SetDefault("store.dsn", "")
	v.SetDefault("narrative.provider", "anthropic")
	v.SetDefault("narrative.model", "")
	v.SetDefault("narrative.timeout", 30*time.Second)
	v.SetDefault("narrative.max_tokens", 2048)
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("azure.endpoint", "")
	v.SetDefault("azure.api_key", "")
	v.SetDefault("azure.deployment", "")
	v.SetDefault("chrome.path", "")
	v.SetDefault("render.timeout", 45*time.Second)
	v.SetDefault("otel.endpoint", "")
	v.SetDefault("otel.service_name", "ailutions-site")
}

// Load reads configuration. cfgFile may be empty; a missing .env file is
// not an error.
func Load(cfgFile string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	// The provider SDKs document their own variables; honour them when the
	// prefixed ones are unset.
	if cfg.Anthropic.APIKey == "" {
		cfg.Anthropic.APIKey = strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	}
	if cfg.Azure.APIKey == "" {
		cfg.Azure.APIKey = strings.TrimSpace(os.Getenv("AZURE_OPENAI_KEY"))
	}
	if cfg.Azure.Endpoint == "" {
		cfg.Azure.Endpoint = strings.TrimSpace(os.Getenv("AZURE_OPENAI_ENDPOINT"))
	}
	if cfg.Azure.Deployment == "" {
		cfg.Azure.Deployment = strings.TrimSpace(os.Getenv("AZURE_OPENAI_DEPLOYMENT_ID"))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %s", strings.ToLower(e.Namespace()), e.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
