package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Transports the server can speak.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds the complete application configuration, loadable from
// environment variables (MEMCOMMERCE_ prefix), flags, or YAML config files.
type Config struct {
	APIURL    string `env:"API_URL" flag:"api-url" yaml:"api_url" usage:"Base URL of the MemCommerce backend API (MEMCOMMERCE_API_URL)"`
	Transport string `default:"stdio" usage:"MCP transport: stdio or http"`
	Addr      string `default:"127.0.0.1:8090" usage:"Listen address for the http transport"`
	// CORSOrigins lists browser origins allowed to call /mcp; empty disables CORS.
	CORSOrigins []string `env:"CORS_ORIGINS" flag:"cors-origins" yaml:"cors_origins" usage:"Browser origins allowed to call the http transport"`
	Backend     BackendConfig
	Gateway     GatewayConfig
	Graceful    GracefulConfig
}

// BackendConfig controls the outbound HTTP client.
type BackendConfig struct {
	Timeout   time.Duration `default:"30s" usage:"Per-request timeout for backend calls"`
	ProbePath string        `default:"/categories/" usage:"Backend path requested by the readiness probe" flag:"probe-path"`
}

// GatewayConfig controls batch fan-out.
type GatewayConfig struct {
	MaxConcurrency int `default:"0" usage:"Max in-flight create requests per batch, 0 for unbounded" flag:"max-concurrency"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from flags, environment variables and YAML
// config files, then validates it.
func LoadConfig() (*Config, error) {
	cfg, err := loadConfig(os.Args[1:], false)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvConfig loads configuration from environment variables and YAML
// config files only. It is meant for commands that parse their own flags;
// the caller applies overrides and calls Validate.
func LoadEnvConfig() (*Config, error) {
	return loadConfig(nil, true)
}

func loadConfig(args []string, skipFlags bool) (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "MEMCOMMERCE",
		SkipFlags: skipFlags,
		Args:      args,
		Files:     []string{"memcommerce.yaml", "/etc/memcommerce/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	return &cfg, nil
}

// Validate reports configuration the server cannot start with.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("api url is required: set --api-url or MEMCOMMERCE_API_URL")
	}
	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return errors.Errorf("unknown transport %q: want %s or %s", c.Transport, TransportStdio, TransportHTTP)
	}
	if c.Gateway.MaxConcurrency < 0 {
		return errors.Errorf("max concurrency must not be negative, got %d", c.Gateway.MaxConcurrency)
	}
	return nil
}
