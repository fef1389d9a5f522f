package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything ffscope needs to reach a FireFly node.
type Config struct {
	APIURL         string        `validate:"required,url"`
	Namespace      string        `validate:"required"`
	NSPrefix       string        `validate:"required,startswith=/"`
	PageSize       int           `validate:"oneof=5 10 25 50 100"`
	PollInterval   time.Duration `validate:"min=1s"`
	RequestTimeout time.Duration `validate:"min=1s"`
	LogFile        string
}

// PageLimits are the page sizes offered by list views, smallest first.
var PageLimits = []int{5, 10, 25, 50, 100}

const (
	defaultConfigPath     = "~/.config/ffscope/config.toml"
	defaultLogFile        = "~/.local/state/ffscope/ffscope.log"
	defaultAPIURL         = "http://127.0.0.1:5000"
	defaultNamespace      = "default"
	defaultNSPrefix       = "/api/v1/namespaces"
	defaultPageSize       = 10
	defaultPollInterval   = 2 * time.Second
	defaultRequestTimeout = 10 * time.Second
)

// fileConfig mirrors config.toml.
type fileConfig struct {
	APIURL                string `toml:"api_url"`
	Namespace             string `toml:"namespace"`
	NSPrefix              string `toml:"ns_prefix"`
	PageSize              int    `toml:"page_size"`
	PollSeconds           int    `toml:"poll_seconds"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	LogFile               string `toml:"log_file"`
}

// envConfig holds FFSCOPE_* overrides. Zero values leave the file value alone.
type envConfig struct {
	APIURL         string        `envconfig:"API_URL"`
	Namespace      string        `envconfig:"NAMESPACE"`
	NSPrefix       string        `envconfig:"NS_PREFIX"`
	PageSize       int           `envconfig:"PAGE_SIZE"`
	PollInterval   time.Duration `envconfig:"POLL_INTERVAL"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT"`
	LogFile        string        `envconfig:"LOG_FILE"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:         defaultAPIURL,
		Namespace:      defaultNamespace,
		NSPrefix:       defaultNSPrefix,
		PageSize:       defaultPageSize,
		PollInterval:   defaultPollInterval,
		RequestTimeout: defaultRequestTimeout,
		LogFile:        mustExpand(defaultLogFile),
	}
}

// Load reads the config file, applies FFSCOPE_* environment overrides and
// validates the result. A missing file falls back to defaults.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	raw, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	applyFile(&cfg, raw)

	var env envConfig
	if err := envconfig.Process("ffscope", &env); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	applyEnv(&cfg, env)

	cfg.LogFile = mustExpand(cfg.LogFile)
	cfg.NSPrefix = "/" + strings.Trim(cfg.NSPrefix, "/")
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid config: api_url %q must be http or https", c.APIURL)
	}
	return nil
}

// NamespaceURL returns the absolute URL prefix for a namespace.
func (c Config) NamespaceURL(namespace string) string {
	return c.APIURL + c.NSPrefix + "/" + url.PathEscape(namespace)
}

func readFile(path string) (fileConfig, error) {
	var raw fileConfig
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return raw, nil
		}
		return raw, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return raw, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return raw, fmt.Errorf("parse config: %w", err)
	}
	return raw, nil
}

func applyFile(cfg *Config, raw fileConfig) {
	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.Namespace); v != "" {
		cfg.Namespace = v
	}
	if v := strings.TrimSpace(raw.NSPrefix); v != "" {
		cfg.NSPrefix = v
	}
	if raw.PageSize > 0 {
		cfg.PageSize = raw.PageSize
	}
	if raw.PollSeconds > 0 {
		cfg.PollInterval = time.Duration(raw.PollSeconds) * time.Second
	}
	if raw.RequestTimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeoutSeconds) * time.Second
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = v
	}
}

func applyEnv(cfg *Config, env envConfig) {
	if v := strings.TrimSpace(env.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(env.Namespace); v != "" {
		cfg.Namespace = v
	}
	if v := strings.TrimSpace(env.NSPrefix); v != "" {
		cfg.NSPrefix = v
	}
	if env.PageSize > 0 {
		cfg.PageSize = env.PageSize
	}
	if env.PollInterval > 0 {
		cfg.PollInterval = env.PollInterval
	}
	if env.RequestTimeout > 0 {
		cfg.RequestTimeout = env.RequestTimeout
	}
	if v := strings.TrimSpace(env.LogFile); v != "" {
		cfg.LogFile = v
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
