package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	ConfigDirName  = "hey"
	ConfigFileName = "config.toml"
)

// Provider identifies a remote model backend.
type Provider string

const (
	ProviderOpenAI     Provider = "openai"
	ProviderAnthropic  Provider = "anthropic"
	ProviderOpenRouter Provider = "openrouter"
	ProviderVercel     Provider = "vercel"
)

// Providers lists every supported backend in display order.
var Providers = []Provider{ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter, ProviderVercel}

// ParseProvider maps a user-supplied name to a Provider. Matching is
// case-insensitive and accepts the gateway aliases used in Vercel docs.
func ParseProvider(input string) (Provider, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "openai":
		return ProviderOpenAI, true
	case "anthropic":
		return ProviderAnthropic, true
	case "openrouter":
		return ProviderOpenRouter, true
	case "vercel", "vercel-ai-gateway", "gateway":
		return ProviderVercel, true
	}
	return "", false
}

func (p Provider) String() string {
	return string(p)
}

// DefaultBaseURL returns the API base URL used when none is configured.
func (p Provider) DefaultBaseURL() string {
	switch p {
	case ProviderAnthropic:
		return "https://api.anthropic.com"
	case ProviderOpenRouter:
		return "https://openrouter.ai/api/v1"
	case ProviderVercel:
		return "https://ai-gateway.vercel.sh/v1"
	default:
		return "https://api.openai.com/v1"
	}
}

// DefaultModel returns the model id used when none is configured.
func (p Provider) DefaultModel() string {
	switch p {
	case ProviderAnthropic:
		return "claude-3-5-haiku-latest"
	case ProviderOpenRouter:
		return "openai/gpt-4o-mini"
	case ProviderVercel:
		return "openai/gpt-4o-mini"
	default:
		return "gpt-4o-mini"
	}
}

// KeyEnvVars returns the environment variable names checked for p's API key,
// in priority order.
func (p Provider) KeyEnvVars() []string {
	switch p {
	case ProviderAnthropic:
		return []string{"ANTHROPIC_API_KEY"}
	case ProviderOpenRouter:
		return []string{"OPENROUTER_API_KEY"}
	case ProviderVercel:
		return []string{"VERCEL_AI_GATEWAY_API_KEY", "AI_GATEWAY_API_KEY"}
	default:
		return []string{"OPENAI_API_KEY"}
	}
}

func (p Provider) modelEnvVars() []string {
	switch p {
	case ProviderAnthropic:
		return []string{"ANTHROPIC_MODEL"}
	case ProviderOpenRouter:
		return []string{"OPENROUTER_MODEL"}
	case ProviderVercel:
		return []string{"VERCEL_AI_GATEWAY_MODEL"}
	default:
		return []string{"OPENAI_MODEL"}
	}
}

func (p Provider) baseURLEnvVars() []string {
	switch p {
	case ProviderAnthropic:
		return []string{"ANTHROPIC_BASE_URL"}
	case ProviderOpenRouter:
		return []string{"OPENROUTER_BASE_URL"}
	case ProviderVercel:
		return []string{"VERCEL_AI_GATEWAY_BASE_URL", "AI_GATEWAY_BASE_URL"}
	default:
		return []string{"OPENAI_BASE_URL"}
	}
}

// FileConfig mirrors the optional config.toml on disk. Unset fields fall
// through to environment variables and built-in defaults during Resolve.
type FileConfig struct {
	Provider string `toml:"provider,omitempty"`
	Model    string `toml:"model,omitempty"`
	BaseURL  string `toml:"base_url,omitempty"`
	APIKey   string `toml:"api_key,omitempty"`
	NoFun    *bool  `toml:"no_fun,omitempty"`
}

// Config is the fully resolved configuration for one invocation. It is built
// once by Resolve and treated as read-only afterwards.
type Config struct {
	Provider   Provider
	Model      string
	BaseURL    string
	APIKey     string
	Explain    bool
	JSON       bool
	Plain      bool
	NoFun      bool
	OutputFile string
}

// Overrides carries CLI flag values into Resolve. Empty strings and false
// booleans mean "not set on the command line".
type Overrides struct {
	Provider   string
	Model      string
	BaseURL    string
	APIKey     string
	OutputFile string
	Explain    bool
	JSON       bool
	Plain      bool
	NoFun      bool
}

// GetConfigDir returns the path to the config directory.
func GetConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(base, ConfigDirName), nil
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, ConfigFileName), nil
}

// LoadFile reads the file config at path. A missing file returns nil, nil so
// first runs work without any setup.
func LoadFile(path string) (*FileConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveFile writes the file config to path, creating parent directories as
// needed.
func SaveFile(path string, cfg *FileConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Resolve merges flag overrides, environment variables, the file config and
// built-in defaults, in that order of precedence, into a runnable Config.
func Resolve(ov Overrides, file *FileConfig) (*Config, error) {
	provider, err := resolveProvider(ov.Provider, file)
	if err != nil {
		return nil, err
	}

	model := firstNonEmpty(
		ov.Model,
		envFirst(append([]string{"HEY_MODEL"}, provider.modelEnvVars()...)),
		fileField(file, func(f *FileConfig) string { return f.Model }),
		provider.DefaultModel(),
	)

	baseURL := firstNonEmpty(
		ov.BaseURL,
		envFirst(append([]string{"HEY_BASE_URL"}, provider.baseURLEnvVars()...)),
		fileField(file, func(f *FileConfig) string { return f.BaseURL }),
		provider.DefaultBaseURL(),
	)

	apiKey := firstNonEmpty(
		ov.APIKey,
		envFirst(provider.KeyEnvVars()),
		fileField(file, func(f *FileConfig) string { return f.APIKey }),
	)

	noFun := ov.NoFun || os.Getenv("HEY_FUN") == "0"
	if file != nil && file.NoFun != nil {
		noFun = noFun || *file.NoFun
	}

	return &Config{
		Provider:   provider,
		Model:      model,
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Explain:    ov.Explain,
		JSON:       ov.JSON,
		Plain:      ov.Plain,
		NoFun:      noFun,
		OutputFile: ov.OutputFile,
	}, nil
}

func resolveProvider(flag string, file *FileConfig) (Provider, error) {
	if flag != "" {
		p, ok := ParseProvider(flag)
		if !ok {
			return "", fmt.Errorf("unsupported provider %q (use: openai, anthropic, openrouter, vercel)", flag)
		}
		return p, nil
	}
	if v := os.Getenv("HEY_PROVIDER"); v != "" {
		if p, ok := ParseProvider(v); ok {
			return p, nil
		}
	}
	if file != nil && file.Provider != "" {
		p, ok := ParseProvider(file.Provider)
		if !ok {
			return "", fmt.Errorf("unsupported provider %q in config file", file.Provider)
		}
		return p, nil
	}
	return ProviderOpenAI, nil
}

// ApplySetup folds a freshly saved onboarding result into an already resolved
// Config: the key is always taken, model and base URL only when the resolved
// values are still the provider defaults (explicit flags win over setup).
func (c *Config) ApplySetup(setup *FileConfig) error {
	if c.APIKey == "" {
		if setup.APIKey == "" {
			return fmt.Errorf("setup did not produce an API key")
		}
		c.APIKey = setup.APIKey
	}
	if c.Model == c.Provider.DefaultModel() && setup.Model != "" {
		c.Model = setup.Model
	}
	if c.BaseURL == c.Provider.DefaultBaseURL() && setup.BaseURL != "" {
		c.BaseURL = setup.BaseURL
	}
	if setup.Provider != "" {
		if p, ok := ParseProvider(setup.Provider); ok {
			c.Provider = p
		}
	}
	return nil
}

// DetectedKey pairs a provider with the API key found for it in the
// environment.
type DetectedKey struct {
	Provider Provider
	Value    string
}

// DetectedKeys reports every provider whose API key is present and non-blank
// in the environment, in display order.
func DetectedKeys() []DetectedKey {
	var out []DetectedKey
	for _, p := range Providers {
		if v := envFirst(p.KeyEnvVars()); strings.TrimSpace(v) != "" {
			out = append(out, DetectedKey{Provider: p, Value: v})
		}
	}
	return out
}

func envFirst(names []string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func fileField(file *FileConfig, get func(*FileConfig) string) string {
	if file == nil {
		return ""
	}
	return get(file)
}
