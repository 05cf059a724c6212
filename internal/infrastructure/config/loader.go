package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/diarisk/assets"
	"github.com/doeshing/diarisk/internal/domain"
	"github.com/doeshing/diarisk/internal/ports"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "DIARISK_CONFIG"

// DefaultEnvFile is loaded from the working directory before the credential is resolved.
const DefaultEnvFile = ".env"

// ErrConfigExists is returned by WriteDefault when the file is already present.
var ErrConfigExists = errors.New("config file already exists")

// FileLoader loads YAML configuration from ~/.diarisk/config.yaml (overridable via DIARISK_CONFIG).
// A missing file is not an error: the embedded defaults are used and nothing is written.
type FileLoader struct {
	overridePath string
	envFile      string
	lookupEnv    func(string) (string, bool)
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{
		overridePath: path,
		envFile:      DefaultEnvFile,
		lookupEnv:    os.LookupEnv,
	}
}

// WithEnvFile sets the dotenv file read before resolving the credential. Empty disables it.
func (l *FileLoader) WithEnvFile(path string) *FileLoader {
	l.envFile = path
	return l
}

// Path returns the file Load reads.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	if err := l.loadEnvFile(); err != nil {
		return domain.Config{}, err
	}

	path := l.resolvePath()
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return domain.Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		data = assets.DefaultConfigYAML
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg = hydrateDefaults(cfg)
	cfg.Path = path
	cfg.Credential, cfg.CredentialSource = l.resolveCredential(cfg.Model.AuthEnvVar)
	return cfg, nil
}

// loadEnvFile populates the process environment from a dotenv file.
// Variables that are already set win.
func (l *FileLoader) loadEnvFile() error {
	if l.envFile == "" {
		return nil
	}
	if err := godotenv.Load(l.envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", l.envFile, err)
	}
	return nil
}

// resolveCredential reads the configured variable first, then API_KEY.
// When neither is set the configured variable is reported as the source.
func (l *FileLoader) resolveCredential(envVar string) (string, string) {
	candidates := []string{envVar}
	if envVar != domain.FallbackAuthEnvVar {
		candidates = append(candidates, domain.FallbackAuthEnvVar)
	}
	for _, name := range candidates {
		if value, ok := l.lookupEnv(name); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value), name
		}
	}
	return "", envVar
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return expandPath(l.overridePath)
	}
	if custom, ok := l.lookupEnv(EnvConfigPath); ok && custom != "" {
		return expandPath(custom)
	}
	return DefaultPath()
}

// DefaultPath is ~/.diarisk/config.yaml.
func DefaultPath() string {
	return filepath.Join(userHomeDir(), ".diarisk", "config.yaml")
}

// DefaultConfig returns the embedded defaults, hydrated.
func DefaultConfig() (domain.Config, error) {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse embedded defaults: %w", err)
	}
	return hydrateDefaults(cfg), nil
}

// WriteDefault writes the embedded defaults to path. An existing file is
// only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, ErrConfigExists)
		}
	}
	if err := ensureConfigDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Marshal renders cfg as YAML. The credential is never included.
func Marshal(cfg domain.Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

func ensureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return nil
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = domain.ConfigFormatVersion
	}
	if cfg.Model.Name == "" {
		cfg.Model.Name = domain.DefaultModelName
	}
	if cfg.Model.Endpoint == "" {
		cfg.Model.Endpoint = domain.DefaultModelEndpoint
	}
	if cfg.Model.ModelID == "" {
		cfg.Model.ModelID = domain.DefaultModelID
	}
	if cfg.Model.AuthEnvVar == "" {
		cfg.Model.AuthEnvVar = domain.DefaultAuthEnvVar
	}
	if cfg.Model.TimeoutSeconds == 0 {
		cfg.Model.TimeoutSeconds = domain.DefaultTimeoutSeconds
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = domain.DefaultServerAddr
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = domain.DefaultMaxBodyBytes
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = domain.DefaultServerMode
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = domain.DefaultLogLevel
	}
	if cfg.Logging.Encoding == "" {
		cfg.Logging.Encoding = domain.DefaultLogEncoding
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(userHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

func userHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
