package domain

// Config mirrors ~/.diarisk/config.yaml.
type Config struct {
	ConfigFormatVersion string          `yaml:"config_format_version"`
	Model               ModelDefinition `yaml:"model"`
	Server              ServerSettings  `yaml:"server"`
	Logging             LoggingSettings `yaml:"logging"`

	// Credential is resolved from Model.AuthEnvVar at load time and never
	// written back to disk.
	Credential string `yaml:"-"`
	// CredentialSource names the variable the credential came from, or the
	// variable that was expected when it is missing.
	CredentialSource string `yaml:"-"`
	// Path is the file the config was read from.
	Path string `yaml:"-"`
}

// ServerSettings configures the HTTP form and API.
type ServerSettings struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes"`
	Mode           string   `yaml:"mode"`
}

// LoggingSettings configures the zap logger.
type LoggingSettings struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}
