package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Remote model defaults
const (
	DefaultModelName      = "gemini-flash"
	DefaultModelID        = "gemini-2.5-flash"
	DefaultModelEndpoint  = "https://generativelanguage.googleapis.com/v1beta/models/{model}:generateContent"
	DefaultAuthEnvVar     = "GEMINI_API_KEY"
	FallbackAuthEnvVar    = "API_KEY"
	DefaultTimeoutSeconds = 60
)

// Server defaults
const (
	DefaultServerAddr   = ":8080"
	DefaultMaxBodyBytes = 1 << 20
	DefaultServerMode   = "release"
)

// Logging defaults
const (
	DefaultLogLevel    = "info"
	DefaultLogEncoding = "console"
)

// DefaultHTTPClientTimeout is used when the model sets no timeout.
const DefaultHTTPClientTimeout = DefaultTimeoutSeconds * time.Second

// ConfigFormatVersion is written by config init.
const ConfigFormatVersion = "1"
