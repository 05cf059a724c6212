package assets

import (
	_ "embed"
)

// DefaultConfigYAML contains the embedded default configuration.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

// IndexTemplate is the HTML form served at /.
//
//go:embed templates/index.html
var IndexTemplate string
