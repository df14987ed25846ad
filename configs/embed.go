// Package configs provides the embedded configuration template.
//
// The template is embedded at build time so `agora config init` works
// in every distribution, source builds and binary releases alike.
package configs

import _ "embed"

// ConfigTemplate is the commented example configuration.
// Written by `agora config init` as agora.yaml.
//
//go:embed agora.example.yaml
var ConfigTemplate string
