// Package configs provides the embedded configuration template that
// 'wordscan config init' writes for new project and user config files.
//
// Edit config.example.yaml to change the template; it is embedded at build
// time and must keep parsing to the built-in defaults.
package configs

import _ "embed"

// ConfigTemplate is the commented default configuration.
//
//go:embed config.example.yaml
var ConfigTemplate string
