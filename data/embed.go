// Package data embeds the default aggregation configuration.
package data

import _ "embed"

//go:embed categories.yaml
var DefaultConfig []byte
