// Package spec embeds the OpenAPI document for the trip planner API.
// The HTTP server serves it at /openapi.yaml.
package spec

import _ "embed"

// OpenAPI contains the raw bytes of openapi.yaml, embedded at compile time.
// Serving it from the binary keeps the published contract next to the code that implements it.
//
//go:embed openapi.yaml
var OpenAPI []byte
