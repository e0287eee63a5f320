// Package docs holds the HTTP API contract.
package docs

import _ "embed"

// OpenAPI is the OpenAPI 3 document describing /api/v1
//
//go:embed openapi.yaml
var OpenAPI []byte
