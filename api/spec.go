// Package api holds the OpenAPI contract and the request/response types the
// HTTP layer exchanges with clients.
package api

import (
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var openapiSpec []byte

// GetSwagger loads the embedded OpenAPI document.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	swagger, err := loader.LoadFromData(openapiSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi spec: %w", err)
	}
	if err := swagger.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("openapi spec is invalid: %w", err)
	}
	return swagger, nil
}

// RawSpec returns the spec document as served on /openapi.
func RawSpec() []byte {
	return openapiSpec
}
