// Package openapi carries the hand-maintained API document served to the
// swagger UI.
package openapi

import _ "embed"

//go:embed admin.swagger.json
var Doc []byte
