// Package swagger embeds the OpenAPI description of the HTTP API.
package swagger

import _ "embed"

// FileName is the document name the UI loads.
const FileName = "portal.swagger.json"

//go:embed portal.swagger.json
var Document []byte
