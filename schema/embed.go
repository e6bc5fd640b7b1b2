// Package schema embeds the JSON schema that stagebench.yaml is checked against
// before it is decoded.
package schema

import "embed"

// FS holds config.schema.json.
//
//go:embed config.schema.json
var FS embed.FS
