// Package configs provides embedded reference configuration files.
package configs

import _ "embed"

// CafeJS is the cafe site's tailwind.config.js as consumed by the styling
// engine. theme.Default must stay structurally equal to it.
//
//go:embed cafe/tailwind.config.js
var CafeJS []byte
