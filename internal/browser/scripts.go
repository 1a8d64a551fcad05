package browser

import _ "embed"

// In-page payloads executed through Driver.ExecuteScript. Each is a single
// arrow function so playwright can pass arguments directly.

//go:embed scripts/discover.js
var DiscoverScript string

//go:embed scripts/extract.js
var ExtractScript string

//go:embed scripts/scan.js
var ScanScript string

//go:embed scripts/fill.js
var FillScript string
