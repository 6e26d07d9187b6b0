package server

import _ "embed"

// indexHTML is the single-page simulator UI.
//
//go:embed static/index.html
var indexHTML []byte
