// Package mcp provides an MCP (Model Context Protocol) server adapter for
// Inkwell. It lets AI assistants browse alerts, inspect versions and
// trigger analysis runs on the local manuscript.
package mcp

import "errors"

// ErrMissingAlertService is returned when the alert service is not provided.
var ErrMissingAlertService = errors.New("mcp: alert service is required")
