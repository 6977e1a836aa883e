//go:build cgo && !purego
// +build cgo,!purego

package storage

// This file is compiled when building with CGO enabled.
//
// Build command:
//   CGO_ENABLED=1 go build ./...
//
// The CGO build provides:
//   - The battle-tested C SQLite implementation
//   - Faster query execution
//   - Recommended for production deployments
//
// Driver used: github.com/mattn/go-sqlite3

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration
	BuildMode = "cgo"
)
