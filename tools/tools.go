//go:build tools

// Package tools pins development tool dependencies so `go mod tidy` keeps
// them in go.mod.
package tools

import (
	_ "github.com/golangci/golangci-lint/v2/cmd/golangci-lint"
	_ "gotest.tools/gotestsum"
)
