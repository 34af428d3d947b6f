//go:build tools

package main

// Tool dependencies pinned in go.mod. gotestsum runs the rule suites,
// go-jsonschema generates loader/generated from schemas/case-file.json.

//go:generate go install gotest.tools/gotestsum
//go:generate go install github.com/atombender/go-jsonschema

import (
	_ "github.com/atombender/go-jsonschema"
	_ "gotest.tools/gotestsum"
)
