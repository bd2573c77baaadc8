// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mocks

import (
	"context"

	"github.com/luxfi/simplestore/pkg/compiler"
)

// Compiler is a mock implementation of compiler.Compiler for testing
type Compiler struct {
	CompileVal   *compiler.Output
	CompileErr   error
	VersionVal   string
	VersionErr   error
	CompileCalls int
	LastInput    *compiler.Input
}

func (c *Compiler) Compile(_ context.Context, in *compiler.Input) (*compiler.Output, error) {
	c.CompileCalls++
	c.LastInput = in
	return c.CompileVal, c.CompileErr
}

func (c *Compiler) Version(_ context.Context) (string, error) {
	if c.VersionVal == "" && c.VersionErr == nil {
		return "v0.8.24", nil
	}
	return c.VersionVal, c.VersionErr
}

var _ compiler.Compiler = (*Compiler)(nil)
