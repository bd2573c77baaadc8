// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package compiler drives solc through its standard-JSON interface.
package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"regexp"

	"golang.org/x/mod/semver"
)

var (
	ErrSolcNotFound    = errors.New("solc not found in PATH")
	ErrSolcTooOld      = errors.New("solc version is too old")
	ErrUnknownVersion  = errors.New("could not parse solc version")
	versionLineMatcher = regexp.MustCompile(`Version:\s*(\d+\.\d+\.\d+)`)
)

// Compiler turns a standard-JSON input into a parsed standard-JSON output.
type Compiler interface {
	Compile(ctx context.Context, in *Input) (*Output, error)
	Version(ctx context.Context) (string, error)
}

type runFunc func(ctx context.Context, name string, args []string, stdin []byte) ([]byte, error)

// Solc runs a local solc binary.
type Solc struct {
	path string
	run  runFunc
}

func NewSolc(path string) *Solc {
	return &Solc{
		path: path,
		run:  execRun,
	}
}

func execRun(ctx context.Context, name string, args []string, stdin []byte) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSolcNotFound, err)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("solc failed: %w\nOutput: %s", err, stderr.String())
	}
	return out, nil
}

// Compile runs solc --standard-json. Diagnostics are returned inside the
// Output; only a failure to run solc or to parse its answer is an error.
func (s *Solc) Compile(ctx context.Context, in *Input) (*Output, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshal solc input: %w", err)
	}
	raw, err := s.run(ctx, s.path, []string{"--standard-json"}, payload)
	if err != nil {
		return nil, err
	}
	return ParseOutput(raw)
}

// Version returns the semver of the solc binary, e.g. "v0.8.24".
func (s *Solc) Version(ctx context.Context) (string, error) {
	raw, err := s.run(ctx, s.path, []string{"--version"}, nil)
	if err != nil {
		return "", err
	}
	return parseVersion(raw)
}

func parseVersion(raw []byte) (string, error) {
	m := versionLineMatcher.FindSubmatch(raw)
	if m == nil {
		return "", ErrUnknownVersion
	}
	v := "v" + string(m[1])
	if !semver.IsValid(v) {
		return "", fmt.Errorf("%w: %s", ErrUnknownVersion, v)
	}
	return v, nil
}

// CheckVersion fails when version is older than minimum.
func CheckVersion(version, minimum string) error {
	if !semver.IsValid(version) {
		return fmt.Errorf("%w: %q", ErrUnknownVersion, version)
	}
	if semver.Compare(version, minimum) < 0 {
		return fmt.Errorf("%w: %s < %s", ErrSolcTooOld, version, minimum)
	}
	return nil
}

var _ Compiler = (*Solc)(nil)
