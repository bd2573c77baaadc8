// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compiler

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/luxfi/simplestore/pkg/utils"
)

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

var (
	ErrContractNotFound = errors.New("contract not found in compiler output")
	ErrEmptyBytecode    = errors.New("contract has no deployable bytecode")
	ErrUnlinked         = errors.New("bytecode references unlinked libraries")
)

// Input is the solc standard-JSON request.
type Input struct {
	Language string            `json:"language"`
	Sources  map[string]Source `json:"sources"`
	Settings Settings          `json:"settings"`
}

type Source struct {
	Content string `json:"content"`
}

type Settings struct {
	OutputSelection map[string]map[string][]string `json:"outputSelection"`
}

// NewInput builds a request for a single source file asking for every
// output facet.
func NewInput(fileName string, content []byte) *Input {
	return &Input{
		Language: "Solidity",
		Sources: map[string]Source{
			fileName: {Content: string(content)},
		},
		Settings: Settings{
			OutputSelection: map[string]map[string][]string{
				"*": {"*": {"*"}},
			},
		},
	}
}

type SourceLocation struct {
	File  string `json:"file"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

type Diagnostic struct {
	Severity         string          `json:"severity"`
	Type             string          `json:"type"`
	Component        string          `json:"component"`
	Message          string          `json:"message"`
	FormattedMessage string          `json:"formattedMessage"`
	SourceLocation   *SourceLocation `json:"sourceLocation,omitempty"`
}

func (d Diagnostic) String() string {
	if d.FormattedMessage != "" {
		return strings.TrimSpace(d.FormattedMessage)
	}
	if d.SourceLocation != nil {
		return fmt.Sprintf("%s:%d: %s: %s", d.SourceLocation.File, d.SourceLocation.Start, d.Type, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Type, d.Message)
}

type Bytecode struct {
	Object string `json:"object"`
}

type EVM struct {
	Bytecode Bytecode `json:"bytecode"`
}

type Contract struct {
	ABI json.RawMessage `json:"abi"`
	EVM EVM             `json:"evm"`
}

// Output is the subset of the solc standard-JSON answer this tool reads.
type Output struct {
	Errors    []Diagnostic                   `json:"errors"`
	Contracts map[string]map[string]Contract `json:"contracts"`
}

func ParseOutput(raw []byte) (*Output, error) {
	var out Output
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal solc output: %w", err)
	}
	return &out, nil
}

// CompileError lists the error-severity diagnostics of a compilation.
type CompileError struct {
	Diagnostics []Diagnostic
}

func (e *CompileError) Error() string {
	msgs := make([]string, 0, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		msgs = append(msgs, d.String())
	}
	return fmt.Sprintf("compilation failed with %d error(s):\n%s", len(e.Diagnostics), strings.Join(msgs, "\n"))
}

// Err returns a *CompileError if any diagnostic has error severity.
// Warnings never fail a compilation.
func (o *Output) Err() error {
	var fatal []Diagnostic
	for _, d := range o.Errors {
		if d.Severity == SeverityError {
			fatal = append(fatal, d)
		}
	}
	if len(fatal) == 0 {
		return nil
	}
	return &CompileError{Diagnostics: fatal}
}

// Warnings returns the non-fatal diagnostics.
func (o *Output) Warnings() []Diagnostic {
	var warnings []Diagnostic
	for _, d := range o.Errors {
		if d.Severity != SeverityError {
			warnings = append(warnings, d)
		}
	}
	return warnings
}

// Artifact is the deployable result for one contract.
type Artifact struct {
	Name     string
	ABI      json.RawMessage
	Bytecode []byte
}

// Artifact looks up contract name in source file fileName.
func (o *Output) Artifact(fileName, name string) (*Artifact, error) {
	contract, ok := o.Contracts[fileName][name]
	if !ok {
		return nil, fmt.Errorf("%w: %s:%s", ErrContractNotFound, fileName, name)
	}
	object := strings.TrimPrefix(contract.EVM.Bytecode.Object, "0x")
	if object == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyBytecode, name)
	}
	if strings.Contains(object, "__") {
		return nil, fmt.Errorf("%w: %s", ErrUnlinked, name)
	}
	code, err := hex.DecodeString(object)
	if err != nil {
		return nil, fmt.Errorf("decode bytecode of %s: %w", name, err)
	}
	return &Artifact{
		Name:     name,
		ABI:      contract.ABI,
		Bytecode: code,
	}, nil
}

// WriteABI persists the interface description as indented JSON.
func (a *Artifact) WriteABI(path string) error {
	return utils.WriteJSON(path, a.ABI)
}
