// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package status

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/luxfi/simplestore/pkg/utils"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var ErrUnknownFormat = errors.New("unknown output format")

// Formatter handles formatting of status output
type Formatter struct {
	writer io.Writer
}

func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// Format renders s in the named format.
func (f *Formatter) Format(s *WalletStatus, format string) error {
	switch strings.ToLower(format) {
	case "", FormatText:
		return f.FormatText(s)
	case FormatJSON:
		return f.FormatJSON(s)
	case FormatYAML:
		return f.FormatYAML(s)
	default:
		return fmt.Errorf("%w %q (expected %s, %s or %s)", ErrUnknownFormat, format, FormatText, FormatJSON, FormatYAML)
	}
}

func (f *Formatter) FormatText(s *WalletStatus) error {
	table := tablewriter.NewWriter(f.writer)
	table.Header("Field", "Value")
	rows := [][]string{
		{"Address", s.Address.Hex()},
		{"Balance", fmt.Sprintf("%s ETH", utils.FormatEther(s.Balance))},
		{"Nonce", fmt.Sprintf("%d", s.Nonce)},
		{"Chain ID", fmt.Sprintf("%s (%s)", s.ChainID, s.Network)},
	}
	if s.RPCURL != "" {
		rows = append(rows, []string{"RPC URL", s.RPCURL})
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// FormatJSON outputs the status as JSON
func (f *Formatter) FormatJSON(s *WalletStatus) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(s.View())
}

// FormatYAML outputs the status as YAML
func (f *Formatter) FormatYAML(s *WalletStatus) error {
	encoder := yaml.NewEncoder(f.writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(s.View()); err != nil {
		return err
	}
	return encoder.Close()
}
