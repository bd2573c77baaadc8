// Copyright (C) 2022, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package utils

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/luxfi/filesystem/perms"
)

// WriteJSON writes the provided interface to a JSON file, indented with two
// spaces. json.RawMessage values are re-indented the same way.
func WriteJSON(path string, v interface{}) error {
	contentBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.WriteFile(path, contentBytes, perms.ReadWrite); err != nil {
		return fmt.Errorf("failed to write JSON to %s: %w", path, err)
	}

	return nil
}
