// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package deployer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/luxfi/geth/accounts/abi"
	"github.com/luxfi/geth/accounts/abi/bind"
	"github.com/luxfi/geth/common"
	"go.uber.org/zap"
)

var (
	ErrMethodNotFound  = errors.New("method not found in ABI")
	ErrMethodHasInputs = errors.New("read check method must take no arguments")
)

// ReadCheck calls the no-argument view method on the deployed contract and
// returns its outputs formatted as text.
func (d *Deployer) ReadCheck(ctx context.Context, addr common.Address, abiJSON []byte, method string) (string, error) {
	parsed, err := abi.JSON(bytes.NewReader(abiJSON))
	if err != nil {
		return "", fmt.Errorf("failed to parse ABI: %w", err)
	}
	m, ok := parsed.Methods[method]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMethodNotFound, method)
	}
	if len(m.Inputs) > 0 {
		return "", fmt.Errorf("%w: %s", ErrMethodHasInputs, m.Sig)
	}

	contract := bind.NewBoundContract(addr, parsed, d.backend, d.backend, d.backend)
	var out []interface{}
	if err := contract.Call(&bind.CallOpts{Context: ctx}, &out, method); err != nil {
		return "", fmt.Errorf("failed to call %s: %w", method, err)
	}
	vals := make([]string, 0, len(out))
	for _, v := range out {
		vals = append(vals, fmt.Sprint(v))
	}
	result := strings.Join(vals, ", ")
	d.log.Info("read check", zap.String("method", method), zap.String("result", result))
	return result, nil
}
