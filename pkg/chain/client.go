// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/luxfi/geth/accounts/abi/bind"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/ethclient"

	"github.com/luxfi/simplestore/pkg/constants"
)

// Backend is the JSON-RPC surface used by the deploy and status commands.
// *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend

	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error)
	ChainID(ctx context.Context) (*big.Int, error)
	Close()
}

// DialFunc opens one client connection for the lifetime of a command.
type DialFunc func(ctx context.Context, url string) (Backend, error)

// Dial connects to the EVM JSON-RPC endpoint at url.
func Dial(ctx context.Context, url string) (Backend, error) {
	if url == "" {
		return nil, constants.ErrNoRPCURL
	}
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial EVM RPC %s: %w", url, err)
	}
	return client, nil
}

var _ Backend = (*ethclient.Client)(nil)

var networkNames = map[uint64]string{
	1:        "mainnet",
	1135:     "lisk",
	4202:     "lisk-sepolia",
	11155111: "sepolia",
}

// NetworkName returns a human name for chainID, or "unknown".
func NetworkName(chainID *big.Int) string {
	if chainID == nil || !chainID.IsUint64() {
		return "unknown"
	}
	if name, ok := networkNames[chainID.Uint64()]; ok {
		return name
	}
	return "unknown"
}
