// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package status

import (
	"context"
	"math/big"
	"time"

	"github.com/luxfi/geth/common"
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/simplestore/pkg/chain"
	"github.com/luxfi/simplestore/pkg/deployerr"
)

// Reader is the part of the RPC client the status query needs.
type Reader interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

// Service handles wallet status queries
type Service struct {
	reader  Reader
	rpcURL  string
	timeout time.Duration
}

// NewService returns a Service whose queries give up after timeout. A zero
// timeout leaves the reads bounded only by ctx.
func NewService(reader Reader, rpcURL string, timeout time.Duration) *Service {
	return &Service{
		reader:  reader,
		rpcURL:  rpcURL,
		timeout: timeout,
	}
}

// Query fetches balance, confirmed nonce and chain id concurrently. The first
// failure cancels the remaining reads.
func (s *Service) Query(ctx context.Context, addr common.Address) (*WalletStatus, error) {
	startTime := time.Now()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var (
		balance *big.Int
		nonce   uint64
		chainID *big.Int
	)
	errGroup, ctx := errgroup.WithContext(ctx)
	errGroup.Go(func() error {
		var err error
		balance, err = s.reader.BalanceAt(ctx, addr, nil)
		if err != nil {
			return deployerr.Wrap("fetch balance", err)
		}
		return nil
	})
	errGroup.Go(func() error {
		var err error
		nonce, err = s.reader.NonceAt(ctx, addr, nil)
		if err != nil {
			return deployerr.Wrap("fetch nonce", err)
		}
		return nil
	})
	errGroup.Go(func() error {
		var err error
		chainID, err = s.reader.ChainID(ctx)
		if err != nil {
			return deployerr.Wrap("fetch chain id", err)
		}
		return nil
	})
	if err := errGroup.Wait(); err != nil {
		return nil, err
	}

	return &WalletStatus{
		Address:   addr,
		Balance:   balance,
		Nonce:     nonce,
		ChainID:   chainID,
		Network:   chain.NetworkName(chainID),
		RPCURL:    s.rpcURL,
		Timestamp: time.Now(),
		Duration:  time.Since(startTime),
	}, nil
}
