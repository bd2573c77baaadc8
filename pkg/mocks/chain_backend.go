// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mocks

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	ethereum "github.com/luxfi/geth"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"

	"github.com/luxfi/simplestore/pkg/chain"
)

var errNotSupported = errors.New("not supported by mock backend")

// ChainBackend is an in-memory implementation of chain.Backend for testing.
// Sent transactions are recorded; when Mine is set each one is given a
// successful receipt and DeployedCode at its contract address.
type ChainBackend struct {
	BalanceVal      *big.Int
	BalanceErr      error
	BalanceDelay    time.Duration
	NonceVal        uint64
	NonceErr        error
	NonceDelay      time.Duration
	ChainIDVal      *big.Int
	ChainIDErr      error
	ChainIDDelay    time.Duration
	GasPriceVal     *big.Int
	GasPriceErr     error
	EstimateGasVal  uint64
	EstimateGasErr  error
	SendErr         error
	CallContractVal []byte
	CallContractErr error
	Mine            bool
	ReceiptStatus   uint64
	DeployedCode    []byte
	BlockNumberVal  uint64
	GasUsedVal      uint64

	mu       sync.Mutex
	Sent     []*types.Transaction
	receipts map[common.Hash]*types.Receipt
	code     map[common.Address][]byte
	calls    map[string]int
	closed   bool
}

// NewChainBackend returns a backend on chain 4202 that mines every
// transaction successfully.
func NewChainBackend() *ChainBackend {
	return &ChainBackend{
		BalanceVal:     big.NewInt(0),
		ChainIDVal:     big.NewInt(4202),
		Mine:           true,
		ReceiptStatus:  types.ReceiptStatusSuccessful,
		DeployedCode:   []byte{0x60, 0x80},
		BlockNumberVal: 1,
		GasUsedVal:     120_000,
	}
}

func (b *ChainBackend) record(method string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.calls == nil {
		b.calls = map[string]int{}
	}
	b.calls[method]++
}

// Calls returns how many times method was invoked.
func (b *ChainBackend) Calls(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method]
}

func (b *ChainBackend) SentTxs() []*types.Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*types.Transaction(nil), b.Sent...)
}

func (b *ChainBackend) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d == 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *ChainBackend) BalanceAt(ctx context.Context, _ common.Address, _ *big.Int) (*big.Int, error) {
	b.record("BalanceAt")
	if err := sleepCtx(ctx, b.BalanceDelay); err != nil {
		return nil, err
	}
	if b.BalanceErr != nil {
		return nil, b.BalanceErr
	}
	return new(big.Int).Set(b.BalanceVal), nil
}

func (b *ChainBackend) NonceAt(ctx context.Context, _ common.Address, _ *big.Int) (uint64, error) {
	b.record("NonceAt")
	if err := sleepCtx(ctx, b.NonceDelay); err != nil {
		return 0, err
	}
	return b.NonceVal, b.NonceErr
}

func (b *ChainBackend) PendingNonceAt(_ context.Context, _ common.Address) (uint64, error) {
	b.record("PendingNonceAt")
	return b.NonceVal, b.NonceErr
}

func (b *ChainBackend) ChainID(ctx context.Context) (*big.Int, error) {
	b.record("ChainID")
	if err := sleepCtx(ctx, b.ChainIDDelay); err != nil {
		return nil, err
	}
	if b.ChainIDErr != nil {
		return nil, b.ChainIDErr
	}
	return new(big.Int).Set(b.ChainIDVal), nil
}

func (b *ChainBackend) SuggestGasPrice(_ context.Context) (*big.Int, error) {
	b.record("SuggestGasPrice")
	return b.GasPriceVal, b.GasPriceErr
}

func (b *ChainBackend) SuggestGasTipCap(_ context.Context) (*big.Int, error) {
	b.record("SuggestGasTipCap")
	return b.GasPriceVal, b.GasPriceErr
}

func (b *ChainBackend) EstimateGas(_ context.Context, _ ethereum.CallMsg) (uint64, error) {
	b.record("EstimateGas")
	return b.EstimateGasVal, b.EstimateGasErr
}

func (b *ChainBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	b.record("SendTransaction")
	if b.SendErr != nil {
		return b.SendErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Sent = append(b.Sent, tx)
	if !b.Mine {
		return nil
	}
	from, err := types.Sender(types.LatestSignerForChainID(b.ChainIDVal), tx)
	if err != nil {
		return err
	}
	addr := common.CreateAddress(from, tx.Nonce())
	if b.receipts == nil {
		b.receipts = map[common.Hash]*types.Receipt{}
	}
	b.receipts[tx.Hash()] = &types.Receipt{
		Status:          b.ReceiptStatus,
		TxHash:          tx.Hash(),
		ContractAddress: addr,
		GasUsed:         b.GasUsedVal,
		BlockNumber:     new(big.Int).SetUint64(b.BlockNumberVal),
	}
	if b.ReceiptStatus == types.ReceiptStatusSuccessful && len(b.DeployedCode) > 0 {
		if b.code == nil {
			b.code = map[common.Address][]byte{}
		}
		b.code[addr] = b.DeployedCode
	}
	return nil
}

func (b *ChainBackend) TransactionReceipt(_ context.Context, txHash common.Hash) (*types.Receipt, error) {
	b.record("TransactionReceipt")
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.receipts[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return r, nil
}

func (b *ChainBackend) CodeAt(_ context.Context, account common.Address, _ *big.Int) ([]byte, error) {
	b.record("CodeAt")
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.code[account], nil
}

func (b *ChainBackend) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return b.CodeAt(ctx, account, nil)
}

func (b *ChainBackend) CallContract(_ context.Context, _ ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	b.record("CallContract")
	return b.CallContractVal, b.CallContractErr
}

func (b *ChainBackend) HeaderByNumber(_ context.Context, number *big.Int) (*types.Header, error) {
	b.record("HeaderByNumber")
	if number == nil {
		number = new(big.Int).SetUint64(b.BlockNumberVal)
	}
	return &types.Header{Number: number, BaseFee: b.GasPriceVal}, nil
}

func (b *ChainBackend) FilterLogs(_ context.Context, _ ethereum.FilterQuery) ([]types.Log, error) {
	return nil, errNotSupported
}

func (b *ChainBackend) SubscribeFilterLogs(_ context.Context, _ ethereum.FilterQuery, _ chan<- types.Log) (ethereum.Subscription, error) {
	return nil, errNotSupported
}

func (b *ChainBackend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

var _ chain.Backend = (*ChainBackend)(nil)
