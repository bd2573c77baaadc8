// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package deployer submits a contract-creation transaction and follows it
// until it is mined.
package deployer

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	ethereum "github.com/luxfi/geth"
	"github.com/luxfi/geth/accounts/abi/bind"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
	luxlog "github.com/luxfi/log"
	"go.uber.org/zap"

	"github.com/luxfi/simplestore/pkg/chain"
	"github.com/luxfi/simplestore/pkg/compiler"
	"github.com/luxfi/simplestore/pkg/deployerr"
	"github.com/luxfi/simplestore/pkg/gasprice"
	"github.com/luxfi/simplestore/pkg/key"
)

var (
	ErrZeroBalance           = errors.New("account balance is zero")
	ErrConfirmationAbandoned = errors.New("stopped waiting for confirmation, the transaction may still be mined")
	ErrReverted              = errors.New("contract creation reverted")
	ErrNoCode                = errors.New("no code at contract address")
)

// Deployment is the handle of one contract-creation attempt.
type Deployment struct {
	From              common.Address
	Balance           *big.Int
	SuggestedGasPrice *big.Int
	GasPrice          *big.Int
	GasLimit          uint64
	Nonce             uint64
	ChainID           *big.Int
	TxHash            common.Hash
	ContractAddress   common.Address
	BlockNumber       *big.Int
	GasUsed           uint64
	State             State
}

type Config struct {
	Policy gasprice.Policy
	// ConfirmTimeout bounds the wait for a receipt. Zero waits forever.
	ConfirmTimeout time.Duration
}

// Observer is called synchronously on every state transition.
type Observer func(Deployment)

type Option func(*Deployer)

func WithObserver(o Observer) Option {
	return func(d *Deployer) {
		d.observer = o
	}
}

type Deployer struct {
	backend  chain.Backend
	signer   *key.SoftKey
	cfg      Config
	log      luxlog.Logger
	observer Observer
}

func New(backend chain.Backend, signer *key.SoftKey, cfg Config, log luxlog.Logger, opts ...Option) *Deployer {
	d := &Deployer{
		backend: backend,
		signer:  signer,
		cfg:     cfg,
		log:     log,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Deployer) transition(dep *Deployment, s State) {
	dep.State = s
	d.log.Debug("deployment state changed",
		zap.Stringer("state", s),
		zap.Stringer("txHash", dep.TxHash),
	)
	if d.observer != nil {
		d.observer(*dep)
	}
}

// Deploy submits exactly one contract-creation transaction carrying art's
// bytecode and waits for it to be mined. A non-nil Deployment is returned
// whenever a transaction was broadcast, even on error.
func (d *Deployer) Deploy(ctx context.Context, art *compiler.Artifact) (*Deployment, error) {
	from := d.signer.Address()
	dep := &Deployment{From: from, State: Unsubmitted}

	balance, err := d.backend.BalanceAt(ctx, from, nil)
	if err != nil {
		return nil, deployerr.Wrap("fetch balance", err)
	}
	dep.Balance = balance
	if balance.Sign() == 0 {
		return nil, deployerr.New(deployerr.KindPrecondition, "check balance",
			fmt.Errorf("%w for %s", ErrZeroBalance, from.Hex()))
	}

	suggested, err := d.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, deployerr.New(deployerr.KindPrecondition, "estimate gas price",
			fmt.Errorf("%w: %w", gasprice.ErrNoFeeEstimate, err))
	}
	params, err := d.cfg.Policy.Params(suggested)
	if err != nil {
		return nil, deployerr.New(deployerr.KindPrecondition, "estimate gas price", err)
	}
	dep.SuggestedGasPrice = params.SuggestedGasPrice
	dep.GasPrice = params.GasPrice

	chainID, err := d.backend.ChainID(ctx)
	if err != nil {
		return nil, deployerr.Wrap("fetch chain id", err)
	}
	dep.ChainID = chainID

	nonce, err := d.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, deployerr.Wrap("fetch nonce", err)
	}
	dep.Nonce = nonce

	gasLimit := params.GasLimit
	if gasLimit == 0 {
		gasLimit, err = d.backend.EstimateGas(ctx, ethereum.CallMsg{
			From:     from,
			GasPrice: params.GasPrice,
			Data:     art.Bytecode,
		})
		if err != nil {
			return nil, estimateGasErr(err)
		}
	}
	dep.GasLimit = gasLimit
	d.transition(dep, Unsubmitted)

	tx := types.NewContractCreation(nonce, big.NewInt(0), gasLimit, params.GasPrice, art.Bytecode)
	signed, err := d.signer.SignTx(tx, chainID)
	if err != nil {
		return nil, deployerr.Wrap("sign transaction", err)
	}

	d.log.Info("submitting contract creation",
		zap.String("from", from.Hex()),
		zap.Uint64("nonce", nonce),
		zap.Stringer("gasPrice", params.GasPrice),
		zap.Uint64("gasLimit", gasLimit),
	)
	if err := d.backend.SendTransaction(ctx, signed); err != nil {
		return nil, deployerr.Wrap("broadcast transaction", err)
	}
	dep.TxHash = signed.Hash()
	d.transition(dep, Broadcast)
	d.transition(dep, Pending)

	receipt, err := d.waitMined(ctx, signed)
	if err != nil {
		if errors.Is(err, ErrConfirmationAbandoned) {
			d.log.Warn("abandoned confirmation wait",
				zap.Stringer("txHash", dep.TxHash),
				zap.Duration("timeout", d.cfg.ConfirmTimeout),
			)
			d.transition(dep, Abandoned)
			return dep, deployerr.New(deployerr.KindUnknown, "wait for confirmation", err).WithTx(dep.TxHash)
		}
		return dep, deployerr.Wrap("wait for confirmation", err).WithTx(dep.TxHash)
	}
	dep.BlockNumber = receipt.BlockNumber
	dep.GasUsed = receipt.GasUsed
	dep.ContractAddress = receipt.ContractAddress

	if receipt.Status != types.ReceiptStatusSuccessful {
		return dep, deployerr.New(deployerr.KindUnknown, "confirm deployment", ErrReverted).WithTx(dep.TxHash)
	}
	code, err := d.backend.CodeAt(ctx, receipt.ContractAddress, nil)
	if err != nil {
		return dep, deployerr.Wrap("fetch contract code", err).WithTx(dep.TxHash)
	}
	if len(code) == 0 {
		return dep, deployerr.New(deployerr.KindUnknown, "confirm deployment",
			fmt.Errorf("%w %s", ErrNoCode, receipt.ContractAddress.Hex())).WithTx(dep.TxHash)
	}
	d.transition(dep, Confirmed)
	d.log.Info("contract deployed",
		zap.String("address", dep.ContractAddress.Hex()),
		zap.Stringer("block", dep.BlockNumber),
		zap.Uint64("gasUsed", dep.GasUsed),
	)
	return dep, nil
}

// estimateGasErr keeps the category of a node rejection (funds, nonce,
// transport) and treats anything else as a failed precondition.
func estimateGasErr(err error) error {
	if deployerr.Classify(err) == deployerr.KindUnknown {
		return deployerr.New(deployerr.KindPrecondition, "estimate gas limit", err)
	}
	return deployerr.Wrap("estimate gas limit", err)
}

func (d *Deployer) waitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	if d.cfg.ConfirmTimeout <= 0 {
		return bind.WaitMined(ctx, d.backend, tx)
	}
	waitCtx, cancel := context.WithTimeout(ctx, d.cfg.ConfirmTimeout)
	defer cancel()
	receipt, err := bind.WaitMined(waitCtx, d.backend, tx)
	if err != nil && ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w after %s", ErrConfirmationAbandoned, d.cfg.ConfirmTimeout)
	}
	return receipt, err
}
