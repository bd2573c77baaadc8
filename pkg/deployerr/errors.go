// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package deployerr defines the closed set of failure categories reported by
// the deploy and status commands, and maps client errors onto them.
package deployerr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core"
	"github.com/luxfi/geth/rpc"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindConfig
	KindCompile
	KindPrecondition
	KindInsufficientFunds
	KindNonceConflict
	KindRPCUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindCompile:
		return "compile-error"
	case KindPrecondition:
		return "precondition-failed"
	case KindInsufficientFunds:
		return "insufficient-funds"
	case KindNonceConflict:
		return "nonce-conflict"
	case KindRPCUnavailable:
		return "rpc-unavailable"
	default:
		return "unknown"
	}
}

// Error attaches a Kind and the failing operation to an underlying error.
type Error struct {
	Kind   Kind
	Op     string
	TxHash *common.Hash
	Err    error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.TxHash != nil {
		msg += fmt.Sprintf(" (txHash=%s)", e.TxHash.Hex())
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err with an explicit kind.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Wrap wraps err, deriving the kind from the error itself.
func Wrap(op string, err error) *Error {
	return &Error{Kind: Classify(err), Op: op, Err: err}
}

// WithTx records the hash of an already broadcast transaction.
func (e *Error) WithTx(hash common.Hash) *Error {
	e.TxHash = &hash
	return e
}

var (
	insufficientFundsErrs = []error{
		core.ErrInsufficientFunds,
		core.ErrInsufficientFundsForTransfer,
	}
	nonceErrs = []error{
		core.ErrNonceTooLow,
		core.ErrNonceTooHigh,
	}
)

// Classify maps err onto a Kind. Errors already carrying a Kind keep it;
// otherwise the chain sentinels, JSON-RPC error objects and transport errors
// are inspected in that order.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var de *Error
	if errors.As(err, &de) && de.Kind != KindUnknown {
		return de.Kind
	}
	if isAny(err, insufficientFundsErrs) {
		return KindInsufficientFunds
	}
	if isAny(err, nonceErrs) {
		return KindNonceConflict
	}
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		if kind, ok := kindOfRPCError(rpcErr); ok {
			return kind
		}
	}
	if isTransportErr(err) {
		return KindRPCUnavailable
	}
	return KindUnknown
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// the node serializes txpool rejections as an error object whose message
// starts with the canonical text of the sentinel it wrapped
func kindOfRPCError(rpcErr rpc.Error) (Kind, bool) {
	msg := rpcErr.Error()
	for _, target := range insufficientFundsErrs {
		if strings.HasPrefix(msg, target.Error()) {
			return KindInsufficientFunds, true
		}
	}
	for _, target := range nonceErrs {
		if strings.HasPrefix(msg, target.Error()) {
			return KindNonceConflict, true
		}
	}
	return KindUnknown, false
}

func isTransportErr(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Remedy returns a suggested operator action for kind, or "" if none applies.
func Remedy(kind Kind, faucetURL string) string {
	switch kind {
	case KindInsufficientFunds:
		return fmt.Sprintf("Claim test funds from the faucet: %s", faucetURL)
	case KindNonceConflict:
		return "Wait for the previous transaction from this account to be mined, or reset the account nonce in your wallet"
	case KindRPCUnavailable:
		return "Check the RPC endpoint and your network connection"
	case KindConfig:
		return "Check the flags, environment (.env) and config file values named above"
	default:
		return ""
	}
}
