// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package key

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
)

var (
	ErrEmptyPrivateKey      = errors.New("private key is empty")
	ErrInvalidPrivateKey    = errors.New("invalid private key")
	ErrInvalidPrivateKeyLen = errors.New("invalid private key length (expect 64 characters in hex)")
)

// SoftKey is an in-memory secp256k1 signing key and the account it controls.
type SoftKey struct {
	privKey *ecdsa.PrivateKey
	address common.Address
}

// NewSoftFromHex parses a hex-encoded private key, with or without the 0x
// prefix.
func NewSoftFromHex(hexKey string) (*SoftKey, error) {
	hexKey = strings.TrimSpace(hexKey)
	hexKey = strings.TrimPrefix(strings.TrimPrefix(hexKey, "0x"), "0X")
	if hexKey == "" {
		return nil, ErrEmptyPrivateKey
	}
	if len(hexKey) != 64 {
		return nil, ErrInvalidPrivateKeyLen
	}
	privKey, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	return NewSoft(privKey), nil
}

func NewSoft(privKey *ecdsa.PrivateKey) *SoftKey {
	return &SoftKey{
		privKey: privKey,
		address: common.PubkeyToAddress(privKey.PublicKey),
	}
}

// Address returns the account address derived from the key.
func (m *SoftKey) Address() common.Address {
	return m.address
}

// SignTx signs tx for chainID with the latest signer the chain supports.
func (m *SoftKey) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), m.privKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign tx: %w", err)
	}
	return signed, nil
}

// String never exposes the private key.
func (m *SoftKey) String() string {
	return m.address.Hex()
}
