// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package key

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
)

const (
	// Test private key - NOT for production use
	testHexKey  = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"
	testAddress = "0x71562b71999873DB5b286dF957af199Ec94617F7"
)

func TestNewSoftFromHex(t *testing.T) {
	t.Parallel()

	for _, in := range []string{testHexKey, "0x" + testHexKey, "  " + testHexKey + "\n"} {
		m, err := NewSoftFromHex(in)
		if err != nil {
			t.Fatal(err)
		}
		if m.Address() != common.HexToAddress(testAddress) {
			t.Fatalf("unexpected address %s, expected %s", m.Address().Hex(), testAddress)
		}
	}
}

func TestNewSoftFromHexErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want error
	}{
		{"", ErrEmptyPrivateKey},
		{"0x", ErrEmptyPrivateKey},
		{"abcd", ErrInvalidPrivateKeyLen},
		{strings.Repeat("z", 64), ErrInvalidPrivateKey},
	}
	for _, tt := range tests {
		if _, err := NewSoftFromHex(tt.in); !errors.Is(err, tt.want) {
			t.Fatalf("NewSoftFromHex(%q) = %v, expected %v", tt.in, err, tt.want)
		}
	}
}

func TestSignTx(t *testing.T) {
	t.Parallel()

	m, err := NewSoftFromHex(testHexKey)
	if err != nil {
		t.Fatal(err)
	}
	chainID := big.NewInt(4202)
	tx := types.NewContractCreation(0, big.NewInt(0), 500_000, big.NewInt(15), []byte{0x60, 0x80})

	signed, err := m.SignTx(tx, chainID)
	if err != nil {
		t.Fatal(err)
	}
	sender, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
	if err != nil {
		t.Fatal(err)
	}
	if sender != m.Address() {
		t.Fatalf("unexpected sender %s", sender.Hex())
	}
	if m.String() != m.Address().Hex() {
		t.Fatal("String must only expose the address")
	}
}
