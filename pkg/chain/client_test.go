// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package chain

import (
	"context"
	"math/big"
	"testing"

	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/simplestore/pkg/constants"
)

func TestNetworkName(t *testing.T) {
	require.Equal(t, "lisk-sepolia", NetworkName(big.NewInt(4202)))
	require.Equal(t, "sepolia", NetworkName(big.NewInt(11155111)))
	require.Equal(t, "unknown", NetworkName(big.NewInt(31337)))
	require.Equal(t, "unknown", NetworkName(nil))
}

func TestDialRequiresURL(t *testing.T) {
	_, err := Dial(context.Background(), "")
	require.ErrorIs(t, err, constants.ErrNoRPCURL)
}

func TestExplorer(t *testing.T) {
	e := Explorer("https://sepolia-blockscout.lisk.com/")
	hash := common.HexToHash("0x01")
	addr := common.HexToAddress("0x71562b71999873DB5b286dF957af199Ec94617F7")

	require.Equal(t, "https://sepolia-blockscout.lisk.com/tx/"+hash.Hex(), e.TxURL(hash))
	require.Equal(t, "https://sepolia-blockscout.lisk.com/address/0x71562b71999873DB5b286dF957af199Ec94617F7", e.AddressURL(addr))
	require.Empty(t, Explorer("").TxURL(hash))
}
