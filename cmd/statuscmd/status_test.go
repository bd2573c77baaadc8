// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package statuscmd

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"syscall"
	"testing"

	luxlog "github.com/luxfi/log"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/simplestore/pkg/chain"
	"github.com/luxfi/simplestore/pkg/config"
	"github.com/luxfi/simplestore/pkg/constants"
	"github.com/luxfi/simplestore/pkg/deployerr"
	"github.com/luxfi/simplestore/pkg/mocks"
	"github.com/luxfi/simplestore/pkg/status"
	"github.com/luxfi/simplestore/pkg/ux"
)

const testHexKey = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"

func run(t *testing.T, cfg *config.Config, backend *mocks.ChainBackend, out *bytes.Buffer) (*status.WalletStatus, int, error) {
	t.Helper()
	dials := 0
	s, err := Run(context.Background(), cfg, Deps{
		Dial: func(context.Context, string) (chain.Backend, error) {
			dials++
			return backend, nil
		},
		Log: luxlog.NewNoOpLogger(),
		Out: ux.New(luxlog.NewNoOpLogger(), out),
	})
	return s, dials, err
}

func testConfig(output string) *config.Config {
	return &config.Config{
		RPCURL:      constants.DefaultRPCURL,
		PrivateKey:  testHexKey,
		ExplorerURL: constants.DefaultExplorerURL,
		FaucetURL:   constants.DefaultFaucetURL,
		Output:      output,
	}
}

func TestRunText(t *testing.T) {
	backend := mocks.NewChainBackend()
	backend.BalanceVal, _ = new(big.Int).SetString("2500000000000000000", 10)
	backend.NonceVal = 3

	var out bytes.Buffer
	s, dials, err := run(t, testConfig("text"), backend, &out)
	require.NoError(t, err)
	require.Equal(t, 1, dials)
	require.Equal(t, uint64(3), s.Nonce)
	require.True(t, backend.Closed())

	text := out.String()
	require.Contains(t, text, "0x71562b71999873DB5b286dF957af199Ec94617F7")
	require.Contains(t, text, "2.5 ETH")
	require.Contains(t, text, "4202 (lisk-sepolia)")
	require.NotContains(t, text, "Claim test funds")
}

func TestRunJSONIsMachineReadable(t *testing.T) {
	backend := mocks.NewChainBackend()

	var out bytes.Buffer
	_, _, err := run(t, testConfig("json"), backend, &out)
	require.NoError(t, err)

	var view status.WalletView
	require.NoError(t, json.Unmarshal(out.Bytes(), &view))
	require.Equal(t, "0.0", view.Balance)
	require.Equal(t, "lisk-sepolia", view.Network)
}

func TestRunMissingKeyNeverDials(t *testing.T) {
	cfg := testConfig("text")
	cfg.PrivateKey = ""

	var out bytes.Buffer
	_, dials, err := run(t, cfg, mocks.NewChainBackend(), &out)
	require.ErrorIs(t, err, constants.ErrNoPrivateKey)
	require.Zero(t, dials)
}

func TestRunUnknownFormat(t *testing.T) {
	var out bytes.Buffer
	_, dials, err := run(t, testConfig("xml"), mocks.NewChainBackend(), &out)
	require.ErrorIs(t, err, status.ErrUnknownFormat)
	require.Equal(t, deployerr.KindConfig, deployerr.Classify(err))
	require.Zero(t, dials)
}

func TestRunRPCFailure(t *testing.T) {
	backend := mocks.NewChainBackend()
	backend.ChainIDErr = syscall.ECONNREFUSED

	var out bytes.Buffer
	_, _, err := run(t, testConfig("text"), backend, &out)
	require.Equal(t, deployerr.KindRPCUnavailable, deployerr.Classify(err))
}
