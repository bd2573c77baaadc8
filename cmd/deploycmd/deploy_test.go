// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package deploycmd

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core"
	luxlog "github.com/luxfi/log"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/simplestore/pkg/chain"
	"github.com/luxfi/simplestore/pkg/compiler"
	"github.com/luxfi/simplestore/pkg/config"
	"github.com/luxfi/simplestore/pkg/constants"
	"github.com/luxfi/simplestore/pkg/deployer"
	"github.com/luxfi/simplestore/pkg/deployerr"
	"github.com/luxfi/simplestore/pkg/gasprice"
	"github.com/luxfi/simplestore/pkg/mocks"
	"github.com/luxfi/simplestore/pkg/ux"
)

const (
	testHexKey = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"
	getNumber  = `[{"inputs":[],"name":"getNumber","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}]`
)

type harness struct {
	cfg      *config.Config
	compiler *mocks.Compiler
	backend  *mocks.ChainBackend
	dials    int
	out      bytes.Buffer

	warnAfter time.Duration
}

func newHarness(t *testing.T) *harness {
	dir := t.TempDir()
	source := filepath.Join(dir, constants.DefaultSourceFile)
	require.NoError(t, os.WriteFile(source, []byte("contract SimpleStore {}"), 0o600))

	backend := mocks.NewChainBackend()
	backend.BalanceVal = big.NewInt(1)
	backend.GasPriceVal = big.NewInt(10)
	backend.CallContractVal = common.LeftPadBytes(big.NewInt(0).Bytes(), 32)

	return &harness{
		cfg: &config.Config{
			RPCURL:      constants.DefaultRPCURL,
			PrivateKey:  testHexKey,
			ExplorerURL: constants.DefaultExplorerURL,
			FaucetURL:   constants.DefaultFaucetURL,
			Source:      source,
			Contract:    constants.DefaultContractName,
			Artifact:    filepath.Join(dir, constants.DefaultArtifactFile),
			GasProfile:  gasprice.ProfileAggressive,
			ReadMethod:  constants.DefaultReadMethod,
		},
		compiler: &mocks.Compiler{
			CompileVal: &compiler.Output{
				Contracts: map[string]map[string]compiler.Contract{
					constants.DefaultSourceFile: {
						constants.DefaultContractName: {
							ABI: []byte(getNumber),
							EVM: compiler.EVM{Bytecode: compiler.Bytecode{Object: "6080604052"}},
						},
					},
				},
			},
		},
		backend: backend,
	}
}

func (h *harness) run() (*deployer.Deployment, error) {
	return Run(context.Background(), h.cfg, Deps{
		Compiler: h.compiler,
		Dial: func(context.Context, string) (chain.Backend, error) {
			h.dials++
			return h.backend, nil
		},
		Log:       luxlog.NewNoOpLogger(),
		Out:       ux.New(luxlog.NewNoOpLogger(), &h.out),
		WarnAfter: h.warnAfter,
	})
}

func TestRunDeploysAndChecks(t *testing.T) {
	h := newHarness(t)

	dep, err := h.run()
	require.NoError(t, err)
	require.Equal(t, deployer.Confirmed, dep.State)
	require.Equal(t, 1, h.dials)
	require.True(t, h.backend.Closed())

	sent := h.backend.SentTxs()
	require.Len(t, sent, 1)
	require.Equal(t, big.NewInt(15), sent[0].GasPrice())
	require.Equal(t, uint64(500_000), sent[0].Gas())

	abi, err := os.ReadFile(h.cfg.Artifact)
	require.NoError(t, err)
	require.Contains(t, string(abi), `"name": "getNumber"`)

	out := h.out.String()
	require.Contains(t, out, "https://sepolia-blockscout.lisk.com/tx/"+dep.TxHash.Hex())
	require.Contains(t, out, "https://sepolia-blockscout.lisk.com/address/"+dep.ContractAddress.Hex())
	require.Contains(t, out, "Using gas price:     0.000000015 gwei")
	require.Contains(t, out, "getNumber() returns: 0")
	require.Contains(t, out, "Next steps")
}

func TestRunMissingKeyTouchesNothing(t *testing.T) {
	h := newHarness(t)
	h.cfg.PrivateKey = ""

	_, err := h.run()
	require.ErrorIs(t, err, constants.ErrNoPrivateKey)
	require.Equal(t, deployerr.KindConfig, deployerr.Classify(err))
	require.Zero(t, h.dials)
	require.Zero(t, h.compiler.CompileCalls)
	require.NoFileExists(t, h.cfg.Artifact)
}

func TestRunCompileErrorWritesNothing(t *testing.T) {
	h := newHarness(t)
	h.compiler.CompileVal = &compiler.Output{Errors: []compiler.Diagnostic{
		{Severity: compiler.SeverityError, Type: "ParserError", Message: "Expected ';'"},
	}}

	_, err := h.run()
	var compileErr *compiler.CompileError
	require.True(t, errors.As(err, &compileErr))
	require.Equal(t, deployerr.KindCompile, deployerr.Classify(err))
	require.Zero(t, h.dials)
	require.NoFileExists(t, h.cfg.Artifact)
}

func TestRunOldSolc(t *testing.T) {
	h := newHarness(t)
	h.compiler.VersionVal = "v0.7.6"

	_, err := h.run()
	require.ErrorIs(t, err, compiler.ErrSolcTooOld)
	require.Zero(t, h.compiler.CompileCalls)
}

func TestRunZeroBalance(t *testing.T) {
	h := newHarness(t)
	h.backend.BalanceVal = big.NewInt(0)

	_, err := h.run()
	require.ErrorIs(t, err, deployer.ErrZeroBalance)
	require.Equal(t, deployerr.KindPrecondition, deployerr.Classify(err))
	require.Empty(t, h.backend.SentTxs())
	require.Contains(t, h.out.String(), constants.DefaultFaucetURL)
}

func TestRunMissingFeeEstimate(t *testing.T) {
	h := newHarness(t)
	h.backend.GasPriceVal = big.NewInt(0)

	_, err := h.run()
	require.ErrorIs(t, err, gasprice.ErrNoFeeEstimate)
	require.Empty(t, h.backend.SentTxs())
}

func TestRunReadCheckFailureIsWarning(t *testing.T) {
	h := newHarness(t)
	h.backend.CallContractErr = errors.New("execution reverted")

	dep, err := h.run()
	require.NoError(t, err)
	require.Equal(t, deployer.Confirmed, dep.State)
	require.Contains(t, h.out.String(), "read check failed")
}

func TestRunSkipReadCheck(t *testing.T) {
	h := newHarness(t)
	h.cfg.SkipReadCheck = true

	_, err := h.run()
	require.NoError(t, err)
	require.Zero(t, h.backend.Calls("CallContract"))
}

func TestRunRejectedSendShowsParameters(t *testing.T) {
	h := newHarness(t)
	h.backend.SendErr = core.ErrInsufficientFunds

	_, err := h.run()
	require.Equal(t, deployerr.KindInsufficientFunds, deployerr.Classify(err))

	out := h.out.String()
	require.Contains(t, out, "Balance:             0.000000000000000001 ETH")
	require.Contains(t, out, "Using gas price:     0.000000015 gwei")
	require.NotContains(t, out, "Transaction sent")
}

func TestRunWarnsOnSlowConfirmation(t *testing.T) {
	h := newHarness(t)
	h.backend.Mine = false
	h.cfg.ConfirmTimeout = 200 * time.Millisecond
	h.warnAfter = 10 * time.Millisecond

	dep, err := h.run()
	require.ErrorIs(t, err, deployer.ErrConfirmationAbandoned)
	require.Equal(t, deployer.Abandoned, dep.State)

	out := h.out.String()
	require.Contains(t, out, "Waiting for confirmation taking longer than expected")
	require.Contains(t, out, "FAILED: confirmation deadline elapsed")
	require.Contains(t, out, "/tx/"+dep.TxHash.Hex())
}
