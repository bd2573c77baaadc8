// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package deploycmd compiles SimpleStore.sol and deploys it.
package deploycmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	luxlog "github.com/luxfi/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/luxfi/simplestore/pkg/application"
	"github.com/luxfi/simplestore/pkg/chain"
	"github.com/luxfi/simplestore/pkg/compiler"
	"github.com/luxfi/simplestore/pkg/config"
	"github.com/luxfi/simplestore/pkg/constants"
	"github.com/luxfi/simplestore/pkg/deployer"
	"github.com/luxfi/simplestore/pkg/deployerr"
	"github.com/luxfi/simplestore/pkg/ux"
)

var app *application.SimpleStore

// Deps are the collaborators of one deploy run.
type Deps struct {
	Compiler compiler.Compiler
	Dial     chain.DialFunc
	Log      luxlog.Logger
	Out      *ux.UserLog

	// WarnAfter is how long a step may run before the user is warned.
	// Zero means constants.ConfirmWarnAfter.
	WarnAfter time.Duration
}

// simplestore deploy
func NewCmd(injectedApp *application.SimpleStore) *cobra.Command {
	app = injectedApp
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Compile and deploy the SimpleStore contract",
		Long: `Compiles the Solidity source with solc, writes the ABI next to it and
deploys the contract with a single transaction. The deploying account must
hold a non-zero balance.

The transaction pays the network's suggested gas price scaled by the gas
profile: "aggressive" (default) pays 150% with a 500000 gas limit,
"standard" pays the suggested price and lets the network estimate the limit.`,
		Args: cobra.NoArgs,
		RunE: deployContract,
	}
	config.AddDeployFlags(cmd.Flags())
	return cmd
}

func deployContract(cmd *cobra.Command, _ []string) error {
	cfg := config.Load(viper.GetViper())
	_, err := Run(cmd.Context(), cfg, Deps{
		Compiler: compiler.NewSolc(cfg.Solc),
		Dial:     chain.Dial,
		Log:      app.Log,
		Out:      ux.Logger,
	})
	return err
}

// Run compiles, deploys and checks the contract described by cfg. The
// credential is validated before anything else, and nothing is written or
// dialed when compilation fails.
func Run(ctx context.Context, cfg *config.Config, deps Deps) (*deployer.Deployment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	signer, err := cfg.Signer()
	if err != nil {
		return nil, err
	}
	policy, err := cfg.GasPolicy()
	if err != nil {
		return nil, err
	}

	if deps.WarnAfter == 0 {
		deps.WarnAfter = constants.ConfirmWarnAfter
	}

	art, err := compile(ctx, cfg, deps)
	if err != nil {
		return nil, err
	}
	if err := art.WriteABI(cfg.Artifact); err != nil {
		return nil, deployerr.Wrap("write ABI", err)
	}
	deps.Out.GreenCheckmarkToUser("ABI saved to %s", cfg.Artifact)

	deps.Out.PrintToUser("\nConnecting to %s...", cfg.RPCURL)
	client, err := deps.Dial(ctx, cfg.RPCURL)
	if err != nil {
		return nil, deployerr.Wrap("dial rpc", err)
	}
	defer client.Close()
	deps.Out.PrintToUser("Deploying from %s", signer.Address().Hex())

	n := newNarrator(deps.Out, chain.Explorer(cfg.ExplorerURL), policy.String(), deps.WarnAfter)
	d := deployer.New(client, signer, deployer.Config{
		Policy:         policy,
		ConfirmTimeout: cfg.ConfirmTimeout,
	}, deps.Log, deployer.WithObserver(n.observe))

	dep, err := d.Deploy(ctx, art)
	n.stop()
	if err != nil {
		if errors.Is(err, deployer.ErrZeroBalance) {
			deps.Out.PrintToUser("Balance: 0 ETH. Claim test funds first: %s", cfg.FaucetURL)
		}
		if errors.Is(err, deployer.ErrConfirmationAbandoned) && dep != nil {
			deps.Out.WarnToUser("Check %s before deploying again", chain.Explorer(cfg.ExplorerURL).TxURL(dep.TxHash))
		}
		return dep, err
	}
	printSummary(deps.Out, cfg, dep)

	if !cfg.SkipReadCheck {
		deps.Out.PrintToUser("\nTesting contract...")
		result, err := d.ReadCheck(ctx, dep.ContractAddress, art.ABI, cfg.ReadMethod)
		if err != nil {
			deps.Log.Warn("read check failed", zap.Error(err))
			deps.Out.WarnToUser("%s() read check failed: %v", cfg.ReadMethod, err)
		} else {
			deps.Out.GreenCheckmarkToUser("%s() returns: %s", cfg.ReadMethod, result)
		}
	}
	printNextSteps(deps.Out, cfg)
	return dep, nil
}

func compile(ctx context.Context, cfg *config.Config, deps Deps) (*compiler.Artifact, error) {
	st := ux.NewStepTracker(deps.Out, deps.WarnAfter)
	st.Start(fmt.Sprintf("Compiling %s", cfg.Source))

	version, err := deps.Compiler.Version(ctx)
	if err != nil {
		st.Failed(err.Error())
		return nil, deployerr.New(deployerr.KindCompile, "detect solc version", err)
	}
	if err := compiler.CheckVersion(version, constants.MinSolcVersion); err != nil {
		st.Failed(err.Error())
		return nil, deployerr.New(deployerr.KindCompile, "check solc version", err)
	}

	source, err := os.ReadFile(cfg.Source)
	if err != nil {
		st.Failed(err.Error())
		return nil, deployerr.New(deployerr.KindCompile, "read source", err)
	}
	fileName := filepath.Base(cfg.Source)
	out, err := deps.Compiler.Compile(ctx, compiler.NewInput(fileName, source))
	if err != nil {
		st.Failed(err.Error())
		return nil, deployerr.New(deployerr.KindCompile, "run solc", err)
	}
	for _, w := range out.Warnings() {
		if w.Severity == compiler.SeverityInfo {
			deps.Log.Debug("solc diagnostic", zap.String("message", w.Message))
			continue
		}
		deps.Log.Warn("solc diagnostic", zap.String("severity", w.Severity), zap.String("message", w.Message))
	}
	if err := out.Err(); err != nil {
		st.Failed("compilation errors")
		return nil, deployerr.New(deployerr.KindCompile, "compile "+fileName, err)
	}
	art, err := out.Artifact(fileName, cfg.Contract)
	if err != nil {
		st.Failed(err.Error())
		return nil, deployerr.New(deployerr.KindCompile, "extract artifact", err)
	}
	st.Complete(fmt.Sprintf("solc %s", version))
	return art, nil
}

func printSummary(out *ux.UserLog, cfg *config.Config, dep *deployer.Deployment) {
	explorer := chain.Explorer(cfg.ExplorerURL)
	out.PrintLineSeparator()
	out.GreenCheckmarkToUser("Deployment succeeded")
	out.PrintLineSeparator()
	out.PrintToUser("Contract address: %s", dep.ContractAddress.Hex())
	if link := explorer.AddressURL(dep.ContractAddress); link != "" {
		out.PrintToUser("View contract:    %s", link)
	}
	out.PrintToUser("Block:            %s", dep.BlockNumber)
	out.PrintToUser("Gas used:         %s", ux.ConvertToStringWithThousandSeparator(dep.GasUsed))
	out.PrintLineSeparator()
}

func printNextSteps(out *ux.UserLog, cfg *config.Config) {
	out.PrintToUser("\nNext steps:")
	out.PrintToUser("1. Copy the contract address above")
	out.PrintToUser("2. Paste it into your frontend's contract address setting")
	out.PrintToUser("3. Copy %s into your frontend's source folder", cfg.Artifact)
}
