// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package statuscmd reports the balance, nonce and network of the
// configured wallet.
package statuscmd

import (
	"context"
	"fmt"
	"strings"

	luxlog "github.com/luxfi/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/luxfi/simplestore/pkg/application"
	"github.com/luxfi/simplestore/pkg/chain"
	"github.com/luxfi/simplestore/pkg/config"
	"github.com/luxfi/simplestore/pkg/deployerr"
	"github.com/luxfi/simplestore/pkg/status"
	"github.com/luxfi/simplestore/pkg/ux"
)

var app *application.SimpleStore

type Deps struct {
	Dial chain.DialFunc
	Log  luxlog.Logger
	Out  *ux.UserLog
}

// simplestore status
func NewCmd(injectedApp *application.SimpleStore) *cobra.Command {
	app = injectedApp
	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Show balance, nonce and network of the configured wallet",
		Aliases: []string{"wallet"},
		Args:    cobra.NoArgs,
		RunE:    statusCmd,
	}
	config.AddStatusFlags(cmd.Flags())
	return cmd
}

func statusCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.Load(viper.GetViper())
	_, err := Run(cmd.Context(), cfg, Deps{
		Dial: chain.Dial,
		Log:  app.Log,
		Out:  ux.Logger,
	})
	return err
}

// Run queries and prints the wallet status. Narration is only printed for
// text output so json and yaml stay machine readable.
func Run(ctx context.Context, cfg *config.Config, deps Deps) (*status.WalletStatus, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	format := strings.ToLower(cfg.Output)
	switch format {
	case "", status.FormatText, status.FormatJSON, status.FormatYAML:
	default:
		return nil, deployerr.New(deployerr.KindConfig, "load output format",
			fmt.Errorf("%w %q", status.ErrUnknownFormat, cfg.Output))
	}
	text := format == "" || format == status.FormatText

	signer, err := cfg.Signer()
	if err != nil {
		return nil, err
	}
	if text {
		deps.Out.PrintToUser("Connecting to %s...", cfg.RPCURL)
	}
	client, err := deps.Dial(ctx, cfg.RPCURL)
	if err != nil {
		return nil, deployerr.Wrap("dial rpc", err)
	}
	defer client.Close()

	if text {
		deps.Out.PrintToUser("Fetching status for %s", signer.Address().Hex())
	}
	s, err := status.NewService(client, cfg.RPCURL, cfg.QueryTimeout).Query(ctx, signer.Address())
	if err != nil {
		return nil, err
	}
	deps.Log.Info("wallet status",
		zap.String("address", s.Address.Hex()),
		zap.Stringer("chainID", s.ChainID),
		zap.Uint64("nonce", s.Nonce),
		zap.Duration("duration", s.Duration),
	)

	if err := status.NewFormatter(deps.Out.Writer()).Format(s, format); err != nil {
		return nil, err
	}
	if text {
		if link := chain.Explorer(cfg.ExplorerURL).AddressURL(s.Address); link != "" {
			deps.Out.PrintToUser("View wallet: %s", link)
		}
		if s.Balance.Sign() == 0 {
			deps.Out.PrintToUser("Balance is 0. Claim test funds: %s", cfg.FaucetURL)
		}
	}
	return s, nil
}
