// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package status

import (
	"math/big"
	"time"

	"github.com/luxfi/geth/common"

	"github.com/luxfi/simplestore/pkg/utils"
)

// WalletStatus is the state of one account on the connected network
type WalletStatus struct {
	Address   common.Address
	Balance   *big.Int
	Nonce     uint64
	ChainID   *big.Int
	Network   string
	RPCURL    string
	Timestamp time.Time
	Duration  time.Duration
}

// WalletView is the serialized form of WalletStatus. Integers wider than 64
// bits are rendered as decimal strings.
type WalletView struct {
	Address    string `json:"address" yaml:"address"`
	Balance    string `json:"balance" yaml:"balance"`
	BalanceWei string `json:"balanceWei" yaml:"balanceWei"`
	Nonce      uint64 `json:"nonce" yaml:"nonce"`
	ChainID    string `json:"chainId" yaml:"chainId"`
	Network    string `json:"network" yaml:"network"`
	RPCURL     string `json:"rpcUrl,omitempty" yaml:"rpcUrl,omitempty"`
	Timestamp  string `json:"timestamp" yaml:"timestamp"`
	DurationMS int64  `json:"durationMs" yaml:"durationMs"`
}

func (s *WalletStatus) View() WalletView {
	return WalletView{
		Address:    s.Address.Hex(),
		Balance:    utils.FormatEther(s.Balance),
		BalanceWei: s.Balance.String(),
		Nonce:      s.Nonce,
		ChainID:    s.ChainID.String(),
		Network:    s.Network,
		RPCURL:     s.RPCURL,
		Timestamp:  s.Timestamp.UTC().Format(time.RFC3339),
		DurationMS: s.Duration.Milliseconds(),
	}
}
