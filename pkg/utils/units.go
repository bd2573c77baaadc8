// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"math/big"
	"strings"
)

const (
	GweiDecimals  = 9
	EtherDecimals = 18
)

// FormatUnits renders value / 10^decimals exactly, always keeping at least
// one fractional digit ("1.0", "2.5", "0.000000001").
func FormatUnits(value *big.Int, decimals int) string {
	if value == nil {
		return "0.0"
	}
	abs := new(big.Int).Abs(value)
	base := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, frac := new(big.Int).QuoRem(abs, base, new(big.Int))

	fracStr := frac.String()
	if pad := decimals - len(fracStr); pad > 0 {
		fracStr = strings.Repeat("0", pad) + fracStr
	}
	fracStr = strings.TrimRight(fracStr, "0")
	if fracStr == "" {
		fracStr = "0"
	}

	sign := ""
	if value.Sign() < 0 {
		sign = "-"
	}
	return sign + whole.String() + "." + fracStr
}

// FormatEther renders a wei amount in ether.
func FormatEther(wei *big.Int) string {
	return FormatUnits(wei, EtherDecimals)
}

// FormatGwei renders a wei amount in gwei.
func FormatGwei(wei *big.Int) string {
	return FormatUnits(wei, GweiDecimals)
}
