// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package chain

import (
	"fmt"
	"strings"

	"github.com/luxfi/geth/common"
)

// Explorer builds links into a Blockscout-style block explorer.
type Explorer string

func (e Explorer) base() string {
	return strings.TrimRight(string(e), "/")
}

func (e Explorer) TxURL(hash common.Hash) string {
	if e == "" {
		return ""
	}
	return fmt.Sprintf("%s/tx/%s", e.base(), hash.Hex())
}

func (e Explorer) AddressURL(addr common.Address) string {
	if e == "" {
		return ""
	}
	return fmt.Sprintf("%s/address/%s", e.base(), addr.Hex())
}
