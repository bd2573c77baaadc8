// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import "errors"

var (
	ErrNoPrivateKey = errors.New("\n\nNo private key found. To resolve this:\n- Set PRIVATE_KEY in your environment or in a .env file.\n- Or set private-key in the config file.\n") //nolint:stylecheck
	ErrNoRPCURL     = errors.New("rpc url is empty")
)
