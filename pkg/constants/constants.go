// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import (
	"time"
)

const (
	BaseDirName = ".simplestore"
	LogDir      = "logs"

	DefaultConfigFileName = "config"
	DefaultConfigFileType = "json"
	DefaultEnvFile        = ".env"

	MaxLogFileSize   = 4
	MaxNumOfLogFiles = 5
	RetainOldFiles   = 0 // retain all old log files

	LoggerName = "simplestore"

	// Lisk Sepolia
	DefaultRPCURL      = "https://rpc.sepolia-api.lisk.com"
	DefaultExplorerURL = "https://sepolia-blockscout.lisk.com"
	DefaultFaucetURL   = "https://sepolia-faucet.lisk.com/"

	DefaultSourceFile   = "SimpleStore.sol"
	DefaultContractName = "SimpleStore"
	DefaultArtifactFile = "SimpleStore.json"
	DefaultReadMethod   = "getNumber"
	DefaultSolcBinary   = "solc"
	MinSolcVersion      = "v0.8.0"

	AggressiveGasLimit = 500_000

	// confirmation waits are unbounded unless the operator asks otherwise
	DefaultConfirmTimeout = time.Duration(0)
	ConfirmWarnAfter      = 60 * time.Second

	EnvPrivateKey = "PRIVATE_KEY"
	EnvPrefix     = "SIMPLESTORE"
)

// config keys, shared by flags, env vars and the config file
const (
	ConfigRPCURL         = "rpc-url"
	ConfigPrivateKey     = "private-key"
	ConfigSource         = "source"
	ConfigContract       = "contract"
	ConfigArtifact       = "artifact"
	ConfigSolc           = "solc"
	ConfigGasProfile     = "gas-profile"
	ConfigGasMultiplier  = "gas-multiplier"
	ConfigGasLimit       = "gas-limit"
	ConfigConfirmTimeout = "confirm-timeout"
	ConfigReadMethod     = "read-method"
	ConfigSkipReadCheck  = "skip-read-check"
	ConfigExplorerURL    = "explorer-url"
	ConfigFaucetURL      = "faucet-url"
	ConfigOutput         = "output"
	ConfigQueryTimeout   = "timeout"
	ConfigEnvFile        = "env-file"
)
