// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config resolves the settings of one command invocation from flags,
// environment, .env file and the config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/luxfi/simplestore/pkg/constants"
	"github.com/luxfi/simplestore/pkg/deployerr"
	"github.com/luxfi/simplestore/pkg/gasprice"
	"github.com/luxfi/simplestore/pkg/key"
)

type Config struct {
	RPCURL      string
	PrivateKey  string
	ExplorerURL string
	FaucetURL   string

	Source         string
	Contract       string
	Artifact       string
	Solc           string
	GasProfile     string
	GasMultiplier  uint64
	GasLimit       uint64
	ConfirmTimeout time.Duration
	ReadMethod     string
	SkipReadCheck  bool

	Output       string
	QueryTimeout time.Duration
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(constants.ConfigRPCURL, constants.DefaultRPCURL)
	v.SetDefault(constants.ConfigExplorerURL, constants.DefaultExplorerURL)
	v.SetDefault(constants.ConfigFaucetURL, constants.DefaultFaucetURL)
	v.SetDefault(constants.ConfigSource, constants.DefaultSourceFile)
	v.SetDefault(constants.ConfigContract, constants.DefaultContractName)
	v.SetDefault(constants.ConfigArtifact, constants.DefaultArtifactFile)
	v.SetDefault(constants.ConfigSolc, constants.DefaultSolcBinary)
	v.SetDefault(constants.ConfigGasProfile, gasprice.ProfileAggressive)
	v.SetDefault(constants.ConfigConfirmTimeout, constants.DefaultConfirmTimeout)
	v.SetDefault(constants.ConfigReadMethod, constants.DefaultReadMethod)
	v.SetDefault(constants.ConfigOutput, "text")
	v.SetDefault(constants.ConfigQueryTimeout, time.Duration(0))
}

// BindEnv maps SIMPLESTORE_* variables onto keys. The credential is also
// read from the bare PRIVATE_KEY variable.
func BindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v.BindEnv(constants.ConfigPrivateKey, constants.EnvPrefix+"_"+constants.EnvPrivateKey, constants.EnvPrivateKey)
}

// LoadEnvFile loads path into the process environment without overriding
// variables that are already set. A missing file is only an error when
// required is set.
func LoadEnvFile(path string, required bool) error {
	if err := godotenv.Load(path); err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return deployerr.New(deployerr.KindConfig, "load env file", err)
	}
	return nil
}

func AddNetworkFlags(fs *pflag.FlagSet) {
	fs.String(constants.ConfigRPCURL, constants.DefaultRPCURL, "JSON-RPC endpoint of the target network")
	fs.String(constants.ConfigExplorerURL, constants.DefaultExplorerURL, "block explorer base URL used in links")
	fs.String(constants.ConfigFaucetURL, constants.DefaultFaucetURL, "faucet URL suggested when the account is unfunded")
}

func AddDeployFlags(fs *pflag.FlagSet) {
	fs.String(constants.ConfigSource, constants.DefaultSourceFile, "Solidity source file to compile")
	fs.String(constants.ConfigContract, constants.DefaultContractName, "contract name inside the source file")
	fs.String(constants.ConfigArtifact, constants.DefaultArtifactFile, "path the ABI is written to")
	fs.String(constants.ConfigSolc, constants.DefaultSolcBinary, "solc binary")
	fs.String(constants.ConfigGasProfile, gasprice.ProfileAggressive,
		fmt.Sprintf("gas price profile (%s)", strings.Join(gasprice.Profiles(), ", ")))
	fs.Uint64(constants.ConfigGasMultiplier, 0, "gas price multiplier in percent of the suggested price, overrides the profile")
	fs.Uint64(constants.ConfigGasLimit, 0, "gas limit, overrides the profile")
	fs.Duration(constants.ConfigConfirmTimeout, constants.DefaultConfirmTimeout, "stop waiting for confirmation after this long (0 waits forever)")
	fs.String(constants.ConfigReadMethod, constants.DefaultReadMethod, "no-argument view method called after deployment")
	fs.Bool(constants.ConfigSkipReadCheck, false, "skip the post-deployment read call")
}

func AddStatusFlags(fs *pflag.FlagSet) {
	fs.StringP(constants.ConfigOutput, "o", "text", "output format (text, json, yaml)")
	fs.Duration(constants.ConfigQueryTimeout, 0, "give up on the status reads after this long (0 waits forever)")
}

// Load reads every key from v. Flags must already be bound.
func Load(v *viper.Viper) *Config {
	return &Config{
		RPCURL:         strings.TrimSpace(v.GetString(constants.ConfigRPCURL)),
		PrivateKey:     strings.TrimSpace(v.GetString(constants.ConfigPrivateKey)),
		ExplorerURL:    strings.TrimRight(v.GetString(constants.ConfigExplorerURL), "/"),
		FaucetURL:      v.GetString(constants.ConfigFaucetURL),
		Source:         v.GetString(constants.ConfigSource),
		Contract:       v.GetString(constants.ConfigContract),
		Artifact:       v.GetString(constants.ConfigArtifact),
		Solc:           v.GetString(constants.ConfigSolc),
		GasProfile:     v.GetString(constants.ConfigGasProfile),
		GasMultiplier:  v.GetUint64(constants.ConfigGasMultiplier),
		GasLimit:       v.GetUint64(constants.ConfigGasLimit),
		ConfirmTimeout: v.GetDuration(constants.ConfigConfirmTimeout),
		ReadMethod:     v.GetString(constants.ConfigReadMethod),
		SkipReadCheck:  v.GetBool(constants.ConfigSkipReadCheck),
		Output:         v.GetString(constants.ConfigOutput),
		QueryTimeout:   v.GetDuration(constants.ConfigQueryTimeout),
	}
}

// Validate checks what every command needs before it touches the network.
func (c *Config) Validate() error {
	if c.PrivateKey == "" {
		return deployerr.New(deployerr.KindConfig, "load credential", constants.ErrNoPrivateKey)
	}
	if c.RPCURL == "" {
		return deployerr.New(deployerr.KindConfig, "load rpc url", constants.ErrNoRPCURL)
	}
	if c.ConfirmTimeout < 0 {
		return deployerr.New(deployerr.KindConfig, "load confirm timeout",
			fmt.Errorf("%s must not be negative", constants.ConfigConfirmTimeout))
	}
	if c.QueryTimeout < 0 {
		return deployerr.New(deployerr.KindConfig, "load query timeout",
			fmt.Errorf("%s must not be negative", constants.ConfigQueryTimeout))
	}
	return nil
}

// Signer parses the configured credential.
func (c *Config) Signer() (*key.SoftKey, error) {
	if c.PrivateKey == "" {
		return nil, deployerr.New(deployerr.KindConfig, "load credential", constants.ErrNoPrivateKey)
	}
	k, err := key.NewSoftFromHex(c.PrivateKey)
	if err != nil {
		return nil, deployerr.New(deployerr.KindConfig, "load credential", err)
	}
	return k, nil
}

// GasPolicy resolves the profile and applies the multiplier and limit
// overrides.
func (c *Config) GasPolicy() (gasprice.Policy, error) {
	policy, err := gasprice.PolicyByName(c.GasProfile)
	if err != nil {
		return gasprice.Policy{}, deployerr.New(deployerr.KindConfig, "load gas policy", err)
	}
	if c.GasMultiplier != 0 {
		policy = policy.WithMultiplierPercent(c.GasMultiplier)
	}
	if c.GasLimit != 0 {
		policy = policy.WithGasLimit(c.GasLimit)
	}
	if err := policy.Validate(); err != nil {
		return gasprice.Policy{}, deployerr.New(deployerr.KindConfig, "load gas policy", err)
	}
	return policy, nil
}
