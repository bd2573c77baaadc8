// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package gasprice decides the fee rate and gas limit of a one-shot
// contract-creation transaction.
package gasprice

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/luxfi/simplestore/pkg/constants"
)

const (
	ProfileStandard   = "standard"
	ProfileAggressive = "aggressive"
)

var (
	ErrNoFeeEstimate  = errors.New("network returned no gas price estimate")
	ErrUnknownProfile = errors.New("unknown gas profile")
	ErrInvalidFactor  = errors.New("gas price multiplier must be at least 1")
)

// Policy scales the network-suggested gas price by Numerator/Denominator.
// A zero GasLimit leaves the limit to the network's estimate.
type Policy struct {
	Name        string
	Numerator   uint64
	Denominator uint64
	GasLimit    uint64
}

// Params are the submission fields produced by a Policy.
type Params struct {
	SuggestedGasPrice *big.Int
	GasPrice          *big.Int
	GasLimit          uint64
}

var profiles = map[string]Policy{
	ProfileStandard: {
		Name:        ProfileStandard,
		Numerator:   1,
		Denominator: 1,
	},
	ProfileAggressive: {
		Name:        ProfileAggressive,
		Numerator:   150,
		Denominator: 100,
		GasLimit:    constants.AggressiveGasLimit,
	},
}

// Profiles returns the names of the built-in profiles.
func Profiles() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func PolicyByName(name string) (Policy, error) {
	p, ok := profiles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Policy{}, fmt.Errorf("%w %q (expected one of %s)", ErrUnknownProfile, name, strings.Join(Profiles(), ", "))
	}
	return p, nil
}

// WithMultiplierPercent overrides the scaling factor with percent/100.
func (p Policy) WithMultiplierPercent(percent uint64) Policy {
	p.Numerator = percent
	p.Denominator = 100
	return p
}

// WithGasLimit overrides the gas limit.
func (p Policy) WithGasLimit(limit uint64) Policy {
	p.GasLimit = limit
	return p
}

func (p Policy) Validate() error {
	if p.Denominator == 0 || p.Numerator < p.Denominator {
		return fmt.Errorf("%w (got %d/%d)", ErrInvalidFactor, p.Numerator, p.Denominator)
	}
	return nil
}

// Apply returns floor(suggested * Numerator / Denominator). The product is
// taken before the division so the fee is never undervalued by truncation.
func (p Policy) Apply(suggested *big.Int) (*big.Int, error) {
	if suggested == nil || suggested.Sign() <= 0 {
		return nil, ErrNoFeeEstimate
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	price := new(big.Int).Mul(suggested, new(big.Int).SetUint64(p.Numerator))
	return price.Quo(price, new(big.Int).SetUint64(p.Denominator)), nil
}

func (p Policy) Params(suggested *big.Int) (Params, error) {
	price, err := p.Apply(suggested)
	if err != nil {
		return Params{}, err
	}
	return Params{
		SuggestedGasPrice: new(big.Int).Set(suggested),
		GasPrice:          price,
		GasLimit:          p.GasLimit,
	}, nil
}

func (p Policy) String() string {
	if p.Denominator == 0 {
		return p.Name
	}
	pct := new(big.Rat).SetFrac(
		new(big.Int).SetUint64(p.Numerator*100),
		new(big.Int).SetUint64(p.Denominator),
	)
	return fmt.Sprintf("%s (%s%% of suggested price)", p.Name, pct.FloatString(0))
}
