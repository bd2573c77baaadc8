// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package deployer

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/luxfi/geth/common"
	luxlog "github.com/luxfi/log"
	ginkgo "github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/luxfi/simplestore/pkg/deployerr"
	"github.com/luxfi/simplestore/pkg/gasprice"
	"github.com/luxfi/simplestore/pkg/mocks"
)

var _ = ginkgo.Describe("[Deploy lifecycle]", func() {
	var (
		backend *mocks.ChainBackend
		states  []State
		cfg     Config
	)

	ginkgo.BeforeEach(func() {
		backend = mocks.NewChainBackend()
		backend.BalanceVal = big.NewInt(1)
		backend.GasPriceVal = big.NewInt(10)
		states = nil
		policy, err := gasprice.PolicyByName(gasprice.ProfileAggressive)
		gomega.Expect(err).Should(gomega.BeNil())
		cfg = Config{Policy: policy}
	})

	newDeployer := func() *Deployer {
		return New(backend, testSigner(), cfg, luxlog.NewNoOpLogger(), WithObserver(func(d Deployment) {
			states = append(states, d.State)
		}))
	}

	ginkgo.It("confirms a deployment with the aggressive policy", func() {
		dep, err := newDeployer().Deploy(context.Background(), testArtifact())
		gomega.Expect(err).Should(gomega.BeNil())

		sent := backend.SentTxs()
		gomega.Expect(sent).Should(gomega.HaveLen(1))
		gomega.Expect(sent[0].GasPrice()).Should(gomega.Equal(big.NewInt(15)))
		gomega.Expect(sent[0].Gas()).Should(gomega.Equal(uint64(500_000)))
		gomega.Expect(sent[0].To()).Should(gomega.BeNil())
		gomega.Expect(sent[0].Data()).Should(gomega.Equal(testArtifact().Bytecode))

		gomega.Expect(dep.State).Should(gomega.Equal(Confirmed))
		gomega.Expect(dep.TxHash).Should(gomega.Equal(sent[0].Hash()))
		gomega.Expect(dep.ContractAddress).Should(gomega.Equal(common.CreateAddress(dep.From, 0)))
		gomega.Expect(states).Should(gomega.Equal([]State{Unsubmitted, Broadcast, Pending, Confirmed}))
	})

	ginkgo.It("uses the network gas estimate with the standard policy", func() {
		policy, err := gasprice.PolicyByName(gasprice.ProfileStandard)
		gomega.Expect(err).Should(gomega.BeNil())
		cfg.Policy = policy
		backend.EstimateGasVal = 123_456

		dep, err := newDeployer().Deploy(context.Background(), testArtifact())
		gomega.Expect(err).Should(gomega.BeNil())
		gomega.Expect(dep.GasPrice).Should(gomega.Equal(big.NewInt(10)))
		gomega.Expect(dep.GasLimit).Should(gomega.Equal(uint64(123_456)))
		gomega.Expect(backend.Calls("EstimateGas")).Should(gomega.Equal(1))
	})

	ginkgo.It("never submits with a zero balance", func() {
		backend.BalanceVal = big.NewInt(0)

		dep, err := newDeployer().Deploy(context.Background(), testArtifact())
		gomega.Expect(dep).Should(gomega.BeNil())
		gomega.Expect(errors.Is(err, ErrZeroBalance)).Should(gomega.BeTrue())
		gomega.Expect(deployerr.Classify(err)).Should(gomega.Equal(deployerr.KindPrecondition))
		gomega.Expect(backend.Calls("SendTransaction")).Should(gomega.Equal(0))
		gomega.Expect(states).Should(gomega.BeEmpty())
	})

	ginkgo.It("never submits without a fee estimate", func() {
		backend.GasPriceVal = nil

		_, err := newDeployer().Deploy(context.Background(), testArtifact())
		gomega.Expect(errors.Is(err, gasprice.ErrNoFeeEstimate)).Should(gomega.BeTrue())
		gomega.Expect(deployerr.Classify(err)).Should(gomega.Equal(deployerr.KindPrecondition))
		gomega.Expect(backend.Calls("SendTransaction")).Should(gomega.Equal(0))
	})

	ginkgo.It("abandons the wait when the confirmation deadline elapses", func() {
		backend.Mine = false
		cfg.ConfirmTimeout = 50 * time.Millisecond

		dep, err := newDeployer().Deploy(context.Background(), testArtifact())
		gomega.Expect(errors.Is(err, ErrConfirmationAbandoned)).Should(gomega.BeTrue())
		gomega.Expect(dep.State).Should(gomega.Equal(Abandoned))
		gomega.Expect(dep.TxHash).ShouldNot(gomega.BeZero())
		gomega.Expect(err.Error()).Should(gomega.ContainSubstring(dep.TxHash.Hex()))
		gomega.Expect(backend.SentTxs()).Should(gomega.HaveLen(1))
		gomega.Expect(states).Should(gomega.Equal([]State{Unsubmitted, Broadcast, Pending, Abandoned}))
	})

	ginkgo.It("reports a reverted creation without confirming it", func() {
		backend.ReceiptStatus = 0

		dep, err := newDeployer().Deploy(context.Background(), testArtifact())
		gomega.Expect(errors.Is(err, ErrReverted)).Should(gomega.BeTrue())
		gomega.Expect(dep.State).Should(gomega.Equal(Pending))
	})
})
