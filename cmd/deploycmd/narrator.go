// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package deploycmd

import (
	"time"

	"github.com/luxfi/simplestore/pkg/chain"
	"github.com/luxfi/simplestore/pkg/deployer"
	"github.com/luxfi/simplestore/pkg/utils"
	"github.com/luxfi/simplestore/pkg/ux"
)

// narrator turns deployment state changes into console output
type narrator struct {
	out       *ux.UserLog
	explorer  chain.Explorer
	policy    string
	warnAfter time.Duration
	spinner   *ux.Spinner
	tracker   *ux.StepTracker

	// closed to stop the slow-confirmation watch, done once it has exited
	quit chan struct{}
	done chan struct{}
}

func newNarrator(out *ux.UserLog, explorer chain.Explorer, policy string, warnAfter time.Duration) *narrator {
	return &narrator{
		out:       out,
		explorer:  explorer,
		policy:    policy,
		warnAfter: warnAfter,
		spinner:   ux.NewSpinner(out.Writer()),
		tracker:   ux.NewStepTracker(out, warnAfter),
	}
}

func (n *narrator) observe(d deployer.Deployment) {
	if d.State.Terminal() {
		n.stop()
	}
	switch d.State {
	case deployer.Unsubmitted:
		n.out.PrintToUser("Balance:             %s ETH", utils.FormatEther(d.Balance))
		n.out.PrintToUser("Suggested gas price: %s gwei", utils.FormatGwei(d.SuggestedGasPrice))
		n.out.PrintToUser("Using gas price:     %s gwei, %s", utils.FormatGwei(d.GasPrice), n.policy)
		n.out.PrintToUser("Gas limit:           %s", ux.ConvertToStringWithThousandSeparator(d.GasLimit))
	case deployer.Broadcast:
		n.out.GreenCheckmarkToUser("Transaction sent")
		n.out.PrintToUser("TX hash: %s", d.TxHash.Hex())
		if link := n.explorer.TxURL(d.TxHash); link != "" {
			n.out.PrintToUser("View TX: %s", link)
		}
	case deployer.Pending:
		n.tracker.Start("Waiting for confirmation")
		n.spinner.Start("mining")
		n.watch()
	case deployer.Confirmed:
		n.tracker.Complete("block " + d.BlockNumber.String())
	case deployer.Abandoned:
		n.tracker.Failed("confirmation deadline elapsed")
	}
}

// watch warns once while the confirmation wait runs past warnAfter.
func (n *narrator) watch() {
	interval := time.Second
	if n.warnAfter < interval {
		interval = n.warnAfter
	}
	if interval <= 0 {
		interval = time.Millisecond
	}
	n.quit = make(chan struct{})
	n.done = make(chan struct{})
	go func() {
		defer close(n.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-n.quit:
				return
			case <-ticker.C:
				n.tracker.CheckWarn()
			}
		}
	}()
}

// stop ends the watch and the spinner. It is safe to call more than once,
// including when the deployment ended without a terminal state.
func (n *narrator) stop() {
	if n.quit != nil {
		close(n.quit)
		<-n.done
		n.quit = nil
	}
	n.spinner.Stop()
}
