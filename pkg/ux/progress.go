// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ux

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

const spinnerInterval = 100 * time.Millisecond

// Spinner animates an indeterminate wait on a terminal. On anything else it
// prints the description once.
type Spinner struct {
	writer io.Writer
	isTTY  bool
	bar    *progressbar.ProgressBar
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

func NewSpinner(writer io.Writer) *Spinner {
	return &Spinner{
		writer: writer,
		isTTY:  isTerminal(writer),
	}
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// Start begins animating. Calling Start on a running spinner is a no-op.
func (s *Spinner) Start(description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	if !s.isTTY {
		_, _ = fmt.Fprintf(s.writer, "%s...\n", description)
		return
	}
	s.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(s.writer),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", description)),
	)
	s.stop = make(chan struct{})
	s.wg.Add(1)
	go s.spin(s.bar, s.stop)
}

func (s *Spinner) spin(bar *progressbar.ProgressBar, stop chan struct{}) {
	defer s.wg.Done()
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			_ = bar.Add(1)
		case <-stop:
			return
		}
	}
}

// Stop halts the animation and clears its line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop == nil {
		return
	}
	close(s.stop)
	s.wg.Wait()
	_ = s.bar.Finish()
	s.stop = nil
	s.bar = nil
}
