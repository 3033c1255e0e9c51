/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package arming keeps the scanning surface discoverable and actively
// defeats controller-level "tag already seen" suppression by toggling
// discovery on a fixed cadence. Faults while toggling are expected from an
// unreliable radio stack and are never fatal: the tick swallows them and
// tries again next time.
package arming

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/carverauto/nfcbench/pkg/logger"
	"github.com/carverauto/nfcbench/pkg/models"
	"github.com/carverauto/nfcbench/pkg/nfc"
)

const (
	// DefaultRearmInterval is the fixed, non-adaptive toggle cadence.
	DefaultRearmInterval = time.Second

	// DefaultSettleDelay gives the radio time to come back after a
	// privileged reset before arming.
	DefaultSettleDelay = 150 * time.Millisecond
)

// Status is an immutable snapshot of the controller's state for the
// presentation layer.
type Status struct {
	State    models.ArmingState
	RadioOff bool // radio reports itself disabled; user action required
}

// Options configures a Controller.
type Options struct {
	Reader        nfc.Reader
	Resetter      nfc.PrivilegedResetter
	Handler       nfc.DiscoveryCallback
	RearmInterval time.Duration
	SettleDelay   time.Duration
	Logger        logger.Logger
}

// Controller owns the arming lifecycle. Activate and Deactivate are
// idempotent and intended for the owning goroutine; all other state
// transitions happen on the controller's internal run goroutine, which is
// the single writer of the arming state.
type Controller struct {
	reader   nfc.Reader
	resetter nfc.PrivilegedResetter
	handler  nfc.DiscoveryCallback
	interval time.Duration
	settle   time.Duration
	logger   logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	// toggleMu serializes every reader toggle against deactivation, so a
	// disable/enable pair in flight on the run goroutine cannot leave
	// discovery armed after Deactivate returns.
	toggleMu    sync.Mutex
	deactivated bool

	generation atomic.Uint64
	status     atomic.Value // Status
}

// New creates a controller in the disarmed state.
func New(opts Options) *Controller {
	if opts.RearmInterval <= 0 {
		opts.RearmInterval = DefaultRearmInterval
	}

	if opts.SettleDelay <= 0 {
		opts.SettleDelay = DefaultSettleDelay
	}

	if opts.Resetter == nil {
		opts.Resetter = &nfc.NoopResetter{}
	}

	c := &Controller{
		reader:   opts.Reader,
		resetter: opts.Resetter,
		handler:  opts.Handler,
		interval: opts.RearmInterval,
		settle:   opts.SettleDelay,
		logger:   opts.Logger,
	}

	c.status.Store(Status{State: models.StateDisarmed})

	return c
}

// Status returns the last published controller state.
func (c *Controller) Status() Status {
	return c.status.Load().(Status)
}

// Activate starts the reset-and-arm sequence and the periodic re-arm timer.
// Calling it while active is a no-op.
func (c *Controller) Activate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})

	c.toggleMu.Lock()
	c.deactivated = false
	c.toggleMu.Unlock()

	gen := c.generation.Add(1)

	go c.run(ctx, gen, c.done)
}

// Deactivate cancels the re-arm timer and disables discovery, waiting out
// any discovery toggle already in flight so the surface is down when it
// returns. An in-flight privileged reset is allowed to run to completion;
// its result is ignored and cannot re-arm the reader. Calling it while
// inactive is a no-op.
func (c *Controller) Deactivate() {
	c.mu.Lock()

	if c.cancel == nil {
		c.mu.Unlock()
		return
	}

	c.cancel()
	c.cancel = nil
	c.mu.Unlock()

	// Taking toggleMu waits out any disable/enable pair already in flight
	// on the run goroutine; the flag stops every pair after this one. The
	// disable then runs last, so the surface is down when we return.
	c.toggleMu.Lock()
	c.deactivated = true

	if err := c.reader.DisableDiscovery(); err != nil {
		c.logger.Debug().Err(err).Msg("Failed to disable discovery on deactivation")
	}
	c.toggleMu.Unlock()

	c.generation.Add(1) // orphan any late publish from the old run
	c.status.Store(Status{State: models.StateDisarmed})
}

// Done reports the channel closed when the current run goroutine exits.
// Nil when the controller was never activated.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.done
}

func (c *Controller) run(ctx context.Context, gen uint64, done chan struct{}) {
	defer close(done)

	c.publish(gen, Status{State: models.StateResetting})

	// The privileged reset may be unavailable or fail; both are expected.
	// Only a successful reset needs settling time.
	if c.resetter.TryReset() {
		c.logger.Info().Dur("settle", c.settle).Msg("Privileged radio reset applied")

		select {
		case <-time.After(c.settle):
		case <-ctx.Done():
			return
		}
	}

	if ctx.Err() != nil {
		return
	}

	c.arm(ctx, gen)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.rearm(ctx, gen)
		}
	}
}

// arm enables discovery if the radio is usable. A disabled radio is not an
// error: the state is surfaced and each tick retries until it comes back.
func (c *Controller) arm(ctx context.Context, gen uint64) {
	if !c.reader.IsEnabled() {
		c.publish(gen, Status{State: models.StateDisarmed, RadioOff: true})
		c.logger.Warn().Msg("NFC radio is disabled; waiting for it to come back")

		return
	}

	c.toggleMu.Lock()
	defer c.toggleMu.Unlock()

	if c.deactivated || ctx.Err() != nil {
		return
	}

	if err := c.reader.EnableDiscovery(c.handler); err != nil {
		c.logger.Debug().Err(err).Msg("Failed to enable discovery; will retry on next tick")
		return
	}

	c.publish(gen, Status{State: models.StateArmed})
}

// rearm performs the disable/enable pair that clears "already seen"
// suppression. Any fault leaves the current state alone and defers to the
// next tick. The whole pair holds toggleMu so deactivation either waits it
// out or prevents it wholesale.
func (c *Controller) rearm(ctx context.Context, gen uint64) {
	if !c.reader.IsEnabled() {
		c.publish(gen, Status{State: models.StateDisarmed, RadioOff: true})
		return
	}

	c.toggleMu.Lock()
	defer c.toggleMu.Unlock()

	if c.deactivated || ctx.Err() != nil {
		return
	}

	if err := c.reader.DisableDiscovery(); err != nil {
		c.logger.Debug().Err(err).Msg("Discovery toggle (disable) failed; will retry on next tick")
		return
	}

	if err := c.reader.EnableDiscovery(c.handler); err != nil {
		c.logger.Debug().Err(err).Msg("Discovery toggle (enable) failed; will retry on next tick")
		return
	}

	c.publish(gen, Status{State: models.StateArmed})
}

// publish stores status unless a newer activation has superseded this run.
func (c *Controller) publish(gen uint64, s Status) {
	if c.generation.Load() != gen {
		return
	}

	c.status.Store(s)
}
