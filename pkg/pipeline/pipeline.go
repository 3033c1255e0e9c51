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

// Package pipeline processes discovery callbacks end to end: classify,
// count, update the current reading, log, and hand off to the reporter.
//
// All mutable state lives on a single event goroutine fed by a command
// channel. Discovery callbacks and report completions enqueue commands;
// nothing mutates state from any other goroutine. This is what makes the
// gapless sequence counter and the single-slot current reading safe without
// locks.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/carverauto/nfcbench/pkg/deviceid"
	"github.com/carverauto/nfcbench/pkg/logger"
	"github.com/carverauto/nfcbench/pkg/models"
	"github.com/carverauto/nfcbench/pkg/nfc"
	"github.com/carverauto/nfcbench/pkg/readlog"
	"github.com/carverauto/nfcbench/pkg/report"
	"github.com/carverauto/nfcbench/pkg/tag"
)

const commandBuffer = 128

// Reading is the single current-reading slot: exactly one of Event or Error
// is set once any callback has been processed.
type Reading struct {
	Event *models.ReadEvent
	Error *models.LogEntry
}

// Snapshot is an immutable copy of the pipeline's visible state, taken on
// the event goroutine for the presentation layer.
type Snapshot struct {
	Sequence uint64
	Current  Reading
	History  []models.LogEntry
	Errors   []models.LogEntry
}

// Options configures a Pipeline.
type Options struct {
	Reporter    report.Reporter
	Resolver    deviceid.Resolver
	HistorySize int
	Logger      logger.Logger
}

// Pipeline orchestrates one discovery event end to end.
type Pipeline struct {
	reporter report.Reporter
	logger   logger.Logger

	deviceType   string
	deviceSerial string

	cmds chan func()
	done chan struct{}

	// Owned by the run goroutine.
	seq     uint64
	current Reading
	history *readlog.Store
	errors  *readlog.Store
}

// New creates a pipeline. Device identity is resolved once; it cannot
// change while the process runs.
func New(opts Options) *Pipeline {
	p := &Pipeline{
		reporter: opts.Reporter,
		logger:   opts.Logger,
		cmds:     make(chan func(), commandBuffer),
		done:     make(chan struct{}),
		history:  readlog.New(opts.HistorySize),
		errors:   readlog.New(opts.HistorySize),
	}

	if opts.Resolver != nil {
		p.deviceType = opts.Resolver.DeviceType()
		p.deviceSerial = opts.Resolver.DeviceSerial()
	}

	return p
}

// Run executes the event loop until ctx is cancelled. It must be running
// for HandleTag and Snapshot to make progress.
func (p *Pipeline) Run(ctx context.Context) {
	defer close(p.done)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Uint64("reads", p.seq).Msg("Read pipeline stopping")
			return
		case fn := <-p.cmds:
			fn()
		}
	}
}

// HandleTag is the discovery callback target. Safe to call from the driver
// goroutine; the timestamp is captured here so queueing delay never skews
// it. Every invocation produces exactly one read event or error entry.
func (p *Pipeline) HandleTag(t *nfc.Tag) {
	now := time.Now().Format(models.TimestampFormat)

	p.enqueue(func() {
		p.process(t, now)
	})
}

// Snapshot returns a copy of the visible state. Returns the zero Snapshot
// after the pipeline has stopped.
func (p *Pipeline) Snapshot() Snapshot {
	reply := make(chan Snapshot, 1)

	p.enqueue(func() {
		reply <- Snapshot{
			Sequence: p.seq,
			Current:  p.current,
			History:  p.history.Entries(),
			Errors:   p.errors.Entries(),
		}
	})

	select {
	case s := <-reply:
		return s
	case <-p.done:
		return Snapshot{}
	}
}

// enqueue marshals fn onto the event goroutine; dropped once the pipeline
// has stopped, since late completions are best-effort logs, not state.
func (p *Pipeline) enqueue(fn func()) {
	select {
	case p.cmds <- fn:
	case <-p.done:
	}
}

func (p *Pipeline) process(t *nfc.Tag, now string) {
	p.seq++

	if t == nil {
		p.installError(now, "discovery callback delivered no tag handle")
		return
	}

	event := &models.ReadEvent{
		UID:          tag.UID(t.ID),
		Capabilities: tag.Classify(t.Technologies),
		Timestamp:    now,
		Sequence:     p.seq,
	}

	p.demoteCurrent()
	p.current = Reading{Event: event}

	p.logger.Debug().
		Uint64("sequence", event.Sequence).
		Str("uid", event.UID).
		Str("capabilities", event.CapabilityLabel()).
		Msg("Tag read")

	p.submitReport(event)
}

// installError records a discovery fault as the current reading. The
// sequence counter has already been advanced; faults never halt reading.
func (p *Pipeline) installError(now, text string) {
	entry := models.LogEntry{
		Sequence:  p.seq,
		Timestamp: now,
		Text:      text,
		IsError:   true,
	}

	p.demoteCurrent()
	p.current = Reading{Error: &entry}
	p.errors.Push(entry)

	p.logger.Warn().
		Uint64("sequence", entry.Sequence).
		Str("fault", text).
		Msg("Discovery fault")
}

// demoteCurrent folds the previous current reading into the history log.
// A previous error entry is already in the error log, so only read events
// move.
func (p *Pipeline) demoteCurrent() {
	if p.current.Event == nil {
		return
	}

	ev := p.current.Event
	p.history.Push(models.LogEntry{
		Sequence:  ev.Sequence,
		Timestamp: ev.Timestamp,
		Text:      fmt.Sprintf("%s (%s)", ev.UID, ev.CapabilityLabel()),
	})
}

// submitReport hands a snapshot to the reporter. The completion re-enters
// the event loop, so a failure arriving after several further reads still
// logs against the original read's timestamp.
func (p *Pipeline) submitReport(event *models.ReadEvent) {
	rec := models.ReportRecord{
		DeviceType:   p.deviceType,
		DeviceSerial: p.deviceSerial,
		Sequence:     event.Sequence,
		UID:          event.UID,
		Timestamp:    event.Timestamp,
	}

	p.reporter.Submit(rec, func(err error) {
		if err == nil {
			return
		}

		p.enqueue(func() {
			p.recordReportFailure(rec, err)
		})
	})
}

func (p *Pipeline) recordReportFailure(rec models.ReportRecord, err error) {
	p.errors.Push(models.LogEntry{
		Sequence:  rec.Sequence,
		Timestamp: rec.Timestamp,
		Text:      fmt.Sprintf("report for read #%d (%s) failed: %v", rec.Sequence, rec.UID, err),
		IsError:   true,
	})

	p.logger.Warn().
		Uint64("sequence", rec.Sequence).
		Err(err).
		Msg("Report delivery failed")
}
