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

package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/nfcbench/pkg/deviceid"
	"github.com/carverauto/nfcbench/pkg/logger"
	"github.com/carverauto/nfcbench/pkg/models"
	"github.com/carverauto/nfcbench/pkg/nfc"
)

// captureReporter records submissions and lets the test decide when and how
// each completion fires.
type captureReporter struct {
	mu      sync.Mutex
	records []models.ReportRecord
	dones   []func(error)
}

func (r *captureReporter) Submit(rec models.ReportRecord, done func(error)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, rec)
	r.dones = append(r.dones, done)
}

func (r *captureReporter) submitted() []models.ReportRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]models.ReportRecord(nil), r.records...)
}

func (r *captureReporter) complete(i int, err error) {
	r.mu.Lock()
	done := r.dones[i]
	r.mu.Unlock()

	done(err)
}

func startPipeline(t *testing.T, reporter *captureReporter) *Pipeline {
	t.Helper()

	p := New(Options{
		Reporter:    reporter,
		Resolver:    &deviceid.StaticResolver{Type: "TestRig 9000", Serial: "SN-123"},
		HistorySize: 10,
		Logger:      logger.NewTestLogger(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go p.Run(ctx)

	return p
}

func validTag() *nfc.Tag {
	return &nfc.Tag{
		ID:           []byte{0x04, 0xA3, 0xFF},
		Technologies: []string{"android.nfc.tech.IsoDep", "android.nfc.tech.Ndef"},
	}
}

func waitForSequence(t *testing.T, p *Pipeline, want uint64) Snapshot {
	t.Helper()

	var snap Snapshot

	require.Eventually(t, func() bool {
		snap = p.Snapshot()
		return snap.Sequence == want
	}, 2*time.Second, time.Millisecond)

	return snap
}

func TestPipeline_SequenceCountsEveryCallback(t *testing.T) {
	reporter := &captureReporter{}
	p := startPipeline(t, reporter)

	// Mix of valid and invalid handles; the counter must count them all.
	callbacks := []*nfc.Tag{validTag(), nil, validTag(), nil, nil, validTag(), validTag()}

	for _, cb := range callbacks {
		p.HandleTag(cb)
	}

	snap := waitForSequence(t, p, uint64(len(callbacks)))

	assert.Equal(t, uint64(len(callbacks)), snap.Sequence)

	// Only valid reads reach the reporter, each with its own sequence.
	recs := reporter.submitted()
	require.Len(t, recs, 4)
	assert.Equal(t, uint64(1), recs[0].Sequence)
	assert.Equal(t, uint64(3), recs[1].Sequence)
	assert.Equal(t, uint64(6), recs[2].Sequence)
	assert.Equal(t, uint64(7), recs[3].Sequence)
}

func TestPipeline_ValidReadBecomesCurrent(t *testing.T) {
	p := startPipeline(t, &captureReporter{})

	p.HandleTag(validTag())

	snap := waitForSequence(t, p, 1)

	require.NotNil(t, snap.Current.Event)
	assert.Nil(t, snap.Current.Error)
	assert.Equal(t, "04:A3:FF", snap.Current.Event.UID)
	assert.Equal(t, []string{"ISO-DEP", "NDEF"}, snap.Current.Event.Capabilities)
	assert.Equal(t, uint64(1), snap.Current.Event.Sequence)
	assert.Empty(t, snap.History)
	assert.Empty(t, snap.Errors)
}

func TestPipeline_PreviousReadDemotedToHistory(t *testing.T) {
	p := startPipeline(t, &captureReporter{})

	p.HandleTag(validTag())
	p.HandleTag(validTag())
	p.HandleTag(validTag())

	snap := waitForSequence(t, p, 3)

	require.NotNil(t, snap.Current.Event)
	assert.Equal(t, uint64(3), snap.Current.Event.Sequence)

	// Two demoted reads, most recent first.
	require.Len(t, snap.History, 2)
	assert.Equal(t, uint64(2), snap.History[0].Sequence)
	assert.Equal(t, uint64(1), snap.History[1].Sequence)
	assert.Contains(t, snap.History[0].Text, "04:A3:FF")
	assert.Contains(t, snap.History[0].Text, "ISO-DEP, NDEF")
}

func TestPipeline_NilTagBecomesErrorEntry(t *testing.T) {
	p := startPipeline(t, &captureReporter{})

	p.HandleTag(validTag())
	p.HandleTag(nil)

	snap := waitForSequence(t, p, 2)

	// The fault is the current reading, the valid read moved to history.
	require.NotNil(t, snap.Current.Error)
	assert.Nil(t, snap.Current.Event)
	assert.Equal(t, uint64(2), snap.Current.Error.Sequence)
	assert.True(t, snap.Current.Error.IsError)

	require.Len(t, snap.History, 1)
	assert.Equal(t, uint64(1), snap.History[0].Sequence)

	require.Len(t, snap.Errors, 1)
	assert.Equal(t, uint64(2), snap.Errors[0].Sequence)
}

func TestPipeline_FaultsNeverStopReading(t *testing.T) {
	p := startPipeline(t, &captureReporter{})

	for i := 0; i < 20; i++ {
		p.HandleTag(nil)
	}

	p.HandleTag(validTag())

	snap := waitForSequence(t, p, 21)

	require.NotNil(t, snap.Current.Event)
	assert.Equal(t, uint64(21), snap.Current.Event.Sequence)
	assert.Len(t, snap.Errors, 10) // bounded at HistorySize
}

func TestPipeline_LateReportFailureKeepsOriginalTimestamp(t *testing.T) {
	reporter := &captureReporter{}
	p := startPipeline(t, reporter)

	p.HandleTag(validTag())
	waitForSequence(t, p, 1)

	recs := reporter.submitted()
	require.Len(t, recs, 1)
	original := recs[0]

	// Three further reads happen before the first report resolves.
	p.HandleTag(validTag())
	p.HandleTag(validTag())
	p.HandleTag(validTag())
	waitForSequence(t, p, 4)

	reporter.complete(0, assert.AnError)

	var snap Snapshot

	require.Eventually(t, func() bool {
		snap = p.Snapshot()
		return len(snap.Errors) == 1
	}, 2*time.Second, time.Millisecond)

	assert.Equal(t, original.Sequence, snap.Errors[0].Sequence)
	assert.Equal(t, original.Timestamp, snap.Errors[0].Timestamp)
	assert.True(t, snap.Errors[0].IsError)
}

func TestPipeline_ReportSuccessLeavesNoTrace(t *testing.T) {
	reporter := &captureReporter{}
	p := startPipeline(t, reporter)

	p.HandleTag(validTag())
	waitForSequence(t, p, 1)

	reporter.complete(0, nil)

	// Give a success completion a chance to (wrongly) surface.
	time.Sleep(20 * time.Millisecond)

	snap := p.Snapshot()
	assert.Empty(t, snap.Errors)
}

func TestPipeline_ReportRecordCarriesIdentity(t *testing.T) {
	reporter := &captureReporter{}
	p := startPipeline(t, reporter)

	p.HandleTag(validTag())
	waitForSequence(t, p, 1)

	recs := reporter.submitted()
	require.Len(t, recs, 1)
	assert.Equal(t, "TestRig 9000", recs[0].DeviceType)
	assert.Equal(t, "SN-123", recs[0].DeviceSerial)
	assert.Equal(t, "04:A3:FF", recs[0].UID)
}

func TestPipeline_SnapshotAfterStop(t *testing.T) {
	reporter := &captureReporter{}

	p := New(Options{
		Reporter:    reporter,
		Resolver:    &deviceid.StaticResolver{},
		HistorySize: 10,
		Logger:      logger.NewTestLogger(),
	})

	ctx, cancel := context.WithCancel(context.Background())

	go p.Run(ctx)

	p.HandleTag(validTag())
	waitForSequence(t, p, 1)

	cancel()

	// Once stopped, snapshots and late completions are inert.
	require.Eventually(t, func() bool {
		return p.Snapshot().Sequence == 0
	}, 2*time.Second, time.Millisecond)

	reporter.complete(0, assert.AnError) // must not hang or panic
	p.HandleTag(validTag())              // must not hang
}
