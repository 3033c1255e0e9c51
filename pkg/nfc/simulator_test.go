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

package nfc

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/nfcbench/pkg/logger"
)

func TestSimulatedReader_EmitsConfiguredTag(t *testing.T) {
	sim := NewSimulatedReader(SimulatedReaderOptions{
		Interval:     5 * time.Millisecond,
		UID:          "04:A3:FF",
		Technologies: []string{"android.nfc.tech.IsoDep"},
	}, logger.NewTestLogger())

	var (
		mu   sync.Mutex
		tags []*Tag
	)

	require.NoError(t, sim.EnableDiscovery(func(tag *Tag) {
		mu.Lock()
		tags = append(tags, tag)
		mu.Unlock()
	}))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(tags) >= 3
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, sim.DisableDiscovery())

	mu.Lock()
	defer mu.Unlock()

	for _, tag := range tags {
		require.NotNil(t, tag)
		assert.Equal(t, []byte{0x04, 0xA3, 0xFF}, tag.ID)
		assert.Equal(t, []string{"android.nfc.tech.IsoDep"}, tag.Technologies)
	}
}

func TestSimulatedReader_GhostReads(t *testing.T) {
	sim := NewSimulatedReader(SimulatedReaderOptions{
		Interval:   5 * time.Millisecond,
		GhostRatio: 1.0,
	}, logger.NewTestLogger())

	var (
		mu    sync.Mutex
		count int
	)

	require.NoError(t, sim.EnableDiscovery(func(tag *Tag) {
		mu.Lock()
		defer mu.Unlock()

		assert.Nil(t, tag)
		count++
	}))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count >= 3
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, sim.DisableDiscovery())
}

func TestSimulatedReader_NoCallbackAfterDisable(t *testing.T) {
	sim := NewSimulatedReader(SimulatedReaderOptions{Interval: 5 * time.Millisecond}, logger.NewTestLogger())

	var (
		mu    sync.Mutex
		count int
	)

	require.NoError(t, sim.EnableDiscovery(func(*Tag) {
		mu.Lock()
		count++
		mu.Unlock()
	}))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count >= 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, sim.DisableDiscovery())

	mu.Lock()
	settled := count
	mu.Unlock()

	time.Sleep(30 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, settled, count)
}

func TestSimulatedReader_EnableIdempotent(t *testing.T) {
	sim := NewSimulatedReader(SimulatedReaderOptions{Interval: time.Hour}, logger.NewTestLogger())

	require.NoError(t, sim.EnableDiscovery(func(*Tag) {}))
	require.NoError(t, sim.EnableDiscovery(func(*Tag) {}))
	require.NoError(t, sim.DisableDiscovery())
	require.NoError(t, sim.DisableDiscovery())
}

func TestNoopResetter(t *testing.T) {
	var r NoopResetter

	assert.False(t, r.TryReset())
}

func TestParseHexUID(t *testing.T) {
	tests := []struct {
		name string
		uid  string
		want []byte
	}{
		{name: "colon separated", uid: "04:A3:FF", want: []byte{0x04, 0xA3, 0xFF}},
		{name: "lowercase", uid: "04:a3:ff", want: []byte{0x04, 0xA3, 0xFF}},
		{name: "empty", uid: "", want: nil},
		{name: "garbage", uid: "zz:zz", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseHexUID(tt.uid))
		})
	}
}
