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
	"encoding/hex"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carverauto/nfcbench/pkg/logger"
)

const defaultSimInterval = 500 * time.Millisecond

// SimulatedReader emits synthetic discovery callbacks at a fixed interval,
// standing in for a radio during soak runs without hardware attached. A
// configurable share of callbacks deliver a nil tag to exercise the ghost
// read path.
type SimulatedReader struct {
	interval     time.Duration
	ghostRatio   float64
	id           []byte
	technologies []string
	logger       logger.Logger

	mu     sync.Mutex
	stop   chan struct{}
	armed  bool
	closed sync.WaitGroup
}

var _ Reader = (*SimulatedReader)(nil)

// SimulatedReaderOptions configures a SimulatedReader.
type SimulatedReaderOptions struct {
	Interval     time.Duration
	GhostRatio   float64  // 0..1 share of nil-tag callbacks
	UID          string   // colon-separated hex octets; random when empty
	Technologies []string // defaults to an ISO-DEP + NDEF tag
}

// NewSimulatedReader creates a simulated reader.
func NewSimulatedReader(opts SimulatedReaderOptions, log logger.Logger) *SimulatedReader {
	if opts.Interval <= 0 {
		opts.Interval = defaultSimInterval
	}

	id := parseHexUID(opts.UID)
	if id == nil {
		// Random but stable for the process, like a single physical tag
		// left on the reader.
		u := uuid.New()
		id = u[:7]
	}

	techs := opts.Technologies
	if len(techs) == 0 {
		techs = []string{"android.nfc.tech.IsoDep", "android.nfc.tech.NfcA", "android.nfc.tech.Ndef"}
	}

	return &SimulatedReader{
		interval:     opts.Interval,
		ghostRatio:   opts.GhostRatio,
		id:           id,
		technologies: techs,
		logger:       log,
	}
}

// IsEnabled always reports true; the simulated radio cannot power down.
func (*SimulatedReader) IsEnabled() bool {
	return true
}

// EnableDiscovery starts the emitter goroutine. Enabling an armed reader is
// a no-op, matching driver behavior.
func (s *SimulatedReader) EnableDiscovery(cb DiscoveryCallback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.armed {
		return nil
	}

	s.armed = true
	s.stop = make(chan struct{})
	s.closed.Add(1)

	go s.emit(cb, s.stop)

	s.logger.Debug().
		Dur("interval", s.interval).
		Float64("ghost_ratio", s.ghostRatio).
		Msg("Simulated discovery enabled")

	return nil
}

// DisableDiscovery stops the emitter and waits for it to exit, so no
// callback fires after this returns.
func (s *SimulatedReader) DisableDiscovery() error {
	s.mu.Lock()

	if !s.armed {
		s.mu.Unlock()
		return nil
	}

	s.armed = false
	close(s.stop)
	s.mu.Unlock()

	s.closed.Wait()

	return nil
}

func (s *SimulatedReader) emit(cb DiscoveryCallback, stop chan struct{}) {
	defer s.closed.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if s.ghostRatio > 0 && rand.Float64() < s.ghostRatio {
				cb(nil)
				continue
			}

			cb(&Tag{
				ID:           append([]byte(nil), s.id...),
				Technologies: append([]string(nil), s.technologies...),
			})
		}
	}
}

// parseHexUID parses "04:A3:FF" style strings; returns nil on any parse
// problem so the caller falls back to a random id.
func parseHexUID(uid string) []byte {
	if uid == "" {
		return nil
	}

	id, err := hex.DecodeString(strings.ReplaceAll(uid, ":", ""))
	if err != nil || len(id) == 0 {
		return nil
	}

	return id
}
