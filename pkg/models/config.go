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

package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/carverauto/nfcbench/pkg/logger"
)

var (
	errInvalidDuration  = errors.New("invalid duration")
	errMissingEndpoint  = errors.New("report.endpoint is required when reporting is enabled")
	errInvalidHistory   = errors.New("history_size must be positive")
	errInvalidIntervals = errors.New("rearm_interval and settle_delay must be positive")
)

// Duration is a time.Duration that unmarshals from either a JSON number
// (nanoseconds) or a Go duration string such as "1s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// ReportConfig configures the reporting pipeline. The endpoint is
// deliberately configuration rather than a hardcoded collector address; the
// wire field names and order are fixed for collector compatibility.
type ReportConfig struct {
	Enabled  bool     `json:"enabled"`
	Endpoint string   `json:"endpoint"`
	Timeout  Duration `json:"timeout,omitempty"`
}

// DeviceConfig optionally pins the device identity reported with each read.
// Empty fields fall back to the host resolver.
type DeviceConfig struct {
	Type   string `json:"type,omitempty"`
	Serial string `json:"serial,omitempty"`
}

// SimulatorConfig configures the built-in simulated reader used for
// unattended soak runs without hardware attached.
type SimulatorConfig struct {
	Interval     Duration `json:"interval,omitempty"`
	GhostRatio   float64  `json:"ghost_ratio,omitempty"` // 0..1 share of nil-tag callbacks
	UID          string   `json:"uid,omitempty"`          // fixed UID; random when empty
	Technologies []string `json:"technologies,omitempty"`
}

// HarnessConfig is the top-level configuration for the stress harness daemon.
type HarnessConfig struct {
	RearmInterval Duration         `json:"rearm_interval,omitempty"` // discovery toggle cadence
	SettleDelay   Duration         `json:"settle_delay,omitempty"`   // delay after a privileged reset
	HistorySize   int              `json:"history_size,omitempty"`
	Report        ReportConfig     `json:"report"`
	Device        DeviceConfig     `json:"device,omitempty"`
	Simulator     *SimulatorConfig `json:"simulator,omitempty"`
	Logging       *logger.Config   `json:"logging,omitempty"`
}

const (
	DefaultRearmInterval = time.Second
	DefaultSettleDelay   = 150 * time.Millisecond
	DefaultHistorySize   = 200
	DefaultReportTimeout = 5 * time.Second
)

// Validate applies defaults and rejects configurations the harness cannot
// run with.
func (c *HarnessConfig) Validate() error {
	if c.RearmInterval == 0 {
		c.RearmInterval = Duration(DefaultRearmInterval)
	}

	if c.SettleDelay == 0 {
		c.SettleDelay = Duration(DefaultSettleDelay)
	}

	if c.HistorySize == 0 {
		c.HistorySize = DefaultHistorySize
	}

	if c.Report.Timeout == 0 {
		c.Report.Timeout = Duration(DefaultReportTimeout)
	}

	if c.RearmInterval < 0 || c.SettleDelay < 0 {
		return errInvalidIntervals
	}

	if c.HistorySize < 0 {
		return errInvalidHistory
	}

	if c.Report.Enabled && c.Report.Endpoint == "" {
		return errMissingEndpoint
	}

	return nil
}
