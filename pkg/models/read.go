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

// Package models defines the shared data types for the NFC stress harness.
package models

import "strings"

// TimestampFormat is the wall-clock format used for read timestamps and the
// NFC-DATETIME report field.
const TimestampFormat = "2006-01-02 15:04:05"

// ReadEvent is one successful tag discovery. It is created exactly once per
// discovery callback and never mutated afterwards.
type ReadEvent struct {
	UID          string   `json:"uid"`
	Capabilities []string `json:"capabilities"`
	Timestamp    string   `json:"timestamp"`
	Sequence     uint64   `json:"sequence"`
}

// CapabilityLabel renders the capability set as a single display string.
func (e *ReadEvent) CapabilityLabel() string {
	return strings.Join(e.Capabilities, ", ")
}

// LogEntry is a rendered snapshot of a past read or failure, stored in a
// bounded log. Entries are immutable once stored.
type LogEntry struct {
	Sequence  uint64 `json:"sequence"`
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
	IsError   bool   `json:"is_error"`
}

// ReportRecord is the snapshot handed to the reporting pipeline. It is
// decoupled from ReadEvent so a slow or failing report never touches state
// that has already been displayed.
type ReportRecord struct {
	DeviceType   string `json:"device_type"`
	DeviceSerial string `json:"device_serial"`
	Sequence     uint64 `json:"sequence"`
	UID          string `json:"uid"`
	Timestamp    string `json:"timestamp"`
}

// ArmingState describes the arming controller's lifecycle state.
type ArmingState int32

const (
	StateDisarmed ArmingState = iota
	StateResetting
	StateArmed
)

func (s ArmingState) String() string {
	switch s {
	case StateDisarmed:
		return "disarmed"
	case StateResetting:
		return "resetting"
	case StateArmed:
		return "armed"
	default:
		return "unknown"
	}
}
