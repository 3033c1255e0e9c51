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

// Package deviceid resolves the device type and serial reported with each
// read. Both values are opaque strings to the rest of the harness.
package deviceid

import (
	"os"
	"strings"

	"github.com/shirou/gopsutil/v3/host"

	"github.com/carverauto/nfcbench/pkg/logger"
)

// OEM firmware identity paths, preferred over platform lookups when present.
const (
	dmiProductNamePath   = "/sys/devices/virtual/dmi/id/product_name"
	dmiProductSerialPath = "/sys/devices/virtual/dmi/id/product_serial"
)

// Resolver provides the device identity attached to report records.
type Resolver interface {
	DeviceType() string
	DeviceSerial() string
}

// HostResolver reads identity from OEM firmware paths, falling back to the
// platform's stable per-install host id. Values are resolved once and
// cached; identity does not change while the process runs.
type HostResolver struct {
	deviceType   string
	deviceSerial string
}

var _ Resolver = (*HostResolver)(nil)

// NewHostResolver resolves and caches the host identity.
func NewHostResolver(log logger.Logger) *HostResolver {
	r := &HostResolver{}

	r.deviceType = readTrimmed(dmiProductNamePath)
	if r.deviceType == "" {
		if info, err := host.Info(); err == nil {
			r.deviceType = strings.TrimSpace(info.Platform)
		}
	}

	r.deviceSerial = readTrimmed(dmiProductSerialPath)
	if r.deviceSerial == "" {
		if id, err := host.HostID(); err == nil {
			r.deviceSerial = strings.TrimSpace(id)
		}
	}

	log.Debug().
		Str("device_type", r.deviceType).
		Str("device_serial", r.deviceSerial).
		Msg("Resolved device identity")

	return r
}

func (r *HostResolver) DeviceType() string {
	return r.deviceType
}

func (r *HostResolver) DeviceSerial() string {
	return r.deviceSerial
}

// StaticResolver pins identity from configuration.
type StaticResolver struct {
	Type   string
	Serial string
}

var _ Resolver = (*StaticResolver)(nil)

func (r *StaticResolver) DeviceType() string {
	return r.Type
}

func (r *StaticResolver) DeviceSerial() string {
	return r.Serial
}

func readTrimmed(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(data))
}
