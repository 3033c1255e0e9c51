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

//go:generate mockgen -destination=mock_nfc.go -package=nfc github.com/carverauto/nfcbench/pkg/nfc Reader,PrivilegedResetter

// Package nfc abstracts the hardware scanning subsystem. The real radio
// driver lives outside this module; the harness talks to it only through
// the Reader interface.
package nfc

// Tag is the opaque handle delivered by a discovery callback.
type Tag struct {
	ID           []byte
	Technologies []string
}

// DiscoveryCallback is invoked by the driver on its own goroutine whenever
// a tag is presented. The driver serializes callbacks; implementations must
// not assume which goroutine they run on.
type DiscoveryCallback func(t *Tag)

// Reader is the scanning surface of an NFC radio.
type Reader interface {
	// IsEnabled reports whether the radio itself is powered and usable.
	IsEnabled() bool

	// EnableDiscovery arms the reader. The callback fires once per
	// presented tag until DisableDiscovery is called.
	EnableDiscovery(cb DiscoveryCallback) error

	// DisableDiscovery disarms the reader. Safe to call when not armed.
	DisableDiscovery() error
}

// PrivilegedResetter is the hardware-level disable/enable recovery pair.
// It is environment dependent: it may be unavailable or permission-denied,
// and both outcomes are expected rather than exceptional.
type PrivilegedResetter interface {
	// TryReset performs the reset and reports whether it took effect.
	TryReset() bool
}

// NoopResetter is the null object for platforms without a privileged reset.
type NoopResetter struct{}

var _ PrivilegedResetter = (*NoopResetter)(nil)

// TryReset always reports unavailable.
func (*NoopResetter) TryReset() bool {
	return false
}
