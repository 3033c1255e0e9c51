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

// Package tag derives a stable identifier and capability labels from raw
// tag data. All functions are pure and never fail.
package tag

import (
	"fmt"
	"strings"
)

// UnknownCapability is the sentinel label for tags whose technology list
// matches no known marker.
const UnknownCapability = "Unknown"

// capability markers in fixed output order: physical-layer/protocol markers
// first, data-format markers last. The key is the normalized technology
// name; see normalize.
var capabilityMarkers = []struct {
	key   string
	label string
}{
	{key: "isodep", label: "ISO-DEP"},
	{key: "nfca", label: "NFC-A"},
	{key: "nfcb", label: "NFC-B"},
	{key: "nfcf", label: "NFC-F"},
	{key: "nfcv", label: "NFC-V"},
	{key: "mifareclassic", label: "MIFARE Classic"},
	{key: "mifareultralight", label: "MIFARE Ultralight"},
	{key: "ndef", label: "NDEF"},
	{key: "ndefformatable", label: "NDEF Formatable"},
}

// UID renders id bytes as uppercase hex octets joined by colons, e.g.
// [0x04, 0xA3, 0xFF] -> "04:A3:FF". An absent or empty id yields "".
func UID(id []byte) string {
	if len(id) == 0 {
		return ""
	}

	var b strings.Builder

	b.Grow(len(id)*3 - 1)

	for i, octet := range id {
		if i > 0 {
			b.WriteByte(':')
		}

		fmt.Fprintf(&b, "%02X", octet)
	}

	return b.String()
}

// Classify maps a tag's reported technology list to capability labels in
// marker order. Technologies outside the known marker set are ignored; an
// empty result collapses to the Unknown sentinel.
func Classify(technologies []string) []string {
	present := make(map[string]bool, len(technologies))

	for _, tech := range technologies {
		present[normalize(tech)] = true
	}

	var caps []string

	for _, m := range capabilityMarkers {
		if present[m.key] {
			caps = append(caps, m.label)
		}
	}

	if len(caps) == 0 {
		return []string{UnknownCapability}
	}

	return caps
}

// Label joins capability labels into the display form, e.g. "ISO-DEP, NDEF".
func Label(capabilities []string) string {
	return strings.Join(capabilities, ", ")
}

// normalize reduces a reported technology name to a comparable key. Driver
// stacks report technologies as qualified class names ("android.nfc.tech.IsoDep")
// or bare markers ("ISO-DEP"); both forms collapse to the same key.
func normalize(tech string) string {
	if idx := strings.LastIndex(tech, "."); idx >= 0 {
		tech = tech[idx+1:]
	}

	tech = strings.ToLower(tech)
	tech = strings.ReplaceAll(tech, "-", "")
	tech = strings.ReplaceAll(tech, "_", "")
	tech = strings.ReplaceAll(tech, " ", "")

	return tech
}
