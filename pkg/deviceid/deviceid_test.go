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

package deviceid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticResolver(t *testing.T) {
	r := &StaticResolver{Type: "TestRig 9000", Serial: "SN-123"}

	assert.Equal(t, "TestRig 9000", r.DeviceType())
	assert.Equal(t, "SN-123", r.DeviceSerial())
}

func TestReadTrimmed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "product_name")
	require.NoError(t, os.WriteFile(path, []byte("  Widget Mk II \n"), 0600))

	assert.Equal(t, "Widget Mk II", readTrimmed(path))
	assert.Equal(t, "", readTrimmed(filepath.Join(t.TempDir(), "missing")))
}
