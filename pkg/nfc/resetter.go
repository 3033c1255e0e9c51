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
	"context"
	"os/exec"
	"time"

	"github.com/carverauto/nfcbench/pkg/logger"
)

const resetCommandTimeout = 5 * time.Second

// RfkillResetter power-cycles the NFC radio through rfkill. It needs root;
// on an unprivileged process or a host without an nfc rfkill class both
// commands fail and TryReset reports unavailable, which the arming
// controller treats as normal.
type RfkillResetter struct {
	command string
	logger  logger.Logger
}

var _ PrivilegedResetter = (*RfkillResetter)(nil)

// NewPrivilegedResetter creates the platform resetter.
func NewPrivilegedResetter(log logger.Logger) *RfkillResetter {
	return &RfkillResetter{
		command: "rfkill",
		logger:  log,
	}
}

// TryReset blocks and unblocks the nfc rfkill class. The unblock runs even
// when the block fails, so a failed attempt never leaves the radio off.
func (r *RfkillResetter) TryReset() bool {
	blockErr := r.rfkill("block")
	unblockErr := r.rfkill("unblock")

	if blockErr != nil || unblockErr != nil {
		r.logger.Debug().
			AnErr("block", blockErr).
			AnErr("unblock", unblockErr).
			Msg("Privileged radio reset unavailable")

		return false
	}

	return true
}

func (r *RfkillResetter) rfkill(action string) error {
	ctx, cancel := context.WithTimeout(context.Background(), resetCommandTimeout)
	defer cancel()

	return exec.CommandContext(ctx, r.command, action, "nfc").Run()
}
