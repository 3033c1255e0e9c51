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

// Package report delivers read records to the remote collector, best effort
// and off the event thread. Each record is independent and at most once:
// there is no retry, no backoff and no queue, so a failing collector can
// never slow tag discovery.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/carverauto/nfcbench/pkg/logger"
	"github.com/carverauto/nfcbench/pkg/models"
)

const (
	defaultTimeout = 5 * time.Second
	maxBodySnippet = 256
)

var errReportStatus = errors.New("collector rejected report")

// Reporter submits one record per read. Submit must not block the caller;
// done is invoked exactly once from the reporter's own goroutine with nil on
// success. Marshaling the result back to the owning goroutine is the
// caller's concern.
type Reporter interface {
	Submit(rec models.ReportRecord, done func(error))
}

// HTTPReporter posts form-encoded records to a collector endpoint.
type HTTPReporter struct {
	endpoint string
	client   *http.Client
	logger   logger.Logger
}

var _ Reporter = (*HTTPReporter)(nil)

// NewHTTPReporter creates a reporter for the given endpoint. timeout bounds
// both the connect and the response phases; zero means 5s.
func NewHTTPReporter(endpoint string, timeout time.Duration, log logger.Logger) *HTTPReporter {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &HTTPReporter{
		endpoint: endpoint,
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: timeout,
				}).DialContext,
				ResponseHeaderTimeout: timeout,
			},
			Timeout: 2 * timeout,
		},
		logger: log,
	}
}

// Submit implements Reporter. A record with neither device type nor serial
// carries nothing the collector can key on, so it is skipped and counted as
// success.
func (r *HTTPReporter) Submit(rec models.ReportRecord, done func(error)) {
	go func() {
		if rec.DeviceType == "" && rec.DeviceSerial == "" {
			done(nil)
			return
		}

		done(r.post(rec))
	}()
}

func (r *HTTPReporter) post(rec models.ReportRecord) error {
	body := encodeRecord(rec)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, r.endpoint, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build report request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("report delivery failed: %w", err)
	}

	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			r.logger.Debug().Err(cerr).Msg("failed to close report response body")
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySnippet))

		return fmt.Errorf("%w: HTTP %d %s", errReportStatus, resp.StatusCode,
			strings.TrimSpace(string(snippet)))
	}

	r.logger.Debug().
		Uint64("sequence", rec.Sequence).
		Str("uid", rec.UID).
		Msg("Report delivered")

	return nil
}

// encodeRecord renders the fixed-order form body. The collector depends on
// the exact key order, which url.Values.Encode would alphabetize away.
func encodeRecord(rec models.ReportRecord) string {
	pairs := []struct{ key, value string }{
		{"DEV_TYPE", rec.DeviceType},
		{"DEV_SN", rec.DeviceSerial},
		{"NFC-COUNTER", strconv.FormatUint(rec.Sequence, 10)},
		{"NFC-UID", rec.UID},
		{"NFC-DATETIME", rec.Timestamp},
	}

	var b strings.Builder

	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}

		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}

	return b.String()
}

// NoopReporter is used when reporting is disabled; every submission
// succeeds without touching the network.
type NoopReporter struct{}

var _ Reporter = (*NoopReporter)(nil)

func (*NoopReporter) Submit(_ models.ReportRecord, done func(error)) {
	go done(nil)
}
