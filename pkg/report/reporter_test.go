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

package report

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/nfcbench/pkg/logger"
	"github.com/carverauto/nfcbench/pkg/models"
)

func testRecord() models.ReportRecord {
	return models.ReportRecord{
		DeviceType:   "TestRig 9000",
		DeviceSerial: "SN-123",
		Sequence:     42,
		UID:          "04:A3:FF",
		Timestamp:    "2026-08-31 12:00:00",
	}
}

func submitAndWait(t *testing.T, r Reporter, rec models.ReportRecord) error {
	t.Helper()

	result := make(chan error, 1)
	r.Submit(rec, func(err error) { result <- err })

	select {
	case err := <-result:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("report result callback never fired")
		return nil
	}
}

func TestHTTPReporter_FieldOrderAndFormat(t *testing.T) {
	var gotBody atomic.Value

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		gotBody.Store(string(body))

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	reporter := NewHTTPReporter(srv.URL, time.Second, logger.NewTestLogger())

	require.NoError(t, submitAndWait(t, reporter, testRecord()))

	// Keys must stay in this exact order for the collector.
	assert.Equal(t,
		"DEV_TYPE=TestRig+9000&DEV_SN=SN-123&NFC-COUNTER=42&NFC-UID=04%3AA3%3AFF&NFC-DATETIME=2026-08-31+12%3A00%3A00",
		gotBody.Load())
}

func TestHTTPReporter_SkipsEmptyIdentity(t *testing.T) {
	var calls atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	reporter := NewHTTPReporter(srv.URL, time.Second, logger.NewTestLogger())

	rec := testRecord()
	rec.DeviceType = ""
	rec.DeviceSerial = ""

	require.NoError(t, submitAndWait(t, reporter, rec))
	assert.Equal(t, int64(0), calls.Load())
}

func TestHTTPReporter_PartialIdentityStillSends(t *testing.T) {
	var calls atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	reporter := NewHTTPReporter(srv.URL, time.Second, logger.NewTestLogger())

	rec := testRecord()
	rec.DeviceType = ""

	require.NoError(t, submitAndWait(t, reporter, rec))
	assert.Equal(t, int64(1), calls.Load())
}

func TestHTTPReporter_NonSuccessStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "server error", status: http.StatusInternalServerError},
		{name: "not found", status: http.StatusNotFound},
		{name: "forbidden", status: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("collector says no"))
			}))
			defer srv.Close()

			reporter := NewHTTPReporter(srv.URL, time.Second, logger.NewTestLogger())

			err := submitAndWait(t, reporter, testRecord())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "collector says no")
		})
	}
}

func TestHTTPReporter_TransportFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	reporter := NewHTTPReporter(srv.URL, time.Second, logger.NewTestLogger())

	require.Error(t, submitAndWait(t, reporter, testRecord()))
}

func TestNoopReporter(t *testing.T) {
	require.NoError(t, submitAndWait(t, &NoopReporter{}, testRecord()))
}
