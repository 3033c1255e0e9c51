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

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/carverauto/nfcbench/pkg/arming"
	"github.com/carverauto/nfcbench/pkg/config"
	"github.com/carverauto/nfcbench/pkg/deviceid"
	"github.com/carverauto/nfcbench/pkg/lifecycle"
	"github.com/carverauto/nfcbench/pkg/logger"
	"github.com/carverauto/nfcbench/pkg/models"
	"github.com/carverauto/nfcbench/pkg/nfc"
	"github.com/carverauto/nfcbench/pkg/pipeline"
	"github.com/carverauto/nfcbench/pkg/report"
	"github.com/carverauto/nfcbench/pkg/tui"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	// Parse command line flags
	configPath := flag.String("config", "/etc/nfcbench/nfcbench.json", "Path to harness config file")
	headless := flag.Bool("headless", false, "Run without the terminal dashboard")
	flag.Parse()

	ctx, stop := lifecycle.SignalContext(context.Background())
	defer stop()

	// Step 1: Load and validate config
	cfgLoader := config.NewConfig(nil)

	var cfg models.HarnessConfig
	if err := cfgLoader.LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Step 2: Create logger from loaded config
	logConfig := cfg.Logging
	if logConfig == nil {
		logConfig = &logger.Config{
			Level:  "info",
			Output: "stdout",
		}
	}

	harnessLogger, err := lifecycle.CreateComponentLogger("nfcbenchd", logConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Step 3: Wire the harness components
	reader := newReader(&cfg, harnessLogger)
	resolver := newResolver(&cfg, harnessLogger)
	reporter := newReporter(&cfg, harnessLogger)

	pipe := pipeline.New(pipeline.Options{
		Reporter:    reporter,
		Resolver:    resolver,
		HistorySize: cfg.HistorySize,
		Logger:      harnessLogger,
	})

	go pipe.Run(ctx)

	controller := arming.New(arming.Options{
		Reader:        reader,
		Resetter:      nfc.NewPrivilegedResetter(harnessLogger),
		Handler:       pipe.HandleTag,
		RearmInterval: time.Duration(cfg.RearmInterval),
		SettleDelay:   time.Duration(cfg.SettleDelay),
		Logger:        harnessLogger,
	})

	controller.Activate()
	defer controller.Deactivate()

	harnessLogger.Info().
		Str("config", *configPath).
		Bool("reporting", cfg.Report.Enabled).
		Msg("NFC stress harness started")

	// Step 4: Hand the foreground to the dashboard, or just wait for a signal
	if *headless {
		<-ctx.Done()
		return nil
	}

	if err := tui.Run(pipe, controller); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}

	return nil
}

// newReader picks the discovery source. The simulator stands in whenever it
// is configured; real readers attach through the same nfc.Reader surface.
func newReader(cfg *models.HarnessConfig, log logger.Logger) nfc.Reader {
	sim := cfg.Simulator
	if sim == nil {
		sim = &models.SimulatorConfig{}
		log.Info().Msg("No reader configured; using the built-in simulator defaults")
	}

	return nfc.NewSimulatedReader(nfc.SimulatedReaderOptions{
		Interval:     time.Duration(sim.Interval),
		GhostRatio:   sim.GhostRatio,
		UID:          sim.UID,
		Technologies: sim.Technologies,
	}, log)
}

// newResolver pins identity from config when given, otherwise resolves it
// from the host. Partial config falls back per field.
func newResolver(cfg *models.HarnessConfig, log logger.Logger) deviceid.Resolver {
	if cfg.Device.Type != "" && cfg.Device.Serial != "" {
		return &deviceid.StaticResolver{Type: cfg.Device.Type, Serial: cfg.Device.Serial}
	}

	host := deviceid.NewHostResolver(log)
	if cfg.Device.Type == "" && cfg.Device.Serial == "" {
		return host
	}

	r := &deviceid.StaticResolver{Type: cfg.Device.Type, Serial: cfg.Device.Serial}
	if r.Type == "" {
		r.Type = host.DeviceType()
	}

	if r.Serial == "" {
		r.Serial = host.DeviceSerial()
	}

	return r
}

func newReporter(cfg *models.HarnessConfig, log logger.Logger) report.Reporter {
	if !cfg.Report.Enabled {
		return &report.NoopReporter{}
	}

	return report.NewHTTPReporter(cfg.Report.Endpoint, time.Duration(cfg.Report.Timeout), log)
}
