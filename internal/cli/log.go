// Package cli implements the geograph command-line interface.
//
// # Commands
//
//   - build: GeoJSON features in, topology graph out (json, geojson, dot, svg)
//   - render: convert a built topology to another format
//   - rules: validate and list the configured merge rules
//   - inspect: browse the nodes of a built topology
//   - serve: run the HTTP API
//   - cache: manage the local cache
//
// All commands accept --config for the TOML configuration and --verbose for
// debug logging. The logger reaches commands through the [CLI] value.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Built roads.geojson (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
