// Package file writes each report to a JSON file on disk.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"arbscan/internal/sink"
	"arbscan/internal/strategy"
)

type Sink struct{ path string }

func New(path string) *Sink { return &Sink{path: path} }

func (s *Sink) Name() string { return "file" }

// Publish replaces the file atomically so readers never see a partial report.
func (s *Sink) Publish(_ context.Context, r strategy.Report) error {
	b, err := sink.Encode(r)
	if err != nil {
		return fmt.Errorf("file sink: encode: %w", err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".report-*.json")
	if err != nil {
		return fmt.Errorf("file sink: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(append(b, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file sink: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file sink: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("file sink: rename: %w", err)
	}
	return nil
}
