// internal/snapshot/writer.go - File sink for sync snapshots
package snapshot

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

const fileHeader = "# seq-sentry sync snapshot\n"

// Writer persists one Record per run to a fixed path, replacing whatever the
// previous run left there.
type Writer struct {
	path   string
	logger *slog.Logger
}

func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

// Save writes the record as a single human-readable YAML document. The write
// goes through a temp file and rename so a crash never leaves a half-written
// snapshot behind.
func (w *Writer) Save(record Record) error {
	data, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	tmp := w.path + ".tmp"
	if err := os.WriteFile(tmp, append([]byte(fileHeader), data...), 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	if err := os.Rename(tmp, w.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	w.logger.Debug("Snapshot written", "path", w.path, "bytes", len(data))

	return nil
}
