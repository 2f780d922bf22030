package monitor

import (
	"fmt"
	"os"
	"path/filepath"
)

// prepareExportDir creates the export directory and removes series left by a
// previous run so the dashboard never mixes runs.
func (m *Monitor) prepareExportDir() error {
	if err := os.MkdirAll(m.cfg.ExportDir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	stale, err := filepath.Glob(filepath.Join(m.cfg.ExportDir, "*"+exportSuffix))
	if err != nil {
		return fmt.Errorf("list stale exports: %w", err)
	}
	for _, f := range stale {
		if err := os.Remove(f); err != nil {
			m.log.Warn("could not delete stale export", err, map[string]interface{}{"path": f})
			continue
		}
		m.log.Info("deleted stale export", nil, map[string]interface{}{"path": f})
	}
	return nil
}
