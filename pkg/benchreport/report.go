package benchreport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// WriteReport persists the full ordered record list as indented JSON. With an
// empty path a timestamped filename is generated in the working directory.
// Returns the path actually written.
func WriteReport(records []MeasurementRecord, path string) (string, error) {
	if path == "" {
		path = "benchmark_report_" + time.Now().Format("20060102_150405") + ".json"
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return "", err
	}
	return path, nil
}
