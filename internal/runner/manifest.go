package runner

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Capture describes one written screenshot.
type Capture struct {
	Name       string    `json:"name"`
	Selector   string    `json:"selector"`
	Path       string    `json:"path"`
	CapturedAt time.Time `json:"captured_at"`
	Bytes      int64     `json:"bytes"`
}

// Manifest summarizes a successful run. It is only persisted when a
// manifest path is configured.
type Manifest struct {
	TargetURL  string    `json:"target_url"`
	Engine     string    `json:"engine"`
	Viewport   string    `json:"viewport"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Captures   []Capture `json:"captures"`
}

func writeManifest(path string, manifest Manifest) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(manifest)
}

// LoadManifest reads a manifest from disk.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}
