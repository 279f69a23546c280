package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry records one planned job in the output manifest.
type ManifestEntry struct {
	Name    string `json:"name"`
	File    string `json:"file"`
	Plan    string `json:"plan,omitempty"`
	Error   string `json:"error,omitempty"`
	Success bool   `json:"success"`
}

// WriteManifest writes manifest.json next to the plan files.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Name:    r.Name,
			File:    r.File,
			Success: r.Success,
			Error:   r.Error,
		}
		if r.Success {
			entries[i].Plan = r.Name + ".plan.json"
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
