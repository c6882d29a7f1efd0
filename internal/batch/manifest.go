package batch

import (
	"encoding/json"
	"fmt"
	"os"
)

// ManifestEntry represents one rendered seed in the output manifest.
type ManifestEntry struct {
	Seed      int64  `json:"seed"`
	Image     string `json:"image"`
	Vertices  int    `json:"vertices"`
	Triangles int    `json:"triangles"`
	Twigs     int    `json:"twigs"`
	Warnings  int    `json:"warnings,omitempty"`
}

// WriteManifest writes the successful results to path as JSON.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		entries = append(entries, ManifestEntry{
			Seed:      r.Seed,
			Image:     r.Image,
			Vertices:  r.Vertices,
			Triangles: r.Triangles,
			Twigs:     r.Twigs,
			Warnings:  r.Warnings,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("batch: encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("batch: write manifest %s: %w", path, err)
	}
	return nil
}
