package batch

import (
	"encoding/json"
	"fmt"
	"os"

	"fbx-scene-import/internal/diag"
)

// ManifestEntry represents one imported file in the output manifest.
type ManifestEntry struct {
	Source string       `json:"source"`
	Scene  string       `json:"scene,omitempty"`
	Nodes  int          `json:"nodes"`
	Meshes int          `json:"meshes"`
	Factor float64      `json:"unit_factor,omitempty"`
	Tree   string       `json:"tree,omitempty"`
	Image  string       `json:"image,omitempty"`
	Error  string       `json:"error,omitempty"`
	Issues []diag.Issue `json:"issues,omitempty"`
}

// WriteManifest writes manifest.json describing every result.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Source: r.Source,
			Scene:  r.Scene,
			Nodes:  r.Nodes,
			Meshes: r.Meshes,
			Factor: r.Factor,
			Tree:   r.Tree,
			Image:  r.Image,
			Error:  r.Error,
			Issues: r.Issues,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("batch: encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("batch: write %s: %w", path, err)
	}
	return nil
}

// Summary counts successful and failed results.
func Summary(results []Result) (ok, failed int) {
	for _, r := range results {
		if r.Success {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}
