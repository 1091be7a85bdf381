package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"fbx-scene-import/internal/diag"
	"fbx-scene-import/internal/engine"
	"fbx-scene-import/internal/importer"
	"fbx-scene-import/internal/loader"
	"fbx-scene-import/internal/postprocess"
	"fbx-scene-import/internal/raster"
	"fbx-scene-import/internal/texture"
)

// Config holds all shared resources for a batch run.
type Config struct {
	InputDir    string
	OutputDir   string
	Import      importer.Options
	TexResolver texture.Resolver
	// Sink also receives every diagnostic; nil keeps them in the manifest only.
	Sink      diag.Sink
	Preview   bool
	Render    raster.Options
	FillRatio float64
	Workers   int
}

// Result holds the outcome of importing one file.
type Result struct {
	Source  string
	Scene   string
	Nodes   int
	Meshes  int
	Factor  float64
	Tree    string
	Image   string
	Success bool
	Error   string
	Issues  []diag.Issue
}

// Discover lists the scene files under dir, skipping skip and everything
// below it. JSON files that are not scene documents are ignored.
func Discover(dir, skip string) ([]string, error) {
	skip = filepath.Clean(skip)
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skip != "." && filepath.Clean(path) == skip {
				return filepath.SkipDir
			}
			return nil
		}
		if loader.IsScene(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch: scan %s: %w", dir, err)
	}
	return files, nil
}

// Run imports all files using a worker pool.
func Run(cfg Config, files []string) []Result {
	total := len(files)
	results := make([]Result, total)
	var processed atomic.Int64
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f files/sec\n", p, total, rate)
				}
			}
		}
	}()

	fileChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range fileChan {
				results[idx] = processFile(cfg, files[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range files {
		fileChan <- i
	}
	close(fileChan)

	wg.Wait()
	close(done)

	return results
}

func processFile(cfg Config, path string) (result Result) {
	rel, err := filepath.Rel(cfg.InputDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(path)
	}
	result.Source = filepath.ToSlash(rel)

	var issues diag.Collector
	sink := diag.Tee(&issues, cfg.Sink)
	defer func() { result.Issues = issues.Issues() }()

	res := importer.ImportAll(path, cfg.Import, sink)
	result.Scene = res.SceneName
	result.Nodes = res.Count
	result.Factor = res.Factor
	if !res.OK() {
		result.Error = "import failed"
		if res.Err != nil {
			result.Error = res.Err.Error()
		}
		return result
	}
	res.Root.Walk(func(n *engine.Node) bool {
		if n.Mesh != nil {
			result.Meshes++
		}
		return true
	})

	stem := strings.TrimSuffix(rel, filepath.Ext(rel))
	treePath := filepath.Join(cfg.OutputDir, stem+".tree.json")
	if err := os.MkdirAll(filepath.Dir(treePath), 0755); err != nil {
		result.Error = err.Error()
		return result
	}
	if err := engine.WriteJSON(treePath, res.Root); err != nil {
		result.Error = err.Error()
		return result
	}
	result.Tree = filepath.ToSlash(stem + ".tree.json")

	if cfg.Preview {
		if err := writePreview(cfg, res.Root, filepath.Join(cfg.OutputDir, stem+".webp")); err != nil {
			result.Error = err.Error()
			return result
		}
		result.Image = filepath.ToSlash(stem + ".webp")
	}

	result.Success = true
	return result
}

func writePreview(cfg Config, root *engine.Node, outPath string) error {
	img := raster.Render(root, cfg.TexResolver, cfg.Render)
	if cfg.Render.Supersample > 1 {
		img = postprocess.Downsample(img, cfg.Render.Size)
	}
	if cfg.FillRatio > 0 {
		img = postprocess.Fit(img, cfg.Render.Size, cfg.FillRatio)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("batch: create %s: %w", outPath, err)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("batch: WebP encode %s: %w", outPath, err)
	}
	return nil
}
