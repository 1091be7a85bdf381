package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fbx-scene-import/internal/batch"
	"fbx-scene-import/internal/config"
	"fbx-scene-import/internal/diag"
	"fbx-scene-import/internal/raster"
	"fbx-scene-import/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	inputDir := flag.String("input", "", "Directory scanned for scene files (default: .)")
	outputDir := flag.String("output", "", "Output directory (default: <input>/imported)")
	textureDir := flag.String("textures", "", "Texture directory (default: <input>)")
	unit := flag.String("unit", "", "Target unit: mm, cm, dm, m, km, inch, foot, yard, mile (default: m)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	testN := flag.Int("test", 0, "Import only first N files for testing")
	verbose := flag.Bool("v", false, "Print every diagnostic while importing")
	noPreview := flag.Bool("no-preview", false, "Skip WebP preview rendering")

	flag.Parse()

	// Load config
	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		InputDir:   *inputDir,
		OutputDir:  *outputDir,
		TextureDir: *textureDir,
		TargetUnit: *unit,
		Workers:    *workers,
		Verbose:    *verbose,
		NoPreview:  *noPreview,
	})

	importOpt, err := cfg.ImportOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	files, err := batch.Discover(cfg.InputDir, cfg.OutputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *testN > 0 && *testN < len(files) {
		files = files[:*testN]
	}
	if len(files) == 0 {
		fmt.Println("No scene files to import.")
		os.Exit(0)
	}

	// Build texture index
	var texCache *texture.Cache
	if cfg.Preview {
		texIndex := texture.BuildIndex(cfg.TextureDir)
		texCache = texture.NewCache(texIndex, cfg.DefaultTexture)
		fmt.Printf("Textures: %d indexed\n", texIndex.Len())
	}

	fmt.Printf("Scene importer → %s\n", cfg.TargetUnit)
	fmt.Printf("Files: %d, Workers: %d\n", len(files), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()

	renderOpt := raster.DefaultOptions()
	renderOpt.Size = cfg.RenderSize
	renderOpt.Supersample = cfg.Supersample
	if cfg.Pitch != 0 || cfg.Yaw != 0 {
		renderOpt.Pitch, renderOpt.Yaw = cfg.Pitch, cfg.Yaw
	}

	batchCfg := batch.Config{
		InputDir:  cfg.InputDir,
		OutputDir: cfg.OutputDir,
		Import:    importOpt,
		Preview:   cfg.Preview,
		Render:    renderOpt,
		FillRatio: cfg.FillRatio,
		Workers:   cfg.Workers,
	}
	if texCache != nil {
		batchCfg.TexResolver = texCache
	}
	if cfg.Verbose {
		batchCfg.Sink = diag.NewWriterSink(os.Stderr, diag.Info)
	}

	results := batch.Run(batchCfg, files)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	success, failed := batch.Summary(results)
	warnings := 0
	for _, r := range results {
		for _, is := range r.Issues {
			if is.Severity == diag.Warning {
				warnings++
			}
		}
	}
	fmt.Printf("Imported: %d/%d (%d warnings)\n", success, len(files), warnings)

	if failed > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		shown := 0
		for _, r := range results {
			if r.Success {
				continue
			}
			if shown == 20 {
				fmt.Printf("  ... and %d more\n", failed-shown)
				break
			}
			fmt.Printf("  %s: %s\n", r.Source, r.Error)
			shown++
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
